package lifecycle

import (
	"reflect"
	"regexp"
	"strings"
	"time"

	"barangay/internal/utils"
	"barangay/pkg/types"
)

var phonePattern = regexp.MustCompile(`^09\d{9}$`)

var (
	ErrInvalidPhone    = types.NewValidationError("phone number must be 11 digits starting with 09")
	ErrInvalidDOB      = types.NewValidationError("date of birth must be YYYY-MM-DD")
	ErrProfileNames    = types.NewValidationError("first name and last name are required")
	ErrInvalidBirthday = types.NewValidationError("birthday must be YYYY-MM-DD")
)

// NormalizeProfile trims every string field, cleans up the phone numbers
// and recomputes the derived age and residency fields. Blank strings become
// nil so a merge update leaves the stored value alone.
func NormalizeProfile(p *types.Profile, now time.Time) error {
	trimStrings(reflect.ValueOf(p).Elem())

	for _, phone := range []**string{&p.PhoneNumber, &p.AltPhone, &p.EmergencyNumber} {
		if *phone == nil {
			continue
		}
		digits := digitsOnly(**phone)
		if !phonePattern.MatchString(digits) {
			return ErrInvalidPhone
		}
		*phone = &digits
	}

	if p.DOB != nil {
		dob, err := time.Parse(time.DateOnly, *p.DOB)
		if err != nil {
			return ErrInvalidDOB
		}
		p.Age = utils.IntPtr(ComputeAge(dob, now))
	}

	if p.YearStarted != nil {
		years := now.Year() - *p.YearStarted
		if years < 0 {
			years = 0
		}
		p.YearsOfResidency = utils.IntPtr(years)
	}

	return nil
}

// ValidateProfile is the check applied to a resident saving their own
// profile.
func ValidateProfile(p *types.Profile) error {
	if !p.IsComplete() {
		return ErrProfileNames
	}
	return nil
}

func trimStrings(v reflect.Value) {
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		if !field.CanSet() {
			continue
		}

		switch {
		case field.Kind() == reflect.Struct && v.Type().Field(i).Anonymous:
			trimStrings(field)
		case field.Kind() == reflect.Ptr && field.Type().Elem().Kind() == reflect.String:
			if field.IsNil() {
				continue
			}
			trimmed := utils.NilIfBlank(field.Elem().String())
			field.Set(reflect.ValueOf(trimmed))
		}
	}
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
