package lifecycle

import (
	"strings"
	"time"
)

// MinPasswordLength matches the reset-password form rule.
const MinPasswordLength = 6

// TemporaryPassword derives the first-login password handed to a new
// resident: the first name followed by the birthday as YYMMDD, lower-cased.
func TemporaryPassword(firstName, birthday string) (string, error) {
	dob, err := time.Parse(time.DateOnly, strings.TrimSpace(birthday))
	if err != nil {
		return "", ErrInvalidBirthday
	}

	return strings.ToLower(strings.TrimSpace(firstName) + dob.Format("060102")), nil
}
