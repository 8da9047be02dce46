package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"reflect"
	"strings"

	"barangay/pkg/types"

	"github.com/go-playground/form/v4"
	"github.com/go-playground/validator/v10"
)

const maxBodyBytes = 1 << 20

var (
	decoder  = form.NewDecoder()
	validate = newValidator()
)

var errInvalidBody = types.NewValidationError("invalid request body")

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	return v
}

// decodeBody fills dst from a JSON body or, for plain HTML form posts, from
// the url-encoded or multipart form. Structs carrying validate tags are checked
// afterwards.
func (s *Service) decodeBody(r *http.Request, dst any) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch mediaType {
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return errInvalidBody
		}
		if err := s.decodeForm(dst, r.PostForm); err != nil {
			return err
		}
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
			s.logger.WithError(err).Info("failed to parse multipart body")
			return errInvalidBody
		}
		if err := s.decodeForm(dst, r.MultipartForm.Value); err != nil {
			return err
		}
	default:
		if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
			s.logger.WithError(err).Info("failed to decode json body")
			return errInvalidBody
		}
	}

	return validateStruct(dst)
}

func (s *Service) decodeForm(dst any, values url.Values) error {
	if err := decoder.Decode(dst, values); err != nil {
		s.logger.WithError(err).Info("failed to decode form body")
		return errInvalidBody
	}
	return nil
}

func validateStruct(dst any) error {
	err := validate.Struct(dst)
	if err == nil {
		return nil
	}

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return types.NewValidationError(fieldMessage(fieldErrs[0]))
	}

	return types.NewValidationError(err.Error())
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "datetime":
		return fmt.Sprintf("%s must be a date in YYYY-MM-DD format", fe.Field())
	case "eqfield":
		return fmt.Sprintf("%s must match %s", fe.Field(), strings.ToLower(fe.Param()[:1])+fe.Param()[1:])
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
