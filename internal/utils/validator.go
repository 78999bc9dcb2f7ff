// internal/utils/validator.go
package utils

import (
	"errors"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/prolance/prolance-backend/internal/i18n"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	// Report fields by their JSON name so clients can map errors to inputs.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	validate.RegisterValidation("notblank", validateNotBlank)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func GetValidationErrors(err error) []ValidationError {
	return GetLocalizedValidationErrors(err, "en")
}

func GetLocalizedValidationErrors(err error, lang string) []ValidationError {
	var validationErrors []ValidationError

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		for _, e := range validationErrs {
			validationErrors = append(validationErrors, ValidationError{
				Field:   e.Field(),
				Tag:     e.Tag(),
				Message: getValidationMessage(e, lang),
			})
		}
	}

	return validationErrors
}

func getValidationMessage(e validator.FieldError, lang string) string {
	field := e.Field()
	isString := e.Kind() == reflect.String

	switch e.Tag() {
	case "required", "notblank":
		return i18n.T(lang, i18n.KeyValidationRequired, field)
	case "email":
		return i18n.T(lang, i18n.KeyValidationEmail)
	case "url":
		return i18n.T(lang, i18n.KeyValidationURL, field)
	case "oneof":
		return i18n.T(lang, i18n.KeyValidationOneOf, field, strings.ReplaceAll(e.Param(), " ", ", "))
	case "min", "gte":
		if isString {
			return i18n.T(lang, i18n.KeyValidationTooShort, field, e.Param())
		}
		return i18n.T(lang, i18n.KeyValidationMinValue, field, e.Param())
	case "max", "lte":
		if isString {
			return i18n.T(lang, i18n.KeyValidationTooLong, field, e.Param())
		}
		return i18n.T(lang, i18n.KeyValidationInvalid, field)
	default:
		return i18n.T(lang, i18n.KeyValidationInvalid, field)
	}
}

// RuneLen counts characters, not bytes.
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}
