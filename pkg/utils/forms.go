package utils

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// NonFieldErrors collects errors that do not belong to a single input.
const NonFieldErrors = "__all__"

// FieldErrors maps a form field name to its error messages.
type FieldErrors map[string][]string

func (f FieldErrors) Add(field, message string) {
	f[field] = append(f[field], message)
}

func (f FieldErrors) Has(field string) bool {
	return len(f[field]) > 0
}

var formValidator = newFormValidator()

func newFormValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report errors under the name the browser posted, not the Go field name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("form"), ",")
		switch name {
		case "-":
			return ""
		case "":
			return fld.Name
		}
		return name
	})
	return v
}

// ValidateForm runs the `validate` tags of form and returns nil when it is valid.
func ValidateForm(form any) FieldErrors {
	err := formValidator.Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FieldErrors{NonFieldErrors: {err.Error()}}
	}

	out := FieldErrors{}
	for _, fe := range verrs {
		out.Add(fe.Field(), validationMessage(fe))
	}
	return out
}

func validationMessage(fe validator.FieldError) string {
	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "max":
		if isString {
			return fmt.Sprintf("Ensure this value has at most %s characters (it has %d).", fe.Param(), len([]rune(fmt.Sprint(fe.Value()))))
		}
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", fe.Param())
	case "min":
		if isString {
			return fmt.Sprintf("Ensure this value has at least %s characters.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	case "oneof":
		return fmt.Sprintf("Select a valid choice. %v is not one of the available choices.", fe.Value())
	case "eqfield":
		return "The two password fields didn't match."
	case "alphanumunicode", "username":
		return "Enter a valid username."
	}
	return "Enter a valid value."
}
