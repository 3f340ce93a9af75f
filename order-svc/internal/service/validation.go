package service

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

var fieldMessages = map[string]string{
	"name":                "Name must be at least 2 characters.",
	"email":               "Please enter a valid email address.",
	"phone":               "Please enter a valid phone number.",
	"message":             "Message must be at least 10 characters.",
	"quantity":            "Please tell us how many you need.",
	"items":               "Please tell us which items you need.",
	"reminder_preference": "Choose email, sms, both or none.",
}

// collectFieldErrors merges validator failures into fields without
// overwriting messages already present.
func collectFieldErrors(err error, fields map[string]string) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return
	}
	for _, fe := range verrs {
		key := fe.Field()
		if _, exists := fields[key]; exists {
			continue
		}
		msg, ok := fieldMessages[key]
		if !ok {
			msg = "This field is invalid."
		}
		fields[key] = msg
	}
}

func validateStruct(v *validator.Validate, s any) error {
	fields := map[string]string{}
	if err := v.Struct(s); err != nil {
		collectFieldErrors(err, fields)
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
