// Package validation builds go-playground validators whose messages are translated to English.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

// FieldError is one failed constraint, named by the struct tag the validator was built with
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// Validator checks structs and reports failures as FieldErrors
type Validator struct {
	validate *validator.Validate
	trans    ut.Translator
}

// New creates a validator that names fields after the tagKey struct tag, e.g. "json" or "mapstructure"
func New(tagKey string) (*Validator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, fmt.Errorf("failed to register default translations: %w", err)
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get(tagKey), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := validate.RegisterTranslation("url", trans, func(ut ut.Translator) error {
		return ut.Add("url", "{0} must be an absolute URL such as http://localhost:5001", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("url", fieldPath(fe))
		return t
	}); err != nil {
		return nil, fmt.Errorf("failed to register url translation: %w", err)
	}

	return &Validator{
		validate: validate,
		trans:    trans,
	}, nil
}

// Struct returns the constraints s fails, or an error when s cannot be validated at all
func (v *Validator) Struct(s any) ([]FieldError, error) {
	err := v.validate.Struct(s)
	if err == nil {
		return nil, nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return nil, fmt.Errorf("validate.Struct() > %w", err)
	}

	fieldErrs := make([]FieldError, 0, len(validationErrs))
	for _, fe := range validationErrs {
		fieldErrs = append(fieldErrs, FieldError{
			Field:   fieldPath(fe),
			Tag:     fe.Tag(),
			Message: fe.Translate(v.trans),
		})
	}
	return fieldErrs, nil
}

// fieldPath drops the root struct name from the namespace: "Config.provider.kind" becomes "provider.kind"
func fieldPath(fe validator.FieldError) string {
	namespace := fe.Namespace()
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}
