package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/ikiraro/portal/internal/pkg/strcase"
)

var (
	// NIST 800-63B: length is the only hard password rule.
	rePassword   = regexp.MustCompile(`^.{8,72}$`)
	reAlphaSpace = regexp.MustCompile(`^[a-zA-Z][a-zA-Z ]*$`)
)

// ErrTranslatorNotFound indicates the English translator could not be loaded.
var ErrTranslatorNotFound = errors.New("translator not found")

// Validator checks request structs against their binding tags.
type Validator interface {
	Validate(data any) error
}

// FieldErrors maps snake_case field names to human-readable messages.
type FieldErrors map[string]string

// Error implements the error interface.
func (fe FieldErrors) Error() string {
	if len(fe) == 0 {
		return "validation error"
	}

	b, err := json.Marshal(fe)
	if err != nil {
		return fmt.Sprintf("validation error (failed to marshal: %v)", err)
	}

	return string(b)
}

// Values returns the field error map.
func (fe FieldErrors) Values() map[string]string {
	return fe
}

// V10 implements Validator on go-playground/validator v10 with English
// translations and the portal's custom rules.
type V10 struct {
	validate   *validator.Validate
	translator ut.Translator
}

// NewV10 builds a V10 validator.
func NewV10() (*V10, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	enLang := en.New()
	uni := ut.New(enLang, enLang)
	enTrans, ok := uni.GetTranslator("en")
	if !ok {
		return nil, ErrTranslatorNotFound
	}

	if err := enTranslations.RegisterDefaultTranslations(validate, enTrans); err != nil {
		return nil, err
	}

	if err := registerCustomRules(validate, enTrans); err != nil {
		return nil, err
	}

	return &V10{validate: validate, translator: enTrans}, nil
}

// Validate validates a struct and returns FieldErrors on failure.
func (v *V10) Validate(data any) error {
	if err := v.validate.Struct(data); err != nil {
		var validateErrs validator.ValidationErrors
		if !errors.As(err, &validateErrs) {
			return err
		}

		out := make(FieldErrors)
		for _, fe := range validateErrs {
			out[strcase.ToLowerSnake(fe.Field())] = fe.Translate(v.translator)
		}

		return out
	}

	return nil
}

func registerCustomRules(validate *validator.Validate, enTrans ut.Translator) error {
	rules := []struct {
		tag     string
		message string
		re      *regexp.Regexp
	}{
		{"password", "{0} must be 8-72 characters", rePassword},
		{"alphaspace", "{0} can contain only letters and spaces", reAlphaSpace},
	}

	for _, rule := range rules {
		re := rule.re
		err := validate.RegisterValidation(rule.tag, func(fl validator.FieldLevel) bool {
			s, ok := fl.Field().Interface().(string)
			if !ok {
				return false
			}

			return re.MatchString(s)
		})
		if err != nil {
			return err
		}

		err = validate.RegisterTranslation(rule.tag, enTrans,
			func(ut ut.Translator) error {
				// Override, v10 ships a stock translation for alphaspace.
				return ut.Add(rule.tag, rule.message, true)
			},
			func(ut ut.Translator, fe validator.FieldError) string {
				t, err := ut.T(fe.Tag(), fe.Field())
				if err != nil {
					return fe.Tag()
				}

				return t
			},
		)
		if err != nil {
			return err
		}
	}

	return nil
}
