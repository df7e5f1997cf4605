package validator

import (
	"errors"
	"testing"
)

type registrationForm struct {
	Username string `validate:"required,alphaspace"`
	Password string `validate:"required,password"`
}

func TestNewV10RegistersCustomRules(t *testing.T) {
	// The custom alphaspace message overrides the stock v10 translation;
	// construction must not fail on the duplicate key.
	v, err := NewV10()
	if err != nil {
		t.Fatalf("NewV10: %v", err)
	}

	if err := v.Validate(registrationForm{Username: "Jane Doe", Password: "s3cret-pass"}); err != nil {
		t.Fatalf("valid form rejected: %v", err)
	}
}

func TestValidateTranslatesCustomRules(t *testing.T) {
	v, err := NewV10()
	if err != nil {
		t.Fatalf("NewV10: %v", err)
	}

	err = v.Validate(registrationForm{Username: "j4ne", Password: "short"})

	var fieldErrs FieldErrors
	if !errors.As(err, &fieldErrs) {
		t.Fatalf("error %v is not FieldErrors", err)
	}
	if got := fieldErrs["username"]; got != "Username can contain only letters and spaces" {
		t.Errorf("username message = %q", got)
	}
	if got := fieldErrs["password"]; got != "Password must be 8-72 characters" {
		t.Errorf("password message = %q", got)
	}
}
