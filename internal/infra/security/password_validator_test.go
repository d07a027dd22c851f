package security

import (
	"errors"
	"testing"
)

func TestDefaultPasswordValidator(t *testing.T) {
	validator := DefaultPasswordValidator()

	cases := []struct {
		name     string
		password string
		wantCode string
	}{
		{"too short", "a1b2c", "min_length"},
		{"no letter", "1234567890", "letter"},
		{"no digit", "abcdefghij", "digit"},
		{"weak", "password1", "weak_password"},
		{"strong", "plasma-koala-atrium-97", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validator.Validate(tc.password)
			if tc.wantCode == "" {
				if err != nil {
					t.Fatalf("expected %q to pass, got %v", tc.password, err)
				}
				return
			}

			var verr *PasswordValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected PasswordValidationError, got %v", err)
			}
			if verr.Code != tc.wantCode {
				t.Fatalf("expected code %q, got %q", tc.wantCode, verr.Code)
			}
		})
	}
}

func TestPasswordValidatorCustomRules(t *testing.T) {
	validator := NewPasswordValidator(MinLengthRule(4))

	if err := validator.Validate("abcd"); err != nil {
		t.Fatalf("expected pass, got %v", err)
	}
	if err := validator.Validate("abc"); err == nil {
		t.Fatalf("expected min length violation")
	}
}
