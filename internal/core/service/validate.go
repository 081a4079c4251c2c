package service

import (
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/masjidmap/auth-service/internal/core/domain"
)

// mobilePattern encodes the regional numbering plan: ten digits, first 6-9.
var mobilePattern = regexp.MustCompile(`^[6-9][0-9]{9}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("mobile", func(fl validator.FieldLevel) bool {
		return mobilePattern.MatchString(fl.Field().String())
	})
	return v
}

// validateRegistration checks the structural rules for registration input and
// collects one message per offending field.
func validateRegistration(name string, identifier domain.Identifier, password string) error {
	fields := make(map[string]string)

	if err := validate.Var(name, "min=2,max=100"); err != nil {
		fields["name"] = "must be between 2 and 100 characters"
	}

	switch identifier.Type {
	case domain.IdentifierEmail:
		if err := validate.Var(identifier.Value, "required,email"); err != nil {
			fields["identifier"] = "must be a valid email address"
		}
	case domain.IdentifierMobile:
		if err := validate.Var(identifier.Value, "required,mobile"); err != nil {
			fields["identifier"] = "must be a 10-digit mobile number starting with 6-9"
		}
	default:
		fields["identifier"] = "type must be email or mobile"
	}

	if err := validate.Var(password, "min=8"); err != nil {
		fields["password"] = "must be at least 8 characters"
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}
