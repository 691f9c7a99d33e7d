package validation

import (
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/incvoting/voting-api/internal/domain/delegate"
)

// ValidateRequired checks that a field is not empty.
func ValidateRequired(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return errors.New(fieldName + " is required")
	}
	return nil
}

// ValidateMaxLength checks the maximum length of a string.
func ValidateMaxLength(value string, maxLength int, fieldName string) error {
	if utf8.RuneCountInString(value) > maxLength {
		return errors.New(fieldName + " must be at most " + strconv.Itoa(maxLength) + " characters long")
	}
	return nil
}

// ValidateUUID checks that a string is a valid UUID.
func ValidateUUID(value, fieldName string) error {
	if _, err := uuid.Parse(value); err != nil {
		return errors.New(fieldName + " must be a valid UUID")
	}
	return nil
}

// ValidateEmail checks basic email shape.
func ValidateEmail(email string) error {
	if !strings.Contains(email, "@") {
		return errors.New("email must have a valid format")
	}
	return nil
}

// ValidateToken checks that a delegate token looks like a credential this
// system issued, without touching the database.
func ValidateToken(token string) error {
	if err := ValidateRequired(token, "token"); err != nil {
		return err
	}
	if !strings.HasPrefix(token, delegate.TokenPrefix) {
		return errors.New("token format is not recognized")
	}
	return nil
}

// DelegateValidation groups the delegate registry checks.
type DelegateValidation struct{}

// ValidateName checks a delegate's name.
func (v DelegateValidation) ValidateName(name string) error {
	if err := ValidateRequired(name, "name"); err != nil {
		return err
	}
	return ValidateMaxLength(name, 200, "name")
}

// ValidateZone checks a delegate's zone.
func (v DelegateValidation) ValidateZone(zone string) error {
	if err := ValidateRequired(zone, "zone"); err != nil {
		return err
	}
	return ValidateMaxLength(zone, 100, "zone")
}

// ValidateOptionalEmail accepts an empty email but checks shape when present.
func (v DelegateValidation) ValidateOptionalEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return nil
	}
	return ValidateEmail(email)
}
