package common

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var handleRegex = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

func ValidateHandle(handle string) error {
	handle = strings.TrimSpace(handle)
	if len(handle) < 3 || len(handle) > 15 {
		return errors.New("handle must be between 3 and 15 characters")
	}

	if !handleRegex.MatchString(handle) {
		return errors.New("handle can only contain letters, numbers, and underscores")
	}

	return nil
}

func ValidatePassword(password string) error {
	if len(password) < 6 {
		return errors.New("password must be at least 6 characters long")
	}

	// bcrypt ignores everything past 72 bytes
	if len(password) > 72 {
		return errors.New("password is too long")
	}

	return nil
}

// singleton validator, caches struct info across requests
var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

var fieldMessages = map[string]string{
	"required":         "%s is required",
	"email":            "%s must be a valid email address",
	"required_without": "%s or %s is required",
}

var paramMessages = map[string]string{
	"max": "%s must be at most %s",
	"min": "%s must be at least %s",
	"gt":  "%s must be greater than %s",
}

// ValidateStruct runs the struct tags and flattens failures into one message.
func ValidateStruct(s interface{}) error {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, translate(fe))
	}
	return errors.New(strings.Join(messages, "; "))
}

func translate(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	if tpl, ok := paramMessages[fe.Tag()]; ok {
		return fmt.Sprintf(tpl, field, fe.Param())
	}
	if tpl, ok := fieldMessages[fe.Tag()]; ok {
		if fe.Tag() == "required_without" {
			return fmt.Sprintf(tpl, field, strings.ToLower(fe.Param()))
		}
		return fmt.Sprintf(tpl, field)
	}
	return fmt.Sprintf("%s is invalid", field)
}
