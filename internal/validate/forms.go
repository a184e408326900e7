// Package validate checks user-entered form data before any network call is
// made, mirroring the screens' local required-field checks.
package validate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var v = validator.New()

// Credentials is the login form.
type Credentials struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

// Registration is the sign-up form.
type Registration struct {
	Name     string `validate:"required"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

// BookUploadForm covers the upload screen's required fields: title, PDF and
// category; author and description may be blank.
type BookUploadForm struct {
	Name       string `validate:"required"`
	CategoryID string `validate:"required"`
	PDFPath    string `validate:"required"`
}

// BlogForm is the blog creation form.
type BlogForm struct {
	Title       string `validate:"required"`
	Description string `validate:"required"`
}

// DiaryForm is the diary note creation form.
type DiaryForm struct {
	Title string `validate:"required"`
	Entry string `validate:"required"`
}

// ProfileForm is the edit-profile form.
type ProfileForm struct {
	Name  string `validate:"required"`
	Email string `validate:"required,email"`
}

// Struct validates any of the form types, returning one human-readable error
// joining every failed field.
func Struct(form any) error {
	if err := v.Struct(form); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			msgs := make([]string, 0, len(ve))
			for _, fe := range ve {
				msgs = append(msgs, fieldError(fe))
			}
			return fmt.Errorf("%s", strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

func fieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
