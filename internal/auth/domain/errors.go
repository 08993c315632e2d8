package domain

import "errors"

var (
	ErrInvalidEmail     = errors.New("please enter a valid email address")
	ErrPasswordRequired = errors.New("password is required")
	ErrPasswordTooShort = errors.New("password is too short")
	ErrNameTooShort     = errors.New("name must be at least 2 characters")
	ErrPasswordMismatch = errors.New("passwords do not match")

	ErrUnauthenticated = errors.New("user not authenticated")
)

// IsValidation reports whether err is a form validation failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidEmail) ||
		errors.Is(err, ErrPasswordRequired) ||
		errors.Is(err, ErrPasswordTooShort) ||
		errors.Is(err, ErrNameTooShort) ||
		errors.Is(err, ErrPasswordMismatch)
}
