package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Identity is the authenticated caller as read from a verified ID token.
type Identity struct {
	UID   string `json:"uid"`
	Email string `json:"email,omitempty"`
}

// Session is what a successful sign-in or sign-up hands back to the client.
type Session struct {
	UID          string `json:"uid"`
	Email        string `json:"email"`
	IDToken      string `json:"id_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"` // seconds
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type SignUpRequest struct {
	Name            string `json:"name" validate:"min=2"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"eqfield=Password"`
}

type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Normalize trims the name and email in place.
func (r *SignUpRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
}

// Validate checks the sign-up form. minPassword is the shortest accepted
// password; the first failing field decides the returned error.
func (r SignUpRequest) Validate(minPassword int) error {
	if err := validate.Struct(r); err != nil {
		return fieldError(err)
	}
	if err := validate.Var(r.Password, fmt.Sprintf("min=%d", minPassword)); err != nil {
		return ErrPasswordTooShort
	}
	return nil
}

func (r *SignInRequest) Validate() error {
	r.Email = strings.TrimSpace(r.Email)
	if err := validate.Struct(r); err != nil {
		return fieldError(err)
	}
	return nil
}

func (r *PasswordResetRequest) Validate() error {
	r.Email = strings.TrimSpace(r.Email)
	if err := validate.Struct(r); err != nil {
		return fieldError(err)
	}
	return nil
}

func fieldError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	switch verrs[0].Field() {
	case "Email":
		return ErrInvalidEmail
	case "Password":
		return ErrPasswordRequired
	case "Name":
		return ErrNameTooShort
	case "ConfirmPassword":
		return ErrPasswordMismatch
	}
	return err
}
