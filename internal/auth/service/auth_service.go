package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cookbook-app/cookbook-backend/internal/auth/domain"
	userdomain "github.com/cookbook-app/cookbook-backend/internal/users/domain"
)

// IdentityProvider performs the hosted authentication calls.
type IdentityProvider interface {
	SignUp(ctx context.Context, name, email, password string) (*domain.Session, error)
	SignIn(ctx context.Context, email, password string) (*domain.Session, error)
	SignOut(ctx context.Context, uid string) error
	SendPasswordReset(ctx context.Context, email string) error
}

// ProfileStore creates and reads the profile document that backs an identity.
type ProfileStore interface {
	CreateProfile(ctx context.Context, uid, name, email string) (*userdomain.User, error)
	GetProfile(ctx context.Context, uid string) (*userdomain.User, error)
}

type Options struct {
	MinPasswordLength int
	CallTimeout       time.Duration
}

type AuthService struct {
	provider IdentityProvider
	profiles ProfileStore
	opts     Options
}

func NewAuthService(provider IdentityProvider, profiles ProfileStore, opts Options) *AuthService {
	if opts.MinPasswordLength < 1 {
		opts.MinPasswordLength = 6
	}
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = 15 * time.Second
	}
	return &AuthService{
		provider: provider,
		profiles: profiles,
		opts:     opts,
	}
}

// SignUp validates the form, creates the identity and writes its profile
// document with no favorites.
func (s *AuthService) SignUp(ctx context.Context, req domain.SignUpRequest) (*domain.Session, error) {
	req.Normalize()
	if err := req.Validate(s.opts.MinPasswordLength); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.CallTimeout)
	defer cancel()

	session, err := s.provider.SignUp(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		return nil, fmt.Errorf("auth: sign up: %w", err)
	}
	if session.Email == "" {
		session.Email = req.Email
	}

	if _, err := s.profiles.CreateProfile(ctx, session.UID, req.Name, session.Email); err != nil {
		return nil, fmt.Errorf("auth: sign up: create profile: %w", err)
	}

	slog.InfoContext(ctx, "user signed up", "uid", session.UID)
	return session, nil
}

func (s *AuthService) SignIn(ctx context.Context, req domain.SignInRequest) (*domain.Session, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.CallTimeout)
	defer cancel()

	session, err := s.provider.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		return nil, fmt.Errorf("auth: sign in: %w", err)
	}
	return session, nil
}

func (s *AuthService) SignOut(ctx context.Context, uid string) error {
	if uid == "" {
		return domain.ErrUnauthenticated
	}
	if err := s.provider.SignOut(ctx, uid); err != nil {
		return fmt.Errorf("auth: sign out: %w", err)
	}
	return nil
}

func (s *AuthService) SendPasswordReset(ctx context.Context, req domain.PasswordResetRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if err := s.provider.SendPasswordReset(ctx, req.Email); err != nil {
		return fmt.Errorf("auth: password reset: %w", err)
	}
	return nil
}

// Me returns the profile of the caller, creating it when the identity
// exists but its profile write never happened.
func (s *AuthService) Me(ctx context.Context, id domain.Identity) (*userdomain.User, error) {
	if id.UID == "" {
		return nil, domain.ErrUnauthenticated
	}

	user, err := s.profiles.GetProfile(ctx, id.UID)
	if errors.Is(err, userdomain.ErrUserNotFound) {
		slog.WarnContext(ctx, "profile missing, recreating", "uid", id.UID)
		return s.profiles.CreateProfile(ctx, id.UID, "", id.Email)
	}
	return user, err
}
