package repository

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/option"

	"github.com/cookbook-app/cookbook-backend/internal/auth/domain"
)

// IdentityRepository is a pass-through to Firebase Authentication. Password
// flows go through the Identity Toolkit REST API with the project's web API
// key; administrative calls use the Admin SDK client.
type IdentityRepository struct {
	toolkit *identitytoolkit.Service
	admin   *auth.Client
}

func NewIdentityRepository(ctx context.Context, webAPIKey string, admin *auth.Client) (*IdentityRepository, error) {
	toolkit, err := identitytoolkit.NewService(ctx, option.WithAPIKey(webAPIKey))
	if err != nil {
		return nil, fmt.Errorf("identity toolkit: %w", err)
	}
	return &IdentityRepository{
		toolkit: toolkit,
		admin:   admin,
	}, nil
}

func (r *IdentityRepository) SignUp(ctx context.Context, name, email, password string) (*domain.Session, error) {
	resp, err := r.toolkit.Relyingparty.SignupNewUser(&identitytoolkit.IdentitytoolkitRelyingpartySignupNewUserRequest{
		DisplayName: name,
		Email:       email,
		Password:    password,
	}).Context(ctx).Do()
	if err != nil {
		return nil, err
	}

	return &domain.Session{
		UID:          resp.LocalId,
		Email:        resp.Email,
		IDToken:      resp.IdToken,
		RefreshToken: resp.RefreshToken,
		ExpiresIn:    resp.ExpiresIn,
	}, nil
}

func (r *IdentityRepository) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	resp, err := r.toolkit.Relyingparty.VerifyPassword(&identitytoolkit.IdentitytoolkitRelyingpartyVerifyPasswordRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}).Context(ctx).Do()
	if err != nil {
		return nil, err
	}

	return &domain.Session{
		UID:          resp.LocalId,
		Email:        resp.Email,
		IDToken:      resp.IdToken,
		RefreshToken: resp.RefreshToken,
		ExpiresIn:    resp.ExpiresIn,
	}, nil
}

// SignOut revokes every refresh token of uid. ID tokens already issued stay
// valid until they expire unless checked with revocation.
func (r *IdentityRepository) SignOut(ctx context.Context, uid string) error {
	return r.admin.RevokeRefreshTokens(ctx, uid)
}

func (r *IdentityRepository) SendPasswordReset(ctx context.Context, email string) error {
	_, err := r.toolkit.Relyingparty.GetOobConfirmationCode(&identitytoolkit.Relyingparty{
		RequestType: "PASSWORD_RESET",
		Email:       email,
	}).Context(ctx).Do()
	return err
}
