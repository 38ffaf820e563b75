// Package services contains server-side business logic. This file implements
// AuthService, which handles login and the e-mail verified registration flow.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/soham-jobanputra-prominentpixel/auth-backend/internal/common"
	"github.com/soham-jobanputra-prominentpixel/auth-backend/internal/dbx"
	"github.com/soham-jobanputra-prominentpixel/auth-backend/internal/logging"
	"github.com/soham-jobanputra-prominentpixel/auth-backend/internal/mailer"
	"github.com/soham-jobanputra-prominentpixel/auth-backend/internal/server/auth"
	"github.com/soham-jobanputra-prominentpixel/auth-backend/internal/server/config"
	"github.com/soham-jobanputra-prominentpixel/auth-backend/internal/server/models"
	"github.com/soham-jobanputra-prominentpixel/auth-backend/internal/server/password"
	"github.com/soham-jobanputra-prominentpixel/auth-backend/internal/server/repositories/repomanager"
	"github.com/soham-jobanputra-prominentpixel/auth-backend/internal/server/tokenstore"
	"github.com/uptrace/bun"
)

const (
	msgUserNotFound    = "User not found."
	msgEmailTaken      = "Email already exists."
	msgPasswordConfirm = "Password and Confirm-Password must match."
	msgTokenInvalid    = "Verification token is invalid."
	msgTokenExpired    = "Verification token has expired."
	msgTokenUsed       = "Verification token has already been used."
)

// RegisterInput is a sign-up request as submitted by the client.
type RegisterInput struct {
	Email           string
	Password        string
	ConfirmPassword string
	FirstName       string
	LastName        string
}

// AuthService provides authentication operations:
// - Login: check credentials
// - Register: mail a verification link carrying the candidate account
// - Verify: turn a verification link into an account, once
type AuthService struct {
	db          *bun.DB
	repomanager repomanager.RepositoryManager
	hasher      password.Hasher
	mailer      mailer.Mailer
	tokens      tokenstore.Store
	keys        [][]byte
	tokenTTL    time.Duration
	baseURL     string
	logger      logging.Logger
}

// NewAuthService constructs an AuthService using repositories and server config.
func NewAuthService(db *bun.DB, m repomanager.RepositoryManager, h password.Hasher, ml mailer.Mailer,
	ts tokenstore.Store, cfg *config.Config, l logging.Logger) *AuthService {
	return &AuthService{
		db:          db,
		repomanager: m,
		hasher:      h,
		mailer:      ml,
		tokens:      ts,
		keys:        cfg.SigningKeys(),
		tokenTTL:    cfg.VerificationTokenTTL,
		baseURL:     strings.TrimRight(cfg.PublicBaseURL, "/"),
		logger:      l.With("module", "auth_service"),
	}
}

// Login returns the user whose email matches exactly and whose password
// verifies. Unknown email and wrong password are indistinguishable.
func (s *AuthService) Login(ctx context.Context, email, plain string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NotFound(msgUserNotFound)
		}
		return nil, err
	}

	ok, err := s.hasher.Verify(plain, user.Password)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, common.NotFound(msgUserNotFound)
	}

	return user, nil
}

// Register validates the request against existing accounts and mails a
// verification link. No account is created here.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) error {
	if in.Password != in.ConfirmPassword {
		return common.BadRequest(msgPasswordConfirm)
	}

	_, err := s.repomanager.Users(s.db).GetByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return common.BadRequest(msgEmailTaken)
	case !errors.Is(err, common.ErrNotFound):
		return err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	token, err := auth.GenerateRegistrationToken(auth.RegistrationPayload{
		Email:     in.Email,
		Password:  hash,
		FirstName: in.FirstName,
		LastName:  in.LastName,
	}, s.keys[0], s.tokenTTL)
	if err != nil {
		return fmt.Errorf("issue verification token: %w", err)
	}

	link := s.baseURL + "/auth/verify/" + token
	if err := s.mailer.Send(ctx, mailer.VerificationMessage(in.Email, link)); err != nil {
		return err
	}

	s.logger.Info(ctx, "verification email dispatched", "email", in.Email)
	return nil
}

// Verify creates the account carried by token. Each token creates at most one
// account; a second presentation fails with ErrInvalidToken.
func (s *AuthService) Verify(ctx context.Context, token string) (*models.User, error) {
	claims, err := auth.ParseRegistrationToken(token, s.keys...)
	if err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			return nil, &common.Error{Kind: common.ErrTokenExpired, Message: msgTokenExpired}
		}
		return nil, &common.Error{Kind: common.ErrInvalidToken, Message: msgTokenInvalid, Cause: err}
	}

	fresh, err := s.tokens.Consume(ctx, claims.ID, time.Until(claims.ExpiresAt.Time))
	if err != nil {
		return nil, err
	}
	if !fresh {
		return nil, &common.Error{Kind: common.ErrInvalidToken, Message: msgTokenUsed}
	}

	user, err := s.repomanager.Users(s.db).Create(ctx, &models.User{
		Email:     claims.Email,
		Password:  claims.Password,
		FirstName: claims.FirstName,
		LastName:  claims.LastName,
	})
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.Validation(msgEmailTaken).WithCause(err)
		}
		if relErr := s.tokens.Release(ctx, claims.ID); relErr != nil {
			s.logger.Warn(ctx, "release verification token", "error", relErr)
		}
		return nil, err
	}

	s.logger.Info(ctx, "account verified", "user_id", user.ID)
	return user, nil
}
