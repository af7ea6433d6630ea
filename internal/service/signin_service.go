package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/nileshk/digital-whiteboard/internal/store"
	users "github.com/nileshk/digital-whiteboard/internal/user"
	"github.com/nileshk/digital-whiteboard/internal/utils"
)

// Code is the rejection reason carried back to the sign-in page in the
// error query parameter.
type Code string

const (
	CodeAccessDenied  Code = "AccessDenied"
	CodeConfiguration Code = "Configuration"
	CodeDefault       Code = "Default"
)

// AuthError is a sign-in rejection. The wrapped error is for logs
// only; the code is the only thing that reaches the browser.
type AuthError struct {
	Code Code
	Err  error
}

func (e *AuthError) Error() string {
	if e.Err == nil {
		return "sign-in rejected: " + string(e.Code)
	}
	return "sign-in rejected (" + string(e.Code) + "): " + e.Err.Error()
}

func (e *AuthError) Unwrap() error { return e.Err }

// Identity is the profile an identity provider hands back after a
// successful authorization-code exchange.
type Identity struct {
	Name      string
	Email     string
	AvatarURL string
	Provider  users.Provider
}

type SignInService struct {
	db    *sqlx.DB
	store *store.UserStore
	now   func() time.Time
}

func NewSignInService(db *sqlx.DB, store *store.UserStore) *SignInService {
	return &SignInService{db: db, store: store, now: time.Now}
}

// Reconcile merges an authenticated identity into the user record for
// its email: update when the email is already known, create otherwise.
// Exactly one write happens on success, none on rejection.
func (s *SignInService) Reconcile(ctx context.Context, identity Identity) (*users.User, error) {
	if identity.Email == "" {
		slog.Error("sign-in rejected: provider sent no email", "provider", identity.Provider)
		return nil, &AuthError{Code: CodeAccessDenied, Err: errors.New("identity has no email")}
	}

	user, err := s.store.GetUserByEmail(ctx, identity.Email)
	if err != nil && err != sql.ErrNoRows {
		slog.Error("sign-in lookup failed", "provider", identity.Provider, "email", identity.Email, "error", err)
		return nil, &AuthError{Code: CodeDefault, Err: err}
	}

	now := s.now().UTC()

	if err == sql.ErrNoRows {
		newUser := &users.User{
			ID:        uuid.New(),
			Name:      identity.Name,
			Email:     identity.Email,
			Image:     utils.StringOrNil(identity.AvatarURL),
			Provider:  identity.Provider,
			LastLogin: now,
		}
		if err := s.store.CreateUser(ctx, newUser); err != nil {
			slog.Error("failed to create user", "provider", identity.Provider, "email", identity.Email, "error", err)
			return nil, &AuthError{Code: CodeDefault, Err: err}
		}
		slog.Info("new user created", "email", newUser.Email, "provider", newUser.Provider)
		return newUser, nil
	}

	// Keep the stored name and image when the provider sent nothing.
	if identity.Name != "" {
		user.Name = identity.Name
	}
	if avatar := utils.StringOrNil(identity.AvatarURL); avatar != nil {
		user.Image = avatar
	}
	user.Provider = identity.Provider
	user.LastLogin = now

	if err := s.store.UpdateUser(ctx, user); err != nil {
		slog.Error("failed to update user", "provider", identity.Provider, "email", identity.Email, "error", err)
		return nil, &AuthError{Code: CodeDefault, Err: err}
	}
	slog.Info("existing user updated", "email", user.Email, "provider", user.Provider)
	return user, nil
}
