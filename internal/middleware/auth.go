package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/github"
	"github.com/markbates/goth/providers/google"
	"github.com/nileshk/digital-whiteboard/internal/config"
	"github.com/nileshk/digital-whiteboard/internal/db"
	"github.com/nileshk/digital-whiteboard/internal/session"
	"github.com/nileshk/digital-whiteboard/internal/store"
	users "github.com/nileshk/digital-whiteboard/internal/user"
)

type ContextKey string

const UserIDKey ContextKey = "userID"

// ProviderTimeout caps the handshake with an identity provider before
// the attempt is treated as failed.
const ProviderTimeout = 40 * time.Second

func InitAuth(cfg *config.Config) {
	gothic.Store = sessions.NewCookieStore([]byte(cfg.SessionSecret))

	githubProvider := github.New(cfg.GitHubKey, cfg.GitHubSecret, cfg.GitHubCallbackURL, "read:user", "user:email")
	githubProvider.HTTPClient = &http.Client{Timeout: ProviderTimeout}

	googleProvider := google.New(cfg.GoogleKey, cfg.GoogleSecret, cfg.GoogleCallbackURL, "openid", "email", "profile")
	googleProvider.SetPrompt("consent")
	googleProvider.SetAccessType("offline")
	googleProvider.HTTPClient = &http.Client{Timeout: ProviderTimeout}

	goth.UseProviders(githubProvider, googleProvider)
}

func RequireAuth(tokens *session.Manager, pool *db.Pool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := tokens.FromRequest(r)
			if err != nil {
				tokens.ClearCookie(w)
				http.Redirect(w, r, "/user-auth", http.StatusFound)
				return
			}

			ctx := r.Context()

			// A session whose subject could not be materialized still
			// passes through, just without a user attached.
			if sess.UserID != uuid.Nil {
				ctx = context.WithValue(ctx, UserIDKey, sess.UserID)

				// Add the user to context so that we can easily get it whenever we want
				if dbConn, err := pool.Connect(ctx); err == nil {
					if user, err := store.NewUserStore(dbConn).GetUser(ctx, sess.UserID); err == nil {
						ctx = context.WithValue(ctx, users.UserKey, user)
					}
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	val := ctx.Value(UserIDKey)
	if val == nil {
		return uuid.Nil, false
	}

	id, ok := val.(uuid.UUID)
	return id, ok
}

func GetAuthenticatedUser(ctx context.Context) *users.User {
	val := ctx.Value(users.UserKey)
	if val == nil {
		return nil
	}
	user, ok := val.(*users.User)
	if !ok {
		return nil
	}
	return user
}
