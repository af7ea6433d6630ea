package users

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type ContextKey string

const UserKey ContextKey = "user"

// Provider is the identity provider a user last signed in with.
type Provider string

const (
	ProviderGitHub Provider = "github"
	ProviderGoogle Provider = "google"
)

// ParseProvider maps a provider name from the wire to a Provider.
func ParseProvider(s string) (Provider, error) {
	switch Provider(s) {
	case ProviderGitHub, ProviderGoogle:
		return Provider(s), nil
	}
	return "", fmt.Errorf("unknown provider %q", s)
}

// User is one row in the users table, keyed by email. The provider
// column always holds the most recent sign-in provider; there is no
// per-provider history.
type User struct {
	ID        uuid.UUID `db:"id"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	Image     *string   `db:"image"`
	Provider  Provider  `db:"provider"`
	LastLogin time.Time `db:"last_login"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
