package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/nileshk/digital-whiteboard/internal/db"
	"github.com/nileshk/digital-whiteboard/internal/session"
	"github.com/nileshk/digital-whiteboard/internal/store"
	users "github.com/nileshk/digital-whiteboard/internal/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestPool backs a Pool with a migrated database in a temp dir.
func setupTestPool(t *testing.T) *db.Pool {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db")
	pool, err := db.NewPool(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })

	database, err := pool.Connect(context.Background())
	require.NoError(t, err)

	driver, err := sqlite3.WithInstance(database.DB, &sqlite3.Config{})
	require.NoError(t, err)

	m, err := migrate.NewWithDatabaseInstance(
		"file://../../migrations",
		"sqlite3",
		driver,
	)
	require.NoError(t, err)

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		require.NoError(t, err)
	}

	return pool
}

func TestRequireAuthRedirectsWithoutSession(t *testing.T) {
	pool := setupTestPool(t)
	tokens := session.NewManager("test-secret", time.Hour)

	handler := RequireAuth(tokens, pool)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without a session")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/user-auth", rec.Header().Get("Location"))
}

func TestRequireAuthRedirectsOnInvalidToken(t *testing.T) {
	pool := setupTestPool(t)
	tokens := session.NewManager("test-secret", time.Hour)

	handler := RequireAuth(tokens, pool)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run with an invalid token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "garbage"})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/user-auth", rec.Header().Get("Location"))
}

func TestRequireAuthAttachesUser(t *testing.T) {
	pool := setupTestPool(t)
	tokens := session.NewManager("test-secret", time.Hour)

	database, err := pool.Connect(context.Background())
	require.NoError(t, err)

	user := &users.User{
		ID:        uuid.New(),
		Name:      "Ana",
		Email:     "ana@x.com",
		Provider:  users.ProviderGoogle,
		LastLogin: time.Now().UTC(),
	}
	require.NoError(t, store.NewUserStore(database).CreateUser(context.Background(), user))

	token, err := tokens.Issue(user.ID, user.Provider)
	require.NoError(t, err)

	var gotID uuid.UUID
	var gotUser *users.User
	handler := RequireAuth(tokens, pool)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = GetUserIDFromContext(r.Context())
		gotUser = GetAuthenticatedUser(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: token})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, user.ID, gotID)
	require.NotNil(t, gotUser)
	assert.Equal(t, "ana@x.com", gotUser.Email)
}
