package session

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	users "github.com/nileshk/digital-whiteboard/internal/user"
)

var (
	ErrInvalidToken = errors.New("invalid session token")
	ErrExpiredToken = errors.New("session token has expired")
)

const CookieName = "whiteboard_session"

// Claims is what goes into the signed session token: the user id as
// the subject, plus the provider that authenticated the sign-in.
type Claims struct {
	Provider string `json:"provider"`
	jwt.RegisteredClaims
}

// Session is the request-scoped view of a parsed token. UserID is
// uuid.Nil when the token's subject could not be materialized.
type Session struct {
	UserID   uuid.UUID
	Provider users.Provider
}

type Manager struct {
	secret   []byte
	lifetime time.Duration
}

func NewManager(secret string, lifetime time.Duration) *Manager {
	return &Manager{secret: []byte(secret), lifetime: lifetime}
}

// Issue signs a token for the user, recording the provider used for
// this sign-in.
func (m *Manager) Issue(userID uuid.UUID, provider users.Provider) (string, error) {
	now := time.Now()
	claims := &Claims{
		Provider: string(provider),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.lifetime)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "digital-whiteboard",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Parse validates the token's signature and expiry. A subject that
// does not parse as a user id degrades the session instead of failing
// it: the caller gets a session without a user id and the problem is
// logged.
func (m *Manager) Parse(tokenString string) (*Session, error) {
	keyFunc := func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, keyFunc)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	sess := &Session{Provider: users.Provider(claims.Provider)}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		slog.Warn("session token has no usable subject", "error", err)
		return sess, nil
	}
	sess.UserID = userID
	return sess, nil
}

// FromRequest parses the session carried by the request's cookie.
func (m *Manager) FromRequest(r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil, err
	}
	return m.Parse(cookie.Value)
}

func (m *Manager) SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.lifetime.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (m *Manager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
