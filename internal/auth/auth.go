// Package auth issues and verifies the admin session cookie.
package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// CookieName is the session cookie set on login.
	CookieName = "snip_session"

	subject = "admin"
	issuer  = "sniplink"
)

var (
	ErrBadPassword  = errors.New("invalid password")
	ErrNoSession    = errors.New("no session")
	ErrInvalidToken = errors.New("invalid session token")
)

// Manager holds the admin credential and the session signing key.
type Manager struct {
	secret   []byte
	password []byte
	ttl      time.Duration
	secure   bool
	now      func() time.Time
}

// Options configures a Manager.
type Options struct {
	Secret       string
	Password     string
	TTL          time.Duration
	SecureCookie bool
	Now          func() time.Time
}

func NewManager(opts Options) *Manager {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Manager{
		secret:   []byte(opts.Secret),
		password: []byte(opts.Password),
		ttl:      opts.TTL,
		secure:   opts.SecureCookie,
		now:      now,
	}
}

// CheckPassword compares candidate against the admin password in constant time.
func (m *Manager) CheckPassword(candidate string) error {
	if subtle.ConstantTimeCompare([]byte(candidate), m.password) != 1 {
		return ErrBadPassword
	}
	return nil
}

// Issue signs a new session token.
func (m *Manager) Issue() (string, time.Time, error) {
	now := m.now()
	expires := now.Add(m.ttl)
	claims := jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   subject,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session: %w", err)
	}
	return token, expires, nil
}

// Verify checks the signature, expiry and subject of token.
func (m *Manager) Verify(token string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithTimeFunc(m.now),
		jwt.WithIssuer(issuer),
		jwt.WithSubject(subject),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Authenticated reports whether r carries a valid session cookie.
func (m *Manager) Authenticated(r *http.Request) error {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return ErrNoSession
	}
	_, err = m.Verify(c.Value)
	return err
}

// SetCookie issues a session and writes it to w.
func (m *Manager) SetCookie(w http.ResponseWriter) error {
	token, expires, err := m.Issue()
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// ClearCookie expires the session cookie.
func (m *Manager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
