package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

var authNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestManager(now func() time.Time) *Manager {
	return NewManager(Options{
		Secret:   "0123456789abcdef0123456789abcdef",
		Password: "hunter22",
		TTL:      time.Hour,
		Now:      now,
	})
}

func TestCheckPassword(t *testing.T) {
	m := newTestManager(nil)

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"correct", "hunter22", false},
		{"wrong", "hunter23", true},
		{"prefix", "hunter", true},
		{"empty", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := m.CheckPassword(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("CheckPassword(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestIssueVerify(t *testing.T) {
	m := newTestManager(func() time.Time { return authNow })

	token, expires, err := m.Issue()
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if !expires.Equal(authNow.Add(time.Hour)) {
		t.Errorf("Issue() expires = %v, want %v", expires, authNow.Add(time.Hour))
	}

	claims, err := m.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if claims.Subject != "admin" {
		t.Errorf("Subject = %v, want admin", claims.Subject)
	}
	if claims.ID == "" {
		t.Error("token has no jti")
	}

	other, _, _ := m.Issue()
	if other == token {
		t.Error("two sessions share the same token")
	}
}

func TestVerifyRejects(t *testing.T) {
	now := authNow
	m := newTestManager(func() time.Time { return now })
	token, _, err := m.Issue()
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	foreign := NewManager(Options{Secret: "another-secret-another-secret", TTL: time.Hour,
		Now: func() time.Time { return authNow }})
	forged, _, _ := foreign.Issue()

	if _, err := m.Verify(forged); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify(foreign) error = %v, want ErrInvalidToken", err)
	}
	if _, err := m.Verify("not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify(garbage) error = %v, want ErrInvalidToken", err)
	}

	now = authNow.Add(2 * time.Hour)
	if _, err := m.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify(expired) error = %v, want ErrInvalidToken", err)
	}
}

func TestCookieRoundTrip(t *testing.T) {
	m := newTestManager(nil)

	rec := httptest.NewRecorder()
	if err := m.SetCookie(rec); err != nil {
		t.Fatalf("SetCookie() error = %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("SetCookie() wrote %d cookies, want 1", len(cookies))
	}
	c := cookies[0]
	if c.Name != CookieName || !c.HttpOnly || c.SameSite != http.SameSiteLaxMode {
		t.Errorf("cookie = %+v, want HttpOnly Lax %s", c, CookieName)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(c)
	if err := m.Authenticated(req); err != nil {
		t.Errorf("Authenticated() error = %v", err)
	}

	bare := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	if err := m.Authenticated(bare); !errors.Is(err, ErrNoSession) {
		t.Errorf("Authenticated(no cookie) error = %v, want ErrNoSession", err)
	}

	cleared := httptest.NewRecorder()
	m.ClearCookie(cleared)
	if got := cleared.Result().Cookies(); len(got) != 1 || got[0].MaxAge >= 0 {
		t.Errorf("ClearCookie() cookies = %+v, want one expired cookie", got)
	}
}
