package config

import (
	"os"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestRequireEnv(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		value     string
		shouldSet bool
		wantPanic bool
	}{
		{
			name:      "variable set",
			key:       "TEST_VAR",
			value:     "test_value",
			shouldSet: true,
			wantPanic: false,
		},
		{
			name:      "variable not set",
			key:       "TEST_VAR_MISSING",
			shouldSet: false,
			wantPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.shouldSet {
				if err := os.Setenv(tt.key, tt.value); err != nil {
					t.Fatalf("failed to set env var: %v", err)
				}
				defer func() {
					if err := os.Unsetenv(tt.key); err != nil {
						t.Errorf("failed to unset env var: %v", err)
					}
				}()
			}

			if tt.wantPanic {
				defer func() {
					if r := recover(); r == nil {
						t.Errorf("requireEnv() should have panicked")
					}
				}()
			}

			result := requireEnv(tt.key)
			if !tt.wantPanic && result != tt.value {
				t.Errorf("requireEnv() = %v, want %v", result, tt.value)
			}
		})
	}
}

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "empty",
			input:    "",
			expected: nil,
		},
		{
			name:     "single value",
			input:    "https://admin.example.com",
			expected: []string{"https://admin.example.com"},
		},
		{
			name:     "spaces and quotes",
			input:    ` "10.0.0.0/8", '192.168.1.0/24' ,`,
			expected: []string{"10.0.0.0/8", "192.168.1.0/24"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := splitAndTrim(tt.input)
			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("splitAndTrim() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestTrimBaseURL(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"http://localhost:5000", "http://localhost:5000"},
		{"https://snip.example.com/", "https://snip.example.com"},
		{" https://snip.example.com// ", "https://snip.example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if result := trimBaseURL(tt.input); result != tt.expected {
				t.Errorf("trimBaseURL() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	t.Setenv("SNIP_SECRET_KEY", "0123456789abcdef0123")
	t.Setenv("SNIP_ADMIN_PASSWORD", "hunter22")
	t.Setenv("SNIP_BASE_URL", "https://snip.example.com/")
	t.Setenv("SNIP_SESSION_TTL", "2h")
	t.Setenv("SNIP_ALLOWED_ORIGINS", "https://admin.example.com, https://ops.example.com")

	cfg := Load()

	if cfg.ListenPort != ":5000" {
		t.Errorf("ListenPort = %v, want :5000", cfg.ListenPort)
	}
	if cfg.BaseURL != "https://snip.example.com" {
		t.Errorf("BaseURL = %v, want https://snip.example.com", cfg.BaseURL)
	}
	if cfg.SessionTTL != 2*time.Hour {
		t.Errorf("SessionTTL = %v, want 2h", cfg.SessionTTL)
	}
	if len(cfg.AllowedOrigins) != 2 {
		t.Errorf("AllowedOrigins = %v, want 2 entries", cfg.AllowedOrigins)
	}
	if cfg.RedisAddr != "" {
		t.Errorf("RedisAddr = %v, want empty by default", cfg.RedisAddr)
	}
	if cfg.StatsSchedule != "@every 1m" {
		t.Errorf("StatsSchedule = %v, want @every 1m", cfg.StatsSchedule)
	}
}

func TestLoadRejectsShortSecret(t *testing.T) {
	t.Setenv("SNIP_SECRET_KEY", "short")
	t.Setenv("SNIP_ADMIN_PASSWORD", "hunter22")

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("Load() should have panicked")
		}
		if !strings.Contains(r.(string), "SNIP_SECRET_KEY") {
			t.Errorf("panic = %v, want mention of SNIP_SECRET_KEY", r)
		}
	}()
	Load()
}

func TestRedacted(t *testing.T) {
	cfg := Config{SecretKey: "secret", AdminPassword: "pw", RedisPassword: "", RedisUser: "default"}
	r := cfg.Redacted()

	if r.SecretKey == "secret" || r.AdminPassword == "pw" || r.RedisUser == "default" {
		t.Errorf("Redacted() leaked a secret: %+v", r)
	}
	if r.RedisPassword != "" {
		t.Errorf("Redacted() RedisPassword = %v, want empty", r.RedisPassword)
	}
	if cfg.SecretKey != "secret" {
		t.Error("Redacted() modified the receiver")
	}
}

func TestMustDuration(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		def      time.Duration
		expected time.Duration
	}{
		{
			name:     "valid duration",
			key:      "TEST_DURATION",
			value:    "5s",
			def:      1 * time.Second,
			expected: 5 * time.Second,
		},
		{
			name:     "invalid duration uses default",
			key:      "TEST_DURATION_INVALID",
			value:    "invalid",
			def:      10 * time.Second,
			expected: 10 * time.Second,
		},
		{
			name:     "missing variable uses default",
			key:      "TEST_DURATION_MISSING",
			value:    "",
			def:      15 * time.Second,
			expected: 15 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				if err := os.Setenv(tt.key, tt.value); err != nil {
					t.Fatalf("failed to set env var: %v", err)
				}
				defer func() {
					if err := os.Unsetenv(tt.key); err != nil {
						t.Errorf("failed to unset env var: %v", err)
					}
				}()
			}

			result := mustDuration(tt.key, tt.def)
			if result != tt.expected {
				t.Errorf("mustDuration() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestMustBool(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		def      bool
		expected bool
	}{
		{
			name:     "true value",
			key:      "TEST_BOOL",
			value:    "true",
			def:      false,
			expected: true,
		},
		{
			name:     "false value",
			key:      "TEST_BOOL_FALSE",
			value:    "false",
			def:      true,
			expected: false,
		},
		{
			name:     "invalid value uses default",
			key:      "TEST_BOOL_INVALID",
			value:    "invalid",
			def:      true,
			expected: true,
		},
		{
			name:     "missing variable uses default",
			key:      "TEST_BOOL_MISSING",
			value:    "",
			def:      false,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				if err := os.Setenv(tt.key, tt.value); err != nil {
					t.Fatalf("failed to set env var: %v", err)
				}
				defer func() {
					if err := os.Unsetenv(tt.key); err != nil {
						t.Errorf("failed to unset env var: %v", err)
					}
				}()
			}

			result := mustBool(tt.key, tt.def)
			if result != tt.expected {
				t.Errorf("mustBool() = %v, want %v", result, tt.expected)
			}
		})
	}
}
