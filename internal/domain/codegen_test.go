package domain

import (
	"regexp"
	"strings"
	"testing"
	"time"
)

func TestGenerateCode(t *testing.T) {
	tests := []struct {
		name string
		url  string
		salt string
		want string
	}{
		{
			name: "nanosecond salt",
			url:  "https://example.com",
			salt: "1700000000000000000",
			want: "98db19",
		},
		{
			name: "next nanosecond changes the code",
			url:  "https://example.com",
			salt: "1700000000000000001",
			want: "7c09aa",
		},
		{
			name: "long url",
			url:  "https://example.com/a/very/long/path",
			salt: "0",
			want: "e48604",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenerateCode(tt.url, tt.salt)
			if got != tt.want {
				t.Errorf("GenerateCode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGenerateCodeShape(t *testing.T) {
	hex6 := regexp.MustCompile(`^[0-9a-f]{6}$`)
	for i := 0; i < 50; i++ {
		code := GenerateCode("https://example.com/"+strings.Repeat("x", i), NanoSalt(time.Unix(0, int64(i))))
		if !hex6.MatchString(code) {
			t.Fatalf("GenerateCode() = %q, want 6 lowercase hex chars", code)
		}
	}
}

func TestNanoSalt(t *testing.T) {
	got := NanoSalt(time.Unix(0, 1700000000000000000))
	if got != "1700000000000000000" {
		t.Errorf("NanoSalt() = %v, want %v", got, "1700000000000000000")
	}
}

func TestValidateCustomCode(t *testing.T) {
	tests := []struct {
		code    string
		wantErr bool
	}{
		{"abc", false},
		{"MyLink2024", false},
		{strings.Repeat("a", 20), false},
		{"ab", true},
		{strings.Repeat("a", 21), true},
		{"my-link", true},
		{"my_link", true},
		{"héllo", true},
		{"", true},
		{"abc ", true},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			err := ValidateCustomCode(tt.code)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCustomCode(%q) error = %v, wantErr %v", tt.code, err, tt.wantErr)
			}
			if err != nil && !IsValidation(err) {
				t.Errorf("ValidateCustomCode(%q) error = %T, want *ValidationError", tt.code, err)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		url     string
		wantErr bool
	}{
		{"https://example.com", false},
		{"http://localhost:8080/path?q=1", false},
		{"", true},
		{"ftp://example.com", true},
		{"example.com", true},
		{"javascript:alert(1)", true},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			err := ValidateURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestNormalizeTags(t *testing.T) {
	got := NormalizeTags([]string{" Work ", "work", "", "  ", "Go", "WORK", "go"})
	want := []string{"work", "go"}
	if len(got) != len(want) {
		t.Fatalf("NormalizeTags() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("NormalizeTags()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
