package jira

import (
	"encoding/base64"
	"strings"
	"testing"
)

func TestBasicAuth(t *testing.T) {
	tests := []struct {
		email string
		token string
	}{
		{"me@example.com", "secret"},
		{"dev+jira@acme.io", "tok:with:colons"},
		{"", ""},
		{"ünï@例え.jp", "ä€"},
	}

	for _, tt := range tests {
		got := BasicAuth(tt.email, tt.token)
		if !strings.HasPrefix(got, "Basic ") {
			t.Fatalf("BasicAuth(%q, %q) = %q, want Basic prefix", tt.email, tt.token, got)
		}
		decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(got, "Basic "))
		if err != nil {
			t.Fatalf("decode %q: %v", got, err)
		}
		if string(decoded) != tt.email+":"+tt.token {
			t.Errorf("decoded = %q, want %q", decoded, tt.email+":"+tt.token)
		}
	}
}

func TestBasicAuthKnownValue(t *testing.T) {
	if got, want := BasicAuth("user", "pass"), "Basic dXNlcjpwYXNz"; got != want {
		t.Errorf("BasicAuth() = %q, want %q", got, want)
	}
}
