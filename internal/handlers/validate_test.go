package handlers

import (
	"strings"
	"testing"
)

func TestValidateRegister(t *testing.T) {
	tests := []struct {
		name     string
		username string
		email    string
		password string
		wantOK   bool
	}{
		{"valid", "alice", "alice@example.com", "longenough", true},
		{"valid with separators", "alice-b_2", "a@b.c", "longenough", true},
		{"empty username", "", "a@b.c", "longenough", false},
		{"username too long", strings.Repeat("a", 31), "a@b.c", "longenough", false},
		{"username with spaces", "alice b", "a@b.c", "longenough", false},
		{"username with symbols", "alice!", "a@b.c", "longenough", false},
		{"missing email", "alice", "", "longenough", false},
		{"email without at", "alice", "nope", "longenough", false},
		{"short password", "alice", "a@b.c", "seven77", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := validateRegister(tt.username, tt.email, tt.password)
			if (msg == "") != tt.wantOK {
				t.Errorf("got %q, wantOK=%v", msg, tt.wantOK)
			}
		})
	}
}

func TestValidatePost(t *testing.T) {
	tests := []struct {
		name   string
		title  string
		body   string
		tags   []string
		wantOK bool
	}{
		{"valid", "A Title", "content", []string{"go"}, true},
		{"no tags", "A Title", "content", nil, true},
		{"empty title", "", "content", nil, false},
		{"whitespace title", "   ", "content", nil, false},
		{"title too long", strings.Repeat("t", 301), "content", nil, false},
		{"empty body", "A Title", "  ", nil, false},
		{"too many tags", "A Title", "content", make([]string, 11), false},
		{"tag too long", "A Title", "content", []string{strings.Repeat("x", 51)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := validatePost(tt.title, tt.body, tt.tags)
			if (msg == "") != tt.wantOK {
				t.Errorf("got %q, wantOK=%v", msg, tt.wantOK)
			}
		})
	}
}

func TestValidateComment(t *testing.T) {
	if msg := validateComment("hello"); msg != "" {
		t.Errorf("valid comment rejected: %q", msg)
	}
	if msg := validateComment("  "); msg == "" {
		t.Error("blank comment accepted")
	}
	if msg := validateComment(strings.Repeat("c", 5001)); msg == "" {
		t.Error("oversized comment accepted")
	}
}

func TestValidateCategoryName(t *testing.T) {
	if msg := validateCategoryName("Tech"); msg != "" {
		t.Errorf("valid name rejected: %q", msg)
	}
	if msg := validateCategoryName(""); msg == "" {
		t.Error("empty name accepted")
	}
	if msg := validateCategoryName(strings.Repeat("n", 101)); msg == "" {
		t.Error("oversized name accepted")
	}
}

func TestValidateProfile(t *testing.T) {
	if msg := validateProfile("short bio", "https://cdn.local/a.png"); msg != "" {
		t.Errorf("valid profile rejected: %q", msg)
	}
	if msg := validateProfile(strings.Repeat("b", 1001), ""); msg == "" {
		t.Error("oversized bio accepted")
	}
	if msg := validateProfile("", strings.Repeat("u", 2001)); msg == "" {
		t.Error("oversized avatar URL accepted")
	}
}
