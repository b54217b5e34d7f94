package slug

import (
	"strconv"
	"strings"
	"testing"
)

// TestGenerate exercises the slug generator with typical titles, special
// characters, and boundary conditions.
func TestGenerate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "simple two words", input: "Hello World", want: "hello-world"},
		{name: "title with year", input: "Hello World 2026", want: "hello-world-2026"},
		{name: "already lowercase", input: "already lowercase", want: "already-lowercase"},
		{name: "single word", input: "GoLang", want: "golang"},
		{name: "punctuation marks", input: "Hello, World! How's it going?", want: "hello-world-hows-it-going"},
		{name: "ampersand and at sign", input: "Rock & Roll @ the Arena", want: "rock-roll-the-arena"},
		{name: "parentheses and brackets", input: "Version (2.0) [Beta]", want: "version-20-beta"},
		{name: "colon separated title", input: "Go: The Complete Developer Guide", want: "go-the-complete-developer-guide"},
		{name: "leading and trailing spaces", input: "  hello world  ", want: "hello-world"},
		{name: "multiple hyphens between words", input: "hello---world", want: "hello-world"},
		{name: "single hyphen preserved", input: "well-known fact", want: "well-known-fact"},
		{name: "empty string", input: "", want: ""},
		{name: "only special characters", input: "!@#$%^&*()", want: ""},
		{name: "only hyphens", input: "-----", want: ""},
		{name: "all numbers", input: "123456", want: "123456"},
		{name: "date-like string", input: "2026-02-25", want: "2026-02-25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Generate(tt.input)
			if got != tt.want {
				t.Errorf("Generate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestGenerate_Idempotent verifies that generating a slug from an already
// valid slug produces the same result.
func TestGenerate_Idempotent(t *testing.T) {
	slugs := []string{"hello-world", "my-blog-post-2026", "a", "123"}

	for _, s := range slugs {
		t.Run(s, func(t *testing.T) {
			if got := Generate(s); got != s {
				t.Errorf("Generate(%q) = %q, want idempotent result %q", s, got, s)
			}
		})
	}
}

// TestWithRandomSuffix verifies the candidate format: the base followed by
// a hyphen and a four-digit number.
func TestWithRandomSuffix(t *testing.T) {
	for i := 0; i < 100; i++ {
		got := WithRandomSuffix("hello-world")
		if !strings.HasPrefix(got, "hello-world-") {
			t.Fatalf("WithRandomSuffix: %q does not have prefix %q", got, "hello-world-")
		}
		suffix := strings.TrimPrefix(got, "hello-world-")
		n, err := strconv.Atoi(suffix)
		if err != nil {
			t.Fatalf("WithRandomSuffix: suffix %q is not numeric", suffix)
		}
		if n < 1000 || n > 9999 {
			t.Fatalf("WithRandomSuffix: suffix %d outside [1000, 9999]", n)
		}
	}
}

// TestWithCounter verifies the deterministic counter candidates used for
// category slugs.
func TestWithCounter(t *testing.T) {
	tests := []struct {
		base string
		n    int
		want string
	}{
		{base: "tech", n: 0, want: "tech"},
		{base: "tech", n: 1, want: "tech-1"},
		{base: "tech", n: 7, want: "tech-7"},
		{base: "tech-news", n: 2, want: "tech-news-2"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := WithCounter(tt.base, tt.n); got != tt.want {
				t.Errorf("WithCounter(%q, %d) = %q, want %q", tt.base, tt.n, got, tt.want)
			}
		})
	}
}
