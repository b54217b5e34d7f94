package handlers

import (
	"strings"
	"unicode/utf8"
)

// Validation limits for user-submitted fields.
const (
	maxUsernameLen  = 30
	maxEmailLen     = 254
	minPasswordLen  = 8
	maxTitleLen     = 300
	maxBodyLen      = 100_000
	maxCommentLen   = 5_000
	maxBioLen       = 1_000
	maxURLLen       = 2_000
	maxTagLen       = 50
	maxTagsPerPost  = 10
	maxCategoryName = 100
)

// validateRegister checks signup inputs and returns the first error found.
func validateRegister(username, email, password string) string {
	username = strings.TrimSpace(username)
	if username == "" {
		return "Username is required."
	}
	if utf8.RuneCountInString(username) > maxUsernameLen {
		return "Username is too long (max 30 characters)."
	}
	for _, r := range username {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-' || r == '_') {
			return "Username may only contain letters, digits, hyphens, and underscores."
		}
	}
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return "A valid email address is required."
	}
	if utf8.RuneCountInString(email) > maxEmailLen {
		return "Email is too long."
	}
	if utf8.RuneCountInString(password) < minPasswordLen {
		return "Password must be at least 8 characters."
	}
	return ""
}

// validatePost checks post inputs and returns the first error found.
func validatePost(title, body string, tags []string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return "Title is required."
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "Title is too long (max 300 characters)."
	}
	if strings.TrimSpace(body) == "" {
		return "Body is required."
	}
	if utf8.RuneCountInString(body) > maxBodyLen {
		return "Body is too long (max 100,000 characters)."
	}
	if len(tags) > maxTagsPerPost {
		return "Too many tags (max 10)."
	}
	for _, tag := range tags {
		if utf8.RuneCountInString(tag) > maxTagLen {
			return "Tag is too long (max 50 characters)."
		}
	}
	return ""
}

// validateComment checks a comment body.
func validateComment(body string) string {
	if strings.TrimSpace(body) == "" {
		return "Comment body is required."
	}
	if utf8.RuneCountInString(body) > maxCommentLen {
		return "Comment is too long (max 5,000 characters)."
	}
	return ""
}

// validateCategoryName checks a category name.
func validateCategoryName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Category name is required."
	}
	if utf8.RuneCountInString(name) > maxCategoryName {
		return "Category name is too long (max 100 characters)."
	}
	return ""
}

// validateProfile checks profile update inputs.
func validateProfile(bio, avatarURL string) string {
	if utf8.RuneCountInString(bio) > maxBioLen {
		return "Bio is too long (max 1,000 characters)."
	}
	if utf8.RuneCountInString(avatarURL) > maxURLLen {
		return "Avatar URL is too long."
	}
	return ""
}
