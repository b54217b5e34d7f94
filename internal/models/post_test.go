package models

import (
	"testing"

	"github.com/google/uuid"
)

// TestPostIsPublished verifies that IsPublished returns true only for the
// "published" status.
func TestPostIsPublished(t *testing.T) {
	tests := []struct {
		name   string
		status PostStatus
		want   bool
	}{
		{name: "published", status: PostStatusPublished, want: true},
		{name: "draft", status: PostStatusDraft, want: false},
		{name: "empty status", status: PostStatus(""), want: false},
		{name: "unknown status", status: PostStatus("archived"), want: false},
		{name: "uppercase PUBLISHED", status: PostStatus("PUBLISHED"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Post{Status: tt.status}
			if got := p.IsPublished(); got != tt.want {
				t.Errorf("Post{Status: %q}.IsPublished() = %v, want %v",
					tt.status, got, tt.want)
			}
		})
	}
}

// TestPostStatusValid verifies the closed set of accepted statuses.
func TestPostStatusValid(t *testing.T) {
	tests := []struct {
		name   string
		status PostStatus
		want   bool
	}{
		{name: "draft", status: PostStatusDraft, want: true},
		{name: "published", status: PostStatusPublished, want: true},
		{name: "empty", status: PostStatus(""), want: false},
		{name: "archived", status: PostStatus("archived"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.status.Valid(); got != tt.want {
				t.Errorf("PostStatus(%q).Valid() = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}

// TestPostVisibleTo verifies the visibility rules: published posts are
// readable by everyone, drafts only by their author.
func TestPostVisibleTo(t *testing.T) {
	author := uuid.New()
	stranger := uuid.New()

	tests := []struct {
		name   string
		status PostStatus
		viewer uuid.UUID
		want   bool
	}{
		{name: "published visible to anonymous", status: PostStatusPublished, viewer: uuid.Nil, want: true},
		{name: "published visible to stranger", status: PostStatusPublished, viewer: stranger, want: true},
		{name: "published visible to author", status: PostStatusPublished, viewer: author, want: true},
		{name: "draft hidden from anonymous", status: PostStatusDraft, viewer: uuid.Nil, want: false},
		{name: "draft hidden from stranger", status: PostStatusDraft, viewer: stranger, want: false},
		{name: "draft visible to author", status: PostStatusDraft, viewer: author, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Post{Status: tt.status, AuthorID: author}
			if got := p.VisibleTo(tt.viewer); got != tt.want {
				t.Errorf("VisibleTo(%v) = %v, want %v", tt.viewer, got, tt.want)
			}
		})
	}
}
