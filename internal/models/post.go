// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// PostStatus represents the publishing state of a post.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
)

// Valid reports whether the status is one of the known states.
func (s PostStatus) Valid() bool {
	return s == PostStatusDraft || s == PostStatusPublished
}

// Post is the main content unit of the platform. Every post belongs to
// exactly one author and exactly one category; tags and likes live in
// relation tables.
type Post struct {
	ID           uuid.UUID  `json:"id"`
	Title        string     `json:"title"`
	Slug         string     `json:"slug"`
	Body         string     `json:"body"`
	Status       PostStatus `json:"status"`
	ThumbnailURL string     `json:"thumbnail_url"`
	AuthorID     uuid.UUID  `json:"author_id"`
	CategoryID   uuid.UUID  `json:"category_id"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// IsPublished returns true if the post is in published status.
func (p *Post) IsPublished() bool {
	return p.Status == PostStatusPublished
}

// VisibleTo reports whether the given viewer may read this post.
// Published posts are visible to everyone, drafts only to their author.
// uuid.Nil denotes an anonymous viewer.
func (p *Post) VisibleTo(viewer uuid.UUID) bool {
	if p.IsPublished() {
		return true
	}
	return viewer != uuid.Nil && viewer == p.AuthorID
}

// AuthorRef is the lightweight author reference embedded in projections.
type AuthorRef struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
}

// CategoryRef is the lightweight category reference embedded in projections.
type CategoryRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

// PostView is the viewer-relative projection of a post. LikesCount,
// IsLiked, CommentsCount, and FirstComment are derived from live relation
// state at request time. BodyHTML and Comments are populated for detail
// views only.
type PostView struct {
	ID            uuid.UUID     `json:"id"`
	Title         string        `json:"title"`
	Slug          string        `json:"slug"`
	Body          string        `json:"body"`
	BodyHTML      string        `json:"body_html,omitempty"`
	Status        PostStatus    `json:"status"`
	ThumbnailURL  string        `json:"thumbnail_url,omitempty"`
	Author        AuthorRef     `json:"author"`
	Category      CategoryRef   `json:"category"`
	Tags          []string      `json:"tags"`
	LikesCount    int           `json:"likes_count"`
	IsLiked       bool          `json:"is_liked"`
	CommentsCount int           `json:"comments_count"`
	FirstComment  *CommentView  `json:"first_comment,omitempty"`
	Comments      []CommentView `json:"comments,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}
