package handlers

import (
	"net/http"

	"blogify/internal/models"
	"blogify/internal/store"
)

// Tags serves the global tag list used by the post editor's autocomplete.
type Tags struct {
	tags *store.TagStore
}

// NewTags creates a new Tags handler group.
func NewTags(tags *store.TagStore) *Tags {
	return &Tags{tags: tags}
}

// List serves all tags ordered by name.
func (t *Tags) List(w http.ResponseWriter, r *http.Request) {
	tags, err := t.tags.List(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}
	if tags == nil {
		tags = []models.Tag{}
	}
	respondJSON(w, http.StatusOK, tags)
}
