package models

import "time"

// Prompt is a saved prompt record. Timestamps are serialized as RFC 3339
// strings; CreatedAt is fixed at creation while UpdatedAt is touched by
// every field mutation, including favorite toggles.
type Prompt struct {
	ID           string           `json:"id"`
	Title        string           `json:"title"`
	Description  string           `json:"description,omitempty"`
	Body         string           `json:"body"`
	Tags         []string         `json:"tags"`
	CollectionID string           `json:"collectionId,omitempty"`
	Model        string           `json:"model,omitempty"`
	Language     string           `json:"language,omitempty"`
	Variables    []PromptVariable `json:"variables,omitempty"`
	Favorite     bool             `json:"favorite"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

// PromptVariable is a named placeholder declared on a prompt. Variables are
// declarative metadata only; nothing substitutes them into the body.
type PromptVariable struct {
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	DefaultValue string `json:"defaultValue,omitempty"`
}

// HasTag reports whether the prompt carries the given tag. The tag list is
// stored as an ordered sequence but treated as a set here.
func (p Prompt) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// PromptDraft carries the caller-supplied fields for a new prompt. The store
// assigns ID, timestamps and the favorite flag itself.
type PromptDraft struct {
	Title        string           `json:"title"`
	Description  string           `json:"description,omitempty"`
	Body         string           `json:"body"`
	Tags         []string         `json:"tags"`
	CollectionID string           `json:"collectionId,omitempty"`
	Model        string           `json:"model,omitempty"`
	Language     string           `json:"language,omitempty"`
	Variables    []PromptVariable `json:"variables,omitempty"`
}

// PromptUpdate is a partial patch merged into an existing prompt. Nil fields
// are left untouched; a non-nil empty CollectionID clears the reference.
type PromptUpdate struct {
	Title        *string           `json:"title,omitempty"`
	Description  *string           `json:"description,omitempty"`
	Body         *string           `json:"body,omitempty"`
	Tags         *[]string         `json:"tags,omitempty"`
	CollectionID *string           `json:"collectionId,omitempty"`
	Model        *string           `json:"model,omitempty"`
	Language     *string           `json:"language,omitempty"`
	Variables    *[]PromptVariable `json:"variables,omitempty"`
	Favorite     *bool             `json:"favorite,omitempty"`
}
