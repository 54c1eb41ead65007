package models

// Collection is a named grouping of prompts. Prompts point at a collection
// through their CollectionID; a collection does not know its members.
type Collection struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// CollectionDraft carries the caller-supplied fields for a new collection.
type CollectionDraft struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// CollectionUpdate is a partial patch merged into an existing collection.
type CollectionUpdate struct {
	Name  *string `json:"name,omitempty"`
	Color *string `json:"color,omitempty"`
}
