package models

// Filters holds the active view criteria for the prompt library. They are
// global to the store, not attached to individual prompts.
type Filters struct {
	Search        string   `json:"search"`
	Tags          []string `json:"tags"`
	CollectionID  string   `json:"collectionId,omitempty"`
	FavoritesOnly bool     `json:"favoritesOnly"`
}

// DefaultFilters returns the empty criteria used before any filtering is
// applied and whenever persisted filters are absent.
func DefaultFilters() Filters {
	return Filters{
		Search: "",
		Tags:   []string{},
	}
}

// FilterUpdate is a partial patch shallow-merged into the active filters.
type FilterUpdate struct {
	Search        *string   `json:"search,omitempty"`
	Tags          *[]string `json:"tags,omitempty"`
	CollectionID  *string   `json:"collectionId,omitempty"`
	FavoritesOnly *bool     `json:"favoritesOnly,omitempty"`
}
