// Package store holds the authoritative in-memory state for prompts,
// collections, filters and the current selection.
//
// The store is an explicitly constructed value: callers create one with New,
// hydrate it once with Init and pass it to whichever surface needs it. It
// performs no I/O itself. Persistence is attached from the outside through
// Subscribe: after every mutating operation the store publishes the
// serializable subset of its state ({prompts, collections, filters}) to all
// subscribers, and a storage.Writer mirrors that snapshot to its slot.
//
// Every operation is synchronous and returns no error. Mutations referencing
// an unknown id are safe no-ops.
package store

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"promptforge/internal/models"
)

// Loader supplies previously persisted state. A nil state with a nil error
// means nothing was persisted yet.
type Loader interface {
	Load() (*models.State, error)
}

// Store owns the prompt library state for one session. All methods are safe
// for concurrent use; the HTTP surface serves handlers from multiple
// goroutines.
type Store struct {
	mu               sync.Mutex
	prompts          []models.Prompt
	collections      []models.Collection
	filters          models.Filters
	selectedPromptID string
	initialized      bool

	subscribers []func(models.State)

	now   func() time.Time
	newID func() string
}

// New returns an empty, uninitialized store.
func New() *Store {
	return &Store{
		prompts:     []models.Prompt{},
		collections: []models.Collection{},
		filters:     models.DefaultFilters(),
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

// Init transitions the store from uninitialized to initialized, adopting
// persisted state from the loader when it yields structurally valid data and
// falling back to the default empty state otherwise. Calling Init on an
// initialized store is a no-op. Init does not publish a snapshot; hydration
// is not a mutation.
func (s *Store) Init(l Loader) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.initialized {
		return
	}
	s.initialized = true

	if l == nil {
		return
	}
	state, err := l.Load()
	if err != nil || state == nil {
		return
	}
	state.Normalize()
	s.prompts = state.Prompts
	s.collections = state.Collections
	s.filters = state.Filters
}

// Initialized reports whether Init has run.
func (s *Store) Initialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialized
}

// Subscribe registers fn to receive the persisted subset of the state after
// every mutating operation. Subscribers are invoked synchronously under the
// store lock, in registration order, on the mutating goroutine; they must
// not call back into the store.
func (s *Store) Subscribe(fn func(models.State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

func (s *Store) publish() {
	if len(s.subscribers) == 0 {
		return
	}
	snapshot := s.snapshot()
	for _, fn := range s.subscribers {
		fn(snapshot)
	}
}

// State returns a copy of the persisted subset: prompts, collections and
// filters. Selection and the initialized flag are excluded.
func (s *Store) State() models.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// snapshot copies the persisted subset. Callers hold the lock.
func (s *Store) snapshot() models.State {
	state := models.State{
		Prompts:     make([]models.Prompt, len(s.prompts)),
		Collections: make([]models.Collection, len(s.collections)),
		Filters:     s.filters,
	}
	copy(state.Prompts, s.prompts)
	copy(state.Collections, s.collections)
	state.Filters.Tags = append([]string{}, s.filters.Tags...)
	return state
}

// Prompts returns a copy of the prompt list.
func (s *Store) Prompts() []models.Prompt {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Prompt, len(s.prompts))
	copy(out, s.prompts)
	return out
}

// Collections returns a copy of the collection list.
func (s *Store) Collections() []models.Collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Collection, len(s.collections))
	copy(out, s.collections)
	return out
}

// Filters returns the active view criteria.
func (s *Store) Filters() models.Filters {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.filters
	f.Tags = append([]string{}, s.filters.Tags...)
	return f
}

// SelectedPromptID returns the id of the selected prompt, or the empty
// string when nothing is selected.
func (s *Store) SelectedPromptID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedPromptID
}

// Prompt returns the prompt with the given id.
func (s *Store) Prompt(id string) (models.Prompt, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findPrompt(id)
}

func (s *Store) findPrompt(id string) (models.Prompt, bool) {
	for _, p := range s.prompts {
		if p.ID == id {
			return p, true
		}
	}
	return models.Prompt{}, false
}

// Collection returns the collection with the given id.
func (s *Store) Collection(id string) (models.Collection, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.collections {
		if c.ID == id {
			return c, true
		}
	}
	return models.Collection{}, false
}

// AddPrompt creates a prompt from the draft, assigns id and timestamps,
// selects it and publishes the new state. The favorite flag always starts
// false.
func (s *Store) AddPrompt(draft models.PromptDraft) models.Prompt {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	tags := draft.Tags
	if tags == nil {
		tags = []string{}
	}
	p := models.Prompt{
		ID:           s.newID(),
		Title:        draft.Title,
		Description:  draft.Description,
		Body:         draft.Body,
		Tags:         tags,
		CollectionID: draft.CollectionID,
		Model:        draft.Model,
		Language:     draft.Language,
		Variables:    draft.Variables,
		Favorite:     false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.prompts = append(s.prompts, p)
	s.selectedPromptID = p.ID
	s.publish()
	return p
}

// UpdatePrompt merges the patch into the matching prompt and stamps a new
// UpdatedAt. Unknown ids are ignored. CreatedAt and ID never change.
func (s *Store) UpdatePrompt(id string, patch models.PromptUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.prompts {
		if s.prompts[i].ID != id {
			continue
		}
		p := &s.prompts[i]
		if patch.Title != nil {
			p.Title = *patch.Title
		}
		if patch.Description != nil {
			p.Description = *patch.Description
		}
		if patch.Body != nil {
			p.Body = *patch.Body
		}
		if patch.Tags != nil {
			p.Tags = append([]string{}, (*patch.Tags)...)
		}
		if patch.CollectionID != nil {
			p.CollectionID = *patch.CollectionID
		}
		if patch.Model != nil {
			p.Model = *patch.Model
		}
		if patch.Language != nil {
			p.Language = *patch.Language
		}
		if patch.Variables != nil {
			p.Variables = append([]models.PromptVariable{}, (*patch.Variables)...)
		}
		if patch.Favorite != nil {
			p.Favorite = *patch.Favorite
		}
		p.UpdatedAt = s.now()
		s.publish()
		return
	}
}

// DeletePrompt removes the matching prompt, clearing the selection if it
// pointed at the removed prompt.
func (s *Store) DeletePrompt(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.prompts {
		if s.prompts[i].ID != id {
			continue
		}
		s.prompts = append(s.prompts[:i], s.prompts[i+1:]...)
		if s.selectedPromptID == id {
			s.selectedPromptID = ""
		}
		s.publish()
		return
	}
}

// DuplicatePrompt copies the source prompt under a new id with " (Copy)"
// appended to the title, the favorite flag reset and fresh timestamps. The
// copy becomes the selected prompt.
func (s *Store) DuplicatePrompt(id string) (models.Prompt, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	source, ok := s.findPrompt(id)
	if !ok {
		return models.Prompt{}, false
	}
	now := s.now()
	dup := source
	dup.ID = s.newID()
	dup.Title = source.Title + " (Copy)"
	dup.Tags = append([]string{}, source.Tags...)
	dup.Variables = append([]models.PromptVariable(nil), source.Variables...)
	dup.Favorite = false
	dup.CreatedAt = now
	dup.UpdatedAt = now
	s.prompts = append(s.prompts, dup)
	s.selectedPromptID = dup.ID
	s.publish()
	return dup, true
}

// ToggleFavorite flips the favorite flag on the matching prompt and stamps
// a new UpdatedAt.
func (s *Store) ToggleFavorite(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.prompts {
		if s.prompts[i].ID != id {
			continue
		}
		s.prompts[i].Favorite = !s.prompts[i].Favorite
		s.prompts[i].UpdatedAt = s.now()
		s.publish()
		return
	}
}

// AddCollection creates a collection from the draft. Collections carry no
// timestamps.
func (s *Store) AddCollection(draft models.CollectionDraft) models.Collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := models.Collection{
		ID:    s.newID(),
		Name:  draft.Name,
		Color: draft.Color,
	}
	s.collections = append(s.collections, c)
	s.publish()
	return c
}

// UpdateCollection merges the patch into the matching collection.
func (s *Store) UpdateCollection(id string, patch models.CollectionUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.collections {
		if s.collections[i].ID != id {
			continue
		}
		if patch.Name != nil {
			s.collections[i].Name = *patch.Name
		}
		if patch.Color != nil {
			s.collections[i].Color = *patch.Color
		}
		s.publish()
		return
	}
}

// DeleteCollection removes the collection and severs every reference to it:
// prompts that pointed at it become uncategorized and an active collection
// filter on it is cleared. Dangling references never persist.
func (s *Store) DeleteCollection(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.collections {
		if s.collections[i].ID != id {
			continue
		}
		s.collections = append(s.collections[:i], s.collections[i+1:]...)
		for j := range s.prompts {
			if s.prompts[j].CollectionID == id {
				s.prompts[j].CollectionID = ""
			}
		}
		if s.filters.CollectionID == id {
			s.filters.CollectionID = ""
		}
		s.publish()
		return
	}
}

// SetFilters shallow-merges the patch into the active filters.
func (s *Store) SetFilters(patch models.FilterUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if patch.Search != nil {
		s.filters.Search = *patch.Search
	}
	if patch.Tags != nil {
		s.filters.Tags = append([]string{}, (*patch.Tags)...)
	}
	if patch.CollectionID != nil {
		s.filters.CollectionID = *patch.CollectionID
	}
	if patch.FavoritesOnly != nil {
		s.filters.FavoritesOnly = *patch.FavoritesOnly
	}
	s.publish()
}

// SelectPrompt sets the selected prompt id; the empty string clears the
// selection. Selection is session-local and never published to subscribers.
func (s *Store) SelectPrompt(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedPromptID = id
}
