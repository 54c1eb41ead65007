package store

import (
	"fmt"
	"testing"
	"time"

	"promptforge/internal/models"
)

// newTestStore returns an initialized store with a deterministic clock that
// advances one second per observation.
func newTestStore() *Store {
	s := New()
	base := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	s.Init(nil)
	return s
}

type fakeLoader struct {
	state *models.State
	err   error
}

func (l fakeLoader) Load() (*models.State, error) {
	return l.state, l.err
}

func TestAddPrompt(t *testing.T) {
	s := newTestStore()

	p := s.AddPrompt(models.PromptDraft{Title: "A", Body: "B", Tags: []string{}})

	prompts := s.Prompts()
	if len(prompts) != 1 {
		t.Fatalf("expected 1 prompt, got %d", len(prompts))
	}
	if p.ID == "" {
		t.Error("expected a generated id")
	}
	if p.Favorite {
		t.Error("new prompts must not start as favorites")
	}
	if !p.CreatedAt.Equal(p.UpdatedAt) {
		t.Errorf("createdAt %v and updatedAt %v should match at creation", p.CreatedAt, p.UpdatedAt)
	}
	if s.SelectedPromptID() != p.ID {
		t.Errorf("expected new prompt to be selected, got %q", s.SelectedPromptID())
	}
}

func TestAddPromptNilTags(t *testing.T) {
	s := newTestStore()
	p := s.AddPrompt(models.PromptDraft{Title: "A", Body: "B"})
	if p.Tags == nil {
		t.Error("tags should be normalized to an empty slice")
	}
}

func TestUpdatePrompt(t *testing.T) {
	s := newTestStore()
	p := s.AddPrompt(models.PromptDraft{Title: "A", Body: "B", Tags: []string{"t1"}})

	title := "Z"
	s.UpdatePrompt(p.ID, models.PromptUpdate{Title: &title})

	got, ok := s.Prompt(p.ID)
	if !ok {
		t.Fatal("prompt disappeared")
	}
	if got.Title != "Z" {
		t.Errorf("title = %q, want Z", got.Title)
	}
	if got.Body != "B" || len(got.Tags) != 1 || got.Tags[0] != "t1" {
		t.Error("unpatched fields must not change")
	}
	if got.ID != p.ID || !got.CreatedAt.Equal(p.CreatedAt) {
		t.Error("id and createdAt are immutable")
	}
	if !got.UpdatedAt.After(p.UpdatedAt) {
		t.Errorf("updatedAt %v should be later than %v", got.UpdatedAt, p.UpdatedAt)
	}
}

func TestUpdatePromptUnknownID(t *testing.T) {
	s := newTestStore()
	p := s.AddPrompt(models.PromptDraft{Title: "A", Body: "B"})

	title := "Z"
	s.UpdatePrompt("nope", models.PromptUpdate{Title: &title})

	got, _ := s.Prompt(p.ID)
	if got.Title != "A" {
		t.Error("updating a nonexistent id must change nothing")
	}
}

func TestDeletePromptClearsSelection(t *testing.T) {
	s := newTestStore()
	p := s.AddPrompt(models.PromptDraft{Title: "A", Body: "B"})

	s.DeletePrompt(p.ID)

	if len(s.Prompts()) != 0 {
		t.Error("prompt should be removed")
	}
	if s.SelectedPromptID() != "" {
		t.Error("selection should be cleared when the selected prompt is deleted")
	}
}

func TestDeletePromptKeepsOtherSelection(t *testing.T) {
	s := newTestStore()
	a := s.AddPrompt(models.PromptDraft{Title: "A", Body: "B"})
	b := s.AddPrompt(models.PromptDraft{Title: "B", Body: "B"})

	s.DeletePrompt(a.ID)

	if s.SelectedPromptID() != b.ID {
		t.Error("deleting another prompt must not clear the selection")
	}
}

func TestDuplicatePrompt(t *testing.T) {
	s := newTestStore()
	src := s.AddPrompt(models.PromptDraft{
		Title:        "A",
		Body:         "B",
		Tags:         []string{"x", "y"},
		CollectionID: "col1",
	})
	s.ToggleFavorite(src.ID)

	dup, ok := s.DuplicatePrompt(src.ID)
	if !ok {
		t.Fatal("expected duplicate to succeed")
	}
	if dup.ID == src.ID {
		t.Error("duplicate must get a fresh id")
	}
	if dup.Title != "A (Copy)" {
		t.Errorf("title = %q, want %q", dup.Title, "A (Copy)")
	}
	if dup.Favorite {
		t.Error("duplicate must reset the favorite flag")
	}
	if dup.Body != src.Body || dup.CollectionID != src.CollectionID {
		t.Error("duplicate must copy body and collection")
	}
	if fmt.Sprint(dup.Tags) != fmt.Sprint(src.Tags) {
		t.Errorf("tags = %v, want %v", dup.Tags, src.Tags)
	}
	if !dup.CreatedAt.After(src.CreatedAt) {
		t.Error("duplicate must get fresh timestamps")
	}
	if s.SelectedPromptID() != dup.ID {
		t.Error("duplicate should become the selected prompt")
	}
}

func TestDuplicatePromptUnknownID(t *testing.T) {
	s := newTestStore()
	if _, ok := s.DuplicatePrompt("nope"); ok {
		t.Error("duplicating a nonexistent id must be a no-op")
	}
	if len(s.Prompts()) != 0 {
		t.Error("no prompt should be created")
	}
}

func TestToggleFavorite(t *testing.T) {
	s := newTestStore()
	p := s.AddPrompt(models.PromptDraft{Title: "A", Body: "B"})

	s.ToggleFavorite(p.ID)
	got, _ := s.Prompt(p.ID)
	if !got.Favorite {
		t.Error("expected favorite after first toggle")
	}
	if !got.UpdatedAt.After(p.UpdatedAt) {
		t.Error("favorite toggle must stamp updatedAt")
	}

	s.ToggleFavorite(p.ID)
	got, _ = s.Prompt(p.ID)
	if got.Favorite {
		t.Error("expected non-favorite after second toggle")
	}
}

func TestDeleteCollectionSeversReferences(t *testing.T) {
	s := newTestStore()
	col := s.AddCollection(models.CollectionDraft{Name: "Work"})
	other := s.AddCollection(models.CollectionDraft{Name: "Home"})
	p := s.AddPrompt(models.PromptDraft{Title: "A", Body: "B", CollectionID: col.ID})
	q := s.AddPrompt(models.PromptDraft{Title: "C", Body: "D", CollectionID: other.ID})
	s.SetFilters(models.FilterUpdate{CollectionID: &col.ID})

	s.DeleteCollection(col.ID)

	if _, ok := s.Collection(col.ID); ok {
		t.Error("collection should be gone")
	}
	got, _ := s.Prompt(p.ID)
	if got.CollectionID != "" {
		t.Error("prompts referencing the deleted collection must become uncategorized")
	}
	kept, _ := s.Prompt(q.ID)
	if kept.CollectionID != other.ID {
		t.Error("prompts in other collections must keep their reference")
	}
	if s.Filters().CollectionID != "" {
		t.Error("an active filter on the deleted collection must be cleared")
	}
}

func TestUpdateCollection(t *testing.T) {
	s := newTestStore()
	col := s.AddCollection(models.CollectionDraft{Name: "Work", Color: "blue"})

	name := "Projects"
	s.UpdateCollection(col.ID, models.CollectionUpdate{Name: &name})

	got, _ := s.Collection(col.ID)
	if got.Name != "Projects" || got.Color != "blue" {
		t.Errorf("got %+v, want renamed collection with color kept", got)
	}
}

func TestSetFiltersShallowMerge(t *testing.T) {
	s := newTestStore()
	search := "ai"
	s.SetFilters(models.FilterUpdate{Search: &search})
	fav := true
	s.SetFilters(models.FilterUpdate{FavoritesOnly: &fav})

	f := s.Filters()
	if f.Search != "ai" || !f.FavoritesOnly {
		t.Errorf("merges should accumulate, got %+v", f)
	}
}

func TestSubscribePublishesPersistedSubset(t *testing.T) {
	s := newTestStore()
	var snapshots []models.State
	s.Subscribe(func(state models.State) {
		snapshots = append(snapshots, state)
	})

	p := s.AddPrompt(models.PromptDraft{Title: "A", Body: "B"})
	if len(snapshots) != 1 {
		t.Fatalf("expected 1 snapshot after add, got %d", len(snapshots))
	}
	if len(snapshots[0].Prompts) != 1 || snapshots[0].Prompts[0].ID != p.ID {
		t.Error("snapshot should carry the new prompt")
	}

	s.SelectPrompt("")
	if len(snapshots) != 1 {
		t.Error("selection changes must not publish")
	}

	s.ToggleFavorite(p.ID)
	s.SetFilters(models.FilterUpdate{})
	if len(snapshots) != 3 {
		t.Errorf("expected snapshots for every mutation, got %d", len(snapshots))
	}
}

func TestInitAdoptsPersistedState(t *testing.T) {
	s := New()
	s.Init(fakeLoader{state: &models.State{
		Prompts:     []models.Prompt{{ID: "p1", Title: "A", Body: "B"}},
		Collections: []models.Collection{{ID: "c1", Name: "Work"}},
		Filters:     models.Filters{Search: "x", Tags: []string{"t"}},
	}})

	if !s.Initialized() {
		t.Fatal("store should be initialized")
	}
	if len(s.Prompts()) != 1 || len(s.Collections()) != 1 {
		t.Error("persisted records should be adopted")
	}
	if s.Filters().Search != "x" {
		t.Error("persisted filters should be adopted")
	}
	if s.SelectedPromptID() != "" {
		t.Error("selection is never persisted")
	}
}

func TestInitRunsOnce(t *testing.T) {
	s := New()
	s.Init(fakeLoader{state: &models.State{
		Prompts:     []models.Prompt{{ID: "p1"}},
		Collections: []models.Collection{},
	}})
	s.Init(fakeLoader{state: &models.State{
		Prompts:     []models.Prompt{{ID: "p2"}, {ID: "p3"}},
		Collections: []models.Collection{},
	}})

	if len(s.Prompts()) != 1 {
		t.Error("second Init must be a no-op")
	}
}

func TestInitFallsBackOnLoaderFailure(t *testing.T) {
	s := New()
	s.Init(fakeLoader{err: fmt.Errorf("corrupted")})

	if !s.Initialized() {
		t.Error("store should initialize even when loading fails")
	}
	if len(s.Prompts()) != 0 {
		t.Error("expected the default empty state")
	}
}
