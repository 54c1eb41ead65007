package storage

import (
	"os"
	"path/filepath"
	"testing"

	"promptforge/internal/models"
	"promptforge/internal/store"
)

func sampleState() models.State {
	return models.State{
		Prompts: []models.Prompt{
			{ID: "p1", Title: "A", Body: "B", Tags: []string{"go"}},
		},
		Collections: []models.Collection{
			{ID: "c1", Name: "Work", Color: "blue"},
		},
		Filters: models.Filters{Search: "a", Tags: []string{"go"}, FavoritesOnly: true},
	}
}

func TestFileSlotRoundTrip(t *testing.T) {
	slot := NewFileSlot(t.TempDir())

	if err := slot.Save(sampleState()); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := slot.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded == nil {
		t.Fatal("expected state, got nil")
	}
	if len(loaded.Prompts) != 1 || loaded.Prompts[0].ID != "p1" {
		t.Errorf("prompts did not round-trip: %+v", loaded.Prompts)
	}
	if len(loaded.Collections) != 1 || loaded.Collections[0].Color != "blue" {
		t.Errorf("collections did not round-trip: %+v", loaded.Collections)
	}
	if !loaded.Filters.FavoritesOnly || loaded.Filters.Search != "a" {
		t.Errorf("filters did not round-trip: %+v", loaded.Filters)
	}
}

func TestFileSlotMissingFile(t *testing.T) {
	slot := NewFileSlot(t.TempDir())
	state, err := slot.Load()
	if err != nil {
		t.Fatalf("missing file is an empty slot, got error: %v", err)
	}
	if state != nil {
		t.Error("expected nil state for an empty slot")
	}
}

func TestFileSlotMalformedJSON(t *testing.T) {
	dir := t.TempDir()
	slot := NewFileSlot(dir)
	if err := os.WriteFile(slot.Path(), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := slot.Load(); err == nil {
		t.Error("expected an error for malformed content")
	}
}

func TestFileSlotWrongShape(t *testing.T) {
	dir := t.TempDir()
	slot := NewFileSlot(dir)

	cases := []string{
		`{"collections": []}`,
		`{"prompts": null, "collections": []}`,
		`{"prompts": {}, "collections": []}`,
		`"just a string"`,
	}
	for _, payload := range cases {
		if err := os.WriteFile(slot.Path(), []byte(payload), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := slot.Load(); err == nil {
			t.Errorf("payload %s should be rejected", payload)
		}
	}
}

func TestFileSlotDefaultFiltersWhenAbsent(t *testing.T) {
	dir := t.TempDir()
	slot := NewFileSlot(dir)
	payload := `{"prompts": [], "collections": []}`
	if err := os.WriteFile(slot.Path(), []byte(payload), 0644); err != nil {
		t.Fatal(err)
	}
	state, err := slot.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if state.Filters.Tags == nil || state.Filters.Search != "" || state.Filters.FavoritesOnly {
		t.Errorf("expected default filters, got %+v", state.Filters)
	}
}

func TestSQLiteSlotRoundTrip(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "promptforge.db")
	slot, err := OpenSQLiteSlot(dbPath)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer slot.Close()

	if state, err := slot.Load(); err != nil || state != nil {
		t.Fatalf("fresh database should be an empty slot, got %v, %v", state, err)
	}

	if err := slot.Save(sampleState()); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	// Second save exercises the upsert path.
	updated := sampleState()
	updated.Prompts[0].Title = "Renamed"
	if err := slot.Save(updated); err != nil {
		t.Fatalf("second save failed: %v", err)
	}

	loaded, err := slot.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded == nil || len(loaded.Prompts) != 1 || loaded.Prompts[0].Title != "Renamed" {
		t.Errorf("expected the last write to win, got %+v", loaded)
	}
}

// TestStoreRestartRoundTrip drives a store with a write-through slot,
// restarts into a fresh store and verifies the library survives while the
// selection resets.
func TestStoreRestartRoundTrip(t *testing.T) {
	dir := t.TempDir()
	slot := NewFileSlot(dir)

	first := store.New()
	first.Init(slot)
	first.Subscribe(NewWriter(slot).Persist)

	col := first.AddCollection(models.CollectionDraft{Name: "Work"})
	p := first.AddPrompt(models.PromptDraft{Title: "A", Body: "B", Tags: []string{"go"}, CollectionID: col.ID})
	fav := true
	first.SetFilters(models.FilterUpdate{FavoritesOnly: &fav})
	first.ToggleFavorite(p.ID)

	second := store.New()
	second.Init(slot)

	if len(second.Prompts()) != 1 || len(second.Collections()) != 1 {
		t.Fatalf("library did not survive restart: %d prompts, %d collections",
			len(second.Prompts()), len(second.Collections()))
	}
	got, ok := second.Prompt(p.ID)
	if !ok || !got.Favorite || got.CollectionID != col.ID {
		t.Errorf("prompt state did not survive restart: %+v", got)
	}
	if !second.Filters().FavoritesOnly {
		t.Error("filters did not survive restart")
	}
	if second.SelectedPromptID() != "" {
		t.Error("selection must reset after restart")
	}
}
