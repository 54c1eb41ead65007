// Package storage persists the prompt library state to a single named slot.
//
// The serialized payload is always the full {prompts, collections, filters}
// snapshot; the slot is written through after every store mutation and read
// once at startup. Two slot media are provided: a JSON file (the default)
// and a SQLite key-value table. Concurrent writers are not coordinated;
// last writer wins.
package storage

import (
	"encoding/json"
	"fmt"

	"promptforge/internal/models"
)

// SlotName identifies the persisted state slot across media and versions of
// the on-disk layout.
const SlotName = "prompt-manager-state-v1"

// Slot is a single named key-value location holding the serialized state.
type Slot interface {
	// Load reads the persisted state. It returns (nil, nil) when the slot
	// is empty and an error when the payload is missing required structure
	// or cannot be parsed.
	Load() (*models.State, error)
	// Save overwrites the slot with the given state.
	Save(state models.State) error
}

// persistedState mirrors models.State with pointer-typed collections so a
// payload missing prompts or collections can be told apart from one with
// empty lists.
type persistedState struct {
	Prompts     *[]models.Prompt     `json:"prompts"`
	Collections *[]models.Collection `json:"collections"`
	Filters     *models.Filters      `json:"filters"`
}

// decodeState parses and structurally validates a serialized snapshot.
// Prompts and collections must both be present as arrays; filters fall back
// to defaults when absent.
func decodeState(data []byte) (*models.State, error) {
	var raw persistedState
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse state payload: %w", err)
	}
	if raw.Prompts == nil || raw.Collections == nil {
		return nil, fmt.Errorf("state payload missing prompts or collections")
	}

	state := &models.State{
		Prompts:     *raw.Prompts,
		Collections: *raw.Collections,
		Filters:     models.DefaultFilters(),
	}
	if raw.Filters != nil {
		state.Filters = *raw.Filters
	}
	state.Normalize()
	return state, nil
}

// encodeState serializes a snapshot for storage.
func encodeState(state models.State) ([]byte, error) {
	state.Normalize()
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal state: %w", err)
	}
	return data, nil
}
