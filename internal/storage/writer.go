package storage

import (
	"fmt"
	"os"

	"promptforge/internal/models"
)

// Writer mirrors store snapshots to a slot. It is meant to be registered as
// a store subscriber so persistence stays outside the store itself.
type Writer struct {
	slot Slot
}

// NewWriter creates a write-through mirror for the given slot.
func NewWriter(slot Slot) *Writer {
	return &Writer{slot: slot}
}

// Persist writes the snapshot to the slot. Write failures are swallowed;
// the in-memory state remains the source of truth for the session.
func (w *Writer) Persist(state models.State) {
	if err := w.slot.Save(state); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to persist state: %v\n", err)
	}
}
