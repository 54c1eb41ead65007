package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"promptforge/internal/models"
)

// FileSlot stores the serialized state in a single JSON file under the
// library directory.
type FileSlot struct {
	filePath string
}

// NewFileSlot creates a file-backed slot rooted at baseDir.
func NewFileSlot(baseDir string) *FileSlot {
	return &FileSlot{
		filePath: filepath.Join(baseDir, SlotName+".json"),
	}
}

// Path returns the location of the slot file.
func (s *FileSlot) Path() string {
	return s.filePath
}

// Load reads and validates the persisted state. A missing file is an empty
// slot, not an error.
func (s *FileSlot) Load() (*models.State, error) {
	data, err := os.ReadFile(s.filePath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}
	return decodeState(data)
}

// Save overwrites the slot file with the given state, creating the library
// directory if needed.
func (s *FileSlot) Save(state models.State) error {
	if err := os.MkdirAll(filepath.Dir(s.filePath), 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	data, err := encodeState(state)
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	return nil
}
