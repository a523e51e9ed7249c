// Package notes provides long-term note storage for the agent's
// remember_info and recall_memory tools. Notes live in a single flat
// JSON document that is read, modified, and rewritten in full on every
// access. There is no locking against concurrent writers; the agent
// processes turns strictly sequentially.
package notes

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Note is a single remembered record.
type Note struct {
	ID        uuid.UUID `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Text      string    `json:"text"`
}

// Store manages note persistence.
type Store struct {
	path string
}

// NewStore creates a note store backed by the given JSON file path.
// The file is created lazily on first write.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Add appends a timestamped note and persists the full list.
func (s *Store) Add(text string) (*Note, error) {
	list := s.load()

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate id: %w", err)
	}

	note := Note{
		ID:        id,
		Timestamp: time.Now().Truncate(time.Second),
		Text:      text,
	}
	list = append(list, note)

	if err := s.save(list); err != nil {
		return nil, err
	}
	return &note, nil
}

// Recent returns up to the last n notes, oldest first.
func (s *Store) Recent(n int) []Note {
	list := s.load()
	if n > 0 && len(list) > n {
		list = list[len(list)-n:]
	}
	return list
}

// Count returns the number of stored notes.
func (s *Store) Count() int {
	return len(s.load())
}

// load reads the full document. A missing or corrupt file loads as an
// empty list so a damaged store degrades to amnesia, not a crash.
func (s *Store) load() []Note {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil
	}

	var list []Note
	if err := json.Unmarshal(data, &list); err != nil {
		return nil
	}
	return list
}

// save rewrites the full document.
func (s *Store) save(list []Note) error {
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("encode notes: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
	}

	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write notes: %w", err)
	}
	return nil
}
