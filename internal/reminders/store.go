// Package reminders provides reminder storage for the agent's
// set_reminder and check_reminders tools. Like the note store, it keeps
// an ordered list of records in one flat JSON document, rewritten in
// full on every access.
package reminders

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Reminder is a single scheduled reminder record.
type Reminder struct {
	ID        uuid.UUID `json:"id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
	DueAt     time.Time `json:"due_at"`
	Delivered bool      `json:"delivered"`
}

// Store manages reminder persistence.
type Store struct {
	path string
}

// NewStore creates a reminder store backed by the given JSON file path.
// The file is created lazily on first write.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Set appends a reminder due the given number of minutes from now and
// persists the full list. Zero minutes produces a reminder that is
// immediately eligible for delivery.
func (s *Store) Set(message string, minutesFromNow int) (*Reminder, error) {
	list := s.load()

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate id: %w", err)
	}

	now := time.Now().Truncate(time.Second)
	reminder := Reminder{
		ID:        id,
		Message:   message,
		CreatedAt: now,
		DueAt:     now.Add(time.Duration(minutesFromNow) * time.Minute),
	}
	list = append(list, reminder)

	if err := s.save(list); err != nil {
		return nil, err
	}
	return &reminder, nil
}

// CheckDue marks every not-yet-delivered, past-due reminder as
// delivered, persists the mutation, and returns the newly delivered
// records. Calling it again immediately returns nothing: delivery is
// one-shot.
func (s *Store) CheckDue(now time.Time) ([]Reminder, error) {
	list := s.load()

	var due []Reminder
	for i := range list {
		if list[i].Delivered {
			continue
		}
		if !list[i].DueAt.After(now) {
			list[i].Delivered = true
			due = append(due, list[i])
		}
	}

	if len(due) > 0 {
		if err := s.save(list); err != nil {
			return nil, err
		}
	}
	return due, nil
}

// Pending returns the reminders that have not been delivered yet.
func (s *Store) Pending() []Reminder {
	var pending []Reminder
	for _, r := range s.load() {
		if !r.Delivered {
			pending = append(pending, r)
		}
	}
	return pending
}

// load reads the full document. A missing or corrupt file loads as an
// empty list.
func (s *Store) load() []Reminder {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil
	}

	var list []Reminder
	if err := json.Unmarshal(data, &list); err != nil {
		return nil
	}
	return list
}

// save rewrites the full document.
func (s *Store) save(list []Reminder) error {
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("encode reminders: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
	}

	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write reminders: %w", err)
	}
	return nil
}
