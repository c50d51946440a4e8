package memory

import (
	"context"
	"sync"
	"time"

	domainnotes "ratedesk/internal/domain/notes"
	"ratedesk/internal/domain/properties"
	"ratedesk/internal/domain/shared/dates"
)

// NoteStore keeps cell annotations in memory. Uniqueness by
// (property, day) is not enforced; ForCell returns the earliest stored
// match and callers treat it as canonical.
type NoteStore struct {
	mu    sync.RWMutex
	items []*domainnotes.CellNote
}

func NewNoteStore() *NoteStore {
	return &NoteStore{}
}

func (s *NoteStore) ByID(ctx context.Context, id domainnotes.NoteID) (*domainnotes.CellNote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, note := range s.items {
		if note.ID == id {
			clone := *note
			return &clone, nil
		}
	}
	return nil, domainnotes.ErrNoteNotFound
}

func (s *NoteStore) ForCell(ctx context.Context, propertyID properties.PropertyID, day time.Time) (*domainnotes.CellNote, error) {
	target := dates.Day(day)
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, note := range s.items {
		if note.PropertyID == propertyID && note.Day.Equal(target) {
			clone := *note
			return &clone, nil
		}
	}
	return nil, domainnotes.ErrNoteNotFound
}

func (s *NoteStore) Save(ctx context.Context, note *domainnotes.CellNote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *note
	for i, existing := range s.items {
		if existing.ID == note.ID {
			s.items[i] = &clone
			return nil
		}
	}
	s.items = append(s.items, &clone)
	return nil
}

func (s *NoteStore) Delete(ctx context.Context, id domainnotes.NoteID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.items {
		if existing.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return nil
}

var _ domainnotes.Repository = (*NoteStore)(nil)
