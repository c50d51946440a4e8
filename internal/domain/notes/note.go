package notes

import (
	"context"
	"errors"
	"strings"
	"time"

	"ratedesk/internal/domain/properties"
	"ratedesk/internal/domain/shared/dates"
)

var (
	ErrIDRequired      = errors.New("notes: id is required")
	ErrContentRequired = errors.New("notes: content is required")
	ErrNoteNotFound    = errors.New("notes: note not found")
)

type NoteID string

// CellNote is a free-text operational annotation pinned to one
// (property, day) calendar cell. It carries no pricing semantics.
type CellNote struct {
	ID         NoteID
	PropertyID properties.PropertyID
	Day        time.Time
	Content    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func New(id NoteID, propertyID properties.PropertyID, day time.Time, content string, now time.Time) (*CellNote, error) {
	if strings.TrimSpace(string(id)) == "" {
		return nil, ErrIDRequired
	}
	if strings.TrimSpace(content) == "" {
		return nil, ErrContentRequired
	}
	return &CellNote{
		ID:         id,
		PropertyID: propertyID,
		Day:        dates.Day(day),
		Content:    strings.TrimSpace(content),
		CreatedAt:  now.UTC(),
		UpdatedAt:  now.UTC(),
	}, nil
}

func (n *CellNote) UpdateContent(content string, now time.Time) error {
	if strings.TrimSpace(content) == "" {
		return ErrContentRequired
	}
	n.Content = strings.TrimSpace(content)
	n.UpdatedAt = now.UTC()
	return nil
}

type Repository interface {
	ByID(ctx context.Context, id NoteID) (*CellNote, error)
	// ForCell returns the first note stored for the cell; callers treat
	// that first match as canonical even if duplicates slipped in.
	ForCell(ctx context.Context, propertyID properties.PropertyID, day time.Time) (*CellNote, error)
	Save(ctx context.Context, note *CellNote) error
	Delete(ctx context.Context, id NoteID) error
}
