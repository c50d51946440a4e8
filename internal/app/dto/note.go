package dto

import (
	"time"

	"ratedesk/internal/domain/notes"
)

type CellNote struct {
	ID         string    `json:"id"`
	PropertyID string    `json:"property_id"`
	Date       string    `json:"date"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func MapNote(note *notes.CellNote) CellNote {
	return CellNote{
		ID:         string(note.ID),
		PropertyID: string(note.PropertyID),
		Date:       note.Day.Format(DateLayout),
		Content:    note.Content,
		CreatedAt:  note.CreatedAt,
		UpdatedAt:  note.UpdatedAt,
	}
}
