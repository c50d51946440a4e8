package notes

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"ratedesk/internal/app/commands"
	"ratedesk/internal/app/dto"
	"ratedesk/internal/app/queries"
	domainnotes "ratedesk/internal/domain/notes"
	"ratedesk/internal/domain/properties"
)

const (
	addNoteKey     = "notes.add"
	updateNoteKey  = "notes.update"
	deleteNoteKey  = "notes.delete"
	getCellNoteKey = "notes.for_cell"
)

// Deps carries the note store plus overridable id/clock sources.
type Deps struct {
	Notes domainnotes.Repository
	NewID func() string
	Now   func() time.Time
}

func (d Deps) newID() domainnotes.NoteID {
	if d.NewID != nil {
		return domainnotes.NoteID(d.NewID())
	}
	return domainnotes.NoteID(uuid.NewString())
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

type AddNoteCommand struct {
	PropertyID string
	Date       time.Time
	Content    string
}

func (c AddNoteCommand) Key() string { return addNoteKey }

type AddNoteHandler struct {
	Deps
}

func (h *AddNoteHandler) Handle(ctx context.Context, cmd AddNoteCommand) (*dto.CellNote, error) {
	note, err := domainnotes.New(h.newID(), properties.PropertyID(cmd.PropertyID), cmd.Date, cmd.Content, h.now())
	if err != nil {
		return nil, err
	}
	if err := h.Notes.Save(ctx, note); err != nil {
		return nil, err
	}
	mapped := dto.MapNote(note)
	return &mapped, nil
}

type UpdateNoteCommand struct {
	ID      string
	Content string
}

func (c UpdateNoteCommand) Key() string { return updateNoteKey }

type UpdateNoteHandler struct {
	Deps
}

// Handle edits the note content; an unknown id is a no-op like rule
// updates, for the same delete-then-edit race reason.
func (h *UpdateNoteHandler) Handle(ctx context.Context, cmd UpdateNoteCommand) (*dto.CellNote, error) {
	note, err := h.Notes.ByID(ctx, domainnotes.NoteID(cmd.ID))
	if err != nil {
		if errors.Is(err, domainnotes.ErrNoteNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if err := note.UpdateContent(cmd.Content, h.now()); err != nil {
		return nil, err
	}
	if err := h.Notes.Save(ctx, note); err != nil {
		return nil, err
	}
	mapped := dto.MapNote(note)
	return &mapped, nil
}

type DeleteNoteCommand struct {
	ID string
}

func (c DeleteNoteCommand) Key() string { return deleteNoteKey }

type DeleteNoteHandler struct {
	Deps
}

func (h *DeleteNoteHandler) Handle(ctx context.Context, cmd DeleteNoteCommand) (struct{}, error) {
	if err := h.Notes.Delete(ctx, domainnotes.NoteID(cmd.ID)); err != nil {
		return struct{}{}, err
	}
	return struct{}{}, nil
}

type GetCellNoteQuery struct {
	PropertyID string
	Date       time.Time
}

func (q GetCellNoteQuery) Key() string { return getCellNoteKey }

type GetCellNoteHandler struct {
	Notes domainnotes.Repository
}

// Handle returns the cell's note or nil when the cell has none.
func (h *GetCellNoteHandler) Handle(ctx context.Context, q GetCellNoteQuery) (*dto.CellNote, error) {
	note, err := h.Notes.ForCell(ctx, properties.PropertyID(q.PropertyID), q.Date)
	if err != nil {
		if errors.Is(err, domainnotes.ErrNoteNotFound) {
			return nil, nil
		}
		return nil, err
	}
	mapped := dto.MapNote(note)
	return &mapped, nil
}

var (
	_ commands.Handler[AddNoteCommand, *dto.CellNote]    = (*AddNoteHandler)(nil)
	_ commands.Handler[UpdateNoteCommand, *dto.CellNote] = (*UpdateNoteHandler)(nil)
	_ commands.Handler[DeleteNoteCommand, struct{}]      = (*DeleteNoteHandler)(nil)
	_ queries.Handler[GetCellNoteQuery, *dto.CellNote]   = (*GetCellNoteHandler)(nil)
)
