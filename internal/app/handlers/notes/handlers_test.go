package notes

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainnotes "ratedesk/internal/domain/notes"
	"ratedesk/internal/infra/storage/memory"
)

func testDeps(t *testing.T) (Deps, *memory.NoteStore) {
	t.Helper()
	store := memory.NewNoteStore()
	seq := 0
	deps := Deps{
		Notes: store,
		NewID: func() string {
			seq++
			return fmt.Sprintf("note-%d", seq)
		},
		Now: func() time.Time {
			return time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
		},
	}
	return deps, store
}

func TestAddNoteHandler(t *testing.T) {
	ctx := context.Background()
	deps, store := testDeps(t)

	created, err := (&AddNoteHandler{Deps: deps}).Handle(ctx, AddNoteCommand{
		PropertyID: "p1",
		Date:       time.Date(2026, 7, 10, 18, 0, 0, 0, time.UTC),
		Content:    "boiler inspection at noon",
	})
	require.NoError(t, err)
	assert.Equal(t, "note-1", created.ID)
	assert.Equal(t, "2026-07-10", created.Date)

	stored, err := store.ForCell(ctx, "p1", time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "boiler inspection at noon", stored.Content)
}

func TestAddNoteHandlerRejectsEmptyContent(t *testing.T) {
	deps, _ := testDeps(t)
	_, err := (&AddNoteHandler{Deps: deps}).Handle(context.Background(), AddNoteCommand{
		PropertyID: "p1",
		Date:       time.Now(),
		Content:    "   ",
	})
	assert.ErrorIs(t, err, domainnotes.ErrContentRequired)
}

func TestUpdateNoteHandler(t *testing.T) {
	ctx := context.Background()
	deps, store := testDeps(t)
	created, err := (&AddNoteHandler{Deps: deps}).Handle(ctx, AddNoteCommand{
		PropertyID: "p1",
		Date:       time.Now(),
		Content:    "original",
	})
	require.NoError(t, err)

	updated, err := (&UpdateNoteHandler{Deps: deps}).Handle(ctx, UpdateNoteCommand{
		ID:      created.ID,
		Content: "revised",
	})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "revised", updated.Content)

	stored, err := store.ByID(ctx, domainnotes.NoteID(created.ID))
	require.NoError(t, err)
	assert.Equal(t, "revised", stored.Content)
}

func TestUpdateNoteHandlerUnknownIDIsNoOp(t *testing.T) {
	deps, _ := testDeps(t)
	updated, err := (&UpdateNoteHandler{Deps: deps}).Handle(context.Background(), UpdateNoteCommand{
		ID:      "missing",
		Content: "whatever",
	})
	require.NoError(t, err)
	assert.Nil(t, updated)
}

func TestDeleteNoteHandler(t *testing.T) {
	ctx := context.Background()
	deps, store := testDeps(t)
	created, err := (&AddNoteHandler{Deps: deps}).Handle(ctx, AddNoteCommand{
		PropertyID: "p1",
		Date:       time.Now(),
		Content:    "to be removed",
	})
	require.NoError(t, err)

	handler := &DeleteNoteHandler{Deps: deps}
	_, err = handler.Handle(ctx, DeleteNoteCommand{ID: created.ID})
	require.NoError(t, err)

	_, err = store.ByID(ctx, domainnotes.NoteID(created.ID))
	assert.ErrorIs(t, err, domainnotes.ErrNoteNotFound)

	_, err = handler.Handle(ctx, DeleteNoteCommand{ID: created.ID})
	require.NoError(t, err)
}

func TestGetCellNoteHandler(t *testing.T) {
	ctx := context.Background()
	deps, store := testDeps(t)
	handler := &GetCellNoteHandler{Notes: store}

	day := time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC)
	found, err := handler.Handle(ctx, GetCellNoteQuery{PropertyID: "p1", Date: day})
	require.NoError(t, err)
	assert.Nil(t, found)

	_, err = (&AddNoteHandler{Deps: deps}).Handle(ctx, AddNoteCommand{
		PropertyID: "p1",
		Date:       day,
		Content:    "late checkout agreed",
	})
	require.NoError(t, err)

	found, err = handler.Handle(ctx, GetCellNoteQuery{PropertyID: "p1", Date: day})
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "late checkout agreed", found.Content)
}
