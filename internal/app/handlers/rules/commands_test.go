package rules

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ratedesk/internal/app/dto"
	domainrules "ratedesk/internal/domain/rules"
	"ratedesk/internal/infra/storage/memory"
)

func testDeps(t *testing.T) (Deps, *memory.RuleStore, *memory.OutboxQueue) {
	t.Helper()
	store := memory.NewRuleStore()
	queue := memory.NewOutboxQueue()
	seq := 0
	deps := Deps{
		Rules:  store,
		Outbox: queue,
		NewID: func() string {
			seq++
			return fmt.Sprintf("rule-%d", seq)
		},
		Now: func() time.Time {
			return time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
		},
	}
	return deps, store, queue
}

func minStayInput(propertyID string, nights int) dto.RuleInput {
	return dto.RuleInput{
		PropertyID: propertyID,
		Name:       "minimum stay",
		Type:       string(domainrules.TypeMinStay),
		Priority:   5,
		MinStay:    nights,
	}
}

func TestCreateRuleHandler(t *testing.T) {
	ctx := context.Background()
	deps, store, queue := testDeps(t)
	handler := &CreateRuleHandler{Deps: deps}

	created, err := handler.Handle(ctx, CreateRuleCommand{Input: minStayInput("p1", 3)})
	require.NoError(t, err)
	assert.Equal(t, "rule-1", created.ID)
	assert.Equal(t, "p1", created.PropertyID)
	assert.Equal(t, 3, created.MinStay)
	assert.True(t, created.Enabled)

	stored, err := store.ByID(ctx, "rule-1")
	require.NoError(t, err)
	assert.Equal(t, domainrules.MinStay{Nights: 3}, stored.Effect)
	// Pending events drained into the outbox, not left on the aggregate.
	assert.Empty(t, stored.PendingEvents())
	assert.Equal(t, 1, queue.Pending())
}

func TestCreateRuleHandlerRejectsInvalidInput(t *testing.T) {
	ctx := context.Background()
	deps, store, _ := testDeps(t)
	handler := &CreateRuleHandler{Deps: deps}

	_, err := handler.Handle(ctx, CreateRuleCommand{Input: minStayInput("p1", 0)})
	assert.ErrorIs(t, err, domainrules.ErrStayNights)

	_, err = handler.Handle(ctx, CreateRuleCommand{Input: dto.RuleInput{
		PropertyID: "p1",
		Name:       "mystery",
		Type:       "loyalty_bonus",
	}})
	assert.ErrorIs(t, err, dto.ErrUnknownRuleType)

	list, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCreateRuleHandlerPortfolioScope(t *testing.T) {
	ctx := context.Background()
	deps, store, _ := testDeps(t)
	handler := &CreateRuleHandler{Deps: deps}

	created, err := handler.Handle(ctx, CreateRuleCommand{Input: minStayInput(dto.PropertyWildcard, 2)})
	require.NoError(t, err)
	assert.Equal(t, dto.PropertyWildcard, created.PropertyID)

	stored, err := store.ByID(ctx, domainrules.RuleID(created.ID))
	require.NoError(t, err)
	assert.True(t, stored.Scope.IsAll())
}

func TestUpdateRuleHandlerMergesPatch(t *testing.T) {
	ctx := context.Background()
	deps, store, _ := testDeps(t)
	created, err := (&CreateRuleHandler{Deps: deps}).Handle(ctx, CreateRuleCommand{Input: minStayInput("p1", 3)})
	require.NoError(t, err)

	nights := 5
	enabled := false
	updated, err := (&UpdateRuleHandler{Deps: deps}).Handle(ctx, UpdateRuleCommand{
		ID:    created.ID,
		Patch: dto.RulePatch{MinStay: &nights, Enabled: &enabled},
	})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, 5, updated.MinStay)
	assert.False(t, updated.Enabled)
	// Untouched fields keep their stored values.
	assert.Equal(t, "minimum stay", updated.Name)
	assert.Equal(t, "p1", updated.PropertyID)
	assert.Equal(t, 5, updated.Priority)

	stored, err := store.ByID(ctx, domainrules.RuleID(created.ID))
	require.NoError(t, err)
	assert.Equal(t, domainrules.MinStay{Nights: 5}, stored.Effect)
}

func TestUpdateRuleHandlerUnknownIDIsNoOp(t *testing.T) {
	deps, _, queue := testDeps(t)
	nights := 5
	updated, err := (&UpdateRuleHandler{Deps: deps}).Handle(context.Background(), UpdateRuleCommand{
		ID:    "missing",
		Patch: dto.RulePatch{MinStay: &nights},
	})
	require.NoError(t, err)
	assert.Nil(t, updated)
	assert.Zero(t, queue.Pending())
}

func TestUpdateRuleHandlerRejectsInvalidPatch(t *testing.T) {
	ctx := context.Background()
	deps, store, _ := testDeps(t)
	created, err := (&CreateRuleHandler{Deps: deps}).Handle(ctx, CreateRuleCommand{Input: minStayInput("p1", 3)})
	require.NoError(t, err)

	empty := ""
	_, err = (&UpdateRuleHandler{Deps: deps}).Handle(ctx, UpdateRuleCommand{
		ID:    created.ID,
		Patch: dto.RulePatch{Name: &empty},
	})
	assert.ErrorIs(t, err, domainrules.ErrNameRequired)

	stored, err := store.ByID(ctx, domainrules.RuleID(created.ID))
	require.NoError(t, err)
	assert.Equal(t, "minimum stay", stored.Name)
}

func TestDeleteRuleHandler(t *testing.T) {
	ctx := context.Background()
	deps, store, queue := testDeps(t)
	created, err := (&CreateRuleHandler{Deps: deps}).Handle(ctx, CreateRuleCommand{Input: minStayInput("p1", 3)})
	require.NoError(t, err)

	handler := &DeleteRuleHandler{Deps: deps}
	_, err = handler.Handle(ctx, DeleteRuleCommand{ID: created.ID})
	require.NoError(t, err)

	_, err = store.ByID(ctx, domainrules.RuleID(created.ID))
	assert.ErrorIs(t, err, domainrules.ErrRuleNotFound)
	// create + delete events.
	assert.Equal(t, 2, queue.Pending())

	// Deleting an absent id succeeds and emits nothing.
	_, err = handler.Handle(ctx, DeleteRuleCommand{ID: created.ID})
	require.NoError(t, err)
	assert.Equal(t, 2, queue.Pending())
}

func TestDuplicateRuleHandler(t *testing.T) {
	ctx := context.Background()
	deps, store, _ := testDeps(t)
	created, err := (&CreateRuleHandler{Deps: deps}).Handle(ctx, CreateRuleCommand{Input: minStayInput("p1", 3)})
	require.NoError(t, err)

	copies, err := (&DuplicateRuleHandler{Deps: deps}).Handle(ctx, DuplicateRuleCommand{
		ID:                created.ID,
		TargetPropertyIDs: []string{"p2", "p3"},
	})
	require.NoError(t, err)
	require.Len(t, copies, 2)

	assert.Equal(t, "p2", copies[0].PropertyID)
	assert.Equal(t, "p3", copies[1].PropertyID)
	assert.NotEqual(t, created.ID, copies[0].ID)
	assert.NotEqual(t, copies[0].ID, copies[1].ID)
	for _, copied := range copies {
		assert.Equal(t, created.Name, copied.Name)
		assert.Equal(t, created.MinStay, copied.MinStay)
	}

	// The source is untouched.
	source, err := store.ByID(ctx, domainrules.RuleID(created.ID))
	require.NoError(t, err)
	target, ok := source.Scope.Property()
	require.True(t, ok)
	assert.Equal(t, "p1", string(target))

	list, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestDuplicateRuleHandlerErrors(t *testing.T) {
	ctx := context.Background()
	deps, _, _ := testDeps(t)
	handler := &DuplicateRuleHandler{Deps: deps}

	_, err := handler.Handle(ctx, DuplicateRuleCommand{ID: "missing", TargetPropertyIDs: []string{"p2"}})
	assert.ErrorIs(t, err, domainrules.ErrRuleNotFound)

	_, err = handler.Handle(ctx, DuplicateRuleCommand{ID: "whatever"})
	assert.ErrorIs(t, err, ErrNoTargets)
}

func TestApplyRuleToAllHandler(t *testing.T) {
	ctx := context.Background()
	deps, store, queue := testDeps(t)
	created, err := (&CreateRuleHandler{Deps: deps}).Handle(ctx, CreateRuleCommand{Input: minStayInput("p1", 3)})
	require.NoError(t, err)

	handler := &ApplyRuleToAllHandler{Deps: deps}
	widened, err := handler.Handle(ctx, ApplyRuleToAllCommand{ID: created.ID})
	require.NoError(t, err)
	assert.Equal(t, dto.PropertyWildcard, widened.PropertyID)

	stored, err := store.ByID(ctx, domainrules.RuleID(created.ID))
	require.NoError(t, err)
	assert.True(t, stored.Scope.IsAll())
	// create + widen events.
	assert.Equal(t, 2, queue.Pending())

	// Idempotent: applying again changes nothing and emits nothing.
	again, err := handler.Handle(ctx, ApplyRuleToAllCommand{ID: created.ID})
	require.NoError(t, err)
	assert.Equal(t, dto.PropertyWildcard, again.PropertyID)
	assert.Equal(t, 2, queue.Pending())
}

func TestApplyRuleToAllHandlerUnknownID(t *testing.T) {
	deps, _, _ := testDeps(t)
	_, err := (&ApplyRuleToAllHandler{Deps: deps}).Handle(context.Background(), ApplyRuleToAllCommand{ID: "missing"})
	assert.ErrorIs(t, err, domainrules.ErrRuleNotFound)
}
