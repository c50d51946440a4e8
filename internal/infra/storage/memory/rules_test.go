package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainrules "ratedesk/internal/domain/rules"
)

func newTestRule(t *testing.T, id string) *domainrules.Rule {
	t.Helper()
	rule, err := domainrules.NewRule(domainrules.CreateRuleParams{
		ID:      domainrules.RuleID(id),
		Scope:   domainrules.ScopeAll(),
		Name:    "rule " + id,
		Enabled: true,
		Effect:  domainrules.MinStay{Nights: 2},
		Now:     time.Now(),
	})
	require.NoError(t, err)
	return rule
}

func TestRuleStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewRuleStore()

	require.NoError(t, store.Save(ctx, newTestRule(t, "r1")))

	loaded, err := store.ByID(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, domainrules.RuleID("r1"), loaded.ID)
	assert.Equal(t, "rule r1", loaded.Name)
}

func TestRuleStoreByIDUnknown(t *testing.T) {
	store := NewRuleStore()
	_, err := store.ByID(context.Background(), "missing")
	assert.ErrorIs(t, err, domainrules.ErrRuleNotFound)
}

func TestRuleStoreListKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	store := NewRuleStore()
	for _, id := range []string{"b", "a", "c"} {
		require.NoError(t, store.Save(ctx, newTestRule(t, id)))
	}

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, domainrules.RuleID("b"), list[0].ID)
	assert.Equal(t, domainrules.RuleID("a"), list[1].ID)
	assert.Equal(t, domainrules.RuleID("c"), list[2].ID)
}

func TestRuleStoreHandsOutDetachedSnapshots(t *testing.T) {
	ctx := context.Background()
	store := NewRuleStore()
	require.NoError(t, store.Save(ctx, newTestRule(t, "r1")))

	loaded, err := store.ByID(ctx, "r1")
	require.NoError(t, err)
	loaded.Name = "mutated outside the store"

	fresh, err := store.ByID(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "rule r1", fresh.Name)
}

func TestRuleStoreSaveDoesNotRetainCallerPointer(t *testing.T) {
	ctx := context.Background()
	store := NewRuleStore()

	rule := newTestRule(t, "r1")
	require.NoError(t, store.Save(ctx, rule))
	rule.Name = "mutated after save"

	loaded, err := store.ByID(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "rule r1", loaded.Name)
}

func TestRuleStoreSaveOverwrites(t *testing.T) {
	ctx := context.Background()
	store := NewRuleStore()
	require.NoError(t, store.Save(ctx, newTestRule(t, "r1")))

	updated := newTestRule(t, "r1")
	updated.Name = "renamed"
	require.NoError(t, store.Save(ctx, updated))

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "renamed", list[0].Name)
}

func TestRuleStoreDelete(t *testing.T) {
	ctx := context.Background()
	store := NewRuleStore()
	require.NoError(t, store.Save(ctx, newTestRule(t, "r1")))
	require.NoError(t, store.Save(ctx, newTestRule(t, "r2")))

	require.NoError(t, store.Delete(ctx, "r1"))
	_, err := store.ByID(ctx, "r1")
	assert.ErrorIs(t, err, domainrules.ErrRuleNotFound)

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, domainrules.RuleID("r2"), list[0].ID)

	// Deleting again is a no-op.
	require.NoError(t, store.Delete(ctx, "r1"))
}
