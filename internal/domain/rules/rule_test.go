package rules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validParams() CreateRuleParams {
	return CreateRuleParams{
		ID:       "rule-1",
		Scope:    ScopeProperty("prop-1"),
		Name:     "summer minimum",
		Enabled:  true,
		Priority: 10,
		Effect:   MinStay{Nights: 3},
		Now:      time.Date(2026, 6, 1, 15, 4, 5, 0, time.FixedZone("CEST", 2*3600)),
	}
}

func TestNewRule(t *testing.T) {
	rule, err := NewRule(validParams())
	require.NoError(t, err)

	assert.Equal(t, RuleID("rule-1"), rule.ID)
	assert.Equal(t, "summer minimum", rule.Name)
	assert.True(t, rule.Enabled)
	assert.Equal(t, time.UTC, rule.CreatedAt.Location())
	assert.Equal(t, rule.CreatedAt, rule.UpdatedAt)

	events := rule.PendingEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "rules.rule_created", events[0].EventName())
}

func TestNewRuleTrimsName(t *testing.T) {
	params := validParams()
	params.Name = "  weekend markup  "
	rule, err := NewRule(params)
	require.NoError(t, err)
	assert.Equal(t, "weekend markup", rule.Name)
}

func TestNewRuleValidation(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*CreateRuleParams)
		wantErr error
	}{
		{
			name:    "missing id",
			mutate:  func(p *CreateRuleParams) { p.ID = "  " },
			wantErr: ErrIDRequired,
		},
		{
			name:    "missing name",
			mutate:  func(p *CreateRuleParams) { p.Name = "" },
			wantErr: ErrNameRequired,
		},
		{
			name:    "missing effect",
			mutate:  func(p *CreateRuleParams) { p.Effect = nil },
			wantErr: ErrEffectRequired,
		},
		{
			name:    "min stay below one night",
			mutate:  func(p *CreateRuleParams) { p.Effect = MinStay{Nights: 0} },
			wantErr: ErrStayNights,
		},
		{
			name:    "max stay below one night",
			mutate:  func(p *CreateRuleParams) { p.Effect = MaxStay{Nights: -2} },
			wantErr: ErrStayNights,
		},
		{
			name:    "weekday out of range",
			mutate:  func(p *CreateRuleParams) { p.Days = []time.Weekday{time.Monday, time.Weekday(7)} },
			wantErr: ErrInvalidDay,
		},
		{
			name:    "unknown channel",
			mutate:  func(p *CreateRuleParams) { p.Channels = []Channel{"expedia"} },
			wantErr: ErrUnknownChannel,
		},
		{
			name: "window end before start",
			mutate: func(p *CreateRuleParams) {
				p.Window = &Window{
					Start: time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC),
					End:   time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
				}
			},
			wantErr: ErrInvalidWindow,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			params := validParams()
			tc.mutate(&params)
			_, err := NewRule(params)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestUpdateAttributesReplacesDefinition(t *testing.T) {
	rule, err := NewRule(validParams())
	require.NoError(t, err)
	rule.ClearEvents()

	later := time.Date(2026, 6, 2, 9, 0, 0, 0, time.UTC)
	err = rule.UpdateAttributes(UpdateRuleParams{
		Scope:    ScopeAll(),
		Name:     "portfolio minimum",
		Enabled:  false,
		Priority: 20,
		Effect:   MinStay{Nights: 5},
		Now:      later,
	})
	require.NoError(t, err)

	assert.True(t, rule.Scope.IsAll())
	assert.Equal(t, "portfolio minimum", rule.Name)
	assert.False(t, rule.Enabled)
	assert.Equal(t, 20, rule.Priority)
	assert.Equal(t, MinStay{Nights: 5}, rule.Effect)
	assert.Equal(t, later, rule.UpdatedAt)

	events := rule.PendingEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "rules.rule_updated", events[0].EventName())
}

func TestUpdateAttributesRejectsInvalidLeavingRuleUntouched(t *testing.T) {
	rule, err := NewRule(validParams())
	require.NoError(t, err)
	rule.ClearEvents()

	before := rule.Snapshot()
	err = rule.UpdateAttributes(UpdateRuleParams{
		Name:   "",
		Effect: MinStay{Nights: 2},
		Now:    time.Now(),
	})
	assert.ErrorIs(t, err, ErrNameRequired)
	assert.Equal(t, before.Name, rule.Name)
	assert.Equal(t, before.UpdatedAt, rule.UpdatedAt)
	assert.Empty(t, rule.PendingEvents())
}

func TestWidenToPortfolio(t *testing.T) {
	rule, err := NewRule(validParams())
	require.NoError(t, err)
	rule.ClearEvents()

	now := time.Date(2026, 6, 3, 0, 0, 0, 0, time.UTC)
	rule.WidenToPortfolio(now)
	assert.True(t, rule.Scope.IsAll())
	require.Len(t, rule.PendingEvents(), 1)

	// Already portfolio-wide: nothing changes, nothing recorded.
	rule.ClearEvents()
	stamp := rule.UpdatedAt
	rule.WidenToPortfolio(now.Add(time.Hour))
	assert.Equal(t, stamp, rule.UpdatedAt)
	assert.Empty(t, rule.PendingEvents())
}

func TestCopyToIsIndependent(t *testing.T) {
	params := validParams()
	window, err := NewWindow(
		time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	params.Window = &window
	params.Days = []time.Weekday{time.Friday, time.Saturday}
	source, err := NewRule(params)
	require.NoError(t, err)
	source.ClearEvents()

	now := time.Date(2026, 6, 5, 0, 0, 0, 0, time.UTC)
	clone := source.CopyTo("rule-2", "prop-2", now)

	assert.Equal(t, RuleID("rule-2"), clone.ID)
	target, ok := clone.Scope.Property()
	require.True(t, ok)
	assert.Equal(t, "prop-2", string(target))
	assert.Equal(t, source.Name, clone.Name)
	assert.Equal(t, source.Effect, clone.Effect)
	assert.Equal(t, now, clone.CreatedAt)

	// Mutating the clone must not leak into the source.
	clone.Window.Start = clone.Window.Start.AddDate(0, 1, 0)
	clone.Days[0] = time.Sunday
	assert.Equal(t, time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC), source.Window.Start)
	assert.Equal(t, time.Friday, source.Days[0])

	events := clone.PendingEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "rules.rule_duplicated", events[0].EventName())
	assert.Empty(t, source.PendingEvents())
}

func TestSnapshotDetaches(t *testing.T) {
	rule, err := NewRule(validParams())
	require.NoError(t, err)

	snap := rule.Snapshot()
	assert.Empty(t, snap.PendingEvents())

	snap.Name = "renamed"
	assert.Equal(t, "summer minimum", rule.Name)
}
