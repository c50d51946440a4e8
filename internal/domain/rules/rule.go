package rules

import (
	"context"
	"errors"
	"strings"
	"time"

	"ratedesk/internal/domain/properties"
	"ratedesk/internal/domain/shared/events"
)

var (
	ErrIDRequired   = errors.New("rules: id is required")
	ErrNameRequired = errors.New("rules: name is required")
	ErrInvalidDay   = errors.New("rules: days of week must be within 0..6")
	ErrRuleNotFound = errors.New("rules: rule not found")
)

type RuleID string

// Rule is a declarative pricing/availability instruction: a scope
// (property, window, weekdays, channels), a priority, and one typed
// effect. Rules are matched per (property, day, channel) cell and
// folded by the pricing resolver.
type Rule struct {
	ID        RuleID
	Scope     Scope
	Name      string
	Enabled   bool
	Priority  int
	Window    *Window
	Days      []time.Weekday
	Channels  []Channel
	Effect    Effect
	CreatedAt time.Time
	UpdatedAt time.Time
	events.EventRecorder
}

type CreateRuleParams struct {
	ID       RuleID
	Scope    Scope
	Name     string
	Enabled  bool
	Priority int
	Window   *Window
	Days     []time.Weekday
	Channels []Channel
	Effect   Effect
	Now      time.Time
}

func NewRule(params CreateRuleParams) (*Rule, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return nil, ErrIDRequired
	}
	if err := validateDefinition(params.Name, params.Window, params.Days, params.Channels, params.Effect); err != nil {
		return nil, err
	}
	now := params.Now.UTC()
	rule := &Rule{
		ID:        params.ID,
		Scope:     params.Scope,
		Name:      strings.TrimSpace(params.Name),
		Enabled:   params.Enabled,
		Priority:  params.Priority,
		Window:    cloneWindow(params.Window),
		Days:      append([]time.Weekday(nil), params.Days...),
		Channels:  append([]Channel(nil), params.Channels...),
		Effect:    params.Effect,
		CreatedAt: now,
		UpdatedAt: now,
	}
	rule.Record(newRuleCreatedEvent(rule.ID, rule.Effect.Type(), now))
	return rule, nil
}

type UpdateRuleParams struct {
	Scope    Scope
	Name     string
	Enabled  bool
	Priority int
	Window   *Window
	Days     []time.Weekday
	Channels []Channel
	Effect   Effect
	Now      time.Time
}

// UpdateAttributes replaces the rule definition wholesale. Callers doing
// partial edits merge the patch over the current state first, so an
// update can never leave a half-valid rule behind.
func (r *Rule) UpdateAttributes(params UpdateRuleParams) error {
	if err := validateDefinition(params.Name, params.Window, params.Days, params.Channels, params.Effect); err != nil {
		return err
	}
	now := params.Now.UTC()
	r.Scope = params.Scope
	r.Name = strings.TrimSpace(params.Name)
	r.Enabled = params.Enabled
	r.Priority = params.Priority
	r.Window = cloneWindow(params.Window)
	r.Days = append([]time.Weekday(nil), params.Days...)
	r.Channels = append([]Channel(nil), params.Channels...)
	r.Effect = params.Effect
	r.UpdatedAt = now
	r.Record(newRuleUpdatedEvent(r.ID, now))
	return nil
}

// WidenToPortfolio rewrites a property-scoped rule to cover every
// property in place. Calling it on an already portfolio-wide rule is a
// no-op.
func (r *Rule) WidenToPortfolio(now time.Time) {
	if r.Scope.IsAll() {
		return
	}
	r.Scope = ScopeAll()
	r.UpdatedAt = now.UTC()
	r.Record(newRuleScopeWidenedEvent(r.ID, now.UTC()))
}

// CopyTo synthesizes an independent rule targeting another property:
// fresh id, fresh timestamps, no pending events, same definition.
func (r *Rule) CopyTo(id RuleID, target properties.PropertyID, now time.Time) *Rule {
	clone := &Rule{
		ID:        id,
		Scope:     ScopeProperty(target),
		Name:      r.Name,
		Enabled:   r.Enabled,
		Priority:  r.Priority,
		Window:    cloneWindow(r.Window),
		Days:      append([]time.Weekday(nil), r.Days...),
		Channels:  append([]Channel(nil), r.Channels...),
		Effect:    r.Effect,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}
	clone.Record(newRuleDuplicatedEvent(clone.ID, r.ID, now.UTC()))
	return clone
}

// Snapshot returns a detached copy safe to hand to a fold while the
// original keeps mutating under the store lock.
func (r *Rule) Snapshot() *Rule {
	clone := *r
	clone.Window = cloneWindow(r.Window)
	clone.Days = append([]time.Weekday(nil), r.Days...)
	clone.Channels = append([]Channel(nil), r.Channels...)
	clone.EventRecorder = events.EventRecorder{}
	return &clone
}

func validateDefinition(name string, window *Window, days []time.Weekday, channels []Channel, effect Effect) error {
	if strings.TrimSpace(name) == "" {
		return ErrNameRequired
	}
	if effect == nil {
		return ErrEffectRequired
	}
	if err := effect.validate(); err != nil {
		return err
	}
	if window != nil {
		if window.End.Before(window.Start) {
			return ErrInvalidWindow
		}
	}
	for _, d := range days {
		if d < time.Sunday || d > time.Saturday {
			return ErrInvalidDay
		}
	}
	for _, ch := range channels {
		if _, err := ParseChannel(string(ch)); err != nil {
			return err
		}
	}
	return nil
}

func cloneWindow(w *Window) *Window {
	if w == nil {
		return nil
	}
	clone := *w
	return &clone
}

type Repository interface {
	ByID(ctx context.Context, id RuleID) (*Rule, error)
	// List returns a consistent snapshot of the whole rule set; the
	// matcher, not the store, owns ordering.
	List(ctx context.Context) ([]*Rule, error)
	Save(ctx context.Context, rule *Rule) error
	Delete(ctx context.Context, id RuleID) error
}
