package rules

import (
	"time"

	"ratedesk/internal/domain/shared/events"
)

type RuleCreatedEvent struct {
	RuleID     RuleID     `json:"rule_id"`
	EffectType EffectType `json:"effect_type"`
	At         time.Time  `json:"at"`
}

func (e RuleCreatedEvent) EventName() string     { return "rules.rule_created" }
func (e RuleCreatedEvent) AggregateID() string   { return string(e.RuleID) }
func (e RuleCreatedEvent) OccurredAt() time.Time { return e.At }

type RuleUpdatedEvent struct {
	RuleID RuleID    `json:"rule_id"`
	At     time.Time `json:"at"`
}

func (e RuleUpdatedEvent) EventName() string     { return "rules.rule_updated" }
func (e RuleUpdatedEvent) AggregateID() string   { return string(e.RuleID) }
func (e RuleUpdatedEvent) OccurredAt() time.Time { return e.At }

type RuleDeletedEvent struct {
	RuleID RuleID    `json:"rule_id"`
	At     time.Time `json:"at"`
}

func (e RuleDeletedEvent) EventName() string     { return "rules.rule_deleted" }
func (e RuleDeletedEvent) AggregateID() string   { return string(e.RuleID) }
func (e RuleDeletedEvent) OccurredAt() time.Time { return e.At }

type RuleDuplicatedEvent struct {
	RuleID   RuleID    `json:"rule_id"`
	SourceID RuleID    `json:"source_id"`
	At       time.Time `json:"at"`
}

func (e RuleDuplicatedEvent) EventName() string     { return "rules.rule_duplicated" }
func (e RuleDuplicatedEvent) AggregateID() string   { return string(e.RuleID) }
func (e RuleDuplicatedEvent) OccurredAt() time.Time { return e.At }

type RuleScopeWidenedEvent struct {
	RuleID RuleID    `json:"rule_id"`
	At     time.Time `json:"at"`
}

func (e RuleScopeWidenedEvent) EventName() string     { return "rules.rule_scope_widened" }
func (e RuleScopeWidenedEvent) AggregateID() string   { return string(e.RuleID) }
func (e RuleScopeWidenedEvent) OccurredAt() time.Time { return e.At }

func newRuleCreatedEvent(id RuleID, effect EffectType, at time.Time) events.DomainEvent {
	return RuleCreatedEvent{RuleID: id, EffectType: effect, At: at}
}

func newRuleUpdatedEvent(id RuleID, at time.Time) events.DomainEvent {
	return RuleUpdatedEvent{RuleID: id, At: at}
}

func newRuleDuplicatedEvent(id, source RuleID, at time.Time) events.DomainEvent {
	return RuleDuplicatedEvent{RuleID: id, SourceID: source, At: at}
}

func newRuleScopeWidenedEvent(id RuleID, at time.Time) events.DomainEvent {
	return RuleScopeWidenedEvent{RuleID: id, At: at}
}
