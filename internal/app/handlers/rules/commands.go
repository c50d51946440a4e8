package rules

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"ratedesk/internal/app/commands"
	"ratedesk/internal/app/dto"
	appoutbox "ratedesk/internal/app/outbox"
	"ratedesk/internal/domain/properties"
	domainrules "ratedesk/internal/domain/rules"
)

const (
	createRuleKey     = "rules.create"
	updateRuleKey     = "rules.update"
	deleteRuleKey     = "rules.delete"
	duplicateRuleKey  = "rules.duplicate"
	applyRuleToAllKey = "rules.apply_to_all"
)

var ErrNoTargets = errors.New("rules: duplicate requires at least one target property")

// Deps carries what every rule command needs: the store, the event
// outbox and overridable id/clock sources.
type Deps struct {
	Rules   domainrules.Repository
	Outbox  appoutbox.Outbox
	Encoder appoutbox.EventEncoder
	NewID   func() string
	Now     func() time.Time
}

func (d Deps) newID() domainrules.RuleID {
	if d.NewID != nil {
		return domainrules.RuleID(d.NewID())
	}
	return domainrules.RuleID(uuid.NewString())
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

func (d Deps) drain(ctx context.Context, rule *domainrules.Rule) error {
	if err := appoutbox.RecordDomainEvents(ctx, d.Outbox, d.Encoder, rule.PendingEvents()); err != nil {
		return err
	}
	rule.ClearEvents()
	return nil
}

type CreateRuleCommand struct {
	Input dto.RuleInput
}

func (c CreateRuleCommand) Key() string { return createRuleKey }

type CreateRuleHandler struct {
	Deps
}

func (h *CreateRuleHandler) Handle(ctx context.Context, cmd CreateRuleCommand) (*dto.Rule, error) {
	params, err := buildCreateParams(cmd.Input, h.newID(), h.now())
	if err != nil {
		return nil, err
	}
	rule, err := domainrules.NewRule(params)
	if err != nil {
		return nil, err
	}
	if err := h.Rules.Save(ctx, rule); err != nil {
		return nil, err
	}
	if err := h.drain(ctx, rule); err != nil {
		return nil, err
	}
	mapped := dto.MapRule(rule)
	return &mapped, nil
}

type UpdateRuleCommand struct {
	ID    string
	Patch dto.RulePatch
}

func (c UpdateRuleCommand) Key() string { return updateRuleKey }

type UpdateRuleHandler struct {
	Deps
}

// Handle merges the patch over the stored definition. An unknown id is
// a silent no-op: the console may race an edit against a delete and
// must not crash on it.
func (h *UpdateRuleHandler) Handle(ctx context.Context, cmd UpdateRuleCommand) (*dto.Rule, error) {
	rule, err := h.Rules.ByID(ctx, domainrules.RuleID(cmd.ID))
	if err != nil {
		if errors.Is(err, domainrules.ErrRuleNotFound) {
			return nil, nil
		}
		return nil, err
	}
	input := dto.PatchInput(dto.MapRule(rule), cmd.Patch)
	params, err := buildUpdateParams(input, h.now())
	if err != nil {
		return nil, err
	}
	if err := rule.UpdateAttributes(params); err != nil {
		return nil, err
	}
	if err := h.Rules.Save(ctx, rule); err != nil {
		return nil, err
	}
	if err := h.drain(ctx, rule); err != nil {
		return nil, err
	}
	mapped := dto.MapRule(rule)
	return &mapped, nil
}

type DeleteRuleCommand struct {
	ID string
}

func (c DeleteRuleCommand) Key() string { return deleteRuleKey }

type DeleteRuleHandler struct {
	Deps
}

// Handle removes the rule; deleting an absent id is idempotent.
func (h *DeleteRuleHandler) Handle(ctx context.Context, cmd DeleteRuleCommand) (struct{}, error) {
	id := domainrules.RuleID(cmd.ID)
	if _, err := h.Rules.ByID(ctx, id); err != nil {
		if errors.Is(err, domainrules.ErrRuleNotFound) {
			return struct{}{}, nil
		}
		return struct{}{}, err
	}
	if err := h.Rules.Delete(ctx, id); err != nil {
		return struct{}{}, err
	}
	ev := domainrules.RuleDeletedEvent{RuleID: id, At: h.now().UTC()}
	if h.Outbox != nil {
		rec, err := encoderOrDefault(h.Encoder).Encode(ev)
		if err != nil {
			return struct{}{}, err
		}
		if err := h.Outbox.Add(ctx, rec); err != nil {
			return struct{}{}, err
		}
	}
	return struct{}{}, nil
}

type DuplicateRuleCommand struct {
	ID                string
	TargetPropertyIDs []string
}

func (c DuplicateRuleCommand) Key() string { return duplicateRuleKey }

type DuplicateRuleHandler struct {
	Deps
}

// Handle copies the source rule once per target property. Unlike
// update/delete, an unknown source id is an error: there is nothing to
// copy.
func (h *DuplicateRuleHandler) Handle(ctx context.Context, cmd DuplicateRuleCommand) ([]dto.Rule, error) {
	if len(cmd.TargetPropertyIDs) == 0 {
		return nil, ErrNoTargets
	}
	source, err := h.Rules.ByID(ctx, domainrules.RuleID(cmd.ID))
	if err != nil {
		return nil, err
	}
	now := h.now()
	created := make([]dto.Rule, 0, len(cmd.TargetPropertyIDs))
	for _, target := range cmd.TargetPropertyIDs {
		clone := source.CopyTo(h.newID(), properties.PropertyID(target), now)
		if err := h.Rules.Save(ctx, clone); err != nil {
			return nil, err
		}
		if err := h.drain(ctx, clone); err != nil {
			return nil, err
		}
		created = append(created, dto.MapRule(clone))
	}
	return created, nil
}

type ApplyRuleToAllCommand struct {
	ID string
}

func (c ApplyRuleToAllCommand) Key() string { return applyRuleToAllKey }

type ApplyRuleToAllHandler struct {
	Deps
}

// Handle widens a rule's scope to the whole portfolio in place (the
// copy-free counterpart of duplication). Idempotent: widening an
// already portfolio-wide rule changes nothing observable.
func (h *ApplyRuleToAllHandler) Handle(ctx context.Context, cmd ApplyRuleToAllCommand) (*dto.Rule, error) {
	rule, err := h.Rules.ByID(ctx, domainrules.RuleID(cmd.ID))
	if err != nil {
		return nil, err
	}
	if !rule.Scope.IsAll() {
		rule.WidenToPortfolio(h.now())
		if err := h.Rules.Save(ctx, rule); err != nil {
			return nil, err
		}
		if err := h.drain(ctx, rule); err != nil {
			return nil, err
		}
	}
	mapped := dto.MapRule(rule)
	return &mapped, nil
}

func buildCreateParams(input dto.RuleInput, id domainrules.RuleID, now time.Time) (domainrules.CreateRuleParams, error) {
	effect, err := input.Effect()
	if err != nil {
		return domainrules.CreateRuleParams{}, err
	}
	window, err := input.Window()
	if err != nil {
		return domainrules.CreateRuleParams{}, err
	}
	channels, err := input.ChannelSet()
	if err != nil {
		return domainrules.CreateRuleParams{}, err
	}
	return domainrules.CreateRuleParams{
		ID:       id,
		Scope:    input.Scope(),
		Name:     input.Name,
		Enabled:  input.EnabledOrDefault(),
		Priority: input.Priority,
		Window:   window,
		Days:     input.Weekdays(),
		Channels: channels,
		Effect:   effect,
		Now:      now,
	}, nil
}

func buildUpdateParams(input dto.RuleInput, now time.Time) (domainrules.UpdateRuleParams, error) {
	create, err := buildCreateParams(input, "patched", now)
	if err != nil {
		return domainrules.UpdateRuleParams{}, err
	}
	return domainrules.UpdateRuleParams{
		Scope:    create.Scope,
		Name:     create.Name,
		Enabled:  create.Enabled,
		Priority: create.Priority,
		Window:   create.Window,
		Days:     create.Days,
		Channels: create.Channels,
		Effect:   create.Effect,
		Now:      now,
	}, nil
}

func encoderOrDefault(enc appoutbox.EventEncoder) appoutbox.EventEncoder {
	if enc != nil {
		return enc
	}
	return appoutbox.JSONEventEncoder{}
}

var (
	_ commands.Handler[CreateRuleCommand, *dto.Rule]     = (*CreateRuleHandler)(nil)
	_ commands.Handler[UpdateRuleCommand, *dto.Rule]     = (*UpdateRuleHandler)(nil)
	_ commands.Handler[DeleteRuleCommand, struct{}]      = (*DeleteRuleHandler)(nil)
	_ commands.Handler[DuplicateRuleCommand, []dto.Rule] = (*DuplicateRuleHandler)(nil)
	_ commands.Handler[ApplyRuleToAllCommand, *dto.Rule] = (*ApplyRuleToAllHandler)(nil)
)
