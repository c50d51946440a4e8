package rules

import (
	"context"

	"ratedesk/internal/app/dto"
	"ratedesk/internal/app/queries"
	"ratedesk/internal/domain/properties"
	domainrules "ratedesk/internal/domain/rules"
)

const listRulesKey = "rules.list"

// ListRulesQuery lists the rule catalog; with PropertyID set it narrows
// to the rules reaching that property (portfolio-wide ones included).
type ListRulesQuery struct {
	PropertyID string
}

func (q ListRulesQuery) Key() string { return listRulesKey }

type ListRulesHandler struct {
	Rules domainrules.Repository
}

func (h *ListRulesHandler) Handle(ctx context.Context, q ListRulesQuery) ([]dto.Rule, error) {
	ruleset, err := h.Rules.List(ctx)
	if err != nil {
		return nil, err
	}
	if q.PropertyID == "" {
		return dto.MapRules(ruleset), nil
	}
	target := properties.PropertyID(q.PropertyID)
	filtered := make([]*domainrules.Rule, 0, len(ruleset))
	for _, rule := range ruleset {
		if rule.Scope.Covers(target) {
			filtered = append(filtered, rule)
		}
	}
	return dto.MapRules(filtered), nil
}

var _ queries.Handler[ListRulesQuery, []dto.Rule] = (*ListRulesHandler)(nil)
