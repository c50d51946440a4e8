package dto

import (
	"errors"
	"time"

	"ratedesk/internal/domain/properties"
	"ratedesk/internal/domain/rules"
)

// DateLayout is the wire format for day-granularity dates.
const DateLayout = "2006-01-02"

// PropertyWildcard is the wire value of a portfolio-wide scope.
const PropertyWildcard = "all"

var (
	ErrUnknownRuleType = errors.New("dto: unknown rule type")
	ErrBadDate         = errors.New("dto: dates must be YYYY-MM-DD")
	ErrWindowPair      = errors.New("dto: start_date and end_date must be set together")
)

// Rule is the flat JSON shape the console edits: one record with a type
// discriminator and the optional payload fields for that type.
type Rule struct {
	ID                         string    `json:"id"`
	PropertyID                 string    `json:"property_id"`
	Name                       string    `json:"name"`
	Type                       string    `json:"type"`
	Enabled                    bool      `json:"enabled"`
	Priority                   int       `json:"priority"`
	StartDate                  string    `json:"start_date,omitempty"`
	EndDate                    string    `json:"end_date,omitempty"`
	DaysOfWeek                 []int     `json:"days_of_week,omitempty"`
	Channels                   []string  `json:"channels,omitempty"`
	MinStay                    int       `json:"min_stay,omitempty"`
	MaxStay                    int       `json:"max_stay,omitempty"`
	PriceAdjustment            *float64  `json:"price_adjustment,omitempty"`
	PromotionType              string    `json:"promotion_type,omitempty"`
	PromotionMinNights         int       `json:"promotion_min_nights,omitempty"`
	PromotionDaysBeforeArrival int       `json:"promotion_days_before_arrival,omitempty"`
	BlockReason                string    `json:"block_reason,omitempty"`
	CreatedAt                  time.Time `json:"created_at"`
	UpdatedAt                  time.Time `json:"updated_at"`
}

// RuleInput is the authoring payload: Rule minus server-assigned fields.
type RuleInput struct {
	PropertyID                 string   `json:"property_id"`
	Name                       string   `json:"name"`
	Type                       string   `json:"type"`
	Enabled                    *bool    `json:"enabled,omitempty"`
	Priority                   int      `json:"priority"`
	StartDate                  string   `json:"start_date,omitempty"`
	EndDate                    string   `json:"end_date,omitempty"`
	DaysOfWeek                 []int    `json:"days_of_week,omitempty"`
	Channels                   []string `json:"channels,omitempty"`
	MinStay                    int      `json:"min_stay,omitempty"`
	MaxStay                    int      `json:"max_stay,omitempty"`
	PriceAdjustment            *float64 `json:"price_adjustment,omitempty"`
	PromotionType              string   `json:"promotion_type,omitempty"`
	PromotionMinNights         int      `json:"promotion_min_nights,omitempty"`
	PromotionDaysBeforeArrival int      `json:"promotion_days_before_arrival,omitempty"`
	BlockReason                string   `json:"block_reason,omitempty"`
}

// MapRule flattens a domain rule into its wire shape.
func MapRule(rule *rules.Rule) Rule {
	out := Rule{
		ID:         string(rule.ID),
		PropertyID: PropertyWildcard,
		Name:       rule.Name,
		Type:       string(rule.Effect.Type()),
		Enabled:    rule.Enabled,
		Priority:   rule.Priority,
		CreatedAt:  rule.CreatedAt,
		UpdatedAt:  rule.UpdatedAt,
	}
	if id, ok := rule.Scope.Property(); ok {
		out.PropertyID = string(id)
	}
	if rule.Window != nil {
		out.StartDate = rule.Window.Start.Format(DateLayout)
		out.EndDate = rule.Window.End.Format(DateLayout)
	}
	for _, d := range rule.Days {
		out.DaysOfWeek = append(out.DaysOfWeek, int(d))
	}
	for _, ch := range rule.Channels {
		out.Channels = append(out.Channels, string(ch))
	}
	switch effect := rule.Effect.(type) {
	case rules.MinStay:
		out.MinStay = effect.Nights
	case rules.MaxStay:
		out.MaxStay = effect.Nights
	case rules.PriceOverride:
		pct := effect.Percent
		out.PriceAdjustment = &pct
	case rules.ClosingBlock:
		out.BlockReason = effect.Reason
	case rules.Promotion:
		pct := effect.Percent
		out.PriceAdjustment = &pct
		out.PromotionType = effect.Kind
		out.PromotionMinNights = effect.MinNights
		out.PromotionDaysBeforeArrival = effect.DaysBeforeArrival
	}
	return out
}

func MapRules(list []*rules.Rule) []Rule {
	out := make([]Rule, 0, len(list))
	for _, rule := range list {
		out = append(out, MapRule(rule))
	}
	return out
}

// Scope parses the wire property id into a domain scope.
func (in RuleInput) Scope() rules.Scope {
	if in.PropertyID == "" || in.PropertyID == PropertyWildcard {
		return rules.ScopeAll()
	}
	return rules.ScopeProperty(properties.PropertyID(in.PropertyID))
}

// Effect builds the typed effect for the declared rule type.
func (in RuleInput) Effect() (rules.Effect, error) {
	switch rules.EffectType(in.Type) {
	case rules.TypeMinStay:
		return rules.MinStay{Nights: in.MinStay}, nil
	case rules.TypeMaxStay:
		return rules.MaxStay{Nights: in.MaxStay}, nil
	case rules.TypePriceOverride:
		if in.PriceAdjustment == nil {
			return nil, errors.New("dto: price_adjustment is required for price_override")
		}
		return rules.PriceOverride{Percent: *in.PriceAdjustment}, nil
	case rules.TypeClosingBlock:
		return rules.ClosingBlock{Reason: in.BlockReason}, nil
	case rules.TypePromotion:
		if in.PriceAdjustment == nil {
			return nil, errors.New("dto: price_adjustment is required for promotion")
		}
		return rules.Promotion{
			Kind:              in.PromotionType,
			Percent:           *in.PriceAdjustment,
			MinNights:         in.PromotionMinNights,
			DaysBeforeArrival: in.PromotionDaysBeforeArrival,
		}, nil
	}
	return nil, ErrUnknownRuleType
}

// Window parses the optional date-range pair.
func (in RuleInput) Window() (*rules.Window, error) {
	if in.StartDate == "" && in.EndDate == "" {
		return nil, nil
	}
	if in.StartDate == "" || in.EndDate == "" {
		return nil, ErrWindowPair
	}
	start, err := time.Parse(DateLayout, in.StartDate)
	if err != nil {
		return nil, ErrBadDate
	}
	end, err := time.Parse(DateLayout, in.EndDate)
	if err != nil {
		return nil, ErrBadDate
	}
	w, err := rules.NewWindow(start, end)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// Weekdays converts the 0..6 wire set.
func (in RuleInput) Weekdays() []time.Weekday {
	if len(in.DaysOfWeek) == 0 {
		return nil
	}
	out := make([]time.Weekday, 0, len(in.DaysOfWeek))
	for _, d := range in.DaysOfWeek {
		out = append(out, time.Weekday(d))
	}
	return out
}

// ChannelSet parses and validates the channel list.
func (in RuleInput) ChannelSet() ([]rules.Channel, error) {
	if len(in.Channels) == 0 {
		return nil, nil
	}
	out := make([]rules.Channel, 0, len(in.Channels))
	for _, raw := range in.Channels {
		ch, err := rules.ParseChannel(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, ch)
	}
	return out, nil
}

// EnabledOrDefault applies the authoring default: new rules are live
// unless explicitly disabled.
func (in RuleInput) EnabledOrDefault() bool {
	if in.Enabled == nil {
		return true
	}
	return *in.Enabled
}
