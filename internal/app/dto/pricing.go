package dto

import (
	"ratedesk/internal/domain/pricing"
)

// Adjustment mirrors one audit-trail entry.
type Adjustment struct {
	RuleID       string  `json:"rule_id"`
	RuleName     string  `json:"rule_name"`
	Type         string  `json:"type"`
	Adjustment   float64 `json:"adjustment"`
	IsPercentage bool    `json:"is_percentage"`
}

// DailyPricing is the render payload for one calendar cell.
type DailyPricing struct {
	PropertyID    string           `json:"property_id"`
	Date          string           `json:"date"`
	BasePrice     int64            `json:"base_price"`
	FinalPrice    int64            `json:"final_price"`
	Adjustments   []Adjustment     `json:"adjustments"`
	MinStay       int              `json:"min_stay"`
	MaxStay       int              `json:"max_stay,omitempty"`
	IsBlocked     bool             `json:"is_blocked"`
	BlockReason   string           `json:"block_reason,omitempty"`
	ChannelPrices map[string]int64 `json:"channel_prices"`
}

// Calendar is a per-cell grid over an inclusive day range.
type Calendar struct {
	PropertyID string         `json:"property_id"`
	From       string         `json:"from"`
	To         string         `json:"to"`
	Channel    string         `json:"channel,omitempty"`
	Days       []DailyPricing `json:"days"`
}

// ChannelPrice is the single-channel price extract.
type ChannelPrice struct {
	PropertyID string `json:"property_id"`
	Date       string `json:"date"`
	Channel    string `json:"channel"`
	Price      int64  `json:"price"`
}

// MinStayResult answers the book-ability probe.
type MinStayResult struct {
	PropertyID string `json:"property_id"`
	Date       string `json:"date"`
	Channel    string `json:"channel,omitempty"`
	MinStay    int    `json:"min_stay"`
}

func MapDailyPricing(resolved pricing.DailyPricing) DailyPricing {
	out := DailyPricing{
		PropertyID:    string(resolved.PropertyID),
		Date:          resolved.Date.Format(DateLayout),
		BasePrice:     resolved.BasePrice,
		FinalPrice:    resolved.FinalPrice,
		Adjustments:   make([]Adjustment, 0, len(resolved.Adjustments)),
		MinStay:       resolved.MinStay,
		MaxStay:       resolved.MaxStay,
		IsBlocked:     resolved.IsBlocked,
		BlockReason:   resolved.BlockReason,
		ChannelPrices: make(map[string]int64, len(resolved.ChannelPrices)),
	}
	for _, adj := range resolved.Adjustments {
		out.Adjustments = append(out.Adjustments, Adjustment{
			RuleID:       string(adj.RuleID),
			RuleName:     adj.RuleName,
			Type:         adj.Kind,
			Adjustment:   adj.Percent,
			IsPercentage: adj.IsPercentage,
		})
	}
	for ch, price := range resolved.ChannelPrices {
		out.ChannelPrices[string(ch)] = price
	}
	return out
}
