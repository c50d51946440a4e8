package pricing

import (
	"math"
	"time"

	"ratedesk/internal/domain/properties"
	"ratedesk/internal/domain/rules"
	"ratedesk/internal/domain/shared/dates"
)

// Adjustment is one entry of the audit trail: which rule moved the
// price, by how much, and under what label.
type Adjustment struct {
	RuleID       rules.RuleID
	RuleName     string
	Kind         string
	Percent      float64
	IsPercentage bool
}

// DailyPricing is the resolved state of one calendar cell. It is
// ephemeral: recomputed on every query and owned by the caller.
type DailyPricing struct {
	PropertyID  properties.PropertyID
	Date        time.Time
	BasePrice   int64
	FinalPrice  int64
	Adjustments []Adjustment
	MinStay     int
	// MaxStay is 0 when no rule constrains it.
	MaxStay       int
	IsBlocked     bool
	BlockReason   string
	ChannelPrices map[rules.Channel]int64
}

// Resolve folds every applicable rule for (property, day) over the base
// price. The match deliberately ignores the channel filter so the audit
// trail sees channel-scoped rules too; their price deltas land only on
// their own channels. Resolution never fails for a valid property: an
// empty rule set yields the base-price result.
func Resolve(property *properties.Property, day time.Time, ruleset []*rules.Rule) DailyPricing {
	applicable := rules.Applicable(ruleset, rules.Query{Property: property.ID, Day: day})
	return fold(property, dates.Day(day), applicable)
}

func fold(property *properties.Property, day time.Time, applicable []*rules.Rule) DailyPricing {
	base := float64(property.PricePerNight)
	final := base
	channelPrices := make(map[rules.Channel]float64, len(rules.SalesChannels()))
	for _, ch := range rules.SalesChannels() {
		channelPrices[ch] = base
	}

	result := DailyPricing{
		PropertyID: property.ID,
		Date:       day,
		BasePrice:  property.PricePerNight,
		MinStay:    1,
	}

	for _, rule := range applicable {
		switch effect := rule.Effect.(type) {
		case rules.PriceOverride:
			delta := base * effect.Percent / 100
			final += delta
			applyChannelDelta(channelPrices, rule.Channels, delta)
			result.Adjustments = append(result.Adjustments, Adjustment{
				RuleID:       rule.ID,
				RuleName:     rule.Name,
				Kind:         string(rules.TypePriceOverride),
				Percent:      effect.Percent,
				IsPercentage: true,
			})
		case rules.Promotion:
			// Promotions discount the portfolio price only; they never
			// diverge individual channel prices.
			delta := base * effect.Percent / 100
			final += delta
			kind := effect.Kind
			if kind == "" {
				kind = string(rules.TypePromotion)
			}
			result.Adjustments = append(result.Adjustments, Adjustment{
				RuleID:       rule.ID,
				RuleName:     rule.Name,
				Kind:         kind,
				Percent:      effect.Percent,
				IsPercentage: true,
			})
		case rules.MinStay:
			// Minimums only tighten: running maximum, not last-wins.
			if effect.Nights > result.MinStay {
				result.MinStay = effect.Nights
			}
		case rules.MaxStay:
			if result.MaxStay == 0 || effect.Nights < result.MaxStay {
				result.MaxStay = effect.Nights
			}
		case rules.ClosingBlock:
			// Sticky: the first block in priority order wins the reason
			// and nothing later may unblock the day.
			if !result.IsBlocked {
				result.IsBlocked = true
				result.BlockReason = effect.Reason
				if result.BlockReason == "" {
					result.BlockReason = rule.Name
				}
			}
		}
	}

	// Round once at the end, never per adjustment, so rounding error
	// does not compound across stacked rules.
	result.FinalPrice = roundPrice(final)
	result.ChannelPrices = make(map[rules.Channel]int64, len(channelPrices))
	for ch, price := range channelPrices {
		result.ChannelPrices[ch] = roundPrice(price)
	}
	return result
}

// applyChannelDelta moves a price-override delta into the channel map.
// A rule without a channel set (or carrying the wildcard) shifts every
// channel; a restricted rule shifts only the channels it names.
func applyChannelDelta(channelPrices map[rules.Channel]float64, set []rules.Channel, delta float64) {
	if len(set) == 0 {
		for ch := range channelPrices {
			channelPrices[ch] += delta
		}
		return
	}
	for _, ch := range set {
		if ch == rules.ChannelAll {
			for known := range channelPrices {
				channelPrices[known] += delta
			}
			return
		}
	}
	for _, ch := range set {
		if _, ok := channelPrices[ch]; ok {
			channelPrices[ch] += delta
		}
	}
}

// MinStayFor answers only the minimum-stay question. It re-matches with
// the channel filter applied (a channel-scoped minimum counts only
// toward that channel) and folds nothing but min-stay effects, so
// calendar grids can probe book-ability without paying for a full
// resolution.
func MinStayFor(ruleset []*rules.Rule, q rules.Query) int {
	minStay := 1
	for _, rule := range rules.Applicable(ruleset, q) {
		if effect, ok := rule.Effect.(rules.MinStay); ok {
			if effect.Nights > minStay {
				minStay = effect.Nights
			}
		}
	}
	return minStay
}

func roundPrice(v float64) int64 {
	return int64(math.Round(v))
}
