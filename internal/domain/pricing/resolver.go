package pricing

import (
	"context"
	"errors"
	"time"

	"ratedesk/internal/domain/properties"
	"ratedesk/internal/domain/rules"
)

var (
	ErrPropertyRequired = errors.New("pricing: property is required")
	ErrNegativeBase     = errors.New("pricing: base price must be non-negative")
)

// Resolver serves per-cell pricing queries against the current rule
// set. Every call works on one store snapshot, so a fold can never
// observe a half-written mutation.
type Resolver struct {
	Rules rules.Repository
}

func NewResolver(repo rules.Repository) *Resolver {
	return &Resolver{Rules: repo}
}

// DailyPricing resolves one (property, day) cell across all channels.
func (r *Resolver) DailyPricing(ctx context.Context, property *properties.Property, day time.Time) (DailyPricing, error) {
	if property == nil {
		return DailyPricing{}, ErrPropertyRequired
	}
	if property.PricePerNight < 0 {
		return DailyPricing{}, ErrNegativeBase
	}
	ruleset, err := r.Rules.List(ctx)
	if err != nil {
		return DailyPricing{}, err
	}
	return Resolve(property, day, ruleset), nil
}

// ChannelPrice extracts one channel's effective price from a full
// resolution. The resolver populates every known channel, so the
// final-price fallback only covers unknown channel names.
func (r *Resolver) ChannelPrice(ctx context.Context, property *properties.Property, day time.Time, channel rules.Channel) (int64, error) {
	resolved, err := r.DailyPricing(ctx, property, day)
	if err != nil {
		return 0, err
	}
	if price, ok := resolved.ChannelPrices[channel]; ok {
		return price, nil
	}
	return resolved.FinalPrice, nil
}

// MinStay answers the minimum-stay probe without a full resolution; see
// MinStayFor.
func (r *Resolver) MinStay(ctx context.Context, propertyID properties.PropertyID, day time.Time, channel rules.Channel) (int, error) {
	ruleset, err := r.Rules.List(ctx)
	if err != nil {
		return 0, err
	}
	return MinStayFor(ruleset, rules.Query{Property: propertyID, Day: day, Channel: channel}), nil
}
