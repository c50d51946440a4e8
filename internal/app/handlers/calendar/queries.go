package calendar

import (
	"context"
	"errors"
	"time"

	"ratedesk/internal/app/dto"
	"ratedesk/internal/app/queries"
	"ratedesk/internal/domain/pricing"
	"ratedesk/internal/domain/properties"
	domainrules "ratedesk/internal/domain/rules"
	"ratedesk/internal/domain/shared/dates"
)

const (
	getCalendarKey     = "calendar.grid"
	getChannelPriceKey = "calendar.channel_price"
	getMinStayKey      = "calendar.min_stay"
)

var ErrBadRange = errors.New("calendar: from must not be after to")

// GetCalendarQuery resolves every cell of a property row between From
// and To inclusive. Channel narrows channel-scoped minimum stays; price
// resolution is always channel-agnostic and exposes per-channel prices.
type GetCalendarQuery struct {
	PropertyID string
	From       time.Time
	To         time.Time
	Channel    domainrules.Channel
}

func (q GetCalendarQuery) Key() string { return getCalendarKey }

type GetCalendarHandler struct {
	Properties properties.Repository
	Rules      domainrules.Repository
}

func (h *GetCalendarHandler) Handle(ctx context.Context, q GetCalendarQuery) (dto.Calendar, error) {
	from := dates.Day(q.From)
	to := dates.Day(q.To)
	if to.Before(from) {
		return dto.Calendar{}, ErrBadRange
	}
	property, err := h.Properties.ByID(ctx, properties.PropertyID(q.PropertyID))
	if err != nil {
		return dto.Calendar{}, err
	}
	// One snapshot for the whole row: per-cell store reads would cost
	// more than the folds themselves and could straddle a mutation.
	ruleset, err := h.Rules.List(ctx)
	if err != nil {
		return dto.Calendar{}, err
	}

	out := dto.Calendar{
		PropertyID: string(property.ID),
		From:       from.Format(dto.DateLayout),
		To:         to.Format(dto.DateLayout),
		Channel:    string(q.Channel),
	}
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		cell := dto.MapDailyPricing(pricing.Resolve(property, day, ruleset))
		if q.Channel != "" {
			cell.MinStay = pricing.MinStayFor(ruleset, domainrules.Query{
				Property: property.ID,
				Day:      day,
				Channel:  q.Channel,
			})
		}
		out.Days = append(out.Days, cell)
	}
	return out, nil
}

type GetChannelPriceQuery struct {
	PropertyID string
	Date       time.Time
	Channel    domainrules.Channel
}

func (q GetChannelPriceQuery) Key() string { return getChannelPriceKey }

type GetChannelPriceHandler struct {
	Properties properties.Repository
	Resolver   *pricing.Resolver
}

func (h *GetChannelPriceHandler) Handle(ctx context.Context, q GetChannelPriceQuery) (dto.ChannelPrice, error) {
	property, err := h.Properties.ByID(ctx, properties.PropertyID(q.PropertyID))
	if err != nil {
		return dto.ChannelPrice{}, err
	}
	price, err := h.Resolver.ChannelPrice(ctx, property, q.Date, q.Channel)
	if err != nil {
		return dto.ChannelPrice{}, err
	}
	return dto.ChannelPrice{
		PropertyID: string(property.ID),
		Date:       dates.Day(q.Date).Format(dto.DateLayout),
		Channel:    string(q.Channel),
		Price:      price,
	}, nil
}

type GetMinStayQuery struct {
	PropertyID string
	Date       time.Time
	Channel    domainrules.Channel
}

func (q GetMinStayQuery) Key() string { return getMinStayKey }

type GetMinStayHandler struct {
	Resolver *pricing.Resolver
}

func (h *GetMinStayHandler) Handle(ctx context.Context, q GetMinStayQuery) (dto.MinStayResult, error) {
	minStay, err := h.Resolver.MinStay(ctx, properties.PropertyID(q.PropertyID), q.Date, q.Channel)
	if err != nil {
		return dto.MinStayResult{}, err
	}
	return dto.MinStayResult{
		PropertyID: q.PropertyID,
		Date:       dates.Day(q.Date).Format(dto.DateLayout),
		Channel:    string(q.Channel),
		MinStay:    minStay,
	}, nil
}

var (
	_ queries.Handler[GetCalendarQuery, dto.Calendar]         = (*GetCalendarHandler)(nil)
	_ queries.Handler[GetChannelPriceQuery, dto.ChannelPrice] = (*GetChannelPriceHandler)(nil)
	_ queries.Handler[GetMinStayQuery, dto.MinStayResult]     = (*GetMinStayHandler)(nil)
)
