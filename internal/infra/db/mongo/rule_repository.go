package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"ratedesk/internal/domain/properties"
	domainrules "ratedesk/internal/domain/rules"
)

const propertyWildcard = "all"

type RuleRepository struct {
	col *mongo.Collection
}

func NewRuleRepository(db *mongo.Database) *RuleRepository {
	return &RuleRepository{col: db.Collection("pricing_rules")}
}

func (r *RuleRepository) ByID(ctx context.Context, id domainrules.RuleID) (*domainrules.Rule, error) {
	var doc ruleDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainrules.ErrRuleNotFound
		}
		return nil, err
	}
	return doc.toAggregate()
}

// List loads the full rule set ordered by creation time so equal
// priorities resolve the same way the in-memory store does.
func (r *RuleRepository) List(ctx context.Context) ([]*domainrules.Rule, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var out []*domainrules.Rule
	for cursor.Next(ctx) {
		var doc ruleDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		rule, err := doc.toAggregate()
		if err != nil {
			return nil, err
		}
		out = append(out, rule)
	}
	return out, cursor.Err()
}

func (r *RuleRepository) Save(ctx context.Context, rule *domainrules.Rule) error {
	doc := newRuleDocument(rule)
	opts := options.Replace().SetUpsert(true)
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts)
	return err
}

func (r *RuleRepository) Delete(ctx context.Context, id domainrules.RuleID) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"_id": string(id)})
	return err
}

type ruleDocument struct {
	ID                  string   `bson:"_id"`
	PropertyID          string   `bson:"property_id"`
	Name                string   `bson:"name"`
	Type                string   `bson:"type"`
	Enabled             bool     `bson:"enabled"`
	Priority            int      `bson:"priority"`
	StartDate           *int64   `bson:"start_date,omitempty"`
	EndDate             *int64   `bson:"end_date,omitempty"`
	Days                []int    `bson:"days_of_week,omitempty"`
	Channels            []string `bson:"channels,omitempty"`
	StayNights          int      `bson:"stay_nights,omitempty"`
	Percent             float64  `bson:"percent,omitempty"`
	PromotionKind       string   `bson:"promotion_kind,omitempty"`
	PromotionMinNights  int      `bson:"promotion_min_nights,omitempty"`
	PromotionDaysBefore int      `bson:"promotion_days_before,omitempty"`
	BlockReason         string   `bson:"block_reason,omitempty"`
	CreatedAt           int64    `bson:"created_at"`
	UpdatedAt           int64    `bson:"updated_at"`
}

func newRuleDocument(rule *domainrules.Rule) ruleDocument {
	doc := ruleDocument{
		ID:         string(rule.ID),
		PropertyID: propertyWildcard,
		Name:       rule.Name,
		Type:       string(rule.Effect.Type()),
		Enabled:    rule.Enabled,
		Priority:   rule.Priority,
		CreatedAt:  rule.CreatedAt.UnixMilli(),
		UpdatedAt:  rule.UpdatedAt.UnixMilli(),
	}
	if id, ok := rule.Scope.Property(); ok {
		doc.PropertyID = string(id)
	}
	if rule.Window != nil {
		start := rule.Window.Start.UnixMilli()
		end := rule.Window.End.UnixMilli()
		doc.StartDate = &start
		doc.EndDate = &end
	}
	for _, d := range rule.Days {
		doc.Days = append(doc.Days, int(d))
	}
	for _, ch := range rule.Channels {
		doc.Channels = append(doc.Channels, string(ch))
	}
	switch effect := rule.Effect.(type) {
	case domainrules.MinStay:
		doc.StayNights = effect.Nights
	case domainrules.MaxStay:
		doc.StayNights = effect.Nights
	case domainrules.PriceOverride:
		doc.Percent = effect.Percent
	case domainrules.ClosingBlock:
		doc.BlockReason = effect.Reason
	case domainrules.Promotion:
		doc.Percent = effect.Percent
		doc.PromotionKind = effect.Kind
		doc.PromotionMinNights = effect.MinNights
		doc.PromotionDaysBefore = effect.DaysBeforeArrival
	}
	return doc
}

func (d ruleDocument) toAggregate() (*domainrules.Rule, error) {
	scope := domainrules.ScopeAll()
	if d.PropertyID != propertyWildcard && d.PropertyID != "" {
		scope = domainrules.ScopeProperty(properties.PropertyID(d.PropertyID))
	}
	var window *domainrules.Window
	if d.StartDate != nil && d.EndDate != nil {
		w, err := domainrules.NewWindow(timestampToTime(*d.StartDate), timestampToTime(*d.EndDate))
		if err != nil {
			return nil, err
		}
		window = &w
	}
	var days []time.Weekday
	for _, day := range d.Days {
		days = append(days, time.Weekday(day))
	}
	var channels []domainrules.Channel
	for _, ch := range d.Channels {
		channels = append(channels, domainrules.Channel(ch))
	}
	var effect domainrules.Effect
	switch domainrules.EffectType(d.Type) {
	case domainrules.TypeMinStay:
		effect = domainrules.MinStay{Nights: d.StayNights}
	case domainrules.TypeMaxStay:
		effect = domainrules.MaxStay{Nights: d.StayNights}
	case domainrules.TypePriceOverride:
		effect = domainrules.PriceOverride{Percent: d.Percent}
	case domainrules.TypeClosingBlock:
		effect = domainrules.ClosingBlock{Reason: d.BlockReason}
	case domainrules.TypePromotion:
		effect = domainrules.Promotion{
			Kind:              d.PromotionKind,
			Percent:           d.Percent,
			MinNights:         d.PromotionMinNights,
			DaysBeforeArrival: d.PromotionDaysBefore,
		}
	default:
		return nil, fmt.Errorf("mongo: unknown rule type %q", d.Type)
	}
	return &domainrules.Rule{
		ID:        domainrules.RuleID(d.ID),
		Scope:     scope,
		Name:      d.Name,
		Enabled:   d.Enabled,
		Priority:  d.Priority,
		Window:    window,
		Days:      days,
		Channels:  channels,
		Effect:    effect,
		CreatedAt: timestampToTime(d.CreatedAt),
		UpdatedAt: timestampToTime(d.UpdatedAt),
	}, nil
}

func timestampToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

var _ domainrules.Repository = (*RuleRepository)(nil)
