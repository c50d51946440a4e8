package rules

import "errors"

var (
	ErrEffectRequired = errors.New("rules: effect is required")
	ErrStayNights     = errors.New("rules: stay nights must be at least 1")
)

// EffectType tags the closed set of rule behaviors.
type EffectType string

const (
	TypeMinStay       EffectType = "min_stay"
	TypeMaxStay       EffectType = "max_stay"
	TypePriceOverride EffectType = "price_override"
	TypeClosingBlock  EffectType = "closing_block"
	TypePromotion     EffectType = "promotion"
)

// Effect is the typed payload of a rule. One variant per rule type so
// the resolver's fold is an exhaustive type switch and no variant can
// read another variant's fields.
type Effect interface {
	Type() EffectType
	validate() error
}

// MinStay raises the minimum bookable stay for matching days.
type MinStay struct {
	Nights int
}

// MaxStay caps the maximum bookable stay for matching days.
type MaxStay struct {
	Nights int
}

// PriceOverride adjusts the nightly price by a signed percentage of the
// base rate.
type PriceOverride struct {
	Percent float64
}

// ClosingBlock marks matching days unsellable.
type ClosingBlock struct {
	Reason string
}

// Promotion is a portfolio-wide percentage discount. Kind labels the
// campaign (early_bird, last_minute, long_stay); MinNights and
// DaysBeforeArrival are booking-time trigger conditions carried on the
// rule but not evaluated by the daily fold, which has no arrival
// context.
type Promotion struct {
	Kind              string
	Percent           float64
	MinNights         int
	DaysBeforeArrival int
}

func (MinStay) Type() EffectType       { return TypeMinStay }
func (MaxStay) Type() EffectType       { return TypeMaxStay }
func (PriceOverride) Type() EffectType { return TypePriceOverride }
func (ClosingBlock) Type() EffectType  { return TypeClosingBlock }
func (Promotion) Type() EffectType     { return TypePromotion }

func (e MinStay) validate() error {
	if e.Nights < 1 {
		return ErrStayNights
	}
	return nil
}

func (e MaxStay) validate() error {
	if e.Nights < 1 {
		return ErrStayNights
	}
	return nil
}

func (PriceOverride) validate() error { return nil }
func (ClosingBlock) validate() error  { return nil }

func (e Promotion) validate() error {
	if e.MinNights < 0 || e.DaysBeforeArrival < 0 {
		return errors.New("rules: promotion trigger values must be non-negative")
	}
	return nil
}
