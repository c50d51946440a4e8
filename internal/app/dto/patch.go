package dto

// RulePatch is a partial rule edit; nil fields keep the stored value.
// Start and end dates may be patched to empty strings to drop the
// window entirely.
type RulePatch struct {
	PropertyID                 *string   `json:"property_id,omitempty"`
	Name                       *string   `json:"name,omitempty"`
	Type                       *string   `json:"type,omitempty"`
	Enabled                    *bool     `json:"enabled,omitempty"`
	Priority                   *int      `json:"priority,omitempty"`
	StartDate                  *string   `json:"start_date,omitempty"`
	EndDate                    *string   `json:"end_date,omitempty"`
	DaysOfWeek                 *[]int    `json:"days_of_week,omitempty"`
	Channels                   *[]string `json:"channels,omitempty"`
	MinStay                    *int      `json:"min_stay,omitempty"`
	MaxStay                    *int      `json:"max_stay,omitempty"`
	PriceAdjustment            *float64  `json:"price_adjustment,omitempty"`
	PromotionType              *string   `json:"promotion_type,omitempty"`
	PromotionMinNights         *int      `json:"promotion_min_nights,omitempty"`
	PromotionDaysBeforeArrival *int      `json:"promotion_days_before_arrival,omitempty"`
	BlockReason                *string   `json:"block_reason,omitempty"`
}

// PatchInput overlays a partial edit on the current wire shape and
// returns the merged authoring payload, which then revalidates through
// the usual create path so a patch can never produce a half-valid rule.
func PatchInput(current Rule, patch RulePatch) RuleInput {
	merged := RuleInput{
		PropertyID:                 current.PropertyID,
		Name:                       current.Name,
		Type:                       current.Type,
		Enabled:                    &current.Enabled,
		Priority:                   current.Priority,
		StartDate:                  current.StartDate,
		EndDate:                    current.EndDate,
		DaysOfWeek:                 current.DaysOfWeek,
		Channels:                   current.Channels,
		MinStay:                    current.MinStay,
		MaxStay:                    current.MaxStay,
		PriceAdjustment:            current.PriceAdjustment,
		PromotionType:              current.PromotionType,
		PromotionMinNights:         current.PromotionMinNights,
		PromotionDaysBeforeArrival: current.PromotionDaysBeforeArrival,
		BlockReason:                current.BlockReason,
	}
	if patch.PropertyID != nil {
		merged.PropertyID = *patch.PropertyID
	}
	if patch.Name != nil {
		merged.Name = *patch.Name
	}
	if patch.Type != nil {
		merged.Type = *patch.Type
	}
	if patch.Enabled != nil {
		merged.Enabled = patch.Enabled
	}
	if patch.Priority != nil {
		merged.Priority = *patch.Priority
	}
	if patch.StartDate != nil {
		merged.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		merged.EndDate = *patch.EndDate
	}
	if patch.DaysOfWeek != nil {
		merged.DaysOfWeek = *patch.DaysOfWeek
	}
	if patch.Channels != nil {
		merged.Channels = *patch.Channels
	}
	if patch.MinStay != nil {
		merged.MinStay = *patch.MinStay
	}
	if patch.MaxStay != nil {
		merged.MaxStay = *patch.MaxStay
	}
	if patch.PriceAdjustment != nil {
		merged.PriceAdjustment = patch.PriceAdjustment
	}
	if patch.PromotionType != nil {
		merged.PromotionType = *patch.PromotionType
	}
	if patch.PromotionMinNights != nil {
		merged.PromotionMinNights = *patch.PromotionMinNights
	}
	if patch.PromotionDaysBeforeArrival != nil {
		merged.PromotionDaysBeforeArrival = *patch.PromotionDaysBeforeArrival
	}
	if patch.BlockReason != nil {
		merged.BlockReason = *patch.BlockReason
	}
	return merged
}
