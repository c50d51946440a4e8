package rules

import (
	"sort"
	"time"

	"ratedesk/internal/domain/properties"
	"ratedesk/internal/domain/shared/dates"
)

// Query identifies one calendar cell. An empty Channel means the query
// is channel-agnostic: channel-scoped rules still match, and their
// per-channel adjustment happens inside the resolver instead.
type Query struct {
	Property properties.PropertyID
	Day      time.Time
	Channel  Channel
}

// Applicable filters a rule-set snapshot down to the rules matching the
// query and orders them by priority, highest first. Ties keep encounter
// order (stable sort) so resolution is reproducible regardless of how
// the store happens to lay rules out.
func Applicable(ruleset []*Rule, q Query) []*Rule {
	day := dates.Day(q.Day)
	matched := make([]*Rule, 0, len(ruleset))
	for _, rule := range ruleset {
		if rule == nil || !rule.Enabled {
			continue
		}
		if !rule.Scope.Covers(q.Property) {
			continue
		}
		if rule.Window != nil && !rule.Window.Contains(day) {
			continue
		}
		if len(rule.Days) > 0 && !containsWeekday(rule.Days, day.Weekday()) {
			continue
		}
		if q.Channel != "" && len(rule.Channels) > 0 && !containsChannel(rule.Channels, q.Channel) {
			continue
		}
		matched = append(matched, rule)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Priority > matched[j].Priority
	})
	return matched
}

func containsWeekday(set []time.Weekday, day time.Weekday) bool {
	for _, d := range set {
		if d == day {
			return true
		}
	}
	return false
}
