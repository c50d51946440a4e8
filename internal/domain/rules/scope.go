package rules

import "ratedesk/internal/domain/properties"

// Scope says which properties a rule reaches: the whole portfolio or a
// single property. Kept as a closed two-case value instead of a magic
// sentinel id so comparisons cannot silently miss.
type Scope struct {
	all      bool
	property properties.PropertyID
}

func ScopeAll() Scope {
	return Scope{all: true}
}

func ScopeProperty(id properties.PropertyID) Scope {
	return Scope{property: id}
}

func (s Scope) IsAll() bool {
	return s.all
}

// Property returns the targeted property id and false when the scope is
// portfolio-wide.
func (s Scope) Property() (properties.PropertyID, bool) {
	if s.all {
		return "", false
	}
	return s.property, true
}

// Covers reports whether the scope reaches the given property.
func (s Scope) Covers(id properties.PropertyID) bool {
	return s.all || s.property == id
}
