package properties

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrIDRequired   = errors.New("properties: id is required")
	ErrNameRequired = errors.New("properties: name is required")
	ErrNightlyRate  = errors.New("properties: nightly rate must be non-negative")
)

type PropertyID string

// Property is the slice of the catalog the pricing engine needs: an
// identifier and a base nightly rate in minor currency units. The full
// catalog (addresses, amenities, media) lives elsewhere.
type Property struct {
	ID            PropertyID
	Name          string
	PricePerNight int64
	CreatedAt     time.Time
}

func New(id PropertyID, name string, pricePerNight int64, now time.Time) (*Property, error) {
	if strings.TrimSpace(string(id)) == "" {
		return nil, ErrIDRequired
	}
	if strings.TrimSpace(name) == "" {
		return nil, ErrNameRequired
	}
	if pricePerNight < 0 {
		return nil, ErrNightlyRate
	}
	return &Property{
		ID:            id,
		Name:          strings.TrimSpace(name),
		PricePerNight: pricePerNight,
		CreatedAt:     now.UTC(),
	}, nil
}

type Repository interface {
	ByID(ctx context.Context, id PropertyID) (*Property, error)
	List(ctx context.Context) ([]*Property, error)
	Save(ctx context.Context, property *Property) error
}
