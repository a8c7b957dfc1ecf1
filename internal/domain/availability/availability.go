// Package availability answers whether an official is free at a given
// date and kickoff time.
//
// Two tables feed the answer: ad-hoc unavailability ranges (inclusive on
// both ends) and a per-weekday weekly table with morning, afternoon and
// evening slots. A missing weekly row means available in all slots.
package availability

import (
	"context"
	"time"

	"github.com/matchweek/refassign/internal/adapters/repository"
	"github.com/matchweek/refassign/internal/domain/model"
)

// Resolver decides availability from the two backing tables. It holds no
// state of its own; every call is a pure function of its inputs and the
// store contents.
type Resolver struct {
	store repository.AvailabilityStore
}

// NewResolver creates a Resolver over the given store.
func NewResolver(store repository.AvailabilityStore) *Resolver {
	return &Resolver{store: store}
}

// IsAvailable reports whether the official is free on date at the given
// kickoff time ("HH:MM").
//
// An ad-hoc range covering the date always wins. Otherwise the kickoff hour
// maps to a slot and the weekly row for the weekday decides; no row means
// available. A missing date or unparseable kickoff fails open: scheduling
// is never blocked on data the store does not have.
func (r *Resolver) IsAvailable(ctx context.Context, officialID string, date time.Time, kickoff string) (bool, error) {
	if date.IsZero() {
		return true, nil
	}

	ranges, err := r.store.Unavailabilities(ctx, officialID)
	if err != nil {
		return false, err
	}
	for i := range ranges {
		if ranges[i].Contains(date) {
			return false, nil
		}
	}

	t, err := time.Parse("15:04", kickoff)
	if err != nil {
		return true, nil
	}

	row, ok, err := r.store.WeeklyAvailability(ctx, officialID, date.Weekday())
	if err != nil {
		return false, err
	}
	if !ok {
		return true, nil
	}
	return row.Available(model.SlotForHour(t.Hour())), nil
}
