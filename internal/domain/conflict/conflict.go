// Package conflict detects scheduling clashes between a fixture and the
// other fixtures an official is already assigned to.
//
// Three escalating severities exist: hard (double-booking, time overlap or
// a same-day venue clash), soft (a busy but non-overlapping day at the same
// venue) and proximity (another assignment within a configurable number of
// days). All predicates fail open when required inputs are missing; the
// system never blocks scheduling on incomplete data.
package conflict

import (
	"context"
	"time"

	"github.com/matchweek/refassign/internal/adapters/repository"
	"github.com/matchweek/refassign/internal/domain/model"
)

// Defaults used when no option overrides them.
const (
	defaultProximityDays = 2
	defaultDuration      = 90 * time.Minute
)

// Option applies a configuration option to the Detector.
type Option func(*Detector)

// WithProximityDays sets the +/- day window for proximity conflicts.
func WithProximityDays(days int) Option {
	return func(d *Detector) {
		if days >= 0 {
			d.proximityDays = days
		}
	}
}

// WithFixtureDuration sets the occupied window used for overlap math.
func WithFixtureDuration(dur time.Duration) Option {
	return func(d *Detector) {
		if dur > 0 {
			d.duration = dur
		}
	}
}

// Detector evaluates conflict predicates against the fixture store.
type Detector struct {
	fixtures      repository.FixtureStore
	proximityDays int
	duration      time.Duration
}

// NewDetector creates a Detector with configuration options.
func NewDetector(fixtures repository.FixtureStore, opts ...Option) *Detector {
	d := &Detector{
		fixtures:      fixtures,
		proximityDays: defaultProximityDays,
		duration:      defaultDuration,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Trace is the full diagnostic output of one detection pass. The boolean
// verdicts are what callers act on; the id lists explain them.
type Trace struct {
	Hard      bool `json:"hard"`
	Soft      bool `json:"soft"`
	Proximity bool `json:"proximity"`

	// DoubleBooked is set when the official occupies more than one role
	// slot on the fixture under test.
	DoubleBooked bool `json:"double_booked,omitempty"`

	OverlapFixtureIDs    []string `json:"overlap_fixture_ids,omitempty"`
	VenueClashFixtureIDs []string `json:"venue_clash_fixture_ids,omitempty"`
	SameVenueFixtureIDs  []string `json:"same_venue_fixture_ids,omitempty"`
	NearbyFixtureIDs     []string `json:"nearby_fixture_ids,omitempty"`
}

// Detect runs all three predicates in one pass over the official's nearby
// assignments and returns the combined trace. Both the interactive scoring
// path and the batch suggester consume this single implementation.
func (d *Detector) Detect(ctx context.Context, f model.Fixture, officialID string) (Trace, error) {
	var tr Trace
	if f.Date.IsZero() || officialID == "" {
		return tr, nil
	}

	if f.RoleCount(officialID) > 1 {
		tr.DoubleBooked = true
		tr.Hard = true
	}

	from := f.Date.AddDate(0, 0, -d.proximityDays)
	to := f.Date.AddDate(0, 0, d.proximityDays)
	others, err := d.fixtures.FixturesForOfficialBetween(ctx, officialID, from, to)
	if err != nil {
		return Trace{}, err
	}

	for i := range others {
		other := &others[i]
		if other.ID == f.ID {
			continue
		}

		if !model.SameDate(other.Date, f.Date) {
			days := model.DaysBetween(f.Date, other.Date)
			if days < 0 {
				days = -days
			}
			if days >= 1 && days <= d.proximityDays {
				tr.Proximity = true
				tr.NearbyFixtureIDs = append(tr.NearbyFixtureIDs, other.ID)
			}
			continue
		}

		if d.overlaps(&f, other) {
			tr.Hard = true
			tr.OverlapFixtureIDs = append(tr.OverlapFixtureIDs, other.ID)
			continue
		}

		same, known := sameVenue(&f, other)
		switch {
		case known && !same:
			tr.Hard = true
			tr.VenueClashFixtureIDs = append(tr.VenueClashFixtureIDs, other.ID)
		case known && same:
			tr.Soft = true
			tr.SameVenueFixtureIDs = append(tr.SameVenueFixtureIDs, other.ID)
		}
		// Venue not comparable on either side: neither a match nor a
		// mismatch, so no verdict.
	}

	return tr, nil
}

// Hard reports whether assigning the official to the fixture creates a hard
// conflict: double-booking within the fixture, a time overlap with another
// same-day assignment, or a same-day assignment at a different known venue.
func (d *Detector) Hard(ctx context.Context, f model.Fixture, officialID string) (bool, error) {
	tr, err := d.Detect(ctx, f, officialID)
	return tr.Hard, err
}

// Soft reports whether the official has another same-day assignment at the
// same known venue without a time overlap.
func (d *Detector) Soft(ctx context.Context, f model.Fixture, officialID string) (bool, error) {
	tr, err := d.Detect(ctx, f, officialID)
	return tr.Soft, err
}

// Proximity reports whether the official holds any assignment on a
// different date within the configured +/- day window.
func (d *Detector) Proximity(ctx context.Context, f model.Fixture, officialID string) (bool, error) {
	tr, err := d.Detect(ctx, f, officialID)
	return tr.Proximity, err
}

// overlaps applies half-open interval overlap to the occupied windows of
// two fixtures. Missing kickoff on either side means no overlap verdict.
func (d *Detector) overlaps(a, b *model.Fixture) bool {
	aStart, ok := a.Start()
	if !ok {
		return false
	}
	bStart, ok := b.Start()
	if !ok {
		return false
	}
	aEnd := aStart.Add(d.duration)
	bEnd := bStart.Add(d.duration)
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// sameVenue decides venue equality: exact venue id match when both fixtures
// carry one, otherwise normalized address match when both carry a real
// address. known is false when either side has no comparable signal.
func sameVenue(a, b *model.Fixture) (same, known bool) {
	if a.VenueID != "" && b.VenueID != "" {
		return a.VenueID == b.VenueID, true
	}
	if !a.HasRealVenue() || !b.HasRealVenue() {
		return false, false
	}
	aAddr := model.NormalizeAddress(a.VenueAddress)
	bAddr := model.NormalizeAddress(b.VenueAddress)
	if aAddr == "" || bAddr == "" {
		return false, false
	}
	return aAddr == bAddr, true
}
