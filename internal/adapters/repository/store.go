// Package repository defines the read-only store interfaces the engines
// consume, and their adapters. The core never writes; assignments proposed
// by the suggester are persisted by an external write path.
package repository

import (
	"context"
	"time"

	"github.com/matchweek/refassign/internal/domain/model"
)

// FixtureStore provides read access to fixture records.
type FixtureStore interface {
	// Fixture returns a single fixture. Returns ErrNotFound when unknown.
	Fixture(ctx context.Context, id string) (model.Fixture, error)

	// FixturesBetween returns fixtures whose date falls within the
	// inclusive [from, to] range, ordered by date, kickoff, id.
	FixturesBetween(ctx context.Context, from, to time.Time) ([]model.Fixture, error)

	// FixturesForOfficialBetween returns fixtures within the inclusive
	// [from, to] range on which the official holds any role slot.
	FixturesForOfficialBetween(ctx context.Context, officialID string, from, to time.Time) ([]model.Fixture, error)
}

// OfficialStore provides read access to official records.
type OfficialStore interface {
	// Official returns a single official. Returns ErrNotFound when unknown.
	Official(ctx context.Context, id string) (model.Official, error)

	// Officials returns all officials eligible for assignment.
	Officials(ctx context.Context) ([]model.Official, error)
}

// AvailabilityStore provides read access to availability records.
type AvailabilityStore interface {
	// Unavailabilities returns all ad-hoc unavailability ranges for the
	// official.
	Unavailabilities(ctx context.Context, officialID string) ([]model.AdHocUnavailability, error)

	// WeeklyAvailability returns the weekly table row for the weekday.
	// The second return is false when no row exists, which means the
	// official is available in all slots that day.
	WeeklyAvailability(ctx context.Context, officialID string, weekday time.Weekday) (model.WeeklyAvailability, bool, error)
}

// ClubStore resolves club references to canonical club ids.
type ClubStore interface {
	// ResolveClub resolves a stored club reference, which may be either a
	// club id or a legacy numeric key. Returns ErrNotFound when the
	// reference matches neither.
	ResolveClub(ctx context.Context, ref string) (string, error)
}

// Store bundles the read interfaces an engine invocation needs.
type Store interface {
	FixtureStore
	OfficialStore
	AvailabilityStore
	ClubStore
}
