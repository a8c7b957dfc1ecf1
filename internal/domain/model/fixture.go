// Package model contains domain models passed between layers.
package model

import (
	"strings"
	"time"
)

// Role identifies one of the four assignable slots on a fixture.
type Role string

// Assignable roles.
const (
	RoleReferee      Role = "referee"
	RoleAssistant1   Role = "assistant_1"
	RoleAssistant2   Role = "assistant_2"
	RoleCommissioner Role = "commissioner"
)

// Roles returns all assignable roles in slot order.
func Roles() []Role {
	return []Role{RoleReferee, RoleAssistant1, RoleAssistant2, RoleCommissioner}
}

// ParseRole maps a string onto a Role. Returns false for unknown names.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleReferee, RoleAssistant1, RoleAssistant2, RoleCommissioner:
		return Role(s), true
	}
	return "", false
}

// Fixture represents a scheduled match needing officials.
type Fixture struct {
	ID string

	// Date is the calendar date at midnight UTC; zero when unknown.
	Date time.Time
	// Kickoff is the local kickoff time as "HH:MM"; empty when unknown.
	Kickoff string

	Division string
	// ExpectedGrade overrides the division grade policy when set.
	ExpectedGrade Grade

	VenueID      string
	VenueAddress string

	HomeClubID string
	AwayClubID string

	// Role slots hold official ids; empty means unassigned.
	Referee      string
	Assistant1   string
	Assistant2   string
	Commissioner string

	// UpdatedAt is the optimistic version token echoed in suggestion
	// proposals so the external write path can detect stale applies.
	UpdatedAt time.Time
}

// RoleHolder returns the official id occupying the given role slot.
func (f *Fixture) RoleHolder(r Role) string {
	switch r {
	case RoleReferee:
		return f.Referee
	case RoleAssistant1:
		return f.Assistant1
	case RoleAssistant2:
		return f.Assistant2
	case RoleCommissioner:
		return f.Commissioner
	}
	return ""
}

// RoleCount returns how many role slots the official occupies on this fixture.
func (f *Fixture) RoleCount(officialID string) int {
	if officialID == "" {
		return 0
	}
	n := 0
	for _, r := range Roles() {
		if f.RoleHolder(r) == officialID {
			n++
		}
	}
	return n
}

// HasOfficial reports whether the official holds any role on this fixture.
func (f *Fixture) HasOfficial(officialID string) bool {
	return f.RoleCount(officialID) > 0
}

// Start combines date and kickoff into a point in time. The second return
// is false when either part is missing or the kickoff does not parse.
func (f *Fixture) Start() (time.Time, bool) {
	if f.Date.IsZero() || f.Kickoff == "" {
		return time.Time{}, false
	}
	t, err := time.Parse("15:04", f.Kickoff)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(f.Date.Year(), f.Date.Month(), f.Date.Day(),
		t.Hour(), t.Minute(), 0, 0, f.Date.Location()), true
}

// InvolvesClub reports whether the club plays in this fixture.
func (f *Fixture) InvolvesClub(clubID string) bool {
	if clubID == "" {
		return false
	}
	return f.HomeClubID == clubID || f.AwayClubID == clubID
}

// Placeholder address values that do not identify a real venue.
var placeholderAddresses = map[string]struct{}{
	"":        {},
	"-":       {},
	"n/a":     {},
	"na":      {},
	"tbd":     {},
	"tba":     {},
	"unknown": {},
}

// HasRealVenue reports whether the fixture carries a resolvable venue:
// a non-empty venue id, or a non-placeholder address.
func (f *Fixture) HasRealVenue() bool {
	if f.VenueID != "" {
		return true
	}
	_, placeholder := placeholderAddresses[NormalizeAddress(f.VenueAddress)]
	return !placeholder
}

// NormalizeAddress lowercases and collapses whitespace for address comparison.
func NormalizeAddress(addr string) string {
	return strings.Join(strings.Fields(strings.ToLower(addr)), " ")
}

// SameDate reports whether two dates fall on the same calendar day.
func SameDate(a, b time.Time) bool {
	if a.IsZero() || b.IsZero() {
		return false
	}
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DaysBetween returns the whole-day distance between two calendar dates,
// positive when b is after a.
func DaysBetween(a, b time.Time) int {
	ad := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bd := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bd.Sub(ad).Hours() / 24)
}
