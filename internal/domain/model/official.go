package model

import "time"

// Official represents a match official eligible for assignment.
type Official struct {
	ID string

	Grade Grade

	// ClubRef is the official's home club reference. It may hold either a
	// club id or a legacy numeric key; resolution is the club store's job.
	ClubRef string

	// Per-weekend caps; zero means "use the configured default".
	MaxWeekendFixtures int
	MaxWeekendDays     int
}

// AdHocUnavailability blocks an official for an inclusive date range.
type AdHocUnavailability struct {
	OfficialID string
	From       time.Time
	To         time.Time
	Reason     string
}

// Contains reports whether the inclusive range covers the given date.
func (u *AdHocUnavailability) Contains(date time.Time) bool {
	if date.IsZero() || u.From.IsZero() || u.To.IsZero() {
		return false
	}
	if SameDate(date, u.From) || SameDate(date, u.To) {
		return true
	}
	return date.After(u.From) && date.Before(u.To)
}

// WeeklyAvailability is one row of an official's weekly availability table.
// Absence of a row for a weekday means available in all slots.
type WeeklyAvailability struct {
	OfficialID string
	Weekday    time.Weekday
	Morning    bool
	Afternoon  bool
	Evening    bool
}

// Available returns the boolean for the given slot.
func (w *WeeklyAvailability) Available(slot TimeSlot) bool {
	switch slot {
	case SlotMorning:
		return w.Morning
	case SlotAfternoon:
		return w.Afternoon
	case SlotEvening:
		return w.Evening
	}
	return false
}

// TimeSlot partitions a day into the three slots of the weekly table.
type TimeSlot string

// Day slots.
const (
	SlotMorning   TimeSlot = "morning"
	SlotAfternoon TimeSlot = "afternoon"
	SlotEvening   TimeSlot = "evening"
)

// SlotForHour maps an hour of day onto a TimeSlot:
// hour < 12 morning, 12 <= hour < 17 afternoon, else evening.
func SlotForHour(hour int) TimeSlot {
	switch {
	case hour < 12:
		return SlotMorning
	case hour < 17:
		return SlotAfternoon
	default:
		return SlotEvening
	}
}

// Club is the minimal club record needed for own-club and venue checks.
type Club struct {
	ID string
	// LegacyKey is the numeric identifier of the pre-migration schema; zero
	// when the club has none.
	LegacyKey int64
	Name      string
}
