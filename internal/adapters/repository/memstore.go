package repository

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/matchweek/refassign/internal/domain/model"
)

// MemStore implements Store in memory. It backs tests, the demo seeder and
// deployments without a configured database.
type MemStore struct {
	mu sync.RWMutex

	fixtures  map[string]model.Fixture
	officials map[string]model.Official
	unavail   map[string][]model.AdHocUnavailability
	weekly    map[string]map[time.Weekday]model.WeeklyAvailability
	clubs     map[string]model.Club
	legacy    map[int64]string // legacy numeric key -> club id
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		fixtures:  make(map[string]model.Fixture),
		officials: make(map[string]model.Official),
		unavail:   make(map[string][]model.AdHocUnavailability),
		weekly:    make(map[string]map[time.Weekday]model.WeeklyAvailability),
		clubs:     make(map[string]model.Club),
		legacy:    make(map[int64]string),
	}
}

// PutFixture inserts or replaces a fixture.
func (s *MemStore) PutFixture(f model.Fixture) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fixtures[f.ID] = f
}

// PutOfficial inserts or replaces an official.
func (s *MemStore) PutOfficial(o model.Official) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.officials[o.ID] = o
}

// AddUnavailability records an ad-hoc unavailability range.
func (s *MemStore) AddUnavailability(u model.AdHocUnavailability) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unavail[u.OfficialID] = append(s.unavail[u.OfficialID], u)
}

// SetWeeklyAvailability inserts or replaces a weekly table row.
func (s *MemStore) SetWeeklyAvailability(w model.WeeklyAvailability) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, ok := s.weekly[w.OfficialID]
	if !ok {
		rows = make(map[time.Weekday]model.WeeklyAvailability)
		s.weekly[w.OfficialID] = rows
	}
	rows[w.Weekday] = w
}

// PutClub inserts or replaces a club.
func (s *MemStore) PutClub(c model.Club) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clubs[c.ID] = c
	if c.LegacyKey != 0 {
		s.legacy[c.LegacyKey] = c.ID
	}
}

// Fixture implements FixtureStore.
func (s *MemStore) Fixture(ctx context.Context, id string) (model.Fixture, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.fixtures[id]
	if !ok {
		return model.Fixture{}, ErrNotFound
	}
	return f, nil
}

// FixturesBetween implements FixtureStore.
func (s *MemStore) FixturesBetween(ctx context.Context, from, to time.Time) ([]model.Fixture, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Fixture
	for _, f := range s.fixtures {
		if inDateRange(f.Date, from, to) {
			out = append(out, f)
		}
	}
	sortFixtures(out)
	return out, nil
}

// FixturesForOfficialBetween implements FixtureStore.
func (s *MemStore) FixturesForOfficialBetween(ctx context.Context, officialID string, from, to time.Time) ([]model.Fixture, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Fixture
	for _, f := range s.fixtures {
		if f.HasOfficial(officialID) && inDateRange(f.Date, from, to) {
			out = append(out, f)
		}
	}
	sortFixtures(out)
	return out, nil
}

// Official implements OfficialStore.
func (s *MemStore) Official(ctx context.Context, id string) (model.Official, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.officials[id]
	if !ok {
		return model.Official{}, ErrNotFound
	}
	return o, nil
}

// Officials implements OfficialStore.
func (s *MemStore) Officials(ctx context.Context) ([]model.Official, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Official, 0, len(s.officials))
	for _, o := range s.officials {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Unavailabilities implements AvailabilityStore.
func (s *MemStore) Unavailabilities(ctx context.Context, officialID string) ([]model.AdHocUnavailability, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := s.unavail[officialID]
	out := make([]model.AdHocUnavailability, len(rows))
	copy(out, rows)
	return out, nil
}

// WeeklyAvailability implements AvailabilityStore.
func (s *MemStore) WeeklyAvailability(ctx context.Context, officialID string, weekday time.Weekday) (model.WeeklyAvailability, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, ok := s.weekly[officialID]
	if !ok {
		return model.WeeklyAvailability{}, false, nil
	}
	w, ok := rows[weekday]
	return w, ok, nil
}

// ResolveClub implements ClubStore: id match first, legacy numeric key second.
func (s *MemStore) ResolveClub(ctx context.Context, ref string) (string, error) {
	if ref == "" {
		return "", ErrNotFound
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.clubs[ref]; ok {
		return ref, nil
	}
	if key, err := strconv.ParseInt(ref, 10, 64); err == nil {
		if id, ok := s.legacy[key]; ok {
			return id, nil
		}
	}
	return "", ErrNotFound
}

// Counts returns the number of fixtures and officials held, for /stats.
func (s *MemStore) Counts() (fixtures, officials int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.fixtures), len(s.officials)
}

func inDateRange(date, from, to time.Time) bool {
	if date.IsZero() {
		return false
	}
	if model.SameDate(date, from) || model.SameDate(date, to) {
		return true
	}
	return date.After(from) && date.Before(to)
}

// sortFixtures orders by date, kickoff, id for deterministic output.
func sortFixtures(fs []model.Fixture) {
	sort.Slice(fs, func(i, j int) bool {
		if !fs[i].Date.Equal(fs[j].Date) {
			return fs[i].Date.Before(fs[j].Date)
		}
		if fs[i].Kickoff != fs[j].Kickoff {
			return fs[i].Kickoff < fs[j].Kickoff
		}
		return fs[i].ID < fs[j].ID
	})
}
