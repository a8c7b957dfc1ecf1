// Package fit scores how well an official suits a fixture.
//
// A score starts at 100 and loses configured penalty points for each
// detected condition: conflicts of all three severities, insufficient
// grade, affiliation with a competing club, a recently officiated
// opponent, and unavailability. The final score is clamped to [0,100];
// flags name every condition so callers can render explanations rather
// than a bare number.
package fit

import (
	"context"
	"errors"

	"github.com/matchweek/refassign/internal/adapters/repository"
	"github.com/matchweek/refassign/internal/domain/availability"
	"github.com/matchweek/refassign/internal/domain/conflict"
	"github.com/matchweek/refassign/internal/domain/model"
	"github.com/matchweek/refassign/pkg/metrics"
)

const (
	baseScore           = 100
	defaultLookbackDays = 14
)

// Flag is a stable conflict/quality tag other layers render as indicators.
type Flag string

// Flag vocabulary.
const (
	FlagHardConflict      Flag = "hard_conflict"
	FlagSoftConflict      Flag = "soft_conflict"
	FlagProximityConflict Flag = "proximity_conflict"
	FlagBelowGrade        Flag = "below_grade"
	FlagRecentTeam        Flag = "recent_team"
	FlagOwnClub           Flag = "own_club"
	FlagUnavailable       Flag = "unavailable"
)

// Penalties holds the point deduction for each condition. The table is
// plain configuration injected at construction; nothing here is global.
type Penalties struct {
	HardConflict      int
	SoftConflict      int
	ProximityConflict int
	BelowGrade        int
	RecentTeam        int
	OwnClub           int
	Unavailable       int
}

// DefaultPenalties returns the stock penalty table.
func DefaultPenalties() Penalties {
	return Penalties{
		HardConflict:      100,
		SoftConflict:      30,
		ProximityConflict: 15,
		BelowGrade:        40,
		RecentTeam:        10,
		OwnClub:           25,
		Unavailable:       50,
	}
}

// Input carries one (official, fixture) scoring request.
type Input struct {
	Fixture    model.Fixture
	OfficialID string
	// Grade is the official's grade when the caller already has it; empty
	// triggers a store lookup through the invocation cache.
	Grade model.Grade
	// Debug requests the per-predicate conflict trace in the result.
	Debug bool
}

// Result is the outcome of one scoring request.
type Result struct {
	Score int    `json:"score"`
	Flags []Flag `json:"flags"`
	// Trace is only populated when Input.Debug is set.
	Trace *conflict.Trace `json:"trace,omitempty"`
}

// HasFlag reports whether the result carries the given flag.
func (r *Result) HasFlag(f Flag) bool {
	for _, have := range r.Flags {
		if have == f {
			return true
		}
	}
	return false
}

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithPenalties overrides the penalty table.
func WithPenalties(p Penalties) Option {
	return func(s *Scorer) { s.penalties = p }
}

// WithPolicy sets the division grade policy.
func WithPolicy(p model.DivisionGradePolicy) Option {
	return func(s *Scorer) { s.policy = p }
}

// WithRecentTeam toggles the recent-opponent penalty. The interactive path
// historically applied it while the batch path did not; both are now just
// configurations of the same scorer.
func WithRecentTeam(enabled bool) Option {
	return func(s *Scorer) { s.recentTeam = enabled }
}

// WithLookbackDays sets the recent-opponent lookback window.
func WithLookbackDays(days int) Option {
	return func(s *Scorer) {
		if days > 0 {
			s.lookbackDays = days
		}
	}
}

// Scorer computes fit scores. It only reads from its stores; any state for
// one batch of calls lives in the Cache the caller passes in.
type Scorer struct {
	store    repository.Store
	detector *conflict.Detector
	resolver *availability.Resolver

	penalties    Penalties
	policy       model.DivisionGradePolicy
	recentTeam   bool
	lookbackDays int
}

// NewScorer creates a Scorer with configuration options.
func NewScorer(store repository.Store, detector *conflict.Detector, resolver *availability.Resolver, opts ...Option) *Scorer {
	s := &Scorer{
		store:        store,
		detector:     detector,
		resolver:     resolver,
		penalties:    DefaultPenalties(),
		policy:       model.DivisionGradePolicy{},
		recentTeam:   true,
		lookbackDays: defaultLookbackDays,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Cache holds lookups resolved during a single scoring invocation. It is
// owned by the caller, never shared across requests, and discarded when the
// batch of calls completes.
type Cache struct {
	officials map[string]*model.Official // nil entry: lookup failed
	clubs     map[string]string          // official id -> club id; "": unresolvable
}

// NewCache creates an empty invocation cache.
func NewCache() *Cache {
	return &Cache{
		officials: make(map[string]*model.Official),
		clubs:     make(map[string]string),
	}
}

// Score computes the fit score and flags for one (official, fixture) pair.
func (s *Scorer) Score(ctx context.Context, in Input, cache *Cache) (Result, error) {
	if cache == nil {
		cache = NewCache()
	}

	score := baseScore
	var flags []Flag

	tr, err := s.detector.Detect(ctx, in.Fixture, in.OfficialID)
	if err != nil {
		return Result{}, err
	}
	if tr.Hard {
		score -= s.penalties.HardConflict
		flags = append(flags, FlagHardConflict)
	}
	if tr.Soft {
		score -= s.penalties.SoftConflict
		flags = append(flags, FlagSoftConflict)
	}
	if tr.Proximity {
		score -= s.penalties.ProximityConflict
		flags = append(flags, FlagProximityConflict)
	}

	grade := in.Grade
	if !grade.Known() {
		if o := s.official(ctx, in.OfficialID, cache); o != nil {
			grade = o.Grade
		}
	}
	required := s.policy.RequiredGrade(&in.Fixture)
	if grade.Known() && required.Known() && grade.Rank() < required.Rank() {
		score -= s.penalties.BelowGrade
		flags = append(flags, FlagBelowGrade)
	}

	clubID, err := s.ownClub(ctx, in.OfficialID, cache)
	if err != nil {
		return Result{}, err
	}
	if in.Fixture.InvolvesClub(clubID) {
		score -= s.penalties.OwnClub
		flags = append(flags, FlagOwnClub)
	}

	if s.recentTeam {
		recent, err := s.recentOpponent(ctx, &in.Fixture, in.OfficialID)
		if err != nil {
			return Result{}, err
		}
		if recent {
			score -= s.penalties.RecentTeam
			flags = append(flags, FlagRecentTeam)
		}
	}

	free, err := s.resolver.IsAvailable(ctx, in.OfficialID, in.Fixture.Date, in.Fixture.Kickoff)
	if err != nil {
		return Result{}, err
	}
	if !free {
		score -= s.penalties.Unavailable
		flags = append(flags, FlagUnavailable)
	}

	if score < 0 {
		score = 0
	}
	if score > baseScore {
		score = baseScore
	}

	metrics.RecordScoreComputed()
	for _, f := range flags {
		metrics.RecordConflictFlag(string(f))
	}

	res := Result{Score: score, Flags: flags}
	if in.Debug {
		res.Trace = &tr
	}
	return res, nil
}

// official fetches an official through the cache. A failed lookup is cached
// as nil so one bad reference costs at most one store round-trip.
func (s *Scorer) official(ctx context.Context, id string, cache *Cache) *model.Official {
	if o, seen := cache.officials[id]; seen {
		return o
	}
	o, err := s.store.Official(ctx, id)
	if err != nil {
		cache.officials[id] = nil
		return nil
	}
	cache.officials[id] = &o
	return &o
}

// ownClub resolves the official's home club id through the cache. An
// unresolvable club reference is cached as "" and skips the penalty.
func (s *Scorer) ownClub(ctx context.Context, officialID string, cache *Cache) (string, error) {
	if clubID, seen := cache.clubs[officialID]; seen {
		return clubID, nil
	}

	o := s.official(ctx, officialID, cache)
	if o == nil || o.ClubRef == "" {
		cache.clubs[officialID] = ""
		return "", nil
	}

	clubID, err := s.store.ResolveClub(ctx, o.ClubRef)
	if errors.Is(err, repository.ErrNotFound) {
		cache.clubs[officialID] = ""
		return "", nil
	}
	if err != nil {
		return "", err
	}
	cache.clubs[officialID] = clubID
	return clubID, nil
}

// recentOpponent reports whether the official held any role in a fixture
// involving either of this fixture's clubs within the lookback window,
// strictly before the fixture date.
func (s *Scorer) recentOpponent(ctx context.Context, f *model.Fixture, officialID string) (bool, error) {
	if f.Date.IsZero() {
		return false, nil
	}
	from := f.Date.AddDate(0, 0, -s.lookbackDays)
	to := f.Date.AddDate(0, 0, -1)
	others, err := s.store.FixturesForOfficialBetween(ctx, officialID, from, to)
	if err != nil {
		return false, err
	}
	for i := range others {
		if others[i].ID == f.ID {
			continue
		}
		if others[i].InvolvesClub(f.HomeClubID) || others[i].InvolvesClub(f.AwayClubID) {
			return true, nil
		}
	}
	return false, nil
}
