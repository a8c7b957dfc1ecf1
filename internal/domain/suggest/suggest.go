// Package suggest proposes weekend assignment rosters.
//
// A run groups unassigned fixtures into Friday-Sunday windows and greedily
// picks an official for each, hardest-to-staff fixtures first, subject to
// grade sufficiency, availability and per-official weekend caps. Results
// stream one complete window at a time followed by a terminal summary, so
// callers can show progress without waiting for the whole range.
//
// The run holds only local counters; nothing is persisted. A fixture with
// no qualifying candidate is a normal null proposal, not an error.
package suggest

import (
	"context"
	"sort"
	"time"

	"github.com/matchweek/refassign/internal/adapters/repository"
	"github.com/matchweek/refassign/internal/domain/availability"
	"github.com/matchweek/refassign/internal/domain/model"
	"github.com/matchweek/refassign/pkg/logger"
	"github.com/matchweek/refassign/pkg/metrics"
)

// Defaults used when no option overrides them.
const (
	defaultMaxFixtures  = 3
	defaultMaxDays      = 2
	defaultWeekendCount = 4
	defaultMaxWindows   = 26

	dayKeyLayout = "2006-01-02"
)

// Option applies a configuration option to the Suggester.
type Option func(*Suggester)

// WithRole sets the role slot the suggester proposes for.
func WithRole(role model.Role) Option {
	return func(s *Suggester) {
		if _, ok := model.ParseRole(string(role)); ok {
			s.role = role
		}
	}
}

// WithDefaultCaps sets the weekend caps used for officials without their own.
func WithDefaultCaps(maxFixtures, maxDays int) Option {
	return func(s *Suggester) {
		if maxFixtures > 0 {
			s.defMaxFixtures = maxFixtures
		}
		if maxDays > 0 {
			s.defMaxDays = maxDays
		}
	}
}

// WithPolicy sets the division grade policy.
func WithPolicy(p model.DivisionGradePolicy) Option {
	return func(s *Suggester) { s.policy = p }
}

// WithWeekendCount sets how many upcoming windows a run covers when no
// explicit range is given.
func WithWeekendCount(n int) Option {
	return func(s *Suggester) {
		if n > 0 {
			s.weekends = n
		}
	}
}

// WithMaxWindows caps the windows a single run may stream.
func WithMaxWindows(n int) Option {
	return func(s *Suggester) {
		if n > 0 {
			s.maxWindows = n
		}
	}
}

// WithClock injects the time source, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Suggester) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Suggester) {
		if l != nil {
			s.logger = l
		}
	}
}

// Suggester runs weekend assignment proposals.
type Suggester struct {
	fixtures  repository.FixtureStore
	officials repository.OfficialStore
	resolver  *availability.Resolver

	policy         model.DivisionGradePolicy
	role           model.Role
	defMaxFixtures int
	defMaxDays     int
	weekends       int
	maxWindows     int
	now            func() time.Time
	logger         logger.Logger
}

// New creates a Suggester with configuration options.
func New(fixtures repository.FixtureStore, officials repository.OfficialStore, resolver *availability.Resolver, opts ...Option) *Suggester {
	s := &Suggester{
		fixtures:       fixtures,
		officials:      officials,
		resolver:       resolver,
		policy:         model.DivisionGradePolicy{},
		role:           model.RoleReferee,
		defMaxFixtures: defaultMaxFixtures,
		defMaxDays:     defaultMaxDays,
		weekends:       defaultWeekendCount,
		maxWindows:     defaultMaxWindows,
		now:            time.Now,
		logger:         nil,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WindowResult is one weekend's proposals. A nil proposal value means no
// qualifying candidate was found for that fixture.
type WindowResult struct {
	WeekendStart string               `json:"weekend_start"`
	WeekendEnd   string               `json:"weekend_end"`
	Proposals    map[string]*string   `json:"proposals"`
	Versions     map[string]time.Time `json:"fixture_versions,omitempty"`
}

// Summary is the terminal record of a run.
type Summary struct {
	Windows            int `json:"windows"`
	FixturesConsidered int `json:"fixtures_considered"`
	FixturesAssigned   int `json:"fixtures_assigned"`
}

// Event is one element of the result stream: exactly one of Window,
// Summary or Err is set. The stream closes after Summary or Err.
type Event struct {
	Window  *WindowResult
	Summary *Summary
	Err     error
}

// Run streams proposals for the date range. A zero from/to pair selects the
// next configured number of upcoming weekends. The returned channel is
// lazy, finite and non-restartable; cancelling ctx stops further window
// processing without retracting anything already emitted.
func (s *Suggester) Run(ctx context.Context, from, to time.Time) <-chan Event {
	out := make(chan Event)

	go func() {
		defer close(out)

		metrics.RecordSuggestRun()

		var windows []window
		if from.IsZero() || to.IsZero() {
			windows = upcomingWindows(s.now(), s.weekends)
		} else {
			windows = windowsBetween(from, to)
		}
		if len(windows) > s.maxWindows {
			windows = windows[:s.maxWindows]
		}

		var summary Summary
		for _, w := range windows {
			res, considered, assigned, err := s.suggestWindow(ctx, w)
			if err != nil {
				s.emit(ctx, out, Event{Err: err})
				return
			}

			summary.Windows++
			summary.FixturesConsidered += considered
			summary.FixturesAssigned += assigned
			metrics.RecordSuggestWindow()
			metrics.RecordFixturesConsidered(considered)
			metrics.RecordFixturesAssigned(assigned)
			metrics.RecordFixturesUnfilled(considered - assigned)

			if s.logger != nil {
				s.logger.Debug(ctx, "weekend window processed",
					logger.String("weekendStart", res.WeekendStart),
					logger.Int("considered", considered),
					logger.Int("assigned", assigned),
				)
			}

			if !s.emit(ctx, out, Event{Window: &res}) {
				return
			}
		}

		s.emit(ctx, out, Event{Summary: &summary})
	}()

	return out
}

func (s *Suggester) emit(ctx context.Context, out chan<- Event, e Event) bool {
	select {
	case out <- e:
		return true
	case <-ctx.Done():
		return false
	}
}

// weekendLoad tracks one official's running counters within a window.
type weekendLoad struct {
	fixtures int
	days     map[string]bool
}

func (l *weekendLoad) dayCount() int { return len(l.days) }

// suggestWindow allocates officials to the window's unassigned fixtures.
func (s *Suggester) suggestWindow(ctx context.Context, w window) (WindowResult, int, int, error) {
	res := WindowResult{
		WeekendStart: w.start.Format(dayKeyLayout),
		WeekendEnd:   w.end.Format(dayKeyLayout),
		Proposals:    make(map[string]*string),
		Versions:     make(map[string]time.Time),
	}

	fixtures, err := s.fixtures.FixturesBetween(ctx, w.start, w.end)
	if err != nil {
		return WindowResult{}, 0, 0, err
	}
	officials, err := s.officials.Officials(ctx)
	if err != nil {
		return WindowResult{}, 0, 0, err
	}

	// Seed counters from the window's pre-existing assignments: every role
	// held counts the fixture once per official.
	loads := make(map[string]*weekendLoad)
	load := func(id string) *weekendLoad {
		l, ok := loads[id]
		if !ok {
			l = &weekendLoad{days: make(map[string]bool)}
			loads[id] = l
		}
		return l
	}
	var unassigned []model.Fixture
	for i := range fixtures {
		f := &fixtures[i]
		seen := make(map[string]bool)
		for _, role := range model.Roles() {
			id := f.RoleHolder(role)
			if id == "" || seen[id] {
				continue
			}
			seen[id] = true
			l := load(id)
			l.fixtures++
			l.days[f.Date.Format(dayKeyLayout)] = true
		}
		if f.RoleHolder(s.role) == "" {
			unassigned = append(unassigned, *f)
		}
	}

	// Hardest-to-staff first; the remaining keys make the order total so a
	// rerun over unchanged input reproduces the same proposals.
	required := make(map[string]model.Grade, len(unassigned))
	for i := range unassigned {
		required[unassigned[i].ID] = s.policy.RequiredGrade(&unassigned[i])
	}
	sort.Slice(unassigned, func(i, j int) bool {
		a, b := &unassigned[i], &unassigned[j]
		ar, br := required[a.ID].Rank(), required[b.ID].Rank()
		if ar != br {
			return ar > br
		}
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.Kickoff != b.Kickoff {
			return a.Kickoff < b.Kickoff
		}
		return a.ID < b.ID
	})

	assigned := 0
	for i := range unassigned {
		f := &unassigned[i]
		best, err := s.pickOfficial(ctx, f, required[f.ID], officials, loads)
		if err != nil {
			return WindowResult{}, 0, 0, err
		}
		res.Versions[f.ID] = f.UpdatedAt
		if best == nil {
			res.Proposals[f.ID] = nil
			continue
		}

		id := best.ID
		res.Proposals[f.ID] = &id
		assigned++

		// Later fixtures in the same window must see the updated load.
		l := load(id)
		l.fixtures++
		l.days[f.Date.Format(dayKeyLayout)] = true
	}

	return res, len(unassigned), assigned, nil
}

// pickOfficial returns the best qualifying candidate for the fixture, or
// nil when none qualifies. Officials arrive sorted by id, and a candidate
// replaces the incumbent only on strict improvement, so the smallest id
// wins every remaining tie.
func (s *Suggester) pickOfficial(ctx context.Context, f *model.Fixture, required model.Grade, officials []model.Official, loads map[string]*weekendLoad) (*model.Official, error) {
	day := f.Date.Format(dayKeyLayout)

	var best *model.Official
	var bestLoad *weekendLoad

	for i := range officials {
		o := &officials[i]
		if !o.Grade.AtLeast(required) {
			continue
		}

		free, err := s.resolver.IsAvailable(ctx, o.ID, f.Date, f.Kickoff)
		if err != nil {
			return nil, err
		}
		if !free {
			continue
		}

		l := loads[o.ID]
		if l == nil {
			l = &weekendLoad{days: make(map[string]bool)}
		}
		maxFixtures := o.MaxWeekendFixtures
		if maxFixtures <= 0 {
			maxFixtures = s.defMaxFixtures
		}
		maxDays := o.MaxWeekendDays
		if maxDays <= 0 {
			maxDays = s.defMaxDays
		}

		projectedDays := l.dayCount()
		if !l.days[day] {
			projectedDays++
		}
		if l.fixtures+1 > maxFixtures || projectedDays > maxDays {
			continue
		}

		if best == nil || betterCandidate(o, l, best, bestLoad) {
			best, bestLoad = o, l
		}
	}

	return best, nil
}

// betterCandidate orders candidates: fewest distinct days worked this
// weekend, then fewest fixtures, then highest grade rank.
func betterCandidate(o *model.Official, l *weekendLoad, best *model.Official, bestLoad *weekendLoad) bool {
	if l.dayCount() != bestLoad.dayCount() {
		return l.dayCount() < bestLoad.dayCount()
	}
	if l.fixtures != bestLoad.fixtures {
		return l.fixtures < bestLoad.fixtures
	}
	return o.Grade.Rank() > best.Grade.Rank()
}
