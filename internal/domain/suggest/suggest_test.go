package suggest_test

import (
	"context"
	"testing"
	"time"

	"github.com/matchweek/refassign/internal/adapters/repository"
	"github.com/matchweek/refassign/internal/domain/availability"
	"github.com/matchweek/refassign/internal/domain/model"
	"github.com/matchweek/refassign/internal/domain/suggest"
	. "github.com/smartystreets/goconvey/convey"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Friday 2024-06-07 anchors every test weekend.
var (
	friday   = date(2024, 6, 7)
	saturday = date(2024, 6, 8)
	sunday   = date(2024, 6, 9)
)

func newSuggester(store *repository.MemStore, opts ...suggest.Option) *suggest.Suggester {
	base := []suggest.Option{
		suggest.WithClock(func() time.Time { return friday }),
		suggest.WithWeekendCount(1),
	}
	return suggest.New(store, store, availability.NewResolver(store), append(base, opts...)...)
}

// collect drains a run into its windows and terminal summary.
func collect(s *suggest.Suggester, from, to time.Time) ([]suggest.WindowResult, suggest.Summary) {
	var windows []suggest.WindowResult
	var summary suggest.Summary
	for event := range s.Run(context.Background(), from, to) {
		So(event.Err, ShouldBeNil)
		if event.Window != nil {
			windows = append(windows, *event.Window)
		}
		if event.Summary != nil {
			summary = *event.Summary
		}
	}
	return windows, summary
}

func proposal(w suggest.WindowResult, fixtureID string) *string {
	p, ok := w.Proposals[fixtureID]
	So(ok, ShouldBeTrue)
	return p
}

func TestWeekendCaps(t *testing.T) {
	Convey("Given one official and four fixtures across three days", t, func() {
		store := repository.NewMemStore()
		store.PutOfficial(model.Official{ID: "off-1", Grade: model.GradeA})
		store.PutFixture(model.Fixture{ID: "fx-1", Date: friday, Kickoff: "11:00"})
		store.PutFixture(model.Fixture{ID: "fx-2", Date: friday, Kickoff: "14:00"})
		store.PutFixture(model.Fixture{ID: "fx-3", Date: saturday, Kickoff: "14:00"})
		store.PutFixture(model.Fixture{ID: "fx-4", Date: sunday, Kickoff: "14:00"})

		windows, summary := collect(newSuggester(store), time.Time{}, time.Time{})

		Convey("Then the default caps stop at three fixtures on two days", func() {
			So(windows, ShouldHaveLength, 1)
			w := windows[0]
			So(*proposal(w, "fx-1"), ShouldEqual, "off-1")
			So(*proposal(w, "fx-2"), ShouldEqual, "off-1")
			So(*proposal(w, "fx-3"), ShouldEqual, "off-1")
			So(proposal(w, "fx-4"), ShouldBeNil)
		})

		Convey("Then the summary accounts for the unfilled slot", func() {
			So(summary.Windows, ShouldEqual, 1)
			So(summary.FixturesConsidered, ShouldEqual, 4)
			So(summary.FixturesAssigned, ShouldEqual, 3)
		})
	})
}

func TestPerOfficialCapOverride(t *testing.T) {
	Convey("Given an official capped at one fixture per weekend", t, func() {
		store := repository.NewMemStore()
		store.PutOfficial(model.Official{ID: "off-1", Grade: model.GradeA, MaxWeekendFixtures: 1})
		store.PutFixture(model.Fixture{ID: "fx-1", Date: saturday, Kickoff: "11:00"})
		store.PutFixture(model.Fixture{ID: "fx-2", Date: saturday, Kickoff: "14:00"})

		windows, _ := collect(newSuggester(store), time.Time{}, time.Time{})

		Convey("Then the personal cap beats the default", func() {
			w := windows[0]
			So(*proposal(w, "fx-1"), ShouldEqual, "off-1")
			So(proposal(w, "fx-2"), ShouldBeNil)
		})
	})
}

func TestLoadSpreading(t *testing.T) {
	Convey("Given two equally graded officials and two same-day fixtures", t, func() {
		store := repository.NewMemStore()
		store.PutOfficial(model.Official{ID: "off-a", Grade: model.GradeB})
		store.PutOfficial(model.Official{ID: "off-b", Grade: model.GradeB})
		store.PutFixture(model.Fixture{ID: "fx-1", Date: saturday, Kickoff: "11:00"})
		store.PutFixture(model.Fixture{ID: "fx-2", Date: saturday, Kickoff: "14:00"})

		windows, _ := collect(newSuggester(store), time.Time{}, time.Time{})

		Convey("Then the work spreads instead of stacking on the first id", func() {
			w := windows[0]
			So(*proposal(w, "fx-1"), ShouldEqual, "off-a")
			So(*proposal(w, "fx-2"), ShouldEqual, "off-b")
		})
	})
}

func TestSeededCounters(t *testing.T) {
	Convey("Given an official already booked up by pre-existing assignments", t, func() {
		store := repository.NewMemStore()
		store.PutOfficial(model.Official{ID: "off-a", Grade: model.GradeA})
		store.PutOfficial(model.Official{ID: "off-b", Grade: model.GradeB})
		for i, kickoff := range []string{"09:00", "11:00", "13:00"} {
			store.PutFixture(model.Fixture{
				ID:      "fx-held-" + string(rune('a'+i)),
				Date:    saturday,
				Kickoff: kickoff,
				Referee: "off-a",
			})
		}
		store.PutFixture(model.Fixture{ID: "fx-open", Date: saturday, Kickoff: "16:00"})

		windows, summary := collect(newSuggester(store), time.Time{}, time.Time{})

		Convey("Then the saturated official is passed over", func() {
			So(*proposal(windows[0], "fx-open"), ShouldEqual, "off-b")
		})

		Convey("Then pre-assigned fixtures are not re-proposed", func() {
			So(windows[0].Proposals, ShouldHaveLength, 1)
			So(summary.FixturesConsidered, ShouldEqual, 1)
		})
	})
}

func TestGradeAndAvailabilityFilters(t *testing.T) {
	Convey("Given a premier fixture requiring grade A", t, func() {
		store := repository.NewMemStore()
		policy := model.DivisionGradePolicy{"premier": model.GradeA}
		store.PutFixture(model.Fixture{ID: "fx-1", Date: saturday, Kickoff: "14:00", Division: "premier"})

		Convey("When only a grade B official exists", func() {
			store.PutOfficial(model.Official{ID: "off-b", Grade: model.GradeB})
			windows, summary := collect(newSuggester(store, suggest.WithPolicy(policy)), time.Time{}, time.Time{})

			Convey("Then the fixture stays unfilled as a null proposal", func() {
				So(proposal(windows[0], "fx-1"), ShouldBeNil)
				So(summary.FixturesAssigned, ShouldEqual, 0)
			})
		})

		Convey("When the only qualified official is away that weekend", func() {
			store.PutOfficial(model.Official{ID: "off-a", Grade: model.GradeA})
			store.AddUnavailability(model.AdHocUnavailability{
				OfficialID: "off-a",
				From:       friday,
				To:         sunday,
			})
			windows, _ := collect(newSuggester(store, suggest.WithPolicy(policy)), time.Time{}, time.Time{})

			Convey("Then nobody is proposed", func() {
				So(proposal(windows[0], "fx-1"), ShouldBeNil)
			})
		})

		Convey("When a weekly row blocks only the kickoff slot", func() {
			store.PutOfficial(model.Official{ID: "off-a", Grade: model.GradeA})
			store.SetWeeklyAvailability(model.WeeklyAvailability{
				OfficialID: "off-a",
				Weekday:    time.Saturday,
				Morning:    true,
				Afternoon:  false,
				Evening:    true,
			})
			windows, _ := collect(newSuggester(store, suggest.WithPolicy(policy)), time.Time{}, time.Time{})

			Convey("Then the afternoon fixture stays unfilled", func() {
				So(proposal(windows[0], "fx-1"), ShouldBeNil)
			})
		})
	})
}

func TestHardestFixturesFirst(t *testing.T) {
	Convey("Given one grade A official and fixtures of mixed difficulty", t, func() {
		store := repository.NewMemStore()
		policy := model.DivisionGradePolicy{"premier": model.GradeA, "second": model.GradeC}
		store.PutOfficial(model.Official{ID: "off-a", Grade: model.GradeA, MaxWeekendFixtures: 1})
		// The easy fixture sorts earlier by date but must not consume the
		// only official capable of the premier one.
		store.PutFixture(model.Fixture{ID: "fx-easy", Date: friday, Kickoff: "11:00", Division: "second"})
		store.PutFixture(model.Fixture{ID: "fx-top", Date: sunday, Kickoff: "14:00", Division: "premier"})

		windows, _ := collect(newSuggester(store, suggest.WithPolicy(policy)), time.Time{}, time.Time{})

		Convey("Then the premier fixture is staffed first", func() {
			w := windows[0]
			So(*proposal(w, "fx-top"), ShouldEqual, "off-a")
			So(proposal(w, "fx-easy"), ShouldBeNil)
		})
	})
}

func TestDeterministicReruns(t *testing.T) {
	Convey("Given an unchanged store", t, func() {
		store := repository.NewMemStore()
		for _, id := range []string{"off-a", "off-b", "off-c"} {
			store.PutOfficial(model.Official{ID: id, Grade: model.GradeB})
		}
		kickoffs := []string{"10:00", "12:00", "14:00", "16:00"}
		days := []time.Time{friday, saturday, saturday, sunday}
		for i, k := range kickoffs {
			store.PutFixture(model.Fixture{
				ID:      "fx-" + string(rune('1'+i)),
				Date:    days[i],
				Kickoff: k,
			})
		}
		s := newSuggester(store)

		first, firstSummary := collect(s, time.Time{}, time.Time{})
		second, secondSummary := collect(s, time.Time{}, time.Time{})

		Convey("Then a rerun reproduces the proposals exactly", func() {
			So(second, ShouldResemble, first)
			So(secondSummary, ShouldResemble, firstSummary)
		})
	})
}

func TestExplicitRangeAndVersions(t *testing.T) {
	Convey("Given fixtures across two weekends", t, func() {
		store := repository.NewMemStore()
		store.PutOfficial(model.Official{ID: "off-a", Grade: model.GradeA})
		stamp := date(2024, 6, 1)
		store.PutFixture(model.Fixture{ID: "fx-1", Date: saturday, Kickoff: "14:00", UpdatedAt: stamp})
		store.PutFixture(model.Fixture{ID: "fx-2", Date: saturday.AddDate(0, 0, 7), Kickoff: "14:00", UpdatedAt: stamp})

		Convey("When running over an explicit range covering both", func() {
			windows, summary := collect(newSuggester(store), friday, sunday.AddDate(0, 0, 7))

			Convey("Then each weekend streams as its own window", func() {
				So(windows, ShouldHaveLength, 2)
				So(windows[0].WeekendStart, ShouldEqual, "2024-06-07")
				So(windows[1].WeekendStart, ShouldEqual, "2024-06-14")
				So(summary.Windows, ShouldEqual, 2)
			})

			Convey("Then each proposal carries the fixture's version token", func() {
				So(windows[0].Versions["fx-1"].Equal(stamp), ShouldBeTrue)
				So(windows[1].Versions["fx-2"].Equal(stamp), ShouldBeTrue)
			})
		})

		Convey("When running over a range covering only the first weekend", func() {
			windows, _ := collect(newSuggester(store), friday, sunday)

			Convey("Then the second fixture is never considered", func() {
				So(windows, ShouldHaveLength, 1)
				_, seen := windows[0].Proposals["fx-2"]
				So(seen, ShouldBeFalse)
			})
		})
	})
}

func TestRunCancellation(t *testing.T) {
	Convey("Given a run whose context is cancelled immediately", t, func() {
		store := repository.NewMemStore()
		store.PutOfficial(model.Official{ID: "off-a", Grade: model.GradeA})
		store.PutFixture(model.Fixture{ID: "fx-1", Date: saturday, Kickoff: "14:00"})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		events := newSuggester(store).Run(ctx, time.Time{}, time.Time{})

		Convey("Then the stream still terminates", func() {
			for range events {
			}
			_, open := <-events
			So(open, ShouldBeFalse)
		})
	})
}
