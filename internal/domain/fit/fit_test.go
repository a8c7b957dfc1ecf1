package fit_test

import (
	"context"
	"testing"
	"time"

	"github.com/matchweek/refassign/internal/adapters/repository"
	"github.com/matchweek/refassign/internal/domain/availability"
	"github.com/matchweek/refassign/internal/domain/conflict"
	"github.com/matchweek/refassign/internal/domain/fit"
	"github.com/matchweek/refassign/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newScorer(store *repository.MemStore, opts ...fit.Option) *fit.Scorer {
	detector := conflict.NewDetector(store)
	resolver := availability.NewResolver(store)
	return fit.NewScorer(store, detector, resolver, opts...)
}

func score(s *fit.Scorer, f model.Fixture, officialID string) fit.Result {
	res, err := s.Score(context.Background(), fit.Input{Fixture: f, OfficialID: officialID}, fit.NewCache())
	So(err, ShouldBeNil)
	return res
}

func TestScoreCleanPair(t *testing.T) {
	Convey("Given an official with nothing against them", t, func() {
		store := repository.NewMemStore()
		store.PutOfficial(model.Official{ID: "off-1", Grade: model.GradeA})
		scorer := newScorer(store)

		res := score(scorer, model.Fixture{ID: "fx-1", Date: date(2024, 6, 1), Kickoff: "14:00"}, "off-1")

		Convey("Then the score is the full base with no flags", func() {
			So(res.Score, ShouldEqual, 100)
			So(res.Flags, ShouldBeEmpty)
			So(res.Trace, ShouldBeNil)
		})
	})
}

func TestScoreConflictPenalties(t *testing.T) {
	Convey("Given an official already refereeing on the Saturday", t, func() {
		store := repository.NewMemStore()
		store.PutOfficial(model.Official{ID: "off-1", Grade: model.GradeA})
		saturday := date(2024, 6, 1)
		store.PutFixture(model.Fixture{
			ID:      "fx-held",
			Date:    saturday,
			Kickoff: "15:00",
			VenueID: "venue-1",
			Referee: "off-1",
		})
		scorer := newScorer(store)

		Convey("When the candidate fixture overlaps the held one", func() {
			res := score(scorer, model.Fixture{ID: "fx-new", Date: saturday, Kickoff: "14:00", VenueID: "venue-1"}, "off-1")

			Convey("Then the hard penalty floors the score", func() {
				So(res.Score, ShouldEqual, 0)
				So(res.Flags, ShouldResemble, []fit.Flag{fit.FlagHardConflict})
			})
		})

		Convey("When the candidate shares the venue without overlapping", func() {
			res := score(scorer, model.Fixture{ID: "fx-new", Date: saturday, Kickoff: "10:00", VenueID: "venue-1"}, "off-1")

			Convey("Then only the soft penalty applies", func() {
				So(res.Score, ShouldEqual, 70)
				So(res.Flags, ShouldResemble, []fit.Flag{fit.FlagSoftConflict})
			})
		})

		Convey("When the candidate sits one day away", func() {
			res := score(scorer, model.Fixture{ID: "fx-new", Date: saturday.AddDate(0, 0, 1), Kickoff: "14:00"}, "off-1")

			Convey("Then only the proximity penalty applies", func() {
				So(res.Score, ShouldEqual, 85)
				So(res.Flags, ShouldResemble, []fit.Flag{fit.FlagProximityConflict})
			})
		})

		Convey("When debug is requested", func() {
			res, err := scorer.Score(context.Background(), fit.Input{
				Fixture:    model.Fixture{ID: "fx-new", Date: saturday, Kickoff: "14:00", VenueID: "venue-1"},
				OfficialID: "off-1",
				Debug:      true,
			}, fit.NewCache())

			Convey("Then the trace explains the verdict", func() {
				So(err, ShouldBeNil)
				So(res.Trace, ShouldNotBeNil)
				So(res.Trace.Hard, ShouldBeTrue)
				So(res.Trace.OverlapFixtureIDs, ShouldResemble, []string{"fx-held"})
			})
		})
	})
}

func TestScoreGrade(t *testing.T) {
	Convey("Given a division that requires grade B", t, func() {
		store := repository.NewMemStore()
		store.PutOfficial(model.Official{ID: "off-d", Grade: model.GradeD})
		store.PutOfficial(model.Official{ID: "off-b", Grade: model.GradeB})
		store.PutOfficial(model.Official{ID: "off-x"})
		scorer := newScorer(store, fit.WithPolicy(model.DivisionGradePolicy{"first": model.GradeB}))
		f := model.Fixture{ID: "fx-1", Date: date(2024, 6, 1), Kickoff: "14:00", Division: "first"}

		Convey("Then a grade D official loses the below-grade penalty", func() {
			res := score(scorer, f, "off-d")
			So(res.Score, ShouldEqual, 60)
			So(res.HasFlag(fit.FlagBelowGrade), ShouldBeTrue)
		})

		Convey("Then meeting the bar exactly costs nothing", func() {
			res := score(scorer, f, "off-b")
			So(res.Score, ShouldEqual, 100)
		})

		Convey("Then an unknown grade is never penalized", func() {
			res := score(scorer, f, "off-x")
			So(res.Score, ShouldEqual, 100)
		})

		Convey("Then a grade supplied by the caller bypasses the store", func() {
			res, err := scorer.Score(context.Background(), fit.Input{
				Fixture:    f,
				OfficialID: "off-unknown",
				Grade:      model.GradeC,
			}, fit.NewCache())
			So(err, ShouldBeNil)
			So(res.Score, ShouldEqual, 60)
			So(res.HasFlag(fit.FlagBelowGrade), ShouldBeTrue)
		})
	})
}

func TestScoreClubTies(t *testing.T) {
	Convey("Given officials with club affiliations", t, func() {
		store := repository.NewMemStore()
		store.PutClub(model.Club{ID: "club-ash", LegacyKey: 101})
		store.PutClub(model.Club{ID: "club-bre", LegacyKey: 102})
		store.PutOfficial(model.Official{ID: "off-1", Grade: model.GradeA, ClubRef: "club-ash"})
		store.PutOfficial(model.Official{ID: "off-2", Grade: model.GradeA, ClubRef: "102"})
		store.PutOfficial(model.Official{ID: "off-3", Grade: model.GradeA, ClubRef: "club-gone"})
		scorer := newScorer(store)
		f := model.Fixture{
			ID:         "fx-1",
			Date:       date(2024, 6, 1),
			Kickoff:    "14:00",
			HomeClubID: "club-ash",
			AwayClubID: "club-bre",
		}

		Convey("Then a direct club reference to a competing club is penalized", func() {
			res := score(scorer, f, "off-1")
			So(res.Score, ShouldEqual, 75)
			So(res.Flags, ShouldResemble, []fit.Flag{fit.FlagOwnClub})
		})

		Convey("Then a legacy numeric reference resolves to the same penalty", func() {
			res := score(scorer, f, "off-2")
			So(res.Score, ShouldEqual, 75)
			So(res.HasFlag(fit.FlagOwnClub), ShouldBeTrue)
		})

		Convey("Then an unresolvable reference costs nothing", func() {
			res := score(scorer, f, "off-3")
			So(res.Score, ShouldEqual, 100)
		})
	})
}

func TestScoreRecentTeam(t *testing.T) {
	Convey("Given an official who refereed one of the clubs recently", t, func() {
		store := repository.NewMemStore()
		store.PutOfficial(model.Official{ID: "off-1", Grade: model.GradeA})
		target := date(2024, 6, 15)
		store.PutFixture(model.Fixture{
			ID:         "fx-past",
			Date:       target.AddDate(0, 0, -5),
			Kickoff:    "14:00",
			HomeClubID: "club-ash",
			AwayClubID: "club-dun",
			Referee:    "off-1",
		})
		f := model.Fixture{
			ID:         "fx-new",
			Date:       target,
			Kickoff:    "14:00",
			HomeClubID: "club-ash",
			AwayClubID: "club-bre",
		}

		Convey("Then the recent-team penalty applies within the lookback", func() {
			res := score(newScorer(store), f, "off-1")
			So(res.Score, ShouldEqual, 90)
			So(res.Flags, ShouldResemble, []fit.Flag{fit.FlagRecentTeam})
		})

		Convey("Then a shorter lookback forgets the encounter", func() {
			res := score(newScorer(store, fit.WithLookbackDays(3)), f, "off-1")
			So(res.Score, ShouldEqual, 100)
		})

		Convey("Then disabling the check skips it entirely", func() {
			res := score(newScorer(store, fit.WithRecentTeam(false)), f, "off-1")
			So(res.Score, ShouldEqual, 100)
		})
	})
}

func TestScoreUnavailableAndClamping(t *testing.T) {
	Convey("Given an official blocked by an ad-hoc range", t, func() {
		store := repository.NewMemStore()
		store.PutOfficial(model.Official{ID: "off-1", Grade: model.GradeA})
		store.AddUnavailability(model.AdHocUnavailability{
			OfficialID: "off-1",
			From:       date(2024, 7, 5),
			To:         date(2024, 7, 7),
		})
		scorer := newScorer(store)

		Convey("Then a fixture inside the range carries the unavailable penalty", func() {
			res := score(scorer, model.Fixture{ID: "fx-1", Date: date(2024, 7, 6), Kickoff: "14:00"}, "off-1")
			So(res.Score, ShouldEqual, 50)
			So(res.Flags, ShouldResemble, []fit.Flag{fit.FlagUnavailable})
		})

		Convey("When a hard conflict stacks on top", func() {
			store.PutFixture(model.Fixture{
				ID:      "fx-held",
				Date:    date(2024, 7, 6),
				Kickoff: "14:30",
				Referee: "off-1",
			})
			res := score(scorer, model.Fixture{ID: "fx-new", Date: date(2024, 7, 6), Kickoff: "14:00"}, "off-1")

			Convey("Then the score clamps at zero and keeps every flag", func() {
				So(res.Score, ShouldEqual, 0)
				So(res.HasFlag(fit.FlagHardConflict), ShouldBeTrue)
				So(res.HasFlag(fit.FlagUnavailable), ShouldBeTrue)
			})
		})
	})
}

func TestCustomPenalties(t *testing.T) {
	Convey("Given a custom penalty table", t, func() {
		store := repository.NewMemStore()
		store.PutOfficial(model.Official{ID: "off-1", Grade: model.GradeD})
		p := fit.DefaultPenalties()
		p.BelowGrade = 5
		scorer := newScorer(store,
			fit.WithPenalties(p),
			fit.WithPolicy(model.DivisionGradePolicy{"premier": model.GradeA}),
		)

		res := score(scorer, model.Fixture{ID: "fx-1", Date: date(2024, 6, 1), Kickoff: "14:00", Division: "premier"}, "off-1")

		Convey("Then the injected table drives the deduction", func() {
			So(res.Score, ShouldEqual, 95)
			So(res.HasFlag(fit.FlagBelowGrade), ShouldBeTrue)
		})
	})
}
