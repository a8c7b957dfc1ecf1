package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/matchweek/refassign/internal/adapters/repository"
	service "github.com/matchweek/refassign/internal/app"
	"github.com/matchweek/refassign/internal/config"
	"github.com/matchweek/refassign/internal/domain/fit"
	"github.com/matchweek/refassign/internal/domain/model"
	"github.com/matchweek/refassign/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func seededStore() *repository.MemStore {
	store := repository.NewMemStore()
	store.PutClub(model.Club{ID: "club-ash", LegacyKey: 101})
	store.PutClub(model.Club{ID: "club-bre", LegacyKey: 102})
	store.PutOfficial(model.Official{ID: "off-1", Grade: model.GradeA})
	store.PutOfficial(model.Official{ID: "off-2", Grade: model.GradeD, ClubRef: "club-ash"})
	store.PutFixture(model.Fixture{
		ID:         "fx-1",
		Date:       date(2024, 6, 8),
		Kickoff:    "14:00",
		Division:   "premier",
		HomeClubID: "club-ash",
		AwayClubID: "club-bre",
	})
	return store
}

func startService(store *repository.MemStore) *service.Service {
	_ = logger.Init()
	svc := service.New(config.New(), service.WithStore(store), service.WithLogger(logger.Get()))
	So(svc.Start(context.Background()), ShouldBeNil)
	return svc
}

func TestServiceScoreFit(t *testing.T) {
	Convey("Given a started service over a seeded store", t, func() {
		svc := startService(seededStore())
		defer svc.Stop()
		ctx := context.Background()

		Convey("Then a clean pair scores the full base", func() {
			res, err := svc.ScoreFit(ctx, "fx-1", "off-1", false)
			So(err, ShouldBeNil)
			So(res.Score, ShouldEqual, 100)
			So(res.Flags, ShouldBeEmpty)
			So(res.Trace, ShouldBeNil)
		})

		Convey("Then configured penalties stack for a poor pair", func() {
			// Grade D against premier's A plus a home-club affiliation.
			res, err := svc.ScoreFit(ctx, "fx-1", "off-2", false)
			So(err, ShouldBeNil)
			So(res.Score, ShouldEqual, 35)
			So(res.HasFlag(fit.FlagBelowGrade), ShouldBeTrue)
			So(res.HasFlag(fit.FlagOwnClub), ShouldBeTrue)
		})

		Convey("Then debug attaches the conflict trace", func() {
			res, err := svc.ScoreFit(ctx, "fx-1", "off-1", true)
			So(err, ShouldBeNil)
			So(res.Trace, ShouldNotBeNil)
		})

		Convey("Then unknown ids surface ErrNotFound", func() {
			_, err := svc.ScoreFit(ctx, "fx-ghost", "off-1", false)
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)

			_, err = svc.ScoreFit(ctx, "fx-1", "off-ghost", false)
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})
	})
}

func TestServiceSuggestAndStats(t *testing.T) {
	Convey("Given a started service over a seeded store", t, func() {
		svc := startService(seededStore())
		defer svc.Stop()
		ctx := context.Background()

		Convey("Then stats describe the in-memory store", func() {
			stats := svc.GetStats()
			So(stats["started"], ShouldBeTrue)
			So(stats["store"], ShouldEqual, "memory")
			So(stats["fixtures"], ShouldEqual, 1)
			So(stats["officials"], ShouldEqual, 2)
		})

		Convey("When a suggestion run covers the fixture's weekend", func() {
			var sawWindow, sawSummary bool
			for event := range svc.Suggest(ctx, date(2024, 6, 7), date(2024, 6, 9)) {
				So(event.Err, ShouldBeNil)
				if event.Window != nil {
					sawWindow = true
					proposal := event.Window.Proposals["fx-1"]
					So(proposal, ShouldNotBeNil)
					So(*proposal, ShouldEqual, "off-1")
				}
				if event.Summary != nil {
					sawSummary = true
				}
			}

			Convey("Then the stream carried a window and a summary", func() {
				So(sawWindow, ShouldBeTrue)
				So(sawSummary, ShouldBeTrue)
			})

			Convey("Then the run is reflected in stats", func() {
				stats := svc.GetStats()
				So(stats["lastRunWindows"], ShouldEqual, 1)
				So(stats["lastRunConsidered"], ShouldEqual, 1)
				So(stats["lastRunAssigned"], ShouldEqual, 1)
			})
		})
	})
}

func TestServiceLifecycle(t *testing.T) {
	Convey("Given a service", t, func() {
		svc := startService(seededStore())

		Convey("Then starting twice is a no-op", func() {
			So(svc.Start(context.Background()), ShouldBeNil)
		})

		Convey("Then stopping twice is safe", func() {
			svc.Stop()
			svc.Stop()
		})
	})
}
