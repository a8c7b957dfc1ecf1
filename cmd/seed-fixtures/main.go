// Command seed-fixtures builds a deterministic demo dataset in the
// in-memory store, runs a weekend suggestion pass over it and prints the
// streamed proposals as NDJSON. Useful for eyeballing the suggester
// without a database.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/matchweek/refassign/internal/adapters/repository"
	"github.com/matchweek/refassign/internal/domain/availability"
	"github.com/matchweek/refassign/internal/domain/model"
	"github.com/matchweek/refassign/internal/domain/suggest"
)

func main() {
	weekends := flag.Int("weekends", 2, "number of upcoming weekends to cover")
	start := flag.String("start", "2024-06-07", "first Friday of the seeded range (YYYY-MM-DD)")
	flag.Parse()

	firstFriday, err := time.Parse("2006-01-02", *start)
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid -start:", err)
		os.Exit(1)
	}
	if firstFriday.Weekday() != time.Friday {
		fmt.Fprintln(os.Stderr, "-start must fall on a Friday")
		os.Exit(1)
	}

	store := seed(firstFriday, *weekends)

	resolver := availability.NewResolver(store)
	suggester := suggest.New(store, store, resolver,
		suggest.WithPolicy(model.DivisionGradePolicy{
			"premier": model.GradeA,
			"first":   model.GradeB,
			"second":  model.GradeC,
		}),
		suggest.WithClock(func() time.Time { return firstFriday }),
		suggest.WithWeekendCount(*weekends),
	)

	enc := json.NewEncoder(os.Stdout)
	for event := range suggester.Run(context.Background(), time.Time{}, time.Time{}) {
		switch {
		case event.Err != nil:
			fmt.Fprintln(os.Stderr, "run failed:", event.Err)
			os.Exit(1)
		case event.Window != nil:
			_ = enc.Encode(event.Window)
		case event.Summary != nil:
			_ = enc.Encode(event.Summary)
		}
	}
}

// seed fills a MemStore with a small league: four clubs, six officials of
// mixed grades and a handful of fixtures per weekend, some pre-assigned.
func seed(firstFriday time.Time, weekends int) *repository.MemStore {
	store := repository.NewMemStore()

	clubs := []model.Club{
		{ID: "club-ash", LegacyKey: 101, Name: "Ashford Rovers"},
		{ID: "club-bre", LegacyKey: 102, Name: "Brentwood United"},
		{ID: "club-cla", LegacyKey: 103, Name: "Clayton Athletic"},
		{ID: "club-dun", LegacyKey: 104, Name: "Dunmore Town"},
	}
	for _, c := range clubs {
		store.PutClub(c)
	}

	officials := []model.Official{
		{ID: "off-alvarez", Grade: model.GradeA, ClubRef: "club-ash"},
		{ID: "off-barnes", Grade: model.GradeB},
		{ID: "off-chen", Grade: model.GradeB, ClubRef: "103"},
		{ID: "off-dietrich", Grade: model.GradeC, MaxWeekendFixtures: 1},
		{ID: "off-evans", Grade: model.GradeC},
		{ID: "off-fromm", Grade: model.GradeD},
	}
	for _, o := range officials {
		store.PutOfficial(o)
	}

	// off-evans never works Sunday mornings.
	store.SetWeeklyAvailability(model.WeeklyAvailability{
		OfficialID: "off-evans",
		Weekday:    time.Sunday,
		Morning:    false,
		Afternoon:  true,
		Evening:    true,
	})

	divisions := []string{"premier", "first", "second"}
	kickoffs := []string{"11:00", "14:00", "16:30"}

	n := 0
	for wk := 0; wk < weekends; wk++ {
		friday := firstFriday.AddDate(0, 0, 7*wk)
		for day := 0; day < 3; day++ {
			date := friday.AddDate(0, 0, day)
			for i, division := range divisions {
				n++
				f := model.Fixture{
					ID:           fmt.Sprintf("fx-%03d", n),
					Date:         time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC),
					Kickoff:      kickoffs[i],
					Division:     division,
					VenueID:      fmt.Sprintf("venue-%d", i+1),
					HomeClubID:   clubs[(n+i)%len(clubs)].ID,
					AwayClubID:   clubs[(n+i+1)%len(clubs)].ID,
					UpdatedAt:    time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
				}
				// Pre-assign every third fixture so seeded counters matter.
				if n%3 == 0 {
					f.Referee = "off-barnes"
				}
				store.PutFixture(f)
			}
		}
	}

	return store
}
