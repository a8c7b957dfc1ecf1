package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/matchweek/refassign/internal/domain/model"
	"github.com/matchweek/refassign/pkg/metrics"
)

// GormStore implements Store against the relational schema maintained by the
// surrounding CRUD system. All access is read-only.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore opens a Postgres-backed store from a DSN.
func NewGormStore(dsn string) (*GormStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQuery, err)
	}
	return &GormStore{db: db}, nil
}

// fixtureRow mirrors the fixtures table.
type fixtureRow struct {
	ID             string     `gorm:"column:fixture_id;primaryKey"`
	Date           *time.Time `gorm:"column:fixture_date"`
	Kickoff        string     `gorm:"column:kickoff_time"`
	Division       string     `gorm:"column:division"`
	ExpectedGrade  string     `gorm:"column:expected_grade"`
	VenueID        string     `gorm:"column:venue_id"`
	VenueAddress   string     `gorm:"column:venue_address"`
	HomeClubID     string     `gorm:"column:home_club_id"`
	AwayClubID     string     `gorm:"column:away_club_id"`
	RefereeID      string     `gorm:"column:referee_id"`
	Assistant1ID   string     `gorm:"column:assistant1_id"`
	Assistant2ID   string     `gorm:"column:assistant2_id"`
	CommissionerID string     `gorm:"column:commissioner_id"`
	UpdatedAt      time.Time  `gorm:"column:updated_at"`
}

func (fixtureRow) TableName() string { return "fixtures" }

func (r *fixtureRow) toModel() model.Fixture {
	f := model.Fixture{
		ID:            r.ID,
		Kickoff:       r.Kickoff,
		Division:      r.Division,
		ExpectedGrade: model.ParseGrade(r.ExpectedGrade),
		VenueID:       r.VenueID,
		VenueAddress:  r.VenueAddress,
		HomeClubID:    r.HomeClubID,
		AwayClubID:    r.AwayClubID,
		Referee:       r.RefereeID,
		Assistant1:    r.Assistant1ID,
		Assistant2:    r.Assistant2ID,
		Commissioner:  r.CommissionerID,
		UpdatedAt:     r.UpdatedAt,
	}
	if r.Date != nil {
		d := *r.Date
		f.Date = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	}
	return f
}

// officialRow mirrors the officials table.
type officialRow struct {
	ID                 string `gorm:"column:official_id;primaryKey"`
	Grade              string `gorm:"column:grade"`
	ClubRef            string `gorm:"column:club_ref"`
	MaxWeekendFixtures int    `gorm:"column:max_weekend_fixtures"`
	MaxWeekendDays     int    `gorm:"column:max_weekend_days"`
}

func (officialRow) TableName() string { return "officials" }

func (r *officialRow) toModel() model.Official {
	return model.Official{
		ID:                 r.ID,
		Grade:              model.ParseGrade(r.Grade),
		ClubRef:            r.ClubRef,
		MaxWeekendFixtures: r.MaxWeekendFixtures,
		MaxWeekendDays:     r.MaxWeekendDays,
	}
}

// unavailabilityRow mirrors the ad_hoc_unavailabilities table.
type unavailabilityRow struct {
	ID         int64     `gorm:"column:id;primaryKey"`
	OfficialID string    `gorm:"column:official_id"`
	FromDate   time.Time `gorm:"column:from_date"`
	ToDate     time.Time `gorm:"column:to_date"`
	Reason     string    `gorm:"column:reason"`
}

func (unavailabilityRow) TableName() string { return "ad_hoc_unavailabilities" }

// weeklyAvailabilityRow mirrors the weekly_availabilities table.
type weeklyAvailabilityRow struct {
	OfficialID string `gorm:"column:official_id;primaryKey"`
	Weekday    int    `gorm:"column:weekday;primaryKey"`
	Morning    bool   `gorm:"column:morning"`
	Afternoon  bool   `gorm:"column:afternoon"`
	Evening    bool   `gorm:"column:evening"`
}

func (weeklyAvailabilityRow) TableName() string { return "weekly_availabilities" }

// clubRow mirrors the clubs table.
type clubRow struct {
	ID        string `gorm:"column:club_id;primaryKey"`
	LegacyKey int64  `gorm:"column:legacy_key"`
	Name      string `gorm:"column:club_name"`
}

func (clubRow) TableName() string { return "clubs" }

func observeQuery(start time.Time) {
	metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
}

// Fixture implements FixtureStore.
func (s *GormStore) Fixture(ctx context.Context, id string) (model.Fixture, error) {
	defer observeQuery(time.Now())
	var row fixtureRow
	err := s.db.WithContext(ctx).Where("fixture_id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Fixture{}, ErrNotFound
	}
	if err != nil {
		return model.Fixture{}, fmt.Errorf("%w: %w", ErrQuery, err)
	}
	return row.toModel(), nil
}

// FixturesBetween implements FixtureStore.
func (s *GormStore) FixturesBetween(ctx context.Context, from, to time.Time) ([]model.Fixture, error) {
	defer observeQuery(time.Now())
	var rows []fixtureRow
	err := s.db.WithContext(ctx).
		Where("fixture_date >= ? AND fixture_date <= ?", dateOnly(from), dateOnly(to)).
		Order("fixture_date, kickoff_time, fixture_id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQuery, err)
	}
	return toFixtures(rows), nil
}

// FixturesForOfficialBetween implements FixtureStore.
func (s *GormStore) FixturesForOfficialBetween(ctx context.Context, officialID string, from, to time.Time) ([]model.Fixture, error) {
	defer observeQuery(time.Now())
	var rows []fixtureRow
	err := s.db.WithContext(ctx).
		Where("fixture_date >= ? AND fixture_date <= ?", dateOnly(from), dateOnly(to)).
		Where("referee_id = ? OR assistant1_id = ? OR assistant2_id = ? OR commissioner_id = ?",
			officialID, officialID, officialID, officialID).
		Order("fixture_date, kickoff_time, fixture_id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQuery, err)
	}
	return toFixtures(rows), nil
}

// Official implements OfficialStore.
func (s *GormStore) Official(ctx context.Context, id string) (model.Official, error) {
	defer observeQuery(time.Now())
	var row officialRow
	err := s.db.WithContext(ctx).Where("official_id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Official{}, ErrNotFound
	}
	if err != nil {
		return model.Official{}, fmt.Errorf("%w: %w", ErrQuery, err)
	}
	return row.toModel(), nil
}

// Officials implements OfficialStore.
func (s *GormStore) Officials(ctx context.Context) ([]model.Official, error) {
	defer observeQuery(time.Now())
	var rows []officialRow
	if err := s.db.WithContext(ctx).Order("official_id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQuery, err)
	}
	out := make([]model.Official, len(rows))
	for i := range rows {
		out[i] = rows[i].toModel()
	}
	return out, nil
}

// Unavailabilities implements AvailabilityStore.
func (s *GormStore) Unavailabilities(ctx context.Context, officialID string) ([]model.AdHocUnavailability, error) {
	defer observeQuery(time.Now())
	var rows []unavailabilityRow
	err := s.db.WithContext(ctx).Where("official_id = ?", officialID).Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQuery, err)
	}
	out := make([]model.AdHocUnavailability, len(rows))
	for i, r := range rows {
		out[i] = model.AdHocUnavailability{
			OfficialID: r.OfficialID,
			From:       r.FromDate,
			To:         r.ToDate,
			Reason:     r.Reason,
		}
	}
	return out, nil
}

// WeeklyAvailability implements AvailabilityStore.
func (s *GormStore) WeeklyAvailability(ctx context.Context, officialID string, weekday time.Weekday) (model.WeeklyAvailability, bool, error) {
	defer observeQuery(time.Now())
	var row weeklyAvailabilityRow
	err := s.db.WithContext(ctx).
		Where("official_id = ? AND weekday = ?", officialID, int(weekday)).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.WeeklyAvailability{}, false, nil
	}
	if err != nil {
		return model.WeeklyAvailability{}, false, fmt.Errorf("%w: %w", ErrQuery, err)
	}
	return model.WeeklyAvailability{
		OfficialID: row.OfficialID,
		Weekday:    time.Weekday(row.Weekday),
		Morning:    row.Morning,
		Afternoon:  row.Afternoon,
		Evening:    row.Evening,
	}, true, nil
}

// ResolveClub implements ClubStore: id match first, legacy numeric key second.
func (s *GormStore) ResolveClub(ctx context.Context, ref string) (string, error) {
	if ref == "" {
		return "", ErrNotFound
	}
	defer observeQuery(time.Now())

	var row clubRow
	err := s.db.WithContext(ctx).Where("club_id = ?", ref).First(&row).Error
	if err == nil {
		return row.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("%w: %w", ErrQuery, err)
	}

	key, convErr := strconv.ParseInt(ref, 10, 64)
	if convErr != nil {
		return "", ErrNotFound
	}
	err = s.db.WithContext(ctx).Where("legacy_key = ?", key).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrQuery, err)
	}
	return row.ID, nil
}

func toFixtures(rows []fixtureRow) []model.Fixture {
	out := make([]model.Fixture, len(rows))
	for i := range rows {
		out[i] = rows[i].toModel()
	}
	return out
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
