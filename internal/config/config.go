// Package config defines service configuration structures and loading hooks.
//
// Conventions follow the rest of the service:
// - defaults come from New, file and env layers override them in Load
// - keys are flat snake_case to keep env mapping trivial
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// PostgresDSN points at the backing store. Empty selects the in-memory
	// store, which is only useful for demos and tests.
	PostgresDSN string `koanf:"postgres_dsn"`

	// Penalty points subtracted from the 100-point base fit score.
	PenaltyHardConflict      int `koanf:"penalty_hard_conflict"`
	PenaltySoftConflict      int `koanf:"penalty_soft_conflict"`
	PenaltyProximityConflict int `koanf:"penalty_proximity_conflict"`
	PenaltyBelowGrade        int `koanf:"penalty_below_grade"`
	PenaltyRecentTeam        int `koanf:"penalty_recent_team"`
	PenaltyOwnClub           int `koanf:"penalty_own_club"`
	PenaltyUnavailable       int `koanf:"penalty_unavailable"`

	// ProximityWindowDays is the +/- day range that triggers a proximity
	// conflict for fixtures on different dates.
	ProximityWindowDays int `koanf:"proximity_window_days"`

	// FixtureDurationMinutes is the occupied window used for overlap math.
	FixtureDurationMinutes int `koanf:"fixture_duration_minutes"`

	// RecentTeamLookbackDays bounds the recent-opponent check.
	RecentTeamLookbackDays int `koanf:"recent_team_lookback_days"`

	// RecentTeamEnabled toggles the recent_team penalty on the scoring path.
	RecentTeamEnabled bool `koanf:"recent_team_enabled"`

	// Per-official weekend caps applied when an official has none configured.
	DefaultMaxWeekendFixtures int `koanf:"default_max_weekend_fixtures"`
	DefaultMaxWeekendDays     int `koanf:"default_max_weekend_days"`

	// DefaultWeekendCount is how many upcoming Friday-Sunday windows a
	// suggestion run covers when no explicit range is given.
	DefaultWeekendCount int `koanf:"default_weekend_count"`

	// MaxWeekendCount caps the windows a single run may stream.
	MaxWeekendCount int `koanf:"max_weekend_count"`

	// SuggestRole is the role slot the batch suggester proposes for:
	// referee, assistant_1, assistant_2 or commissioner.
	SuggestRole string `koanf:"suggest_role"`

	// DivisionGrades maps division names to the minimum acceptable grade.
	// Divisions absent from the map fall back to the lowest grade.
	DivisionGrades map[string]string `koanf:"division_grades"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:    "info",
		Addr:        ":8090",
		PostgresDSN: "",

		PenaltyHardConflict:      100,
		PenaltySoftConflict:      30,
		PenaltyProximityConflict: 15,
		PenaltyBelowGrade:        40,
		PenaltyRecentTeam:        10,
		PenaltyOwnClub:           25,
		PenaltyUnavailable:       50,

		ProximityWindowDays:    2,
		FixtureDurationMinutes: 90,
		RecentTeamLookbackDays: 14,
		RecentTeamEnabled:      true,

		DefaultMaxWeekendFixtures: 3,
		DefaultMaxWeekendDays:     2,
		DefaultWeekendCount:       4,
		MaxWeekendCount:           26,

		SuggestRole: "referee",

		DivisionGrades: map[string]string{
			"premier":  "A",
			"first":    "B",
			"second":   "C",
			"reserves": "D",
		},
	}
}
