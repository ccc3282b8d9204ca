package models

import "time"

type TournamentFormat string

const (
	FormatGroupsPlayoff     TournamentFormat = "groups_playoff"
	FormatRoundRobin        TournamentFormat = "round_robin"
	FormatSingleElimination TournamentFormat = "single_elimination"
)

type TournamentStatus string

const (
	TournamentStatusDraft     TournamentStatus = "draft"
	TournamentStatusActive    TournamentStatus = "active"
	TournamentStatusCompleted TournamentStatus = "completed"
)

type Tournament struct {
	ID                    int              `json:"id" db:"id"`
	Name                  string           `json:"name" db:"name"`
	Format                TournamentFormat `json:"format" db:"format"`
	TeamsAdvancePerGroup  int              `json:"teams_advance_per_group" db:"teams_advance_per_group"`
	ThirdPlaceMatch       bool             `json:"third_place_match" db:"third_place_match"`
	PeriodDurationSeconds int              `json:"period_duration_seconds" db:"period_duration_seconds"`
	TotalPeriods          int              `json:"total_periods" db:"total_periods"`
	Status                TournamentStatus `json:"status" db:"status"`
	StartDate             time.Time        `json:"start_date" db:"start_date"`
	CreatedAt             time.Time        `json:"created_at" db:"created_at"`

	Groups  []Group `json:"groups,omitempty" db:"-"`
	Teams   []Team  `json:"teams,omitempty" db:"-"`
	Matches []Match `json:"matches,omitempty" db:"-"`
}

// HasPeriodConfig reports whether the tournament carries the timing
// configuration a match needs before it can go live.
func (t *Tournament) HasPeriodConfig() bool {
	return t.PeriodDurationSeconds > 0 && t.TotalPeriods > 0
}
