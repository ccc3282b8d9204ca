package models

import "time"

type MatchStatus string

const (
	// StatusPending is a playable match that has not started yet.
	// StatusSlot marks a bracket slot whose teams are not known yet.
	StatusPending  MatchStatus = "pending"
	StatusSlot     MatchStatus = "scheduled"
	StatusLive     MatchStatus = "live"
	StatusHalftime MatchStatus = "halftime"
	StatusFinished MatchStatus = "finished"
	StatusCanceled MatchStatus = "cancelled"
)

type MatchPhase string

const (
	PhaseGroups  MatchPhase = "groups"
	PhasePlayoff MatchPhase = "playoff"
	PhaseNone    MatchPhase = ""
)

// Round labels used by the fixture builders.
const (
	RoundFinal      = "final"
	RoundSemifinal  = "semifinal"
	RoundThirdPlace = "third_place"
	RoundRobinLabel = "round_robin"
)

// Match is a single fixture entry. TeamAID/TeamBID are nil for bracket
// slots that get filled by advancement once earlier results are known,
// and TeamBID alone is nil for a bye.
type Match struct {
	ID           int         `json:"id" db:"id"`
	TournamentID int         `json:"tournament_id" db:"tournament_id"`
	Phase        MatchPhase  `json:"phase" db:"phase"`
	Round        string      `json:"round" db:"round"`
	GroupID      *int        `json:"group_id,omitempty" db:"group_id"`
	TeamAID      *int        `json:"team_a_id,omitempty" db:"team_a_id"`
	TeamBID      *int        `json:"team_b_id,omitempty" db:"team_b_id"`
	MatchNumber  int         `json:"match_number" db:"match_number"`
	Status       MatchStatus `json:"status" db:"status"`

	CurrentPeriod int  `json:"current_period" db:"current_period"`
	TimeRemaining int  `json:"time_remaining" db:"time_remaining"`
	GoldenPoint   bool `json:"golden_point" db:"golden_point"`
	ScoreA        int  `json:"team_a_score" db:"team_a_score"`
	ScoreB        int  `json:"team_b_score" db:"team_b_score"`
	FoulsA        int  `json:"fouls_a" db:"fouls_a"`
	FoulsB        int  `json:"fouls_b" db:"fouls_b"`
	WinnerID      *int `json:"winner_id,omitempty" db:"winner_id"`

	ScheduledAt *time.Time `json:"scheduled_at,omitempty" db:"scheduled_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`

	TeamA *Team `json:"team_a,omitempty" db:"-"`
	TeamB *Team `json:"team_b,omitempty" db:"-"`
}

// IsSlot reports whether the match is an unassigned bracket slot.
func (m *Match) IsSlot() bool {
	return m.TeamAID == nil && m.TeamBID == nil
}

// IsBye reports whether the match gives team A an unopposed advancement.
func (m *Match) IsBye() bool {
	return m.TeamAID != nil && m.TeamBID == nil
}
