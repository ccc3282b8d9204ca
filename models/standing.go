package models

// GroupStanding is a computed group-table row. It is never persisted;
// the advancement service derives it from finished group matches.
type GroupStanding struct {
	TournamentID    int    `json:"tournament_id"`
	GroupID         int    `json:"group_id"`
	TeamID          int    `json:"team_id"`
	TeamName        string `json:"team_name"`
	Points          int    `json:"points"`
	GamesPlayed     int    `json:"games_played"`
	Wins            int    `json:"wins"`
	Draws           int    `json:"draws"`
	Losses          int    `json:"losses"`
	ScoreFor        int    `json:"score_for"`
	ScoreAgainst    int    `json:"score_against"`
	ScoreDifference int    `json:"score_difference"`
	Rank            int    `json:"rank"`
}
