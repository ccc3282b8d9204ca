package models

type Group struct {
	ID           int    `json:"id" db:"id"`
	TournamentID int    `json:"tournament_id" db:"tournament_id"`
	Name         string `json:"name" db:"name"`
	Position     int    `json:"position" db:"position"`

	Teams []Team `json:"teams,omitempty" db:"-"`
}
