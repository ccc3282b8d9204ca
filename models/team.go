package models

import "time"

type TeamStatus string

const (
	TeamStatusPending  TeamStatus = "pending"
	TeamStatusApproved TeamStatus = "approved"
	TeamStatusRejected TeamStatus = "rejected"
)

// Team is read-only for this engine; registration and approval live in the
// admin workflow. Seed reflects registration order and is the tie-break for
// all pairing enumeration. LegacyGroupLabel is the free-text zone name
// ("Zona C") written by the old admin screens before groups got their own
// table; GroupID is the explicit link.
type Team struct {
	ID               int        `json:"id" db:"id"`
	TournamentID     int        `json:"tournament_id" db:"tournament_id"`
	Name             string     `json:"name" db:"name"`
	GroupID          *int       `json:"group_id,omitempty" db:"group_id"`
	LegacyGroupLabel *string    `json:"legacy_group_label,omitempty" db:"legacy_group_label"`
	Status           TeamStatus `json:"status" db:"status"`
	Seed             int        `json:"seed" db:"seed"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
}
