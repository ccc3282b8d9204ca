package services

import "errors"

// Shared sentinel errors surfaced to the operator and mapped to HTTP
// statuses in the handlers layer.
var (
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrMatchNotFound      = errors.New("match not found")
	ErrGroupNotFound      = errors.New("group not found")

	// Configuration errors: fatal, nothing persisted.
	ErrNoGroupsConfigured = errors.New("no groups configured for grouped format")
	ErrNoSchedulableTeams = errors.New("no teams available to schedule")
	ErrNotEnoughTeams     = errors.New("not enough approved teams for the chosen format")

	// Persistence-phase failure: the fixture replace transaction failed.
	// Distinct from configuration errors because it is an operational
	// incident, not operator input.
	ErrFixturePersistFailed = errors.New("failed to persist regenerated fixture")

	// Advancement guards.
	ErrGroupStageNotFinished = errors.New("group stage is not finished yet")
	ErrPlayoffSlotsMissing   = errors.New("fixture has no playoff slots to fill")
	ErrNotSided              = errors.New("team does not play in this match")
)
