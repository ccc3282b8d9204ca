package live

import (
	"fmt"

	"github.com/matchdayhq/fixture-engine/models"
)

// Event is an operator-triggered lifecycle action on a single match.
type Event string

const (
	EventStart       Event = "start"
	EventPause       Event = "pause"
	EventResume      Event = "resume"
	EventEndPeriod   Event = "end_period"
	EventGoldenPoint Event = "golden_point"
	EventFinish      Event = "finish"
	EventCancel      Event = "cancel"
)

// Rules is the timing configuration a match runs under, taken from its
// tournament.
type Rules struct {
	PeriodDurationSeconds int
	TotalPeriods          int
}

func (r Rules) valid() bool {
	return r.PeriodDurationSeconds > 0 && r.TotalPeriods > 0
}

// TransitionError reports an event the state machine rejected. Guarded is
// true when the event exists for the current status but its guard is not
// satisfied yet ("not yet allowed"), false when the event makes no sense
// in the current status at all.
type TransitionError struct {
	Status  models.MatchStatus
	Event   Event
	Guarded bool
	Reason  string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("match transition %q rejected in status %q: %s", e.Event, e.Status, e.Reason)
}

func rejected(m *models.Match, ev Event, reason string) error {
	return &TransitionError{Status: m.Status, Event: ev, Guarded: true, Reason: reason}
}

func invalid(m *models.Match, ev Event) error {
	return &TransitionError{Status: m.Status, Event: ev, Reason: "event not applicable in this status"}
}

// Apply runs one lifecycle event against the match, mutating its
// lifecycle fields in place. It performs no I/O; persistence and clock
// management belong to the caller.
//
// The tie-break rule is the one part worth spelling out: when the last
// regulation period reaches zero on a tied score, neither end-period nor
// finish is permitted. The match stays live until the operator enables
// golden point, and finish only becomes available once the score is no
// longer tied. A regulation-tied match can never silently end.
func Apply(m *models.Match, rules Rules, ev Event) error {
	switch ev {
	case EventStart:
		if m.Status != models.StatusPending {
			return invalid(m, ev)
		}
		if !rules.valid() {
			return rejected(m, ev, "tournament has no period duration or period count configured")
		}
		if m.TeamAID == nil || m.TeamBID == nil {
			return rejected(m, ev, "both team slots must be assigned")
		}
		m.Status = models.StatusLive
		m.CurrentPeriod = 1
		m.TimeRemaining = rules.PeriodDurationSeconds
		return nil

	case EventPause:
		if m.Status != models.StatusLive {
			return invalid(m, ev)
		}
		m.Status = models.StatusHalftime
		return nil

	case EventResume:
		if m.Status != models.StatusHalftime {
			return invalid(m, ev)
		}
		m.Status = models.StatusLive
		return nil

	case EventEndPeriod:
		if m.Status != models.StatusLive {
			return invalid(m, ev)
		}
		if m.TimeRemaining > 0 {
			return rejected(m, ev, "period clock has not reached zero")
		}
		if m.GoldenPoint {
			return rejected(m, ev, "golden point does not advance periods")
		}
		if isLastPeriod(m, rules) {
			return rejected(m, ev, "last period ends the match, not the period")
		}
		m.CurrentPeriod++
		m.TimeRemaining = rules.PeriodDurationSeconds
		return nil

	case EventGoldenPoint:
		if m.Status != models.StatusLive {
			return invalid(m, ev)
		}
		if m.GoldenPoint {
			return rejected(m, ev, "golden point already active")
		}
		if !isLastPeriod(m, rules) || m.TimeRemaining > 0 {
			return rejected(m, ev, "golden point only starts after the last regulation period expires")
		}
		if !isTied(m) {
			return rejected(m, ev, "score is not tied")
		}
		m.GoldenPoint = true
		m.TimeRemaining = rules.PeriodDurationSeconds
		return nil

	case EventFinish:
		if m.Status != models.StatusLive {
			return invalid(m, ev)
		}
		if !isLastPeriod(m, rules) {
			return rejected(m, ev, "regulation periods remain")
		}
		if isTied(m) {
			if m.GoldenPoint {
				return rejected(m, ev, "golden point is still unresolved")
			}
			return rejected(m, ev, "tied score requires golden point")
		}
		// Golden point is sudden death: the first goal decides, so the
		// clock requirement is lifted once the mode is active.
		if !m.GoldenPoint && m.TimeRemaining > 0 {
			return rejected(m, ev, "period clock has not reached zero")
		}
		m.Status = models.StatusFinished
		if m.ScoreA > m.ScoreB {
			m.WinnerID = m.TeamAID
		} else {
			m.WinnerID = m.TeamBID
		}
		return nil

	case EventCancel:
		switch m.Status {
		case models.StatusPending, models.StatusLive, models.StatusHalftime:
			m.Status = models.StatusCanceled
			return nil
		default:
			return invalid(m, ev)
		}

	default:
		return invalid(m, ev)
	}
}

func isLastPeriod(m *models.Match, rules Rules) bool {
	return m.CurrentPeriod == rules.TotalPeriods
}

func isTied(m *models.Match) bool {
	return m.ScoreA == m.ScoreB
}
