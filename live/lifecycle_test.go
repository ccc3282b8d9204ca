package live

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matchdayhq/fixture-engine/models"
)

var testRules = Rules{PeriodDurationSeconds: 1200, TotalPeriods: 2}

func sidedMatch(status models.MatchStatus) *models.Match {
	a, b := 10, 20
	return &models.Match{ID: 1, Status: status, TeamAID: &a, TeamBID: &b}
}

func liveMatch(period, remaining int) *models.Match {
	m := sidedMatch(models.StatusLive)
	m.CurrentPeriod = period
	m.TimeRemaining = remaining
	return m
}

func requireGuarded(t *testing.T, err error, guarded bool) {
	t.Helper()
	var terr *TransitionError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, guarded, terr.Guarded)
}

func TestApplyStart(t *testing.T) {
	m := sidedMatch(models.StatusPending)
	require.NoError(t, Apply(m, testRules, EventStart))

	assert.Equal(t, models.StatusLive, m.Status)
	assert.Equal(t, 1, m.CurrentPeriod)
	assert.Equal(t, testRules.PeriodDurationSeconds, m.TimeRemaining)
}

func TestApplyStartRejectsUnassignedSlot(t *testing.T) {
	m := &models.Match{ID: 1, Status: models.StatusPending}
	requireGuarded(t, Apply(m, testRules, EventStart), true)
	assert.Equal(t, models.StatusPending, m.Status)
}

func TestApplyStartRejectsMissingRules(t *testing.T) {
	m := sidedMatch(models.StatusPending)
	requireGuarded(t, Apply(m, Rules{}, EventStart), true)
}

func TestApplyStartInvalidFromNonPending(t *testing.T) {
	for _, status := range []models.MatchStatus{
		models.StatusLive, models.StatusHalftime, models.StatusFinished, models.StatusCanceled,
	} {
		requireGuarded(t, Apply(sidedMatch(status), testRules, EventStart), false)
	}
}

func TestApplyPauseResume(t *testing.T) {
	m := liveMatch(1, 600)
	require.NoError(t, Apply(m, testRules, EventPause))
	assert.Equal(t, models.StatusHalftime, m.Status)

	require.NoError(t, Apply(m, testRules, EventResume))
	assert.Equal(t, models.StatusLive, m.Status)
	assert.Equal(t, 600, m.TimeRemaining, "clock keeps its value across a pause")
}

func TestApplyEndPeriod(t *testing.T) {
	m := liveMatch(1, 0)
	require.NoError(t, Apply(m, testRules, EventEndPeriod))
	assert.Equal(t, 2, m.CurrentPeriod)
	assert.Equal(t, testRules.PeriodDurationSeconds, m.TimeRemaining)
}

func TestApplyEndPeriodGuards(t *testing.T) {
	// Clock still running.
	requireGuarded(t, Apply(liveMatch(1, 30), testRules, EventEndPeriod), true)

	// Last period never advances, it finishes.
	requireGuarded(t, Apply(liveMatch(2, 0), testRules, EventEndPeriod), true)

	// Golden point has no period boundary.
	m := liveMatch(2, 0)
	m.GoldenPoint = true
	requireGuarded(t, Apply(m, testRules, EventEndPeriod), true)
}

func TestApplyGoldenPoint(t *testing.T) {
	m := liveMatch(2, 0)
	m.ScoreA, m.ScoreB = 3, 3
	require.NoError(t, Apply(m, testRules, EventGoldenPoint))

	assert.True(t, m.GoldenPoint)
	assert.Equal(t, models.StatusLive, m.Status)
	assert.Equal(t, testRules.PeriodDurationSeconds, m.TimeRemaining)
	assert.Equal(t, 2, m.CurrentPeriod, "golden point is not a new period")
}

func TestApplyGoldenPointGuards(t *testing.T) {
	// Not the last period.
	tied := liveMatch(1, 0)
	requireGuarded(t, Apply(tied, testRules, EventGoldenPoint), true)

	// Clock still running.
	requireGuarded(t, Apply(liveMatch(2, 15), testRules, EventGoldenPoint), true)

	// Score not tied.
	ahead := liveMatch(2, 0)
	ahead.ScoreA = 1
	requireGuarded(t, Apply(ahead, testRules, EventGoldenPoint), true)

	// Already active.
	active := liveMatch(2, 400)
	active.GoldenPoint = true
	requireGuarded(t, Apply(active, testRules, EventGoldenPoint), true)
}

func TestApplyFinishRegulation(t *testing.T) {
	m := liveMatch(2, 0)
	m.ScoreA, m.ScoreB = 2, 1
	require.NoError(t, Apply(m, testRules, EventFinish))

	assert.Equal(t, models.StatusFinished, m.Status)
	require.NotNil(t, m.WinnerID)
	assert.Equal(t, *m.TeamAID, *m.WinnerID)
}

func TestApplyFinishAfterGoldenPointGoal(t *testing.T) {
	m := liveMatch(2, 0)
	m.ScoreA, m.ScoreB = 3, 3
	require.NoError(t, Apply(m, testRules, EventGoldenPoint))

	// Sudden death: finish is allowed with time left once a side leads.
	m.ScoreB++
	require.NoError(t, Apply(m, testRules, EventFinish))
	assert.Equal(t, models.StatusFinished, m.Status)
	assert.Equal(t, *m.TeamBID, *m.WinnerID)
}

func TestApplyFinishGuards(t *testing.T) {
	// Regulation periods remain.
	first := liveMatch(1, 0)
	first.ScoreA = 1
	requireGuarded(t, Apply(first, testRules, EventFinish), true)

	// Clock still running outside golden point.
	running := liveMatch(2, 45)
	running.ScoreA = 1
	requireGuarded(t, Apply(running, testRules, EventFinish), true)

	// Tied regulation score cannot end the match.
	tied := liveMatch(2, 0)
	requireGuarded(t, Apply(tied, testRules, EventFinish), true)

	// Tied score blocks even while golden point runs.
	goldenTied := liveMatch(2, 300)
	goldenTied.GoldenPoint = true
	requireGuarded(t, Apply(goldenTied, testRules, EventFinish), true)

	// Finish is not reachable from pending at all.
	requireGuarded(t, Apply(sidedMatch(models.StatusPending), testRules, EventFinish), false)
}

// A tied last period is stuck: every forward event is rejected until the
// operator enables golden point and a goal breaks the tie.
func TestTiedLastPeriodRequiresGoldenPoint(t *testing.T) {
	m := liveMatch(2, 0)
	m.ScoreA, m.ScoreB = 1, 1

	requireGuarded(t, Apply(m, testRules, EventEndPeriod), true)
	requireGuarded(t, Apply(m, testRules, EventFinish), true)
	assert.Equal(t, models.StatusLive, m.Status)

	require.NoError(t, Apply(m, testRules, EventGoldenPoint))
	requireGuarded(t, Apply(m, testRules, EventFinish), true)

	m.ScoreA++
	require.NoError(t, Apply(m, testRules, EventFinish))
	assert.Equal(t, models.StatusFinished, m.Status)
}

func TestApplyCancel(t *testing.T) {
	for _, status := range []models.MatchStatus{
		models.StatusPending, models.StatusLive, models.StatusHalftime,
	} {
		m := sidedMatch(status)
		require.NoError(t, Apply(m, testRules, EventCancel))
		assert.Equal(t, models.StatusCanceled, m.Status)
	}

	for _, status := range []models.MatchStatus{
		models.StatusFinished, models.StatusCanceled, models.StatusSlot,
	} {
		requireGuarded(t, Apply(sidedMatch(status), testRules, EventCancel), false)
	}
}

func TestApplyUnknownEvent(t *testing.T) {
	err := Apply(liveMatch(1, 100), testRules, Event("restart"))
	var terr *TransitionError
	require.True(t, errors.As(err, &terr))
	assert.False(t, terr.Guarded)
}
