package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/matchdayhq/fixture-engine/live"
	"github.com/matchdayhq/fixture-engine/models"
	"github.com/matchdayhq/fixture-engine/repositories"
)

// MatchService drives a single match through its live lifecycle. Every
// operator action loads the match, applies the state machine, persists
// the lifecycle fields and pushes the new state into the tournament's
// websocket room. Each match is independent; concurrent scorekeeping of
// different matches needs no coordination here.
type MatchService interface {
	Get(ctx context.Context, matchID int) (*models.Match, error)

	Start(ctx context.Context, matchID int) (*models.Match, error)
	Pause(ctx context.Context, matchID int) (*models.Match, error)
	Resume(ctx context.Context, matchID int) (*models.Match, error)
	EndPeriod(ctx context.Context, matchID int) (*models.Match, error)
	EnableGoldenPoint(ctx context.Context, matchID int) (*models.Match, error)
	Finish(ctx context.Context, matchID int) (*models.Match, error)
	Cancel(ctx context.Context, matchID int) (*models.Match, error)

	RecordGoal(ctx context.Context, matchID, teamID int) (*models.Match, error)
	RecordFoul(ctx context.Context, matchID, teamID int) (*models.Match, error)

	Shutdown()
}

type matchService struct {
	matchRepo      repositories.MatchRepository
	tournamentRepo repositories.TournamentRepository
	hub            *live.Hub
	clocks         *live.ClockBank
	logger         *slog.Logger
}

func NewMatchService(
	matchRepo repositories.MatchRepository,
	tournamentRepo repositories.TournamentRepository,
	hub *live.Hub,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		matchRepo:      matchRepo,
		tournamentRepo: tournamentRepo,
		hub:            hub,
		clocks:         live.NewClockBank(),
		logger:         logger,
	}
}

func (s *matchService) Get(ctx context.Context, matchID int) (*models.Match, error) {
	return s.loadMatch(ctx, matchID)
}

func (s *matchService) Start(ctx context.Context, matchID int) (*models.Match, error) {
	match, err := s.applyEvent(ctx, matchID, live.EventStart)
	if err != nil {
		return nil, err
	}
	s.startClock(match.ID, match.TournamentID)
	return match, nil
}

func (s *matchService) Pause(ctx context.Context, matchID int) (*models.Match, error) {
	match, err := s.applyEvent(ctx, matchID, live.EventPause)
	if err != nil {
		return nil, err
	}
	s.clocks.Stop(matchID)
	return match, nil
}

func (s *matchService) Resume(ctx context.Context, matchID int) (*models.Match, error) {
	match, err := s.applyEvent(ctx, matchID, live.EventResume)
	if err != nil {
		return nil, err
	}
	s.startClock(match.ID, match.TournamentID)
	return match, nil
}

func (s *matchService) EndPeriod(ctx context.Context, matchID int) (*models.Match, error) {
	match, err := s.applyEvent(ctx, matchID, live.EventEndPeriod)
	if err != nil {
		return nil, err
	}
	s.startClock(match.ID, match.TournamentID)
	return match, nil
}

func (s *matchService) EnableGoldenPoint(ctx context.Context, matchID int) (*models.Match, error) {
	match, err := s.applyEvent(ctx, matchID, live.EventGoldenPoint)
	if err != nil {
		return nil, err
	}
	s.startClock(match.ID, match.TournamentID)
	return match, nil
}

func (s *matchService) Finish(ctx context.Context, matchID int) (*models.Match, error) {
	match, err := s.applyEvent(ctx, matchID, live.EventFinish)
	if err != nil {
		return nil, err
	}
	s.clocks.Stop(matchID)
	return match, nil
}

func (s *matchService) Cancel(ctx context.Context, matchID int) (*models.Match, error) {
	match, err := s.applyEvent(ctx, matchID, live.EventCancel)
	if err != nil {
		return nil, err
	}
	s.clocks.Stop(matchID)
	return match, nil
}

func (s *matchService) RecordGoal(ctx context.Context, matchID, teamID int) (*models.Match, error) {
	return s.recordStat(ctx, matchID, teamID, func(m *models.Match, sideA bool) {
		if sideA {
			m.ScoreA++
		} else {
			m.ScoreB++
		}
	})
}

func (s *matchService) RecordFoul(ctx context.Context, matchID, teamID int) (*models.Match, error) {
	return s.recordStat(ctx, matchID, teamID, func(m *models.Match, sideA bool) {
		if sideA {
			m.FoulsA++
		} else {
			m.FoulsB++
		}
	})
}

// Shutdown stops every running match clock.
func (s *matchService) Shutdown() {
	s.clocks.StopAll()
}

func (s *matchService) applyEvent(ctx context.Context, matchID int, ev live.Event) (*models.Match, error) {
	match, err := s.loadMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}

	rules, err := s.rulesFor(ctx, match)
	if err != nil {
		return nil, err
	}

	if err := live.Apply(match, rules, ev); err != nil {
		return nil, err
	}

	if err := s.matchRepo.UpdateLifecycle(ctx, match); err != nil {
		return nil, fmt.Errorf("failed to persist match %d after %q: %w", matchID, ev, err)
	}

	s.logger.Info("match lifecycle event",
		slog.Int("match_id", match.ID),
		slog.String("event", string(ev)),
		slog.String("status", string(match.Status)),
		slog.Int("period", match.CurrentPeriod))

	s.broadcast(match, live.MessageMatchUpdated)
	return match, nil
}

func (s *matchService) recordStat(ctx context.Context, matchID, teamID int, apply func(*models.Match, bool)) (*models.Match, error) {
	match, err := s.loadMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}

	if match.Status != models.StatusLive {
		return nil, &live.TransitionError{
			Status: match.Status, Event: "record", Guarded: true,
			Reason: "statistics can only change while the match is live",
		}
	}

	switch {
	case match.TeamAID != nil && *match.TeamAID == teamID:
		apply(match, true)
	case match.TeamBID != nil && *match.TeamBID == teamID:
		apply(match, false)
	default:
		return nil, fmt.Errorf("%w: team %d, match %d", ErrNotSided, teamID, matchID)
	}

	if err := s.matchRepo.UpdateLifecycle(ctx, match); err != nil {
		return nil, fmt.Errorf("failed to persist match %d stats: %w", matchID, err)
	}

	s.broadcast(match, live.MessageMatchUpdated)
	return match, nil
}

// startClock runs the countdown for a live match. Each tick is a single
// conditional decrement in the store, so a concurrent goal or lifecycle
// change can never be overwritten by a stale tick. The clock stops
// itself when it hits zero or the match leaves the live state, leaving
// the period/finish decision to the operator.
func (s *matchService) startClock(matchID, tournamentID int) {
	s.clocks.Start(matchID, time.Second, func(ctx context.Context) bool {
		match, err := s.matchRepo.DecrementClock(ctx, matchID)
		if err != nil {
			if !errors.Is(err, repositories.ErrMatchClockStopped) {
				s.logger.Error("clock tick failed",
					slog.Int("match_id", matchID), slog.Any("error", err))
			}
			return false
		}

		s.broadcast(match, live.MessageClockTick)
		return match.TimeRemaining > 0
	})
}

func (s *matchService) broadcast(match *models.Match, messageType string) {
	if s.hub == nil {
		return
	}
	room := strconv.Itoa(match.TournamentID)
	s.hub.BroadcastToRoom(room, live.WebSocketMessage{
		Type:    messageType,
		Payload: match,
		RoomID:  room,
	})
}

func (s *matchService) loadMatch(ctx context.Context, matchID int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrMatchNotFound, matchID)
		}
		return nil, fmt.Errorf("failed to load match %d: %w", matchID, err)
	}
	return match, nil
}

func (s *matchService) rulesFor(ctx context.Context, match *models.Match) (live.Rules, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, match.TournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return live.Rules{}, fmt.Errorf("%w: id %d", ErrTournamentNotFound, match.TournamentID)
		}
		return live.Rules{}, fmt.Errorf("failed to load tournament %d: %w", match.TournamentID, err)
	}
	return live.Rules{
		PeriodDurationSeconds: tournament.PeriodDurationSeconds,
		TotalPeriods:          tournament.TotalPeriods,
	}, nil
}
