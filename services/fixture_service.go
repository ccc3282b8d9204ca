package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/matchdayhq/fixture-engine/brackets"
	"github.com/matchdayhq/fixture-engine/live"
	"github.com/matchdayhq/fixture-engine/models"
	"github.com/matchdayhq/fixture-engine/repositories"
	"github.com/matchdayhq/fixture-engine/storage"
	"golang.org/x/sync/errgroup"
)

// FixtureService owns the destructive "regenerate fixture" operation:
// resolve groups, build the ordered match list for the tournament's
// format, number it, and atomically replace whatever fixture existed.
type FixtureService interface {
	Regenerate(ctx context.Context, tournamentID int) ([]*models.Match, error)
	ListFixture(ctx context.Context, tournamentID int) ([]*models.Match, error)
}

type fixtureService struct {
	tournamentRepo repositories.TournamentRepository
	teamRepo       repositories.TeamRepository
	matchRepo      repositories.MatchRepository
	resolver       GroupResolver
	uploader       storage.FileUploader
	hub            *live.Hub
	logger         *slog.Logger

	// Regeneration is serialized per tournament: two concurrent runs on
	// the same id would race on the replace step.
	mu    sync.Mutex
	locks map[int]*sync.Mutex
}

func NewFixtureService(
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
	resolver GroupResolver,
	uploader storage.FileUploader,
	hub *live.Hub,
	logger *slog.Logger,
) FixtureService {
	return &fixtureService{
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		matchRepo:      matchRepo,
		resolver:       resolver,
		uploader:       uploader,
		hub:            hub,
		logger:         logger,
		locks:          make(map[int]*sync.Mutex),
	}
}

func (s *fixtureService) Regenerate(ctx context.Context, tournamentID int) ([]*models.Match, error) {
	lock := s.tournamentLock(tournamentID)
	lock.Lock()
	defer lock.Unlock()

	var (
		tournament *models.Tournament
		teams      []*models.Team
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := s.tournamentRepo.GetByID(gCtx, tournamentID)
		if err != nil {
			if errors.Is(err, repositories.ErrTournamentNotFound) {
				return fmt.Errorf("%w: id %d", ErrTournamentNotFound, tournamentID)
			}
			return fmt.Errorf("failed to load tournament %d: %w", tournamentID, err)
		}
		tournament = t
		return nil
	})
	g.Go(func() error {
		ts, err := s.teamRepo.ListApprovedByTournament(gCtx, tournamentID)
		if err != nil {
			return fmt.Errorf("failed to load approved teams for tournament %d: %w", tournamentID, err)
		}
		teams = ts
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	params := brackets.BuildFixtureParams{
		Tournament: tournament,
		Teams:      dereferenceTeams(teams),
	}

	if tournament.Format == models.FormatGroupsPlayoff {
		resolved, err := s.resolver.Resolve(ctx, tournamentID)
		if err != nil {
			return nil, err
		}
		params.Groups = resolved
	} else if len(teams) < 2 {
		return nil, fmt.Errorf("%w: found %d", ErrNotEnoughTeams, len(teams))
	}

	builder, err := brackets.BuilderForFormat(tournament.Format)
	if err != nil {
		return nil, err
	}

	matches, err := builder.BuildFixture(ctx, params)
	if err != nil {
		switch {
		case errors.Is(err, brackets.ErrNoGroupsConfigured):
			return nil, fmt.Errorf("%w: tournament %d", ErrNoGroupsConfigured, tournamentID)
		case errors.Is(err, brackets.ErrNotEnoughTeams):
			return nil, fmt.Errorf("%w: tournament %d", ErrNotEnoughTeams, tournamentID)
		}
		return nil, fmt.Errorf("failed to build fixture for tournament %d: %w", tournamentID, err)
	}

	for i, match := range matches {
		match.MatchNumber = i + 1
	}

	if err := s.matchRepo.ReplaceFixture(ctx, tournamentID, matches); err != nil {
		return nil, fmt.Errorf("%w: tournament %d: %v", ErrFixturePersistFailed, tournamentID, err)
	}

	s.logger.Info("fixture regenerated",
		slog.Int("tournament_id", tournamentID),
		slog.String("format", string(tournament.Format)),
		slog.Int("matches", len(matches)))

	s.publishSnapshot(ctx, tournament, matches)

	if s.hub != nil {
		s.hub.BroadcastToRoom(strconv.Itoa(tournamentID), live.WebSocketMessage{
			Type:    live.MessageFixtureRegenerated,
			Payload: matches,
			RoomID:  strconv.Itoa(tournamentID),
		})
	}

	return matches, nil
}

func (s *fixtureService) ListFixture(ctx context.Context, tournamentID int) ([]*models.Match, error) {
	matches, err := s.matchRepo.ListByTournament(ctx, tournamentID, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list fixture for tournament %d: %w", tournamentID, err)
	}
	return matches, nil
}

// publishSnapshot uploads the fresh fixture as a public JSON document for
// the storefront to read. Best effort: a failed upload is logged, never
// fatal, since the fixture itself is already committed.
func (s *fixtureService) publishSnapshot(ctx context.Context, tournament *models.Tournament, matches []*models.Match) {
	if s.uploader == nil {
		return
	}

	snapshot := map[string]interface{}{
		"tournament_id": tournament.ID,
		"name":          tournament.Name,
		"format":        tournament.Format,
		"matches":       matches,
	}
	body, err := json.Marshal(snapshot)
	if err != nil {
		s.logger.Error("failed to marshal fixture snapshot",
			slog.Int("tournament_id", tournament.ID), slog.Any("error", err))
		return
	}

	key := fmt.Sprintf("fixtures/tournament_%d.json", tournament.ID)
	result, err := s.uploader.Upload(ctx, key, "application/json", bytes.NewReader(body))
	if err != nil {
		s.logger.Warn("failed to publish fixture snapshot",
			slog.Int("tournament_id", tournament.ID), slog.Any("error", err))
		return
	}
	s.logger.Info("fixture snapshot published",
		slog.Int("tournament_id", tournament.ID),
		slog.String("location", result.Location))
}

func (s *fixtureService) tournamentLock(tournamentID int) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[tournamentID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[tournamentID] = lock
	}
	return lock
}

func dereferenceTeams(teams []*models.Team) []models.Team {
	out := make([]models.Team, 0, len(teams))
	for _, t := range teams {
		if t != nil {
			out = append(out, *t)
		}
	}
	return out
}
