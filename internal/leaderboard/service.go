package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/pable/go-br-leaderboard/internal/aggregator"
	"github.com/pable/go-br-leaderboard/internal/model"
)

// Platform is the tournament platform the raw data comes from.
type Platform interface {
	Tournaments(ctx context.Context) ([]model.Tournament, error)
	Tournament(ctx context.Context, id string) (*model.Tournament, error)
	Teams(ctx context.Context, tournamentID string) ([]model.Record, error)
	Sessions(ctx context.Context, tournamentID string) ([]model.MatchSession, error)
}

// ErrNameNotFound is returned by a NameResolver that has no name for a player.
var ErrNameNotFound = errors.New("display name not found")

// NameResolver maps an Epic account id to a display name.
type NameResolver interface {
	ResolveName(ctx context.Context, playerID string) (string, error)
}

// UnknownPlayerRecorder is implemented by resolvers that can remember ids they
// failed to resolve, so an operator can name them later.
type UnknownPlayerRecorder interface {
	RecordUnknownPlayer(ctx context.Context, playerID string) error
}

// Result is one computed leaderboard.
type Result struct {
	Tournament model.Tournament
	Records    []model.Record
	// Warnings counts players shown under a placeholder name.
	Warnings   int
	ComputedAt time.Time
}

const maxConcurrentLookups = 8

// Service computes individual leaderboards.
type Service struct {
	platform Platform
	names    NameResolver
	logger   zerolog.Logger
	now      func() time.Time
}

// NewService wires a Service. names may be nil, in which case every player
// gets the placeholder name.
func NewService(platform Platform, names NameResolver, logger zerolog.Logger) *Service {
	return &Service{platform: platform, names: names, logger: logger, now: time.Now}
}

// Tournaments returns the platform's tournaments, newest start date first.
func (s *Service) Tournaments(ctx context.Context) ([]model.Tournament, error) {
	list, err := s.platform.Tournaments(ctx)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(list, func(a, b model.Tournament) int {
		return b.StartDate.Compare(a.StartDate)
	})
	return list, nil
}

// Compute fetches a tournament and builds its ranked individual leaderboard.
// Any fetch or pipeline error aborts the computation; a missing display name never does.
func (s *Service) Compute(ctx context.Context, tournamentID string) (*Result, error) {
	t, err := s.platform.Tournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("fetch tournament: %w", err)
	}

	var (
		teams    []model.Record
		sessions []model.MatchSession
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		teams, err = s.platform.Teams(gctx, tournamentID)
		if err != nil {
			return fmt.Errorf("fetch teams: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		sessions, err = s.platform.Sessions(gctx, tournamentID)
		if err != nil {
			return fmt.Errorf("fetch sessions: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	names, warnings := s.resolveNames(ctx, teams)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger := s.logger.With().Str("tournament_id", t.ID).Logger()
	records, err := aggregator.Build(*t, teams, sessions, logger)
	if err != nil {
		return nil, err
	}
	for i := range records {
		records[i].Players[0].DisplayName = names[records[i].Player().ID]
	}

	logger.Info().
		Int("teams", len(teams)).
		Int("sessions", len(sessions)).
		Int("players", len(records)).
		Int("warnings", warnings).
		Msg("leaderboard computed")

	return &Result{
		Tournament: *t,
		Records:    records,
		Warnings:   warnings,
		ComputedAt: s.now(),
	}, nil
}

// PlaceholderName is shown for a player whose display name is unknown.
func PlaceholderName(playerID string) string {
	return fmt.Sprintf("Unknown(%s)", playerID)
}

// resolveNames looks up every distinct player id once, concurrently.
func (s *Service) resolveNames(ctx context.Context, teams []model.Record) (map[string]string, int) {
	var ids []string
	seen := make(map[string]bool)
	for _, team := range teams {
		for _, p := range team.Players {
			if !seen[p.ID] {
				seen[p.ID] = true
				ids = append(ids, p.ID)
			}
		}
	}

	var (
		mu       sync.Mutex
		names    = make(map[string]string, len(ids))
		warnings int
	)
	var g errgroup.Group
	g.SetLimit(maxConcurrentLookups)
	for _, id := range ids {
		g.Go(func() error {
			name, ok := s.lookup(ctx, id)
			mu.Lock()
			defer mu.Unlock()
			names[id] = name
			if !ok {
				warnings++
			}
			return nil
		})
	}
	g.Wait()
	return names, warnings
}

func (s *Service) lookup(ctx context.Context, id string) (string, bool) {
	if s.names == nil {
		return PlaceholderName(id), false
	}
	name, err := s.names.ResolveName(ctx, id)
	if err == nil && name != "" {
		return name, true
	}

	ev := s.logger.Warn().Str("player_id", id)
	if err != nil && !errors.Is(err, ErrNameNotFound) {
		ev = ev.Err(err)
	}
	ev.Msg("display name not found, using placeholder")

	if rec, ok := s.names.(UnknownPlayerRecorder); ok {
		if err := rec.RecordUnknownPlayer(ctx, id); err != nil {
			s.logger.Warn().Err(err).Str("player_id", id).Msg("could not record unknown player")
		}
	}
	return PlaceholderName(id), false
}
