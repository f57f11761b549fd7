package aggregator

import (
	"errors"
	"fmt"
	"slices"

	"github.com/rs/zerolog"

	"github.com/pable/go-br-leaderboard/internal/model"
)

// ErrMissingSession is returned when a game references a session the platform did not return.
var ErrMissingSession = errors.New("game references unknown session")

// Build turns raw team records into the ranked individual leaderboard.
//
// Stages run strictly in order: session enrichment, scoring, roster
// normalization, counted-game selection, averages, ranking. Inputs are copied
// before anything is modified, so Build is idempotent. Any configuration or
// data-integrity error aborts the whole computation and no records are returned.
func Build(t model.Tournament, teams []model.Record, sessions []model.MatchSession, logger zerolog.Logger) ([]model.Record, error) {
	// Fail fast on a bad tie-breaker before doing any work.
	if _, err := Comparator(t.TieBreakers); err != nil {
		return nil, err
	}

	byID := make(map[string]model.MatchSession, len(sessions))
	for _, s := range sessions {
		byID[s.SessionID] = s
	}

	// ---- Stage 1: attach sessions and score every team game. ----

	scored := make([]model.Record, len(teams))
	for i, team := range teams {
		team.Players = slices.Clone(team.Players)
		team.GameList = slices.Clone(team.GameList)
		team.Corrections = slices.Clone(team.Corrections)

		for j := range team.GameList {
			g := &team.GameList[j]
			s, ok := byID[g.SessionID]
			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrMissingSession, g.SessionID)
			}
			g.Session = s

			delta, err := Score(t.PointSystem, g)
			if err != nil {
				return nil, fmt.Errorf("score tournament %s: %w", t.ID, err)
			}
			if delta != 0 {
				logger.Warn().
					Str("tournament_id", t.ID).
					Str("session_id", g.SessionID).
					Int("delta", delta).
					Msg("recomputed game score differs from platform score")
			}
		}
		scored[i] = team
	}

	// ---- Stage 2: one record per player. ----

	players := Normalize(scored)

	// ---- Stage 3: counted games and averages per player. ----

	for i := range players {
		ApplyCounted(t, &players[i])
		Recompute(&players[i])
	}

	// ---- Stage 4: ranking. ----

	if err := Rank(t.TieBreakers, players); err != nil {
		return nil, err
	}

	logger.Debug().
		Str("tournament_id", t.ID).
		Int("teams", len(teams)).
		Int("players", len(players)).
		Msg("leaderboard built")
	return players, nil
}
