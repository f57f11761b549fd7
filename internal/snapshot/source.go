package snapshot

import (
	"context"
	"errors"
	"fmt"

	"github.com/pable/go-br-leaderboard/internal/model"
)

// ErrNotInSnapshot is returned for a tournament or session the snapshot does not hold.
var ErrNotInSnapshot = errors.New("not in snapshot")

// Source serves a snapshot as if it were the live platform, so a leaderboard
// can be recomputed offline from exactly the same inputs.
type Source struct {
	snap *Snapshot
}

// NewSource wraps s.
func NewSource(s *Snapshot) *Source {
	return &Source{snap: s}
}

func (s *Source) Tournaments(context.Context) ([]model.Tournament, error) {
	return []model.Tournament{s.snap.Tournament}, nil
}

func (s *Source) Tournament(_ context.Context, id string) (*model.Tournament, error) {
	if err := s.check(id); err != nil {
		return nil, err
	}
	t := s.snap.Tournament
	return &t, nil
}

func (s *Source) Teams(_ context.Context, tournamentID string) ([]model.Record, error) {
	if err := s.check(tournamentID); err != nil {
		return nil, err
	}
	return s.snap.Teams, nil
}

func (s *Source) Sessions(_ context.Context, tournamentID string) ([]model.MatchSession, error) {
	if err := s.check(tournamentID); err != nil {
		return nil, err
	}
	return s.snap.Sessions, nil
}

func (s *Source) SessionTeamCount(_ context.Context, tournamentID, sessionID string) (int, error) {
	if err := s.check(tournamentID); err != nil {
		return 0, err
	}
	n, ok := s.snap.SessionTeams[sessionID]
	if !ok {
		return 0, fmt.Errorf("session %s: %w", sessionID, ErrNotInSnapshot)
	}
	return n, nil
}

func (s *Source) check(tournamentID string) error {
	if tournamentID != s.snap.Tournament.ID {
		return fmt.Errorf("tournament %s: %w", tournamentID, ErrNotInSnapshot)
	}
	return nil
}
