package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
	"golang.org/x/sync/errgroup"

	"github.com/pable/go-br-leaderboard/internal/model"
)

// Snapshot is everything fetched from the platform for one tournament.
type Snapshot struct {
	Tournament   model.Tournament     `json:"tournament"`
	Teams        []model.Record       `json:"teams"`
	Sessions     []model.MatchSession `json:"sessions"`
	SessionTeams map[string]int       `json:"session_teams"`
	FetchedAt    time.Time            `json:"fetched_at"`
}

// Platform is the part of the tournament platform a snapshot is taken from.
type Platform interface {
	Tournament(ctx context.Context, id string) (*model.Tournament, error)
	Teams(ctx context.Context, tournamentID string) ([]model.Record, error)
	Sessions(ctx context.Context, tournamentID string) ([]model.MatchSession, error)
	SessionTeamCount(ctx context.Context, tournamentID, sessionID string) (int, error)
}

// maxConcurrentCounts bounds parallel per-session requests.
const maxConcurrentCounts = 8

// Capture fetches a tournament and all of its raw data from p.
func Capture(ctx context.Context, p Platform, tournamentID string) (*Snapshot, error) {
	t, err := p.Tournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	snap := &Snapshot{Tournament: *t, SessionTeams: make(map[string]int), FetchedAt: time.Now().UTC()}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		teams, err := p.Teams(gctx, tournamentID)
		snap.Teams = teams
		return err
	})
	g.Go(func() error {
		sessions, err := p.Sessions(gctx, tournamentID)
		snap.Sessions = sessions
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var mu sync.Mutex
	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentCounts)
	for _, s := range snap.Sessions {
		g.Go(func() error {
			n, err := p.SessionTeamCount(gctx, tournamentID, s.SessionID)
			if err != nil {
				return err
			}
			mu.Lock()
			snap.SessionTeams[s.SessionID] = n
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}

// Write encodes s as zstd-compressed JSON.
func Write(w io.Writer, s *Snapshot) error {
	enc, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("zstd: %w", err)
	}
	if err := json.NewEncoder(enc).Encode(s); err != nil {
		enc.Close()
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return enc.Close()
}

// Read decodes a snapshot written by Write.
func Read(r io.Reader) (*Snapshot, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("zstd: %w", err)
	}
	defer dec.Close()

	var s Snapshot
	if err := json.NewDecoder(dec).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &s, nil
}

// WriteFile writes s to path, replacing any existing file.
func WriteFile(path string, s *Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, s); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadFile reads a snapshot from path.
func ReadFile(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}
