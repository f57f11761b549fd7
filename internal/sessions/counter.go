package sessions

import (
	"context"

	"github.com/rs/zerolog"
)

// Cache stores the number of teams that played in a session.
// Get reports ok=false on a miss.
type Cache interface {
	Get(ctx context.Context, sessionID string) (n int, ok bool, err error)
	Set(ctx context.Context, sessionID string, n int) error
}

// Source fetches the number of teams in a session from the platform.
type Source interface {
	SessionTeamCount(ctx context.Context, tournamentID, sessionID string) (int, error)
}

// Counter answers "how many teams were in this match" for the game detail
// view, memoizing answers from Source in Cache.
type Counter struct {
	cache  Cache
	source Source
	logger zerolog.Logger
}

// NewCounter returns a Counter backed by cache and source.
func NewCounter(cache Cache, source Source, logger zerolog.Logger) *Counter {
	return &Counter{cache: cache, source: source, logger: logger}
}

// TeamsInMatch returns the team count of a session, or ok=false when it cannot
// be determined. Failures are logged and never returned: the count is display only.
func (c *Counter) TeamsInMatch(ctx context.Context, tournamentID, sessionID string) (int, bool) {
	n, ok, err := c.cache.Get(ctx, sessionID)
	if err != nil {
		c.logger.Warn().Err(err).Str("session_id", sessionID).Msg("session cache read failed")
	}
	if ok {
		return n, true
	}

	n, err = c.source.SessionTeamCount(ctx, tournamentID, sessionID)
	if err != nil {
		c.logger.Warn().Err(err).
			Str("tournament_id", tournamentID).
			Str("session_id", sessionID).
			Msg("session team count unavailable")
		return 0, false
	}

	if err := c.cache.Set(ctx, sessionID, n); err != nil {
		c.logger.Warn().Err(err).Str("session_id", sessionID).Msg("session cache write failed")
	}
	return n, true
}
