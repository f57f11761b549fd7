package storage

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/pable/go-br-leaderboard/internal/leaderboard"
	"github.com/pable/go-br-leaderboard/internal/model"
)

// ErrNameNotFound is returned by ResolveName when no display name is stored for a player.
var ErrNameNotFound = leaderboard.ErrNameNotFound

// StoredPlayer is one row of the players table.
type StoredPlayer struct {
	EpicID      string
	DisplayName string // empty when not yet named
	DiscordID   string
	UpdatedAt   time.Time
}

// LeaderboardSummary describes one saved leaderboard computation.
type LeaderboardSummary struct {
	ID             string
	TournamentID   string
	TournamentName string
	ComputedAt     time.Time
	Entries        int
}

// ---- Players ----

// ResolveName returns the stored display name for an Epic account id.
func (db *DB) ResolveName(ctx context.Context, epicID string) (string, error) {
	var name sql.NullString
	err := db.conn.QueryRowContext(ctx,
		"SELECT display_name FROM players WHERE epic_id = ?", epicID).Scan(&name)
	if err == sql.ErrNoRows || (err == nil && !name.Valid) {
		return "", fmt.Errorf("%w: %s", ErrNameNotFound, epicID)
	}
	if err != nil {
		return "", err
	}
	return name.String, nil
}

// RecordUnknownPlayer inserts epicID with no display name so it can be named later.
// Existing rows are left alone.
func (db *DB) RecordUnknownPlayer(ctx context.Context, epicID string) error {
	_, err := db.conn.ExecContext(ctx, `
		INSERT OR IGNORE INTO players(epic_id, display_name, discord_id, updated_at)
		VALUES (?, NULL, '', ?)`,
		epicID, formatTime(time.Now()),
	)
	return err
}

// SetPlayerName stores the display name (and optionally the Discord id) for an Epic account.
func (db *DB) SetPlayerName(ctx context.Context, epicID, displayName, discordID string) error {
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO players(epic_id, display_name, discord_id, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(epic_id) DO UPDATE SET
			display_name = excluded.display_name,
			discord_id   = CASE WHEN excluded.discord_id = '' THEN players.discord_id ELSE excluded.discord_id END,
			updated_at   = excluded.updated_at`,
		epicID, displayName, discordID, formatTime(time.Now()),
	)
	return err
}

// ListPlayers returns stored players; with unnamedOnly set, only those still missing a name.
func (db *DB) ListPlayers(ctx context.Context, unnamedOnly bool) ([]StoredPlayer, error) {
	q := "SELECT epic_id, display_name, discord_id, updated_at FROM players"
	if unnamedOnly {
		q += " WHERE display_name IS NULL"
	}
	q += " ORDER BY epic_id"

	rows, err := db.conn.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StoredPlayer
	for rows.Next() {
		var p StoredPlayer
		var name sql.NullString
		var updated string
		if err := rows.Scan(&p.EpicID, &name, &p.DiscordID, &updated); err != nil {
			return nil, err
		}
		p.DisplayName = name.String
		p.UpdatedAt = parseTime(updated)
		out = append(out, p)
	}
	return out, rows.Err()
}

// ---- Leaderboards ----

// SaveLeaderboard stores a computed leaderboard and its entries in one transaction
// and returns the generated leaderboard id.
func (db *DB) SaveLeaderboard(ctx context.Context, t model.Tournament, records []model.Record, computedAt time.Time) (string, error) {
	id := uuid.NewString()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO leaderboards(id, tournament_id, tournament_name, computed_at)
		VALUES (?, ?, ?, ?)`,
		id, t.ID, t.Name, formatTime(computedAt),
	); err != nil {
		return "", fmt.Errorf("insert leaderboard: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO leaderboard_entries(
			leaderboard_id, rank, epic_id, display_name,
			score, kills, wins, games,
			counted_kills, counted_wins, counted_games,
			placement_score, elimination_score,
			avg_placement, avg_seconds_survived, kpm
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return "", err
	}
	defer stmt.Close()

	for _, r := range records {
		p := r.Player()
		_, err = stmt.ExecContext(ctx,
			id, r.Rank, p.ID, p.DisplayName,
			r.Score, r.Kills, r.Wins, r.Games,
			r.CountedKills, r.CountedWins, r.CountedGames,
			r.PlacementScore, r.EliminationScore,
			nullFloat(r.AveragePlacement), nullFloat(r.AverageSecondsSurvived), nullFloat(r.KPM),
		)
		if err != nil {
			return "", fmt.Errorf("insert leaderboard_entries for %s: %w", p.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return "", err
	}
	return id, nil
}

// ListLeaderboards returns saved leaderboards, newest first.
func (db *DB) ListLeaderboards(ctx context.Context) ([]LeaderboardSummary, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT l.id, l.tournament_id, l.tournament_name, l.computed_at, COUNT(e.epic_id)
		FROM leaderboards l
		LEFT JOIN leaderboard_entries e ON e.leaderboard_id = l.id
		GROUP BY l.id
		ORDER BY l.computed_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LeaderboardSummary
	for rows.Next() {
		var s LeaderboardSummary
		var computed string
		if err := rows.Scan(&s.ID, &s.TournamentID, &s.TournamentName, &computed, &s.Entries); err != nil {
			return nil, err
		}
		s.ComputedAt = parseTime(computed)
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetLeaderboardByPrefix finds the first saved leaderboard whose id starts with prefix.
// It returns nil when nothing matches.
func (db *DB) GetLeaderboardByPrefix(ctx context.Context, prefix string) (*LeaderboardSummary, error) {
	var s LeaderboardSummary
	var computed string
	err := db.conn.QueryRowContext(ctx, `
		SELECT l.id, l.tournament_id, l.tournament_name, l.computed_at,
		       (SELECT COUNT(1) FROM leaderboard_entries e WHERE e.leaderboard_id = l.id)
		FROM leaderboards l WHERE l.id LIKE ?
		ORDER BY l.computed_at DESC LIMIT 1`, prefix+"%").
		Scan(&s.ID, &s.TournamentID, &s.TournamentName, &computed, &s.Entries)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s.ComputedAt = parseTime(computed)
	return &s, nil
}

// GetLeaderboardEntries returns the stored rows of a leaderboard ordered by rank.
// Game lists are not stored; the returned records carry totals only.
func (db *DB) GetLeaderboardEntries(ctx context.Context, leaderboardID string) ([]model.Record, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT rank, epic_id, display_name,
		       score, kills, wins, games,
		       counted_kills, counted_wins, counted_games,
		       placement_score, elimination_score,
		       avg_placement, avg_seconds_survived, kpm
		FROM leaderboard_entries WHERE leaderboard_id = ?
		ORDER BY rank, epic_id`, leaderboardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Record
	for rows.Next() {
		var r model.Record
		var p model.Player
		var avgPlacement, avgSurvived, kpm sql.NullFloat64
		if err := rows.Scan(
			&r.Rank, &p.ID, &p.DisplayName,
			&r.Score, &r.Kills, &r.Wins, &r.Games,
			&r.CountedKills, &r.CountedWins, &r.CountedGames,
			&r.PlacementScore, &r.EliminationScore,
			&avgPlacement, &avgSurvived, &kpm,
		); err != nil {
			return nil, err
		}
		r.Players = []model.Player{p}
		r.AveragePlacement = floatOrUndefined(avgPlacement)
		r.AverageSecondsSurvived = floatOrUndefined(avgSurvived)
		r.KPM = floatOrUndefined(kpm)
		out = append(out, r)
	}
	return out, rows.Err()
}

// ---- Raw access ----

// QueryRaw runs an arbitrary query and returns column names and stringified rows.
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var out [][]string
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			switch v := v.(type) {
			case nil:
				row[i] = "NULL"
			case []byte:
				row[i] = string(v)
			default:
				row[i] = fmt.Sprint(v)
			}
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}

// nullFloat maps an undefined average to SQL NULL.
func nullFloat(f float64) sql.NullFloat64 {
	if math.IsNaN(f) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: f, Valid: true}
}

func floatOrUndefined(f sql.NullFloat64) float64 {
	if !f.Valid {
		return model.Undefined
	}
	return f.Float64
}

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}
