package model

import (
	"encoding/json"
	"math"
	"time"
)

// Undefined is the value of a derived average whose denominator is zero.
// Consumers must check it with math.IsNaN rather than treating it as 0.
var Undefined = math.NaN()

// SessionStatus is the scoring state of a match session on the platform.
type SessionStatus string

const (
	SessionWaiting SessionStatus = "WAITING" // not scored yet
	SessionScoring SessionStatus = "SCORING" // partially scored
	SessionScored  SessionStatus = "SCORED"
)

// TieBreaker names a secondary ordering rule applied after score.
type TieBreaker string

const (
	TieBreakWins                TieBreaker = "WINS"
	TieBreakAverageEliminations TieBreaker = "AVERAGE_ELIMINATIONS"
	TieBreakSumEliminations     TieBreaker = "SUM_ELIMINATIONS"
	TieBreakAveragePlacement    TieBreaker = "AVERAGE_PLACEMENT"
	TieBreakScorePerMatch       TieBreaker = "SCORE_PER_MATCH"
	TieBreakSumTimeSurvived     TieBreaker = "SUM_TIME_SURVIVED"
	TieBreakAverageTimeSurvived TieBreaker = "AVERAGE_TIME_SURVIVED"
)

// ---- Tournament rules ----

// PointSystem maps raw match performance to points.
type PointSystem struct {
	PointsPerElimination int `json:"points_per_elimination"`
	EliminationCap       int `json:"elimination_cap"` // 0 = unlimited
	// PlacementPoints is keyed by final placement (1 = winner).
	PlacementPoints map[int]int `json:"placement_points"`
}

// Tournament describes one competition and its counting rules.
type Tournament struct {
	ID                  string       `json:"id"`
	Name                string       `json:"name"`
	StartDate           time.Time    `json:"start_date"`
	PointSystem         PointSystem  `json:"point_system"`
	MaxCountedGames     int          `json:"max_counted_games"`     // 0 = unlimited
	MinConsensusPlayers int          `json:"min_consensus_players"` // sessions below this do not count
	TieBreakers         []TieBreaker `json:"tie_breakers"`
}

// MatchSession is one played match of a tournament.
type MatchSession struct {
	SessionID string        `json:"session_id"`
	Status    SessionStatus `json:"status"`
	Players   int           `json:"players"` // reporting players
	StartedAt time.Time     `json:"started_at"`
}

// ---- Team / player records ----

// Player is one platform identity. ID is the immutable Epic account id.
type Player struct {
	ID          string `json:"id"`
	DiscordID   string `json:"discord_id,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
}

// Game is one session result owned by a team or, after normalization, a player.
type Game struct {
	SessionID       string       `json:"session_id"`
	Timestamp       time.Time    `json:"timestamp"`
	Eliminations    int          `json:"eliminations"`
	Placement       int          `json:"placement"`
	SecondsSurvived int          `json:"seconds_survived"`
	Counts          bool         `json:"counts"`
	Session         MatchSession `json:"session"`

	EliminationScore int `json:"elimination_score"`
	PlacementScore   int `json:"placement_score"`
	Score            int `json:"score"`
}

// Correction is a manual score adjustment. Its payload is passed through untouched.
type Correction struct {
	Payload json.RawMessage `json:"payload"`
}

// Record is a platform team before roster normalization and a single player after it.
type Record struct {
	Players []Player `json:"players"`

	Kills              int `json:"kills"`
	Games              int `json:"games"`
	Wins               int `json:"wins"`
	SumSecondsSurvived int `json:"sum_seconds_survived"`

	CountedKills     int `json:"counted_kills"`
	CountedGames     int `json:"counted_games"`
	CountedWins      int `json:"counted_wins"`
	PlacementScore   int `json:"placement_score"`
	EliminationScore int `json:"elimination_score"`
	Score            int `json:"score"`

	AveragePlacement       float64 `json:"average_placement"`
	AverageSecondsSurvived float64 `json:"average_seconds_survived"`
	KPM                    float64 `json:"kpm"`

	Rank        int          `json:"rank"`
	GameList    []Game       `json:"game_list"`
	Corrections []Correction `json:"corrections,omitempty"`
}

// Player returns the first identity on the record, the only one after normalization.
func (r *Record) Player() Player {
	if len(r.Players) == 0 {
		return Player{}
	}
	return r.Players[0]
}

// AverageEliminations returns kills per listed game.
func (r *Record) AverageEliminations() float64 {
	return ratio(float64(r.Kills), float64(len(r.GameList)))
}

// ScorePerMatch returns score per listed game.
func (r *Record) ScorePerMatch() float64 {
	return ratio(float64(r.Score), float64(len(r.GameList)))
}

// PlacementShare returns the placement score as a percentage of score.
func (r *Record) PlacementShare() float64 {
	return 100 * ratio(float64(r.PlacementScore), float64(r.Score))
}

// EliminationShare returns the elimination score as a percentage of score.
func (r *Record) EliminationShare() float64 {
	return 100 * ratio(float64(r.EliminationScore), float64(r.Score))
}

func ratio(num, den float64) float64 {
	if den == 0 {
		return Undefined
	}
	return num / den
}
