package aggregator

import (
	"cmp"
	"math"
	"slices"

	"github.com/pable/go-br-leaderboard/internal/model"
)

// Counted holds the totals over the counted subset of a game list.
type Counted struct {
	Kills            int
	Games            int
	Wins             int
	Score            int
	PlacementScore   int
	EliminationScore int
}

// SelectCounted marks which games contribute to a record's totals and returns a
// copy of games with Counts set, plus the counted totals. games is not modified,
// so selecting twice from the same list gives the same result.
func SelectCounted(t model.Tournament, games []model.Game) ([]model.Game, Counted) {
	out := slices.Clone(games)

	for i := range out {
		g := &out[i]
		g.Counts = true
		if g.Session.Status != model.SessionScored {
			g.Counts = false
		}
		if g.Session.Players < t.MinConsensusPlayers {
			g.Counts = false
		}
	}

	maxCounted := t.MaxCountedGames
	if maxCounted == 0 {
		maxCounted = math.MaxInt
	}

	var still []int
	for i := range out {
		if out[i].Counts {
			still = append(still, i)
		}
	}
	if surplus := len(still) - maxCounted; surplus > 0 {
		// Lowest score goes first; among equal scores the earlier game goes first.
		slices.SortStableFunc(still, func(a, b int) int {
			ga, gb := &out[a], &out[b]
			return cmp.Or(
				cmp.Compare(ga.Score, gb.Score),
				ga.Timestamp.Compare(gb.Timestamp),
				cmp.Compare(ga.SessionID, gb.SessionID),
			)
		})
		for _, i := range still[:surplus] {
			out[i].Counts = false
		}
	}

	var c Counted
	for _, g := range out {
		if !g.Counts {
			continue
		}
		c.Kills += g.Eliminations
		c.Games++
		if g.Placement == 1 {
			c.Wins++
		}
		c.Score += g.Score
		c.PlacementScore += g.PlacementScore
		c.EliminationScore += g.EliminationScore
	}
	return out, c
}

// ApplyCounted runs SelectCounted on r's game list and stores the result on r.
// The full list is kept; non-counted games stay visible with Counts=false.
func ApplyCounted(t model.Tournament, r *model.Record) {
	games, c := SelectCounted(t, r.GameList)
	r.GameList = games
	r.CountedKills = c.Kills
	r.CountedGames = c.Games
	r.CountedWins = c.Wins
	r.Score = c.Score
	r.PlacementScore = c.PlacementScore
	r.EliminationScore = c.EliminationScore
}
