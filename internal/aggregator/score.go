package aggregator

import (
	"errors"
	"fmt"
	"math"

	"github.com/pable/go-br-leaderboard/internal/model"
)

// ErrUnmappedPlacement is returned when a game's placement has no entry in the
// tournament's placement table. It is a rule-configuration gap, never defaulted.
var ErrUnmappedPlacement = errors.New("placement has no points mapping")

// Score recomputes the elimination, placement and total score of g from ps.
// delta is the recomputed score minus the score g carried on entry; a non-zero
// delta means the platform disagrees with the rules and is reported by the caller.
func Score(ps model.PointSystem, g *model.Game) (delta int, err error) {
	placementScore, ok := ps.PlacementPoints[g.Placement]
	if !ok {
		return 0, fmt.Errorf("%w: placement %d in session %s", ErrUnmappedPlacement, g.Placement, g.SessionID)
	}

	eliminationCap := ps.EliminationCap
	if eliminationCap == 0 {
		eliminationCap = math.MaxInt
	}
	validEliminations := min(g.Eliminations, eliminationCap)

	supplied := g.Score
	g.EliminationScore = validEliminations * ps.PointsPerElimination
	g.PlacementScore = placementScore
	g.Score = g.EliminationScore + g.PlacementScore
	return g.Score - supplied, nil
}
