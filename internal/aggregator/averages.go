package aggregator

import (
	"github.com/pable/go-br-leaderboard/internal/model"
)

// Recompute derives the averages of r from its raw totals and game list.
// Average placement is taken over every listed game, counted or not.
// A zero denominator leaves the value model.Undefined.
func Recompute(r *model.Record) {
	r.AveragePlacement = model.Undefined
	if n := len(r.GameList); n > 0 {
		sum := 0
		for _, g := range r.GameList {
			sum += g.Placement
		}
		r.AveragePlacement = float64(sum) / float64(n)
	}

	r.AverageSecondsSurvived = model.Undefined
	if r.Games > 0 {
		r.AverageSecondsSurvived = float64(r.SumSecondsSurvived) / float64(r.Games)
	}

	r.KPM = model.Undefined
	if r.SumSecondsSurvived > 0 {
		r.KPM = float64(r.Kills) / float64(r.SumSecondsSurvived) * 60
	}
}
