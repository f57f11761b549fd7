package aggregator

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/pable/go-br-leaderboard/internal/model"
)

// ErrUnknownTieBreaker is returned for a tie-breaker tag the ranking engine does not know.
var ErrUnknownTieBreaker = errors.New("unknown tie-breaker")

// compareFunc orders two records; negative means a ranks above b.
type compareFunc func(a, b *model.Record) int

var tieBreakers = map[model.TieBreaker]compareFunc{
	model.TieBreakWins: func(a, b *model.Record) int {
		return cmp.Compare(b.Wins, a.Wins)
	},
	model.TieBreakAverageEliminations: func(a, b *model.Record) int {
		return descending(a.AverageEliminations(), b.AverageEliminations())
	},
	model.TieBreakSumEliminations: func(a, b *model.Record) int {
		return cmp.Compare(b.Kills, a.Kills)
	},
	model.TieBreakAveragePlacement: func(a, b *model.Record) int {
		return ascending(a.AveragePlacement, b.AveragePlacement)
	},
	model.TieBreakScorePerMatch: func(a, b *model.Record) int {
		return descending(a.ScorePerMatch(), b.ScorePerMatch())
	},
	model.TieBreakSumTimeSurvived: func(a, b *model.Record) int {
		return cmp.Compare(b.SumSecondsSurvived, a.SumSecondsSurvived)
	},
	model.TieBreakAverageTimeSurvived: func(a, b *model.Record) int {
		return descending(a.AverageSecondsSurvived, b.AverageSecondsSurvived)
	},
}

// ParseTieBreaker validates a tie-breaker tag.
func ParseTieBreaker(s string) (model.TieBreaker, error) {
	tb := model.TieBreaker(s)
	if _, ok := tieBreakers[tb]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTieBreaker, s)
	}
	return tb, nil
}

// Comparator builds the ranking order: score descending, then each tie-breaker
// in the order given. Every tag is checked before anything is built.
func Comparator(tbs []model.TieBreaker) (func(a, b *model.Record) int, error) {
	chain := []compareFunc{func(a, b *model.Record) int {
		return cmp.Compare(b.Score, a.Score)
	}}
	for _, tb := range tbs {
		fn, ok := tieBreakers[tb]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownTieBreaker, tb)
		}
		chain = append(chain, fn)
	}

	return func(a, b *model.Record) int {
		for _, fn := range chain {
			if c := fn(a, b); c != 0 {
				return c
			}
		}
		return 0
	}, nil
}

// Rank sorts records and assigns competition ranks: tied records share a rank
// and the next distinct record is ranked at its 1-based position (1, 1, 3).
// Records keep their input order among exact ties. On error records are untouched.
func Rank(tbs []model.TieBreaker, records []model.Record) error {
	compare, err := Comparator(tbs)
	if err != nil {
		return err
	}

	slices.SortStableFunc(records, func(a, b model.Record) int {
		return compare(&a, &b)
	})

	for i := range records {
		if i > 0 && compare(&records[i], &records[i-1]) == 0 {
			records[i].Rank = records[i-1].Rank
			continue
		}
		records[i].Rank = i + 1
	}
	return nil
}

// ascending orders lower values first; undefined values sort last.
func ascending(a, b float64) int {
	switch an, bn := math.IsNaN(a), math.IsNaN(b); {
	case an && bn:
		return 0
	case an:
		return 1
	case bn:
		return -1
	}
	return cmp.Compare(a, b)
}

// descending orders higher values first; undefined values sort last.
func descending(a, b float64) int {
	switch an, bn := math.IsNaN(a), math.IsNaN(b); {
	case an && bn:
		return 0
	case an:
		return 1
	case bn:
		return -1
	}
	return cmp.Compare(b, a)
}
