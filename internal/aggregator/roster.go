package aggregator

import (
	"slices"

	"github.com/pable/go-br-leaderboard/internal/model"
)

// Normalize splits team records into one record per player and merges the
// contributions of every team a player appeared in. Players are matched by
// their immutable ID; display names play no part. Output order follows the
// first appearance of each player.
func Normalize(teams []model.Record) []model.Record {
	var out []model.Record
	index := make(map[string]int)

	for _, team := range teams {
		seen := make(map[string]bool, len(team.Players))
		for _, p := range team.Players {
			if seen[p.ID] {
				continue
			}
			seen[p.ID] = true

			if i, ok := index[p.ID]; ok {
				r := &out[i]
				r.Kills += team.Kills
				r.Games += team.Games
				r.Wins += team.Wins
				r.SumSecondsSurvived += team.SumSecondsSurvived
				r.GameList = append(r.GameList, team.GameList...)
				r.Corrections = append(r.Corrections, team.Corrections...)
				Recompute(r)
				continue
			}

			r := model.Record{
				Players:            []model.Player{p},
				Kills:              team.Kills,
				Games:              team.Games,
				Wins:               team.Wins,
				SumSecondsSurvived: team.SumSecondsSurvived,
				GameList:           slices.Clone(team.GameList),
				Corrections:        slices.Clone(team.Corrections),
			}
			Recompute(&r)
			index[p.ID] = len(out)
			out = append(out, r)
		}
	}
	return out
}
