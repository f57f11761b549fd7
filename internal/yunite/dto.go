package yunite

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/pable/go-br-leaderboard/internal/aggregator"
	"github.com/pable/go-br-leaderboard/internal/model"
)

type pointSystemDTO struct {
	PointsPerKill int `json:"pointsPerKill"`
	KillCap       int `json:"killCap"`
	// Keys are placements as decimal strings.
	PointsPerPlacement map[string]int `json:"completePointsPerPlacement"`
}

type tournamentDTO struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	StartDate      time.Time      `json:"startDate"`
	PointSystem    pointSystemDTO `json:"pointSystem"`
	MaxGamesScored int            `json:"maxGamesScored"`
	ConsensusMin   int            `json:"consensusMin"`
	Tiebreakers    []string       `json:"tiebreakers"`
}

func (d tournamentDTO) toModel() (model.Tournament, error) {
	placements := make(map[int]int, len(d.PointSystem.PointsPerPlacement))
	for k, v := range d.PointSystem.PointsPerPlacement {
		p, err := strconv.Atoi(k)
		if err != nil {
			return model.Tournament{}, fmt.Errorf("tournament %s: placement key %q: %w", d.ID, k, err)
		}
		placements[p] = v
	}

	tbs := make([]model.TieBreaker, len(d.Tiebreakers))
	for i, tag := range d.Tiebreakers {
		tb, err := aggregator.ParseTieBreaker(tag)
		if err != nil {
			return model.Tournament{}, fmt.Errorf("tournament %s: %w", d.ID, err)
		}
		tbs[i] = tb
	}

	return model.Tournament{
		ID:        d.ID,
		Name:      d.Name,
		StartDate: d.StartDate,
		PointSystem: model.PointSystem{
			PointsPerElimination: d.PointSystem.PointsPerKill,
			EliminationCap:       d.PointSystem.KillCap,
			PlacementPoints:      placements,
		},
		MaxCountedGames:     d.MaxGamesScored,
		MinConsensusPlayers: d.ConsensusMin,
		TieBreakers:         tbs,
	}, nil
}

type userDTO struct {
	EpicID       string `json:"epicId"`
	DiscordID    string `json:"discordId"`
	EpicUsername string `json:"epicUsername"`
}

type gameDTO struct {
	SessionID       string    `json:"sessionId"`
	Timestamp       time.Time `json:"timestamp"`
	Kills           int       `json:"kills"`
	Placement       int       `json:"placement"`
	SecondsSurvived int       `json:"secondsSurvived"`
	Score           int       `json:"score"`
}

type teamDTO struct {
	Users              []userDTO         `json:"users"`
	Kills              int               `json:"kills"`
	Games              int               `json:"games"`
	Wins               int               `json:"wins"`
	SumSecondsSurvived int               `json:"sumSecondsSurvived"`
	GameList           []gameDTO         `json:"gameList"`
	Corrections        []json.RawMessage `json:"corrections"`
}

func (d teamDTO) toModel() model.Record {
	r := model.Record{
		Players:            make([]model.Player, len(d.Users)),
		Kills:              d.Kills,
		Games:              d.Games,
		Wins:               d.Wins,
		SumSecondsSurvived: d.SumSecondsSurvived,
		GameList:           make([]model.Game, len(d.GameList)),
	}
	for i, u := range d.Users {
		// Display names come from the local store, never from the platform.
		r.Players[i] = model.Player{ID: u.EpicID, DiscordID: u.DiscordID}
	}
	for i, g := range d.GameList {
		r.GameList[i] = model.Game{
			SessionID:       g.SessionID,
			Timestamp:       g.Timestamp,
			Eliminations:    g.Kills,
			Placement:       g.Placement,
			SecondsSurvived: g.SecondsSurvived,
			Score:           g.Score,
		}
	}
	for _, c := range d.Corrections {
		r.Corrections = append(r.Corrections, model.Correction{Payload: c})
	}
	return r
}

type sessionDTO struct {
	SessionID string    `json:"sessionId"`
	Status    string    `json:"status"`
	Players   int       `json:"players"`
	StartedAt time.Time `json:"startedAt"`
}

func (d sessionDTO) toModel() model.MatchSession {
	return model.MatchSession{
		SessionID: d.SessionID,
		Status:    parseStatus(d.Status),
		Players:   d.Players,
		StartedAt: d.StartedAt,
	}
}

// parseStatus maps anything unrecognised to WAITING, which never counts.
func parseStatus(s string) model.SessionStatus {
	switch st := model.SessionStatus(s); st {
	case model.SessionScored, model.SessionScoring:
		return st
	default:
		return model.SessionWaiting
	}
}
