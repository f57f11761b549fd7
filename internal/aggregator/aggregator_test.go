package aggregator

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/rs/zerolog"

	"github.com/pable/go-br-leaderboard/internal/model"
)

// IDs for test players.
const (
	playerA = "epic-a"
	playerB = "epic-b"
	playerC = "epic-c"
)

var baseTime = time.Date(2024, 5, 1, 20, 0, 0, 0, time.UTC)

// standardPoints is the point system used by most tests: 1 per elimination, no cap.
func standardPoints() model.PointSystem {
	return model.PointSystem{
		PointsPerElimination: 1,
		PlacementPoints:      map[int]int{1: 10, 2: 6, 3: 4, 4: 2, 5: 1},
	}
}

// scoredSession returns a fully scored session with enough players to count.
func scoredSession(id string, minute int) model.MatchSession {
	return model.MatchSession{
		SessionID: id,
		Status:    model.SessionScored,
		Players:   100,
		StartedAt: baseTime.Add(time.Duration(minute) * time.Minute),
	}
}

// makeGame creates a game already attached to a scored session with the given score.
func makeGame(session string, minute, score int) model.Game {
	return model.Game{
		SessionID: session,
		Timestamp: baseTime.Add(time.Duration(minute) * time.Minute),
		Placement: 2,
		Score:     score,
		Session:   scoredSession(session, minute),
	}
}

// makeTeam builds a team record for the given players and games.
func makeTeam(ids []string, kills int, games ...model.Game) model.Record {
	players := make([]model.Player, len(ids))
	for i, id := range ids {
		players[i] = model.Player{ID: id}
	}
	return model.Record{
		Players:            players,
		Kills:              kills,
		Games:              len(games),
		SumSecondsSurvived: 600 * len(games),
		GameList:           games,
	}
}

// ---- Match scorer ----

func TestScore_EliminationsPlusPlacement(t *testing.T) {
	g := model.Game{SessionID: "s1", Eliminations: 5, Placement: 1}
	if _, err := Score(standardPoints(), &g); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.EliminationScore != 5 || g.PlacementScore != 10 || g.Score != 15 {
		t.Errorf("got elim=%d placement=%d score=%d, want 5/10/15",
			g.EliminationScore, g.PlacementScore, g.Score)
	}
}

func TestScore_EliminationCap(t *testing.T) {
	ps := standardPoints()
	ps.PointsPerElimination = 2
	ps.EliminationCap = 3

	g := model.Game{SessionID: "s1", Eliminations: 7, Placement: 3}
	if _, err := Score(ps, &g); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.EliminationScore != 6 {
		t.Errorf("capped elimination score: want 6, got %d", g.EliminationScore)
	}
	if g.Score != 10 {
		t.Errorf("score: want 10, got %d", g.Score)
	}
	if ps.EliminationCap != 3 {
		t.Errorf("point system was mutated: cap=%d", ps.EliminationCap)
	}
}

func TestScore_UnmappedPlacement(t *testing.T) {
	g := model.Game{SessionID: "s1", Eliminations: 1, Placement: 42}
	_, err := Score(standardPoints(), &g)
	if !errors.Is(err, ErrUnmappedPlacement) {
		t.Fatalf("want ErrUnmappedPlacement, got %v", err)
	}
}

func TestScore_ReportsDelta(t *testing.T) {
	g := model.Game{SessionID: "s1", Eliminations: 2, Placement: 2, Score: 10}
	delta, err := Score(standardPoints(), &g)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// recomputed 2 + 6 = 8, platform said 10
	if delta != -2 {
		t.Errorf("delta: want -2, got %d", delta)
	}
	if g.Score != 8 {
		t.Errorf("recomputed score must win: got %d", g.Score)
	}
}

// ---- Counted-match selector ----

func TestSelectCounted_CapDropsLowestScore(t *testing.T) {
	games := []model.Game{makeGame("s1", 0, 20), makeGame("s2", 10, 5), makeGame("s3", 20, 15)}
	tour := model.Tournament{MaxCountedGames: 2}

	out, c := SelectCounted(tour, games)
	if c.Games != 2 || c.Score != 35 {
		t.Errorf("want countedGames=2 score=35, got %d/%d", c.Games, c.Score)
	}
	if out[1].Counts {
		t.Error("expected the 5-point game to be dropped")
	}
	if !out[0].Counts || !out[2].Counts {
		t.Error("expected the 20 and 15 point games to count")
	}
}

func TestSelectCounted_DoesNotMutateInput(t *testing.T) {
	games := []model.Game{makeGame("s1", 0, 20), makeGame("s2", 10, 5)}
	games[0].Counts = false
	games[1].Counts = true

	SelectCounted(model.Tournament{MaxCountedGames: 1}, games)
	if games[0].Counts || !games[1].Counts {
		t.Error("input games were modified")
	}
}

func TestSelectCounted_StatusAndConsensus(t *testing.T) {
	pending := makeGame("s1", 0, 30)
	pending.Session.Status = model.SessionScoring
	small := makeGame("s2", 10, 30)
	small.Session.Players = 20
	ok := makeGame("s3", 20, 4)

	out, c := SelectCounted(model.Tournament{MinConsensusPlayers: 50}, []model.Game{pending, small, ok})
	if out[0].Counts {
		t.Error("partially scored session must not count")
	}
	if out[1].Counts {
		t.Error("session below consensus must not count")
	}
	if c.Games != 1 || c.Score != 4 {
		t.Errorf("want 1 counted game scoring 4, got %d/%d", c.Games, c.Score)
	}
	if len(out) != 3 {
		t.Errorf("non-counted games must stay listed, got %d", len(out))
	}
}

// The cap applies after the status and consensus filters.
func TestSelectCounted_CapAfterFilters(t *testing.T) {
	waiting := makeGame("s1", 0, 50)
	waiting.Session.Status = model.SessionWaiting
	games := []model.Game{waiting, makeGame("s2", 10, 3), makeGame("s3", 20, 9)}

	_, c := SelectCounted(model.Tournament{MaxCountedGames: 2}, games)
	if c.Games != 2 || c.Score != 12 {
		t.Errorf("want 2 counted games scoring 12, got %d/%d", c.Games, c.Score)
	}
}

func TestSelectCounted_CutoffTieDropsEarlierGame(t *testing.T) {
	games := []model.Game{makeGame("late", 30, 8), makeGame("early", 0, 8), makeGame("best", 10, 20)}

	out, _ := SelectCounted(model.Tournament{MaxCountedGames: 2}, games)
	if out[1].Counts {
		t.Error("expected the earlier of two equal-score games to be dropped")
	}
	if !out[0].Counts {
		t.Error("expected the later equal-score game to count")
	}
}

func TestSelectCounted_WinsAndTotals(t *testing.T) {
	win := makeGame("s1", 0, 0)
	win.Placement = 1
	win.Eliminations = 4
	win.EliminationScore = 4
	win.PlacementScore = 10
	win.Score = 14
	lost := makeGame("s2", 10, 0)
	lost.Eliminations = 2
	lost.EliminationScore = 2
	lost.PlacementScore = 6
	lost.Score = 8

	_, c := SelectCounted(model.Tournament{}, []model.Game{win, lost})
	want := Counted{Kills: 6, Games: 2, Wins: 1, Score: 22, PlacementScore: 16, EliminationScore: 6}
	if c != want {
		t.Errorf("counted totals: want %+v, got %+v", want, c)
	}
}

// ---- Roster normalizer ----

func TestNormalize_SplitAndMerge(t *testing.T) {
	teams := []model.Record{
		makeTeam([]string{playerA, playerB}, 10, makeGame("s1", 0, 12)),
		makeTeam([]string{playerA}, 3, makeGame("s2", 10, 4)),
	}

	out := Normalize(teams)
	if len(out) != 2 {
		t.Fatalf("want 2 player records, got %d", len(out))
	}
	a, b := out[0], out[1]
	if a.Player().ID != playerA || b.Player().ID != playerB {
		t.Fatalf("unexpected order: %s, %s", a.Player().ID, b.Player().ID)
	}
	if a.Kills != 13 {
		t.Errorf("A kills: want 13, got %d", a.Kills)
	}
	if b.Kills != 10 {
		t.Errorf("B kills: want 10, got %d", b.Kills)
	}
	if a.Games != 2 || len(a.GameList) != 2 {
		t.Errorf("A games: want 2, got %d (list %d)", a.Games, len(a.GameList))
	}
	if len(b.GameList) != 1 {
		t.Errorf("B game list: want 1, got %d", len(b.GameList))
	}
	if len(a.Players) != 1 || len(b.Players) != 1 {
		t.Error("normalized records must carry exactly one player")
	}
}

func TestNormalize_ListsAreNotShared(t *testing.T) {
	teams := []model.Record{makeTeam([]string{playerA, playerB}, 1, makeGame("s1", 0, 1))}

	out := Normalize(teams)
	out[0].GameList[0].Counts = true
	out[0].GameList = append(out[0].GameList, makeGame("s2", 5, 1))

	if out[1].GameList[0].Counts {
		t.Error("player records share a game list backing array")
	}
	if teams[0].GameList[0].Counts {
		t.Error("normalization must not alias the team's game list")
	}
}

func TestNormalize_CorrectionsPassThrough(t *testing.T) {
	t1 := makeTeam([]string{playerA}, 0)
	t1.Corrections = []model.Correction{{Payload: []byte(`{"points":-5}`)}}
	t2 := makeTeam([]string{playerA}, 0)
	t2.Corrections = []model.Correction{{Payload: []byte(`{"points":2}`)}}

	out := Normalize([]model.Record{t1, t2})
	if len(out[0].Corrections) != 2 {
		t.Fatalf("want 2 corrections, got %d", len(out[0].Corrections))
	}
	if string(out[0].Corrections[1].Payload) != `{"points":2}` {
		t.Errorf("correction payload changed: %s", out[0].Corrections[1].Payload)
	}
}

func TestNormalize_DuplicateIdentityInTeam(t *testing.T) {
	team := makeTeam([]string{playerA, playerA}, 4, makeGame("s1", 0, 5))
	out := Normalize([]model.Record{team})
	if len(out) != 1 || out[0].Kills != 4 {
		t.Errorf("duplicate id within a team must merge once, got %d records kills=%d", len(out), out[0].Kills)
	}
}

// ---- Aggregate calculator ----

func TestRecompute_Averages(t *testing.T) {
	g1 := makeGame("s1", 0, 0)
	g1.Placement = 1
	g2 := makeGame("s2", 0, 0)
	g2.Placement = 4
	r := model.Record{Kills: 6, Games: 2, SumSecondsSurvived: 720, GameList: []model.Game{g1, g2}}

	Recompute(&r)
	if r.AveragePlacement != 2.5 {
		t.Errorf("average placement: want 2.5, got %f", r.AveragePlacement)
	}
	if r.AverageSecondsSurvived != 360 {
		t.Errorf("average seconds survived: want 360, got %f", r.AverageSecondsSurvived)
	}
	if r.KPM != 0.5 {
		t.Errorf("kpm: want 0.5, got %f", r.KPM)
	}
}

func TestRecompute_ZeroDenominatorsAreUndefined(t *testing.T) {
	r := model.Record{Kills: 3}
	Recompute(&r)
	if !math.IsNaN(r.AveragePlacement) || !math.IsNaN(r.AverageSecondsSurvived) || !math.IsNaN(r.KPM) {
		t.Errorf("want undefined averages, got %f %f %f", r.AveragePlacement, r.AverageSecondsSurvived, r.KPM)
	}
}

// ---- Ranking engine ----

func scoredRecords(scores ...int) []model.Record {
	out := make([]model.Record, len(scores))
	for i, s := range scores {
		out[i] = model.Record{Players: []model.Player{{ID: string(rune('a' + i))}}, Score: s}
	}
	return out
}

func TestRank_DenseCompetition(t *testing.T) {
	records := scoredRecords(30, 50, 50)
	if err := Rank(nil, records); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := []int{records[0].Rank, records[1].Rank, records[2].Rank}
	want := []int{1, 1, 3}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ranks mismatch (-want +got):\n%s", diff)
	}
	if records[2].Score != 30 {
		t.Errorf("lowest score must be last, got %d", records[2].Score)
	}
}

func TestRank_RankFollowsPositionAfterTies(t *testing.T) {
	records := scoredRecords(90, 70, 70, 70, 40, 40, 10)
	if err := Rank(nil, records); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []int{1, 2, 2, 2, 5, 5, 7}
	for i, r := range records {
		if r.Rank != want[i] {
			t.Errorf("position %d: want rank %d, got %d", i+1, want[i], r.Rank)
		}
	}
}

func TestRank_StableAmongExactTies(t *testing.T) {
	records := scoredRecords(10, 10, 10)
	if err := Rank(nil, records); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, id := range []string{"a", "b", "c"} {
		if records[i].Player().ID != id {
			t.Errorf("position %d: want %s, got %s", i, id, records[i].Player().ID)
		}
	}
}

func TestRank_WinsThenAveragePlacement(t *testing.T) {
	records := []model.Record{
		{Players: []model.Player{{ID: "few-wins"}}, Score: 40, Wins: 1, AveragePlacement: 2},
		{Players: []model.Player{{ID: "bad-avg"}}, Score: 40, Wins: 3, AveragePlacement: 9},
		{Players: []model.Player{{ID: "good-avg"}}, Score: 40, Wins: 3, AveragePlacement: 4},
	}
	tbs := []model.TieBreaker{model.TieBreakWins, model.TieBreakAveragePlacement}
	if err := Rank(tbs, records); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	order := []string{records[0].Player().ID, records[1].Player().ID, records[2].Player().ID}
	if diff := cmp.Diff([]string{"good-avg", "bad-avg", "few-wins"}, order); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
	if records[0].Rank != 1 || records[1].Rank != 2 || records[2].Rank != 3 {
		t.Errorf("tie-broken records must get distinct ranks, got %d %d %d",
			records[0].Rank, records[1].Rank, records[2].Rank)
	}
}

func TestRank_UndefinedSortsLast(t *testing.T) {
	records := []model.Record{
		{Players: []model.Player{{ID: "none"}}, Score: 5, AveragePlacement: math.NaN()},
		{Players: []model.Player{{ID: "some"}}, Score: 5, AveragePlacement: 30},
	}
	if err := Rank([]model.TieBreaker{model.TieBreakAveragePlacement}, records); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if records[0].Player().ID != "some" {
		t.Errorf("undefined average placement must rank below a defined one")
	}
}

func TestRank_EveryTieBreakerOrders(t *testing.T) {
	games := func(n int) []model.Game { return make([]model.Game, n) }
	cases := []struct {
		tb     model.TieBreaker
		better model.Record
		worse  model.Record
	}{
		{model.TieBreakWins, model.Record{Wins: 2}, model.Record{Wins: 1}},
		{model.TieBreakAverageEliminations, model.Record{Kills: 9, GameList: games(3)}, model.Record{Kills: 9, GameList: games(4)}},
		{model.TieBreakSumEliminations, model.Record{Kills: 9}, model.Record{Kills: 8}},
		{model.TieBreakAveragePlacement, model.Record{AveragePlacement: 3}, model.Record{AveragePlacement: 3.5}},
		{model.TieBreakScorePerMatch, model.Record{GameList: games(1)}, model.Record{GameList: games(2)}},
		{model.TieBreakSumTimeSurvived, model.Record{SumSecondsSurvived: 900}, model.Record{SumSecondsSurvived: 899}},
		{model.TieBreakAverageTimeSurvived, model.Record{AverageSecondsSurvived: 300}, model.Record{AverageSecondsSurvived: 200}},
	}
	for _, tc := range cases {
		t.Run(string(tc.tb), func(t *testing.T) {
			tc.better.Score, tc.worse.Score = 12, 12
			records := []model.Record{tc.worse, tc.better}
			records[0].Players = []model.Player{{ID: "worse"}}
			records[1].Players = []model.Player{{ID: "better"}}
			if err := Rank([]model.TieBreaker{tc.tb}, records); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if records[0].Player().ID != "better" {
				t.Errorf("%s did not order the better record first", tc.tb)
			}
		})
	}
}

func TestRank_UnknownTieBreakerRejected(t *testing.T) {
	records := scoredRecords(1, 2)
	err := Rank([]model.TieBreaker{model.TieBreakWins, "MOST_DANCES"}, records)
	if !errors.Is(err, ErrUnknownTieBreaker) {
		t.Fatalf("want ErrUnknownTieBreaker, got %v", err)
	}
	if records[0].Score != 1 || records[0].Rank != 0 {
		t.Error("records must be untouched when ranking is rejected")
	}
}

func TestParseTieBreaker(t *testing.T) {
	if tb, err := ParseTieBreaker("SUM_TIME_SURVIVED"); err != nil || tb != model.TieBreakSumTimeSurvived {
		t.Errorf("ParseTieBreaker: got %q, %v", tb, err)
	}
	if _, err := ParseTieBreaker("wins"); !errors.Is(err, ErrUnknownTieBreaker) {
		t.Errorf("tags are case sensitive, want ErrUnknownTieBreaker, got %v", err)
	}
}

// ---- Full pipeline ----

func buildInput() (model.Tournament, []model.Record, []model.MatchSession) {
	tour := model.Tournament{
		ID:              "cup",
		PointSystem:     standardPoints(),
		MaxCountedGames: 2,
		TieBreakers:     []model.TieBreaker{model.TieBreakWins, model.TieBreakAveragePlacement},
	}
	sessions := []model.MatchSession{scoredSession("s1", 0), scoredSession("s2", 30), scoredSession("s3", 60)}

	g := func(session string, minute, elims, placement int) model.Game {
		return model.Game{
			SessionID:       session,
			Timestamp:       baseTime.Add(time.Duration(minute) * time.Minute),
			Eliminations:    elims,
			Placement:       placement,
			SecondsSurvived: 900,
		}
	}
	teams := []model.Record{
		makeTeam([]string{playerA, playerB}, 7, g("s1", 0, 5, 1), g("s2", 30, 2, 3)),
		makeTeam([]string{playerA}, 1, g("s3", 60, 1, 5)),
		makeTeam([]string{playerC}, 9, g("s1", 0, 4, 2), g("s2", 30, 5, 2)),
	}
	teams[0].Wins = 1
	return tour, teams, sessions
}

func TestBuild_Scenario(t *testing.T) {
	tour, teams, sessions := buildInput()

	out, err := Build(tour, teams, sessions, zerolog.Nop())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("want 3 players, got %d", len(out))
	}

	// A: games 15, 6, 2 with max 2 counted → 21. B: 15, 6 → 21. C: 10, 11 → 21.
	// All tie on score; A and B have a win, C has none. A and B tie on wins,
	// B has the lower average placement (2 vs 3).
	order := []string{out[0].Player().ID, out[1].Player().ID, out[2].Player().ID}
	if diff := cmp.Diff([]string{playerB, playerA, playerC}, order); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	ranks := []int{out[0].Rank, out[1].Rank, out[2].Rank}
	if diff := cmp.Diff([]int{1, 2, 3}, ranks); diff != "" {
		t.Errorf("ranks mismatch (-want +got):\n%s", diff)
	}

	a := out[1]
	if a.Score != 21 || a.CountedGames != 2 || len(a.GameList) != 3 {
		t.Errorf("A: score=%d counted=%d listed=%d", a.Score, a.CountedGames, len(a.GameList))
	}
	if a.Kills != 8 || a.Games != 3 {
		t.Errorf("A raw totals: kills=%d games=%d", a.Kills, a.Games)
	}
	if a.CountedWins != 1 {
		t.Errorf("A counted wins: want 1, got %d", a.CountedWins)
	}
}

func TestBuild_Idempotent(t *testing.T) {
	tour, teams, sessions := buildInput()

	first, err := Build(tour, teams, sessions, zerolog.Nop())
	if err != nil {
		t.Fatalf("first Build: %v", err)
	}
	second, err := Build(tour, teams, sessions, zerolog.Nop())
	if err != nil {
		t.Fatalf("second Build: %v", err)
	}
	if diff := cmp.Diff(first, second, cmpopts.EquateNaNs()); diff != "" {
		t.Errorf("pipeline is not idempotent (-first +second):\n%s", diff)
	}
	if teams[0].GameList[0].Score != 0 || teams[0].GameList[0].Session.SessionID != "" {
		t.Error("Build modified its input teams")
	}
}

func TestBuild_Conservation(t *testing.T) {
	tour, teams, sessions := buildInput()
	tour.MaxCountedGames = 0

	out, err := Build(tour, teams, sessions, zerolog.Nop())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	type owned struct{ player, session string }
	want := make(map[owned]int)
	for _, team := range teams {
		for _, p := range team.Players {
			for _, g := range team.GameList {
				want[owned{p.ID, g.SessionID}]++
			}
		}
	}
	got := make(map[owned]int)
	seen := make(map[string]int)
	for _, r := range out {
		seen[r.Player().ID]++
		for _, g := range r.GameList {
			got[owned{r.Player().ID, g.SessionID}]++
		}
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("games not conserved (-want +got):\n%s", diff)
	}
	for _, id := range []string{playerA, playerB, playerC} {
		if seen[id] != 1 {
			t.Errorf("player %s appears %d times", id, seen[id])
		}
	}
}

func TestBuild_CapHonoured(t *testing.T) {
	tour, teams, sessions := buildInput()
	for k := 1; k <= 3; k++ {
		tour.MaxCountedGames = k
		out, err := Build(tour, teams, sessions, zerolog.Nop())
		if err != nil {
			t.Fatalf("Build k=%d: %v", k, err)
		}
		for _, r := range out {
			if r.CountedGames > k {
				t.Errorf("k=%d: player %s counts %d games", k, r.Player().ID, r.CountedGames)
			}
		}
	}
}

func TestBuild_MissingSessionIsFatal(t *testing.T) {
	tour, teams, sessions := buildInput()
	out, err := Build(tour, teams, sessions[:2], zerolog.Nop())
	if !errors.Is(err, ErrMissingSession) {
		t.Fatalf("want ErrMissingSession, got %v", err)
	}
	if out != nil {
		t.Error("a failed computation must not return records")
	}
}

func TestBuild_UnmappedPlacementIsFatal(t *testing.T) {
	tour, teams, sessions := buildInput()
	delete(tour.PointSystem.PlacementPoints, 5)
	if _, err := Build(tour, teams, sessions, zerolog.Nop()); !errors.Is(err, ErrUnmappedPlacement) {
		t.Fatalf("want ErrUnmappedPlacement, got %v", err)
	}
}

func TestBuild_UnknownTieBreakerFailsFast(t *testing.T) {
	tour, teams, _ := buildInput()
	tour.TieBreakers = []model.TieBreaker{"COIN_FLIP"}
	// A missing session would also fail; the tie-breaker must be reported first.
	if _, err := Build(tour, teams, nil, zerolog.Nop()); !errors.Is(err, ErrUnknownTieBreaker) {
		t.Fatalf("want ErrUnknownTieBreaker, got %v", err)
	}
}

func TestBuild_ScoreMismatchWarns(t *testing.T) {
	tour, teams, sessions := buildInput()
	// Platform scores agree with the point system except A/B's game in s2 (4 + 2, not 1).
	teams[0].GameList[0].Score = 15
	teams[0].GameList[1].Score = 1
	teams[1].GameList[0].Score = 2
	teams[2].GameList[0].Score = 10
	teams[2].GameList[1].Score = 11

	var buf bytes.Buffer
	if _, err := Build(tour, teams, sessions, zerolog.New(&buf)); err != nil {
		t.Fatalf("Build: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "recomputed game score differs from platform score") {
		t.Fatalf("expected a score mismatch warning, got:\n%s", out)
	}
	if !strings.Contains(out, `"session_id":"s2"`) || !strings.Contains(out, `"level":"warn"`) {
		t.Errorf("warning should name the session at warn level, got:\n%s", out)
	}
	if n := strings.Count(out, "recomputed game score"); n != 1 {
		t.Errorf("want exactly 1 warning, got %d:\n%s", n, out)
	}
	if !strings.Contains(out, `"delta":5`) {
		t.Errorf("warning should carry the delta, got:\n%s", out)
	}
}
