package report

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-br-leaderboard/internal/model"
)

var (
	cYes = color.New(color.FgGreen)
	cNo  = color.New(color.FgRed)
)

// TeamsInMatch returns the number of teams in a session, or ok=false when unknown.
type TeamsInMatch func(sessionID string) (n int, ok bool)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// PrintHeader prints a one-line summary of a computed leaderboard.
func PrintHeader(w io.Writer, t model.Tournament, players, warnings int, computedAt time.Time) {
	fmt.Fprintf(w, "\nTournament: %s  |  ID: %s  |  Players: %d  |  Computed: %s",
		t.Name, t.ID, players, computedAt.Format("2006-01-02 15:04"))
	if warnings > 0 {
		fmt.Fprintf(w, "  |  Unnamed: %d", warnings)
	}
	fmt.Fprint(w, "\n\n")
}

// PrintLeaderboard prints the ranked individual leaderboard.
// If focusID is non-empty, that player's row is marked with ">".
func PrintLeaderboard(w io.Writer, records []model.Record, focusID string) {
	table := newTable(w)
	table.Header(" ", "#", "PLAYER", "SCORE", "GAMES", "ELIMS", "WINS", "AVG_PLACE", "AVG_MIN_ALIVE", "KPM")

	for _, r := range records {
		p := r.Player()
		marker := " "
		if focusID != "" && p.ID == focusID {
			marker = ">"
		}
		table.Append(
			marker,
			strconv.Itoa(r.Rank),
			p.DisplayName,
			strconv.Itoa(r.Score),
			fmt.Sprintf("%d/%d", r.CountedGames, r.Games),
			strconv.Itoa(r.Kills),
			strconv.Itoa(r.Wins),
			fmtFloat(r.AveragePlacement, 1),
			fmtFloat(r.AverageSecondsSurvived/60, 1),
			fmtFloat(r.KPM, 2),
		)
	}
	table.Render()
}

// PrintPlayerDetail prints the counted totals and identities of one player.
func PrintPlayerDetail(w io.Writer, r model.Record) {
	p := r.Player()
	fmt.Fprintf(w, "\n%s (rank %d, %d points)\n\n", p.DisplayName, r.Rank, r.Score)

	table := newTable(w)
	table.Header("STAT", "VALUE")
	table.Append("Counted kills", strconv.Itoa(r.CountedKills))
	table.Append("Counted wins", strconv.Itoa(r.CountedWins))
	table.Append("Counted games", strconv.Itoa(r.CountedGames))
	table.Append("Placement score", fmt.Sprintf("%d (%s)", r.PlacementScore, fmtPct(r.PlacementShare())))
	table.Append("Elimination score", fmt.Sprintf("%d (%s)", r.EliminationScore, fmtPct(r.EliminationShare())))
	table.Append("Epic ID", p.ID)
	table.Append("Discord ID", orDash(p.DiscordID))
	table.Render()
}

// PrintGameList prints every game of a player, counted or not.
// teams may be nil, in which case placements are shown without the lobby size.
func PrintGameList(w io.Writer, r model.Record, teams TeamsInMatch) {
	table := newTable(w)
	table.Header("SESSION", "TIME", "SCORE", "COUNTS", "ELIMS", "PLACEMENT")

	for _, g := range r.GameList {
		counts := cNo.Sprint("No ❌")
		if g.Counts {
			counts = cYes.Sprint("Yes ✅")
		}
		table.Append(
			g.SessionID,
			g.Timestamp.Local().Format("2006-01-02 15:04"),
			strconv.Itoa(g.Score),
			counts,
			strconv.Itoa(g.Eliminations),
			placement(g, teams),
		)
	}
	table.Render()
}

func placement(g model.Game, teams TeamsInMatch) string {
	total := "-1"
	if teams != nil {
		if n, ok := teams(g.SessionID); ok {
			total = strconv.Itoa(n)
		}
	}
	return fmt.Sprintf("%d/%s", g.Placement, total)
}

// fmtFloat renders an undefined value as "—".
func fmtFloat(f float64, decimals int) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "—"
	}
	return strconv.FormatFloat(f, 'f', decimals, 64)
}

func fmtPct(f float64) string {
	if math.IsNaN(f) {
		return "—"
	}
	return fmt.Sprintf("%.0f%%", f)
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
