package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-br-leaderboard/internal/leaderboard"
	"github.com/pable/go-br-leaderboard/internal/model"
	"github.com/pable/go-br-leaderboard/internal/notify"
	"github.com/pable/go-br-leaderboard/internal/report"
	"github.com/pable/go-br-leaderboard/internal/sessions"
	"github.com/pable/go-br-leaderboard/internal/snapshot"
)

// leaderboard command flags.
var (
	// lbFrom is a snapshot file to compute from instead of the live API.
	lbFrom   string
	lbPlayer string
	lbNotify bool
	lbSave   bool
	// lbLimit caps printed and posted rows; 0 means all.
	lbLimit int
)

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard [tournament-id]",
	Short: "Compute the individual leaderboard of a tournament",
	Long: `Compute the individual leaderboard of a tournament and print it.

With --player, print one player's counted totals and game list instead.
With --from, compute from a snapshot file written by 'brleaderboard snapshot'
(the tournament id may then be omitted).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLeaderboard,
}

func init() {
	leaderboardCmd.Flags().StringVar(&lbFrom, "from", "", "compute from a snapshot file instead of the Yunite API")
	leaderboardCmd.Flags().StringVar(&lbPlayer, "player", "", "show details for one player (Epic ID or display name)")
	leaderboardCmd.Flags().BoolVar(&lbNotify, "notify", false, "post the leaderboard to the Discord webhook")
	leaderboardCmd.Flags().BoolVar(&lbSave, "save", false, "store the computed leaderboard in the local database")
	leaderboardCmd.Flags().IntVar(&lbLimit, "limit", 0, "max rows to print and post (0 = all)")
}

func runLeaderboard(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	var (
		platform leaderboard.Platform
		source   sessions.Source
		id       string
	)
	if len(args) == 1 {
		id = args[0]
	}
	if lbFrom != "" {
		snap, err := snapshot.ReadFile(lbFrom)
		if err != nil {
			return fmt.Errorf("read snapshot: %w", err)
		}
		if id == "" {
			id = snap.Tournament.ID
		}
		src := snapshot.NewSource(snap)
		platform, source = src, src
	} else {
		if id == "" {
			return fmt.Errorf("a tournament id is required without --from")
		}
		client, err := newYuniteClient()
		if err != nil {
			return err
		}
		platform, source = client, client
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	svc := leaderboard.NewService(platform, db, logger)
	res, err := svc.Compute(ctx, id)
	if err != nil {
		return fmt.Errorf("compute leaderboard: %w", err)
	}

	shown := res.Records
	if lbLimit > 0 && lbLimit < len(shown) {
		shown = shown[:lbLimit]
	}

	if lbPlayer != "" {
		r := findPlayer(res.Records, lbPlayer)
		if r == nil {
			fmt.Fprintf(os.Stderr, "No player %q in this leaderboard\n", lbPlayer)
			return nil
		}
		cache, release, err := newSessionCache()
		if err != nil {
			return err
		}
		defer release()
		counter := sessions.NewCounter(cache, source, logger)

		report.PrintPlayerDetail(os.Stdout, *r)
		fmt.Fprintln(os.Stdout)
		report.PrintGameList(os.Stdout, *r, func(sessionID string) (int, bool) {
			return counter.TeamsInMatch(ctx, res.Tournament.ID, sessionID)
		})
	} else {
		report.PrintHeader(os.Stdout, res.Tournament, len(res.Records), res.Warnings, res.ComputedAt)
		report.PrintLeaderboard(os.Stdout, shown, "")
	}

	if lbSave {
		lbID, err := db.SaveLeaderboard(ctx, res.Tournament, res.Records, res.ComputedAt)
		if err != nil {
			return fmt.Errorf("save leaderboard: %w", err)
		}
		fmt.Fprintf(os.Stdout, "\nSaved leaderboard %s\n", lbID)
	}

	if lbNotify {
		if err := cfg.RequireDiscord(); err != nil {
			return err
		}
		d := notify.NewDiscord(cfg.DiscordWebhook, logger)
		if err := d.PostLeaderboard(ctx, res.Tournament, res.Records, lbLimit); err != nil {
			return fmt.Errorf("notify: %w", err)
		}
		fmt.Fprintln(os.Stdout, "Posted to Discord.")
	}
	return nil
}

// findPlayer matches by Epic ID first, then by display name ignoring case.
func findPlayer(records []model.Record, key string) *model.Record {
	for i := range records {
		if records[i].Player().ID == key {
			return &records[i]
		}
	}
	for i := range records {
		if strings.EqualFold(records[i].Player().DisplayName, key) {
			return &records[i]
		}
	}
	return nil
}
