package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-br-leaderboard/internal/report"
)

var showPlayerID string

var showCmd = &cobra.Command{
	Use:   "show <id-prefix>",
	Short: "Show a saved leaderboard by id prefix",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().StringVar(&showPlayerID, "player", "", "highlight player Epic ID")
}

func runShow(cmd *cobra.Command, args []string) error {
	prefix := args[0]

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	saved, err := db.GetLeaderboardByPrefix(cmd.Context(), prefix)
	if err != nil {
		return fmt.Errorf("query leaderboard: %w", err)
	}
	if saved == nil {
		fmt.Fprintf(os.Stderr, "No leaderboard found with id prefix %q\n", prefix)
		return nil
	}

	records, err := db.GetLeaderboardEntries(cmd.Context(), saved.ID)
	if err != nil {
		return fmt.Errorf("get entries: %w", err)
	}
	fmt.Fprintf(os.Stdout, "\nTournament: %s  |  ID: %s  |  Computed: %s  |  Leaderboard: %s\n\n",
		saved.TournamentName, saved.TournamentID, saved.ComputedAt.Local().Format("2006-01-02 15:04"), saved.ID)
	report.PrintLeaderboard(os.Stdout, records, showPlayerID)
	return nil
}
