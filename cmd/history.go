package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List saved leaderboards",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	saved, err := db.ListLeaderboards(cmd.Context())
	if err != nil {
		return fmt.Errorf("list leaderboards: %w", err)
	}
	if len(saved) == 0 {
		fmt.Fprintln(os.Stdout, "No leaderboards saved yet. Run 'brleaderboard leaderboard <id> --save' to add one.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-10s  %-16s  %7s  %s\n", "ID", "COMPUTED", "PLAYERS", "TOURNAMENT")
	fmt.Fprintf(os.Stdout, "%-10s  %-16s  %7s  %s\n", "──────────", "────────────────", "───────", "──────────")
	for _, s := range saved {
		fmt.Fprintf(os.Stdout, "%-10s  %-16s  %7d  %s\n",
			s.ID[:8], s.ComputedAt.Local().Format("2006-01-02 15:04"), s.Entries, s.TournamentName)
	}
	return nil
}
