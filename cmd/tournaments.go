package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-br-leaderboard/internal/leaderboard"
)

var tournamentsCmd = &cobra.Command{
	Use:   "tournaments",
	Short: "List the guild's tournaments, newest first",
	Args:  cobra.NoArgs,
	RunE:  runTournaments,
}

func runTournaments(cmd *cobra.Command, args []string) error {
	client, err := newYuniteClient()
	if err != nil {
		return err
	}
	svc := leaderboard.NewService(client, nil, logger)

	list, err := svc.Tournaments(cmd.Context())
	if err != nil {
		return fmt.Errorf("list tournaments: %w", err)
	}
	if len(list) == 0 {
		fmt.Fprintln(os.Stdout, "No tournaments found for this guild.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-36s  %-16s  %5s  %s\n", "ID", "START", "COUNT", "NAME")
	fmt.Fprintf(os.Stdout, "%-36s  %-16s  %5s  %s\n",
		"────────────────────────────────────", "────────────────", "─────", "────")
	for _, t := range list {
		counted := "all"
		if t.MaxCountedGames > 0 {
			counted = fmt.Sprint(t.MaxCountedGames)
		}
		fmt.Fprintf(os.Stdout, "%-36s  %-16s  %5s  %s\n",
			t.ID, t.StartDate.Local().Format("2006-01-02 15:04"), counted, t.Name)
	}
	return nil
}
