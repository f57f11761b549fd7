package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	namesUnnamed bool
	namesDiscord string
)

var namesCmd = &cobra.Command{
	Use:   "names",
	Short: "Manage display names of Epic accounts",
}

var namesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List known players",
	Args:  cobra.NoArgs,
	RunE:  runNamesList,
}

var namesSetCmd = &cobra.Command{
	Use:   "set <epic-id> <display-name>",
	Short: "Set the display name of an Epic account",
	Args:  cobra.ExactArgs(2),
	RunE:  runNamesSet,
}

func init() {
	namesListCmd.Flags().BoolVar(&namesUnnamed, "unnamed", false, "only players still shown as Unknown(...)")
	namesSetCmd.Flags().StringVar(&namesDiscord, "discord", "", "Discord user id")
	namesCmd.AddCommand(namesListCmd)
	namesCmd.AddCommand(namesSetCmd)
}

func runNamesList(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	players, err := db.ListPlayers(cmd.Context(), namesUnnamed)
	if err != nil {
		return fmt.Errorf("list players: %w", err)
	}
	if len(players) == 0 {
		fmt.Fprintln(os.Stdout, "No players stored yet. Unknown players are recorded when a leaderboard is computed.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-34s  %-20s  %-20s  %s\n", "EPIC_ID", "NAME", "DISCORD_ID", "UPDATED")
	fmt.Fprintf(os.Stdout, "%-34s  %-20s  %-20s  %s\n",
		"──────────────────────────────────", "────────────────────", "────────────────────", "───────")
	for _, p := range players {
		name := p.DisplayName
		if name == "" {
			name = "(unnamed)"
		}
		fmt.Fprintf(os.Stdout, "%-34s  %-20s  %-20s  %s\n",
			p.EpicID, name, p.DiscordID, p.UpdatedAt.Local().Format("2006-01-02"))
	}
	return nil
}

func runNamesSet(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.SetPlayerName(cmd.Context(), args[0], args[1], namesDiscord); err != nil {
		return fmt.Errorf("set name: %w", err)
	}
	fmt.Fprintf(os.Stdout, "%s is now %q\n", args[0], args[1])
	return nil
}
