package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-br-leaderboard/internal/snapshot"
)

var snapshotOut string

var snapshotCmd = &cobra.Command{
	Use:   "snapshot <tournament-id>",
	Short: "Save a tournament's raw platform data to a compressed file",
	Long: `Fetch a tournament, its team leaderboard, its sessions and every session's team
count, and write them as zstd-compressed JSON. Recompute later with
'brleaderboard leaderboard --from <file>'.`,
	Args: cobra.ExactArgs(1),
	RunE: runSnapshot,
}

func init() {
	snapshotCmd.Flags().StringVarP(&snapshotOut, "out", "o", "", "output file (default <tournament-id>.json.zst)")
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	id := args[0]
	client, err := newYuniteClient()
	if err != nil {
		return err
	}

	snap, err := snapshot.Capture(cmd.Context(), client, id)
	if err != nil {
		return fmt.Errorf("capture %s: %w", id, err)
	}

	out := snapshotOut
	if out == "" {
		out = id + ".json.zst"
	}
	if err := snapshot.WriteFile(out, snap); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}

	logger.Info().
		Str("tournament_id", id).
		Int("teams", len(snap.Teams)).
		Int("sessions", len(snap.Sessions)).
		Int("remaining_requests", client.RateLimit().Remaining).
		Msg("snapshot written")
	fmt.Fprintf(os.Stdout, "Wrote %s (%d teams, %d sessions)\n", out, len(snap.Teams), len(snap.Sessions))
	return nil
}
