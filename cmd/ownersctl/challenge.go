package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"owners-health-api/internal/syncproto"
)

var challengeCmd = &cobra.Command{
	Use:       "challenge <review|scan|price> <id>",
	Short:     "Issue a sync challenge and print its token",
	Long:      "Issues a fresh challenge for an entity (review, scan) or a linked item (price). Any earlier token for the same record stops being accepted.",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"review", "scan", "price"},
	RunE:      runChallenge,
}

func init() {
	rootCmd.AddCommand(challengeCmd)
}

func runChallenge(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("invalid id %q", args[1])
	}

	store, cfg, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	svc := syncproto.NewService(store, syncproto.Options{NonceBytes: cfg.Sync.NonceBytes}, newLogger())
	ctx := cmd.Context()

	var ch *syncproto.Challenge
	switch syncproto.Channel(args[0]) {
	case syncproto.ChannelReview:
		ch, err = svc.IssueReview(ctx, id)
	case syncproto.ChannelScan:
		ch, err = svc.IssueScan(ctx, id)
	case syncproto.ChannelPrice:
		ch, err = svc.IssuePrice(ctx, id)
	default:
		return fmt.Errorf("unknown channel %q", args[0])
	}
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), ch)
}
