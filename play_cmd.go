package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/dgnsrekt/says/say"
)

var playAgainCmd = &cobra.Command{
	Use:     "play-again [JOB-ID]",
	Aliases: []string{"play-result"},
	Short:   "Replay the last synthesized result without resynthesizing",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		controller, err := newController()
		if err != nil {
			return err
		}
		defer controller.Shutdown()

		if len(args) == 1 {
			_ = controller.PlayArchived(cmd.Context(), args[0])
			return nil
		}
		_ = controller.PlayAgain(cmd.Context())
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List archived results (archive retention only)",
	Args:  cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		controller, err := newController()
		if err != nil {
			return err
		}
		defer controller.Shutdown()

		entries := controller.History()
		if len(entries) == 0 {
			fmt.Println("No archived results.")
			return nil
		}

		items := make([]say.Item, 0, len(entries))
		for _, e := range entries {
			items = append(items, say.Item{
				UID:   e.ID,
				Title: e.ID,
				Subtitle: fmt.Sprintf("%s | %s on disk | %s",
					humanize.Time(e.CreatedAt),
					humanize.Bytes(uint64(e.Size)),
					humanize.Bytes(uint64(e.OriginalSize))+" raw"),
				Arg: e.ID,
			})
		}
		return writeResponse(items)
	},
}
