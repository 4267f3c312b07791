package main

import (
	"github.com/spf13/cobra"

	"github.com/dgnsrekt/says/say"
)

var listModelsCmd = &cobra.Command{
	Use:   "list-models",
	Short: "List the models the TTS backend offers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		controller, err := newController()
		if err != nil {
			return err
		}
		defer controller.Shutdown()

		models, err := controller.ListModels(cmd.Context())
		if err != nil {
			return err
		}

		items := make([]say.Item, 0, len(models))
		for _, m := range models {
			items = append(items, m.Item())
		}
		return writeResponse(items)
	},
}

var listSpeakersCmd = &cobra.Command{
	Use:   "list-speakers [MODEL]",
	Short: "List the speakers of a model",
	Long:  paragraph("\nList the speakers of the given model, or of the saved profile's model when no argument is passed."),
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		controller, err := newController()
		if err != nil {
			return err
		}
		defer controller.Shutdown()

		model := ""
		if len(args) == 1 {
			model = args[0]
		} else if profile, err := controller.Profiles().Load(); err == nil && profile != nil {
			model = profile.Model
		}

		speakers, err := controller.ListSpeakers(cmd.Context(), model)
		if err != nil {
			return err
		}

		if len(speakers) == 0 {
			// Single-speaker models report no speaker index at all.
			return writeResponse([]say.Item{{Title: "default speaker"}})
		}

		items := make([]say.Item, 0, len(speakers))
		for _, s := range speakers {
			items = append(items, say.Item{Title: s, Arg: s})
		}
		return writeResponse(items)
	},
}
