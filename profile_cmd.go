package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dgnsrekt/says/say"
)

var profileSpeaker string

var saveProfileCmd = &cobra.Command{
	Use:   "save-profile MODEL",
	Short: "Save the model (and optionally speaker) to synthesize with",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		controller, err := newController()
		if err != nil {
			return err
		}
		defer controller.Shutdown()

		profile := say.Profile{Model: args[0], Speaker: profileSpeaker}
		if err := controller.Profiles().Save(profile); err != nil {
			return err
		}
		fmt.Println("Saved profile:", profile.Model)
		return nil
	},
}

var checkProfileCmd = &cobra.Command{
	Use:   "check-profile",
	Short: "Show the saved model and speaker",
	Args:  cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		controller, err := newController()
		if err != nil {
			return err
		}
		defer controller.Shutdown()

		profile, err := controller.Profiles().Load()
		if err != nil {
			return err
		}
		return writeResponse(profile.Items())
	},
}

func init() {
	saveProfileCmd.Flags().StringVar(&profileSpeaker, "speaker", "", "speaker index within the model")
}
