// Package main provides the entry point for the says CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/dgnsrekt/says/internal/artifact"
	"github.com/dgnsrekt/says/say"
	"github.com/dgnsrekt/says/utils"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile string
	hostFlag   string
	deviceFlag string
	ttsFlag    string

	rootCmd = &cobra.Command{
		Use:   "says [MESSAGE]",
		Short: "Speak text through a local or remote TTS backend",
		Long: paragraph(fmt.Sprintf(
			"\nSynthesize %s on this machine or a GPU host over SSH, play it locally, and replay the last result without resynthesizing.",
			keyword("speech"),
		)),
		SilenceErrors:    false,
		SilenceUsage:     true,
		TraverseChildren: true,
		Args:             cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runSpeak(strings.Join(args, " "))
		},
	}
)

// loadConfig builds the effective configuration: defaults, then the yaml
// config file via viper, then the launcher's environment variables on top.
func loadConfig() (say.Config, error) {
	cfg, err := say.LoadConfigFromViper()
	if err != nil {
		return cfg, err
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("error parsing environment: %w", err)
	}

	cfg.Backend.Executable = utils.ExpandPath(cfg.Backend.Executable)
	if cfg.Artifact.Dir == "" {
		dir, err := appScope().CacheDir()
		if err != nil {
			return cfg, fmt.Errorf("unable to resolve cache directory: %w", err)
		}
		cfg.Artifact.Dir = dir
	} else {
		cfg.Artifact.Dir = utils.ExpandPath(cfg.Artifact.Dir)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// newController assembles the controller and its stateful boundaries from
// the effective configuration.
func newController() (*say.Controller, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	artifacts, err := artifact.NewStore(cfg.Artifact.Dir, artifact.Options{
		Archive:          cfg.Artifact.Retention == say.RetentionArchive,
		MaxArchived:      cfg.Artifact.MaxArchived,
		MaxAge:           cfg.Artifact.MaxAge,
		CompressionLevel: cfg.Artifact.CompressionLevel,
	})
	if err != nil {
		return nil, err
	}

	profilePath, err := appScope().DataPath("profile.json")
	if err != nil {
		return nil, fmt.Errorf("unable to resolve data directory: %w", err)
	}

	return say.NewController(cfg, artifacts, say.NewProfileStore(profilePath), newNotifier()), nil
}

// newNotifier picks the output boundary: plain text on a terminal,
// script-filter JSON when the launcher captures stdout.
func newNotifier() say.Notifier {
	if term.IsTerminal(int(os.Stdout.Fd())) {
		return say.NewTextNotifier(os.Stdout)
	}
	return say.NewScriptFilterNotifier(os.Stdout)
}

// writeResponse renders items in the same boundary-appropriate format.
func writeResponse(items []say.Item) error {
	if term.IsTerminal(int(os.Stdout.Fd())) {
		for _, item := range items {
			if item.Subtitle != "" {
				fmt.Printf("%s\t%s\n", item.Title, item.Subtitle)
			} else {
				fmt.Println(item.Title)
			}
		}
		return nil
	}
	return say.Response{Items: items}.WriteTo(os.Stdout)
}

func appScope() *gap.Scope {
	return gap.NewScope(gap.User, "says")
}

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		_ = closer()
		os.Exit(1)
	}
	_ = closer()
}

func init() {
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	rootCmd.PersistentFlags().StringVar(&hostFlag, "host", "", "SSH host alias for remote synthesis")
	rootCmd.PersistentFlags().StringVar(&deviceFlag, "device", "", "inference device (cpu or a CUDA device)")
	rootCmd.PersistentFlags().StringVar(&ttsFlag, "tts", "", "path to the TTS backend executable")

	_ = viper.BindPFlag("backend.host", rootCmd.PersistentFlags().Lookup("host"))
	_ = viper.BindPFlag("backend.device", rootCmd.PersistentFlags().Lookup("device"))
	_ = viper.BindPFlag("backend.executable", rootCmd.PersistentFlags().Lookup("tts"))

	viper.SetDefault("artifact.retention", string(say.RetentionReplace))

	rootCmd.AddCommand(
		playAgainCmd,
		historyCmd,
		listModelsCmd,
		listSpeakersCmd,
		saveProfileCmd,
		checkProfileCmd,
		configCmd,
		manCmd,
	)
}

func tryLoadConfigFromDefaultPlaces() {
	scope := appScope()
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not find the configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "says")}, dirs...)
	}

	if c := os.Getenv("SAYS_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("says")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("says")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", used)
		return
	}

	if viper.ConfigFileUsed() == "" {
		configFile = filepath.Join(dirs[0], "says.yml")
	}
}
