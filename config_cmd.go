package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/charmbracelet/x/editor"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultConfig = `# Synthesis backend
backend:
  # Path to the TTS executable, on this machine or on the remote host.
  executable: ""
  # SSH host alias for remote synthesis. Empty, "localhost" or "127.0.0.1"
  # runs the backend locally.
  host: ""
  # Inference device. Anything other than "cpu" enables the CUDA flag.
  device: "cpu"

# Audio playback
playback:
  # Player tried first.
  preferred: "afplay"
  # preferred_args: []
  # Player tried exactly once when the preferred one fails.
  fallback: "mpv"
  # fallback_args: []
  # Optional ffmpeg-compatible converter run before playback.
  # transcoder: "ffmpeg"
  timeout: "10m"

# Synthesized audio artifacts
artifact:
  # dir: ""          # defaults to the platform cache directory
  # "replace" keeps a single overwritten file; "archive" retains
  # superseded artifacts compressed, pruned by count and age.
  retention: "replace"
  max_archived: 20
  max_age: "168h"
  compression_level: 3

# Upper bound for one synthesis invocation, including the SSH round trip.
synthesis_timeout: "3m"
# Upper bound for metadata queries such as list-models.
query_timeout: "2m"
`

var configCmd = &cobra.Command{
	Use:     "config",
	Short:   "Edit the says config file",
	Long:    paragraph(fmt.Sprintf("\n%s the says config file. We’ll use EDITOR to determine which editor to use. If the config file doesn't exist, it will be created.", keyword("Edit"))),
	Example: paragraph("says config\nsays config --config path/to/says.yml"),
	Args:    cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		if err := ensureConfigFile(); err != nil {
			return err
		}

		c, err := editor.Cmd("says", configFile)
		if err != nil {
			return fmt.Errorf("unable to set config file: %w", err)
		}
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		if err := c.Run(); err != nil {
			return fmt.Errorf("unable to run command: %w", err)
		}

		fmt.Println("Wrote config file to:", configFile)
		return nil
	},
}

func ensureConfigFile() error {
	if configFile == "" {
		configFile = viper.GetViper().ConfigFileUsed()
		if err := os.MkdirAll(filepath.Dir(configFile), 0o755); err != nil {
			return fmt.Errorf("could not write configuration file: %w", err)
		}
	}

	if ext := path.Ext(configFile); ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("'%s' is not a supported configuration type: use '%s' or '%s'", ext, ".yaml", ".yml")
	}

	if _, err := os.Stat(configFile); errors.Is(err, fs.ErrNotExist) {
		// File doesn't exist yet, create all necessary directories and
		// write the default config file
		if err := os.MkdirAll(filepath.Dir(configFile), 0o700); err != nil {
			return fmt.Errorf("unable create directory: %w", err)
		}

		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("unable to create config file: %w", err)
		}
		defer func() { _ = f.Close() }()

		if _, err := f.WriteString(defaultConfig); err != nil {
			return fmt.Errorf("unable to write config file: %w", err)
		}
	} else if err != nil { // some other error occurred
		return fmt.Errorf("unable to stat config file: %w", err)
	}
	return nil
}
