package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/fixspelling/fixspell/internal/api"
	"github.com/fixspelling/fixspell/internal/home"
	"github.com/fixspelling/fixspell/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "fixspell",
	Short: "Grammar and spelling correction backed by a hosted language model",
	Long: `fixspell corrects grammar, spelling, punctuation and clarity in short texts.

The server validates each request, asks the configured model for a corrected
text plus a brief explanation, and streams the structured result back as it
is generated. The api commands are a client for a running server.`,
	Version:       version.GitRelease,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.fixspell/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "fixspell home directory (default: ~/.fixspell)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)

	// Set output format and load .env files before any command runs
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := api.SetOutputFormat(outputFormat); err != nil {
			return err
		}
		return loadEnv()
	}

	rootCmd.AddCommand(versionCmd)
}

// loadEnv loads ./.env and then <home>/.env. Variables already set in the
// environment win, and missing files are skipped.
func loadEnv() error {
	h, err := getHome()
	if err != nil {
		return err
	}
	for _, path := range []string{home.EnvFileName, h.EnvPath()} {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}

func getHome() (*home.Dir, error) {
	return home.New(homeDir)
}

// getHomeDir returns the --home flag at runtime (after flag parsing).
func getHomeDir() string {
	return homeDir
}
