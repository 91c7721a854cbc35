package cmd

import (
	"fmt"
	"os"

	"github.com/brogergvhs/comicmail/internal/config"
	"github.com/brogergvhs/comicmail/internal/ui"

	"github.com/spf13/cobra"
)

var (
	flagConfig  string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "comicmail",
	Short: "Mail today's comic strips in a single message",
	Long: "Fetches the strips listed in the config for one day and sends them as\n" +
		"attachments of a single email, with a text part listing the pages and\n" +
		"any comics that could not be fetched.",
	SilenceUsage: true,
	RunE:         runMail,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "config file (YAML or JSON)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "print diagnostics to stderr")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	if flagConfig == "" {
		return nil, fmt.Errorf("missing -c/--config")
	}

	return config.Load(flagConfig)
}

func newLogger() *ui.Logger {
	return ui.NewLogger(flagVerbose)
}
