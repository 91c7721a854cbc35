package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/brogergvhs/comicmail/internal/config"
	"github.com/brogergvhs/comicmail/internal/providers"
	"github.com/brogergvhs/comicmail/internal/scheduler"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

var flagForceInit bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or create comicmail config files",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Validate the config given with -c and print it",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Loaded config from:\n  %s\n\n", flagConfig)
		cfg.Print(out)

		if next, err := scheduler.Next(cfg.Schedule, time.Now()); err != nil {
			fmt.Fprintf(out, "\nwarning: %v\n", err)
		} else {
			fmt.Fprintf(out, " -next_daemon_run: %s\n", next.Format(time.DateTime))
		}

		for _, s := range cfg.UnknownSites() {
			fmt.Fprintf(out, "\nwarning: site %q is not supported\n", s)
		}
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Interactively create a starter config (default comicmail.yaml)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "comicmail.yaml"
		if len(args) == 1 {
			path = args[0]
		}

		if _, err := os.Stat(path); err == nil && !flagForceInit {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}

		cfg, err := promptConfig()
		if err != nil {
			return err
		}

		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := config.Save(cfg, path); err != nil {
			return fmt.Errorf("failed to write config file: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Config created at:", path)
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&flagForceInit, "force", false, "overwrite an existing file")
	configCmd.AddCommand(configShowCmd, configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func promptConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()

	to, err := (&promptui.Prompt{
		Label:    "Send to (comma separated)",
		Validate: config.CheckAddressList,
	}).Run()
	if err != nil {
		return nil, fmt.Errorf("prompt cancelled: %w", err)
	}
	for _, a := range strings.Split(to, ",") {
		if a = strings.TrimSpace(a); a != "" {
			cfg.MailTo = append(cfg.MailTo, a)
		}
	}

	from, err := (&promptui.Prompt{
		Label:    "Send from",
		Validate: config.CheckAddress,
	}).Run()
	if err != nil {
		return nil, fmt.Errorf("prompt cancelled: %w", err)
	}
	cfg.MailFrom = strings.TrimSpace(from)

	for {
		name, err := (&promptui.Prompt{
			Label: "Comic id (empty to finish)",
		}).Run()
		if err != nil {
			return nil, fmt.Errorf("prompt cancelled: %w", err)
		}
		name = strings.TrimSpace(name)
		if name == "" {
			break
		}

		sitesList := []string{string(providers.GoComics), string(providers.ComicsKingdom), string(providers.Dilbert)}
		_, site, err := (&promptui.Select{
			Label: "Site for " + name,
			Items: sitesList,
		}).Run()
		if err != nil {
			return nil, fmt.Errorf("selection cancelled: %w", err)
		}

		cfg.Comics = append(cfg.Comics, config.Comic{Name: name, Site: site})
	}

	if len(cfg.Comics) == 0 {
		return nil, errors.New("no comics entered")
	}

	return cfg, nil
}
