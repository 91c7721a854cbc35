package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/brogergvhs/comicmail/internal/config"
	"github.com/brogergvhs/comicmail/internal/scheduler"
	"github.com/brogergvhs/comicmail/internal/util"

	"github.com/spf13/cobra"
)

var (
	flagSchedule string
	flagTimezone string
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Stay running and send the mail on a cron schedule",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		expr := cfg.Schedule
		if flagSchedule != "" {
			expr = flagSchedule
		}

		loc := time.Local
		if flagTimezone != "" {
			loc, err = time.LoadLocation(flagTimezone)
			if err != nil {
				return fmt.Errorf("invalid --tz: %w", err)
			}
		}

		log := newLogger()
		opts := currentRunOptions()
		opts.Progress = false

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		stop := util.SetupInterruptHandler(cancel)
		defer stop()

		return scheduler.Run(ctx, expr, loc, log, func(ctx context.Context) {
			if err := runOnce(ctx, cfg, opts, log, cmd.OutOrStdout()); err != nil {
				log.Errorf("run failed: %v", err)
			}
		})
	},
}

func init() {
	addRunFlags(daemonCmd)
	daemonCmd.Flags().StringVar(&flagSchedule, "schedule", "", "cron expression (default: config schedule, or "+config.DefaultSchedule+")")
	daemonCmd.Flags().StringVar(&flagTimezone, "tz", "", "time zone for the schedule (default local)")
	rootCmd.AddCommand(daemonCmd)
}
