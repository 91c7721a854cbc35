package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/brogergvhs/comicmail/internal/comics"
	"github.com/brogergvhs/comicmail/internal/config"
	"github.com/brogergvhs/comicmail/internal/downloader"
	"github.com/brogergvhs/comicmail/internal/mailer"
	"github.com/brogergvhs/comicmail/internal/providers"
	"github.com/brogergvhs/comicmail/internal/providers/sites"
	"github.com/brogergvhs/comicmail/internal/ui"
	"github.com/brogergvhs/comicmail/internal/util"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	flagBackDays   int
	flagOnly       string
	flagDryRun     bool
	flagOutput     string
	flagWorkers    int
	flagNoProgress bool
)

func init() {
	addRunFlags(rootCmd)
	rootCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "fetch everything but do not send the mail")
	rootCmd.Flags().StringVar(&flagOutput, "output", "", "write the mail as .eml to this file instead of sending it")
}

func addRunFlags(c *cobra.Command) {
	c.Flags().IntVarP(&flagBackDays, "back", "b", 0, "fetch the strips from N days before today")
	c.Flags().StringVar(&flagOnly, "only", "", "comma separated comic names to fetch (default: all)")
	c.Flags().IntVar(&flagWorkers, "workers", 0, "comics fetched in parallel (default from config)")
	c.Flags().BoolVar(&flagNoProgress, "no-progress", false, "disable progress bars")
}

type runOptions struct {
	BackDays int
	Only     string
	DryRun   bool
	Output   string
	Workers  int
	Progress bool
}

func runMail(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log := newLogger()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	stop := util.SetupInterruptHandler(cancel)
	defer stop()

	return runOnce(ctx, cfg, currentRunOptions(), log, cmd.OutOrStdout())
}

func currentRunOptions() runOptions {
	return runOptions{
		BackDays: flagBackDays,
		Only:     flagOnly,
		DryRun:   flagDryRun,
		Output:   flagOutput,
		Workers:  flagWorkers,
		Progress: !flagNoProgress && !flagVerbose && ui.IsTerminal(os.Stderr),
	}
}

// runOnce is one complete run: resolve and fetch every selected comic,
// then compose and send the mail. Only configuration and transport
// problems are returned as errors.
func runOnce(ctx context.Context, cfg *config.Config, opts runOptions, log *ui.Logger, out io.Writer) error {
	if opts.BackDays < 0 {
		return fmt.Errorf("--back must not be negative, got %d", opts.BackDays)
	}

	log = log.With("run", uuid.NewString()[:8])
	date := providers.DaysBack(time.Now(), opts.BackDays)

	all := cfg.Entries()
	entries := comics.Filter(all, opts.Only)
	if missing := comics.Missing(all, opts.Only); len(missing) > 0 {
		log.Warnf("not in config: %s", strings.Join(missing, ", "))
	}
	if len(entries) == 0 {
		return fmt.Errorf("no comics selected")
	}
	for _, s := range cfg.UnknownSites() {
		log.Warnf("site %q is not supported, its comics will be listed as failures", s)
	}

	workers := cfg.Workers
	if opts.Workers > 0 {
		workers = opts.Workers
	}

	client := util.NewHTTPClient(util.HTTPClientOptions{
		Timeout:          cfg.HTTP.Timeout,
		UserAgent:        util.PickUserAgent(cfg.HTTP.UserAgent),
		CloudflareBypass: cfg.HTTP.CloudflareBypass,
		DebugLogger:      log,
	})

	pm := ui.NewProgressManager(os.Stderr, opts.Progress)
	stats := &ui.Stats{}
	runner := &comics.Runner{
		Resolver: sites.NewDispatcher(client, log),
		Fetcher:  downloader.New(client, log, cfg.HTTP.Timeout),
		Log:      log,
		Progress: pm,
		Stats:    stats,
		Workers:  workers,
	}

	log.Infof("fetching %d comics for %s", len(entries), date)
	start := time.Now()
	outcomes := runner.Run(ctx, entries, date)
	pm.Close()

	printSummary(out, stats, time.Since(start))

	if opts.DryRun {
		printOutcomes(out, outcomes)
		return nil
	}

	msg := mailer.Compose(outcomes, date, cfg.MailFrom, cfg.MailTo)

	sender, err := pickSender(cfg, opts)
	if err != nil {
		return err
	}

	return send(ctx, sender, msg, cfg.Transport.Timeout, log)
}

func pickSender(cfg *config.Config, opts runOptions) (mailer.Sender, error) {
	if opts.Output != "" {
		return mailer.File{Path: opts.Output}, nil
	}

	return mailer.NewSender(cfg.Transport)
}

// send ignores cancellation of the run: an interrupted run still mails
// what it has.
func send(ctx context.Context, sender mailer.Sender, msg *mailer.Message, timeout time.Duration, log *ui.Logger) error {
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	if err := sender.Send(sendCtx, msg); err != nil {
		log.Errorf("failed to send mail: %v", err)
		return fmt.Errorf("send mail: %w", err)
	}

	log.Infof("mail %q sent to %s (%d images)", msg.Subject, strings.Join(msg.To, ", "), len(msg.Attachments))
	return nil
}

func printSummary(w io.Writer, stats *ui.Stats, elapsed time.Duration) {
	fmt.Fprintln(w, "Summary:")
	fmt.Fprintf(w, "Comics:   %d\n", stats.TotalComics.Load())
	fmt.Fprintf(w, "Images:   %d\n", stats.TotalImages.Load())
	fmt.Fprintf(w, "Failures: %d\n", stats.TotalFailures.Load())
	fmt.Fprintf(w, "Data:     %s\n", util.Human(stats.TotalBytes.Load()))
	fmt.Fprintf(w, "Time:     %s\n", elapsed.Round(time.Millisecond))
}

func printOutcomes(w io.Writer, outcomes []comics.Outcome) {
	tw := tabwriter.NewWriter(w, 0, 0, 4, ' ', 0)
	_, _ = fmt.Fprintln(tw, "\nCOMIC\tRESULT\tPAGE")

	for _, o := range outcomes {
		result := o.Filename()
		if !o.OK() {
			result = "failed: " + o.Message
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", o.Comic, result, o.PageURL)
	}

	if err := tw.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to flush table output: %v\n", err)
	}
}
