// Package scheduler runs a job on a cron expression until its context is
// cancelled.
package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/brogergvhs/comicmail/internal/ui"

	cronlib "github.com/robfig/cron/v3"
)

var parser = cronlib.NewParser(cronlib.Minute | cronlib.Hour | cronlib.Dom | cronlib.Month | cronlib.Dow | cronlib.Descriptor)

// Parse accepts five-field expressions and descriptors such as @daily.
func Parse(expr string) (cronlib.Schedule, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, fmt.Errorf("empty schedule")
	}

	sched, err := parser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", expr, err)
	}

	return sched, nil
}

// Next is the first activation of expr strictly after from.
func Next(expr string, from time.Time) (time.Time, error) {
	sched, err := Parse(expr)
	if err != nil {
		return time.Time{}, err
	}

	return sched.Next(from), nil
}

// Run blocks until ctx is done. Overlapping activations are skipped, and
// the job in flight, if any, is allowed to finish before Run returns.
func Run(ctx context.Context, expr string, loc *time.Location, log *ui.Logger, job func(context.Context)) error {
	sched, err := Parse(expr)
	if err != nil {
		return err
	}
	if loc == nil {
		loc = time.Local
	}

	c := cronlib.New(
		cronlib.WithLocation(loc),
		cronlib.WithChain(cronlib.SkipIfStillRunning(cronlib.DiscardLogger)),
	)
	c.Schedule(sched, cronlib.FuncJob(func() {
		job(ctx)
		log.Infof("next run at %s", sched.Next(time.Now().In(loc)).Format(time.DateTime))
	}))

	c.Start()
	log.Infof("scheduled %q, next run at %s", expr, sched.Next(time.Now().In(loc)).Format(time.DateTime))

	<-ctx.Done()
	<-c.Stop().Done()

	return nil
}
