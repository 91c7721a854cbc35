package comics

import (
	"context"
	"fmt"
	"sync"

	"github.com/brogergvhs/comicmail/internal/providers"
	"github.com/brogergvhs/comicmail/internal/ui"
)

type Resolver interface {
	Resolve(ctx context.Context, kind providers.Kind, comic string, date providers.Date) providers.Resolution
}

type Fetcher interface {
	Fetch(ctx context.Context, imageURL, referer string) (providers.Image, error)
}

// Runner turns configured entries into outcomes. Progress and Stats are
// optional.
type Runner struct {
	Resolver Resolver
	Fetcher  Fetcher
	Log      *ui.Logger
	Progress *ui.ProgressManager
	Stats    *ui.Stats
	Workers  int
}

// Run processes every entry and returns one outcome per entry, in entry
// order. A failing entry never stops the others.
func (r *Runner) Run(ctx context.Context, entries []Entry, date providers.Date) []Outcome {
	out := make([]Outcome, len(entries))

	workers := max(1, r.Workers)
	if workers == 1 {
		for i, e := range entries {
			out[i] = r.one(ctx, e, date)
		}
		return out
	}

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i, e := range entries {
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			out[i] = r.one(ctx, e, date)
		}()
	}
	wg.Wait()

	return out
}

func (r *Runner) one(ctx context.Context, e Entry, date providers.Date) Outcome {
	log := r.logger().With("comic", e.Name)
	h := r.Progress.Register(e.Name)

	if err := ctx.Err(); err != nil {
		h.Finish("skipped", 0)
		r.Stats.Record(false, 0)
		return Failed(e.Name, "", fmt.Sprintf("%s skipped: %v", e.Name, err))
	}

	log.Debugf("resolving on %s", e.Site)
	res := r.Resolver.Resolve(ctx, e.Site, e.Name, date)
	if !res.Found {
		log.Infof("no strip: %s", res.Note)
		h.Finish("failed", 0)
		r.Stats.Record(false, 0)
		return Failed(e.Name, res.PageURL, res.Note)
	}
	h.Step("image")

	img, err := r.Fetcher.Fetch(ctx, res.ImageURL, res.PageURL)
	if err != nil {
		log.Infof("download failed: %v", err)
		h.Finish("failed", 0)
		r.Stats.Record(false, 0)
		return Failed(e.Name, res.PageURL, fmt.Sprintf("%s download failed: %v", res.ImageURL, err))
	}

	size := int64(len(img.Data))
	h.Finish("ok", size)
	r.Stats.Record(true, size)

	return Succeeded(e.Name, res.PageURL, FilenameBase(e.Name, date), img)
}

func (r *Runner) logger() *ui.Logger {
	if r.Log == nil {
		return ui.Nop()
	}

	return r.Log
}
