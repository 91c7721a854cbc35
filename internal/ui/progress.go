package ui

import (
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/brogergvhs/comicmail/internal/util"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// Each comic takes two steps: the page, then the image.
const stepsPerComic = 2

type ProgressManager struct {
	p *mpb.Progress
}

// NewProgressManager draws bars on w. A disabled manager hands out
// handles that do nothing.
func NewProgressManager(w io.Writer, enabled bool) *ProgressManager {
	if !enabled {
		return &ProgressManager{}
	}

	p := mpb.New(
		mpb.WithWidth(32),
		mpb.WithOutput(w),
		mpb.WithRefreshRate(120*time.Millisecond),
	)

	return &ProgressManager{p: p}
}

func (pm *ProgressManager) Close() {
	if pm == nil || pm.p == nil {
		return
	}

	pm.p.Wait()
}

func (pm *ProgressManager) Register(name string) *ProgressHandle {
	h := &ProgressHandle{name: name, start: time.Now()}
	h.status.Store("queued")

	if pm == nil || pm.p == nil {
		return h
	}

	h.bar = pm.p.New(
		stepsPerComic,
		mpb.BarStyle().Rbound("]"),

		mpb.PrependDecorators(
			decor.Name(name+"  ", decor.WCSyncSpaceR),
		),

		mpb.AppendDecorators(
			decor.Any(func(_ decor.Statistics) string {
				return " " + h.Status()
			}, decor.WCSyncWidthR),
			decor.Any(func(_ decor.Statistics) string {
				if n := h.bytes.Load(); n > 0 {
					return " | " + util.Human(n)
				}
				return ""
			}),
			decor.Any(func(_ decor.Statistics) string {
				if h.final.Load() {
					return fmt.Sprintf(" | %dms", h.elapsed.Load())
				}
				return fmt.Sprintf(" | %dms", time.Since(h.start).Milliseconds())
			}),
		),
	)

	return h
}

type ProgressHandle struct {
	name  string
	bar   *mpb.Bar
	start time.Time

	status  atomic.Value
	bytes   atomic.Int64
	elapsed atomic.Int64
	final   atomic.Bool
}

// Step marks one step done and shows status next to the bar.
func (h *ProgressHandle) Step(status string) {
	if h.final.Load() {
		return
	}

	h.status.Store(status)
	if h.bar != nil {
		h.bar.Increment()
	}
}

// Finish completes the bar, whatever steps were skipped.
func (h *ProgressHandle) Finish(status string, bytes int64) {
	if h.final.Swap(true) {
		return
	}

	h.status.Store(status)
	h.bytes.Store(bytes)
	h.elapsed.Store(time.Since(h.start).Milliseconds())

	if h.bar != nil {
		h.bar.SetCurrent(stepsPerComic)
		h.bar.SetTotal(stepsPerComic, true)
	}
}

// Status reports the last status text.
func (h *ProgressHandle) Status() string {
	return h.status.Load().(string)
}
