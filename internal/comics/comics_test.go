package comics

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/brogergvhs/comicmail/internal/providers"
	"github.com/brogergvhs/comicmail/internal/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var newYear = providers.Date{Year: 2024, Month: time.January, Day: 1}

// fakeSite resolves every known comic to "img://{comic}" on
// "page://{comic}" and can be told to miss or stall on some of them.
type fakeSite struct {
	mu     sync.Mutex
	seen   []string
	missOn map[string]bool
	delay  map[string]time.Duration
}

func (f *fakeSite) Resolve(_ context.Context, kind providers.Kind, comic string, _ providers.Date) providers.Resolution {
	f.mu.Lock()
	f.seen = append(f.seen, comic)
	f.mu.Unlock()

	time.Sleep(f.delay[comic])

	if !kind.Known() {
		return providers.Invalid(kind)
	}
	page := "page://" + comic
	if f.missOn[comic] {
		return providers.NotFound(page, "not found!")
	}

	return providers.Located(page, "img://"+comic)
}

type fakeFetcher struct {
	failOn   map[string]bool
	referers sync.Map
}

func (f *fakeFetcher) Fetch(_ context.Context, imageURL, referer string) (providers.Image, error) {
	f.referers.Store(imageURL, referer)
	if f.failOn[imageURL] {
		return providers.Image{}, errors.New("HTTP 500")
	}

	return providers.Image{Data: []byte(imageURL), Subtype: "gif", Extension: "gif"}, nil
}

func TestRun_OutcomesFollowEntries(t *testing.T) {
	site := &fakeSite{missOn: map[string]bool{"garfield": true}}
	fetch := &fakeFetcher{failOn: map[string]bool{"img://pearls": true}}
	stats := &ui.Stats{}
	r := &Runner{Resolver: site, Fetcher: fetch, Stats: stats}

	entries := []Entry{
		{Name: "calvinandhobbes", Site: providers.GoComics},
		{Name: "doesnotexist", Site: "madeupSite"},
		{Name: "garfield", Site: providers.GoComics},
		{Name: "pearls", Site: providers.GoComics},
		{Name: "hagar", Site: providers.ComicsKingdom},
	}

	out := r.Run(context.Background(), entries, newYear)
	require.Len(t, out, 5)

	assert.True(t, out[0].OK())
	assert.Equal(t, "calvinandhobbes-2024-01-01.gif", out[0].Filename())
	assert.Equal(t, "page://calvinandhobbes", out[0].PageURL)

	assert.False(t, out[1].OK())
	assert.Empty(t, out[1].PageURL)
	assert.Equal(t, "invalid site: madeupSite", out[1].Message)

	assert.False(t, out[2].OK())
	assert.Equal(t, "page://garfield", out[2].PageURL)
	assert.Equal(t, "page://garfield not found!", out[2].Message)

	assert.False(t, out[3].OK())
	assert.Equal(t, "img://pearls download failed: HTTP 500", out[3].Message)

	assert.True(t, out[4].OK(), "entries after failures still run")

	ok, failed := Count(out)
	assert.Equal(t, 2, ok)
	assert.Equal(t, 3, failed)
	assert.EqualValues(t, 5, stats.TotalComics.Load())
	assert.EqualValues(t, 2, stats.TotalImages.Load())
	assert.EqualValues(t, 3, stats.TotalFailures.Load())

	assert.Equal(t, []string{"calvinandhobbes", "doesnotexist", "garfield", "pearls", "hagar"}, site.seen)

	ref, _ := fetch.referers.Load("img://calvinandhobbes")
	assert.Equal(t, "page://calvinandhobbes", ref)
}

func TestRun_ConcurrentKeepsOrder(t *testing.T) {
	site := &fakeSite{delay: map[string]time.Duration{
		"a": 40 * time.Millisecond,
		"b": 20 * time.Millisecond,
	}}
	r := &Runner{Resolver: site, Fetcher: &fakeFetcher{}, Workers: 3}

	entries := []Entry{
		{Name: "a", Site: providers.GoComics},
		{Name: "b", Site: providers.GoComics},
		{Name: "c", Site: providers.GoComics},
	}

	out := r.Run(context.Background(), entries, newYear)
	require.Len(t, out, 3)
	for i, want := range []string{"a", "b", "c"} {
		assert.Equal(t, want, out[i].Comic)
		assert.True(t, out[i].OK())
	}
}

func TestRun_CancelledContextSkipsEntries(t *testing.T) {
	site := &fakeSite{}
	r := &Runner{Resolver: site, Fetcher: &fakeFetcher{}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := r.Run(ctx, []Entry{{Name: "garfield", Site: providers.GoComics}}, newYear)
	require.Len(t, out, 1)
	assert.False(t, out[0].OK())
	assert.Contains(t, out[0].Message, "garfield skipped")
	assert.Empty(t, site.seen)
}

func TestRun_NoEntries(t *testing.T) {
	r := &Runner{Resolver: &fakeSite{}, Fetcher: &fakeFetcher{}}

	assert.Empty(t, r.Run(context.Background(), nil, newYear))
}

func TestFilenameBase(t *testing.T) {
	assert.Equal(t, "adamathome-2024-01-01", FilenameBase("adamathome", newYear))
	assert.Equal(t, "a_b-2024-01-01", FilenameBase("a/b", newYear))
	assert.Equal(t, "comic-2024-01-01", FilenameBase("  ", newYear))
}

func TestFilter(t *testing.T) {
	all := []Entry{{Name: "a"}, {Name: "b"}, {Name: "c"}}

	assert.Equal(t, all, Filter(all, ""))
	assert.Equal(t, []Entry{{Name: "a"}, {Name: "c"}}, Filter(all, "c, a"))
	assert.Empty(t, Filter(all, "zzz"))
	assert.Equal(t, []string{"zzz"}, Missing(all, "a,zzz"))
	assert.Nil(t, Missing(all, "a"))
}
