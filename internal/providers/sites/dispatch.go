package sites

import (
	"context"
	"net/http"

	"github.com/brogergvhs/comicmail/internal/providers"
	"github.com/brogergvhs/comicmail/internal/ui"
)

// Dispatcher routes a comic to the adapter for its site.
type Dispatcher struct {
	goComics      providers.Adapter
	comicsKingdom providers.Adapter
	dilbert       providers.Adapter
}

type Option func(*options)

type options struct {
	bases map[providers.Kind]string
}

// WithBaseURL points the adapter for kind at another host. Tests use it to
// aim adapters at an httptest server.
func WithBaseURL(kind providers.Kind, base string) Option {
	return func(o *options) {
		o.bases[kind] = base
	}
}

func NewDispatcher(client *http.Client, log *ui.Logger, opts ...Option) *Dispatcher {
	if log == nil {
		log = ui.Nop()
	}

	o := &options{bases: map[providers.Kind]string{
		providers.GoComics:      goComicsBase,
		providers.ComicsKingdom: comicsKingdomBase,
		providers.Dilbert:       dilbertBase,
	}}
	for _, opt := range opts {
		opt(o)
	}

	p := pages{client: client, log: log}

	return &Dispatcher{
		goComics:      newGoComics(p, o.bases[providers.GoComics]),
		comicsKingdom: newComicsKingdom(p, o.bases[providers.ComicsKingdom]),
		dilbert:       newDilbert(p, o.bases[providers.Dilbert]),
	}
}

// Resolve never fails outright: an unknown kind comes back as a
// Resolution whose note names the site.
func (d *Dispatcher) Resolve(ctx context.Context, kind providers.Kind, comic string, date providers.Date) providers.Resolution {
	k, _ := providers.ParseKind(string(kind))

	switch k {
	case providers.GoComics:
		return d.goComics.Resolve(ctx, comic, date)
	case providers.ComicsKingdom:
		return d.comicsKingdom.Resolve(ctx, comic, date)
	case providers.Dilbert:
		return d.dilbert.Resolve(ctx, comic, date)
	default:
		return providers.Invalid(kind)
	}
}
