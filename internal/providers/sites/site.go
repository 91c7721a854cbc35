package sites

import (
	"context"

	"github.com/brogergvhs/comicmail/internal/providers"
)

// site is the shared shape of every adapter: build a page URL, fetch it,
// then try a list of lookups until one yields an image URL.
type site struct {
	pages
	base    string
	pageURL func(base, comic string, date providers.Date) string
	lookups []lookup
	miss    string
}

func (s *site) Resolve(ctx context.Context, comic string, date providers.Date) providers.Resolution {
	page := s.pageURL(s.base, comic, date)
	s.log.Debugf("fetching page %s", page)

	doc, err := s.document(ctx, page)
	if err != nil {
		return providers.NotFound(page, err.Error())
	}

	raw, ok := firstOf(doc, s.lookups...)
	if !ok {
		return providers.NotFound(page, s.miss)
	}

	img := resolve(page, raw)
	s.log.Debugf("found image %s", img)

	return providers.Located(page, img)
}
