package sites

import (
	"strings"

	"github.com/brogergvhs/comicmail/internal/providers"
)

const dilbertBase = "https://dilbert.com"

// Dilbert hosts a single strip, so the comic id plays no part in the URL.
func dilbertPage(base, _ string, date providers.Date) string {
	return strings.TrimRight(base, "/") + "/strip/" + date.Hyphenated()
}

func newDilbert(p pages, base string) *site {
	return &site{
		pages:   p,
		base:    base,
		pageURL: dilbertPage,
		lookups: []lookup{
			selectorAttr("img.img-comic", "src"),
		},
		miss: "comic image not found",
	}
}
