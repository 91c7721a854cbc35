package sites

import (
	"net/url"
	"strings"

	"github.com/brogergvhs/comicmail/internal/providers"
)

const comicsKingdomBase = "https://comicskingdom.com"

// e.g. https://comicskingdom.com/hagar-the-horrible/2022-04-24
func comicsKingdomPage(base, comic string, date providers.Date) string {
	return strings.TrimRight(base, "/") + "/" + url.PathEscape(comic) + "/" + date.Hyphenated()
}

func newComicsKingdom(p pages, base string) *site {
	return &site{
		pages:   p,
		base:    base,
		pageURL: comicsKingdomPage,
		lookups: []lookup{
			selectorAttr("img#theComicImage", "src"),
			selectorAttr(`meta[property="og:image"]`, "content"),
		},
		miss: "comic image not found",
	}
}
