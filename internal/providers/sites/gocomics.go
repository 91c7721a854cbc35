package sites

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/brogergvhs/comicmail/internal/providers"
)

const goComicsBase = "https://www.gocomics.com"

// e.g. https://www.gocomics.com/adamathome/2020/10/08
func goComicsPage(base, comic string, date providers.Date) string {
	return strings.TrimRight(base, "/") + "/" + url.PathEscape(comic) + "/" + date.Slashed()
}

// The strip sits in the page's second <section>. Newer layouts wrap it
// in a picture element instead; og:image is the last resort.
func secondSectionImage(doc *goquery.Document) (string, bool) {
	return attrOf(doc.Find("section").Eq(1).Find("img").First(), "src")
}

func newGoComics(p pages, base string) *site {
	return &site{
		pages:   p,
		base:    base,
		pageURL: goComicsPage,
		lookups: []lookup{
			secondSectionImage,
			selectorAttr("picture.item-comic-image img", "src"),
			selectorAttr(`meta[property="og:image"]`, "content"),
		},
		miss: "not found!",
	}
}
