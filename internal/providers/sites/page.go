package sites

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/brogergvhs/comicmail/internal/ui"
	"golang.org/x/net/html/charset"
)

type pages struct {
	client *http.Client
	log    *ui.Logger
}

func (p pages) document(ctx context.Context, target string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			p.log.Debugf("failed to close response body for %s: %v", target, cerr)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	body, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("decode page: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	return doc, nil
}

// lookup finds one image URL in a document.
type lookup func(doc *goquery.Document) (string, bool)

func firstOf(doc *goquery.Document, lookups ...lookup) (string, bool) {
	for _, l := range lookups {
		if v, ok := l(doc); ok {
			return v, true
		}
	}

	return "", false
}

func selectorAttr(selector, attr string) lookup {
	return func(doc *goquery.Document) (string, bool) {
		return attrOf(doc.Find(selector).First(), attr)
	}
}

func attrOf(sel *goquery.Selection, attr string) (string, bool) {
	if sel.Length() == 0 {
		return "", false
	}

	v, ok := sel.Attr(attr)
	v = strings.TrimSpace(v)
	if !ok || v == "" {
		return "", false
	}

	return v, true
}

func resolve(pageURL, raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u == nil {
		return raw
	}

	if u.IsAbs() {
		return u.String()
	}

	base, err := url.Parse(pageURL)
	if err != nil || base == nil {
		return raw
	}

	return base.ResolveReference(u).String()
}
