package downloader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/brogergvhs/comicmail/internal/providers"
	"github.com/brogergvhs/comicmail/internal/ui"
)

// Unknown is the subtype and extension used when the server does not say
// what kind of image it sent.
const Unknown = "unknown"

const defaultTimeout = 30 * time.Second

var mimeSplit = regexp.MustCompile(`(?i)^\s*image/(\w+)`)

var extensions = map[string]string{
	"jpeg": "jpg",
}

type Downloader struct {
	client  *http.Client
	log     *ui.Logger
	timeout time.Duration
}

func New(c *http.Client, log *ui.Logger, timeout time.Duration) *Downloader {
	if log == nil {
		log = ui.Nop()
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Downloader{
		client:  c,
		log:     log,
		timeout: timeout,
	}
}

// Fetch downloads one image. The referer is the page the image was found
// on; some publishers refuse image requests without it.
func (d *Downloader) Fetch(ctx context.Context, imageURL, referer string) (providers.Image, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return providers.Image{}, err
	}

	if referer != "" {
		req.Header.Set("Referer", referer)
	}
	req.Header.Set("Accept", "image/avif,image/webp,image/apng,image/*,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := d.client.Do(req)
	if err != nil {
		return providers.Image{}, err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			d.log.Debugf("failed to close image body for %s: %v", imageURL, cerr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return providers.Image{}, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return providers.Image{}, fmt.Errorf("read image: %w", err)
	}

	subtype, ext := SubtypeAndExtension(resp.Header.Get("Content-Type"))
	if subtype == Unknown {
		d.log.Warnf("no image type for %s (Content-Type %q)", imageURL, resp.Header.Get("Content-Type"))
	}
	d.log.Debugf("stored %s (%d bytes, %s)", imageURL, len(data), subtype)

	return providers.Image{Data: data, Subtype: subtype, Extension: ext}, nil
}

// SubtypeAndExtension reads the image subtype out of a Content-Type value
// and maps it to a file extension. Anything that is not image/* yields
// Unknown for both.
func SubtypeAndExtension(contentType string) (subtype, extension string) {
	m := mimeSplit.FindStringSubmatch(contentType)
	if m == nil {
		return Unknown, Unknown
	}

	subtype = strings.ToLower(m[1])
	if ext, ok := extensions[subtype]; ok {
		return subtype, ext
	}

	return subtype, subtype
}
