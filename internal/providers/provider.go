package providers

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Kind names a comic-hosting site. Values outside the known set are kept
// verbatim so they can be reported back to the user.
type Kind string

const (
	GoComics      Kind = "gocomics"
	ComicsKingdom Kind = "comicskingdom"
	Dilbert       Kind = "dilbert"
)

// ParseKind normalises a configured site name. Unknown names are returned
// unchanged with ok == false.
func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "gocomics":
		return GoComics, true
	case "comicskingdom", "kingdom":
		return ComicsKingdom, true
	case "dilbert":
		return Dilbert, true
	}

	return Kind(s), false
}

// Known reports whether k is one of the supported sites.
func (k Kind) Known() bool {
	_, ok := ParseKind(string(k))
	return ok
}

// Date is the calendar day a run fetches strips for.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// DaysBack returns the day n days before now, in now's location.
func DaysBack(now time.Time, n int) Date {
	return DateOf(now.AddDate(0, 0, -n))
}

func (d Date) Hyphenated() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

func (d Date) Slashed() string {
	return fmt.Sprintf("%04d/%02d/%02d", d.Year, d.Month, d.Day)
}

func (d Date) String() string {
	return d.Hyphenated()
}

// Resolution is what an adapter learned about one comic on one day.
// When Found is false, Note says why and ImageURL is empty.
type Resolution struct {
	PageURL  string
	ImageURL string
	Found    bool
	Note     string
}

// Image is a downloaded strip.
type Image struct {
	Data      []byte
	Subtype   string
	Extension string
}

// Filename joins base and the image extension.
func (img Image) Filename(base string) string {
	return base + "." + img.Extension
}

// Adapter turns a comic id and date into a page URL and, if the page
// carries one, the strip image URL. Implementations never return errors:
// every failure is folded into Resolution.Note.
type Adapter interface {
	Resolve(ctx context.Context, comic string, date Date) Resolution
}
