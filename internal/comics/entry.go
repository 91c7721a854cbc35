package comics

import (
	"regexp"
	"strings"

	"github.com/brogergvhs/comicmail/internal/providers"
)

// Entry is one configured comic. Entries are processed in configuration
// order and duplicates are allowed.
type Entry struct {
	Name string
	Site providers.Kind
}

var reUnsafe = regexp.MustCompile(`[/\\\x00-\x1f]+`)

// FilenameBase is "{comic}-{YYYY-MM-DD}", kept to a single path segment.
func FilenameBase(comic string, date providers.Date) string {
	name := reUnsafe.ReplaceAllString(strings.TrimSpace(comic), "_")
	if name == "" {
		name = "comic"
	}

	return name + "-" + date.Hyphenated()
}
