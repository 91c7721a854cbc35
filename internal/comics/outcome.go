package comics

import "github.com/brogergvhs/comicmail/internal/providers"

// Outcome is the result for one entry. Image is set on success; on
// failure Message explains what went wrong and PageURL may be empty.
type Outcome struct {
	Comic        string
	PageURL      string
	Image        *providers.Image
	FilenameBase string
	Message      string
}

func (o Outcome) OK() bool {
	return o.Image != nil
}

// Filename is the attachment name for a successful outcome.
func (o Outcome) Filename() string {
	if o.Image == nil {
		return ""
	}

	return o.Image.Filename(o.FilenameBase)
}

func Succeeded(comic, page, base string, img providers.Image) Outcome {
	return Outcome{Comic: comic, PageURL: page, Image: &img, FilenameBase: base}
}

func Failed(comic, page, message string) Outcome {
	return Outcome{Comic: comic, PageURL: page, Message: message}
}

// Count splits outcomes into successes and failures.
func Count(outcomes []Outcome) (ok, failed int) {
	for _, o := range outcomes {
		if o.OK() {
			ok++
		} else {
			failed++
		}
	}

	return ok, failed
}
