package mailer

import (
	"strings"

	"github.com/brogergvhs/comicmail/internal/comics"
	"github.com/brogergvhs/comicmail/internal/providers"
)

// Attachment is one strip image.
type Attachment struct {
	Filename string
	Subtype  string
	Data     []byte
}

func (a Attachment) ContentType() string {
	return "image/" + a.Subtype
}

// Message is the day's mail before it is rendered to MIME: one attachment
// per strip plus a single inline text part, Log.
type Message struct {
	From        string
	To          []string
	Subject     string
	Attachments []Attachment
	Log         string
}

func Subject(date providers.Date) string {
	return "Comics " + date.Hyphenated()
}

// Compose builds the message for outcomes. It is pure: the same outcomes
// and date always give the same attachments and log.
func Compose(outcomes []comics.Outcome, date providers.Date, from string, to []string) *Message {
	m := &Message{
		From:    from,
		To:      append([]string(nil), to...),
		Subject: Subject(date),
	}

	for _, o := range outcomes {
		if o.OK() {
			m.Attachments = append(m.Attachments, Attachment{
				Filename: o.Filename(),
				Subtype:  o.Image.Subtype,
				Data:     o.Image.Data,
			})
		}
	}

	m.Log = strings.Join(LogLines(outcomes), "\n")

	return m
}

// LogLines renders the text part: the page URL of every comic, followed
// by the failure note for the ones that did not make it.
func LogLines(outcomes []comics.Outcome) []string {
	var lines []string
	for _, o := range outcomes {
		if o.PageURL != "" && !strings.Contains(o.Message, o.PageURL) {
			lines = append(lines, o.PageURL)
		}
		if !o.OK() && o.Message != "" {
			lines = append(lines, o.Message)
		}
	}

	return lines
}
