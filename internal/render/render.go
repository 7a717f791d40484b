// Package render turns collected highlights into text, HTML and JSON.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/tartampluch/go-onthisday/internal/config"
	"github.com/tartampluch/go-onthisday/internal/engine"
)

const (
	boxID        = "history-highlight"
	todayListID  = "history-today-list"
	tomorrowID   = "history-tomorrow-list"
	itemClass    = "highlight-item"
	textBullet   = "  - "
	pageTemplate = `<!DOCTYPE html>
<html lang="%s">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s</title>
</head>
<body>
`
	pageFooter = "</body>\n</html>\n"
)

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// EscapeHTML escapes &, <, >, " and ' for safe inclusion in HTML text.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// errWriter remembers the first write error so rendering code stays linear.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

// WriteText writes both buckets as a plain-text list.
// An empty bucket shows the translated placeholder.
func WriteText(w io.Writer, h engine.Highlights, tr *Translator) error {
	ew := &errWriter{w: w}
	ew.printf("%s (%s)\n\n", tr.Msg(config.TKeyHeadingBox), h.Date)
	writeTextList(ew, tr.Msg(config.TKeyHeadingToday), h.Today, tr)
	ew.printf("\n")
	writeTextList(ew, tr.Msg(config.TKeyHeadingTomorrow), h.Tomorrow, tr)
	return ew.err
}

func writeTextList(ew *errWriter, heading string, sentences []string, tr *Translator) {
	ew.printf("%s:\n", heading)
	if len(sentences) == 0 {
		ew.printf("%s%s\n", textBullet, tr.Msg(config.TKeyNoEvent))
		return
	}
	for _, s := range sentences {
		ew.printf("%s%s\n", textBullet, s)
	}
}

// WriteHTML writes the highlight box fragment. Every sentence is escaped.
func WriteHTML(w io.Writer, h engine.Highlights, tr *Translator) error {
	ew := &errWriter{w: w}
	writeBox(ew, h, tr)
	return ew.err
}

// WritePage wraps the highlight box in a minimal standalone HTML document.
func WritePage(w io.Writer, h engine.Highlights, tr *Translator) error {
	ew := &errWriter{w: w}
	ew.printf(pageTemplate, EscapeHTML(tr.Lang()), EscapeHTML(tr.Msg(config.TKeyHeadingBox)))
	writeBox(ew, h, tr)
	ew.printf(pageFooter)
	return ew.err
}

func writeBox(ew *errWriter, h engine.Highlights, tr *Translator) {
	ew.printf("<section id=%q>\n", boxID)
	ew.printf("<h2>%s</h2>\n", EscapeHTML(tr.Msg(config.TKeyHeadingBox)))
	ew.printf("<h3>%s</h3>\n", EscapeHTML(tr.Msg(config.TKeyHeadingToday)))
	writeHTMLList(ew, todayListID, h.Today, tr)
	ew.printf("<h3>%s</h3>\n", EscapeHTML(tr.Msg(config.TKeyHeadingTomorrow)))
	writeHTMLList(ew, tomorrowID, h.Tomorrow, tr)
	ew.printf("</section>\n")
}

func writeHTMLList(ew *errWriter, id string, sentences []string, tr *Translator) {
	ew.printf("<ul id=%q>\n", id)
	if len(sentences) == 0 {
		ew.printf("<li class=%q>%s</li>\n", itemClass, EscapeHTML(tr.Msg(config.TKeyNoEvent)))
	}
	for _, s := range sentences {
		ew.printf("<li class=%q>%s</li>\n", itemClass, EscapeHTML(s))
	}
	ew.printf("</ul>\n")
}

// highlightsJSON is the wire shape of the JSON endpoint.
type highlightsJSON struct {
	Date     string   `json:"date"`
	Today    []string `json:"today"`
	Tomorrow []string `json:"tomorrow"`
}

// WriteJSON encodes the buckets as {"date": "...", "today": [...], "tomorrow": [...]}.
// Empty buckets are encoded as [] rather than null.
func WriteJSON(w io.Writer, h engine.Highlights) error {
	out := highlightsJSON{
		Date:     h.Date.String(),
		Today:    nonNil(h.Today),
		Tomorrow: nonNil(h.Tomorrow),
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
