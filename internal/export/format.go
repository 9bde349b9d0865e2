package export

import (
	"fmt"
	"strings"

	"github.com/aschmelyun/tscribe/internal/transcript"
)

// Format selects the download representation. It is a UI-local preference.
type Format int

const (
	PlainText Format = iota
	JSON
)

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "txt", "text", "plain":
		return PlainText, nil
	case "json":
		return JSON, nil
	default:
		return PlainText, fmt.Errorf("unknown export format %q (want txt or json)", s)
	}
}

func (f Format) String() string {
	if f == JSON {
		return "JSON"
	}
	return "TXT"
}

func (f Format) Extension() string {
	if f == JSON {
		return "json"
	}
	return "txt"
}

func (f Format) ContentType() string {
	if f == JSON {
		return "application/json"
	}
	return "text/plain"
}

// Toggle flips between the two formats.
func (f Format) Toggle() Format {
	if f == JSON {
		return PlainText
	}
	return JSON
}

// Render formats t for the given download format.
func Render(t transcript.Transcript, f Format) (string, error) {
	if f == JSON {
		return transcript.FormatAsJSON(t)
	}
	return transcript.FormatAsText(t), nil
}

// Filename returns transcript_<ts>.<ext>.
func Filename(ts int64, f Format) string {
	return fmt.Sprintf("transcript_%d.%s", ts, f.Extension())
}
