package transcript

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

type document struct {
	Segments Transcript `json:"segments"`
}

// Line renders a segment as `[start - end] speaker: text`.
func Line(s Segment) string {
	return fmt.Sprintf("[%s - %s] %s: %s", s.Start, s.End, s.Speaker, s.Text)
}

// FormatAsText renders one line per segment separated by a blank line.
// Content is emitted verbatim.
func FormatAsText(t Transcript) string {
	lines := make([]string, len(t))
	for i, s := range t {
		lines[i] = Line(s)
	}
	return strings.Join(lines, "\n\n")
}

// FormatAsJSON renders {"segments": [...]} with two-space indentation and no
// trailing newline.
func FormatAsJSON(t Transcript) (string, error) {
	if t == nil {
		t = Transcript{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(document{Segments: t}); err != nil {
		return "", fmt.Errorf("failed to encode transcript: %w", err)
	}

	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// ParseJSON reads a document produced by FormatAsJSON and validates every
// segment.
func ParseJSON(data []byte) (Transcript, error) {
	var doc document
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode transcript: %w", err)
	}
	if doc.Segments == nil {
		return nil, fmt.Errorf("failed to decode transcript: missing \"segments\"")
	}
	if err := doc.Segments.Validate(); err != nil {
		return nil, err
	}
	return doc.Segments, nil
}

// ComputeDurationLabel renders end minus start as "<n>s". A negative value is
// passed through unchanged.
func ComputeDurationLabel(s Segment) (string, error) {
	start, end, err := s.Seconds()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%ds", end-start), nil
}
