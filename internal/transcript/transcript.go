package transcript

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

var (
	ErrMalformedTimestamp = errors.New("malformed timestamp")
	ErrInvertedSegment    = errors.New("segment ends before it starts")
	ErrInvalidText        = errors.New("text is not valid UTF-8")
)


// Segment is one speaker-attributed utterance. Field order matters: it is the
// key order of the JSON export.
type Segment struct {
	Speaker string `json:"speaker"`
	Start   string `json:"start"`
	End     string `json:"end"`
	Text    string `json:"text"`
}

// Transcript is an ordered sequence of segments in chronological order.
// A nil or empty transcript means "no transcript yet".
type Transcript []Segment

// NewSegment builds a segment and rejects malformed or inverted timestamps.
func NewSegment(speaker, start, end, text string) (Segment, error) {
	s := Segment{Speaker: speaker, Start: start, End: end, Text: text}
	if err := s.Validate(); err != nil {
		return Segment{}, err
	}
	return s, nil
}

// ParseTimestamp converts HH:MM:SS into whole seconds.
func ParseTimestamp(ts string) (int, error) {
	parts := strings.Split(ts, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("%w: %q: want HH:MM:SS", ErrMalformedTimestamp, ts)
	}

	var values [3]uint64
	for i, part := range parts {
		if part == "" || strings.TrimLeft(part, "0123456789") != "" {
			return 0, fmt.Errorf("%w: %q: component %d is not a non-negative integer", ErrMalformedTimestamp, ts, i+1)
		}
		v, err := strconv.ParseUint(part, 10, 32)
		if err != nil {
			return 0, fmt.Errorf("%w: %q: component %d out of range", ErrMalformedTimestamp, ts, i+1)
		}
		values[i] = v
	}

	total := values[0]*3600 + values[1]*60 + values[2]
	if total > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %q: out of range", ErrMalformedTimestamp, ts)
	}
	return int(total), nil
}

func (s Segment) Validate() error {
	if !utf8.ValidString(s.Speaker) {
		return fmt.Errorf("speaker: %w", ErrInvalidText)
	}
	if !utf8.ValidString(s.Text) {
		return fmt.Errorf("text: %w", ErrInvalidText)
	}
	start, err := ParseTimestamp(s.Start)
	if err != nil {
		return fmt.Errorf("start: %w", err)
	}
	end, err := ParseTimestamp(s.End)
	if err != nil {
		return fmt.Errorf("end: %w", err)
	}
	if end < start {
		return fmt.Errorf("%w: %s > %s", ErrInvertedSegment, s.Start, s.End)
	}
	return nil
}

// Seconds returns the segment's start and end offsets in seconds.
func (s Segment) Seconds() (start, end int, err error) {
	if start, err = ParseTimestamp(s.Start); err != nil {
		return 0, 0, err
	}
	if end, err = ParseTimestamp(s.End); err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

func (t Transcript) Validate() error {
	for i, s := range t {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("segment %d: %w", i, err)
		}
	}
	return nil
}

// Span returns the first segment's start and the last segment's end.
func (t Transcript) Span() (string, string) {
	if len(t) == 0 {
		return "", ""
	}
	return t[0].Start, t[len(t)-1].End
}

// Clone returns a copy that shares no backing array with t.
func (t Transcript) Clone() Transcript {
	if t == nil {
		return nil
	}
	out := make(Transcript, len(t))
	copy(out, t)
	return out
}
