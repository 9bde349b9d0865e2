package orchestrator

import (
	"fmt"
	"slices"
)

type Language struct {
	Code  string
	Label string
}

// Languages is the fixed set offered by the settings panel, in display order.
var Languages = []Language{
	{Code: "auto", Label: "Auto-detect"},
	{Code: "tr", Label: "Turkish"},
	{Code: "en", Label: "English"},
	{Code: "de", Label: "German"},
	{Code: "fr", Label: "French"},
	{Code: "es", Label: "Spanish"},
}

// SegmentLengths are the selectable maximum segment lengths, in minutes.
var SegmentLengths = []int{2, 5, 10, 15}

// Options are the transcription settings. They are handed to the
// TranscriptionService as request parameters.
type Options struct {
	Language           string `json:"language"`
	RemoveFiller       bool   `json:"removeFiller"`
	SpeakerDiarization bool   `json:"speakerDiarization"`
	MaxSegmentLength   int    `json:"maxSegmentLength"`
}

func DefaultOptions() Options {
	return Options{
		Language:           "auto",
		RemoveFiller:       true,
		SpeakerDiarization: true,
		MaxSegmentLength:   5,
	}
}

func (o Options) Validate() error {
	if languageIndex(o.Language) < 0 {
		return fmt.Errorf("unsupported language %q", o.Language)
	}
	if !slices.Contains(SegmentLengths, o.MaxSegmentLength) {
		return fmt.Errorf("unsupported max segment length %d (want one of %v)", o.MaxSegmentLength, SegmentLengths)
	}
	return nil
}

// NextLanguage cycles to the next language in Languages.
func (o Options) NextLanguage() Options {
	i := languageIndex(o.Language)
	o.Language = Languages[(i+1)%len(Languages)].Code
	return o
}

// NextSegmentLength cycles to the next value in SegmentLengths.
func (o Options) NextSegmentLength() Options {
	i := slices.Index(SegmentLengths, o.MaxSegmentLength)
	o.MaxSegmentLength = SegmentLengths[(i+1)%len(SegmentLengths)]
	return o
}

func LanguageLabel(code string) string {
	if i := languageIndex(code); i >= 0 {
		return Languages[i].Label
	}
	return code
}

func languageIndex(code string) int {
	return slices.IndexFunc(Languages, func(l Language) bool { return l.Code == code })
}
