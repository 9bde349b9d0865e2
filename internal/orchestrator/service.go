package orchestrator

import (
	"context"
	"time"

	"github.com/aschmelyun/tscribe/internal/media"
	"github.com/aschmelyun/tscribe/internal/transcript"
)

const DefaultDelay = 3 * time.Second

// TranscriptionService turns an audio file into a transcript. Implementations
// must return promptly once ctx is cancelled.
type TranscriptionService interface {
	Transcribe(ctx context.Context, file media.File, opts Options) (transcript.Transcript, error)
}

// MockService waits Delay and then returns DemoTranscript. Options are ignored.
type MockService struct {
	Delay time.Duration
}

func (m MockService) Transcribe(ctx context.Context, _ media.File, _ Options) (transcript.Transcript, error) {
	timer := time.NewTimer(m.Delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
	}

	return DemoTranscript(), nil
}

// DemoTranscript is the fixed demonstration dataset.
func DemoTranscript() transcript.Transcript {
	return transcript.Transcript{
		{
			Speaker: "Speaker 1",
			Start:   "00:00:05",
			End:     "00:00:12",
			Text:    "Merhaba, toplantıya hoş geldiniz. Bugün önemli konuları ele alacağız.",
		},
		{
			Speaker: "Speaker 2",
			Start:   "00:00:13",
			End:     "00:00:18",
			Text:    "Teşekkürler. Öncelikle proje güncellemelerini konuşalım.",
		},
		{
			Speaker: "Speaker 1",
			Start:   "00:00:19",
			End:     "00:00:28",
			Text:    "Tabii ki. İlk olarak geliştiriciler ekibinden son hafta yapılan çalışmaları dinleyelim.",
		},
	}
}
