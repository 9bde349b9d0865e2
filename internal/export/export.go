package export

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/aschmelyun/tscribe/internal/notify"
	"github.com/aschmelyun/tscribe/internal/transcript"
)

var (
	ErrExportFailed    = errors.New("export failed")
	ErrEmptyTranscript = errors.New("transcript is empty")
)

// Exporter turns formatted transcripts into downloads or clipboard contents.
// Host failures are returned, logged and reported through the notifier.
type Exporter struct {
	saver     Saver
	clipboard Clipboard
	clock     Clock
	notifier  notify.Notifier
	log       *slog.Logger
}

type Option func(*Exporter)

func WithClock(c Clock) Option { return func(e *Exporter) { e.clock = c } }

func WithNotifier(n notify.Notifier) Option { return func(e *Exporter) { e.notifier = n } }

func WithLogger(l *slog.Logger) Option { return func(e *Exporter) { e.log = l } }

func New(saver Saver, cb Clipboard, opts ...Option) *Exporter {
	e := &Exporter{
		saver:     saver,
		clipboard: cb,
		clock:     &MonotonicClock{},
		notifier:  notify.Nop{},
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Download saves content as transcript_<ts>.<ext> and returns the file name.
func (e *Exporter) Download(content string, f Format) (string, error) {
	name := Filename(e.clock.NowMillis(), f)

	if err := e.saver.Save(name, f.ContentType(), []byte(content)); err != nil {
		err = fmt.Errorf("%w: download %s: %w", ErrExportFailed, name, err)
		e.fail("Download failed", err, slog.String("file", name))
		return "", err
	}

	e.log.Info("transcript downloaded", slog.String("file", name), slog.String("format", f.String()), slog.Int("bytes", len(content)))
	e.notifier.Notify(notify.Notification{
		Title:       "Downloaded",
		Description: name + " downloaded successfully",
	})
	return name, nil
}

// DownloadTranscript renders t in format f and downloads it.
func (e *Exporter) DownloadTranscript(t transcript.Transcript, f Format) (string, error) {
	if len(t) == 0 {
		e.fail("Download failed", ErrEmptyTranscript)
		return "", ErrEmptyTranscript
	}
	content, err := Render(t, f)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrExportFailed, err)
		e.fail("Download failed", err)
		return "", err
	}
	return e.Download(content, f)
}

// CopyToClipboard places content verbatim on the clipboard.
func (e *Exporter) CopyToClipboard(content string) error {
	if err := e.clipboard.WriteAll(content); err != nil {
		err = fmt.Errorf("%w: copy to clipboard: %w", ErrExportFailed, err)
		e.fail("Copy failed", err)
		return err
	}

	e.log.Info("transcript copied to clipboard", slog.Int("bytes", len(content)))
	e.notifier.Notify(notify.Notification{
		Title:       "Copied",
		Description: "Transcript copied to clipboard",
	})
	return nil
}

// CopyTranscript copies the plain-text rendering of t.
func (e *Exporter) CopyTranscript(t transcript.Transcript) error {
	if len(t) == 0 {
		e.fail("Copy failed", ErrEmptyTranscript)
		return ErrEmptyTranscript
	}
	return e.CopyToClipboard(transcript.FormatAsText(t))
}

func (e *Exporter) fail(title string, err error, attrs ...any) {
	e.log.Error(title, append(attrs, slog.String("error", err.Error()))...)
	e.notifier.Notify(notify.Notification{
		Title:       title,
		Description: err.Error(),
		Variant:     notify.Destructive,
	})
}
