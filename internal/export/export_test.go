package export

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aschmelyun/tscribe/internal/logger"
	"github.com/aschmelyun/tscribe/internal/notify"
	"github.com/aschmelyun/tscribe/internal/transcript"
)

type savedFile struct {
	name, contentType, content string
}

type saverStub struct {
	saveFn func(name, contentType string, content []byte) error
	saved  []savedFile
}

func (s *saverStub) Save(name, contentType string, content []byte) error {
	if s.saveFn != nil {
		if err := s.saveFn(name, contentType, content); err != nil {
			return err
		}
	}
	s.saved = append(s.saved, savedFile{name: name, contentType: contentType, content: string(content)})
	return nil
}

type clipboardStub struct {
	text string
	err  error
}

func (c *clipboardStub) WriteAll(text string) error {
	if c.err != nil {
		return c.err
	}
	c.text = text
	return nil
}

type fixedClock int64

func (c fixedClock) NowMillis() int64 { return int64(c) }

var demo = transcript.Transcript{
	{Speaker: "Speaker 1", Start: "00:00:05", End: "00:00:12", Text: "Hello."},
	{Speaker: "Speaker 2", Start: "00:00:13", End: "00:00:18", Text: "Hi."},
}

func newTestExporter(s Saver, cb Clipboard, opts ...Option) (*Exporter, *notify.Recorder) {
	rec := &notify.Recorder{}
	opts = append([]Option{
		WithNotifier(rec),
		WithLogger(logger.Discard()),
	}, opts...)
	return New(s, cb, opts...), rec
}

func TestFilename(t *testing.T) {
	if got := Filename(1700000000123, JSON); got != "transcript_1700000000123.json" {
		t.Fatalf("unexpected JSON filename %q", got)
	}
	if got := Filename(1700000000123, PlainText); got != "transcript_1700000000123.txt" {
		t.Fatalf("unexpected text filename %q", got)
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"txt": PlainText, "TEXT": PlainText, "json": JSON, " Json ": JSON} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("srt"); err == nil {
		t.Fatal("expected error for srt")
	}
	if PlainText.Toggle() != JSON || JSON.Toggle() != PlainText {
		t.Fatal("Toggle should flip between formats")
	}
}

func TestDownloadUsesFormatForExtensionAndContentType(t *testing.T) {
	saver := &saverStub{}
	e, rec := newTestExporter(saver, &clipboardStub{}, WithClock(fixedClock(42)))

	name, err := e.Download("body", JSON)
	if err != nil {
		t.Fatalf("Download returned error: %v", err)
	}
	if name != "transcript_42.json" {
		t.Fatalf("unexpected filename %q", name)
	}
	if got := saver.saved[0]; got.contentType != "application/json" || got.content != "body" {
		t.Fatalf("unexpected saved file %#v", got)
	}

	name, err = e.Download("body", PlainText)
	if err != nil {
		t.Fatalf("Download returned error: %v", err)
	}
	if name != "transcript_42.txt" || saver.saved[1].contentType != "text/plain" {
		t.Fatalf("unexpected text download %q %#v", name, saver.saved[1])
	}

	sent := rec.All()
	if len(sent) != 2 || sent[0].Description != "transcript_42.json downloaded successfully" {
		t.Fatalf("unexpected notifications %#v", sent)
	}
}

func TestDownloadNamesAreDistinctWithinOneMillisecond(t *testing.T) {
	frozen := time.UnixMilli(1700000000000)
	clock := &MonotonicClock{Now: func() time.Time { return frozen }}
	saver := &saverStub{}
	e, _ := newTestExporter(saver, &clipboardStub{}, WithClock(clock))

	first, err := e.Download("a", PlainText)
	if err != nil {
		t.Fatalf("Download returned error: %v", err)
	}
	second, err := e.Download("a", PlainText)
	if err != nil {
		t.Fatalf("Download returned error: %v", err)
	}
	if first == second {
		t.Fatalf("expected distinct filenames, got %q twice", first)
	}
	if first != "transcript_1700000000000.txt" || second != "transcript_1700000000001.txt" {
		t.Fatalf("unexpected filenames %q, %q", first, second)
	}
}

func TestDownloadFailureIsReturnedAndNotified(t *testing.T) {
	denied := errors.New("storage denied")
	saver := &saverStub{saveFn: func(string, string, []byte) error { return denied }}
	e, rec := newTestExporter(saver, &clipboardStub{})

	_, err := e.Download("x", JSON)
	if !errors.Is(err, ErrExportFailed) || !errors.Is(err, denied) {
		t.Fatalf("expected wrapped export failure, got %v", err)
	}
	sent := rec.All()
	if len(sent) != 1 || sent[0].Variant != notify.Destructive {
		t.Fatalf("expected one destructive notification, got %#v", sent)
	}
}

func TestDownloadTranscript(t *testing.T) {
	saver := &saverStub{}
	e, _ := newTestExporter(saver, &clipboardStub{}, WithClock(fixedClock(7)))

	if _, err := e.DownloadTranscript(demo, JSON); err != nil {
		t.Fatalf("DownloadTranscript returned error: %v", err)
	}
	want, _ := transcript.FormatAsJSON(demo)
	if saver.saved[0].content != want {
		t.Fatalf("unexpected JSON content:\n%s", saver.saved[0].content)
	}

	if _, err := e.DownloadTranscript(nil, JSON); !errors.Is(err, ErrEmptyTranscript) {
		t.Fatalf("expected ErrEmptyTranscript, got %v", err)
	}
}

func TestCopyTranscriptMatchesPlainText(t *testing.T) {
	cb := &clipboardStub{}
	e, rec := newTestExporter(&saverStub{}, cb)

	if err := e.CopyTranscript(demo); err != nil {
		t.Fatalf("CopyTranscript returned error: %v", err)
	}
	if cb.text != transcript.FormatAsText(demo) {
		t.Fatalf("clipboard text differs from plain text export: %q", cb.text)
	}
	if sent := rec.All(); len(sent) != 1 || sent[0].Title != "Copied" {
		t.Fatalf("unexpected notifications %#v", sent)
	}
}

func TestCopyFailureIsReturnedAndNotified(t *testing.T) {
	e, rec := newTestExporter(&saverStub{}, &clipboardStub{err: errors.New("no display")})

	if err := e.CopyToClipboard("x"); !errors.Is(err, ErrExportFailed) {
		t.Fatalf("expected ErrExportFailed, got %v", err)
	}
	if sent := rec.All(); len(sent) != 1 || sent[0].Variant != notify.Destructive {
		t.Fatalf("expected destructive notification, got %#v", sent)
	}
}

func TestDirSaverWritesFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	if err := (DirSaver{Dir: dir}).Save("transcript_1.txt", "text/plain", []byte("hello")); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	b, err := os.ReadFile(filepath.Join(dir, "transcript_1.txt"))
	if err != nil {
		t.Fatalf("failed to read saved file: %v", err)
	}
	if string(b) != "hello" {
		t.Fatalf("unexpected file content %q", b)
	}
}
