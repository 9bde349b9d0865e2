package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/aschmelyun/tscribe/internal/gen"
	"github.com/aschmelyun/tscribe/internal/media"
	"github.com/aschmelyun/tscribe/internal/notify"
	"github.com/aschmelyun/tscribe/internal/transcript"
)

type State int

const (
	Idle State = iota
	FileSelected
	Processing
	Complete
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case FileSelected:
		return "file-selected"
	case Processing:
		return "processing"
	case Complete:
		return "complete"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var (
	ErrNoFile              = errors.New("no file selected")
	ErrTranscriptionFailed = errors.New("transcription failed")
)

// Snapshot is an immutable copy of the orchestrator state.
type Snapshot struct {
	State    State
	File     *media.File
	Options  Options
	Segments transcript.Transcript
	Err      error
	Attempt  uuid.UUID
}

func (s Snapshot) HasFile() bool { return s.File != nil }

// CanStart mirrors the guard on Start: a file is present and no job is running.
func (s Snapshot) CanStart() bool { return s.File != nil && s.State != Processing }

// Orchestrator owns the selected file, the options and the current transcript,
// and runs at most one transcription job at a time.
//
// Observers are called in transition order from whichever goroutine made the
// transition. They must not call any orchestrator method.
type Orchestrator struct {
	svc      TranscriptionService
	notifier notify.Notifier
	log      *slog.Logger
	ids      gen.UUIDGenerator

	mu        sync.Mutex
	state     State
	file      *media.File
	options   Options
	segments  transcript.Transcript
	err       error
	attempt   uuid.UUID
	cancel    context.CancelFunc
	observers []func(Snapshot)

	pubMu sync.Mutex
	jobs  sync.WaitGroup
}

type Option func(*Orchestrator)

func WithNotifier(n notify.Notifier) Option { return func(o *Orchestrator) { o.notifier = n } }

func WithLogger(l *slog.Logger) Option { return func(o *Orchestrator) { o.log = l } }

func WithIDs(g gen.UUIDGenerator) Option { return func(o *Orchestrator) { o.ids = g } }

func WithOptions(opts Options) Option { return func(o *Orchestrator) { o.options = opts } }

func New(svc TranscriptionService, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		svc:      svc,
		notifier: notify.Nop{},
		log:      slog.Default(),
		ids:      gen.UUID(),
		options:  DefaultOptions(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Subscribe registers an observer for every subsequent transition.
func (o *Orchestrator) Subscribe(fn func(Snapshot)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.observers = append(o.observers, fn)
}

func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snapshotLocked()
}

// SelectFile stores f and clears any transcript. A running job is cancelled and
// its result discarded.
func (o *Orchestrator) SelectFile(f media.File) {
	o.mu.Lock()
	o.log.Info("file selected",
		slog.String("file", f.Name),
		slog.Int64("size", f.Size),
		slog.String("previous_state", o.state.String()))

	o.abortLocked()
	o.file = &f
	o.segments = nil
	o.err = nil
	o.state = FileSelected
	o.commitLocked()
}

// Clear drops the file and transcript and returns to Idle.
func (o *Orchestrator) Clear() {
	o.mu.Lock()
	o.log.Info("file cleared", slog.String("previous_state", o.state.String()))

	o.abortLocked()
	o.file = nil
	o.segments = nil
	o.err = nil
	o.state = Idle
	o.commitLocked()
}

// SetOptions validates and stores opts. They apply to the next Start.
func (o *Orchestrator) SetOptions(opts Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	o.mu.Lock()
	o.log.Debug("options updated",
		slog.String("language", opts.Language),
		slog.Bool("remove_filler", opts.RemoveFiller),
		slog.Bool("speaker_diarization", opts.SpeakerDiarization),
		slog.Int("max_segment_length", opts.MaxSegmentLength))
	o.options = opts
	o.commitLocked()
	return nil
}

// Start launches a transcription of the selected file. It returns false with
// no error when a job is already running; that request is dropped, not
// queued. The job is cancelled when ctx is done.
func (o *Orchestrator) Start(ctx context.Context) (bool, error) {
	o.mu.Lock()
	switch o.state {
	case Idle:
		o.mu.Unlock()
		return false, ErrNoFile
	case Processing:
		o.log.Debug("start ignored, transcription already running", slog.String("attempt", o.attempt.String()))
		o.mu.Unlock()
		return false, nil
	}

	id := o.ids.Next()
	jobCtx, cancel := context.WithCancel(ctx)
	file := *o.file
	opts := o.options

	o.state = Processing
	o.segments = nil
	o.err = nil
	o.attempt = id
	o.cancel = cancel

	o.log.Info("transcription started",
		slog.String("attempt", id.String()),
		slog.String("file", file.Name),
		slog.String("language", opts.Language))

	o.jobs.Add(1)
	go o.run(jobCtx, id, file, opts)

	o.commitLocked()
	return true, nil
}

// Wait blocks until every job, including cancelled ones, has returned.
func (o *Orchestrator) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		o.jobs.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (o *Orchestrator) run(ctx context.Context, id uuid.UUID, file media.File, opts Options) {
	defer o.jobs.Done()

	segments, err := o.svc.Transcribe(ctx, file, opts)
	if err == nil {
		err = segments.Validate()
	}

	o.mu.Lock()
	if o.state != Processing || o.attempt != id {
		o.log.Info("discarding stale transcription result",
			slog.String("attempt", id.String()),
			slog.String("state", o.state.String()))
		o.mu.Unlock()
		return
	}

	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}

	var n notify.Notification
	if err != nil {
		o.state = Failed
		o.err = fmt.Errorf("%w: %w", ErrTranscriptionFailed, err)
		o.log.Error("transcription failed",
			slog.String("attempt", id.String()),
			slog.String("file", file.Name),
			slog.String("error", err.Error()))
		n = notify.Notification{
			Title:       "Error",
			Description: "An error occurred during transcription: " + err.Error(),
			Variant:     notify.Destructive,
		}
	} else {
		o.state = Complete
		o.segments = segments.Clone()
		o.log.Info("transcription complete",
			slog.String("attempt", id.String()),
			slog.String("file", file.Name),
			slog.Int("segments", len(segments)))
		n = notify.Notification{
			Title:       "Transcription complete",
			Description: file.Name + " processed successfully",
		}
	}
	o.commitLocked()

	o.notifier.Notify(n)
}

func (o *Orchestrator) abortLocked() {
	if o.cancel != nil {
		o.log.Info("cancelling running transcription", slog.String("attempt", o.attempt.String()))
		o.cancel()
		o.cancel = nil
	}
	o.attempt = uuid.Nil
}

func (o *Orchestrator) snapshotLocked() Snapshot {
	s := Snapshot{
		State:    o.state,
		Options:  o.options,
		Segments: o.segments.Clone(),
		Err:      o.err,
		Attempt:  o.attempt,
	}
	if o.file != nil {
		f := *o.file
		s.File = &f
	}
	return s
}

// commitLocked publishes the current state and releases o.mu. Holding pubMu
// across the hand-off keeps observers in transition order.
func (o *Orchestrator) commitLocked() {
	snap := o.snapshotLocked()
	observers := o.observers

	o.pubMu.Lock()
	o.mu.Unlock()
	defer o.pubMu.Unlock()

	for _, fn := range observers {
		fn(snap)
	}
}
