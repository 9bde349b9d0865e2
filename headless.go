package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aschmelyun/tscribe/internal/config"
	"github.com/aschmelyun/tscribe/internal/export"
	"github.com/aschmelyun/tscribe/internal/media"
	"github.com/aschmelyun/tscribe/internal/notify"
	"github.com/aschmelyun/tscribe/internal/orchestrator"
)

type headlessJob struct {
	path   string
	opts   orchestrator.Options
	format export.Format
	copy   bool
	print  bool
}

func status(w io.Writer, msg string) {
	fmt.Fprintln(w, BulletStyle.Render("├")+TextStyle.Render(msg))
}

// runHeadless drives the same select, start and export flow as the terminal UI
// from flags, for scripts and pipes. Progress goes to info; out only ever
// receives the printed transcript.
func runHeadless(ctx context.Context, cfg *config.Config, job headlessJob, cb export.Clipboard, out, info io.Writer, log *slog.Logger) error {
	selector := media.NewSelector(log)
	selector.MaxSize = cfg.MaxFileBytes()
	selector.EnforceMaxSize = cfg.Input.EnforceMaxSize

	f, err := selector.Open(job.path)
	if err != nil {
		return err
	}

	notifier := notify.Log{Logger: log}
	orch := orchestrator.New(
		orchestrator.MockService{Delay: cfg.Transcription.SimulatedDelay},
		orchestrator.WithLogger(log),
		orchestrator.WithNotifier(notifier),
		orchestrator.WithOptions(job.opts),
	)

	orch.SelectFile(f)
	status(info, fmt.Sprintf("Selected %s (%s)", f.Name, f.SizeLabel()))

	if _, err := orch.Start(ctx); err != nil {
		return err
	}
	status(info, "Transcribing ("+orchestrator.LanguageLabel(job.opts.Language)+")...")

	if err := orch.Wait(ctx); err != nil {
		return err
	}

	snap := orch.Snapshot()
	if snap.State != orchestrator.Complete {
		if snap.Err != nil {
			return snap.Err
		}
		return fmt.Errorf("transcription ended in state %s", snap.State)
	}
	status(info, fmt.Sprintf("Transcription finished: %d segments.", len(snap.Segments)))

	exporter := export.New(
		export.DirSaver{Dir: cfg.Export.Dir},
		cb,
		export.WithLogger(log),
		export.WithNotifier(notifier),
	)

	switch {
	case job.print:
		content, err := export.Render(snap.Segments, job.format)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, content)
	case job.copy:
		if err := exporter.CopyTranscript(snap.Segments); err != nil {
			return err
		}
		status(info, "Transcript copied to clipboard.")
	default:
		name, err := exporter.DownloadTranscript(snap.Segments, job.format)
		if err != nil {
			return err
		}
		status(info, "Saved transcript to "+name)
	}

	return nil
}
