package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/aschmelyun/tscribe/internal/export"
	"github.com/aschmelyun/tscribe/internal/media"
	"github.com/aschmelyun/tscribe/internal/notify"
	"github.com/aschmelyun/tscribe/internal/orchestrator"
	"github.com/aschmelyun/tscribe/internal/transcript"
)

const toastTTL = 4 * time.Second

func (i item) FilterValue() string { return i.segment.Speaker + " " + i.segment.Text }

func (d itemDelegate) Height() int                             { return 2 }
func (d itemDelegate) Spacing() int                            { return 1 }
func (d itemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(item)
	if !ok {
		return
	}

	header := fmt.Sprintf("%s %s  %s",
		SpeakerStyle.Render(i.segment.Speaker),
		BadgeStyle.Render(i.duration),
		TimestampStyle.Render(i.segment.Start+" - "+i.segment.End))

	fn := ItemStyle.Render
	if index == m.Index() {
		fn = func(s ...string) string {
			return SelectedItemStyle.Render("> " + strings.Join(s, " "))
		}
	}

	fmt.Fprintf(w, "%s\n%s", ItemStyle.Render(header), fn(i.segment.Text))
}

func newTranscriptList(width, height int) list.Model {
	l := list.New(nil, itemDelegate{}, width, height)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)
	l.SetShowPagination(true)
	return l
}

// segmentItems converts segments to list items. A segment whose duration
// cannot be computed is still listed, with the problem logged.
func segmentItems(segments transcript.Transcript, log *slog.Logger) []list.Item {
	items := make([]list.Item, len(segments))
	for i, s := range segments {
		label, err := transcript.ComputeDurationLabel(s)
		if err != nil {
			log.Warn("cannot compute segment duration", slog.Int("index", i), slog.String("error", err.Error()))
			label = "?"
		}
		items[i] = item{segment: s, duration: label}
	}
	return items
}

// waitForChange blocks until the orchestrator publishes a transition and then
// reports its current state.
func waitForChange(changes <-chan struct{}, orch *orchestrator.Orchestrator) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return snapshotMsg{snap: orch.Snapshot()}
	}
}

func waitForToast(toasts <-chan notify.Notification) tea.Cmd {
	return func() tea.Msg {
		n, ok := <-toasts
		if !ok {
			return nil
		}
		return toastMsg{notification: n}
	}
}

func clearToastCmd(id int) tea.Cmd {
	return tea.Tick(toastTTL, func(time.Time) tea.Msg {
		return clearToastMsg{id: id}
	})
}

func openFileCmd(selector *media.Selector, path string) tea.Cmd {
	return func() tea.Msg {
		f, err := selector.Open(path)
		if err != nil {
			return errorMsg{err: err}
		}
		return fileOpenedMsg{file: f}
	}
}

func downloadCmd(exporter *export.Exporter, segments transcript.Transcript, format export.Format) tea.Cmd {
	return func() tea.Msg {
		name, err := exporter.DownloadTranscript(segments, format)
		return exportDoneMsg{filename: name, err: err}
	}
}

func copyCmd(exporter *export.Exporter, segments transcript.Transcript) tea.Cmd {
	return func() tea.Msg {
		err := exporter.CopyTranscript(segments)
		return exportDoneMsg{copied: true, err: err}
	}
}

// observe turns orchestrator transitions into a coalescing signal channel.
func observe(orch *orchestrator.Orchestrator) <-chan struct{} {
	changes := make(chan struct{}, 1)
	orch.Subscribe(func(orchestrator.Snapshot) {
		select {
		case changes <- struct{}{}:
		default:
		}
	})
	return changes
}

func styleOutput(statuses []string) string {
	var styledStatuses []string
	for i, status := range statuses {
		bullet := "├"
		if i == len(statuses)-1 {
			bullet = "└"
		}
		styledStatuses = append(styledStatuses, BulletStyle.Render(bullet)+TextStyle.Render(status))
	}
	return strings.Join(styledStatuses, "\n") + "\n"
}

func checkbox(on bool) string {
	if on {
		return "◼"
	}
	return "☐"
}
