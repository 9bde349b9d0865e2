package main

import (
	"context"
	"log/slog"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"

	"github.com/aschmelyun/tscribe/internal/export"
	"github.com/aschmelyun/tscribe/internal/media"
	"github.com/aschmelyun/tscribe/internal/notify"
	"github.com/aschmelyun/tscribe/internal/orchestrator"
	"github.com/aschmelyun/tscribe/internal/transcript"
)

type snapshotMsg struct {
	snap orchestrator.Snapshot
}

type toastMsg struct {
	notification notify.Notification
}

type clearToastMsg struct {
	id int
}

type fileOpenedMsg struct {
	file media.File
}

type exportDoneMsg struct {
	filename string
	copied   bool
	err      error
}

type errorMsg struct {
	err error
}

type model struct {
	ctx      context.Context
	log      *slog.Logger
	orch     *orchestrator.Orchestrator
	exporter *export.Exporter
	selector *media.Selector
	changes  <-chan struct{}
	toasts   <-chan notify.Notification

	snap        orchestrator.Snapshot
	format      export.Format
	picker      filepicker.Model
	picking     bool
	list        list.Model
	spinner     spinner.Model
	help        help.Model
	keys        keyMap
	showDetails bool
	toast       *notify.Notification
	toastID     int
	width       int
	quitting    bool
	statuses    []string
}

type item struct {
	segment  transcript.Segment
	duration string
}

type itemDelegate struct{}
