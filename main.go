package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/aschmelyun/tscribe/internal/config"
	"github.com/aschmelyun/tscribe/internal/export"
	"github.com/aschmelyun/tscribe/internal/logger"
	"github.com/aschmelyun/tscribe/internal/media"
	"github.com/aschmelyun/tscribe/internal/notify"
	"github.com/aschmelyun/tscribe/internal/orchestrator"
)

const VERSION = "1.0.0"

const (
	leftWidth  = 38
	minRight   = 48
	listHeight = 14
)

func newModel(ctx context.Context, log *slog.Logger, orch *orchestrator.Orchestrator, exporter *export.Exporter, selector *media.Selector, toasts <-chan notify.Notification, format export.Format, startDir string) model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	fp := filepicker.New()
	fp.AllowedTypes = media.PickerTypes()
	fp.CurrentDirectory = startDir
	fp.ShowHidden = false

	snap := orch.Snapshot()

	return model{
		ctx:      ctx,
		log:      log,
		orch:     orch,
		exporter: exporter,
		selector: selector,
		changes:  observe(orch),
		toasts:   toasts,
		snap:     snap,
		format:   format,
		picker:   fp,
		picking:  !snap.HasFile(),
		list:     newTranscriptList(minRight, listHeight),
		spinner:  s,
		help:     help.New(),
		keys:     defaultKeyMap(),
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		m.picker.Init(),
		waitForChange(m.changes, m.orch),
		waitForToast(m.toasts),
	)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		if m.picking {
			return m.updatePicker(msg)
		}
		if m.list.FilterState() == list.Filtering {
			var cmd tea.Cmd
			m.list, cmd = m.list.Update(msg)
			return m, cmd
		}
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.list.SetSize(m.rightWidth()-4, listHeight)
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd

	case snapshotMsg:
		return m.applySnapshot(msg.snap)

	case toastMsg:
		n := msg.notification
		m.toast = &n
		m.toastID++
		return m, tea.Batch(waitForToast(m.toasts), clearToastCmd(m.toastID))

	case clearToastMsg:
		if msg.id == m.toastID {
			m.toast = nil
		}
		return m, nil

	case fileOpenedMsg:
		m.picking = false
		m.orch.SelectFile(msg.file)
		m.statuses = append(m.statuses, "Selected "+msg.file.Name+" ("+msg.file.SizeLabel()+")")
		return m, nil

	case exportDoneMsg:
		switch {
		case msg.err != nil:
			m.statuses = append(m.statuses, msg.err.Error())
		case msg.copied:
			m.statuses = append(m.statuses, "Transcript copied to clipboard.")
		default:
			m.statuses = append(m.statuses, "Saved transcript to "+msg.filename)
		}
		return m, nil

	case errorMsg:
		m.log.Error("action failed", slog.String("error", msg.err.Error()))
		m.statuses = append(m.statuses, msg.err.Error())
		cmd := m.showError("Error", msg.err)
		return m, cmd

	case spinner.TickMsg:
		if m.snap.State == orchestrator.Processing {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	return m, cmd
}

func (m model) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Back) && m.snap.HasFile() {
		m.picking = false
		return m, nil
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	if ok, path := m.picker.DidSelectFile(msg); ok {
		m.picking = false
		return m, tea.Batch(cmd, openFileCmd(m.selector, path))
	}
	if ok, path := m.picker.DidSelectDisabledFile(msg); ok {
		err := fmt.Errorf("%w: '%s' is not a supported audio file (%s)", media.ErrInputRejected, filepath.Base(path), strings.Join(media.AllowedExtensions, ", "))
		return m, tea.Batch(cmd, func() tea.Msg { return errorMsg{err: err} })
	}

	return m, cmd
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Open):
		m.picking = true
		return m, m.picker.Init()

	case key.Matches(msg, m.keys.Clear):
		if m.snap.HasFile() {
			m.orch.Clear()
			m.statuses = append(m.statuses, "File cleared.")
		}
		return m, nil

	case key.Matches(msg, m.keys.Start):
		started, err := m.orch.Start(m.ctx)
		if err != nil {
			if errors.Is(err, orchestrator.ErrNoFile) {
				cmd := m.showError("No file", errors.New("select an audio file first"))
				return m, cmd
			}
			cmd := m.showError("Error", err)
			return m, cmd
		}
		if started {
			m.statuses = append(m.statuses, "Transcription started.")
		}
		return m, nil

	case key.Matches(msg, m.keys.Language):
		cmd := m.updateOptions(m.orch.Snapshot().Options.NextLanguage())
		return m, cmd

	case key.Matches(msg, m.keys.Filler):
		opts := m.orch.Snapshot().Options
		opts.RemoveFiller = !opts.RemoveFiller
		cmd := m.updateOptions(opts)
		return m, cmd

	case key.Matches(msg, m.keys.Diarization):
		opts := m.orch.Snapshot().Options
		opts.SpeakerDiarization = !opts.SpeakerDiarization
		cmd := m.updateOptions(opts)
		return m, cmd

	case key.Matches(msg, m.keys.MaxLength):
		cmd := m.updateOptions(m.orch.Snapshot().Options.NextSegmentLength())
		return m, cmd

	case key.Matches(msg, m.keys.Details):
		m.showDetails = !m.showDetails
		return m, nil

	case key.Matches(msg, m.keys.Format):
		m.format = m.format.Toggle()
		return m, nil

	case key.Matches(msg, m.keys.Copy):
		if len(m.snap.Segments) == 0 || m.snap.State == orchestrator.Processing {
			return m, nil
		}
		return m, copyCmd(m.exporter, m.snap.Segments)

	case key.Matches(msg, m.keys.Download):
		if len(m.snap.Segments) == 0 || m.snap.State == orchestrator.Processing {
			return m, nil
		}
		return m, downloadCmd(m.exporter, m.snap.Segments, m.format)

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *model) updateOptions(opts orchestrator.Options) tea.Cmd {
	if err := m.orch.SetOptions(opts); err != nil {
		return m.showError("Invalid setting", err)
	}
	return nil
}

// showError displays a destructive toast directly, without going through the
// notifier channel.
func (m *model) showError(title string, err error) tea.Cmd {
	m.toast = &notify.Notification{Title: title, Description: err.Error(), Variant: notify.Destructive}
	m.toastID++
	return clearToastCmd(m.toastID)
}

func (m model) applySnapshot(snap orchestrator.Snapshot) (tea.Model, tea.Cmd) {
	prev := m.snap
	m.snap = snap

	cmds := []tea.Cmd{waitForChange(m.changes, m.orch)}

	if snap.State == orchestrator.Processing && prev.State != orchestrator.Processing {
		cmds = append(cmds, m.spinner.Tick)
	}
	if snap.State == orchestrator.Complete && prev.State != orchestrator.Complete {
		m.statuses = append(m.statuses, "Transcription finished.")
	}
	if snap.State == orchestrator.Failed && prev.State != orchestrator.Failed && snap.Err != nil {
		m.statuses = append(m.statuses, snap.Err.Error())
	}
	if !snap.HasFile() {
		m.picking = true
	}

	m.list.ResetFilter()
	cmds = append(cmds, m.list.SetItems(segmentItems(snap.Segments, m.log)))

	return m, tea.Batch(cmds...)
}

func (m model) rightWidth() int {
	w := m.width - leftWidth - 4
	if w < minRight {
		return minRight
	}
	return w
}

func (m model) View() string {
	if m.quitting {
		return styleOutput(m.statuses)
	}

	left := lipgloss.JoinVertical(lipgloss.Left, m.fileView(), m.settingsView())
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, m.transcriptView())

	return body + "\n" + m.toastView() + "\n" + m.help.View(m.keys) + "\n"
}

func (m model) fileView() string {
	style := PanelStyle.Width(leftWidth)
	if m.picking {
		style = ActivePanelStyle.Width(leftWidth)
		hint := DimTextStyle.Render(strings.Join(media.AllowedExtensions, " ") + "\n" + fmt.Sprintf("up to %d MB", m.selector.Limit()/1024/1024))
		return style.Render(TitleStyle.Render("Select an audio file") + "\n" + m.picker.View() + "\n" + hint)
	}

	f := m.snap.File
	if f == nil {
		return style.Render(DimTextStyle.Render("No file selected. Press o to choose one."))
	}

	lines := []string{TextStyle.Render(f.Name), DimTextStyle.Render(f.SizeLabel())}
	if f.Title != "" {
		meta := f.Title
		if f.Artist != "" {
			meta += " · " + f.Artist
		}
		lines = append(lines, DimTextStyle.Render(meta))
	}
	return style.Render(strings.Join(lines, "\n"))
}

func (m model) settingsView() string {
	opts := m.snap.Options

	lines := []string{
		TitleStyle.Render("Settings"),
		"Language: " + orchestrator.LanguageLabel(opts.Language),
	}
	if m.showDetails {
		lines = append(lines,
			checkbox(opts.RemoveFiller)+" Remove filler words",
			checkbox(opts.SpeakerDiarization)+" Speaker diarization",
			fmt.Sprintf("Max segment length: %d min", opts.MaxSegmentLength),
		)
	} else {
		lines = append(lines, DimTextStyle.Render("press e for details"))
	}

	switch {
	case m.snap.State == orchestrator.Processing:
		lines = append(lines, "", m.spinner.View()+"Processing...")
	case m.snap.CanStart():
		lines = append(lines, "", SuccessStyle.Render("press s to start transcription"))
	default:
		lines = append(lines, "", DimTextStyle.Render("select a file to start"))
	}

	return PanelStyle.Width(leftWidth).Render(strings.Join(lines, "\n"))
}

func (m model) transcriptView() string {
	style := PanelStyle.Width(m.rightWidth())

	if m.snap.State == orchestrator.Processing {
		lines := []string{m.spinner.View() + TextStyle.Render("Transcribing...")}
		for i := 0; i < 3; i++ {
			lines = append(lines, "", PlaceholderStyle.Render(strings.Repeat("▇", 36)), PlaceholderStyle.Render(strings.Repeat("▇", 24)))
		}
		return style.Render(strings.Join(lines, "\n"))
	}

	if len(m.snap.Segments) == 0 {
		return style.Render(TitleStyle.Render("No transcript yet") + "\n" +
			DimTextStyle.Render("Select an audio file and start a transcription"))
	}

	start, end := m.snap.Segments.Span()
	header := fmt.Sprintf("%s %s  %s",
		TitleStyle.Render("Transcript"),
		BadgeStyle.Render(fmt.Sprintf("%d segments", len(m.snap.Segments))),
		DimTextStyle.Render("format: "+m.format.String()))
	span := DimTextStyle.Render(fmt.Sprintf("Start: %s | End: %s", start, end))

	return style.Render(header + "\n" + span + "\n\n" + m.list.View())
}

func (m model) toastView() string {
	if m.toast == nil {
		return ""
	}
	text := m.toast.Title
	if m.toast.Description != "" {
		text += ": " + m.toast.Description
	}
	if m.toast.Variant == notify.Destructive {
		return BulletStyle.Render("└") + ErrorStyle.Render(text)
	}
	return BulletStyle.Render("└") + SuccessStyle.Render(text)
}

func banner(w io.Writer) {
	fmt.Fprintln(w, BulletStyle.Render("┌")+TitleStyle.Render("tscribe"))
}

func main() {
	var lang string
	var format string
	var outDir string
	var configPath string
	var copyOut bool
	var printOut bool
	var headless bool
	var showHelp bool
	var showVersion bool

	flag.StringVar(&lang, "lang", "", "Language for transcription (auto, tr, en, de, fr, es)")
	flag.StringVar(&format, "format", "", "Download format (txt or json)")
	flag.StringVar(&outDir, "out", "", "Directory downloads are written to")
	flag.StringVar(&configPath, "config", "", "Optional YAML configuration file")
	flag.BoolVar(&copyOut, "copy", false, "Copy the transcript to the clipboard instead of downloading it (headless)")
	flag.BoolVar(&printOut, "print", false, "Print the transcript to stdout instead of downloading it (headless)")
	flag.BoolVar(&headless, "headless", false, "Run without the terminal UI")
	flag.BoolVar(&showHelp, "help", false, "Show usage info")
	flag.BoolVar(&showVersion, "version", false, "Show version info")
	flag.Usage = func() {
		banner(os.Stdout)
		fmt.Println(BulletStyle.Render("├") + TextStyle.Render("Usage: tscribe [options] [audio-file]"))
		fmt.Println(BulletStyle.Render("│"))
		fmt.Println(BulletStyle.Render("├") + TextStyle.Render("Options:"))
		fmt.Println(BulletStyle.Render("├────") + TextStyle.Render("--lang") + DimTextStyle.Render("      language for transcription (auto, tr, en, de, fr, es)"))
		fmt.Println(BulletStyle.Render("├────") + TextStyle.Render("--format") + DimTextStyle.Render("    download format (txt, json)"))
		fmt.Println(BulletStyle.Render("├────") + TextStyle.Render("--out") + DimTextStyle.Render("       directory downloads are written to"))
		fmt.Println(BulletStyle.Render("├────") + TextStyle.Render("--config") + DimTextStyle.Render("    optional YAML configuration file"))
		fmt.Println(BulletStyle.Render("├────") + TextStyle.Render("--headless") + DimTextStyle.Render("  run without the terminal UI"))
		fmt.Println(BulletStyle.Render("├────") + TextStyle.Render("--copy") + DimTextStyle.Render("      copy instead of download (headless)"))
		fmt.Println(BulletStyle.Render("├────") + TextStyle.Render("--print") + DimTextStyle.Render("     print instead of download (headless)"))
		fmt.Println(BulletStyle.Render("│"))
		fmt.Println(BulletStyle.Render("├") + TextStyle.Render("Environment:"))
		for _, line := range strings.Split(strings.TrimSpace(config.Description()), "\n") {
			fmt.Println(BulletStyle.Render("├────") + DimTextStyle.Render(strings.TrimSpace(line)))
		}
		fmt.Println(BulletStyle.Render("│"))
		fmt.Println(BulletStyle.Render("└") + TextStyle.Render("Supported formats:") + DimTextStyle.Render(" "+strings.Join(media.AllowedExtensions, ", ")))
	}

	flag.Parse()

	// With -print, stdout carries only the transcript.
	console := io.Writer(os.Stdout)
	if printOut {
		console = os.Stderr
	}

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	banner(console)

	if showVersion {
		fmt.Fprintln(console, BulletStyle.Render("└")+TextStyle.Render(VERSION))
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) > 1 {
		fmt.Fprintln(console, BulletStyle.Render("└")+TextStyle.Render("Error: only one audio file can be transcribed at a time."))
		os.Exit(1)
	}

	cfg, err := config.Load(configPath, ".env")
	if err != nil {
		fmt.Fprintf(console, BulletStyle.Render("└")+TextStyle.Render("Error: %v")+"\n", err)
		os.Exit(1)
	}

	opts := cfg.Options()
	if lang != "" {
		opts.Language = lang
	}
	if err := opts.Validate(); err != nil {
		fmt.Fprintf(console, BulletStyle.Render("└")+TextStyle.Render("Error: %v")+"\n", err)
		os.Exit(1)
	}

	exportFormat := cfg.ExportFormat()
	if format != "" {
		if exportFormat, err = export.ParseFormat(format); err != nil {
			fmt.Fprintf(console, BulletStyle.Render("└")+TextStyle.Render("Error: %v")+"\n", err)
			os.Exit(1)
		}
	}
	if outDir != "" {
		cfg.Export.Dir = outDir
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	interactive := !headless && term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
	if !interactive {
		if len(args) != 1 {
			fmt.Fprintln(console, BulletStyle.Render("└")+TextStyle.Render("Error: an audio file is required in headless mode."))
			os.Exit(1)
		}

		log := logger.New(logger.Config{Level: cfg.LogLevel(), Output: os.Stderr, JSONFormat: cfg.Log.JSON})
		job := headlessJob{
			path:   args[0],
			opts:   opts,
			format: exportFormat,
			copy:   copyOut,
			print:  printOut,
		}
		if err := runHeadless(ctx, cfg, job, export.SystemClipboard{}, os.Stdout, console, log); err != nil {
			fmt.Fprintf(console, BulletStyle.Render("└")+ErrorStyle.Render("Error: %v")+"\n", err)
			os.Exit(1)
		}
		return
	}

	logFile, err := logger.OpenFile(cfg.Log.File)
	if err != nil {
		fmt.Fprintf(console, BulletStyle.Render("└")+TextStyle.Render("Error: %v")+"\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	log := logger.New(logger.Config{Level: cfg.LogLevel(), Output: logFile, AddSource: true, JSONFormat: cfg.Log.JSON})

	toasts := notify.NewChan(8)
	notifier := notify.Multi{notify.Log{Logger: log}, toasts}

	selector := media.NewSelector(log)
	selector.MaxSize = cfg.MaxFileBytes()
	selector.EnforceMaxSize = cfg.Input.EnforceMaxSize

	orch := orchestrator.New(
		orchestrator.MockService{Delay: cfg.Transcription.SimulatedDelay},
		orchestrator.WithLogger(log),
		orchestrator.WithNotifier(notifier),
		orchestrator.WithOptions(opts),
	)
	exporter := export.New(
		export.DirSaver{Dir: cfg.Export.Dir},
		export.SystemClipboard{},
		export.WithLogger(log),
		export.WithNotifier(notifier),
	)

	startDir, err := os.Getwd()
	if err != nil {
		startDir = "."
	}

	if len(args) == 1 {
		f, err := selector.Open(args[0])
		if err != nil {
			fmt.Fprintf(console, BulletStyle.Render("└")+TextStyle.Render("Error: %v")+"\n", err)
			os.Exit(1)
		}
		orch.SelectFile(f)
	}

	p := tea.NewProgram(
		newModel(ctx, log, orch, exporter, selector, toasts.C(), exportFormat, startDir),
		tea.WithContext(ctx),
	)

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		log.Error("program exited with error", slog.String("error", err.Error()))
		fmt.Fprintf(console, "Error running program: %v", err)
	}

	orch.Clear()
	waitCtx, waitCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer waitCancel()
	if err := orch.Wait(waitCtx); err != nil {
		log.Warn("transcription job did not stop in time", slog.String("error", err.Error()))
	}
}
