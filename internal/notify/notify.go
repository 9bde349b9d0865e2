package notify

import (
	"context"
	"log/slog"
	"sync"
)

type Variant int

const (
	Default Variant = iota
	Destructive
)

func (v Variant) String() string {
	if v == Destructive {
		return "destructive"
	}
	return "default"
}

// Notification is a short user-facing message, shown as a toast by the TUI.
type Notification struct {
	Title       string
	Description string
	Variant     Variant
}

type Notifier interface {
	Notify(n Notification)
}

// Func adapts a plain function to Notifier.
type Func func(Notification)

func (f Func) Notify(n Notification) { f(n) }

// Nop drops every notification.
type Nop struct{}

func (Nop) Notify(Notification) {}

// Log writes notifications to a logger. Destructive ones are logged as errors.
type Log struct {
	Logger *slog.Logger
}

func (l Log) Notify(n Notification) {
	level := slog.LevelInfo
	if n.Variant == Destructive {
		level = slog.LevelError
	}
	l.Logger.Log(context.Background(), level, n.Title, slog.String("description", n.Description))
}

// Chan delivers notifications on a buffered channel. When the buffer is full
// the oldest pending notification is dropped so publishers never block.
type Chan struct {
	mu sync.Mutex
	ch chan Notification
}

func NewChan(size int) *Chan {
	if size < 1 {
		size = 1
	}
	return &Chan{ch: make(chan Notification, size)}
}

func (c *Chan) Notify(n Notification) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for {
		select {
		case c.ch <- n:
			return
		default:
			select {
			case <-c.ch:
			default:
			}
		}
	}
}

func (c *Chan) C() <-chan Notification { return c.ch }

// Multi fans a notification out to several notifiers.
type Multi []Notifier

func (m Multi) Notify(n Notification) {
	for _, nt := range m {
		nt.Notify(n)
	}
}

// Recorder keeps every notification it receives. Safe for concurrent use.
type Recorder struct {
	mu   sync.Mutex
	sent []Notification
}

func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
}

func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.sent))
	copy(out, r.sent)
	return out
}
