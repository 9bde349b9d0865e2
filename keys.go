package main

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Open        key.Binding
	Back        key.Binding
	Clear       key.Binding
	Start       key.Binding
	Language    key.Binding
	Filler      key.Binding
	Diarization key.Binding
	MaxLength   key.Binding
	Details     key.Binding
	Format      key.Binding
	Copy        key.Binding
	Download    key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Open:        key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open file")),
		Back:        key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close picker")),
		Clear:       key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear file")),
		Start:       key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start")),
		Language:    key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "language")),
		Filler:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "remove filler")),
		Diarization: key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "speakers")),
		MaxLength:   key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "segment length")),
		Details:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "settings details")),
		Format:      key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "txt/json")),
		Copy:        key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy")),
		Download:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "download")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Start, k.Format, k.Copy, k.Download, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Open, k.Back, k.Clear, k.Start},
		{k.Language, k.Filler, k.Diarization, k.MaxLength, k.Details},
		{k.Format, k.Copy, k.Download},
		{k.Help, k.Quit},
	}
}
