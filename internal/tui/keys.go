package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Play      key.Binding
	Back      key.Binding
	Forward   key.Binding
	Prev      key.Binding
	Next      key.Binding
	Track     key.Binding
	Split     key.Binding
	Add       key.Binding
	Duplicate key.Binding
	Delete    key.Binding
	MoveUp    key.Binding
	MoveDown  key.Binding
	Louder    key.Binding
	Quieter   key.Binding
	Caption   key.Binding
	Undo      key.Binding
	Redo      key.Binding
	Save      key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Play:      key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "play/pause")),
		Back:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "seek back")),
		Forward:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "seek forward")),
		Prev:      key.NewBinding(key.WithKeys("[", "up", "k"), key.WithHelp("[", "prev segment")),
		Next:      key.NewBinding(key.WithKeys("]", "down", "j"), key.WithHelp("]", "next segment")),
		Track:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "cycle audio tracks")),
		Split:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "split at cursor")),
		Add:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add segment")),
		Duplicate: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "duplicate")),
		Delete:    key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		MoveUp:    key.NewBinding(key.WithKeys("K"), key.WithHelp("K", "move up")),
		MoveDown:  key.NewBinding(key.WithKeys("J"), key.WithHelp("J", "move down")),
		Louder:    key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "volume up")),
		Quieter:   key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "volume down")),
		Caption:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "estimate captions")),
		Undo:      key.NewBinding(key.WithKeys("u", "ctrl+z"), key.WithHelp("u", "undo")),
		Redo:      key.NewBinding(key.WithKeys("r", "ctrl+y"), key.WithHelp("r", "redo")),
		Save:      key.NewBinding(key.WithKeys("w", "ctrl+s"), key.WithHelp("w", "save")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp satisfies help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Play, k.Split, k.Delete, k.Undo, k.Redo, k.Save, k.Help, k.Quit}
}

// FullHelp satisfies help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Play, k.Back, k.Forward, k.Prev, k.Next, k.Track},
		{k.Split, k.Add, k.Duplicate, k.Delete, k.MoveUp, k.MoveDown},
		{k.Louder, k.Quieter, k.Caption, k.Undo, k.Redo},
		{k.Save, k.Help, k.Quit},
	}
}
