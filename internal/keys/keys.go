package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global keybindings for the board client.
type KeyMap struct {
	// Navigation
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding

	// Selection
	Mark       key.Binding
	ClearMarks key.Binding

	// Card actions
	MoveLeft  key.Binding
	MoveRight key.Binding
	Archive   key.Binding
	Delete    key.Binding
	NewCard   key.Binding
	EditCard  key.Binding

	// List actions
	NewList  key.Binding
	CopyList key.Binding

	// Board actions
	Renumber key.Binding
	Refresh  key.Binding
	Export   key.Binding

	// Command palette
	Command key.Binding

	// Help toggle
	Help key.Binding

	// Back / Quit
	Back key.Binding
	Quit key.Binding
}

// DefaultKeyMap returns the default set of keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "card up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "card down"),
		),
		Left: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/←", "previous list"),
		),
		Right: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/→", "next list"),
		),
		Mark: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "mark card"),
		),
		ClearMarks: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "clear marks"),
		),
		MoveLeft: key.NewBinding(
			key.WithKeys("H", "shift+left"),
			key.WithHelp("H", "move to previous list"),
		),
		MoveRight: key.NewBinding(
			key.WithKeys("L", "shift+right"),
			key.WithHelp("L", "move to next list"),
		),
		Archive: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "archive"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		NewCard: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new card"),
		),
		EditCard: key.NewBinding(
			key.WithKeys("e", "enter"),
			key.WithHelp("e", "edit card"),
		),
		NewList: key.NewBinding(
			key.WithKeys("N"),
			key.WithHelp("N", "new list"),
		),
		CopyList: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy list"),
		),
		Renumber: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "renumber board"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Export: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "export xlsx"),
		),
		Command: key.NewBinding(
			key.WithKeys(":"),
			key.WithHelp(":", "command palette"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns the most essential keybindings for the compact help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Left, k.Right, k.Mark, k.MoveRight,
		k.NewCard, k.Help, k.Quit,
	}
}

// FullHelp returns all keybindings grouped by category for the expanded
// help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Back, k.Quit},
		{k.Mark, k.ClearMarks, k.MoveLeft, k.MoveRight, k.Archive, k.Delete},
		{k.NewCard, k.EditCard, k.NewList, k.CopyList},
		{k.Renumber, k.Refresh, k.Export, k.Command, k.Help},
	}
}
