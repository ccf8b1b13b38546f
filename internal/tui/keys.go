package tui

import "github.com/charmbracelet/bubbles/key"

// mainKeys holds key bindings of the main screen.
type mainKeys struct {
	NextField key.Binding
	PrevField key.Binding
	Up        key.Binding
	Down      key.Binding
	Submit    key.Binding
	Edit      key.Binding
	Delete    key.Binding
	Search    key.Binding
	Theme     key.Binding
	Quit      key.Binding
}

// ShortHelp returns the main screen bindings for the help bar.
func (k mainKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.NextField, k.Submit, k.Edit, k.Delete, k.Search, k.Theme, k.Quit}
}

// FullHelp returns the main screen bindings grouped for expanded help.
func (k mainKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextField, k.PrevField, k.Up, k.Down},
		{k.Submit, k.Edit, k.Delete, k.Search},
		{k.Theme, k.Quit},
	}
}

// editKeys holds key bindings of the edit dialog.
type editKeys struct {
	NextField key.Binding
	PrevField key.Binding
	Save      key.Binding
	Cancel    key.Binding
}

// ShortHelp returns the edit dialog bindings for the help bar.
func (k editKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.NextField, k.Save, k.Cancel}
}

// FullHelp returns the edit dialog bindings grouped for expanded help.
func (k editKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.NextField, k.PrevField}, {k.Save, k.Cancel}}
}

// confirmKeys holds key bindings of the delete confirmation.
type confirmKeys struct {
	Yes key.Binding
	No  key.Binding
}

// ShortHelp returns the confirmation bindings for the help bar.
func (k confirmKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Yes, k.No}
}

// FullHelp returns the confirmation bindings grouped for expanded help.
func (k confirmKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Yes, k.No}}
}

// MainKeyMap returns the key bindings of the main screen.
func MainKeyMap() mainKeys {
	return mainKeys{
		NextField: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "previous field"),
		),
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "previous contact"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "next contact"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "add contact"),
		),
		// Edit and Delete only apply while the contact list has focus,
		// where plain letters are not typed into a field.
		Edit: key.NewBinding(
			key.WithKeys("e", "enter"),
			key.WithHelp("e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "delete"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Theme: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "theme"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// EditKeyMap returns the key bindings of the edit dialog.
func EditKeyMap() editKeys {
	return editKeys{
		NextField: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "previous field"),
		),
		Save: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "save"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}
}

// ConfirmKeyMap returns the key bindings of the delete confirmation.
func ConfirmKeyMap() confirmKeys {
	return confirmKeys{
		Yes: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "delete"),
		),
		No: key.NewBinding(
			key.WithKeys("n", "N", "esc"),
			key.WithHelp("n/esc", "keep"),
		),
	}
}
