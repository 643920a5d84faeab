package editing

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	MoveUp   key.Binding
	MoveDown key.Binding
	Edit     key.Binding
	Rename   key.Binding
	Tool     key.Binding
	Agent    key.Binding
	Revise   key.Binding
	Delete   key.Binding
	Add      key.Binding
	Undo     key.Binding
	Redo     key.Binding
	Confirm  key.Binding
	Back     key.Binding
	Reset    key.Binding
	Diff     key.Binding
	Cancel   key.Binding
	Quit     key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.MoveUp, k.Edit, k.Revise, k.Delete, k.Add, k.Undo, k.Redo, k.Confirm, k.Back}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.MoveUp, k.MoveDown},
		{k.Edit, k.Rename, k.Tool, k.Agent, k.Revise, k.Delete, k.Add},
		{k.Undo, k.Redo, k.Diff},
		{k.Confirm, k.Back, k.Reset, k.Quit},
	}
}

var keys = keyMap{
	Up:       key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("j/k", "select")),
	Down:     key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j", "down")),
	MoveUp:   key.NewBinding(key.WithKeys("K", "shift+up"), key.WithHelp("J/K", "move")),
	MoveDown: key.NewBinding(key.WithKeys("J", "shift+down"), key.WithHelp("J", "move down")),
	Edit:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
	Rename:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "retitle")),
	Tool:     key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "tool")),
	Agent:    key.NewBinding(key.WithKeys("@"), key.WithHelp("@", "agent")),
	Revise:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "revise")),
	Delete:   key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
	Add:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
	Undo:     key.NewBinding(key.WithKeys("u", "ctrl+z"), key.WithHelp("u", "undo")),
	Redo:     key.NewBinding(key.WithKeys("ctrl+r", "U"), key.WithHelp("ctrl+r", "redo")),
	Confirm:  key.NewBinding(key.WithKeys("enter", "c"), key.WithHelp("enter", "review")),
	Back:     key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "back")),
	Reset:    key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "start over")),
	Diff:     key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "toggle diff")),
	Cancel:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel revision")),
	Quit:     key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
}
