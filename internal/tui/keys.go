package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
)

type keyMap struct {
	Quit      key.Binding
	Up        key.Binding
	Down      key.Binding
	Mark      key.Binding
	Filter    key.Binding
	Classify  key.Binding
	Merchant  key.Binding
	Confirm   key.Binding
	Deny      key.Binding
	Cancel    key.Binding
	AddCat    key.Binding
	AutoAll   key.Binding
	Import    key.Binding
	Analytics key.Binding
	Back      key.Binding
	Reload    key.Binding
	Reset     key.Binding
	NextBank  key.Binding
	ZeroFill  key.Binding
	Expenses  key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Mark:      key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "mark")),
		Filter:    key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "type filter")),
		Classify:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "classify")),
		Merchant:  key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "all from business")),
		Confirm:   key.NewBinding(key.WithKeys("y", "enter"), key.WithHelp("y", "confirm")),
		Deny:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "no")),
		Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		AddCat:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new category")),
		AutoAll:   key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "classify all")),
		Import:    key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "import")),
		Analytics: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "analytics")),
		Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Reload:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Reset:     key.NewBinding(key.WithKeys("X"), key.WithHelp("X", "reset db")),
		NextBank:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "bank")),
		ZeroFill:  key.NewBinding(key.WithKeys("z"), key.WithHelp("z", "zero fill")),
		Expenses:  key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "spending only")),
	}
}

// tableKeys keeps only the line and page movements; the single letters the
// default table map uses are app actions here.
func tableKeys() table.KeyMap {
	km := table.DefaultKeyMap()
	km.PageUp = key.NewBinding(key.WithKeys("pgup"))
	km.PageDown = key.NewBinding(key.WithKeys("pgdown"))
	km.HalfPageUp = key.NewBinding(key.WithKeys("ctrl+u"))
	km.HalfPageDown = key.NewBinding(key.WithKeys("ctrl+d"))
	km.GotoTop = key.NewBinding(key.WithKeys("home"))
	km.GotoBottom = key.NewBinding(key.WithKeys("end"))
	return km
}

// helpLine renders bindings as "[k] desc" pairs.
func helpLine(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, keyStyle.Render("["+h.Key+"]")+" "+helpStyle.Render(h.Desc))
	}
	return strings.Join(parts, "  ")
}

// hint is a help-only binding for keys handled outside the keyMap.
func hint(k, desc string) key.Binding {
	return key.NewBinding(key.WithKeys(k), key.WithHelp(k, desc))
}
