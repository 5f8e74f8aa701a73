package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

type PickerItem struct {
	Engine  string
	Name    string
	Summary string
}

// Picker lets the user choose a preset before a live run.
type Picker struct {
	items    []PickerItem
	cursor   int
	selected int
}

func NewPicker(items []PickerItem) Picker {
	return Picker{items: items, selected: -1}
}

// Selected returns the chosen item; ok is false when the picker was quit.
func (p Picker) Selected() (PickerItem, bool) {
	if p.selected < 0 {
		return PickerItem{}, false
	}
	return p.items[p.selected], true
}

func (p Picker) Init() tea.Cmd { return nil }

func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return p, tea.Quit
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.items)-1 {
			p.cursor++
		}
	case "enter", " ":
		if len(p.items) > 0 {
			p.selected = p.cursor
			return p, tea.Quit
		}
	}
	return p, nil
}

func (p Picker) View() string {
	st := currentStyles()
	var s strings.Builder
	s.WriteString(st.header.Render("LJSIM") + "\n")
	for i, it := range p.items {
		line := fmt.Sprintf("%-3s %-10s %s", it.Engine, it.Name, st.muted.Render(it.Summary))
		if i == p.cursor {
			s.WriteString(st.cursor.Render("> ") + line + "\n")
		} else {
			s.WriteString("  " + line + "\n")
		}
	}
	s.WriteString("\n" + st.muted.Render("↑/↓ select  enter run  q quit") + "\n")
	return s.String()
}
