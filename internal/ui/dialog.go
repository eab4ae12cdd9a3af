package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/user/taillight/internal/config"
	"github.com/user/taillight/internal/pattern"
	"github.com/user/taillight/internal/render"
)

// dialog is the pattern management overlay: an input for new patterns
// and a selectable list of existing ones.
type dialog struct {
	registry *pattern.Registry
	theme    config.ThemeConfig
	input    textinput.Model

	selected int
	errMsg   string
}

func newDialog(reg *pattern.Registry, theme config.ThemeConfig) *dialog {
	ti := textinput.New()
	ti.Placeholder = "Add pattern (regex)..."
	ti.CharLimit = 256
	return &dialog{
		registry: reg,
		theme:    theme,
		input:    ti,
	}
}

func (d *dialog) open() tea.Cmd {
	d.errMsg = ""
	d.input.SetValue("")
	d.input.Focus()
	d.clampSelection()
	return textinput.Blink
}

// handleKey processes one key in dialog mode. It reports whether the
// dialog closed. Invalid patterns never change the registry; the error
// stays visible until the next action.
func (d *dialog) handleKey(msg tea.KeyMsg, ignoreCase bool) (bool, tea.Cmd) {
	switch msg.String() {
	case "esc":
		d.input.Blur()
		return true, nil

	case "enter":
		src := strings.TrimSpace(d.input.Value())
		if src == "" {
			return false, nil
		}
		if _, err := d.registry.Add(src, !ignoreCase); err != nil {
			d.errMsg = err.Error()
			return false, nil
		}
		d.errMsg = ""
		d.input.SetValue("")
		d.selected = d.registry.Len() - 1
		return false, nil

	case "up":
		if d.selected > 0 {
			d.selected--
		}
		return false, nil

	case "down":
		if d.selected < d.registry.Len()-1 {
			d.selected++
		}
		return false, nil

	case "left", "right":
		if p, ok := d.current(); ok {
			d.errMsg = ""
			if err := d.registry.SetCaseSensitive(p.ID, !p.CaseSensitive); err != nil {
				d.errMsg = err.Error()
			}
		}
		return false, nil

	case " ":
		if p, ok := d.current(); ok {
			d.errMsg = ""
			d.registry.SetEnabled(p.ID, !p.Enabled)
		}
		return false, nil

	case "delete":
		if p, ok := d.current(); ok {
			d.errMsg = ""
			d.registry.Delete(p.ID)
			d.clampSelection()
		}
		return false, nil
	}

	var cmd tea.Cmd
	d.input, cmd = d.input.Update(msg)
	return false, cmd
}

func (d *dialog) current() (pattern.Pattern, bool) {
	patterns := d.registry.List()
	if d.selected < 0 || d.selected >= len(patterns) {
		return pattern.Pattern{}, false
	}
	return patterns[d.selected], true
}

func (d *dialog) clampSelection() {
	if d.selected >= d.registry.Len() {
		d.selected = d.registry.Len() - 1
	}
	if d.selected < 0 {
		d.selected = 0
	}
}

// view renders the dialog filling the content area.
func (d *dialog) view(width, height int) string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(d.theme.DialogBorder))
	selectedStyle := lipgloss.NewStyle().Reverse(true)
	disabledStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(d.theme.HintText))
	errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

	var lines []string
	lines = append(lines, titleStyle.Render("Patterns"))
	lines = append(lines, "> "+d.input.View())
	if d.errMsg != "" {
		lines = append(lines, errStyle.Render(d.errMsg))
	} else {
		lines = append(lines, "")
	}

	for i, p := range d.registry.List() {
		caseTag := "Aa"
		if !p.CaseSensitive {
			caseTag = "aa"
		}
		enabledTag := "on "
		if !p.Enabled {
			enabledTag = "off"
		}
		entry := fmt.Sprintf("  %s %s %s", enabledTag, caseTag,
			render.PatternStyle(p.Color).Render(p.Source))
		if !p.Enabled {
			entry = fmt.Sprintf("  %s %s %s", enabledTag, caseTag,
				disabledStyle.Render(p.Source))
		}
		if i == d.selected {
			entry = selectedStyle.Render(">") + entry[1:]
		}
		lines = append(lines, entry)
	}
	if d.registry.Len() == 0 {
		lines = append(lines, disabledStyle.Render("  no patterns yet"))
	}

	for len(lines) < height {
		lines = append(lines, "")
	}
	if len(lines) > height && height > 0 {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}
