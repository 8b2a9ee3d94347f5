package viz

import (
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/ropesim/internal/config"
	"github.com/san-kum/ropesim/internal/scenario"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

const (
	stateScenario = iota
	statePreset
	stateLive
)

// Menu picks a scenario and preset, then hands over to the live view.
type Menu struct {
	registry  *scenario.Registry
	state     int
	cursor    int
	scenarios []string
	presets   []string
	selected  string
	err       string
	live      Model
}

func NewMenu(registry *scenario.Registry) Menu {
	return Menu{registry: registry, scenarios: registry.List()}
}

func (m Menu) Init() tea.Cmd { return nil }

func (m Menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state == stateLive {
		if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
			m.state, m.cursor = statePreset, 0
			return m, nil
		}
		next, cmd := m.live.Update(msg)
		m.live = next.(Model)
		return m, cmd
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	items := m.items()
	switch key.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		if m.state == statePreset {
			m.state, m.cursor = stateScenario, 0
		}
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(items)-1 {
			m.cursor++
		}
	case "enter", " ":
		if len(items) == 0 {
			return m, nil
		}
		if m.state == stateScenario {
			m.selected = items[m.cursor]
			m.presets = config.ListPresets(m.selected)
			if !slices.Contains(m.presets, "default") {
				m.presets = append([]string{"default"}, m.presets...)
			}
			m.state, m.cursor = statePreset, 0
			return m, nil
		}
		return m.launch(items[m.cursor])
	}
	return m, nil
}

func (m Menu) items() []string {
	if m.state == statePreset {
		return m.presets
	}
	return m.scenarios
}

func (m Menu) launch(preset string) (tea.Model, tea.Cmd) {
	cfg := config.GetPreset(m.selected, preset)
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	name := m.selected
	live, err := NewModel(cfg, func(c *config.Config) (*scenario.Scene, error) {
		return m.registry.Build(name, c)
	})
	if err != nil {
		m.err = err.Error()
		return m, nil
	}
	m.live, m.state, m.err = live, stateLive, ""
	return m, live.Init()
}

func (m Menu) View() string {
	if m.state == stateLive {
		return m.live.View()
	}

	var s strings.Builder
	if m.state == stateScenario {
		s.WriteString(cyan.Render("ROPESIM") + dim.Render("  pick a scenario") + "\n\n")
	} else {
		s.WriteString(cyan.Render(strings.ToUpper(m.selected)) + dim.Render("  pick a preset") + "\n\n")
	}
	for i, item := range m.items() {
		line := fmt.Sprintf("%-10s", item)
		if m.state == stateScenario {
			line += dim.Render("  " + m.registry.Describe(item))
		}
		if i == m.cursor {
			s.WriteString(yellow.Render("> ") + white.Render(line) + "\n")
		} else {
			s.WriteString("  " + dim.Render(line) + "\n")
		}
	}
	if m.err != "" {
		s.WriteString("\n" + StatusTorn.Render(m.err) + "\n")
	}
	s.WriteString("\n" + KeyHint.Render("↑↓:Move Enter:Select Esc:Back Q:Quit"))
	return s.String()
}
