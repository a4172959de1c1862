package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/amr9/gofetch/pkg/config"
)

// ConfirmModel is the TUI's setup phase: show the loaded scenario and let
// the operator confirm before any request goes out, the same
// "review-then-launch" gate the teacher's multi-step wizard built up to,
// scoped down to one confirm prompt since the scenario itself was already
// fully specified by the YAML file gofetchctl loaded.
type ConfirmModel struct {
	cfg       *config.ScenarioConfig
	form      *huh.Form
	confirmed bool
	done      bool
}

func NewConfirmModel(cfg *config.ScenarioConfig) *ConfirmModel {
	m := &ConfirmModel{cfg: cfg}
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Run %d request(s) against %s?", len(cfg.Requests), cfg.BaseURL)).
				Affirmative("Run it").
				Negative("Cancel").
				Value(&m.confirmed),
		),
	).WithTheme(MakeNeonTheme())
	return m
}

func (m *ConfirmModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m *ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	if m.form.State == huh.StateCompleted {
		m.done = true
	}
	return m, cmd
}

func (m *ConfirmModel) Done() bool      { return m.done }
func (m *ConfirmModel) Confirmed() bool { return m.confirmed }

func (m *ConfirmModel) View() string {
	logo := logoStyle.Render(asciiLogo)
	subtitle := subtitleStyle.Render("Embeddable HTTP client scenario runner")

	var s string
	s += borderStyle.Render(logo+subtitle) + "\n\n"

	for i, r := range m.cfg.Requests {
		name := r.Name
		if name == "" {
			name = fmt.Sprintf("request %d", i+1)
		}
		loc := r.URL
		if loc == "" {
			loc = r.Path
		}
		s += fmt.Sprintf("  %s %s %s\n",
			check.Render("·"),
			subtext.Render(fmt.Sprintf("[%d] %s", i+1, name)),
			finalValue.Render(fmt.Sprintf("%s %s", r.Method, loc)))
	}
	s += "\n" + m.form.View()
	return s
}
