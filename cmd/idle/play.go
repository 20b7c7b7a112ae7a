package main

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/napolitain/idle-economy/internal/models"
	"github.com/napolitain/idle-economy/internal/simulation"
)

const (
	frameInterval = time.Second / 60
	barWidth      = 24
	// longest frame fed to Update; anything longer was a stall, not play time
	maxFrame = 0.25
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	normalStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	panelStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("6")).Padding(0, 1)
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

func playCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Play interactively; the economy runs at 60 frames per second",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			m := newPlayModel(s.sim, time.Now())
			if s.report != nil && s.report.Duration >= 1 {
				m.status = fmt.Sprintf("Welcome back, you were away %s",
					time.Duration(s.report.Duration*float64(time.Second)).Round(time.Second))
			}

			p := tea.NewProgram(m, tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("play loop failed: %w", err)
			}
			return s.persist()
		},
	}
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

type playModel struct {
	sim    *simulation.Simulation
	last   time.Time
	idx    int
	status string
}

func newPlayModel(sim *simulation.Simulation, now time.Time) playModel {
	return playModel{sim: sim, last: now}
}

func (m playModel) Init() tea.Cmd {
	return tick()
}

func (m playModel) selected() *simulation.Structure {
	return m.sim.Structures()[m.idx]
}

func (m playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		now := time.Time(msg)
		elapsed := min(now.Sub(m.last).Seconds(), maxFrame)
		m.last = now
		m.sim.Update(elapsed)
		return m, tick()

	case tea.KeyMsg:
		n := len(m.sim.Structures())
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "up", "k":
			m.idx = (m.idx + n - 1) % n
		case "down", "j":
			m.idx = (m.idx + 1) % n
		case "s", "enter":
			m.status, _ = startAction(m.sim, m.selected())
		case "h":
			m.status, _ = hireAction(m.sim, m.selected())
		case "m":
			m.status, _ = managerAction(m.sim, m.selected())
		case "u":
			m.status, _ = unlockAction(m.sim, m.selected())
		case "l":
			m.status = m.levelUp()
		}
	}
	return m, nil
}

func (m playModel) levelUp() string {
	st := m.selected()
	index := firstEligible(st)
	if index < 0 {
		return "no worker at " + st.Name() + " has enough experience"
	}
	w := st.Workers()[index]
	if !m.sim.LevelUpWorker(st.Type(), index) {
		cost, _ := m.sim.Catalog().Worker.CostForLevel(w.Level())
		return fmt.Sprintf("level up costs %s gold", formatAmount(cost))
	}
	return fmt.Sprintf("worker #%d is now level %d (%s)", index+1, w.Level(), w.Skills())
}

func (m playModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("IDLE ECONOMY") + "\n\n")

	pool := make([]string, 0, len(models.AllResourceTypes()))
	for _, rt := range models.AllResourceTypes() {
		pool = append(pool, fmt.Sprintf("%s %s", rt, formatAmount(m.sim.Pool().Get(rt))))
	}
	b.WriteString(panelStyle.Render(strings.Join(pool, "   ")) + "\n\n")

	rows := make([]string, 0, len(m.sim.Structures()))
	for i, st := range m.sim.Structures() {
		cursor := "  "
		style := normalStyle
		if i == m.idx {
			cursor = "> "
			style = selectedStyle
		}
		manager := " "
		if st.HasManager() {
			manager = "M"
		}
		line := fmt.Sprintf("%-20s %s %s %2dw  %s",
			st.Name(), manager, progressBar(st), len(st.Workers()), formatLines(st))
		if !st.IsUnlocked() {
			line = dimStyle.Render(fmt.Sprintf("%-20s locked, %s gold", st.Name(), formatAmount(st.UnlockCost())))
		} else {
			line = style.Render(line)
		}
		rows = append(rows, cursor+line)
	}
	b.WriteString(strings.Join(rows, "\n") + "\n\n")

	b.WriteString(dimStyle.Render(fmt.Sprintf("next worker %s gold", formatAmount(m.sim.NextHireCost()))) + "\n")
	b.WriteString(dimStyle.Render("↑/↓ select  s start  h hire  m manager  u unlock  l level up  q quit") + "\n")
	if m.status != "" {
		b.WriteString("\n" + statusStyle.Render(m.status) + "\n")
	}
	return b.String()
}

func progressBar(st *simulation.Structure) string {
	filled := int(st.PercentComplete() * barWidth)
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled) + "]"
}
