package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"cratemap/internal/report"
	"cratemap/internal/watcher"
)

var (
	titleStyle = lipgloss.NewStyle().
			MarginLeft(2).
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true).
			Render

	docStyle = lipgloss.NewStyle().Margin(1, 2)

	cycleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)
)

type item struct {
	title, desc string
	isCycle     bool
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.title + i.desc }

type model struct {
	list         list.Model
	root         string
	cycles       [][]string
	packageCount int
	edgeCount    int
	lastUpdate   time.Time
}

type updateMsg struct {
	data report.Data
}

type runErrMsg struct {
	err error
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v-4)
	case runErrMsg:
		m.list.SetItems([]list.Item{item{
			title: "Analysis failed",
			desc:  msg.err.Error(),
		}})
	case updateMsg:
		m.root = msg.data.Root
		m.cycles = msg.data.Cycles
		m.packageCount = msg.data.Graph.Len()
		m.edgeCount = msg.data.Graph.EdgeCount()
		m.lastUpdate = time.Now()

		items := []list.Item{}
		for _, c := range m.cycles {
			items = append(items, item{
				title:   "Dependency Cycle",
				desc:    strings.Join(c, " -> ") + " -> " + c[0],
				isCycle: true,
			})
		}
		for _, pkg := range msg.data.Graph.Packages() {
			deps, _ := msg.data.Graph.Dependencies(pkg)
			desc := "no dependencies"
			if len(deps) > 0 {
				desc = strings.Join(deps, ", ")
			}
			items = append(items, item{title: pkg, desc: desc})
		}
		m.list.SetItems(items)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m model) View() string {
	status := statusStyle.Render(fmt.Sprintf("Last update: %v | %d packages | %d edges",
		m.lastUpdate.Format("15:04:05"), m.packageCount, m.edgeCount))

	var summary string
	if len(m.cycles) == 0 {
		summary = successStyle.Render("✅ No cycles")
	} else {
		summary = cycleStyle.Render(fmt.Sprintf("⚠️  %d cycles", len(m.cycles)))
	}

	header := fmt.Sprintf("%s\n%s | %s\n", titleStyle("Crate Dependency Monitor"), status, summary)
	return docStyle.Render(header + "\n" + m.list.View())
}

func initialModel() model {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Dependency Graph"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)

	return model{
		list:       l,
		lastUpdate: time.Now(),
	}
}

// runUI drives the TUI: one analysis up front, then re-runs on config
// changes when watch is enabled.
func runUI(ctx context.Context, app *App, configPath string, watch bool) error {
	program := tea.NewProgram(initialModel(), tea.WithAltScreen())

	runAndSend := func() {
		data, err := app.Run(ctx)
		if err != nil {
			program.Send(runErrMsg{err: err})
			return
		}
		program.Send(updateMsg{data: data})
	}

	if watch {
		w, err := watcher.NewConfigWatcher(configPath, app.Config.Watch.Debounce, func() {
			slog.Info("config changed, re-running analysis")
			go runAndSend()
		})
		if err != nil {
			return err
		}
		defer w.Close()
	}

	go runAndSend()

	_, err := program.Run()
	return err
}
