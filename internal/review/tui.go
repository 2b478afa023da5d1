package review

import (
	"fmt"
	"math"
	"strings"

	"sheetDiff/internal/compare"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// UI States
type state int

const (
	stateList state = iota
	stateDetail
	stateConfirm
)

// Config represents UI configuration settings
type Config struct {
	RowsPerPage int
}

type model struct {
	report      *compare.Report
	differences []compare.Difference

	state state

	// List navigation
	cursor     int
	page       int
	perPage    int
	maxPerPage int

	// Screen dimensions
	width  int
	height int

	// Outcome
	save bool

	// Styling
	titleStyle    lipgloss.Style
	selectedStyle lipgloss.Style
	normalStyle   lipgloss.Style
	helpStyle     lipgloss.Style
	progressStyle lipgloss.Style
	valueStyle    lipgloss.Style
	labelStyle    lipgloss.Style
}

func initialModel(report *compare.Report, cfg Config) model {
	perPage := cfg.RowsPerPage
	if perPage < 1 {
		perPage = 15
	}

	return model{
		report:      report,
		differences: report.Differences,
		state:       stateList,
		perPage:     perPage,
		maxPerPage:  perPage,

		titleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			Align(lipgloss.Center),
		selectedStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Background(lipgloss.Color("235")).
			Padding(0, 1),
		normalStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Padding(0, 1),
		helpStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
		progressStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true),
		valueStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("#FFA500")).
			Padding(0, 1),
		labelStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Width(14),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// Shrink the page to the terminal, never beyond the configured size
		m.perPage = m.height - 8
		if m.perPage > m.maxPerPage {
			m.perPage = m.maxPerPage
		}
		if m.perPage < 5 {
			m.perPage = 5
		}
		m.page = m.selected() / m.perPage
		m.cursor = m.selected() % m.perPage
	case tea.KeyMsg:
		switch m.state {
		case stateList:
			return m.updateList(msg)
		case stateDetail:
			return m.updateDetail(msg)
		case stateConfirm:
			return m.updateConfirm(msg)
		}
	}
	return m, nil
}

func (m model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up", "k":
		m.moveUp()
	case "down", "j":
		m.moveDown()
	case "left", "h":
		if m.page > 0 {
			m.page--
			m.cursor = 0
		}
	case "right", "l":
		if m.hasNextPage() {
			m.page++
			m.cursor = 0
		}
	case "enter":
		if len(m.differences) > 0 {
			m.state = stateDetail
		}
	case "s":
		m.state = stateConfirm
	}
	return m, nil
}

func (m model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "esc", "enter":
		m.state = stateList
	case "up", "k":
		m.moveUp()
	case "down", "j":
		m.moveDown()
	case "s":
		m.state = stateConfirm
	}
	return m, nil
}

func (m model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "n":
		m.save = false
		return m, tea.Quit
	case "y":
		m.save = true
		return m, tea.Quit
	case "esc":
		m.state = stateList
	}
	return m, nil
}

// Helper functions
func (m model) selected() int {
	return m.page*m.perPage + m.cursor
}

func (m model) hasNextPage() bool {
	return (m.page+1)*m.perPage < len(m.differences)
}

func (m model) maxCursor() int {
	itemsOnPage := len(m.differences) - m.page*m.perPage
	if itemsOnPage > m.perPage {
		return m.perPage - 1
	}
	return itemsOnPage - 1
}

func (m *model) moveUp() {
	if m.cursor > 0 {
		m.cursor--
	} else if m.page > 0 {
		m.page--
		m.cursor = m.perPage - 1
	}
}

func (m *model) moveDown() {
	if m.cursor < m.maxCursor() {
		m.cursor++
	} else if m.hasNextPage() {
		m.page++
		m.cursor = 0
	}
}

func (m model) View() string {
	switch m.state {
	case stateList:
		return m.viewList()
	case stateDetail:
		return m.viewDetail()
	case stateConfirm:
		return m.viewConfirm()
	}
	return ""
}

func (m model) viewList() string {
	var b strings.Builder

	b.WriteString(m.titleStyle.Width(m.width).Render("Sheet Differences"))
	b.WriteString("\n\n")

	progress := fmt.Sprintf("%d differences across %d sheets → %s",
		len(m.differences), len(m.report.DataSheets), m.report.DifferencesSheet)
	b.WriteString(m.progressStyle.Render(progress))
	b.WriteString("\n\n")

	if len(m.differences) == 0 {
		b.WriteString(m.normalStyle.Render("No differences found, only the header row will be written."))
		b.WriteString("\n\n")
		b.WriteString(m.helpStyle.Render("s: save | q: quit"))
		return b.String()
	}

	totalPages := int(math.Ceil(float64(len(m.differences)) / float64(m.perPage)))
	b.WriteString(m.helpStyle.Render(fmt.Sprintf("Page %d/%d", m.page+1, totalPages)))
	b.WriteString("\n\n")

	start := m.page * m.perPage
	end := start + m.perPage
	if end > len(m.differences) {
		end = len(m.differences)
	}

	for i := start; i < end; i++ {
		d := m.differences[i]
		line := fmt.Sprintf("%-6s %s=%s | %s=%s", d.Cell(), d.Sheet, d.Value, d.Other, d.OtherValue)

		if i-start == m.cursor {
			b.WriteString(m.selectedStyle.Render("> " + line))
		} else {
			b.WriteString(m.normalStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.helpStyle.Render("↑↓: navigate | ←→: prev/next page | Enter: details | s: save | q: quit"))

	return b.String()
}

func (m model) viewDetail() string {
	var b strings.Builder

	d := m.differences[m.selected()]
	b.WriteString(m.titleStyle.Render(fmt.Sprintf("Difference %d/%d at %s", m.selected()+1, len(m.differences), d.Cell())))
	b.WriteString("\n\n")

	rows := [][2]string{
		{"Sheet", d.Sheet},
		{"Value", m.valueStyle.Render(d.Value.String())},
		{"Kind", d.Value.Kind.String()},
		{"Other sheet", d.Other},
		{"Other value", m.valueStyle.Render(d.OtherValue.String())},
		{"Other kind", d.OtherValue.Kind.String()},
	}
	for _, r := range rows {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.labelStyle.Render(r[0]), r[1]))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.helpStyle.Render(fmt.Sprintf("Written to %s row %d, columns %d and %d", m.report.DifferencesSheet, d.Row, d.Col, d.Col+1)))
	b.WriteString("\n\n")
	b.WriteString(m.helpStyle.Render("↑↓: prev/next difference | Esc: back | s: save | q: quit"))

	return b.String()
}

func (m model) viewConfirm() string {
	var b strings.Builder

	b.WriteString(m.titleStyle.Render("Save Differences Sheet?"))
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("Workbook: %s\n", m.report.File))
	b.WriteString(fmt.Sprintf("Header cells: %d\n", len(m.report.Headers)))
	b.WriteString(fmt.Sprintf("Differences: %d\n", len(m.differences)))
	b.WriteString(fmt.Sprintf("Cells written: %d\n", len(m.report.Final())))
	b.WriteString("\n")

	b.WriteString(m.helpStyle.Render("y/n to confirm, Esc to go back"))

	return b.String()
}

// Run shows the differences of report and reports whether the user chose to save.
func Run(report *compare.Report, cfg Config) (bool, error) {
	p := tea.NewProgram(initialModel(report, cfg), tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return false, fmt.Errorf("error running TUI: %w", err)
	}

	final := finalModel.(model)
	return final.save, nil
}
