package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	overlay "github.com/rmhubbert/bubbletea-overlay"

	"github.com/joshuapare/mbkit/multiboot/printer"
)

const (
	listWidth    = 34
	statusHeight = 1
)

var (
	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor)
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(primaryColor).
			Bold(true)
	helpBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(1, 2)
)

// exploreModel is the bubbletea model behind mbctl explore.
type exploreModel struct {
	path    string
	summary printer.Summary
	raw     [][]byte

	cursor   int
	detail   viewport.Model
	keys     exploreKeyMap
	showHelp bool
	status   string

	width  int
	height int

	// copy writes to the system clipboard; tests replace it.
	copy func(string) error
}

func newExploreModel(path string, s printer.Summary, raw [][]byte) exploreModel {
	m := exploreModel{
		path:    path,
		summary: s,
		raw:     raw,
		detail:  viewport.New(0, 0),
		keys:    defaultExploreKeyMap(),
	}
	m.refreshDetail()
	return m
}

func (m exploreModel) Init() tea.Cmd {
	return nil
}

func (m exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.detail.Width = max(msg.Width-listWidth-4, 10)
		m.detail.Height = max(msg.Height-statusHeight-2, 1)
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			if key.Matches(msg, m.keys.Help) || key.Matches(msg, m.keys.Esc) {
				m.showHelp = false
			}
			if key.Matches(msg, m.keys.Quit) {
				return m, tea.Quit
			}
			return m, nil
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.showHelp = true
		case key.Matches(msg, m.keys.Up):
			m.moveTo(m.cursor - 1)
		case key.Matches(msg, m.keys.Down):
			m.moveTo(m.cursor + 1)
		case key.Matches(msg, m.keys.Home):
			m.moveTo(0)
		case key.Matches(msg, m.keys.End):
			m.moveTo(len(m.summary.Tags) - 1)
		case key.Matches(msg, m.keys.ScrollUp):
			m.detail.HalfViewUp()
		case key.Matches(msg, m.keys.ScrollDown):
			m.detail.HalfViewDown()
		case key.Matches(msg, m.keys.Copy):
			m.copySelected()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.detail, cmd = m.detail.Update(msg)
	return m, cmd
}

func (m *exploreModel) moveTo(i int) {
	if len(m.summary.Tags) == 0 {
		return
	}
	i = max(0, min(i, len(m.summary.Tags)-1))
	if i == m.cursor {
		return
	}
	m.cursor = i
	m.status = ""
	m.refreshDetail()
}

func (m *exploreModel) copySelected() {
	if m.cursor >= len(m.raw) || m.copy == nil {
		return
	}
	if err := m.copy(hex.EncodeToString(m.raw[m.cursor])); err != nil {
		m.status = "copy failed: " + err.Error()
		return
	}
	m.status = fmt.Sprintf("copied %d bytes", len(m.raw[m.cursor]))
}

func (m *exploreModel) refreshDetail() {
	m.detail.SetContent(m.detailContent())
	m.detail.GotoTop()
}

// selected returns the tag under the cursor.
func (m exploreModel) selected() (printer.TagSummary, bool) {
	if m.cursor < 0 || m.cursor >= len(m.summary.Tags) {
		return printer.TagSummary{}, false
	}
	return m.summary.Tags[m.cursor], true
}

func (m exploreModel) detailContent() string {
	t, ok := m.selected()
	if !ok {
		return "no tags"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", t.Type)
	fmt.Fprintf(&b, "id:     %#x\n", t.ID)
	fmt.Fprintf(&b, "offset: %#x\n", t.Offset)
	fmt.Fprintf(&b, "size:   %d\n", t.Size)
	if t.Flags != "" {
		fmt.Fprintf(&b, "flags:  %s\n", t.Flags)
	}
	if len(t.Fields) > 0 {
		b.WriteString("\n")
	}
	for _, f := range t.Fields {
		switch v := f.Value.(type) {
		case []string:
			fmt.Fprintf(&b, "%s:\n", f.Name)
			for _, line := range v {
				fmt.Fprintf(&b, "  - %s\n", line)
			}
		case string:
			fmt.Fprintf(&b, "%s: %q\n", f.Name, v)
		default:
			fmt.Fprintf(&b, "%s: %v\n", f.Name, v)
		}
	}
	for _, e := range t.Errors {
		fmt.Fprintf(&b, "\nerror: %s\n", e)
	}
	return b.String()
}

func (m exploreModel) View() string {
	base := m.mainView()
	if !m.showHelp {
		return base
	}
	return overlay.New(helpView{keys: m.keys}, staticView(base), overlay.Center, overlay.Center, 0, 0).View()
}

func (m exploreModel) mainView() string {
	if m.width == 0 {
		return "loading..."
	}
	bodyHeight := max(m.height-statusHeight-2, 1)

	list := paneStyle.Width(listWidth).Height(bodyHeight).Render(m.listView(bodyHeight))
	detail := paneStyle.Width(m.detail.Width).Height(bodyHeight).Render(m.detail.View())
	body := lipgloss.JoinHorizontal(lipgloss.Top, list, detail)

	return lipgloss.JoinVertical(lipgloss.Left, body, m.statusLine())
}

// listView renders the tag list, scrolled so the cursor stays visible.
func (m exploreModel) listView(height int) string {
	if len(m.summary.Tags) == 0 {
		return styled(mutedStyle, "(empty)")
	}
	start := 0
	if m.cursor >= height {
		start = m.cursor - height + 1
	}
	end := min(start+height, len(m.summary.Tags))

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		t := m.summary.Tags[i]
		line := fmt.Sprintf("%#-7x %-20s", t.Offset, t.Type)
		if len(t.Errors) > 0 {
			line += " !"
		}
		if i == m.cursor && !noColor {
			line = selectedStyle.Render(line)
		} else if i == m.cursor {
			line = "> " + line
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m exploreModel) statusLine() string {
	left := fmt.Sprintf(" %s  %s  %d/%d", m.path, m.summary.Kind, m.cursor+1, len(m.summary.Tags))
	if len(m.summary.Tags) == 0 {
		left = fmt.Sprintf(" %s  %s  0/0", m.path, m.summary.Kind)
	}
	if m.status != "" {
		left += "  " + m.status
	}
	return styled(mutedStyle, left+"  ? help")
}

// helpView is the foreground model of the help overlay.
type helpView struct {
	keys exploreKeyMap
}

func (h helpView) Init() tea.Cmd                       { return nil }
func (h helpView) Update(tea.Msg) (tea.Model, tea.Cmd) { return h, nil }

func (h helpView) View() string {
	var b strings.Builder
	b.WriteString(styled(titleStyle, "Keyboard shortcuts"))
	b.WriteString("\n\n")
	for _, kb := range h.keys.bindings() {
		help := kb.Help()
		fmt.Fprintf(&b, "%-8s %s\n", help.Key, help.Desc)
	}
	return helpBoxStyle.Render(strings.TrimRight(b.String(), "\n"))
}

// staticView adapts pre-rendered output to tea.Model for the overlay
// background.
type staticView string

func (s staticView) Init() tea.Cmd                       { return nil }
func (s staticView) Update(tea.Msg) (tea.Model, tea.Cmd) { return s, nil }
func (s staticView) View() string                        { return string(s) }
