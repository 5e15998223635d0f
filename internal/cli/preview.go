package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/agendagraph/pkg/agenda"
	"github.com/matzehuels/agendagraph/pkg/diagram"
	pkgio "github.com/matzehuels/agendagraph/pkg/io"
	"github.com/matzehuels/agendagraph/pkg/pipeline"
)

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// previewCommand creates the preview command: an interactive view of the
// parsed lanes and the generated diagram text.
func (c *CLI) previewCommand() *cobra.Command {
	var phrases bool

	cmd := &cobra.Command{
		Use:   "preview <file>",
		Short: "Browse the parsed agenda and its diagram text in the terminal",
		Long: `Open an interactive view of an agenda file.

The file may be tagged agenda text or a model exported by "agendagraph parse"
(.json, .yaml, .yml).

Keys:
  tab      switch between lanes and diagram text
  ↑/↓ j/k  move the cursor or scroll
  g        toggle Mermaid / DOT
  o        toggle vertical / horizontal
  q        quit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, src, err := c.loadPreviewModel(cmd, args[0], phrases)
			if err != nil {
				return err
			}
			p := tea.NewProgram(newPreviewModel(args[0], m, src),
				tea.WithContext(cmd.Context()), tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&phrases, "phrases", false, "derive components from capitalized phrases when no tags are found")
	return cmd
}

func (c *CLI) loadPreviewModel(cmd *cobra.Command, path string, phrases bool) (*agenda.Model, agenda.Source, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		m, err := pkgio.ImportModel(path)
		return m, "", err
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return nil, "", err
	}
	text, err := pkgio.ReadText(path, nil)
	if err != nil {
		return nil, "", err
	}
	opts := pipeline.Options{Phrases: cfg.Phrases || phrases}
	m, src := pipeline.NewRunner(nil, nil, loggerFromContext(cmd.Context())).Parse(cmd.Context(), text, opts)
	return m, src, nil
}

// =============================================================================
// previewModel - bubbletea model
// =============================================================================

type previewTab int

const (
	tabLanes previewTab = iota
	tabDiagram
)

type previewModel struct {
	name        string
	model       *agenda.Model
	source      agenda.Source
	graph       diagram.Graph
	tab         previewTab
	grammar     diagram.Format
	orientation diagram.Orientation
	cursor      int
	offset      int
	height      int
}

func newPreviewModel(name string, m *agenda.Model, src agenda.Source) previewModel {
	return previewModel{
		name:        name,
		model:       m,
		source:      src,
		graph:       diagram.Build(m),
		grammar:     diagram.FormatMermaid,
		orientation: diagram.Vertical,
		height:      20,
	}
}

func (m previewModel) Init() tea.Cmd {
	return nil
}

func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "tab":
			if m.tab == tabLanes {
				m.tab = tabDiagram
			} else {
				m.tab = tabLanes
			}
			m.offset = 0
		case "g":
			if m.grammar == diagram.FormatMermaid {
				m.grammar = diagram.FormatDOT
			} else {
				m.grammar = diagram.FormatMermaid
			}
			m.offset = 0
		case "o":
			if m.orientation == diagram.Vertical {
				m.orientation = diagram.Horizontal
			} else {
				m.orientation = diagram.Vertical
			}
		case "up", "k":
			m.move(-1)
		case "down", "j":
			m.move(1)
		}
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-8, 5)
	}
	return m, nil
}

// move shifts the cursor on the lanes tab and scrolls on the diagram tab.
func (m *previewModel) move(delta int) {
	if m.tab == tabDiagram {
		last := max(len(m.diagramLines())-m.height, 0)
		m.offset = min(max(m.offset+delta, 0), last)
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), max(len(m.model.Components)-1, 0))
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
}

func (m previewModel) diagramText() string {
	if m.grammar == diagram.FormatDOT {
		return diagram.DOT(m.graph, m.orientation)
	}
	return diagram.Mermaid(m.graph, m.orientation)
}

func (m previewModel) diagramLines() []string {
	return strings.Split(strings.TrimSuffix(m.diagramText(), "\n"), "\n")
}

func (m previewModel) View() string {
	var b strings.Builder

	theme := m.model.Theme
	if theme == "" {
		theme = diagram.DefaultTheme
	}
	b.WriteString(StyleTitle.Render(theme))
	b.WriteString("  ")
	b.WriteString(listDimStyle.Render(m.name))
	b.WriteString("\n")

	if m.tab == tabLanes {
		b.WriteString(listDimStyle.Render("↑/↓ navigate  tab diagram  q quit"))
		b.WriteString("\n\n")
		b.WriteString(m.lanesView())
	} else {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("%s · %s   ↑/↓ scroll  g grammar  o orientation  tab lanes  q quit",
			m.grammar, m.orientation)))
		b.WriteString("\n\n")
		b.WriteString(m.diagramView())
	}

	b.WriteString("\n\n")
	summary := fmt.Sprintf("  %d components · %d relations", len(m.model.Components), len(m.model.Relations))
	if m.source != "" {
		summary += " · from " + string(m.source)
	}
	b.WriteString(listDimStyle.Render(summary))
	return b.String()
}

func (m previewModel) lanesView() string {
	comps := m.model.Components
	if len(comps) == 0 {
		return StyleWarning.Render("No components found.")
	}

	end := min(m.offset+m.height, len(comps))
	rows := make([][]string, 0, end-m.offset)
	for i := m.offset; i < end; i++ {
		c := comps[i]
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		parent := c.Parent
		if parent == "" {
			parent = "—"
		}
		rows = append(rows, []string{cursor, c.Name, agenda.ParseLane(string(c.Time)).Title(), parent, relationSummary(m.model, c.Name)})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Component", "Lane", "Parent", "Relations").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.offset + row
			if idx >= len(comps) {
				return lipgloss.NewStyle()
			}
			if idx == m.cursor {
				return listSelectedStyle
			}
			if col == 2 {
				return lipgloss.NewStyle().Foreground(laneColors[string(agenda.ParseLane(string(comps[idx].Time)))])
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})
	return t.Render()
}

func (m previewModel) diagramView() string {
	lines := m.diagramLines()
	end := min(m.offset+m.height, len(lines))
	return StyleValue.Render(strings.Join(lines[m.offset:end], "\n"))
}

// relationSummary lists the outgoing relations of name as "type→target".
func relationSummary(m *agenda.Model, name string) string {
	var parts []string
	for _, r := range m.Relations {
		if r.From == name {
			parts = append(parts, r.Type+"→"+r.To)
		}
	}
	if len(parts) == 0 {
		return "—"
	}
	return strings.Join(parts, ", ")
}
