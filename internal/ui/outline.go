package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pthm/gosmell/internal/analyzer"
	"github.com/pthm/gosmell/internal/rules"
	"github.com/pthm/gosmell/internal/syntax"
)

// OutlineNode is a displayable node of the outline explorer
type OutlineNode struct {
	Node     syntax.Node
	Metrics  analyzer.Metrics
	Findings []rules.Finding
	Depth    int
	Expanded bool
	Children []*OutlineNode
	Parent   *OutlineNode
}

// OutlineModel is the bubbletea model for exploring a syntax tree
type OutlineModel struct {
	tree           *syntax.Tree
	findings       []rules.Finding
	path           string
	nodes          []*OutlineNode // Flattened list of visible nodes
	roots          []*OutlineNode
	cursor         int
	viewport       viewport.Model
	ready          bool
	width          int
	height         int
	showStatements bool
	keys           outlineKeyMap
	styles         outlineStyles
}

type outlineKeyMap struct {
	Up          key.Binding
	Down        key.Binding
	Left        key.Binding
	Right       key.Binding
	Toggle      key.Binding
	ToggleStmts key.Binding
	NextSmell   key.Binding
	Quit        key.Binding
}

type outlineStyles struct {
	selected    lipgloss.Style
	function    lipgloss.Style
	conditional lipgloss.Style
	other       lipgloss.Style
	smell       lipgloss.Style
	tree        lipgloss.Style
	dim         lipgloss.Style
	statusBar   lipgloss.Style
	helpBar     lipgloss.Style
}

func defaultOutlineKeyMap() outlineKeyMap {
	return outlineKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "collapse"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "expand"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter/space", "toggle"),
		),
		ToggleStmts: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "toggle statements"),
		),
		NextSmell: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next smell"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func defaultOutlineStyles() outlineStyles {
	return outlineStyles{
		selected:    lipgloss.NewStyle().Background(lipgloss.Color("237")).Bold(true),
		function:    lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true),
		conditional: lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		other:       lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		smell:       lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		tree:        lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		dim:         lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
		statusBar:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("236")).Padding(0, 1),
		helpBar:     lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Background(lipgloss.Color("235")).Padding(0, 0),
	}
}

// NewOutlineModel creates a new outline explorer for tree. findings are
// attached to the function or conditional they were reported on.
func NewOutlineModel(tree *syntax.Tree, findings []rules.Finding, path string) OutlineModel {
	m := OutlineModel{
		tree:     tree,
		findings: findings,
		path:     path,
		keys:     defaultOutlineKeyMap(),
		styles:   defaultOutlineStyles(),
	}

	m.buildNodes()
	return m
}

// buildNodes constructs the node hierarchy from the tree
func (m *OutlineModel) buildNodes() {
	m.roots = nil
	for _, decl := range m.tree.Decls {
		if !m.visible(decl) {
			continue
		}
		m.roots = append(m.roots, m.buildNode(decl, nil, 0))
	}
	m.updateVisibleNodes()
}

func (m *OutlineModel) visible(n syntax.Node) bool {
	if m.showStatements || n.Kind() != syntax.KindOther {
		return true
	}
	return analyzer.CountConditionals(n) > 0
}

func (m *OutlineModel) buildNode(n syntax.Node, parent *OutlineNode, depth int) *OutlineNode {
	node := &OutlineNode{
		Node:     n,
		Metrics:  analyzer.Measure(n),
		Findings: findingsFor(n, m.findings),
		Depth:    depth,
		Expanded: depth < 2,
		Parent:   parent,
	}

	for _, child := range syntax.Children(n) {
		if m.visible(child) {
			node.Children = append(node.Children, m.buildNode(child, node, depth+1))
		}
	}
	return node
}

// findingsFor returns the findings reported on n
func findingsFor(n syntax.Node, findings []rules.Finding) []rules.Finding {
	var out []rules.Finding
	for _, f := range findings {
		if f.Line != n.Line() {
			continue
		}
		switch n.Kind() {
		case syntax.KindFunction:
			if f.Kind == rules.LongMethod || f.Kind == rules.LongParameterList {
				out = append(out, f)
			}
		case syntax.KindConditional:
			if f.Kind == rules.ComplexConditional {
				out = append(out, f)
			}
		}
	}
	return out
}

func (m *OutlineModel) updateVisibleNodes() {
	m.nodes = nil
	for _, node := range m.roots {
		m.collectVisible(node)
	}

	// Clamp cursor
	if m.cursor >= len(m.nodes) {
		m.cursor = len(m.nodes) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *OutlineModel) collectVisible(node *OutlineNode) {
	m.nodes = append(m.nodes, node)

	if node.Expanded {
		for _, child := range node.Children {
			m.collectVisible(child)
		}
	}
}

// expandAll opens every node so that smells deep in the tree are reachable
func (m *OutlineModel) expandAll() {
	var walk func(*OutlineNode)
	walk = func(n *OutlineNode) {
		n.Expanded = true
		for _, c := range n.Children {
			walk(c)
		}
	}
	for _, r := range m.roots {
		walk(r)
	}
	m.updateVisibleNodes()
}

// Init initializes the model
func (m OutlineModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m OutlineModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}

		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.nodes)-1 {
				m.cursor++
			}

		case key.Matches(msg, m.keys.Left):
			if len(m.nodes) > 0 {
				m.nodes[m.cursor].Expanded = false
				m.updateVisibleNodes()
			}

		case key.Matches(msg, m.keys.Right), key.Matches(msg, m.keys.Toggle):
			if len(m.nodes) > 0 {
				m.nodes[m.cursor].Expanded = !m.nodes[m.cursor].Expanded
				m.updateVisibleNodes()
			}

		case key.Matches(msg, m.keys.ToggleStmts):
			m.showStatements = !m.showStatements
			m.buildNodes()

		case key.Matches(msg, m.keys.NextSmell):
			m.expandAll()
			for i := 1; i <= len(m.nodes); i++ {
				idx := (m.cursor + i) % len(m.nodes)
				if len(m.nodes[idx].Findings) > 0 {
					m.cursor = idx
					break
				}
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-4)
			m.viewport.YPosition = 2
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 4
		}
	}

	return m, nil
}

// View renders the outline
func (m OutlineModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	// Reserve space for footer (detail + help + padding)
	footerHeight := 4
	treeHeight := m.height - footerHeight
	if treeHeight < 5 {
		treeHeight = 5
	}

	var sb strings.Builder

	lines := strings.Split(strings.TrimSuffix(m.renderTree(), "\n"), "\n")

	// Scroll to keep cursor visible
	startIdx := 0
	if m.cursor >= treeHeight {
		startIdx = m.cursor - treeHeight + 1
	}
	endIdx := min(startIdx+treeHeight, len(lines))

	if startIdx < len(lines) {
		sb.WriteString(strings.Join(lines[startIdx:endIdx], "\n"))
	}

	// Pad tree area to maintain consistent height
	renderedLines := max(endIdx-startIdx, 0)
	for i := renderedLines; i < treeHeight; i++ {
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	detail := ""
	if len(m.nodes) > 0 && m.cursor < len(m.nodes) {
		detail = m.renderDetailLine(m.nodes[m.cursor])
	}
	sb.WriteString(m.styles.statusBar.Width(m.width).Render(detail))
	sb.WriteString("\n")

	help := fmt.Sprintf(" ↑↓ navigate  ←→ collapse/expand  n next smell  s statements(%s)  q quit",
		boolToOnOff(m.showStatements),
	)
	sb.WriteString(m.styles.helpBar.Width(m.width).Render(help))

	return sb.String()
}

func (m *OutlineModel) renderTree() string {
	var sb strings.Builder
	for i, node := range m.nodes {
		sb.WriteString(m.renderNode(node, i == m.cursor))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (m *OutlineModel) renderNode(node *OutlineNode, selected bool) string {
	var sb strings.Builder

	sb.WriteString(m.styles.tree.Render(strings.Repeat("  ", node.Depth)))

	connector := ""
	if node.Parent != nil {
		connector = "├─ "
		if siblings := node.Parent.Children; siblings[len(siblings)-1] == node {
			connector = "└─ "
		}
	}
	sb.WriteString(m.styles.tree.Render(connector))

	// Expand/collapse indicator
	if len(node.Children) > 0 {
		if node.Expanded {
			sb.WriteString(m.styles.dim.Render("▼ "))
		} else {
			sb.WriteString(m.styles.dim.Render("▶ "))
		}
	} else {
		sb.WriteString("  ")
	}

	var style lipgloss.Style
	switch node.Node.Kind() {
	case syntax.KindFunction:
		style = m.styles.function
	case syntax.KindConditional:
		style = m.styles.conditional
	default:
		style = m.styles.other
	}
	content := style.Render(analyzer.Label(node.Node))
	if len(node.Findings) > 0 {
		content += m.styles.smell.Render(fmt.Sprintf(" [%d smells]", len(node.Findings)))
	}

	if selected {
		content = m.styles.selected.Render(content)
	}
	sb.WriteString(content)

	return sb.String()
}

func (m *OutlineModel) renderDetailLine(node *OutlineNode) string {
	if len(node.Findings) > 0 {
		return " " + node.Findings[0].Message
	}
	switch node.Node.Kind() {
	case syntax.KindFunction:
		return fmt.Sprintf(" %s  Statements: %d  Params: %d",
			m.path, node.Metrics.BodyLength, node.Metrics.ParamCount)
	case syntax.KindConditional:
		return fmt.Sprintf(" %s:%d  Conditionals: %d", m.path, node.Node.Line(), node.Metrics.Conditionals)
	}
	return fmt.Sprintf(" %s:%d", m.path, node.Node.Line())
}

func boolToOnOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
