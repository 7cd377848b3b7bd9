package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/cstruct/codec"
	"github.com/wippyai/cstruct/schema"
	"github.com/wippyai/cstruct/schemafile"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type modelState int

const (
	stateSelectType modelState = iota
	stateShowLayout
)

type inspectModel struct {
	err      error
	set      *schemafile.Set
	names    []string
	selected int
	state    modelState
	pack     schema.Packing
	order    schema.ByteOrder
	layout   table.Model
	size     int
	align    int
}

func newInspectModel(set *schemafile.Set, pack schema.Packing, order schema.ByteOrder) *inspectModel {
	return &inspectModel{
		set:   set,
		names: set.Names(),
		pack:  pack,
		order: order,
		state: stateSelectType,
	}
}

func (m *inspectModel) Init() tea.Cmd {
	return nil
}

func (m *inspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "up", "k":
			if m.state == stateSelectType && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelectType && m.selected < len(m.names)-1 {
				m.selected++
			}

		case "enter":
			if m.state == stateSelectType {
				m.buildLayoutTable()
				m.state = stateShowLayout
			}

		case "p":
			// Toggle packing and recompute.
			if m.pack.IsPacked() {
				m.pack = schema.Natural
			} else {
				m.pack = schema.Packed
			}
			if m.state == stateShowLayout {
				m.buildLayoutTable()
			}

		case "o":
			if m.order == schema.LittleEndian {
				m.order = schema.BigEndian
			} else {
				m.order = schema.LittleEndian
			}

		case "esc":
			if m.state == stateShowLayout {
				m.state = stateSelectType
				m.err = nil
			}
		}
	}

	if m.state == stateShowLayout {
		var cmd tea.Cmd
		m.layout, cmd = m.layout.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *inspectModel) buildLayoutTable() {
	t, ok := m.set.Lookup(m.names[m.selected])
	if !ok {
		m.err = fmt.Errorf("type %q not declared", m.names[m.selected])
		return
	}
	info, err := codec.Layout(t, m.pack)
	if err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.size = info.Size
	m.align = info.Align

	columns := []table.Column{
		{Title: "Field", Width: 24},
		{Title: "Offset", Width: 8},
		{Title: "Size", Width: 6},
		{Title: "Bits", Width: 10},
		{Title: "Type", Width: 28},
	}
	rows := make([]table.Row, 0, len(info.Fields))
	for _, f := range info.Fields {
		bits := "-"
		if f.Bits > 0 {
			bits = strconv.Itoa(f.BitOffset) + ":" + strconv.Itoa(f.Bits)
		}
		rows = append(rows, table.Row{
			f.Name,
			strconv.Itoa(f.Offset),
			strconv.Itoa(f.Size),
			bits,
			f.Type.String(),
		})
	}

	height := len(rows)
	if height > 20 {
		height = 20
	}
	m.layout = table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(height),
		table.WithFocused(true),
	)
}

func (m *inspectModel) View() string {
	header := titleStyle.Render("cstruct inspect") + "  " +
		typeStyle.Render(m.pack.String()+", "+m.order.String()+" endian") + "\n\n"

	if m.err != nil {
		return header + errorStyle.Render(m.err.Error()) + "\n" +
			helpStyle.Render("esc back · q quit") + "\n"
	}

	switch m.state {
	case stateShowLayout:
		name := m.names[m.selected]
		return header +
			typeStyle.Render(fmt.Sprintf("%s: %d bytes, alignment %d", name, m.size, m.align)) + "\n" +
			m.layout.View() + "\n" +
			helpStyle.Render("p packing · o byte order · esc back · q quit") + "\n"

	default:
		var body string
		for i, name := range m.names {
			line := "  " + name
			if i == m.selected {
				line = selectedStyle.Render("> " + name)
			}
			body += line + "\n"
		}
		return header + body + "\n" +
			helpStyle.Render("enter layout · p packing · o byte order · q quit") + "\n"
	}
}

func runInteractive(set *schemafile.Set, pack schema.Packing, order schema.ByteOrder) error {
	if len(set.Names()) == 0 {
		return fmt.Errorf("schema declares no types")
	}
	p := tea.NewProgram(newInspectModel(set, pack, order), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
