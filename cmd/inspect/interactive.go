package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	v8shim "github.com/wippyai/v8-shim"
	"github.com/wippyai/v8-shim/realm"
	"github.com/wippyai/v8-shim/registry"
	"github.com/wippyai/v8-shim/template"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	tmplStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	kindStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type modelState int

const (
	stateSelectTemplate modelState = iota
	stateInstance
	stateEditField
)

type templateInfo struct {
	tmpl   *template.ObjectTemplate
	name   string
	handle v8shim.Handle
}

type interactiveModel struct {
	demo      *demo
	realm     *realm.LocalRealm
	err       error
	instance  *template.Object
	input     textinput.Model
	templates []templateInfo
	selected  int
	slot      int
	state     modelState
}

func newInteractiveModel() *interactiveModel {
	d := buildDemo()

	var templates []templateInfo
	d.iso.Registry().Each(func(h v8shim.Handle, kind registry.Kind, v any) bool {
		if ot, ok := v.(*template.ObjectTemplate); ok {
			templates = append(templates, templateInfo{
				handle: h,
				name:   d.name(h),
				tmpl:   ot,
			})
		}
		return true
	})

	return &interactiveModel{
		demo:      d,
		realm:     realm.New(),
		templates: templates,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.state == stateEditField {
		return m.updateEditField(keyMsg)
	}

	switch keyMsg.String() {
	case "ctrl+c", "q":
		m.demo.iso.Dispose()
		return m, tea.Quit

	case "up", "k":
		switch m.state {
		case stateSelectTemplate:
			if m.selected > 0 {
				m.selected--
			}
		case stateInstance:
			if m.slot > 0 {
				m.slot--
			}
		}

	case "down", "j":
		switch m.state {
		case stateSelectTemplate:
			if m.selected < len(m.templates)-1 {
				m.selected++
			}
		case stateInstance:
			if m.slot < m.instance.InternalFieldCount()-1 {
				m.slot++
			}
		}

	case "enter":
		switch m.state {
		case stateSelectTemplate:
			m.materialize()
		case stateInstance:
			if m.instance.InternalFieldCount() > 0 {
				m.input = textinput.New()
				m.input.Prompt = fmt.Sprintf("field %d: ", m.slot)
				m.input.Placeholder = "opaque native value"
				m.input.Width = 40
				m.input.Focus()
				m.state = stateEditField
			}
		}

	case "g":
		if m.state == stateInstance && m.instance.InternalFieldCount() > 0 {
			m.instance.MarkInternalFieldGCVisible(m.slot)
		}

	case "f":
		if m.state == stateInstance {
			m.instance.Finalize()
			m.instance = nil
			m.state = stateSelectTemplate
		}

	case "esc":
		if m.state == stateInstance {
			m.instance = nil
			m.err = nil
			m.state = stateSelectTemplate
		}
	}

	return m, nil
}

func (m *interactiveModel) updateEditField(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.demo.iso.Dispose()
		return m, tea.Quit
	case "enter":
		m.instance.SetInternalField(m.slot, m.input.Value())
		m.state = stateInstance
		return m, nil
	case "esc":
		m.state = stateInstance
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *interactiveModel) materialize() {
	info := m.templates[m.selected]
	obj, err := info.tmpl.NewInstance(m.realm)
	if err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.instance = obj
	m.slot = 0
	m.state = stateInstance
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Template Inspector"))
	b.WriteString(fmt.Sprintf("  %d templates, %d live instances\n\n",
		m.demo.iso.TemplateCount(), m.demo.gc.Live()))

	switch m.state {
	case stateSelectTemplate:
		b.WriteString("Select a template to materialize:\n\n")
		for i, info := range m.templates {
			line := m.formatTemplate(info)
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		if m.err != nil {
			b.WriteString("\n")
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter materialize • q quit"))

	case stateInstance:
		info := m.templates[m.selected]
		b.WriteString(fmt.Sprintf("Instance of %s:\n\n", tmplStyle.Render(info.name)))
		if m.instance.InternalFieldCount() == 0 {
			b.WriteString(helpStyle.Render("  (no internal fields)"))
			b.WriteString("\n")
		}
		for i := 0; i < m.instance.InternalFieldCount(); i++ {
			line := fmt.Sprintf("field %d = %s  %s",
				i,
				valueStyle.Render(fmt.Sprintf("%v", m.instance.GetInternalField(i))),
				kindStyle.Render(m.instance.InternalFieldSlotKind(i).String()))
			if i == m.slot {
				b.WriteString(selectedStyle.Render("> ") + line)
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		if handlers := m.instance.NamedHandlers(); len(handlers) > 0 {
			b.WriteString("\nResolved handlers: ")
			names := make([]string, len(handlers))
			for i, nh := range handlers {
				names[i] = nh.Name
			}
			b.WriteString(kindStyle.Render(strings.Join(names, ", ")))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ slot • enter set • g mark gc-visible • f finalize • esc back • q quit"))

	case stateEditField:
		info := m.templates[m.selected]
		b.WriteString(fmt.Sprintf("Set internal field on %s\n\n", tmplStyle.Render(info.name)))
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter set • esc cancel"))
	}

	return b.String()
}

func (m *interactiveModel) formatTemplate(info templateInfo) string {
	extras := []string{fmt.Sprintf("fields=%d", info.tmpl.InternalFieldCount())}
	if n := len(info.tmpl.NamedHandlers()); n > 0 {
		extras = append(extras, fmt.Sprintf("named=%d", n))
	}
	if info.tmpl.Instantiated() {
		extras = append(extras, "frozen")
	}
	return tmplStyle.Render(info.name) + " " + kindStyle.Render("("+strings.Join(extras, ", ")+")")
}

func runInteractive() error {
	p := tea.NewProgram(newInteractiveModel(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
