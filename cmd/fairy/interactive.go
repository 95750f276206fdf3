package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wippyai/fairy-rpc/identifier"
	"github.com/wippyai/fairy-rpc/rpcclient"
)

type screen int

const (
	screenMethods screen = iota
	screenArgs
	screenResult
)

// invoker is the part of rpcclient.Client the TUI needs.
type invoker interface {
	GetContractState(ctx context.Context, contract identifier.Hash160) (*rpcclient.ContractState, error)
	InvokeFunction(ctx context.Context, contract identifier.Hash160, operation string, args []any, signers ...rpcclient.Signer) (*rpcclient.Invocation, error)
	InvokeFunctionWithSession(ctx context.Context, session string, relay bool, contract identifier.Hash160, operation string, args []any, signers ...rpcclient.Signer) (*rpcclient.Invocation, error)
}

// tui browses a contract's ABI and invokes the chosen method.
type tui struct {
	loadErr  error
	callErr  error
	client   invoker
	styles   *renderer
	session  string
	title    string
	output   string
	methods  []rpcclient.Method
	fields   []textinput.Model
	contract identifier.Hash160
	cursor   int
	focus    int
	screen   screen
	relay    bool
	loaded   bool
}

type manifestMsg struct {
	err     error
	title   string
	methods []rpcclient.Method
}

type invokedMsg struct {
	err    error
	output string
}

func newTUI(client invoker, contract identifier.Hash160, session string, relay bool) *tui {
	return &tui{
		client:   client,
		styles:   newRenderer(nil, true),
		contract: contract,
		session:  session,
		relay:    relay,
	}
}

func (m *tui) Init() tea.Cmd {
	return m.fetchManifest
}

func (m *tui) fetchManifest() tea.Msg {
	state, err := m.client.GetContractState(context.Background(), m.contract)
	if err != nil {
		return manifestMsg{err: err}
	}
	methods := make([]rpcclient.Method, len(state.Manifest.ABI.Methods))
	copy(methods, state.Manifest.ABI.Methods)
	sort.SliceStable(methods, func(i, j int) bool { return methods[i].Name < methods[j].Name })
	return manifestMsg{title: state.Manifest.Name, methods: methods}
}

func (m *tui) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.screen {
		case screenMethods:
			return m.methodsKey(msg)
		case screenArgs:
			return m.argsKey(msg)
		case screenResult:
			return m.resultKey(msg)
		}

	case manifestMsg:
		m.loaded = true
		m.loadErr = msg.err
		m.title = msg.title
		m.methods = msg.methods

	case invokedMsg:
		m.output = msg.output
		m.callErr = msg.err
		m.screen = screenResult
	}
	return m, nil
}

func (m *tui) methodsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.methods)-1 {
			m.cursor++
		}
	case "enter":
		if len(m.methods) == 0 {
			return m, nil
		}
		m.buildFields()
		if len(m.fields) == 0 {
			return m, m.invoke
		}
		m.screen = screenArgs
	}
	return m, nil
}

func (m *tui) argsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.fields = nil
		m.screen = screenMethods
		return m, nil
	case "enter":
		return m, m.invoke
	case "tab", "shift+tab":
		step := 1
		if msg.String() == "shift+tab" {
			step = len(m.fields) - 1
		}
		m.fields[m.focus].Blur()
		m.focus = (m.focus + step) % len(m.fields)
		return m, m.fields[m.focus].Focus()
	}

	var cmd tea.Cmd
	m.fields[m.focus], cmd = m.fields[m.focus].Update(msg)
	return m, cmd
}

func (m *tui) resultKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "enter", "esc":
		m.output, m.callErr = "", nil
		m.screen = screenMethods
	}
	return m, nil
}

func (m *tui) buildFields() {
	params := m.methods[m.cursor].Parameters
	m.fields = make([]textinput.Model, 0, len(params))
	for _, p := range params {
		field := textinput.New()
		field.Prompt = p.Name + ": "
		field.Placeholder = p.Type
		field.Width = 60
		m.fields = append(m.fields, field)
	}
	m.focus = 0
	if len(m.fields) > 0 {
		m.fields[0].Focus()
	}
}

func (m *tui) invoke() tea.Msg {
	method := m.methods[m.cursor]
	args := make([]any, 0, len(m.fields))
	for i, field := range m.fields {
		param := method.Parameters[i]
		v, err := convertArg(field.Value(), param.Type)
		if err != nil {
			return invokedMsg{err: fmt.Errorf("%s: %w", param.Name, err)}
		}
		args = append(args, v)
	}

	ctx := context.Background()
	var (
		inv *rpcclient.Invocation
		err error
	)
	if m.session == "" {
		inv, err = m.client.InvokeFunction(ctx, m.contract, method.Name, args)
	} else {
		inv, err = m.client.InvokeFunctionWithSession(ctx, m.session, m.relay, m.contract, method.Name, args)
	}
	if err != nil {
		return invokedMsg{err: err}
	}

	var out strings.Builder
	newRenderer(&out, true).invocation(inv)
	return invokedMsg{output: strings.TrimRight(out.String(), "\n")}
}

func (m *tui) View() string {
	switch {
	case !m.loaded:
		return "Fetching contract manifest..."
	case m.loadErr != nil:
		return errorStyle.Render(fmt.Sprintf("Cannot load %s: %v\n\nPress ctrl+c to quit.", m.contract, m.loadErr))
	}

	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n\n")
	switch m.screen {
	case screenMethods:
		m.viewMethods(&b)
	case screenArgs:
		m.viewArgs(&b)
	case screenResult:
		m.viewResult(&b)
	}
	return b.String()
}

func (m *tui) header() string {
	target := m.contract.String()
	if m.session != "" {
		target += " @ " + m.session
		if m.relay {
			target += " (relay)"
		}
	}
	return titleStyle.Render("Fairy") + " " + m.title + " " + target
}

func (m *tui) viewMethods(b *strings.Builder) {
	if len(m.methods) == 0 {
		b.WriteString("The contract exposes no methods.\n\n")
		b.WriteString(helpStyle.Render("q quit"))
		return
	}
	b.WriteString("Methods:\n\n")
	for i, method := range m.methods {
		line := m.styles.formatMethod(method)
		if method.Safe {
			line += helpStyle.Render(" safe")
		}
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	b.WriteString(helpStyle.Render("↑/↓ move • enter invoke • q quit"))
}

func (m *tui) viewArgs(b *strings.Builder) {
	fmt.Fprintf(b, "Arguments for %s\n\n", funcStyle.Render(m.methods[m.cursor].Name))
	for _, field := range m.fields {
		b.WriteString(field.View())
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	b.WriteString(helpStyle.Render("tab/shift+tab move • enter invoke • esc back • kind:value overrides the type"))
}

func (m *tui) viewResult(b *strings.Builder) {
	fmt.Fprintf(b, "%s returned:\n\n", funcStyle.Render(m.methods[m.cursor].Name))
	if m.callErr != nil {
		b.WriteString(errorStyle.Render(m.callErr.Error()))
	} else {
		b.WriteString(m.output)
	}
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("enter back • q quit"))
}

func runInteractive(client invoker, contract identifier.Hash160, session string, relay bool) error {
	_, err := tea.NewProgram(newTUI(client, contract, session, relay), tea.WithAltScreen()).Run()
	return err
}
