package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/fairy-rpc/identifier"
	"github.com/wippyai/fairy-rpc/rpcclient"
	"github.com/wippyai/fairy-rpc/stackitem"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	funcStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// renderer prints decoded values. Styles are skipped when color is off.
type renderer struct {
	out   io.Writer
	color bool
}

func newRenderer(out io.Writer, color bool) *renderer {
	return &renderer{out: out, color: color}
}

func (r *renderer) paint(s lipgloss.Style, text string) string {
	if !r.color {
		return text
	}
	return s.Render(text)
}

func (r *renderer) title(text string) {
	fmt.Fprintln(r.out, r.paint(titleStyle, text))
}

func (r *renderer) errorf(format string, args ...any) {
	fmt.Fprintln(r.out, r.paint(errorStyle, fmt.Sprintf(format, args...)))
}

// invocation prints the summary of an invoke result followed by its value.
func (r *renderer) invocation(inv *rpcclient.Invocation) {
	res := inv.Result
	state := res.State
	if state == "" {
		state = "?"
	}
	fmt.Fprintf(r.out, "State: %s  Gas: %s\n", r.paint(funcStyle, state), res.GasConsumed)
	if res.Session != "" {
		fmt.Fprintf(r.out, "Session: %s\n", res.Session)
	}
	if res.Exception != "" {
		r.errorf("Exception: %s", res.Exception)
		return
	}
	r.value(inv.Value)
}

func (r *renderer) value(v any) {
	fmt.Fprintln(r.out, r.format(v, 0))
}

// format renders v as an indented tree.
func (r *renderer) format(v any, indent int) string {
	pad := strings.Repeat("  ", indent+1)
	closePad := strings.Repeat("  ", indent)

	switch v := v.(type) {
	case nil:
		return r.paint(typeStyle, "null")
	case bool:
		return r.paint(resultStyle, strconv.FormatBool(v))
	case *big.Int:
		return r.paint(resultStyle, v.String())
	case string:
		return r.paint(resultStyle, strconv.Quote(v))
	case []byte:
		return r.paint(resultStyle, "0x"+hex.EncodeToString(v)) + r.paint(typeStyle, " (bytes)")
	case identifier.Hash160:
		return r.paint(resultStyle, v.String()) + r.paint(typeStyle, " (hash160 "+v.Address()+")")
	case identifier.Hash256:
		return r.paint(resultStyle, v.String()) + r.paint(typeStyle, " (hash256)")
	case identifier.PublicKey:
		return r.paint(resultStyle, v.String()) + r.paint(typeStyle, " (pubkey)")
	case stackitem.Struct:
		return r.list("struct[", []any(v), pad, closePad, indent)
	case []any:
		return r.list("[", v, pad, closePad, indent)
	case *stackitem.Map:
		if v.Len() == 0 {
			return "{}"
		}
		var b strings.Builder
		b.WriteString("{\n")
		v.Range(func(key, value any) bool {
			b.WriteString(pad)
			b.WriteString(r.format(key, indent+1))
			b.WriteString(": ")
			b.WriteString(r.format(value, indent+1))
			b.WriteString("\n")
			return true
		})
		b.WriteString(closePad)
		b.WriteString("}")
		return b.String()
	default:
		return r.paint(errorStyle, fmt.Sprintf("%v (%T)", v, v))
	}
}

func (r *renderer) list(open string, elems []any, pad, closePad string, indent int) string {
	if len(elems) == 0 {
		return open + "]"
	}
	var b strings.Builder
	b.WriteString(open)
	b.WriteString("\n")
	for _, e := range elems {
		b.WriteString(pad)
		b.WriteString(r.format(e, indent+1))
		b.WriteString("\n")
	}
	b.WriteString(closePad)
	b.WriteString("]")
	return b.String()
}

func (r *renderer) formatMethod(m rpcclient.Method) string {
	params := make([]string, 0, len(m.Parameters))
	for _, p := range m.Parameters {
		params = append(params, p.Name+": "+r.paint(typeStyle, p.Type))
	}
	result := ""
	if m.ReturnType != "" && m.ReturnType != "Void" {
		result = " -> " + r.paint(typeStyle, m.ReturnType)
	}
	return r.paint(funcStyle, m.Name) + "(" + strings.Join(params, ", ") + ")" + result
}
