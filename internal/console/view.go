// Package console implements the controller's view as line-oriented output
// for non-interactive use.
package console

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/Zuo-Peng/vask/internal/render"
	"github.com/charmbracelet/lipgloss"
)

// Format selects how answers are written.
type Format string

const (
	FormatANSI  Format = "ansi"
	FormatHTML  Format = "html"
	FormatPlain Format = "plain"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatANSI, FormatHTML, FormatPlain:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (want ansi, html or plain)", s)
	}
}

var styleError = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)

// View writes answers to out and status and errors to status.
type View struct {
	out    io.Writer
	status io.Writer
	format Format

	mu      sync.Mutex
	loading bool
	lastErr error
}

func NewView(out, status io.Writer, format Format) *View {
	return &View{out: out, status: status, format: format}
}

func (v *View) ShowLoading() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.loading = true
	fmt.Fprintln(v.status, "Asking...")
}

func (v *View) HideLoading() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.loading = false
}

func (v *View) ShowError(message string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.loading = false
	v.lastErr = errors.New(message)
	if v.format == FormatANSI {
		fmt.Fprintln(v.status, styleError.Render("Error: ")+message)
		return
	}
	fmt.Fprintln(v.status, "Error: "+message)
}

func (v *View) DisplayAnswer(answer string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.lastErr = nil
	switch v.format {
	case FormatHTML:
		fmt.Fprintln(v.out, render.Markup(answer))
	case FormatPlain:
		fmt.Fprintln(v.out, answer)
	default:
		fmt.Fprintln(v.out, render.ANSI(answer))
	}
}

// ClearFollowUp is a no-op: follow-ups come from flags, not an input field.
func (v *View) ClearFollowUp() {}

// Loading reports whether the loading indicator is shown.
func (v *View) Loading() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loading
}

// Err returns the error shown by the most recent operation, or nil if it
// ended with an answer.
func (v *View) Err() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lastErr
}
