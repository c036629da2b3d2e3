package cli

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// styles renders for a specific writer, so output that is not a terminal
// stays plain.
type styles struct {
	err   lipgloss.Style
	ok    lipgloss.Style
	name  lipgloss.Style
	muted lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		err:   r.NewStyle().Foreground(lipgloss.Color("#FF5F5F")).Bold(true),
		ok:    r.NewStyle().Foreground(lipgloss.Color("#5FD75F")).Bold(true),
		name:  r.NewStyle().Foreground(lipgloss.Color("#FFB000")),
		muted: r.NewStyle().Foreground(lipgloss.Color("#808080")),
	}
}
