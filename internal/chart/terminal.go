package chart

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TerminalSink draws a legend with proportional horizontal bars.
type TerminalSink struct {
	Out   io.Writer
	Width int // bar width in cells; defaults to 30
}

func (t TerminalSink) Render(s Series, colors []string) error {
	if t.Out == nil {
		return errors.New("terminal sink has no output")
	}
	if len(s.Labels) != len(s.Values) {
		return fmt.Errorf("series mismatch: %d labels, %d values", len(s.Labels), len(s.Values))
	}

	if len(colors) == 0 {
		colors = Colors(len(s.Labels), nil)
	}

	width := t.Width
	if width <= 0 {
		width = 30
	}

	var total float64
	labelW := 0
	for i, v := range s.Values {
		total += v
		if n := lipgloss.Width(s.Labels[i]); n > labelW {
			labelW = n
		}
	}
	if total <= 0 {
		total = 1
	}

	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("#6F6E69"))

	var b strings.Builder
	for i, label := range s.Labels {
		share := s.Values[i] / total
		cells := int(share*float64(width) + 0.5)
		if cells == 0 && s.Values[i] > 0 {
			cells = 1
		}

		bar := lipgloss.NewStyle().Foreground(lipgloss.Color(colors[i%len(colors)]))
		b.WriteString("  ")
		b.WriteString(label)
		b.WriteString(strings.Repeat(" ", labelW-lipgloss.Width(label)+2))
		b.WriteString(bar.Render(strings.Repeat("█", cells)))
		b.WriteString(strings.Repeat(" ", width-cells+1))
		if s.Empty() {
			b.WriteString(muted.Render("-"))
		} else {
			b.WriteString(muted.Render(fmt.Sprintf("%5.1f%%", share*100)))
		}
		b.WriteString("\n")
	}

	_, err := io.WriteString(t.Out, b.String())
	return err
}
