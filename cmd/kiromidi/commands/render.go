package commands

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kiro-audio/midi/pkg/midi"
	"github.com/kiro-audio/midi/pkg/ump"
)

// theme defines the kiromidi color scheme.
type theme struct {
	Primary lipgloss.Color
	Dim     lipgloss.Color
}

var defaultTheme = theme{
	Primary: lipgloss.Color("#00ff9f"),
	Dim:     lipgloss.Color("#6e7681"),
}

type styles struct {
	Title lipgloss.Style
	Label lipgloss.Style
	Dim   lipgloss.Style
	Event lipgloss.Style
}

func newStyles(t theme) styles {
	return styles{
		Title: lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		Label: lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		Dim:   lipgloss.NewStyle().Foreground(t.Dim),
		Event: lipgloss.NewStyle(),
	}
}

var out = newStyles(defaultTheme)

// renderEndpoints renders the connected and remembered endpoints of a
// driver as a two-section listing.
func renderEndpoints(sources []midi.SourceInfo, destinations []midi.DestinationInfo) string {
	var b strings.Builder

	b.WriteString(out.Title.Render("Sources") + "\n")
	if len(sources) == 0 {
		b.WriteString(out.Dim.Render("  (none)") + "\n")
	}
	for _, s := range sources {
		inputs := out.Dim.Render("(no input attached)")
		if len(s.ConnectedInputs) > 0 {
			inputs = out.Label.Render("-> " + strings.Join(s.ConnectedInputs, ", "))
		}
		fmt.Fprintf(&b, "  %016x  %-24s %s\n", uint64(s.ID), s.Name, inputs)
	}

	b.WriteString(out.Title.Render("Destinations") + "\n")
	if len(destinations) == 0 {
		b.WriteString(out.Dim.Render("  (none)") + "\n")
	}
	for _, d := range destinations {
		fmt.Fprintf(&b, "  %016x  %s\n", uint64(d.ID), d.Name)
	}
	return b.String()
}

// renderEvent renders one decoded event as a single log line.
func renderEvent(input string, ev midi.Event) string {
	ts := out.Dim.Render(fmt.Sprintf("%14d", ev.Timestamp))
	src := out.Dim.Render(fmt.Sprintf("%016x", uint64(ev.Endpoint)))
	return fmt.Sprintf("%s %s %s %s",
		ts, src, out.Label.Render(input), out.Event.Render(ev.Message.String()))
}

// renderWords renders raw UMP words the way replay prints them.
func renderWords(words []ump.Word) string {
	parts := make([]string, len(words))
	for i, w := range words {
		parts[i] = fmt.Sprintf("%08x", uint32(w))
	}
	return strings.Join(parts, " ")
}
