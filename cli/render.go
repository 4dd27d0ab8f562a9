package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spaghettifunk/rendercost/engine"
)

var (
	// Colors
	Primary = lipgloss.Color("#7C3AED") // Purple
	Muted   = lipgloss.Color("#6B7280") // Gray
	Warning = lipgloss.Color("#F59E0B") // Amber

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Subtitle = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	Cell = lipgloss.NewStyle().Padding(0, 1)

	Number = Cell.Align(lipgloss.Right)

	TableBorder = lipgloss.NewStyle().Foreground(Muted)
)

// formatTable is the human readable output of every command.
const formatTable = "table"

// parseFormat validates a --format value. Table output yields an empty ReportFormat.
func parseFormat(s string) (engine.ReportFormat, error) {
	if strings.EqualFold(strings.TrimSpace(s), formatTable) {
		return "", nil
	}
	return engine.ParseReportFormat(s)
}

// newTable renders rows under headers, right aligning the columns from
// firstNumber on.
func newTable(firstNumber int, headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(TableBorder).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col >= firstNumber {
				return Number
			}
			return Cell
		})
}

func formatCost(c float32) string {
	if c < 0 {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", c)
}

func renderReport(w io.Writer, r *engine.Report) {
	fmt.Fprintln(w, Title.Render(fmt.Sprintf("Scene %s", r.Scene)))
	fmt.Fprintln(w, Subtitle.Render(fmt.Sprintf("cost version %s, evaluated in %s (average %s)", r.Version, r.Elapsed(), r.Average())))

	if len(r.Avatars) > 0 {
		t := newTable(2, "Avatar", "ID", "Complexity", "Reported", "Attachments", "Triangles v2", "Textures v2")
		for _, av := range r.Avatars {
			reported := "-"
			if av.FrameData != nil && av.FrameData.ARCReported > 0 {
				reported = fmt.Sprint(av.FrameData.ARCReported)
			}
			var tris, tex string
			if av.FrameData != nil {
				tris = fmt.Sprint(av.FrameData.Summary.NumTrianglesV2)
				tex = formatCost(av.FrameData.Summary.TextureCostsV2)
			}
			t.Row(av.Name, av.ID, fmt.Sprint(av.VisualComplexity), reported, fmt.Sprint(av.Attachments), tris, tex)
		}
		fmt.Fprintln(w, t.Render())
	}

	if len(r.Linksets) > 0 {
		renderLinksets(w, r.Linksets)
	}
}

func renderLinksets(w io.Writer, linksets []*engine.LinksetReport) {
	t := newTable(2, "Linkset", "ID", "Render cost", "v1", "v2", "Streaming", "Prims")
	for _, ls := range linksets {
		prims := "-"
		if ls.FrameData != nil {
			prims = fmt.Sprint(ls.FrameData.Summary.PrimCount)
		}
		t.Row(ls.Name, ls.ID, formatCost(ls.RenderCost), formatCost(ls.RenderCostV1), formatCost(ls.RenderCostV2), formatCost(ls.StreamingCost), prims)
	}
	fmt.Fprintln(w, t.Render())
}
