package cli

import (
	"fmt"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/forPelevin/asrprep/internal/pipeline"
	"github.com/forPelevin/asrprep/internal/usecase"
)

// renderSummary formats one row per recording followed by status totals.
func renderSummary(rep pipeline.Report) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.Style().Format.Footer = text.FormatDefault
	tw.SetTitle("run " + rep.RunID)
	tw.AppendHeader(table.Row{"ID", "Folder", "Status", "Cues", "Duration", "Detail"})
	for _, o := range rep.Recordings {
		tw.AppendRow(table.Row{o.ID, filepath.Base(o.Folder), o.Status, o.Cues, formatMS(o.DurationMS), detail(o)})
	}
	tw.AppendFooter(table.Row{"", "", "", "", "", fmt.Sprintf(
		"accepted %d  rejected %d  skipped %d  failed %d",
		rep.Count(usecase.StatusAccepted),
		rep.Count(usecase.StatusRejected),
		rep.Count(usecase.StatusSkipped),
		rep.Count(usecase.StatusFailed),
	)})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, WidthMax: 60},
	})
	return tw.Render()
}

func detail(o pipeline.Outcome) string {
	switch {
	case o.Error != "":
		return o.Stage + ": " + o.Error
	case o.Check != "":
		return fmt.Sprintf("%s=%g", o.Check, o.Value)
	default:
		return ""
	}
}

func formatMS(ms int64) string {
	if ms <= 0 {
		return ""
	}
	return fmt.Sprintf("%d:%02d.%03d", ms/60000, ms/1000%60, ms%1000)
}
