/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package report

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteConsole renders the run summary to w as a markdown-style table, the
// local counterpart of the posted comment.
func (r *Report) WriteConsole(w io.Writer) error {
	if len(r.Results) == 0 {
		fmt.Fprintln(w, "Verification skipped due to merge/rebase failures.")
	} else {
		table := newSummaryTable([]string{"Check", "Status", "Duration"}, w)
		for _, res := range r.Results {
			_ = table.Append([]string{res.Name, res.Status.String(), formatDuration(res.Duration)})
		}
		if err := table.Render(); err != nil {
			return err
		}
	}

	if r.Failure != nil {
		fmt.Fprintf(w, "\nVerification failed at: %s\n", r.Failure.Step)
		if r.Session != "" {
			fmt.Fprintf(w, "Remediation session created: %s\n", r.Session)
		}
	} else {
		fmt.Fprintln(w, "\nAll checks passed!")
	}
	return nil
}

// newSummaryTable creates a table writer with the formatting used for all
// console summaries.
func newSummaryTable(headers []string, w io.Writer) *tablewriter.Table {
	cfg := tablewriter.Config{
		Header: tw.CellConfig{
			Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			Formatting: tw.CellFormatting{AutoFormat: tw.Off},
		},
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignLeft},
		},
		MaxWidth: 80,
		Behavior: tw.Behavior{TrimSpace: tw.Off},
	}
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(cfg),
		tablewriter.WithHeader(headers),
		tablewriter.WithRenderer(renderer.NewBlueprint()),
		tablewriter.WithRendition(tw.Rendition{
			Symbols: tw.NewSymbols(tw.StyleMarkdown),
			Borders: tw.Border{
				Left:   tw.On,
				Top:    tw.Off,
				Right:  tw.On,
				Bottom: tw.Off,
			},
		}),
		tablewriter.WithRowAutoWrap(tw.WrapNone),
	)
}
