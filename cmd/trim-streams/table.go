package main

import (
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ZuidVolt/trim-streams/internal/processor"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
)

var labelCaser = cases.Title(language.English)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

func renderOutcomeSummary(outcomes []processor.Outcome, colorize bool) string {
	rows := make([][]string, 0, len(outcomes))
	for _, outcome := range outcomes {
		detail := outcome.Note
		if outcome.Err != nil {
			detail = outcome.Err.Error()
		}
		rows = append(rows, []string{
			outcome.SourcePath,
			statusCell(outcome.Status, colorize),
			detail,
		})
	}
	return renderTable([]string{"File", "Status", "Detail"}, rows, nil)
}

func statusCell(status processor.Status, colorize bool) string {
	label := statusLabel(status)
	if !colorize {
		return label
	}
	switch status {
	case processor.StatusSucceeded, processor.StatusVerified:
		return ansiGreen + label + ansiReset
	case processor.StatusSkipped:
		return ansiYellow + label + ansiReset
	case processor.StatusFailed, processor.StatusVerifyFailed:
		return ansiRed + label + ansiReset
	default:
		return label
	}
}

func statusLabel(status processor.Status) string {
	return labelCaser.String(strings.ReplaceAll(string(status), "_", " "))
}

func stdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
