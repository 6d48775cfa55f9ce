package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/listenupapp/mangamatch/internal/migrate"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := range columns {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := range columns {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := range columns {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
			WidthMax:    48,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

func renderResults(results []migrate.Result) string {
	headers := []string{"Title", "Match", "ID", "Score", "Confidence", "Also"}
	aligns := []columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft, alignLeft}

	rows := make([][]string, 0, len(results))
	for _, r := range results {
		row := []string{r.Entry.Title, "-", "", formatScore(r.Score), r.Confidence.String(), formatSuggestions(r.Suggestions)}
		if r.Match != nil {
			row[1] = r.Match.DisplayTitle()
			row[2] = strconv.Itoa(r.Match.ID)
		}
		if r.Error != "" {
			row[4] = "error"
			row[5] = r.Error
		}
		rows = append(rows, row)
	}
	return renderTable(headers, rows, aligns)
}

func renderSummary(s migrate.Summary) string {
	headers := []string{"Outcome", "Entries"}
	aligns := []columnAlignment{alignLeft, alignRight}
	rows := [][]string{
		{"definitive", strconv.Itoa(s.ByConfidence[migrate.ConfidenceDefinitive])},
		{"strong", strconv.Itoa(s.ByConfidence[migrate.ConfidenceStrong])},
		{"weak", strconv.Itoa(s.ByConfidence[migrate.ConfidenceWeak])},
		{"unmatched", strconv.Itoa(s.ByConfidence[migrate.ConfidenceNone])},
		{"failed", strconv.Itoa(s.Failed)},
		{"from cache", strconv.Itoa(s.CacheHits)},
		{"total", strconv.Itoa(s.Total)},
	}
	return renderTable(headers, rows, aligns)
}

func formatScore(score float64) string {
	if score < 0 {
		return "-"
	}
	return fmt.Sprintf("%.3f", score)
}

func formatSuggestions(suggestions []migrate.Suggestion) string {
	parts := make([]string, 0, len(suggestions))
	for _, s := range suggestions {
		parts = append(parts, fmt.Sprintf("%s (%.2f)", s.Title, s.Score))
	}
	return strings.Join(parts, "; ")
}
