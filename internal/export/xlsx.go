// Package export renders a dashboard view as an xlsx workbook for the
// emailed end-of-day summary.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/funnelops/salesdash/internal/dashboard"
)

const sheet = "EOD Summary"

// WriteWorkbook writes a one-sheet workbook with totals, rates and period
// changes for the view.
func WriteWorkbook(w io.Writer, v dashboard.View) error {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(sheet)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	rows := [][]any{
		{"Client", v.ClientID},
		{"Period", v.From + " to " + v.To},
		{},
		{"Metric", "Total", "Previous", "Change %"},
	}
	prev := make(map[string]float64, len(v.Comparisons))
	change := make(map[string]*float64, len(v.Comparisons))
	for _, c := range v.Comparisons {
		prev[c.Metric] = c.Previous
		change[c.Metric] = c.PercentChange
	}
	for _, c := range v.Comparisons {
		row := []any{c.Metric, v.Totals[c.Metric], prev[c.Metric]}
		if pc := change[c.Metric]; pc != nil {
			row = append(row, *pc)
		}
		rows = append(rows, row)
	}
	if v.AdSpend != nil {
		rows = append(rows, []any{"adSpend", *v.AdSpend})
	}
	rows = append(rows, []any{}, []any{"Rate", "Value", "Health"})
	for _, rc := range v.Rates {
		rows = append(rows, []any{rc.Name, rc.Value, string(rc.Health)})
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
