package render

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rpggio/tacboard/internal/domain/tac"
	"github.com/xuri/excelize/v2"
)

const (
	rowsSheet    = "TACs"
	summarySheet = "Resumo"
)

// Export serializes report in format to w. CSV, HTML, XLSX and JSON carry
// every column; FormatText keeps the index and status columns and omits the
// commitment and notes text.
func Export(w io.Writer, format Format, report tac.Report) error {
	switch format {
	case FormatCSV:
		return writeCSV(w, report.Rows)
	case FormatHTML:
		return exportTmpl.Execute(w, report)
	case FormatXLSX:
		return writeXLSX(w, report)
	case FormatText:
		return writeText(w, report)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func writeCSV(w io.Writer, view tac.View) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(tac.Headers()); err != nil {
		return err
	}
	for _, rec := range view {
		if err := writer.Write(rec.Values()); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func writeXLSX(w io.Writer, report tac.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", rowsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]any, len(tac.Schema))
	for i, col := range tac.Schema {
		header[i] = string(col)
	}
	if err := f.SetSheetRow(rowsSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	if err := f.SetRowStyle(rowsSheet, 1, 1, bold); err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	for i, rec := range report.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := rec.Values()
		row := make([]any, len(values))
		for j, v := range values {
			row[j] = v
		}
		if err := f.SetSheetRow(rowsSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("summary sheet: %w", err)
	}
	summaryHeader := []any{"Status", "Quantidade", "Percentual"}
	if err := f.SetSheetRow(summarySheet, "A1", &summaryHeader); err != nil {
		return err
	}
	for i, s := range report.Slices {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{s.Status, s.Count, s.Percent / 100}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return err
		}
	}

	return f.Write(w)
}

// writeText renders a lipgloss table of the index and status columns.
func writeText(w io.Writer, report tac.Report) error {
	if report.Empty() {
		_, err := fmt.Fprintln(w, NoResultsNotice)
		return err
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	columns := []tac.Column{tac.ColYear, tac.ColDocument, tac.ColClause, tac.ColSubClause, tac.ColSubSubClause}
	columns = append(columns, tac.StatusColumns...)
	headers := make([]string, len(columns))
	for i, col := range columns {
		headers[i] = ColumnLabel(col)
	}

	rows := make([][]string, 0, len(report.Rows))
	for _, g := range Groups(report.Rows) {
		for i, rec := range g.Rows {
			row := make([]string, len(columns))
			for j, col := range columns {
				if i > 0 && j < len(tac.IndexColumns) {
					continue
				}
				row[j] = rec.Value(col)
			}
			rows = append(rows, row)
		}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	var summary []string
	for _, s := range report.Slices {
		summary = append(summary, fmt.Sprintf("%s: %s", s.Status, s.Label))
	}

	_, err := fmt.Fprintf(w, "%s\n%d de %d registros\n%s\n", t.Render(), len(report.Rows), report.DatasetSize, strings.Join(summary, "\n"))
	return err
}
