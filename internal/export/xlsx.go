package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	SheetRanking = "Ranking"
	SheetWeights = "Weights"
)

// WriteXLSX writes a workbook with the ranked table on one sheet and the
// weights with their consistency summary on another.
func WriteXLSX(w io.Writer, r Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetRanking); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	headers := r.Columns()
	if err := writeRow(f, SheetRanking, 1, toCells(headers)); err != nil {
		return err
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(SheetRanking, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}
	for i, row := range r.values() {
		if err := writeRow(f, SheetRanking, i+2, row); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(SheetRanking, "B", "B", 28); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}
	if err := f.SetPanes(SheetRanking, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return fmt.Errorf("failed to freeze header: %w", err)
	}

	if _, err := f.NewSheet(SheetWeights); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := writeRow(f, SheetWeights, 1, []interface{}{"criterion", "weight"}); err != nil {
		return err
	}
	row := 2
	for _, id := range r.Criteria {
		if err := writeRow(f, SheetWeights, row, []interface{}{id, r.Weights[id]}); err != nil {
			return err
		}
		row++
	}
	summary := [][]interface{}{
		{"consistency_ratio", r.ConsistencyRatio},
		{"projected", r.Projected},
		{"equal_weight_fallback", r.Fallback},
	}
	for _, s := range summary {
		row++
		if err := writeRow(f, SheetWeights, row, s); err != nil {
			return err
		}
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func toCells(ss []string) []interface{} {
	out := make([]interface{}, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
