// Package export writes a generated dataset to a spreadsheet workbook with
// one sheet per dataset file, for inspection outside the solver toolchain.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jonathan/cutgen/internal/dataset"
	"github.com/jonathan/cutgen/internal/types"
)

// Sheet names
const (
	BatchSheet   = "batch"
	DefectsSheet = "defects"
)

// WriteWorkbook writes the batch and defects tables to path. Rows and IDs are
// the same as in the CSV files.
func WriteWorkbook(ds *types.Dataset, path string) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", BatchSheet); err != nil {
		return fmt.Errorf("failed to rename default sheet: %w", err)
	}
	if _, err := f.NewSheet(DefectsSheet); err != nil {
		return fmt.Errorf("failed to create defects sheet: %w", err)
	}

	if err := writeRow(f, BatchSheet, 1, toCells(dataset.BatchHeader)); err != nil {
		return err
	}
	row, itemID := 2, 0
	for stackID, stack := range ds.Stacks {
		for seq, item := range stack {
			if err := writeRow(f, BatchSheet, row, []interface{}{itemID, item.Length, item.Width, stackID, seq + 1}); err != nil {
				return err
			}
			row++
			itemID++
		}
	}

	if err := writeRow(f, DefectsSheet, 1, toCells(dataset.DefectsHeader)); err != nil {
		return err
	}
	row, defectID := 2, 0
	for plateID, plate := range ds.Plates {
		for _, d := range plate {
			if err := writeRow(f, DefectsSheet, row, []interface{}{defectID, plateID, d.X, d.Y, d.Width, d.Height}); err != nil {
				return err
			}
			row++
			defectID++
		}
	}

	if err := f.SaveAs(path); err != nil {
		return &dataset.WriteError{Path: path, Cause: err}
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("failed to address row %d: %w", row, err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func toCells(header []string) []interface{} {
	cells := make([]interface{}, len(header))
	for i, h := range header {
		cells[i] = h
	}
	return cells
}
