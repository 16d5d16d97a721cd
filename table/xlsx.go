/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package table

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const xlsxSheet = "Standings"

// WriteXLSX writes rows as a single-sheet workbook with the same header as
// the CSV table. Numeric columns are stored as numbers; missing percentages
// are left as empty cells.
func WriteXLSX(w io.Writer, rows []Row) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), xlsxSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(xlsxSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, r := range rows {
		cells := []interface{}{
			r.Placement,
			r.Name,
			r.Country,
			pointsCell(r),
			r.Wins,
			r.Losses,
			r.Ties,
			r.Record,
			percentCell(r.OPWPercent),
			percentCell(r.OOPWPercent),
			r.Deck,
		}
		axis, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(xlsxSheet, axis, &cells); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if err := f.SetPanes(xlsxSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	return nil
}

func pointsCell(r Row) interface{} {
	if v, ok := r.PointsValue(); ok {
		return v
	}
	return r.Points
}

func percentCell(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
