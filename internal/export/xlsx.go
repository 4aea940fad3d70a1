package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"ITOpsDashboard/internal/model"
)

// SheetName имя листа в XLSX-выгрузке
const SheetName = "Equipos"

// первая денежная колонка (purchase_cost) и последняя (book_value_today), 1-based
const (
	firstMoneyCol = 7
	lastMoneyCol  = 14
	rateCol       = 8
)

// WriteXLSX пишет те же колонки, что и CSV; денежные значения хранятся числами
// с форматом 0.00
func WriteXLSX(w io.Writer, assets []model.Asset) error {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"E0E0E0"}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 2}},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 2})
	if err != nil {
		return fmt.Errorf("failed to create money style: %w", err)
	}

	header := make([]interface{}, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write xlsx header: %w", err)
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(Header), 1)
	if err := f.SetCellStyle(SheetName, "A1", lastHeader, headerStyle); err != nil {
		return fmt.Errorf("failed to style xlsx header: %w", err)
	}

	for i, a := range assets {
		rowNum := i + 2
		cell, _ := excelize.CoordinatesToCellName(1, rowNum)
		row := xlsxRow(a)
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write xlsx row %s: %w", a.SerialNumber, err)
		}
	}
	if len(assets) > 0 {
		from, _ := excelize.CoordinatesToCellName(firstMoneyCol, 2)
		to, _ := excelize.CoordinatesToCellName(lastMoneyCol, len(assets)+1)
		if err := f.SetCellStyle(SheetName, from, to, moneyStyle); err != nil {
			return fmt.Errorf("failed to style money cells: %w", err)
		}
	}

	// закрепляем строку заголовка
	if err := f.SetPanes(SheetName, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return fmt.Errorf("failed to freeze header: %w", err)
	}
	_ = f.SetColWidth(SheetName, "A", "O", 16)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write xlsx: %w", err)
	}
	return nil
}

// xlsxRow значения строки: текст как в CSV, деньги числами
func xlsxRow(a model.Asset) []interface{} {
	rec := Record(a)
	row := make([]interface{}, len(rec))
	for i, v := range rec {
		row[i] = v
	}
	if a.PurchaseCost.Valid {
		row[firstMoneyCol-1] = a.PurchaseCost.Decimal.Round(2).InexactFloat64()
	}
	for i, d := range a.Depreciation() {
		row[rateCol+i] = d.Round(2).InexactFloat64()
	}
	row[lastMoneyCol-1] = a.BookValueToday.Round(2).InexactFloat64()
	return row
}
