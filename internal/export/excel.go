package export

import (
	"fmt"

	"attendance-report/internal/attendance"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	SheetName   = "Asistencias"
	columnWidth = 20
	numberFmt   = "0.0"
)

// Headers are the column labels of the attendance sheet, in order.
var Headers = []string{
	"SECTOR",
	"APELLIDO",
	"Jornada Recibo",
	"Lic x Enf",
	"Otras Lic",
	"Vacac",
	"SIN JUST.",
	"Present Quincena",
	"ILT",
	"Total",
}

// Filename names the document of a company month.
func Filename(company string, year, month int) string {
	return fmt.Sprintf("Asistencia_%s_%d_%02d.xlsx", company, year, month)
}

func thinBorder() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
}

// WriteAttendance renders one header row and one row per employee.
func WriteAttendance(rows []attendance.Row) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"2C3E50"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    thinBorder(),
	})
	if err != nil {
		return nil, err
	}

	textStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "left"},
		Border:    thinBorder(),
	})
	if err != nil {
		return nil, err
	}

	format := numberFmt
	numberStyle, err := f.NewStyle(&excelize.Style{
		Alignment:    &excelize.Alignment{Horizontal: "right"},
		Border:       thinBorder(),
		CustomNumFmt: &format,
	})
	if err != nil {
		return nil, err
	}

	for col, header := range Headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(SheetName, cell, header); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(SheetName, cell, cell, headerStyle); err != nil {
			return nil, err
		}
	}

	for i, row := range rows {
		if err := writeRow(f, i+2, row, textStyle, numberStyle); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(Headers))
	if err != nil {
		return nil, err
	}
	if err := f.SetColWidth(SheetName, "A", lastCol, columnWidth); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, rowNum int, row attendance.Row, textStyle, numberStyle int) error {
	texts := []string{row.Sector, row.Surname}
	numbers := []decimal.Decimal{
		row.Worked,
		row.Sick,
		row.OtherLeave,
		row.Vacation,
		row.Unjustified,
		row.Presence,
		row.Compensation,
		row.Total(),
	}

	for i, text := range texts {
		cell, err := excelize.CoordinatesToCellName(i+1, rowNum)
		if err != nil {
			return err
		}
		if err := f.SetCellStr(SheetName, cell, text); err != nil {
			return err
		}
		if err := f.SetCellStyle(SheetName, cell, cell, textStyle); err != nil {
			return err
		}
	}

	for i, value := range numbers {
		cell, err := excelize.CoordinatesToCellName(len(texts)+i+1, rowNum)
		if err != nil {
			return err
		}
		if err := f.SetCellFloat(SheetName, cell, value.InexactFloat64(), 1, 64); err != nil {
			return err
		}
		if err := f.SetCellStyle(SheetName, cell, cell, numberStyle); err != nil {
			return err
		}
	}
	return nil
}
