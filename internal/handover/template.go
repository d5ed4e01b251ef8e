package handover

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// TemplateSheet sheet name of the generated template
const TemplateSheet = "Entrega de turno"

// TemplateHeader header row of the import template, one title per recognized column
var TemplateHeader = []string{
	"Cama",
	"Nombre",
	"Edad",
	"RUT",
	"Diagnósticos",
	"Fecha ingreso",
	"Panel viral",
	"Requerimiento O2",
	"Score respiratorio",
	"Antibióticos",
	"Pendientes",
	"Plan",
}

var templateColumnWidths = []float64{10, 30, 12, 16, 40, 14, 16, 24, 18, 30, 30, 30}

// templateExample sample row, matches what Parse expects
var templateExample = []string{
	"501-2", "Ana Pérez", "6 meses", "11.111.111-1", "Bronquiolitis; SBO",
	"01-03-2024", "VRS (+)", "CN 2L", "TAL 5", "Ceftriaxona D3/7", "Control PCR", "Kinesioterapia",
}

// GenerateTemplate builds an xlsx with the header row and one example row
func GenerateTemplate() ([]byte, error) {
	return BuildWorkbook(TemplateHeader, [][]string{templateExample})
}

// BuildWorkbook writes a header row and data rows into a single-sheet workbook
func BuildWorkbook(header []string, rows [][]string) ([]byte, error) {
	f := excelize.NewFile()
	// WriteTo needs the file open, Close is called explicitly

	index, err := f.NewSheet(TemplateSheet)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for col, title := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(TemplateSheet, cell, title); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(TemplateSheet, cell, cell, headerStyle); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header style: %w", err)
		}
		if col < len(templateColumnWidths) {
			name, err := excelize.ColumnNumberToName(col + 1)
			if err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to convert column number: %w", err)
			}
			if err := f.SetColWidth(TemplateSheet, name, name, templateColumnWidths[col]); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to set column width: %w", err)
			}
		}
	}

	// data rows are written as text so dates stay day-first
	for r, row := range rows {
		for c, value := range row {
			if value == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to convert coordinates: %w", err)
			}
			if err := f.SetCellStr(TemplateSheet, cell, value); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to set cell %s: %w", cell, err)
			}
		}
	}

	// freeze header
	if err := f.SetPanes(TemplateSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to freeze panes: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write to buffer: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close file: %w", err)
	}
	return buf.Bytes(), nil
}
