package xlsx

import (
	"fmt"

	"github.com/360EntSecGroup-Skylar/excelize"

	"github.com/Apurer/instrumentos-api/internal/domains/reports/domain"
	"github.com/Apurer/instrumentos-api/internal/domains/reports/ports"
)

const (
	SheetName = "Reporte Pedidos"
	// DateLayout is ISO-8601 local date-time without an offset.
	DateLayout = "2006-01-02T15:04:05.999999"
)

// Headers is the first row of the report.
var Headers = []string{"Fecha Pedido", "Instrumento", "Marca", "Modelo", "Cantidad", "Precio Unitario", "Subtotal"}

var _ ports.SalesReportRenderer = (*SalesReport)(nil)

// SalesReport writes one worksheet with a header row and one row per line item.
type SalesReport struct{}

func NewSalesReport() *SalesReport {
	return &SalesReport{}
}

func (SalesReport) Render(rows []domain.SalesRow) ([]byte, error) {
	f := excelize.NewFile()
	f.SetSheetName("Sheet1", SheetName)

	headerStyle, err := f.NewStyle(`{"font":{"bold":true}}`)
	if err != nil {
		return nil, err
	}
	for col, header := range Headers {
		f.SetCellValue(SheetName, Axis(col, 1), header)
	}
	f.SetCellStyle(SheetName, Axis(0, 1), Axis(len(Headers)-1, 1), headerStyle)
	f.SetColWidth(SheetName, "A", "A", 26)
	f.SetColWidth(SheetName, "B", "D", 20)
	f.SetColWidth(SheetName, "E", "G", 16)

	for i, row := range rows {
		line := i + 2
		unitPrice, _ := row.UnitPrice.Float64()
		subtotal, _ := row.Subtotal.Float64()
		f.SetCellValue(SheetName, Axis(0, line), row.PlacedAt.Format(DateLayout))
		f.SetCellValue(SheetName, Axis(1, line), row.Instrument)
		f.SetCellValue(SheetName, Axis(2, line), row.Brand)
		f.SetCellValue(SheetName, Axis(3, line), row.Model)
		f.SetCellValue(SheetName, Axis(4, line), int64(row.Quantity))
		f.SetCellValue(SheetName, Axis(5, line), unitPrice)
		f.SetCellValue(SheetName, Axis(6, line), subtotal)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Axis builds a cell reference for a zero-based column and one-based row; the report stays within A..Z.
func Axis(col, row int) string {
	return fmt.Sprintf("%c%d", 'A'+col, row)
}
