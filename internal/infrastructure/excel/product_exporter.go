// Package excel genera planillas XLSX con excelize.
package excel

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/tienda-erp/internal/application/ports"
	"github.com/jhoicas/tienda-erp/internal/domain/entity"
	"github.com/jhoicas/tienda-erp/internal/domain/pricing"
)

const (
	productsSheet = "Productos"
	headerRow     = 3
)

var productHeaders = []string{"SKU", "Producto", "Pack", "Costo", "Precio venta", "Margen %", "Stock", "Stock mínimo", "Valor stock", "Alerta"}

// ProductExporter implementa ports.ProductExporter.
type ProductExporter struct {
	now func() time.Time
}

// NewProductExporter construye el exportador.
func NewProductExporter() *ProductExporter {
	return &ProductExporter{now: time.Now}
}

// ExportProducts una fila por producto con margen y valorización a costo; al final el total valorizado.
func (e *ProductExporter) ExportProducts(tenantName string, products []*entity.Product) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", productsSheet); err != nil {
		return nil, fmt.Errorf("excel: crear hoja: %w", err)
	}

	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return nil, fmt.Errorf("excel: estilo título: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#00467F"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("excel: estilo cabecera: %w", err)
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 3}) // #,##0
	if err != nil {
		return nil, fmt.Errorf("excel: estilo moneda: %w", err)
	}
	lowStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Color: "#C00000"}})
	if err != nil {
		return nil, fmt.Errorf("excel: estilo alerta: %w", err)
	}

	cells := []struct {
		cell  string
		value any
	}{
		{"A1", "Inventario " + tenantName},
		{"A2", "Generado: " + e.now().Format("02/01/2006 15:04")},
	}
	for _, c := range cells {
		if err := f.SetCellValue(productsSheet, c.cell, c.value); err != nil {
			return nil, err
		}
	}
	if err := f.SetCellStyle(productsSheet, "A1", "A1", titleStyle); err != nil {
		return nil, err
	}

	for i, h := range productHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, headerRow)
		if err := f.SetCellValue(productsSheet, cell, h); err != nil {
			return nil, err
		}
	}
	first, _ := excelize.CoordinatesToCellName(1, headerRow)
	last, _ := excelize.CoordinatesToCellName(len(productHeaders), headerRow)
	if err := f.SetCellStyle(productsSheet, first, last, headerStyle); err != nil {
		return nil, err
	}

	r := headerRow
	for _, p := range products {
		r++
		alert := ""
		if p.LowStock() {
			alert = "STOCK BAJO"
		}
		pack := "No"
		if p.IsPack {
			pack = "Sí"
		}
		values := []any{
			p.SKU,
			p.Name,
			pack,
			p.CostPrice.InexactFloat64(),
			p.SalePrice.InexactFloat64(),
			pricing.Margin(p.SalePrice, p.CostPrice).InexactFloat64(),
			p.Stock.InexactFloat64(),
			p.MinStock.InexactFloat64(),
			p.Stock.Mul(p.CostPrice).Round(0).InexactFloat64(),
			alert,
		}
		start, _ := excelize.CoordinatesToCellName(1, r)
		if err := f.SetSheetRow(productsSheet, start, &values); err != nil {
			return nil, fmt.Errorf("excel: fila %d: %w", r, err)
		}
		if alert != "" {
			cell, _ := excelize.CoordinatesToCellName(len(productHeaders), r)
			if err := f.SetCellStyle(productsSheet, cell, cell, lowStyle); err != nil {
				return nil, err
			}
		}
	}

	totalRow := r + 2
	if err := f.SetCellValue(productsSheet, fmt.Sprintf("H%d", totalRow), "Total valorizado"); err != nil {
		return nil, err
	}
	formula := "0"
	if r > headerRow {
		formula = fmt.Sprintf("SUM(I%d:I%d)", headerRow+1, r)
	}
	if err := f.SetCellFormula(productsSheet, fmt.Sprintf("I%d", totalRow), formula); err != nil {
		return nil, err
	}
	if r > headerRow {
		if err := f.SetCellStyle(productsSheet, fmt.Sprintf("D%d", headerRow+1), fmt.Sprintf("E%d", r), moneyStyle); err != nil {
			return nil, err
		}
	}
	if err := f.SetCellStyle(productsSheet, fmt.Sprintf("I%d", headerRow+1), fmt.Sprintf("I%d", totalRow), moneyStyle); err != nil {
		return nil, err
	}

	widths := map[string]float64{"A": 16, "B": 36, "C": 6, "D": 12, "E": 12, "F": 10, "G": 10, "H": 16, "I": 14, "J": 12}
	for col, w := range widths {
		if err := f.SetColWidth(productsSheet, col, col, w); err != nil {
			return nil, err
		}
	}
	if err := f.SetPanes(productsSheet, &excelize.Panes{
		Freeze: true, YSplit: headerRow, TopLeftCell: fmt.Sprintf("A%d", headerRow+1), ActivePane: "bottomLeft",
	}); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("excel: escribir: %w", err)
	}
	return buf.Bytes(), nil
}

var _ ports.ProductExporter = (*ProductExporter)(nil)
