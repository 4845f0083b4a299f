// Package pdf genera la orden de compra imprimible que se envía al proveedor.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Tienda + RUT         │  N° Orden + Fecha + Estado   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PROVEEDOR: Razón social + RUT + contacto                    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Producto | Costo Unit. | Subtotal             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL + QR con el número de la orden                        │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-erp/internal/application/ports"
	"github.com/jhoicas/tienda-erp/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

var statusLabels = map[string]string{
	entity.PurchaseOrderPending:   "PENDIENTE",
	entity.PurchaseOrderApproved:  "APROBADA",
	entity.PurchaseOrderReceived:  "RECIBIDA",
	entity.PurchaseOrderCancelled: "ANULADA",
}

// PurchaseOrderPDF implementa ports.PurchaseOrderRenderer con Maroto v2.
type PurchaseOrderPDF struct{}

// NewPurchaseOrderPDF construye el renderer.
func NewPurchaseOrderPDF() *PurchaseOrderPDF { return &PurchaseOrderPDF{} }

// RenderPurchaseOrder genera el PDF y devuelve sus bytes.
func (g *PurchaseOrderPDF) RenderPurchaseOrder(doc ports.PurchaseOrderDocument) ([]byte, error) {
	if doc.Tenant == nil || doc.Supplier == nil || doc.Order == nil {
		return nil, fmt.Errorf("pdf: documento incompleto")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Orden de compra "+doc.Order.Number, true).
		WithAuthor(doc.Tenant.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(doc.Tenant, doc.Order))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(supplierRow(doc.Supplier))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(itemRows(doc.Items)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(doc.Order))
	if doc.Order.Notes != "" {
		m.AddRows(row.New(12).Add(col.New(12).Add(
			text.New("Observaciones: "+doc.Order.Notes, props.Text{Size: 8, Top: 2, Color: colorGray}),
		)))
	}

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

// headerRow: tienda + RUT (izq) y número, fecha y estado de la orden (der).
func headerRow(t *entity.Tenant, o *entity.PurchaseOrder) core.Row {
	expected := "—"
	if o.ExpectedDate != nil {
		expected = o.ExpectedDate.Format("02/01/2006")
	}
	return row.New(22).Add(
		col.New(7).Add(
			text.New(t.Name, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New("RUT: "+nonEmpty(t.TaxID, "—"), props.Text{Size: 9, Top: 9, Color: colorGray}),
			text.New(fmt.Sprintf("%s   |   %s", nonEmpty(t.Address, "—"), nonEmpty(t.Phone, "—")),
				props.Text{Size: 8, Top: 14, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("ORDEN DE COMPRA", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1}),
			text.New(o.Number, props.Text{Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 6}),
			text.New("Emitida: "+o.CreatedAt.Format("02/01/2006"), props.Text{Size: 8, Align: align.Right, Top: 12, Color: colorGray}),
			text.New("Entrega: "+expected+"   "+statusLabel(o.Status), props.Text{Size: 8, Align: align.Right, Top: 16, Color: colorGray}),
		),
	)
}

func supplierRow(s *entity.Supplier) core.Row {
	return row.New(16).Add(
		col.New(12).Add(
			text.New("PROVEEDOR", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(s.Name, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(fmt.Sprintf("RUT: %s   |   Contacto: %s   |   Tel: %s   |   Email: %s",
				nonEmpty(s.TaxID, "—"),
				nonEmpty(s.ContactName, "—"),
				nonEmpty(s.Phone, "—"),
				nonEmpty(s.Email, "—"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 2, align.Center),
		h("Producto", 5, align.Left),
		h("Costo Unit.", 2, align.Right),
		h("Subtotal", 3, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func itemRows(items []*entity.PurchaseOrderItem) []core.Row {
	rows := make([]core.Row, 0, len(items))
	for _, it := range items {
		rows = append(rows, row.New(7).Add(
			col.New(2).Add(text.New(formatQty(it.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(5).Add(text.New(it.ProductName, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(2).Add(text.New("$"+formatMoney(it.UnitCost), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(3).Add(text.New("$"+formatMoney(it.Subtotal), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return rows
}

// totalRow: QR con el número de la orden (para la recepción en bodega) y total.
func totalRow(o *entity.PurchaseOrder) core.Row {
	return row.New(30).Add(
		col.New(3).Add(code.NewQr(o.Number, props.Rect{Percent: 90, Center: true})),
		col.New(3),
		col.New(3).Add(text.New("TOTAL NETO:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2, Top: 4,
		})),
		col.New(3).Add(text.New("$"+formatMoney(o.Total), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: 4,
		})),
	)
}

func statusLabel(s string) string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return s
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatQty sin decimales para cantidades enteras, con dos para fraccionadas (kg, lt).
func formatQty(q decimal.Decimal) string {
	if q.Equal(q.Truncate(0)) {
		return q.StringFixed(0)
	}
	return q.StringFixed(2)
}

// formatMoney redondea a entero e inserta puntos de miles.
// Ej: 25000 → "25.000", -1000000 → "-1.000.000"
func formatMoney(v decimal.Decimal) string {
	s := v.StringFixed(0)
	sign := ""
	if len(s) > 0 && s[0] == '-' {
		sign, s = "-", s[1:]
	}
	n := len(s)
	if n <= 3 {
		return sign + s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + string(buf)
}
