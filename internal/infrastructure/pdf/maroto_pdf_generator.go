// Package pdf genera el reporte de valorización de inventario.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título                     │  Fecha de generación   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CATEGORÍA (una sección por categoría)                      │
//	│  TABLA: Insumo | Cantidad | Unidad | P.Prom | Valor | Estado │
//	│  Subtotal de la categoría                                   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL DEL INVENTARIO                                       │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
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

	"github.com/jhoicas/Restaurante-api/internal/application/dto"
	"github.com/jhoicas/Restaurante-api/internal/application/inventory"
	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorAlert   = &props.Color{Red: 180, Green: 30, Blue: 30}
)

var statusLabels = map[string]string{
	entity.StockStatusOut: "Agotado",
	entity.StockStatusLow: "Bajo",
	entity.StockStatusIn:  "OK",
}

// ── Generator ─────────────────────────────────────────────────────────────────

var _ inventory.StockReportGenerator = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa inventory.StockReportGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateStockReport genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateStockReport(report inventory.StockReport) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(report.Title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	if len(report.Categories) == 0 {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("Sin insumos registrados.", props.Text{Size: 9, Top: 3, Color: colorGray}),
		)))
	}
	for _, cat := range report.Categories {
		m.AddRows(categoryRow(cat))
		m.AddRows(tableHeaderRow())
		for _, r := range tableDetailRows(cat.Items) {
			m.AddRows(r)
		}
		m.AddRows(subtotalRow(cat.TotalValue))
		m.AddRows(line.NewRow(2))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(report.TotalValue))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(report inventory.StockReport) core.Row {
	return row.New(14).Add(
		col.New(8).Add(
			text.New(report.Title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 2,
			}),
		),
		col.New(4).Add(
			text.New("Generado: "+report.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 4, Color: colorGray,
			}),
		),
	)
}

func categoryRow(cat dto.CategoryStockDTO) core.Row {
	return row.New(9).Add(col.New(12).Add(
		text.New(strings.ToUpper(cat.CategoryName), props.Text{
			Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 3,
		}),
	))
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Insumo", 4, align.Left),
		h("Cantidad", 2, align.Right),
		h("Unidad", 1, align.Center),
		h("P. Promedio", 2, align.Right),
		h("Valor", 2, align.Right),
		h("Estado", 1, align.Center),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

// tableDetailRows una fila por insumo.
func tableDetailRows(items []dto.StockLevelDTO) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		statusColor := colorGray
		if it.Status != entity.StockStatusIn {
			statusColor = colorAlert
		}
		result = append(result, row.New(7).Add(
			col.New(4).Add(text.New(it.IngredientName, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(it.Quantity.StringFixed(3), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(it.Unit, props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(money(it.AvgUnitPrice), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(money(it.TotalValue), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(statusLabel(it.Status), props.Text{Size: 7, Align: align.Center, Top: 1, Color: statusColor})),
		))
	}
	return result
}

func subtotalRow(v decimal.Decimal) core.Row {
	return row.New(7).Add(
		col.New(7),
		col.New(2).Add(text.New("Subtotal:", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 1})),
		col.New(2).Add(text.New(money(v), props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 1, Right: 1})),
		col.New(1),
	)
}

func totalRow(v decimal.Decimal) core.Row {
	return row.New(12).Add(
		col.New(5),
		col.New(4).Add(text.New("TOTAL DEL INVENTARIO:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 3, Right: 2,
		})),
		col.New(3).Add(text.New(money(v), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 3, Right: 1,
		})),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func statusLabel(status string) string {
	if l, ok := statusLabels[status]; ok {
		return l
	}
	return status
}

// money formatea con separador de miles y dos decimales: 1234.5 → "$1.234,50".
func money(v decimal.Decimal) string {
	s := v.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")
	out := "$" + formatThousands(intPart) + "," + frac
	if v.IsNegative() {
		return "-" + out
	}
	return out
}

// formatThousands inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "1000000" → "1.000.000"
func formatThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
