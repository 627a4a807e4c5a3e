// Package pdf implementa la generación de la remisión de despacho imprimible.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Planta  │  N° Remisión + Fecha + N° Pedido         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENTE: Nombre + NIT/CC + contacto + dirección de obra    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Piezas | SKU | Producto                             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  OBSERVACIONES                                              │
//	│  FIRMAS: Despachado por | Recibido por                      │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

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

	"github.com/jhoicas/Planta-api/internal/application/deliveries"
	"github.com/jhoicas/Planta-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 46, Green: 94, Blue: 48}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoDeliveryNoteGenerator implementa deliveries.DeliveryNotePDFGenerator
// usando Maroto v2.
type MarotoDeliveryNoteGenerator struct {
	plantName string
}

// NewMarotoDeliveryNoteGenerator construye el generador con el nombre de la planta.
func NewMarotoDeliveryNoteGenerator(plantName string) *MarotoDeliveryNoteGenerator {
	return &MarotoDeliveryNoteGenerator{plantName: plantName}
}

// GenerateDeliveryNotePDF genera la remisión y devuelve sus bytes.
func (g *MarotoDeliveryNoteGenerator) GenerateDeliveryNotePDF(
	_ context.Context,
	delivery *entity.Delivery,
	order *entity.Order,
	customer *entity.Customer,
	lines []deliveries.DeliveryNoteLine,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Remisión "+delivery.Number, true).
		WithAuthor(g.plantName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(delivery, order))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(customerRow(customer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableLineRows(lines) {
		m.AddRows(r)
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(lines))

	if delivery.Notes != "" {
		m.AddRows(notesRow(delivery.Notes))
	}
	m.AddRows(line.NewRow(10))
	m.AddRows(signaturesRow())

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar remisión: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: nombre de la planta (izq) y N° Remisión + fecha + pedido origen (der).
func (g *MarotoDeliveryNoteGenerator) headerRow(delivery *entity.Delivery, order *entity.Order) core.Row {
	fecha := delivery.Date.Format("02/01/2006")

	return row.New(20).Add(
		col.New(7).Add(
			text.New(g.plantName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Prefabricados de concreto", props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("REMISIÓN DE DESPACHO", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(delivery.Number, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+fecha+"   |   Pedido: "+order.Number, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// customerRow: datos del cliente que recibe.
func customerRow(customer *entity.Customer) core.Row {
	return row.New(16).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(customer.Name, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("NIT/CC: %s   |   Tel: %s   |   Dirección: %s",
				customer.TaxID,
				nonEmpty(customer.Phone, "—"),
				nonEmpty(customer.Address, "—"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas despachadas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Piezas", 2, align.Right),
		h("Código", 3, align.Left),
		h("Producto", 7, align.Left),
	)
}

// tableLineRows: una fila por línea despachada.
func tableLineRows(lines []deliveries.DeliveryNoteLine) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(
				fmt.Sprintf("%d", l.Pieces),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(3).Add(text.New(
				l.ProductSKU,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(7).Add(text.New(
				l.ProductName,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
		))
	}
	return result
}

// totalRow: total de piezas despachadas.
func totalRow(lines []deliveries.DeliveryNoteLine) core.Row {
	var total int64
	for _, l := range lines {
		total += l.Pieces
	}
	return row.New(8).Add(
		col.New(2).Add(text.New(
			fmt.Sprintf("%d", total),
			props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 1, Top: 1},
		)),
		col.New(10).Add(text.New(
			"TOTAL PIEZAS DESPACHADAS",
			props.Text{Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Left: 1, Top: 1},
		)),
	)
}

// notesRow: observaciones de la entrega.
func notesRow(notes string) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("OBSERVACIONES", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(notes, props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

// signaturesRow: líneas de firma para quien despacha y quien recibe.
func signaturesRow() core.Row {
	sig := func(label string) core.Col {
		return col.New(6).Add(
			text.New("______________________________", props.Text{
				Size: 9, Align: align.Center, Top: 1,
			}),
			text.New(label, props.Text{
				Size: 8, Align: align.Center, Top: 7, Color: colorGray,
			}),
		)
	}
	return row.New(16).Add(
		sig("Despachado por"),
		sig("Recibido por (nombre y CC)"),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
