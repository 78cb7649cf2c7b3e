// Package pdf implementa la representación gráfica de facturas y recibos
// de abono usando Maroto v2.
//
// Layout de la factura (página A4):
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Razón Social  │  Prefijo+N° Factura + Fecha        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENTE: Nombre + NIT/CC + contacto                        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CIFRAS: Subtotal sin IVA / IVA / TOTAL FACTURADO           │
//	│  RETENCIONES: Retefuente / ICA / NETO A PAGAR               │
//	└─────────────────────────────────────────────────────────────┘
//
// El total facturado es el bruto con IVA; las retenciones se muestran
// aparte y el neto a pagar es derivado, nunca persistido.
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
	marotoentity "github.com/johnfercher/maroto/v2/pkg/core/entity"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/ferrevalle/facturacion-api/internal/application/billing"
	"github.com/ferrevalle/facturacion-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// copPrinter agrupa miles al estilo es-CO ("1.190.000").
var copPrinter = message.NewPrinter(language.MustParse("es-CO"))

// formatCOP presenta centavos como pesos con separador de miles.
// Ej: 119000000 → "$1.190.000"
func formatCOP(minor int64) string {
	return copPrinter.Sprintf("$%v", number.Decimal(minor/100))
}

// ── Generator ─────────────────────────────────────────────────────────────────

var (
	_ billing.InvoicePDFGenerator = (*MarotoPDFGenerator)(nil)
	_ billing.ReceiptPDFGenerator = (*MarotoPDFGenerator)(nil)
)

// MarotoPDFGenerator implementa billing.InvoicePDFGenerator y
// billing.ReceiptPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	companyName string
}

// NewMarotoPDFGenerator construye el generador. companyName encabeza todos
// los documentos emitidos.
func NewMarotoPDFGenerator(companyName string) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{companyName: companyName}
}

// GenerateInvoicePDF genera el PDF de la factura y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateInvoicePDF(
	_ context.Context,
	invoice *entity.Invoice,
	client *entity.Client,
) ([]byte, error) {
	m := maroto.New(g.pageConfig("Factura de Venta"))

	m.AddRows(invoiceHeaderRow(invoice, g.companyName))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(clientRow(client))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	for _, r := range figuresRows(invoice.Figures) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar factura: %w", err)
	}
	return doc.GetBytes(), nil
}

// GenerateReceiptPDF genera el recibo de un abono con su distribución.
func (g *MarotoPDFGenerator) GenerateReceiptPDF(
	_ context.Context,
	payment *entity.Payment,
	client *entity.Client,
) ([]byte, error) {
	m := maroto.New(g.pageConfig("Recibo de Abono"))

	m.AddRows(receiptHeaderRow(payment, g.companyName))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(clientRow(client))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(distributionHeaderRow())
	for _, r := range distributionRows(payment.Distribution) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(receiptTotalsRow(payment))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar recibo: %w", err)
	}
	return doc.GetBytes(), nil
}

func (g *MarotoPDFGenerator) pageConfig(title string) *marotoentity.Config {
	return config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		WithAuthor(g.companyName, true).
		Build()
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// invoiceHeaderRow: razón social (izq) y prefijo+número + fecha (der).
func invoiceHeaderRow(invoice *entity.Invoice, companyName string) core.Row {
	numFac := invoice.Prefix + invoice.Number
	fecha := invoice.Date.Format("02/01/2006")

	return row.New(18).Add(
		col.New(7).Add(
			text.New(companyName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Distribución de materiales de construcción", props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("FACTURA DE VENTA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(numFac, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// receiptHeaderRow: razón social (izq) y fecha + método del abono (der).
func receiptHeaderRow(payment *entity.Payment, companyName string) core.Row {
	fecha := payment.ReceivedAt.Format("02/01/2006 15:04")

	return row.New(18).Add(
		col.New(7).Add(
			text.New(companyName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Recibo de caja", props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("RECIBO DE ABONO", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(payment.Method, props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// clientRow: datos del cliente.
func clientRow(client *entity.Client) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(client.Name, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("NIT/CC: %s   |   Email: %s   |   Tel: %s",
				client.TaxID,
				nonEmpty(client.Email, "—"),
				nonEmpty(client.Phone, "—"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// figuresRows: cifras fiscales y retenciones, con el neto a pagar derivado.
func figuresRows(f entity.InvoiceFigures) []core.Row {
	rows := []core.Row{
		figureRow("Subtotal sin IVA:", formatCOP(f.SubtotalExVatMinor), false),
		figureRow("IVA:", formatCOP(f.IvaMinor), false),
		figureRow("TOTAL FACTURADO:", formatCOP(f.TotalMinor), true),
	}
	if f.RetefuenteApplied || f.IcaApplied {
		rows = append(rows, row.New(6).Add(col.New(12).Add(
			text.New("RETENCIONES (descuenta el comprador al pagar)", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorGray, Top: 2,
			}),
		)))
		if f.RetefuenteApplied {
			rows = append(rows, figureRow("Retefuente:", "-"+formatCOP(f.RetefuenteMinor), false))
		}
		if f.IcaApplied {
			rows = append(rows, figureRow("ICA:", "-"+formatCOP(f.IcaMinor), false))
		}
		rows = append(rows, figureRow("NETO A PAGAR:", formatCOP(f.NetPayableMinor()), true))
	}
	return rows
}

// figureRow: etiqueta + valor alineados a la derecha.
func figureRow(label, value string, grand bool) core.Row {
	size := 9.0
	style := fontstyle.Normal
	color := (*props.Color)(nil)
	if grand {
		size = 10
		style = fontstyle.Bold
		color = colorPrimary
	}
	return row.New(7).Add(
		col.New(6),
		col.New(3).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: size, Align: align.Right, Right: 2, Color: color,
		})),
		col.New(3).Add(text.New(value, props.Text{
			Style: style, Size: size, Align: align.Right, Right: 1, Color: color,
		})),
	)
}

// distributionHeaderRow: cabecera de la tabla de distribución del abono.
func distributionHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Crédito", 6, align.Left),
		h("Aplicado", 3, align.Right),
		h("Saldo resultante", 3, align.Right),
	)
}

// distributionRows: una fila por crédito afectado, en orden de aplicación.
func distributionRows(entries []entity.PaymentEntry) []core.Row {
	result := make([]core.Row, 0, len(entries))
	for _, e := range entries {
		result = append(result, row.New(7).Add(
			col.New(6).Add(text.New(
				e.CreditID,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(3).Add(text.New(
				formatCOP(e.AppliedMinor),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(3).Add(text.New(
				formatCOP(e.ResultingBalanceMinor),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// receiptTotalsRow: total recibido y sobrante (si se aceptó sobrepago).
func receiptTotalsRow(payment *entity.Payment) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}

	labels := []core.Component{label("Total recibido:")}
	values := []core.Component{value(formatCOP(payment.AmountMinor))}
	if payment.ResidualMinor > 0 {
		labels = append(labels, label("Sobrante (a favor del cliente):"))
		values = append(values, value(formatCOP(payment.ResidualMinor)))
	}

	return row.New(16).Add(
		col.New(3),
		col.New(5).Add(labels...),
		col.New(4).Add(values...),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
