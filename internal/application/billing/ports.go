package billing

import (
	"context"

	"github.com/ferrevalle/facturacion-api/internal/domain/entity"
	"github.com/ferrevalle/facturacion-api/internal/domain/repository"
)

// BillingTxRunner ejecuta una función dentro de una transacción con los repos
// de facturación y cartera: la emisión de una factura a crédito persiste la
// factura y abre el crédito atómicamente. La transacción se serializa por
// prefijo de numeración: dos emisiones concurrentes sobre el mismo prefijo
// nunca calculan el mismo consecutivo.
type BillingTxRunner interface {
	RunBilling(ctx context.Context, prefix string, fn func(
		invoiceRepo repository.InvoiceRepository,
		creditRepo repository.CreditRepository,
	) error) error
}

// InvoicePDFGenerator genera la representación gráfica de una factura.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, invoice *entity.Invoice, client *entity.Client) ([]byte, error)
}

// ReceiptPDFGenerator genera el recibo de un abono con su distribución.
type ReceiptPDFGenerator interface {
	GenerateReceiptPDF(ctx context.Context, payment *entity.Payment, client *entity.Client) ([]byte, error)
}

// InvoiceXMLBuilder construye la representación XML de una factura para
// intercambio (sin firma).
type InvoiceXMLBuilder interface {
	Build(invoice *entity.Invoice, client *entity.Client) ([]byte, error)
}
