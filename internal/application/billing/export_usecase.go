package billing

import (
	"context"

	"github.com/ferrevalle/facturacion-api/internal/domain"
	"github.com/ferrevalle/facturacion-api/internal/domain/entity"
	"github.com/ferrevalle/facturacion-api/internal/domain/repository"
)

// ExportUseCase representaciones de salida de facturación: PDF de factura,
// recibo de abono y XML de intercambio. Solo lectura.
type ExportUseCase struct {
	invoiceRepo repository.InvoiceRepository
	paymentRepo repository.PaymentRepository
	clientRepo  repository.ClientRepository
	invoicePDF  InvoicePDFGenerator
	receiptPDF  ReceiptPDFGenerator
	xmlBuilder  InvoiceXMLBuilder
}

// NewExportUseCase construye el caso de uso.
func NewExportUseCase(
	invoiceRepo repository.InvoiceRepository,
	paymentRepo repository.PaymentRepository,
	clientRepo repository.ClientRepository,
	invoicePDF InvoicePDFGenerator,
	receiptPDF ReceiptPDFGenerator,
	xmlBuilder InvoiceXMLBuilder,
) *ExportUseCase {
	return &ExportUseCase{
		invoiceRepo: invoiceRepo,
		paymentRepo: paymentRepo,
		clientRepo:  clientRepo,
		invoicePDF:  invoicePDF,
		receiptPDF:  receiptPDF,
		xmlBuilder:  xmlBuilder,
	}
}

// InvoicePDF genera el PDF de una factura (incluye retenciones y neto a pagar).
func (uc *ExportUseCase) InvoicePDF(ctx context.Context, invoiceID string) ([]byte, error) {
	inv, client, err := uc.loadInvoice(invoiceID)
	if err != nil {
		return nil, err
	}
	return uc.invoicePDF.GenerateInvoicePDF(ctx, inv, client)
}

// InvoiceXML genera la representación XML de la factura.
func (uc *ExportUseCase) InvoiceXML(ctx context.Context, invoiceID string) ([]byte, error) {
	inv, client, err := uc.loadInvoice(invoiceID)
	if err != nil {
		return nil, err
	}
	return uc.xmlBuilder.Build(inv, client)
}

// ReceiptPDF genera el recibo de un abono con su distribución por crédito.
func (uc *ExportUseCase) ReceiptPDF(ctx context.Context, paymentID string) ([]byte, error) {
	p, err := uc.paymentRepo.GetByID(paymentID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	client, err := uc.clientRepo.GetByID(p.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	return uc.receiptPDF.GenerateReceiptPDF(ctx, p, client)
}

func (uc *ExportUseCase) loadInvoice(invoiceID string) (*entity.Invoice, *entity.Client, error) {
	inv, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return nil, nil, err
	}
	if inv == nil {
		return nil, nil, domain.ErrNotFound
	}
	client, err := uc.clientRepo.GetByID(inv.ClientID)
	if err != nil {
		return nil, nil, err
	}
	if client == nil {
		return nil, nil, domain.ErrNotFound
	}
	return inv, client, nil
}
