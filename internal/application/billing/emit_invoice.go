package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ferrevalle/facturacion-api/internal/application/credit"
	"github.com/ferrevalle/facturacion-api/internal/application/dto"
	"github.com/ferrevalle/facturacion-api/internal/domain"
	"github.com/ferrevalle/facturacion-api/internal/domain/entity"
	"github.com/ferrevalle/facturacion-api/internal/domain/repository"
	"github.com/ferrevalle/facturacion-api/internal/domain/tax"
)

// EmitInvoiceUseCase convierte una orden confirmada en factura: calcula las
// cifras fiscales con la configuración vigente y, si la venta fue a crédito,
// abre el crédito en la misma transacción.
type EmitInvoiceUseCase struct {
	txRunner    BillingTxRunner
	fiscalRepo  repository.FiscalConfigRepository
	clientRepo  repository.ClientRepository
	invoiceRepo repository.InvoiceRepository
}

// NewEmitInvoiceUseCase construye el caso de uso.
func NewEmitInvoiceUseCase(
	txRunner BillingTxRunner,
	fiscalRepo repository.FiscalConfigRepository,
	clientRepo repository.ClientRepository,
	invoiceRepo repository.InvoiceRepository,
) *EmitInvoiceUseCase {
	return &EmitInvoiceUseCase{
		txRunner:    txRunner,
		fiscalRepo:  fiscalRepo,
		clientRepo:  clientRepo,
		invoiceRepo: invoiceRepo,
	}
}

// Emit emite la factura de una orden. La configuración fiscal se lee una sola
// vez antes del cálculo (snapshot): un cambio de tarifas concurrente nunca
// parte los impuestos de la factura entre dos regímenes.
func (uc *EmitInvoiceUseCase) Emit(ctx context.Context, in dto.EmitInvoiceRequest) (*dto.InvoiceResponse, error) {
	if in.OrderID == "" || in.ClientID == "" || in.Prefix == "" {
		return nil, domain.ErrInvalidInput
	}

	client, err := uc.clientRepo.GetByID(in.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}

	cfg, err := uc.fiscalRepo.Get()
	if err != nil {
		return nil, fmt.Errorf("cargar configuración fiscal: %w", err)
	}
	if cfg == nil {
		return nil, domain.ErrFiscalConfigNotFound
	}

	figures, err := tax.ComputeInvoice(tax.OrderAmount{
		GrossSubtotalMinor: in.GrossSubtotalMinor,
		DiscountsMinor:     in.DiscountsMinor,
		ApplyIca:           in.ApplyIca,
	}, *cfg)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	inv := &entity.Invoice{
		ID:         uuid.New().String(),
		ClientID:   in.ClientID,
		OrderID:    in.OrderID,
		Prefix:     in.Prefix,
		Number:     in.Number,
		Date:       now,
		Figures:    figures,
		CreditSale: in.CreditSale,
		Status:     entity.InvoiceStatusEmitted,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	var openedCredit *entity.Credit
	err = uc.txRunner.RunBilling(ctx, in.Prefix, func(
		invoiceRepo repository.InvoiceRepository,
		creditRepo repository.CreditRepository,
	) error {
		if inv.Number == "" {
			next, err := invoiceRepo.NextNumber(inv.Prefix)
			if err != nil {
				return err
			}
			inv.Number = fmt.Sprintf("%d", next)
		}
		if err := invoiceRepo.Create(inv); err != nil {
			return err
		}
		if in.CreditSale {
			openedCredit = &entity.Credit{
				ID:               uuid.New().String(),
				ClientID:         in.ClientID,
				OrderID:          in.OrderID,
				TotalCreditMinor: figures.TotalMinor,
				TotalPaidMinor:   0,
				Status:           entity.CreditStatusOpen,
				OpenedAt:         now,
				UpdatedAt:        now,
			}
			if err := creditRepo.Create(openedCredit); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := toInvoiceResponse(inv, client.Name)
	if openedCredit != nil {
		cr := credit.ToCreditResponse(openedCredit)
		resp.Credit = &cr
	}
	return resp, nil
}

// Get obtiene una factura emitida.
func (uc *EmitInvoiceUseCase) Get(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	clientName := ""
	if client, _ := uc.clientRepo.GetByID(inv.ClientID); client != nil {
		clientName = client.Name
	}
	return toInvoiceResponse(inv, clientName), nil
}

// ListByClient facturas de un cliente, paginadas.
func (uc *EmitInvoiceUseCase) ListByClient(ctx context.Context, clientID string, limit, offset int) ([]dto.InvoiceResponse, error) {
	if clientID == "" {
		return nil, domain.ErrInvalidInput
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	invoices, err := uc.invoiceRepo.ListByClient(clientID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		out = append(out, *toInvoiceResponse(inv, ""))
	}
	return out, nil
}

func toInvoiceResponse(inv *entity.Invoice, clientName string) *dto.InvoiceResponse {
	return &dto.InvoiceResponse{
		ID:         inv.ID,
		OrderID:    inv.OrderID,
		ClientID:   inv.ClientID,
		ClientName: clientName,
		Prefix:     inv.Prefix,
		Number:     inv.Number,
		Date:       inv.Date.Format("2006-01-02"),
		Status:     inv.Status,
		CreditSale: inv.CreditSale,
		Figures: dto.InvoiceFiguresDTO{
			BaseMinor:          inv.Figures.BaseMinor,
			IvaMinor:           inv.Figures.IvaMinor,
			SubtotalExVatMinor: inv.Figures.SubtotalExVatMinor,
			RetefuenteApplied:  inv.Figures.RetefuenteApplied,
			RetefuenteMinor:    inv.Figures.RetefuenteMinor,
			IcaApplied:         inv.Figures.IcaApplied,
			IcaMinor:           inv.Figures.IcaMinor,
			TotalMinor:         inv.Figures.TotalMinor,
			NetPayableMinor:    inv.Figures.NetPayableMinor(),
		},
	}
}
