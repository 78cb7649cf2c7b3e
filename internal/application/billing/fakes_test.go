package billing_test

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	appbilling "github.com/ferrevalle/facturacion-api/internal/application/billing"
	"github.com/ferrevalle/facturacion-api/internal/domain"
	"github.com/ferrevalle/facturacion-api/internal/domain/entity"
	"github.com/ferrevalle/facturacion-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria para los tests de emisión. El runner simula el rollback
// transaccional restaurando snapshots cuando fn retorna error, de modo que
// los tests puedan verificar que factura y crédito se persisten juntos o nada.
// ──────────────────────────────────────────────────────────────────────────────

type fakeInvoiceRepo struct {
	invoices map[string]*entity.Invoice
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{invoices: make(map[string]*entity.Invoice)}
}

func (r *fakeInvoiceRepo) Create(inv *entity.Invoice) error {
	for _, existing := range r.invoices {
		if existing.OrderID == inv.OrderID {
			return domain.ErrDuplicate
		}
		if existing.Prefix == inv.Prefix && existing.Number == inv.Number {
			return domain.ErrDuplicate
		}
	}
	clone := *inv
	r.invoices[inv.ID] = &clone
	return nil
}

func (r *fakeInvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	inv, ok := r.invoices[id]
	if !ok {
		return nil, nil
	}
	clone := *inv
	return &clone, nil
}

func (r *fakeInvoiceRepo) ListByClient(clientID string, limit, offset int) ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	for _, inv := range r.invoices {
		if inv.ClientID == clientID {
			clone := *inv
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (r *fakeInvoiceRepo) NextNumber(prefix string) (int64, error) {
	var max int64
	for _, inv := range r.invoices {
		if inv.Prefix != prefix {
			continue
		}
		if n, err := strconv.ParseInt(inv.Number, 10, 64); err == nil && n > max {
			max = n
		}
	}
	return max + 1, nil
}

func (r *fakeInvoiceRepo) UpdateStatus(inv *entity.Invoice) error {
	if _, ok := r.invoices[inv.ID]; !ok {
		return domain.ErrNotFound
	}
	clone := *inv
	r.invoices[inv.ID] = &clone
	return nil
}

func (r *fakeInvoiceRepo) snapshot() map[string]*entity.Invoice {
	snap := make(map[string]*entity.Invoice, len(r.invoices))
	for id, inv := range r.invoices {
		clone := *inv
		snap[id] = &clone
	}
	return snap
}

type fakeCreditRepo struct {
	credits map[string]*entity.Credit
	failOn  string // orderID que fuerza error en Create (para probar rollback)
}

func newFakeCreditRepo() *fakeCreditRepo {
	return &fakeCreditRepo{credits: make(map[string]*entity.Credit)}
}

func (r *fakeCreditRepo) Create(c *entity.Credit) error {
	if r.failOn != "" && c.OrderID == r.failOn {
		return domain.ErrInvalidState
	}
	for _, existing := range r.credits {
		if existing.OrderID == c.OrderID {
			return domain.ErrCreditExists
		}
	}
	clone := *c
	r.credits[c.ID] = &clone
	return nil
}

func (r *fakeCreditRepo) GetByID(id string) (*entity.Credit, error) {
	c, ok := r.credits[id]
	if !ok {
		return nil, nil
	}
	clone := *c
	return &clone, nil
}

func (r *fakeCreditRepo) GetByOrderID(orderID string) (*entity.Credit, error) {
	for _, c := range r.credits {
		if c.OrderID == orderID {
			clone := *c
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeCreditRepo) ListOpenByClient(clientID string) ([]*entity.Credit, error) {
	var out []*entity.Credit
	for _, c := range r.credits {
		if c.ClientID == clientID && c.Status == entity.CreditStatusOpen {
			clone := *c
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakeCreditRepo) Update(c *entity.Credit) error {
	if _, ok := r.credits[c.ID]; !ok {
		return domain.ErrNotFound
	}
	clone := *c
	r.credits[c.ID] = &clone
	return nil
}

func (r *fakeCreditRepo) snapshot() map[string]*entity.Credit {
	snap := make(map[string]*entity.Credit, len(r.credits))
	for id, c := range r.credits {
		clone := *c
		snap[id] = &clone
	}
	return snap
}

type fakeBillingTxRunner struct {
	invoiceRepo *fakeInvoiceRepo
	creditRepo  *fakeCreditRepo
	lockedWith  []string // prefijos con los que se pidió serialización
}

var _ appbilling.BillingTxRunner = (*fakeBillingTxRunner)(nil)

func (r *fakeBillingTxRunner) RunBilling(ctx context.Context, prefix string, fn func(
	invoiceRepo repository.InvoiceRepository,
	creditRepo repository.CreditRepository,
) error) error {
	r.lockedWith = append(r.lockedWith, prefix)
	invSnap := r.invoiceRepo.snapshot()
	credSnap := r.creditRepo.snapshot()
	if err := fn(r.invoiceRepo, r.creditRepo); err != nil {
		r.invoiceRepo.invoices = invSnap
		r.creditRepo.credits = credSnap
		return err
	}
	return nil
}

type fakeClientRepo struct {
	clients map[string]*entity.Client
	failGet error // error de infraestructura simulado en GetByID
}

func newFakeClientRepo(ids ...string) *fakeClientRepo {
	r := &fakeClientRepo{clients: make(map[string]*entity.Client)}
	for _, id := range ids {
		r.clients[id] = &entity.Client{ID: id, Name: "Cliente " + id, TaxID: "900" + id}
	}
	return r
}

func (r *fakeClientRepo) Create(c *entity.Client) error { r.clients[c.ID] = c; return nil }
func (r *fakeClientRepo) GetByID(id string) (*entity.Client, error) {
	if r.failGet != nil {
		return nil, r.failGet
	}
	c, ok := r.clients[id]
	if !ok {
		return nil, nil
	}
	return c, nil
}
func (r *fakeClientRepo) GetByTaxID(taxID string) (*entity.Client, error) {
	for _, c := range r.clients {
		if c.TaxID == taxID {
			return c, nil
		}
	}
	return nil, nil
}
func (r *fakeClientRepo) List(limit, offset int) ([]*entity.Client, error) {
	var out []*entity.Client
	for _, c := range r.clients {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
func (r *fakeClientRepo) Update(c *entity.Client) error { r.clients[c.ID] = c; return nil }
func (r *fakeClientRepo) Delete(id string) error        { delete(r.clients, id); return nil }

type fakeFiscalRepo struct {
	cfg *entity.FiscalConfig
}

// newFakeFiscalRepo configuración estándar: IVA 19%, retefuente 2.5% con
// umbral de 1.000.000 COP sobre la base sin IVA, ICA 0.414%.
func newFakeFiscalRepo() *fakeFiscalRepo {
	return &fakeFiscalRepo{cfg: &entity.FiscalConfig{
		ID:                       "fiscal-1",
		IvaRatePercent:           decimal.NewFromInt(19),
		RetefuenteRatePercent:    decimal.RequireFromString("2.5"),
		RetefuenteThresholdMinor: 100_000_000,
		IcaRatePercent:           decimal.RequireFromString("0.414"),
		UpdatedAt:                time.Now(),
	}}
}

func (r *fakeFiscalRepo) Get() (*entity.FiscalConfig, error) {
	if r.cfg == nil {
		return nil, nil
	}
	clone := *r.cfg
	return &clone, nil
}

func (r *fakeFiscalRepo) Update(cfg *entity.FiscalConfig) error {
	if r.cfg == nil {
		return domain.ErrNotFound
	}
	clone := *cfg
	r.cfg = &clone
	return nil
}
