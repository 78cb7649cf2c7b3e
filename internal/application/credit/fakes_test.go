package credit_test

import (
	"context"
	"sort"
	"time"

	appcredit "github.com/ferrevalle/facturacion-api/internal/application/credit"
	"github.com/ferrevalle/facturacion-api/internal/domain"
	"github.com/ferrevalle/facturacion-api/internal/domain/entity"
	"github.com/ferrevalle/facturacion-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria para los tests de cartera. El runner simula el rollback
// transaccional restaurando un snapshot cuando fn retorna error, de modo que
// los tests puedan verificar el contrato todo-o-nada.
// ──────────────────────────────────────────────────────────────────────────────

type fakeCreditRepo struct {
	credits map[string]*entity.Credit
}

func newFakeCreditRepo() *fakeCreditRepo {
	return &fakeCreditRepo{credits: make(map[string]*entity.Credit)}
}

func (r *fakeCreditRepo) Create(c *entity.Credit) error {
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
	sort.Slice(out, func(i, j int) bool {
		if !out[i].OpenedAt.Equal(out[j].OpenedAt) {
			return out[i].OpenedAt.Before(out[j].OpenedAt)
		}
		return out[i].ID < out[j].ID
	})
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

type fakePaymentRepo struct {
	payments map[string]*entity.Payment
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: make(map[string]*entity.Payment)}
}

func (r *fakePaymentRepo) Create(p *entity.Payment) error {
	clone := *p
	clone.Distribution = append([]entity.PaymentEntry(nil), p.Distribution...)
	r.payments[p.ID] = &clone
	return nil
}

func (r *fakePaymentRepo) GetByID(id string) (*entity.Payment, error) {
	p, ok := r.payments[id]
	if !ok {
		return nil, nil
	}
	clone := *p
	return &clone, nil
}

func (r *fakePaymentRepo) ListByClient(clientID string, from, to time.Time) ([]*entity.Payment, error) {
	var out []*entity.Payment
	for _, p := range r.payments {
		if p.ClientID != clientID {
			continue
		}
		if !from.IsZero() && p.ReceivedAt.Before(from) {
			continue
		}
		if !to.IsZero() && p.ReceivedAt.After(to) {
			continue
		}
		clone := *p
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReceivedAt.After(out[j].ReceivedAt) })
	return out, nil
}

type fakeLedgerTxRunner struct {
	creditRepo  *fakeCreditRepo
	paymentRepo *fakePaymentRepo
	lockedWith  []string // clientIDs con los que se pidió serialización
}

var _ appcredit.LedgerTxRunner = (*fakeLedgerTxRunner)(nil)

func (r *fakeLedgerTxRunner) RunLedger(ctx context.Context, clientID string, fn func(
	creditRepo repository.CreditRepository,
	paymentRepo repository.PaymentRepository,
) error) error {
	r.lockedWith = append(r.lockedWith, clientID)
	snap := r.creditRepo.snapshot()
	paySnap := make(map[string]*entity.Payment, len(r.paymentRepo.payments))
	for id, p := range r.paymentRepo.payments {
		clone := *p
		paySnap[id] = &clone
	}
	if err := fn(r.creditRepo, r.paymentRepo); err != nil {
		r.creditRepo.credits = snap
		r.paymentRepo.payments = paySnap
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
func (r *fakeClientRepo) List(limit, offset int) ([]*entity.Client, error) { return nil, nil }
func (r *fakeClientRepo) Update(c *entity.Client) error                    { return nil }
func (r *fakeClientRepo) Delete(id string) error                           { return nil }
