package refund_test

import (
	"context"
	"sort"

	apprefund "github.com/ferrevalle/facturacion-api/internal/application/refund"
	"github.com/ferrevalle/facturacion-api/internal/domain"
	"github.com/ferrevalle/facturacion-api/internal/domain/entity"
	"github.com/ferrevalle/facturacion-api/internal/domain/repository"
)

// Fakes en memoria. El runner simula el rollback restaurando snapshots cuando
// fn retorna error, para poder verificar la atomicidad de Process.

type fakeRefundRepo struct {
	refunds map[string]*entity.Refund
}

func newFakeRefundRepo() *fakeRefundRepo {
	return &fakeRefundRepo{refunds: make(map[string]*entity.Refund)}
}

func cloneRefund(r *entity.Refund) *entity.Refund {
	clone := *r
	clone.Lines = append([]entity.RefundLine(nil), r.Lines...)
	if r.ProcessedAt != nil {
		at := *r.ProcessedAt
		clone.ProcessedAt = &at
	}
	return &clone
}

func (f *fakeRefundRepo) Create(r *entity.Refund) error {
	f.refunds[r.ID] = cloneRefund(r)
	return nil
}

func (f *fakeRefundRepo) GetByID(id string) (*entity.Refund, error) {
	r, ok := f.refunds[id]
	if !ok {
		return nil, nil
	}
	return cloneRefund(r), nil
}

func (f *fakeRefundRepo) UpdateStatus(r *entity.Refund) error {
	if _, ok := f.refunds[r.ID]; !ok {
		return domain.ErrNotFound
	}
	f.refunds[r.ID] = cloneRefund(r)
	return nil
}

func (f *fakeRefundRepo) Delete(id string) error {
	delete(f.refunds, id)
	return nil
}

func (f *fakeRefundRepo) List(limit, offset int) ([]*entity.Refund, error) {
	var out []*entity.Refund
	for _, r := range f.refunds {
		out = append(out, cloneRefund(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type fakeCreditRepo struct {
	credits map[string]*entity.Credit
}

func newFakeCreditRepo() *fakeCreditRepo {
	return &fakeCreditRepo{credits: make(map[string]*entity.Credit)}
}

func (f *fakeCreditRepo) Create(c *entity.Credit) error {
	clone := *c
	f.credits[c.ID] = &clone
	return nil
}

func (f *fakeCreditRepo) GetByID(id string) (*entity.Credit, error) {
	c, ok := f.credits[id]
	if !ok {
		return nil, nil
	}
	clone := *c
	return &clone, nil
}

func (f *fakeCreditRepo) GetByOrderID(orderID string) (*entity.Credit, error) {
	for _, c := range f.credits {
		if c.OrderID == orderID {
			clone := *c
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeCreditRepo) ListOpenByClient(clientID string) ([]*entity.Credit, error) {
	return nil, nil
}

func (f *fakeCreditRepo) Update(c *entity.Credit) error {
	if _, ok := f.credits[c.ID]; !ok {
		return domain.ErrNotFound
	}
	clone := *c
	f.credits[c.ID] = &clone
	return nil
}

type stockKey struct{ productID, sedeID string }

type fakeStockRepo struct {
	stock       map[stockKey]int64
	failOn      string // productID que fuerza error (para probar rollback)
}

func newFakeStockRepo() *fakeStockRepo {
	return &fakeStockRepo{stock: make(map[stockKey]int64)}
}

func (f *fakeStockRepo) IncreaseStock(productID, sedeID string, quantity int64) error {
	if productID == f.failOn {
		return domain.ErrNotFound
	}
	f.stock[stockKey{productID, sedeID}] += quantity
	return nil
}

func (f *fakeStockRepo) DecreaseStock(productID, sedeID string, quantity int64) error {
	if productID == f.failOn {
		return domain.ErrNotFound
	}
	key := stockKey{productID, sedeID}
	if f.stock[key] < quantity {
		return domain.ErrInsufficientStock
	}
	f.stock[key] -= quantity
	return nil
}

type fakeRefundTxRunner struct {
	refundRepo *fakeRefundRepo
	creditRepo *fakeCreditRepo
	stockRepo  *fakeStockRepo
	lockedWith []string
	beforeTx   func() // simula actividad concurrente entre la lectura inicial y la tx
}

var _ apprefund.RefundTxRunner = (*fakeRefundTxRunner)(nil)

func (f *fakeRefundTxRunner) RunRefund(ctx context.Context, clientID string, fn func(
	refundRepo repository.RefundRepository,
	creditRepo repository.CreditRepository,
	stockRepo repository.StockRepository,
) error) error {
	f.lockedWith = append(f.lockedWith, clientID)
	if f.beforeTx != nil {
		f.beforeTx()
	}

	refundSnap := make(map[string]*entity.Refund, len(f.refundRepo.refunds))
	for id, r := range f.refundRepo.refunds {
		refundSnap[id] = cloneRefund(r)
	}
	creditSnap := make(map[string]*entity.Credit, len(f.creditRepo.credits))
	for id, c := range f.creditRepo.credits {
		clone := *c
		creditSnap[id] = &clone
	}
	stockSnap := make(map[stockKey]int64, len(f.stockRepo.stock))
	for k, v := range f.stockRepo.stock {
		stockSnap[k] = v
	}

	if err := fn(f.refundRepo, f.creditRepo, f.stockRepo); err != nil {
		f.refundRepo.refunds = refundSnap
		f.creditRepo.credits = creditSnap
		f.stockRepo.stock = stockSnap
		return err
	}
	return nil
}
