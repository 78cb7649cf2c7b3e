package credit_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appcredit "github.com/ferrevalle/facturacion-api/internal/application/credit"
	"github.com/ferrevalle/facturacion-api/internal/application/dto"
	"github.com/ferrevalle/facturacion-api/internal/domain"
	"github.com/ferrevalle/facturacion-api/internal/domain/entity"
)

const testClientID = "cli-1"

// seedCredits crea dos créditos abiertos: 300.000 (más viejo) y 500.000.
func seedCredits(t *testing.T, repo *fakeCreditRepo) (c1, c2 *entity.Credit) {
	t.Helper()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	c1 = &entity.Credit{
		ID: "cr-1", ClientID: testClientID, OrderID: "ord-1",
		TotalCreditMinor: 300_000, Status: entity.CreditStatusOpen,
		OpenedAt: base,
	}
	c2 = &entity.Credit{
		ID: "cr-2", ClientID: testClientID, OrderID: "ord-2",
		TotalCreditMinor: 500_000, Status: entity.CreditStatusOpen,
		OpenedAt: base.Add(24 * time.Hour),
	}
	require.NoError(t, repo.Create(c1))
	require.NoError(t, repo.Create(c2))
	return c1, c2
}

func newAllocator(creditRepo *fakeCreditRepo, paymentRepo *fakePaymentRepo) (*appcredit.AllocatorUseCase, *fakeLedgerTxRunner) {
	runner := &fakeLedgerTxRunner{creditRepo: creditRepo, paymentRepo: paymentRepo}
	return appcredit.NewAllocatorUseCase(runner), runner
}

// Abono de 400.000 sobre créditos de 300.000 y 500.000: agota el más viejo,
// aplica el resto al segundo. Distribución exacta y crédito 1 cerrado.
func TestAllocatorApply_DistribucionFIFO(t *testing.T) {
	creditRepo := newFakeCreditRepo()
	paymentRepo := newFakePaymentRepo()
	seedCredits(t, creditRepo)
	uc, runner := newAllocator(creditRepo, paymentRepo)

	resp, err := uc.Apply(context.Background(), dto.ApplyPaymentRequest{
		ClientID:    testClientID,
		AmountMinor: 400_000,
		Method:      entity.PaymentMethodCash,
	})
	require.NoError(t, err)

	require.Len(t, resp.Distribution, 2)
	assert.Equal(t, "cr-1", resp.Distribution[0].CreditID)
	assert.Equal(t, int64(300_000), resp.Distribution[0].AppliedMinor)
	assert.Equal(t, int64(0), resp.Distribution[0].ResultingBalanceMinor)
	assert.Equal(t, "cr-2", resp.Distribution[1].CreditID)
	assert.Equal(t, int64(100_000), resp.Distribution[1].AppliedMinor)
	assert.Equal(t, int64(400_000), resp.Distribution[1].ResultingBalanceMinor)
	assert.Equal(t, int64(0), resp.ResidualMinor)

	// Crédito 1 cerrado, crédito 2 sigue abierto
	c1, _ := creditRepo.GetByID("cr-1")
	assert.Equal(t, entity.CreditStatusClosed, c1.Status)
	c2, _ := creditRepo.GetByID("cr-2")
	assert.Equal(t, entity.CreditStatusOpen, c2.Status)
	assert.Equal(t, int64(400_000), c2.BalanceMinor())

	// La transacción se serializó con el cliente correcto
	assert.Equal(t, []string{testClientID}, runner.lockedWith)
}

// Un abono menor al saldo del crédito más viejo nunca toca el segundo.
func TestAllocatorApply_FIFONoSaltaDeuda(t *testing.T) {
	creditRepo := newFakeCreditRepo()
	paymentRepo := newFakePaymentRepo()
	seedCredits(t, creditRepo)
	uc, _ := newAllocator(creditRepo, paymentRepo)

	resp, err := uc.Apply(context.Background(), dto.ApplyPaymentRequest{
		ClientID:    testClientID,
		AmountMinor: 250_000,
	})
	require.NoError(t, err)

	require.Len(t, resp.Distribution, 1)
	assert.Equal(t, "cr-1", resp.Distribution[0].CreditID)
	c2, _ := creditRepo.GetByID("cr-2")
	assert.Equal(t, int64(0), c2.TotalPaidMinor, "el crédito más nuevo no debe tocarse")
}

// Sobrepago rechazado: 900.000 contra 800.000 de saldos abiertos sin
// AcceptOverpayment aborta completo, sin mutación alguna.
func TestAllocatorApply_SobrepagoRechazado(t *testing.T) {
	creditRepo := newFakeCreditRepo()
	paymentRepo := newFakePaymentRepo()
	seedCredits(t, creditRepo)
	uc, _ := newAllocator(creditRepo, paymentRepo)

	_, err := uc.Apply(context.Background(), dto.ApplyPaymentRequest{
		ClientID:    testClientID,
		AmountMinor: 900_000,
	})
	assert.ErrorIs(t, err, domain.ErrOverpayment)

	// Rollback: los créditos quedan intactos y no hay abono persistido
	c1, _ := creditRepo.GetByID("cr-1")
	c2, _ := creditRepo.GetByID("cr-2")
	assert.Equal(t, int64(0), c1.TotalPaidMinor)
	assert.Equal(t, int64(0), c2.TotalPaidMinor)
	assert.Empty(t, paymentRepo.payments)
}

// Sobrepago aceptado: agota ambos créditos y reporta el residual de 100.000.
func TestAllocatorApply_SobrepagoAceptado(t *testing.T) {
	creditRepo := newFakeCreditRepo()
	paymentRepo := newFakePaymentRepo()
	seedCredits(t, creditRepo)
	uc, _ := newAllocator(creditRepo, paymentRepo)

	resp, err := uc.Apply(context.Background(), dto.ApplyPaymentRequest{
		ClientID:          testClientID,
		AmountMinor:       900_000,
		AcceptOverpayment: true,
	})
	require.NoError(t, err)

	require.Len(t, resp.Distribution, 2)
	assert.Equal(t, int64(300_000), resp.Distribution[0].AppliedMinor)
	assert.Equal(t, int64(500_000), resp.Distribution[1].AppliedMinor)
	assert.Equal(t, int64(100_000), resp.ResidualMinor)

	c1, _ := creditRepo.GetByID("cr-1")
	c2, _ := creditRepo.GetByID("cr-2")
	assert.Equal(t, entity.CreditStatusClosed, c1.Status)
	assert.Equal(t, entity.CreditStatusClosed, c2.Status)
}

// Conservación: para cualquier monto, lo aplicado más el residual siempre
// iguala el monto recibido.
func TestAllocatorApply_Conservacion(t *testing.T) {
	amounts := []int64{1, 299_999, 300_000, 300_001, 799_999, 800_000, 1_500_000}
	for _, amount := range amounts {
		creditRepo := newFakeCreditRepo()
		paymentRepo := newFakePaymentRepo()
		seedCredits(t, creditRepo)
		uc, _ := newAllocator(creditRepo, paymentRepo)

		resp, err := uc.Apply(context.Background(), dto.ApplyPaymentRequest{
			ClientID:          testClientID,
			AmountMinor:       amount,
			AcceptOverpayment: true,
		})
		require.NoError(t, err, "amount=%d", amount)

		var applied int64
		for _, e := range resp.Distribution {
			applied += e.AppliedMinor
		}
		assert.Equal(t, amount, applied+resp.ResidualMinor,
			"amount=%d: aplicado + residual debe igualar el monto", amount)
	}
}

// Cliente sin créditos abiertos: todo el monto es residual.
func TestAllocatorApply_SinCreditosAbiertos(t *testing.T) {
	creditRepo := newFakeCreditRepo()
	paymentRepo := newFakePaymentRepo()
	uc, _ := newAllocator(creditRepo, paymentRepo)

	_, err := uc.Apply(context.Background(), dto.ApplyPaymentRequest{
		ClientID:    testClientID,
		AmountMinor: 50_000,
	})
	assert.ErrorIs(t, err, domain.ErrOverpayment)

	resp, err := uc.Apply(context.Background(), dto.ApplyPaymentRequest{
		ClientID:          testClientID,
		AmountMinor:       50_000,
		AcceptOverpayment: true,
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Distribution)
	assert.Equal(t, int64(50_000), resp.ResidualMinor)
}

func TestAllocatorApply_EntradasInvalidas(t *testing.T) {
	uc, _ := newAllocator(newFakeCreditRepo(), newFakePaymentRepo())

	_, err := uc.Apply(context.Background(), dto.ApplyPaymentRequest{ClientID: "", AmountMinor: 100})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Apply(context.Background(), dto.ApplyPaymentRequest{ClientID: testClientID, AmountMinor: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Apply(context.Background(), dto.ApplyPaymentRequest{
		ClientID: testClientID, AmountMinor: 100, ReceivedAt: "no-es-fecha",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// El abono persistido conserva la distribución completa para el historial.
func TestAllocatorApply_PersisteDistribucion(t *testing.T) {
	creditRepo := newFakeCreditRepo()
	paymentRepo := newFakePaymentRepo()
	seedCredits(t, creditRepo)
	uc, _ := newAllocator(creditRepo, paymentRepo)

	resp, err := uc.Apply(context.Background(), dto.ApplyPaymentRequest{
		ClientID:    testClientID,
		AmountMinor: 400_000,
	})
	require.NoError(t, err)

	stored, err := paymentRepo.GetByID(resp.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, int64(400_000), stored.AmountMinor)
	assert.Len(t, stored.Distribution, 2)
}
