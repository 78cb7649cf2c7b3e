package credit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ferrevalle/facturacion-api/internal/application/dto"
	"github.com/ferrevalle/facturacion-api/internal/domain"
	"github.com/ferrevalle/facturacion-api/internal/domain/entity"
	"github.com/ferrevalle/facturacion-api/internal/domain/repository"
)

// AllocatorUseCase distribuye un abono en efectivo sobre los créditos
// abiertos del cliente, deuda más vieja primero (FIFO por opened_at,
// desempate por id). Toda la distribución y las mutaciones de saldo ocurren
// en una sola transacción serializada por cliente.
type AllocatorUseCase struct {
	txRunner LedgerTxRunner
}

// NewAllocatorUseCase construye el caso de uso.
func NewAllocatorUseCase(txRunner LedgerTxRunner) *AllocatorUseCase {
	return &AllocatorUseCase{txRunner: txRunner}
}

// Apply registra el abono y lo distribuye. Garantía de conservación:
// sum(distribution.applied_minor) + residual == amount_minor, siempre.
//
// Si el monto excede los saldos abiertos, el excedente no se pierde en
// silencio: con AcceptOverpayment=false la operación completa aborta con
// ErrOverpayment (sin mutaciones); con true se aplica lo aplicable, se
// persiste el abono con su residual y el caller decide qué hacer con él.
func (uc *AllocatorUseCase) Apply(ctx context.Context, in dto.ApplyPaymentRequest) (*dto.PaymentResponse, error) {
	if in.ClientID == "" || in.AmountMinor <= 0 {
		return nil, domain.ErrInvalidInput
	}
	method := in.Method
	if method == "" {
		method = entity.PaymentMethodCash
	}
	receivedAt := time.Now()
	if in.ReceivedAt != "" {
		parsed, err := time.Parse(time.RFC3339, in.ReceivedAt)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		receivedAt = parsed
	}

	var payment *entity.Payment
	err := uc.txRunner.RunLedger(ctx, in.ClientID, func(
		creditRepo repository.CreditRepository,
		paymentRepo repository.PaymentRepository,
	) error {
		credits, err := creditRepo.ListOpenByClient(in.ClientID)
		if err != nil {
			return err
		}

		remaining := in.AmountMinor
		entries := make([]entity.PaymentEntry, 0, len(credits))
		paymentID := uuid.New().String()

		for _, c := range credits {
			if remaining == 0 {
				break
			}
			take := remaining
			if balance := c.BalanceMinor(); take > balance {
				take = balance
			}
			if take == 0 {
				continue
			}
			if err := c.Apply(take); err != nil {
				// ErrOverApplication aquí es violación de invariante interna:
				// se aborta la operación completa y la transacción revierte.
				return err
			}
			c.UpdatedAt = time.Now()
			if err := creditRepo.Update(c); err != nil {
				return err
			}
			entries = append(entries, entity.PaymentEntry{
				ID:                    uuid.New().String(),
				PaymentID:             paymentID,
				CreditID:              c.ID,
				AppliedMinor:          take,
				ResultingBalanceMinor: c.BalanceMinor(),
			})
			remaining -= take
		}

		if remaining > 0 && !in.AcceptOverpayment {
			return domain.ErrOverpayment
		}

		payment = &entity.Payment{
			ID:            paymentID,
			ClientID:      in.ClientID,
			AmountMinor:   in.AmountMinor,
			ResidualMinor: remaining,
			Method:        method,
			ReceivedAt:    receivedAt,
			Distribution:  entries,
			CreatedAt:     time.Now(),
		}
		return paymentRepo.Create(payment)
	})
	if err != nil {
		return nil, err
	}

	resp := ToPaymentResponse(payment)
	return &resp, nil
}

// ToPaymentResponse mapea la entidad al DTO de respuesta.
func ToPaymentResponse(p *entity.Payment) dto.PaymentResponse {
	resp := dto.PaymentResponse{
		ID:            p.ID,
		ClientID:      p.ClientID,
		AmountMinor:   p.AmountMinor,
		ResidualMinor: p.ResidualMinor,
		Method:        p.Method,
		ReceivedAt:    p.ReceivedAt.Format(time.RFC3339),
		Distribution:  make([]dto.PaymentEntryResponse, 0, len(p.Distribution)),
	}
	for _, e := range p.Distribution {
		resp.Distribution = append(resp.Distribution, dto.PaymentEntryResponse{
			CreditID:              e.CreditID,
			AppliedMinor:          e.AppliedMinor,
			ResultingBalanceMinor: e.ResultingBalanceMinor,
		})
	}
	return resp
}
