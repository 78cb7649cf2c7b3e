package refund

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ferrevalle/facturacion-api/internal/application/dto"
	"github.com/ferrevalle/facturacion-api/internal/domain"
	"github.com/ferrevalle/facturacion-api/internal/domain/entity"
	"github.com/ferrevalle/facturacion-api/internal/domain/repository"
)

// ProcessorUseCase máquina de estados de reembolsos.
//
//	PENDING --Process--> PROCESSED   (terminal, con efectos, irreversible)
//	PENDING --Void-----> VOIDED      (terminal, sin efectos)
//	PENDING --Delete---> (eliminado)
//
// Cualquier transición desde PROCESSED o VOIDED falla con ErrInvalidState.
// Los efectos de Process (reverso de cartera + ajuste de inventario + cambio
// de estado) son atómicos: una falla parcial revierte todo.
type ProcessorUseCase struct {
	txRunner   RefundTxRunner
	refundRepo repository.RefundRepository
	creditRepo repository.CreditRepository
}

// NewProcessorUseCase construye el caso de uso.
func NewProcessorUseCase(txRunner RefundTxRunner, refundRepo repository.RefundRepository, creditRepo repository.CreditRepository) *ProcessorUseCase {
	return &ProcessorUseCase{txRunner: txRunner, refundRepo: refundRepo, creditRepo: creditRepo}
}

// Create registra un reembolso en PENDING, sin efectos sobre cartera ni
// inventario. El total es la suma de cantidad por valor unitario de cada línea.
func (uc *ProcessorUseCase) Create(ctx context.Context, in dto.CreateRefundRequest) (*dto.RefundResponse, error) {
	if in.Kind != entity.RefundKindSale && in.Kind != entity.RefundKindPurchase {
		return nil, domain.ErrInvalidInput
	}
	if in.Kind == entity.RefundKindSale && in.SourceOrderID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Kind == entity.RefundKindPurchase && in.SourceIngresoID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.SedeID == "" || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	r := &entity.Refund{
		ID:              uuid.New().String(),
		Kind:            in.Kind,
		SourceOrderID:   in.SourceOrderID,
		SourceIngresoID: in.SourceIngresoID,
		SedeID:          in.SedeID,
		Status:          entity.RefundStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	for _, line := range in.Lines {
		if line.ProductID == "" || line.Quantity <= 0 || line.UnitAmountMinor < 0 {
			return nil, domain.ErrInvalidInput
		}
		r.Lines = append(r.Lines, entity.RefundLine{
			ID:              uuid.New().String(),
			RefundID:        r.ID,
			SourceLineID:    line.SourceLineID,
			ProductID:       line.ProductID,
			Quantity:        line.Quantity,
			UnitAmountMinor: line.UnitAmountMinor,
		})
		r.TotalRefundMinor += line.Quantity * line.UnitAmountMinor
	}

	if err := uc.refundRepo.Create(r); err != nil {
		return nil, err
	}
	resp := toRefundResponse(r)
	return &resp, nil
}

// Process aplica los efectos del reembolso exactamente una vez:
//
//   - SALE sobre una orden vendida a crédito: reversa en cartera el total del
//     reembolso y reingresa el stock devuelto. Si la orden fue de contado (sin
//     crédito), solo inventario.
//   - PURCHASE: descuenta el stock que vuelve al proveedor; sin efecto en cartera.
//
// Todo ocurre en una transacción junto con el paso a PROCESSED.
func (uc *ProcessorUseCase) Process(ctx context.Context, id string) (*dto.RefundResponse, error) {
	r, err := uc.refundRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.ErrNotFound
	}
	if !r.IsPending() {
		return nil, domain.ErrInvalidState
	}

	// El lock por cliente solo aplica a devoluciones de venta a crédito.
	// Esta lectura solo decide la clave de serialización; el crédito se
	// vuelve a resolver dentro de la transacción.
	clientID := ""
	if r.Kind == entity.RefundKindSale {
		credit, err := uc.creditRepo.GetByOrderID(r.SourceOrderID)
		if err != nil {
			return nil, err
		}
		if credit != nil {
			clientID = credit.ClientID
		}
	}

	err = uc.txRunner.RunRefund(ctx, clientID, func(
		refundRepo repository.RefundRepository,
		creditRepo repository.CreditRepository,
		stockRepo repository.StockRepository,
	) error {
		// Releer dentro de la transacción: otro proceso pudo haberlo
		// procesado o anulado entre la lectura inicial y el lock.
		current, err := refundRepo.GetByID(id)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrNotFound
		}
		if !current.IsPending() {
			return domain.ErrInvalidState
		}

		// Resolver el crédito dentro de la tx: uno abierto entre la
		// lectura inicial y el lock también debe reversarse. Venta de
		// contado (sin crédito) = solo inventario.
		if current.Kind == entity.RefundKindSale {
			credit, err := creditRepo.GetByOrderID(current.SourceOrderID)
			if err != nil {
				return err
			}
			if credit != nil {
				if err := credit.Reverse(current.TotalRefundMinor); err != nil {
					return err
				}
				credit.UpdatedAt = time.Now()
				if err := creditRepo.Update(credit); err != nil {
					return err
				}
			}
		}

		for _, line := range current.Lines {
			if current.Kind == entity.RefundKindSale {
				err = stockRepo.IncreaseStock(line.ProductID, current.SedeID, line.Quantity)
			} else {
				err = stockRepo.DecreaseStock(line.ProductID, current.SedeID, line.Quantity)
			}
			if err != nil {
				return err
			}
		}

		now := time.Now()
		current.Status = entity.RefundStatusProcessed
		current.ProcessedAt = &now
		current.UpdatedAt = now
		if err := refundRepo.UpdateStatus(current); err != nil {
			return err
		}
		*r = *current
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := toRefundResponse(r)
	return &resp, nil
}

// Void anula un reembolso PENDING. Sin efectos sobre cartera ni inventario:
// nunca se aplicaron.
func (uc *ProcessorUseCase) Void(ctx context.Context, id string) (*dto.RefundResponse, error) {
	r, err := uc.refundRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.ErrNotFound
	}
	if !r.IsPending() {
		return nil, domain.ErrInvalidState
	}
	r.Status = entity.RefundStatusVoided
	r.UpdatedAt = time.Now()
	if err := uc.refundRepo.UpdateStatus(r); err != nil {
		return nil, err
	}
	resp := toRefundResponse(r)
	return &resp, nil
}

// Delete elimina un reembolso PENDING.
func (uc *ProcessorUseCase) Delete(ctx context.Context, id string) error {
	r, err := uc.refundRepo.GetByID(id)
	if err != nil {
		return err
	}
	if r == nil {
		return domain.ErrNotFound
	}
	if !r.IsPending() {
		return domain.ErrInvalidState
	}
	return uc.refundRepo.Delete(id)
}

// Get obtiene un reembolso por ID.
func (uc *ProcessorUseCase) Get(ctx context.Context, id string) (*dto.RefundResponse, error) {
	r, err := uc.refundRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.ErrNotFound
	}
	resp := toRefundResponse(r)
	return &resp, nil
}

// List devuelve reembolsos paginados.
func (uc *ProcessorUseCase) List(ctx context.Context, limit, offset int) ([]dto.RefundResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	refunds, err := uc.refundRepo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RefundResponse, 0, len(refunds))
	for _, r := range refunds {
		out = append(out, toRefundResponse(r))
	}
	return out, nil
}

func toRefundResponse(r *entity.Refund) dto.RefundResponse {
	resp := dto.RefundResponse{
		ID:               r.ID,
		Kind:             r.Kind,
		SourceOrderID:    r.SourceOrderID,
		SourceIngresoID:  r.SourceIngresoID,
		SedeID:           r.SedeID,
		Status:           r.Status,
		TotalRefundMinor: r.TotalRefundMinor,
		Lines:            make([]dto.RefundLineResponse, 0, len(r.Lines)),
	}
	if r.ProcessedAt != nil {
		resp.ProcessedAt = r.ProcessedAt.Format(time.RFC3339)
	}
	for _, line := range r.Lines {
		resp.Lines = append(resp.Lines, dto.RefundLineResponse{
			ID:              line.ID,
			SourceLineID:    line.SourceLineID,
			ProductID:       line.ProductID,
			Quantity:        line.Quantity,
			UnitAmountMinor: line.UnitAmountMinor,
		})
	}
	return resp
}
