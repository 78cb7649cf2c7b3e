package credit

import (
	"context"
	"time"

	"github.com/ferrevalle/facturacion-api/internal/application/dto"
	"github.com/ferrevalle/facturacion-api/internal/domain"
	"github.com/ferrevalle/facturacion-api/internal/domain/repository"
)

// ReportingUseCase consultas de solo lectura para las pantallas de historial:
// abonos por cliente y rango de fechas. Nunca muta estado.
type ReportingUseCase struct {
	paymentRepo repository.PaymentRepository
}

// NewReportingUseCase construye el caso de uso.
func NewReportingUseCase(paymentRepo repository.PaymentRepository) *ReportingUseCase {
	return &ReportingUseCase{paymentRepo: paymentRepo}
}

// ListPayments historial de abonos del cliente en [from, to] (fechas RFC 3339,
// vacías = sin límite), con la distribución completa de cada abono.
func (uc *ReportingUseCase) ListPayments(ctx context.Context, clientID, fromStr, toStr string) (*dto.PaymentHistoryResponse, error) {
	if clientID == "" {
		return nil, domain.ErrInvalidInput
	}
	var from, to time.Time
	var err error
	if fromStr != "" {
		if from, err = time.Parse(time.RFC3339, fromStr); err != nil {
			return nil, domain.ErrInvalidInput
		}
	}
	if toStr != "" {
		if to, err = time.Parse(time.RFC3339, toStr); err != nil {
			return nil, domain.ErrInvalidInput
		}
	}
	payments, err := uc.paymentRepo.ListByClient(clientID, from, to)
	if err != nil {
		return nil, err
	}
	resp := &dto.PaymentHistoryResponse{
		ClientID: clientID,
		Payments: make([]dto.PaymentResponse, 0, len(payments)),
	}
	for _, p := range payments {
		resp.Payments = append(resp.Payments, ToPaymentResponse(p))
	}
	return resp, nil
}

// GetPayment obtiene un abono por ID (para reimpresión de recibos).
func (uc *ReportingUseCase) GetPayment(ctx context.Context, id string) (*dto.PaymentResponse, error) {
	p, err := uc.paymentRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	resp := ToPaymentResponse(p)
	return &resp, nil
}
