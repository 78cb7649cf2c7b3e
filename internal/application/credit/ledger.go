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

// LedgerUseCase operaciones de cartera: apertura de créditos y consultas de
// saldos. Las mutaciones de saldo pasan por el asignador de abonos o por el
// procesador de reembolsos, nunca por aquí.
type LedgerUseCase struct {
	creditRepo repository.CreditRepository
	clientRepo repository.ClientRepository
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(creditRepo repository.CreditRepository, clientRepo repository.ClientRepository) *LedgerUseCase {
	return &LedgerUseCase{creditRepo: creditRepo, clientRepo: clientRepo}
}

// Open abre el crédito de una orden vendida a crédito. Se llama exactamente
// una vez al confirmar la orden; retorna ErrCreditExists si la orden ya tiene
// crédito.
func (uc *LedgerUseCase) Open(ctx context.Context, in dto.OpenCreditRequest) (*dto.CreditResponse, error) {
	if in.OrderID == "" || in.ClientID == "" || in.TotalCreditMinor <= 0 {
		return nil, domain.ErrInvalidInput
	}
	client, err := uc.clientRepo.GetByID(in.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	now := time.Now()
	c := &entity.Credit{
		ID:               uuid.New().String(),
		ClientID:         in.ClientID,
		OrderID:          in.OrderID,
		TotalCreditMinor: in.TotalCreditMinor,
		TotalPaidMinor:   0,
		Status:           entity.CreditStatusOpen,
		OpenedAt:         now,
		UpdatedAt:        now,
	}
	if err := uc.creditRepo.Create(c); err != nil {
		return nil, err
	}
	resp := ToCreditResponse(c)
	return &resp, nil
}

// Get obtiene un crédito por ID.
func (uc *LedgerUseCase) Get(ctx context.Context, id string) (*dto.CreditResponse, error) {
	c, err := uc.creditRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	resp := ToCreditResponse(c)
	return &resp, nil
}

// ListOpenByClient devuelve los créditos abiertos del cliente (deuda más
// vieja primero) con el saldo agregado. Solo lectura.
func (uc *LedgerUseCase) ListOpenByClient(ctx context.Context, clientID string) (*dto.ClientCreditsResponse, error) {
	if clientID == "" {
		return nil, domain.ErrInvalidInput
	}
	credits, err := uc.creditRepo.ListOpenByClient(clientID)
	if err != nil {
		return nil, err
	}
	resp := &dto.ClientCreditsResponse{
		ClientID: clientID,
		Credits:  make([]dto.CreditResponse, 0, len(credits)),
	}
	for _, c := range credits {
		resp.TotalBalanceMinor += c.BalanceMinor()
		resp.Credits = append(resp.Credits, ToCreditResponse(c))
	}
	return resp, nil
}

// ToCreditResponse mapea la entidad al DTO de respuesta.
func ToCreditResponse(c *entity.Credit) dto.CreditResponse {
	return dto.CreditResponse{
		ID:               c.ID,
		ClientID:         c.ClientID,
		OrderID:          c.OrderID,
		TotalCreditMinor: c.TotalCreditMinor,
		TotalPaidMinor:   c.TotalPaidMinor,
		BalanceMinor:     c.BalanceMinor(),
		Status:           c.Status,
		OpenedAt:         c.OpenedAt.Format(time.RFC3339),
	}
}
