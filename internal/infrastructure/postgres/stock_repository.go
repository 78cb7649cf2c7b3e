package postgres

import (
	"context"
	"fmt"

	"github.com/ferrevalle/facturacion-api/internal/domain"
	"github.com/ferrevalle/facturacion-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre la tabla stock
// (existencias por producto y sede).
type StockRepo struct {
	q Querier
}

func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// IncreaseStock suma existencias; crea la fila si no existe.
func (r *StockRepo) IncreaseStock(productID, sedeID string, quantity int64) error {
	query := `
		INSERT INTO stock (product_id, sede_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (product_id, sede_id)
		DO UPDATE SET quantity = stock.quantity + EXCLUDED.quantity`
	if _, err := r.q.Exec(context.Background(), query, productID, sedeID, quantity); err != nil {
		return fmt.Errorf("increase stock: %w", err)
	}
	return nil
}

// DecreaseStock resta existencias; el WHERE impide dejarlas negativas.
func (r *StockRepo) DecreaseStock(productID, sedeID string, quantity int64) error {
	query := `
		UPDATE stock
		SET quantity = quantity - $3
		WHERE product_id = $1 AND sede_id = $2 AND quantity >= $3`
	tag, err := r.q.Exec(context.Background(), query, productID, sedeID, quantity)
	if err != nil {
		return fmt.Errorf("decrease stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInsufficientStock
	}
	return nil
}
