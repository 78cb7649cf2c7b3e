package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ferrevalle/facturacion-api/internal/domain"
	"github.com/ferrevalle/facturacion-api/internal/domain/entity"
	"github.com/ferrevalle/facturacion-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, client_id, order_id, prefix, number, date,
	base_minor, iva_minor, subtotal_ex_vat_minor,
	retefuente_applied, retefuente_minor, ica_applied, ica_minor, total_minor,
	credit_sale, status, created_at, updated_at`

// Create persiste la factura con sus cifras congeladas.
func (r *InvoiceRepo) Create(inv *entity.Invoice) error {
	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	f := inv.Figures
	_, err := r.q.Exec(context.Background(), query,
		inv.ID, inv.ClientID, inv.OrderID, inv.Prefix, inv.Number, inv.Date,
		f.BaseMinor, f.IvaMinor, f.SubtotalExVatMinor,
		f.RetefuenteApplied, f.RetefuenteMinor, f.IcaApplied, f.IcaMinor, f.TotalMinor,
		inv.CreditSale, inv.Status, inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

func (r *InvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	inv, err := scanInvoice(r.q.QueryRow(context.Background(), query, id).Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// ListByClient facturas del cliente paginadas, más recientes primero.
func (r *InvoiceRepo) ListByClient(clientID string, limit, offset int) ([]*entity.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE client_id = $1
		ORDER BY date DESC, id DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, clientID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

// NextNumber siguiente consecutivo del prefijo. Seguro bajo concurrencia
// solo dentro de la tx de emisión: RunBilling serializa por prefijo con un
// advisory lock y el índice único prefix+number rechaza cualquier duplicado
// restante (números explícitos del caller incluidos).
func (r *InvoiceRepo) NextNumber(prefix string) (int64, error) {
	query := `
		SELECT COALESCE(MAX(number::bigint), 0) + 1
		FROM invoices
		WHERE prefix = $1`
	var next int64
	if err := r.q.QueryRow(context.Background(), query, prefix).Scan(&next); err != nil {
		return 0, fmt.Errorf("next invoice number: %w", err)
	}
	return next, nil
}

func (r *InvoiceRepo) UpdateStatus(inv *entity.Invoice) error {
	query := `UPDATE invoices SET status = $2, updated_at = $3 WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, inv.ID, inv.Status, inv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanInvoice(scan func(dest ...any) error) (*entity.Invoice, error) {
	var inv entity.Invoice
	err := scan(
		&inv.ID, &inv.ClientID, &inv.OrderID, &inv.Prefix, &inv.Number, &inv.Date,
		&inv.Figures.BaseMinor, &inv.Figures.IvaMinor, &inv.Figures.SubtotalExVatMinor,
		&inv.Figures.RetefuenteApplied, &inv.Figures.RetefuenteMinor,
		&inv.Figures.IcaApplied, &inv.Figures.IcaMinor, &inv.Figures.TotalMinor,
		&inv.CreditSale, &inv.Status, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}
