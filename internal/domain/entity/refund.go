package entity

import "time"

// Tipos de reembolso.
const (
	RefundKindSale     = "SALE"     // Devolución de una venta: reversa crédito y reingresa stock
	RefundKindPurchase = "PURCHASE" // Devolución de una compra: descuenta stock (vuelve al proveedor)
)

// Estados del reembolso. PENDING es el único estado con transiciones salientes:
// PROCESSED y VOIDED son terminales, y borrar solo es legal en PENDING.
const (
	RefundStatusPending   = "PENDING"
	RefundStatusProcessed = "PROCESSED"
	RefundStatusVoided    = "VOIDED"
)

// Refund representa una devolución de venta o de compra.
// Se crea en PENDING sin efectos; process() aplica inventario/créditos
// exactamente una vez y es irreversible.
type Refund struct {
	ID               string
	Kind             string
	SourceOrderID    string // Orden de venta origen (kind SALE)
	SourceIngresoID  string // Ingreso de compra origen (kind PURCHASE)
	SedeID           string
	Status           string
	Lines            []RefundLine
	TotalRefundMinor int64
	CreatedAt        time.Time
	ProcessedAt      *time.Time
	UpdatedAt        time.Time
}

// RefundLine una línea devuelta: referencia a la línea original, producto y cantidad.
type RefundLine struct {
	ID              string
	RefundID        string
	SourceLineID    string
	ProductID       string
	Quantity        int64
	UnitAmountMinor int64
}

// IsPending indica si el reembolso admite process/void/delete.
func (r *Refund) IsPending() bool {
	return r.Status == RefundStatusPending
}
