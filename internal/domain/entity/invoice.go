package entity

import "time"

// Estados de la factura.
const (
	InvoiceStatusEmitted = "EMITTED" // Emitida; cifras congeladas
	InvoiceStatusPaid    = "PAID"    // Terminal
	InvoiceStatusVoid    = "VOID"    // Terminal
)

// Invoice representa la cabecera de una factura emitida desde una orden.
// Las cifras (InvoiceFigures) son derivadas e inmutables una vez emitida.
type Invoice struct {
	ID         string
	ClientID   string
	OrderID    string
	Prefix     string
	Number     string
	Date       time.Time
	Figures    InvoiceFigures
	CreditSale bool   // true si la orden se vendió a crédito (abre un Credit)
	Status     string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// InvoiceFigures cifras fiscales de la factura, todas en centavos (COP).
//
// El total facturado es el bruto con IVA incluido; retefuente e ICA son
// retenciones informativas que el comprador descuenta al pagar, no
// deducciones del total facturado. El "neto a pagar" se deriva aparte
// (solo en la representación impresa).
type InvoiceFigures struct {
	BaseMinor          int64 // Bruto con IVA incluido, tras descuentos
	IvaMinor           int64
	SubtotalExVatMinor int64
	RetefuenteApplied  bool
	RetefuenteMinor    int64
	IcaApplied         bool
	IcaMinor           int64
	TotalMinor         int64 // == BaseMinor (semántica de la vista impresa)
}

// NetPayableMinor devuelve el neto a pagar tras descontar retenciones.
// Solo para presentación (recibo/PDF); el total facturado no cambia.
func (f InvoiceFigures) NetPayableMinor() int64 {
	return f.TotalMinor - f.RetefuenteMinor - f.IcaMinor
}
