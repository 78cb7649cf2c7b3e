package dto

import "github.com/shopspring/decimal"

// EmitInvoiceRequest body para POST /api/invoices: convierte una orden en factura.
// Los montos llegan en centavos (COP); nunca en punto flotante.
type EmitInvoiceRequest struct {
	OrderID            string `json:"order_id"`
	ClientID           string `json:"client_id"`
	Prefix             string `json:"prefix"`
	Number             string `json:"number,omitempty"` // opcional; si va vacío se asigna el consecutivo
	GrossSubtotalMinor int64  `json:"gross_subtotal_minor"`
	DiscountsMinor     int64  `json:"discounts_minor"`
	ApplyIca           bool   `json:"apply_ica"`
	CreditSale         bool   `json:"credit_sale"` // true: abre un crédito por el total en la misma transacción
}

// InvoiceFiguresDTO cifras fiscales de la factura en centavos.
type InvoiceFiguresDTO struct {
	BaseMinor          int64 `json:"base_minor"`
	IvaMinor           int64 `json:"iva_minor"`
	SubtotalExVatMinor int64 `json:"subtotal_ex_vat_minor"`
	RetefuenteApplied  bool  `json:"retefuente_applied"`
	RetefuenteMinor    int64 `json:"retefuente_minor"`
	IcaApplied         bool  `json:"ica_applied"`
	IcaMinor           int64 `json:"ica_minor"`
	TotalMinor         int64 `json:"total_minor"`
	NetPayableMinor    int64 `json:"net_payable_minor"` // total - retenciones, solo informativo
}

// InvoiceResponse factura emitida, con el crédito abierto si fue venta a crédito.
type InvoiceResponse struct {
	ID         string            `json:"id"`
	OrderID    string            `json:"order_id"`
	ClientID   string            `json:"client_id"`
	ClientName string            `json:"client_name,omitempty"`
	Prefix     string            `json:"prefix"`
	Number     string            `json:"number"`
	Date       string            `json:"date"`
	Status     string            `json:"status"`
	CreditSale bool              `json:"credit_sale"`
	Figures    InvoiceFiguresDTO `json:"figures"`
	Credit     *CreditResponse   `json:"credit,omitempty"`
}

// FiscalConfigResponse configuración fiscal vigente.
type FiscalConfigResponse struct {
	IvaRatePercent           decimal.Decimal `json:"iva_rate_percent"`
	RetefuenteRatePercent    decimal.Decimal `json:"retefuente_rate_percent"`
	RetefuenteThresholdMinor int64           `json:"retefuente_threshold_minor"`
	IcaRatePercent           decimal.Decimal `json:"ica_rate_percent"`
}

// UpdateFiscalConfigRequest body para PUT /api/fiscal-config.
type UpdateFiscalConfigRequest struct {
	IvaRatePercent           decimal.Decimal `json:"iva_rate_percent"`
	RetefuenteRatePercent    decimal.Decimal `json:"retefuente_rate_percent"`
	RetefuenteThresholdMinor int64           `json:"retefuente_threshold_minor"`
	IcaRatePercent           decimal.Decimal `json:"ica_rate_percent"`
}
