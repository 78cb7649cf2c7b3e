package dto

// OpenCreditRequest body para POST /api/credits: abre un crédito al confirmar
// una venta a crédito (uno por orden).
type OpenCreditRequest struct {
	OrderID          string `json:"order_id"`
	ClientID         string `json:"client_id"`
	TotalCreditMinor int64  `json:"total_credit_minor"`
}

// CreditResponse estado de un crédito en respuestas.
type CreditResponse struct {
	ID               string `json:"id"`
	ClientID         string `json:"client_id"`
	OrderID          string `json:"order_id"`
	TotalCreditMinor int64  `json:"total_credit_minor"`
	TotalPaidMinor   int64  `json:"total_paid_minor"`
	BalanceMinor     int64  `json:"balance_minor"`
	Status           string `json:"status"`
	OpenedAt         string `json:"opened_at"`
}

// ClientCreditsResponse créditos abiertos de un cliente con saldo agregado.
type ClientCreditsResponse struct {
	ClientID          string           `json:"client_id"`
	TotalBalanceMinor int64            `json:"total_balance_minor"`
	Credits           []CreditResponse `json:"credits"`
}

// ApplyPaymentRequest body para POST /api/payments: un abono en efectivo que
// se distribuye sobre los créditos abiertos del cliente (deuda más vieja primero).
// AcceptOverpayment: si el monto excede los saldos abiertos, true acepta y
// reporta el excedente; false rechaza la operación completa sin mutar nada.
type ApplyPaymentRequest struct {
	ClientID          string `json:"client_id"`
	AmountMinor       int64  `json:"amount_minor"`
	Method            string `json:"method"`
	ReceivedAt        string `json:"received_at,omitempty"` // RFC 3339; vacío = ahora
	AcceptOverpayment bool   `json:"accept_overpayment"`
}

// PaymentEntryResponse línea de la distribución del abono.
type PaymentEntryResponse struct {
	CreditID              string `json:"credit_id"`
	AppliedMinor          int64  `json:"applied_minor"`
	ResultingBalanceMinor int64  `json:"resulting_balance_minor"`
}

// PaymentResponse abono registrado con su distribución.
// Siempre: sum(distribution.applied_minor) + residual_minor == amount_minor.
type PaymentResponse struct {
	ID            string                 `json:"id"`
	ClientID      string                 `json:"client_id"`
	AmountMinor   int64                  `json:"amount_minor"`
	ResidualMinor int64                  `json:"residual_minor"`
	Method        string                 `json:"method"`
	ReceivedAt    string                 `json:"received_at"`
	Distribution  []PaymentEntryResponse `json:"distribution"`
}

// PaymentHistoryResponse historial de abonos de un cliente (solo lectura).
type PaymentHistoryResponse struct {
	ClientID string            `json:"client_id"`
	Payments []PaymentResponse `json:"payments"`
}
