package dto

// CreateRefundRequest body para POST /api/refunds. Kind: "SALE" | "PURCHASE".
// SourceOrderID para devoluciones de venta; SourceIngresoID para devoluciones
// de compra.
type CreateRefundRequest struct {
	Kind            string              `json:"kind"`
	SourceOrderID   string              `json:"source_order_id,omitempty"`
	SourceIngresoID string              `json:"source_ingreso_id,omitempty"`
	SedeID          string              `json:"sede_id"`
	Lines           []RefundLineRequest `json:"lines"`
}

// RefundLineRequest línea devuelta.
type RefundLineRequest struct {
	SourceLineID    string `json:"source_line_id"`
	ProductID       string `json:"product_id"`
	Quantity        int64  `json:"quantity"`
	UnitAmountMinor int64  `json:"unit_amount_minor"`
}

// RefundLineResponse línea del reembolso en respuestas.
type RefundLineResponse struct {
	ID              string `json:"id"`
	SourceLineID    string `json:"source_line_id"`
	ProductID       string `json:"product_id"`
	Quantity        int64  `json:"quantity"`
	UnitAmountMinor int64  `json:"unit_amount_minor"`
}

// RefundResponse reembolso con sus líneas.
type RefundResponse struct {
	ID               string               `json:"id"`
	Kind             string               `json:"kind"`
	SourceOrderID    string               `json:"source_order_id,omitempty"`
	SourceIngresoID  string               `json:"source_ingreso_id,omitempty"`
	SedeID           string               `json:"sede_id"`
	Status           string               `json:"status"`
	TotalRefundMinor int64                `json:"total_refund_minor"`
	Lines            []RefundLineResponse `json:"lines"`
	ProcessedAt      string               `json:"processed_at,omitempty"`
}
