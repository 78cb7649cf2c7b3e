package entity

import "time"

// Métodos de pago aceptados para abonos.
const (
	PaymentMethodCash     = "EFECTIVO"
	PaymentMethodTransfer = "TRANSFERENCIA"
	PaymentMethodCheck    = "CHEQUE"
	PaymentMethodCard     = "TARJETA"
)

// Payment (abono) es un asiento inmutable: un pago en efectivo de un cliente
// distribuido sobre uno o más créditos abiertos. Una vez creado nunca se edita.
// Invariante: sum(Distribution[i].AppliedMinor) + ResidualMinor == AmountMinor.
type Payment struct {
	ID            string
	ClientID      string
	AmountMinor   int64
	ResidualMinor int64 // Excedente no aplicado (0 salvo sobrepago aceptado)
	Method        string
	ReceivedAt    time.Time
	Distribution  []PaymentEntry
	CreatedAt     time.Time
}

// PaymentEntry una línea de la distribución del abono: cuánto se aplicó a qué
// crédito y el saldo resultante de ese crédito tras la aplicación.
type PaymentEntry struct {
	ID                    string
	PaymentID             string
	CreditID              string
	AppliedMinor          int64
	ResultingBalanceMinor int64
}
