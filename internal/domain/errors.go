package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")

	// ErrCreditExists: ya existe un crédito para esa orden (Open es único por orden).
	ErrCreditExists = errors.New("ya existe un crédito para la orden")
	// ErrInvalidState: transición no permitida desde el estado actual
	// (ej: procesar un reembolso ya procesado o anulado).
	ErrInvalidState = errors.New("operación no permitida en el estado actual")
	// ErrOverApplication: se intentó aplicar a un crédito más que su saldo.
	// No debe ocurrir con entradas normales; indica violación de invariante interna.
	ErrOverApplication = errors.New("el abono excede el saldo del crédito")
	// ErrOverpayment: el efectivo recibido excede la suma de saldos abiertos del cliente.
	// Condición recuperable: el caller decide si acepta el excedente o rechaza el pago.
	ErrOverpayment = errors.New("el pago excede el total de saldos abiertos")
	// ErrInsufficientStock: el ajuste de inventario dejaría existencias negativas.
	ErrInsufficientStock = errors.New("stock insuficiente")
	// ErrFiscalConfigNotFound: la tabla de configuración fiscal está vacía;
	// no se puede facturar sin tarifas vigentes.
	ErrFiscalConfigNotFound = errors.New("configuración fiscal no inicializada")
)
