package repository

// StockRepository es el colaborador de inventario que consume el procesador
// de reembolsos: sube o baja existencias por producto y sede. La devolución
// de una venta reingresa stock; la de una compra lo descuenta (vuelve al
// proveedor).
type StockRepository interface {
	IncreaseStock(productID, sedeID string, quantity int64) error
	// DecreaseStock retorna domain.ErrInsufficientStock si dejaría
	// existencias negativas.
	DecreaseStock(productID, sedeID string, quantity int64) error
}
