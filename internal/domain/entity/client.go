package entity

import "time"

// Client representa un cliente del distribuidor (comprador de materiales).
type Client struct {
	ID        string
	Name      string
	TaxID     string // NIT o cédula
	Email     string
	Phone     string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
