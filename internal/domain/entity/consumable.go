package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Consumable representa un consumible del catálogo con su stock disponible.
// QuantityOnHand solo lo modifican los lotes de donación y los préstamos de consumible.
type Consumable struct {
	ID             int64
	Name           string
	Reference      string
	Unit           string           // etiqueta de unidad ("boîte", "paire"...), puede estar vacía
	UnitPrice      *decimal.Decimal // último precio unitario conocido
	QuantityOnHand int
	ClassID        *int64
	ClassName      string // rellenado en lecturas con JOIN
	ClassCode      string
}

// DonationLot es una entrada de stock de un consumible (lote donado o comprado).
type DonationLot struct {
	ID           int64
	ConsumableID int64
	DonorID      *int64
	Quantity     int
	UnitPrice    *decimal.Decimal
	DonationDate time.Time
	// Lecturas con JOIN
	ConsumableName string
	DonorName      string
}
