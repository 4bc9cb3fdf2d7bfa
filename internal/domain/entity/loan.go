package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Loan es un préstamo (envío) a un servicio: de un lote de material o de una cantidad de consumible,
// nunca ambos.
type Loan struct {
	ID           int64
	ServiceID    *int64
	LotID        *int64
	ConsumableID *int64
	Quantity     int
	UnitPrice    *decimal.Decimal // PU al momento del envío; nil = consumible donado
	SendDate     time.Time
	ReturnDate   *time.Time
	// Lecturas con JOIN
	ServiceName    string
	ConsumableName string
	MaterialID     *int64
	MaterialName   string
	LotSerial      string
}

// IsEquipment indica si el préstamo referencia un lote de material.
func (l *Loan) IsEquipment() bool { return l.LotID != nil }

// IsConsumable indica si el préstamo referencia un consumible.
func (l *Loan) IsConsumable() bool { return l.ConsumableID != nil }

// IsOpen indica si el préstamo no tiene fecha de retorno.
func (l *Loan) IsOpen() bool { return l.ReturnDate == nil }
