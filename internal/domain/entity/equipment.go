package entity

import "time"

// Condition estado físico de un lote de material.
type Condition string

const (
	ConditionGood         Condition = "BON"
	ConditionAverage      Condition = "MOYEN"
	ConditionBad          Condition = "MAUVAIS"
	ConditionOutOfService Condition = "EN_PANNE"
	ConditionLost         Condition = "PERDU"
)

// Conditions lista ordenada de estados (orden de columnas en inventarios).
var Conditions = []Condition{
	ConditionGood,
	ConditionAverage,
	ConditionBad,
	ConditionOutOfService,
	ConditionLost,
}

// Valid indica si el estado pertenece al enumerado.
func (c Condition) Valid() bool {
	for _, v := range Conditions {
		if c == v {
			return true
		}
	}
	return false
}

// Material definición de un tipo de material (ej. "Lit médicalisé").
type Material struct {
	ID         int64
	Name       string
	ClassID    *int64
	CategoryID *int64
	ClassName  string
}

// EquipmentLot es una unidad física serializada de un material.
// El estado de préstamo no se almacena: se deriva de los préstamos abiertos.
type EquipmentLot struct {
	ID           int64
	MaterialID   int64
	DonorID      *int64
	Serial       string
	Condition    Condition
	DonationDate time.Time
	Code         string // código identificador generado (texto del QR)
	// Lecturas con JOIN
	MaterialName string
	DonorName    string
}
