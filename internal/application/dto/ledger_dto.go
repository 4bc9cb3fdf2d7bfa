package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateDonationLotRequest entrada de un lote de consumible.
type CreateDonationLotRequest struct {
	ConsumableID int64            `json:"id_consommable"`
	Quantity     int              `json:"quantite_don"`
	UnitPrice    *decimal.Decimal `json:"PU,omitempty"`
	DonorID      *int64           `json:"id_donneur,omitempty"`
	DonationDate *time.Time       `json:"date_don_consommable,omitempty"`
}

// UpdateDonationLotRequest edición de un lote; los campos nil no cambian.
type UpdateDonationLotRequest struct {
	ConsumableID *int64           `json:"id_consommable,omitempty"`
	Quantity     *int             `json:"quantite_don,omitempty"`
	UnitPrice    *decimal.Decimal `json:"PU,omitempty"`
	DonorID      *int64           `json:"id_donneur,omitempty"`
	DonationDate *time.Time       `json:"date_don_consommable,omitempty"`
}

// DonationLotResponse lote de consumible.
type DonationLotResponse struct {
	ID             int64            `json:"id_lot_consommable"`
	ConsumableID   int64            `json:"id_consommable"`
	ConsumableName string           `json:"nom_consommable,omitempty"`
	DonorID        *int64           `json:"id_donneur"`
	DonorName      string           `json:"nom_donneur,omitempty"`
	Quantity       int              `json:"quantite_don"`
	UnitPrice      *decimal.Decimal `json:"PU"`
	DonationDate   time.Time        `json:"date_don_consommable"`
}

// DonationLotResult resultado de una mutación de lote: el lote y el stock resultante.
type DonationLotResult struct {
	Lot                DonationLotResponse `json:"lot"`
	Consumable         ConsumableResponse  `json:"consommable"`
	PreviousConsumable *ConsumableResponse `json:"ancien_consommable,omitempty"`
}

// CreateConsumableLoanRequest envío de consumible a un servicio.
// UnitPrice nil = consumible donado (aparece en la clase "Don" del reporte mensual).
type CreateConsumableLoanRequest struct {
	ConsumableID int64            `json:"id_consommable"`
	ServiceID    int64            `json:"id_service"`
	Quantity     int              `json:"quantite_pret"`
	UnitPrice    *decimal.Decimal `json:"PU_envoie,omitempty"`
	SendDate     *time.Time       `json:"date_envoi,omitempty"`
}

// UpdateConsumableLoanRequest edición de un préstamo de consumible; los campos nil no cambian.
type UpdateConsumableLoanRequest struct {
	ConsumableID *int64           `json:"id_consommable,omitempty"`
	ServiceID    *int64           `json:"id_service,omitempty"`
	Quantity     *int             `json:"quantite_pret,omitempty"`
	UnitPrice    *decimal.Decimal `json:"PU_envoie,omitempty"`
	SendDate     *time.Time       `json:"date_envoi,omitempty"`
}

// ReturnDateRequest fecha de retorno/agotamiento (por defecto ahora).
type ReturnDateRequest struct {
	ReturnDate *time.Time `json:"date_retour,omitempty"`
}

// LoanResponse préstamo (de lote o de consumible).
type LoanResponse struct {
	ID             int64            `json:"id_pret"`
	ServiceID      *int64           `json:"id_service"`
	ServiceName    string           `json:"nom_service,omitempty"`
	LotID          *int64           `json:"id_lot,omitempty"`
	LotSerial      string           `json:"numero,omitempty"`
	MaterialID     *int64           `json:"id_materiel,omitempty"`
	MaterialName   string           `json:"nom_materiel,omitempty"`
	ConsumableID   *int64           `json:"id_consommable,omitempty"`
	ConsumableName string           `json:"nom_consommable,omitempty"`
	Quantity       int              `json:"quantite_pret,omitempty"`
	UnitPrice      *decimal.Decimal `json:"PU_envoie,omitempty"`
	SendDate       time.Time        `json:"date_envoi"`
	ReturnDate     *time.Time       `json:"date_retour"`
}

// ConsumableLoanResult resultado de una mutación de préstamo de consumible.
type ConsumableLoanResult struct {
	Loan               LoanResponse        `json:"pret"`
	Consumable         ConsumableResponse  `json:"consommable"`
	PreviousConsumable *ConsumableResponse `json:"ancien_consommable,omitempty"`
}
