package dto

import "time"

// CreateEquipmentLotRequest alta de un lote de material.
type CreateEquipmentLotRequest struct {
	MaterialID   int64      `json:"id_materiel"`
	Serial       string     `json:"numero"`
	DonorID      *int64     `json:"id_donneur,omitempty"`
	DonationDate *time.Time `json:"date_don,omitempty"`
	Condition    string     `json:"etat,omitempty"`
}

// CreateEquipmentLotsBatchRequest alta de Count lotes numerados Serial001, Serial002...
type CreateEquipmentLotsBatchRequest struct {
	MaterialID   int64      `json:"id_materiel"`
	BaseSerial   string     `json:"numero"`
	Count        int        `json:"quantite"`
	DonorID      *int64     `json:"id_donneur,omitempty"`
	DonationDate *time.Time `json:"date_don,omitempty"`
}

// UpdateEquipmentLotRequest edición administrativa; los campos nil no cambian.
type UpdateEquipmentLotRequest struct {
	MaterialID   *int64     `json:"id_materiel,omitempty"`
	Serial       *string    `json:"numero,omitempty"`
	DonorID      *int64     `json:"id_donneur,omitempty"`
	DonationDate *time.Time `json:"date_don,omitempty"`
}

// UpdateConditionRequest cambio de estado de un lote, opcionalmente informado por un servicio.
type UpdateConditionRequest struct {
	Condition string `json:"etat"`
	ServiceID *int64 `json:"id_service,omitempty"`
}

// EquipmentLotResponse lote de material.
type EquipmentLotResponse struct {
	ID           int64     `json:"id_lot"`
	MaterialID   int64     `json:"id_materiel"`
	MaterialName string    `json:"nom_materiel,omitempty"`
	DonorID      *int64    `json:"id_donneur"`
	DonorName    string    `json:"nom_donneur,omitempty"`
	Serial       string    `json:"numero"`
	Condition    string    `json:"etat"`
	DonationDate time.Time `json:"date_don"`
	Code         string    `json:"code"`
}

// DispatchLotRequest envío de un lote concreto a un servicio.
type DispatchLotRequest struct {
	ServiceID int64      `json:"id_service"`
	LotID     int64      `json:"id_lot"`
	SendDate  *time.Time `json:"date_envoi,omitempty"`
}

// DispatchRandomLotsRequest envío de Count lotes elegidos al azar entre los nunca prestados.
type DispatchRandomLotsRequest struct {
	ServiceID  int64 `json:"id_service"`
	MaterialID int64 `json:"id_materiel"`
	Count      int   `json:"nombre"`
}

// DispatchResult préstamos creados por un envío.
type DispatchResult struct {
	Count int            `json:"nombre"`
	Loans []LoanResponse `json:"prets"`
}

// TransferLoanRequest traslado de un préstamo abierto a otro servicio.
type TransferLoanRequest struct {
	ServiceID int64 `json:"id_service"`
}

// ConditionCountDTO número de lotes por estado.
type ConditionCountDTO struct {
	Condition string `json:"etat"`
	Count     int    `json:"count"`
}

// ServiceCountDTO conteo por servicio.
type ServiceCountDTO struct {
	Service string `json:"service"`
	Count   int    `json:"count"`
}

// AvailabilityDTO lotes disponibles según una de las dos definiciones (nunca prestado / sin préstamo abierto).
type AvailabilityDTO struct {
	Definition string                 `json:"definition"`
	Total      int                    `json:"total"`
	Counts     map[string]int         `json:"counts"`
	Lots       []EquipmentLotResponse `json:"lots"`
}

// DistributionDTO reparto de los lotes de un material según el servicio de su último préstamo.
type DistributionDTO struct {
	Material string            `json:"materiel"`
	Total    int               `json:"total"`
	InStock  int               `json:"enStock"`
	Services []ServiceCountDTO `json:"services"`
}
