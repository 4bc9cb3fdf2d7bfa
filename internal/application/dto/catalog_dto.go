package dto

import "github.com/shopspring/decimal"

// ServiceDTO servicio (entrada y salida).
type ServiceDTO struct {
	ID   int64  `json:"id_service"`
	Name string `json:"nom_service"`
}

// DonorDTO donante (entrada y salida).
type DonorDTO struct {
	ID   int64  `json:"id_donneur"`
	Name string `json:"nom_donneur"`
}

// ClassDTO clase (entrada y salida).
type ClassDTO struct {
	ID   int64  `json:"id_classe"`
	Code string `json:"code_classe"`
	Name string `json:"nom_classe"`
}

// CategoryDTO categoría de material (entrada y salida).
type CategoryDTO struct {
	ID   int64  `json:"id_categorie"`
	Name string `json:"nom_categorie"`
}

// MaterialDTO definición de material (entrada y salida).
type MaterialDTO struct {
	ID         int64  `json:"id_materiel"`
	Name       string `json:"nom_materiel"`
	ClassID    *int64 `json:"id_classe"`
	CategoryID *int64 `json:"id_categorie"`
	ClassName  string `json:"nom_classe,omitempty"`
}

// ConsumableRequest alta/edición de un consumible del catálogo.
// La cantidad solo se fija en el alta; después la mueven lotes y préstamos.
type ConsumableRequest struct {
	Name      string           `json:"nom_consommable"`
	Reference string           `json:"reference_consommable"`
	Unit      string           `json:"unite"`
	UnitPrice *decimal.Decimal `json:"prix_unitaire"`
	Quantity  int              `json:"quantite_consommable"`
	ClassID   *int64           `json:"id_classe"`
}

// ConsumableResponse consumible con su stock actual.
type ConsumableResponse struct {
	ID        int64            `json:"id_consommable"`
	Name      string           `json:"nom_consommable"`
	Reference string           `json:"reference_consommable"`
	Unit      string           `json:"unite"`
	UnitPrice *decimal.Decimal `json:"prix_unitaire"`
	Quantity  int              `json:"quantite_consommable"`
	ClassID   *int64           `json:"id_classe"`
	ClassName string           `json:"nom_classe,omitempty"`
}
