package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PeriodDTO rango de fechas del reporte (UTC).
type PeriodDTO struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// MonthValueDTO cantidad e importe de un mes. Montant es null en la clase "Don".
type MonthValueDTO struct {
	Qte     int              `json:"qte"`
	Montant *decimal.Decimal `json:"montant"`
}

// MonthlyItemDTO línea de consumible del reporte mensual.
type MonthlyItemDTO struct {
	Designation  string                   `json:"designation"`
	Unite        string                   `json:"unite"`
	PU           *decimal.Decimal         `json:"pu"`
	MonthValues  map[string]MonthValueDTO `json:"monthValues"`
	TotalQte     int                      `json:"total_qte"`
	TotalMontant *decimal.Decimal         `json:"total_montant"`
}

// MonthlyTotalDTO subtotal de clase o total general.
type MonthlyTotalDTO struct {
	TotalQte     int                      `json:"total_qte"`
	TotalMontant *decimal.Decimal         `json:"total_montant"`
	MonthValues  map[string]MonthValueDTO `json:"monthValues"`
}

// MonthlyClassDTO grupo de consumibles de una clase.
type MonthlyClassDTO struct {
	ClassID   *int64           `json:"id_classe"`
	ClassCode string           `json:"code_classe"`
	ClassName string           `json:"nom_classe"`
	Items     []MonthlyItemDTO `json:"items"`
	Subtotal  MonthlyTotalDTO  `json:"subtotal"`
}

// MonthlyReportDTO reporte mensual de consumibles de un servicio.
type MonthlyReportDTO struct {
	ServiceID int64             `json:"serviceId"`
	Period    PeriodDTO         `json:"period"`
	Months    []string          `json:"months"`
	Classes   []MonthlyClassDTO `json:"classes"`
	Total     MonthlyTotalDTO   `json:"total"`
}

// InventoryHeaderDTO cabecera del inventario de material de un servicio.
type InventoryHeaderDTO struct {
	Title   string `json:"titre"`
	Year    string `json:"annee"`
	Service string `json:"service"`
	Class   string `json:"classe"`
}

// InventoryItemDTO lotes de un material por estado.
type InventoryItemDTO struct {
	Designation string         `json:"designation"`
	ClassID     *int64         `json:"id_classe"`
	Class       string         `json:"classe"`
	Conditions  map[string]int `json:"etats"`
	Total       int            `json:"total"`
}

// InventoryDTO inventario de material de un servicio.
type InventoryDTO struct {
	Header InventoryHeaderDTO `json:"entete"`
	Items  []InventoryItemDTO `json:"inventaire"`
	Totals map[string]int     `json:"totaux"`
}

// TopConsumableDTO consumible del ranking de un servicio.
type TopConsumableDTO struct {
	ConsumableID int64           `json:"id_consommable"`
	Name         string          `json:"nom_consommable"`
	Unit         string          `json:"unite"`
	TotalQty     int             `json:"total_quantite"`
	TotalCost    decimal.Decimal `json:"total_cout"`
	LoanCount    int             `json:"nombre_prets"`
	LastLoan     time.Time       `json:"dernier_envoi"`
}

// TopConsumablesDTO ranking de consumibles de un servicio.
type TopConsumablesDTO struct {
	ServiceID int64              `json:"serviceId"`
	Service   string             `json:"service"`
	Limit     int                `json:"limit"`
	Items     []TopConsumableDTO `json:"items"`
}

// StockTraceHeaderDTO cabecera de la ficha de stock.
type StockTraceHeaderDTO struct {
	Name  string `json:"Nom Consommable"`
	Unit  string `json:"Unite"`
	Class string `json:"Classe"`
}

// StockTraceRowDTO movimiento de la ficha de stock con saldo corrido.
type StockTraceRowDTO struct {
	Date     time.Time `json:"Date"`
	Service  string    `json:"Nom Service"`
	Existing int       `json:"Existants"`
	Entries  int       `json:"Entrees"`
	Exits    int       `json:"Sorties"`
	Balance  int       `json:"Restes"`
}

// StockTraceDTO ficha de stock de un consumible.
type StockTraceDTO struct {
	Header  StockTraceHeaderDTO `json:"entete"`
	Opening int                 `json:"stock_initial"`
	Rows    []StockTraceRowDTO  `json:"tableau"`
}

// CountsDTO total + conteo por nombre.
type CountsDTO struct {
	Total  int            `json:"total"`
	Counts map[string]int `json:"counts"`
}

// NestedCountsDTO total + conteo por artículo y servicio.
type NestedCountsDTO struct {
	Total  int                       `json:"total"`
	Counts map[string]map[string]int `json:"counts"`
}

// DashboardDTO resumen del tablero principal.
type DashboardDTO struct {
	EquipmentPerService  []ServiceCountDTO `json:"materiel_par_service"`
	EquipmentAvailable   CountsDTO         `json:"materiel_disponible"`
	EquipmentInUse       NestedCountsDTO   `json:"materiel_occupe"`
	ConsumablesAvailable CountsDTO         `json:"consommable_disponible"`
	ConsumablesInUse     NestedCountsDTO   `json:"consommable_occupe"`
}
