package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/Materiel-api/internal/domain/entity"
)

// CatalogConsumableResult consumible del catálogo con su clase (filas del reporte mensual).
type CatalogConsumableResult struct {
	ConsumableID int64
	Name         string
	Unit         string
	UnitPrice    *decimal.Decimal
	ClassID      *int64 // nil = "Sans classe"
	ClassCode    string
	ClassName    string
}

// ConsumableMonthResult agregado por consumible y mes ("YYYY-MM") de los envíos a un servicio.
// Paid* = préstamos con pu_envoie; DonatedQty = préstamos sin precio (donados).
type ConsumableMonthResult struct {
	ConsumableID int64
	Month        string
	PaidQty      int
	PaidAmount   decimal.Decimal
	DonatedQty   int
}

// InventoryResult lotes distintos por material y estado prestados a un servicio.
type InventoryResult struct {
	MaterialID   int64
	MaterialName string
	ClassID      *int64
	ClassName    string // "Sans classe" si el material no tiene clase
	Condition    entity.Condition
	Lots         int
}

// TopConsumableResult ranking de consumibles enviados a un servicio.
type TopConsumableResult struct {
	ConsumableID int64
	Name         string
	Unit         string
	TotalQty     int
	TotalCost    decimal.Decimal // qty * COALESCE(pu_envoie, prix_unitaire, 0)
	LoanCount    int
	LastLoan     time.Time
}

// StockEventResult entrada (lote) o salida (préstamo) de un consumible.
type StockEventResult struct {
	Date        time.Time
	Entry       bool
	Quantity    int
	ServiceName string // vacío en entradas
}

// ServiceCountResult conteo por servicio.
type ServiceCountResult struct {
	ServiceName string
	Count       int
}

// ConsumableStockResult consumible con stock > 0.
type ConsumableStockResult struct {
	ConsumableID int64
	Name         string
	Reference    string
	Quantity     int
}

// LoanedQuantityResult cantidad (o número de lotes) prestada por artículo y servicio.
type LoanedQuantityResult struct {
	ItemName    string
	ServiceName string // "Autre" si el préstamo no tiene servicio
	Quantity    int
}

// ReportRepository consultas read-only del motor de reportes y del dashboard.
type ReportRepository interface {
	// EarliestLoanDate primer date_envoi de consumible del servicio (o global si serviceID es nil).
	// Devuelve nil si no hay préstamos.
	EarliestLoanDate(ctx context.Context, serviceID *int64) (*time.Time, error)

	// ConsumableCatalog todos los consumibles ordenados por código de clase y nombre.
	ConsumableCatalog(ctx context.Context) ([]CatalogConsumableResult, error)

	// ConsumableMonthly agregados mensuales de envíos de consumibles al servicio en [start, end].
	ConsumableMonthly(ctx context.Context, serviceID int64, start, end time.Time) ([]ConsumableMonthResult, error)

	// ServiceInventory lotes prestados al servicio agrupados por material y estado.
	// from/to filtran date_envoi en [from, to).
	ServiceInventory(ctx context.Context, serviceID int64, classID *int64, from, to *time.Time) ([]InventoryResult, error)

	// TopConsumables consumibles más enviados al servicio.
	TopConsumables(ctx context.Context, serviceID int64, limit int) ([]TopConsumableResult, error)

	// StockEvents entradas y salidas de un consumible, sin orden garantizado.
	StockEvents(ctx context.Context, consumableID int64) ([]StockEventResult, error)

	// ── Dashboard ─────────────────────────────────────────────────────────────

	// EquipmentLoansPerService número de préstamos de material por servicio.
	EquipmentLoansPerService(ctx context.Context) ([]ServiceCountResult, error)

	// ConsumablesInStock consumibles con cantidad > 0.
	ConsumablesInStock(ctx context.Context) ([]ConsumableStockResult, error)

	// ConsumablesLoanedPerService cantidades prestadas por consumible y servicio.
	ConsumablesLoanedPerService(ctx context.Context) ([]LoanedQuantityResult, error)

	// EquipmentInUsePerService lotes con historial de préstamo por material y servicio del último préstamo.
	EquipmentInUsePerService(ctx context.Context) ([]LoanedQuantityResult, error)
}
