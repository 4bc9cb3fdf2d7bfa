package repository

import (
	"context"

	"github.com/jhoicas/Materiel-api/internal/domain/entity"
)

// ConditionCount número de lotes por estado.
type ConditionCount struct {
	Condition entity.Condition
	Count     int
}

// LotServiceRow lote con el servicio de su préstamo más reciente (nil si nunca prestado).
type LotServiceRow struct {
	LotID       int64
	ServiceName *string
}

// EquipmentLotRepository define el puerto de persistencia para EquipmentLot.
type EquipmentLotRepository interface {
	Create(ctx context.Context, lot *entity.EquipmentLot) error
	GetByID(ctx context.Context, id int64) (*entity.EquipmentLot, error)
	GetForUpdate(ctx context.Context, id int64) (*entity.EquipmentLot, error)
	Update(ctx context.Context, lot *entity.EquipmentLot) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*entity.EquipmentLot, error)
	// ListByService lotes que han sido prestados alguna vez al servicio.
	ListByService(ctx context.Context, serviceID int64) ([]*entity.EquipmentLot, error)
	Count(ctx context.Context) (int, error)
	CountByMaterial(ctx context.Context, materialID int64) (int, error)
	CountByCondition(ctx context.Context) ([]ConditionCount, error)
	// CountOpenByService lotes con préstamo abierto en el servicio.
	CountOpenByService(ctx context.Context, serviceID int64) (int, error)
	// ListNeverLoanedForUpdate lotes del material sin ningún préstamo en su historial, bloqueados.
	ListNeverLoanedForUpdate(ctx context.Context, materialID int64) ([]*entity.EquipmentLot, error)
	// ListNeverLoaned lotes (de todos los materiales) sin ningún préstamo.
	ListNeverLoaned(ctx context.Context) ([]*entity.EquipmentLot, error)
	// ListWithoutOpenLoan lotes cuyo historial no tiene préstamos abiertos.
	ListWithoutOpenLoan(ctx context.Context) ([]*entity.EquipmentLot, error)
	// LatestServicePerLot para la distribución de un material.
	LatestServicePerLot(ctx context.Context, materialID int64) ([]LotServiceRow, error)
}
