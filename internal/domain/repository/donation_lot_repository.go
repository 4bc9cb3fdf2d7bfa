package repository

import (
	"context"

	"github.com/jhoicas/Materiel-api/internal/domain/entity"
)

// DonationLotRepository define el puerto de persistencia para los lotes de consumible.
type DonationLotRepository interface {
	Create(ctx context.Context, lot *entity.DonationLot) error
	GetByID(ctx context.Context, id int64) (*entity.DonationLot, error)
	GetForUpdate(ctx context.Context, id int64) (*entity.DonationLot, error)
	Update(ctx context.Context, lot *entity.DonationLot) error
	Delete(ctx context.Context, id int64) error
	// List devuelve los lotes, filtrando por consumible si consumableID != nil.
	List(ctx context.Context, consumableID *int64) ([]*entity.DonationLot, error)
	Count(ctx context.Context) (int, error)
}
