package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/Materiel-api/internal/domain/entity"
)

// ConsumableRepository define el puerto de persistencia para Consumable.
// Usable con pool o dentro de una transacción (ver TxRunner).
type ConsumableRepository interface {
	Create(ctx context.Context, c *entity.Consumable) error
	GetByID(ctx context.Context, id int64) (*entity.Consumable, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE); solo tiene sentido dentro de una tx.
	GetForUpdate(ctx context.Context, id int64) (*entity.Consumable, error)
	// Update modifica los campos de catálogo (no toca la cantidad).
	Update(ctx context.Context, c *entity.Consumable) error
	UpdateQuantity(ctx context.Context, id int64, qty int) error
	UpdateUnitPrice(ctx context.Context, id int64, price decimal.Decimal) error
	List(ctx context.Context) ([]*entity.Consumable, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}
