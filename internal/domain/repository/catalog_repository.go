package repository

import (
	"context"

	"github.com/jhoicas/Materiel-api/internal/domain/entity"
)

// CatalogRepository puerto CRUD común de las tablas de referencia.
type CatalogRepository[T any] interface {
	Create(ctx context.Context, item *T) error
	GetByID(ctx context.Context, id int64) (*T, error)
	Update(ctx context.Context, item *T) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*T, error)
	Count(ctx context.Context) (int, error)
}

type (
	ServiceRepository  = CatalogRepository[entity.Service]
	DonorRepository    = CatalogRepository[entity.Donor]
	ClassRepository    = CatalogRepository[entity.Class]
	MaterialRepository = CatalogRepository[entity.Material]
)

// AccountRepository lecturas de cuentas para login y filtrado de notificaciones.
type AccountRepository interface {
	GetByPseudo(ctx context.Context, pseudo string) (*entity.Account, error)
	GetByPersonID(ctx context.Context, personID int64) (*entity.Account, error)
}
