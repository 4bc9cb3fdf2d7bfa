package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Materiel-api/internal/domain/entity"
)

// Tipos de préstamo para filtros.
const (
	LoanKindEquipment  = "equipment"
	LoanKindConsumable = "consumable"
)

// LoanFilter filtro de listados de préstamos. Campos nil/vacíos no filtran.
type LoanFilter struct {
	Kind         string
	ServiceID    *int64
	ConsumableID *int64
	LotID        *int64
}

// LoanRepository define el puerto de persistencia para Loan (préstamos de lote o de consumible).
type LoanRepository interface {
	Create(ctx context.Context, loan *entity.Loan) error
	GetByID(ctx context.Context, id int64) (*entity.Loan, error)
	GetForUpdate(ctx context.Context, id int64) (*entity.Loan, error)
	Update(ctx context.Context, loan *entity.Loan) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f LoanFilter) ([]*entity.Loan, error)
	Count(ctx context.Context, f LoanFilter) (int, error)
	// ExistsConsumableLoanSince indica si hay préstamos del consumible con date_envoi >= since.
	ExistsConsumableLoanSince(ctx context.Context, consumableID int64, since time.Time) (bool, error)
	// HasOpenLoanForLot indica si el lote tiene un préstamo sin fecha de retorno.
	HasOpenLoanForLot(ctx context.Context, lotID int64) (bool, error)
	// DeleteClosedForLot borra los préstamos ya devueltos del lote y devuelve cuántos.
	DeleteClosedForLot(ctx context.Context, lotID int64) (int, error)
}
