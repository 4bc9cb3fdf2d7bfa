package equipment

import (
	"context"

	"github.com/jhoicas/Materiel-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción con los repositorios de lotes y préstamos
// atados a esa tx.
type TxRunner interface {
	RunEquipment(ctx context.Context, fn func(
		lotRepo repository.EquipmentLotRepository,
		loanRepo repository.LoanRepository,
	) error) error
}
