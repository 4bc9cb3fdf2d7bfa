package ledger

import (
	"context"

	"github.com/jhoicas/Materiel-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Toda secuencia leer-validar-escribir del stock pasa por aquí.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		consumableRepo repository.ConsumableRepository,
		lotRepo repository.DonationLotRepository,
		loanRepo repository.LoanRepository,
	) error) error
}
