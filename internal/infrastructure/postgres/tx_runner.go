package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Materiel-api/internal/application/equipment"
	"github.com/jhoicas/Materiel-api/internal/application/ledger"
	"github.com/jhoicas/Materiel-api/internal/domain/repository"
)

// Ensure TxRunner implements ledger.TxRunner and equipment.TxRunner.
var _ ledger.TxRunner = (*TxRunner)(nil)
var _ equipment.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

func (r *TxRunner) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Run inicia una transacción con los repos del ledger de consumibles y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	consumableRepo repository.ConsumableRepository,
	lotRepo repository.DonationLotRepository,
	loanRepo repository.LoanRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewConsumableRepository(tx), NewDonationLotRepository(tx), NewLoanRepository(tx))
	})
}

// RunEquipment inicia una transacción con los repos de lotes de material y préstamos.
func (r *TxRunner) RunEquipment(ctx context.Context, fn func(
	lotRepo repository.EquipmentLotRepository,
	loanRepo repository.LoanRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewEquipmentLotRepository(tx), NewLoanRepository(tx))
	})
}
