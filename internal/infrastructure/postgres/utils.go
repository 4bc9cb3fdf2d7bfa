package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/Materiel-api/internal/domain"
)

// Querier es lo común a *pgxpool.Pool y pgx.Tx: los repositorios funcionan igual dentro o fuera
// de una transacción.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// isForeignKeyViolation 23503: la fila está referenciada o la referencia no existe.
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

// isCheckViolation 23514: por ejemplo quantite_consommable >= 0.
func isCheckViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23514"
}

// mapWriteErr traduce las violaciones de constraint a errores de dominio.
func mapWriteErr(err error) error {
	switch {
	case isUniqueViolation(err):
		return domain.ErrDuplicate
	case isForeignKeyViolation(err):
		return domain.ErrConflict
	case isCheckViolation(err):
		return domain.ErrInvalidState
	}
	return nil
}

// wrapWrite envuelve el error del driver, o devuelve el error de dominio equivalente.
func wrapWrite(op string, err error) error {
	if mapped := mapWriteErr(err); mapped != nil {
		return fmt.Errorf("%s: %w", op, mapped)
	}
	return errorf(op, err)
}

func errorf(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}

// scanCount ejecuta un SELECT COUNT(*).
func scanCount(ctx context.Context, q Querier, op, query string, args ...any) (int, error) {
	var n int
	if err := q.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, errorf(op, err)
	}
	return n, nil
}

// affected devuelve ErrNotFound si el UPDATE/DELETE no tocó ninguna fila.
func affected(tag pgconn.CommandTag, what string) error {
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, what)
	}
	return nil
}
