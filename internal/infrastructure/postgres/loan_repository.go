package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Materiel-api/internal/domain"
	"github.com/jhoicas/Materiel-api/internal/domain/entity"
	"github.com/jhoicas/Materiel-api/internal/domain/repository"
)

var _ repository.LoanRepository = (*LoanRepo)(nil)

// LoanRepo préstamos (tabla pret): de lote de material o de consumible.
type LoanRepo struct {
	q Querier
}

// NewLoanRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLoanRepository(q Querier) *LoanRepo {
	return &LoanRepo{q: q}
}

const loanSelect = `
	SELECT p.id_pret, p.id_service, p.id_lot, p.id_consommable, p.quantite_pret, p.pu_envoie,
	       p.date_envoi, p.date_retour,
	       COALESCE(s.nom_service, ''), COALESCE(c.nom_consommable, ''),
	       l.id_materiel, COALESCE(m.nom_materiel, ''), COALESCE(l.numero, '')
	FROM pret p
	LEFT JOIN service s ON s.id_service = p.id_service
	LEFT JOIN consommable c ON c.id_consommable = p.id_consommable
	LEFT JOIN lot_materiel l ON l.id_lot = p.id_lot
	LEFT JOIN materiel m ON m.id_materiel = l.id_materiel`

// loanWhere filtros comunes de List y Count ($1 kind, $2 service, $3 consommable, $4 lot).
const loanWhere = `
	WHERE ($1::text = '' OR ($1::text = 'equipment' AND p.id_lot IS NOT NULL) OR ($1::text = 'consumable' AND p.id_consommable IS NOT NULL))
	  AND ($2::bigint IS NULL OR p.id_service = $2)
	  AND ($3::bigint IS NULL OR p.id_consommable = $3)
	  AND ($4::bigint IS NULL OR p.id_lot = $4)`

func scanLoan(row pgx.Row) (*entity.Loan, error) {
	var l entity.Loan
	if err := row.Scan(&l.ID, &l.ServiceID, &l.LotID, &l.ConsumableID, &l.Quantity, &l.UnitPrice,
		&l.SendDate, &l.ReturnDate,
		&l.ServiceName, &l.ConsumableName, &l.MaterialID, &l.MaterialName, &l.LotSerial); err != nil {
		return nil, err
	}
	return &l, nil
}

func filterArgs(f repository.LoanFilter) []any {
	return []any{f.Kind, f.ServiceID, f.ConsumableID, f.LotID}
}

// Create persiste un préstamo. Un segundo préstamo abierto del mismo lote viola el índice
// pret_lot_ouvert_uniq y se devuelve como ErrConflict.
func (r *LoanRepo) Create(ctx context.Context, loan *entity.Loan) error {
	query := `
		INSERT INTO pret (id_service, id_lot, id_consommable, quantite_pret, pu_envoie, date_envoi, date_retour)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id_pret`
	err := r.q.QueryRow(ctx, query, loan.ServiceID, loan.LotID, loan.ConsumableID, loan.Quantity,
		loan.UnitPrice, loan.SendDate, loan.ReturnDate).Scan(&loan.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: le lot a déjà un prêt ouvert", domain.ErrConflict)
		}
		return wrapWrite("insert pret", err)
	}
	return nil
}

func (r *LoanRepo) get(ctx context.Context, query string, id int64) (*entity.Loan, error) {
	l, err := scanLoan(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get pret: %w", err)
	}
	return l, nil
}

// GetByID obtiene un préstamo por ID.
func (r *LoanRepo) GetByID(ctx context.Context, id int64) (*entity.Loan, error) {
	return r.get(ctx, loanSelect+` WHERE p.id_pret = $1`, id)
}

// GetForUpdate obtiene el préstamo bloqueando solo su fila (no las de los JOIN).
func (r *LoanRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Loan, error) {
	return r.get(ctx, loanSelect+` WHERE p.id_pret = $1 FOR UPDATE OF p`, id)
}

// Update reescribe los campos del préstamo.
func (r *LoanRepo) Update(ctx context.Context, loan *entity.Loan) error {
	query := `
		UPDATE pret
		SET id_service = $2, id_lot = $3, id_consommable = $4, quantite_pret = $5, pu_envoie = $6,
		    date_envoi = $7, date_retour = $8
		WHERE id_pret = $1`
	tag, err := r.q.Exec(ctx, query, loan.ID, loan.ServiceID, loan.LotID, loan.ConsumableID, loan.Quantity,
		loan.UnitPrice, loan.SendDate, loan.ReturnDate)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: le lot a déjà un prêt ouvert", domain.ErrConflict)
		}
		return wrapWrite("update pret", err)
	}
	return affected(tag, fmt.Sprintf("prêt %d", loan.ID))
}

// Delete borra un préstamo.
func (r *LoanRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM pret WHERE id_pret = $1`, id)
	if err != nil {
		return wrapWrite("delete pret", err)
	}
	return affected(tag, fmt.Sprintf("prêt %d", id))
}

// List préstamos filtrados, del más reciente al más antiguo.
func (r *LoanRepo) List(ctx context.Context, f repository.LoanFilter) ([]*entity.Loan, error) {
	rows, err := r.q.Query(ctx, loanSelect+loanWhere+` ORDER BY p.date_envoi DESC, p.id_pret DESC`, filterArgs(f)...)
	if err != nil {
		return nil, fmt.Errorf("list pret: %w", err)
	}
	defer rows.Close()
	var list []*entity.Loan
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pret: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

// Count número de préstamos filtrados.
func (r *LoanRepo) Count(ctx context.Context, f repository.LoanFilter) (int, error) {
	return scanCount(ctx, r.q, "count pret", `SELECT COUNT(*) FROM pret p`+loanWhere, filterArgs(f)...)
}

// ExistsConsumableLoanSince indica si hay préstamos del consumible con date_envoi >= since.
func (r *LoanRepo) ExistsConsumableLoanSince(ctx context.Context, consumableID int64, since time.Time) (bool, error) {
	var ok bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM pret WHERE id_consommable = $1 AND date_envoi >= $2)`,
		consumableID, since,
	).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("exists pret consommable: %w", err)
	}
	return ok, nil
}

// HasOpenLoanForLot indica si el lote tiene un préstamo sin fecha de retorno.
func (r *LoanRepo) HasOpenLoanForLot(ctx context.Context, lotID int64) (bool, error) {
	var ok bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM pret WHERE id_lot = $1 AND date_retour IS NULL)`, lotID,
	).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("exists pret ouvert: %w", err)
	}
	return ok, nil
}

// DeleteClosedForLot borra el historial cerrado de un lote (paso previo a borrar el lote).
func (r *LoanRepo) DeleteClosedForLot(ctx context.Context, lotID int64) (int, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM pret WHERE id_lot = $1 AND date_retour IS NOT NULL`, lotID)
	if err != nil {
		return 0, wrapWrite("delete pret fermés", err)
	}
	return int(tag.RowsAffected()), nil
}
