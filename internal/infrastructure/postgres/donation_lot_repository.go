package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Materiel-api/internal/domain/entity"
	"github.com/jhoicas/Materiel-api/internal/domain/repository"
)

var _ repository.DonationLotRepository = (*DonationLotRepo)(nil)

// DonationLotRepo lotes de consumible (entradas de stock).
type DonationLotRepo struct {
	q Querier
}

// NewDonationLotRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDonationLotRepository(q Querier) *DonationLotRepo {
	return &DonationLotRepo{q: q}
}

const donationLotSelect = `
	SELECT l.id_lot_consommable, l.id_consommable, l.id_donneur, l.quantite_don, l.pu, l.date_don_consommable,
	       c.nom_consommable, COALESCE(d.nom_donneur, '')
	FROM lot_consommable l
	JOIN consommable c ON c.id_consommable = l.id_consommable
	LEFT JOIN donneur d ON d.id_donneur = l.id_donneur`

func scanDonationLot(row pgx.Row) (*entity.DonationLot, error) {
	var l entity.DonationLot
	if err := row.Scan(&l.ID, &l.ConsumableID, &l.DonorID, &l.Quantity, &l.UnitPrice, &l.DonationDate,
		&l.ConsumableName, &l.DonorName); err != nil {
		return nil, err
	}
	return &l, nil
}

// Create persiste un lote.
func (r *DonationLotRepo) Create(ctx context.Context, lot *entity.DonationLot) error {
	query := `
		INSERT INTO lot_consommable (id_consommable, id_donneur, quantite_don, pu, date_don_consommable)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id_lot_consommable`
	err := r.q.QueryRow(ctx, query, lot.ConsumableID, lot.DonorID, lot.Quantity, lot.UnitPrice, lot.DonationDate).Scan(&lot.ID)
	if err != nil {
		return wrapWrite("insert lot_consommable", err)
	}
	return nil
}

func (r *DonationLotRepo) get(ctx context.Context, query string, id int64) (*entity.DonationLot, error) {
	l, err := scanDonationLot(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lot_consommable: %w", err)
	}
	return l, nil
}

// GetByID obtiene un lote por ID.
func (r *DonationLotRepo) GetByID(ctx context.Context, id int64) (*entity.DonationLot, error) {
	return r.get(ctx, donationLotSelect+` WHERE l.id_lot_consommable = $1`, id)
}

// GetForUpdate obtiene el lote bloqueando su fila.
func (r *DonationLotRepo) GetForUpdate(ctx context.Context, id int64) (*entity.DonationLot, error) {
	return r.get(ctx, donationLotSelect+` WHERE l.id_lot_consommable = $1 FOR UPDATE OF l`, id)
}

// Update modifica consumible, donante, cantidad, PU y fecha del lote.
func (r *DonationLotRepo) Update(ctx context.Context, lot *entity.DonationLot) error {
	query := `
		UPDATE lot_consommable
		SET id_consommable = $2, id_donneur = $3, quantite_don = $4, pu = $5, date_don_consommable = $6
		WHERE id_lot_consommable = $1`
	tag, err := r.q.Exec(ctx, query, lot.ID, lot.ConsumableID, lot.DonorID, lot.Quantity, lot.UnitPrice, lot.DonationDate)
	if err != nil {
		return wrapWrite("update lot_consommable", err)
	}
	return affected(tag, fmt.Sprintf("lot_consommable %d", lot.ID))
}

// Delete borra un lote.
func (r *DonationLotRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM lot_consommable WHERE id_lot_consommable = $1`, id)
	if err != nil {
		return wrapWrite("delete lot_consommable", err)
	}
	return affected(tag, fmt.Sprintf("lot_consommable %d", id))
}

// List lotes del más reciente al más antiguo, filtrando por consumible si consumableID != nil.
func (r *DonationLotRepo) List(ctx context.Context, consumableID *int64) ([]*entity.DonationLot, error) {
	query := donationLotSelect + `
		WHERE ($1::bigint IS NULL OR l.id_consommable = $1)
		ORDER BY l.date_don_consommable DESC, l.id_lot_consommable DESC`
	rows, err := r.q.Query(ctx, query, consumableID)
	if err != nil {
		return nil, fmt.Errorf("list lot_consommable: %w", err)
	}
	defer rows.Close()
	var list []*entity.DonationLot
	for rows.Next() {
		l, err := scanDonationLot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lot_consommable: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

// Count número de lotes.
func (r *DonationLotRepo) Count(ctx context.Context) (int, error) {
	return scanCount(ctx, r.q, "count lot_consommable", `SELECT COUNT(*) FROM lot_consommable`)
}
