package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Materiel-api/internal/domain/entity"
	"github.com/jhoicas/Materiel-api/internal/domain/repository"
)

var _ repository.EquipmentLotRepository = (*EquipmentLotRepo)(nil)

// EquipmentLotRepo lotes de material (unidades serializadas).
type EquipmentLotRepo struct {
	q Querier
}

// NewEquipmentLotRepository construye el adaptador. Pasar pool o tx (Querier).
func NewEquipmentLotRepository(q Querier) *EquipmentLotRepo {
	return &EquipmentLotRepo{q: q}
}

const lotSelect = `
	SELECT l.id_lot, l.id_materiel, l.id_donneur, l.numero, l.etat, l.date_don, l.code,
	       m.nom_materiel, COALESCE(d.nom_donneur, '')
	FROM lot_materiel l
	JOIN materiel m ON m.id_materiel = l.id_materiel
	LEFT JOIN donneur d ON d.id_donneur = l.id_donneur`

const lotOrder = ` ORDER BY m.nom_materiel, l.numero, l.id_lot`

func scanLot(row pgx.Row) (*entity.EquipmentLot, error) {
	var l entity.EquipmentLot
	var cond string
	if err := row.Scan(&l.ID, &l.MaterialID, &l.DonorID, &l.Serial, &cond, &l.DonationDate, &l.Code,
		&l.MaterialName, &l.DonorName); err != nil {
		return nil, err
	}
	l.Condition = entity.Condition(cond)
	return &l, nil
}

func (r *EquipmentLotRepo) list(ctx context.Context, op, query string, args ...any) ([]*entity.EquipmentLot, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()
	var list []*entity.EquipmentLot
	for rows.Next() {
		l, err := scanLot(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

func (r *EquipmentLotRepo) get(ctx context.Context, query string, id int64) (*entity.EquipmentLot, error) {
	l, err := scanLot(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lot_materiel: %w", err)
	}
	return l, nil
}

// Create persiste un lote; el código se asigna después con Update (depende del ID).
func (r *EquipmentLotRepo) Create(ctx context.Context, lot *entity.EquipmentLot) error {
	query := `
		INSERT INTO lot_materiel (id_materiel, id_donneur, numero, etat, date_don, code)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id_lot`
	err := r.q.QueryRow(ctx, query, lot.MaterialID, lot.DonorID, lot.Serial, string(lot.Condition), lot.DonationDate, lot.Code).Scan(&lot.ID)
	if err != nil {
		return wrapWrite("insert lot_materiel", err)
	}
	return nil
}

// GetByID obtiene un lote por ID.
func (r *EquipmentLotRepo) GetByID(ctx context.Context, id int64) (*entity.EquipmentLot, error) {
	return r.get(ctx, lotSelect+` WHERE l.id_lot = $1`, id)
}

// GetForUpdate obtiene el lote bloqueando su fila.
func (r *EquipmentLotRepo) GetForUpdate(ctx context.Context, id int64) (*entity.EquipmentLot, error) {
	return r.get(ctx, lotSelect+` WHERE l.id_lot = $1 FOR UPDATE OF l`, id)
}

// Update reescribe todos los campos del lote, código incluido.
func (r *EquipmentLotRepo) Update(ctx context.Context, lot *entity.EquipmentLot) error {
	query := `
		UPDATE lot_materiel
		SET id_materiel = $2, id_donneur = $3, numero = $4, etat = $5, date_don = $6, code = $7
		WHERE id_lot = $1`
	tag, err := r.q.Exec(ctx, query, lot.ID, lot.MaterialID, lot.DonorID, lot.Serial, string(lot.Condition), lot.DonationDate, lot.Code)
	if err != nil {
		return wrapWrite("update lot_materiel", err)
	}
	return affected(tag, fmt.Sprintf("lot %d", lot.ID))
}

// Delete borra un lote. Con historial de préstamos devuelve ErrConflict (FK).
func (r *EquipmentLotRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM lot_materiel WHERE id_lot = $1`, id)
	if err != nil {
		return wrapWrite("delete lot_materiel", err)
	}
	return affected(tag, fmt.Sprintf("lot %d", id))
}

// List todos los lotes.
func (r *EquipmentLotRepo) List(ctx context.Context) ([]*entity.EquipmentLot, error) {
	return r.list(ctx, "list lot_materiel", lotSelect+lotOrder)
}

// ListByService lotes prestados alguna vez al servicio.
func (r *EquipmentLotRepo) ListByService(ctx context.Context, serviceID int64) ([]*entity.EquipmentLot, error) {
	query := lotSelect + `
		WHERE EXISTS (SELECT 1 FROM pret p WHERE p.id_lot = l.id_lot AND p.id_service = $1)` + lotOrder
	return r.list(ctx, "list lot_materiel par service", query, serviceID)
}

// Count número de lotes.
func (r *EquipmentLotRepo) Count(ctx context.Context) (int, error) {
	return scanCount(ctx, r.q, "count lot_materiel", `SELECT COUNT(*) FROM lot_materiel`)
}

// CountByMaterial número de lotes de un material.
func (r *EquipmentLotRepo) CountByMaterial(ctx context.Context, materialID int64) (int, error) {
	return scanCount(ctx, r.q, "count lot_materiel par materiel",
		`SELECT COUNT(*) FROM lot_materiel WHERE id_materiel = $1`, materialID)
}

// CountByCondition número de lotes por estado (solo los estados presentes).
func (r *EquipmentLotRepo) CountByCondition(ctx context.Context) ([]repository.ConditionCount, error) {
	rows, err := r.q.Query(ctx, `SELECT etat, COUNT(*) FROM lot_materiel GROUP BY etat`)
	if err != nil {
		return nil, fmt.Errorf("count lot_materiel par etat: %w", err)
	}
	defer rows.Close()
	var out []repository.ConditionCount
	for rows.Next() {
		var cond string
		var n int
		if err := rows.Scan(&cond, &n); err != nil {
			return nil, fmt.Errorf("scan etat: %w", err)
		}
		out = append(out, repository.ConditionCount{Condition: entity.Condition(cond), Count: n})
	}
	return out, rows.Err()
}

// CountOpenByService lotes con préstamo abierto en el servicio.
func (r *EquipmentLotRepo) CountOpenByService(ctx context.Context, serviceID int64) (int, error) {
	return scanCount(ctx, r.q, "count lots ouverts par service", `
		SELECT COUNT(DISTINCT id_lot) FROM pret
		WHERE id_lot IS NOT NULL AND id_service = $1 AND date_retour IS NULL`, serviceID)
}

// ListNeverLoanedForUpdate lotes del material sin ningún préstamo, bloqueados para el envío aleatorio.
func (r *EquipmentLotRepo) ListNeverLoanedForUpdate(ctx context.Context, materialID int64) ([]*entity.EquipmentLot, error) {
	query := lotSelect + `
		WHERE l.id_materiel = $1
		  AND NOT EXISTS (SELECT 1 FROM pret p WHERE p.id_lot = l.id_lot)
		ORDER BY l.id_lot
		FOR UPDATE OF l`
	return r.list(ctx, "list lots jamais prêtés (verrou)", query, materialID)
}

// ListNeverLoaned lotes sin ningún préstamo en su historial.
func (r *EquipmentLotRepo) ListNeverLoaned(ctx context.Context) ([]*entity.EquipmentLot, error) {
	query := lotSelect + `
		WHERE NOT EXISTS (SELECT 1 FROM pret p WHERE p.id_lot = l.id_lot)` + lotOrder
	return r.list(ctx, "list lots jamais prêtés", query)
}

// ListWithoutOpenLoan lotes sin préstamo abierto (devueltos o nunca prestados).
func (r *EquipmentLotRepo) ListWithoutOpenLoan(ctx context.Context) ([]*entity.EquipmentLot, error) {
	query := lotSelect + `
		WHERE NOT EXISTS (SELECT 1 FROM pret p WHERE p.id_lot = l.id_lot AND p.date_retour IS NULL)` + lotOrder
	return r.list(ctx, "list lots sans prêt ouvert", query)
}

// LatestServicePerLot servicio del préstamo más reciente de cada lote del material.
func (r *EquipmentLotRepo) LatestServicePerLot(ctx context.Context, materialID int64) ([]repository.LotServiceRow, error) {
	query := `
		SELECT l.id_lot, last.nom_service
		FROM lot_materiel l
		LEFT JOIN LATERAL (
			SELECT COALESCE(s.nom_service, 'Autre') AS nom_service
			FROM pret p
			LEFT JOIN service s ON s.id_service = p.id_service
			WHERE p.id_lot = l.id_lot
			ORDER BY p.date_envoi DESC, p.id_pret DESC
			LIMIT 1
		) last ON TRUE
		WHERE l.id_materiel = $1
		ORDER BY l.id_lot`
	rows, err := r.q.Query(ctx, query, materialID)
	if err != nil {
		return nil, fmt.Errorf("distribution lots: %w", err)
	}
	defer rows.Close()
	var out []repository.LotServiceRow
	for rows.Next() {
		var row repository.LotServiceRow
		if err := rows.Scan(&row.LotID, &row.ServiceName); err != nil {
			return nil, fmt.Errorf("scan distribution: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
