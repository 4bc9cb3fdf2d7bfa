package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Materiel-api/internal/domain/entity"
	"github.com/jhoicas/Materiel-api/internal/domain/repository"
)

var _ repository.ConsumableRepository = (*ConsumableRepo)(nil)

// ConsumableRepo implementación de ConsumableRepository sobre PostgreSQL (usable con pool o tx).
type ConsumableRepo struct {
	q Querier
}

// NewConsumableRepository construye el adaptador. Pasar pool o tx (Querier).
func NewConsumableRepository(q Querier) *ConsumableRepo {
	return &ConsumableRepo{q: q}
}

const consumableSelect = `
	SELECT c.id_consommable, c.nom_consommable, c.reference_consommable, c.unite, c.prix_unitaire,
	       c.quantite_consommable, c.id_classe, COALESCE(cl.nom_classe, ''), COALESCE(cl.code_classe, '')
	FROM consommable c
	LEFT JOIN classe cl ON cl.id_classe = c.id_classe`

func scanConsumable(row pgx.Row) (*entity.Consumable, error) {
	var c entity.Consumable
	err := row.Scan(&c.ID, &c.Name, &c.Reference, &c.Unit, &c.UnitPrice,
		&c.QuantityOnHand, &c.ClassID, &c.ClassName, &c.ClassCode)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create persiste un consumible con su cantidad inicial.
func (r *ConsumableRepo) Create(ctx context.Context, c *entity.Consumable) error {
	query := `
		INSERT INTO consommable (nom_consommable, reference_consommable, unite, prix_unitaire, quantite_consommable, id_classe)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id_consommable`
	err := r.q.QueryRow(ctx, query, c.Name, c.Reference, c.Unit, c.UnitPrice, c.QuantityOnHand, c.ClassID).Scan(&c.ID)
	if err != nil {
		return wrapWrite("insert consommable", err)
	}
	return nil
}

// GetByID obtiene un consumible por ID.
func (r *ConsumableRepo) GetByID(ctx context.Context, id int64) (*entity.Consumable, error) {
	c, err := scanConsumable(r.q.QueryRow(ctx, consumableSelect+` WHERE c.id_consommable = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get consommable: %w", err)
	}
	return c, nil
}

// GetForUpdate obtiene el consumible y bloquea su fila (SELECT FOR UPDATE OF c).
func (r *ConsumableRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Consumable, error) {
	c, err := scanConsumable(r.q.QueryRow(ctx, consumableSelect+` WHERE c.id_consommable = $1 FOR UPDATE OF c`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get consommable for update: %w", err)
	}
	return c, nil
}

// Update modifica los campos de catálogo. La cantidad no se toca.
func (r *ConsumableRepo) Update(ctx context.Context, c *entity.Consumable) error {
	query := `
		UPDATE consommable
		SET nom_consommable = $2, reference_consommable = $3, unite = $4, prix_unitaire = $5, id_classe = $6
		WHERE id_consommable = $1`
	tag, err := r.q.Exec(ctx, query, c.ID, c.Name, c.Reference, c.Unit, c.UnitPrice, c.ClassID)
	if err != nil {
		return wrapWrite("update consommable", err)
	}
	return affected(tag, fmt.Sprintf("consommable %d", c.ID))
}

// UpdateQuantity fija la cantidad disponible (el CHECK >= 0 de la tabla da ErrInvalidState).
func (r *ConsumableRepo) UpdateQuantity(ctx context.Context, id int64, qty int) error {
	tag, err := r.q.Exec(ctx, `UPDATE consommable SET quantite_consommable = $2 WHERE id_consommable = $1`, id, qty)
	if err != nil {
		return wrapWrite("update quantite_consommable", err)
	}
	return affected(tag, fmt.Sprintf("consommable %d", id))
}

// UpdateUnitPrice fija el último precio unitario conocido.
func (r *ConsumableRepo) UpdateUnitPrice(ctx context.Context, id int64, price decimal.Decimal) error {
	tag, err := r.q.Exec(ctx, `UPDATE consommable SET prix_unitaire = $2 WHERE id_consommable = $1`, id, price)
	if err != nil {
		return wrapWrite("update prix_unitaire", err)
	}
	return affected(tag, fmt.Sprintf("consommable %d", id))
}

// List todos los consumibles ordenados por nombre.
func (r *ConsumableRepo) List(ctx context.Context) ([]*entity.Consumable, error) {
	rows, err := r.q.Query(ctx, consumableSelect+` ORDER BY c.nom_consommable, c.id_consommable`)
	if err != nil {
		return nil, fmt.Errorf("list consommables: %w", err)
	}
	defer rows.Close()
	var list []*entity.Consumable
	for rows.Next() {
		c, err := scanConsumable(rows)
		if err != nil {
			return nil, fmt.Errorf("scan consommable: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// Delete borra un consumible; si tiene lotes o préstamos devuelve ErrConflict.
func (r *ConsumableRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM consommable WHERE id_consommable = $1`, id)
	if err != nil {
		return wrapWrite("delete consommable", err)
	}
	return affected(tag, fmt.Sprintf("consommable %d", id))
}

// Count número de consumibles.
func (r *ConsumableRepo) Count(ctx context.Context) (int, error) {
	return scanCount(ctx, r.q, "count consommables", `SELECT COUNT(*) FROM consommable`)
}
