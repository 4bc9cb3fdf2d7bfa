package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Materiel-api/internal/domain/entity"
	"github.com/jhoicas/Materiel-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas de agregación read-only (reportes y dashboard).
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el adaptador.
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

// collect recorre rows aplicando scan a cada fila.
func collect[T any](rows pgx.Rows, op string, scan func(pgx.Rows, *T) error) ([]T, error) {
	defer rows.Close()
	var out []T
	for rows.Next() {
		var v T
		if err := scan(rows, &v); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

// EarliestLoanDate primer envío de consumible (del servicio o global).
func (r *ReportRepo) EarliestLoanDate(ctx context.Context, serviceID *int64) (*time.Time, error) {
	var t *time.Time
	err := r.q.QueryRow(ctx, `
		SELECT MIN(date_envoi) FROM pret
		WHERE id_consommable IS NOT NULL AND ($1::bigint IS NULL OR id_service = $1)`, serviceID,
	).Scan(&t)
	if err != nil {
		return nil, fmt.Errorf("premier envoi: %w", err)
	}
	return t, nil
}

// ConsumableCatalog consumibles con su clase, ordenados por código de clase y nombre.
func (r *ReportRepo) ConsumableCatalog(ctx context.Context) ([]repository.CatalogConsumableResult, error) {
	rows, err := r.q.Query(ctx, `
		SELECT c.id_consommable, c.nom_consommable, c.unite, c.prix_unitaire, c.id_classe,
		       COALESCE(cl.code_classe, ''), COALESCE(cl.nom_classe, '')
		FROM consommable c
		LEFT JOIN classe cl ON cl.id_classe = c.id_classe
		ORDER BY cl.code_classe NULLS FIRST, c.nom_consommable`)
	if err != nil {
		return nil, fmt.Errorf("catalogue consommables: %w", err)
	}
	return collect(rows, "catalogue consommables", func(rows pgx.Rows, v *repository.CatalogConsumableResult) error {
		return rows.Scan(&v.ConsumableID, &v.Name, &v.Unit, &v.UnitPrice, &v.ClassID, &v.ClassCode, &v.ClassName)
	})
}

// ConsumableMonthly agregados por consumible y mes UTC de los envíos al servicio en [start, end].
func (r *ReportRepo) ConsumableMonthly(ctx context.Context, serviceID int64, start, end time.Time) ([]repository.ConsumableMonthResult, error) {
	rows, err := r.q.Query(ctx, `
		SELECT p.id_consommable,
		       TO_CHAR(DATE_TRUNC('month', p.date_envoi AT TIME ZONE 'UTC'), 'YYYY-MM') AS mois,
		       COALESCE(SUM(p.quantite_pret) FILTER (WHERE p.pu_envoie IS NOT NULL), 0),
		       COALESCE(SUM(p.quantite_pret * p.pu_envoie) FILTER (WHERE p.pu_envoie IS NOT NULL), 0),
		       COALESCE(SUM(p.quantite_pret) FILTER (WHERE p.pu_envoie IS NULL), 0)
		FROM pret p
		WHERE p.id_consommable IS NOT NULL
		  AND p.id_service = $1
		  AND p.date_envoi >= $2 AND p.date_envoi <= $3
		GROUP BY p.id_consommable, mois`, serviceID, start, end)
	if err != nil {
		return nil, fmt.Errorf("dépense mensuelle: %w", err)
	}
	return collect(rows, "dépense mensuelle", func(rows pgx.Rows, v *repository.ConsumableMonthResult) error {
		return rows.Scan(&v.ConsumableID, &v.Month, &v.PaidQty, &v.PaidAmount, &v.DonatedQty)
	})
}

// ServiceInventory lotes distintos prestados al servicio, por material y estado actual del lote.
func (r *ReportRepo) ServiceInventory(ctx context.Context, serviceID int64, classID *int64, from, to *time.Time) ([]repository.InventoryResult, error) {
	rows, err := r.q.Query(ctx, `
		SELECT m.id_materiel, m.nom_materiel, m.id_classe, COALESCE(cl.nom_classe, 'Sans classe'), l.etat,
		       COUNT(DISTINCT l.id_lot)
		FROM pret p
		JOIN lot_materiel l ON l.id_lot = p.id_lot
		JOIN materiel m ON m.id_materiel = l.id_materiel
		LEFT JOIN classe cl ON cl.id_classe = m.id_classe
		WHERE p.id_service = $1
		  AND ($2::bigint IS NULL OR m.id_classe = $2)
		  AND ($3::timestamptz IS NULL OR p.date_envoi >= $3)
		  AND ($4::timestamptz IS NULL OR p.date_envoi < $4)
		GROUP BY m.id_materiel, m.nom_materiel, m.id_classe, cl.nom_classe, l.etat`,
		serviceID, classID, from, to)
	if err != nil {
		return nil, fmt.Errorf("inventaire: %w", err)
	}
	return collect(rows, "inventaire", func(rows pgx.Rows, v *repository.InventoryResult) error {
		var cond string
		if err := rows.Scan(&v.MaterialID, &v.MaterialName, &v.ClassID, &v.ClassName, &cond, &v.Lots); err != nil {
			return err
		}
		v.Condition = entity.Condition(cond)
		return nil
	})
}

// TopConsumables consumibles más enviados al servicio; coste con pu_envoie o, si falta, prix_unitaire.
func (r *ReportRepo) TopConsumables(ctx context.Context, serviceID int64, limit int) ([]repository.TopConsumableResult, error) {
	rows, err := r.q.Query(ctx, `
		SELECT c.id_consommable, c.nom_consommable, c.unite,
		       SUM(p.quantite_pret),
		       SUM(p.quantite_pret * COALESCE(p.pu_envoie, c.prix_unitaire, 0)),
		       COUNT(*),
		       MAX(p.date_envoi)
		FROM pret p
		JOIN consommable c ON c.id_consommable = p.id_consommable
		WHERE p.id_service = $1
		GROUP BY c.id_consommable, c.nom_consommable, c.unite
		ORDER BY SUM(p.quantite_pret) DESC, c.nom_consommable
		LIMIT $2`, serviceID, limit)
	if err != nil {
		return nil, fmt.Errorf("top consommables: %w", err)
	}
	return collect(rows, "top consommables", func(rows pgx.Rows, v *repository.TopConsumableResult) error {
		return rows.Scan(&v.ConsumableID, &v.Name, &v.Unit, &v.TotalQty, &v.TotalCost, &v.LoanCount, &v.LastLoan)
	})
}

// StockEvents entradas (lotes) y salidas (préstamos) de un consumible.
func (r *ReportRepo) StockEvents(ctx context.Context, consumableID int64) ([]repository.StockEventResult, error) {
	rows, err := r.q.Query(ctx, `
		SELECT date_don_consommable, TRUE, quantite_don, ''
		FROM lot_consommable
		WHERE id_consommable = $1
		UNION ALL
		SELECT p.date_envoi, FALSE, p.quantite_pret, COALESCE(s.nom_service, '')
		FROM pret p
		LEFT JOIN service s ON s.id_service = p.id_service
		WHERE p.id_consommable = $1`, consumableID)
	if err != nil {
		return nil, fmt.Errorf("fiche de stock: %w", err)
	}
	return collect(rows, "fiche de stock", func(rows pgx.Rows, v *repository.StockEventResult) error {
		return rows.Scan(&v.Date, &v.Entry, &v.Quantity, &v.ServiceName)
	})
}

// EquipmentLoansPerService número de préstamos de material por servicio.
func (r *ReportRepo) EquipmentLoansPerService(ctx context.Context) ([]repository.ServiceCountResult, error) {
	rows, err := r.q.Query(ctx, `
		SELECT COALESCE(s.nom_service, ''), COUNT(*)
		FROM pret p
		LEFT JOIN service s ON s.id_service = p.id_service
		WHERE p.id_lot IS NOT NULL
		GROUP BY s.nom_service
		ORDER BY COUNT(*) DESC, s.nom_service`)
	if err != nil {
		return nil, fmt.Errorf("matériel par service: %w", err)
	}
	return collect(rows, "matériel par service", func(rows pgx.Rows, v *repository.ServiceCountResult) error {
		return rows.Scan(&v.ServiceName, &v.Count)
	})
}

// ConsumablesInStock consumibles con cantidad > 0.
func (r *ReportRepo) ConsumablesInStock(ctx context.Context) ([]repository.ConsumableStockResult, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id_consommable, nom_consommable, reference_consommable, quantite_consommable
		FROM consommable
		WHERE quantite_consommable > 0
		ORDER BY nom_consommable`)
	if err != nil {
		return nil, fmt.Errorf("consommables en stock: %w", err)
	}
	return collect(rows, "consommables en stock", func(rows pgx.Rows, v *repository.ConsumableStockResult) error {
		return rows.Scan(&v.ConsumableID, &v.Name, &v.Reference, &v.Quantity)
	})
}

// ConsumablesLoanedPerService cantidades enviadas por consumible y servicio.
func (r *ReportRepo) ConsumablesLoanedPerService(ctx context.Context) ([]repository.LoanedQuantityResult, error) {
	rows, err := r.q.Query(ctx, `
		SELECT c.nom_consommable, COALESCE(s.nom_service, ''), SUM(p.quantite_pret)
		FROM pret p
		JOIN consommable c ON c.id_consommable = p.id_consommable
		LEFT JOIN service s ON s.id_service = p.id_service
		GROUP BY c.nom_consommable, s.nom_service`)
	if err != nil {
		return nil, fmt.Errorf("consommables prêtés: %w", err)
	}
	return collect(rows, "consommables prêtés", func(rows pgx.Rows, v *repository.LoanedQuantityResult) error {
		return rows.Scan(&v.ItemName, &v.ServiceName, &v.Quantity)
	})
}

// EquipmentInUsePerService lotes con historial por material y servicio de su último préstamo.
func (r *ReportRepo) EquipmentInUsePerService(ctx context.Context) ([]repository.LoanedQuantityResult, error) {
	rows, err := r.q.Query(ctx, `
		WITH dernier AS (
			SELECT DISTINCT ON (p.id_lot) p.id_lot, p.id_service
			FROM pret p
			WHERE p.id_lot IS NOT NULL
			ORDER BY p.id_lot, p.date_envoi DESC, p.id_pret DESC
		)
		SELECT m.nom_materiel, COALESCE(s.nom_service, ''), COUNT(*)
		FROM dernier d
		JOIN lot_materiel l ON l.id_lot = d.id_lot
		JOIN materiel m ON m.id_materiel = l.id_materiel
		LEFT JOIN service s ON s.id_service = d.id_service
		GROUP BY m.nom_materiel, s.nom_service`)
	if err != nil {
		return nil, fmt.Errorf("matériel occupé: %w", err)
	}
	return collect(rows, "matériel occupé", func(rows pgx.Rows, v *repository.LoanedQuantityResult) error {
		return rows.Scan(&v.ItemName, &v.ServiceName, &v.Quantity)
	})
}
