package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Materiel-api/internal/domain/entity"
	"github.com/jhoicas/Materiel-api/internal/domain/repository"
)

var (
	_ repository.ServiceRepository  = (*CatalogRepo[entity.Service])(nil)
	_ repository.DonorRepository    = (*CatalogRepo[entity.Donor])(nil)
	_ repository.ClassRepository    = (*CatalogRepo[entity.Class])(nil)
	_ repository.MaterialRepository = (*CatalogRepo[entity.Material])(nil)
	_ repository.CategoryRepository = (*CatalogRepo[entity.Category])(nil)
)

// table describe una tabla de referencia: SQL y conversión de filas.
type table[T any] struct {
	label      string
	selectSQL  string // SELECT ... FROM ... (con JOIN si aplica), sin WHERE
	idColumn   string // columna calificada para WHERE id = $1
	orderBy    string
	insertSQL  string // INSERT ... RETURNING id
	updateSQL  string // UPDATE ... WHERE id = $1
	deleteSQL  string
	countSQL   string
	scan       func(pgx.Row) (*T, error)
	insertArgs func(*T) []any
	updateArgs func(*T) []any // el primer argumento es el ID
	setID      func(*T, int64)
	id         func(*T) int64
}

// CatalogRepo CRUD genérico de tablas de referencia (usable con pool o tx).
type CatalogRepo[T any] struct {
	q Querier
	t table[T]
}

// Create inserta la fila y rellena el ID.
func (r *CatalogRepo[T]) Create(ctx context.Context, item *T) error {
	var id int64
	if err := r.q.QueryRow(ctx, r.t.insertSQL, r.t.insertArgs(item)...).Scan(&id); err != nil {
		return wrapWrite("insert "+r.t.label, err)
	}
	r.t.setID(item, id)
	return nil
}

// GetByID devuelve nil, nil si no existe.
func (r *CatalogRepo[T]) GetByID(ctx context.Context, id int64) (*T, error) {
	item, err := r.t.scan(r.q.QueryRow(ctx, r.t.selectSQL+` WHERE `+r.t.idColumn+` = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s: %w", r.t.label, err)
	}
	return item, nil
}

// Update reescribe la fila.
func (r *CatalogRepo[T]) Update(ctx context.Context, item *T) error {
	tag, err := r.q.Exec(ctx, r.t.updateSQL, r.t.updateArgs(item)...)
	if err != nil {
		return wrapWrite("update "+r.t.label, err)
	}
	return affected(tag, fmt.Sprintf("%s %d", r.t.label, r.t.id(item)))
}

// Delete borra la fila; si está referenciada devuelve ErrConflict.
func (r *CatalogRepo[T]) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, r.t.deleteSQL, id)
	if err != nil {
		return wrapWrite("delete "+r.t.label, err)
	}
	return affected(tag, fmt.Sprintf("%s %d", r.t.label, id))
}

// List todas las filas.
func (r *CatalogRepo[T]) List(ctx context.Context) ([]*T, error) {
	rows, err := r.q.Query(ctx, r.t.selectSQL+` ORDER BY `+r.t.orderBy)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.t.label, err)
	}
	defer rows.Close()
	var list []*T
	for rows.Next() {
		item, err := r.t.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", r.t.label, err)
		}
		list = append(list, item)
	}
	return list, rows.Err()
}

// Count número de filas.
func (r *CatalogRepo[T]) Count(ctx context.Context) (int, error) {
	return scanCount(ctx, r.q, "count "+r.t.label, r.t.countSQL)
}

// NewServiceRepository tabla service.
func NewServiceRepository(q Querier) *CatalogRepo[entity.Service] {
	return &CatalogRepo[entity.Service]{q: q, t: table[entity.Service]{
		label:     "service",
		selectSQL: `SELECT id_service, nom_service FROM service`,
		idColumn:  "id_service",
		orderBy:   "nom_service, id_service",
		insertSQL: `INSERT INTO service (nom_service) VALUES ($1) RETURNING id_service`,
		updateSQL: `UPDATE service SET nom_service = $2 WHERE id_service = $1`,
		deleteSQL: `DELETE FROM service WHERE id_service = $1`,
		countSQL:  `SELECT COUNT(*) FROM service`,
		scan: func(row pgx.Row) (*entity.Service, error) {
			var s entity.Service
			return &s, row.Scan(&s.ID, &s.Name)
		},
		insertArgs: func(s *entity.Service) []any { return []any{s.Name} },
		updateArgs: func(s *entity.Service) []any { return []any{s.ID, s.Name} },
		setID:      func(s *entity.Service, id int64) { s.ID = id },
		id:         func(s *entity.Service) int64 { return s.ID },
	}}
}

// NewDonorRepository tabla donneur.
func NewDonorRepository(q Querier) *CatalogRepo[entity.Donor] {
	return &CatalogRepo[entity.Donor]{q: q, t: table[entity.Donor]{
		label:     "donneur",
		selectSQL: `SELECT id_donneur, nom_donneur FROM donneur`,
		idColumn:  "id_donneur",
		orderBy:   "nom_donneur, id_donneur",
		insertSQL: `INSERT INTO donneur (nom_donneur) VALUES ($1) RETURNING id_donneur`,
		updateSQL: `UPDATE donneur SET nom_donneur = $2 WHERE id_donneur = $1`,
		deleteSQL: `DELETE FROM donneur WHERE id_donneur = $1`,
		countSQL:  `SELECT COUNT(*) FROM donneur`,
		scan: func(row pgx.Row) (*entity.Donor, error) {
			var d entity.Donor
			return &d, row.Scan(&d.ID, &d.Name)
		},
		insertArgs: func(d *entity.Donor) []any { return []any{d.Name} },
		updateArgs: func(d *entity.Donor) []any { return []any{d.ID, d.Name} },
		setID:      func(d *entity.Donor, id int64) { d.ID = id },
		id:         func(d *entity.Donor) int64 { return d.ID },
	}}
}

// NewClassRepository tabla classe.
func NewClassRepository(q Querier) *CatalogRepo[entity.Class] {
	return &CatalogRepo[entity.Class]{q: q, t: table[entity.Class]{
		label:     "classe",
		selectSQL: `SELECT id_classe, code_classe, nom_classe FROM classe`,
		idColumn:  "id_classe",
		orderBy:   "code_classe, nom_classe",
		insertSQL: `INSERT INTO classe (code_classe, nom_classe) VALUES ($1, $2) RETURNING id_classe`,
		updateSQL: `UPDATE classe SET code_classe = $2, nom_classe = $3 WHERE id_classe = $1`,
		deleteSQL: `DELETE FROM classe WHERE id_classe = $1`,
		countSQL:  `SELECT COUNT(*) FROM classe`,
		scan: func(row pgx.Row) (*entity.Class, error) {
			var c entity.Class
			return &c, row.Scan(&c.ID, &c.Code, &c.Name)
		},
		insertArgs: func(c *entity.Class) []any { return []any{c.Code, c.Name} },
		updateArgs: func(c *entity.Class) []any { return []any{c.ID, c.Code, c.Name} },
		setID:      func(c *entity.Class, id int64) { c.ID = id },
		id:         func(c *entity.Class) int64 { return c.ID },
	}}
}

// NewMaterialRepository tabla materiel (con el nombre de su clase).
func NewMaterialRepository(q Querier) *CatalogRepo[entity.Material] {
	return &CatalogRepo[entity.Material]{q: q, t: table[entity.Material]{
		label: "materiel",
		selectSQL: `
			SELECT m.id_materiel, m.nom_materiel, m.id_classe, m.id_categorie, COALESCE(c.nom_classe, '')
			FROM materiel m
			LEFT JOIN classe c ON c.id_classe = m.id_classe`,
		idColumn:  "m.id_materiel",
		orderBy:   "m.nom_materiel, m.id_materiel",
		insertSQL: `INSERT INTO materiel (nom_materiel, id_classe, id_categorie) VALUES ($1, $2, $3) RETURNING id_materiel`,
		updateSQL: `UPDATE materiel SET nom_materiel = $2, id_classe = $3, id_categorie = $4 WHERE id_materiel = $1`,
		deleteSQL: `DELETE FROM materiel WHERE id_materiel = $1`,
		countSQL:  `SELECT COUNT(*) FROM materiel`,
		scan: func(row pgx.Row) (*entity.Material, error) {
			var m entity.Material
			return &m, row.Scan(&m.ID, &m.Name, &m.ClassID, &m.CategoryID, &m.ClassName)
		},
		insertArgs: func(m *entity.Material) []any { return []any{m.Name, m.ClassID, m.CategoryID} },
		updateArgs: func(m *entity.Material) []any { return []any{m.ID, m.Name, m.ClassID, m.CategoryID} },
		setID:      func(m *entity.Material, id int64) { m.ID = id },
		id:         func(m *entity.Material) int64 { return m.ID },
	}}
}

// NewCategoryRepository tabla categorie.
func NewCategoryRepository(q Querier) *CatalogRepo[entity.Category] {
	return &CatalogRepo[entity.Category]{q: q, t: table[entity.Category]{
		label:     "categorie",
		selectSQL: `SELECT id_categorie, nom_categorie FROM categorie`,
		idColumn:  "id_categorie",
		orderBy:   "nom_categorie, id_categorie",
		insertSQL: `INSERT INTO categorie (nom_categorie) VALUES ($1) RETURNING id_categorie`,
		updateSQL: `UPDATE categorie SET nom_categorie = $2 WHERE id_categorie = $1`,
		deleteSQL: `DELETE FROM categorie WHERE id_categorie = $1`,
		countSQL:  `SELECT COUNT(*) FROM categorie`,
		scan: func(row pgx.Row) (*entity.Category, error) {
			var c entity.Category
			return &c, row.Scan(&c.ID, &c.Name)
		},
		insertArgs: func(c *entity.Category) []any { return []any{c.Name} },
		updateArgs: func(c *entity.Category) []any { return []any{c.ID, c.Name} },
		setID:      func(c *entity.Category, id int64) { c.ID = id },
		id:         func(c *entity.Category) int64 { return c.ID },
	}}
}
