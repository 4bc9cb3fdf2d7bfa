// Package catalog contiene el CRUD de las tablas de referencia: consumibles, materiales,
// servicios, donantes y clases.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/Materiel-api/internal/application/dto"
	"github.com/jhoicas/Materiel-api/internal/domain"
	"github.com/jhoicas/Materiel-api/internal/domain/entity"
	"github.com/jhoicas/Materiel-api/internal/domain/repository"
)

// mapping conversión DTO ↔ entidad y validación de un recurso. I es el cuerpo de entrada y D el de
// salida (iguales salvo en consumibles).
type mapping[E, I, D any] struct {
	label    string
	toEntity func(I) *E
	toDTO    func(*E) D
	setID    func(*E, int64)
	validate func(*E) error
}

// CatalogUseCase CRUD genérico sobre un CatalogRepository.
type CatalogUseCase[E, I, D any] struct {
	repo repository.CatalogRepository[E]
	m    mapping[E, I, D]
}

// Create valida y persiste el recurso; el repositorio rellena el ID.
func (uc *CatalogUseCase[E, I, D]) Create(ctx context.Context, in I) (*D, error) {
	e := uc.m.toEntity(in)
	if err := uc.m.validate(e); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("%s: crear: %w", uc.m.label, err)
	}
	out := uc.m.toDTO(e)
	return &out, nil
}

// Get devuelve el recurso o ErrNotFound.
func (uc *CatalogUseCase[E, I, D]) Get(ctx context.Context, id int64) (*D, error) {
	e, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	out := uc.m.toDTO(e)
	return &out, nil
}

func (uc *CatalogUseCase[E, I, D]) get(ctx context.Context, id int64) (*E, error) {
	e, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, fmt.Errorf("%w: %s %d", domain.ErrNotFound, uc.m.label, id)
	}
	return e, nil
}

// Update reemplaza los campos editables del recurso id.
func (uc *CatalogUseCase[E, I, D]) Update(ctx context.Context, id int64, in I) (*D, error) {
	if _, err := uc.get(ctx, id); err != nil {
		return nil, err
	}
	e := uc.m.toEntity(in)
	uc.m.setID(e, id)
	if err := uc.m.validate(e); err != nil {
		return nil, err
	}
	if err := uc.repo.Update(ctx, e); err != nil {
		return nil, fmt.Errorf("%s: actualizar: %w", uc.m.label, err)
	}
	return uc.Get(ctx, id)
}

// Delete borra el recurso. Si está referenciado el repositorio devuelve ErrConflict.
func (uc *CatalogUseCase[E, I, D]) Delete(ctx context.Context, id int64) error {
	if _, err := uc.get(ctx, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

// List todos los recursos.
func (uc *CatalogUseCase[E, I, D]) List(ctx context.Context) ([]D, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]D, 0, len(list))
	for _, e := range list {
		out = append(out, uc.m.toDTO(e))
	}
	return out, nil
}

// Count número de recursos.
func (uc *CatalogUseCase[E, I, D]) Count(ctx context.Context) (int, error) {
	return uc.repo.Count(ctx)
}

func required(label, field, v string) error {
	if strings.TrimSpace(v) == "" {
		return fmt.Errorf("%w: %s: %s requis", domain.ErrInvalidInput, label, field)
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Recursos
// ──────────────────────────────────────────────────────────────────────────────

type (
	ServiceUseCase    = CatalogUseCase[entity.Service, dto.ServiceDTO, dto.ServiceDTO]
	DonorUseCase      = CatalogUseCase[entity.Donor, dto.DonorDTO, dto.DonorDTO]
	ClassUseCase      = CatalogUseCase[entity.Class, dto.ClassDTO, dto.ClassDTO]
	MaterialUseCase   = CatalogUseCase[entity.Material, dto.MaterialDTO, dto.MaterialDTO]
	CategoryUseCase   = CatalogUseCase[entity.Category, dto.CategoryDTO, dto.CategoryDTO]
	ConsumableUseCase = CatalogUseCase[entity.Consumable, dto.ConsumableRequest, dto.ConsumableResponse]
)

// NewServiceUseCase CRUD de servicios.
func NewServiceUseCase(repo repository.ServiceRepository) *ServiceUseCase {
	return &ServiceUseCase{repo: repo, m: mapping[entity.Service, dto.ServiceDTO, dto.ServiceDTO]{
		label:    "service",
		toEntity: func(d dto.ServiceDTO) *entity.Service { return &entity.Service{Name: strings.TrimSpace(d.Name)} },
		toDTO:    func(e *entity.Service) dto.ServiceDTO { return dto.ServiceDTO{ID: e.ID, Name: e.Name} },
		setID:    func(e *entity.Service, id int64) { e.ID = id },
		validate: func(e *entity.Service) error { return required("service", "nom_service", e.Name) },
	}}
}

// NewDonorUseCase CRUD de donantes.
func NewDonorUseCase(repo repository.DonorRepository) *DonorUseCase {
	return &DonorUseCase{repo: repo, m: mapping[entity.Donor, dto.DonorDTO, dto.DonorDTO]{
		label:    "donneur",
		toEntity: func(d dto.DonorDTO) *entity.Donor { return &entity.Donor{Name: strings.TrimSpace(d.Name)} },
		toDTO:    func(e *entity.Donor) dto.DonorDTO { return dto.DonorDTO{ID: e.ID, Name: e.Name} },
		setID:    func(e *entity.Donor, id int64) { e.ID = id },
		validate: func(e *entity.Donor) error { return required("donneur", "nom_donneur", e.Name) },
	}}
}

// NewClassUseCase CRUD de clases.
func NewClassUseCase(repo repository.ClassRepository) *ClassUseCase {
	return &ClassUseCase{repo: repo, m: mapping[entity.Class, dto.ClassDTO, dto.ClassDTO]{
		label: "classe",
		toEntity: func(d dto.ClassDTO) *entity.Class {
			return &entity.Class{Code: strings.TrimSpace(d.Code), Name: strings.TrimSpace(d.Name)}
		},
		toDTO: func(e *entity.Class) dto.ClassDTO { return dto.ClassDTO{ID: e.ID, Code: e.Code, Name: e.Name} },
		setID: func(e *entity.Class, id int64) { e.ID = id },
		validate: func(e *entity.Class) error {
			if err := required("classe", "code_classe", e.Code); err != nil {
				return err
			}
			return required("classe", "nom_classe", e.Name)
		},
	}}
}

// NewCategoryUseCase CRUD de categorías.
func NewCategoryUseCase(repo repository.CategoryRepository) *CategoryUseCase {
	return &CategoryUseCase{repo: repo, m: mapping[entity.Category, dto.CategoryDTO, dto.CategoryDTO]{
		label:    "categorie",
		toEntity: func(d dto.CategoryDTO) *entity.Category { return &entity.Category{Name: strings.TrimSpace(d.Name)} },
		toDTO:    func(e *entity.Category) dto.CategoryDTO { return dto.CategoryDTO{ID: e.ID, Name: e.Name} },
		setID:    func(e *entity.Category, id int64) { e.ID = id },
		validate: func(e *entity.Category) error { return required("categorie", "nom_categorie", e.Name) },
	}}
}

// NewMaterialUseCase CRUD de definiciones de material.
func NewMaterialUseCase(repo repository.MaterialRepository) *MaterialUseCase {
	return &MaterialUseCase{repo: repo, m: mapping[entity.Material, dto.MaterialDTO, dto.MaterialDTO]{
		label: "materiel",
		toEntity: func(d dto.MaterialDTO) *entity.Material {
			return &entity.Material{Name: strings.TrimSpace(d.Name), ClassID: d.ClassID, CategoryID: d.CategoryID}
		},
		toDTO: func(e *entity.Material) dto.MaterialDTO {
			return dto.MaterialDTO{ID: e.ID, Name: e.Name, ClassID: e.ClassID, CategoryID: e.CategoryID, ClassName: e.ClassName}
		},
		setID:    func(e *entity.Material, id int64) { e.ID = id },
		validate: func(e *entity.Material) error { return required("materiel", "nom_materiel", e.Name) },
	}}
}

// NewConsumableUseCase CRUD del catálogo de consumibles. La cantidad solo se fija en el alta:
// Update no la toca (la mueven lotes y préstamos).
func NewConsumableUseCase(repo repository.ConsumableRepository) *ConsumableUseCase {
	return &ConsumableUseCase{repo: repo, m: mapping[entity.Consumable, dto.ConsumableRequest, dto.ConsumableResponse]{
		label: "consommable",
		toEntity: func(d dto.ConsumableRequest) *entity.Consumable {
			return &entity.Consumable{
				Name:           strings.TrimSpace(d.Name),
				Reference:      strings.TrimSpace(d.Reference),
				Unit:           strings.TrimSpace(d.Unit),
				UnitPrice:      d.UnitPrice,
				QuantityOnHand: d.Quantity,
				ClassID:        d.ClassID,
			}
		},
		toDTO: dto.ToConsumableResponse,
		setID: func(e *entity.Consumable, id int64) { e.ID = id },
		validate: func(e *entity.Consumable) error {
			if err := required("consommable", "nom_consommable", e.Name); err != nil {
				return err
			}
			if e.QuantityOnHand < 0 {
				return fmt.Errorf("%w: quantite_consommable négative", domain.ErrInvalidInput)
			}
			if e.UnitPrice != nil && e.UnitPrice.IsNegative() {
				return fmt.Errorf("%w: prix_unitaire négatif", domain.ErrInvalidInput)
			}
			return nil
		},
	}}
}
