package repository

import "github.com/jhoicas/Materiel-api/internal/domain/entity"

// CategoryRepository puerto de persistencia de categorie; agrupa las definiciones de material.
type CategoryRepository = CatalogRepository[entity.Category]
