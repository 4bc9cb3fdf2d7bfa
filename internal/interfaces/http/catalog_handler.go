package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Materiel-api/internal/application/dto"
)

// catalogService lo implementan los casos de uso de catalog (consommable, materiel, service,
// donneur, classe). I es el cuerpo de entrada y D la respuesta.
type catalogService[I, D any] interface {
	Create(ctx context.Context, in I) (*D, error)
	Get(ctx context.Context, id int64) (*D, error)
	Update(ctx context.Context, id int64, in I) (*D, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]D, error)
	Count(ctx context.Context) (int, error)
}

// CatalogHandler CRUD HTTP común a las tablas de referencia.
type CatalogHandler[I, D any] struct {
	uc catalogService[I, D]
}

// NewCatalogHandler construye el handler de un recurso de catálogo.
func NewCatalogHandler[I, D any](uc catalogService[I, D]) *CatalogHandler[I, D] {
	return &CatalogHandler[I, D]{uc: uc}
}

// register monta las rutas del recurso; las mutaciones pasan por guard.
func (h *CatalogHandler[I, D]) register(r fiber.Router, guard fiber.Handler) {
	r.Get("/", h.List)
	r.Get("/count/count", h.Count)
	r.Get("/:id", h.GetByID)
	r.Post("/", guard, h.Create)
	r.Put("/:id", guard, h.Update)
	r.Delete("/:id", guard, h.Delete)
}

// List godoc
// @Summary      Lister les éléments du catalogue
// @Tags         catalogue
// @Security     Bearer
// @Produce      json
// @Param        resource  path  string  true  "consommable | materiel | service | donneur | classe"
// @Success      200  {array}   object
// @Router       /api/{resource} [get]
func (h *CatalogHandler[I, D]) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtenir un élément du catalogue
// @Tags         catalogue
// @Security     Bearer
// @Produce      json
// @Param        resource  path  string  true  "consommable | materiel | service | donneur | classe"
// @Param        id        path  int     true  "ID"
// @Success      200  {object}  object
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/{resource}/{id} [get]
func (h *CatalogHandler[I, D]) GetByID(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Get(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Créer un élément du catalogue
// @Tags         catalogue
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        resource  path  string  true  "consommable | materiel | service | donneur | classe"
// @Success      201  {object}  object
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/{resource} [post]
func (h *CatalogHandler[I, D]) Create(c *fiber.Ctx) error {
	var in I
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Modifier un élément du catalogue
// @Tags         catalogue
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        resource  path  string  true  "consommable | materiel | service | donneur | classe"
// @Param        id        path  int     true  "ID"
// @Success      200  {object}  object
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/{resource}/{id} [put]
func (h *CatalogHandler[I, D]) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var in I
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Supprimer un élément du catalogue
// @Tags         catalogue
// @Security     Bearer
// @Produce      json
// @Param        resource  path  string  true  "consommable | materiel | service | donneur | classe"
// @Param        id        path  int     true  "ID"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse  "référencé par un lot ou un prêt"
// @Router       /api/{resource}/{id} [delete]
func (h *CatalogHandler[I, D]) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.uc.Delete(c.UserContext(), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "supprimé"})
}

// Count godoc
// @Summary      Nombre d'éléments du catalogue
// @Tags         catalogue
// @Security     Bearer
// @Produce      json
// @Param        resource  path  string  true  "consommable | materiel | service | donneur | classe"
// @Success      200  {object}  dto.CountResponse
// @Router       /api/{resource}/count/count [get]
func (h *CatalogHandler[I, D]) Count(c *fiber.Ctx) error {
	n, err := h.uc.Count(c.UserContext())
	return count(c, n, err)
}
