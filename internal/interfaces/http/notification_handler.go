package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Materiel-api/internal/application/dto"
)

// notificationService lo implementa *notification.NotificationUseCase.
type notificationService interface {
	List(ctx context.Context) ([]dto.NotificationResponse, error)
	Get(ctx context.Context, id int64) (*dto.NotificationResponse, error)
	ListForAccount(ctx context.Context, personID int64) ([]dto.NotificationResponse, error)
	UnreadCountForAccount(ctx context.Context, personID int64) (int, error)
	MarkAllReadForAccount(ctx context.Context, personID int64) (int, error)
	MarkRead(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

// NotificationHandler consulta y gestión de notificaciones.
type NotificationHandler struct {
	uc notificationService
}

// NewNotificationHandler construye el handler.
func NewNotificationHandler(uc notificationService) *NotificationHandler {
	return &NotificationHandler{uc: uc}
}

// List godoc
// @Summary      Toutes les notifications
// @Tags         notification
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.NotificationResponse
// @Router       /api/notification [get]
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtenir une notification
// @Tags         notification
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID"
// @Success      200  {object}  dto.NotificationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/notification/{id} [get]
func (h *NotificationHandler) GetByID(c *fiber.Ctx) error {
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

// ListForAccount godoc
// @Summary      Notifications visibles pour le compte d'une personne
// @Description  RESPONSABLE et DIRECTEUR voient les notifications ADMIN; SERVICE et SERVICE_VUE celles de leur service.
// @Tags         notification
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID de la personne"
// @Success      200  {array}   dto.NotificationResponse
// @Failure      400  {object}  dto.ErrorResponse  "personne sans service"
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/notification/compte/{id} [get]
func (h *NotificationHandler) ListForAccount(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.ListForAccount(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UnreadCount godoc
// @Summary      Nombre de notifications non lues du compte
// @Tags         notification
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID de la personne"
// @Success      200  {object}  dto.CountResponse
// @Router       /api/notification/compte/{id}/non_lues [get]
func (h *NotificationHandler) UnreadCount(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	n, err := h.uc.UnreadCountForAccount(c.UserContext(), id)
	return count(c, n, err)
}

// MarkAllRead godoc
// @Summary      Marquer comme lues toutes les notifications du compte
// @Tags         notification
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID de la personne"
// @Success      200  {object}  dto.MarkedReadResponse
// @Router       /api/notification/compte/{id}/lu [put]
func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	n, err := h.uc.MarkAllReadForAccount(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MarkedReadResponse{Updated: n})
}

// MarkRead godoc
// @Summary      Marquer une notification comme lue
// @Tags         notification
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/notification/{id}/lu [put]
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.uc.MarkRead(c.UserContext(), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "notification lue"})
}

// Delete godoc
// @Summary      Supprimer une notification
// @Tags         notification
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/notification/{id} [delete]
func (h *NotificationHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.uc.Delete(c.UserContext(), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "notification supprimée"})
}

// Count godoc
// @Summary      Nombre total de notifications
// @Tags         notification
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CountResponse
// @Router       /api/notification/count/count [get]
func (h *NotificationHandler) Count(c *fiber.Ctx) error {
	n, err := h.uc.Count(c.UserContext())
	return count(c, n, err)
}
