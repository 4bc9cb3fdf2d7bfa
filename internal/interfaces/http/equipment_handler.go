package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Materiel-api/internal/application/dto"
)

// equipmentService lo implementa *equipment.EquipmentUseCase.
type equipmentService interface {
	CreateLot(ctx context.Context, in dto.CreateEquipmentLotRequest) (*dto.EquipmentLotResponse, error)
	CreateLotsBatch(ctx context.Context, in dto.CreateEquipmentLotsBatchRequest) ([]dto.EquipmentLotResponse, error)
	UpdateLot(ctx context.Context, lotID int64, in dto.UpdateEquipmentLotRequest) (*dto.EquipmentLotResponse, error)
	UpdateCondition(ctx context.Context, lotID int64, in dto.UpdateConditionRequest) (*dto.EquipmentLotResponse, error)
	DeleteLot(ctx context.Context, lotID int64) (*dto.EquipmentLotResponse, error)
	GetLot(ctx context.Context, lotID int64) (*dto.EquipmentLotResponse, error)
	ListLots(ctx context.Context) ([]dto.EquipmentLotResponse, error)
	CountLots(ctx context.Context) (int, error)
	ListByService(ctx context.Context, serviceID int64) ([]dto.EquipmentLotResponse, error)
	CountByService(ctx context.Context, serviceID int64) (int, error)
	CountByCondition(ctx context.Context) ([]dto.ConditionCountDTO, error)
	NeverLoaned(ctx context.Context) (*dto.AvailabilityDTO, error)
	AvailableByOpenLoan(ctx context.Context) (*dto.AvailabilityDTO, error)
	Distribution(ctx context.Context, materialID int64) (*dto.DistributionDTO, error)

	DispatchLot(ctx context.Context, in dto.DispatchLotRequest) (*dto.LoanResponse, error)
	DispatchRandomLots(ctx context.Context, in dto.DispatchRandomLotsRequest) (*dto.DispatchResult, error)
	ReturnLoan(ctx context.Context, loanID int64, in dto.ReturnDateRequest) (*dto.LoanResponse, error)
	DeleteLoan(ctx context.Context, loanID int64) (*dto.LoanResponse, error)
	TransferLoan(ctx context.Context, loanID int64, in dto.TransferLoanRequest) (*dto.LoanResponse, error)
	GetLoan(ctx context.Context, loanID int64) (*dto.LoanResponse, error)
	ListLoans(ctx context.Context, serviceID *int64) ([]dto.LoanResponse, error)
	CountLoans(ctx context.Context) (int, error)
}

// EquipmentHandler lotes de material (lot), préstamos de material (pret) y distribución.
type EquipmentHandler struct {
	uc equipmentService
}

// NewEquipmentHandler construye el handler.
func NewEquipmentHandler(uc equipmentService) *EquipmentHandler {
	return &EquipmentHandler{uc: uc}
}

// ──────────────────────────────────────────────────────────────────────────────
// lot
// ──────────────────────────────────────────────────────────────────────────────

// CreateLot godoc
// @Summary      Créer un lot de matériel
// @Tags         lot
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateEquipmentLotRequest  true  "Lot"
// @Success      201   {object}  dto.EquipmentLotResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/lot [post]
func (h *EquipmentHandler) CreateLot(c *fiber.Ctx) error {
	var in dto.CreateEquipmentLotRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.CreateLot(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// CreateLotsBatch godoc
// @Summary      Créer plusieurs lots numérotés (numero001, numero002...)
// @Tags         lot
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateEquipmentLotsBatchRequest  true  "Lots"
// @Success      201   {array}   dto.EquipmentLotResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/lot/batch [post]
func (h *EquipmentHandler) CreateLotsBatch(c *fiber.Ctx) error {
	var in dto.CreateEquipmentLotsBatchRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.CreateLotsBatch(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateLot godoc
// @Summary      Modifier un lot de matériel
// @Tags         lot
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                            true  "ID du lot"
// @Param        body  body  dto.UpdateEquipmentLotRequest  true  "Champs à modifier"
// @Success      200   {object}  dto.EquipmentLotResponse
// @Router       /api/lot/{id} [put]
func (h *EquipmentHandler) UpdateLot(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var in dto.UpdateEquipmentLotRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.UpdateLot(c.UserContext(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateCondition godoc
// @Summary      Changer l'état d'un lot
// @Tags         lot
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                         true  "ID du lot"
// @Param        body  body  dto.UpdateConditionRequest  true  "etat (BON, MOYEN, MAUVAIS, HORS_SERVICE), id_service"
// @Success      200   {object}  dto.EquipmentLotResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/lot/{id}/etat [put]
func (h *EquipmentHandler) UpdateCondition(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var in dto.UpdateConditionRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.UpdateCondition(c.UserContext(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DeleteLot godoc
// @Summary      Supprimer un lot de matériel
// @Tags         lot
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID du lot"
// @Success      200  {object}  dto.EquipmentLotResponse  "lot supprimé"
// @Failure      409  {object}  dto.ErrorResponse  "prêt ouvert"
// @Router       /api/lot/{id} [delete]
func (h *EquipmentHandler) DeleteLot(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.DeleteLot(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetLot godoc
// @Summary      Obtenir un lot de matériel
// @Tags         lot
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID du lot"
// @Success      200  {object}  dto.EquipmentLotResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/lot/{id} [get]
func (h *EquipmentHandler) GetLot(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.GetLot(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListLots godoc
// @Summary      Lister les lots de matériel
// @Tags         lot
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.EquipmentLotResponse
// @Router       /api/lot [get]
func (h *EquipmentHandler) ListLots(c *fiber.Ctx) error {
	out, err := h.uc.ListLots(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CountLots godoc
// @Summary      Nombre de lots de matériel
// @Tags         lot
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CountResponse
// @Router       /api/lot/count/count [get]
func (h *EquipmentHandler) CountLots(c *fiber.Ctx) error {
	n, err := h.uc.CountLots(c.UserContext())
	return count(c, n, err)
}

// CountByCondition godoc
// @Summary      Nombre de lots par état
// @Tags         lot
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ConditionCountDTO
// @Router       /api/lot/etat/count [get]
func (h *EquipmentHandler) CountByCondition(c *fiber.Ctx) error {
	out, err := h.uc.CountByCondition(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListByService godoc
// @Summary      Lots actuellement prêtés à un service
// @Tags         lot
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID du service"
// @Success      200  {array}  dto.EquipmentLotResponse
// @Router       /api/lot/service/{id} [get]
func (h *EquipmentHandler) ListByService(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.ListByService(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CountByService godoc
// @Summary      Nombre de lots actuellement prêtés à un service
// @Tags         lot
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID du service"
// @Success      200  {object}  dto.CountResponse
// @Router       /api/lot/service/{id}/count [get]
func (h *EquipmentHandler) CountByService(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	n, err := h.uc.CountByService(c.UserContext(), id)
	return count(c, n, err)
}

// Available godoc
// @Summary      Lots disponibles (aucun prêt ouvert)
// @Tags         lot
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.AvailabilityDTO
// @Router       /api/lot/disponible [get]
func (h *EquipmentHandler) Available(c *fiber.Ctx) error {
	out, err := h.uc.AvailableByOpenLoan(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// NeverLoaned godoc
// @Summary      Lots jamais prêtés
// @Tags         lot
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.AvailabilityDTO
// @Router       /api/lot/jamais_pretes [get]
func (h *EquipmentHandler) NeverLoaned(c *fiber.Ctx) error {
	out, err := h.uc.NeverLoaned(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Distribution godoc
// @Summary      Répartition des lots d'un matériel par service
// @Tags         distribution
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID du matériel"
// @Success      200  {object}  dto.DistributionDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/distribution/{id} [get]
func (h *EquipmentHandler) Distribution(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Distribution(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ──────────────────────────────────────────────────────────────────────────────
// pret
// ──────────────────────────────────────────────────────────────────────────────

// Dispatch godoc
// @Summary      Envoyer un lot à un service
// @Tags         pret
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.DispatchLotRequest  true  "id_service, id_lot"
// @Success      201   {object}  dto.LoanResponse
// @Failure      409   {object}  dto.ErrorResponse  "lot déjà prêté"
// @Router       /api/pret [post]
func (h *EquipmentHandler) Dispatch(c *fiber.Ctx) error {
	var in dto.DispatchLotRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.DispatchLot(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// DispatchRandom godoc
// @Summary      Envoyer N lots jamais prêtés d'un matériel, choisis au hasard
// @Tags         pret
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.DispatchRandomLotsRequest  true  "id_service, id_materiel, nombre"
// @Success      201   {object}  dto.DispatchResult
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "pas assez de lots disponibles"
// @Router       /api/pret/envoi_plusieur [post]
func (h *EquipmentHandler) DispatchRandom(c *fiber.Ctx) error {
	var in dto.DispatchRandomLotsRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.DispatchRandomLots(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ReturnLoan godoc
// @Summary      Retour d'un lot prêté
// @Tags         pret
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                    true   "ID du prêt"
// @Param        body  body  dto.ReturnDateRequest  false  "date_retour (défaut: maintenant)"
// @Success      200   {object}  dto.LoanResponse
// @Failure      409   {object}  dto.ErrorResponse  "déjà retourné"
// @Router       /api/pret/{id}/retour [put]
func (h *EquipmentHandler) ReturnLoan(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var in dto.ReturnDateRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
	}
	out, err := h.uc.ReturnLoan(c.UserContext(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// TransferLoan godoc
// @Summary      Transférer un prêt ouvert vers un autre service
// @Tags         pret
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                      true  "ID du prêt"
// @Param        body  body  dto.TransferLoanRequest  true  "id_service"
// @Success      200   {object}  dto.LoanResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/pret/{id}/transfert [put]
func (h *EquipmentHandler) TransferLoan(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var in dto.TransferLoanRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.TransferLoan(c.UserContext(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DeleteLoan godoc
// @Summary      Retirer un lot d'un service (supprime le prêt)
// @Tags         pret
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID du prêt"
// @Success      200  {object}  dto.LoanResponse  "prêt supprimé"
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/pret/{id} [delete]
func (h *EquipmentHandler) DeleteLoan(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.DeleteLoan(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetLoan godoc
// @Summary      Obtenir un prêt de matériel
// @Tags         pret
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID du prêt"
// @Success      200  {object}  dto.LoanResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/pret/{id} [get]
func (h *EquipmentHandler) GetLoan(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.GetLoan(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListLoans godoc
// @Summary      Lister les prêts de matériel
// @Tags         pret
// @Security     Bearer
// @Produce      json
// @Param        id_service  query  int  false  "Filtrer par service"
// @Success      200  {array}  dto.LoanResponse
// @Router       /api/pret [get]
func (h *EquipmentHandler) ListLoans(c *fiber.Ctx) error {
	var serviceID *int64
	if v := c.QueryInt("id_service", 0); v > 0 {
		id := int64(v)
		serviceID = &id
	}
	out, err := h.uc.ListLoans(c.UserContext(), serviceID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CountLoans godoc
// @Summary      Nombre de prêts de matériel
// @Tags         pret
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CountResponse
// @Router       /api/pret/count/count [get]
func (h *EquipmentHandler) CountLoans(c *fiber.Ctx) error {
	n, err := h.uc.CountLoans(c.UserContext())
	return count(c, n, err)
}
