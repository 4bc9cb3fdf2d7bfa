package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Materiel-api/internal/application/dto"
)

// ledgerService lo implementa *ledger.LedgerUseCase.
type ledgerService interface {
	RecordDonation(ctx context.Context, in dto.CreateDonationLotRequest) (*dto.DonationLotResult, error)
	ReverseDonation(ctx context.Context, lotID int64) (*dto.DonationLotResult, error)
	AmendDonation(ctx context.Context, lotID int64, in dto.UpdateDonationLotRequest) (*dto.DonationLotResult, error)
	GetDonation(ctx context.Context, lotID int64) (*dto.DonationLotResponse, error)
	ListDonations(ctx context.Context, consumableID *int64) ([]dto.DonationLotResponse, error)
	CountDonations(ctx context.Context) (int, error)

	RecordLoan(ctx context.Context, in dto.CreateConsumableLoanRequest) (*dto.ConsumableLoanResult, error)
	ReturnOrCancelLoan(ctx context.Context, loanID int64) (*dto.ConsumableLoanResult, error)
	MarkExhausted(ctx context.Context, loanID int64, in dto.ReturnDateRequest) (*dto.ConsumableLoanResult, error)
	AmendLoan(ctx context.Context, loanID int64, in dto.UpdateConsumableLoanRequest) (*dto.ConsumableLoanResult, error)
	GetLoan(ctx context.Context, loanID int64) (*dto.LoanResponse, error)
	ListLoans(ctx context.Context, serviceID *int64) ([]dto.LoanResponse, error)
	CountLoans(ctx context.Context) (int, error)
}

// LedgerHandler lotes de consumibles (lot_consommable), préstamos de consumibles
// (pret_consommable) y agotamiento (epuise).
type LedgerHandler struct {
	uc ledgerService
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(uc ledgerService) *LedgerHandler {
	return &LedgerHandler{uc: uc}
}

// ──────────────────────────────────────────────────────────────────────────────
// lot_consommable
// ──────────────────────────────────────────────────────────────────────────────

// CreateDonation godoc
// @Summary      Enregistrer un lot de consommable (don ou achat)
// @Tags         lot_consommable
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDonationLotRequest  true  "Lot"
// @Success      201   {object}  dto.DonationLotResult
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/lot_consommable [post]
func (h *LedgerHandler) CreateDonation(c *fiber.Ctx) error {
	var in dto.CreateDonationLotRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.RecordDonation(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateDonation godoc
// @Summary      Modifier un lot de consommable
// @Tags         lot_consommable
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                           true  "ID du lot"
// @Param        body  body  dto.UpdateDonationLotRequest  true  "Champs à modifier"
// @Success      200   {object}  dto.DonationLotResult
// @Failure      409   {object}  dto.ErrorResponse  "historique de prêts ou stock négatif"
// @Router       /api/lot_consommable/{id} [put]
func (h *LedgerHandler) UpdateDonation(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var in dto.UpdateDonationLotRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.AmendDonation(c.UserContext(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DeleteDonation godoc
// @Summary      Annuler un lot de consommable
// @Tags         lot_consommable
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID du lot"
// @Success      200  {object}  dto.DonationLotResult
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/lot_consommable/{id} [delete]
func (h *LedgerHandler) DeleteDonation(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.ReverseDonation(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetDonation godoc
// @Summary      Obtenir un lot de consommable
// @Tags         lot_consommable
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID du lot"
// @Success      200  {object}  dto.DonationLotResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/lot_consommable/{id} [get]
func (h *LedgerHandler) GetDonation(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.GetDonation(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListDonations godoc
// @Summary      Lister les lots de consommable
// @Tags         lot_consommable
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.DonationLotResponse
// @Router       /api/lot_consommable [get]
func (h *LedgerHandler) ListDonations(c *fiber.Ctx) error {
	out, err := h.uc.ListDonations(c.UserContext(), nil)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListDonationsByConsumable godoc
// @Summary      Lots d'un consommable
// @Tags         lot_consommable
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID du consommable"
// @Success      200  {array}  dto.DonationLotResponse
// @Router       /api/lot_consommable/consommable/{id} [get]
func (h *LedgerHandler) ListDonationsByConsumable(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.ListDonations(c.UserContext(), &id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CountDonations godoc
// @Summary      Nombre de lots de consommable
// @Tags         lot_consommable
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CountResponse
// @Router       /api/lot_consommable/count/count [get]
func (h *LedgerHandler) CountDonations(c *fiber.Ctx) error {
	n, err := h.uc.CountDonations(c.UserContext())
	return count(c, n, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// pret_consommable / epuise
// ──────────────────────────────────────────────────────────────────────────────

// CreateLoan godoc
// @Summary      Envoyer un consommable à un service
// @Tags         pret_consommable
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateConsumableLoanRequest  true  "Envoi"
// @Success      201   {object}  dto.ConsumableLoanResult
// @Failure      409   {object}  dto.ErrorResponse  "stock insuffisant"
// @Router       /api/pret_consommable [post]
func (h *LedgerHandler) CreateLoan(c *fiber.Ctx) error {
	var in dto.CreateConsumableLoanRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.RecordLoan(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateLoan godoc
// @Summary      Modifier un envoi de consommable
// @Tags         pret_consommable
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                              true  "ID du prêt"
// @Param        body  body  dto.UpdateConsumableLoanRequest  true  "Champs à modifier"
// @Success      200   {object}  dto.ConsumableLoanResult
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/pret_consommable/{id} [put]
func (h *LedgerHandler) UpdateLoan(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var in dto.UpdateConsumableLoanRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.AmendLoan(c.UserContext(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DeleteLoan godoc
// @Summary      Retirer un envoi de consommable (le stock est restitué)
// @Tags         pret_consommable
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID du prêt"
// @Success      200  {object}  dto.ConsumableLoanResult
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/pret_consommable/{id} [delete]
func (h *LedgerHandler) DeleteLoan(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.ReturnOrCancelLoan(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetLoan godoc
// @Summary      Obtenir un envoi de consommable
// @Tags         pret_consommable
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID du prêt"
// @Success      200  {object}  dto.LoanResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/pret_consommable/{id} [get]
func (h *LedgerHandler) GetLoan(c *fiber.Ctx) error {
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
// @Summary      Lister les envois de consommable
// @Tags         pret_consommable
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.LoanResponse
// @Router       /api/pret_consommable [get]
func (h *LedgerHandler) ListLoans(c *fiber.Ctx) error {
	out, err := h.uc.ListLoans(c.UserContext(), nil)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListLoansByService godoc
// @Summary      Envois de consommable d'un service
// @Tags         pret_consommable
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID du service"
// @Success      200  {array}  dto.LoanResponse
// @Router       /api/pret_consommable/service/{id} [get]
func (h *LedgerHandler) ListLoansByService(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.ListLoans(c.UserContext(), &id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CountLoans godoc
// @Summary      Nombre d'envois de consommable
// @Tags         pret_consommable
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CountResponse
// @Router       /api/pret_consommable/count/count [get]
func (h *LedgerHandler) CountLoans(c *fiber.Ctx) error {
	n, err := h.uc.CountLoans(c.UserContext())
	return count(c, n, err)
}

// MarkExhausted godoc
// @Summary      Déclarer un envoi de consommable épuisé
// @Tags         epuise
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                    true   "ID du prêt"
// @Param        body  body  dto.ReturnDateRequest  false  "date_retour (défaut: maintenant)"
// @Success      200   {object}  dto.ConsumableLoanResult
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/epuise/{id} [put]
func (h *LedgerHandler) MarkExhausted(c *fiber.Ctx) error {
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
	out, err := h.uc.MarkExhausted(c.UserContext(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
