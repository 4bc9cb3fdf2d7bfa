package http

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Materiel-api/internal/application/dto"
)

// reportService lo implementa *reporting.ReportingUseCase.
type reportService interface {
	MonthlyConsumableReportAuto(ctx context.Context, serviceID int64) (*dto.MonthlyReportDTO, error)
	MonthlyConsumableReport(ctx context.Context, serviceID int64, start, end string) (*dto.MonthlyReportDTO, error)
	ServiceEquipmentInventory(ctx context.Context, serviceID int64, classID *int64, year string) (*dto.InventoryDTO, error)
	TopConsumables(ctx context.Context, serviceID int64, limit int) (*dto.TopConsumablesDTO, error)
	StockLedgerTrace(ctx context.Context, consumableID int64) (*dto.StockTraceDTO, error)
	StockTracePDF(ctx context.Context, consumableID int64) ([]byte, error)
	InventoryPDF(ctx context.Context, serviceID int64, classID *int64, year string) ([]byte, error)
	Dashboard(ctx context.Context) (*dto.DashboardDTO, error)
}

// ReportHandler reportes: ficha de stock, inventario, gasto mensual, ranking y dashboard.
type ReportHandler struct {
	uc reportService
}

// NewReportHandler construye el handler.
func NewReportHandler(uc reportService) *ReportHandler {
	return &ReportHandler{uc: uc}
}

func sendPDF(c *fiber.Ctx, filename string, body []byte) error {
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(body)
}

// StockTrace godoc
// @Summary      Fiche de stock d'un consommable
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID du consommable"
// @Success      200  {object}  dto.StockTraceDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{id} [get]
func (h *ReportHandler) StockTrace(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.StockLedgerTrace(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// StockTracePDF godoc
// @Summary      Fiche de stock d'un consommable (PDF)
// @Tags         stock
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  int  true  "ID du consommable"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{id}/pdf [get]
func (h *ReportHandler) StockTracePDF(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	body, err := h.uc.StockTracePDF(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return sendPDF(c, fmt.Sprintf("fiche_stock_%d.pdf", id), body)
}

func inventoryParams(c *fiber.Ctx) (int64, *int64, string, error) {
	serviceID, err := paramID(c, "id")
	if err != nil {
		return 0, nil, "", err
	}
	classID, err := optionalParamID(c, "id_classe")
	if err != nil {
		return 0, nil, "", err
	}
	return serviceID, classID, c.Query("annee"), nil
}

// Inventory godoc
// @Summary      Inventaire du matériel d'un service
// @Tags         inventaire
// @Security     Bearer
// @Produce      json
// @Param        id         path   int     true   "ID du service"
// @Param        id_classe  path   int     false  "ID de la classe"
// @Param        annee      query  string  false  "Année (AAAA)"
// @Success      200  {object}  dto.InventoryDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventaire/{id}/{id_classe} [get]
func (h *ReportHandler) Inventory(c *fiber.Ctx) error {
	serviceID, classID, year, err := inventoryParams(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.ServiceEquipmentInventory(c.UserContext(), serviceID, classID, year)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// InventoryPDF godoc
// @Summary      Inventaire du matériel d'un service (PDF)
// @Tags         inventaire
// @Security     Bearer
// @Produce      application/pdf
// @Param        id         path   int     true   "ID du service"
// @Param        id_classe  path   int     false  "ID de la classe"
// @Param        annee      query  string  false  "Année (AAAA)"
// @Success      200  {file}    binary
// @Router       /api/inventaire/{id}/{id_classe}/pdf [get]
func (h *ReportHandler) InventoryPDF(c *fiber.Ctx) error {
	serviceID, classID, year, err := inventoryParams(c)
	if err != nil {
		return writeError(c, err)
	}
	body, err := h.uc.InventoryPDF(c.UserContext(), serviceID, classID, year)
	if err != nil {
		return writeError(c, err)
	}
	return sendPDF(c, fmt.Sprintf("inventaire_service_%d.pdf", serviceID), body)
}

// MonthlyAuto godoc
// @Summary      Dépenses mensuelles en consommables (période automatique)
// @Tags         depense
// @Security     Bearer
// @Produce      json
// @Param        serviceId  path  int  true  "ID du service"
// @Success      200  {object}  dto.MonthlyReportDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/depense/{serviceId}/auto [get]
func (h *ReportHandler) MonthlyAuto(c *fiber.Ctx) error {
	id, err := paramID(c, "serviceId")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.MonthlyConsumableReportAuto(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Monthly godoc
// @Summary      Dépenses mensuelles en consommables (période manuelle)
// @Tags         depense
// @Security     Bearer
// @Produce      json
// @Param        serviceId  path   int     true   "ID du service"
// @Param        start      query  string  false  "AAAA-MM ou AAAA-MM-JJ"
// @Param        end        query  string  false  "AAAA-MM ou AAAA-MM-JJ"
// @Success      200  {object}  dto.MonthlyReportDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/depense/{serviceId} [get]
func (h *ReportHandler) Monthly(c *fiber.Ctx) error {
	id, err := paramID(c, "serviceId")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.MonthlyConsumableReport(c.UserContext(), id, c.Query("start"), c.Query("end"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Top godoc
// @Summary      Consommables les plus envoyés à un service
// @Tags         depense
// @Security     Bearer
// @Produce      json
// @Param        serviceId  path   int  true   "ID du service"
// @Param        limit      query  int  false  "1..100"  default(10)
// @Success      200  {object}  dto.TopConsumablesDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/depense/{serviceId}/top [get]
func (h *ReportHandler) Top(c *fiber.Ctx) error {
	id, err := paramID(c, "serviceId")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.TopConsumables(c.UserContext(), id, c.QueryInt("limit", 0))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Dashboard godoc
// @Summary      Tableau de bord
// @Tags         dash
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardDTO
// @Router       /api/dash [get]
func (h *ReportHandler) Dashboard(c *fiber.Ctx) error {
	out, err := h.uc.Dashboard(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
