// Package reporting contiene los reportes read-only sobre el historial de préstamos y lotes:
// gasto mensual de consumibles por servicio, inventario de material, ranking de consumibles,
// ficha de stock y el dashboard.
package reporting

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/Materiel-api/internal/application/dto"
	"github.com/jhoicas/Materiel-api/internal/domain"
	"github.com/jhoicas/Materiel-api/internal/domain/entity"
	"github.com/jhoicas/Materiel-api/internal/domain/repository"
)

const (
	defaultTopLimit = 10
	maxTopLimit     = 100
)

var errNoPDF = errors.New("export pdf non configuré")

// PDFRenderer genera los PDF de la ficha de stock y del inventario.
type PDFRenderer interface {
	StockTracePDF(trace *dto.StockTraceDTO) ([]byte, error)
	InventoryPDF(inv *dto.InventoryDTO) ([]byte, error)
}

// ReportingUseCase casos de uso de reportes.
type ReportingUseCase struct {
	reports     repository.ReportRepository
	services    repository.ServiceRepository
	classes     repository.ClassRepository
	consumables repository.ConsumableRepository
	lots        repository.EquipmentLotRepository
	pdf         PDFRenderer
	now         func() time.Time
}

// NewReportingUseCase construye el caso de uso. pdf puede ser nil si no se exportan PDF.
func NewReportingUseCase(
	reports repository.ReportRepository,
	services repository.ServiceRepository,
	classes repository.ClassRepository,
	consumables repository.ConsumableRepository,
	lots repository.EquipmentLotRepository,
	pdf PDFRenderer,
) *ReportingUseCase {
	return &ReportingUseCase{
		reports:     reports,
		services:    services,
		classes:     classes,
		consumables: consumables,
		lots:        lots,
		pdf:         pdf,
		now:         time.Now,
	}
}

func (uc *ReportingUseCase) getService(ctx context.Context, id int64) (*entity.Service, error) {
	s, err := uc.services.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("%w: service %d", domain.ErrNotFound, id)
	}
	return s, nil
}

// MonthlyConsumableReportAuto reporte mensual con periodo automático: desde el primer préstamo del
// servicio (o el primero global) hasta el final del mes en curso.
func (uc *ReportingUseCase) MonthlyConsumableReportAuto(ctx context.Context, serviceID int64) (*dto.MonthlyReportDTO, error) {
	if _, err := uc.getService(ctx, serviceID); err != nil {
		return nil, err
	}
	earliest, err := uc.reports.EarliestLoanDate(ctx, &serviceID)
	if err != nil {
		return nil, fmt.Errorf("reporte mensual: primer préstamo: %w", err)
	}
	if earliest == nil {
		if earliest, err = uc.reports.EarliestLoanDate(ctx, nil); err != nil {
			return nil, fmt.Errorf("reporte mensual: primer préstamo global: %w", err)
		}
	}
	return uc.monthly(ctx, serviceID, AutoPeriod(earliest, uc.now()))
}

// MonthlyConsumableReport reporte mensual con periodo manual (AAAA-MM o AAAA-MM-JJ).
func (uc *ReportingUseCase) MonthlyConsumableReport(ctx context.Context, serviceID int64, start, end string) (*dto.MonthlyReportDTO, error) {
	p, err := ManualPeriod(start, end, uc.now())
	if err != nil {
		return nil, err
	}
	if _, err := uc.getService(ctx, serviceID); err != nil {
		return nil, err
	}
	return uc.monthly(ctx, serviceID, p)
}

func (uc *ReportingUseCase) monthly(ctx context.Context, serviceID int64, p Period) (*dto.MonthlyReportDTO, error) {
	catalog, err := uc.reports.ConsumableCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("reporte mensual: catálogo: %w", err)
	}
	rows, err := uc.reports.ConsumableMonthly(ctx, serviceID, p.Start, p.End)
	if err != nil {
		return nil, fmt.Errorf("reporte mensual: agregados: %w", err)
	}
	return BuildMonthlyReport(serviceID, p, catalog, rows), nil
}

// ServiceEquipmentInventory inventario de los lotes prestados a un servicio por material y estado.
// year vacío = todos los años; classID nil = todas las clases.
func (uc *ReportingUseCase) ServiceEquipmentInventory(ctx context.Context, serviceID int64, classID *int64, year string) (*dto.InventoryDTO, error) {
	var from, to *time.Time
	header := dto.InventoryHeaderDTO{Title: InventoryTitle}
	if y := strings.TrimSpace(year); y != "" {
		n, err := strconv.Atoi(y)
		if err != nil || n < 1900 || n > 9999 {
			return nil, fmt.Errorf("%w: année %q", domain.ErrInvalidInput, year)
		}
		f := time.Date(n, time.January, 1, 0, 0, 0, 0, time.UTC)
		t := f.AddDate(1, 0, 0)
		from, to = &f, &t
		header.Year = y
	}
	svc, err := uc.getService(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	header.Service = svc.Name
	if classID != nil {
		cls, err := uc.classes.GetByID(ctx, *classID)
		if err != nil {
			return nil, err
		}
		if cls == nil {
			return nil, fmt.Errorf("%w: classe %d", domain.ErrNotFound, *classID)
		}
		header.Class = cls.Name
	}
	rows, err := uc.reports.ServiceInventory(ctx, serviceID, classID, from, to)
	if err != nil {
		return nil, fmt.Errorf("inventario: %w", err)
	}
	return BuildInventory(header, rows), nil
}

// TopConsumables ranking de los consumibles más enviados a un servicio. limit 0 = 10.
func (uc *ReportingUseCase) TopConsumables(ctx context.Context, serviceID int64, limit int) (*dto.TopConsumablesDTO, error) {
	if limit == 0 {
		limit = defaultTopLimit
	}
	if limit < 0 || limit > maxTopLimit {
		return nil, fmt.Errorf("%w: limit doit être entre 1 et %d", domain.ErrInvalidInput, maxTopLimit)
	}
	svc, err := uc.getService(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	rows, err := uc.reports.TopConsumables(ctx, serviceID, limit)
	if err != nil {
		return nil, fmt.Errorf("top consumibles: %w", err)
	}
	out := &dto.TopConsumablesDTO{ServiceID: svc.ID, Service: svc.Name, Limit: limit, Items: make([]dto.TopConsumableDTO, 0, len(rows))}
	for _, r := range rows {
		out.Items = append(out.Items, dto.TopConsumableDTO{
			ConsumableID: r.ConsumableID,
			Name:         r.Name,
			Unit:         r.Unit,
			TotalQty:     r.TotalQty,
			TotalCost:    r.TotalCost.Round(2),
			LoanCount:    r.LoanCount,
			LastLoan:     r.LastLoan,
		})
	}
	return out, nil
}

// StockLedgerTrace ficha de stock de un consumible con saldo corrido.
func (uc *ReportingUseCase) StockLedgerTrace(ctx context.Context, consumableID int64) (*dto.StockTraceDTO, error) {
	c, err := uc.consumables.GetByID(ctx, consumableID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: consommable %d", domain.ErrNotFound, consumableID)
	}
	events, err := uc.reports.StockEvents(ctx, consumableID)
	if err != nil {
		return nil, fmt.Errorf("ficha de stock: %w", err)
	}
	class := c.ClassName
	if class == "" {
		class = noClassName
	}
	return BuildStockTrace(dto.StockTraceHeaderDTO{Name: c.Name, Unit: c.Unit, Class: class}, c.QuantityOnHand, events), nil
}

// StockTracePDF ficha de stock en PDF.
func (uc *ReportingUseCase) StockTracePDF(ctx context.Context, consumableID int64) ([]byte, error) {
	trace, err := uc.StockLedgerTrace(ctx, consumableID)
	if err != nil {
		return nil, err
	}
	if uc.pdf == nil {
		return nil, errNoPDF
	}
	return uc.pdf.StockTracePDF(trace)
}

// InventoryPDF inventario de material en PDF.
func (uc *ReportingUseCase) InventoryPDF(ctx context.Context, serviceID int64, classID *int64, year string) ([]byte, error) {
	inv, err := uc.ServiceEquipmentInventory(ctx, serviceID, classID, year)
	if err != nil {
		return nil, err
	}
	if uc.pdf == nil {
		return nil, errNoPDF
	}
	return uc.pdf.InventoryPDF(inv)
}
