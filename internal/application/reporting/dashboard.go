package reporting

import (
	"context"
	"fmt"

	"github.com/jhoicas/Materiel-api/internal/application/dto"
	"github.com/jhoicas/Materiel-api/internal/domain/entity"
	"github.com/jhoicas/Materiel-api/internal/domain/repository"
)

// Dashboard resumen del tablero principal.
//
// Cinco consultas en paralelo:
//  1. EquipmentLoansPerService    → materiel_par_service
//  2. ListNeverLoaned             → materiel_disponible (por nombre de material)
//  3. EquipmentInUsePerService    → materiel_occupe (material × servicio del último préstamo)
//  4. ConsumablesInStock          → consommable_disponible
//  5. ConsumablesLoanedPerService → consommable_occupe (consumible × servicio)
func (uc *ReportingUseCase) Dashboard(ctx context.Context) (*dto.DashboardDTO, error) {
	type perServiceResult struct {
		rows []repository.ServiceCountResult
		err  error
	}
	type lotsResult struct {
		lots []*entity.EquipmentLot
		err  error
	}
	type loanedResult struct {
		rows []repository.LoanedQuantityResult
		err  error
	}
	type stockResult struct {
		rows []repository.ConsumableStockResult
		err  error
	}

	perServiceCh := make(chan perServiceResult, 1)
	availableCh := make(chan lotsResult, 1)
	inUseCh := make(chan loanedResult, 1)
	stockCh := make(chan stockResult, 1)
	consInUseCh := make(chan loanedResult, 1)

	go func() {
		rows, err := uc.reports.EquipmentLoansPerService(ctx)
		perServiceCh <- perServiceResult{rows, err}
	}()
	go func() {
		lots, err := uc.lots.ListNeverLoaned(ctx)
		availableCh <- lotsResult{lots, err}
	}()
	go func() {
		rows, err := uc.reports.EquipmentInUsePerService(ctx)
		inUseCh <- loanedResult{rows, err}
	}()
	go func() {
		rows, err := uc.reports.ConsumablesInStock(ctx)
		stockCh <- stockResult{rows, err}
	}()
	go func() {
		rows, err := uc.reports.ConsumablesLoanedPerService(ctx)
		consInUseCh <- loanedResult{rows, err}
	}()

	perService := <-perServiceCh
	available := <-availableCh
	inUse := <-inUseCh
	stock := <-stockCh
	consInUse := <-consInUseCh

	if perService.err != nil {
		return nil, fmt.Errorf("dashboard: material por servicio: %w", perService.err)
	}
	if available.err != nil {
		return nil, fmt.Errorf("dashboard: material disponible: %w", available.err)
	}
	if inUse.err != nil {
		return nil, fmt.Errorf("dashboard: material ocupado: %w", inUse.err)
	}
	if stock.err != nil {
		return nil, fmt.Errorf("dashboard: consumibles en stock: %w", stock.err)
	}
	if consInUse.err != nil {
		return nil, fmt.Errorf("dashboard: consumibles prestados: %w", consInUse.err)
	}

	out := &dto.DashboardDTO{
		EquipmentPerService:  make([]dto.ServiceCountDTO, 0, len(perService.rows)),
		EquipmentAvailable:   dto.CountsDTO{Counts: map[string]int{}},
		EquipmentInUse:       nestedCounts(inUse.rows),
		ConsumablesAvailable: dto.CountsDTO{Counts: map[string]int{}},
		ConsumablesInUse:     nestedCounts(consInUse.rows),
	}
	for _, r := range perService.rows {
		name := r.ServiceName
		if name == "" {
			name = otherLabel
		}
		out.EquipmentPerService = append(out.EquipmentPerService, dto.ServiceCountDTO{Service: name, Count: r.Count})
	}
	for _, l := range available.lots {
		out.EquipmentAvailable.Counts[l.MaterialName]++
		out.EquipmentAvailable.Total++
	}
	for _, c := range stock.rows {
		out.ConsumablesAvailable.Counts[c.Name] += c.Quantity
		out.ConsumablesAvailable.Total += c.Quantity
	}
	return out, nil
}
