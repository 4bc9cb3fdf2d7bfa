package reporting

import (
	"sort"
	"strings"

	"github.com/jhoicas/Materiel-api/internal/application/dto"
	"github.com/jhoicas/Materiel-api/internal/domain/entity"
	"github.com/jhoicas/Materiel-api/internal/domain/repository"
)

// Etiquetas del inventario de material.
const (
	InventoryTitle = "INVENTAIRE MATERIEL"
	allYears       = "Toutes années"
	allClasses     = "Toutes classes"
	totalKey       = "TOTAL"
	entryService   = "-"
	unknownLabel   = "Inconnu"
	otherLabel     = "Autre"
)

func emptyConditions() map[string]int {
	m := make(map[string]int, len(entity.Conditions))
	for _, c := range entity.Conditions {
		m[string(c)] = 0
	}
	return m
}

// BuildInventory agrega las filas material×estado en líneas por material, ordenadas por clase y
// designación, con totales por estado y TOTAL.
func BuildInventory(header dto.InventoryHeaderDTO, rows []repository.InventoryResult) *dto.InventoryDTO {
	byMaterial := map[int64]*dto.InventoryItemDTO{}
	var items []*dto.InventoryItemDTO
	for _, r := range rows {
		it, ok := byMaterial[r.MaterialID]
		if !ok {
			cls := r.ClassName
			if cls == "" {
				cls = noClassName
			}
			it = &dto.InventoryItemDTO{
				Designation: r.MaterialName,
				ClassID:     r.ClassID,
				Class:       cls,
				Conditions:  emptyConditions(),
			}
			byMaterial[r.MaterialID] = it
			items = append(items, it)
		}
		it.Conditions[string(r.Condition)] += r.Lots
		it.Total += r.Lots
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Class != items[j].Class {
			return items[i].Class < items[j].Class
		}
		return strings.ToLower(items[i].Designation) < strings.ToLower(items[j].Designation)
	})

	if header.Title == "" {
		header.Title = InventoryTitle
	}
	if header.Year == "" {
		header.Year = allYears
	}
	if header.Class == "" {
		header.Class = allClasses
	}
	out := &dto.InventoryDTO{
		Header: header,
		Items:  make([]dto.InventoryItemDTO, 0, len(items)),
		Totals: emptyConditions(),
	}
	out.Totals[totalKey] = 0
	for _, it := range items {
		for cond, n := range it.Conditions {
			out.Totals[cond] += n
		}
		out.Totals[totalKey] += it.Total
		out.Items = append(out.Items, *it)
	}
	return out
}

// BuildStockTrace reconstruye la ficha de stock: entradas (lotes) y salidas (préstamos) en orden
// cronológico con el saldo corrido. A igual fecha las entradas van primero.
//
// El saldo arranca en el stock inicial fijado al dar de alta el consumible, deducido de onHand:
// inicial = onHand - Σentradas + Σsalidas. Así el último saldo coincide siempre con onHand.
func BuildStockTrace(header dto.StockTraceHeaderDTO, onHand int, events []repository.StockEventResult) *dto.StockTraceDTO {
	opening := onHand
	for _, ev := range events {
		if ev.Entry {
			opening -= ev.Quantity
		} else {
			opening += ev.Quantity
		}
	}

	sorted := make([]repository.StockEventResult, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Date.Equal(sorted[j].Date) {
			return sorted[i].Date.Before(sorted[j].Date)
		}
		return sorted[i].Entry && !sorted[j].Entry
	})

	out := &dto.StockTraceDTO{Header: header, Opening: opening, Rows: make([]dto.StockTraceRowDTO, 0, len(sorted))}
	balance := opening
	for _, ev := range sorted {
		row := dto.StockTraceRowDTO{Date: ev.Date, Existing: balance}
		if ev.Entry {
			row.Service = entryService
			row.Entries = ev.Quantity
			balance += ev.Quantity
		} else {
			row.Service = ev.ServiceName
			if row.Service == "" {
				row.Service = unknownLabel
			}
			row.Exits = ev.Quantity
			balance -= ev.Quantity
		}
		row.Balance = balance
		out.Rows = append(out.Rows, row)
	}
	return out
}

// nestedCounts agrupa cantidades por artículo y servicio.
func nestedCounts(rows []repository.LoanedQuantityResult) dto.NestedCountsDTO {
	out := dto.NestedCountsDTO{Counts: map[string]map[string]int{}}
	for _, r := range rows {
		svc := r.ServiceName
		if svc == "" {
			svc = otherLabel
		}
		if out.Counts[r.ItemName] == nil {
			out.Counts[r.ItemName] = map[string]int{}
		}
		out.Counts[r.ItemName][svc] += r.Quantity
		out.Total += r.Quantity
	}
	return out
}
