package reporting

import (
	"sort"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Materiel-api/internal/application/dto"
	"github.com/jhoicas/Materiel-api/internal/domain/repository"
)

// Clase sintética que agrupa las cantidades donadas (préstamos sin PU_envoie).
const (
	donClassCode = "DON"
	donClassName = "Don"
	noClassName  = "Sans classe"
)

// totals acumulador de subtotal (clase o total general).
type totals struct {
	qte     int
	montant decimal.Decimal
	months  map[string]*cell
}

type cell struct {
	qte     int
	montant decimal.Decimal
}

func newTotals(months []Month) *totals {
	t := &totals{montant: decimal.Zero, months: make(map[string]*cell, len(months))}
	for _, m := range months {
		t.months[m.Label] = &cell{montant: decimal.Zero}
	}
	return t
}

func (t *totals) add(o *totals) {
	t.qte += o.qte
	t.montant = t.montant.Add(o.montant)
	for label, c := range o.months {
		t.months[label].qte += c.qte
		t.months[label].montant = t.months[label].montant.Add(c.montant)
	}
}

// toDTO convierte el acumulador; withAmounts=false deja los importes a null (clase Don).
func (t *totals) toDTO(withAmounts bool) dto.MonthlyTotalDTO {
	out := dto.MonthlyTotalDTO{TotalQte: t.qte, MonthValues: make(map[string]dto.MonthValueDTO, len(t.months))}
	if withAmounts {
		out.TotalMontant = decPtr(t.montant)
	}
	for label, c := range t.months {
		v := dto.MonthValueDTO{Qte: c.qte}
		if withAmounts {
			v.Montant = decPtr(c.montant)
		}
		out.MonthValues[label] = v
	}
	return out
}

type classGroup struct {
	id    *int64
	code  string
	name  string
	items []dto.MonthlyItemDTO
	sub   *totals
	isDon bool
}

// BuildMonthlyReport agrupa los agregados mensuales por clase de consumible.
// Cada consumible del catálogo tiene su línea "pagada" (préstamos con PU_envoie) en su clase,
// aunque esté a cero; las cantidades donadas van a la clase sintética "Don" con importes null.
func BuildMonthlyReport(
	serviceID int64,
	p Period,
	catalog []repository.CatalogConsumableResult,
	rows []repository.ConsumableMonthResult,
) *dto.MonthlyReportDTO {
	months := Months(p)
	byKey := make(map[string]string, len(months))
	for _, m := range months {
		byKey[m.Key] = m.Label
	}
	agg := make(map[int64]map[string]repository.ConsumableMonthResult)
	for _, r := range rows {
		if _, ok := byKey[r.Month]; !ok {
			continue
		}
		if agg[r.ConsumableID] == nil {
			agg[r.ConsumableID] = map[string]repository.ConsumableMonthResult{}
		}
		agg[r.ConsumableID][r.Month] = r
	}

	groups := map[string]*classGroup{}
	var order []*classGroup
	group := func(key string, mk func() *classGroup) *classGroup {
		g, ok := groups[key]
		if !ok {
			g = mk()
			groups[key] = g
			order = append(order, g)
		}
		return g
	}

	for _, c := range catalog {
		classKey := "none"
		if c.ClassID != nil {
			classKey = c.ClassCode + "__" + strconv.FormatInt(*c.ClassID, 10)
		}
		cls := group(classKey, func() *classGroup {
			g := &classGroup{id: c.ClassID, code: c.ClassCode, name: c.ClassName, sub: newTotals(months)}
			if c.ClassID == nil {
				g.code, g.name = "", noClassName
			}
			return g
		})

		paid, don := newTotals(months), newTotals(months)
		for _, m := range months {
			r, ok := agg[c.ConsumableID][m.Key]
			if !ok {
				continue
			}
			paid.months[m.Label].qte = r.PaidQty
			paid.months[m.Label].montant = r.PaidAmount
			paid.qte += r.PaidQty
			paid.montant = paid.montant.Add(r.PaidAmount)
			don.months[m.Label].qte = r.DonatedQty
			don.qte += r.DonatedQty
		}

		pu := decimal.Zero
		if c.UnitPrice != nil {
			pu = *c.UnitPrice
		}
		pt := paid.toDTO(true)
		cls.items = append(cls.items, dto.MonthlyItemDTO{
			Designation:  c.Name,
			Unite:        c.Unit,
			PU:           decPtr(pu),
			MonthValues:  pt.MonthValues,
			TotalQte:     pt.TotalQte,
			TotalMontant: pt.TotalMontant,
		})
		cls.sub.add(paid)

		if don.qte > 0 {
			dc := group("__DON__", func() *classGroup {
				return &classGroup{id: new(int64), code: donClassCode, name: donClassName, sub: newTotals(months), isDon: true}
			})
			dt := don.toDTO(false)
			dc.items = append(dc.items, dto.MonthlyItemDTO{
				Designation: c.Name,
				Unite:       c.Unit,
				MonthValues: dt.MonthValues,
				TotalQte:    dt.TotalQte,
			})
			dc.sub.add(don)
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		if order[i].code != order[j].code {
			return order[i].code < order[j].code
		}
		return order[i].name < order[j].name
	})

	grand := newTotals(months)
	out := &dto.MonthlyReportDTO{
		ServiceID: serviceID,
		Period:    dto.PeriodDTO{Start: p.Start, End: p.End},
		Months:    make([]string, 0, len(months)),
		Classes:   make([]dto.MonthlyClassDTO, 0, len(order)),
	}
	for _, m := range months {
		out.Months = append(out.Months, m.Label)
	}
	for _, g := range order {
		grand.add(g.sub)
		out.Classes = append(out.Classes, dto.MonthlyClassDTO{
			ClassID:   g.id,
			ClassCode: g.code,
			ClassName: g.name,
			Items:     g.items,
			Subtotal:  g.sub.toDTO(!g.isDon),
		})
	}
	out.Total = grand.toDTO(true)
	return out
}

func decPtr(d decimal.Decimal) *decimal.Decimal { return &d }
