package reporting_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Materiel-api/internal/application/dto"
	"github.com/jhoicas/Materiel-api/internal/application/reporting"
	"github.com/jhoicas/Materiel-api/internal/domain"
	"github.com/jhoicas/Materiel-api/internal/domain/entity"
	"github.com/jhoicas/Materiel-api/internal/domain/repository"
)

func utc(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T { return &v }

// ──────────────────────────────────────────────────────────────────────────────
// Periodos
// ──────────────────────────────────────────────────────────────────────────────

func TestMonths_EtiquetasYClaves(t *testing.T) {
	p := reporting.Period{Start: utc(2024, time.December, 1), End: utc(2025, time.February, 28)}
	months := reporting.Months(p)
	require.Len(t, months, 3)
	assert.Equal(t, reporting.Month{Key: "2024-12", Label: "DEC 2024"}, months[0])
	assert.Equal(t, reporting.Month{Key: "2025-01", Label: "JANV 2025"}, months[1])
	assert.Equal(t, reporting.Month{Key: "2025-02", Label: "FEV 2025"}, months[2])
	assert.Equal(t, "AOUT 2023", reporting.MonthLabel(utc(2023, time.August, 20)))
}

func TestAutoPeriod(t *testing.T) {
	now := time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2025, time.March, 31, 23, 59, 59, int(999*time.Millisecond), time.UTC)

	p := reporting.AutoPeriod(ptr(time.Date(2025, time.January, 17, 8, 30, 0, 0, time.UTC)), now)
	assert.Equal(t, utc(2025, time.January, 1), p.Start)
	assert.Equal(t, wantEnd, p.End)

	empty := reporting.AutoPeriod(nil, now)
	assert.Equal(t, utc(2024, time.February, 1), empty.Start)
	assert.Equal(t, wantEnd, empty.End)
}

func TestManualPeriod(t *testing.T) {
	now := time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)

	p, err := reporting.ManualPeriod("2025-01", "2025-02-10", now)
	require.NoError(t, err)
	assert.Equal(t, utc(2025, time.January, 1), p.Start)
	assert.Equal(t, time.Date(2025, time.February, 28, 23, 59, 59, int(999*time.Millisecond), time.UTC), p.End)

	_, err = reporting.ManualPeriod("janvier", "2025-02", now)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = reporting.ManualPeriod("2025-03", "2025-01", now)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	def, err := reporting.ManualPeriod("", "", now)
	require.NoError(t, err)
	assert.Len(t, reporting.Months(def), 13)
	assert.Equal(t, "FEV 2025", reporting.MonthLabel(def.End))
}

// ──────────────────────────────────────────────────────────────────────────────
// Reporte mensual
// ──────────────────────────────────────────────────────────────────────────────

func TestBuildMonthlyReport_PagadoYDon(t *testing.T) {
	p := reporting.Period{Start: utc(2025, time.January, 1), End: time.Date(2025, time.February, 28, 23, 59, 59, 0, time.UTC)}
	catalog := []repository.CatalogConsumableResult{
		{ConsumableID: 1, Name: "Gants", Unit: "paire", UnitPrice: ptr(decimal.NewFromInt(5)), ClassID: ptr(int64(7)), ClassCode: "A", ClassName: "Hygiène"},
		{ConsumableID: 2, Name: "Coton", Unit: "rouleau"},
	}
	rows := []repository.ConsumableMonthResult{
		{ConsumableID: 1, Month: "2025-01", PaidQty: 10, PaidAmount: decimal.NewFromInt(50), DonatedQty: 4},
		{ConsumableID: 1, Month: "2024-06", PaidQty: 99, PaidAmount: decimal.NewFromInt(1)},
	}

	rep := reporting.BuildMonthlyReport(3, p, catalog, rows)
	assert.Equal(t, int64(3), rep.ServiceID)
	assert.Equal(t, []string{"JANV 2025", "FEV 2025"}, rep.Months)
	require.Len(t, rep.Classes, 3)

	// "" < "A" < "DON"
	none, hyg, don := rep.Classes[0], rep.Classes[1], rep.Classes[2]
	assert.Equal(t, "Sans classe", none.ClassName)
	assert.Nil(t, none.ClassID)
	require.Len(t, none.Items, 1)
	assert.True(t, none.Items[0].PU.IsZero())

	require.Len(t, hyg.Items, 1)
	jan := hyg.Items[0].MonthValues["JANV 2025"]
	assert.Equal(t, 10, jan.Qte)
	require.NotNil(t, jan.Montant)
	assert.True(t, jan.Montant.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, 0, hyg.Items[0].MonthValues["FEV 2025"].Qte)
	assert.True(t, hyg.Subtotal.TotalMontant.Equal(decimal.NewFromInt(50)))

	assert.Equal(t, "DON", don.ClassCode)
	assert.Equal(t, "Don", don.ClassName)
	require.NotNil(t, don.ClassID)
	assert.Equal(t, int64(0), *don.ClassID)
	require.Len(t, don.Items, 1)
	assert.Equal(t, "Gants", don.Items[0].Designation)
	assert.Nil(t, don.Items[0].PU)
	assert.Nil(t, don.Items[0].TotalMontant)
	assert.Equal(t, 4, don.Items[0].MonthValues["JANV 2025"].Qte)
	assert.Nil(t, don.Items[0].MonthValues["JANV 2025"].Montant)
	assert.Equal(t, 4, don.Subtotal.TotalQte)
	assert.Nil(t, don.Subtotal.TotalMontant)

	assert.Equal(t, 14, rep.Total.TotalQte)
	assert.True(t, rep.Total.TotalMontant.Equal(decimal.NewFromInt(50)))
	assert.True(t, rep.Total.MonthValues["JANV 2025"].Montant.Equal(decimal.NewFromInt(50)))
}

func TestBuildMonthlyReport_SinDonacionesNoHayClaseDon(t *testing.T) {
	p := reporting.Period{Start: utc(2025, time.January, 1), End: utc(2025, time.January, 31)}
	catalog := []repository.CatalogConsumableResult{{ConsumableID: 1, Name: "Gants"}}
	rep := reporting.BuildMonthlyReport(1, p, catalog, nil)
	require.Len(t, rep.Classes, 1)
	assert.Equal(t, "Sans classe", rep.Classes[0].ClassName)
	assert.Zero(t, rep.Total.TotalQte)
}

// ──────────────────────────────────────────────────────────────────────────────
// Ficha de stock e inventario
// ──────────────────────────────────────────────────────────────────────────────

func TestBuildStockTrace_SaldoCorrido(t *testing.T) {
	events := []repository.StockEventResult{
		{Date: utc(2025, time.January, 5), Quantity: 30, ServiceName: "Pédiatrie"},
		{Date: utc(2025, time.January, 1), Entry: true, Quantity: 100},
		{Date: utc(2025, time.January, 5), Entry: true, Quantity: 10},
		{Date: utc(2025, time.January, 9), Quantity: 5},
	}
	trace := reporting.BuildStockTrace(dto.StockTraceHeaderDTO{Name: "Gants", Unit: "paire", Class: "Hygiène"}, 75, events)

	assert.Zero(t, trace.Opening)
	require.Len(t, trace.Rows, 4)
	assert.Equal(t, dto.StockTraceRowDTO{Date: utc(2025, time.January, 1), Service: "-", Existing: 0, Entries: 100, Balance: 100}, trace.Rows[0])
	assert.Equal(t, dto.StockTraceRowDTO{Date: utc(2025, time.January, 5), Service: "-", Existing: 100, Entries: 10, Balance: 110}, trace.Rows[1])
	assert.Equal(t, dto.StockTraceRowDTO{Date: utc(2025, time.January, 5), Service: "Pédiatrie", Existing: 110, Exits: 30, Balance: 80}, trace.Rows[2])
	assert.Equal(t, "Inconnu", trace.Rows[3].Service)
	assert.Equal(t, 75, trace.Rows[3].Balance)
}

func TestBuildStockTrace_StockInicialDelAlta(t *testing.T) {
	// consumible creado con 20 unidades sin lote de donación
	events := []repository.StockEventResult{
		{Date: utc(2025, time.February, 2), Quantity: 25, ServiceName: "Urgences"},
		{Date: utc(2025, time.February, 1), Entry: true, Quantity: 10},
	}
	trace := reporting.BuildStockTrace(dto.StockTraceHeaderDTO{Name: "Seringue"}, 5, events)

	assert.Equal(t, 20, trace.Opening)
	require.Len(t, trace.Rows, 2)
	assert.Equal(t, 20, trace.Rows[0].Existing)
	assert.Equal(t, 30, trace.Rows[0].Balance)
	assert.Equal(t, 5, trace.Rows[1].Balance, "el último saldo es el stock actual")
	for _, r := range trace.Rows {
		assert.GreaterOrEqual(t, r.Balance, 0)
	}
}

func TestBuildInventory_TotalesPorEstado(t *testing.T) {
	rows := []repository.InventoryResult{
		{MaterialID: 2, MaterialName: "Tensiomètre", ClassName: "Diagnostic", Condition: entity.ConditionGood, Lots: 2},
		{MaterialID: 1, MaterialName: "Lit", ClassName: "Mobilier", Condition: entity.ConditionGood, Lots: 3},
		{MaterialID: 1, MaterialName: "Lit", ClassName: "Mobilier", Condition: entity.ConditionOutOfService, Lots: 1},
	}
	inv := reporting.BuildInventory(dto.InventoryHeaderDTO{Service: "Urgences"}, rows)

	assert.Equal(t, dto.InventoryHeaderDTO{Title: "INVENTAIRE MATERIEL", Year: "Toutes années", Service: "Urgences", Class: "Toutes classes"}, inv.Header)
	require.Len(t, inv.Items, 2)
	assert.Equal(t, "Tensiomètre", inv.Items[0].Designation)
	assert.Equal(t, 4, inv.Items[1].Total)
	assert.Equal(t, 1, inv.Items[1].Conditions["EN_PANNE"])
	assert.Equal(t, 0, inv.Items[1].Conditions["PERDU"])
	assert.Equal(t, 5, inv.Totals["BON"])
	assert.Equal(t, 6, inv.Totals["TOTAL"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Casos de uso
// ──────────────────────────────────────────────────────────────────────────────

type stubReports struct {
	repository.ReportRepository
	top       []repository.TopConsumableResult
	gotLimit  int
	earliest  map[bool]*time.Time
	inventory []repository.InventoryResult
}

func (s *stubReports) TopConsumables(_ context.Context, _ int64, limit int) ([]repository.TopConsumableResult, error) {
	s.gotLimit = limit
	return s.top, nil
}

func (s *stubReports) EarliestLoanDate(_ context.Context, serviceID *int64) (*time.Time, error) {
	return s.earliest[serviceID != nil], nil
}

func (s *stubReports) ConsumableCatalog(context.Context) ([]repository.CatalogConsumableResult, error) {
	return nil, nil
}

func (s *stubReports) ConsumableMonthly(context.Context, int64, time.Time, time.Time) ([]repository.ConsumableMonthResult, error) {
	return nil, nil
}

func (s *stubReports) ServiceInventory(context.Context, int64, *int64, *time.Time, *time.Time) ([]repository.InventoryResult, error) {
	return s.inventory, nil
}

type stubCatalog[T any] map[int64]*T

func (s stubCatalog[T]) Create(context.Context, *T) error { return nil }
func (s stubCatalog[T]) Update(context.Context, *T) error { return nil }
func (s stubCatalog[T]) Delete(context.Context, int64) error { return nil }
func (s stubCatalog[T]) Count(context.Context) (int, error) { return len(s), nil }
func (s stubCatalog[T]) GetByID(_ context.Context, id int64) (*T, error) {
	return s[id], nil
}
func (s stubCatalog[T]) List(context.Context) ([]*T, error) {
	out := make([]*T, 0, len(s))
	for _, v := range s {
		out = append(out, v)
	}
	return out, nil
}

func newUseCase(r *stubReports) *reporting.ReportingUseCase {
	services := stubCatalog[entity.Service]{10: {ID: 10, Name: "Pédiatrie"}}
	classes := stubCatalog[entity.Class]{7: {ID: 7, Code: "A", Name: "Mobilier"}}
	return reporting.NewReportingUseCase(r, services, classes, nil, nil, nil)
}

func TestTopConsumables_LimitesYServicio(t *testing.T) {
	r := &stubReports{top: []repository.TopConsumableResult{
		{ConsumableID: 1, Name: "Gants", TotalQty: 12, TotalCost: decimal.RequireFromString("60.456"), LoanCount: 2},
	}}
	uc := newUseCase(r)
	ctx := context.Background()

	res, err := uc.TopConsumables(ctx, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 10, r.gotLimit)
	assert.Equal(t, "Pédiatrie", res.Service)
	assert.Equal(t, "60.46", res.Items[0].TotalCost.String())

	_, err = uc.TopConsumables(ctx, 10, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.TopConsumables(ctx, 10, 101)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.TopConsumables(ctx, 99, 5)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMonthlyConsumableReportAuto_UsaPrimerPrestamoGlobal(t *testing.T) {
	global := time.Date(2023, time.November, 20, 0, 0, 0, 0, time.UTC)
	r := &stubReports{earliest: map[bool]*time.Time{false: &global}}
	rep, err := newUseCase(r).MonthlyConsumableReportAuto(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, utc(2023, time.November, 1), rep.Period.Start)
	assert.Equal(t, "NOV 2023", rep.Months[0])

	_, err = newUseCase(r).MonthlyConsumableReportAuto(context.Background(), 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestServiceEquipmentInventory_Cabecera(t *testing.T) {
	uc := newUseCase(&stubReports{})
	ctx := context.Background()

	inv, err := uc.ServiceEquipmentInventory(ctx, 10, ptr(int64(7)), "2024")
	require.NoError(t, err)
	assert.Equal(t, "2024", inv.Header.Year)
	assert.Equal(t, "Mobilier", inv.Header.Class)
	assert.Equal(t, "Pédiatrie", inv.Header.Service)
	assert.Equal(t, 0, inv.Totals["TOTAL"])

	_, err = uc.ServiceEquipmentInventory(ctx, 10, nil, "deux-mille")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.ServiceEquipmentInventory(ctx, 10, ptr(int64(8)), "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
