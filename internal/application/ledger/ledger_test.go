package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Materiel-api/internal/application/dto"
	"github.com/jhoicas/Materiel-api/internal/application/ledger"
	"github.com/jhoicas/Materiel-api/internal/domain"
	"github.com/jhoicas/Materiel-api/internal/domain/entity"
)

const (
	gantsID    int64 = 1
	compressID int64 = 2
	serviceA   int64 = 10
	serviceB   int64 = 11
	donorID    int64 = 20
)

type fixture struct {
	uc       *ledger.LedgerUseCase
	store    *memStore
	notifier *recordingNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := newMemStore()
	s.consumables[gantsID] = entity.Consumable{ID: gantsID, Name: "Gants", Unit: "paire"}
	s.consumables[compressID] = entity.Consumable{ID: compressID, Name: "Compresses", Unit: "boîte"}
	services := newCatalog(map[int64]*entity.Service{
		serviceA: {ID: serviceA, Name: "Pédiatrie"},
		serviceB: {ID: serviceB, Name: "Urgences"},
	})
	donors := newCatalog(map[int64]*entity.Donor{donorID: {ID: donorID, Name: "Croix-Rouge"}})
	n := &recordingNotifier{}
	uc := ledger.NewLedgerUseCase(memTx{s}, memConsumables{s}, memLots{s}, memLoans{s}, donors, services, n)
	return &fixture{uc: uc, store: s, notifier: n}
}

func day(d int) *time.Time {
	t := time.Date(2025, time.January, d, 9, 0, 0, 0, time.UTC)
	return &t
}

func intPtr(v int) *int { return &v }
func idPtr(v int64) *int64 { return &v }
func dec(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func (f *fixture) donate(t *testing.T, consID int64, qty int, date *time.Time) dto.DonationLotResponse {
	t.Helper()
	res, err := f.uc.RecordDonation(context.Background(), dto.CreateDonationLotRequest{
		ConsumableID: consID, Quantity: qty, DonationDate: date,
	})
	require.NoError(t, err)
	return res.Lot
}

func (f *fixture) lend(t *testing.T, consID, serviceID int64, qty int, date *time.Time) dto.LoanResponse {
	t.Helper()
	res, err := f.uc.RecordLoan(context.Background(), dto.CreateConsumableLoanRequest{
		ConsumableID: consID, ServiceID: serviceID, Quantity: qty, SendDate: date,
	})
	require.NoError(t, err)
	return res.Loan
}

// ──────────────────────────────────────────────────────────────────────────────
// Entradas y salidas
// ──────────────────────────────────────────────────────────────────────────────

func TestLedger_EscenarioGants(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.donate(t, gantsID, 100, day(1))
	assert.Equal(t, 100, f.store.qty(gantsID))

	loanA := f.lend(t, gantsID, serviceA, 30, day(2))
	assert.Equal(t, 70, f.store.qty(gantsID))

	_, err := f.uc.RecordLoan(ctx, dto.CreateConsumableLoanRequest{
		ConsumableID: gantsID, ServiceID: serviceB, Quantity: 80, SendDate: day(3),
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 70, f.store.qty(gantsID), "un préstamo rechazado no modifica el stock")
	n, err := f.uc.CountLoans(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	res, err := f.uc.ReturnOrCancelLoan(ctx, loanA.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, res.Consumable.Quantity)
	assert.Equal(t, 100, f.store.qty(gantsID))
	assert.Empty(t, f.store.loans)
}

func TestRecordDonation_PrecioPositivoActualizaConsumible(t *testing.T) {
	f := newFixture(t)
	res, err := f.uc.RecordDonation(context.Background(), dto.CreateDonationLotRequest{
		ConsumableID: gantsID, Quantity: 5, UnitPrice: dec(3), DonorID: idPtr(donorID),
	})
	require.NoError(t, err)
	require.NotNil(t, res.Consumable.UnitPrice)
	assert.True(t, res.Consumable.UnitPrice.Equal(decimal.NewFromInt(3)))
	assert.Equal(t, "Croix-Rouge", res.Lot.DonorName)

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, entity.AudienceAdmin, f.notifier.sent[0].Audience)
}

func TestRecordDonation_Validaciones(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.RecordDonation(ctx, dto.CreateDonationLotRequest{ConsumableID: gantsID, Quantity: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.RecordDonation(ctx, dto.CreateDonationLotRequest{ConsumableID: 999, Quantity: 3})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.uc.RecordDonation(ctx, dto.CreateDonationLotRequest{ConsumableID: gantsID, Quantity: 3, DonorID: idPtr(404)})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Empty(t, f.store.lots)
	assert.Empty(t, f.notifier.sent)
}

func TestRecordLoan_ServicioInexistente(t *testing.T) {
	f := newFixture(t)
	f.donate(t, gantsID, 10, day(1))
	_, err := f.uc.RecordLoan(context.Background(), dto.CreateConsumableLoanRequest{
		ConsumableID: gantsID, ServiceID: 404, Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 10, f.store.qty(gantsID))
}

func TestRecordLoan_NotificaAlServicio(t *testing.T) {
	f := newFixture(t)
	f.donate(t, gantsID, 10, day(1))
	f.notifier.sent = nil

	f.lend(t, gantsID, serviceA, 2, day(2))
	require.Len(t, f.notifier.sent, 1)
	n := f.notifier.sent[0]
	assert.Equal(t, entity.NotifConsumableSent, n.Type)
	assert.Equal(t, entity.AudienceService, n.Audience)
	require.NotNil(t, n.ServiceID)
	assert.Equal(t, serviceA, *n.ServiceID)
	assert.Equal(t, "Nous avons reçu 2 PAIRES de GANTS.", n.Message)
}

// ──────────────────────────────────────────────────────────────────────────────
// Reversión y bloqueo de historial
// ──────────────────────────────────────────────────────────────────────────────

func TestReverseDonation_IdaYVuelta(t *testing.T) {
	f := newFixture(t)
	lot := f.donate(t, gantsID, 40, day(1))

	res, err := f.uc.ReverseDonation(context.Background(), lot.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Consumable.Quantity)
	assert.Empty(t, f.store.lots)
}

func TestReverseDonation_PrestamoPosteriorBloquea(t *testing.T) {
	f := newFixture(t)
	lot := f.donate(t, gantsID, 40, day(10))
	f.lend(t, gantsID, serviceA, 5, day(15))

	_, err := f.uc.ReverseDonation(context.Background(), lot.ID)
	require.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, 35, f.store.qty(gantsID))
	assert.Len(t, f.store.lots, 1)
}

func TestReverseDonation_StockNegativoRechazado(t *testing.T) {
	f := newFixture(t)
	lot := f.donate(t, gantsID, 40, day(10))
	c := f.store.consumables[gantsID]
	c.QuantityOnHand = 5
	f.store.consumables[gantsID] = c

	_, err := f.uc.ReverseDonation(context.Background(), lot.ID)
	require.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Equal(t, 5, f.store.qty(gantsID))
	assert.Len(t, f.store.lots, 1)
}

func TestReverseDonation_LoteInexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.ReverseDonation(context.Background(), 77)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAmendDonation_CambioDeCantidad(t *testing.T) {
	f := newFixture(t)
	lot := f.donate(t, gantsID, 40, day(1))

	res, err := f.uc.AmendDonation(context.Background(), lot.ID, dto.UpdateDonationLotRequest{Quantity: intPtr(25)})
	require.NoError(t, err)
	assert.Equal(t, 25, res.Consumable.Quantity)
	assert.Equal(t, 25, res.Lot.Quantity)
	assert.Nil(t, res.PreviousConsumable)
}

func TestAmendDonation_CambioDeConsumible(t *testing.T) {
	f := newFixture(t)
	lot := f.donate(t, gantsID, 40, day(1))

	res, err := f.uc.AmendDonation(context.Background(), lot.ID, dto.UpdateDonationLotRequest{
		ConsumableID: idPtr(compressID), Quantity: intPtr(30),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, f.store.qty(gantsID))
	assert.Equal(t, 30, f.store.qty(compressID))
	require.NotNil(t, res.PreviousConsumable)
	assert.Equal(t, gantsID, res.PreviousConsumable.ID)
	assert.Equal(t, compressID, res.Lot.ConsumableID)
}

func TestAmendDonation_HistorialBloqueaSoloCambiosDeStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lot := f.donate(t, gantsID, 40, day(1))
	f.lend(t, gantsID, serviceA, 5, day(2))

	_, err := f.uc.AmendDonation(ctx, lot.ID, dto.UpdateDonationLotRequest{Quantity: intPtr(50)})
	require.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, 35, f.store.qty(gantsID))

	res, err := f.uc.AmendDonation(ctx, lot.ID, dto.UpdateDonationLotRequest{DonorID: idPtr(donorID)})
	require.NoError(t, err)
	assert.Equal(t, "Croix-Rouge", res.Lot.DonorName)
}

// ──────────────────────────────────────────────────────────────────────────────
// Modificación y agotamiento de préstamos
// ──────────────────────────────────────────────────────────────────────────────

func TestAmendLoan_Diferencia(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.donate(t, gantsID, 50, day(1))
	loan := f.lend(t, gantsID, serviceA, 20, day(2))

	_, err := f.uc.AmendLoan(ctx, loan.ID, dto.UpdateConsumableLoanRequest{Quantity: intPtr(60)})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 30, f.store.qty(gantsID))
	assert.Equal(t, 20, f.store.loans[loan.ID].Quantity)

	res, err := f.uc.AmendLoan(ctx, loan.ID, dto.UpdateConsumableLoanRequest{Quantity: intPtr(45)})
	require.NoError(t, err)
	assert.Equal(t, 5, res.Consumable.Quantity)

	res, err = f.uc.AmendLoan(ctx, loan.ID, dto.UpdateConsumableLoanRequest{Quantity: intPtr(10)})
	require.NoError(t, err)
	assert.Equal(t, 40, res.Consumable.Quantity)
}

func TestAmendLoan_CambioDeConsumible(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.donate(t, gantsID, 50, day(1))
	f.donate(t, compressID, 8, day(1))
	loan := f.lend(t, gantsID, serviceA, 20, day(2))

	_, err := f.uc.AmendLoan(ctx, loan.ID, dto.UpdateConsumableLoanRequest{ConsumableID: idPtr(compressID)})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 30, f.store.qty(gantsID))
	assert.Equal(t, 8, f.store.qty(compressID))

	res, err := f.uc.AmendLoan(ctx, loan.ID, dto.UpdateConsumableLoanRequest{
		ConsumableID: idPtr(compressID), Quantity: intPtr(6), ServiceID: idPtr(serviceB),
	})
	require.NoError(t, err)
	assert.Equal(t, 50, f.store.qty(gantsID))
	assert.Equal(t, 2, f.store.qty(compressID))
	require.NotNil(t, res.PreviousConsumable)
	assert.Equal(t, 50, res.PreviousConsumable.Quantity)
	assert.Equal(t, "Urgences", res.Loan.ServiceName)
}

func TestMarkExhausted_NoDevuelveStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.donate(t, gantsID, 10, day(1))
	loan := f.lend(t, gantsID, serviceA, 4, day(2))
	f.notifier.sent = nil

	res, err := f.uc.MarkExhausted(ctx, loan.ID, dto.ReturnDateRequest{ReturnDate: day(12)})
	require.NoError(t, err)
	assert.Equal(t, 6, f.store.qty(gantsID))
	require.NotNil(t, res.Loan.ReturnDate)
	assert.Equal(t, *day(12), *res.Loan.ReturnDate)

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, entity.NotifConsumableExhausted, f.notifier.sent[0].Type)
	assert.Equal(t, entity.AudienceAdmin, f.notifier.sent[0].Audience)

	_, err = f.uc.MarkExhausted(ctx, loan.ID, dto.ReturnDateRequest{ReturnDate: day(13)})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestReturnOrCancelLoan_PrestamoAgotadoEsConflicto(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.donate(t, gantsID, 10, day(1))
	loan := f.lend(t, gantsID, serviceA, 4, day(2))
	_, err := f.uc.MarkExhausted(ctx, loan.ID, dto.ReturnDateRequest{ReturnDate: day(12)})
	require.NoError(t, err)
	f.notifier.sent = nil

	_, err = f.uc.ReturnOrCancelLoan(ctx, loan.ID)
	require.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, 6, f.store.qty(gantsID), "un préstamo agotado no devuelve stock")
	require.Contains(t, f.store.loans, loan.ID)
	assert.NotNil(t, f.store.loans[loan.ID].ReturnDate)
	assert.Empty(t, f.notifier.sent)
}

func TestMarkExhausted_FechaAnteriorAlEnvio(t *testing.T) {
	f := newFixture(t)
	f.donate(t, gantsID, 10, day(1))
	loan := f.lend(t, gantsID, serviceA, 4, day(5))

	_, err := f.uc.MarkExhausted(context.Background(), loan.ID, dto.ReturnDateRequest{ReturnDate: day(3)})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, f.store.loans[loan.ID].ReturnDate)
}

func TestListLoans_FiltraPorServicio(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.donate(t, gantsID, 10, day(1))
	f.lend(t, gantsID, serviceA, 1, day(2))
	f.lend(t, gantsID, serviceB, 2, day(2))
	f.lend(t, gantsID, serviceA, 3, day(3))

	loans, err := f.uc.ListLoans(ctx, idPtr(serviceA))
	require.NoError(t, err)
	assert.Len(t, loans, 2)

	all, err := f.uc.ListLoans(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = f.uc.GetLoan(ctx, 12345)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
