package ledger_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Materiel-api/internal/domain/entity"
	"github.com/jhoicas/Materiel-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Almacén en memoria con semántica transaccional (snapshot + rollback)
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	mu          sync.Mutex
	consumables map[int64]entity.Consumable
	lots        map[int64]entity.DonationLot
	loans       map[int64]entity.Loan
	nextID      int64
}

func newMemStore() *memStore {
	return &memStore{
		consumables: map[int64]entity.Consumable{},
		lots:        map[int64]entity.DonationLot{},
		loans:       map[int64]entity.Loan{},
		nextID:      1000,
	}
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memStore) qty(id int64) int {
	return s.consumables[id].QuantityOnHand
}

type memTx struct{ s *memStore }

// Run ejecuta fn bajo el mutex del almacén; si fn falla se restaura el estado previo.
func (tx memTx) Run(ctx context.Context, fn func(
	consumableRepo repository.ConsumableRepository,
	lotRepo repository.DonationLotRepository,
	loanRepo repository.LoanRepository,
) error) error {
	s := tx.s
	s.mu.Lock()
	defer s.mu.Unlock()
	cons, lots, loans := cloneMap(s.consumables), cloneMap(s.lots), cloneMap(s.loans)
	if err := fn(memConsumables{s}, memLots{s}, memLoans{s}); err != nil {
		s.consumables, s.lots, s.loans = cons, lots, loans
		return err
	}
	return nil
}

func cloneMap[T any](m map[int64]T) map[int64]T {
	out := make(map[int64]T, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// ── Consumibles ───────────────────────────────────────────────────────────────

type memConsumables struct{ s *memStore }

func (r memConsumables) Create(_ context.Context, c *entity.Consumable) error {
	c.ID = r.s.id()
	r.s.consumables[c.ID] = *c
	return nil
}

func (r memConsumables) GetByID(_ context.Context, id int64) (*entity.Consumable, error) {
	c, ok := r.s.consumables[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r memConsumables) GetForUpdate(ctx context.Context, id int64) (*entity.Consumable, error) {
	return r.GetByID(ctx, id)
}

func (r memConsumables) Update(_ context.Context, c *entity.Consumable) error {
	cur := r.s.consumables[c.ID]
	c.QuantityOnHand = cur.QuantityOnHand
	r.s.consumables[c.ID] = *c
	return nil
}

func (r memConsumables) UpdateQuantity(_ context.Context, id int64, qty int) error {
	c := r.s.consumables[id]
	c.QuantityOnHand = qty
	r.s.consumables[id] = c
	return nil
}

func (r memConsumables) UpdateUnitPrice(_ context.Context, id int64, price decimal.Decimal) error {
	c := r.s.consumables[id]
	c.UnitPrice = &price
	r.s.consumables[id] = c
	return nil
}

func (r memConsumables) List(_ context.Context) ([]*entity.Consumable, error) {
	out := []*entity.Consumable{}
	for _, c := range r.s.consumables {
		c := c
		out = append(out, &c)
	}
	return out, nil
}

func (r memConsumables) Delete(_ context.Context, id int64) error {
	delete(r.s.consumables, id)
	return nil
}

func (r memConsumables) Count(_ context.Context) (int, error) { return len(r.s.consumables), nil }

// ── Lotes de consumible ───────────────────────────────────────────────────────

type memLots struct{ s *memStore }

func (r memLots) Create(_ context.Context, l *entity.DonationLot) error {
	l.ID = r.s.id()
	r.s.lots[l.ID] = *l
	return nil
}

func (r memLots) GetByID(_ context.Context, id int64) (*entity.DonationLot, error) {
	l, ok := r.s.lots[id]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func (r memLots) GetForUpdate(ctx context.Context, id int64) (*entity.DonationLot, error) {
	return r.GetByID(ctx, id)
}

func (r memLots) Update(_ context.Context, l *entity.DonationLot) error {
	r.s.lots[l.ID] = *l
	return nil
}

func (r memLots) Delete(_ context.Context, id int64) error {
	delete(r.s.lots, id)
	return nil
}

func (r memLots) List(_ context.Context, consumableID *int64) ([]*entity.DonationLot, error) {
	out := []*entity.DonationLot{}
	for _, l := range r.s.lots {
		if consumableID != nil && l.ConsumableID != *consumableID {
			continue
		}
		l := l
		out = append(out, &l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memLots) Count(_ context.Context) (int, error) { return len(r.s.lots), nil }

// ── Préstamos ─────────────────────────────────────────────────────────────────

type memLoans struct{ s *memStore }

func (r memLoans) Create(_ context.Context, l *entity.Loan) error {
	l.ID = r.s.id()
	r.s.loans[l.ID] = *l
	return nil
}

func (r memLoans) GetByID(_ context.Context, id int64) (*entity.Loan, error) {
	l, ok := r.s.loans[id]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func (r memLoans) GetForUpdate(ctx context.Context, id int64) (*entity.Loan, error) {
	return r.GetByID(ctx, id)
}

func (r memLoans) Update(_ context.Context, l *entity.Loan) error {
	r.s.loans[l.ID] = *l
	return nil
}

func (r memLoans) Delete(_ context.Context, id int64) error {
	delete(r.s.loans, id)
	return nil
}

func (r memLoans) match(l entity.Loan, f repository.LoanFilter) bool {
	switch f.Kind {
	case repository.LoanKindConsumable:
		if !l.IsConsumable() {
			return false
		}
	case repository.LoanKindEquipment:
		if !l.IsEquipment() {
			return false
		}
	}
	if f.ServiceID != nil && (l.ServiceID == nil || *l.ServiceID != *f.ServiceID) {
		return false
	}
	if f.ConsumableID != nil && (l.ConsumableID == nil || *l.ConsumableID != *f.ConsumableID) {
		return false
	}
	if f.LotID != nil && (l.LotID == nil || *l.LotID != *f.LotID) {
		return false
	}
	return true
}

func (r memLoans) List(_ context.Context, f repository.LoanFilter) ([]*entity.Loan, error) {
	out := []*entity.Loan{}
	for _, l := range r.s.loans {
		if r.match(l, f) {
			l := l
			out = append(out, &l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memLoans) Count(ctx context.Context, f repository.LoanFilter) (int, error) {
	l, _ := r.List(ctx, f)
	return len(l), nil
}

func (r memLoans) ExistsConsumableLoanSince(_ context.Context, consumableID int64, since time.Time) (bool, error) {
	for _, l := range r.s.loans {
		if l.ConsumableID != nil && *l.ConsumableID == consumableID && !l.SendDate.Before(since) {
			return true, nil
		}
	}
	return false, nil
}

func (r memLoans) HasOpenLoanForLot(_ context.Context, lotID int64) (bool, error) {
	for _, l := range r.s.loans {
		if l.LotID != nil && *l.LotID == lotID && l.IsOpen() {
			return true, nil
		}
	}
	return false, nil
}

func (r memLoans) DeleteClosedForLot(_ context.Context, lotID int64) (int, error) {
	n := 0
	for k, l := range r.s.loans {
		if l.LotID != nil && *l.LotID == lotID && !l.IsOpen() {
			delete(r.s.loans, k)
			n++
		}
	}
	return n, nil
}

// ── Catálogo y notificaciones ─────────────────────────────────────────────────

type memCatalog[T any] struct {
	items map[int64]*T
}

func newCatalog[T any](items map[int64]*T) *memCatalog[T] {
	return &memCatalog[T]{items: items}
}

func (c *memCatalog[T]) Create(_ context.Context, _ *T) error { return nil }
func (c *memCatalog[T]) GetByID(_ context.Context, id int64) (*T, error) {
	return c.items[id], nil
}
func (c *memCatalog[T]) Update(_ context.Context, _ *T) error { return nil }
func (c *memCatalog[T]) Delete(_ context.Context, id int64) error {
	delete(c.items, id)
	return nil
}
func (c *memCatalog[T]) List(_ context.Context) ([]*T, error) {
	out := make([]*T, 0, len(c.items))
	for _, v := range c.items {
		out = append(out, v)
	}
	return out, nil
}
func (c *memCatalog[T]) Count(_ context.Context) (int, error) { return len(c.items), nil }

type recordingNotifier struct {
	sent []*entity.Notification
}

func (n *recordingNotifier) Emit(_ context.Context, notif *entity.Notification) {
	n.sent = append(n.sent, notif)
}
