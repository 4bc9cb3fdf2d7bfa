package equipment_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/Materiel-api/internal/domain"
	"github.com/jhoicas/Materiel-api/internal/domain/entity"
	"github.com/jhoicas/Materiel-api/internal/domain/repository"
)

var errBoom = errors.New("boom")

// memStore lotes y préstamos en memoria; RunEquipment restaura el estado si la función falla.
type memStore struct {
	mu        sync.Mutex
	lots      map[int64]entity.EquipmentLot
	loans     map[int64]entity.Loan
	materials map[int64]*entity.Material
	services  map[int64]*entity.Service
	nextID    int64
	// failCreateAt hace fallar el n-ésimo Create de lote (1-based); 0 = nunca.
	failCreateAt int
	creates      int
}

func newMemStore() *memStore {
	return &memStore{
		lots:      map[int64]entity.EquipmentLot{},
		loans:     map[int64]entity.Loan{},
		materials: map[int64]*entity.Material{},
		services:  map[int64]*entity.Service{},
	}
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memStore) RunEquipment(ctx context.Context, fn func(
	lotRepo repository.EquipmentLotRepository,
	loanRepo repository.LoanRepository,
) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	lots, loans := cloneMap(s.lots), cloneMap(s.loans)
	if err := fn(memLots{s}, memLoans{s}); err != nil {
		s.lots, s.loans = lots, loans
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

func (s *memStore) withNames(l entity.EquipmentLot) *entity.EquipmentLot {
	if m := s.materials[l.MaterialID]; m != nil {
		l.MaterialName = m.Name
	}
	return &l
}

func (s *memStore) loanedEver(lotID int64) bool {
	for _, l := range s.loans {
		if l.LotID != nil && *l.LotID == lotID {
			return true
		}
	}
	return false
}

func (s *memStore) openLoan(lotID int64) bool {
	for _, l := range s.loans {
		if l.LotID != nil && *l.LotID == lotID && l.IsOpen() {
			return true
		}
	}
	return false
}

func (s *memStore) sortedLots(keep func(entity.EquipmentLot) bool) []*entity.EquipmentLot {
	out := []*entity.EquipmentLot{}
	for _, l := range s.lots {
		if keep(l) {
			out = append(out, s.withNames(l))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ── Lotes ─────────────────────────────────────────────────────────────────────

type memLots struct{ s *memStore }

func (r memLots) Create(_ context.Context, l *entity.EquipmentLot) error {
	r.s.creates++
	if r.s.failCreateAt > 0 && r.s.creates == r.s.failCreateAt {
		return errBoom
	}
	l.ID = r.s.id()
	r.s.lots[l.ID] = *l
	return nil
}

func (r memLots) GetByID(_ context.Context, id int64) (*entity.EquipmentLot, error) {
	l, ok := r.s.lots[id]
	if !ok {
		return nil, nil
	}
	return r.s.withNames(l), nil
}

func (r memLots) GetForUpdate(ctx context.Context, id int64) (*entity.EquipmentLot, error) {
	return r.GetByID(ctx, id)
}

func (r memLots) Update(_ context.Context, l *entity.EquipmentLot) error {
	r.s.lots[l.ID] = *l
	return nil
}

// Delete respeta la FK pret.id_lot: con préstamos que referencian el lote devuelve ErrConflict,
// igual que la traducción del 23503 en postgres.
func (r memLots) Delete(_ context.Context, id int64) error {
	if r.s.loanedEver(id) {
		return fmt.Errorf("delete lot_materiel: %w", domain.ErrConflict)
	}
	delete(r.s.lots, id)
	return nil
}

func (r memLots) List(_ context.Context) ([]*entity.EquipmentLot, error) {
	return r.s.sortedLots(func(entity.EquipmentLot) bool { return true }), nil
}

func (r memLots) ListByService(_ context.Context, serviceID int64) ([]*entity.EquipmentLot, error) {
	return r.s.sortedLots(func(l entity.EquipmentLot) bool {
		for _, loan := range r.s.loans {
			if loan.LotID != nil && *loan.LotID == l.ID && loan.ServiceID != nil && *loan.ServiceID == serviceID {
				return true
			}
		}
		return false
	}), nil
}

func (r memLots) Count(_ context.Context) (int, error) { return len(r.s.lots), nil }

func (r memLots) CountByMaterial(_ context.Context, materialID int64) (int, error) {
	n := 0
	for _, l := range r.s.lots {
		if l.MaterialID == materialID {
			n++
		}
	}
	return n, nil
}

func (r memLots) CountByCondition(_ context.Context) ([]repository.ConditionCount, error) {
	counts := map[entity.Condition]int{}
	for _, l := range r.s.lots {
		counts[l.Condition]++
	}
	out := []repository.ConditionCount{}
	for c, n := range counts {
		out = append(out, repository.ConditionCount{Condition: c, Count: n})
	}
	return out, nil
}

func (r memLots) CountOpenByService(_ context.Context, serviceID int64) (int, error) {
	n := 0
	for _, loan := range r.s.loans {
		if loan.LotID != nil && loan.IsOpen() && loan.ServiceID != nil && *loan.ServiceID == serviceID {
			n++
		}
	}
	return n, nil
}

func (r memLots) ListNeverLoanedForUpdate(_ context.Context, materialID int64) ([]*entity.EquipmentLot, error) {
	return r.s.sortedLots(func(l entity.EquipmentLot) bool {
		return l.MaterialID == materialID && !r.s.loanedEver(l.ID)
	}), nil
}

func (r memLots) ListNeverLoaned(_ context.Context) ([]*entity.EquipmentLot, error) {
	return r.s.sortedLots(func(l entity.EquipmentLot) bool { return !r.s.loanedEver(l.ID) }), nil
}

func (r memLots) ListWithoutOpenLoan(_ context.Context) ([]*entity.EquipmentLot, error) {
	return r.s.sortedLots(func(l entity.EquipmentLot) bool { return !r.s.openLoan(l.ID) }), nil
}

func (r memLots) LatestServicePerLot(_ context.Context, materialID int64) ([]repository.LotServiceRow, error) {
	out := []repository.LotServiceRow{}
	for _, lot := range r.s.sortedLots(func(l entity.EquipmentLot) bool { return l.MaterialID == materialID }) {
		row := repository.LotServiceRow{LotID: lot.ID}
		var latest *entity.Loan
		for _, loan := range r.s.loans {
			loan := loan
			if loan.LotID == nil || *loan.LotID != lot.ID {
				continue
			}
			if latest == nil || loan.SendDate.After(latest.SendDate) {
				latest = &loan
			}
		}
		if latest != nil && latest.ServiceID != nil {
			name := r.s.services[*latest.ServiceID].Name
			row.ServiceName = &name
		}
		out = append(out, row)
	}
	return out, nil
}

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

func (r memLoans) List(_ context.Context, f repository.LoanFilter) ([]*entity.Loan, error) {
	out := []*entity.Loan{}
	for _, l := range r.s.loans {
		if f.Kind == repository.LoanKindEquipment && !l.IsEquipment() {
			continue
		}
		if f.ServiceID != nil && (l.ServiceID == nil || *l.ServiceID != *f.ServiceID) {
			continue
		}
		l := l
		out = append(out, &l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memLoans) Count(ctx context.Context, f repository.LoanFilter) (int, error) {
	l, _ := r.List(ctx, f)
	return len(l), nil
}

func (r memLoans) ExistsConsumableLoanSince(context.Context, int64, time.Time) (bool, error) {
	return false, nil
}

func (r memLoans) HasOpenLoanForLot(_ context.Context, lotID int64) (bool, error) {
	return r.s.openLoan(lotID), nil
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

func (c *memCatalog[T]) Create(context.Context, *T) error { return nil }
func (c *memCatalog[T]) GetByID(_ context.Context, id int64) (*T, error) {
	return c.items[id], nil
}
func (c *memCatalog[T]) Update(context.Context, *T) error { return nil }
func (c *memCatalog[T]) Delete(_ context.Context, id int64) error {
	delete(c.items, id)
	return nil
}
func (c *memCatalog[T]) List(context.Context) ([]*T, error) {
	out := make([]*T, 0, len(c.items))
	for _, v := range c.items {
		out = append(out, v)
	}
	return out, nil
}
func (c *memCatalog[T]) Count(context.Context) (int, error) { return len(c.items), nil }

type recordingNotifier struct {
	sent []*entity.Notification
}

func (n *recordingNotifier) Emit(_ context.Context, notif *entity.Notification) {
	n.sent = append(n.sent, notif)
}
