// Package ledger implementa el ledger de consumibles: entradas por lote de donación y salidas por
// préstamo a los servicios, manteniendo quantite_consommable >= 0 de forma transaccional.
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Materiel-api/internal/application/ports"
	"github.com/jhoicas/Materiel-api/internal/domain"
	"github.com/jhoicas/Materiel-api/internal/domain/entity"
	"github.com/jhoicas/Materiel-api/internal/domain/repository"
)

// LedgerUseCase casos de uso del stock de consumibles.
type LedgerUseCase struct {
	txRunner    TxRunner
	consumables repository.ConsumableRepository
	lots        repository.DonationLotRepository
	loans       repository.LoanRepository
	donors      repository.DonorRepository
	services    repository.ServiceRepository
	notifier    ports.Notifier
	now         func() time.Time
}

// NewLedgerUseCase construye el caso de uso. Los repositorios sin tx se usan solo para lecturas.
func NewLedgerUseCase(
	txRunner TxRunner,
	consumables repository.ConsumableRepository,
	lots repository.DonationLotRepository,
	loans repository.LoanRepository,
	donors repository.DonorRepository,
	services repository.ServiceRepository,
	notifier ports.Notifier,
) *LedgerUseCase {
	return &LedgerUseCase{
		txRunner:    txRunner,
		consumables: consumables,
		lots:        lots,
		loans:       loans,
		donors:      donors,
		services:    services,
		notifier:    notifier,
		now:         time.Now,
	}
}

// lockConsumable bloquea la fila del consumible o devuelve ErrNotFound.
func lockConsumable(ctx context.Context, repo repository.ConsumableRepository, id int64) (*entity.Consumable, error) {
	c, err := repo.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: consommable %d", domain.ErrNotFound, id)
	}
	return c, nil
}

// lockPair bloquea dos consumibles distintos en orden de id ascendente y los devuelve en el orden pedido.
func lockPair(ctx context.Context, repo repository.ConsumableRepository, a, b int64) (*entity.Consumable, *entity.Consumable, error) {
	first, second := a, b
	if b < a {
		first, second = b, a
	}
	c1, err := lockConsumable(ctx, repo, first)
	if err != nil {
		return nil, nil, err
	}
	c2, err := lockConsumable(ctx, repo, second)
	if err != nil {
		return nil, nil, err
	}
	if first == a {
		return c1, c2, nil
	}
	return c2, c1, nil
}

func (uc *LedgerUseCase) checkDonor(ctx context.Context, donorID *int64) (*entity.Donor, error) {
	if donorID == nil {
		return nil, nil
	}
	donor, err := uc.donors.GetByID(ctx, *donorID)
	if err != nil {
		return nil, err
	}
	if donor == nil {
		return nil, fmt.Errorf("%w: donneur %d", domain.ErrNotFound, *donorID)
	}
	return donor, nil
}

func (uc *LedgerUseCase) checkService(ctx context.Context, serviceID int64) (*entity.Service, error) {
	svc, err := uc.services.GetByID(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if svc == nil {
		return nil, fmt.Errorf("%w: service %d", domain.ErrNotFound, serviceID)
	}
	return svc, nil
}

func (uc *LedgerUseCase) emit(ctx context.Context, n *entity.Notification) {
	if uc.notifier != nil {
		uc.notifier.Emit(ctx, n)
	}
}

func ptr[T any](v T) *T { return &v }
