// Package equipment implementa el seguimiento de lotes de material: alta (individual o en lote),
// estado físico, envío a servicios, retorno y traslado de préstamos.
package equipment

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/jhoicas/Materiel-api/internal/application/ports"
	"github.com/jhoicas/Materiel-api/internal/domain"
	"github.com/jhoicas/Materiel-api/internal/domain/entity"
	"github.com/jhoicas/Materiel-api/internal/domain/repository"
	"github.com/jhoicas/Materiel-api/pkg/logger"
)

// EquipmentUseCase casos de uso de lotes y préstamos de material.
type EquipmentUseCase struct {
	txRunner  TxRunner
	lots      repository.EquipmentLotRepository
	loans     repository.LoanRepository
	materials repository.MaterialRepository
	donors    repository.DonorRepository
	services  repository.ServiceRepository
	notifier  ports.Notifier
	log       *logger.Logger
	now       func() time.Time
	shuffle   func(n int, swap func(i, j int))
}

// NewEquipmentUseCase construye el caso de uso.
func NewEquipmentUseCase(
	txRunner TxRunner,
	lots repository.EquipmentLotRepository,
	loans repository.LoanRepository,
	materials repository.MaterialRepository,
	donors repository.DonorRepository,
	services repository.ServiceRepository,
	notifier ports.Notifier,
	log *logger.Logger,
) *EquipmentUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &EquipmentUseCase{
		txRunner:  txRunner,
		lots:      lots,
		loans:     loans,
		materials: materials,
		donors:    donors,
		services:  services,
		notifier:  notifier,
		log:       log.Component("equipment"),
		now:       time.Now,
		shuffle:   rand.Shuffle,
	}
}

func (uc *EquipmentUseCase) getMaterial(ctx context.Context, id int64) (*entity.Material, error) {
	m, err := uc.materials.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("%w: matériel %d", domain.ErrNotFound, id)
	}
	return m, nil
}

func (uc *EquipmentUseCase) getDonor(ctx context.Context, id *int64) (*entity.Donor, error) {
	if id == nil {
		return nil, nil
	}
	d, err := uc.donors.GetByID(ctx, *id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, fmt.Errorf("%w: donneur %d", domain.ErrNotFound, *id)
	}
	return d, nil
}

func (uc *EquipmentUseCase) getService(ctx context.Context, id int64) (*entity.Service, error) {
	s, err := uc.services.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("%w: service %d", domain.ErrNotFound, id)
	}
	return s, nil
}

func lockLot(ctx context.Context, repo repository.EquipmentLotRepository, id int64) (*entity.EquipmentLot, error) {
	lot, err := repo.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if lot == nil {
		return nil, fmt.Errorf("%w: lot %d", domain.ErrNotFound, id)
	}
	return lot, nil
}

func lockEquipmentLoan(ctx context.Context, repo repository.LoanRepository, id int64) (*entity.Loan, error) {
	loan, err := repo.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if loan == nil || !loan.IsEquipment() {
		return nil, fmt.Errorf("%w: prêt de matériel %d", domain.ErrNotFound, id)
	}
	return loan, nil
}

func (uc *EquipmentUseCase) emit(ctx context.Context, n *entity.Notification) {
	if uc.notifier != nil {
		uc.notifier.Emit(ctx, n)
	}
}

func donorName(d *entity.Donor) string {
	if d == nil {
		return ""
	}
	return d.Name
}

func ptr[T any](v T) *T { return &v }
