package equipment

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jhoicas/Materiel-api/internal/application/dto"
	"github.com/jhoicas/Materiel-api/internal/domain"
	"github.com/jhoicas/Materiel-api/internal/domain/entity"
	"github.com/jhoicas/Materiel-api/internal/domain/inventory"
	"github.com/jhoicas/Materiel-api/internal/domain/repository"
)

// Definiciones de disponibilidad expuestas en AvailabilityDTO.
const (
	AvailabilityNeverLoaned = "jamais_prete"
	AvailabilityNoOpenLoan  = "sans_pret_ouvert"
)

const maxBatchSize = 1000

// insertCoded inserta el lote y, con el id ya asignado, genera y guarda su código.
func insertCoded(ctx context.Context, repo repository.EquipmentLotRepository, lot *entity.EquipmentLot, material, donor string) error {
	if err := repo.Create(ctx, lot); err != nil {
		return err
	}
	lot.Code = inventory.LotCode(lot.ID, material, lot.Serial, donor, lot.DonationDate)
	return repo.Update(ctx, lot)
}

// CreateLot da de alta un lote de material. Estado por defecto BON.
func (uc *EquipmentUseCase) CreateLot(ctx context.Context, in dto.CreateEquipmentLotRequest) (*dto.EquipmentLotResponse, error) {
	serial := strings.TrimSpace(in.Serial)
	if in.MaterialID <= 0 || serial == "" {
		return nil, domain.ErrInvalidInput
	}
	cond := entity.ConditionGood
	if in.Condition != "" {
		cond = entity.Condition(in.Condition)
		if !cond.Valid() {
			return nil, fmt.Errorf("%w: état %q inconnu", domain.ErrInvalidInput, in.Condition)
		}
	}
	material, err := uc.getMaterial(ctx, in.MaterialID)
	if err != nil {
		return nil, err
	}
	donor, err := uc.getDonor(ctx, in.DonorID)
	if err != nil {
		return nil, err
	}

	lot := &entity.EquipmentLot{
		MaterialID:   material.ID,
		DonorID:      in.DonorID,
		Serial:       serial,
		Condition:    cond,
		DonationDate: uc.now(),
	}
	if in.DonationDate != nil {
		lot.DonationDate = *in.DonationDate
	}
	err = uc.txRunner.RunEquipment(ctx, func(lotRepo repository.EquipmentLotRepository, _ repository.LoanRepository) error {
		return insertCoded(ctx, lotRepo, lot, material.Name, donorName(donor))
	})
	if err != nil {
		return nil, err
	}
	lot.MaterialName = material.Name
	lot.DonorName = donorName(donor)
	out := dto.ToEquipmentLotResponse(lot)
	return &out, nil
}

// CreateLotsBatch da de alta Count lotes numerados BaseSerial001, BaseSerial002... en una sola
// transacción: si uno falla no se crea ninguno.
func (uc *EquipmentUseCase) CreateLotsBatch(ctx context.Context, in dto.CreateEquipmentLotsBatchRequest) ([]dto.EquipmentLotResponse, error) {
	base := strings.TrimSpace(in.BaseSerial)
	if in.MaterialID <= 0 || base == "" || in.Count <= 0 || in.Count > maxBatchSize {
		return nil, domain.ErrInvalidInput
	}
	material, err := uc.getMaterial(ctx, in.MaterialID)
	if err != nil {
		return nil, err
	}
	donor, err := uc.getDonor(ctx, in.DonorID)
	if err != nil {
		return nil, err
	}
	date := uc.now()
	if in.DonationDate != nil {
		date = *in.DonationDate
	}

	lots := make([]*entity.EquipmentLot, 0, in.Count)
	err = uc.txRunner.RunEquipment(ctx, func(lotRepo repository.EquipmentLotRepository, _ repository.LoanRepository) error {
		for i := 1; i <= in.Count; i++ {
			lot := &entity.EquipmentLot{
				MaterialID:   material.ID,
				DonorID:      in.DonorID,
				Serial:       inventory.BatchSerial(base, i),
				Condition:    entity.ConditionGood,
				DonationDate: date,
			}
			if err := insertCoded(ctx, lotRepo, lot, material.Name, donorName(donor)); err != nil {
				return fmt.Errorf("lot %s: %w", lot.Serial, err)
			}
			lot.MaterialName = material.Name
			lot.DonorName = donorName(donor)
			lots = append(lots, lot)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto.ToEquipmentLotResponses(lots), nil
}

// UpdateLot edición administrativa de un lote; regenera el código.
func (uc *EquipmentUseCase) UpdateLot(ctx context.Context, lotID int64, in dto.UpdateEquipmentLotRequest) (*dto.EquipmentLotResponse, error) {
	if in.Serial != nil && strings.TrimSpace(*in.Serial) == "" {
		return nil, domain.ErrInvalidInput
	}
	var lot *entity.EquipmentLot
	var material *entity.Material
	var donor *entity.Donor
	err := uc.txRunner.RunEquipment(ctx, func(lotRepo repository.EquipmentLotRepository, _ repository.LoanRepository) error {
		var err error
		if lot, err = lockLot(ctx, lotRepo, lotID); err != nil {
			return err
		}
		if in.MaterialID != nil {
			lot.MaterialID = *in.MaterialID
		}
		if in.Serial != nil {
			lot.Serial = strings.TrimSpace(*in.Serial)
		}
		if in.DonorID != nil {
			lot.DonorID = ptr(*in.DonorID)
		}
		if in.DonationDate != nil {
			lot.DonationDate = *in.DonationDate
		}
		if material, err = uc.getMaterial(ctx, lot.MaterialID); err != nil {
			return err
		}
		if donor, err = uc.getDonor(ctx, lot.DonorID); err != nil {
			return err
		}
		lot.Code = inventory.LotCode(lot.ID, material.Name, lot.Serial, donorName(donor), lot.DonationDate)
		return lotRepo.Update(ctx, lot)
	})
	if err != nil {
		return nil, err
	}
	lot.MaterialName = material.Name
	lot.DonorName = donorName(donor)
	out := dto.ToEquipmentLotResponse(lot)
	return &out, nil
}

// UpdateCondition cambia el estado físico de un lote. Solo notifica si el estado cambia.
func (uc *EquipmentUseCase) UpdateCondition(ctx context.Context, lotID int64, in dto.UpdateConditionRequest) (*dto.EquipmentLotResponse, error) {
	cond := entity.Condition(strings.ToUpper(strings.TrimSpace(in.Condition)))
	if !cond.Valid() {
		return nil, fmt.Errorf("%w: état %q inconnu", domain.ErrInvalidInput, in.Condition)
	}
	var svc *entity.Service
	if in.ServiceID != nil {
		var err error
		if svc, err = uc.getService(ctx, *in.ServiceID); err != nil {
			return nil, err
		}
	}

	var (
		lot     *entity.EquipmentLot
		old     entity.Condition
		changed bool
	)
	err := uc.txRunner.RunEquipment(ctx, func(lotRepo repository.EquipmentLotRepository, _ repository.LoanRepository) error {
		var err error
		if lot, err = lockLot(ctx, lotRepo, lotID); err != nil {
			return err
		}
		old = lot.Condition
		if old == cond {
			return nil
		}
		changed = true
		lot.Condition = cond
		return lotRepo.Update(ctx, lot)
	})
	if err != nil {
		return nil, err
	}

	if changed {
		if lot.MaterialName == "" {
			m, err := uc.materials.GetByID(ctx, lot.MaterialID)
			switch {
			case err != nil:
				uc.log.Warn().Err(err).Int64("lot_id", lot.ID).Msg("nombre del material no disponible para la notificación")
			case m != nil:
				lot.MaterialName = m.Name
			}
		}
		n := &entity.Notification{
			Type:       entity.NotifEquipmentCondition,
			Audience:   entity.AudienceAdmin,
			MaterialID: ptr(lot.MaterialID),
		}
		svcName := ""
		if svc != nil {
			svcName = svc.Name
			n.ServiceID = ptr(svc.ID)
		}
		n.Message = inventory.ConditionChangedMessage(lot.MaterialName, lot.Serial, string(old), string(cond), svcName)
		uc.emit(ctx, n)
	}
	out := dto.ToEquipmentLotResponse(lot)
	return &out, nil
}

// DeleteLot elimina un lote sin préstamo abierto. Los préstamos ya devueltos del lote se borran
// en la misma transacción y el lote eliminado se devuelve tal como estaba.
func (uc *EquipmentUseCase) DeleteLot(ctx context.Context, lotID int64) (*dto.EquipmentLotResponse, error) {
	var lot *entity.EquipmentLot
	err := uc.txRunner.RunEquipment(ctx, func(lotRepo repository.EquipmentLotRepository, loanRepo repository.LoanRepository) error {
		var err error
		if lot, err = lockLot(ctx, lotRepo, lotID); err != nil {
			return err
		}
		open, err := loanRepo.HasOpenLoanForLot(ctx, lot.ID)
		if err != nil {
			return err
		}
		if open {
			return fmt.Errorf("%w: le lot %s est actuellement prêté", domain.ErrConflict, lot.Serial)
		}
		if _, err := loanRepo.DeleteClosedForLot(ctx, lot.ID); err != nil {
			return err
		}
		return lotRepo.Delete(ctx, lot.ID)
	})
	if err != nil {
		return nil, err
	}
	out := dto.ToEquipmentLotResponse(lot)
	return &out, nil
}

// GetLot obtiene un lote.
func (uc *EquipmentUseCase) GetLot(ctx context.Context, lotID int64) (*dto.EquipmentLotResponse, error) {
	lot, err := uc.lots.GetByID(ctx, lotID)
	if err != nil {
		return nil, err
	}
	if lot == nil {
		return nil, domain.ErrNotFound
	}
	out := dto.ToEquipmentLotResponse(lot)
	return &out, nil
}

// ListLots lista todos los lotes.
func (uc *EquipmentUseCase) ListLots(ctx context.Context) ([]dto.EquipmentLotResponse, error) {
	lots, err := uc.lots.List(ctx)
	if err != nil {
		return nil, err
	}
	return dto.ToEquipmentLotResponses(lots), nil
}

// CountLots número total de lotes.
func (uc *EquipmentUseCase) CountLots(ctx context.Context) (int, error) {
	return uc.lots.Count(ctx)
}

// ListByService lotes que han pasado por el servicio.
func (uc *EquipmentUseCase) ListByService(ctx context.Context, serviceID int64) ([]dto.EquipmentLotResponse, error) {
	if _, err := uc.getService(ctx, serviceID); err != nil {
		return nil, err
	}
	lots, err := uc.lots.ListByService(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	return dto.ToEquipmentLotResponses(lots), nil
}

// CountByService lotes con préstamo abierto en el servicio.
func (uc *EquipmentUseCase) CountByService(ctx context.Context, serviceID int64) (int, error) {
	if _, err := uc.getService(ctx, serviceID); err != nil {
		return 0, err
	}
	return uc.lots.CountOpenByService(ctx, serviceID)
}

// CountByCondition número de lotes por estado, con todos los estados presentes.
func (uc *EquipmentUseCase) CountByCondition(ctx context.Context) ([]dto.ConditionCountDTO, error) {
	rows, err := uc.lots.CountByCondition(ctx)
	if err != nil {
		return nil, err
	}
	byCond := make(map[entity.Condition]int, len(rows))
	for _, r := range rows {
		byCond[r.Condition] = r.Count
	}
	out := make([]dto.ConditionCountDTO, 0, len(entity.Conditions))
	for _, c := range entity.Conditions {
		out = append(out, dto.ConditionCountDTO{Condition: string(c), Count: byCond[c]})
	}
	return out, nil
}

// NeverLoaned lotes sin ningún préstamo en su historial (pool del envío aleatorio).
func (uc *EquipmentUseCase) NeverLoaned(ctx context.Context) (*dto.AvailabilityDTO, error) {
	lots, err := uc.lots.ListNeverLoaned(ctx)
	if err != nil {
		return nil, err
	}
	return availability(AvailabilityNeverLoaned, lots), nil
}

// AvailableByOpenLoan lotes cuyos préstamos están todos devueltos (o sin préstamos).
func (uc *EquipmentUseCase) AvailableByOpenLoan(ctx context.Context) (*dto.AvailabilityDTO, error) {
	lots, err := uc.lots.ListWithoutOpenLoan(ctx)
	if err != nil {
		return nil, err
	}
	return availability(AvailabilityNoOpenLoan, lots), nil
}

func availability(def string, lots []*entity.EquipmentLot) *dto.AvailabilityDTO {
	counts := make(map[string]int)
	for _, l := range lots {
		counts[l.MaterialName]++
	}
	return &dto.AvailabilityDTO{
		Definition: def,
		Total:      len(lots),
		Counts:     counts,
		Lots:       dto.ToEquipmentLotResponses(lots),
	}
}

// Distribution reparte los lotes de un material según el servicio de su último préstamo;
// los lotes nunca prestados cuentan como enStock.
func (uc *EquipmentUseCase) Distribution(ctx context.Context, materialID int64) (*dto.DistributionDTO, error) {
	material, err := uc.getMaterial(ctx, materialID)
	if err != nil {
		return nil, err
	}
	rows, err := uc.lots.LatestServicePerLot(ctx, materialID)
	if err != nil {
		return nil, err
	}
	out := &dto.DistributionDTO{Material: material.Name, Total: len(rows), Services: []dto.ServiceCountDTO{}}
	perService := map[string]int{}
	for _, r := range rows {
		if r.ServiceName == nil {
			out.InStock++
			continue
		}
		perService[*r.ServiceName]++
	}
	for name, n := range perService {
		out.Services = append(out.Services, dto.ServiceCountDTO{Service: name, Count: n})
	}
	sort.Slice(out.Services, func(i, j int) bool {
		if out.Services[i].Count != out.Services[j].Count {
			return out.Services[i].Count > out.Services[j].Count
		}
		return out.Services[i].Service < out.Services[j].Service
	})
	return out, nil
}
