package equipment

import (
	"context"
	"fmt"

	"github.com/jhoicas/Materiel-api/internal/application/dto"
	"github.com/jhoicas/Materiel-api/internal/domain"
	"github.com/jhoicas/Materiel-api/internal/domain/entity"
	"github.com/jhoicas/Materiel-api/internal/domain/inventory"
	"github.com/jhoicas/Materiel-api/internal/domain/repository"
)

// DispatchLot envía un lote concreto a un servicio. ErrConflict si el lote ya tiene un préstamo abierto.
func (uc *EquipmentUseCase) DispatchLot(ctx context.Context, in dto.DispatchLotRequest) (*dto.LoanResponse, error) {
	if in.ServiceID <= 0 || in.LotID <= 0 {
		return nil, domain.ErrInvalidInput
	}
	svc, err := uc.getService(ctx, in.ServiceID)
	if err != nil {
		return nil, err
	}
	loan := &entity.Loan{
		ServiceID: ptr(svc.ID),
		LotID:     ptr(in.LotID),
		SendDate:  uc.now(),
	}
	if in.SendDate != nil {
		loan.SendDate = *in.SendDate
	}

	var lot *entity.EquipmentLot
	err = uc.txRunner.RunEquipment(ctx, func(lotRepo repository.EquipmentLotRepository, loanRepo repository.LoanRepository) error {
		var err error
		if lot, err = lockLot(ctx, lotRepo, in.LotID); err != nil {
			return err
		}
		open, err := loanRepo.HasOpenLoanForLot(ctx, lot.ID)
		if err != nil {
			return err
		}
		if open {
			return fmt.Errorf("%w: le lot %s est déjà prêté", domain.ErrConflict, lot.Serial)
		}
		return loanRepo.Create(ctx, loan)
	})
	if err != nil {
		return nil, err
	}

	fillLoan(loan, lot, svc)
	uc.emit(ctx, &entity.Notification{
		Type:       entity.NotifEquipmentSent,
		Message:    inventory.EquipmentSentMessage(lot.MaterialName, 1),
		Audience:   entity.AudienceService,
		ServiceID:  ptr(svc.ID),
		MaterialID: ptr(lot.MaterialID),
	})
	out := dto.ToLoanResponse(loan)
	return &out, nil
}

// DispatchRandomLots envía Count lotes elegidos al azar entre los lotes del material que nunca
// han sido prestados. Todo o nada: si no hay suficientes no se crea ningún préstamo.
func (uc *EquipmentUseCase) DispatchRandomLots(ctx context.Context, in dto.DispatchRandomLotsRequest) (*dto.DispatchResult, error) {
	if in.ServiceID <= 0 || in.MaterialID <= 0 || in.Count <= 0 {
		return nil, domain.ErrInvalidInput
	}
	svc, err := uc.getService(ctx, in.ServiceID)
	if err != nil {
		return nil, err
	}
	material, err := uc.getMaterial(ctx, in.MaterialID)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	var (
		loans  []*entity.Loan
		chosen []*entity.EquipmentLot
	)
	err = uc.txRunner.RunEquipment(ctx, func(lotRepo repository.EquipmentLotRepository, loanRepo repository.LoanRepository) error {
		total, err := lotRepo.CountByMaterial(ctx, material.ID)
		if err != nil {
			return err
		}
		if total == 0 {
			return fmt.Errorf("%w: aucun lot pour le matériel %s", domain.ErrNotFound, material.Name)
		}
		pool, err := lotRepo.ListNeverLoanedForUpdate(ctx, material.ID)
		if err != nil {
			return err
		}
		if len(pool) < in.Count {
			return fmt.Errorf("%w: Pas assez de lots disponibles : %d disponible(s) seulement.", domain.ErrConflict, len(pool))
		}
		uc.shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
		chosen = pool[:in.Count]
		for _, lot := range chosen {
			loan := &entity.Loan{ServiceID: ptr(svc.ID), LotID: ptr(lot.ID), SendDate: now}
			if err := loanRepo.Create(ctx, loan); err != nil {
				return fmt.Errorf("lot %s: %w", lot.Serial, err)
			}
			loans = append(loans, loan)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for i, loan := range loans {
		fillLoan(loan, chosen[i], svc)
		loan.MaterialName = material.Name
	}
	uc.emit(ctx, &entity.Notification{
		Type:       entity.NotifEquipmentSent,
		Message:    inventory.EquipmentSentMessage(material.Name, len(loans)),
		Audience:   entity.AudienceService,
		ServiceID:  ptr(svc.ID),
		MaterialID: ptr(material.ID),
	})
	return &dto.DispatchResult{Count: len(loans), Loans: dto.ToLoanResponses(loans)}, nil
}

// ReturnLoan cierra un préstamo de material fijando su fecha de retorno.
func (uc *EquipmentUseCase) ReturnLoan(ctx context.Context, loanID int64, in dto.ReturnDateRequest) (*dto.LoanResponse, error) {
	date := uc.now()
	if in.ReturnDate != nil {
		date = *in.ReturnDate
	}
	var loan *entity.Loan
	err := uc.txRunner.RunEquipment(ctx, func(_ repository.EquipmentLotRepository, loanRepo repository.LoanRepository) error {
		var err error
		if loan, err = lockEquipmentLoan(ctx, loanRepo, loanID); err != nil {
			return err
		}
		if !loan.IsOpen() {
			return fmt.Errorf("%w: prêt %d déjà retourné", domain.ErrConflict, loanID)
		}
		if date.Before(loan.SendDate) {
			return fmt.Errorf("%w: date de retour antérieure à la date d'envoi", domain.ErrInvalidInput)
		}
		loan.ReturnDate = ptr(date)
		return loanRepo.Update(ctx, loan)
	})
	if err != nil {
		return nil, err
	}
	out := dto.ToLoanResponse(loan)
	return &out, nil
}

// DeleteLoan elimina un préstamo de material, avisa al servicio y devuelve el préstamo borrado.
func (uc *EquipmentUseCase) DeleteLoan(ctx context.Context, loanID int64) (*dto.LoanResponse, error) {
	var (
		loan *entity.Loan
		lot  *entity.EquipmentLot
	)
	err := uc.txRunner.RunEquipment(ctx, func(lotRepo repository.EquipmentLotRepository, loanRepo repository.LoanRepository) error {
		var err error
		if loan, err = lockEquipmentLoan(ctx, loanRepo, loanID); err != nil {
			return err
		}
		if lot, err = lotRepo.GetByID(ctx, *loan.LotID); err != nil {
			return err
		}
		return loanRepo.Delete(ctx, loan.ID)
	})
	if err != nil {
		return nil, err
	}

	n := &entity.Notification{
		Type:      entity.NotifEquipmentWithdrawn,
		Audience:  entity.AudienceService,
		ServiceID: loan.ServiceID,
	}
	name := loan.MaterialName
	if lot != nil {
		name = lot.MaterialName
		n.MaterialID = ptr(lot.MaterialID)
	}
	n.Message = inventory.EquipmentWithdrawnMessage(name)
	uc.emit(ctx, n)
	if lot != nil {
		loan.LotSerial = lot.Serial
		loan.MaterialID = ptr(lot.MaterialID)
		loan.MaterialName = lot.MaterialName
	}
	out := dto.ToLoanResponse(loan)
	return &out, nil
}

// TransferLoan traslada un préstamo abierto a otro servicio: retiro en el antiguo, envío en el nuevo.
func (uc *EquipmentUseCase) TransferLoan(ctx context.Context, loanID int64, in dto.TransferLoanRequest) (*dto.LoanResponse, error) {
	if in.ServiceID <= 0 {
		return nil, domain.ErrInvalidInput
	}
	svc, err := uc.getService(ctx, in.ServiceID)
	if err != nil {
		return nil, err
	}
	var (
		loan       *entity.Loan
		lot        *entity.EquipmentLot
		oldService *int64
	)
	err = uc.txRunner.RunEquipment(ctx, func(lotRepo repository.EquipmentLotRepository, loanRepo repository.LoanRepository) error {
		var err error
		if loan, err = lockEquipmentLoan(ctx, loanRepo, loanID); err != nil {
			return err
		}
		if !loan.IsOpen() {
			return fmt.Errorf("%w: prêt %d déjà retourné", domain.ErrConflict, loanID)
		}
		if loan.ServiceID != nil && *loan.ServiceID == svc.ID {
			return fmt.Errorf("%w: le lot est déjà dans ce service", domain.ErrInvalidInput)
		}
		if lot, err = lotRepo.GetByID(ctx, *loan.LotID); err != nil {
			return err
		}
		oldService = loan.ServiceID
		loan.ServiceID = ptr(svc.ID)
		return loanRepo.Update(ctx, loan)
	})
	if err != nil {
		return nil, err
	}

	name := loan.MaterialName
	var materialID *int64
	if lot != nil {
		fillLoan(loan, lot, svc)
		name = lot.MaterialName
		materialID = ptr(lot.MaterialID)
	}
	if oldService != nil {
		uc.emit(ctx, &entity.Notification{
			Type:       entity.NotifEquipmentWithdrawn,
			Message:    inventory.EquipmentWithdrawnMessage(name),
			Audience:   entity.AudienceService,
			ServiceID:  oldService,
			MaterialID: materialID,
		})
	}
	uc.emit(ctx, &entity.Notification{
		Type:       entity.NotifEquipmentSent,
		Message:    inventory.EquipmentSentMessage(name, 1),
		Audience:   entity.AudienceService,
		ServiceID:  ptr(svc.ID),
		MaterialID: materialID,
	})
	out := dto.ToLoanResponse(loan)
	return &out, nil
}

// GetLoan obtiene un préstamo de material.
func (uc *EquipmentUseCase) GetLoan(ctx context.Context, loanID int64) (*dto.LoanResponse, error) {
	loan, err := uc.loans.GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if loan == nil || !loan.IsEquipment() {
		return nil, domain.ErrNotFound
	}
	out := dto.ToLoanResponse(loan)
	return &out, nil
}

// ListLoans lista los préstamos de material, opcionalmente de un servicio.
func (uc *EquipmentUseCase) ListLoans(ctx context.Context, serviceID *int64) ([]dto.LoanResponse, error) {
	loans, err := uc.loans.List(ctx, repository.LoanFilter{Kind: repository.LoanKindEquipment, ServiceID: serviceID})
	if err != nil {
		return nil, err
	}
	return dto.ToLoanResponses(loans), nil
}

// CountLoans número de préstamos de material.
func (uc *EquipmentUseCase) CountLoans(ctx context.Context) (int, error) {
	return uc.loans.Count(ctx, repository.LoanFilter{Kind: repository.LoanKindEquipment})
}

func fillLoan(loan *entity.Loan, lot *entity.EquipmentLot, svc *entity.Service) {
	loan.ServiceName = svc.Name
	loan.LotSerial = lot.Serial
	loan.MaterialID = ptr(lot.MaterialID)
	loan.MaterialName = lot.MaterialName
}
