package ledger

import (
	"context"
	"fmt"

	"github.com/jhoicas/Materiel-api/internal/application/dto"
	"github.com/jhoicas/Materiel-api/internal/domain"
	"github.com/jhoicas/Materiel-api/internal/domain/entity"
	"github.com/jhoicas/Materiel-api/internal/domain/inventory"
	"github.com/jhoicas/Materiel-api/internal/domain/repository"
)

func lockConsumableLoan(ctx context.Context, repo repository.LoanRepository, loanID int64) (*entity.Loan, error) {
	loan, err := repo.GetForUpdate(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if loan == nil {
		return nil, fmt.Errorf("%w: prêt %d", domain.ErrNotFound, loanID)
	}
	if !loan.IsConsumable() {
		return nil, fmt.Errorf("%w: le prêt %d ne concerne pas un consommable", domain.ErrInvalidInput, loanID)
	}
	return loan, nil
}

func insufficient(c *entity.Consumable, requested int) error {
	return fmt.Errorf("%w pour %s: %d demandé(s), %d disponible(s)",
		domain.ErrInsufficientStock, c.Name, requested, c.QuantityOnHand)
}

// RecordLoan envía una cantidad de consumible a un servicio: descuenta el stock y crea el préstamo.
// Si la cantidad supera el stock devuelve ErrInsufficientStock sin modificar nada.
func (uc *LedgerUseCase) RecordLoan(ctx context.Context, in dto.CreateConsumableLoanRequest) (*dto.ConsumableLoanResult, error) {
	if in.ConsumableID <= 0 || in.ServiceID <= 0 || in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.UnitPrice != nil && in.UnitPrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	svc, err := uc.checkService(ctx, in.ServiceID)
	if err != nil {
		return nil, err
	}

	sendDate := uc.now()
	if in.SendDate != nil {
		sendDate = *in.SendDate
	}
	loan := &entity.Loan{
		ServiceID:    ptr(in.ServiceID),
		ConsumableID: ptr(in.ConsumableID),
		Quantity:     in.Quantity,
		UnitPrice:    in.UnitPrice,
		SendDate:     sendDate,
	}

	var cons *entity.Consumable
	err = uc.txRunner.Run(ctx, func(
		consumableRepo repository.ConsumableRepository,
		_ repository.DonationLotRepository,
		loanRepo repository.LoanRepository,
	) error {
		c, err := lockConsumable(ctx, consumableRepo, in.ConsumableID)
		if err != nil {
			return err
		}
		next, err := inventory.Withdraw(c.QuantityOnHand, in.Quantity)
		if err != nil {
			return insufficient(c, in.Quantity)
		}
		if err := loanRepo.Create(ctx, loan); err != nil {
			return err
		}
		if err := consumableRepo.UpdateQuantity(ctx, c.ID, next); err != nil {
			return err
		}
		c.QuantityOnHand = next
		cons = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	loan.ServiceName = svc.Name
	loan.ConsumableName = cons.Name
	uc.emit(ctx, &entity.Notification{
		Type:         entity.NotifConsumableSent,
		Message:      inventory.ConsumableSentMessage(cons.Name, in.Quantity, cons.Unit),
		Audience:     entity.AudienceService,
		ServiceID:    ptr(svc.ID),
		ConsumableID: ptr(cons.ID),
	})
	return &dto.ConsumableLoanResult{
		Loan:       dto.ToLoanResponse(loan),
		Consumable: dto.ToConsumableResponse(cons),
	}, nil
}

// ReturnOrCancelLoan anula un préstamo de consumible: devuelve la cantidad al stock y borra el préstamo.
// Un préstamo ya marcado agotado no se puede anular (su cantidad fue consumida).
func (uc *LedgerUseCase) ReturnOrCancelLoan(ctx context.Context, loanID int64) (*dto.ConsumableLoanResult, error) {
	if loanID <= 0 {
		return nil, domain.ErrInvalidInput
	}
	var (
		loan *entity.Loan
		cons *entity.Consumable
	)
	err := uc.txRunner.Run(ctx, func(
		consumableRepo repository.ConsumableRepository,
		_ repository.DonationLotRepository,
		loanRepo repository.LoanRepository,
	) error {
		var err error
		loan, err = lockConsumableLoan(ctx, loanRepo, loanID)
		if err != nil {
			return err
		}
		if !loan.IsOpen() {
			return fmt.Errorf("%w: prêt %d déjà épuisé", domain.ErrConflict, loanID)
		}
		c, err := lockConsumable(ctx, consumableRepo, *loan.ConsumableID)
		if err != nil {
			return err
		}
		c.QuantityOnHand = inventory.Restore(c.QuantityOnHand, loan.Quantity)
		if err := consumableRepo.UpdateQuantity(ctx, c.ID, c.QuantityOnHand); err != nil {
			return err
		}
		if err := loanRepo.Delete(ctx, loan.ID); err != nil {
			return err
		}
		cons = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	loan.ConsumableName = cons.Name
	uc.emit(ctx, &entity.Notification{
		Type:         entity.NotifConsumableWithdrawn,
		Message:      inventory.ConsumableWithdrawnMessage(cons.Name, loan.Quantity, cons.Unit),
		Audience:     entity.AudienceService,
		ServiceID:    loan.ServiceID,
		ConsumableID: ptr(cons.ID),
	})
	return &dto.ConsumableLoanResult{
		Loan:       dto.ToLoanResponse(loan),
		Consumable: dto.ToConsumableResponse(cons),
	}, nil
}

// MarkExhausted registra que el servicio consumió el envío: fija date_retour sin devolver stock
// y avisa al administrador.
func (uc *LedgerUseCase) MarkExhausted(ctx context.Context, loanID int64, in dto.ReturnDateRequest) (*dto.ConsumableLoanResult, error) {
	if loanID <= 0 {
		return nil, domain.ErrInvalidInput
	}
	date := uc.now()
	if in.ReturnDate != nil {
		date = *in.ReturnDate
	}
	var (
		loan *entity.Loan
		cons *entity.Consumable
	)
	err := uc.txRunner.Run(ctx, func(
		consumableRepo repository.ConsumableRepository,
		_ repository.DonationLotRepository,
		loanRepo repository.LoanRepository,
	) error {
		var err error
		loan, err = lockConsumableLoan(ctx, loanRepo, loanID)
		if err != nil {
			return err
		}
		if !loan.IsOpen() {
			return fmt.Errorf("%w: prêt %d déjà marqué épuisé", domain.ErrConflict, loanID)
		}
		if date.Before(loan.SendDate) {
			return fmt.Errorf("%w: date de retour antérieure à la date d'envoi", domain.ErrInvalidInput)
		}
		loan.ReturnDate = ptr(date)
		if err := loanRepo.Update(ctx, loan); err != nil {
			return err
		}
		c, err := consumableRepo.GetByID(ctx, *loan.ConsumableID)
		if err != nil {
			return err
		}
		if c == nil {
			return fmt.Errorf("%w: consommable %d", domain.ErrNotFound, *loan.ConsumableID)
		}
		cons = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	loan.ConsumableName = cons.Name
	uc.emit(ctx, &entity.Notification{
		Type:         entity.NotifConsumableExhausted,
		Message:      inventory.ConsumableExhaustedMessage(cons.Name, loan.Quantity, cons.Unit, loan.ServiceName, loan.SendDate, date),
		Audience:     entity.AudienceAdmin,
		ServiceID:    loan.ServiceID,
		ConsumableID: ptr(cons.ID),
	})
	return &dto.ConsumableLoanResult{
		Loan:       dto.ToLoanResponse(loan),
		Consumable: dto.ToConsumableResponse(cons),
	}, nil
}

// AmendLoan modifica un préstamo de consumible. Cambio de consumible: se devuelve la cantidad al
// antiguo y se descuenta la nueva del nuevo. Mismo consumible: se aplica la diferencia.
func (uc *LedgerUseCase) AmendLoan(ctx context.Context, loanID int64, in dto.UpdateConsumableLoanRequest) (*dto.ConsumableLoanResult, error) {
	if loanID <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.Quantity != nil && *in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.ConsumableID != nil && *in.ConsumableID <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.UnitPrice != nil && in.UnitPrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	var svc *entity.Service
	if in.ServiceID != nil {
		var err error
		if svc, err = uc.checkService(ctx, *in.ServiceID); err != nil {
			return nil, err
		}
	}

	var (
		loan          *entity.Loan
		current, prev *entity.Consumable
	)
	err := uc.txRunner.Run(ctx, func(
		consumableRepo repository.ConsumableRepository,
		_ repository.DonationLotRepository,
		loanRepo repository.LoanRepository,
	) error {
		var err error
		loan, err = lockConsumableLoan(ctx, loanRepo, loanID)
		if err != nil {
			return err
		}
		oldConsID := *loan.ConsumableID
		newQty := loan.Quantity
		if in.Quantity != nil {
			newQty = *in.Quantity
		}
		newConsID := oldConsID
		if in.ConsumableID != nil {
			newConsID = *in.ConsumableID
		}

		if newConsID != oldConsID {
			oldCons, newCons, err := lockPair(ctx, consumableRepo, oldConsID, newConsID)
			if err != nil {
				return err
			}
			oldNext := inventory.Restore(oldCons.QuantityOnHand, loan.Quantity)
			newNext, err := inventory.Withdraw(newCons.QuantityOnHand, newQty)
			if err != nil {
				return insufficient(newCons, newQty)
			}
			if err := consumableRepo.UpdateQuantity(ctx, oldCons.ID, oldNext); err != nil {
				return err
			}
			if err := consumableRepo.UpdateQuantity(ctx, newCons.ID, newNext); err != nil {
				return err
			}
			oldCons.QuantityOnHand, newCons.QuantityOnHand = oldNext, newNext
			current, prev = newCons, oldCons
		} else {
			c, err := lockConsumable(ctx, consumableRepo, oldConsID)
			if err != nil {
				return err
			}
			if diff := newQty - loan.Quantity; diff != 0 {
				next, err := inventory.DrawDelta(c.QuantityOnHand, diff)
				if err != nil {
					return insufficient(c, diff)
				}
				if err := consumableRepo.UpdateQuantity(ctx, c.ID, next); err != nil {
					return err
				}
				c.QuantityOnHand = next
			}
			current = c
		}

		loan.Quantity = newQty
		loan.ConsumableID = ptr(newConsID)
		if svc != nil {
			loan.ServiceID = ptr(svc.ID)
			loan.ServiceName = svc.Name
		}
		if in.UnitPrice != nil {
			loan.UnitPrice = ptr(*in.UnitPrice)
		}
		if in.SendDate != nil {
			loan.SendDate = *in.SendDate
		}
		return loanRepo.Update(ctx, loan)
	})
	if err != nil {
		return nil, err
	}

	loan.ConsumableName = current.Name
	res := &dto.ConsumableLoanResult{
		Loan:       dto.ToLoanResponse(loan),
		Consumable: dto.ToConsumableResponse(current),
	}
	if prev != nil {
		p := dto.ToConsumableResponse(prev)
		res.PreviousConsumable = &p
	}
	return res, nil
}

// GetLoan obtiene un préstamo de consumible.
func (uc *LedgerUseCase) GetLoan(ctx context.Context, loanID int64) (*dto.LoanResponse, error) {
	loan, err := uc.loans.GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if loan == nil || !loan.IsConsumable() {
		return nil, domain.ErrNotFound
	}
	out := dto.ToLoanResponse(loan)
	return &out, nil
}

// ListLoans lista los préstamos de consumible, opcionalmente de un servicio.
func (uc *LedgerUseCase) ListLoans(ctx context.Context, serviceID *int64) ([]dto.LoanResponse, error) {
	loans, err := uc.loans.List(ctx, repository.LoanFilter{Kind: repository.LoanKindConsumable, ServiceID: serviceID})
	if err != nil {
		return nil, err
	}
	return dto.ToLoanResponses(loans), nil
}

// CountLoans número de préstamos de consumible.
func (uc *LedgerUseCase) CountLoans(ctx context.Context) (int, error) {
	return uc.loans.Count(ctx, repository.LoanFilter{Kind: repository.LoanKindConsumable})
}
