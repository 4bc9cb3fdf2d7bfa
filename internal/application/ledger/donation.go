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

// errLaterLoans bloqueo de historial: préstamos posteriores al lote dependen de su cantidad.
var errLaterLoans = fmt.Errorf("%w: des prêts ont été effectués après l'ajout de ce lot", domain.ErrConflict)

// RecordDonation registra un lote de consumible y suma su cantidad al stock en la misma transacción.
// Un PU > 0 sustituye el precio unitario del consumible.
func (uc *LedgerUseCase) RecordDonation(ctx context.Context, in dto.CreateDonationLotRequest) (*dto.DonationLotResult, error) {
	if in.ConsumableID <= 0 || in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.UnitPrice != nil && in.UnitPrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	donor, err := uc.checkDonor(ctx, in.DonorID)
	if err != nil {
		return nil, err
	}

	date := uc.now()
	if in.DonationDate != nil {
		date = *in.DonationDate
	}
	lot := &entity.DonationLot{
		ConsumableID: in.ConsumableID,
		DonorID:      in.DonorID,
		Quantity:     in.Quantity,
		UnitPrice:    in.UnitPrice,
		DonationDate: date,
	}

	var cons *entity.Consumable
	err = uc.txRunner.Run(ctx, func(
		consumableRepo repository.ConsumableRepository,
		lotRepo repository.DonationLotRepository,
		_ repository.LoanRepository,
	) error {
		c, err := lockConsumable(ctx, consumableRepo, in.ConsumableID)
		if err != nil {
			return err
		}
		if err := lotRepo.Create(ctx, lot); err != nil {
			return err
		}
		c.QuantityOnHand = inventory.Restore(c.QuantityOnHand, in.Quantity)
		if err := consumableRepo.UpdateQuantity(ctx, c.ID, c.QuantityOnHand); err != nil {
			return err
		}
		if in.UnitPrice != nil && in.UnitPrice.IsPositive() {
			if err := consumableRepo.UpdateUnitPrice(ctx, c.ID, *in.UnitPrice); err != nil {
				return err
			}
			c.UnitPrice = ptr(*in.UnitPrice)
		}
		cons = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	lot.ConsumableName = cons.Name
	if donor != nil {
		lot.DonorName = donor.Name
	}
	uc.emit(ctx, &entity.Notification{
		Type:         entity.NotifConsumableSent,
		Message:      inventory.DonationReceivedMessage(cons.Name, in.Quantity, cons.Unit),
		Audience:     entity.AudienceAdmin,
		ConsumableID: ptr(cons.ID),
	})
	return &dto.DonationLotResult{
		Lot:        dto.ToDonationLotResponse(lot),
		Consumable: dto.ToConsumableResponse(cons),
	}, nil
}

// ReverseDonation elimina un lote y resta su cantidad del stock.
// Rechaza con ErrConflict si hay préstamos del consumible con fecha >= fecha del lote,
// y con ErrInvalidState si el stock quedaría negativo.
func (uc *LedgerUseCase) ReverseDonation(ctx context.Context, lotID int64) (*dto.DonationLotResult, error) {
	if lotID <= 0 {
		return nil, domain.ErrInvalidInput
	}
	var (
		lot  *entity.DonationLot
		cons *entity.Consumable
	)
	err := uc.txRunner.Run(ctx, func(
		consumableRepo repository.ConsumableRepository,
		lotRepo repository.DonationLotRepository,
		loanRepo repository.LoanRepository,
	) error {
		var err error
		lot, err = lotRepo.GetForUpdate(ctx, lotID)
		if err != nil {
			return err
		}
		if lot == nil {
			return fmt.Errorf("%w: lot de consommable %d", domain.ErrNotFound, lotID)
		}
		c, err := lockConsumable(ctx, consumableRepo, lot.ConsumableID)
		if err != nil {
			return err
		}
		later, err := loanRepo.ExistsConsumableLoanSince(ctx, lot.ConsumableID, lot.DonationDate)
		if err != nil {
			return err
		}
		if later {
			return errLaterLoans
		}
		next, err := inventory.ApplyDelta(c.QuantityOnHand, -lot.Quantity)
		if err != nil {
			return err
		}
		if err := consumableRepo.UpdateQuantity(ctx, c.ID, next); err != nil {
			return err
		}
		if err := lotRepo.Delete(ctx, lot.ID); err != nil {
			return err
		}
		c.QuantityOnHand = next
		cons = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	lot.ConsumableName = cons.Name
	return &dto.DonationLotResult{
		Lot:        dto.ToDonationLotResponse(lot),
		Consumable: dto.ToConsumableResponse(cons),
	}, nil
}

// AmendDonation modifica un lote. Si cambian la cantidad o el consumible se aplica el bloqueo de
// historial y se corrige el stock: diferencia sobre el mismo consumible, o devolución al antiguo y
// entrada en el nuevo. Todo o nada.
func (uc *LedgerUseCase) AmendDonation(ctx context.Context, lotID int64, in dto.UpdateDonationLotRequest) (*dto.DonationLotResult, error) {
	if lotID <= 0 {
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
	donor, err := uc.checkDonor(ctx, in.DonorID)
	if err != nil {
		return nil, err
	}

	var (
		lot           *entity.DonationLot
		current, prev *entity.Consumable
	)
	err = uc.txRunner.Run(ctx, func(
		consumableRepo repository.ConsumableRepository,
		lotRepo repository.DonationLotRepository,
		loanRepo repository.LoanRepository,
	) error {
		var err error
		lot, err = lotRepo.GetForUpdate(ctx, lotID)
		if err != nil {
			return err
		}
		if lot == nil {
			return fmt.Errorf("%w: lot de consommable %d", domain.ErrNotFound, lotID)
		}

		newQty := lot.Quantity
		if in.Quantity != nil {
			newQty = *in.Quantity
		}
		newConsID := lot.ConsumableID
		if in.ConsumableID != nil {
			newConsID = *in.ConsumableID
		}
		qtyChanged := newQty != lot.Quantity
		consChanged := newConsID != lot.ConsumableID

		if qtyChanged || consChanged {
			later, err := loanRepo.ExistsConsumableLoanSince(ctx, lot.ConsumableID, lot.DonationDate)
			if err != nil {
				return err
			}
			if later {
				return errLaterLoans
			}
		}

		if consChanged {
			oldCons, newCons, err := lockPair(ctx, consumableRepo, lot.ConsumableID, newConsID)
			if err != nil {
				return err
			}
			oldNext, err := inventory.ApplyDelta(oldCons.QuantityOnHand, -lot.Quantity)
			if err != nil {
				return err
			}
			newNext, err := inventory.ApplyDelta(newCons.QuantityOnHand, newQty)
			if err != nil {
				return err
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
			c, err := lockConsumable(ctx, consumableRepo, lot.ConsumableID)
			if err != nil {
				return err
			}
			if qtyChanged {
				next, err := inventory.ApplyDelta(c.QuantityOnHand, newQty-lot.Quantity)
				if err != nil {
					return err
				}
				if err := consumableRepo.UpdateQuantity(ctx, c.ID, next); err != nil {
					return err
				}
				c.QuantityOnHand = next
			}
			current = c
		}

		lot.Quantity = newQty
		lot.ConsumableID = newConsID
		if in.UnitPrice != nil {
			lot.UnitPrice = ptr(*in.UnitPrice)
		}
		if in.DonorID != nil {
			lot.DonorID = ptr(*in.DonorID)
		}
		if in.DonationDate != nil {
			lot.DonationDate = *in.DonationDate
		}
		return lotRepo.Update(ctx, lot)
	})
	if err != nil {
		return nil, err
	}

	lot.ConsumableName = current.Name
	if donor != nil {
		lot.DonorName = donor.Name
	}
	res := &dto.DonationLotResult{
		Lot:        dto.ToDonationLotResponse(lot),
		Consumable: dto.ToConsumableResponse(current),
	}
	if prev != nil {
		p := dto.ToConsumableResponse(prev)
		res.PreviousConsumable = &p
	}
	return res, nil
}

// GetDonation obtiene un lote de consumible.
func (uc *LedgerUseCase) GetDonation(ctx context.Context, lotID int64) (*dto.DonationLotResponse, error) {
	lot, err := uc.lots.GetByID(ctx, lotID)
	if err != nil {
		return nil, err
	}
	if lot == nil {
		return nil, domain.ErrNotFound
	}
	out := dto.ToDonationLotResponse(lot)
	return &out, nil
}

// ListDonations lista los lotes, opcionalmente de un consumible.
func (uc *LedgerUseCase) ListDonations(ctx context.Context, consumableID *int64) ([]dto.DonationLotResponse, error) {
	lots, err := uc.lots.List(ctx, consumableID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DonationLotResponse, 0, len(lots))
	for _, l := range lots {
		out = append(out, dto.ToDonationLotResponse(l))
	}
	return out, nil
}

// CountDonations número total de lotes de consumible.
func (uc *LedgerUseCase) CountDonations(ctx context.Context) (int, error) {
	return uc.lots.Count(ctx)
}
