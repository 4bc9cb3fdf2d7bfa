package dto

import "github.com/jhoicas/Materiel-api/internal/domain/entity"

// ToConsumableResponse convierte la entidad en su DTO de salida.
func ToConsumableResponse(c *entity.Consumable) ConsumableResponse {
	return ConsumableResponse{
		ID:        c.ID,
		Name:      c.Name,
		Reference: c.Reference,
		Unit:      c.Unit,
		UnitPrice: c.UnitPrice,
		Quantity:  c.QuantityOnHand,
		ClassID:   c.ClassID,
		ClassName: c.ClassName,
	}
}

// ToDonationLotResponse convierte un lote de consumible.
func ToDonationLotResponse(l *entity.DonationLot) DonationLotResponse {
	return DonationLotResponse{
		ID:             l.ID,
		ConsumableID:   l.ConsumableID,
		ConsumableName: l.ConsumableName,
		DonorID:        l.DonorID,
		DonorName:      l.DonorName,
		Quantity:       l.Quantity,
		UnitPrice:      l.UnitPrice,
		DonationDate:   l.DonationDate,
	}
}

// ToLoanResponse convierte un préstamo.
func ToLoanResponse(l *entity.Loan) LoanResponse {
	return LoanResponse{
		ID:             l.ID,
		ServiceID:      l.ServiceID,
		ServiceName:    l.ServiceName,
		LotID:          l.LotID,
		LotSerial:      l.LotSerial,
		MaterialID:     l.MaterialID,
		MaterialName:   l.MaterialName,
		ConsumableID:   l.ConsumableID,
		ConsumableName: l.ConsumableName,
		Quantity:       l.Quantity,
		UnitPrice:      l.UnitPrice,
		SendDate:       l.SendDate,
		ReturnDate:     l.ReturnDate,
	}
}

// ToLoanResponses convierte una lista de préstamos.
func ToLoanResponses(loans []*entity.Loan) []LoanResponse {
	out := make([]LoanResponse, 0, len(loans))
	for _, l := range loans {
		out = append(out, ToLoanResponse(l))
	}
	return out
}

// ToEquipmentLotResponse convierte un lote de material.
func ToEquipmentLotResponse(l *entity.EquipmentLot) EquipmentLotResponse {
	return EquipmentLotResponse{
		ID:           l.ID,
		MaterialID:   l.MaterialID,
		MaterialName: l.MaterialName,
		DonorID:      l.DonorID,
		DonorName:    l.DonorName,
		Serial:       l.Serial,
		Condition:    string(l.Condition),
		DonationDate: l.DonationDate,
		Code:         l.Code,
	}
}

// ToEquipmentLotResponses convierte una lista de lotes de material.
func ToEquipmentLotResponses(lots []*entity.EquipmentLot) []EquipmentLotResponse {
	out := make([]EquipmentLotResponse, 0, len(lots))
	for _, l := range lots {
		out = append(out, ToEquipmentLotResponse(l))
	}
	return out
}

// ToNotificationResponse convierte una notificación.
func ToNotificationResponse(n *entity.Notification) NotificationResponse {
	return NotificationResponse{
		ID:           n.ID,
		Type:         n.Type,
		Message:      n.Message,
		Audience:     n.Audience,
		ServiceID:    n.ServiceID,
		ServiceName:  n.ServiceName,
		MaterialID:   n.MaterialID,
		ConsumableID: n.ConsumableID,
		IsRead:       n.IsRead,
		Date:         n.Date,
	}
}
