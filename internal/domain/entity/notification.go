package entity

import "time"

// Tipos de notificación emitidos por el ledger y el tracker de material.
const (
	NotifConsumableSent      = "CONSOMMABLE_ENVOYE"
	NotifConsumableWithdrawn = "CONSOMMABLE_RETIRE"
	NotifConsumableExhausted = "CONSOMMABLE_EPUISÉ"
	NotifEquipmentSent       = "MATERIEL_ENVOYE"
	NotifEquipmentWithdrawn  = "MATERIEL_RETIRE"
	NotifEquipmentCondition  = "MATERIEL_ETAT_MODIFIE"
)

// Destinatarios de notificación.
const (
	AudienceAdmin   = "ADMIN"
	AudienceService = "SERVICE"
)

// Notification evento append-only dirigido al administrador o a un servicio.
type Notification struct {
	ID           int64
	Type         string
	Message      string
	Audience     string
	ServiceID    *int64
	MaterialID   *int64
	ConsumableID *int64
	IsRead       bool
	Date         time.Time
	ServiceName  string
}
