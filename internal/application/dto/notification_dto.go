package dto

import "time"

// NotificationResponse notificación.
type NotificationResponse struct {
	ID           int64     `json:"id_notification"`
	Type         string    `json:"type"`
	Message      string    `json:"message"`
	Audience     string    `json:"destinataireType"`
	ServiceID    *int64    `json:"id_service"`
	ServiceName  string    `json:"nom_service,omitempty"`
	MaterialID   *int64    `json:"id_materiel"`
	ConsumableID *int64    `json:"id_consommable"`
	IsRead       bool      `json:"is_read"`
	Date         time.Time `json:"date"`
}

// MarkedReadResponse número de notificaciones marcadas como leídas.
type MarkedReadResponse struct {
	Updated int `json:"updated"`
}
