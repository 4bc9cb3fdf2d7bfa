// Package events difunde las notificaciones persistidas hacia un broker externo (Kafka o Redis
// pub/sub) para que otros consumidores (tablero en tiempo real, correo) las reciban.
package events

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Materiel-api/internal/application/ports"
	"github.com/jhoicas/Materiel-api/internal/domain/entity"
	"github.com/jhoicas/Materiel-api/pkg/config"
)

// NotificationEvent cuerpo JSON publicado por cada notificación.
type NotificationEvent struct {
	EventID        string    `json:"event_id"`
	NotificationID int64     `json:"id_notification"`
	Type           string    `json:"type"`
	Message        string    `json:"message"`
	Audience       string    `json:"destinataire_type"`
	ServiceID      *int64    `json:"id_service,omitempty"`
	MaterialID     *int64    `json:"id_materiel,omitempty"`
	ConsumableID   *int64    `json:"id_consommable,omitempty"`
	Date           time.Time `json:"date"`
}

func newEvent(n *entity.Notification) NotificationEvent {
	return NotificationEvent{
		EventID:        uuid.NewString(),
		NotificationID: n.ID,
		Type:           n.Type,
		Message:        n.Message,
		Audience:       n.Audience,
		ServiceID:      n.ServiceID,
		MaterialID:     n.MaterialID,
		ConsumableID:   n.ConsumableID,
		Date:           n.Date,
	}
}

// routingKey agrupa los eventos por destinatario: "ADMIN" o "SERVICE:<id>".
func routingKey(n *entity.Notification) string {
	if n.Audience == entity.AudienceService && n.ServiceID != nil {
		return n.Audience + ":" + strconv.FormatInt(*n.ServiceID, 10)
	}
	return n.Audience
}

func encode(n *entity.Notification) ([]byte, error) {
	b, err := json.Marshal(newEvent(n))
	if err != nil {
		return nil, fmt.Errorf("marshal notification event: %w", err)
	}
	return b, nil
}

// NewPublisher construye el publisher del broker configurado. Sin broker devuelve nil, nil.
func NewPublisher(cfg config.NotifyConfig) (ports.EventPublisher, error) {
	switch cfg.Broker {
	case config.BrokerNone:
		return nil, nil
	case config.BrokerKafka:
		if len(cfg.KafkaBrokers) == 0 {
			return nil, fmt.Errorf("events: KAFKA_BROKERS vide")
		}
		return NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic), nil
	case config.BrokerRedis:
		return NewRedisPublisher(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.RedisChannel), nil
	default:
		return nil, fmt.Errorf("events: broker inconnu %q", cfg.Broker)
	}
}
