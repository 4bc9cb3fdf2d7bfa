package ports

import (
	"context"

	"github.com/jhoicas/Materiel-api/internal/domain/entity"
)

// Notifier recibe las notificaciones emitidas después del commit de una operación del ledger
// o del tracker de material. No devuelve error: la implementación registra sus fallos y la
// operación que la disparó ya está confirmada.
type Notifier interface {
	Emit(ctx context.Context, n *entity.Notification)
}

// EventPublisher difunde una notificación ya persistida hacia un broker externo (Kafka, Redis).
type EventPublisher interface {
	Publish(ctx context.Context, n *entity.Notification) error
	Close() error
}
