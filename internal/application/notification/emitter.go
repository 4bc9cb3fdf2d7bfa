// Package notification persiste y difunde las notificaciones del ledger y del tracker de material,
// y expone su consulta por destinatario.
package notification

import (
	"context"
	"time"

	"github.com/jhoicas/Materiel-api/internal/application/ports"
	"github.com/jhoicas/Materiel-api/internal/domain/entity"
	"github.com/jhoicas/Materiel-api/internal/domain/repository"
	"github.com/jhoicas/Materiel-api/pkg/logger"
)

// Emitter implementa ports.Notifier: guarda la fila y, si hay broker configurado, publica el evento.
// Los fallos se registran y no se propagan.
type Emitter struct {
	repo      repository.NotificationRepository
	publisher ports.EventPublisher
	log       *logger.Logger
	now       func() time.Time
}

// NewEmitter construye el emisor. publisher puede ser nil (sin broker).
func NewEmitter(repo repository.NotificationRepository, publisher ports.EventPublisher, log *logger.Logger) *Emitter {
	if log == nil {
		log = logger.Nop()
	}
	return &Emitter{repo: repo, publisher: publisher, log: log.Component("notification"), now: time.Now}
}

// Emit persiste la notificación y la publica. Se usa un contexto propio: la petición HTTP que
// disparó la operación puede haber terminado.
func (e *Emitter) Emit(ctx context.Context, n *entity.Notification) {
	if n == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if n.Date.IsZero() {
		n.Date = e.now()
	}
	if err := e.repo.Create(ctx, n); err != nil {
		e.log.Error().Err(err).Str("type", n.Type).Str("audience", n.Audience).Msg("no se pudo guardar la notificación")
		return
	}
	if e.publisher == nil {
		return
	}
	if err := e.publisher.Publish(ctx, n); err != nil {
		e.log.Warn().Err(err).Int64("notification_id", n.ID).Str("type", n.Type).Msg("no se pudo publicar la notificación")
	}
}
