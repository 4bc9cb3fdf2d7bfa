package repository

import (
	"context"

	"github.com/jhoicas/Materiel-api/internal/domain/entity"
)

// NotificationFilter filtro por destinatario. Audience vacío = todas.
type NotificationFilter struct {
	Audience   string
	ServiceID  *int64
	UnreadOnly bool
}

// NotificationRepository define el puerto de persistencia para Notification.
type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error
	GetByID(ctx context.Context, id int64) (*entity.Notification, error)
	List(ctx context.Context, f NotificationFilter) ([]*entity.Notification, error)
	Count(ctx context.Context, f NotificationFilter) (int, error)
	MarkRead(ctx context.Context, id int64) error
	MarkAllRead(ctx context.Context, f NotificationFilter) (int, error)
	Delete(ctx context.Context, id int64) error
}
