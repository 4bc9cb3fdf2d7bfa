package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Materiel-api/internal/domain/entity"
	"github.com/jhoicas/Materiel-api/internal/domain/repository"
)

var _ repository.NotificationRepository = (*NotificationRepo)(nil)

// NotificationRepo tabla notification (append-only salvo is_read).
type NotificationRepo struct {
	q Querier
}

// NewNotificationRepository construye el adaptador.
func NewNotificationRepository(q Querier) *NotificationRepo {
	return &NotificationRepo{q: q}
}

const notificationSelect = `
	SELECT n.id_notification, n.type, n.message, n.destinataire_type, n.id_service, n.id_materiel,
	       n.id_consommable, n.is_read, n.date, COALESCE(s.nom_service, '')
	FROM notification n
	LEFT JOIN service s ON s.id_service = n.id_service`

// notificationWhere $1 destinatario ('' = todos), $2 servicio, $3 solo no leídas.
const notificationWhere = `
	WHERE ($1::text = '' OR n.destinataire_type = $1)
	  AND ($2::bigint IS NULL OR n.id_service = $2)
	  AND (NOT $3::boolean OR NOT n.is_read)`

func notificationArgs(f repository.NotificationFilter) []any {
	return []any{f.Audience, f.ServiceID, f.UnreadOnly}
}

func scanNotification(row pgx.Row) (*entity.Notification, error) {
	var n entity.Notification
	if err := row.Scan(&n.ID, &n.Type, &n.Message, &n.Audience, &n.ServiceID, &n.MaterialID,
		&n.ConsumableID, &n.IsRead, &n.Date, &n.ServiceName); err != nil {
		return nil, err
	}
	return &n, nil
}

// Create persiste una notificación.
func (r *NotificationRepo) Create(ctx context.Context, n *entity.Notification) error {
	query := `
		INSERT INTO notification (type, message, destinataire_type, id_service, id_materiel, id_consommable, is_read, date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id_notification`
	err := r.q.QueryRow(ctx, query, n.Type, n.Message, n.Audience, n.ServiceID, n.MaterialID,
		n.ConsumableID, n.IsRead, n.Date).Scan(&n.ID)
	if err != nil {
		return wrapWrite("insert notification", err)
	}
	return nil
}

// GetByID obtiene una notificación.
func (r *NotificationRepo) GetByID(ctx context.Context, id int64) (*entity.Notification, error) {
	n, err := scanNotification(r.q.QueryRow(ctx, notificationSelect+` WHERE n.id_notification = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get notification: %w", err)
	}
	return n, nil
}

// List notificaciones filtradas, de la más reciente a la más antigua.
func (r *NotificationRepo) List(ctx context.Context, f repository.NotificationFilter) ([]*entity.Notification, error) {
	rows, err := r.q.Query(ctx, notificationSelect+notificationWhere+` ORDER BY n.date DESC, n.id_notification DESC`,
		notificationArgs(f)...)
	if err != nil {
		return nil, fmt.Errorf("list notification: %w", err)
	}
	defer rows.Close()
	var list []*entity.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		list = append(list, n)
	}
	return list, rows.Err()
}

// Count notificaciones filtradas.
func (r *NotificationRepo) Count(ctx context.Context, f repository.NotificationFilter) (int, error) {
	return scanCount(ctx, r.q, "count notification",
		`SELECT COUNT(*) FROM notification n`+notificationWhere, notificationArgs(f)...)
}

// MarkRead marca una notificación como leída.
func (r *NotificationRepo) MarkRead(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `UPDATE notification SET is_read = TRUE WHERE id_notification = $1`, id)
	if err != nil {
		return fmt.Errorf("mark notification: %w", err)
	}
	return affected(tag, fmt.Sprintf("notification %d", id))
}

// MarkAllRead marca como leídas las notificaciones del filtro; devuelve cuántas cambiaron.
func (r *NotificationRepo) MarkAllRead(ctx context.Context, f repository.NotificationFilter) (int, error) {
	f.UnreadOnly = true
	tag, err := r.q.Exec(ctx, `UPDATE notification n SET is_read = TRUE`+notificationWhere, notificationArgs(f)...)
	if err != nil {
		return 0, fmt.Errorf("mark all notification: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// Delete borra una notificación.
func (r *NotificationRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM notification WHERE id_notification = $1`, id)
	if err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	return affected(tag, fmt.Sprintf("notification %d", id))
}
