package notification

import (
	"context"
	"fmt"

	"github.com/jhoicas/Materiel-api/internal/application/dto"
	"github.com/jhoicas/Materiel-api/internal/domain"
	"github.com/jhoicas/Materiel-api/internal/domain/entity"
	"github.com/jhoicas/Materiel-api/internal/domain/repository"
)

// NotificationUseCase consulta y gestión de notificaciones.
type NotificationUseCase struct {
	repo     repository.NotificationRepository
	accounts repository.AccountRepository
}

// NewNotificationUseCase construye el caso de uso.
func NewNotificationUseCase(repo repository.NotificationRepository, accounts repository.AccountRepository) *NotificationUseCase {
	return &NotificationUseCase{repo: repo, accounts: accounts}
}

// List devuelve todas las notificaciones, más recientes primero.
func (uc *NotificationUseCase) List(ctx context.Context) ([]dto.NotificationResponse, error) {
	return uc.list(ctx, repository.NotificationFilter{})
}

// Get obtiene una notificación.
func (uc *NotificationUseCase) Get(ctx context.Context, id int64) (*dto.NotificationResponse, error) {
	n, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, domain.ErrNotFound
	}
	out := dto.ToNotificationResponse(n)
	return &out, nil
}

// filterForPerson resuelve qué notificaciones ve la cuenta de una persona:
// RESPONSABLE/DIRECTEUR las de ADMIN; SERVICE/SERVICE_VUE las de su propio servicio.
func (uc *NotificationUseCase) filterForPerson(ctx context.Context, personID int64) (repository.NotificationFilter, error) {
	acc, err := uc.accounts.GetByPersonID(ctx, personID)
	if err != nil {
		return repository.NotificationFilter{}, err
	}
	if acc == nil {
		return repository.NotificationFilter{}, fmt.Errorf("%w: aucun compte pour la personne %d", domain.ErrNotFound, personID)
	}
	switch {
	case acc.IsAdmin():
		return repository.NotificationFilter{Audience: entity.AudienceAdmin}, nil
	case acc.IsService():
		if acc.ServiceID == nil {
			return repository.NotificationFilter{}, fmt.Errorf("%w: la personne %d n'est rattachée à aucun service", domain.ErrInvalidInput, personID)
		}
		return repository.NotificationFilter{Audience: entity.AudienceService, ServiceID: acc.ServiceID}, nil
	default:
		return repository.NotificationFilter{}, fmt.Errorf("%w: type de compte %q", domain.ErrForbidden, acc.Type)
	}
}

// ListForAccount notificaciones visibles para la cuenta de la persona.
func (uc *NotificationUseCase) ListForAccount(ctx context.Context, personID int64) ([]dto.NotificationResponse, error) {
	f, err := uc.filterForPerson(ctx, personID)
	if err != nil {
		return nil, err
	}
	return uc.list(ctx, f)
}

// UnreadCountForAccount número de notificaciones no leídas de la cuenta.
func (uc *NotificationUseCase) UnreadCountForAccount(ctx context.Context, personID int64) (int, error) {
	f, err := uc.filterForPerson(ctx, personID)
	if err != nil {
		return 0, err
	}
	f.UnreadOnly = true
	return uc.repo.Count(ctx, f)
}

// MarkAllReadForAccount marca como leídas todas las notificaciones visibles para la cuenta.
func (uc *NotificationUseCase) MarkAllReadForAccount(ctx context.Context, personID int64) (int, error) {
	f, err := uc.filterForPerson(ctx, personID)
	if err != nil {
		return 0, err
	}
	f.UnreadOnly = true
	return uc.repo.MarkAllRead(ctx, f)
}

// MarkRead marca una notificación como leída.
func (uc *NotificationUseCase) MarkRead(ctx context.Context, id int64) error {
	n, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if n == nil {
		return domain.ErrNotFound
	}
	return uc.repo.MarkRead(ctx, id)
}

// Delete elimina una notificación.
func (uc *NotificationUseCase) Delete(ctx context.Context, id int64) error {
	n, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if n == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(ctx, id)
}

// Count número total de notificaciones.
func (uc *NotificationUseCase) Count(ctx context.Context) (int, error) {
	return uc.repo.Count(ctx, repository.NotificationFilter{})
}

func (uc *NotificationUseCase) list(ctx context.Context, f repository.NotificationFilter) ([]dto.NotificationResponse, error) {
	items, err := uc.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]dto.NotificationResponse, 0, len(items))
	for _, n := range items {
		out = append(out, dto.ToNotificationResponse(n))
	}
	return out, nil
}
