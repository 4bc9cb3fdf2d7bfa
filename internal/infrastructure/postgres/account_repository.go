package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Materiel-api/internal/domain/entity"
	"github.com/jhoicas/Materiel-api/internal/domain/repository"
)

var _ repository.AccountRepository = (*AccountRepo)(nil)

// AccountRepo lecturas de la tabla compte con el servicio de su persona.
type AccountRepo struct {
	q Querier
}

// NewAccountRepository construye el adaptador.
func NewAccountRepository(q Querier) *AccountRepo {
	return &AccountRepo{q: q}
}

const accountSelect = `
	SELECT a.id_compte, a.pseudo, a.mdp, a.type_compte, a.id_personne, p.id_service
	FROM compte a
	LEFT JOIN personne p ON p.id_personne = a.id_personne`

func (r *AccountRepo) get(ctx context.Context, where string, arg any) (*entity.Account, error) {
	var a entity.Account
	err := r.q.QueryRow(ctx, accountSelect+where, arg).Scan(
		&a.ID, &a.Pseudo, &a.PasswordHash, &a.Type, &a.PersonID, &a.ServiceID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get compte: %w", err)
	}
	return &a, nil
}

// GetByPseudo cuenta por pseudo (login).
func (r *AccountRepo) GetByPseudo(ctx context.Context, pseudo string) (*entity.Account, error) {
	return r.get(ctx, ` WHERE a.pseudo = $1`, pseudo)
}

// GetByPersonID cuenta de una persona (listado de notificaciones).
func (r *AccountRepo) GetByPersonID(ctx context.Context, personID int64) (*entity.Account, error) {
	return r.get(ctx, ` WHERE a.id_personne = $1 ORDER BY a.id_compte LIMIT 1`, personID)
}
