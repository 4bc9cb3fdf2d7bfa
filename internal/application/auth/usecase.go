package auth

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Materiel-api/internal/application/dto"
	"github.com/jhoicas/Materiel-api/internal/domain"
	"github.com/jhoicas/Materiel-api/internal/domain/entity"
	"github.com/jhoicas/Materiel-api/internal/domain/repository"
	"github.com/jhoicas/Materiel-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase login por pseudo y mdp.
type AuthUseCase struct {
	accounts repository.AccountRepository
	jwtCfg   JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(accounts repository.AccountRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{accounts: accounts, jwtCfg: jwtCfg}
}

// Login verifica pseudo/mdp (bcrypt), genera JWT y retorna token + cuenta.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	pseudo := strings.TrimSpace(in.Pseudo)
	if pseudo == "" || in.Password == "" {
		return nil, domain.ErrInvalidInput
	}
	acc, err := uc.accounts.GetByPseudo(ctx, pseudo)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	claims := jwt.Claims{AccountID: acc.ID, Pseudo: acc.Pseudo, Type: acc.Type}
	if acc.PersonID != nil {
		claims.PersonID = *acc.PersonID
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, claims, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token, Account: toAccountResponse(acc)}, nil
}

func toAccountResponse(a *entity.Account) dto.AccountResponse {
	return dto.AccountResponse{ID: a.ID, Pseudo: a.Pseudo, Type: a.Type, PersonID: a.PersonID}
}
