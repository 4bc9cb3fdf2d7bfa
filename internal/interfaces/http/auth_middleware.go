package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Materiel-api/internal/application/dto"
	"github.com/jhoicas/Materiel-api/internal/domain/entity"
	"github.com/jhoicas/Materiel-api/pkg/jwt"
)

// Locals keys con los datos de la cuenta en Fiber.
const (
	LocalAccountID   = "account_id"
	LocalAccountType = "account_type"
	LocalPersonID    = "person_id"
	LocalPseudo      = "pseudo"
)

// AuthMiddleware valida el Bearer Token JWT y guarda los claims de la cuenta en c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "en-tête Authorization requis"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "format: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vide"})
		}
		claims, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token invalide ou expiré"})
		}
		c.Locals(LocalAccountID, claims.AccountID)
		c.Locals(LocalAccountType, claims.Type)
		c.Locals(LocalPersonID, claims.PersonID)
		c.Locals(LocalPseudo, claims.Pseudo)
		return c.Next()
	}
}

// RequireAccountType autoriza solo los tipos de cuenta indicados. Usar después de AuthMiddleware.
//   - 401 MISSING_TYPE si el token no trae tipo de cuenta.
//   - 403 FORBIDDEN si el tipo no está permitido.
func RequireAccountType(types ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(types))
	for _, t := range types {
		allowed[t] = struct{}{}
	}
	return func(c *fiber.Ctx) error {
		t := GetAccountType(c)
		if t == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TYPE", Message: "type de compte absent du token"})
		}
		if _, ok := allowed[t]; !ok {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "accès réservé: " + strings.Join(types, ", ")})
		}
		return c.Next()
	}
}

// RequireAdmin atajo para RESPONSABLE y DIRECTEUR.
func RequireAdmin() fiber.Handler {
	return RequireAccountType(entity.AccountResponsable, entity.AccountDirecteur)
}

// GetAccountID id de la cuenta autenticada (0 si no hay).
func GetAccountID(c *fiber.Ctx) int64 {
	id, _ := c.Locals(LocalAccountID).(int64)
	return id
}

// GetAccountType tipo de la cuenta autenticada.
func GetAccountType(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalAccountType).(string)
	return s
}

// GetPersonID id de la persona de la cuenta autenticada (0 si no tiene).
func GetPersonID(c *fiber.Ctx) int64 {
	id, _ := c.Locals(LocalPersonID).(int64)
	return id
}

// GetPseudo pseudo de la cuenta autenticada.
func GetPseudo(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalPseudo).(string)
	return s
}
