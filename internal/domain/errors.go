package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("ressource introuvable")
	ErrUserNotFound      = errors.New("compte introuvable")
	ErrInvalidInput      = errors.New("données invalides")
	ErrDuplicate         = errors.New("ressource déjà existante")
	ErrUnauthorized      = errors.New("non autorisé")
	ErrForbidden         = errors.New("accès refusé")
	ErrConflict          = errors.New("conflit avec l'état actuel")
	ErrInvalidState      = errors.New("opération impossible: le stock deviendrait négatif")
	ErrInsufficientStock = errors.New("stock insuffisant")
)
