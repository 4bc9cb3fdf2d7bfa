package dto

// LoginRequest credenciales: pseudo y mdp (contraseña en texto, se compara con bcrypt).
type LoginRequest struct {
	Pseudo   string `json:"pseudo"`
	Password string `json:"mdp"`
}

// AccountResponse datos públicos de la cuenta.
type AccountResponse struct {
	ID       int64  `json:"id"`
	Pseudo   string `json:"pseudo"`
	Type     string `json:"type"`
	PersonID *int64 `json:"personneId"`
}

// LoginResponse token + cuenta.
type LoginResponse struct {
	Token   string          `json:"token"`
	Account AccountResponse `json:"compte"`
}
