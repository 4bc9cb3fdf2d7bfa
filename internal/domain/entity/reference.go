package entity

// Tipos de cuenta.
const (
	AccountResponsable = "RESPONSABLE"
	AccountDirecteur   = "DIRECTEUR"
	AccountService     = "SERVICE"
	AccountServiceVue  = "SERVICE_VUE"
)

// Service departamento que recibe préstamos.
type Service struct {
	ID   int64
	Name string
}

// Donor donante de lotes.
type Donor struct {
	ID   int64
	Name string
}

// Class clasificación de materiales y consumibles (ordenada por código en los reportes).
type Class struct {
	ID   int64
	Code string
	Name string
}

// Person persona física, opcionalmente adscrita a un servicio.
type Person struct {
	ID        int64
	LastName  string
	FirstName string
	ServiceID *int64
}

// Account cuenta de acceso. PasswordHash es bcrypt.
type Account struct {
	ID           int64
	Pseudo       string
	PasswordHash string
	Type         string
	PersonID     *int64
	ServiceID    *int64 // servicio de la persona asociada (JOIN)
}

// IsAdmin indica si la cuenta ve las notificaciones ADMIN.
func (a *Account) IsAdmin() bool {
	return a.Type == AccountResponsable || a.Type == AccountDirecteur
}

// IsService indica si la cuenta pertenece a un servicio.
func (a *Account) IsService() bool {
	return a.Type == AccountService || a.Type == AccountServiceVue
}
