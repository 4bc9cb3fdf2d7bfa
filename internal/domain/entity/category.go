package entity

// Category categoría de material (ej. "Mobilier", "Biomédical").
type Category struct {
	ID   int64
	Name string
}
