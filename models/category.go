package models

import "time"

// Category es una categoría de edad (tabla plana de consulta).
type Category struct {
	ID        string    `json:"id" db:"id"`
	Nombre    string    `json:"nombre" db:"nombre"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
