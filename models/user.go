package models

import "time"

type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleCoach UserRole = "entrenador"
)

// User es un usuario del sistema: administrador de la corporación o
// entrenador asociado a una escuela.
type User struct {
	ID           string   `json:"id" db:"id"`
	Email        string   `json:"email" db:"email"`
	Nombre       string   `json:"nombre" db:"nombre"`
	Apellido     string   `json:"apellido" db:"apellido"`
	Rol          UserRole `json:"rol" db:"rol"`
	Activo       bool     `json:"activo" db:"activo"`
	PasswordHash string   `json:"-" db:"password_hash"`

	// EscuelaID es obligatorio para entrenadores y nulo para admins.
	EscuelaID *string `json:"escuela_id,omitempty" db:"escuela_id"`

	// SystemPassword es una copia de cortesía de la contraseña asignada,
	// presente sólo cuando la columna existe en el esquema. Nunca es
	// autoritativa.
	SystemPassword *string `json:"-" db:"system_password"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`

	Escuela *School `json:"escuela,omitempty" db:"-"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
