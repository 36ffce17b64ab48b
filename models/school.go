package models

import "time"

// School representa una escuela o club de fútbol afiliado a la corporación.
// LogoURL y LogoFileType se escriben y se limpian siempre juntos.
type School struct {
	ID           string    `json:"id" db:"id"`
	Nombre       string    `json:"nombre" db:"nombre"`
	LogoURL      *string   `json:"logo_url,omitempty" db:"logo_url"`
	LogoFileType *string   `json:"logo_file_type,omitempty" db:"logo_file_type"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

func (s *School) HasLogo() bool {
	return s.LogoURL != nil && *s.LogoURL != ""
}
