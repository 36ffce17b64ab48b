package models

import "time"

// Player es un jugador registrado por una escuela. El documento de identidad
// es la llave natural usada para detectar duplicados en importaciones.
// Activo en false marca una eliminación lógica.
type Player struct {
	ID              string    `json:"id" db:"id"`
	Documento       string    `json:"documento" db:"documento"`
	Nombre          string    `json:"nombre" db:"nombre"`
	Apellido        string    `json:"apellido" db:"apellido"`
	FechaNacimiento time.Time `json:"fecha_nacimiento" db:"fecha_nacimiento"`
	CategoriaID     string    `json:"categoria_id" db:"categoria_id"`
	EscuelaID       string    `json:"escuela_id" db:"escuela_id"`

	// Ubicación en texto libre, con llaves normalizadas opcionales.
	Pais           string  `json:"pais" db:"pais"`
	Departamento   string  `json:"departamento" db:"departamento"`
	Ciudad         string  `json:"ciudad" db:"ciudad"`
	PaisID         *string `json:"pais_id,omitempty" db:"pais_id"`
	DepartamentoID *string `json:"departamento_id,omitempty" db:"departamento_id"`
	CiudadID       *string `json:"ciudad_id,omitempty" db:"ciudad_id"`

	EPS     string `json:"eps" db:"eps"`
	TipoEPS string `json:"tipo_eps" db:"tipo_eps"`

	FotoPerfilURL    *string `json:"foto_perfil_url,omitempty" db:"foto_perfil_url"`
	DocumentoPDFURL  *string `json:"documento_pdf_url,omitempty" db:"documento_pdf_url"`
	RegistroCivilURL *string `json:"registro_civil_url,omitempty" db:"registro_civil_url"`

	Activo    bool      `json:"activo" db:"activo"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	Categoria *Category `json:"categoria,omitempty" db:"-"`
	Escuela   *School   `json:"escuela,omitempty" db:"-"`
}

// PlayerFileField identifica uno de los tres archivos adjuntos de un jugador.
// El orden de los valores es el orden fijo en que se suben.
type PlayerFileField string

const (
	FileFotoPerfil    PlayerFileField = "foto_perfil"
	FileDocumentoPDF  PlayerFileField = "documento_pdf"
	FileRegistroCivil PlayerFileField = "registro_civil"
)
