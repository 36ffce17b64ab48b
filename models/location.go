package models

// Jerarquía geográfica usada sólo para poblar listas en cascada:
// país → departamento → ciudad.

type Country struct {
	ID     string  `json:"id" db:"id"`
	Nombre string  `json:"nombre" db:"nombre"`
	Codigo *string `json:"codigo,omitempty" db:"codigo"`
}

type Department struct {
	ID     string  `json:"id" db:"id"`
	Nombre string  `json:"nombre" db:"nombre"`
	PaisID *string `json:"pais_id,omitempty" db:"pais_id"`
}

type City struct {
	ID             string  `json:"id" db:"id"`
	Nombre         string  `json:"nombre" db:"nombre"`
	DepartamentoID *string `json:"departamento_id,omitempty" db:"departamento_id"`
}
