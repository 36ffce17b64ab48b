package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/corfutbolocanero/roster-service/models"
	"github.com/corfutbolocanero/roster-service/repositories"
)

// Valores asumidos cuando una fila importada no trae ubicación o régimen.
const (
	defaultPais         = "Colombia"
	defaultDepartamento = "Norte de Santander"
	defaultCiudad       = "Ocaña"
	defaultTipoEPS      = "Contributivo"
)

var importDateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	time.RFC3339,
}

type ImportService interface {
	ImportPlayers(ctx context.Context, actorID string, rows []ImportRow) (*ImportResult, error)
}

// ImportRow es una fila ya extraída de la hoja de cálculo. Categoría y
// escuela llegan como nombres y se resuelven contra el catálogo.
type ImportRow struct {
	Documento       string `json:"documento"`
	Nombre          string `json:"nombre"`
	Apellido        string `json:"apellido"`
	FechaNacimiento string `json:"fecha_nacimiento"`
	Categoria       string `json:"categoria"`
	Escuela         string `json:"escuela"`
	Pais            string `json:"pais"`
	Departamento    string `json:"departamento"`
	Ciudad          string `json:"ciudad"`
	EPS             string `json:"eps"`
	TipoEPS         string `json:"tipo_eps"`
}

type ImportResult struct {
	Total         int            `json:"total"`
	Imported      int            `json:"imported"`
	FailedImports []FailedImport `json:"failed_imports"`
}

// FailedImport reporta la fila de la hoja original: la fila 1 es el
// encabezado, así que la primera fila de datos es la 2.
type FailedImport struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

type importService struct {
	playerService PlayerService
	categoryRepo  repositories.CategoryRepository
	schoolRepo    repositories.SchoolRepository
	userRepo      repositories.UserRepository
}

func NewImportService(
	playerService PlayerService,
	categoryRepo repositories.CategoryRepository,
	schoolRepo repositories.SchoolRepository,
	userRepo repositories.UserRepository,
) ImportService {
	return &importService{
		playerService: playerService,
		categoryRepo:  categoryRepo,
		schoolRepo:    schoolRepo,
		userRepo:      userRepo,
	}
}

// ImportPlayers procesa todas las filas aunque algunas fallen. Siempre se
// cumple Imported + len(FailedImports) == Total.
func (s *importService) ImportPlayers(ctx context.Context, actorID string, rows []ImportRow) (*ImportResult, error) {
	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return nil, ErrAuthenticationFailed
	}

	categories, err := s.categoryRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	categoryRefs := make([]namedRef, len(categories))
	for i, c := range categories {
		categoryRefs[i] = namedRef{ID: c.ID, Name: c.Nombre}
	}

	var schoolRefs []namedRef
	if actor.Rol == models.RoleAdmin {
		schools, err := s.schoolRepo.GetAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load schools: %w", err)
		}
		schoolRefs = make([]namedRef, len(schools))
		for i, sc := range schools {
			schoolRefs[i] = namedRef{ID: sc.ID, Name: sc.Nombre}
		}
	}

	result := &ImportResult{Total: len(rows)}
	for i, row := range rows {
		rowNumber := i + 2
		if err := s.importOne(ctx, actor, actorID, row, categoryRefs, schoolRefs); err != nil {
			result.FailedImports = append(result.FailedImports, FailedImport{
				Row:   rowNumber,
				Error: err.Error(),
			})
			continue
		}
		result.Imported++
	}
	return result, nil
}

func (s *importService) importOne(ctx context.Context, actor *models.User, actorID string, row ImportRow, categoryRefs, schoolRefs []namedRef) error {
	if strings.TrimSpace(row.Documento) == "" {
		return ErrDocumentoRequired
	}

	fecha, err := parseImportDate(row.FechaNacimiento)
	if err != nil {
		return err
	}

	categoriaID, ok := matchNamed(row.Categoria, categoryRefs)
	if !ok {
		return fmt.Errorf("categoría no reconocida: %q", row.Categoria)
	}

	input := PlayerInput{
		Documento:       row.Documento,
		Nombre:          row.Nombre,
		Apellido:        row.Apellido,
		FechaNacimiento: fecha,
		CategoriaID:     categoriaID,
		Pais:            orDefault(row.Pais, defaultPais),
		Departamento:    orDefault(row.Departamento, defaultDepartamento),
		Ciudad:          orDefault(row.Ciudad, defaultCiudad),
		EPS:             strings.TrimSpace(row.EPS),
		TipoEPS:         orDefault(row.TipoEPS, defaultTipoEPS),
	}

	if actor.Rol == models.RoleAdmin {
		escuelaID, ok := matchNamed(row.Escuela, schoolRefs)
		if !ok {
			return fmt.Errorf("escuela no reconocida: %q", row.Escuela)
		}
		input.EscuelaID = escuelaID
	}

	if _, err := s.playerService.CreatePlayer(ctx, actorID, input); err != nil {
		return err
	}
	return nil
}

func parseImportDate(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, fmt.Errorf("fecha de nacimiento vacía")
	}
	for _, layout := range importDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("fecha de nacimiento inválida: %q", raw)
}

func orDefault(value, fallback string) string {
	v := strings.TrimSpace(value)
	if v == "" {
		return fallback
	}
	return v
}

type namedRef struct {
	ID   string
	Name string
}

// matchNamed resuelve un nombre libre contra el catálogo. Primero igualdad
// normalizada, luego contención en cualquier dirección. Entre varios
// candidatos gana el de nombre normalizado más largo; a igual longitud, el
// menor en orden lexicográfico, para que el resultado sea determinista.
func matchNamed(name string, refs []namedRef) (string, bool) {
	needle := squashKey(name)
	if needle == "" {
		return "", false
	}

	for _, ref := range refs {
		if squashKey(ref.Name) == needle {
			return ref.ID, true
		}
	}

	var candidates []namedRef
	for _, ref := range refs {
		key := squashKey(ref.Name)
		if key == "" {
			continue
		}
		if strings.Contains(key, needle) || strings.Contains(needle, key) {
			candidates = append(candidates, ref)
		}
	}
	if len(candidates) == 0 {
		return "", false
	}

	sort.Slice(candidates, func(i, j int) bool {
		ki, kj := squashKey(candidates[i].Name), squashKey(candidates[j].Name)
		if len(ki) != len(kj) {
			return len(ki) > len(kj)
		}
		return ki < kj
	})
	return candidates[0].ID, true
}

// squashKey reduce un nombre a minúsculas alfanuméricas sin acentos, de modo
// que "Sub-12", "SUB 12" y "sub12" coincidan.
func squashKey(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch r {
		case 'á':
			r = 'a'
		case 'é':
			r = 'e'
		case 'í':
			r = 'i'
		case 'ó':
			r = 'o'
		case 'ú', 'ü':
			r = 'u'
		case 'ñ':
			r = 'n'
		}
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
