package services

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/corfutbolocanero/roster-service/models"
	"github.com/corfutbolocanero/roster-service/repositories"
	"github.com/corfutbolocanero/roster-service/storage"
)

// logoMapping relaciona nombres de escuela con los archivos históricos del
// bucket de logos. Los archivos se subieron a mano antes de que existiera la
// subida desde el panel, por eso los nombres no siguen la convención
// "<escuela_id>.<ext>".
var logoMapping = map[string]string{
	"atlético ocaña":           "atletico ocana.png",
	"academia cristo rey":      "academia cristo rey.png",
	"club deportivo futuro":    "futuro fc.jpg",
	"escuela carlos sarabia":   "carlos sarabia.png",
	"talentos de la frontera":  "talentos frontera.jpeg",
	"real ocaña":               "real ocana.png",
	"semilleros del catatumbo": "semilleros catatumbo.jpg",
}

var logoExtensionMIME = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
}

type LogoSyncService interface {
	CheckStatus(ctx context.Context) (*LogoSyncStatus, error)
	Sync(ctx context.Context) ([]LogoSyncResult, error)
}

// LogoSyncStatus es el reporte de cobertura previo a la sincronización.
type LogoSyncStatus struct {
	TotalSchools    int      `json:"total_schools"`
	SchoolsWithLogo int      `json:"schools_with_logo"`
	MissingLogo     []string `json:"missing_logo"`
}

// LogoSyncResult es el desenlace por escuela: updated, skipped o error.
type LogoSyncResult struct {
	School  string `json:"school"`
	Outcome string `json:"outcome"`
	Detail  string `json:"detail,omitempty"`
}

const (
	SyncOutcomeUpdated = "updated"
	SyncOutcomeSkipped = "skipped"
	SyncOutcomeError   = "error"
)

type logoSyncService struct {
	schoolRepo repositories.SchoolRepository
	uploader   storage.FileUploader
}

func NewLogoSyncService(schoolRepo repositories.SchoolRepository, uploader storage.FileUploader) LogoSyncService {
	return &logoSyncService{
		schoolRepo: schoolRepo,
		uploader:   uploader,
	}
}

func (s *logoSyncService) CheckStatus(ctx context.Context) (*LogoSyncStatus, error) {
	schools, err := s.schoolRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list schools: %w", err)
	}

	status := &LogoSyncStatus{TotalSchools: len(schools)}
	for _, school := range schools {
		if school.HasLogo() {
			status.SchoolsWithLogo++
			continue
		}
		status.MissingLogo = append(status.MissingLogo, school.Nombre)
	}
	return status, nil
}

// Sync asigna archivos del mapeo a las escuelas sin logo. Las que ya tienen
// logo se omiten; una escuela sin coincidencia también, con el detalle de
// por qué.
func (s *logoSyncService) Sync(ctx context.Context) ([]LogoSyncResult, error) {
	schools, err := s.schoolRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list schools: %w", err)
	}

	results := make([]LogoSyncResult, 0, len(schools))
	for _, school := range schools {
		results = append(results, s.syncOne(ctx, school))
	}
	return results, nil
}

func (s *logoSyncService) syncOne(ctx context.Context, school models.School) LogoSyncResult {
	if school.HasLogo() {
		return LogoSyncResult{School: school.Nombre, Outcome: SyncOutcomeSkipped, Detail: "ya tiene logo"}
	}

	filename, ok := matchLogoFile(school.Nombre)
	if !ok {
		return LogoSyncResult{School: school.Nombre, Outcome: SyncOutcomeSkipped, Detail: "sin archivo asignado en el mapeo"}
	}

	mime, ok := logoExtensionMIME[strings.ToLower(path.Ext(filename))]
	if !ok {
		return LogoSyncResult{School: school.Nombre, Outcome: SyncOutcomeError, Detail: fmt.Sprintf("extensión desconocida en %q", filename)}
	}

	url := s.uploader.GetPublicURL(filename)
	if err := s.schoolRepo.SetLogo(ctx, school.ID, url, mime); err != nil {
		return LogoSyncResult{School: school.Nombre, Outcome: SyncOutcomeError, Detail: err.Error()}
	}
	return LogoSyncResult{School: school.Nombre, Outcome: SyncOutcomeUpdated, Detail: filename}
}

// matchLogoFile busca el archivo para una escuela: primero igualdad
// normalizada con la llave del mapeo, luego contención en cualquier
// dirección, por último una palabra común de más de tres caracteres. Los
// candidatos se evalúan en orden de llave para que el resultado sea
// determinista.
func matchLogoFile(schoolName string) (string, bool) {
	needle := squashKey(schoolName)
	if needle == "" {
		return "", false
	}

	keys := sortedMappingKeys()

	for _, key := range keys {
		if squashKey(key) == needle {
			return logoMapping[key], true
		}
	}

	for _, key := range keys {
		k := squashKey(key)
		if strings.Contains(k, needle) || strings.Contains(needle, k) {
			return logoMapping[key], true
		}
	}

	schoolWords := significantWords(schoolName)
	for _, key := range keys {
		for w := range significantWords(key) {
			if schoolWords[w] {
				return logoMapping[key], true
			}
		}
	}
	return "", false
}

func sortedMappingKeys() []string {
	keys := make([]string, 0, len(logoMapping))
	for k := range logoMapping {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func significantWords(s string) map[string]bool {
	words := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(s)) {
		w = squashKey(w)
		if len(w) > 3 {
			words[w] = true
		}
	}
	return words
}
