package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corfutbolocanero/roster-service/models"
)

func schoolWithLogo(id, nombre string) *models.School {
	url := "https://cdn.test/bucket/" + id + ".png"
	mime := "image/png"
	return &models.School{ID: id, Nombre: nombre, LogoURL: &url, LogoFileType: &mime}
}

func TestCheckStatusReportsCoverage(t *testing.T) {
	schoolRepo := newFakeSchoolRepo(
		schoolWithLogo("s1", "Atlético Ocaña"),
		&models.School{ID: "s2", Nombre: "Real Ocaña"},
		&models.School{ID: "s3", Nombre: "Club Sin Logo"},
	)
	svc := NewLogoSyncService(schoolRepo, newFakeUploader())

	status, err := svc.CheckStatus(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, status.TotalSchools)
	assert.Equal(t, 1, status.SchoolsWithLogo)
	assert.Len(t, status.MissingLogo, 2)
}

func TestSyncSkipsSchoolsWithLogo(t *testing.T) {
	schoolRepo := newFakeSchoolRepo(schoolWithLogo("s1", "Atlético Ocaña"))
	svc := NewLogoSyncService(schoolRepo, newFakeUploader())

	results, err := svc.Sync(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, SyncOutcomeSkipped, results[0].Outcome)
}

func TestSyncAssignsMappedLogo(t *testing.T) {
	schoolRepo := newFakeSchoolRepo(&models.School{ID: "s1", Nombre: "Atlético Ocaña"})
	uploader := newFakeUploader()
	svc := NewLogoSyncService(schoolRepo, uploader)

	results, err := svc.Sync(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, SyncOutcomeUpdated, results[0].Outcome)

	school, err := schoolRepo.GetByID(context.Background(), "s1")
	require.NoError(t, err)
	require.NotNil(t, school.LogoURL)
	assert.Contains(t, *school.LogoURL, "atletico")
	require.NotNil(t, school.LogoFileType)
	assert.Equal(t, "image/png", *school.LogoFileType)
}

// La cobertura consultada después de sincronizar es la que el comando
// reporta como resumen final.
func TestCheckStatusAfterSyncReflectsNewCoverage(t *testing.T) {
	ctx := context.Background()
	schoolRepo := newFakeSchoolRepo(
		&models.School{ID: "s1", Nombre: "Atlético Ocaña"},
		&models.School{ID: "s2", Nombre: "Club Totalmente Desconocido"},
	)
	svc := NewLogoSyncService(schoolRepo, newFakeUploader())

	before, err := svc.CheckStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, before.SchoolsWithLogo)

	_, err = svc.Sync(ctx)
	require.NoError(t, err)

	after, err := svc.CheckStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, after.TotalSchools)
	assert.Equal(t, 1, after.SchoolsWithLogo)
	assert.Equal(t, []string{"Club Totalmente Desconocido"}, after.MissingLogo)
}

func TestSyncUnmappedSchoolIsSkipped(t *testing.T) {
	schoolRepo := newFakeSchoolRepo(&models.School{ID: "s1", Nombre: "Club Totalmente Desconocido"})
	svc := NewLogoSyncService(schoolRepo, newFakeUploader())

	results, err := svc.Sync(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, SyncOutcomeSkipped, results[0].Outcome)
}

func TestMatchLogoFile(t *testing.T) {
	tests := []struct {
		name     string
		school   string
		wantFile string
		wantOK   bool
	}{
		{"exact normalized", "ATLÉTICO OCAÑA", "atletico ocana.png", true},
		{"containment", "Escuela Atlético Ocaña Norte", "atletico ocana.png", true},
		{"common word", "Corporación Talentos", "talentos frontera.jpeg", true},
		{"no match", "Millonarios", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file, ok := matchLogoFile(tt.school)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantFile, file)
		})
	}
}
