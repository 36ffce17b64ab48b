package services

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corfutbolocanero/roster-service/models"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func schoolAID() string { return "school-a" }

func testAdmin() *models.User {
	return &models.User{ID: "admin-1", Email: "admin@test.co", Rol: models.RoleAdmin, Activo: true}
}

func testCoach() *models.User {
	escuela := schoolAID()
	return &models.User{ID: "coach-1", Email: "coach@test.co", Rol: models.RoleCoach, Activo: true, EscuelaID: &escuela}
}

func testPlayer(id, documento, escuelaID string) *models.Player {
	return &models.Player{
		ID:              id,
		Documento:       documento,
		Nombre:          "Juan",
		Apellido:        "Pérez",
		FechaNacimiento: time.Date(2012, 5, 1, 0, 0, 0, 0, time.UTC),
		CategoriaID:     "cat-1",
		EscuelaID:       escuelaID,
		Activo:          true,
	}
}

func validPlayerInput(documento string) PlayerInput {
	return PlayerInput{
		Documento:       documento,
		Nombre:          "Juan",
		Apellido:        "Pérez",
		FechaNacimiento: time.Date(2012, 5, 1, 0, 0, 0, 0, time.UTC),
		CategoriaID:     "cat-1",
		EscuelaID:       schoolAID(),
	}
}

func TestCreatePlayerRejectsDuplicateDocumento(t *testing.T) {
	ctx := context.Background()
	playerRepo := newFakePlayerRepo(testPlayer("player-1", "1090123456", schoolAID()))
	userRepo := newFakeUserRepo(testAdmin())
	svc := NewPlayerService(playerRepo, userRepo, newFakeUploader(), discardLogger())

	_, err := svc.CreatePlayer(ctx, "admin-1", validPlayerInput("1090123456"))
	assert.ErrorIs(t, err, ErrPlayerDocumentoConflict)
}

func TestCreatePlayerCoachForcedToOwnSchool(t *testing.T) {
	ctx := context.Background()
	playerRepo := newFakePlayerRepo()
	userRepo := newFakeUserRepo(testCoach())
	svc := NewPlayerService(playerRepo, userRepo, newFakeUploader(), discardLogger())

	input := validPlayerInput("1090999999")
	input.EscuelaID = "school-b" // se ignora para entrenadores

	player, err := svc.CreatePlayer(ctx, "coach-1", input)
	require.NoError(t, err)
	assert.Equal(t, schoolAID(), player.EscuelaID)
}

func TestListPlayersScopedByRole(t *testing.T) {
	ctx := context.Background()
	playerRepo := newFakePlayerRepo(
		testPlayer("player-1", "100", schoolAID()),
		testPlayer("player-2", "200", "school-b"),
	)
	userRepo := newFakeUserRepo(testAdmin(), testCoach())
	svc := NewPlayerService(playerRepo, userRepo, newFakeUploader(), discardLogger())

	all, err := svc.ListPlayers(ctx, "admin-1", false)
	require.NoError(t, err)
	assert.Len(t, all, 2, "admin sees every school")

	own, err := svc.ListPlayers(ctx, "coach-1", false)
	require.NoError(t, err)
	require.Len(t, own, 1, "coach sees only their school")
	assert.Equal(t, schoolAID(), own[0].EscuelaID)
}

func TestListPlayersExcludesInactiveByDefault(t *testing.T) {
	ctx := context.Background()
	inactive := testPlayer("player-2", "200", schoolAID())
	inactive.Activo = false
	playerRepo := newFakePlayerRepo(testPlayer("player-1", "100", schoolAID()), inactive)
	userRepo := newFakeUserRepo(testAdmin())
	svc := NewPlayerService(playerRepo, userRepo, newFakeUploader(), discardLogger())

	active, err := svc.ListPlayers(ctx, "admin-1", false)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	everyone, err := svc.ListPlayers(ctx, "admin-1", true)
	require.NoError(t, err)
	assert.Len(t, everyone, 2)
}

func TestCoachCannotTouchOtherSchoolPlayer(t *testing.T) {
	ctx := context.Background()
	playerRepo := newFakePlayerRepo(testPlayer("player-1", "100", "school-b"))
	userRepo := newFakeUserRepo(testCoach())
	svc := NewPlayerService(playerRepo, userRepo, newFakeUploader(), discardLogger())

	_, err := svc.GetPlayerByID(ctx, "coach-1", "player-1")
	assert.ErrorIs(t, err, ErrForbiddenOperation)

	err = svc.DeactivatePlayer(ctx, "coach-1", "player-1")
	assert.ErrorIs(t, err, ErrForbiddenOperation)
}

func TestSoftDeleteAndRestoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	playerRepo := newFakePlayerRepo(testPlayer("player-1", "100", schoolAID()))
	userRepo := newFakeUserRepo(testAdmin())
	svc := NewPlayerService(playerRepo, userRepo, newFakeUploader(), discardLogger())

	require.NoError(t, svc.DeactivatePlayer(ctx, "admin-1", "player-1"))
	player, err := svc.GetPlayerByID(ctx, "admin-1", "player-1")
	require.NoError(t, err)
	assert.False(t, player.Activo)

	require.NoError(t, svc.RestorePlayer(ctx, "admin-1", "player-1"))
	player, err = svc.GetPlayerByID(ctx, "admin-1", "player-1")
	require.NoError(t, err)
	assert.True(t, player.Activo)
}

func TestDeletePermanentlyIsAdminOnly(t *testing.T) {
	ctx := context.Background()
	playerRepo := newFakePlayerRepo(testPlayer("player-1", "100", schoolAID()))
	userRepo := newFakeUserRepo(testAdmin(), testCoach())
	svc := NewPlayerService(playerRepo, userRepo, newFakeUploader(), discardLogger())

	_, err := svc.DeletePlayerPermanently(ctx, "coach-1", "player-1")
	assert.ErrorIs(t, err, ErrForbiddenOperation)

	deleted, err := svc.DeletePlayerPermanently(ctx, "admin-1", "player-1")
	require.NoError(t, err)
	assert.Equal(t, "player-1", deleted.ID)

	_, err = svc.GetPlayerByID(ctx, "admin-1", "player-1")
	assert.ErrorIs(t, err, ErrPlayerNotFound)
}

// Los objetos se suben con claves relativas al bucket; el borrado definitivo
// tiene que derivar esas mismas claves desde las URLs públicas persistidas.
func TestDeletePermanentlyRemovesStoredObjectsByKey(t *testing.T) {
	ctx := context.Background()
	uploader := newFakeUploader()

	player := testPlayer("player-1", "100", schoolAID())
	foto := uploader.GetPublicURL("fotos_perfil/100-abc.jpg")
	pdf := uploader.GetPublicURL("documentos/100-def.pdf")
	externa := "https://drive.google.com/uc?export=view&id=1aBcDeFgHiJkLmNoP"
	player.FotoPerfilURL = &foto
	player.DocumentoPDFURL = &pdf
	player.RegistroCivilURL = &externa

	playerRepo := newFakePlayerRepo(player)
	userRepo := newFakeUserRepo(testAdmin())
	svc := NewPlayerService(playerRepo, userRepo, uploader, discardLogger())

	_, err := svc.DeletePlayerPermanently(ctx, "admin-1", "player-1")
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"fotos_perfil/100-abc.jpg", "documentos/100-def.pdf"}, uploader.deletes,
		"deletes must use the stored object keys, and external URLs are left alone")
}

func uploadFor(field models.PlayerFileField, contentType string) PlayerFileUpload {
	return PlayerFileUpload{
		Field:       field,
		Reader:      strings.NewReader("contenido"),
		Filename:    "archivo",
		ContentType: contentType,
		Size:        9,
	}
}

func TestUploadPlayerFilesFixedOrder(t *testing.T) {
	ctx := context.Background()
	playerRepo := newFakePlayerRepo(testPlayer("player-1", "100", schoolAID()))
	userRepo := newFakeUserRepo(testAdmin())
	uploader := newFakeUploader()
	svc := NewPlayerService(playerRepo, userRepo, uploader, discardLogger())

	// Se entregan en desorden; la subida respeta el orden fijo.
	summary, err := svc.UploadPlayerFiles(ctx, "admin-1", "player-1", []PlayerFileUpload{
		uploadFor(models.FileRegistroCivil, "image/png"),
		uploadFor(models.FileDocumentoPDF, "application/pdf"),
		uploadFor(models.FileFotoPerfil, "image/jpeg"),
	})
	require.NoError(t, err)

	assert.Equal(t, []models.PlayerFileField{
		models.FileFotoPerfil,
		models.FileDocumentoPDF,
		models.FileRegistroCivil,
	}, summary.Uploaded)
	assert.Empty(t, summary.Failed)
	assert.Empty(t, summary.Skipped)

	require.Len(t, uploader.uploads, 3)
	assert.True(t, strings.HasPrefix(uploader.uploads[0], "fotos_perfil/"))
	assert.True(t, strings.HasPrefix(uploader.uploads[1], "documentos/"))
	assert.True(t, strings.HasPrefix(uploader.uploads[2], "registros_civiles/"))
}

func TestUploadPlayerFilesAbortsAfterFailure(t *testing.T) {
	ctx := context.Background()
	playerRepo := newFakePlayerRepo(testPlayer("player-1", "100", schoolAID()))
	userRepo := newFakeUserRepo(testAdmin())
	uploader := newFakeUploader()
	uploader.failOnKey = "documentos/"
	svc := NewPlayerService(playerRepo, userRepo, uploader, discardLogger())

	summary, err := svc.UploadPlayerFiles(ctx, "admin-1", "player-1", []PlayerFileUpload{
		uploadFor(models.FileFotoPerfil, "image/jpeg"),
		uploadFor(models.FileDocumentoPDF, "application/pdf"),
		uploadFor(models.FileRegistroCivil, "image/png"),
	})
	require.NoError(t, err)

	// La foto ya subida queda persistida; el fallo del PDF aborta el resto.
	assert.Equal(t, []models.PlayerFileField{models.FileFotoPerfil}, summary.Uploaded)
	require.Len(t, summary.Failed, 1)
	assert.Equal(t, models.FileDocumentoPDF, summary.Failed[0].Field)
	assert.Equal(t, []models.PlayerFileField{models.FileRegistroCivil}, summary.Skipped)

	assert.Contains(t, playerRepo.fileURLs["player-1"], models.FileFotoPerfil,
		"the successful upload must be persisted before the failure")
}

func TestUploadPlayerFilesValidatesTypes(t *testing.T) {
	ctx := context.Background()
	playerRepo := newFakePlayerRepo(testPlayer("player-1", "100", schoolAID()))
	userRepo := newFakeUserRepo(testAdmin())
	svc := NewPlayerService(playerRepo, userRepo, newFakeUploader(), discardLogger())

	summary, err := svc.UploadPlayerFiles(ctx, "admin-1", "player-1", []PlayerFileUpload{
		uploadFor(models.FileDocumentoPDF, "image/png"), // un PDF no puede ser imagen
	})
	require.NoError(t, err)
	require.Len(t, summary.Failed, 1)
	assert.Contains(t, summary.Failed[0].Error, "not allowed")
}
