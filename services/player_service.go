package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/corfutbolocanero/roster-service/models"
	"github.com/corfutbolocanero/roster-service/repositories"
	"github.com/corfutbolocanero/roster-service/storage"
)

// fileFolders asigna a cada campo de archivo su carpeta dentro del bucket
// de jugadores.
var fileFolders = map[models.PlayerFileField]string{
	models.FileFotoPerfil:    "fotos_perfil",
	models.FileDocumentoPDF:  "documentos",
	models.FileRegistroCivil: "registros_civiles",
}

// fileOrder es el orden fijo de subida. Un fallo aborta los campos restantes.
var fileOrder = []models.PlayerFileField{
	models.FileFotoPerfil,
	models.FileDocumentoPDF,
	models.FileRegistroCivil,
}

type PlayerService interface {
	CreatePlayer(ctx context.Context, actorID string, input PlayerInput) (*models.Player, error)
	GetPlayerByID(ctx context.Context, actorID, id string) (*models.Player, error)
	ListPlayers(ctx context.Context, actorID string, includeInactive bool) ([]models.Player, error)
	UpdatePlayer(ctx context.Context, actorID, id string, input PlayerInput) (*models.Player, error)
	DeactivatePlayer(ctx context.Context, actorID, id string) error
	RestorePlayer(ctx context.Context, actorID, id string) error
	DeletePlayerPermanently(ctx context.Context, actorID, id string) (*models.Player, error)
	UploadPlayerFiles(ctx context.Context, actorID, playerID string, files []PlayerFileUpload) (*FileUploadSummary, error)
}

type PlayerInput struct {
	Documento       string    `json:"documento" validate:"required"`
	Nombre          string    `json:"nombre" validate:"required"`
	Apellido        string    `json:"apellido" validate:"required"`
	FechaNacimiento time.Time `json:"fecha_nacimiento" validate:"required"`
	CategoriaID     string    `json:"categoria_id" validate:"required"`
	EscuelaID       string    `json:"escuela_id"`
	Pais            string    `json:"pais"`
	Departamento    string    `json:"departamento"`
	Ciudad          string    `json:"ciudad"`
	PaisID          *string   `json:"pais_id"`
	DepartamentoID  *string   `json:"departamento_id"`
	CiudadID        *string   `json:"ciudad_id"`
	EPS             string    `json:"eps"`
	TipoEPS         string    `json:"tipo_eps"`
}

// PlayerFileUpload es un archivo recibido para uno de los tres campos.
type PlayerFileUpload struct {
	Field       models.PlayerFileField
	Reader      io.Reader
	Filename    string
	ContentType string
	Size        int64
}

// FileUploadSummary resume un lote de subidas. Las URLs ya persistidas no se
// revierten cuando un campo posterior falla.
type FileUploadSummary struct {
	Uploaded []models.PlayerFileField `json:"uploaded"`
	Skipped  []models.PlayerFileField `json:"skipped"`
	Failed   []FileUploadFailure      `json:"failed"`
}

type FileUploadFailure struct {
	Field models.PlayerFileField `json:"field"`
	Error string                 `json:"error"`
}

type playerService struct {
	playerRepo repositories.PlayerRepository
	userRepo   repositories.UserRepository
	uploader   storage.FileUploader
	logger     *slog.Logger
}

func NewPlayerService(
	playerRepo repositories.PlayerRepository,
	userRepo repositories.UserRepository,
	uploader storage.FileUploader,
	logger *slog.Logger,
) PlayerService {
	return &playerService{
		playerRepo: playerRepo,
		userRepo:   userRepo,
		uploader:   uploader,
		logger:     logger,
	}
}

func (s *playerService) actor(ctx context.Context, actorID string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrAuthenticationFailed
		}
		return nil, fmt.Errorf("failed to load acting user: %w", err)
	}
	if !user.Activo {
		return nil, ErrAccountDeactivated
	}
	return user, nil
}

func canAccessPlayer(actor *models.User, player *models.Player) bool {
	if actor.Rol == models.RoleAdmin {
		return true
	}
	return actor.EscuelaID != nil && *actor.EscuelaID == player.EscuelaID
}

func (s *playerService) CreatePlayer(ctx context.Context, actorID string, input PlayerInput) (*models.Player, error) {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	input.Documento = strings.TrimSpace(input.Documento)
	if input.Documento == "" {
		return nil, ErrDocumentoRequired
	}
	if err := validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	// Los entrenadores solo registran jugadores en su propia escuela.
	escuelaID := input.EscuelaID
	if actor.Rol == models.RoleCoach {
		if actor.EscuelaID == nil {
			return nil, ErrForbiddenOperation
		}
		escuelaID = *actor.EscuelaID
	}
	if strings.TrimSpace(escuelaID) == "" {
		return nil, fmt.Errorf("%w: escuela_id is required", ErrValidationFailed)
	}

	if existing, lookErr := s.playerRepo.GetByDocumento(ctx, input.Documento); lookErr == nil && existing != nil {
		return nil, ErrPlayerDocumentoConflict
	} else if lookErr != nil && !errors.Is(lookErr, repositories.ErrPlayerNotFound) {
		return nil, fmt.Errorf("failed to check documento: %w", lookErr)
	}

	player := playerFromInput(input)
	player.EscuelaID = escuelaID
	player.Activo = true

	if err := s.playerRepo.Create(ctx, player); err != nil {
		switch {
		case errors.Is(err, repositories.ErrPlayerDocumentoConflict):
			return nil, ErrPlayerDocumentoConflict
		case errors.Is(err, repositories.ErrPlayerReferenceInvalid):
			return nil, fmt.Errorf("%w: escuela or categoria does not exist", ErrValidationFailed)
		}
		return nil, fmt.Errorf("failed to create player: %w", err)
	}
	return player, nil
}

func (s *playerService) GetPlayerByID(ctx context.Context, actorID, id string) (*models.Player, error) {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	player, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	if !canAccessPlayer(actor, player) {
		return nil, ErrForbiddenOperation
	}
	return player, nil
}

// ListPlayers devuelve los jugadores visibles para el actor: todos para un
// administrador, los de su escuela para un entrenador. Los inactivos solo se
// incluyen cuando se piden.
func (s *playerService) ListPlayers(ctx context.Context, actorID string, includeInactive bool) ([]models.Player, error) {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	filter := repositories.PlayerFilter{}
	if actor.Rol == models.RoleCoach {
		if actor.EscuelaID == nil {
			return nil, ErrForbiddenOperation
		}
		filter.EscuelaID = *actor.EscuelaID
	}
	if !includeInactive {
		active := true
		filter.Activo = &active
	}

	players, err := s.playerRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	return players, nil
}

func (s *playerService) UpdatePlayer(ctx context.Context, actorID, id string, input PlayerInput) (*models.Player, error) {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	player, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	if !canAccessPlayer(actor, player) {
		return nil, ErrForbiddenOperation
	}

	input.Documento = strings.TrimSpace(input.Documento)
	if err := validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	if input.Documento != player.Documento {
		if existing, lookErr := s.playerRepo.GetByDocumento(ctx, input.Documento); lookErr == nil && existing != nil && existing.ID != player.ID {
			return nil, ErrPlayerDocumentoConflict
		} else if lookErr != nil && !errors.Is(lookErr, repositories.ErrPlayerNotFound) {
			return nil, fmt.Errorf("failed to check documento: %w", lookErr)
		}
	}

	updated := playerFromInput(input)
	updated.ID = player.ID
	updated.Activo = player.Activo
	updated.FotoPerfilURL = player.FotoPerfilURL
	updated.DocumentoPDFURL = player.DocumentoPDFURL
	updated.RegistroCivilURL = player.RegistroCivilURL
	if actor.Rol == models.RoleCoach {
		updated.EscuelaID = player.EscuelaID
	} else if strings.TrimSpace(updated.EscuelaID) == "" {
		updated.EscuelaID = player.EscuelaID
	}

	if err := s.playerRepo.Update(ctx, updated); err != nil {
		switch {
		case errors.Is(err, repositories.ErrPlayerDocumentoConflict):
			return nil, ErrPlayerDocumentoConflict
		case errors.Is(err, repositories.ErrPlayerReferenceInvalid):
			return nil, fmt.Errorf("%w: escuela or categoria does not exist", ErrValidationFailed)
		}
		return nil, fmt.Errorf("failed to update player: %w", err)
	}
	return updated, nil
}

func (s *playerService) DeactivatePlayer(ctx context.Context, actorID, id string) error {
	return s.setPlayerActive(ctx, actorID, id, false)
}

func (s *playerService) RestorePlayer(ctx context.Context, actorID, id string) error {
	return s.setPlayerActive(ctx, actorID, id, true)
}

func (s *playerService) setPlayerActive(ctx context.Context, actorID, id string, active bool) error {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return err
	}
	player, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return ErrPlayerNotFound
		}
		return fmt.Errorf("failed to get player: %w", err)
	}
	if !canAccessPlayer(actor, player) {
		return ErrForbiddenOperation
	}
	if err := s.playerRepo.SetActive(ctx, id, active); err != nil {
		return fmt.Errorf("failed to change player state: %w", err)
	}
	return nil
}

// DeletePlayerPermanently elimina la fila de forma definitiva. Solo para
// administradores; el repositorio verifica que el registro desapareció.
func (s *playerService) DeletePlayerPermanently(ctx context.Context, actorID, id string) (*models.Player, error) {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if actor.Rol != models.RoleAdmin {
		return nil, ErrForbiddenOperation
	}

	deleted, err := s.playerRepo.DeletePermanently(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to delete player: %w", err)
	}

	// Los archivos del jugador se borran después de la fila. Un objeto
	// huérfano es preferible a una fila que apunta a un objeto borrado.
	for field, url := range map[models.PlayerFileField]*string{
		models.FileFotoPerfil:    deleted.FotoPerfilURL,
		models.FileDocumentoPDF:  deleted.DocumentoPDFURL,
		models.FileRegistroCivil: deleted.RegistroCivilURL,
	} {
		if url == nil {
			continue
		}
		key, ok := s.uploader.KeyFromPublicURL(*url)
		if !ok {
			continue
		}
		if delErr := s.uploader.Delete(ctx, key); delErr != nil {
			s.logger.Warn("failed to delete player file object", "player_id", id, "field", field, "key", key, "error", delErr)
		}
	}
	return deleted, nil
}

// UploadPlayerFiles procesa los archivos en el orden fijo foto de perfil,
// documento PDF, registro civil. Cada URL subida se persiste de inmediato;
// el primer fallo aborta los campos restantes y el resumen lo refleja.
func (s *playerService) UploadPlayerFiles(ctx context.Context, actorID, playerID string, files []PlayerFileUpload) (*FileUploadSummary, error) {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	player, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	if !canAccessPlayer(actor, player) {
		return nil, ErrForbiddenOperation
	}

	byField := make(map[models.PlayerFileField]PlayerFileUpload, len(files))
	for _, f := range files {
		if _, known := fileFolders[f.Field]; !known {
			return nil, fmt.Errorf("%w: unknown file field %q", ErrValidationFailed, f.Field)
		}
		byField[f.Field] = f
	}

	summary := &FileUploadSummary{}
	aborted := false
	for _, field := range fileOrder {
		upload, present := byField[field]
		if !present {
			continue
		}
		if aborted {
			summary.Skipped = append(summary.Skipped, field)
			continue
		}
		if err := s.uploadOne(ctx, player, field, upload); err != nil {
			summary.Failed = append(summary.Failed, FileUploadFailure{Field: field, Error: err.Error()})
			aborted = true
			continue
		}
		summary.Uploaded = append(summary.Uploaded, field)
	}
	return summary, nil
}

func (s *playerService) uploadOne(ctx context.Context, player *models.Player, field models.PlayerFileField, upload PlayerFileUpload) error {
	if field == models.FileDocumentoPDF {
		if err := validatePDFUpload(upload.ContentType, upload.Size); err != nil {
			return err
		}
	} else {
		if err := validateImageUpload(upload.ContentType, upload.Size, maxImageSizeBytes); err != nil {
			return err
		}
	}

	ext, err := GetExtensionFromContentType(upload.ContentType)
	if err != nil {
		return err
	}

	key := fmt.Sprintf("%s/%s-%s.%s", fileFolders[field], player.Documento, uuid.NewString(), ext)
	result, err := s.uploader.Upload(ctx, key, upload.ContentType, upload.Reader)
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}

	if err := s.playerRepo.UpdateFileURL(ctx, player.ID, field, result.Location); err != nil {
		return fmt.Errorf("failed to persist file url: %w", err)
	}
	return nil
}

func playerFromInput(input PlayerInput) *models.Player {
	return &models.Player{
		Documento:       strings.TrimSpace(input.Documento),
		Nombre:          strings.TrimSpace(input.Nombre),
		Apellido:        strings.TrimSpace(input.Apellido),
		FechaNacimiento: input.FechaNacimiento,
		CategoriaID:     input.CategoriaID,
		EscuelaID:       input.EscuelaID,
		Pais:            strings.TrimSpace(input.Pais),
		Departamento:    strings.TrimSpace(input.Departamento),
		Ciudad:          strings.TrimSpace(input.Ciudad),
		PaisID:          input.PaisID,
		DepartamentoID:  input.DepartamentoID,
		CiudadID:        input.CiudadID,
		EPS:             strings.TrimSpace(input.EPS),
		TipoEPS:         strings.TrimSpace(input.TipoEPS),
	}
}
