package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/corfutbolocanero/roster-service/models"
	"github.com/corfutbolocanero/roster-service/repositories"
	"github.com/corfutbolocanero/roster-service/storage"
)

type SchoolService interface {
	CreateSchool(ctx context.Context, input CreateSchoolInput) (*models.School, error)
	GetSchoolByID(ctx context.Context, id string) (*models.School, error)
	GetAllSchools(ctx context.Context) ([]models.School, error)
	UpdateSchool(ctx context.Context, id string, input UpdateSchoolInput) (*models.School, error)
	UploadLogo(ctx context.Context, schoolID string, file io.Reader, contentType string, size int64) (*models.School, error)
	DeleteLogo(ctx context.Context, schoolID string) (*models.School, error)
	DeleteSchool(ctx context.Context, schoolID string) error
}

type CreateSchoolInput struct {
	Nombre string `json:"nombre"`
}

type UpdateSchoolInput struct {
	Nombre string `json:"nombre"`
}

type schoolService struct {
	schoolRepo repositories.SchoolRepository
	uploader   storage.FileUploader
	logger     *slog.Logger
}

func NewSchoolService(schoolRepo repositories.SchoolRepository, uploader storage.FileUploader, logger *slog.Logger) SchoolService {
	return &schoolService{
		schoolRepo: schoolRepo,
		uploader:   uploader,
		logger:     logger,
	}
}

func (s *schoolService) CreateSchool(ctx context.Context, input CreateSchoolInput) (*models.School, error) {
	nombre := strings.TrimSpace(input.Nombre)
	if nombre == "" {
		return nil, ErrSchoolNameRequired
	}

	school := &models.School{Nombre: nombre}
	if err := s.schoolRepo.Create(ctx, school); err != nil {
		return nil, fmt.Errorf("failed to create school: %w", err)
	}
	return school, nil
}

func (s *schoolService) GetSchoolByID(ctx context.Context, id string) (*models.School, error) {
	school, err := s.schoolRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrSchoolNotFound) {
			return nil, ErrSchoolNotFound
		}
		return nil, fmt.Errorf("failed to get school: %w", err)
	}
	return school, nil
}

func (s *schoolService) GetAllSchools(ctx context.Context) ([]models.School, error) {
	schools, err := s.schoolRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list schools: %w", err)
	}
	return schools, nil
}

func (s *schoolService) UpdateSchool(ctx context.Context, id string, input UpdateSchoolInput) (*models.School, error) {
	nombre := strings.TrimSpace(input.Nombre)
	if nombre == "" {
		return nil, ErrSchoolNameRequired
	}

	school, err := s.GetSchoolByID(ctx, id)
	if err != nil {
		return nil, err
	}
	school.Nombre = nombre
	if err := s.schoolRepo.Update(ctx, school); err != nil {
		return nil, fmt.Errorf("failed to update school: %w", err)
	}
	return school, nil
}

// UploadLogo sube el escudo al bucket de logos bajo la clave
// "<escuela_id>.<ext>" y persiste URL y tipo en una sola actualización.
func (s *schoolService) UploadLogo(ctx context.Context, schoolID string, file io.Reader, contentType string, size int64) (*models.School, error) {
	school, err := s.GetSchoolByID(ctx, schoolID)
	if err != nil {
		return nil, err
	}

	if err := validateImageUpload(contentType, size, maxLogoSizeBytes); err != nil {
		return nil, err
	}
	ext, err := GetExtensionFromContentType(contentType)
	if err != nil {
		return nil, err
	}

	// Si el logo anterior tenía otra extensión, su objeto queda huérfano.
	// Se intenta borrar sin bloquear la subida nueva.
	if school.LogoURL != nil && school.LogoFileType != nil {
		if oldExt, extErr := GetExtensionFromContentType(*school.LogoFileType); extErr == nil && oldExt != ext {
			oldKey := fmt.Sprintf("%s.%s", school.ID, oldExt)
			if delErr := s.uploader.Delete(ctx, oldKey); delErr != nil {
				s.logger.Warn("failed to remove previous logo object", "school_id", school.ID, "key", oldKey, "error", delErr)
			}
		}
	}

	key := fmt.Sprintf("%s.%s", school.ID, ext)
	result, err := s.uploader.Upload(ctx, key, contentType, file)
	if err != nil {
		return nil, fmt.Errorf("failed to upload logo: %w", err)
	}

	if err := s.schoolRepo.SetLogo(ctx, school.ID, result.Location, contentType); err != nil {
		return nil, fmt.Errorf("failed to persist logo: %w", err)
	}
	school.LogoURL = &result.Location
	ct := contentType
	school.LogoFileType = &ct
	return school, nil
}

// DeleteLogo borra el objeto del bucket y limpia las columnas del logo. El
// borrado del objeto es best effort: si falla, las columnas se limpian igual.
func (s *schoolService) DeleteLogo(ctx context.Context, schoolID string) (*models.School, error) {
	school, err := s.GetSchoolByID(ctx, schoolID)
	if err != nil {
		return nil, err
	}
	if !school.HasLogo() {
		return school, nil
	}

	if school.LogoFileType != nil {
		if ext, extErr := GetExtensionFromContentType(*school.LogoFileType); extErr == nil {
			key := fmt.Sprintf("%s.%s", school.ID, ext)
			if delErr := s.uploader.Delete(ctx, key); delErr != nil {
				s.logger.Warn("failed to delete logo object", "school_id", school.ID, "key", key, "error", delErr)
			}
		}
	}

	if err := s.schoolRepo.ClearLogo(ctx, school.ID); err != nil {
		return nil, fmt.Errorf("failed to clear logo: %w", err)
	}
	school.LogoURL = nil
	school.LogoFileType = nil
	return school, nil
}

// DeleteSchool elimina la escuela y su logo. Una escuela con jugadores o
// entrenadores asignados no puede borrarse.
func (s *schoolService) DeleteSchool(ctx context.Context, schoolID string) error {
	school, err := s.GetSchoolByID(ctx, schoolID)
	if err != nil {
		return err
	}

	if err := s.schoolRepo.Delete(ctx, school.ID); err != nil {
		if errors.Is(err, repositories.ErrSchoolInUse) {
			return ErrSchoolInUse
		}
		if errors.Is(err, repositories.ErrSchoolNotFound) {
			return ErrSchoolNotFound
		}
		return fmt.Errorf("failed to delete school: %w", err)
	}

	if school.LogoFileType != nil {
		if ext, extErr := GetExtensionFromContentType(*school.LogoFileType); extErr == nil {
			key := fmt.Sprintf("%s.%s", school.ID, ext)
			if delErr := s.uploader.Delete(ctx, key); delErr != nil {
				s.logger.Warn("failed to delete logo object", "school_id", school.ID, "key", key, "error", delErr)
			}
		}
	}
	return nil
}
