package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/corfutbolocanero/roster-service/models"
	"github.com/corfutbolocanero/roster-service/repositories"
)

type AdminService interface {
	CreateAdmin(ctx context.Context, input CreateUserInput) (*models.User, error)
	CreateCoach(ctx context.Context, input CreateUserInput) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	SetUserActive(ctx context.Context, userID string, active bool) error
	GetStats(ctx context.Context) (*AdminStats, error)
}

type CreateUserInput struct {
	Email     string  `json:"email" validate:"required,email"`
	Password  string  `json:"password" validate:"required,min=8"`
	Nombre    string  `json:"nombre" validate:"required"`
	Apellido  string  `json:"apellido" validate:"required"`
	EscuelaID *string `json:"escuela_id"`
}

// AdminStats resume el estado del padrón para el panel de administración.
type AdminStats struct {
	TotalUsers      int `json:"total_users"`
	TotalCoaches    int `json:"total_coaches"`
	TotalSchools    int `json:"total_schools"`
	SchoolsWithLogo int `json:"schools_with_logo"`
	TotalPlayers    int `json:"total_players"`
	ActivePlayers   int `json:"active_players"`
	InactivePlayers int `json:"inactive_players"`
	LogoCoveragePct int `json:"logo_coverage_pct"`
}

type adminService struct {
	userRepo   repositories.UserRepository
	schoolRepo repositories.SchoolRepository
	playerRepo repositories.PlayerRepository

	// Resultado de la consulta al esquema hecha en el arranque.
	systemPasswordSupported bool
}

func NewAdminService(
	userRepo repositories.UserRepository,
	schoolRepo repositories.SchoolRepository,
	playerRepo repositories.PlayerRepository,
	systemPasswordSupported bool,
) AdminService {
	return &adminService{
		userRepo:                userRepo,
		schoolRepo:              schoolRepo,
		playerRepo:              playerRepo,
		systemPasswordSupported: systemPasswordSupported,
	}
}

func (s *adminService) CreateAdmin(ctx context.Context, input CreateUserInput) (*models.User, error) {
	return s.createUser(ctx, input, models.RoleAdmin)
}

func (s *adminService) CreateCoach(ctx context.Context, input CreateUserInput) (*models.User, error) {
	if input.EscuelaID == nil || strings.TrimSpace(*input.EscuelaID) == "" {
		return nil, ErrCoachSchoolRequired
	}
	return s.createUser(ctx, input, models.RoleCoach)
}

func (s *adminService) createUser(ctx context.Context, input CreateUserInput, role models.UserRole) (*models.User, error) {
	if err := validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		Nombre:       strings.TrimSpace(input.Nombre),
		Apellido:     strings.TrimSpace(input.Apellido),
		Rol:          role,
		Activo:       true,
		PasswordHash: string(hashed),
		EscuelaID:    input.EscuelaID,
	}
	// Copia en claro para recuperación operativa. Solo se persiste si la
	// columna existe en el esquema.
	if s.systemPasswordSupported {
		plain := input.Password
		user.SystemPassword = &plain
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		switch {
		case errors.Is(err, repositories.ErrUserEmailConflict):
			return nil, ErrUserEmailConflict
		case errors.Is(err, repositories.ErrUserSchoolInvalid):
			return nil, ErrSchoolNotFound
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	user.PasswordHash = ""
	user.SystemPassword = nil
	return user, nil
}

func (s *adminService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.userRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	for i := range users {
		users[i].PasswordHash = ""
		users[i].SystemPassword = nil
	}
	return users, nil
}

func (s *adminService) SetUserActive(ctx context.Context, userID string, active bool) error {
	if err := s.userRepo.SetActive(ctx, userID, active); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to update user state: %w", err)
	}
	return nil
}

func (s *adminService) GetStats(ctx context.Context) (*AdminStats, error) {
	stats := &AdminStats{}

	users, err := s.userRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	stats.TotalUsers = len(users)
	for _, u := range users {
		if u.Rol == models.RoleCoach {
			stats.TotalCoaches++
		}
	}

	schools, err := s.schoolRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count schools: %w", err)
	}
	stats.TotalSchools = len(schools)
	for _, sc := range schools {
		if sc.HasLogo() {
			stats.SchoolsWithLogo++
		}
	}
	if stats.TotalSchools > 0 {
		stats.LogoCoveragePct = stats.SchoolsWithLogo * 100 / stats.TotalSchools
	}

	total, err := s.playerRepo.Count(ctx, repositories.PlayerFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to count players: %w", err)
	}
	active := true
	activeCount, err := s.playerRepo.Count(ctx, repositories.PlayerFilter{Activo: &active})
	if err != nil {
		return nil, fmt.Errorf("failed to count active players: %w", err)
	}
	stats.TotalPlayers = total
	stats.ActivePlayers = activeCount
	stats.InactivePlayers = total - activeCount

	return stats, nil
}
