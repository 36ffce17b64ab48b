package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/corfutbolocanero/roster-service/models"
	"github.com/corfutbolocanero/roster-service/repositories"
)

const (
	minPasswordLength = 8
	resetTokenTTL     = 1 * time.Hour
	resetTokenPurpose = "password_reset"
)

type AuthService interface {
	Login(ctx context.Context, input LoginInput) (*models.User, error)
	UpdatePassword(ctx context.Context, userID string, input UpdatePasswordInput) error
	GeneratePasswordResetToken(ctx context.Context, email string) (string, error)
	ResetPasswordByToken(ctx context.Context, token string, newPassword string) error
}

type LoginInput struct {
	Email    string
	Password string
}

type UpdatePasswordInput struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type authService struct {
	userRepo  repositories.UserRepository
	jwtSecret []byte
}

func NewAuthService(userRepo repositories.UserRepository, jwtSecret string) AuthService {
	return &authService{
		userRepo:  userRepo,
		jwtSecret: []byte(jwtSecret),
	}
}

func (s *authService) Login(ctx context.Context, input LoginInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || input.Password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to compare password hash: %w", err)
	}

	// Las credenciales correctas de una cuenta desactivada producen un
	// error distinto al de credenciales inválidas.
	if !user.Activo {
		return nil, ErrAccountDeactivated
	}

	user.PasswordHash = ""

	return user, nil
}

func (s *authService) UpdatePassword(ctx context.Context, userID string, input UpdatePasswordInput) error {
	if len(input.NewPassword) < minPasswordLength {
		return ErrPasswordTooShort
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.CurrentPassword))
	if err != nil {
		return ErrInvalidCredentials
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, string(hashed)); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// GeneratePasswordResetToken emite un token firmado de corta duración. No
// revela si el correo está registrado: para correos desconocidos devuelve
// una cadena vacía sin error.
func (s *authService) GeneratePasswordResetToken(ctx context.Context, email string) (string, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to find user by email: %w", err)
	}

	claims := jwt.MapClaims{
		"user_id": user.ID,
		"purpose": resetTokenPurpose,
		"exp":     time.Now().Add(resetTokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign reset token: %w", err)
	}
	return signed, nil
}

func (s *authService) ResetPasswordByToken(ctx context.Context, tokenString string, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return ErrPasswordTooShort
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return ErrResetTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ErrResetTokenInvalid
	}
	if purpose, _ := claims["purpose"].(string); purpose != resetTokenPurpose {
		return ErrResetTokenInvalid
	}
	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return ErrResetTokenInvalid
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, string(hashed)); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrResetTokenInvalid
		}
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}
