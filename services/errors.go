package services

import "errors"

// Errores compartidos entre servicios y el mapeo HTTP.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Validación y reglas de negocio
	ErrValidationFailed      = errors.New("validation failed")
	ErrPasswordTooShort      = errors.New("password is too short")
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrAccountDeactivated    = errors.New("account is deactivated")
	ErrSchoolNameRequired    = errors.New("school name is required")
	ErrCoachSchoolRequired   = errors.New("coaches must belong to a school")
	ErrFileTypeNotAllowed    = errors.New("file type not allowed")
	ErrFileTooLarge          = errors.New("file exceeds the maximum allowed size")
	ErrResetTokenInvalid     = errors.New("password reset token is invalid or expired")
	ErrDocumentoRequired     = errors.New("player documento is required")
	ErrCertificateFieldEmpty = errors.New("certificate required field is empty")

	// Conflictos
	ErrUserEmailConflict       = errors.New("email address is already in use")
	ErrPlayerDocumentoConflict = errors.New("a player with this documento already exists")
	ErrSchoolInUse             = errors.New("school has players or coaches assigned")

	// Autenticación y autorización
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrForbiddenOperation   = errors.New("operation not allowed for the current user")

	// Específicos por entidad
	ErrUserNotFound     = errors.New("user not found")
	ErrSchoolNotFound   = errors.New("school not found")
	ErrPlayerNotFound   = errors.New("player not found")
	ErrCategoryNotFound = errors.New("category not found")
)
