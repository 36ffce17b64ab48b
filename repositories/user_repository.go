package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/corfutbolocanero/roster-service/models"
	"github.com/lib/pq"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserEmailConflict = errors.New("user email conflict")
	ErrUserSchoolInvalid = errors.New("user school reference invalid")
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetAll(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	SetActive(ctx context.Context, id string, active bool) error
	// SupportsSystemPassword indica si la columna espejo system_password
	// existe. La consulta al esquema se hace una sola vez y se cachea.
	SupportsSystemPassword(ctx context.Context) (bool, error)
}

type postgresUserRepository struct {
	db *sql.DB

	// La consulta al esquema se hace una sola vez; ver SupportsSystemPassword.
	schemaOnce        sync.Once
	hasSystemPassword bool
	schemaErr         error
}

func NewPostgresUserRepository(db *sql.DB) UserRepository {
	return &postgresUserRepository{db: db}
}

func (r *postgresUserRepository) SupportsSystemPassword(ctx context.Context) (bool, error) {
	r.schemaOnce.Do(func() {
		query := `
			SELECT EXISTS (
				SELECT 1 FROM information_schema.columns
				WHERE table_name = 'usuarios' AND column_name = 'system_password'
			)`

		var exists bool
		if err := r.db.QueryRowContext(ctx, query).Scan(&exists); err != nil {
			r.schemaErr = fmt.Errorf("failed to check system_password column: %w", err)
			return
		}
		r.hasSystemPassword = exists
	})
	return r.hasSystemPassword, r.schemaErr
}

func (r *postgresUserRepository) Create(ctx context.Context, user *models.User) error {
	var query string
	var row *sql.Row

	withMirror, _ := r.SupportsSystemPassword(ctx)
	if withMirror {
		query = `
			INSERT INTO usuarios (email, nombre, apellido, rol, activo, password_hash, escuela_id, system_password)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id, created_at`
		row = r.db.QueryRowContext(ctx, query,
			user.Email, user.Nombre, user.Apellido, user.Rol, user.Activo,
			user.PasswordHash, user.EscuelaID, user.SystemPassword,
		)
	} else {
		query = `
			INSERT INTO usuarios (email, nombre, apellido, rol, activo, password_hash, escuela_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, created_at`
		row = r.db.QueryRowContext(ctx, query,
			user.Email, user.Nombre, user.Apellido, user.Rol, user.Activo,
			user.PasswordHash, user.EscuelaID,
		)
	}

	if err := row.Scan(&user.ID, &user.CreatedAt); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505": // unique_violation
				if pqErr.Constraint == "usuarios_email_key" {
					return ErrUserEmailConflict
				}
			case "23503": // foreign_key_violation
				if pqErr.Constraint == "usuarios_escuela_id_fkey" {
					return ErrUserSchoolInvalid
				}
			}
		}
		return err
	}
	return nil
}

func (r *postgresUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `
		SELECT
			u.id, u.email, u.nombre, u.apellido, u.rol, u.activo, u.password_hash, u.escuela_id, u.created_at,
			e.id, e.nombre, e.logo_url, e.logo_file_type, e.created_at
		FROM usuarios u
		LEFT JOIN escuelas e ON u.escuela_id = e.id
		WHERE u.id = $1`

	return r.scanUserWithSchool(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT
			u.id, u.email, u.nombre, u.apellido, u.rol, u.activo, u.password_hash, u.escuela_id, u.created_at,
			e.id, e.nombre, e.logo_url, e.logo_file_type, e.created_at
		FROM usuarios u
		LEFT JOIN escuelas e ON u.escuela_id = e.id
		WHERE u.email = $1`

	return r.scanUserWithSchool(r.db.QueryRowContext(ctx, query, email))
}

func (r *postgresUserRepository) GetAll(ctx context.Context) ([]models.User, error) {
	query := `
		SELECT
			u.id, u.email, u.nombre, u.apellido, u.rol, u.activo, u.password_hash, u.escuela_id, u.created_at,
			e.id, e.nombre, e.logo_url, e.logo_file_type, e.created_at
		FROM usuarios u
		LEFT JOIN escuelas e ON u.escuela_id = e.id
		ORDER BY u.apellido ASC, u.nombre ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		user, err := scanUserRow(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *postgresUserRepository) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE usuarios SET
			email = $1,
			nombre = $2,
			apellido = $3,
			rol = $4,
			activo = $5,
			escuela_id = $6
		WHERE id = $7`

	result, err := r.db.ExecContext(ctx, query,
		user.Email, user.Nombre, user.Apellido, user.Rol, user.Activo, user.EscuelaID, user.ID,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505":
				if pqErr.Constraint == "usuarios_email_key" {
					return ErrUserEmailConflict
				}
			case "23503":
				if pqErr.Constraint == "usuarios_escuela_id_fkey" {
					return ErrUserSchoolInvalid
				}
			}
		}
		return err
	}
	return checkAffectedRows(result, ErrUserNotFound)
}

func (r *postgresUserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	query := `UPDATE usuarios SET password_hash = $1 WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, passwordHash, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrUserNotFound)
}

func (r *postgresUserRepository) SetActive(ctx context.Context, id string, active bool) error {
	query := `UPDATE usuarios SET activo = $1 WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, active, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrUserNotFound)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *postgresUserRepository) scanUserWithSchool(row *sql.Row) (*models.User, error) {
	user, err := scanUserRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func scanUserRow(row rowScanner) (*models.User, error) {
	var user models.User
	var schoolID, schoolName, schoolLogoURL, schoolLogoType sql.NullString
	var schoolCreatedAt sql.NullTime

	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Nombre,
		&user.Apellido,
		&user.Rol,
		&user.Activo,
		&user.PasswordHash,
		&user.EscuelaID,
		&user.CreatedAt,
		&schoolID,
		&schoolName,
		&schoolLogoURL,
		&schoolLogoType,
		&schoolCreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if schoolID.Valid {
		school := models.School{
			ID:        schoolID.String,
			Nombre:    schoolName.String,
			CreatedAt: schoolCreatedAt.Time,
		}
		if schoolLogoURL.Valid {
			school.LogoURL = &schoolLogoURL.String
		}
		if schoolLogoType.Valid {
			school.LogoFileType = &schoolLogoType.String
		}
		user.Escuela = &school
	}
	return &user, nil
}
