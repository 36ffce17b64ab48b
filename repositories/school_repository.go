package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/corfutbolocanero/roster-service/models"
)

var (
	ErrSchoolNotFound = errors.New("school not found")
	ErrSchoolInUse    = errors.New("school has players or coaches assigned")
)

type SchoolRepository interface {
	Create(ctx context.Context, school *models.School) error
	GetByID(ctx context.Context, id string) (*models.School, error)
	GetAll(ctx context.Context) ([]models.School, error)
	Update(ctx context.Context, school *models.School) error
	// SetLogo escribe URL y tipo MIME en una sola sentencia; ClearLogo
	// anula ambos de la misma forma.
	SetLogo(ctx context.Context, id, logoURL, fileType string) error
	ClearLogo(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type postgresSchoolRepository struct {
	db *sql.DB
}

func NewPostgresSchoolRepository(db *sql.DB) SchoolRepository {
	return &postgresSchoolRepository{db: db}
}

func (r *postgresSchoolRepository) Create(ctx context.Context, school *models.School) error {
	query := `
		INSERT INTO escuelas (nombre, logo_url, logo_file_type)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		school.Nombre,
		school.LogoURL,
		school.LogoFileType,
	).Scan(&school.ID, &school.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create school: %w", err)
	}
	return nil
}

func (r *postgresSchoolRepository) GetByID(ctx context.Context, id string) (*models.School, error) {
	query := `
		SELECT id, nombre, logo_url, logo_file_type, created_at
		FROM escuelas
		WHERE id = $1`

	var school models.School
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&school.ID,
		&school.Nombre,
		&school.LogoURL,
		&school.LogoFileType,
		&school.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSchoolNotFound
		}
		return nil, fmt.Errorf("failed to scan school: %w", err)
	}
	return &school, nil
}

func (r *postgresSchoolRepository) GetAll(ctx context.Context) ([]models.School, error) {
	query := `
		SELECT id, nombre, logo_url, logo_file_type, created_at
		FROM escuelas
		ORDER BY nombre ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	schools := make([]models.School, 0)
	for rows.Next() {
		var school models.School
		if err := rows.Scan(
			&school.ID,
			&school.Nombre,
			&school.LogoURL,
			&school.LogoFileType,
			&school.CreatedAt,
		); err != nil {
			return nil, err
		}
		schools = append(schools, school)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return schools, nil
}

func (r *postgresSchoolRepository) Update(ctx context.Context, school *models.School) error {
	query := `UPDATE escuelas SET nombre = $1 WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, school.Nombre, school.ID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrSchoolNotFound)
}

func (r *postgresSchoolRepository) SetLogo(ctx context.Context, id, logoURL, fileType string) error {
	query := `UPDATE escuelas SET logo_url = $1, logo_file_type = $2 WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, logoURL, fileType, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrSchoolNotFound)
}

func (r *postgresSchoolRepository) ClearLogo(ctx context.Context, id string) error {
	query := `UPDATE escuelas SET logo_url = NULL, logo_file_type = NULL WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrSchoolNotFound)
}

func (r *postgresSchoolRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM escuelas WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return ErrSchoolInUse
		}
		return fmt.Errorf("failed to delete school: %w", err)
	}
	return checkAffectedRows(result, ErrSchoolNotFound)
}
