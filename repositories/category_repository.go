package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/corfutbolocanero/roster-service/models"
)

var ErrCategoryNotFound = errors.New("category not found")

type CategoryRepository interface {
	GetAll(ctx context.Context) ([]models.Category, error)
	GetByID(ctx context.Context, id string) (*models.Category, error)
	Create(ctx context.Context, category *models.Category) error
}

type postgresCategoryRepository struct {
	db *sql.DB
}

func NewPostgresCategoryRepository(db *sql.DB) CategoryRepository {
	return &postgresCategoryRepository{db: db}
}

func (r *postgresCategoryRepository) GetAll(ctx context.Context) ([]models.Category, error) {
	query := `SELECT id, nombre, created_at FROM categorias ORDER BY nombre ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := make([]models.Category, 0)
	for rows.Next() {
		var category models.Category
		if err := rows.Scan(&category.ID, &category.Nombre, &category.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *postgresCategoryRepository) GetByID(ctx context.Context, id string) (*models.Category, error) {
	query := `SELECT id, nombre, created_at FROM categorias WHERE id = $1`

	var category models.Category
	err := r.db.QueryRowContext(ctx, query, id).Scan(&category.ID, &category.Nombre, &category.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

func (r *postgresCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	query := `INSERT INTO categorias (nombre) VALUES ($1) RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, query, category.Nombre).Scan(&category.ID, &category.CreatedAt)
}
