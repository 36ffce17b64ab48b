package repositories

import (
	"context"
	"database/sql"

	"github.com/corfutbolocanero/roster-service/models"
)

// LocationRepository sirve las listas en cascada país → departamento → ciudad.
type LocationRepository interface {
	GetCountries(ctx context.Context) ([]models.Country, error)
	GetDepartmentsByCountry(ctx context.Context, countryID string) ([]models.Department, error)
	GetCitiesByDepartment(ctx context.Context, departmentID string) ([]models.City, error)
}

type postgresLocationRepository struct {
	db *sql.DB
}

func NewPostgresLocationRepository(db *sql.DB) LocationRepository {
	return &postgresLocationRepository{db: db}
}

func (r *postgresLocationRepository) GetCountries(ctx context.Context) ([]models.Country, error) {
	query := `SELECT id, nombre, codigo FROM paises ORDER BY nombre ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	countries := make([]models.Country, 0)
	for rows.Next() {
		var country models.Country
		if err := rows.Scan(&country.ID, &country.Nombre, &country.Codigo); err != nil {
			return nil, err
		}
		countries = append(countries, country)
	}
	return countries, rows.Err()
}

func (r *postgresLocationRepository) GetDepartmentsByCountry(ctx context.Context, countryID string) ([]models.Department, error) {
	query := `SELECT id, nombre, pais_id FROM departamentos WHERE pais_id = $1 ORDER BY nombre ASC`

	rows, err := r.db.QueryContext(ctx, query, countryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	departments := make([]models.Department, 0)
	for rows.Next() {
		var department models.Department
		if err := rows.Scan(&department.ID, &department.Nombre, &department.PaisID); err != nil {
			return nil, err
		}
		departments = append(departments, department)
	}
	return departments, rows.Err()
}

func (r *postgresLocationRepository) GetCitiesByDepartment(ctx context.Context, departmentID string) ([]models.City, error) {
	query := `SELECT id, nombre, departamento_id FROM ciudades WHERE departamento_id = $1 ORDER BY nombre ASC`

	rows, err := r.db.QueryContext(ctx, query, departmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cities := make([]models.City, 0)
	for rows.Next() {
		var city models.City
		if err := rows.Scan(&city.ID, &city.Nombre, &city.DepartamentoID); err != nil {
			return nil, err
		}
		cities = append(cities, city)
	}
	return cities, rows.Err()
}
