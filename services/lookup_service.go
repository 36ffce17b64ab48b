package services

import (
	"context"
	"fmt"

	"github.com/corfutbolocanero/roster-service/models"
	"github.com/corfutbolocanero/roster-service/repositories"
)

// LookupService expone los catálogos de solo lectura: categorías y la
// jerarquía país, departamento, ciudad.
type LookupService interface {
	GetCategories(ctx context.Context) ([]models.Category, error)
	GetCountries(ctx context.Context) ([]models.Country, error)
	GetDepartments(ctx context.Context, countryID string) ([]models.Department, error)
	GetCities(ctx context.Context, departmentID string) ([]models.City, error)
}

type lookupService struct {
	categoryRepo repositories.CategoryRepository
	locationRepo repositories.LocationRepository
}

func NewLookupService(categoryRepo repositories.CategoryRepository, locationRepo repositories.LocationRepository) LookupService {
	return &lookupService{
		categoryRepo: categoryRepo,
		locationRepo: locationRepo,
	}
}

func (s *lookupService) GetCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.categoryRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (s *lookupService) GetCountries(ctx context.Context) ([]models.Country, error) {
	countries, err := s.locationRepo.GetCountries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list countries: %w", err)
	}
	return countries, nil
}

func (s *lookupService) GetDepartments(ctx context.Context, countryID string) ([]models.Department, error) {
	departments, err := s.locationRepo.GetDepartmentsByCountry(ctx, countryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	return departments, nil
}

func (s *lookupService) GetCities(ctx context.Context, departmentID string) ([]models.City, error) {
	cities, err := s.locationRepo.GetCitiesByDepartment(ctx, departmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cities: %w", err)
	}
	return cities, nil
}
