package service

import (
	"context"
	"errors"
	"strings"

	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/domain"
	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/logger"
	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/repository"
)

type categoryService struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) CreateCategory(ctx context.Context, input CategoryInput) (*domain.VehicleCategory, error) {
	const method = "categoryService.CreateCategory"
	logger.EnterMethod(method, "name", input.Name)

	category := &domain.VehicleCategory{
		Name:          strings.TrimSpace(input.Name),
		Description:   strings.TrimSpace(input.Description),
		BaseDailyRate: input.BaseDailyRate,
	}

	var fields []domain.FieldError
	if category.Name == "" || len(category.Name) > 50 {
		fields = append(fields, domain.FieldError{Field: "name", Message: "Name is required (max 50 characters)"})
	}
	if category.Description == "" {
		fields = append(fields, domain.FieldError{Field: "description", Message: "Description is required"})
	}
	if !category.BaseDailyRate.IsPositive() {
		fields = append(fields, domain.FieldError{Field: "base_daily_rate", Message: "Base daily rate must be greater than 0"})
	}
	if len(fields) > 0 {
		return nil, fail(method, domain.NewValidationError(domain.CodeValidationFailed, "Name, description, and base daily rate are required", fields...))
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			err = domain.NewConflictError(domain.CodeCategoryExists, "Category already exists")
		}
		return nil, fail(method, err, "name", category.Name)
	}

	logger.InfoContext(ctx, "Vehicle category created", "categoryID", category.ID, "name", category.Name)
	logger.ExitMethod(method, "categoryID", category.ID)
	return category, nil
}

func (s *categoryService) GetCategory(ctx context.Context, id int32) (*domain.VehicleCategory, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fail("categoryService.GetCategory", notFoundAs(err, domain.CodeCategoryNotFound, "Vehicle category not found"), "categoryID", id)
	}
	return category, nil
}

func (s *categoryService) ListCategories(ctx context.Context) ([]domain.VehicleCategory, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, fail("categoryService.ListCategories", err)
	}
	return categories, nil
}
