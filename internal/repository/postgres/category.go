package postgres

import (
	"context"
	"time"

	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/domain"
	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/repository"
)

type categoryRepository struct {
	db DBTX
}

func NewCategoryRepository(db DBTX) repository.CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, c *domain.VehicleCategory) error {
	query := `INSERT INTO vehicle_categories (name, description, base_daily_rate, created_at) VALUES ($1, $2, $3, $4) RETURNING id`
	now := time.Now()
	if err := r.db.QueryRowContext(ctx, query, c.Name, c.Description, c.BaseDailyRate, now).Scan(&c.ID); err != nil {
		return mapError(err)
	}
	c.CreatedAt = now
	return nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id int32) (*domain.VehicleCategory, error) {
	c := &domain.VehicleCategory{}
	query := `SELECT id, name, description, base_daily_rate, created_at FROM vehicle_categories WHERE id = $1`
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name, &c.Description, &c.BaseDailyRate, &c.CreatedAt); err != nil {
		return nil, mapError(err)
	}
	return c, nil
}

func (r *categoryRepository) List(ctx context.Context) ([]domain.VehicleCategory, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, description, base_daily_rate, created_at FROM vehicle_categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []domain.VehicleCategory{}
	for rows.Next() {
		var c domain.VehicleCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.BaseDailyRate, &c.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}
