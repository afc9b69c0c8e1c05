package repositories

import (
	"context"
	"errors"

	"beautyconsult-backend/models"

	"gorm.io/gorm"
)

type VisualRepository interface {
	Create(ctx context.Context, v *models.VisualDetail) error
	List(ctx context.Context) ([]models.VisualDetail, error)
	FindByID(ctx context.Context, id string) (*models.VisualDetail, error)
	Delete(ctx context.Context, id string) error
}

type gormVisualRepository struct {
	db *gorm.DB
}

func NewGormVisualRepository(db *gorm.DB) VisualRepository {
	return &gormVisualRepository{db: db}
}

func (r *gormVisualRepository) Create(ctx context.Context, v *models.VisualDetail) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *gormVisualRepository) List(ctx context.Context) ([]models.VisualDetail, error) {
	var out []models.VisualDetail
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error
	return out, err
}

func (r *gormVisualRepository) FindByID(ctx context.Context, id string) (*models.VisualDetail, error) {
	var v models.VisualDetail
	err := r.db.WithContext(ctx).First(&v, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *gormVisualRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.VisualDetail{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
