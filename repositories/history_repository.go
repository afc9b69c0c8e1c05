package repositories

import (
	"context"
	"errors"

	"beautyconsult-backend/models"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("record not found")

// HistoryRepository is the consulting history archive. Records are written
// once and only ever deleted whole.
type HistoryRepository interface {
	Create(ctx context.Context, rec *models.HistoryRecord) error
	List(ctx context.Context) ([]models.HistoryRecord, error)
	FindByID(ctx context.Context, id string) (*models.HistoryRecord, error)
	Delete(ctx context.Context, id string) error
}

type gormHistoryRepository struct {
	db *gorm.DB
}

func NewGormHistoryRepository(db *gorm.DB) HistoryRepository {
	return &gormHistoryRepository{db: db}
}

func (r *gormHistoryRepository) Create(ctx context.Context, rec *models.HistoryRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *gormHistoryRepository) List(ctx context.Context) ([]models.HistoryRecord, error) {
	var records []models.HistoryRecord
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&records).Error
	return records, err
}

func (r *gormHistoryRepository) FindByID(ctx context.Context, id string) (*models.HistoryRecord, error) {
	var rec models.HistoryRecord
	err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *gormHistoryRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.HistoryRecord{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
