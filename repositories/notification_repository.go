package repositories

import (
	"context"
	"errors"

	"beautyconsult-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrDuplicate = errors.New("record already exists")

type NotificationRepository interface {
	CreateTemplate(ctx context.Context, t *models.NotificationTemplate) error
	ListTemplates(ctx context.Context) ([]models.NotificationTemplate, error)
	FindTemplate(ctx context.Context, id uuid.UUID) (*models.NotificationTemplate, error)
	ActiveTemplate(ctx context.Context, kind string) (*models.NotificationTemplate, error)
	UpdateTemplate(ctx context.Context, t *models.NotificationTemplate) error
	DeleteTemplate(ctx context.Context, id uuid.UUID) error
	CreateLog(ctx context.Context, l *models.NotificationLog) error
}

type gormNotificationRepository struct {
	db *gorm.DB
}

func NewGormNotificationRepository(db *gorm.DB) NotificationRepository {
	return &gormNotificationRepository{db: db}
}

func (r *gormNotificationRepository) CreateTemplate(ctx context.Context, t *models.NotificationTemplate) error {
	var existing models.NotificationTemplate
	err := r.db.WithContext(ctx).Where("type = ?", t.Type).First(&existing).Error
	if err == nil {
		return ErrDuplicate
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *gormNotificationRepository) ListTemplates(ctx context.Context) ([]models.NotificationTemplate, error) {
	var out []models.NotificationTemplate
	err := r.db.WithContext(ctx).Order("type").Find(&out).Error
	return out, err
}

func (r *gormNotificationRepository) FindTemplate(ctx context.Context, id uuid.UUID) (*models.NotificationTemplate, error) {
	var t models.NotificationTemplate
	err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *gormNotificationRepository) ActiveTemplate(ctx context.Context, kind string) (*models.NotificationTemplate, error) {
	var t models.NotificationTemplate
	err := r.db.WithContext(ctx).Where("type = ? AND is_active = ?", kind, true).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *gormNotificationRepository) UpdateTemplate(ctx context.Context, t *models.NotificationTemplate) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *gormNotificationRepository) DeleteTemplate(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.NotificationTemplate{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormNotificationRepository) CreateLog(ctx context.Context, l *models.NotificationLog) error {
	return r.db.WithContext(ctx).Create(l).Error
}
