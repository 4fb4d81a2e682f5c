package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/motordesk/motordesk/pkg/model"
)

type UploadRepository struct {
	db *gorm.DB
}

func NewUploadRepository(db *gorm.DB) *UploadRepository {
	return &UploadRepository{db: db}
}

func (r *UploadRepository) Create(ctx context.Context, upload *model.Upload) error {
	return r.db.WithContext(ctx).Create(upload).Error
}

func (r *UploadRepository) GetByID(ctx context.Context, companyID, id uuid.UUID) (*model.Upload, error) {
	var upload model.Upload
	err := r.db.WithContext(ctx).First(&upload, "company_id = ? AND id = ?", companyID, id).Error
	if err != nil {
		return nil, err
	}
	return &upload, nil
}

func (r *UploadRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.Upload{}).Where("id = ?", id).Updates(updates).Error
}

func (r *UploadRepository) List(ctx context.Context, companyID uuid.UUID, limit, offset int) ([]model.Upload, int64, error) {
	var uploads []model.Upload
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Upload{}).Where("company_id = ?", companyID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&uploads).Error
	return uploads, total, err
}
