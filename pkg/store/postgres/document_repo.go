package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/motordesk/motordesk/pkg/model"
)

type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) Create(ctx context.Context, document *model.ContractDocument) error {
	return r.db.WithContext(ctx).Create(document).Error
}

func (r *DocumentRepository) GetByID(ctx context.Context, companyID, id uuid.UUID) (*model.ContractDocument, error) {
	var document model.ContractDocument
	err := r.db.WithContext(ctx).First(&document, "company_id = ? AND id = ?", companyID, id).Error
	if err != nil {
		return nil, err
	}
	return &document, nil
}

func (r *DocumentRepository) ListByContract(ctx context.Context, companyID, contractID uuid.UUID) ([]model.ContractDocument, error) {
	var documents []model.ContractDocument
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND contract_id = ?", companyID, contractID).
		Order("created_at ASC").
		Find(&documents).Error
	return documents, err
}

// Associate points the document at a contract, optionally renaming it in
// the same update.
func (r *DocumentRepository) Associate(ctx context.Context, companyID, documentID, contractID uuid.UUID, newName string) error {
	updates := map[string]interface{}{"contract_id": contractID}
	if newName != "" {
		updates["file_name"] = newName
	}

	result := r.db.WithContext(ctx).Model(&model.ContractDocument{}).
		Where("company_id = ? AND id = ?", companyID, documentID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *DocumentRepository) Rename(ctx context.Context, companyID, id uuid.UUID, newName string) error {
	result := r.db.WithContext(ctx).Model(&model.ContractDocument{}).
		Where("company_id = ? AND id = ?", companyID, id).
		Update("file_name", newName)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *DocumentRepository) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		Delete(&model.ContractDocument{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
