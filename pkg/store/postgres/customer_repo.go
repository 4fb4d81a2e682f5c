package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/motordesk/motordesk/pkg/model"
)

type CustomerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

type CustomerFilter struct {
	Search string
	Region string
	Limit  int
	Offset int
}

func (r *CustomerRepository) Create(ctx context.Context, customer *model.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

func (r *CustomerRepository) CreateBatch(ctx context.Context, customers []*model.Customer, batchSize int) error {
	if len(customers) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(customers, batchSize).Error
}

func (r *CustomerRepository) GetByID(ctx context.Context, companyID, id uuid.UUID) (*model.Customer, error) {
	var customer model.Customer
	err := r.db.WithContext(ctx).First(&customer, "company_id = ? AND id = ?", companyID, id).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// CountByContact reports whether a customer with the same email or phone
// already exists in the tenant.
func (r *CustomerRepository) CountByContact(ctx context.Context, companyID uuid.UUID, email, phone string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Customer{}).
		Where("company_id = ? AND (email = ? OR phone_number = ?)", companyID, email, phone).
		Count(&count).Error
	return count, err
}

// ExistingContacts returns the subset of the given emails and phone numbers
// already present in the tenant.
func (r *CustomerRepository) ExistingContacts(ctx context.Context, companyID uuid.UUID, emails, phones []string) (map[string]bool, map[string]bool, error) {
	existingEmails := make(map[string]bool, len(emails))
	existingPhones := make(map[string]bool, len(phones))

	if len(emails) > 0 {
		var found []string
		err := r.db.WithContext(ctx).Model(&model.Customer{}).
			Where("company_id = ? AND email IN ?", companyID, emails).
			Pluck("email", &found).Error
		if err != nil {
			return nil, nil, err
		}
		for _, email := range found {
			existingEmails[email] = true
		}
	}

	if len(phones) > 0 {
		var found []string
		err := r.db.WithContext(ctx).Model(&model.Customer{}).
			Where("company_id = ? AND phone_number IN ?", companyID, phones).
			Pluck("phone_number", &found).Error
		if err != nil {
			return nil, nil, err
		}
		for _, phone := range found {
			existingPhones[phone] = true
		}
	}

	return existingEmails, existingPhones, nil
}

func (r *CustomerRepository) List(ctx context.Context, companyID uuid.UUID, filter CustomerFilter) ([]model.Customer, int64, error) {
	var customers []model.Customer
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Customer{}).Where("company_id = ?", companyID)

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(
			"name ILIKE ? OR phone_number ILIKE ? OR email ILIKE ?",
			pattern, pattern, pattern,
		)
	}
	if filter.Region != "" {
		query = query.Where("region = ?", filter.Region)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").Limit(filter.Limit).Offset(filter.Offset).Find(&customers).Error
	return customers, total, err
}

func (r *CustomerRepository) Update(ctx context.Context, companyID, id uuid.UUID, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&model.Customer{}).
		Where("company_id = ? AND id = ?", companyID, id).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *CustomerRepository) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		Delete(&model.Customer{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
