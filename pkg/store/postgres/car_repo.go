package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/motordesk/motordesk/pkg/model"
)

type CarRepository struct {
	db *gorm.DB
}

func NewCarRepository(db *gorm.DB) *CarRepository {
	return &CarRepository{db: db}
}

type CarFilter struct {
	Search string
	Type   *model.CarType
	Status *model.CarStatus
	Limit  int
	Offset int
}

func (r *CarRepository) Create(ctx context.Context, car *model.Car) error {
	return r.db.WithContext(ctx).Create(car).Error
}

// CreateBatchSkipConflicts bulk-inserts cars and silently skips rows that
// hit the (company_id, car_number) unique index. The returned count is the
// number of rows actually written.
func (r *CarRepository) CreateBatchSkipConflicts(ctx context.Context, cars []*model.Car) (int64, error) {
	if len(cars) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(cars)
	return result.RowsAffected, result.Error
}

func (r *CarRepository) GetByID(ctx context.Context, companyID, id uuid.UUID) (*model.Car, error) {
	var car model.Car
	err := r.db.WithContext(ctx).First(&car, "company_id = ? AND id = ?", companyID, id).Error
	if err != nil {
		return nil, err
	}
	return &car, nil
}

func (r *CarRepository) CountByCarNumber(ctx context.Context, companyID uuid.UUID, carNumber string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Car{}).
		Where("company_id = ? AND car_number = ?", companyID, carNumber).
		Count(&count).Error
	return count, err
}

// ExistingCarNumbers returns which of the given numbers are already taken
// within the tenant.
func (r *CarRepository) ExistingCarNumbers(ctx context.Context, companyID uuid.UUID, numbers []string) (map[string]bool, error) {
	existing := make(map[string]bool, len(numbers))
	if len(numbers) == 0 {
		return existing, nil
	}

	var found []string
	err := r.db.WithContext(ctx).Model(&model.Car{}).
		Where("company_id = ? AND car_number IN ?", companyID, numbers).
		Pluck("car_number", &found).Error
	if err != nil {
		return nil, err
	}
	for _, number := range found {
		existing[number] = true
	}
	return existing, nil
}

func (r *CarRepository) List(ctx context.Context, companyID uuid.UUID, filter CarFilter) ([]model.Car, int64, error) {
	var cars []model.Car
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Car{}).Where("company_id = ?", companyID)

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(
			"car_number ILIKE ? OR manufacturer ILIKE ? OR model ILIKE ?",
			pattern, pattern, pattern,
		)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").Limit(filter.Limit).Offset(filter.Offset).Find(&cars).Error
	return cars, total, err
}

func (r *CarRepository) Update(ctx context.Context, companyID, id uuid.UUID, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&model.Car{}).
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

// UpdateStatus writes the derived status unconditionally, even when the
// value is unchanged, so the write stays inside the caller's transaction.
func (r *CarRepository) UpdateStatus(ctx context.Context, companyID, id uuid.UUID, status model.CarStatus) error {
	return r.db.WithContext(ctx).Model(&model.Car{}).
		Where("company_id = ? AND id = ?", companyID, id).
		Update("status", status).Error
}

func (r *CarRepository) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		Delete(&model.Car{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
