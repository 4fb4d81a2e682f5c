package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/motordesk/motordesk/pkg/model"
)

type ContractRepository struct {
	db *gorm.DB
}

func NewContractRepository(db *gorm.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

type ContractFilter struct {
	Status     *model.ContractStatus
	CustomerID *uuid.UUID
	CarID      *uuid.UUID
	UserID     *uuid.UUID
	Limit      int
	Offset     int
}

// Create persists the contract together with its nested meetings through
// the gorm association.
func (r *ContractRepository) Create(ctx context.Context, contract *model.Contract) error {
	return r.db.WithContext(ctx).Create(contract).Error
}

func (r *ContractRepository) GetByID(ctx context.Context, companyID, id uuid.UUID) (*model.Contract, error) {
	var contract model.Contract
	err := r.db.WithContext(ctx).
		Preload("Meetings").
		Preload("Documents").
		Preload("Car").
		Preload("Customer").
		First(&contract, "company_id = ? AND id = ?", companyID, id).Error
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

func (r *ContractRepository) List(ctx context.Context, companyID uuid.UUID, filter ContractFilter) ([]model.Contract, int64, error) {
	var contracts []model.Contract
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Contract{}).Where("company_id = ?", companyID)

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.CarID != nil {
		query = query.Where("car_id = ?", *filter.CarID)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Car").
		Preload("Customer").
		Order("created_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&contracts).Error

	return contracts, total, err
}

func (r *ContractRepository) Update(ctx context.Context, companyID, id uuid.UUID, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.Contract{}).
		Where("company_id = ? AND id = ?", companyID, id).
		Updates(updates).Error
}

func (r *ContractRepository) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		Delete(&model.Contract{}).Error
}

// ReplaceMeetings drops the contract's meeting set and recreates it from
// the payload. No diffing.
func (r *ContractRepository) ReplaceMeetings(ctx context.Context, contractID uuid.UUID, meetings []model.Meeting) error {
	if err := r.db.WithContext(ctx).
		Where("contract_id = ?", contractID).
		Delete(&model.Meeting{}).Error; err != nil {
		return err
	}
	if len(meetings) == 0 {
		return nil
	}
	for i := range meetings {
		meetings[i].ContractID = contractID
	}
	return r.db.WithContext(ctx).Create(&meetings).Error
}

func (r *ContractRepository) CountByCompany(ctx context.Context, companyID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Contract{}).
		Where("company_id = ?", companyID).
		Count(&count).Error
	return count, err
}

func (r *ContractRepository) CountByCustomer(ctx context.Context, companyID, customerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Contract{}).
		Where("company_id = ? AND customer_id = ?", companyID, customerID).
		Count(&count).Error
	return count, err
}

func (r *ContractRepository) CountForCarByStatuses(ctx context.Context, companyID, carID uuid.UUID, statuses []model.ContractStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Contract{}).
		Where("company_id = ? AND car_id = ? AND status IN ?", companyID, carID, statuses).
		Count(&count).Error
	return count, err
}

func (r *ContractRepository) CountByStatuses(ctx context.Context, companyID uuid.UUID, statuses []model.ContractStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Contract{}).
		Where("company_id = ? AND status IN ?", companyID, statuses).
		Count(&count).Error
	return count, err
}

type carTypeRow struct {
	Type  model.CarType
	Total int64
}

// SuccessfulRevenueByCarType sums contract price per car type over
// successful contracts only. Types with no matching contracts are absent
// here; the service layer fills the zeros.
func (r *ContractRepository) SuccessfulRevenueByCarType(ctx context.Context, companyID uuid.UUID) (map[model.CarType]int64, error) {
	var rows []carTypeRow
	err := r.db.WithContext(ctx).Model(&model.Contract{}).
		Select("cars.type AS type, COALESCE(SUM(contracts.price), 0) AS total").
		Joins("JOIN cars ON cars.id = contracts.car_id").
		Where("contracts.company_id = ? AND contracts.status = ? AND contracts.deleted_at IS NULL",
			companyID, model.ContractSuccessful).
		Group("cars.type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	revenue := make(map[model.CarType]int64, len(rows))
	for _, row := range rows {
		revenue[row.Type] = row.Total
	}
	return revenue, nil
}

func (r *ContractRepository) CountByCarType(ctx context.Context, companyID uuid.UUID) (map[model.CarType]int64, error) {
	var rows []carTypeRow
	err := r.db.WithContext(ctx).Model(&model.Contract{}).
		Select("cars.type AS type, COUNT(contracts.id) AS total").
		Joins("JOIN cars ON cars.id = contracts.car_id").
		Where("contracts.company_id = ? AND contracts.deleted_at IS NULL", companyID).
		Group("cars.type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[model.CarType]int64, len(rows))
	for _, row := range rows {
		counts[row.Type] = row.Total
	}
	return counts, nil
}

// SuccessfulRevenueBetween sums successful-contract prices created in
// [from, to).
func (r *ContractRepository) SuccessfulRevenueBetween(ctx context.Context, companyID uuid.UUID, from, to time.Time) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Contract{}).
		Select("COALESCE(SUM(price), 0)").
		Where("company_id = ? AND status = ? AND created_at >= ? AND created_at < ?",
			companyID, model.ContractSuccessful, from, to).
		Scan(&total).Error
	return total, err
}
