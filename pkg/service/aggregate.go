package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/motordesk/motordesk/pkg/model"
)

// contractAggregates is the slice of ContractRepository the refresher
// reads through.
type contractAggregates interface {
	CountByCompany(ctx context.Context, companyID uuid.UUID) (int64, error)
	SuccessfulRevenueByCarType(ctx context.Context, companyID uuid.UUID) (map[model.CarType]int64, error)
	CountByCustomer(ctx context.Context, companyID, customerID uuid.UUID) (int64, error)
	CountForCarByStatuses(ctx context.Context, companyID, carID uuid.UUID, statuses []model.ContractStatus) (int64, error)
}

type carStatusWriter interface {
	UpdateStatus(ctx context.Context, companyID, id uuid.UUID, status model.CarStatus) error
}

type RefreshResult struct {
	TotalContractCount    int64
	RevenueByCarType      map[model.CarType]int64
	CustomerContractCount *int64
	UpdatedCarStatus      *model.CarStatus
}

// RefreshAggregates recomputes the tenant-wide contract aggregates and the
// affected car's derived status. It must run on the same transaction as
// the contract mutation that triggered it; any error aborts that
// transaction.
func RefreshAggregates(
	ctx context.Context,
	contracts contractAggregates,
	cars carStatusWriter,
	companyID uuid.UUID,
	customerID, carID *uuid.UUID,
) (*RefreshResult, error) {
	total, err := contracts.CountByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	revenue, err := contracts.SuccessfulRevenueByCarType(ctx, companyID)
	if err != nil {
		return nil, err
	}
	// Every category is present in the output, zero included.
	byType := make(map[model.CarType]int64, len(model.CarTypes))
	for _, carType := range model.CarTypes {
		byType[carType] = revenue[carType]
	}

	result := &RefreshResult{
		TotalContractCount: total,
		RevenueByCarType:   byType,
	}

	if customerID != nil {
		count, err := contracts.CountByCustomer(ctx, companyID, *customerID)
		if err != nil {
			return nil, err
		}
		result.CustomerContractCount = &count
	}

	if carID != nil {
		status, err := deriveCarStatus(ctx, contracts, companyID, *carID)
		if err != nil {
			return nil, err
		}
		// Written back even when unchanged; the write belongs to the
		// enclosing transaction.
		if err := cars.UpdateStatus(ctx, companyID, *carID, status); err != nil {
			return nil, err
		}
		result.UpdatedCarStatus = &status
	}

	return result, nil
}

// deriveCarStatus: sold if the car has any successful contract, else
// in-negotiation if any open contract, else available.
func deriveCarStatus(ctx context.Context, contracts contractAggregates, companyID, carID uuid.UUID) (model.CarStatus, error) {
	sold, err := contracts.CountForCarByStatuses(ctx, companyID, carID,
		[]model.ContractStatus{model.ContractSuccessful})
	if err != nil {
		return "", err
	}
	if sold > 0 {
		return model.CarSold, nil
	}

	open, err := contracts.CountForCarByStatuses(ctx, companyID, carID, model.OpenContractStatuses)
	if err != nil {
		return "", err
	}
	if open > 0 {
		return model.CarInNegotiation, nil
	}
	return model.CarAvailable, nil
}
