package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motordesk/motordesk/pkg/model"
)

// fakeContractStore answers aggregate queries from fixed data and records
// car status writes.
type fakeContractStore struct {
	total          int64
	revenue        map[model.CarType]int64
	customerCounts map[uuid.UUID]int64
	successfulFor  map[uuid.UUID]int64
	openFor        map[uuid.UUID]int64

	statusWrites []model.CarStatus
}

func (f *fakeContractStore) CountByCompany(ctx context.Context, companyID uuid.UUID) (int64, error) {
	return f.total, nil
}

func (f *fakeContractStore) SuccessfulRevenueByCarType(ctx context.Context, companyID uuid.UUID) (map[model.CarType]int64, error) {
	return f.revenue, nil
}

func (f *fakeContractStore) CountByCustomer(ctx context.Context, companyID, customerID uuid.UUID) (int64, error) {
	return f.customerCounts[customerID], nil
}

func (f *fakeContractStore) CountForCarByStatuses(ctx context.Context, companyID, carID uuid.UUID, statuses []model.ContractStatus) (int64, error) {
	for _, status := range statuses {
		if status == model.ContractSuccessful {
			return f.successfulFor[carID], nil
		}
	}
	return f.openFor[carID], nil
}

func (f *fakeContractStore) UpdateStatus(ctx context.Context, companyID, id uuid.UUID, status model.CarStatus) error {
	f.statusWrites = append(f.statusWrites, status)
	return nil
}

func TestRefreshAggregatesCarStatusDerivation(t *testing.T) {
	companyID := uuid.New()
	carID := uuid.New()

	cases := []struct {
		name       string
		successful int64
		open       int64
		want       model.CarStatus
	}{
		{"sold wins over open", 1, 3, model.CarSold},
		{"open means negotiation", 0, 2, model.CarInNegotiation},
		{"no contracts means available", 0, 0, model.CarAvailable},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := &fakeContractStore{
				successfulFor: map[uuid.UUID]int64{carID: tc.successful},
				openFor:       map[uuid.UUID]int64{carID: tc.open},
				revenue:       map[model.CarType]int64{},
			}

			result, err := RefreshAggregates(context.Background(), store, store, companyID, nil, &carID)
			require.NoError(t, err)
			require.NotNil(t, result.UpdatedCarStatus)
			assert.Equal(t, tc.want, *result.UpdatedCarStatus)
			// The status is persisted even when unchanged.
			assert.Equal(t, []model.CarStatus{tc.want}, store.statusWrites)
		})
	}
}

func TestRefreshAggregatesAllTypesPresent(t *testing.T) {
	companyID := uuid.New()
	store := &fakeContractStore{
		total: 7,
		revenue: map[model.CarType]int64{
			model.CarTypeSUV: 20_000_000,
		},
	}

	result, err := RefreshAggregates(context.Background(), store, store, companyID, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(7), result.TotalContractCount)
	assert.Len(t, result.RevenueByCarType, len(model.CarTypes))
	assert.Equal(t, int64(20_000_000), result.RevenueByCarType[model.CarTypeSUV])
	for _, carType := range model.CarTypes {
		if carType == model.CarTypeSUV {
			continue
		}
		assert.Equal(t, int64(0), result.RevenueByCarType[carType], "type %s", carType)
	}

	assert.Nil(t, result.CustomerContractCount)
	assert.Nil(t, result.UpdatedCarStatus)
	assert.Empty(t, store.statusWrites)
}

func TestRefreshAggregatesCustomerCount(t *testing.T) {
	companyID := uuid.New()
	customerID := uuid.New()
	store := &fakeContractStore{
		revenue:        map[model.CarType]int64{},
		customerCounts: map[uuid.UUID]int64{customerID: 4},
	}

	result, err := RefreshAggregates(context.Background(), store, store, companyID, &customerID, nil)
	require.NoError(t, err)
	require.NotNil(t, result.CustomerContractCount)
	assert.Equal(t, int64(4), *result.CustomerContractCount)
}

func TestRefreshAggregatesIdempotent(t *testing.T) {
	companyID := uuid.New()
	carID := uuid.New()
	store := &fakeContractStore{
		total:         3,
		revenue:       map[model.CarType]int64{model.CarTypeCompact: 5_000_000},
		successfulFor: map[uuid.UUID]int64{carID: 1},
		openFor:       map[uuid.UUID]int64{},
	}

	first, err := RefreshAggregates(context.Background(), store, store, companyID, nil, &carID)
	require.NoError(t, err)
	second, err := RefreshAggregates(context.Background(), store, store, companyID, nil, &carID)
	require.NoError(t, err)

	assert.Equal(t, first.TotalContractCount, second.TotalContractCount)
	assert.Equal(t, first.RevenueByCarType, second.RevenueByCarType)
	assert.Equal(t, *first.UpdatedCarStatus, *second.UpdatedCarStatus)
}
