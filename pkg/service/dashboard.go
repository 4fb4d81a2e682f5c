package service

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/motordesk/motordesk/pkg/auth"
	"github.com/motordesk/motordesk/pkg/model"
	"github.com/motordesk/motordesk/pkg/store/postgres"
)

type DashboardService struct {
	store  *postgres.Store
	logger *zap.Logger
	now    func() time.Time
}

func NewDashboardService(store *postgres.Store, logger *zap.Logger) *DashboardService {
	return &DashboardService{store: store, logger: logger, now: time.Now}
}

type DashboardOverview struct {
	MonthlyRevenue     int64
	LastMonthRevenue   int64
	GrowthRate         float64
	OpenContracts      int64
	ClosedContracts    int64
	ContractsByCarType map[model.CarType]int64
	RevenueByCarType   map[model.CarType]int64
}

// Overview recomputes every figure from the source tables on each call.
// Operator dashboards are low volume; there is no cache to invalidate.
func (s *DashboardService) Overview(ctx context.Context, actor auth.Identity) (*DashboardOverview, error) {
	contracts := postgres.NewContractRepository(s.store.DB())

	now := s.now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	nextMonth := monthStart.AddDate(0, 1, 0)
	lastMonthStart := monthStart.AddDate(0, -1, 0)

	monthly, err := contracts.SuccessfulRevenueBetween(ctx, actor.CompanyID, monthStart, nextMonth)
	if err != nil {
		return nil, err
	}
	lastMonth, err := contracts.SuccessfulRevenueBetween(ctx, actor.CompanyID, lastMonthStart, monthStart)
	if err != nil {
		return nil, err
	}

	open, err := contracts.CountByStatuses(ctx, actor.CompanyID, model.OpenContractStatuses)
	if err != nil {
		return nil, err
	}
	closed, err := contracts.CountByStatuses(ctx, actor.CompanyID,
		[]model.ContractStatus{model.ContractSuccessful})
	if err != nil {
		return nil, err
	}

	countsByType, err := contracts.CountByCarType(ctx, actor.CompanyID)
	if err != nil {
		return nil, err
	}
	revenueByType, err := contracts.SuccessfulRevenueByCarType(ctx, actor.CompanyID)
	if err != nil {
		return nil, err
	}

	overview := &DashboardOverview{
		MonthlyRevenue:     monthly,
		LastMonthRevenue:   lastMonth,
		GrowthRate:         GrowthRate(monthly, lastMonth),
		OpenContracts:      open,
		ClosedContracts:    closed,
		ContractsByCarType: make(map[model.CarType]int64, len(model.CarTypes)),
		RevenueByCarType:   make(map[model.CarType]int64, len(model.CarTypes)),
	}
	for _, carType := range model.CarTypes {
		overview.ContractsByCarType[carType] = countsByType[carType]
		overview.RevenueByCarType[carType] = revenueByType[carType]
	}

	return overview, nil
}

// GrowthRate is 100 when the prior month had no revenue, otherwise the
// percentage change rounded to two decimals.
func GrowthRate(current, prior int64) float64 {
	if prior == 0 {
		return 100
	}
	rate := (float64(current-prior) / float64(prior)) * 100
	return math.Round(rate*100) / 100
}
