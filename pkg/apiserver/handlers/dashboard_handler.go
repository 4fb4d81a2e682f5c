package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/motordesk/motordesk/pkg/model"
	"github.com/motordesk/motordesk/pkg/service"
)

type DashboardHandler struct {
	dashboard *service.DashboardService
	logger    *zap.Logger
}

func NewDashboardHandler(dashboard *service.DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard, logger: logger}
}

type carTypeBreakdown struct {
	Type      string `json:"type"`
	TypeLabel string `json:"typeLabel"`
	Contracts int64  `json:"contracts"`
	Revenue   int64  `json:"revenue"`
}

type dashboardResponse struct {
	MonthlyRevenue   int64              `json:"monthlyRevenue"`
	LastMonthRevenue int64              `json:"lastMonthRevenue"`
	GrowthRate       float64            `json:"growthRate"`
	OpenContracts    int64              `json:"openContracts"`
	ClosedContracts  int64              `json:"closedContracts"`
	ByCarType        []carTypeBreakdown `json:"byCarType"`
}

func (h *DashboardHandler) Overview(c *gin.Context) {
	overview, err := h.dashboard.Overview(c.Request.Context(), identity(c))
	if err != nil {
		h.logger.Error("failed to build dashboard", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build dashboard"})
		return
	}

	byType := make([]carTypeBreakdown, 0, len(model.CarTypes))
	for _, carType := range model.CarTypes {
		byType = append(byType, carTypeBreakdown{
			Type:      string(carType),
			TypeLabel: carType.Label(),
			Contracts: overview.ContractsByCarType[carType],
			Revenue:   overview.RevenueByCarType[carType],
		})
	}

	c.JSON(http.StatusOK, dashboardResponse{
		MonthlyRevenue:   overview.MonthlyRevenue,
		LastMonthRevenue: overview.LastMonthRevenue,
		GrowthRate:       overview.GrowthRate,
		OpenContracts:    overview.OpenContracts,
		ClosedContracts:  overview.ClosedContracts,
		ByCarType:        byType,
	})
}
