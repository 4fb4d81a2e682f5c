package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/motordesk/motordesk/pkg/model"
	"github.com/motordesk/motordesk/pkg/store/postgres"
)

type CarHandler struct {
	db     *postgres.Store
	logger *zap.Logger
}

func NewCarHandler(db *postgres.Store, logger *zap.Logger) *CarHandler {
	return &CarHandler{db: db, logger: logger}
}

type carCreateRequest struct {
	CarNumber         string `json:"carNumber" binding:"required"`
	Manufacturer      string `json:"manufacturer" binding:"required"`
	Model             string `json:"model" binding:"required"`
	Type              string `json:"type" binding:"required"`
	ManufacturingYear int    `json:"manufacturingYear" binding:"required"`
	Mileage           int    `json:"mileage"`
	Price             int64  `json:"price" binding:"required"`
	AccidentCount     int    `json:"accidentCount"`
	Explanation       string `json:"explanation"`
	AccidentDetails   string `json:"accidentDetails"`
}

type carUpdateRequest struct {
	Manufacturer      *string `json:"manufacturer"`
	Model             *string `json:"model"`
	Type              *string `json:"type"`
	ManufacturingYear *int    `json:"manufacturingYear"`
	Mileage           *int    `json:"mileage"`
	Price             *int64  `json:"price"`
	AccidentCount     *int    `json:"accidentCount"`
	Explanation       *string `json:"explanation"`
	AccidentDetails   *string `json:"accidentDetails"`
}

type carResponse struct {
	ID                string `json:"id"`
	CarNumber         string `json:"carNumber"`
	Manufacturer      string `json:"manufacturer"`
	Model             string `json:"model"`
	Type              string `json:"type"`
	TypeLabel         string `json:"typeLabel"`
	ManufacturingYear int    `json:"manufacturingYear"`
	Mileage           int    `json:"mileage"`
	Price             int64  `json:"price"`
	AccidentCount     int    `json:"accidentCount"`
	Explanation       string `json:"explanation,omitempty"`
	AccidentDetails   string `json:"accidentDetails,omitempty"`
	Status            string `json:"status"`
	CreatedAt         string `json:"createdAt"`
}

func (h *CarHandler) Create(c *gin.Context) {
	var req carCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	carType, ok := model.ParseCarType(req.Type)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid car type"})
		return
	}

	actor := identity(c)
	cars := postgres.NewCarRepository(h.db.DB())

	count, err := cars.CountByCarNumber(c.Request.Context(), actor.CompanyID, req.CarNumber)
	if err != nil {
		h.logger.Error("failed to check car number", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create car"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "car number already exists"})
		return
	}

	car := &model.Car{
		CompanyID:         actor.CompanyID,
		CarNumber:         req.CarNumber,
		Manufacturer:      req.Manufacturer,
		Model:             req.Model,
		Type:              carType,
		ManufacturingYear: req.ManufacturingYear,
		Mileage:           req.Mileage,
		Price:             req.Price,
		AccidentCount:     req.AccidentCount,
		Explanation:       req.Explanation,
		AccidentDetails:   req.AccidentDetails,
		Status:            model.CarAvailable,
	}
	if err := cars.Create(c.Request.Context(), car); err != nil {
		h.logger.Error("failed to create car", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create car"})
		return
	}

	c.JSON(http.StatusCreated, mapCar(car))
}

func (h *CarHandler) List(c *gin.Context) {
	actor := identity(c)
	filter := postgres.CarFilter{
		Search: c.Query("search"),
		Limit:  parseLimit(c.Query("limit"), 20),
		Offset: parseOffset(c.Query("offset")),
	}

	if typeValue := c.Query("type"); typeValue != "" {
		carType, ok := model.ParseCarType(typeValue)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid car type"})
			return
		}
		filter.Type = &carType
	}
	if statusValue := c.Query("status"); statusValue != "" {
		status := model.CarStatus(statusValue)
		switch status {
		case model.CarAvailable, model.CarInNegotiation, model.CarSold:
			filter.Status = &status
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}
	}

	cars := postgres.NewCarRepository(h.db.DB())
	list, total, err := cars.List(c.Request.Context(), actor.CompanyID, filter)
	if err != nil {
		h.logger.Error("failed to list cars", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list cars"})
		return
	}

	response := make([]carResponse, 0, len(list))
	for i := range list {
		response = append(response, mapCar(&list[i]))
	}

	c.JSON(http.StatusOK, gin.H{"cars": response, "total": total})
}

func (h *CarHandler) Get(c *gin.Context) {
	carID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid car id"})
		return
	}

	actor := identity(c)
	cars := postgres.NewCarRepository(h.db.DB())
	car, err := cars.GetByID(c.Request.Context(), actor.CompanyID, carID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "car not found"})
			return
		}
		h.logger.Error("failed to get car", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get car"})
		return
	}

	c.JSON(http.StatusOK, mapCar(car))
}

// Update never touches status: that column belongs to the aggregate
// refresher.
func (h *CarHandler) Update(c *gin.Context) {
	carID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid car id"})
		return
	}

	var req carUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.Manufacturer != nil {
		updates["manufacturer"] = *req.Manufacturer
	}
	if req.Model != nil {
		updates["model"] = *req.Model
	}
	if req.Type != nil {
		carType, ok := model.ParseCarType(*req.Type)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid car type"})
			return
		}
		updates["type"] = carType
	}
	if req.ManufacturingYear != nil {
		updates["manufacturing_year"] = *req.ManufacturingYear
	}
	if req.Mileage != nil {
		updates["mileage"] = *req.Mileage
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.AccidentCount != nil {
		updates["accident_count"] = *req.AccidentCount
	}
	if req.Explanation != nil {
		updates["explanation"] = *req.Explanation
	}
	if req.AccidentDetails != nil {
		updates["accident_details"] = *req.AccidentDetails
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to update"})
		return
	}

	actor := identity(c)
	cars := postgres.NewCarRepository(h.db.DB())
	if err := cars.Update(c.Request.Context(), actor.CompanyID, carID, updates); err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "car not found"})
			return
		}
		h.logger.Error("failed to update car", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update car"})
		return
	}

	h.Get(c)
}

func (h *CarHandler) Delete(c *gin.Context) {
	carID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid car id"})
		return
	}

	actor := identity(c)
	cars := postgres.NewCarRepository(h.db.DB())
	if err := cars.Delete(c.Request.Context(), actor.CompanyID, carID); err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "car not found"})
			return
		}
		h.logger.Error("failed to delete car", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete car"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func mapCar(car *model.Car) carResponse {
	return carResponse{
		ID:                car.ID.String(),
		CarNumber:         car.CarNumber,
		Manufacturer:      car.Manufacturer,
		Model:             car.Model,
		Type:              string(car.Type),
		TypeLabel:         car.Type.Label(),
		ManufacturingYear: car.ManufacturingYear,
		Mileage:           car.Mileage,
		Price:             car.Price,
		AccidentCount:     car.AccidentCount,
		Explanation:       car.Explanation,
		AccidentDetails:   car.AccidentDetails,
		Status:            string(car.Status),
		CreatedAt:         car.CreatedAt.UTC().Format(timeRFC3339),
	}
}
