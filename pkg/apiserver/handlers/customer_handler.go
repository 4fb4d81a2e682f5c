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

type CustomerHandler struct {
	db     *postgres.Store
	logger *zap.Logger
}

func NewCustomerHandler(db *postgres.Store, logger *zap.Logger) *CustomerHandler {
	return &CustomerHandler{db: db, logger: logger}
}

type customerCreateRequest struct {
	Name        string `json:"name" binding:"required"`
	Gender      string `json:"gender"`
	PhoneNumber string `json:"phoneNumber" binding:"required"`
	AgeGroup    string `json:"ageGroup"`
	Region      string `json:"region"`
	Email       string `json:"email"`
	Memo        string `json:"memo"`
}

type customerUpdateRequest struct {
	Name        *string `json:"name"`
	Gender      *string `json:"gender"`
	PhoneNumber *string `json:"phoneNumber"`
	AgeGroup    *string `json:"ageGroup"`
	Region      *string `json:"region"`
	Email       *string `json:"email"`
	Memo        *string `json:"memo"`
}

type customerResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Gender      string `json:"gender,omitempty"`
	PhoneNumber string `json:"phoneNumber"`
	AgeGroup    string `json:"ageGroup,omitempty"`
	Region      string `json:"region,omitempty"`
	Email       string `json:"email,omitempty"`
	Memo        string `json:"memo,omitempty"`
	CreatedAt   string `json:"createdAt"`
}

func (h *CustomerHandler) Create(c *gin.Context) {
	var req customerCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	actor := identity(c)
	customers := postgres.NewCustomerRepository(h.db.DB())

	if req.Email != "" || req.PhoneNumber != "" {
		count, err := customers.CountByContact(c.Request.Context(), actor.CompanyID, req.Email, req.PhoneNumber)
		if err != nil {
			h.logger.Error("failed to check customer contact", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create customer"})
			return
		}
		if count > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "customer with same email or phone already exists"})
			return
		}
	}

	customer := &model.Customer{
		CompanyID:   actor.CompanyID,
		Name:        req.Name,
		Gender:      req.Gender,
		PhoneNumber: req.PhoneNumber,
		AgeGroup:    req.AgeGroup,
		Region:      req.Region,
		Email:       req.Email,
		Memo:        req.Memo,
	}
	if err := customers.Create(c.Request.Context(), customer); err != nil {
		h.logger.Error("failed to create customer", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create customer"})
		return
	}

	c.JSON(http.StatusCreated, mapCustomer(customer))
}

func (h *CustomerHandler) List(c *gin.Context) {
	actor := identity(c)
	filter := postgres.CustomerFilter{
		Search: c.Query("search"),
		Region: c.Query("region"),
		Limit:  parseLimit(c.Query("limit"), 20),
		Offset: parseOffset(c.Query("offset")),
	}

	customers := postgres.NewCustomerRepository(h.db.DB())
	list, total, err := customers.List(c.Request.Context(), actor.CompanyID, filter)
	if err != nil {
		h.logger.Error("failed to list customers", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list customers"})
		return
	}

	response := make([]customerResponse, 0, len(list))
	for i := range list {
		response = append(response, mapCustomer(&list[i]))
	}

	c.JSON(http.StatusOK, gin.H{"customers": response, "total": total})
}

func (h *CustomerHandler) Get(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid customer id"})
		return
	}

	actor := identity(c)
	customers := postgres.NewCustomerRepository(h.db.DB())
	customer, err := customers.GetByID(c.Request.Context(), actor.CompanyID, customerID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "customer not found"})
			return
		}
		h.logger.Error("failed to get customer", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get customer"})
		return
	}

	c.JSON(http.StatusOK, mapCustomer(customer))
}

func (h *CustomerHandler) Update(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid customer id"})
		return
	}

	var req customerUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Gender != nil {
		updates["gender"] = *req.Gender
	}
	if req.PhoneNumber != nil {
		updates["phone_number"] = *req.PhoneNumber
	}
	if req.AgeGroup != nil {
		updates["age_group"] = *req.AgeGroup
	}
	if req.Region != nil {
		updates["region"] = *req.Region
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Memo != nil {
		updates["memo"] = *req.Memo
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to update"})
		return
	}

	actor := identity(c)
	customers := postgres.NewCustomerRepository(h.db.DB())
	if err := customers.Update(c.Request.Context(), actor.CompanyID, customerID, updates); err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "customer not found"})
			return
		}
		h.logger.Error("failed to update customer", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update customer"})
		return
	}

	h.Get(c)
}

// Delete soft-deletes; contracts referencing the customer keep their rows.
func (h *CustomerHandler) Delete(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid customer id"})
		return
	}

	actor := identity(c)
	customers := postgres.NewCustomerRepository(h.db.DB())
	if err := customers.Delete(c.Request.Context(), actor.CompanyID, customerID); err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "customer not found"})
			return
		}
		h.logger.Error("failed to delete customer", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete customer"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func mapCustomer(customer *model.Customer) customerResponse {
	return customerResponse{
		ID:          customer.ID.String(),
		Name:        customer.Name,
		Gender:      customer.Gender,
		PhoneNumber: customer.PhoneNumber,
		AgeGroup:    customer.AgeGroup,
		Region:      customer.Region,
		Email:       customer.Email,
		Memo:        customer.Memo,
		CreatedAt:   customer.CreatedAt.UTC().Format(timeRFC3339),
	}
}
