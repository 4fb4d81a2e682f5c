package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/motordesk/motordesk/pkg/model"
	"github.com/motordesk/motordesk/pkg/store/postgres"
)

type CompanyHandler struct {
	db     *postgres.Store
	logger *zap.Logger
}

func NewCompanyHandler(db *postgres.Store, logger *zap.Logger) *CompanyHandler {
	return &CompanyHandler{db: db, logger: logger}
}

type companyResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Code      string `json:"code"`
	UserCount int64  `json:"userCount"`
	CreatedAt string `json:"createdAt"`
}

type companyUpdateRequest struct {
	Name string `json:"name" binding:"required"`
}

// Get returns the caller's own company; there is no cross-tenant lookup.
func (h *CompanyHandler) Get(c *gin.Context) {
	actor := identity(c)

	companies := postgres.NewCompanyRepository(h.db.DB())
	company, err := companies.GetByID(c.Request.Context(), actor.CompanyID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "company not found"})
			return
		}
		h.logger.Error("failed to get company", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get company"})
		return
	}

	userCount, err := companies.CountUsers(c.Request.Context(), actor.CompanyID)
	if err != nil {
		h.logger.Error("failed to count users", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get company"})
		return
	}

	c.JSON(http.StatusOK, mapCompany(company, userCount))
}

func (h *CompanyHandler) Update(c *gin.Context) {
	var req companyUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	actor := identity(c)
	companies := postgres.NewCompanyRepository(h.db.DB())
	err := companies.Update(c.Request.Context(), actor.CompanyID, map[string]interface{}{
		"name": req.Name,
	})
	if err != nil {
		h.logger.Error("failed to update company", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update company"})
		return
	}

	h.Get(c)
}

func mapCompany(company *model.Company, userCount int64) companyResponse {
	return companyResponse{
		ID:        company.ID.String(),
		Name:      company.Name,
		Code:      company.Code,
		UserCount: userCount,
		CreatedAt: company.CreatedAt.UTC().Format(timeRFC3339),
	}
}
