package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/motordesk/motordesk/pkg/metrics"
	"github.com/motordesk/motordesk/pkg/model"
	"github.com/motordesk/motordesk/pkg/service"
	"github.com/motordesk/motordesk/pkg/store/postgres"
)

type ContractHandler struct {
	contracts *service.ContractService
	logger    *zap.Logger
}

func NewContractHandler(contracts *service.ContractService, logger *zap.Logger) *ContractHandler {
	return &ContractHandler{contracts: contracts, logger: logger}
}

type meetingRequest struct {
	Date   string   `json:"date" binding:"required"`
	Alarms []string `json:"alarms"`
}

type documentRefRequest struct {
	ID      string `json:"id" binding:"required"`
	NewName string `json:"newName"`
}

type contractCreateRequest struct {
	CarID        string               `json:"carId" binding:"required"`
	CustomerID   string               `json:"customerId" binding:"required"`
	UserID       string               `json:"userId"`
	Status       string               `json:"status"`
	Price        int64                `json:"price"`
	ContractDate string               `json:"contractDate"`
	Meetings     []meetingRequest     `json:"meetings"`
	Documents    []documentRefRequest `json:"documents"`
}

type contractUpdateRequest struct {
	Status       *string              `json:"status"`
	Price        *int64               `json:"price"`
	ContractDate *string              `json:"contractDate"`
	ResolvedAt   *string              `json:"resolvedAt"`
	CarID        *string              `json:"carId"`
	CustomerID   *string              `json:"customerId"`
	Meetings     *[]meetingRequest    `json:"meetings"`
	Documents    []documentRefRequest `json:"documents"`
}

type meetingResponse struct {
	ID     string   `json:"id"`
	Date   string   `json:"date"`
	Alarms []string `json:"alarms"`
}

type documentResponse struct {
	ID          string `json:"id"`
	FileName    string `json:"fileName"`
	FilePath    string `json:"filePath"`
	FileSize    int64  `json:"fileSize"`
	ContentType string `json:"contentType,omitempty"`
	CreatedAt   string `json:"createdAt"`
}

type contractResponse struct {
	ID           string             `json:"id"`
	Status       string             `json:"status"`
	Price        int64              `json:"price"`
	ContractDate *string            `json:"contractDate,omitempty"`
	ResolvedAt   *string            `json:"resolvedAt,omitempty"`
	UserID       string             `json:"userId"`
	Car          *carResponse       `json:"car,omitempty"`
	Customer     *customerResponse  `json:"customer,omitempty"`
	Meetings     []meetingResponse  `json:"meetings"`
	Documents    []documentResponse `json:"documents"`
	CreatedAt    string             `json:"createdAt"`
}

func (h *ContractHandler) Create(c *gin.Context) {
	var req contractCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	carID, err := uuid.Parse(req.CarID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid carId"})
		return
	}
	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid customerId"})
		return
	}

	input := service.CreateContractInput{
		CarID:      carID,
		CustomerID: customerID,
		Status:     model.ContractCarInspection,
		Price:      req.Price,
	}

	if req.UserID != "" {
		userID, err := uuid.Parse(req.UserID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid userId"})
			return
		}
		input.UserID = &userID
	}
	if req.Status != "" {
		status, ok := model.ParseContractStatus(req.Status)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}
		input.Status = status
	}
	if req.ContractDate != "" {
		date, err := time.Parse(timeRFC3339, req.ContractDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contractDate"})
			return
		}
		input.ContractDate = &date
	}

	meetings, ok := parseMeetings(c, req.Meetings)
	if !ok {
		return
	}
	input.Meetings = meetings

	documents, ok := parseDocumentRefs(c, req.Documents)
	if !ok {
		return
	}
	input.Documents = documents

	contract, err := h.contracts.Create(c.Request.Context(), identity(c), input)
	if err != nil {
		respondServiceError(c, h.logger, err, "failed to create contract")
		return
	}

	metrics.ContractMutationsTotal.WithLabelValues("create").Inc()
	c.JSON(http.StatusCreated, mapContract(contract))
}

func (h *ContractHandler) Get(c *gin.Context) {
	contractID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contract id"})
		return
	}

	contract, err := h.contracts.Get(c.Request.Context(), identity(c), contractID)
	if err != nil {
		respondServiceError(c, h.logger, err, "failed to get contract")
		return
	}

	c.JSON(http.StatusOK, mapContract(contract))
}

func (h *ContractHandler) List(c *gin.Context) {
	filter := postgres.ContractFilter{
		Limit:  parseLimit(c.Query("limit"), 20),
		Offset: parseOffset(c.Query("offset")),
	}

	if statusValue := c.Query("status"); statusValue != "" {
		status, ok := model.ParseContractStatus(statusValue)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}
		filter.Status = &status
	}
	if customerValue := c.Query("customer_id"); customerValue != "" {
		customerID, err := uuid.Parse(customerValue)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid customer_id"})
			return
		}
		filter.CustomerID = &customerID
	}
	if carValue := c.Query("car_id"); carValue != "" {
		carID, err := uuid.Parse(carValue)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid car_id"})
			return
		}
		filter.CarID = &carID
	}
	if userValue := c.Query("user_id"); userValue != "" {
		userID, err := uuid.Parse(userValue)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
			return
		}
		filter.UserID = &userID
	}

	contracts, total, err := h.contracts.List(c.Request.Context(), identity(c), filter)
	if err != nil {
		h.logger.Error("failed to list contracts", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list contracts"})
		return
	}

	response := make([]contractResponse, 0, len(contracts))
	for i := range contracts {
		response = append(response, mapContract(&contracts[i]))
	}

	c.JSON(http.StatusOK, gin.H{"contracts": response, "total": total})
}

func (h *ContractHandler) Update(c *gin.Context) {
	contractID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contract id"})
		return
	}

	var req contractUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	input := service.UpdateContractInput{Price: req.Price}

	if req.Status != nil {
		status, ok := model.ParseContractStatus(*req.Status)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}
		input.Status = &status
	}
	if req.ContractDate != nil {
		date, err := time.Parse(timeRFC3339, *req.ContractDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contractDate"})
			return
		}
		input.ContractDate = &date
	}
	if req.ResolvedAt != nil {
		date, err := time.Parse(timeRFC3339, *req.ResolvedAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid resolvedAt"})
			return
		}
		input.ResolvedAt = &date
	}
	if req.CarID != nil {
		carID, err := uuid.Parse(*req.CarID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid carId"})
			return
		}
		input.CarID = &carID
	}
	if req.CustomerID != nil {
		customerID, err := uuid.Parse(*req.CustomerID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid customerId"})
			return
		}
		input.CustomerID = &customerID
	}
	if req.Meetings != nil {
		meetings, ok := parseMeetings(c, *req.Meetings)
		if !ok {
			return
		}
		input.Meetings = &meetings
	}

	documents, ok := parseDocumentRefs(c, req.Documents)
	if !ok {
		return
	}
	input.Documents = documents

	contract, err := h.contracts.Update(c.Request.Context(), identity(c), contractID, input)
	if err != nil {
		respondServiceError(c, h.logger, err, "failed to update contract")
		return
	}

	metrics.ContractMutationsTotal.WithLabelValues("update").Inc()
	c.JSON(http.StatusOK, mapContract(contract))
}

func (h *ContractHandler) Delete(c *gin.Context) {
	contractID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contract id"})
		return
	}

	if err := h.contracts.Delete(c.Request.Context(), identity(c), contractID); err != nil {
		respondServiceError(c, h.logger, err, "failed to delete contract")
		return
	}

	metrics.ContractMutationsTotal.WithLabelValues("delete").Inc()
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func parseMeetings(c *gin.Context, requests []meetingRequest) ([]service.MeetingInput, bool) {
	meetings := make([]service.MeetingInput, 0, len(requests))
	for _, req := range requests {
		date, err := time.Parse(timeRFC3339, req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid meeting date"})
			return nil, false
		}
		alarms := make([]time.Time, 0, len(req.Alarms))
		for _, alarm := range req.Alarms {
			parsed, err := time.Parse(timeRFC3339, alarm)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid meeting alarm"})
				return nil, false
			}
			alarms = append(alarms, parsed)
		}
		meetings = append(meetings, service.MeetingInput{Date: date, Alarms: alarms})
	}
	return meetings, true
}

func parseDocumentRefs(c *gin.Context, requests []documentRefRequest) ([]service.DocumentRef, bool) {
	refs := make([]service.DocumentRef, 0, len(requests))
	for _, req := range requests {
		id, err := uuid.Parse(req.ID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid document id"})
			return nil, false
		}
		refs = append(refs, service.DocumentRef{ID: id, NewName: req.NewName})
	}
	return refs, true
}

func mapContract(contract *model.Contract) contractResponse {
	response := contractResponse{
		ID:           contract.ID.String(),
		Status:       string(contract.Status),
		Price:        contract.Price,
		ContractDate: formatTime(contract.ContractDate),
		ResolvedAt:   formatTime(contract.ResolvedAt),
		UserID:       contract.UserID.String(),
		Meetings:     make([]meetingResponse, 0, len(contract.Meetings)),
		Documents:    make([]documentResponse, 0, len(contract.Documents)),
		CreatedAt:    contract.CreatedAt.UTC().Format(timeRFC3339),
	}

	if contract.Car != nil {
		car := mapCar(contract.Car)
		response.Car = &car
	}
	if contract.Customer != nil {
		customer := mapCustomer(contract.Customer)
		response.Customer = &customer
	}
	for _, meeting := range contract.Meetings {
		response.Meetings = append(response.Meetings, meetingResponse{
			ID:     meeting.ID.String(),
			Date:   meeting.Date.UTC().Format(timeRFC3339),
			Alarms: meeting.Alarms,
		})
	}
	for _, document := range contract.Documents {
		response.Documents = append(response.Documents, mapDocument(&document))
	}

	return response
}
