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

// DocumentHandler manages contract-document metadata. The bytes live in
// external storage; only path and attributes are recorded here.
type DocumentHandler struct {
	db     *postgres.Store
	logger *zap.Logger
}

func NewDocumentHandler(db *postgres.Store, logger *zap.Logger) *DocumentHandler {
	return &DocumentHandler{db: db, logger: logger}
}

type documentCreateRequest struct {
	FileName    string `json:"fileName" binding:"required"`
	FilePath    string `json:"filePath" binding:"required"`
	FileSize    int64  `json:"fileSize"`
	ContentType string `json:"contentType"`
}

type documentRenameRequest struct {
	FileName string `json:"fileName" binding:"required"`
}

func (h *DocumentHandler) Create(c *gin.Context) {
	var req documentCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	actor := identity(c)
	document := &model.ContractDocument{
		CompanyID:   actor.CompanyID,
		UploadedBy:  actor.UserID,
		FileName:    req.FileName,
		FilePath:    req.FilePath,
		FileSize:    req.FileSize,
		ContentType: req.ContentType,
	}

	documents := postgres.NewDocumentRepository(h.db.DB())
	if err := documents.Create(c.Request.Context(), document); err != nil {
		h.logger.Error("failed to create document", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create document"})
		return
	}

	c.JSON(http.StatusCreated, mapDocument(document))
}

func (h *DocumentHandler) Get(c *gin.Context) {
	documentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid document id"})
		return
	}

	actor := identity(c)
	documents := postgres.NewDocumentRepository(h.db.DB())
	document, err := documents.GetByID(c.Request.Context(), actor.CompanyID, documentID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "document not found"})
			return
		}
		h.logger.Error("failed to get document", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get document"})
		return
	}

	c.JSON(http.StatusOK, mapDocument(document))
}

func (h *DocumentHandler) ListByContract(c *gin.Context) {
	contractID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contract id"})
		return
	}

	actor := identity(c)
	documents := postgres.NewDocumentRepository(h.db.DB())
	list, err := documents.ListByContract(c.Request.Context(), actor.CompanyID, contractID)
	if err != nil {
		h.logger.Error("failed to list documents", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list documents"})
		return
	}

	response := make([]documentResponse, 0, len(list))
	for i := range list {
		response = append(response, mapDocument(&list[i]))
	}

	c.JSON(http.StatusOK, response)
}

func (h *DocumentHandler) Rename(c *gin.Context) {
	documentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid document id"})
		return
	}

	var req documentRenameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	actor := identity(c)
	documents := postgres.NewDocumentRepository(h.db.DB())
	if err := documents.Rename(c.Request.Context(), actor.CompanyID, documentID, req.FileName); err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "document not found"})
			return
		}
		h.logger.Error("failed to rename document", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to rename document"})
		return
	}

	h.Get(c)
}

func (h *DocumentHandler) Delete(c *gin.Context) {
	documentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid document id"})
		return
	}

	actor := identity(c)
	documents := postgres.NewDocumentRepository(h.db.DB())
	if err := documents.Delete(c.Request.Context(), actor.CompanyID, documentID); err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "document not found"})
			return
		}
		h.logger.Error("failed to delete document", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete document"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func mapDocument(document *model.ContractDocument) documentResponse {
	return documentResponse{
		ID:          document.ID.String(),
		FileName:    document.FileName,
		FilePath:    document.FilePath,
		FileSize:    document.FileSize,
		ContentType: document.ContentType,
		CreatedAt:   document.CreatedAt.UTC().Format(timeRFC3339),
	}
}
