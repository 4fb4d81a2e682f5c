package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/motordesk/motordesk/pkg/csvimport"
	"github.com/motordesk/motordesk/pkg/model"
	"github.com/motordesk/motordesk/pkg/service"
)

type UploadHandler struct {
	uploads        *service.UploadService
	maxUploadBytes int64
	logger         *zap.Logger
}

func NewUploadHandler(uploads *service.UploadService, maxUploadBytes int64, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{uploads: uploads, maxUploadBytes: maxUploadBytes, logger: logger}
}

type uploadResponse struct {
	ID        string               `json:"id"`
	FileName  string               `json:"fileName"`
	Type      string               `json:"type"`
	Status    string               `json:"status"`
	TotalRows int                  `json:"totalRows"`
	Succeeded int                  `json:"succeeded"`
	Failed    int                  `json:"failed"`
	RowErrors []csvimport.RowError `json:"rowErrors,omitempty"`
	CreatedAt string               `json:"createdAt"`
}

// ImportCars accepts a multipart CSV and answers 200 with the summary even
// when some rows failed; only an unreadable file is an error response.
func (h *UploadHandler) ImportCars(c *gin.Context) {
	h.runImport(c, model.UploadTypeCar)
}

func (h *UploadHandler) ImportCustomers(c *gin.Context) {
	h.runImport(c, model.UploadTypeCustomer)
}

func (h *UploadHandler) runImport(c *gin.Context, uploadType model.UploadType) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	if h.maxUploadBytes > 0 && fileHeader.Size > h.maxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file too large"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to open file"})
		return
	}
	defer file.Close()

	actor := identity(c)
	var upload *model.Upload
	var result *csvimport.Result
	if uploadType == model.UploadTypeCar {
		upload, result, err = h.uploads.ImportCars(c.Request.Context(), actor, fileHeader.Filename, file)
	} else {
		upload, result, err = h.uploads.ImportCustomers(c.Request.Context(), actor, fileHeader.Filename, file)
	}
	if err != nil {
		respondServiceError(c, h.logger, err, "import failed")
		return
	}

	c.JSON(http.StatusOK, uploadResponse{
		ID:        upload.ID.String(),
		FileName:  upload.FileName,
		Type:      string(upload.Type),
		Status:    string(upload.Status),
		TotalRows: result.TotalRows,
		Succeeded: result.Succeeded,
		Failed:    result.Failed,
		RowErrors: result.RowErrors,
		CreatedAt: upload.CreatedAt.UTC().Format(timeRFC3339),
	})
}

func (h *UploadHandler) List(c *gin.Context) {
	actor := identity(c)
	limit := parseLimit(c.Query("limit"), 20)
	offset := parseOffset(c.Query("offset"))

	uploads, total, err := h.uploads.History(c.Request.Context(), actor, limit, offset)
	if err != nil {
		h.logger.Error("failed to list uploads", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list uploads"})
		return
	}

	response := make([]gin.H, 0, len(uploads))
	for _, upload := range uploads {
		response = append(response, gin.H{
			"id":        upload.ID.String(),
			"fileName":  upload.FileName,
			"type":      upload.Type,
			"status":    upload.Status,
			"totalRows": upload.TotalRows,
			"succeeded": upload.SuccessRows,
			"failed":    upload.FailedRows,
			"rowErrors": []string(upload.RowErrors),
			"createdAt": upload.CreatedAt.UTC().Format(timeRFC3339),
		})
	}

	c.JSON(http.StatusOK, gin.H{"uploads": response, "total": total})
}
