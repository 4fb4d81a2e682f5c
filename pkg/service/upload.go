package service

import (
	"context"
	"fmt"
	"io"

	"github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/motordesk/motordesk/pkg/auth"
	"github.com/motordesk/motordesk/pkg/csvimport"
	"github.com/motordesk/motordesk/pkg/metrics"
	"github.com/motordesk/motordesk/pkg/model"
	"github.com/motordesk/motordesk/pkg/store/postgres"
)

type UploadService struct {
	store        *postgres.Store
	carBatchSize int
	logger       *zap.Logger
}

func NewUploadService(store *postgres.Store, carBatchSize int, logger *zap.Logger) *UploadService {
	return &UploadService{store: store, carBatchSize: carBatchSize, logger: logger}
}

// ImportCars runs the car CSV pipeline and tracks the run on an upload
// record. Row-level failures end in a COMPLETED record with counts; only a
// broken stream marks the record FAILED and surfaces an error.
func (s *UploadService) ImportCars(ctx context.Context, actor auth.Identity, fileName string, file io.Reader) (*model.Upload, *csvimport.Result, error) {
	upload, err := s.createRecord(ctx, actor, fileName, model.UploadTypeCar)
	if err != nil {
		return nil, nil, err
	}

	importer := csvimport.NewCarImporter(
		postgres.NewCarRepository(s.store.DB()), s.carBatchSize, s.logger)
	result, err := importer.Ingest(ctx, actor.CompanyID, file)
	if err != nil {
		s.markFailed(ctx, upload, err)
		return nil, nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}

	return s.complete(ctx, upload, model.UploadTypeCar, result)
}

// ImportCustomers pre-validates the whole stream and inserts the surviving
// rows in one transaction.
func (s *UploadService) ImportCustomers(ctx context.Context, actor auth.Identity, fileName string, file io.Reader) (*model.Upload, *csvimport.Result, error) {
	upload, err := s.createRecord(ctx, actor, fileName, model.UploadTypeCustomer)
	if err != nil {
		return nil, nil, err
	}

	var result *csvimport.Result
	err = s.store.WithTx(ctx, func(tx *gorm.DB) error {
		importer := csvimport.NewCustomerImporter(postgres.NewCustomerRepository(tx), s.logger)
		ingested, err := importer.Ingest(ctx, actor.CompanyID, file)
		if err != nil {
			return err
		}
		result = ingested
		return nil
	})
	if err != nil {
		s.markFailed(ctx, upload, err)
		return nil, nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}

	return s.complete(ctx, upload, model.UploadTypeCustomer, result)
}

func (s *UploadService) History(ctx context.Context, actor auth.Identity, limit, offset int) ([]model.Upload, int64, error) {
	uploads := postgres.NewUploadRepository(s.store.DB())
	return uploads.List(ctx, actor.CompanyID, limit, offset)
}

func (s *UploadService) createRecord(ctx context.Context, actor auth.Identity, fileName string, uploadType model.UploadType) (*model.Upload, error) {
	upload := &model.Upload{
		CompanyID: actor.CompanyID,
		UserID:    actor.UserID,
		FileName:  fileName,
		Type:      uploadType,
		Status:    model.UploadProcessing,
	}
	uploads := postgres.NewUploadRepository(s.store.DB())
	if err := uploads.Create(ctx, upload); err != nil {
		return nil, err
	}
	return upload, nil
}

func (s *UploadService) complete(ctx context.Context, upload *model.Upload, uploadType model.UploadType, result *csvimport.Result) (*model.Upload, *csvimport.Result, error) {
	metrics.ImportRowsTotal.WithLabelValues(string(uploadType), "succeeded").Add(float64(result.Succeeded))
	metrics.ImportRowsTotal.WithLabelValues(string(uploadType), "failed").Add(float64(result.Failed))

	uploads := postgres.NewUploadRepository(s.store.DB())
	updates := map[string]interface{}{
		"status":         model.UploadCompleted,
		"total_rows":     result.TotalRows,
		"processed_rows": result.TotalRows,
		"success_rows":   result.Succeeded,
		"failed_rows":    result.Failed,
		"row_errors":     pq.StringArray(result.ErrorStrings()),
	}
	if err := uploads.Update(ctx, upload.ID, updates); err != nil {
		return nil, nil, err
	}

	upload.Status = model.UploadCompleted
	upload.TotalRows = result.TotalRows
	upload.ProcessedRows = result.TotalRows
	upload.SuccessRows = result.Succeeded
	upload.FailedRows = result.Failed
	upload.RowErrors = result.ErrorStrings()
	return upload, result, nil
}

func (s *UploadService) markFailed(ctx context.Context, upload *model.Upload, cause error) {
	uploads := postgres.NewUploadRepository(s.store.DB())
	err := uploads.Update(ctx, upload.ID, map[string]interface{}{
		"status":        model.UploadFailed,
		"error_message": cause.Error(),
	})
	if err != nil {
		s.logger.Error("failed to mark upload failed",
			zap.String("upload_id", upload.ID.String()), zap.Error(err))
	}
}
