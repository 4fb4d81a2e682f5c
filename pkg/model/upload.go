package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type UploadType string

const (
	UploadTypeCar      UploadType = "CAR"
	UploadTypeCustomer UploadType = "CUSTOMER"
)

type UploadStatus string

const (
	UploadProcessing UploadStatus = "PROCESSING"
	UploadCompleted  UploadStatus = "COMPLETED"
	UploadFailed     UploadStatus = "FAILED"
)

// Upload records one CSV bulk-import run. RowErrors keeps the per-row
// failure reasons ("row 14: unknown car type") for the history endpoint.
type Upload struct {
	ID            uuid.UUID    `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CompanyID     uuid.UUID    `gorm:"type:uuid;not null;index"`
	UserID        uuid.UUID    `gorm:"type:uuid;not null"`
	FileName      string       `gorm:"not null"`
	Type          UploadType   `gorm:"type:varchar(20);not null"`
	Status        UploadStatus `gorm:"type:varchar(20);default:'PROCESSING'"`
	TotalRows     int          `gorm:"default:0"`
	ProcessedRows int          `gorm:"default:0"`
	SuccessRows   int          `gorm:"default:0"`
	FailedRows    int          `gorm:"default:0"`
	ErrorMessage  string
	RowErrors     pq.StringArray `gorm:"type:text[]"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
