package model

import (
	"time"

	"github.com/google/uuid"
)

// ContractDocument holds metadata only; the bytes live in external storage
// and FilePath points at them. A document starts unattached and is
// associated to a contract on contract create/update.
type ContractDocument struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CompanyID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	ContractID  *uuid.UUID `gorm:"type:uuid;index"`
	UploadedBy  uuid.UUID  `gorm:"type:uuid;not null"`
	FileName    string     `gorm:"not null"`
	FilePath    string     `gorm:"not null"`
	FileSize    int64      `gorm:"default:0"`
	ContentType string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
