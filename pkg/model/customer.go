package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Customer struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CompanyID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Company     *Company  `gorm:"foreignKey:CompanyID"`
	Name        string    `gorm:"not null"`
	Gender      string
	PhoneNumber string `gorm:"not null;index"`
	AgeGroup    string
	Region      string
	Email       string `gorm:"index"`
	Memo        string
	Contracts   []Contract `gorm:"foreignKey:CustomerID"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}
