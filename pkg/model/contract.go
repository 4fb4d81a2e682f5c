package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type ContractStatus string

const (
	ContractCarInspection    ContractStatus = "CAR_INSPECTION"
	ContractPriceNegotiation ContractStatus = "PRICE_NEGOTIATION"
	ContractDraft            ContractStatus = "CONTRACT_DRAFT"
	ContractSuccessful       ContractStatus = "CONTRACT_SUCCESSFUL"
	ContractFailed           ContractStatus = "CONTRACT_FAILED"
)

// OpenContractStatuses are the states that keep a car in negotiation.
var OpenContractStatuses = []ContractStatus{
	ContractCarInspection,
	ContractPriceNegotiation,
	ContractDraft,
}

func ParseContractStatus(value string) (ContractStatus, bool) {
	switch parsed := ContractStatus(value); parsed {
	case ContractCarInspection, ContractPriceNegotiation, ContractDraft,
		ContractSuccessful, ContractFailed:
		return parsed, true
	default:
		return "", false
	}
}

func (s ContractStatus) IsOpen() bool {
	switch s {
	case ContractCarInspection, ContractPriceNegotiation, ContractDraft:
		return true
	default:
		return false
	}
}

func (s ContractStatus) IsSuccessful() bool {
	return s == ContractSuccessful
}

type Contract struct {
	ID           uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CompanyID    uuid.UUID      `gorm:"type:uuid;not null;index"`
	Company      *Company       `gorm:"foreignKey:CompanyID"`
	CarID        uuid.UUID      `gorm:"type:uuid;not null;index"`
	Car          *Car           `gorm:"foreignKey:CarID"`
	CustomerID   uuid.UUID      `gorm:"type:uuid;not null;index"`
	Customer     *Customer      `gorm:"foreignKey:CustomerID"`
	UserID       uuid.UUID      `gorm:"type:uuid;not null;index"`
	User         *User          `gorm:"foreignKey:UserID"`
	Status       ContractStatus `gorm:"type:varchar(30);default:'CAR_INSPECTION';index"`
	Price        int64          `gorm:"default:0"`
	ContractDate *time.Time
	ResolvedAt   *time.Time
	Meetings     []Meeting          `gorm:"foreignKey:ContractID"`
	Documents    []ContractDocument `gorm:"foreignKey:ContractID"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

// Meeting alarms are stored as RFC3339 timestamps in a text array.
type Meeting struct {
	ID         uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ContractID uuid.UUID      `gorm:"type:uuid;not null;index"`
	Date       time.Time      `gorm:"not null"`
	Alarms     pq.StringArray `gorm:"type:text[]"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
