package model

import (
	"time"

	"github.com/google/uuid"
)

type CarType string

const (
	CarTypeCompact  CarType = "COMPACT"
	CarTypeMidsize  CarType = "MIDSIZE"
	CarTypeFullsize CarType = "FULLSIZE"
	CarTypeSports   CarType = "SPORTS"
	CarTypeSUV      CarType = "SUV"
)

// CarTypes lists every category in a stable order. Aggregates emit all of
// them, zero-valued entries included.
var CarTypes = []CarType{CarTypeCompact, CarTypeMidsize, CarTypeFullsize, CarTypeSports, CarTypeSUV}

// carTypeLabels is the single bidirectional mapping between the localized
// labels used in CSV files and client responses and the internal enum.
// Both the CSV importer and the response mappers go through it.
var carTypeLabels = map[CarType]string{
	CarTypeCompact:  "경차",
	CarTypeMidsize:  "중형차",
	CarTypeFullsize: "대형차",
	CarTypeSports:   "스포츠카",
	CarTypeSUV:      "SUV",
}

var carTypeByLabel = func() map[string]CarType {
	m := make(map[string]CarType, len(carTypeLabels))
	for carType, label := range carTypeLabels {
		m[label] = carType
	}
	return m
}()

// ParseCarType accepts either the internal enum value or the localized label.
func ParseCarType(value string) (CarType, bool) {
	if carType, ok := carTypeByLabel[value]; ok {
		return carType, true
	}
	parsed := CarType(value)
	if _, ok := carTypeLabels[parsed]; ok {
		return parsed, true
	}
	return "", false
}

func (t CarType) Label() string {
	return carTypeLabels[t]
}

type CarStatus string

const (
	CarAvailable     CarStatus = "AVAILABLE"
	CarInNegotiation CarStatus = "IN_NEGOTIATION"
	CarSold          CarStatus = "SOLD"
)

// Car status is derived from the car's contracts and written back by the
// aggregate refresher; clients never set it on contract-triggered paths.
type Car struct {
	ID                uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CompanyID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_company_car_number"`
	Company           *Company  `gorm:"foreignKey:CompanyID"`
	CarNumber         string    `gorm:"not null;uniqueIndex:idx_company_car_number"`
	Manufacturer      string    `gorm:"not null"`
	Model             string    `gorm:"not null"`
	Type              CarType   `gorm:"type:varchar(20);not null;index"`
	ManufacturingYear int       `gorm:"not null"`
	Mileage           int       `gorm:"default:0"`
	Price             int64     `gorm:"not null"`
	AccidentCount     int       `gorm:"default:0"`
	Explanation       string
	AccidentDetails   string
	Status            CarStatus `gorm:"type:varchar(20);default:'AVAILABLE';index"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
