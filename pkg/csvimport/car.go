package csvimport

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/motordesk/motordesk/pkg/model"
)

// Expected car CSV header:
// carNumber,manufacturer,model,type,manufacturingYear,mileage,price,accidentCount,explanation,accidentDetails
const carColumnCount = 10

type carWriter interface {
	ExistingCarNumbers(ctx context.Context, companyID uuid.UUID, numbers []string) (map[string]bool, error)
	CreateBatchSkipConflicts(ctx context.Context, cars []*model.Car) (int64, error)
}

type CarImporter struct {
	cars      carWriter
	batchSize int
	logger    *zap.Logger
}

func NewCarImporter(cars carWriter, batchSize int, logger *zap.Logger) *CarImporter {
	if batchSize <= 0 {
		batchSize = 1000
	}
	return &CarImporter{cars: cars, batchSize: batchSize, logger: logger}
}

type pendingCar struct {
	row int
	car *model.Car
}

// Ingest streams the file row by row, validates each row, and flushes
// accumulated valid rows in batches. Rows that fail validation or
// duplicate an existing car number are reported and skipped; the run
// always completes with a summary unless the stream itself is broken.
func (i *CarImporter) Ingest(ctx context.Context, companyID uuid.UUID, r io.Reader) (*Result, error) {
	reader := newReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if len(header) < carColumnCount {
		return nil, fmt.Errorf("header has %d columns, expected %d", len(header), carColumnCount)
	}

	result := &Result{}
	seen := make(map[string]int) // car number -> first row that used it
	var batch []pendingCar

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}

		numbers := make([]string, 0, len(batch))
		for _, pending := range batch {
			numbers = append(numbers, pending.car.CarNumber)
		}
		existing, err := i.cars.ExistingCarNumbers(ctx, companyID, numbers)
		if err != nil {
			return err
		}

		insert := make([]*model.Car, 0, len(batch))
		for _, pending := range batch {
			if existing[pending.car.CarNumber] {
				result.addRowError(pending.row, []string{
					fmt.Sprintf("car number %q already exists", pending.car.CarNumber),
				})
				continue
			}
			insert = append(insert, pending.car)
		}

		inserted, err := i.cars.CreateBatchSkipConflicts(ctx, insert)
		if err != nil {
			return err
		}
		result.Succeeded += int(inserted)
		// Rows skipped by the database-level conflict guard lost a race
		// the pre-check could not see.
		result.Failed += len(insert) - int(inserted)

		batch = batch[:0]
		return nil
	}

	row := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse row %d: %w", row+1, err)
		}

		row++
		result.TotalRows++

		car, reasons := parseCarRow(record)
		if car != nil {
			if firstRow, dup := seen[car.CarNumber]; dup {
				reasons = append(reasons, fmt.Sprintf("duplicate of row %d in file", firstRow))
			}
		}
		if len(reasons) > 0 {
			result.addRowError(row, reasons)
			continue
		}

		// Only rows actually queued for insert take part in in-file
		// dedup; a rejected row must not block a later valid one.
		seen[car.CarNumber] = row
		car.CompanyID = companyID
		batch = append(batch, pendingCar{row: row, car: car})

		if len(batch) >= i.batchSize {
			if err := flush(); err != nil {
				return nil, err
			}
		}
	}

	if err := flush(); err != nil {
		return nil, err
	}

	i.logger.Info("car import finished",
		zap.String("company_id", companyID.String()),
		zap.Int("total", result.TotalRows),
		zap.Int("succeeded", result.Succeeded),
		zap.Int("failed", result.Failed))

	return result, nil
}

// parseCarRow shape-validates one record. It returns the car when the row
// is well formed and the list of violated constraints otherwise; a row
// with a usable car number may return both so duplicate tracking still
// works.
func parseCarRow(record []string) (*model.Car, []string) {
	var reasons []string

	if len(record) != carColumnCount {
		return nil, []string{fmt.Sprintf("expected %d columns, got %d", carColumnCount, len(record))}
	}

	carNumber := strings.TrimSpace(record[0])
	manufacturer := strings.TrimSpace(record[1])
	carModel := strings.TrimSpace(record[2])
	typeLabel := strings.TrimSpace(record[3])

	if carNumber == "" {
		reasons = append(reasons, "carNumber is required")
	}
	if manufacturer == "" {
		reasons = append(reasons, "manufacturer is required")
	}
	if carModel == "" {
		reasons = append(reasons, "model is required")
	}

	carType, ok := model.ParseCarType(typeLabel)
	if !ok {
		reasons = append(reasons, fmt.Sprintf("unknown car type %q", typeLabel))
	}

	year := parseIntField(record[4], "manufacturingYear", &reasons)

	mileage := 0
	if strings.TrimSpace(record[5]) != "" {
		mileage = parseIntField(record[5], "mileage", &reasons)
	}

	price, err := strconv.ParseInt(strings.TrimSpace(record[6]), 10, 64)
	if err != nil {
		reasons = append(reasons, "price must be a number")
	}

	// accidentCount defaults to zero when the column is blank.
	accidentCount := 0
	if strings.TrimSpace(record[7]) != "" {
		accidentCount = parseIntField(record[7], "accidentCount", &reasons)
	}

	if len(reasons) > 0 {
		if carNumber == "" {
			return nil, reasons
		}
		return &model.Car{CarNumber: carNumber}, reasons
	}

	return &model.Car{
		CarNumber:         carNumber,
		Manufacturer:      manufacturer,
		Model:             carModel,
		Type:              carType,
		ManufacturingYear: year,
		Mileage:           mileage,
		Price:             price,
		AccidentCount:     accidentCount,
		Explanation:       strings.TrimSpace(record[8]),
		AccidentDetails:   strings.TrimSpace(record[9]),
		Status:            model.CarAvailable,
	}, nil
}

func parseIntField(value, name string, reasons *[]string) int {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		*reasons = append(*reasons, name+" must be a number")
		return 0
	}
	return parsed
}
