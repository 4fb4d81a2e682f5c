package csvimport

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/motordesk/motordesk/pkg/model"
)

// Expected customer CSV header:
// name,gender,phoneNumber,ageGroup,region,email,memo
const customerColumnCount = 7

type customerWriter interface {
	ExistingContacts(ctx context.Context, companyID uuid.UUID, emails, phones []string) (map[string]bool, map[string]bool, error)
	CreateBatch(ctx context.Context, customers []*model.Customer, batchSize int) error
}

type CustomerImporter struct {
	customers customerWriter
	logger    *zap.Logger
}

func NewCustomerImporter(customers customerWriter, logger *zap.Logger) *CustomerImporter {
	return &CustomerImporter{customers: customers, logger: logger}
}

type pendingCustomer struct {
	row      int
	customer *model.Customer
}

// Ingest collects and validates every row, then performs a single bulk
// insert at end of stream. Rows missing required fields are reported with
// their row number, never dropped silently. The caller is expected to hand
// in a transaction-scoped repository so the insert is atomic.
func (i *CustomerImporter) Ingest(ctx context.Context, companyID uuid.UUID, r io.Reader) (*Result, error) {
	reader := newReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if len(header) < customerColumnCount {
		return nil, fmt.Errorf("header has %d columns, expected %d", len(header), customerColumnCount)
	}

	result := &Result{}
	seenEmails := make(map[string]int)
	seenPhones := make(map[string]int)
	var pending []pendingCustomer

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

		customer, reasons := parseCustomerRow(record)
		if customer != nil {
			if firstRow, dup := seenEmails[customer.Email]; dup {
				reasons = append(reasons, fmt.Sprintf("duplicate email of row %d in file", firstRow))
			}
			if firstRow, dup := seenPhones[customer.PhoneNumber]; dup {
				reasons = append(reasons, fmt.Sprintf("duplicate phone of row %d in file", firstRow))
			}
			if len(reasons) == 0 {
				seenEmails[customer.Email] = row
				seenPhones[customer.PhoneNumber] = row
			}
		}
		if len(reasons) > 0 {
			result.addRowError(row, reasons)
			continue
		}

		customer.CompanyID = companyID
		pending = append(pending, pendingCustomer{row: row, customer: customer})
	}

	if len(pending) > 0 {
		emails := make([]string, 0, len(pending))
		phones := make([]string, 0, len(pending))
		for _, p := range pending {
			emails = append(emails, p.customer.Email)
			phones = append(phones, p.customer.PhoneNumber)
		}

		existingEmails, existingPhones, err := i.customers.ExistingContacts(ctx, companyID, emails, phones)
		if err != nil {
			return nil, err
		}

		insert := make([]*model.Customer, 0, len(pending))
		for _, p := range pending {
			var reasons []string
			if existingEmails[p.customer.Email] {
				reasons = append(reasons, fmt.Sprintf("email %q already exists", p.customer.Email))
			}
			if existingPhones[p.customer.PhoneNumber] {
				reasons = append(reasons, fmt.Sprintf("phone %q already exists", p.customer.PhoneNumber))
			}
			if len(reasons) > 0 {
				result.addRowError(p.row, reasons)
				continue
			}
			insert = append(insert, p.customer)
		}

		if err := i.customers.CreateBatch(ctx, insert, len(insert)); err != nil {
			return nil, err
		}
		result.Succeeded = len(insert)
	}

	i.logger.Info("customer import finished",
		zap.String("company_id", companyID.String()),
		zap.Int("total", result.TotalRows),
		zap.Int("succeeded", result.Succeeded),
		zap.Int("failed", result.Failed))

	return result, nil
}

func parseCustomerRow(record []string) (*model.Customer, []string) {
	if len(record) != customerColumnCount {
		return nil, []string{fmt.Sprintf("expected %d columns, got %d", customerColumnCount, len(record))}
	}

	name := strings.TrimSpace(record[0])
	gender := strings.TrimSpace(record[1])
	phone := strings.TrimSpace(record[2])
	email := strings.TrimSpace(record[5])

	var reasons []string
	if name == "" {
		reasons = append(reasons, "name is required")
	}
	if gender == "" {
		reasons = append(reasons, "gender is required")
	}
	if phone == "" {
		reasons = append(reasons, "phoneNumber is required")
	}
	if email == "" {
		reasons = append(reasons, "email is required")
	}
	if len(reasons) > 0 {
		return nil, reasons
	}

	return &model.Customer{
		Name:        name,
		Gender:      gender,
		PhoneNumber: phone,
		AgeGroup:    strings.TrimSpace(record[3]),
		Region:      strings.TrimSpace(record[4]),
		Email:       email,
		Memo:        strings.TrimSpace(record[6]),
	}, nil
}
