package csvimport

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/motordesk/motordesk/pkg/model"
)

const customerHeader = "name,gender,phoneNumber,ageGroup,region,email,memo\n"

type fakeCustomerWriter struct {
	existingEmails map[string]bool
	existingPhones map[string]bool
	inserted       []*model.Customer
	batchCalls     int
}

func (f *fakeCustomerWriter) ExistingContacts(ctx context.Context, companyID uuid.UUID, emails, phones []string) (map[string]bool, map[string]bool, error) {
	foundEmails := make(map[string]bool)
	for _, email := range emails {
		if f.existingEmails[email] {
			foundEmails[email] = true
		}
	}
	foundPhones := make(map[string]bool)
	for _, phone := range phones {
		if f.existingPhones[phone] {
			foundPhones[phone] = true
		}
	}
	return foundEmails, foundPhones, nil
}

func (f *fakeCustomerWriter) CreateBatch(ctx context.Context, customers []*model.Customer, batchSize int) error {
	f.batchCalls++
	f.inserted = append(f.inserted, customers...)
	return nil
}

func newFakeCustomerWriter() *fakeCustomerWriter {
	return &fakeCustomerWriter{existingEmails: map[string]bool{}, existingPhones: map[string]bool{}}
}

func TestCustomerImportAllValid(t *testing.T) {
	csv := customerHeader +
		"김철수,M,010-1111-2222,30대,서울,kim@example.com,VIP\n" +
		"이영희,F,010-3333-4444,40대,부산,lee@example.com,\n"

	writer := newFakeCustomerWriter()
	importer := NewCustomerImporter(writer, zap.NewNop())

	result, err := importer.Ingest(context.Background(), uuid.New(), strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, 2, result.TotalRows)
	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, 0, result.Failed)
	require.Len(t, writer.inserted, 2)
	assert.Equal(t, "김철수", writer.inserted[0].Name)
	assert.Equal(t, "kim@example.com", writer.inserted[0].Email)
	// One insert at end of stream, not one per row.
	assert.Equal(t, 1, writer.batchCalls)
}

func TestCustomerImportMissingFieldsReported(t *testing.T) {
	csv := customerHeader +
		",M,010-1111-2222,30대,서울,kim@example.com,\n" +
		"이영희,,010-3333-4444,40대,부산,,\n" +
		"박민수,M,010-5555-6666,20대,대구,park@example.com,\n"

	writer := newFakeCustomerWriter()
	importer := NewCustomerImporter(writer, zap.NewNop())

	result, err := importer.Ingest(context.Background(), uuid.New(), strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, 3, result.TotalRows)
	assert.Equal(t, 1, result.Succeeded)
	assert.Equal(t, 2, result.Failed)
	require.Len(t, result.RowErrors, 2)
	assert.Equal(t, 1, result.RowErrors[0].Row)
	assert.Contains(t, result.RowErrors[0].Reasons, "name is required")
	assert.Equal(t, 2, result.RowErrors[1].Row)
	assert.Contains(t, result.RowErrors[1].Reasons, "gender is required")
	assert.Contains(t, result.RowErrors[1].Reasons, "email is required")
}

func TestCustomerImportDuplicateContactsInFile(t *testing.T) {
	csv := customerHeader +
		"김철수,M,010-1111-2222,30대,서울,kim@example.com,\n" +
		"김영수,M,010-9999-0000,30대,서울,kim@example.com,\n" +
		"최지우,F,010-1111-2222,20대,인천,choi@example.com,\n"

	writer := newFakeCustomerWriter()
	importer := NewCustomerImporter(writer, zap.NewNop())

	result, err := importer.Ingest(context.Background(), uuid.New(), strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, 1, result.Succeeded)
	assert.Equal(t, 2, result.Failed)
	require.Len(t, result.RowErrors, 2)
	assert.Contains(t, result.RowErrors[0].Reasons[0], "duplicate email of row 1")
	assert.Contains(t, result.RowErrors[1].Reasons[0], "duplicate phone of row 1")
}

func TestCustomerImportExistingContactsReported(t *testing.T) {
	csv := customerHeader +
		"김철수,M,010-1111-2222,30대,서울,kim@example.com,\n" +
		"이영희,F,010-3333-4444,40대,부산,lee@example.com,\n"

	writer := newFakeCustomerWriter()
	writer.existingEmails["kim@example.com"] = true
	importer := NewCustomerImporter(writer, zap.NewNop())

	result, err := importer.Ingest(context.Background(), uuid.New(), strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, 1, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.RowErrors, 1)
	assert.Equal(t, 1, result.RowErrors[0].Row)
	assert.Contains(t, result.RowErrors[0].Reasons[0], "already exists")
	require.Len(t, writer.inserted, 1)
	assert.Equal(t, "lee@example.com", writer.inserted[0].Email)
}

func TestCustomerImportEmptyFile(t *testing.T) {
	writer := newFakeCustomerWriter()
	importer := NewCustomerImporter(writer, zap.NewNop())

	result, err := importer.Ingest(context.Background(), uuid.New(), strings.NewReader(customerHeader))
	require.NoError(t, err)

	assert.Equal(t, 0, result.TotalRows)
	assert.Equal(t, 0, result.Succeeded)
	assert.Equal(t, 0, writer.batchCalls)
}

func TestCustomerImportSetsCompanyID(t *testing.T) {
	csv := customerHeader +
		"김철수,M,010-1111-2222,30대,서울,kim@example.com,\n"

	writer := newFakeCustomerWriter()
	importer := NewCustomerImporter(writer, zap.NewNop())

	companyID := uuid.New()
	_, err := importer.Ingest(context.Background(), companyID, strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, writer.inserted, 1)
	assert.Equal(t, companyID, writer.inserted[0].CompanyID)
}
