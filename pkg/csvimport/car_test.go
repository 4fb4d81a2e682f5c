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

const carHeader = "carNumber,manufacturer,model,type,manufacturingYear,mileage,price,accidentCount,explanation,accidentDetails\n"

type fakeCarWriter struct {
	existing  map[string]bool
	conflicts map[string]bool
	inserted  []*model.Car
	batches   []int
}

func (f *fakeCarWriter) ExistingCarNumbers(ctx context.Context, companyID uuid.UUID, numbers []string) (map[string]bool, error) {
	found := make(map[string]bool)
	for _, number := range numbers {
		if f.existing[number] {
			found[number] = true
		}
	}
	return found, nil
}

func (f *fakeCarWriter) CreateBatchSkipConflicts(ctx context.Context, cars []*model.Car) (int64, error) {
	f.batches = append(f.batches, len(cars))
	var affected int64
	for _, car := range cars {
		if f.conflicts[car.CarNumber] {
			continue
		}
		f.inserted = append(f.inserted, car)
		affected++
	}
	return affected, nil
}

func newFakeCarWriter() *fakeCarWriter {
	return &fakeCarWriter{existing: map[string]bool{}, conflicts: map[string]bool{}}
}

func TestCarImportAllValid(t *testing.T) {
	csv := carHeader +
		"12가3456,현대,아반떼,경차,2020,30000,9000000,0,,\n" +
		"34나5678,기아,쏘렌토,SUV,2021,15000,28000000,1,무사고 아님,후면 추돌\n"

	writer := newFakeCarWriter()
	importer := NewCarImporter(writer, 1000, zap.NewNop())

	result, err := importer.Ingest(context.Background(), uuid.New(), strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, 2, result.TotalRows)
	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, 0, result.Failed)
	assert.Empty(t, result.RowErrors)
	require.Len(t, writer.inserted, 2)
	assert.Equal(t, model.CarTypeCompact, writer.inserted[0].Type)
	assert.Equal(t, model.CarTypeSUV, writer.inserted[1].Type)
	assert.Equal(t, model.CarAvailable, writer.inserted[0].Status)
}

func TestCarImportUnknownTypeIsRowFailure(t *testing.T) {
	csv := carHeader +
		"12가3456,현대,포터,트럭,2020,30000,9000000,0,,\n" +
		"34나5678,기아,모닝,경차,2021,15000,8000000,,,\n"

	writer := newFakeCarWriter()
	importer := NewCarImporter(writer, 1000, zap.NewNop())

	result, err := importer.Ingest(context.Background(), uuid.New(), strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, 2, result.TotalRows)
	assert.Equal(t, 1, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.RowErrors, 1)
	assert.Equal(t, 1, result.RowErrors[0].Row)
	assert.Contains(t, result.RowErrors[0].Reasons[0], "unknown car type")

	// Blank accidentCount defaults to zero.
	require.Len(t, writer.inserted, 1)
	assert.Equal(t, 0, writer.inserted[0].AccidentCount)
}

func TestCarImportDuplicateInFile(t *testing.T) {
	csv := carHeader +
		"12가3456,현대,아반떼,경차,2020,30000,9000000,0,,\n" +
		"12가3456,현대,아반떼,경차,2020,30000,9000000,0,,\n"

	writer := newFakeCarWriter()
	importer := NewCarImporter(writer, 1000, zap.NewNop())

	result, err := importer.Ingest(context.Background(), uuid.New(), strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, 1, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.RowErrors, 1)
	assert.Equal(t, 2, result.RowErrors[0].Row)
	assert.Contains(t, result.RowErrors[0].Reasons[0], "duplicate of row 1")
}

func TestCarImportRejectedRowDoesNotBlockSameNumber(t *testing.T) {
	csv := carHeader +
		"12가3456,현대,포터,트럭,2020,30000,9000000,0,,\n" +
		"12가3456,현대,포터,대형차,2020,30000,9000000,0,,\n"

	writer := newFakeCarWriter()
	importer := NewCarImporter(writer, 1000, zap.NewNop())

	result, err := importer.Ingest(context.Background(), uuid.New(), strings.NewReader(csv))
	require.NoError(t, err)

	// The corrected second row is not a duplicate of the rejected first
	// one; only queued rows count for in-file dedup.
	assert.Equal(t, 1, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.RowErrors, 1)
	assert.Equal(t, 1, result.RowErrors[0].Row)
	assert.Contains(t, result.RowErrors[0].Reasons[0], "unknown car type")
	require.Len(t, writer.inserted, 1)
	assert.Equal(t, model.CarTypeFullsize, writer.inserted[0].Type)
}

func TestCarImportExistingNumberReported(t *testing.T) {
	csv := carHeader +
		"12가3456,현대,아반떼,경차,2020,30000,9000000,0,,\n"

	writer := newFakeCarWriter()
	writer.existing["12가3456"] = true
	importer := NewCarImporter(writer, 1000, zap.NewNop())

	result, err := importer.Ingest(context.Background(), uuid.New(), strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, 0, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.RowErrors, 1)
	assert.Contains(t, result.RowErrors[0].Reasons[0], "already exists")
	assert.Empty(t, writer.inserted)
}

func TestCarImportRerunReportsPreviouslyInserted(t *testing.T) {
	csv := carHeader +
		"12가3456,현대,아반떼,경차,2020,30000,9000000,0,,\n" +
		"34나5678,기아,모닝,경차,2021,15000,8000000,0,,\n"

	writer := newFakeCarWriter()
	importer := NewCarImporter(writer, 1000, zap.NewNop())

	first, err := importer.Ingest(context.Background(), uuid.New(), strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 2, first.Succeeded)

	// Simulate the first run having landed in the database.
	for _, car := range writer.inserted {
		writer.existing[car.CarNumber] = true
	}

	second, err := importer.Ingest(context.Background(), uuid.New(), strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 0, second.Succeeded)
	assert.Equal(t, 2, second.Failed)
	assert.Len(t, second.RowErrors, 2)
}

func TestCarImportBatching(t *testing.T) {
	var rows strings.Builder
	rows.WriteString(carHeader)
	numbers := []string{"11가1111", "22나2222", "33다3333", "44라4444", "55마5555"}
	for _, number := range numbers {
		rows.WriteString(number + ",현대,아반떼,경차,2020,30000,9000000,0,,\n")
	}

	writer := newFakeCarWriter()
	importer := NewCarImporter(writer, 2, zap.NewNop())

	result, err := importer.Ingest(context.Background(), uuid.New(), strings.NewReader(rows.String()))
	require.NoError(t, err)

	assert.Equal(t, 5, result.Succeeded)
	assert.Equal(t, []int{2, 2, 1}, writer.batches)
}

func TestCarImportDatabaseConflictCountsAsFailure(t *testing.T) {
	csv := carHeader +
		"12가3456,현대,아반떼,경차,2020,30000,9000000,0,,\n" +
		"34나5678,기아,모닝,경차,2021,15000,8000000,0,,\n"

	writer := newFakeCarWriter()
	writer.conflicts["34나5678"] = true
	importer := NewCarImporter(writer, 1000, zap.NewNop())

	result, err := importer.Ingest(context.Background(), uuid.New(), strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, 1, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
}

func TestCarImportStripsBOM(t *testing.T) {
	csv := "\xEF\xBB\xBF" + carHeader +
		"12가3456,현대,아반떼,경차,2020,30000,9000000,0,,\n"

	writer := newFakeCarWriter()
	importer := NewCarImporter(writer, 1000, zap.NewNop())

	result, err := importer.Ingest(context.Background(), uuid.New(), strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Succeeded)
}

func TestCarImportMalformedStreamIsFatal(t *testing.T) {
	csv := carHeader + "\"12가3456,현대\n"

	writer := newFakeCarWriter()
	importer := NewCarImporter(writer, 1000, zap.NewNop())

	_, err := importer.Ingest(context.Background(), uuid.New(), strings.NewReader(csv))
	require.Error(t, err)
}

func TestCarImportWrongColumnCountIsRowFailure(t *testing.T) {
	csv := carHeader +
		"12가3456,현대,아반떼\n" +
		"34나5678,기아,모닝,경차,2021,15000,8000000,0,,\n"

	writer := newFakeCarWriter()
	importer := NewCarImporter(writer, 1000, zap.NewNop())

	result, err := importer.Ingest(context.Background(), uuid.New(), strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, 1, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
	assert.Contains(t, result.RowErrors[0].Reasons[0], "expected 10 columns")
}
