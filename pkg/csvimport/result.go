package csvimport

import (
	"fmt"
	"strings"
)

// RowError records one rejected row. Row numbers are 1-based data-row
// numbers; the header row is not counted.
type RowError struct {
	Row     int      `json:"row"`
	Reasons []string `json:"reasons"`
}

func (e RowError) String() string {
	return fmt.Sprintf("row %d: %s", e.Row, strings.Join(e.Reasons, "; "))
}

// Result is the summary every import run ends with. Row-level problems
// never abort the run; only stream-level parse or I/O errors do.
type Result struct {
	TotalRows int        `json:"totalRows"`
	Succeeded int        `json:"succeeded"`
	Failed    int        `json:"failed"`
	RowErrors []RowError `json:"rowErrors"`
}

func (r *Result) addRowError(row int, reasons []string) {
	r.Failed++
	r.RowErrors = append(r.RowErrors, RowError{Row: row, Reasons: reasons})
}

// ErrorStrings flattens the row errors for storage on the upload record.
func (r *Result) ErrorStrings() []string {
	out := make([]string, 0, len(r.RowErrors))
	for _, rowErr := range r.RowErrors {
		out = append(out, rowErr.String())
	}
	return out
}
