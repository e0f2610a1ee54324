package sandbox

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/papercomputeco/ragsql/pkg/datastore"
)

// ProgressFunc is called after each exported row.
type ProgressFunc func(current, total int)

// WriteCSV writes the table with a header row. NULLs become empty fields.
func WriteCSV(w io.Writer, table *datastore.Table, progress ProgressFunc) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(table.Columns); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	total := len(table.Rows)
	record := make([]string, len(table.Columns))
	for i, row := range table.Rows {
		for j := range record {
			record[j] = ""
			if j < len(row) {
				record[j] = FormatCell(row[j])
			}
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing csv row %d: %w", i+1, err)
		}
		if progress != nil {
			progress(i+1, total)
		}
	}

	cw.Flush()
	return cw.Error()
}

// FormatCell renders a cell value as plain text. NULL is the empty string.
func FormatCell(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int64:
		return strconv.FormatInt(val, 10)
	case time.Time:
		if val.Hour() == 0 && val.Minute() == 0 && val.Second() == 0 && val.Nanosecond() == 0 {
			return val.Format(time.DateOnly)
		}
		return val.Format(time.RFC3339)
	default:
		return fmt.Sprint(val)
	}
}
