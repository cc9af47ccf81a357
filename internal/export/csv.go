// Package export renders the monitoring table for humans (text table)
// and machines (CSV, JSON).
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"fourtumon/internal/model"
)

// csvHeader matches the dashboard export: group_id is an internal join
// key and is omitted.
var csvHeader = []string{"id", "title", "published_date", "group_name", "doi"}

// WriteCSV writes rows as CSV. Missing values become empty fields and
// dates are rendered as bare YYYY-MM-DD.
func WriteCSV(w io.Writer, rows []model.Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range rows {
		record := []string{
			formatID(row.ID),
			row.Title,
			formatDate(row),
			row.GroupName,
			row.DOI,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatDate(row model.Row) string {
	if row.PublishedDate == nil {
		return ""
	}
	return row.PublishedDate.Format("2006-01-02")
}

// formatID renders an upstream identifier. Numeric ids come out of JSON
// decoding as float64 and must not pick up an exponent or a ".0".
func formatID(id any) string {
	switch v := id.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
