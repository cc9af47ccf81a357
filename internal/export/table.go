package export

import (
	"encoding/json"
	"fmt"
	"io"

	"fourtumon/internal/model"

	"github.com/jedib0t/go-pretty/v6/table"
)

// RenderTable writes rows as an aligned text table, mirroring the CSV
// column set.
func RenderTable(w io.Writer, rows []model.Row) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"ID", "Title", "Published", "Group", "DOI"})
	for _, row := range rows {
		t.AppendRow(table.Row{
			formatID(row.ID),
			row.Title,
			formatDate(row),
			row.GroupName,
			row.DOI,
		})
	}
	t.Render()
}

// WriteJSON writes rows as indented JSON.
func WriteJSON(w io.Writer, rows []model.Row) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rows); err != nil {
		return fmt.Errorf("encode rows: %w", err)
	}
	return nil
}
