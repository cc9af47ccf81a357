// Package normalize projects raw article records into the fixed-column
// monitoring table and builds the group-id to group-name mapping.
package normalize

import (
	"encoding/json"
	"math"
	"strings"
	"time"

	"fourtumon/internal/model"
)

// Stats counts the records that degraded during normalization. These
// are diagnostics, not errors: the fail-soft contract still produces a
// row for every input article.
type Stats struct {
	DroppedGroups   int
	UnparsableDates int
}

// BuildGroupMap builds the id-to-name mapping from raw group records.
// Records with a non-integer id or non-string name are dropped silently;
// the returned count reports how many.
func BuildGroupMap(groups []model.RawRecord) (map[int64]string, int) {
	out := make(map[int64]string, len(groups))
	dropped := 0
	for _, g := range groups {
		id, idOK := asInt(g["id"])
		name, nameOK := g["name"].(string)
		if !idOK || !nameOK {
			dropped++
			continue
		}
		out[id] = name
	}
	return out, dropped
}

// Rows projects articles into table rows, resolving group names through
// groupMap with an "Unknown" fallback and parsing publication dates.
// Exactly one row is produced per input article.
func Rows(articles []model.RawRecord, groupMap map[int64]string) ([]model.Row, Stats) {
	rows := make([]model.Row, 0, len(articles))
	var stats Stats

	for _, a := range articles {
		row := model.Row{
			ID:        a["id"],
			Title:     asString(a["title"]),
			DOI:       asString(a["doi"]),
			GroupName: model.UnknownGroup,
		}

		if gid, ok := asInt(a["group_id"]); ok {
			row.GroupID = &gid
			if name, ok := groupMap[gid]; ok {
				row.GroupName = name
			}
		}

		if raw := asString(a["published_date"]); raw != "" {
			if ts, err := ParseDate(raw); err == nil {
				row.PublishedDate = &ts
			} else {
				stats.UnparsableDates++
			}
		}

		rows = append(rows, row)
	}
	return rows, stats
}

// Timestamp layouts observed from the upstream API. The common form is
// "2006-01-02 15:04:05", but separator spacing is not reliable.
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02",
}

// ParseDate parses an upstream timestamp. When no full layout matches,
// the leading 10 characters are retried as a bare date: the upstream is
// known to emit irregular whitespace between the date and time parts,
// and the date component is all the dashboard needs.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}

	if len(s) >= 10 {
		if ts, err := time.Parse("2006-01-02", s[:10]); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, &model.ParseError{Value: s}
}

// asInt reports v as an int64 when it is an integral number. JSON
// decoding yields float64, but stub data and json.Number sources are
// accepted too.
func asInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		if n == math.Trunc(n) && !math.IsInf(n, 0) {
			return int64(n), true
		}
		return 0, false
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	default:
		return 0, false
	}
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}
