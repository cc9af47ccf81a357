// Package filter applies the transient, UI-side result filters: group
// name, title keyword and publication date range.
package filter

import (
	"strings"
	"time"

	"fourtumon/internal/model"
)

// Options selects which rows survive filtering. Zero values mean "no
// constraint".
type Options struct {
	// GroupName keeps rows whose resolved group name matches exactly.
	GroupName string
	// Keyword keeps rows whose title contains it, case-insensitively.
	Keyword string
	// From and To bound the publication date inclusively, compared on
	// the date component only. Rows without a parsed date are dropped
	// when a date bound is set.
	From time.Time
	To   time.Time
}

// Apply returns the rows matching every set constraint. The input slice
// is not modified.
func Apply(rows []model.Row, opts Options) []model.Row {
	out := make([]model.Row, 0, len(rows))
	for _, row := range rows {
		if matches(row, opts) {
			out = append(out, row)
		}
	}
	return out
}

func matches(row model.Row, opts Options) bool {
	if opts.GroupName != "" && row.GroupName != opts.GroupName {
		return false
	}
	if opts.Keyword != "" && !strings.Contains(strings.ToLower(row.Title), strings.ToLower(opts.Keyword)) {
		return false
	}

	if !opts.From.IsZero() || !opts.To.IsZero() {
		if row.PublishedDate == nil {
			return false
		}
		day := dateOnly(*row.PublishedDate)
		if !opts.From.IsZero() && day.Before(dateOnly(opts.From)) {
			return false
		}
		if !opts.To.IsZero() && day.After(dateOnly(opts.To)) {
			return false
		}
	}
	return true
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
