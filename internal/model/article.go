package model

import "time"

// Item types used by the upstream repository to classify records.
const (
	ItemTypeDataset  = 3
	ItemTypeSoftware = 9
)

// RawRecord is an article or group record exactly as the API returned it.
// The upstream schema is open-ended, so records stay generic until
// normalization projects them into Rows.
type RawRecord = map[string]any

// Row is the fixed tabular projection of one article record.
type Row struct {
	// ID is kept untyped: the upstream mixes numeric and string
	// identifiers across API versions.
	ID            any        `json:"id"`
	Title         string     `json:"title"`
	PublishedDate *time.Time `json:"published_date"`
	GroupID       *int64     `json:"group_id"`
	GroupName     string     `json:"group_name"`
	DOI           string     `json:"doi"`
}

// UnknownGroup is the group name used when a row's group_id is absent
// or not present in the group mapping.
const UnknownGroup = "Unknown"

// Table is the normalized result of one monitoring query.
type Table struct {
	ItemType  int       `json:"item_type"`
	Rows      []Row     `json:"rows"`
	FetchedAt time.Time `json:"fetched_at"`

	// Diagnostics for the fail-soft paths: records silently skipped
	// while building the group map, and dates that would not parse.
	DroppedGroups   int `json:"dropped_groups,omitempty"`
	UnparsableDates int `json:"unparsable_dates,omitempty"`

	// Truncated is set when pagination stopped early on a request
	// failure and the table holds partial results.
	Truncated bool `json:"truncated,omitempty"`
}
