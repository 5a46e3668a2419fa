// Package models defines the data structures passed between pipeline stages.
package models

import (
	"regexp"
	"strings"
)

var headerSeparators = regexp.MustCompile(`[\s\-]+`)

// NormalizeHeader lower-cases a header label and collapses runs of
// whitespace and hyphens to a single underscore, so "Case Size" and
// "case-size" both become "case_size".
func NormalizeHeader(label string) string {
	return headerSeparators.ReplaceAllString(strings.ToLower(strings.TrimSpace(label)), "_")
}

// ColumnMap maps a normalized header name to its 1-based column index.
type ColumnMap map[string]int

// Column returns the 1-based column for a normalized name.
func (m ColumnMap) Column(name string) (int, bool) {
	col, ok := m[name]
	return col, ok
}

// HeaderSchema is the resolved header row.
type HeaderSchema struct {
	// Row is the 1-based header row.
	Row int
	// Columns maps normalized names to columns (first occurrence wins).
	Columns ColumnMap
	// Labels holds the verbatim label of every column, index 0 = column 1.
	Labels []string
	// MissingOptional lists optional names absent from the header.
	MissingOptional []string
}

// Label returns the verbatim label for a normalized name.
func (s HeaderSchema) Label(name string) (string, bool) {
	col, ok := s.Columns.Column(name)
	if !ok || col < 1 || col > len(s.Labels) {
		return "", false
	}
	return s.Labels[col-1], true
}
