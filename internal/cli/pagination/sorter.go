package pagination

import (
	"slices"
	"sort"

	"github.com/rshade/trajview/internal/trajectory"
)

// Sortable result fields.
const (
	FieldTurn     = "turn"
	FieldTool     = "tool"
	FieldCategory = "category"
	FieldID       = "id"
)

// ResultSorter sorts tool results by a validated field.
type ResultSorter struct {
	validFields map[string]bool
}

// NewResultSorter creates a ResultSorter with the supported sort fields.
func NewResultSorter() *ResultSorter {
	return &ResultSorter{
		validFields: map[string]bool{
			FieldTurn:     true,
			FieldTool:     true,
			FieldCategory: true,
			FieldID:       true,
		},
	}
}

// IsValidField checks if the field is valid for sorting.
func (s *ResultSorter) IsValidField(field string) bool {
	return s.validFields[field]
}

// GetValidFields returns all valid sort fields in a consistent order.
func (s *ResultSorter) GetValidFields() []string {
	fields := make([]string, 0, len(s.validFields))
	for field := range s.validFields {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

// Sort returns a sorted copy of results. Ties keep their original order.
// An invalid field returns results unchanged.
func (s *ResultSorter) Sort(results []trajectory.ToolResult, field, order string) []trajectory.ToolResult {
	if !s.IsValidField(field) {
		return results
	}

	sorted := slices.Clone(results)
	sort.SliceStable(sorted, func(i, j int) bool {
		// Swapping keeps the sort stable for descending order.
		if order == SortOrderDesc {
			i, j = j, i
		}

		switch field {
		case FieldTurn:
			return sorted[i].Turn < sorted[j].Turn
		case FieldTool:
			return sorted[i].Title() < sorted[j].Title()
		case FieldCategory:
			return sorted[i].Category < sorted[j].Category
		case FieldID:
			return sorted[i].ID < sorted[j].ID
		default:
			return false
		}
	})
	return sorted
}
