// Package pagination provides utilities for CLI pagination and sorting of tool results.
//
// This package contains the paging logic used by list-style commands, including:
//   - PaginationParams: CLI flag parsing and validation
//   - PaginationMeta: Response metadata for paginated results
//   - ResultSorter: Sorting of tool results with field validation
package pagination
