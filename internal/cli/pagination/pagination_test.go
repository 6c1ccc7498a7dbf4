package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/trajview/internal/trajectory"
)

func TestPaginationParams_Validate(t *testing.T) {
	tests := []struct {
		name    string
		params  PaginationParams
		wantErr bool
		errMsg  string
	}{
		{name: "valid default", params: *NewPaginationParams()},
		{name: "valid offset mode", params: PaginationParams{Limit: 10, Offset: 20}},
		{name: "valid page mode", params: PaginationParams{Page: 2, PageSize: 10}},
		{name: "negative limit", params: PaginationParams{Limit: -1}, wantErr: true, errMsg: "limit cannot be negative"},
		{name: "negative offset", params: PaginationParams{Offset: -1}, wantErr: true, errMsg: "offset cannot be negative"},
		{name: "negative page", params: PaginationParams{Page: -1}, wantErr: true, errMsg: "page cannot be negative"},
		{
			name:    "page and offset",
			params:  PaginationParams{Page: 1, PageSize: 5, Offset: 3},
			wantErr: true,
			errMsg:  "mutually exclusive",
		},
		{name: "page-size alone", params: PaginationParams{PageSize: 5}, wantErr: true, errMsg: "page must be specified"},
		{name: "page alone", params: PaginationParams{Page: 2}, wantErr: true, errMsg: "page-size must be specified"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestParseSort(t *testing.T) {
	tests := []struct {
		input     string
		wantField string
		wantOrder string
		wantErr   error
	}{
		{input: "", wantField: "", wantOrder: "asc"},
		{input: "turn", wantField: "turn", wantOrder: "asc"},
		{input: "tool:DESC", wantField: "tool", wantOrder: "desc"},
		{input: " id : asc ", wantField: "id", wantOrder: "asc"},
		{input: "a:b:c", wantErr: ErrInvalidSortFormat},
		{input: ":desc", wantErr: ErrEmptySortField},
		{input: "turn:sideways", wantErr: ErrInvalidSortOrder},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			field, order, err := ParseSort(tt.input)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantField, field)
			assert.Equal(t, tt.wantOrder, order)
		})
	}
}

func TestApply(t *testing.T) {
	items := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}

	tests := []struct {
		name   string
		params PaginationParams
		want   []int
	}{
		{name: "no limit", params: PaginationParams{}, want: items},
		{name: "limit", params: PaginationParams{Limit: 3}, want: []int{0, 1, 2}},
		{name: "offset and limit", params: PaginationParams{Offset: 8, Limit: 5}, want: []int{8, 9}},
		{name: "offset past end", params: PaginationParams{Offset: 20}, want: []int{}},
		{name: "second page", params: PaginationParams{Page: 2, PageSize: 4}, want: []int{4, 5, 6, 7}},
		{name: "page past end caps to last", params: PaginationParams{Page: 9, PageSize: 4}, want: []int{8, 9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Apply(tt.params, items))
		})
	}

	assert.Empty(t, Apply(PaginationParams{Limit: 2}, []string{}))
}

func TestNewPaginationMeta(t *testing.T) {
	meta := NewPaginationMeta(PaginationParams{Page: 2, PageSize: 4}, 10)
	assert.Equal(t, PaginationMeta{
		CurrentPage: 2, PageSize: 4, TotalPages: 3, TotalItems: 10, HasPrevious: true, HasNext: true,
	}, meta)

	meta = NewPaginationMeta(PaginationParams{Offset: 6, Limit: 3}, 9)
	assert.Equal(t, 3, meta.CurrentPage)
	assert.False(t, meta.HasNext)

	meta = NewPaginationMeta(PaginationParams{}, 5)
	assert.Equal(t, 1, meta.TotalPages)
	assert.False(t, meta.HasPrevious)
}

func TestResultSorter(t *testing.T) {
	results := []trajectory.ToolResult{
		{ID: "b", Turn: 2, Server: "fetch", Category: trajectory.CategoryNormal},
		{ID: "a", Turn: 1, Server: "zip", Category: trajectory.CategoryError},
		{ID: "c", Turn: 2, Server: "alpha", Category: trajectory.CategoryNormal},
	}
	s := NewResultSorter()

	ids := func(rs []trajectory.ToolResult) []string {
		out := make([]string, len(rs))
		for i, r := range rs {
			out[i] = r.ID
		}
		return out
	}

	assert.Equal(t, []string{"a", "b", "c"}, ids(s.Sort(results, FieldTurn, SortOrderAsc)))
	assert.Equal(t, []string{"b", "c", "a"}, ids(s.Sort(results, FieldTurn, SortOrderDesc)))
	assert.Equal(t, []string{"c", "b", "a"}, ids(s.Sort(results, FieldTool, SortOrderAsc)))
	assert.Equal(t, []string{"a", "b", "c"}, ids(s.Sort(results, FieldID, SortOrderAsc)))
	assert.Equal(t, []string{"a", "b", "c"}, ids(s.Sort(results, FieldCategory, SortOrderAsc)))
	assert.Equal(t, []string{"b", "a", "c"}, ids(s.Sort(results, "bogus", SortOrderAsc)))
	assert.Equal(t, []string{"b", "a", "c"}, ids(results), "input is not modified")

	assert.True(t, s.IsValidField("turn"))
	assert.False(t, s.IsValidField("savings"))
	assert.Equal(t, []string{"category", "id", "tool", "turn"}, s.GetValidFields())
}
