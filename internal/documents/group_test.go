// Copyright (c) 2026 360Lateral. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package documents_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SamirJoseGil/360Lateral-sub000/internal/documents"
	"github.com/SamirJoseGil/360Lateral-sub000/pkg/pagination"
	"github.com/SamirJoseGil/360Lateral-sub000/pkg/pointer"
)

func at(hour int) *time.Time {
	return pointer.To(time.Date(2026, 3, 1, hour, 0, 0, 0, time.UTC))
}

/*
TestGroupByLot groups by lot id, sorts groups by folded name and documents
newest first.
*/
func TestGroupByLot(t *testing.T) {
	input := []documents.Document{
		{ID: "1", LotID: "20", LotName: "Zúñiga", CreatedAt: at(8), Status: documents.StatusValidated},
		{ID: "2", LotID: "10", LotName: "Álamo", CreatedAt: at(9), Status: documents.StatusPending},
		{ID: "3", LotID: "10", LotName: "Álamo", CreatedAt: nil, Status: documents.StatusPending},
		{ID: "4", LotID: "10", LotName: "Álamo", CreatedAt: at(12), Status: documents.StatusRejected},
		{ID: "5", LotName: "", CreatedAt: at(7)},
		{ID: "6", LotName: "belén", CreatedAt: at(6)},
		{ID: "7", LotName: "Belén", CreatedAt: at(10)},
	}

	groups := documents.GroupByLot(input)
	require.Len(t, groups, 4)

	names := make([]string, len(groups))
	for i, group := range groups {
		names[i] = group.LotName
	}
	assert.Equal(t, []string{"Álamo", "belén", "Sin lote", "Zúñiga"}, names)

	alamo := groups[0]
	assert.Equal(t, 2, alamo.Pending)
	assert.Equal(t, "4", alamo.Documents[0].ID.String())
	assert.Equal(t, "2", alamo.Documents[1].ID.String())
	assert.Equal(t, "3", alamo.Documents[2].ID.String())

	// Unnamed lots with matching folded names share a group
	assert.Len(t, groups[1].Documents, 2)
	assert.Equal(t, "7", groups[1].Documents[0].ID.String())

	// The input keeps its order
	assert.Equal(t, "1", input[0].ID.String())
}

/*
TestPaginateGroups windows the groups and reports metadata.
*/
func TestPaginateGroups(t *testing.T) {
	groups := make([]documents.Group, 5)
	for i := range groups {
		groups[i] = documents.Group{LotName: string(rune('A' + i))}
	}

	window, meta := documents.PaginateGroups(groups, pagination.Params{Page: 2, Limit: 2})
	require.Len(t, window, 2)
	assert.Equal(t, "C", window[0].LotName)
	assert.Equal(t, pagination.Meta{Page: 2, Limit: 2, Total: 5, TotalPages: 3}, meta)

	window, meta = documents.PaginateGroups(groups, pagination.Params{Page: 9, Limit: 2})
	assert.Empty(t, window)
	assert.Equal(t, 9, meta.Page)

	window, _ = documents.PaginateGroups(nil, pagination.Params{})
	assert.Empty(t, window)

	// A page number large enough to overflow the offset is still past the end
	window, meta = documents.PaginateGroups(groups, pagination.Params{Page: 1 << 62, Limit: 2})
	assert.Empty(t, window)
	assert.Equal(t, pagination.MaxPage, meta.Page)
}
