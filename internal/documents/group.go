// Copyright (c) 2026 360Lateral. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package documents

import (
	"sort"

	"github.com/SamirJoseGil/360Lateral-sub000/pkg/pagination"
	"github.com/SamirJoseGil/360Lateral-sub000/pkg/slice"
	"github.com/SamirJoseGil/360Lateral-sub000/pkg/textkey"
)

// groupKey identifies a lot by id, or by folded name when the id is missing.
func groupKey(document Document) string {
	if document.LotID != "" {
		return "id:" + document.LotID.String()
	}
	return "name:" + textkey.Fold(document.LotName)
}

/*
GroupByLot groups documents by lot.

A group takes its lot id and name from its first document in input order.
Groups are ordered by accent-insensitive lot name; documents within a group
by upload time, newest first, with undated documents last. The input is not
modified.
*/
func GroupByLot(documents []Document) []Group {
	keys, buckets := slice.GroupBy(documents, groupKey)

	groups := make([]Group, 0, len(keys))
	for _, key := range keys {
		first := buckets[key][0]
		members := append([]Document(nil), buckets[key]...)
		sort.SliceStable(members, func(i, j int) bool {
			return newer(members[i], members[j])
		})

		group := Group{
			LotID:     first.LotID,
			LotName:   first.LotName,
			Documents: members,
			Pending:   len(slice.Filter(members, func(d Document) bool { return d.IsPending() })),
		}
		if group.LotName == "" {
			group.LotName = UnassignedLotName
		}
		groups = append(groups, group)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return textkey.Less(groups[i].LotName, groups[j].LotName)
	})

	return groups
}

// PaginateGroups returns the page of groups selected by params with its metadata.
func PaginateGroups(groups []Group, params pagination.Params) ([]Group, pagination.Meta) {
	normalized := params.Normalize()
	window := slice.Window(groups, normalized.Offset(), normalized.Limit)
	return window, pagination.NewMeta(normalized.Page, normalized.Limit, len(groups))
}

func newer(a, b Document) bool {
	switch {
	case a.CreatedAt == nil:
		return false
	case b.CreatedAt == nil:
		return true
	default:
		return a.CreatedAt.After(*b.CreatedAt)
	}
}
