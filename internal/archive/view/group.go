// Package view contains pure transforms that shape loaded archive items for
// presentation. Nothing here touches the store or the session state.
package view

import (
	"puzzlearchive/internal/archive/models"
	"puzzlearchive/internal/datex"
)

// Group is one month of archive items. Month is "2006-01", or empty for the
// trailing dateless group.
type Group struct {
	Month string
	Items []models.ArchiveItem
}

// GroupByMonth splits items into month groups, keeping the incoming order
// inside each group and across groups. Items without a parseable date gather
// in one group appended last. Input ordered newest-first therefore yields
// groups newest-first with the backlog at the bottom.
func GroupByMonth(items []models.ArchiveItem) []Group {
	var groups []Group
	index := make(map[string]int)
	var dateless []models.ArchiveItem

	for _, it := range items {
		d, err := datex.Parse(it.ItemDate)
		if err != nil {
			dateless = append(dateless, it)
			continue
		}

		key := d.String()[:7]
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{Month: key})
		}
		groups[i].Items = append(groups[i].Items, it)
	}

	if len(dateless) > 0 {
		groups = append(groups, Group{Items: dateless})
	}
	return groups
}
