package timeline

import (
	"ips-timeline-service/internal/app/models"
	"ips-timeline-service/internal/pkg/utils"
	"sort"
	"time"
)

// FilterTimeline keeps the entries dated within [from, to] whose title is in
// titles. A zero bound or an empty titles list does not filter.
func FilterTimeline(entries []models.TimelineEntry, from, to time.Time, titles []string) []models.TimelineEntry {
	allowed := make(map[string]struct{}, len(titles))
	for _, title := range titles {
		allowed[title] = struct{}{}
	}

	filtered := make([]models.TimelineEntry, 0, len(entries))
	for _, entry := range entries {
		if len(allowed) > 0 {
			if _, ok := allowed[entry.Title]; !ok {
				continue
			}
		}
		if !from.IsZero() || !to.IsZero() {
			date, err := utils.ParseFHIRDate(entry.Date)
			if err != nil {
				continue
			}
			if !from.IsZero() && date.Before(from) {
				continue
			}
			if !to.IsZero() && date.After(to) {
				continue
			}
		}
		filtered = append(filtered, entry)
	}
	return filtered
}

// SortByDate returns a copy of entries ordered by date. Equal or unparseable
// dates keep their relative order, unparseable ones last.
func SortByDate(entries []models.TimelineEntry) []models.TimelineEntry {
	type dated struct {
		entry models.TimelineEntry
		date  time.Time
		ok    bool
	}

	items := make([]dated, len(entries))
	for i, entry := range entries {
		date, err := utils.ParseFHIRDate(entry.Date)
		items[i] = dated{entry: entry, date: date, ok: err == nil}
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].ok != items[j].ok {
			return items[i].ok
		}
		return items[i].ok && items[i].date.Before(items[j].date)
	})

	sorted := make([]models.TimelineEntry, len(items))
	for i, item := range items {
		sorted[i] = item.entry
	}
	return sorted
}
