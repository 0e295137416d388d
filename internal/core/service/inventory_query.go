package service

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/restaurant/storage-tracker/internal/core/domain"
)

// FilterAll disables a filter dimension.
const FilterAll = "all"

const (
	RangeToday = "today"
	RangeWeek  = "week"
	RangeMonth = "month"
)

// ExpiringSoonDays is how close to its expiration date an item is flagged.
const ExpiringSoonDays = 3

const day = 24 * time.Hour

// ItemFilter narrows the item list. Empty fields or FilterAll match everything.
type ItemFilter struct {
	Search   string
	Category string
}

// ActivityFilter narrows the activity log.
type ActivityFilter struct {
	Search string
	Action string
	Range  string
}

// ActivityStats aggregates the activity log.
type ActivityStats struct {
	Total    int                   `json:"total"`
	Today    int                   `json:"today"`
	ThisWeek int                   `json:"thisWeek"`
	ByAction map[domain.Action]int `json:"byAction"`
}

// ItemStats aggregates the item list.
type ItemStats struct {
	TotalItems   int `json:"totalItems"`
	ExpiringSoon int `json:"expiringSoon"`
	Categories   int `json:"categories"`
}

// CategoryGroup is one non-empty category with its items.
type CategoryGroup struct {
	Category domain.Category      `json:"category"`
	Items    []domain.StorageItem `json:"items"`
}

func active(v string) bool {
	return v != "" && v != FilterAll
}

// ceilDays counts whole days in d, rounding up like a calendar countdown.
func ceilDays(d time.Duration) int {
	return int(math.Ceil(float64(d) / float64(day)))
}

// FilterItems matches a case-insensitive name substring and an exact category.
func FilterItems(items []domain.StorageItem, f ItemFilter) []domain.StorageItem {
	search := strings.ToLower(f.Search)
	out := make([]domain.StorageItem, 0, len(items))
	for _, it := range items {
		if !strings.Contains(strings.ToLower(it.Name), search) {
			continue
		}
		if active(f.Category) && string(it.Category) != f.Category {
			continue
		}
		out = append(out, it)
	}
	return out
}

// FilterActivities matches the search text against item name, employee name
// and details, then the action, then the age bucket relative to now.
func FilterActivities(entries []domain.ActivityLogEntry, f ActivityFilter, now time.Time) []domain.ActivityLogEntry {
	search := strings.ToLower(f.Search)
	out := make([]domain.ActivityLogEntry, 0, len(entries))
	for _, e := range entries {
		if search != "" &&
			!strings.Contains(strings.ToLower(e.ItemName), search) &&
			!strings.Contains(strings.ToLower(e.EmployeeName), search) &&
			!strings.Contains(strings.ToLower(e.Details), search) {
			continue
		}
		if active(f.Action) && string(e.Action) != f.Action {
			continue
		}
		if active(f.Range) && !inRange(e.Timestamp, f.Range, now) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func inRange(ts time.Time, bucket string, now time.Time) bool {
	days := ceilDays(now.Sub(ts))
	switch bucket {
	case RangeToday:
		return days <= 1
	case RangeWeek:
		return days <= 7
	case RangeMonth:
		return days <= 30
	}
	return true
}

// ValidRange reports whether r names a known age bucket.
func ValidRange(r string) bool {
	switch r {
	case "", FilterAll, RangeToday, RangeWeek, RangeMonth:
		return true
	}
	return false
}

// ActivityStatistics counts entries from today's calendar date, the last
// seven days and per action.
func ActivityStatistics(entries []domain.ActivityLogEntry, now time.Time) ActivityStats {
	stats := ActivityStats{
		Total:    len(entries),
		ByAction: make(map[domain.Action]int, len(domain.Actions)),
	}
	for _, a := range domain.Actions {
		stats.ByAction[a] = 0
	}

	ty, tm, td := now.Date()
	for _, e := range entries {
		y, m, d := e.Timestamp.In(now.Location()).Date()
		if y == ty && m == tm && d == td {
			stats.Today++
		}
		if ceilDays(now.Sub(e.Timestamp)) <= 7 {
			stats.ThisWeek++
		}
		stats.ByAction[e.Action]++
	}
	return stats
}

// IsExpiringSoon reports whether the item expires within ExpiringSoonDays of
// now, or already has. Items without an expiration date never are.
func IsExpiringSoon(item domain.StorageItem, now time.Time) bool {
	exp, ok := item.Expiration(time.UTC)
	if !ok {
		return false
	}
	return ceilDays(exp.Sub(now)) <= ExpiringSoonDays
}

// ItemStatistics counts items, items expiring soon and distinct categories.
func ItemStatistics(items []domain.StorageItem, now time.Time) ItemStats {
	cats := make(map[domain.Category]struct{})
	stats := ItemStats{TotalItems: len(items)}
	for _, it := range items {
		if IsExpiringSoon(it, now) {
			stats.ExpiringSoon++
		}
		cats[it.Category] = struct{}{}
	}
	stats.Categories = len(cats)
	return stats
}

// GroupByCategory buckets items by category in display order. Categories
// outside the known list are appended after the known ones.
func GroupByCategory(items []domain.StorageItem) []CategoryGroup {
	byCat := make(map[domain.Category][]domain.StorageItem)
	var extra []domain.Category
	for _, it := range items {
		if _, seen := byCat[it.Category]; !seen && !it.Category.Valid() {
			extra = append(extra, it.Category)
		}
		byCat[it.Category] = append(byCat[it.Category], it)
	}

	order := append(append([]domain.Category{}, domain.Categories...), extra...)
	groups := make([]CategoryGroup, 0, len(byCat))
	for _, c := range order {
		if list, ok := byCat[c]; ok {
			groups = append(groups, CategoryGroup{Category: c, Items: list})
		}
	}
	return groups
}

// RelativeTime renders ts the way the activity feed shows it. Timestamps
// ahead of now read as "0 minutes ago".
func RelativeTime(ts, now time.Time) string {
	diff := now.Sub(ts)
	if diff < 0 {
		diff = 0
	}
	minutes := int(diff / time.Minute)
	hours := int(diff / time.Hour)
	days := int(diff / day)

	switch {
	case minutes < 60:
		return fmt.Sprintf("%d minutes ago", minutes)
	case hours < 24:
		return fmt.Sprintf("%d hours ago", hours)
	case days == 1:
		return "Yesterday"
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	default:
		return ts.In(now.Location()).Format(domain.DateLayout)
	}
}
