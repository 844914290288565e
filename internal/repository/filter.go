package repository

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// HistoryFilter narrows history listings and reports.
type HistoryFilter struct {
	// Query is matched case-insensitively as a substring.
	Query string
	// Day restricts to records whose timestamp falls on the calendar day of
	// Day, evaluated in Day's location. Zero means no date filter.
	Day time.Time
	// Page is 1-based; PageSize <= 0 returns everything.
	Page     int
	PageSize int
}

// Page is one page of a listing together with the unpaginated total.
type Page[T any] struct {
	Items    []T   `json:"items"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}

// DayBounds returns [start, end) of the filter's calendar day.
func (f HistoryFilter) DayBounds() (time.Time, time.Time) {
	y, m, d := f.Day.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, f.Day.Location())
	return start, start.AddDate(0, 0, 1)
}

func (f HistoryFilter) likePattern() string {
	return "%" + strings.ToLower(strings.TrimSpace(f.Query)) + "%"
}

// matching ORs a LOWER(col) LIKE for every column; extra raw conditions
// (e.g. subqueries) may be appended with their own single placeholder.
func (f HistoryFilter) matching(columns []string, extra ...string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if strings.TrimSpace(f.Query) == "" {
			return db
		}
		conds := make([]string, 0, len(columns)+len(extra))
		args := make([]interface{}, 0, len(columns)+len(extra))
		for _, col := range columns {
			conds = append(conds, "LOWER("+col+") LIKE ?")
			args = append(args, f.likePattern())
		}
		for _, raw := range extra {
			conds = append(conds, raw)
			args = append(args, f.likePattern())
		}
		return db.Where("("+strings.Join(conds, " OR ")+")", args...)
	}
}

func (f HistoryFilter) onDay(column string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.Day.IsZero() {
			return db
		}
		// bounds are compared in UTC, the zone timestamps are stored in
		start, end := f.DayBounds()
		return db.Where(column+" >= ? AND "+column+" < ?", start.UTC(), end.UTC())
	}
}

func (f HistoryFilter) paginate(db *gorm.DB) *gorm.DB {
	if f.PageSize <= 0 {
		return db
	}
	page := f.Page
	if page < 1 {
		page = 1
	}
	return db.Offset((page - 1) * f.PageSize).Limit(f.PageSize)
}

// findPage counts the filtered query and then loads the requested page;
// loadScopes (preloads) apply to the page load only.
func findPage[T any](query *gorm.DB, f HistoryFilter, order string, loadScopes ...func(*gorm.DB) *gorm.DB) (*Page[T], error) {
	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}

	items := []T{}
	scopes := append([]func(*gorm.DB) *gorm.DB{f.paginate}, loadScopes...)
	if err := query.Scopes(scopes...).Order(order).Find(&items).Error; err != nil {
		return nil, err
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	return &Page[T]{Items: items, Total: total, Page: page, PageSize: f.PageSize}, nil
}
