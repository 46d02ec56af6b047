package utils

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// Размер страницы реестра: 10 в личном списке, 12 в административном.
	MemberPageSize = 10
	AdminPageSize  = 12

	SearchDateLayout = "02/01/2006"
)

// SearchQuery — явный результат разбора строки поиска.
// Текст участвует в поиске всегда; дата и число — только если
// строка разобралась как дата (дд/мм/гггг) или целое.
type SearchQuery struct {
	Raw    string
	Date   *time.Time
	Number *int64
}

func (q SearchQuery) IsEmpty() bool { return q.Raw == "" }

func ParseSearchQuery(raw string) SearchQuery {
	q := SearchQuery{Raw: strings.TrimSpace(raw)}
	if q.Raw == "" {
		return q
	}
	if d, err := time.Parse(SearchDateLayout, q.Raw); err == nil {
		q.Date = &d
	}
	if n, err := strconv.ParseInt(q.Raw, 10, 64); err == nil {
		q.Number = &n
	}
	return q
}

// ParsePageCursors собирает параметры вида page_<departmentID>=N.
// Каждый департамент листается независимым курсором.
func ParsePageCursors(values url.Values) map[uuid.UUID]uint64 {
	cursors := make(map[uuid.UUID]uint64)
	for key, vals := range values {
		if !strings.HasPrefix(key, "page_") || len(vals) == 0 {
			continue
		}
		id, err := uuid.Parse(strings.TrimPrefix(key, "page_"))
		if err != nil {
			continue
		}
		if p, err := strconv.ParseUint(vals[0], 10, 64); err == nil && p > 0 {
			cursors[id] = p
		}
	}
	return cursors
}

// ParseTab: нечисловое или отрицательное значение приводится к 0.
func ParseTab(values url.Values) int {
	n, err := strconv.Atoi(values.Get("tab"))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func PageOffset(page, size uint64) uint64 {
	if page == 0 {
		page = 1
	}
	return (page - 1) * size
}
