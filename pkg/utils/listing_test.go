package utils

import (
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSearchQuery_Date(t *testing.T) {
	q := ParseSearchQuery("15/03/2024")
	require.NotNil(t, q.Date, "строка дд/мм/гггг должна разбираться как дата")
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), *q.Date)
	assert.Nil(t, q.Number)
	assert.Equal(t, "15/03/2024", q.Raw)
}

func TestParseSearchQuery_Number(t *testing.T) {
	q := ParseSearchQuery("2024")
	require.NotNil(t, q.Number, "целое число должно разбираться как номер")
	assert.Equal(t, int64(2024), *q.Number)
	assert.Nil(t, q.Date, "голый год — не дата")
}

func TestParseSearchQuery_Text(t *testing.T) {
	q := ParseSearchQuery("  письмо в налоговую  ")
	assert.Equal(t, "письмо в налоговую", q.Raw)
	assert.Nil(t, q.Date)
	assert.Nil(t, q.Number)
	assert.False(t, q.IsEmpty())
}

func TestParseSearchQuery_Empty(t *testing.T) {
	assert.True(t, ParseSearchQuery("").IsEmpty())
	assert.True(t, ParseSearchQuery("   ").IsEmpty())
}

func TestParseSearchQuery_InvalidDate(t *testing.T) {
	// 31/02 не существует, строка остаётся просто текстом
	q := ParseSearchQuery("31/02/2024")
	assert.Nil(t, q.Date)
	assert.Nil(t, q.Number)
	assert.Equal(t, "31/02/2024", q.Raw)
}

func TestParsePageCursors(t *testing.T) {
	first := uuid.New()
	second := uuid.New()

	values := url.Values{}
	values.Set("page_"+first.String(), "3")
	values.Set("page_"+second.String(), "1")
	values.Set("page_not-a-uuid", "7")
	values.Set("page_"+uuid.New().String(), "abc")
	values.Set("q", "100")

	cursors := ParsePageCursors(values)
	assert.Len(t, cursors, 2)
	assert.Equal(t, uint64(3), cursors[first])
	assert.Equal(t, uint64(1), cursors[second])
}

func TestParsePageCursors_ZeroIgnored(t *testing.T) {
	id := uuid.New()
	values := url.Values{}
	values.Set("page_"+id.String(), "0")

	cursors := ParsePageCursors(values)
	assert.Empty(t, cursors, "нулевая страница не является курсором")
}

func TestParseTab(t *testing.T) {
	cases := []struct {
		raw  string
		want int
	}{
		{"2", 2},
		{"0", 0},
		{"", 0},
		{"abc", 0},
		{"-1", 0},
	}
	for _, tc := range cases {
		values := url.Values{}
		values.Set("tab", tc.raw)
		assert.Equal(t, tc.want, ParseTab(values), "tab=%q", tc.raw)
	}
}

func TestPageOffset(t *testing.T) {
	assert.Equal(t, uint64(0), PageOffset(1, MemberPageSize))
	assert.Equal(t, uint64(10), PageOffset(2, MemberPageSize))
	assert.Equal(t, uint64(24), PageOffset(3, AdminPageSize))
	assert.Equal(t, uint64(0), PageOffset(0, MemberPageSize), "нулевая страница трактуется как первая")
}
