// Package view computes the dashboard views. Every function here is pure:
// records and the current time go in, an ordered subset and a summary over
// the whole collection come out.
package view

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dmehra2102/prod-golang-projects/medstock/internal/domain"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// All disables an enumerated filter.
const All = "all"

type Range string

const (
	RangeAll       Range = "all"
	RangeToday     Range = "today"
	RangeYesterday Range = "yesterday"
	RangeWeek      Range = "week"
	RangeMonth     Range = "month"
)

func (r Range) IsValid() bool {
	switch r {
	case RangeAll, RangeToday, RangeYesterday, RangeWeek, RangeMonth:
		return true
	}
	return false
}

// Contains reports whether t falls inside the window anchored at now.
// today and yesterday are calendar days in now's location.
func (r Range) Contains(t, now time.Time) bool {
	switch r {
	case RangeToday:
		start := domain.StartOfDay(now)
		t = t.In(now.Location())
		return !t.Before(start) && t.Before(start.AddDate(0, 0, 1))
	case RangeYesterday:
		end := domain.StartOfDay(now)
		t = t.In(now.Location())
		return !t.Before(end.AddDate(0, 0, -1)) && t.Before(end)
	case RangeWeek:
		return !t.Before(now.Add(-7 * 24 * time.Hour))
	case RangeMonth:
		return !t.Before(now.AddDate(0, -1, 0))
	default:
		return true
	}
}

// matcher is a lowercased search needle; the zero value matches everything.
type matcher string

func newMatcher(search string) matcher {
	return matcher(strings.ToLower(strings.TrimSpace(search)))
}

func (m matcher) match(fields ...string) bool {
	if m == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), string(m)) {
			return true
		}
	}
	return false
}

func isAll(v string) bool {
	return v == "" || v == All
}

// stableSort sorts rows in place with a stable sort. With reverse set every
// strict pair flips and ties keep their input order.
func stableSort[T any](rows []T, less func(a, b T) bool, reverse bool) {
	if reverse {
		sort.SliceStable(rows, func(i, j int) bool { return less(rows[j], rows[i]) })
		return
	}
	sort.SliceStable(rows, func(i, j int) bool { return less(rows[i], rows[j]) })
}

// nameOrder compares display names with English collation, ignoring case.
// A collator is not safe for concurrent use, so each view call builds its own.
func nameOrder() func(a, b string) int {
	c := collate.New(language.English, collate.IgnoreCase)
	return c.CompareString
}

func checkSort(verr *domain.ValidationError, key string, allowed []string) {
	for _, k := range allowed {
		if key == k {
			return
		}
	}
	verr.Add(fmt.Sprintf("sort %q is not one of %s", key, strings.Join(allowed, ", ")))
}
