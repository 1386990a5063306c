package view

import (
	"fmt"
	"time"

	"github.com/dmehra2102/prod-golang-projects/medstock/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/medstock/internal/domain/medicine"
	"github.com/dmehra2102/prod-golang-projects/medstock/internal/domain/stocklog"
)

const (
	LogSortNewest   = "newest"
	LogSortOldest   = "oldest"
	LogSortMedicine = "medicine"
	LogSortAction   = "action"
)

var logSorts = []string{LogSortNewest, LogSortOldest, LogSortMedicine, LogSortAction}

type LogParams struct {
	Search  string `form:"search"`
	Action  string `form:"action"`
	Range   string `form:"range"`
	Sort    string `form:"sort"`
	Reverse bool   `form:"reverse"`
}

// Validate rejects unknown sort keys and filter values. An empty sort key
// means newest first.
func (p LogParams) Validate() error {
	verr := &domain.ValidationError{}
	if !isAll(p.Action) && !stocklog.Action(p.Action).IsValid() {
		verr.Add(fmt.Sprintf("action %q is not a known action", p.Action))
	}
	if p.Range != "" && !Range(p.Range).IsValid() {
		verr.Add(fmt.Sprintf("range %q is not one of all, today, yesterday, week, month", p.Range))
	}
	if p.Sort != "" {
		checkSort(verr, p.Sort, logSorts)
	}
	return verr.OrNil()
}

type LogRow struct {
	stocklog.Entry
	ActionLabel string `json:"action_label"`
	// Orphaned is set when the medicine no longer exists in the inventory.
	Orphaned bool `json:"orphaned"`
}

type LogSummary struct {
	Total    int                     `json:"total"`
	Today    int                     `json:"today"`
	ByAction map[stocklog.Action]int `json:"by_action"`
}

// Logs filters, orders and summarises the stock log. inventory is only used
// to flag entries whose medicine has been deleted.
func Logs(entries []*stocklog.Entry, inventory []*medicine.Medicine, p LogParams, now time.Time) ([]LogRow, LogSummary, error) {
	if err := p.Validate(); err != nil {
		return nil, LogSummary{}, err
	}

	names := make(map[string]struct{}, len(inventory))
	for _, m := range inventory {
		names[m.Name] = struct{}{}
	}

	m := newMatcher(p.Search)
	window := Range(p.Range)
	rows := make([]LogRow, 0, len(entries))
	for _, e := range entries {
		if !m.match(e.MedicineName, e.Reason, e.PerformedBy, e.PrescriptionRef) {
			continue
		}
		if !isAll(p.Action) && string(e.Action) != p.Action {
			continue
		}
		if !window.Contains(e.Timestamp, now) {
			continue
		}
		_, known := names[e.MedicineName]
		rows = append(rows, LogRow{Entry: *e, ActionLabel: e.Action.Label(), Orphaned: !known})
	}

	stableSort(rows, logLess(p.Sort), p.Reverse)
	return rows, SummarizeLogs(entries, now), nil
}

func logLess(key string) func(a, b LogRow) bool {
	switch key {
	case LogSortOldest:
		return func(a, b LogRow) bool { return a.Timestamp.Before(b.Timestamp) }
	case LogSortMedicine:
		cmp := nameOrder()
		return func(a, b LogRow) bool { return cmp(a.MedicineName, b.MedicineName) < 0 }
	case LogSortAction:
		return func(a, b LogRow) bool { return a.Action < b.Action }
	default:
		return func(a, b LogRow) bool { return a.Timestamp.After(b.Timestamp) }
	}
}

func SummarizeLogs(entries []*stocklog.Entry, now time.Time) LogSummary {
	s := LogSummary{
		Total:    len(entries),
		ByAction: make(map[stocklog.Action]int, len(stocklog.Actions())),
	}
	for _, a := range stocklog.Actions() {
		s.ByAction[a] = 0
	}
	for _, e := range entries {
		if RangeToday.Contains(e.Timestamp, now) {
			s.Today++
		}
		s.ByAction[e.Action]++
	}
	return s
}
