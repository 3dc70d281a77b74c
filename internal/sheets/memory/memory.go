// Package memory keeps exported reports in process memory. It backs local
// development and tests when no spreadsheet is configured.
package memory

import (
	"context"
	"sort"
	"sync"

	"budgetflow/internal/core"
	ports "budgetflow/internal/sheets"
)

var _ ports.ReportBackend = (*Store)(nil)

type Store struct {
	mu     sync.Mutex
	sheets map[string][][]string
	writes int
}

func New() *Store {
	return &Store{sheets: make(map[string][][]string)}
}

// WriteMonthReport replaces the month's tab and returns a synthetic reference.
func (s *Store) WriteMonthReport(_ context.Context, householdID int64, ym core.YearMonth, summary core.PeriodSummary, sbnl core.SBNLReport) (string, error) {
	name := ports.SheetName(householdID, ym)
	rows := ports.BuildReportRows(householdID, ym, summary, sbnl)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sheets[name] = rows
	s.writes++
	return "mem:" + name, nil
}

func (s *Store) ReadMonthReport(_ context.Context, householdID int64, ym core.YearMonth) ([][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, ok := s.sheets[ports.SheetName(householdID, ym)]
	if !ok {
		return nil, ports.ErrReportNotFound
	}
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = append([]string(nil), r...)
	}
	return out, nil
}

// Sheets lists the tab names written so far, sorted.
func (s *Store) Sheets() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.sheets))
	for name := range s.sheets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Writes counts WriteMonthReport calls, including overwrites.
func (s *Store) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}
