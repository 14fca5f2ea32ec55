package fakeapi

import (
	"strconv"
	"sync"

	"github.com/jrsteele09/clinic-console/clinicmodel"
)

// table is an insertion-ordered in-memory collection keyed by sequential ids.
type table[T any] struct {
	mu    sync.RWMutex
	rows  map[string]T
	order []string
	next  int
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[string]T)}
}

func (t *table[T]) insert(build func(id string) T) T {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.next++
	id := strconv.Itoa(t.next)
	row := build(id)
	t.rows[id] = row
	t.order = append(t.order, id)
	return row
}

func (t *table[T]) get(id string) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	row, ok := t.rows[id]
	return row, ok
}

// update applies change to the row under the write lock.
func (t *table[T]) update(id string, change func(*T)) (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	row, ok := t.rows[id]
	if !ok {
		return row, false
	}
	change(&row)
	t.rows[id] = row
	return row, true
}

func (t *table[T]) remove(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	for i, existing := range t.order {
		if existing == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return true
}

// removeWhere deletes every row matching drop and returns how many went.
func (t *table[T]) removeWhere(drop func(T) bool) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	kept := t.order[:0]
	removed := 0
	for _, id := range t.order {
		if drop(t.rows[id]) {
			delete(t.rows, id)
			removed++
			continue
		}
		kept = append(kept, id)
	}
	t.order = kept
	return removed
}

// list returns matching rows in insertion order. A nil keep matches everything.
func (t *table[T]) list(keep func(T) bool) []T {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]T, 0, len(t.order))
	for _, id := range t.order {
		row := t.rows[id]
		if keep == nil || keep(row) {
			out = append(out, row)
		}
	}
	return out
}

func (t *table[T]) count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}

type prescriptionItem struct {
	clinicmodel.PrescriptionItem
	prescriptionID string
}

type store struct {
	patients      *table[clinicmodel.Patient]
	records       *table[clinicmodel.MedicalRecord]
	diagnoses     *table[clinicmodel.Diagnosis]
	appointments  *table[clinicmodel.Appointment]
	prescriptions *table[clinicmodel.Prescription]
	items         *table[prescriptionItem]
	logs          *table[clinicmodel.ActivityLog]

	statsLock sync.RWMutex
	stats     clinicmodel.Stats
}

func newStore() *store {
	return &store{
		patients:      newTable[clinicmodel.Patient](),
		records:       newTable[clinicmodel.MedicalRecord](),
		diagnoses:     newTable[clinicmodel.Diagnosis](),
		appointments:  newTable[clinicmodel.Appointment](),
		prescriptions: newTable[clinicmodel.Prescription](),
		items:         newTable[prescriptionItem](),
		logs:          newTable[clinicmodel.ActivityLog](),
	}
}

func (s *store) itemsOf(prescriptionID string) []clinicmodel.PrescriptionItem {
	rows := s.items.list(func(i prescriptionItem) bool { return i.prescriptionID == prescriptionID })
	out := make([]clinicmodel.PrescriptionItem, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.PrescriptionItem)
	}
	return out
}

func (s *store) latestStats() clinicmodel.Stats {
	s.statsLock.RLock()
	defer s.statsLock.RUnlock()
	return s.stats
}

func (s *store) setStats(stats clinicmodel.Stats) {
	s.statsLock.Lock()
	defer s.statsLock.Unlock()
	s.stats = stats
}
