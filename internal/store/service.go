// Package store owns the canonical payment record set and its derived
// views. Every mutation recomputes the filtered view and the flat
// statistics wholesale; there is no incremental invalidation to get
// stale. All access happens on one logical goroutine (the store is not
// safe for concurrent use) and a second Load may overlap a prior one
// without guarding, matching the source system's event-loop model.
package store

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/apbook-dev/apbook/internal/importer"
	"github.com/apbook-dev/apbook/internal/model"
)

// Store holds the canonical record sequence, the active filter, the
// selection set, and the eagerly recomputed derived state.
type Store struct {
	records  []model.PaymentRecord
	filter   model.Filter
	filtered []model.PaymentRecord
	stats    model.Stats
	selected map[string]bool

	// Loading is true while a file load is in flight; Err carries the
	// last load or aggregation failure message.
	Loading bool
	Err     string

	log *slog.Logger
	now func() time.Time
}

// New returns an empty Store.
func New() *Store {
	s := &Store{
		selected: make(map[string]bool),
		log:      slog.Default(),
		now:      time.Now,
	}
	s.recompute()
	return s
}

// Load replaces the canonical set and stamps records that the parser left
// without timestamps.
func (s *Store) Load(records []model.PaymentRecord) {
	now := s.now()
	for i := range records {
		if records[i].CreatedAt.IsZero() {
			records[i].CreatedAt = now
		}
		if records[i].UpdatedAt.IsZero() {
			records[i].UpdatedAt = now
		}
	}
	s.records = records
	s.selected = make(map[string]bool)
	s.recompute()
}

// LoadFile reads and parses an export file into the store. On a failed
// read or a fatal parse the store keeps a single placeholder record so
// consumers never see a fully empty set, and Err carries the message.
func (s *Store) LoadFile(path string, parser *importer.Parser) importer.Result {
	s.Loading = true
	s.Err = ""
	defer func() { s.Loading = false }()

	raw, err := os.ReadFile(path)
	if err != nil {
		s.Err = fmt.Sprintf("loading %s: %v", path, err)
		s.log.Warn("csv load failed", "path", path, "error", err)
		s.Load([]model.PaymentRecord{sampleRecord(s.now())})
		return importer.Result{Errors: []string{s.Err}}
	}

	result := parser.Parse(string(raw))
	for _, e := range result.Errors {
		s.log.Warn("csv parse", "detail", e)
	}
	if result.ParsedRows == 0 && len(result.Errors) > 0 {
		s.Err = result.Errors[0]
		s.Load([]model.PaymentRecord{sampleRecord(s.now())})
		return result
	}

	s.log.Info("csv loaded", "path", path,
		"parsed", result.ParsedRows, "total", result.TotalRows, "errors", len(result.Errors))
	s.Load(result.Records)
	return result
}

// Create appends a record, synthesizing its id and timestamps. The
// caller's ID/CreatedAt/UpdatedAt fields are ignored. Returns the new id.
func (s *Store) Create(record model.PaymentRecord) string {
	now := s.now()
	record.ID = uuid.NewString()
	record.CreatedAt = now
	record.UpdatedAt = now
	s.records = append(s.records, record)
	s.recompute()
	return record.ID
}

// Update merges the set fields of patch into the record with the given
// id and refreshes its UpdatedAt. An unknown id is a no-op; the return
// value reports whether a record was found.
func (s *Store) Update(id string, patch Patch) bool {
	for i := range s.records {
		if s.records[i].ID != id {
			continue
		}
		patch.apply(&s.records[i])
		s.records[i].UpdatedAt = s.now()
		s.recompute()
		return true
	}
	return false
}

// Delete removes the record with the given id and purges it from the
// selection set. Unknown ids are a no-op.
func (s *Store) Delete(id string) {
	kept := s.records[:0]
	for _, r := range s.records {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	s.records = kept
	delete(s.selected, id)
	s.recompute()
}

// DeleteMany removes every record whose id is in ids and clears the
// selection set.
func (s *Store) DeleteMany(ids []string) {
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := s.records[:0]
	for _, r := range s.records {
		if !drop[r.ID] {
			kept = append(kept, r)
		}
	}
	s.records = kept
	s.selected = make(map[string]bool)
	s.recompute()
}

// SetFilter merges the set clauses of f into the active filter and
// re-applies it.
func (s *Store) SetFilter(f model.Filter) {
	s.filter = s.filter.Merge(f)
	s.recompute()
}

// ClearFilter resets the active filter.
func (s *Store) ClearFilter() {
	s.filter = model.Filter{}
	s.recompute()
}

// Select toggles one record's membership in the selection set.
func (s *Store) Select(id string) {
	if s.selected[id] {
		delete(s.selected, id)
		return
	}
	s.selected[id] = true
}

// SelectAll selects every record in the current filtered view.
func (s *Store) SelectAll() {
	s.selected = make(map[string]bool, len(s.filtered))
	for _, r := range s.filtered {
		s.selected[r.ID] = true
	}
}

// ClearSelection empties the selection set.
func (s *Store) ClearSelection() {
	s.selected = make(map[string]bool)
}

// Records returns the canonical record set.
func (s *Store) Records() []model.PaymentRecord { return s.records }

// Filtered returns the canonical set run through the active filter.
func (s *Store) Filtered() []model.PaymentRecord { return s.filtered }

// Stats returns the flat statistics over the full canonical set. The
// statistics never reflect the active filter.
func (s *Store) Stats() model.Stats { return s.stats }

// Filter returns the active filter.
func (s *Store) Filter() model.Filter { return s.filter }

// Selected reports whether a record id is in the selection set.
func (s *Store) Selected(id string) bool { return s.selected[id] }

// SelectedIDs returns the ids currently selected, in record order.
func (s *Store) SelectedIDs() []string {
	var ids []string
	for _, r := range s.records {
		if s.selected[r.ID] {
			ids = append(ids, r.ID)
		}
	}
	return ids
}

func (s *Store) recompute() {
	filtered := make([]model.PaymentRecord, 0, len(s.records))
	for _, r := range s.records {
		if s.filter.Matches(r) {
			filtered = append(filtered, r)
		}
	}
	s.filtered = filtered
	s.stats = model.ComputeStats(s.records)
}
