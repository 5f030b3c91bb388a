// internal/model/mapping.go
package model

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// MappingEntry maps one source class code onto the canonical taxonomy.
// Confidence is a fixed property of the entry, not recomputed from data.
type MappingEntry struct {
	Target     int     `json:"target"`
	Confidence float64 `json:"confidence"`
	Rationale  string  `json:"rationale"`
}

// ClassMapping is the reconciliation record for one source system (optionally
// scoped to a dataset). The denormalized counters are recomputed from the
// sets on every write and checked; drift rejects the write.
type ClassMapping struct {
	SourceSystem string               `json:"source_system"`
	TargetSystem string               `json:"target_system"`
	DatasetID    *uuid.UUID           `json:"dataset_id,omitempty"`
	Entries      map[int]MappingEntry `json:"entries"`
	Unmapped     []int                `json:"unmapped_classes"`
	AutoMapped   int                  `json:"auto_mapped_count"`
	ManualReview int                  `json:"manual_review_count"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

func NewClassMapping(sourceSystem, targetSystem string) *ClassMapping {
	return &ClassMapping{
		SourceSystem: sourceSystem,
		TargetSystem: targetSystem,
		Entries:      make(map[int]MappingEntry),
		Unmapped:     []int{},
		UpdatedAt:    time.Now().UTC(),
	}
}

// AutoMappedCount is derived from the entry set, never from the stored field.
func (m *ClassMapping) AutoMappedCount() int { return len(m.Entries) }

func (m *ClassMapping) ManualReviewCount() int { return len(m.Unmapped) }

// AutoMappable is true iff no observed class is missing a table entry.
func (m *ClassMapping) AutoMappable() bool { return len(m.Unmapped) == 0 }

// NeedsReview lists mapped codes whose confidence falls below the threshold.
// They stay mapped; the list only flags them for manual review.
func (m *ClassMapping) NeedsReview(threshold float64) []int {
	var codes []int
	for code, e := range m.Entries {
		if e.Confidence < threshold {
			codes = append(codes, code)
		}
	}
	sort.Ints(codes)
	return codes
}

// ApplyManual inserts or overwrites an entry at confidence 1.0 and removes
// the code from the unmapped list.
func (m *ClassMapping) ApplyManual(sourceCode, targetCode int) {
	m.Entries[sourceCode] = MappingEntry{
		Target:     targetCode,
		Confidence: 1.0,
		Rationale:  "manual override",
	}
	m.removeUnmapped(sourceCode)
	m.UpdatedAt = time.Now().UTC()
}

// RemoveEntry deletes the entry and re-adds the code to the unmapped list.
func (m *ClassMapping) RemoveEntry(sourceCode int) error {
	if _, ok := m.Entries[sourceCode]; !ok {
		return Invalid("source_code", "no mapping entry for class %d", sourceCode)
	}
	delete(m.Entries, sourceCode)
	m.addUnmapped(sourceCode)
	m.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *ClassMapping) removeUnmapped(code int) {
	out := m.Unmapped[:0]
	for _, c := range m.Unmapped {
		if c != code {
			out = append(out, c)
		}
	}
	m.Unmapped = out
}

func (m *ClassMapping) addUnmapped(code int) {
	for _, c := range m.Unmapped {
		if c == code {
			return
		}
	}
	m.Unmapped = append(m.Unmapped, code)
	sort.Ints(m.Unmapped)
}

// SyncCounters recomputes the denormalized counters and verifies they match
// the sets. Called after every mutation, before the record is persisted.
func (m *ClassMapping) SyncCounters() error {
	m.AutoMapped = m.AutoMappedCount()
	m.ManualReview = m.ManualReviewCount()
	if m.AutoMapped != len(m.Entries) || m.ManualReview != len(m.Unmapped) {
		return Violated("mapping counters drifted for %s: %d/%d vs %d/%d",
			m.SourceSystem, m.AutoMapped, m.ManualReview, len(m.Entries), len(m.Unmapped))
	}
	for code := range m.Entries {
		for _, u := range m.Unmapped {
			if u == code {
				return Violated("class %d of %s is both mapped and unmapped", code, m.SourceSystem)
			}
		}
	}
	return nil
}

// Clone deep-copies the record so callers can mutate without aliasing.
func (m *ClassMapping) Clone() *ClassMapping {
	c := *m
	c.Entries = make(map[int]MappingEntry, len(m.Entries))
	for k, v := range m.Entries {
		c.Entries[k] = v
	}
	c.Unmapped = append([]int{}, m.Unmapped...)
	if m.DatasetID != nil {
		id := *m.DatasetID
		c.DatasetID = &id
	}
	return &c
}
