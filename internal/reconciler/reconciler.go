// internal/reconciler/reconciler.go
package reconciler

import (
	"fmt"
	"sort"

	"fuelmap/internal/model"
)

// DefaultReviewThreshold flags mapped classes for manual review when their
// confidence falls below it. Configurable; the tables carry values as low
// as 0.20 that are still considered mapped.
const DefaultReviewThreshold = 0.5

type Reconciler struct {
	systems         map[string]System
	reviewThreshold float64
}

func New(reviewThreshold float64) *Reconciler {
	if reviewThreshold <= 0 {
		reviewThreshold = DefaultReviewThreshold
	}
	return &Reconciler{systems: knownSystems(), reviewThreshold: reviewThreshold}
}

func (r *Reconciler) ReviewThreshold() float64 { return r.reviewThreshold }

// Reconcile maps the observed class codes of a source system onto FBFM40.
// An unknown source system is not an error: it yields an empty table with
// every observed class unmapped, i.e. a full manual-mapping case.
func (r *Reconciler) Reconcile(sourceSystem string, observed []int) *model.ClassMapping {
	m := model.NewClassMapping(sourceSystem, CanonicalSystem)

	codes := dedupeSorted(observed)

	if sourceSystem == CanonicalSystem {
		for _, code := range codes {
			m.Entries[code] = model.MappingEntry{Target: code, Confidence: 1.0, Rationale: "canonical system"}
		}
		_ = m.SyncCounters()
		return m
	}

	sys, known := r.systems[sourceSystem]
	if !known || sys.Mappings == nil {
		m.Unmapped = codes
		_ = m.SyncCounters()
		return m
	}

	for _, code := range codes {
		if entry, ok := sys.Mappings[code]; ok {
			m.Entries[code] = entry
		} else {
			m.Unmapped = append(m.Unmapped, code)
		}
	}
	_ = m.SyncCounters()
	return m
}

// DetectSystem guesses the classification system from observed class values.
func (r *Reconciler) DetectSystem(observed []int) string {
	if len(observed) == 0 {
		return SystemUnknown
	}

	set := make(map[int]bool, len(observed))
	maxVal := observed[0]
	for _, c := range observed {
		set[c] = true
		if c > maxVal {
			maxVal = c
		}
	}

	// Already canonical: all values are FBFM40 classes and at least one is a
	// core fuel model (1..15).
	canonical := r.systems[CanonicalSystem].Classes
	allCanonical, anyCore := true, false
	for c := range set {
		if _, ok := canonical[c]; !ok {
			allCanonical = false
			break
		}
		if c >= 1 && c <= 15 {
			anyCore = true
		}
	}
	if allCanonical && anyCore {
		return CanonicalSystem
	}

	// LANDFIRE-like three-digit codes.
	landfirePatterns := []int{101, 102, 103, 108, 109, 110, 201, 202, 301, 902, 998}
	for c := range set {
		if c > 100 && c < 1000 {
			for _, p := range landfirePatterns {
				if set[p] {
					return SystemLandfire
				}
			}
			break
		}
	}

	// Sentinel needs at least three characteristic codes.
	sentinelPatterns := []int{1, 2, 3, 4, 5, 10, 11, 20, 21, 22, 30, 31, 100, 101, 102, 103}
	hits := 0
	for _, p := range sentinelPatterns {
		if set[p] {
			hits++
		}
	}
	if hits >= 3 {
		return SystemSentinel
	}

	if maxVal > 300 {
		return SystemLandfire
	}
	return SystemUnknown
}

// Suggestion is a rule-based recommendation for an unmapped class.
type Suggestion struct {
	Target     int     `json:"target"`
	Reason     string  `json:"reason"`
	Confidence float64 `json:"confidence"`
}

// Recommendations proposes up to three targets per unmapped class, keyed on
// value ranges: low codes read as grass, middling as shrub/timber, high as
// heavy fuels, 90+ as non-burnable.
func (r *Reconciler) Recommendations(unmapped []int) map[int][]Suggestion {
	out := make(map[int][]Suggestion, len(unmapped))
	for _, code := range unmapped {
		var s []Suggestion
		switch {
		case code >= 90:
			s = []Suggestion{
				{Target: 91, Reason: "High value suggests urban/developed", Confidence: 0.7},
				{Target: 98, Reason: "Could be water", Confidence: 0.6},
				{Target: 99, Reason: "Possible barren land", Confidence: 0.5},
			}
		case code <= 10:
			s = []Suggestion{
				{Target: 1, Reason: "Low value suggests grass fuel", Confidence: 0.6},
				{Target: 2, Reason: "Could be timber-grass mix", Confidence: 0.5},
				{Target: 5, Reason: "Possible low shrub", Confidence: 0.4},
			}
		case code <= 20:
			s = []Suggestion{
				{Target: 4, Reason: "Medium value suggests chaparral", Confidence: 0.6},
				{Target: 6, Reason: "Could be brush/hardwood", Confidence: 0.5},
				{Target: 8, Reason: "Possible timber litter", Confidence: 0.4},
			}
		case code <= 40:
			s = []Suggestion{
				{Target: 10, Reason: "Higher value suggests heavy timber", Confidence: 0.6},
				{Target: 12, Reason: "Could be medium slash", Confidence: 0.5},
				{Target: 13, Reason: "Possible heavy slash", Confidence: 0.4},
			}
		}
		out[code] = s
	}
	return out
}

// MappingReport is the result of validating a proposed mapping table.
type MappingReport struct {
	Valid      bool        `json:"is_valid"`
	Warnings   []string    `json:"warnings"`
	Errors     []string    `json:"errors"`
	Targets    map[int]int `json:"target_distribution"`
	TotalCount int         `json:"total_mappings"`
}

// ValidateMapping checks every proposed target is a real FBFM40 class and
// warns when none of the common fuel classes are targeted.
func (r *Reconciler) ValidateMapping(proposed map[int]int) MappingReport {
	report := MappingReport{Valid: true, Targets: map[int]int{}, TotalCount: len(proposed)}
	canonical := r.systems[CanonicalSystem].Classes

	for source, target := range proposed {
		if _, ok := canonical[target]; !ok {
			report.Errors = append(report.Errors, sprintfInvalidTarget(source, target))
			report.Valid = false
		}
		report.Targets[target]++
	}
	sort.Strings(report.Errors)

	critical := []int{1, 2, 8, 91, 98}
	hasCritical := false
	for _, c := range critical {
		if report.Targets[c] > 0 {
			hasCritical = true
			break
		}
	}
	if len(proposed) > 0 && !hasCritical {
		report.Warnings = append(report.Warnings,
			"no mappings to common fuel classes (grass, timber, urban, water)")
	}
	return report
}

// SystemSummary describes a known system for the catalogue endpoint.
type SystemSummary struct {
	Description       string `json:"description"`
	Source            string `json:"source,omitempty"`
	Canonical         bool   `json:"is_canonical"`
	ClassCount        int    `json:"classes_count"`
	MappingsAvailable bool   `json:"mappings_available"`
}

func (r *Reconciler) Systems() map[string]SystemSummary {
	out := make(map[string]SystemSummary, len(r.systems))
	for name, sys := range r.systems {
		out[name] = SystemSummary{
			Description:       sys.Description,
			Source:            sys.Source,
			Canonical:         sys.Canonical,
			ClassCount:        len(sys.Classes) + len(sys.Mappings),
			MappingsAvailable: sys.Mappings != nil,
		}
	}
	return out
}

func (r *Reconciler) ClassName(target int) string {
	if info, ok := r.systems[CanonicalSystem].Classes[target]; ok {
		return info.Name
	}
	return ""
}

func dedupeSorted(codes []int) []int {
	seen := make(map[int]bool, len(codes))
	out := make([]int, 0, len(codes))
	for _, c := range codes {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	sort.Ints(out)
	return out
}

func sprintfInvalidTarget(source, target int) string {
	return fmt.Sprintf("class %d maps to invalid FBFM40 class %d", source, target)
}
