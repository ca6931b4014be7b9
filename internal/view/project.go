// Package view derives the rows shown for a roster. Everything here is pure:
// projecting never mutates the roster, the filter or the selection.
package view

import (
	"strings"

	"github.com/jonathan/talent-console/internal/types"
)

// Predicate is one conjunct of the row filter.
type Predicate func(c types.Candidate) bool

// Projection is what gets rendered.
type Projection struct {
	Rows        []types.Candidate
	AllSelected bool
}

// IDs returns the row ids in display order.
func (p Projection) IDs() []int64 {
	ids := make([]int64, 0, len(p.Rows))
	for _, c := range p.Rows {
		ids = append(ids, c.ID)
	}
	return ids
}

// Project filters roster by the filter state and any extra predicates (all
// conjunctive) and computes the select-all state against the result.
func Project(roster []types.Candidate, filter types.FilterState, selection map[int64]struct{}, extra ...Predicate) Projection {
	preds := append(Predicates(filter), extra...)

	rows := make([]types.Candidate, 0, len(roster))
	for _, c := range roster {
		if matchesAll(c, preds) {
			rows = append(rows, c)
		}
	}

	all := len(rows) > 0
	for _, c := range rows {
		if _, ok := selection[c.ID]; !ok {
			all = false
			break
		}
	}
	return Projection{Rows: rows, AllSelected: all}
}

// Predicates returns the active predicates of a filter state. Inactive
// filters contribute nothing.
func Predicates(filter types.FilterState) []Predicate {
	var preds []Predicate
	if q := strings.ToLower(filter.SearchQuery); q != "" {
		preds = append(preds, func(c types.Candidate) bool {
			return strings.Contains(strings.ToLower(c.Name), q) ||
				strings.Contains(strings.ToLower(c.Email), q)
		})
	}
	if level := filter.ExperienceFilter; level != "" {
		preds = append(preds, func(c types.Candidate) bool {
			return c.ExperienceLevel == level
		})
	}
	if filter.MinScore != nil {
		floor := *filter.MinScore
		preds = append(preds, func(c types.Candidate) bool {
			return c.Score >= floor
		})
	}
	return preds
}

// ShortlistedOnly restricts rows to candidates whose shadow flag is set.
func ShortlistedOnly(shadow map[int64]bool) Predicate {
	return func(c types.Candidate) bool {
		return shadow[c.ID]
	}
}

func matchesAll(c types.Candidate, preds []Predicate) bool {
	for _, p := range preds {
		if !p(c) {
			return false
		}
	}
	return true
}
