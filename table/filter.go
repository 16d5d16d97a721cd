/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package table

import (
	"strings"
)

// AllValues is the filter value meaning "don't filter on this column".
const AllValues = "All"

// Filter selects rows. Zero values select everything.
type Filter struct {
	// case-insensitive substring of the deck name
	Deck string
	// case-insensitive exact country
	Country string
	// inclusive placement bounds
	MinPlacement *int
	MaxPlacement *int
}

// IsZero reports whether f selects every row.
func (f Filter) IsZero() bool {
	return isAll(f.Deck) && isAll(f.Country) && f.MinPlacement == nil &&
		f.MaxPlacement == nil
}

// Match reports whether r passes the filter.
func (f Filter) Match(r Row) bool {
	if !isAll(f.Deck) &&
		!strings.Contains(strings.ToLower(r.Deck), strings.ToLower(f.Deck)) {
		return false
	}
	if !isAll(f.Country) && !strings.EqualFold(r.Country, f.Country) {
		return false
	}
	if f.MinPlacement != nil && r.Placement < *f.MinPlacement {
		return false
	}
	if f.MaxPlacement != nil && r.Placement > *f.MaxPlacement {
		return false
	}
	return true
}

// Apply returns the matching rows in their original order. rows is not
// modified.
func (f Filter) Apply(rows []Row) []Row {
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

func isAll(v string) bool {
	return v == "" || v == AllValues
}
