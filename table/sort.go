/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package table

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// DefaultSortColumn orders rows as they were placed.
const DefaultSortColumn = "Placement"

// SortRows returns a copy of rows ordered by column, one of Columns
// (case-insensitive). Missing percentages sort before any value. Rows that
// compare equal keep their placement order.
func SortRows(rows []Row, column string, descending bool) ([]Row, error) {
	key, ok := rowComparators[strings.ToLower(column)]
	if !ok {
		return nil, fmt.Errorf("unknown sort column %q", column)
	}

	out := slices.Clone(rows)
	slices.SortStableFunc(out, func(a, b Row) int {
		c := key(a, b)
		if descending {
			c = -c
		}
		return c
	})

	return out, nil
}

var rowComparators = map[string]func(a, b Row) int{
	"placement": func(a, b Row) int { return cmp.Compare(a.Placement, b.Placement) },
	"name":      func(a, b Row) int { return strings.Compare(a.Name, b.Name) },
	"country":   func(a, b Row) int { return strings.Compare(a.Country, b.Country) },
	"points":    comparePoints,
	"wins":      func(a, b Row) int { return cmp.Compare(a.Wins, b.Wins) },
	"losses":    func(a, b Row) int { return cmp.Compare(a.Losses, b.Losses) },
	"ties":      func(a, b Row) int { return cmp.Compare(a.Ties, b.Ties) },
	"record":    func(a, b Row) int { return strings.Compare(a.Record, b.Record) },
	"opw_percent": func(a, b Row) int {
		return comparePercent(a.OPWPercent, b.OPWPercent)
	},
	"oopw_percent": func(a, b Row) int {
		return comparePercent(a.OOPWPercent, b.OOPWPercent)
	},
	"deck": func(a, b Row) int { return strings.Compare(a.Deck, b.Deck) },
}

func comparePoints(a, b Row) int {
	av, aok := a.PointsValue()
	bv, bok := b.PointsValue()
	switch {
	case aok && bok:
		return cmp.Compare(av, bv)
	case aok:
		return 1
	case bok:
		return -1
	}
	return strings.Compare(a.Points, b.Points)
}

func comparePercent(a, b *float64) int {
	switch {
	case a != nil && b != nil:
		return cmp.Compare(*a, *b)
	case a != nil:
		return 1
	case b != nil:
		return -1
	}
	return 0
}
