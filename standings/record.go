/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package standings

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// dropMarker is appended by some organizers to the record of a player who
// left the event, e.g. "7 - 5 - 0 drop"
const dropMarker = " drop"

var (
	digitRunRe = regexp.MustCompile(`[0-9]+`)
	// plain decimal notation only; no hex, underscores, inf or nan
	decimalRe = regexp.MustCompile(`^[+-]?([0-9]+(\.[0-9]*)?|\.[0-9]+)([eE][+-]?[0-9]+)?$`)
)

// Record is a win/loss/tie record together with the token it came from.
type Record struct {
	Wins     int
	Losses   int
	Ties     int
	Original string
}

// ParseRecord converts a token like "15 - 2 - 1" into its components. With
// only two numbers ties are 0; with fewer than two everything is 0. Original
// always carries the token as given so "7 - 5 - 0 drop" can still be shown.
func ParseRecord(s string) Record {
	if strings.TrimSpace(s) == "" {
		return Record{}
	}

	clean := strings.TrimSpace(strings.ReplaceAll(s, dropMarker, ""))
	runs := digitRunRe.FindAllString(clean, -1)

	rec := Record{Original: s}
	if len(runs) < 2 {
		return rec
	}
	if len(runs) > 3 {
		runs = runs[:3]
	}

	// a component that doesn't fit an int makes the whole record unusable
	vals := make([]int, 3)
	for i, run := range runs {
		v, err := strconv.Atoi(run)
		if err != nil {
			return rec
		}
		vals[i] = v
	}
	rec.Wins, rec.Losses, rec.Ties = vals[0], vals[1], vals[2]

	return rec
}

// ParsePercentage converts a token like "59.82%" into a number. It returns
// nil for a blank or unparseable token so that callers can tell "no data"
// apart from 0%.
func ParsePercentage(s string) *float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, "%", ""))
	if !decimalRe.MatchString(s) {
		return nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}

	return &v
}
