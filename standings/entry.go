/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package standings recovers tournament results from plain-text standings
// exports. Each competitor spans a block of 4-5 non-blank lines:
//
//	placement
//	name
//	country
//	points  record  OPW%  OOPW%
//	deck
//
// Blocks are separated by arbitrary blank lines and occasional section
// markers. Parsing is best-effort: malformed fields degrade to defaults and
// unrecognizable blocks are skipped rather than failing the whole export.
package standings

// Entry holds one competitor's parsed result.
type Entry struct {
	Placement string
	Name      string
	Country   string
	Points    string
	Wins      int
	Losses    int
	Ties      int
	Record    string
	// nil when the source token was blank or not a number
	OPWPercent  *float64
	OOPWPercent *float64
	Deck        string
}
