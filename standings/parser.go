/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package standings

import (
	"regexp"
	"strings"
)

const headerMarker = "Name"

var sectionMarkers = []string{"Top Cut end", "Day 2 end"}

var (
	placementRe  = regexp.MustCompile(`^[0-9]+$`)
	statsFieldRe = regexp.MustCompile(`\t+|\s{2,}`)
)

type state int

const (
	stateSeekingHeader state = iota
	stateSeekingEntryStart
	stateName
	stateCountry
	stateStats
	stateDeck
)

func (s state) String() string {
	switch s {
	case stateSeekingHeader:
		return "seekingHeader"
	case stateSeekingEntryStart:
		return "seekingEntryStart"
	case stateName:
		return "name"
	case stateCountry:
		return "country"
	case stateStats:
		return "stats"
	case stateDeck:
		return "deck"
	default:
		return "?"
	}
}

// block accumulates the lines of the entry currently being recognized
type block struct {
	placement string
	name      string
	country   string
	stats     string
}

type recognizer struct {
	lines   []string
	pos     int
	state   state
	cur     block
	entries []Entry
}

// Parse scans lines once, front to back, and returns the entries it could
// recover in the order they appear. Lines before and including the first
// header line (one containing "Name") are ignored; without a header nothing
// is returned. A block cut short before its stats line is dropped; a block
// cut short before its deck line is kept with an empty deck.
func Parse(lines []string) []Entry {
	r := &recognizer{lines: lines, state: stateSeekingHeader}
	for r.pos < len(r.lines) {
		r.step()
	}
	if r.state == stateDeck {
		r.emit("")
	}

	return r.entries
}

// step consumes exactly one line
func (r *recognizer) step() {
	raw := r.lines[r.pos]
	line := strings.TrimSpace(raw)
	r.pos++

	switch r.state {
	case stateSeekingHeader:
		if strings.Contains(raw, headerMarker) {
			r.state = stateSeekingEntryStart
		}
	case stateSeekingEntryStart:
		if line == "" || isSectionMarker(line) {
			return
		}
		if placementRe.MatchString(line) {
			r.cur = block{placement: line}
			r.state = stateName
		}
		// anything else is a stray annotation line
	case stateName:
		if line != "" {
			r.cur.name = line
			r.state = stateCountry
		}
	case stateCountry:
		if line != "" {
			r.cur.country = line
			r.state = stateStats
		}
	case stateStats:
		if line != "" {
			r.cur.stats = line
			r.state = stateDeck
		}
	case stateDeck:
		if line != "" {
			r.emit(line)
		}
	}
}

// emit finishes the current block; blocks whose stats line has fewer than
// four fields are discarded
func (r *recognizer) emit(deck string) {
	r.state = stateSeekingEntryStart

	fields := splitStats(r.cur.stats)
	if len(fields) < 4 {
		return
	}

	rec := ParseRecord(fields[1])
	r.entries = append(r.entries, Entry{
		Placement:   r.cur.placement,
		Name:        r.cur.name,
		Country:     r.cur.country,
		Points:      fields[0],
		Wins:        rec.Wins,
		Losses:      rec.Losses,
		Ties:        rec.Ties,
		Record:      rec.Original,
		OPWPercent:  ParsePercentage(fields[2]),
		OOPWPercent: ParsePercentage(fields[3]),
		Deck:        deck,
	})
}

func isSectionMarker(line string) bool {
	for _, m := range sectionMarkers {
		if strings.Contains(line, m) {
			return true
		}
	}
	return false
}

// splitStats splits a stats line on tabs or runs of 2+ spaces
func splitStats(line string) []string {
	var out []string
	for _, p := range statsFieldRe.Split(line, -1) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
