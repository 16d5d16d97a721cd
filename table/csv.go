/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package table persists parsed standings as a flat table and answers the
// filter and aggregate queries the dashboard, CLI and bot need.
package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/mikeb26/tcgstandings/standings"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Columns is the header of the persisted table; order and names are relied
// upon by every consumer.
var Columns = []string{
	"Placement",
	"Name",
	"Country",
	"Points",
	"Wins",
	"Losses",
	"Ties",
	"Record",
	"OPW_Percent",
	"OOPW_Percent",
	"Deck",
}

// Row is one reloaded table row with numeric columns converted.
type Row struct {
	Placement   int      `json:"Placement"`
	Name        string   `json:"Name"`
	Country     string   `json:"Country"`
	Points      string   `json:"Points"`
	Wins        int      `json:"Wins"`
	Losses      int      `json:"Losses"`
	Ties        int      `json:"Ties"`
	Record      string   `json:"Record"`
	OPWPercent  *float64 `json:"OPW_Percent"`
	OOPWPercent *float64 `json:"OOPW_Percent"`
	Deck        string   `json:"Deck"`

	// numeric value of Points, nil when Points isn't a number
	pointsValue *float64
}

// PointsValue returns Points as a number and whether it was one.
func (r Row) PointsValue() (float64, bool) {
	if r.pointsValue == nil {
		return 0, false
	}
	return *r.pointsValue, true
}

// NewRow converts a parsed entry into a row, normalizing the deck name for
// display.
func NewRow(e standings.Entry) (Row, error) {
	placement, err := strconv.Atoi(strings.TrimSpace(e.Placement))
	if err != nil {
		return Row{}, fmt.Errorf("invalid Placement %q: %w", e.Placement, err)
	}

	return Row{
		Placement:   placement,
		Name:        e.Name,
		Country:     e.Country,
		Points:      e.Points,
		Wins:        e.Wins,
		Losses:      e.Losses,
		Ties:        e.Ties,
		Record:      e.Record,
		OPWPercent:  e.OPWPercent,
		OOPWPercent: e.OOPWPercent,
		Deck:        DisplayDeck(e.Deck),
		pointsValue: parseNumber(e.Points),
	}, nil
}

// DisplayDeck turns a raw deck token like "charizard-ex" into
// "Charizard Ex".
func DisplayDeck(deck string) string {
	if deck == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(deck, "-", " "))
}

// WriteCSV writes entries with a header row.
func WriteCSV(w io.Writer, entries []standings.Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, e := range entries {
		rec := []string{
			e.Placement,
			e.Name,
			e.Country,
			e.Points,
			strconv.Itoa(e.Wins),
			strconv.Itoa(e.Losses),
			strconv.Itoa(e.Ties),
			e.Record,
			formatPercent(e.OPWPercent),
			formatPercent(e.OOPWPercent),
			e.Deck,
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("failed to write entry %d: %w", i+1, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteRowsCSV writes rows in the same layout as WriteCSV. Decks are
// written in their display form.
func WriteRowsCSV(w io.Writer, rows []Row) error {
	entries := make([]standings.Entry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, r.Entry())
	}
	return WriteCSV(w, entries)
}

// Entry converts r back into the parsed form.
func (r Row) Entry() standings.Entry {
	return standings.Entry{
		Placement:   strconv.Itoa(r.Placement),
		Name:        r.Name,
		Country:     r.Country,
		Points:      r.Points,
		Wins:        r.Wins,
		Losses:      r.Losses,
		Ties:        r.Ties,
		Record:      r.Record,
		OPWPercent:  r.OPWPercent,
		OOPWPercent: r.OOPWPercent,
		Deck:        r.Deck,
	}
}

func formatPercent(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// ReadEntries reads a table written by WriteCSV back into entries exactly as
// they were written.
func ReadEntries(r io.Reader) ([]standings.Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("table is empty")
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	idx, err := columnIndexes(header)
	if err != nil {
		return nil, err
	}

	var entries []standings.Entry
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read line %d: %w", line, err)
		}
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}

		get := func(col string) string {
			i := idx[col]
			if i >= len(rec) {
				return ""
			}
			return rec[i]
		}
		wins, err := atoiCell(get("Wins"))
		if err != nil {
			return nil, fmt.Errorf("line %d: Wins: %w", line, err)
		}
		losses, err := atoiCell(get("Losses"))
		if err != nil {
			return nil, fmt.Errorf("line %d: Losses: %w", line, err)
		}
		ties, err := atoiCell(get("Ties"))
		if err != nil {
			return nil, fmt.Errorf("line %d: Ties: %w", line, err)
		}

		entries = append(entries, standings.Entry{
			Placement:   get("Placement"),
			Name:        get("Name"),
			Country:     get("Country"),
			Points:      get("Points"),
			Wins:        wins,
			Losses:      losses,
			Ties:        ties,
			Record:      get("Record"),
			OPWPercent:  standings.ParsePercentage(get("OPW_Percent")),
			OOPWPercent: standings.ParsePercentage(get("OOPW_Percent")),
			Deck:        get("Deck"),
		})
	}

	return entries, nil
}

// ReadCSV reads a persisted table and converts every entry into a Row.
func ReadCSV(r io.Reader) ([]Row, error) {
	entries, err := ReadEntries(r)
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(entries))
	for i, e := range entries {
		row, err := NewRow(e)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+2, err)
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func columnIndexes(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		// tolerate a UTF-8 BOM written by spreadsheet tools
		h = strings.TrimPrefix(strings.TrimSpace(h), "\ufeff")
		idx[h] = i
	}

	var missing []string
	for _, c := range Columns {
		if _, ok := idx[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("table is missing columns: %v", strings.Join(missing, ", "))
	}

	return idx, nil
}

func parseNumber(s string) *float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func atoiCell(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}
