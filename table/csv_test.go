/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package table

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mikeb26/tcgstandings/standings"
	"github.com/stretchr/testify/require"
)

func pct(v float64) *float64 {
	return &v
}

func sampleEntries() []standings.Entry {
	return []standings.Entry{
		{Placement: "1", Name: "Ash Ketchum", Country: "USA", Points: "45",
			Wins: 15, Losses: 2, Ties: 1, Record: "15 - 2 - 1",
			OPWPercent: pct(59.82), OOPWPercent: pct(61.1), Deck: "charizard-ex"},
		{Placement: "2", Name: "Misty, Jr.", Country: "UK", Points: "42",
			Wins: 14, Losses: 3, Ties: 1, Record: "14 - 3 - 1",
			OPWPercent: pct(55), OOPWPercent: nil, Deck: "blastoise-ex"},
		{Placement: "3", Name: "Brock", Country: "usa", Points: "40",
			Wins: 13, Losses: 4, Ties: 1, Record: "13-4-1 drop",
			OPWPercent: nil, OOPWPercent: nil, Deck: ""},
	}
}

func TestCSVRoundTrip(t *testing.T) {
	entries := sampleEntries()

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, entries))

	header, _, _ := strings.Cut(buf.String(), "\n")
	require.Equal(t, strings.Join(Columns, ","), header)

	got, err := ReadEntries(&buf)
	require.NoError(t, err)
	if diff := cmp.Diff(entries, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestCSVEmptyPercentCells(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleEntries()[2:]))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	require.Equal(t, "3,Brock,usa,40,13,4,1,13-4-1 drop,,,", lines[1])
}

func TestReadCSVRows(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleEntries()))

	rows, err := ReadCSV(&buf)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	require.Equal(t, 1, rows[0].Placement)
	require.Equal(t, "Charizard Ex", rows[0].Deck)
	require.Equal(t, "Blastoise Ex", rows[1].Deck)
	require.Equal(t, "", rows[2].Deck)

	v, ok := rows[0].PointsValue()
	require.True(t, ok)
	require.Equal(t, 45.0, v)
}

func TestReadCSVErrors(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"missing columns", "Placement,Name\n1,Ash\n"},
		{"bad placement", strings.Join(Columns, ",") + "\nfirst,Ash,USA,45,1,0,0,1-0-0,,,deck\n"},
		{"bad wins", strings.Join(Columns, ",") + "\n1,Ash,USA,45,x,0,0,1-0-0,,,deck\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tc.input))
			require.Error(t, err)
		})
	}
}

func TestReadCSVToleratesBOM(t *testing.T) {
	input := "\ufeff" + strings.Join(Columns, ",") + "\n1,Ash,USA,45,1,0,0,1-0-0,,,lugia-vstar\n"
	rows, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "Lugia Vstar", rows[0].Deck)
}

func TestDisplayDeck(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"charizard-ex", "Charizard Ex"},
		{"Charizard Ex", "Charizard Ex"},
		{"roaring-moon", "Roaring Moon"},
		{"gardevoir", "Gardevoir"},
	}

	for _, tc := range cases {
		if got := DisplayDeck(tc.in); got != tc.want {
			t.Errorf("DisplayDeck(%q) = %q; want %q", tc.in, got, tc.want)
		}
	}
}

func TestNonNumericPoints(t *testing.T) {
	row, err := NewRow(standings.Entry{Placement: "7", Name: "Gary", Points: "n/a"})
	require.NoError(t, err)
	_, ok := row.PointsValue()
	require.False(t, ok)
}

func TestWriteRowsCSV(t *testing.T) {
	var in bytes.Buffer
	require.NoError(t, WriteCSV(&in, sampleEntries()))
	rows, err := ReadCSV(&in)
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, WriteRowsCSV(&out, rows))

	again, err := ReadCSV(&out)
	require.NoError(t, err)
	require.Equal(t, rows, again)
}
