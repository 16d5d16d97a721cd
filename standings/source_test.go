/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package standings

import (
	"strings"
	"testing"
)

func TestParseReader(t *testing.T) {
	text := strings.Join(sampleLines(), "\r\n") + "\r\n"

	entries, err := ParseReader(strings.NewReader(text))
	if err != nil {
		t.Fatalf("ParseReader returned error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[1].Deck != "Blastoise Ex" {
		t.Errorf("Deck = %q; want Blastoise Ex", entries[1].Deck)
	}
}

func TestReadLinesKeepsBlankLines(t *testing.T) {
	lines, err := ReadLines(strings.NewReader("a\n\n b \n"))
	if err != nil {
		t.Fatalf("ReadLines returned error: %v", err)
	}
	want := []string{"a", "", " b "}
	if len(lines) != len(want) {
		t.Fatalf("got %q; want %q", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q; want %q", i, lines[i], want[i])
		}
	}
}

const standingsPage = `<html><body>
<table>
  <thead>
    <tr><th>Placement</th><th>Name</th><th>Country</th><th>Points</th><th>Record</th><th>OPW %</th><th>OOPW %</th><th>Deck</th></tr>
  </thead>
  <tbody>
    <tr><td>1</td><td>Ash
        Ketchum</td><td>USA</td><td>45</td><td>15 - 2 - 1</td><td>59.82%</td><td>61.10%</td><td>Charizard Ex</td></tr>
    <tr><td colspan="8">Top Cut end</td></tr>
    <tr><td>2</td><td>Misty</td><td>UK</td><td>42</td><td>14 - 3 - 1 drop</td><td>55.00%</td><td>58.00%</td><td>Blastoise Ex</td></tr>
  </tbody>
</table>
</body></html>`

func TestLinesFromHTML(t *testing.T) {
	lines, err := LinesFromHTML(strings.NewReader(standingsPage))
	if err != nil {
		t.Fatalf("LinesFromHTML returned error: %v", err)
	}
	if !strings.Contains(lines[0], "Name") {
		t.Errorf("first line should be the header, got %q", lines[0])
	}

	entries := Parse(lines)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d: %q", len(entries), lines)
	}
	if entries[0].Name != "Ash Ketchum" {
		t.Errorf("Name = %q; want collapsed whitespace", entries[0].Name)
	}
	if entries[1].Record != "14 - 3 - 1 drop" || entries[1].Wins != 14 {
		t.Errorf("unexpected record for %+v", entries[1])
	}
	if entries[1].Deck != "Blastoise Ex" {
		t.Errorf("Deck = %q", entries[1].Deck)
	}
}

func TestLinesFromHTMLWithoutTable(t *testing.T) {
	lines, err := LinesFromHTML(strings.NewReader("<p>no standings yet</p>"))
	if err != nil {
		t.Fatalf("LinesFromHTML returned error: %v", err)
	}
	if len(lines) != 0 {
		t.Errorf("expected no lines, got %q", lines)
	}
}
