/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package standings

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const maxLineLen = 1024 * 1024

// ReadLines splits r into lines. Line terminators are removed; everything
// else is left for Parse to trim.
func ReadLines(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineLen)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read lines: %w", err)
	}

	return lines, nil
}

// ParseReader reads all of r and parses it. Only read failures are errors;
// an export with no recognizable entries returns an empty slice.
func ParseReader(r io.Reader) ([]Entry, error) {
	lines, err := ReadLines(r)
	if err != nil {
		return nil, err
	}
	return Parse(lines), nil
}

// minStandingsCells is the cell count of a full standings table row:
// placement, name, country, points, record, OPW%, OOPW%, deck
const minStandingsCells = 8

// LinesFromHTML flattens the table rows of a standings web page into the
// multi-line text layout Parse understands. Full rows become one entry
// block, a header row becomes a header line and anything else (e.g. a
// "Top Cut end" separator row) is passed through as a single line.
func LinesFromHTML(r io.Reader) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}

	var lines []string
	doc.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		var cells []string
		allTh := true
		tr.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, collapseSpace(cell.Text()))
			if !cell.Is("th") {
				allTh = false
			}
		})
		if len(cells) == 0 {
			return
		}

		if allTh || isHeaderRow(cells) || len(cells) < minStandingsCells {
			lines = append(lines, strings.Join(cells, "\t"))
			return
		}

		lines = append(lines,
			cells[0],
			cells[1],
			cells[2],
			strings.Join(cells[3:7], "\t"),
			cells[7],
			"")
	})

	return lines, nil
}

func isHeaderRow(cells []string) bool {
	for _, c := range cells {
		if c == headerMarker {
			return true
		}
	}
	return false
}

// collapseSpace squeezes the whitespace html rendering would collapse anyway
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
