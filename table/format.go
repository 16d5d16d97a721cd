/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package table

import (
	"fmt"
	"strings"
)

// BuildSummaryOutput formats a summary as aligned "label: value" lines
func BuildSummaryOutput(s Summary) string {
	labels := []string{"Total Players", "Unique Decks", "Top Deck",
		"Top Country", "Avg Placement"}
	values := []string{
		fmt.Sprintf("%d", s.TotalPlayers),
		fmt.Sprintf("%d", s.UniqueDecks),
		s.TopDeck,
		s.TopCountry,
		fmt.Sprintf("%.2f", s.AveragePlacement),
	}
	if s.TotalPlayers == 0 {
		values[4] = notAvailable
	}

	maxL := 0
	for _, l := range labels {
		if len(l) > maxL {
			maxL = len(l)
		}
	}

	var sb strings.Builder
	for i, l := range labels {
		sb.WriteString(fmt.Sprintf("%-*s  %s\n", maxL+1, l+":", values[i]))
	}
	return sb.String()
}

// BuildDeckStatsOutput formats the first limit deck stats (all when
// limit <= 0) into an aligned table
func BuildDeckStatsOutput(stats []DeckStat, limit int) string {
	if len(stats) == 0 {
		return "No decks match the selected filters\n"
	}
	if limit > 0 && len(stats) > limit {
		stats = stats[:limit]
	}

	headers := []string{"Deck", "Players", "Avg Place", "Win Rate", "Avg Pts"}
	var rows [][]string
	for _, s := range stats {
		avgPts := notAvailable
		if s.AvgPoints != nil {
			avgPts = fmt.Sprintf("%.2f", *s.AvgPoints)
		}
		rows = append(rows, []string{
			s.Deck,
			fmt.Sprintf("%d", s.Count),
			fmt.Sprintf("%.2f", s.AvgPlacement),
			fmt.Sprintf("%.2f%%", s.WinRate),
			avgPts,
		})
	}

	return buildAligned(headers, rows)
}

// BuildRowsOutput formats rows as an aligned placement table
func BuildRowsOutput(rows []Row) string {
	if len(rows) == 0 {
		return "No players match the selected filters\n"
	}

	headers := []string{"Place", "Name", "Country", "Pts", "Record", "Deck"}
	var cells [][]string
	for _, r := range rows {
		cells = append(cells, []string{
			fmt.Sprintf("%d.", r.Placement),
			r.Name,
			r.Country,
			r.Points,
			r.Record,
			r.Deck,
		})
	}

	return buildAligned(headers, cells)
}

func buildAligned(headers []string, rows [][]string) string {
	// Compute column widths
	colWidths := make([]int, len(headers))
	for i, h := range headers {
		colWidths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > colWidths[i] {
				colWidths[i] = len(cell)
			}
		}
	}

	var fmtStrBuilder strings.Builder
	for _, w := range colWidths {
		fmtStrBuilder.WriteString(fmt.Sprintf("%%-%ds  ", w))
	}
	fmtStr := fmtStrBuilder.String()

	var sb strings.Builder
	sb.WriteString(strings.TrimRight(fmt.Sprintf(fmtStr, toAnySlice(headers)...), " ") + "\n")
	for _, row := range rows {
		sb.WriteString(strings.TrimRight(fmt.Sprintf(fmtStr, toAnySlice(row)...), " ") + "\n")
	}

	return sb.String()
}

// toAnySlice converts a slice of any type to a slice of any (interface{}).
func toAnySlice[T any](slice []T) []any {
	result := make([]any, len(slice))
	for i, v := range slice {
		result[i] = v
	}
	return result
}
