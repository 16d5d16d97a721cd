/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package table

import (
	"fmt"
	"math"
	"sort"
)

const notAvailable = "N/A"

// DefaultPalette is the colour cycle used for deck charts.
var DefaultPalette = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
	"#aec7e8", "#ffbb78", "#98df8a", "#ff9896", "#c5b0d5",
	"#c49c94", "#f7b6d2", "#c7c7c7", "#dbdb8d", "#9edae5",
}

// Summary holds the headline numbers for a set of rows.
type Summary struct {
	TotalPlayers     int     `json:"total_players"`
	UniqueDecks      int     `json:"unique_decks"`
	TopDeck          string  `json:"top_deck"`
	TopCountry       string  `json:"top_country"`
	AveragePlacement float64 `json:"average_placement"`
}

// Summarize computes the summary of rows. Rows without a deck or country
// are counted as players but never as a deck or country.
func Summarize(rows []Row) Summary {
	s := Summary{
		TotalPlayers: len(rows),
		TopDeck:      notAvailable,
		TopCountry:   notAvailable,
	}
	if len(rows) == 0 {
		return s
	}

	decks := make([]string, 0, len(rows))
	countries := make([]string, 0, len(rows))
	placementSum := 0
	for _, r := range rows {
		decks = append(decks, r.Deck)
		countries = append(countries, r.Country)
		placementSum += r.Placement
	}

	s.UniqueDecks = len(distinct(decks))
	if top, ok := mode(decks); ok {
		s.TopDeck = top
	}
	if top, ok := mode(countries); ok {
		s.TopCountry = top
	}
	s.AveragePlacement = round2(float64(placementSum) / float64(len(rows)))

	return s
}

// FilterOptions lists the values a client may filter on.
type FilterOptions struct {
	Decks        []string `json:"decks"`
	Countries    []string `json:"countries"`
	MinPlacement int      `json:"min_placement"`
	MaxPlacement int      `json:"max_placement"`
}

// Options returns "All" plus the sorted distinct decks and countries of
// rows, and the placement range a filter can span.
func Options(rows []Row) FilterOptions {
	opts := FilterOptions{MinPlacement: 1}

	var decks, countries []string
	for _, r := range rows {
		decks = append(decks, r.Deck)
		countries = append(countries, r.Country)
		if r.Placement > opts.MaxPlacement {
			opts.MaxPlacement = r.Placement
		}
	}

	opts.Decks = append([]string{AllValues}, distinct(decks)...)
	opts.Countries = append([]string{AllValues}, distinct(countries)...)

	return opts
}

// DeckStat is the per-deck performance summary.
type DeckStat struct {
	Deck         string   `json:"Deck"`
	Count        int      `json:"count"`
	AvgPlacement float64  `json:"avg_placement"`
	AvgPoints    *float64 `json:"avg_points"`
	TotalWins    int      `json:"total_wins"`
	TotalLosses  int      `json:"total_losses"`
	TotalTies    int      `json:"total_ties"`
	AvgWins      float64  `json:"avg_wins"`
	AvgLosses    float64  `json:"avg_losses"`
	TotalMatches int      `json:"total_matches"`
	WinRate      float64  `json:"win_rate"`
	Color        string   `json:"color"`
}

// WinRateStat is the per-deck win-rate summary including placement
// extremes.
type WinRateStat struct {
	Deck           string   `json:"Deck"`
	PlayerCount    int      `json:"player_count"`
	TotalWins      int      `json:"total_wins"`
	TotalLosses    int      `json:"total_losses"`
	TotalTies      int      `json:"total_ties"`
	AvgPlacement   float64  `json:"avg_placement"`
	BestPlacement  int      `json:"best_placement"`
	WorstPlacement int      `json:"worst_placement"`
	AvgPoints      *float64 `json:"avg_points"`
	TotalMatches   int      `json:"total_matches"`
	WinRate        float64  `json:"win_rate"`
	Color          string   `json:"color"`
}

// deckGroup accumulates one deck's rows
type deckGroup struct {
	deck         string
	count        int
	placementSum int
	best, worst  int
	pointsSum    float64
	pointsCount  int
	wins         int
	losses       int
	ties         int
}

func (g *deckGroup) avgPoints() *float64 {
	if g.pointsCount == 0 {
		return nil
	}
	v := g.pointsSum / float64(g.pointsCount)
	return &v
}

func (g *deckGroup) matches() int {
	return g.wins + g.losses + g.ties
}

// groupByDeck groups rows with a deck, returning the groups sorted by deck
// name
func groupByDeck(rows []Row) []*deckGroup {
	byDeck := make(map[string]*deckGroup)
	for _, r := range rows {
		if r.Deck == "" {
			continue
		}
		g, ok := byDeck[r.Deck]
		if !ok {
			g = &deckGroup{deck: r.Deck, best: r.Placement, worst: r.Placement}
			byDeck[r.Deck] = g
		}
		g.count++
		g.placementSum += r.Placement
		if r.Placement < g.best {
			g.best = r.Placement
		}
		if r.Placement > g.worst {
			g.worst = r.Placement
		}
		if v, ok := r.PointsValue(); ok {
			g.pointsSum += v
			g.pointsCount++
		}
		g.wins += r.Wins
		g.losses += r.Losses
		g.ties += r.Ties
	}

	groups := make([]*deckGroup, 0, len(byDeck))
	for _, g := range byDeck {
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].deck < groups[j].deck
	})

	return groups
}

// WinRate returns (wins + ties/2) / matches as a percentage, or 0 when no
// matches were played.
func WinRate(wins, losses, ties int) float64 {
	total := wins + losses + ties
	if total == 0 {
		return 0
	}
	return (float64(wins) + 0.5*float64(ties)) / float64(total) * 100
}

// DeckStats aggregates rows by deck, most played first; decks with equal
// counts are ordered by name. Colours cycle through palette.
func DeckStats(rows []Row, palette []string) []DeckStat {
	groups := groupByDeck(rows)
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].count > groups[j].count
	})

	stats := make([]DeckStat, 0, len(groups))
	for i, g := range groups {
		n := float64(g.count)
		stats = append(stats, DeckStat{
			Deck:         g.deck,
			Count:        g.count,
			AvgPlacement: float64(g.placementSum) / n,
			AvgPoints:    g.avgPoints(),
			TotalWins:    g.wins,
			TotalLosses:  g.losses,
			TotalTies:    g.ties,
			AvgWins:      float64(g.wins) / n,
			AvgLosses:    float64(g.losses) / n,
			TotalMatches: g.matches(),
			WinRate:      WinRate(g.wins, g.losses, g.ties),
			Color:        PaletteColor(palette, i),
		})
	}

	return stats
}

// WinRateStats aggregates rows by deck in deck-name order. Each deck is
// coloured on a red to green scale by its average placement relative to
// the other decks.
func WinRateStats(rows []Row) []WinRateStat {
	groups := groupByDeck(rows)

	stats := make([]WinRateStat, 0, len(groups))
	minAvg, maxAvg := math.Inf(1), math.Inf(-1)
	for _, g := range groups {
		avg := float64(g.placementSum) / float64(g.count)
		minAvg = math.Min(minAvg, avg)
		maxAvg = math.Max(maxAvg, avg)
		stats = append(stats, WinRateStat{
			Deck:           g.deck,
			PlayerCount:    g.count,
			TotalWins:      g.wins,
			TotalLosses:    g.losses,
			TotalTies:      g.ties,
			AvgPlacement:   avg,
			BestPlacement:  g.best,
			WorstPlacement: g.worst,
			AvgPoints:      g.avgPoints(),
			TotalMatches:   g.matches(),
			WinRate:        WinRate(g.wins, g.losses, g.ties),
		})
	}
	for i := range stats {
		stats[i].Color = PlacementColor(stats[i].AvgPlacement, minAvg, maxAvg)
	}

	return stats
}

// PaletteColor returns the i'th colour of palette, wrapping around.
func PaletteColor(palette []string, i int) string {
	if len(palette) == 0 {
		return ""
	}
	if i < 0 {
		i = -i
	}
	return palette[i%len(palette)]
}

// PlacementColor maps an average placement onto red (worst, max) through
// green (best, min).
func PlacementColor(placement, min, max float64) string {
	if math.IsNaN(placement) {
		return "#CCCCCC"
	}
	span := max - min
	if span <= 0 {
		span = 1
	}
	normalized := (max - placement) / span
	r := int(255 * (1 - normalized))
	g := int(255 * normalized)
	return fmt.Sprintf("rgb(%d,%d,%d)", r, g, 0)
}

// mode returns the most frequent non-empty value, preferring the value
// seen first on ties
func mode(values []string) (string, bool) {
	counts := make(map[string]int)
	top := 0
	for _, v := range values {
		if v == "" {
			continue
		}
		counts[v]++
		top = max(top, counts[v])
	}
	for _, v := range values {
		if v != "" && counts[v] == top {
			return v, true
		}
	}
	return "", false
}

// distinct returns the sorted distinct non-empty values
func distinct(values []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Count is how often a value occurs.
type Count struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// CountryCounts counts rows per country, most frequent first.
func CountryCounts(rows []Row) []Count {
	values := make([]string, 0, len(rows))
	for _, r := range rows {
		values = append(values, r.Country)
	}
	return valueCounts(values)
}

// DeckCounts counts rows per deck, most frequent first.
func DeckCounts(rows []Row) []Count {
	values := make([]string, 0, len(rows))
	for _, r := range rows {
		values = append(values, r.Deck)
	}
	return valueCounts(values)
}

// TopByWinRate returns up to n (all when n <= 0) deck stats with the
// highest win rate, best first. stats is not modified.
func TopByWinRate(stats []DeckStat, n int) []DeckStat {
	out := append([]DeckStat(nil), stats...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].WinRate > out[j].WinRate
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// valueCounts orders by count descending, then value
func valueCounts(values []string) []Count {
	counts := make(map[string]int)
	for _, v := range values {
		if v != "" {
			counts[v]++
		}
	}

	out := make([]Count, 0, len(counts))
	for v, n := range counts {
		out = append(out, Count{Value: v, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})

	return out
}
