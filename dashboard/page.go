/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package dashboard

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"github.com/mikeb26/tcgstandings/table"
)

//go:embed templates/index.html
var templateFS embed.FS

var pageTemplate = template.Must(template.New("index.html").Funcs(template.FuncMap{
	"f2": func(v float64) string { return fmt.Sprintf("%.2f", v) },
	"optf": func(v *float64) string {
		if v == nil {
			return ""
		}
		return fmt.Sprintf("%.2f", *v)
	},
}).ParseFS(templateFS, "templates/index.html"))

type sortLink struct {
	Column string
	URL    string
	Arrow  string
}

type pageData struct {
	Deck         string
	Country      string
	MinPlacement string
	MaxPlacement string
	Options      table.FilterOptions
	Summary      table.Summary
	Decks        []table.DeckStat
	Rows         []table.Row
	SortLinks    []sortLink
	// encoded filter parameters for chart and export links
	FilterQuery  template.URL
	Meta         *table.Metadata
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	f, err := filterFromQuery(r)
	if err != nil {
		s.badRequestResponse(w, r, err)
		return
	}

	q := r.URL.Query()
	sortCol := q.Get("sort")
	if sortCol == "" {
		sortCol = table.DefaultSortColumn
	}
	descending := strings.EqualFold(q.Get("order"), "desc")

	all, err := s.loadRows()
	if err != nil {
		s.serverErrorResponse(w, r, err)
		return
	}
	rows := f.Apply(all)
	sorted, err := table.SortRows(rows, sortCol, descending)
	if err != nil {
		s.badRequestResponse(w, r, err)
		return
	}

	data := pageData{
		Deck:         q.Get("deck"),
		Country:      q.Get("country"),
		MinPlacement: q.Get("min_placement"),
		MaxPlacement: q.Get("max_placement"),
		Options:      table.Options(all),
		Summary:      table.Summarize(rows),
		Decks:        table.DeckStats(rows, s.palette),
		Rows:         sorted,
		SortLinks:    sortLinks(q, sortCol, descending),
		FilterQuery:  template.URL(filterQuery(q).Encode()),
	}
	if md, err := s.store.Metadata(); err == nil {
		data.Meta = md
	} else if !errors.Is(err, table.ErrNoMetadata) {
		s.logger.Warn("failed to read metadata", "error", err)
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		s.serverErrorResponse(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

// filterQuery keeps only the filter parameters of q
func filterQuery(q url.Values) url.Values {
	out := url.Values{}
	for _, k := range []string{"deck", "country", "min_placement", "max_placement"} {
		if v := q.Get(k); v != "" {
			out.Set(k, v)
		}
	}
	return out
}

// sortLinks builds a header link per column; following the active column's
// link flips its order
func sortLinks(q url.Values, active string, descending bool) []sortLink {
	links := make([]sortLink, 0, len(table.Columns))
	for _, c := range table.Columns {
		v := filterQuery(q)
		v.Set("sort", c)
		link := sortLink{Column: c}
		if strings.EqualFold(c, active) {
			if descending {
				link.Arrow = "▼"
			} else {
				link.Arrow = "▲"
				v.Set("order", "desc")
			}
		}
		link.URL = "/?" + v.Encode()
		links = append(links, link)
	}
	return links
}
