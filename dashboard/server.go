/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package dashboard serves a standings table over HTTP: a JSON API, CSV and
// XLSX downloads, PNG charts and an HTML overview page. The table is loaded
// anew for every request so a regenerated file is served without a restart.
package dashboard

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/mikeb26/tcgstandings/table"
)

const (
	csvContentType  = "text/csv; charset=utf-8"
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	exportBaseName  = "tournament_standings"
)

// Options configure a Server. Zero values select defaults.
type Options struct {
	Palette     []string
	Metrics     *Metrics
	Logger      *slog.Logger
	CORSOrigins []string
	// ChartLimit bounds the slices/bars per chart
	ChartLimit int
}

type Server struct {
	store       *table.Store
	palette     []string
	metrics     *Metrics
	logger      *slog.Logger
	corsOrigins []string
	chartLimit  int
}

func NewServer(store *table.Store, opts Options) *Server {
	s := &Server{
		store:       store,
		palette:     opts.Palette,
		metrics:     opts.Metrics,
		logger:      opts.Logger,
		corsOrigins: opts.CORSOrigins,
		chartLimit:  opts.ChartLimit,
	}
	if len(s.palette) == 0 {
		s.palette = table.DefaultPalette
	}
	if s.metrics == nil {
		s.metrics = NewMetrics()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if len(s.corsOrigins) == 0 {
		s.corsOrigins = []string{"*"}
	}
	if s.chartLimit <= 0 {
		s.chartLimit = DefaultChartLimit
	}

	return s
}

// Routes returns the server's HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.metrics.Middleware(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.corsOrigins,
		AllowedMethods: []string{"GET", "HEAD", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.NotFound(s.notFoundResponse)
	r.MethodNotAllowed(s.methodNotAllowedResponse)

	r.Get("/", s.handleIndex)
	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/data", s.handleData)
		r.Get("/decks", s.handleDecks)
		r.Get("/winrate-stats", s.handleWinRateStats)
		r.Get("/meta", s.handleMeta)
		r.Get("/export.csv", s.handleExportCSV)
		r.Get("/export.xlsx", s.handleExportXLSX)
	})

	r.Route("/charts", func(r chi.Router) {
		r.Get("/decks.png", s.handleDeckChart)
		r.Get("/countries.png", s.handleCountryChart)
		r.Get("/winrate.png", s.handleWinRateChart)
	})

	return r
}

// loadFiltered loads the table and applies the request's filter. It writes
// the error response itself and returns ok=false on failure.
func (s *Server) loadFiltered(w http.ResponseWriter, r *http.Request) ([]table.Row, bool) {
	f, err := filterFromQuery(r)
	if err != nil {
		s.badRequestResponse(w, r, err)
		return nil, false
	}

	rows, err := s.loadRows()
	if err != nil {
		s.serverErrorResponse(w, r, err)
		return nil, false
	}

	return f.Apply(rows), true
}

func (s *Server) loadRows() ([]table.Row, error) {
	rows, err := s.store.Load()
	if err != nil {
		s.metrics.tableLoadFailed()
		return nil, err
	}
	s.metrics.tableLoaded(len(rows))

	return rows, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, envelope{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	}, nil)
}

func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	rows, ok := s.loadFiltered(w, r)
	if !ok {
		return
	}

	err := writeJSON(w, http.StatusOK, envelope{
		"data":    rows,
		"filters": table.Options(rows),
		"stats":   table.Summarize(rows),
	}, nil)
	if err != nil {
		s.serverErrorResponse(w, r, err)
	}
}

func (s *Server) handleDecks(w http.ResponseWriter, r *http.Request) {
	rows, ok := s.loadFiltered(w, r)
	if !ok {
		return
	}

	if err := writeJSON(w, http.StatusOK, table.DeckStats(rows, s.palette), nil); err != nil {
		s.serverErrorResponse(w, r, err)
	}
}

func (s *Server) handleWinRateStats(w http.ResponseWriter, r *http.Request) {
	rows, ok := s.loadFiltered(w, r)
	if !ok {
		return
	}

	if err := writeJSON(w, http.StatusOK, table.WinRateStats(rows), nil); err != nil {
		s.serverErrorResponse(w, r, err)
	}
}

func (s *Server) handleMeta(w http.ResponseWriter, r *http.Request) {
	md, err := s.store.Metadata()
	if errors.Is(err, table.ErrNoMetadata) {
		s.notFoundResponse(w, r)
		return
	}
	if err != nil {
		s.serverErrorResponse(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, md, nil); err != nil {
		s.serverErrorResponse(w, r, err)
	}
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	rows, ok := s.loadFiltered(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := table.WriteRowsCSV(&buf, rows); err != nil {
		s.serverErrorResponse(w, r, err)
		return
	}
	s.writeAttachment(w, exportBaseName+".csv", csvContentType, buf.Bytes())
}

func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	rows, ok := s.loadFiltered(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := table.WriteXLSX(&buf, rows); err != nil {
		s.serverErrorResponse(w, r, err)
		return
	}
	s.writeAttachment(w, exportBaseName+".xlsx", xlsxContentType, buf.Bytes())
}

func (s *Server) writeAttachment(w http.ResponseWriter, name string, contentType string,
	data []byte) {

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.logger.Warn("failed to write export", "name", name, "error", err)
	}
}

func (s *Server) handleDeckChart(w http.ResponseWriter, r *http.Request) {
	s.serveChart(w, r, func(rows []table.Row) ([]byte, error) {
		return DeckChart(table.DeckStats(rows, s.palette), s.chartLimit)
	})
}

func (s *Server) handleCountryChart(w http.ResponseWriter, r *http.Request) {
	s.serveChart(w, r, func(rows []table.Row) ([]byte, error) {
		return CountryChart(table.CountryCounts(rows), s.chartLimit)
	})
}

func (s *Server) handleWinRateChart(w http.ResponseWriter, r *http.Request) {
	s.serveChart(w, r, func(rows []table.Row) ([]byte, error) {
		return WinRateChart(table.WinRateStats(rows), s.chartLimit)
	})
}

func (s *Server) serveChart(w http.ResponseWriter, r *http.Request,
	draw func(rows []table.Row) ([]byte, error)) {

	rows, ok := s.loadFiltered(w, r)
	if !ok {
		return
	}

	png, err := draw(rows)
	if err != nil {
		s.serverErrorResponse(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(png); err != nil {
		s.logger.Warn("failed to write chart", "path", r.URL.Path, "error", err)
	}
}
