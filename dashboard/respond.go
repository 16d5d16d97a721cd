/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package dashboard

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/mikeb26/tcgstandings/table"
)

type envelope map[string]any

func writeJSON(w http.ResponseWriter, status int, data any, headers http.Header) error {
	js, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)

	return err
}

func (s *Server) errorResponse(w http.ResponseWriter, r *http.Request, status int,
	message any) {

	if err := writeJSON(w, status, envelope{"error": message}, nil); err != nil {
		s.logger.Error("failed to write error response", "path", r.URL.Path,
			"error", err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (s *Server) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path,
		"error", err)
	message := "the server encountered a problem and could not process your request"
	s.errorResponse(w, r, http.StatusInternalServerError, message)
}

func (s *Server) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	s.errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func (s *Server) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	message := "the requested resource could not be found"
	s.errorResponse(w, r, http.StatusNotFound, message)
}

func (s *Server) methodNotAllowedResponse(w http.ResponseWriter, r *http.Request) {
	message := fmt.Sprintf("the %s method is not supported for this resource", r.Method)
	s.errorResponse(w, r, http.StatusMethodNotAllowed, message)
}

// filterFromQuery reads deck, country, min_placement and max_placement.
func filterFromQuery(r *http.Request) (table.Filter, error) {
	q := r.URL.Query()
	f := table.Filter{
		Deck:    strings.TrimSpace(q.Get("deck")),
		Country: strings.TrimSpace(q.Get("country")),
	}

	var err error
	if f.MinPlacement, err = optionalInt(q.Get("min_placement"), "min_placement"); err != nil {
		return table.Filter{}, err
	}
	if f.MaxPlacement, err = optionalInt(q.Get("max_placement"), "max_placement"); err != nil {
		return table.Filter{}, err
	}

	return f, nil
}

func optionalInt(raw string, name string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be an integer", name)
	}
	return &v, nil
}
