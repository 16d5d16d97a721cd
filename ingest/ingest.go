/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package ingest reads standings exports from local files or web pages and
// runs them through the standings parser.
package ingest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/mikeb26/tcgstandings/internal"
	"github.com/mikeb26/tcgstandings/standings"
	"golang.org/x/sync/errgroup"
)

const defaultConcurrency = 4

// Source is a file path or an http(s) URL.
type Source string

// IsURL reports whether src should be fetched over http.
func (src Source) IsURL() bool {
	s := strings.ToLower(string(src))
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// looksLikeHTML guesses from the path alone
func (src Source) looksLikeHTML() bool {
	s := string(src)
	if i := strings.IndexAny(s, "?#"); i >= 0 && src.IsURL() {
		s = s[:i]
	}
	switch strings.ToLower(filepath.Ext(s)) {
	case ".html", ".htm":
		return true
	}
	return false
}

// Result is the outcome of parsing one source.
type Result struct {
	Source  Source
	Entries []standings.Entry
}

// Loader fetches and parses sources.
type Loader struct {
	// Client fetches URL sources; http.DefaultClient when nil
	Client *http.Client
	// Concurrency bounds ParseAll; a default is used when <= 0
	Concurrency int
}

func NewLoader(client *http.Client) *Loader {
	return &Loader{Client: client, Concurrency: defaultConcurrency}
}

// Lines returns the standings lines of src. HTML documents are flattened to
// the plain-text layout first.
func (l *Loader) Lines(ctx context.Context, src Source) ([]string, error) {
	var body []byte
	var isHTML bool
	var err error

	if src.IsURL() {
		body, isHTML, err = l.fetch(ctx, src)
	} else {
		body, err = os.ReadFile(string(src))
		if err != nil {
			err = fmt.Errorf("unable to read %v: %w", src, err)
		}
		isHTML = src.looksLikeHTML() || sniffHTML(body)
	}
	if err != nil {
		return nil, err
	}

	rdr := bytes.NewReader(body)
	if isHTML {
		lines, err := standings.LinesFromHTML(rdr)
		if err != nil {
			return nil, fmt.Errorf("unable to parse html from %v: %w", src, err)
		}
		return lines, nil
	}

	lines, err := standings.ReadLines(rdr)
	if err != nil {
		return nil, fmt.Errorf("unable to read lines from %v: %w", src, err)
	}
	return lines, nil
}

// Parse reads and parses a single source.
func (l *Loader) Parse(ctx context.Context, src Source) ([]standings.Entry, error) {
	lines, err := l.Lines(ctx, src)
	if err != nil {
		return nil, err
	}
	return standings.Parse(lines), nil
}

// ParseAll parses srcs concurrently and returns one result per source in
// the order given. The first failure cancels the remaining work.
func (l *Loader) ParseAll(ctx context.Context, srcs []Source) ([]Result, error) {
	results := make([]Result, len(srcs))

	g, ctx := errgroup.WithContext(ctx)
	limit := l.Concurrency
	if limit <= 0 {
		limit = defaultConcurrency
	}
	g.SetLimit(limit)

	for i, src := range srcs {
		g.Go(func() error {
			entries, err := l.Parse(ctx, src)
			if err != nil {
				return err
			}
			results[i] = Result{Source: src, Entries: entries}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// Entries concatenates the entries of results in order.
func Entries(results []Result) []standings.Entry {
	var out []standings.Entry
	for _, r := range results {
		out = append(out, r.Entries...)
	}
	return out
}

func (l *Loader) fetch(ctx context.Context, src Source) ([]byte, bool, error) {
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, "GET", string(src), nil)
	if err != nil {
		return nil, false, fmt.Errorf("unable to create request for %v: %w", src, err)
	}
	req.Header.Set("User-Agent", internal.UserAgent)
	req.Header.Set("Accept", "text/html, text/plain;q=0.9, */*;q=0.5")

	resp, err := client.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("unable to fetch %v: %w", src, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, false, fmt.Errorf("unexpected status %d fetching %v: %s",
			resp.StatusCode, src, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, fmt.Errorf("unable to read %v: %w", src, err)
	}

	isHTML := src.looksLikeHTML()
	if mt, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type")); err == nil {
		isHTML = mt == "text/html" || mt == "application/xhtml+xml"
	} else if !isHTML {
		isHTML = sniffHTML(body)
	}

	return body, isHTML, nil
}

func sniffHTML(body []byte) bool {
	return strings.HasPrefix(http.DetectContentType(body), "text/html")
}
