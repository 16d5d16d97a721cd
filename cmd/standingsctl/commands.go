/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mikeb26/tcgstandings/ingest"
	"github.com/mikeb26/tcgstandings/internal"
	"github.com/mikeb26/tcgstandings/internal/config"
	"github.com/mikeb26/tcgstandings/s3store"
	"github.com/mikeb26/tcgstandings/standings"
	"github.com/mikeb26/tcgstandings/table"
	"github.com/urfave/cli/v2"
)

const (
	csvContentType  = "text/csv; charset=utf-8"
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	metaContentType = "application/json"
)

func newParseCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "parse",
		Usage:     "parse standings exports into a table",
		ArgsUsage: "SOURCE...",
		Description: "Each SOURCE is a plain-text or HTML standings export, either a\n" +
			"local file or an http(s) URL. Entries from all sources are written\n" +
			"to a single table in the order the sources are given.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Value:   cfg.Table.Path,
				Usage:   "write the table to `FILE`",
			},
			&cli.StringFlag{Name: "xlsx", Usage: "also write a spreadsheet to `FILE`"},
			&cli.StringFlag{Name: "event", Usage: "event `NAME` recorded with the table"},
			&cli.StringFlag{Name: "date", Usage: "event `DATE` recorded with the table"},
			&cli.IntFlag{
				Name:  "concurrency",
				Value: 4,
				Usage: "parse at most `N` sources at once",
			},
		},
		Action: func(c *cli.Context) error {
			return runParse(c, cfg)
		},
	}
}

func runParse(c *cli.Context, cfg *config.Config) error {
	if c.NArg() == 0 {
		return errors.New("parse: at least one source file or URL is required")
	}

	srcs := make([]ingest.Source, 0, c.NArg())
	needsHTTP := false
	for _, arg := range c.Args().Slice() {
		src := ingest.Source(arg)
		needsHTTP = needsHTTP || src.IsURL()
		srcs = append(srcs, src)
	}

	eventDate, err := internal.ParseEventDate(c.String("date"))
	if err != nil {
		return fmt.Errorf("parse: invalid --date: %w", err)
	}

	client := http.DefaultClient
	if needsHTTP {
		client = internal.NewCachedHttpClient(c.Context, cfg.S3.Bucket,
			cfg.S3.StoreOptions(), cfg.S3.CacheTTL)
	}
	loader := ingest.NewLoader(client)
	loader.Concurrency = c.Int("concurrency")

	results, err := loader.ParseAll(c.Context, srcs)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	entries := ingest.Entries(results)

	out := c.App.Writer
	if len(results) > 1 {
		for _, r := range results {
			fmt.Fprintf(out, "%v: %d entries\n", r.Source, len(r.Entries))
		}
	}
	if len(entries) == 0 {
		fmt.Fprintln(c.App.ErrWriter, "warning: no valid entries found; check that the "+
			"input matches the standings export layout. Nothing was written.")
		return nil
	}

	md := &table.Metadata{
		Event:       c.String("event"),
		EventDate:   eventDate,
		Sources:     sourceNames(srcs),
		GeneratedAt: time.Now().UTC(),
	}
	store := table.NewStore(c.String("out"))
	if err := store.Save(entries, md); err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	fmt.Fprintf(out, "Parsed %d entries\n", len(entries))
	fmt.Fprintf(out, "Wrote %v\n", store.Path)

	if path := c.String("xlsx"); path != "" {
		rows, err := store.Load()
		if err != nil {
			return fmt.Errorf("parse: %w", err)
		}
		if err := writeXLSXFile(path, rows); err != nil {
			return fmt.Errorf("parse: %w", err)
		}
		fmt.Fprintf(out, "Wrote %v\n", path)
	}

	fmt.Fprint(out, buildParseSummary(entries))

	return nil
}

// buildParseSummary describes the first entry, which heads the standings.
func buildParseSummary(entries []standings.Entry) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "\nTotal players: %d\n", len(entries))
	if len(entries) == 0 {
		return sb.String()
	}
	winner := entries[0]
	country := winner.Country
	if country == "" {
		country = "unknown"
	}
	fmt.Fprintf(&sb, "Winner: %v (%v)\n", winner.Name, country)
	fmt.Fprintf(&sb, "Record: %v\n", winner.Record)
	if winner.Deck != "" {
		fmt.Fprintf(&sb, "Deck: %v\n", table.DisplayDeck(winner.Deck))
	}

	return sb.String()
}

func sourceNames(srcs []ingest.Source) []string {
	names := make([]string, 0, len(srcs))
	for _, s := range srcs {
		names = append(names, string(s))
	}
	return names
}

func newSummaryCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "summary",
		Usage: "print headline numbers for the table",
		Flags: append([]cli.Flag{csvFlag(cfg)}, filterFlags()...),
		Action: func(c *cli.Context) error {
			rows, err := loadFiltered(c)
			if err != nil {
				return err
			}
			fmt.Fprint(c.App.Writer, table.BuildSummaryOutput(table.Summarize(rows)))
			return nil
		},
	}
}

func newDecksCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "decks",
		Usage: "print per-deck performance",
		Flags: append([]cli.Flag{
			csvFlag(cfg),
			&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Usage: "show at most `N` decks"},
			&cli.BoolFlag{Name: "by-winrate", Usage: "rank decks by win rate"},
		}, filterFlags()...),
		Action: func(c *cli.Context) error {
			rows, err := loadFiltered(c)
			if err != nil {
				return err
			}
			stats := table.DeckStats(rows, table.DefaultPalette)
			if c.Bool("by-winrate") {
				stats = table.TopByWinRate(stats, 0)
			}
			fmt.Fprint(c.App.Writer, table.BuildDeckStatsOutput(stats, c.Int("limit")))
			return nil
		},
	}
}

func newPlayersCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "players",
		Usage: "print matching players",
		Flags: append([]cli.Flag{
			csvFlag(cfg),
			&cli.StringFlag{
				Name:  "sort",
				Value: table.DefaultSortColumn,
				Usage: "sort by `COLUMN`",
			},
			&cli.BoolFlag{Name: "desc", Usage: "sort in descending order"},
		}, filterFlags()...),
		Action: func(c *cli.Context) error {
			rows, err := loadFiltered(c)
			if err != nil {
				return err
			}
			rows, err = table.SortRows(rows, c.String("sort"), c.Bool("desc"))
			if err != nil {
				return err
			}
			fmt.Fprint(c.App.Writer, table.BuildRowsOutput(rows))
			return nil
		},
	}
}

func newExportCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "write the (filtered) table as a spreadsheet",
		Flags: append([]cli.Flag{
			csvFlag(cfg),
			&cli.StringFlag{
				Name:     "xlsx",
				Required: true,
				Usage:    "write the spreadsheet to `FILE`",
			},
		}, filterFlags()...),
		Action: func(c *cli.Context) error {
			rows, err := loadFiltered(c)
			if err != nil {
				return err
			}
			if err := writeXLSXFile(c.String("xlsx"), rows); err != nil {
				return fmt.Errorf("export: %w", err)
			}
			fmt.Fprintf(c.App.Writer, "Wrote %d rows to %v\n", len(rows), c.String("xlsx"))
			return nil
		},
	}
}

func newPublishCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "publish",
		Usage: "upload the table, a spreadsheet and its metadata to S3",
		Flags: []cli.Flag{
			csvFlag(cfg),
			&cli.StringFlag{
				Name:  "bucket",
				Value: cfg.S3.Bucket,
				Usage: "destination `BUCKET`",
			},
			&cli.StringFlag{
				Name:  "prefix",
				Value: cfg.S3.Prefix,
				Usage: "key `PREFIX` within the bucket",
			},
		},
		Action: func(c *cli.Context) error {
			if c.String("bucket") == "" {
				return errors.New("publish: --bucket or S3_BUCKET is required")
			}
			store := s3store.New(c.Context, c.String("bucket"), cfg.S3.StoreOptions())
			if err := store.Init(); err != nil {
				return err
			}
			return publish(c.Context, c.App.Writer, store, table.NewStore(c.String("csv")),
				c.String("prefix"))
		},
	}
}

// objectPutter is the part of s3store.Store publish needs
type objectPutter interface {
	Put(ctx context.Context, key string, contentType string, body io.Reader) (string, error)
}

func publish(ctx context.Context, w io.Writer, dst objectPutter, src *table.Store,
	prefix string) error {

	uploads, err := publishArtifacts(src)
	if err != nil {
		return fmt.Errorf("publish: %w", err)
	}

	for _, u := range uploads {
		key := s3store.PublishKey(prefix, u.name)
		loc, err := dst.Put(ctx, key, u.contentType, bytes.NewReader(u.data))
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Uploaded %v\n", loc)
	}

	return nil
}

type artifact struct {
	name        string
	contentType string
	data        []byte
}

// publishArtifacts collects the table, a spreadsheet rendering of it and the
// metadata sidecar when one exists.
func publishArtifacts(src *table.Store) ([]artifact, error) {
	raw, err := os.ReadFile(src.Path)
	if err != nil {
		return nil, err
	}
	rows, err := src.Load()
	if err != nil {
		return nil, err
	}
	var xlsx bytes.Buffer
	if err := table.WriteXLSX(&xlsx, rows); err != nil {
		return nil, err
	}

	base := strings.TrimSuffix(filepath.Base(src.Path), filepath.Ext(src.Path))
	artifacts := []artifact{
		{name: filepath.Base(src.Path), contentType: csvContentType, data: raw},
		{name: base + ".xlsx", contentType: xlsxContentType, data: xlsx.Bytes()},
	}

	meta, err := os.ReadFile(table.MetadataPath(src.Path))
	switch {
	case err == nil:
		artifacts = append(artifacts, artifact{
			name:        filepath.Base(table.MetadataPath(src.Path)),
			contentType: metaContentType,
			data:        meta,
		})
	case !errors.Is(err, os.ErrNotExist):
		return nil, err
	}

	return artifacts, nil
}

// loadFiltered loads --csv and applies the filter flags.
func loadFiltered(c *cli.Context) ([]table.Row, error) {
	rows, err := table.NewStore(c.String("csv")).Load()
	if err != nil {
		return nil, err
	}
	return filterFromFlags(c).Apply(rows), nil
}

func filterFromFlags(c *cli.Context) table.Filter {
	f := table.Filter{
		Deck:    c.String("deck"),
		Country: c.String("country"),
	}
	if c.IsSet("min-placement") {
		v := c.Int("min-placement")
		f.MinPlacement = &v
	}
	if c.IsSet("max-placement") {
		v := c.Int("max-placement")
		f.MaxPlacement = &v
	}
	return f
}

func writeXLSXFile(path string, rows []table.Row) error {
	var buf bytes.Buffer
	if err := table.WriteXLSX(&buf, rows); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %v: %w", path, err)
	}
	return nil
}
