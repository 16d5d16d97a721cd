/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mikeb26/tcgstandings/internal/config"
	"github.com/mikeb26/tcgstandings/standings"
	"github.com/mikeb26/tcgstandings/table"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const exportText = `Name	Country	Stats
1
Ash Ketchum
USA
45	15 - 2 - 1	59.82%	61.10%
charizard-ex

2
Misty
UK
42	14 - 3 - 1	55.00%	53.00%
blastoise-ex

3
Gary
JP
39	12 - 6 - 0	52.50%	50.00%
charizard-ex
`

type testEnv struct {
	dir    string
	cfg    *config.Config
	stdout bytes.Buffer
	stderr bytes.Buffer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	return &testEnv{
		dir: dir,
		cfg: &config.Config{
			Table: config.TableConfig{Path: filepath.Join(dir, "standings.csv")},
		},
	}
}

func (e *testEnv) path(name string) string {
	return filepath.Join(e.dir, name)
}

func (e *testEnv) run(args ...string) error {
	e.stdout.Reset()
	e.stderr.Reset()
	app := newApp(e.cfg)
	app.Writer = &e.stdout
	app.ErrWriter = &e.stderr
	return app.Run(append([]string{"standingsctl"}, args...))
}

func (e *testEnv) parseSample(t *testing.T) {
	t.Helper()
	src := e.path("export.txt")
	require.NoError(t, os.WriteFile(src, []byte(exportText), 0o644))
	require.NoError(t, e.run("parse", src))
}

func TestParseCommand(t *testing.T) {
	env := newTestEnv(t)
	src := env.path("export.txt")
	require.NoError(t, os.WriteFile(src, []byte(exportText), 0o644))
	out := env.path("out.csv")
	xlsx := env.path("out.xlsx")

	err := env.run("parse", "--out", out, "--xlsx", xlsx,
		"--event", "Spring Regional", "--date", "2026-04-18", src)
	require.NoError(t, err)

	stdout := env.stdout.String()
	require.Contains(t, stdout, "Parsed 3 entries")
	require.Contains(t, stdout, "Winner: Ash Ketchum (USA)")
	require.Contains(t, stdout, "Record: 15 - 2 - 1")
	require.Contains(t, stdout, "Deck: Charizard Ex")

	store := table.NewStore(out)
	rows, err := store.Load()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, "Gary", rows[2].Name)

	md, err := store.Metadata()
	require.NoError(t, err)
	require.Equal(t, "Spring Regional", md.Event)
	require.Equal(t, 2026, md.EventDate.Year())
	require.Equal(t, time.April, md.EventDate.Month())
	require.Equal(t, []string{src}, md.Sources)
	require.Equal(t, 3, md.Entries)

	f, err := excelize.OpenFile(xlsx)
	require.NoError(t, err)
	defer f.Close()
	sheetRows, err := f.GetRows("Standings")
	require.NoError(t, err)
	require.Len(t, sheetRows, 4)
}

func TestParseMultipleSources(t *testing.T) {
	env := newTestEnv(t)
	first := env.path("a.txt")
	second := env.path("b.txt")
	require.NoError(t, os.WriteFile(first, []byte(exportText), 0o644))
	require.NoError(t, os.WriteFile(second, []byte(exportText), 0o644))

	require.NoError(t, env.run("parse", "--concurrency", "1", first, second))
	require.Contains(t, env.stdout.String(), fmt.Sprintf("%v: 3 entries", second))
	require.Contains(t, env.stdout.String(), "Parsed 6 entries")
}

func TestParseMissingSource(t *testing.T) {
	env := newTestEnv(t)

	err := env.run("parse", env.path("nope.txt"))
	require.ErrorIs(t, err, os.ErrNotExist)
	_, err = os.Stat(env.cfg.Table.Path)
	require.ErrorIs(t, err, os.ErrNotExist)

	require.Error(t, env.run("parse"))
}

func TestParseNoEntries(t *testing.T) {
	env := newTestEnv(t)
	src := env.path("empty.txt")
	require.NoError(t, os.WriteFile(src, []byte("Name\tCountry\n\nnothing here\n"), 0o644))

	require.NoError(t, env.run("parse", src))
	require.Contains(t, env.stderr.String(), "warning: no valid entries found")
	_, err := os.Stat(env.cfg.Table.Path)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseBadDate(t *testing.T) {
	env := newTestEnv(t)
	src := env.path("export.txt")
	require.NoError(t, os.WriteFile(src, []byte(exportText), 0o644))

	err := env.run("parse", "--date", "the day after tomorrow", src)
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid --date")
	require.Contains(t, err.Error(), "the day after tomorrow")
}

func TestSummaryCommand(t *testing.T) {
	env := newTestEnv(t)
	env.parseSample(t)

	require.NoError(t, env.run("summary"))
	out := env.stdout.String()
	require.Contains(t, out, "Total Players:  3")
	require.Contains(t, out, "Top Deck:       Charizard Ex")
	require.Contains(t, out, "Avg Placement:  2.00")

	require.NoError(t, env.run("summary", "--country", "uk"))
	require.Contains(t, env.stdout.String(), "Total Players:  1")

	require.NoError(t, env.run("summary", "--deck", "mew"))
	require.Contains(t, env.stdout.String(), "Avg Placement:  N/A")
}

func TestDecksCommand(t *testing.T) {
	env := newTestEnv(t)
	env.parseSample(t)

	require.NoError(t, env.run("decks"))
	lines := strings.Split(strings.TrimSpace(env.stdout.String()), "\n")
	require.Len(t, lines, 3)
	require.True(t, strings.HasPrefix(lines[0], "Deck"))
	require.True(t, strings.HasPrefix(lines[1], "Charizard Ex"))

	require.NoError(t, env.run("decks", "--by-winrate", "--limit", "1"))
	lines = strings.Split(strings.TrimSpace(env.stdout.String()), "\n")
	require.Len(t, lines, 2)
	require.True(t, strings.HasPrefix(lines[1], "Blastoise Ex"))

	require.NoError(t, env.run("decks", "--min-placement", "5"))
	require.Equal(t, "No decks match the selected filters\n", env.stdout.String())
}

func TestPlayersCommand(t *testing.T) {
	env := newTestEnv(t)
	env.parseSample(t)

	require.NoError(t, env.run("players", "--sort", "name", "--desc", "--max-placement", "2"))
	lines := strings.Split(strings.TrimSpace(env.stdout.String()), "\n")
	require.Len(t, lines, 3)
	require.True(t, strings.HasPrefix(lines[1], "2."))
	require.True(t, strings.HasPrefix(lines[2], "1."))

	require.Error(t, env.run("players", "--sort", "Shoe Size"))
}

func TestExportCommand(t *testing.T) {
	env := newTestEnv(t)
	env.parseSample(t)
	xlsx := env.path("decks.xlsx")

	require.NoError(t, env.run("export", "--xlsx", xlsx, "--deck", "charizard"))
	require.Contains(t, env.stdout.String(), "Wrote 2 rows")

	f, err := excelize.OpenFile(xlsx)
	require.NoError(t, err)
	defer f.Close()
	sheetRows, err := f.GetRows("Standings")
	require.NoError(t, err)
	require.Len(t, sheetRows, 3)

	require.Error(t, env.run("export"))
}

func TestPublishRequiresBucket(t *testing.T) {
	env := newTestEnv(t)
	env.parseSample(t)

	err := env.run("publish")
	require.Error(t, err)
	require.Contains(t, err.Error(), "--bucket")
}

type fakePutter struct {
	keys         []string
	contentTypes []string
	sizes        []int
}

func (p *fakePutter) Put(ctx context.Context, key string, contentType string,
	body io.Reader) (string, error) {

	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	p.keys = append(p.keys, key)
	p.contentTypes = append(p.contentTypes, contentType)
	p.sizes = append(p.sizes, len(data))
	return "s3://bucket/" + key, nil
}

func TestPublish(t *testing.T) {
	env := newTestEnv(t)
	src := env.path("export.txt")
	require.NoError(t, os.WriteFile(src, []byte(exportText), 0o644))
	require.NoError(t, env.run("parse", "--event", "Cup", src))

	var out bytes.Buffer
	dst := &fakePutter{}
	store := table.NewStore(env.cfg.Table.Path)
	require.NoError(t, publish(context.Background(), &out, dst, store, "/events/2026/"))

	require.Equal(t, []string{
		"events/2026/standings.csv",
		"events/2026/standings.xlsx",
		"events/2026/standings.csv.meta.json",
	}, dst.keys)
	require.Equal(t, []string{csvContentType, xlsxContentType, metaContentType},
		dst.contentTypes)
	for _, n := range dst.sizes {
		require.Positive(t, n)
	}
	require.Contains(t, out.String(), "Uploaded s3://bucket/events/2026/standings.xlsx")
}

func TestPublishWithoutMetadata(t *testing.T) {
	env := newTestEnv(t)
	store := table.NewStore(env.cfg.Table.Path)
	require.NoError(t, store.Save([]standings.Entry{
		{Placement: "1", Name: "Solo", Country: "CA", Points: "3",
			Wins: 1, Record: "1 - 0 - 0"},
	}, nil))

	dst := &fakePutter{}
	require.NoError(t, publish(context.Background(), io.Discard, dst, store, ""))
	require.Equal(t, []string{"standings.csv", "standings.xlsx"}, dst.keys)

	missing := table.NewStore(env.path("missing.csv"))
	require.Error(t, publish(context.Background(), io.Discard, dst, missing, ""))
}

func TestBuildParseSummary(t *testing.T) {
	require.Equal(t, "\nTotal players: 0\n", buildParseSummary(nil))

	got := buildParseSummary([]standings.Entry{
		{Placement: "1", Name: "Solo", Record: "1 - 0 - 0"},
	})
	require.Equal(t, "\nTotal players: 1\nWinner: Solo (unknown)\nRecord: 1 - 0 - 0\n", got)
}
