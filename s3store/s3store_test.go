/* Copyright (c) 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file in the current directory for license terms
 */
package s3store

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/gregjones/httpcache/test"
)

const defaultTestBucket = "mikeb26-tcgstandings-prod"

func testBucket() string {
	if b := os.Getenv("S3_BUCKET"); b != "" {
		return b
	}
	return defaultTestBucket
}

func newTestStore(t *testing.T, gzip bool) *Store {
	t.Helper()

	store := New(context.Background(), testBucket(),
		Options{Gzip: gzip, LogErrors: true})
	if err := store.Init(); err != nil {
		t.Skipf("Skipping test due to lack of access to %v: %v", testBucket(), err)
	}

	return store
}

func TestS3Store(t *testing.T) {
	test.Cache(t, newTestStore(t, false))
}

func TestS3StoreWithGzip(t *testing.T) {
	test.Cache(t, newTestStore(t, true))
}

func TestPutFetch(t *testing.T) {
	store := newTestStore(t, false)
	ctx := context.Background()
	key := PublishKey("test", "standings.csv")

	loc, err := store.Put(ctx, key, "text/csv", strings.NewReader("Placement\n"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if loc != "s3://"+testBucket()+"/test/standings.csv" {
		t.Errorf("unexpected location %v", loc)
	}

	data, err := store.Fetch(ctx, key)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if string(data) != "Placement\n" {
		t.Errorf("Fetch = %q", data)
	}

	_, err = store.Fetch(ctx, PublishKey("test", "does-not-exist.csv"))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestInitWithoutBucket(t *testing.T) {
	if err := New(context.Background(), "", Options{}).Init(); err == nil {
		t.Errorf("expected an error without a bucket")
	}
}

func TestKeys(t *testing.T) {
	cases := []struct {
		prefix string
		name   string
		want   string
	}{
		{"", "standings.csv", "standings.csv"},
		{"events", "standings.csv", "events/standings.csv"},
		{"/events/2026/", "standings.csv", "events/2026/standings.csv"},
	}
	for _, tc := range cases {
		if got := PublishKey(tc.prefix, tc.name); got != tc.want {
			t.Errorf("PublishKey(%q, %q) = %q; want %q", tc.prefix, tc.name, got, tc.want)
		}
	}

	plain := New(context.Background(), "bucket", Options{})
	zipped := New(context.Background(), "bucket", Options{Gzip: true})
	k := plain.cacheKeyToObjectKey("https://example.com/standings")
	if !strings.HasPrefix(k, "/"+cachePrefix+"/") || len(k) != len(cachePrefix)+2+32 {
		t.Errorf("unexpected cache key %v", k)
	}
	if zipped.cacheKeyToObjectKey("https://example.com/standings") != k+".gz" {
		t.Errorf("gzip cache key should add a .gz suffix")
	}
	if plain.Location("/a/b.csv") != "s3://bucket/a/b.csv" {
		t.Errorf("unexpected location %v", plain.Location("/a/b.csv"))
	}
}
