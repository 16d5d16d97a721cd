/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gregjones/httpcache"
	"github.com/mikeb26/tcgstandings/s3store"
)

func TestCachingTransport(t *testing.T) {
	var hits atomic.Int32
	var gotUA atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		gotUA.Store(r.Header.Get("User-Agent"))
		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set("Pragma", "no-cache")
		io.WriteString(w, "Name\n1\nAsh\nUSA\n45\t1-0-0\t50%\t50%\nlugia\n")
	}))
	defer srv.Close()

	client := &http.Client{
		Transport: newCachingTransport(httpcache.NewMemoryCache(),
			http.DefaultTransport, 5*time.Minute),
	}

	for i := 0; i < 3; i++ {
		resp, err := client.Get(srv.URL)
		if err != nil {
			t.Fatalf("get %d: %v", i, err)
		}
		data, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			t.Fatalf("Failed to read response body: %v", err)
		}
		if len(data) == 0 {
			t.Errorf("Empty data")
		}
		if i > 0 && resp.Header.Get("X-From-Cache") != "1" {
			t.Errorf("object not cached on request %d", i)
		}
	}

	if hits.Load() != 1 {
		t.Errorf("origin hit %d times; want 1", hits.Load())
	}
	if gotUA.Load() != UserAgent {
		t.Errorf("User-Agent = %v; want %v", gotUA.Load(), UserAgent)
	}
}

func TestNewCachedHttpClientFallback(t *testing.T) {
	ctx := context.Background()
	if c := NewCachedHttpClient(ctx, "", s3store.Options{}, time.Minute); c != http.DefaultClient {
		t.Errorf("expected the default client without a bucket")
	}
	if c := NewCachedHttpClient(ctx, "standings-cache", s3store.Options{}, 0); c != http.DefaultClient {
		t.Errorf("expected the default client with caching disabled")
	}
}
