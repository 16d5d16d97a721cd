/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gregjones/httpcache"
	"github.com/mikeb26/tcgstandings/s3store"
)

// NewCachedHttpClient returns an http.Client whose responses are cached in
// the S3 bucket named by bucket for maxAge regardless of origin cache
// headers. When the bucket is unset or unreachable the default client is
// returned instead.
func NewCachedHttpClient(ctx context.Context, bucket string, opts s3store.Options,
	maxAge time.Duration) *http.Client {

	if bucket == "" || maxAge <= 0 {
		return http.DefaultClient
	}

	opts.LogErrors = true
	cache := s3store.New(ctx, bucket, opts)
	if err := cache.Init(); err != nil {
		log.Printf("httpcache: warning failed to init S3 cache: %v; falling back to uncached http", err)
		return http.DefaultClient
	}

	return &http.Client{Transport: newCachingTransport(cache, http.DefaultTransport, maxAge)}
}

func newCachingTransport(cache httpcache.Cache, rt http.RoundTripper,
	maxAge time.Duration) *httpcache.Transport {

	hc := httpcache.NewTransport(cache)
	// origin headers frequently forbid caching; replace them with our TTL
	hc.Transport = &HeaderOverrideTransport{
		wrappedRT: rt,
		Request: func(req *http.Request) {
			if req.Header.Get("User-Agent") == "" {
				req.Header.Set("User-Agent", UserAgent)
			}
		},
		Response: func(resp *http.Response) error {
			resp.Header.Del("Pragma")
			resp.Header.Del("Expires")
			resp.Header.Del("Cache-Control")
			resp.Header.Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(maxAge/time.Second)))
			return nil
		},
	}

	return hc
}

type HeaderOverrideTransport struct {
	Request  func(req *http.Request)
	Response func(resp *http.Response) error

	// Underlying RoundTripper (e.g. default transport or another decorator)
	wrappedRT http.RoundTripper
}

// RoundTrip applies Request and Response hooks around the underlying transport.
func (t *HeaderOverrideTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// clone so we don't stomp on the caller's original
	req2 := req.Clone(req.Context())
	if t.Request != nil {
		t.Request(req2)
	}

	resp, err := t.wrappedRT.RoundTrip(req2)
	if err != nil {
		return nil, err
	}

	if t.Response != nil {
		if err := t.Response(resp); err != nil {
			return nil, err
		}
	}
	return resp, nil
}
