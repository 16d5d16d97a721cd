/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/mikeb26/tcgstandings/ingest"
	"github.com/mikeb26/tcgstandings/internal"
	"github.com/mikeb26/tcgstandings/internal/config"
)

// this program exists just to seed the http cache with standings pages

func main() {
	delay := flag.Duration("delay", 2*time.Second, "pause between fetches")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %v [-delay D] URL...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("cacheseed: %v", err)
	}
	if cfg.S3.Bucket == "" {
		log.Fatalf("cacheseed: S3_BUCKET must be set to seed the cache")
	}

	ctx := context.Background()
	client := internal.NewCachedHttpClient(ctx, cfg.S3.Bucket, cfg.S3.StoreOptions(),
		cfg.S3.CacheTTL)

	var srcs []ingest.Source
	for _, arg := range flag.Args() {
		srcs = append(srcs, ingest.Source(arg))
	}
	seeded := seed(ctx, ingest.NewLoader(client), srcs, *delay, os.Stdout)
	if seeded == 0 {
		os.Exit(1)
	}
}

// seed fetches each URL source once, best effort, and returns how many
// succeeded. Non-URL sources are skipped.
func seed(ctx context.Context, loader *ingest.Loader, srcs []ingest.Source,
	delay time.Duration, w io.Writer) int {

	seeded := 0
	for i, src := range srcs {
		if !src.IsURL() {
			fmt.Fprintf(w, "skipped %v: not a URL\n", src)
			continue
		}
		if i > 0 && delay > 0 {
			time.Sleep(delay) // avoid pegging the standings host
		}

		lines, err := loader.Lines(ctx, src)
		if err != nil {
			// best effort
			log.Printf("cacheseed: %v", err)
			continue
		}

		seeded++
		fmt.Fprintf(w, "seeded %v (%d lines)\n", src, len(lines))
	}

	return seeded
}
