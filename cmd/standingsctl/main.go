/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"log"
	"os"

	"github.com/mikeb26/tcgstandings/internal"
	"github.com/mikeb26/tcgstandings/internal/config"
	"github.com/urfave/cli/v2"
)

func main() {
	log.SetFlags(0)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := newApp(cfg).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp(cfg *config.Config) *cli.App {
	return &cli.App{
		Name:    "standingsctl",
		Usage:   "parse tournament standings and report on them",
		Version: internal.Version,
		Commands: []*cli.Command{
			newParseCommand(cfg),
			newSummaryCommand(cfg),
			newDecksCommand(cfg),
			newPlayersCommand(cfg),
			newExportCommand(cfg),
			newPublishCommand(cfg),
		},
	}
}

func csvFlag(cfg *config.Config) *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "csv",
		Aliases: []string{"c"},
		Value:   cfg.Table.Path,
		Usage:   "standings table `FILE`",
	}
}

func filterFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "deck", Usage: "only decks containing `TEXT`"},
		&cli.StringFlag{Name: "country", Usage: "only players from `COUNTRY`"},
		&cli.IntFlag{Name: "min-placement", Usage: "only placements >= `N`"},
		&cli.IntFlag{Name: "max-placement", Usage: "only placements <= `N`"},
	}
}
