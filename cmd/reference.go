/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/humaidq/growthwave/db"
	"github.com/humaidq/growthwave/routes"
	"github.com/humaidq/growthwave/who"
)

var CmdReference = newReferenceCommand()

func newReferenceCommand() *cli.Command {
	return &cli.Command{
		Name:  "reference",
		Usage: "Manage the stored WHO BMI-for-age reference",
		Flags: []cli.Flag{
			databaseURLFlag(),
		},
		Commands: []*cli.Command{
			{
				Name:  "import",
				Usage: "Replace the stored reference with a CSV or JSON snapshot",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Usage:    "path to a .csv or .json snapshot",
						Required: true,
					},
				},
				Action: referenceImport,
			},
			{
				Name:   "pull",
				Usage:  "Fetch the reference from the growth standards backend",
				Flags:  backendFlags(),
				Action: referencePull,
			},
			{
				Name:  "export",
				Usage: "Write the stored reference as CSV",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "file",
						Usage: "output path (defaults to stdout)",
					},
				},
				Action: referenceExport,
			},
		},
	}
}

func referenceImport(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("file")
	if path == "" {
		return errReferenceFileRequired
	}

	rows, rowErrs, err := readReferenceFile(path)
	if err != nil {
		return err
	}
	logRowErrors(rowErrs)

	if err := connectDatabase(ctx, cmd); err != nil {
		return err
	}
	defer db.Close()

	stored, err := db.ReplaceWHOReference(ctx, rows)
	if err != nil {
		return fmt.Errorf("failed to import reference: %w", err)
	}

	fmt.Fprintf(cmd.Root().Writer, "Imported %d reference rows (%d skipped)\n", stored, len(rowErrs))
	return nil
}

func referencePull(ctx context.Context, cmd *cli.Command) error {
	if cmd.String("backend-url") == "" {
		return errBackendURLRequired
	}

	fetcher, err := backendFetcher(cmd)
	if err != nil {
		return err
	}

	if err := connectDatabase(ctx, cmd); err != nil {
		return err
	}
	defer db.Close()

	stored, err := pullReference(ctx, fetcher, nil)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.Root().Writer, "Pulled %d reference rows\n", stored)
	return nil
}

func referenceExport(ctx context.Context, cmd *cli.Command) error {
	if err := connectDatabase(ctx, cmd); err != nil {
		return err
	}
	defer db.Close()

	rows, err := db.ListWHOReferenceRows(ctx)
	if err != nil {
		return err
	}

	out := cmd.Root().Writer
	if path := cmd.String("file"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		defer f.Close()
		out = f
	}

	return who.WriteRowsCSV(out, rows)
}

// pullReference fetches rows from the backend, stores them, and swaps
// source when one is given. Nothing is replaced if the rows hold no median.
func pullReference(ctx context.Context, fetcher routes.ReferenceFetcher, source *who.Source) (int, error) {
	rows, rowErrs, err := fetcher.FetchGrowthStandards(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch growth standards: %w", err)
	}
	logRowErrors(rowErrs)

	table := who.BuildReferenceTable(rows)
	if table.Len() == 0 {
		return 0, db.ErrEmptyReferenceSnapshot
	}

	stored, err := db.ReplaceWHOReference(ctx, rows)
	if err != nil {
		return 0, fmt.Errorf("failed to store growth standards: %w", err)
	}

	if source != nil {
		source.Replace(table, routes.OriginBackend)
	}

	appLogger.Info("Pulled WHO reference", "rows", stored, "points", table.Len(), "skipped", len(rowErrs))
	return stored, nil
}
