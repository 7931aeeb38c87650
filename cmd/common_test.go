// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/urfave/cli/v3"

	"github.com/humaidq/growthwave/db"
	"github.com/humaidq/growthwave/growthapi"
	"github.com/humaidq/growthwave/routes"
	"github.com/humaidq/growthwave/who"
)

func TestReadReferenceFile(t *testing.T) {
	t.Parallel()

	want := []who.PercentileRow{
		{AgeMonths: 24, Gender: who.Male, Percentile: 50, BMI: 15.8},
		{AgeMonths: 24, Gender: who.Male, Percentile: 97, BMI: 18.9},
	}

	csvPath := writeTempFile(t, "ref.csv", maleOnlyCSV)
	rows, rowErrs, err := readReferenceFile(csvPath)
	if err != nil || len(rowErrs) != 0 {
		t.Fatalf("readReferenceFile(csv) failed: %v %v", err, rowErrs)
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Fatalf("unexpected CSV rows (-want +got):\n%s", diff)
	}

	jsonPath := writeTempFile(t, "ref.JSON", `[
		{"ageMonth": 24, "gender": 0, "percentile": 50, "bmi": 15.8},
		{"ageMonth": 24, "gender": 0, "percentile": 97, "bmi": 18.9},
		{"ageMonth": "x", "gender": 0, "percentile": 50, "bmi": 1}
	]`)
	rows, rowErrs, err = readReferenceFile(jsonPath)
	if err != nil {
		t.Fatalf("readReferenceFile(json) failed: %v", err)
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Fatalf("unexpected JSON rows (-want +got):\n%s", diff)
	}
	if len(rowErrs) != 1 {
		t.Fatalf("expected one skipped row, got %v", rowErrs)
	}

	if _, _, err := readReferenceFile(csvPath + ".missing"); err == nil {
		t.Fatalf("expected error for a missing file")
	}
}

func newBackendCommand(args ...string) (routes.ReferenceFetcher, error) {
	var fetcher routes.ReferenceFetcher
	var fetchErr error

	cmd := &cli.Command{
		Name:  "test",
		Flags: backendFlags(),
		Action: func(_ context.Context, cmd *cli.Command) error {
			fetcher, fetchErr = backendFetcher(cmd)
			return nil
		},
	}
	if err := cmd.Run(context.Background(), append([]string{"test"}, args...)); err != nil {
		return nil, err
	}
	return fetcher, fetchErr
}

func TestBackendFetcherWithoutURL(t *testing.T) {
	t.Setenv("GROWTH_BACKEND_URL", "")

	fetcher, err := newBackendCommand()
	if err != nil {
		t.Fatalf("backendFetcher failed: %v", err)
	}
	if fetcher != routes.NoBackend() {
		t.Fatalf("expected the unconfigured fetcher, got %T", fetcher)
	}
}

func TestBackendFetcherWithURL(t *testing.T) {
	t.Setenv("GROWTHWAVE_TEST_BACKEND_TOKEN", "secret")

	fetcher, err := newBackendCommand("--backend-url", "http://localhost:1", "--backend-token-env", "GROWTHWAVE_TEST_BACKEND_TOKEN")
	if err != nil {
		t.Fatalf("backendFetcher failed: %v", err)
	}
	if _, ok := fetcher.(*growthapi.Client); !ok {
		t.Fatalf("expected *growthapi.Client, got %T", fetcher)
	}
}

type stubFetcher struct {
	rows []who.PercentileRow
	err  error
}

func (f stubFetcher) FetchGrowthStandards(context.Context) ([]who.PercentileRow, []who.RowError, error) {
	return f.rows, nil, f.err
}

func TestPullReferenceKeepsSourceOnFailure(t *testing.T) {
	t.Parallel()

	original := who.BuildReferenceTable([]who.PercentileRow{
		{AgeMonths: 24, Gender: who.Male, Percentile: 50, BMI: 15.8},
	})

	errBackend := errors.New("backend down")

	tests := []struct {
		name    string
		fetcher stubFetcher
		want    error
	}{
		{
			name:    "fetch error",
			fetcher: stubFetcher{err: errBackend},
			want:    errBackend,
		},
		{
			name: "no medians",
			fetcher: stubFetcher{rows: []who.PercentileRow{
				{AgeMonths: 24, Gender: who.Male, Percentile: 97, BMI: 18.9},
			}},
			want: db.ErrEmptyReferenceSnapshot,
		},
		{
			name: "store without database",
			fetcher: stubFetcher{rows: []who.PercentileRow{
				{AgeMonths: 12, Gender: who.Female, Percentile: 50, BMI: 16.4},
			}},
			want: db.ErrDatabaseConnectionNotInitialized,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			source := who.NewSource(original, "database")

			if _, err := pullReference(context.Background(), tc.fetcher, source); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}

			if source.Table() != original {
				t.Fatalf("source was replaced after a failed pull")
			}
			if _, origin := source.LoadedAt(); origin != "database" {
				t.Fatalf("expected origin to stay database, got %q", origin)
			}
		})
	}
}
