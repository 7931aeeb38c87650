// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v3"

	"github.com/humaidq/growthwave/who"
)

const maleOnlyCSV = "age_months,gender,percentile,bmi\n24,0,50,15.8\n24,0,97,18.9\n"

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func runClassify(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	root := &cli.Command{
		Name:     "growthwave",
		Writer:   &out,
		Commands: []*cli.Command{newClassifyCommand()},
	}

	err := root.Run(context.Background(), append([]string{"growthwave", "classify"}, args...))
	return out.String(), err
}

func TestClassifyCommandByAge(t *testing.T) {
	t.Parallel()

	ref := writeTempFile(t, "ref.csv", maleOnlyCSV)

	out, err := runClassify(t, "--age-months", "24", "--gender", "male", "--bmi", "20", "--reference", ref)
	if err != nil {
		t.Fatalf("classify failed: %v", err)
	}

	for _, want := range []string{"Age:       24 months", "Category:  Overweight", "Range:     19.0-20.5", "Median:    15.80"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestClassifyCommandByDatesAndMeasurements(t *testing.T) {
	t.Parallel()

	ref := writeTempFile(t, "ref.csv", maleOnlyCSV)

	out, err := runClassify(t,
		"--dob", "2022-01-15", "--date", "2024-01-20",
		"--gender", "0", "--weight", "12", "--height", "86",
		"--reference", ref,
	)
	if err != nil {
		t.Fatalf("classify failed: %v", err)
	}
	if !strings.Contains(out, "BMI:       16.22") || !strings.Contains(out, "Category:  Normal") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestClassifyCommandJSON(t *testing.T) {
	t.Parallel()

	ref := writeTempFile(t, "ref.csv", maleOnlyCSV)

	out, err := runClassify(t, "--age-months", "24", "--gender", "male", "--bmi", "12", "--reference", ref, "--json")
	if err != nil {
		t.Fatalf("classify failed: %v", err)
	}

	var got struct {
		Status         string `json:"status"`
		Classification struct {
			Category   string `json:"category"`
			RangeLabel string `json:"range_label"`
		} `json:"classification"`
		Measurement struct {
			AgeMonths int `json:"age_months"`
		} `json:"measurement"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if got.Status != "ready" || got.Classification.Category != "Underweight" || got.Measurement.AgeMonths != 24 {
		t.Fatalf("unexpected JSON output: %+v", got)
	}
	if got.Classification.RangeLabel != "< 12.6" {
		t.Fatalf("unexpected range label %q", got.Classification.RangeLabel)
	}
}

func TestClassifyCommandPending(t *testing.T) {
	t.Parallel()

	ref := writeTempFile(t, "ref.csv", maleOnlyCSV)

	out, err := runClassify(t, "--age-months", "24", "--gender", "female", "--bmi", "16", "--reference", ref)
	if !errors.Is(err, errReferencePending) {
		t.Fatalf("expected errReferencePending, got %v", err)
	}
	if !strings.Contains(out, "Status:    pending") || strings.Contains(out, "Category:") {
		t.Fatalf("unexpected pending output:\n%s", out)
	}
}

func TestClassifyCommandBundledStandard(t *testing.T) {
	t.Parallel()

	out, err := runClassify(t, "--age-months", "36", "--gender", "female", "--bmi", "15.5")
	if err != nil {
		t.Fatalf("classify failed: %v", err)
	}
	if !strings.Contains(out, "Category:") {
		t.Fatalf("expected a category with the bundled standard:\n%s", out)
	}
}

func TestClassifyCommandInputErrors(t *testing.T) {
	t.Parallel()

	emptyRef := writeTempFile(t, "empty.csv", "age_months,gender,percentile,bmi\n24,0,97,18.9\n")

	tests := []struct {
		name string
		args []string
		want error
	}{
		{
			name: "no age",
			args: []string{"--gender", "male", "--bmi", "16"},
			want: errAgeRequired,
		},
		{
			name: "no measurement",
			args: []string{"--gender", "male", "--age-months", "12"},
			want: errMeasurementRequired,
		},
		{
			name: "height without weight",
			args: []string{"--gender", "male", "--age-months", "12", "--height", "80"},
			want: errMeasurementRequired,
		},
		{
			name: "bad gender",
			args: []string{"--gender", "2", "--age-months", "12", "--bmi", "16"},
			want: who.ErrUnknownGender,
		},
		{
			name: "negative age",
			args: []string{"--gender", "male", "--age-months=-1", "--bmi", "16"},
			want: who.ErrNegativeAge,
		},
		{
			name: "zero height",
			args: []string{"--gender", "male", "--age-months", "12", "--weight", "10", "--height", "0"},
			want: who.ErrInvalidHeight,
		},
		{
			name: "reference without medians",
			args: []string{"--gender", "male", "--age-months", "24", "--bmi", "16", "--reference", emptyRef},
			want: errEmptyReferenceFile,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if _, err := runClassify(t, tc.args...); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}
