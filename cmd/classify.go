/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/humaidq/growthwave/who"
)

var CmdClassify = newClassifyCommand()

func newClassifyCommand() *cli.Command {
	return &cli.Command{
		Name:  "classify",
		Usage: "Classify a single BMI-for-age measurement",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "age-months",
				Usage: "age in completed months",
			},
			&cli.StringFlag{
				Name:  "dob",
				Usage: "date of birth (YYYY-MM-DD), used instead of --age-months",
			},
			&cli.StringFlag{
				Name:  "date",
				Usage: "measurement date (YYYY-MM-DD), defaults to today",
			},
			&cli.StringFlag{
				Name:     "gender",
				Usage:    "male/female or 0/1",
				Required: true,
			},
			&cli.FloatFlag{
				Name:  "bmi",
				Usage: "body mass index in kg/m²",
			},
			&cli.FloatFlag{
				Name:  "weight",
				Usage: "weight in kilograms",
			},
			&cli.FloatFlag{
				Name:  "height",
				Usage: "height in centimetres",
			},
			&cli.StringFlag{
				Name:  "reference",
				Usage: "CSV or JSON reference snapshot (defaults to the bundled WHO medians)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "print the assessment as JSON",
			},
		},
		Action: classify,
	}
}

func classify(_ context.Context, cmd *cli.Command) error {
	m, err := measurementFromFlags(cmd, time.Now())
	if err != nil {
		return err
	}

	table := who.StandardTable()
	if path := cmd.String("reference"); path != "" {
		rows, rowErrs, err := readReferenceFile(path)
		if err != nil {
			return err
		}
		logRowErrors(rowErrs)

		table = who.BuildReferenceTable(rows)
		if table.Len() == 0 {
			return errEmptyReferenceFile
		}
	}

	assessment := table.Assess(m)

	out := cmd.Root().Writer
	if cmd.Bool("json") {
		if err := writeAssessmentJSON(out, m, assessment); err != nil {
			return err
		}
	} else {
		writeAssessment(out, m, assessment)
	}

	if !assessment.Ready() {
		return errReferencePending
	}
	return nil
}

// measurementFromFlags resolves age and BMI from whichever flags were given
func measurementFromFlags(cmd *cli.Command, now time.Time) (who.Measurement, error) {
	var m who.Measurement

	gender, err := who.ParseGender(cmd.String("gender"))
	if err != nil {
		return m, err
	}
	m.Gender = gender

	switch {
	case cmd.IsSet("age-months"):
		age := int(cmd.Int("age-months"))
		if age < 0 {
			return m, who.ErrNegativeAge
		}
		m.AgeMonths = age
	case cmd.String("dob") != "":
		dob, err := time.Parse("2006-01-02", cmd.String("dob"))
		if err != nil {
			return m, fmt.Errorf("invalid --dob: %w", err)
		}
		at := now
		if cmd.String("date") != "" {
			at, err = time.Parse("2006-01-02", cmd.String("date"))
			if err != nil {
				return m, fmt.Errorf("invalid --date: %w", err)
			}
		}
		m.AgeMonths = who.AgeInMonths(dob, at)
	default:
		return m, errAgeRequired
	}

	switch {
	case cmd.IsSet("bmi"):
		m.BMI = cmd.Float("bmi")
	case cmd.IsSet("weight") && cmd.IsSet("height"):
		bmi, err := who.ComputeBMI(cmd.Float("weight"), cmd.Float("height"))
		if err != nil {
			return m, err
		}
		m.BMI = bmi
	default:
		return m, errMeasurementRequired
	}

	return m, nil
}

func writeAssessment(w io.Writer, m who.Measurement, a who.Assessment) {
	fmt.Fprintf(w, "Age:       %d months\n", m.AgeMonths)
	fmt.Fprintf(w, "Gender:    %s\n", m.Gender)
	fmt.Fprintf(w, "BMI:       %.2f\n", m.BMI)

	if !a.Ready() {
		fmt.Fprintf(w, "Status:    %s (no reference data for %s)\n", a.Status, m.Gender)
		return
	}

	fmt.Fprintf(w, "Category:  %s\n", a.Category)
	fmt.Fprintf(w, "Range:     %s\n", a.RangeLabel)
	fmt.Fprintf(w, "Median:    %.2f\n", a.ReferenceMedian)
	fmt.Fprintf(w, "Bands:     < %.2f underweight, ≥ %.2f overweight, ≥ %.2f obese\n",
		a.Band.Underweight, a.Band.Overweight, a.Band.Obese)
}

func writeAssessmentJSON(w io.Writer, m who.Measurement, a who.Assessment) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(struct {
		Measurement who.Measurement `json:"measurement"`
		who.Assessment
	}{m, a})
}
