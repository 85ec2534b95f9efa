package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"bizhealth-workers/internal/feasibility"
	"bizhealth-workers/internal/health"
	"bizhealth-workers/internal/models"
	"bizhealth-workers/internal/onboarding"
)

func parseResponses(raw string) (models.ResponseSet, error) {
	responses := models.ResponseSet{}
	if raw == "" {
		return responses, nil
	}
	if err := json.Unmarshal([]byte(raw), &responses); err != nil {
		return nil, fmt.Errorf("--responses must be a JSON object: %w", err)
	}
	return responses, nil
}

func parseOptionalType(raw string) (models.BusinessType, error) {
	if raw == "" {
		return "", nil
	}
	return models.ParseBusinessType(raw)
}

func newQuestionnaireCmd() *cobra.Command {
	var businessType, responses string
	cmd := &cobra.Command{
		Use:   "questionnaire",
		Short: "Print the next onboarding question",
		RunE: func(cmd *cobra.Command, _ []string) error {
			bt, err := parseOptionalType(businessType)
			if err != nil {
				return err
			}
			rs, err := parseResponses(responses)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), onboarding.NextStep(bt, rs))
		},
	}
	cmd.Flags().StringVar(&businessType, "type", "", "business type, e.g. CAFE")
	cmd.Flags().StringVar(&responses, "responses", "", "answers so far as a JSON object")
	return cmd
}

func newCostsCmd() *cobra.Command {
	var businessType, responses string
	cmd := &cobra.Command{
		Use:   "costs",
		Short: "Estimate costs for a completed questionnaire using fallback location data",
		RunE: func(cmd *cobra.Command, _ []string) error {
			bt, err := models.ParseBusinessType(businessType)
			if err != nil {
				return err
			}
			rs, err := parseResponses(responses)
			if err != nil {
				return err
			}
			profile, err := onboarding.BuildProfile("cli", bt, rs)
			if err != nil {
				return err
			}
			location := feasibility.FallbackLocationData(profile.City)
			analysis, err := feasibility.CalculateCosts(profile, location)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]interface{}{
				"businessType":   bt,
				"city":           profile.City,
				"locationSource": location.Source,
				"analysis":       analysis,
			})
		},
	}
	cmd.Flags().StringVar(&businessType, "type", "", "business type, e.g. CAFE")
	cmd.Flags().StringVar(&responses, "responses", "", "questionnaire answers as a JSON object")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func newScoreCmd() *cobra.Command {
	var sales, expenses, wastage string
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Compute the daily health score",
		RunE: func(cmd *cobra.Command, _ []string) error {
			values := make([]decimal.Decimal, 0, 3)
			for _, raw := range []string{sales, expenses, wastage} {
				d, err := decimal.NewFromString(raw)
				if err != nil {
					return fmt.Errorf("invalid amount %q: %w", raw, err)
				}
				values = append(values, d)
			}
			score, err := health.DailyScore(values[0], values[1], values[2])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]interface{}{
				"healthScore":  score,
				"margin":       health.Margin(values[0], values[1]),
				"wastageRatio": health.WastageRatio(values[0], values[2]),
			})
		},
	}
	cmd.Flags().StringVar(&sales, "sales", "0", "sales for the day")
	cmd.Flags().StringVar(&expenses, "expenses", "0", "expenses for the day")
	cmd.Flags().StringVar(&wastage, "wastage", "0", "wastage for the day")
	return cmd
}

type metricLine struct {
	Date     string          `json:"date"`
	Sales    decimal.Decimal `json:"sales"`
	Expenses decimal.Decimal `json:"expenses"`
	Wastage  decimal.Decimal `json:"wastage"`
}

func newSummarizeCmd() *cobra.Command {
	var file, today string
	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "Summarize a JSON array of daily metrics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := os.ReadFile(file)
			if err != nil {
				return err
			}
			var lines []metricLine
			if err := json.Unmarshal(data, &lines); err != nil {
				return fmt.Errorf("parse %s: %w", file, err)
			}

			day := health.Day(time.Now().UTC())
			if today != "" {
				if day, err = health.ParseDate(today); err != nil {
					return err
				}
			}

			records := make([]*health.DailyMetricRecord, 0, len(lines))
			for _, l := range lines {
				date, err := health.ParseDate(l.Date)
				if err != nil {
					return err
				}
				r, err := health.NewDailyMetricRecord("cli", date, l.Sales, l.Expenses, l.Wastage)
				if err != nil {
					return err
				}
				records = append(records, r)
			}
			return printJSON(cmd.OutOrStdout(), health.Summarize(day, records))
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "path to a JSON array of {date, sales, expenses, wastage}")
	cmd.Flags().StringVar(&today, "today", "", "summary date as YYYY-MM-DD, defaults to today")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
