package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/Simplici0/docquote/internal/pricing"
)

const ruleWidth = 92

func money(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Sprint(v)
	}
	return "£" + humanize.CommafWithDigits(math.Round(v*100)/100, 2)
}

func pct(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

func count(v float64) string {
	return humanize.CommafWithDigits(math.Round(v*10)/10, 1)
}

func formatQuote(sc pricing.Scenario, in pricing.Inputs, res pricing.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Scenario: %s (%s)\n", sc.Name, sc.Key)
	fmt.Fprintf(&b, "Volumes:  %s sites, %s docs, %s pages, %s tokens\n\n",
		count(in.NSites),
		count(res.Volumes.TotalDocs), count(res.Volumes.TotalPages), count(res.Volumes.TotalTokens))

	fmt.Fprintf(&b, "%-10s %-34s %14s %14s %6s %14s\n", "CATEGORY", "ITEM", "QUANTITY", "COST", "MARGIN", "PRICE")
	b.WriteString(strings.Repeat("-", ruleWidth) + "\n")
	for _, cat := range []pricing.Category{pricing.CategoryIngestion, pricing.CategoryBuild, pricing.CategoryOpex} {
		for _, item := range res.ItemsIn(cat) {
			fmt.Fprintf(&b, "%-10s %-34s %14s %14s %6s %14s\n",
				item.Category, truncate(item.Description, 34),
				count(item.Quantity)+" "+item.Unit,
				money(item.Cost), pct(item.Margin*100), money(item.Price))
			if item.Note != "" {
				fmt.Fprintf(&b, "%-10s   %s\n", "", item.Note)
			}
		}
	}
	b.WriteString(strings.Repeat("-", ruleWidth) + "\n")

	fmt.Fprintf(&b, "%-28s %14s %14s\n", "", "COST", "PRICE")
	summary := []struct {
		label string
		a     pricing.Amount
	}{
		{"Ingestion", res.Ingestion.Total},
		{"Build", res.Build.Total},
		{"CAPEX", res.Capex},
		{"OPEX (monthly)", res.OpexMonthly},
		{"OPEX (annual)", res.OpexAnnual},
		{"Total quote (CAPEX + 1y)", res.TotalQuote},
	}
	for _, row := range summary {
		fmt.Fprintf(&b, "%-28s %14s %14s\n", row.label, money(row.a.Cost), money(row.a.Price))
	}

	fmt.Fprintf(&b, "\nGross margin:              %s\n", pct(res.GrossMargin*100))
	fmt.Fprintf(&b, "Client-absorbed review:    %s\n", money(res.ClientReviewCost))
	fmt.Fprintf(&b, "Manual benchmark:          %s (saving %s)\n", money(res.Benchmarks.ManualTotal), money(res.Benchmarks.SavingsVsManual))
	fmt.Fprintf(&b, "Competitor benchmark:      %s (saving %s)\n", money(res.Benchmarks.CompetitorTotal), money(res.Benchmarks.SavingsVsCompetitor))
	fmt.Fprintf(&b, "Ingestion drivers:         OCR %s, extraction %s, manual review %s\n",
		pct(res.CostDrivers.OCRPct), pct(res.CostDrivers.ExtractionPct), pct(res.CostDrivers.ManualReviewPct))
	fmt.Fprintf(&b, "Quote drivers:             ingestion %s, build %s, annual OPEX %s\n",
		pct(res.CostDrivers.IngestionPct), pct(res.CostDrivers.BuildPct), pct(res.CostDrivers.AnnualOpexPct))
	return b.String()
}

func formatComparison(results []pricing.Result) string {
	if len(results) == 0 {
		return "No scenarios in catalog.\n"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-14s %14s %14s %14s %14s %8s\n", "SCENARIO", "CAPEX", "OPEX/MONTH", "OPEX/YEAR", "TOTAL", "MARGIN")
	b.WriteString(strings.Repeat("-", 83) + "\n")
	for _, r := range results {
		fmt.Fprintf(&b, "%-14s %14s %14s %14s %14s %8s\n",
			r.ScenarioKey, money(r.Capex.Price), money(r.OpexMonthly.Price),
			money(r.OpexAnnual.Price), money(r.TotalQuote.Price), pct(r.GrossMargin*100))
	}
	return b.String()
}

func formatScenarios(scenarios []pricing.Scenario) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-14s %-22s %10s %8s %8s %8s\n", "KEY", "NAME", "ANALYST/H", "LABOR", "PASS", "TARGET")
	b.WriteString(strings.Repeat("-", 75) + "\n")
	for _, s := range scenarios {
		fmt.Fprintf(&b, "%-14s %-22s %10s %8s %8s %8s\n",
			s.Key, truncate(s.Name, 22), money(s.AnalystRate),
			pct(s.LaborMargin*100), pct(s.PassthroughMargin*100), pct(s.TargetMargin*100))
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
