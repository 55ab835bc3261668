package pricing

import (
	"fmt"
	"math"
)

const sumTolerance = 0.01

// Advisory thresholds. Values beyond these are valid but operationally risky.
const (
	warnPoorQualityAbove   = 0.40
	warnReviewMinutesAbove = 40
	warnHourlyRateAbove    = 2000
	warnConflictMinsAbove  = 30
	warnGoodQualityBelow   = 0.20
	warnAvgDocsBelow       = 2
	warnLLMCostAbove       = 5
)

// Validation is the outcome of Validate.
type Validation struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors"`
}

type fieldCheck struct {
	label string
	value func(Inputs) float64
}

// nonNegativeFields lists every numeric field that must be >= 0.
var nonNegativeFields = []fieldCheck{
	{"Number of sites", func(in Inputs) float64 { return in.NSites }},
	{"Min documents per site", func(in Inputs) float64 { return in.MinDocs }},
	{"Max documents per site", func(in Inputs) float64 { return in.MaxDocs }},
	{"Lease mix", func(in Inputs) float64 { return in.MixLease }},
	{"Deed mix", func(in Inputs) float64 { return in.MixDeed }},
	{"Licence mix", func(in Inputs) float64 { return in.MixLicence }},
	{"Plan mix", func(in Inputs) float64 { return in.MixPlan }},
	{"Pages per lease", func(in Inputs) float64 { return in.PagesLease }},
	{"Pages per deed", func(in Inputs) float64 { return in.PagesDeed }},
	{"Pages per licence", func(in Inputs) float64 { return in.PagesLicence }},
	{"Pages per plan", func(in Inputs) float64 { return in.PagesPlan }},
	{"Good quality share", func(in Inputs) float64 { return in.QGood }},
	{"Medium quality share", func(in Inputs) float64 { return in.QMed }},
	{"Poor quality share", func(in Inputs) float64 { return in.QPoor }},
	{"Review minutes", func(in Inputs) float64 { return in.ReviewMinutes }},
	{"Conflict minutes", func(in Inputs) float64 { return in.ConflictMinutes }},
	{"Our manual review share", func(in Inputs) float64 { return in.OurManualReviewPct }},
	{"OCR cost per 1000 pages", func(in Inputs) float64 { return in.OCRCostPer1000 }},
	{"Tokens per page", func(in Inputs) float64 { return in.TokensPerPage }},
	{"AI cost per million tokens", func(in Inputs) float64 { return in.LLMCostPerMTokens }},
	{"Storage MB per page", func(in Inputs) float64 { return in.StorageMBPerPage }},
	{"Storage cost per GB-month", func(in Inputs) float64 { return in.StorageCostPerGBMonth }},
	{"Cost per query", func(in Inputs) float64 { return in.QueryCost }},
	{"Queries per 1000 sites", func(in Inputs) float64 { return in.QueriesPer1000Sites }},
	{"Penetration test cost", func(in Inputs) float64 { return in.PentestCost }},
	{"Search monthly cost", func(in Inputs) float64 { return in.SearchMonthly }},
	{"Hosting monthly cost", func(in Inputs) float64 { return in.HostingMonthly }},
	{"Monitoring monthly cost", func(in Inputs) float64 { return in.MonitoringMonthly }},
	{"Support hours", func(in Inputs) float64 { return in.SupportHours }},
	{"Support rate", func(in Inputs) float64 { return in.SupportRate }},
	{"Manual abstraction benchmark", func(in Inputs) float64 { return in.BenchmarkManualPerDoc }},
	{"Competitor benchmark", func(in Inputs) float64 { return in.BenchmarkCompetitorPerDoc }},
	{"Solution Architect days", func(in Inputs) float64 { return in.DaysSolutionArchitect }},
	{"ML Engineer days", func(in Inputs) float64 { return in.DaysMLEngineer }},
	{"Backend days", func(in Inputs) float64 { return in.DaysBackend }},
	{"Frontend days", func(in Inputs) float64 { return in.DaysFrontend }},
	{"DevOps days", func(in Inputs) float64 { return in.DaysDevOps }},
	{"QA days", func(in Inputs) float64 { return in.DaysQA }},
	{"Project Manager days", func(in Inputs) float64 { return in.DaysProjectManager }},
}

// reviewRateFields must each lie in [0, 1].
var reviewRateFields = []fieldCheck{
	{"Good quality review rate", func(in Inputs) float64 { return in.RGood }},
	{"Medium quality review rate", func(in Inputs) float64 { return in.RMed }},
	{"Poor quality review rate", func(in Inputs) float64 { return in.RPoor }},
}

// Validate checks in for structural consistency. Every rule runs and every
// failure is reported; it never panics.
func Validate(in Inputs) Validation {
	errs := make([]string, 0)

	if !sumsToOne(in.MixLease, in.MixDeed, in.MixLicence, in.MixPlan) {
		errs = append(errs, "Document mix must total 100%")
	}
	if !sumsToOne(in.QGood, in.QMed, in.QPoor) {
		errs = append(errs, "Quality distribution must total 100%")
	}

	for _, f := range reviewRateFields {
		v := f.value(in)
		if !isFinite(v) || v < 0 || v > 1 {
			errs = append(errs, fmt.Sprintf("%s must be between 0 and 1", f.label))
		}
	}

	for _, f := range nonNegativeFields {
		v := f.value(in)
		if !isFinite(v) {
			errs = append(errs, fmt.Sprintf("%s must be a number", f.label))
			continue
		}
		if v < 0 {
			errs = append(errs, fmt.Sprintf("%s cannot be negative", f.label))
		}
	}

	if !isFinite(in.PipelinePasses) || in.PipelinePasses < 1 {
		errs = append(errs, "Extraction passes must be at least 1")
	}
	if in.MinDocs > in.MaxDocs {
		errs = append(errs, "Min documents per site cannot exceed max documents per site")
	}
	if in.OurManualReviewPct > 100 {
		errs = append(errs, "Our manual review share cannot exceed 100%")
	}
	if len(errs) == 0 && !deriveVolumes(sanitize(in)).finite() {
		errs = append(errs, "Volumes are too large to compute a quote")
	}

	return Validation{IsValid: len(errs) == 0, Errors: errs}
}

// Warnings returns advisory messages for values that are valid but risky.
// Warnings never block a computation.
func Warnings(in Inputs) []string {
	warnings := make([]string, 0)

	if in.QPoor > warnPoorQualityAbove {
		warnings = append(warnings, fmt.Sprintf("Poor-quality share above %.0f%% will drive heavy manual review", warnPoorQualityAbove*100))
	}
	if in.ReviewMinutes > warnReviewMinutesAbove {
		warnings = append(warnings, fmt.Sprintf("Review time above %d minutes per document is unusually high", warnReviewMinutesAbove))
	}
	if in.SupportRate > warnHourlyRateAbove {
		warnings = append(warnings, fmt.Sprintf("Support rate above %d per hour looks like a day-rate", warnHourlyRateAbove))
	}
	if in.ConflictMinutes > warnConflictMinsAbove {
		warnings = append(warnings, fmt.Sprintf("Conflict resolution above %d minutes per site is unusually high", warnConflictMinsAbove))
	}
	if in.QGood < warnGoodQualityBelow {
		warnings = append(warnings, fmt.Sprintf("Good-quality share below %.0f%% suggests a poor scan estate", warnGoodQualityBelow*100))
	}
	if (in.MinDocs+in.MaxDocs)/2 < warnAvgDocsBelow {
		warnings = append(warnings, fmt.Sprintf("Average documents per site below %d is unusually low", warnAvgDocsBelow))
	}
	if in.LLMCostPerMTokens > warnLLMCostAbove {
		warnings = append(warnings, fmt.Sprintf("AI cost above %d per million tokens is above typical model pricing", warnLLMCostAbove))
	}

	return warnings
}

// ScenarioWarnings reports hourly rates in s that exceed the advisory ceiling.
func ScenarioWarnings(s Scenario) []string {
	warnings := make([]string, 0)
	if s.AnalystRate > warnHourlyRateAbove {
		warnings = append(warnings, fmt.Sprintf("Analyst rate above %d per hour looks like a day-rate", warnHourlyRateAbove))
	}
	return warnings
}

func sumsToOne(values ...float64) bool {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return math.Abs(total-1) <= sumTolerance
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
