package pricing

import (
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"
)

func nearlyEqual(t *testing.T, name string, got, want float64) {
	t.Helper()
	tol := 1e-9 * math.Max(1, math.Abs(want))
	if math.Abs(got-want) > tol {
		t.Fatalf("%s = %v, want %v", name, got, want)
	}
}

func conservative() Scenario {
	return Scenario{
		Key:  "conservative",
		Name: "Conservative",
		DayRates: map[Role]float64{
			RoleSolutionArchitect: 1100,
			RoleMLEngineer:        950,
			RoleBackend:           800,
			RoleFrontend:          750,
			RoleDevOps:            850,
			RoleQA:                600,
			RoleProjectManager:    700,
		},
		AnalystRate:       44,
		LaborMargin:       0.47,
		PassthroughMargin: 0.12,
		TargetMargin:      0.40,
	}
}

func TestCompute_ExampleVolumesAndIngestion(t *testing.T) {
	res := Compute(DefaultInputs(), conservative())

	nearlyEqual(t, "avgDocsPerSite", res.Volumes.AvgDocsPerSite, 7.5)
	nearlyEqual(t, "totalDocs", res.Volumes.TotalDocs, 135000)
	// 0.5*25 + 0.1*3 + 0.1*3 + 0.3*5
	nearlyEqual(t, "avgPagesPerDoc", res.Volumes.AvgPagesPerDoc, 14.6)
	nearlyEqual(t, "totalPages", res.Volumes.TotalPages, 1971000)
	nearlyEqual(t, "ocr cost", res.Ingestion.OCR.Cost, 2424.33)
	nearlyEqual(t, "extraction cost", res.Ingestion.Extraction.Cost, 7391.25)

	nearlyEqual(t, "blendedReviewRate", res.Volumes.BlendedReviewRate, 0.13)
	nearlyEqual(t, "reviewHours", res.Volumes.ReviewHours, 5850)
	nearlyEqual(t, "conflictHours", res.Volumes.ConflictHours, 5400)
	nearlyEqual(t, "manualReview cost", res.Ingestion.ManualReview.Cost, 49500)
	nearlyEqual(t, "billedReviewHours", res.Volumes.BilledReviewHours, 1125)
	nearlyEqual(t, "clientReviewHours", res.Volumes.ClientReviewHours, 10125)
	nearlyEqual(t, "clientReviewCost", res.ClientReviewCost, 445500)
}

func TestCompute_DualMarginPerComponent(t *testing.T) {
	s := conservative()
	res := Compute(DefaultInputs(), s)

	nearlyEqual(t, "ocr price", res.Ingestion.OCR.Price, 2424.33/0.88)
	nearlyEqual(t, "manual review price", res.Ingestion.ManualReview.Price, res.Ingestion.ManualReview.Cost/0.53)

	for _, item := range res.LineItems {
		want := s.LaborMargin
		if item.IsPassthrough {
			want = s.PassthroughMargin
		}
		if item.Margin != want {
			t.Fatalf("item %s margin = %v, want %v", item.ID, item.Margin, want)
		}
		if item.Price == 0 {
			continue
		}
		nearlyEqual(t, item.ID+" realised margin", (item.Price-item.Cost)/item.Price, want)
	}
}

func TestCompute_Aggregation(t *testing.T) {
	res := Compute(DefaultInputs(), conservative())

	nearlyEqual(t, "capex cost", res.Capex.Cost, res.Ingestion.Total.Cost+res.Build.Total.Cost)
	nearlyEqual(t, "capex price", res.Capex.Price, res.Ingestion.Total.Price+res.Build.Total.Price)
	nearlyEqual(t, "opex annual", res.OpexAnnual.Price, res.OpexMonthly.Price*12)
	nearlyEqual(t, "total cost", res.TotalQuote.Cost, res.Capex.Cost+res.OpexAnnual.Cost)
	nearlyEqual(t, "total price", res.TotalQuote.Price, res.Capex.Price+res.OpexAnnual.Price)

	// 10*1100 + 20*950 + 25*800 + 15*750 + 8*850 + 10*600 + 12*700
	nearlyEqual(t, "build labor", res.Build.Labor.Cost, 82450)
	nearlyEqual(t, "build passthrough", res.Build.Passthrough.Cost, 8000)

	nearlyEqual(t, "opex platform", res.Opex.Platform.Cost, 750)
	nearlyEqual(t, "opex support", res.Opex.Support.Cost, 750)

	wantMargin := (res.TotalQuote.Price - res.TotalQuote.Cost) / res.TotalQuote.Price
	nearlyEqual(t, "grossMargin", res.GrossMargin, wantMargin)
	if res.GrossMargin <= 0.12 || res.GrossMargin >= 0.47 {
		t.Fatalf("blended margin %v should lie between passthrough and labor margins", res.GrossMargin)
	}
}

func TestCompute_LineItemSumsMatchCategoryTotals(t *testing.T) {
	res := Compute(DefaultInputs(), conservative())

	sum := func(cat Category) Amount {
		var a Amount
		for _, item := range res.ItemsIn(cat) {
			a.Cost += item.Cost
			a.Price += item.Price
		}
		return a
	}

	nearlyEqual(t, "ingestion items cost", sum(CategoryIngestion).Cost, res.Ingestion.Total.Cost)
	nearlyEqual(t, "build items price", sum(CategoryBuild).Price, res.Build.Total.Price)
	nearlyEqual(t, "opex items price", sum(CategoryOpex).Price, res.OpexMonthly.Price)
}

func TestCompute_LineItemOrderIsStable(t *testing.T) {
	res := Compute(DefaultInputs(), conservative())

	want := []string{
		"ocr", "ai-extraction", "manual-review",
		"build-solution_architect", "build-ml_engineer", "build-backend", "build-frontend",
		"build-devops", "build-qa", "build-project_manager", "pentest",
		"search", "hosting", "monitoring", "storage", "queries", "support",
	}
	got := make([]string, 0, len(res.LineItems))
	for _, item := range res.LineItems {
		got = append(got, item.ID)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("line item ids = %v, want %v", got, want)
	}

	review := res.LineItems[2]
	if !strings.Contains(review.Note, "Billed 1,125 h") || !strings.Contains(review.Note, "client-absorbed 10,125 h") {
		t.Fatalf("unexpected manual review note: %q", review.Note)
	}
}

func TestCompute_IsDeterministic(t *testing.T) {
	in := DefaultInputs()
	s := conservative()

	first := Compute(in, s)
	second := Compute(in, s)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("identical inputs produced different results")
	}
}

func TestCompute_BenchmarksCompareAgainstCapexPrice(t *testing.T) {
	in := DefaultInputs()
	res := Compute(in, conservative())

	if res.Benchmarks.SavingsVsManual != res.Volumes.TotalDocs*in.BenchmarkManualPerDoc-res.Capex.Price {
		t.Fatalf("savingsVsManual = %v, not manual total minus capex price", res.Benchmarks.SavingsVsManual)
	}
	nearlyEqual(t, "manual total", res.Benchmarks.ManualTotal, 135000*15)
	nearlyEqual(t, "competitor total", res.Benchmarks.CompetitorTotal, 135000*2.5)
	nearlyEqual(t, "savings vs competitor", res.Benchmarks.SavingsVsCompetitor, res.Benchmarks.CompetitorTotal-res.Capex.Price)
}

func TestCompute_CostDrivers(t *testing.T) {
	res := Compute(DefaultInputs(), conservative())
	d := res.CostDrivers

	nearlyEqual(t, "ingestion drivers", d.OCRPct+d.ExtractionPct+d.ManualReviewPct, 100)
	nearlyEqual(t, "quote drivers", d.IngestionPct+d.BuildPct+d.AnnualOpexPct, 100)
}

func TestCompute_SanitizesDivisorsAndMultipliers(t *testing.T) {
	in := DefaultInputs()
	in.TokensPerPage = math.NaN()
	in.PipelinePasses = 0
	in.LLMCostPerMTokens = -3

	res := Compute(in, conservative())

	nearlyEqual(t, "tokensPerPage", res.Volumes.TokensPerPage, DefaultTokensPerPage)
	nearlyEqual(t, "pipelinePasses", res.Volumes.PipelinePasses, DefaultPipelinePasses)
	nearlyEqual(t, "llmCost", res.Volumes.LLMCostPerMTokens, DefaultLLMCostPerMTokens)
	nearlyEqual(t, "extraction cost", res.Ingestion.Extraction.Cost, 7391.25)
}

// With no sites every volume-driven cost is zero, but build labor, the
// pentest, platform opex and support do not scale with volume and still apply.
func TestCompute_ZeroSitesKeepsFixedCosts(t *testing.T) {
	in := DefaultInputs()
	in.NSites = 0

	res := Compute(in, conservative())

	nearlyEqual(t, "totalDocs", res.Volumes.TotalDocs, 0)
	nearlyEqual(t, "totalPages", res.Volumes.TotalPages, 0)
	nearlyEqual(t, "ingestion cost", res.Ingestion.Total.Cost, 0)
	nearlyEqual(t, "ingestion price", res.Ingestion.Total.Price, 0)
	nearlyEqual(t, "variable opex", res.Opex.Variable.Cost, 0)
	nearlyEqual(t, "ocr driver", res.CostDrivers.OCRPct, 0)
	nearlyEqual(t, "client review cost", res.ClientReviewCost, 0)

	const (
		buildLabor = 82450.0 // 10*1100 + 20*950 + 25*800 + 15*750 + 8*850 + 10*600 + 12*700
		pentest    = 8000.0
		platform   = 750.0 // search + hosting + monitoring
		support    = 750.0 // 10 h * 75
	)
	nearlyEqual(t, "build cost", res.Build.Total.Cost, buildLabor+pentest)
	nearlyEqual(t, "build price", res.Build.Total.Price, buildLabor/0.53+pentest/0.88)
	nearlyEqual(t, "monthly opex cost", res.OpexMonthly.Cost, platform+support)
	nearlyEqual(t, "monthly opex price", res.OpexMonthly.Price, platform/0.88+support/0.53)
	nearlyEqual(t, "total cost", res.TotalQuote.Cost, 108450)

	wantPrice := buildLabor/0.53 + pentest/0.88 + 12*(platform/0.88+support/0.53)
	nearlyEqual(t, "total price", res.TotalQuote.Price, wantPrice)
	nearlyEqual(t, "grossMargin", res.GrossMargin, (wantPrice-108450)/wantPrice)
	if math.Abs(res.GrossMargin-0.435) > 0.001 {
		t.Fatalf("grossMargin = %v, want about 0.435", res.GrossMargin)
	}
	nearlyEqual(t, "build driver", res.CostDrivers.BuildPct, 90450.0/108450*100)
	assertAllFinite(t, res)
}

func TestCompute_AllZeroInputs(t *testing.T) {
	res := Compute(Inputs{}, conservative())

	nearlyEqual(t, "total cost", res.TotalQuote.Cost, 0)
	nearlyEqual(t, "total price", res.TotalQuote.Price, 0)
	nearlyEqual(t, "grossMargin", res.GrossMargin, 0)
	nearlyEqual(t, "build driver", res.CostDrivers.BuildPct, 0)
	assertAllFinite(t, res)

	for _, item := range res.LineItems {
		if item.ID == "storage" || item.ID == "queries" {
			t.Fatalf("zero-cost usage item %q should be omitted", item.ID)
		}
	}
}

func TestCompute_MarginOfOneIsNonFinite(t *testing.T) {
	s := conservative()
	s.LaborMargin = 1

	res := Compute(DefaultInputs(), s)
	if !math.IsInf(res.Build.Labor.Price, 1) {
		t.Fatalf("expected +Inf labor price with margin 1, got %v", res.Build.Labor.Price)
	}
	if res.IsFinite() {
		t.Fatalf("IsFinite should report the infinite labor price")
	}
}

func TestResult_IsFinite(t *testing.T) {
	if res := Compute(DefaultInputs(), conservative()); !res.IsFinite() {
		t.Fatalf("default inputs should give a finite result")
	}
	if res := Compute(Inputs{}, conservative()); !res.IsFinite() {
		t.Fatalf("all-zero inputs should give a finite result")
	}

	in := DefaultInputs()
	in.NSites = 1e300
	in.MinDocs = 1e300
	in.MaxDocs = 1e300
	res := Compute(in, conservative())
	if !math.IsInf(res.Volumes.TotalDocs, 1) {
		t.Fatalf("expected totalDocs to overflow, got %v", res.Volumes.TotalDocs)
	}
	if res.IsFinite() {
		t.Fatalf("IsFinite should report overflowed volumes")
	}
}

func TestPriceFor_MarginRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		cost   float64
		margin float64
	}{
		{"zero margin", 100, 0},
		{"passthrough", 2424.33, 0.12},
		{"labor", 49500, 0.47},
		{"high margin", 1, 0.95},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			price := PriceFor(tt.cost, tt.margin)
			nearlyEqual(t, "realised margin", (price-tt.cost)/price, tt.margin)
		})
	}
}

func TestCompare_KeepsScenarioOrder(t *testing.T) {
	a := conservative()
	b := conservative()
	b.Key = "aggressive"
	b.LaborMargin = 0.30
	b.PassthroughMargin = 0.05

	results, err := Compare(DefaultInputs(), []Scenario{a, b, a})
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[0].ScenarioKey != "conservative" || results[1].ScenarioKey != "aggressive" {
		t.Fatalf("unexpected order: %s, %s", results[0].ScenarioKey, results[1].ScenarioKey)
	}
	if !reflect.DeepEqual(results[0], results[2]) {
		t.Fatalf("same scenario computed twice should be identical")
	}
	if results[1].TotalQuote.Price >= results[0].TotalQuote.Price {
		t.Fatalf("lower margins should give a lower quote")
	}
}

func TestCompare_FailsOnNonFiniteScenario(t *testing.T) {
	broken := conservative()
	broken.Key = "broken"
	broken.PassthroughMargin = 1

	results, err := Compare(DefaultInputs(), []Scenario{conservative(), broken})
	if !errors.Is(err, ErrNonFinite) {
		t.Fatalf("expected ErrNonFinite, got %v", err)
	}
	if !strings.Contains(err.Error(), "broken") {
		t.Fatalf("expected scenario key in error, got %v", err)
	}
	if results != nil {
		t.Fatalf("expected no results on failure")
	}
}

func assertAllFinite(t *testing.T, res Result) {
	t.Helper()
	values := []float64{
		res.Capex.Cost, res.Capex.Price,
		res.OpexAnnual.Cost, res.OpexAnnual.Price,
		res.TotalQuote.Cost, res.TotalQuote.Price,
		res.GrossMargin,
		res.Benchmarks.SavingsVsManual, res.Benchmarks.SavingsVsCompetitor,
		res.CostDrivers.OCRPct, res.CostDrivers.ExtractionPct, res.CostDrivers.ManualReviewPct,
		res.CostDrivers.IngestionPct, res.CostDrivers.BuildPct, res.CostDrivers.AnnualOpexPct,
	}
	for _, item := range res.LineItems {
		values = append(values, item.Cost, item.Price, item.Quantity)
	}
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("value %d is not finite: %v", i, v)
		}
	}
}
