package pricing

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
)

// Category groups line items into the three quote sections.
type Category string

const (
	CategoryIngestion Category = "ingestion"
	CategoryBuild     Category = "build"
	CategoryOpex      Category = "opex"
)

// Amount pairs an internal cost with the client-facing price derived from it.
type Amount struct {
	Cost  float64 `json:"cost"`
	Price float64 `json:"price"`
}

func (a Amount) add(b Amount) Amount {
	return Amount{Cost: a.Cost + b.Cost, Price: a.Price + b.Price}
}

func (a Amount) times(n float64) Amount {
	return Amount{Cost: a.Cost * n, Price: a.Price * n}
}

// LineItem is one itemised cost/price record of a quote.
type LineItem struct {
	ID            string   `json:"id"`
	Category      Category `json:"category"`
	Description   string   `json:"description"`
	Quantity      float64  `json:"quantity"`
	Unit          string   `json:"unit"`
	UnitRate      float64  `json:"unitRate"`
	Cost          float64  `json:"cost"`
	Margin        float64  `json:"margin"`
	Price         float64  `json:"price"`
	Note          string   `json:"note,omitempty"`
	IsPassthrough bool     `json:"isPassthrough,omitempty"`
}

// Ingestion holds the one-off document processing components.
type Ingestion struct {
	OCR          Amount `json:"ocr"`
	Extraction   Amount `json:"extraction"`
	ManualReview Amount `json:"manualReview"`
	Total        Amount `json:"total"`
}

// Build holds the one-off platform build components.
type Build struct {
	Labor       Amount `json:"labor"`
	Passthrough Amount `json:"passthrough"`
	Total       Amount `json:"total"`
}

// Opex holds the recurring monthly components.
type Opex struct {
	Platform Amount `json:"platform"`
	Variable Amount `json:"variable"`
	Support  Amount `json:"support"`
	Total    Amount `json:"total"`
}

// Benchmarks compares the one-off CAPEX price against alternative per-document rates.
type Benchmarks struct {
	ManualTotal         float64 `json:"manualTotal"`
	CompetitorTotal     float64 `json:"competitorTotal"`
	SavingsVsManual     float64 `json:"savingsVsManual"`
	SavingsVsCompetitor float64 `json:"savingsVsCompetitor"`
}

// CostDrivers expresses components as percentages of their subtotal.
type CostDrivers struct {
	OCRPct          float64 `json:"ocrPct"`
	ExtractionPct   float64 `json:"extractionPct"`
	ManualReviewPct float64 `json:"manualReviewPct"`
	IngestionPct    float64 `json:"ingestionPct"`
	BuildPct        float64 `json:"buildPct"`
	AnnualOpexPct   float64 `json:"annualOpexPct"`
}

// Result is the full computed quote for one scenario.
type Result struct {
	ScenarioKey      string      `json:"scenarioKey"`
	Volumes          Volumes     `json:"volumes"`
	Ingestion        Ingestion   `json:"ingestion"`
	Build            Build       `json:"build"`
	Opex             Opex        `json:"opex"`
	Capex            Amount      `json:"capex"`
	OpexMonthly      Amount      `json:"opexMonthly"`
	OpexAnnual       Amount      `json:"opexAnnual"`
	TotalQuote       Amount      `json:"totalQuote"`
	GrossMargin      float64     `json:"grossMargin"`
	ClientReviewCost float64     `json:"clientReviewCost"`
	Benchmarks       Benchmarks  `json:"benchmarks"`
	CostDrivers      CostDrivers `json:"costDrivers"`
	LineItems        []LineItem  `json:"lineItems"`
}

// ItemsIn returns the line items belonging to cat, in quote order.
func (r Result) ItemsIn(cat Category) []LineItem {
	out := make([]LineItem, 0)
	for _, item := range r.LineItems {
		if item.Category == cat {
			out = append(out, item)
		}
	}
	return out
}

// IsFinite reports whether every number in r is finite. Extreme inputs or a
// margin of 1 can overflow to Inf or NaN, which cannot be encoded as JSON.
func (r Result) IsFinite() bool {
	if !r.Volumes.finite() {
		return false
	}
	amounts := []Amount{
		r.Ingestion.OCR, r.Ingestion.Extraction, r.Ingestion.ManualReview, r.Ingestion.Total,
		r.Build.Labor, r.Build.Passthrough, r.Build.Total,
		r.Opex.Platform, r.Opex.Variable, r.Opex.Support, r.Opex.Total,
		r.Capex, r.OpexMonthly, r.OpexAnnual, r.TotalQuote,
	}
	for _, a := range amounts {
		if !allFinite(a.Cost, a.Price) {
			return false
		}
	}
	if !allFinite(
		r.GrossMargin, r.ClientReviewCost,
		r.Benchmarks.ManualTotal, r.Benchmarks.CompetitorTotal,
		r.Benchmarks.SavingsVsManual, r.Benchmarks.SavingsVsCompetitor,
		r.CostDrivers.OCRPct, r.CostDrivers.ExtractionPct, r.CostDrivers.ManualReviewPct,
		r.CostDrivers.IngestionPct, r.CostDrivers.BuildPct, r.CostDrivers.AnnualOpexPct,
	) {
		return false
	}
	for _, item := range r.LineItems {
		if !allFinite(item.Quantity, item.UnitRate, item.Cost, item.Margin, item.Price) {
			return false
		}
	}
	return true
}

// PriceFor applies a margin on price: the result p satisfies (p-cost)/p == margin.
// margin must be below 1.
func PriceFor(cost, margin float64) float64 {
	return cost / (1 - margin)
}

// Compute derives the complete quote for in under scenario s. It is a pure
// function of its arguments and computes a result even for invalid inputs.
func Compute(in Inputs, s Scenario) Result {
	in = sanitize(in)
	v := deriveVolumes(in)
	c := deriveCosts(in, v, s)

	labor := func(cost float64) Amount { return Amount{Cost: cost, Price: PriceFor(cost, s.LaborMargin)} }
	passthrough := func(cost float64) Amount { return Amount{Cost: cost, Price: PriceFor(cost, s.PassthroughMargin)} }

	var res Result
	res.ScenarioKey = s.Key
	res.Volumes = v
	res.ClientReviewCost = c.clientReview

	res.Ingestion.OCR = passthrough(c.ocr)
	res.Ingestion.Extraction = passthrough(c.extraction)
	res.Ingestion.ManualReview = labor(c.manualReview)
	res.Ingestion.Total = res.Ingestion.OCR.add(res.Ingestion.Extraction).add(res.Ingestion.ManualReview)

	for _, cost := range c.roles {
		res.Build.Labor = res.Build.Labor.add(labor(cost))
	}
	res.Build.Passthrough = passthrough(c.pentest)
	res.Build.Total = res.Build.Labor.add(res.Build.Passthrough)

	res.Opex.Platform = passthrough(c.search).add(passthrough(c.hosting)).add(passthrough(c.monitoring))
	res.Opex.Variable = passthrough(c.storage).add(passthrough(c.queries))
	res.Opex.Support = labor(c.support)
	res.Opex.Total = res.Opex.Platform.add(res.Opex.Variable).add(res.Opex.Support)

	res.Capex = res.Ingestion.Total.add(res.Build.Total)
	res.OpexMonthly = res.Opex.Total
	res.OpexAnnual = res.OpexMonthly.times(12)
	res.TotalQuote = res.Capex.add(res.OpexAnnual)
	res.GrossMargin = ratio(res.TotalQuote.Price-res.TotalQuote.Cost, res.TotalQuote.Price)

	res.Benchmarks.ManualTotal = v.TotalDocs * in.BenchmarkManualPerDoc
	res.Benchmarks.CompetitorTotal = v.TotalDocs * in.BenchmarkCompetitorPerDoc
	res.Benchmarks.SavingsVsManual = res.Benchmarks.ManualTotal - res.Capex.Price
	res.Benchmarks.SavingsVsCompetitor = res.Benchmarks.CompetitorTotal - res.Capex.Price

	res.CostDrivers = CostDrivers{
		OCRPct:          percent(c.ocr, res.Ingestion.Total.Cost),
		ExtractionPct:   percent(c.extraction, res.Ingestion.Total.Cost),
		ManualReviewPct: percent(c.manualReview, res.Ingestion.Total.Cost),
		IngestionPct:    percent(res.Ingestion.Total.Cost, res.TotalQuote.Cost),
		BuildPct:        percent(res.Build.Total.Cost, res.TotalQuote.Cost),
		AnnualOpexPct:   percent(res.OpexAnnual.Cost, res.TotalQuote.Cost),
	}

	res.LineItems = lineItems(in, v, c, s)
	return res
}

// lineItems builds the itemised quote: ingestion, then build, then opex.
func lineItems(in Inputs, v Volumes, c costs, s Scenario) []LineItem {
	items := make([]LineItem, 0, 3+roleCount+1+6)

	laborItem := func(id string, cat Category, desc string, qty float64, unit string, rate, cost float64) LineItem {
		return LineItem{
			ID: id, Category: cat, Description: desc,
			Quantity: qty, Unit: unit, UnitRate: rate,
			Cost: cost, Margin: s.LaborMargin, Price: PriceFor(cost, s.LaborMargin),
		}
	}
	passthroughItem := func(id string, cat Category, desc string, qty float64, unit string, rate, cost float64) LineItem {
		return LineItem{
			ID: id, Category: cat, Description: desc,
			Quantity: qty, Unit: unit, UnitRate: rate,
			Cost: cost, Margin: s.PassthroughMargin, Price: PriceFor(cost, s.PassthroughMargin),
			IsPassthrough: true,
		}
	}

	items = append(items,
		passthroughItem("ocr", CategoryIngestion, "OCR processing",
			v.TotalPages/1000, "1k pages", in.OCRCostPer1000, c.ocr),
		passthroughItem("ai-extraction", CategoryIngestion, "AI data extraction",
			v.TotalTokens/1_000_000, "M tokens", in.LLMCostPerMTokens, c.extraction),
	)

	review := laborItem("manual-review", CategoryIngestion, "Manual review and conflict resolution",
		v.BilledReviewHours, "hours", s.AnalystRate, c.manualReview)
	review.Note = reviewNote(in, v, c)
	items = append(items, review)

	days := in.roleDays()
	for i, role := range roles {
		items = append(items, laborItem("build-"+string(role), CategoryBuild, role.Label(),
			days[i], "days", s.DayRate(role), c.roles[i]))
	}
	items = append(items, passthroughItem("pentest", CategoryBuild, "Penetration test",
		1, "one-off", in.PentestCost, c.pentest))

	items = append(items,
		passthroughItem("search", CategoryOpex, "Search service", 1, "month", in.SearchMonthly, c.search),
		passthroughItem("hosting", CategoryOpex, "Application hosting", 1, "month", in.HostingMonthly, c.hosting),
		passthroughItem("monitoring", CategoryOpex, "Monitoring and logging", 1, "month", in.MonitoringMonthly, c.monitoring),
	)
	if c.storage > 0 {
		items = append(items, passthroughItem("storage", CategoryOpex, "Document storage",
			v.StorageGB, "GB-month", in.StorageCostPerGBMonth, c.storage))
	}
	if c.queries > 0 {
		items = append(items, passthroughItem("queries", CategoryOpex, "Query usage",
			v.QueryCount, "queries", in.QueryCost, c.queries))
	}
	items = append(items, laborItem("support", CategoryOpex, "Support",
		in.SupportHours, "hours", in.SupportRate, c.support))

	return items
}

func reviewNote(in Inputs, v Volumes, c costs) string {
	return fmt.Sprintf("Billed %s h (%s%% of %s h flagged effort, £%s); client-absorbed %s h (£%s)",
		formatHours(v.BilledReviewHours),
		humanize.Ftoa(in.OurManualReviewPct),
		formatHours(v.ReviewHours+v.ConflictHours),
		formatMoney(c.manualReview),
		formatHours(v.ClientReviewHours),
		formatMoney(c.clientReview),
	)
}

func formatHours(h float64) string {
	return humanize.CommafWithDigits(math.Round(h*10)/10, 1)
}

func formatMoney(m float64) string {
	return humanize.CommafWithDigits(math.Round(m*100)/100, 2)
}

func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

func percent(part, whole float64) float64 {
	return ratio(part, whole) * 100
}
