package pricing

// Inputs holds the business-volume assumptions a quote is computed from.
// Only assumption fields live here; UI state such as preset selectors does not.
type Inputs struct {
	// Volume
	NSites       float64 `json:"nSites" yaml:"nSites"`
	MinDocs      float64 `json:"minDocs" yaml:"minDocs"`
	MaxDocs      float64 `json:"maxDocs" yaml:"maxDocs"`
	MixLease     float64 `json:"mixLease" yaml:"mixLease"`
	MixDeed      float64 `json:"mixDeed" yaml:"mixDeed"`
	MixLicence   float64 `json:"mixLicence" yaml:"mixLicence"`
	MixPlan      float64 `json:"mixPlan" yaml:"mixPlan"`
	PagesLease   float64 `json:"pagesLease" yaml:"pagesLease"`
	PagesDeed    float64 `json:"pagesDeed" yaml:"pagesDeed"`
	PagesLicence float64 `json:"pagesLicence" yaml:"pagesLicence"`
	PagesPlan    float64 `json:"pagesPlan" yaml:"pagesPlan"`

	// Quality
	QGood              float64 `json:"qGood" yaml:"qGood"`
	QMed               float64 `json:"qMed" yaml:"qMed"`
	QPoor              float64 `json:"qPoor" yaml:"qPoor"`
	RGood              float64 `json:"rGood" yaml:"rGood"`
	RMed               float64 `json:"rMed" yaml:"rMed"`
	RPoor              float64 `json:"rPoor" yaml:"rPoor"`
	ReviewMinutes      float64 `json:"reviewMinutes" yaml:"reviewMinutes"`
	ConflictMinutes    float64 `json:"conflictMinutes" yaml:"conflictMinutes"`
	OurManualReviewPct float64 `json:"ourManualReviewPct" yaml:"ourManualReviewPct"`

	// Unit costs
	OCRCostPer1000            float64 `json:"ocrCostPer1000" yaml:"ocrCostPer1000"`
	TokensPerPage             float64 `json:"tokensPerPage" yaml:"tokensPerPage"`
	PipelinePasses            float64 `json:"pipelinePasses" yaml:"pipelinePasses"`
	LLMCostPerMTokens         float64 `json:"llmCostPerMTokens" yaml:"llmCostPerMTokens"`
	StorageMBPerPage          float64 `json:"storageMBPerPage" yaml:"storageMBPerPage"`
	StorageCostPerGBMonth     float64 `json:"storageCostPerGBMonth" yaml:"storageCostPerGBMonth"`
	QueryCost                 float64 `json:"queryCost" yaml:"queryCost"`
	QueriesPer1000Sites       float64 `json:"queriesPer1000Sites" yaml:"queriesPer1000Sites"`
	PentestCost               float64 `json:"pentestCost" yaml:"pentestCost"`
	SearchMonthly             float64 `json:"searchMonthly" yaml:"searchMonthly"`
	HostingMonthly            float64 `json:"hostingMonthly" yaml:"hostingMonthly"`
	MonitoringMonthly         float64 `json:"monitoringMonthly" yaml:"monitoringMonthly"`
	SupportHours              float64 `json:"supportHours" yaml:"supportHours"`
	SupportRate               float64 `json:"supportRate" yaml:"supportRate"`
	BenchmarkManualPerDoc     float64 `json:"benchmarkManualPerDoc" yaml:"benchmarkManualPerDoc"`
	BenchmarkCompetitorPerDoc float64 `json:"benchmarkCompetitorPerDoc" yaml:"benchmarkCompetitorPerDoc"`

	// Labor effort, in days
	DaysSolutionArchitect float64 `json:"daysSolutionArchitect" yaml:"daysSolutionArchitect"`
	DaysMLEngineer        float64 `json:"daysMLEngineer" yaml:"daysMLEngineer"`
	DaysBackend           float64 `json:"daysBackend" yaml:"daysBackend"`
	DaysFrontend          float64 `json:"daysFrontend" yaml:"daysFrontend"`
	DaysDevOps            float64 `json:"daysDevOps" yaml:"daysDevOps"`
	DaysQA                float64 `json:"daysQA" yaml:"daysQA"`
	DaysProjectManager    float64 `json:"daysProjectManager" yaml:"daysProjectManager"`
}

// DefaultInputs returns the baseline assumption set used when nothing else is supplied.
func DefaultInputs() Inputs {
	return Inputs{
		NSites:       18000,
		MinDocs:      5,
		MaxDocs:      10,
		MixLease:     0.5,
		MixDeed:      0.1,
		MixLicence:   0.1,
		MixPlan:      0.3,
		PagesLease:   25,
		PagesDeed:    3,
		PagesLicence: 3,
		PagesPlan:    5,

		QGood:              0.5,
		QMed:               0.35,
		QPoor:              0.15,
		RGood:              0.05,
		RMed:               0.15,
		RPoor:              0.35,
		ReviewMinutes:      20,
		ConflictMinutes:    18,
		OurManualReviewPct: 10,

		OCRCostPer1000:            1.23,
		TokensPerPage:             DefaultTokensPerPage,
		PipelinePasses:            DefaultPipelinePasses,
		LLMCostPerMTokens:         DefaultLLMCostPerMTokens,
		StorageMBPerPage:          0.25,
		StorageCostPerGBMonth:     0.02,
		QueryCost:                 0.01,
		QueriesPer1000Sites:       5000,
		PentestCost:               8000,
		SearchMonthly:             250,
		HostingMonthly:            400,
		MonitoringMonthly:         100,
		SupportHours:              10,
		SupportRate:               75,
		BenchmarkManualPerDoc:     15,
		BenchmarkCompetitorPerDoc: 2.5,

		DaysSolutionArchitect: 10,
		DaysMLEngineer:        20,
		DaysBackend:           25,
		DaysFrontend:          15,
		DaysDevOps:            8,
		DaysQA:                10,
		DaysProjectManager:    12,
	}
}

// roleDays returns the effort days for each build role, in role order.
func (in Inputs) roleDays() [roleCount]float64 {
	return [roleCount]float64{
		in.DaysSolutionArchitect,
		in.DaysMLEngineer,
		in.DaysBackend,
		in.DaysFrontend,
		in.DaysDevOps,
		in.DaysQA,
		in.DaysProjectManager,
	}
}
