package pricing

// Fallbacks substituted when a divisor or multiplier is not a positive finite number.
const (
	DefaultTokensPerPage     = 750
	DefaultPipelinePasses    = 1
	DefaultLLMCostPerMTokens = 5
)

// Volumes holds the absolute quantities derived from the assumptions.
type Volumes struct {
	AvgDocsPerSite    float64 `json:"avgDocsPerSite"`
	AvgPagesPerDoc    float64 `json:"avgPagesPerDoc"`
	TotalDocs         float64 `json:"totalDocs"`
	TotalPages        float64 `json:"totalPages"`
	TokensPerPage     float64 `json:"tokensPerPage"`
	PipelinePasses    float64 `json:"pipelinePasses"`
	LLMCostPerMTokens float64 `json:"llmCostPerMTokens"`
	TotalTokens       float64 `json:"totalTokens"`
	BlendedReviewRate float64 `json:"blendedReviewRate"`
	FlaggedDocs       float64 `json:"flaggedDocs"`
	ReviewHours       float64 `json:"reviewHours"`
	ConflictHours     float64 `json:"conflictHours"`
	BilledReviewHours float64 `json:"billedReviewHours"`
	ClientReviewHours float64 `json:"clientReviewHours"`
	StorageGB         float64 `json:"storageGB"`
	QueryCount        float64 `json:"queryCount"`
}

// costs holds every raw cost component before margins are applied.
type costs struct {
	ocr          float64
	extraction   float64
	manualReview float64
	clientReview float64
	roles        [roleCount]float64
	pentest      float64
	search       float64
	hosting      float64
	monitoring   float64
	storage      float64
	queries      float64
	support      float64
}

// sanitize replaces unusable divisor/multiplier fields with their documented defaults.
func sanitize(in Inputs) Inputs {
	in.TokensPerPage = positiveOr(in.TokensPerPage, DefaultTokensPerPage)
	in.PipelinePasses = positiveOr(in.PipelinePasses, DefaultPipelinePasses)
	in.LLMCostPerMTokens = positiveOr(in.LLMCostPerMTokens, DefaultLLMCostPerMTokens)
	return in
}

func positiveOr(v, def float64) float64 {
	if !isFinite(v) || v <= 0 {
		return def
	}
	return v
}

// deriveVolumes expands site and mix assumptions into absolute volumes.
// in must already be sanitized.
func deriveVolumes(in Inputs) Volumes {
	var v Volumes
	v.AvgDocsPerSite = (in.MinDocs + in.MaxDocs) / 2
	v.AvgPagesPerDoc = in.MixLease*in.PagesLease +
		in.MixDeed*in.PagesDeed +
		in.MixLicence*in.PagesLicence +
		in.MixPlan*in.PagesPlan
	v.TotalDocs = in.NSites * v.AvgDocsPerSite
	v.TotalPages = v.TotalDocs * v.AvgPagesPerDoc

	v.TokensPerPage = in.TokensPerPage
	v.PipelinePasses = in.PipelinePasses
	v.LLMCostPerMTokens = in.LLMCostPerMTokens
	v.TotalTokens = v.TotalPages * in.TokensPerPage * in.PipelinePasses

	v.BlendedReviewRate = in.QGood*in.RGood + in.QMed*in.RMed + in.QPoor*in.RPoor
	v.FlaggedDocs = v.TotalDocs * v.BlendedReviewRate
	v.ReviewHours = v.FlaggedDocs * in.ReviewMinutes / 60
	v.ConflictHours = in.NSites * in.ConflictMinutes / 60

	share := in.OurManualReviewPct / 100
	totalHours := v.ReviewHours + v.ConflictHours
	v.BilledReviewHours = totalHours * share
	v.ClientReviewHours = totalHours - v.BilledReviewHours

	v.StorageGB = v.TotalPages * in.StorageMBPerPage / 1024
	v.QueryCount = in.NSites / 1000 * in.QueriesPer1000Sites
	return v
}

func (v Volumes) finite() bool {
	return allFinite(
		v.AvgDocsPerSite, v.AvgPagesPerDoc, v.TotalDocs, v.TotalPages, v.TotalTokens,
		v.BlendedReviewRate, v.FlaggedDocs, v.ReviewHours, v.ConflictHours,
		v.BilledReviewHours, v.ClientReviewHours, v.StorageGB, v.QueryCount,
	)
}

func allFinite(values ...float64) bool {
	for _, v := range values {
		if !isFinite(v) {
			return false
		}
	}
	return true
}

// deriveCosts turns volumes into raw cost components.
func deriveCosts(in Inputs, v Volumes, s Scenario) costs {
	var c costs
	c.ocr = v.TotalPages / 1000 * in.OCRCostPer1000
	c.extraction = v.TotalTokens / 1_000_000 * in.LLMCostPerMTokens

	c.manualReview = (v.ReviewHours + v.ConflictHours) * s.AnalystRate * (in.OurManualReviewPct / 100)
	c.clientReview = v.ClientReviewHours * s.AnalystRate

	days := in.roleDays()
	for i, role := range roles {
		c.roles[i] = days[i] * s.DayRate(role)
	}
	c.pentest = in.PentestCost

	c.search = in.SearchMonthly
	c.hosting = in.HostingMonthly
	c.monitoring = in.MonitoringMonthly
	c.storage = v.StorageGB * in.StorageCostPerGBMonth
	c.queries = v.QueryCount * in.QueryCost
	c.support = in.SupportHours * in.SupportRate
	return c
}
