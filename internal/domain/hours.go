package domain

// HoursInDay is the fixed Total reported by every HoursSummary.
const HoursInDay = 24

// HoursSummary holds the per-status hour totals of one timeline.
// It is always derived from segments and never stored on its own.
// Total is the constant HoursInDay; the four buckets need not sum to it.
type HoursSummary struct {
	OffDuty float64 `json:"off_duty"`
	Sleeper float64 `json:"sleeper"`
	Driving float64 `json:"driving"`
	OnDuty  float64 `json:"on_duty"`
	Total   float64 `json:"total"`
}

// ComplianceResult is the outcome of evaluating one HoursSummary against
// the single-day HOS rules. Violations are ordered by rule.
type ComplianceResult struct {
	IsCompliant bool     `json:"is_compliant"`
	Violations  []string `json:"violations"`
}
