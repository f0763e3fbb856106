package funnel

// PeriodComparison is the change of one metric between two periods.
// PercentChange is nil when both values are zero; the presentation layer
// suppresses the change indicator in that case.
type PeriodComparison struct {
	Metric        string   `json:"metric"`
	Current       float64  `json:"current"`
	Previous      float64  `json:"previous"`
	PercentChange *float64 `json:"percentChange"`
}

// PercentChange computes the percent change from previous to current.
// Growth from zero is reported as a flat +100, never +Inf. Zero to zero
// returns 0 by convention; callers that render indicators should use
// ComparePeriods, which marks that case as undefined instead.
func PercentChange(current, previous float64) float64 {
	if previous == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	return (current - previous) / previous * 100
}

// ComparePeriods applies PercentChange independently per metric. There is no
// batch semantics beyond iteration; each comparison stands alone.
func ComparePeriods(metrics []string, current, previous Totals) []PeriodComparison {
	out := make([]PeriodComparison, 0, len(metrics))
	for _, m := range metrics {
		cur, prev := current.Get(m), previous.Get(m)
		pc := PeriodComparison{Metric: m, Current: cur, Previous: prev}
		if cur != 0 || prev != 0 {
			v := PercentChange(cur, prev)
			pc.PercentChange = &v
		}
		out = append(out, pc)
	}
	return out
}
