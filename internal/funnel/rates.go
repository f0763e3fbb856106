package funnel

// Rates maps a rate name to its value. Percentages are decimal fractions
// (0.24 means 24%); ratios like ROAS are unbounded above 1.
type Rates map[string]float64

// safeDiv is the engine-wide zero-denominator policy: a zero denominator
// means "no data yet" and yields exactly 0, never NaN or Inf. This must not
// be confused with an invalid goal assumption, which is a hard error.
func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// DeriveRates computes one rate per spec from already-reduced totals. Rates
// are always derived from Totals, never from raw rows, and recomputing from
// the same totals is idempotent.
func DeriveRates(t Totals, specs []RateSpec) Rates {
	out := make(Rates, len(specs))
	for _, s := range specs {
		out[s.Name] = safeDiv(t.Get(s.Num), t.Get(s.Den))
	}
	return out
}

// DeriveFunnelRates derives the stage conversions plus the variant-specific
// set: cost and ROAS rates for paid totals, overall conversion for organic.
// Cost metrics are suppressed entirely (not zeroed) when no row carried
// spend, so organic funnels never render a cost column.
func DeriveFunnelRates(t Totals) Rates {
	out := DeriveRates(t, FunnelRateSpecs)
	if !t.Paid() {
		for _, s := range OrganicRateSpecs {
			out[s.Name] = safeDiv(t.Get(s.Num), t.Get(s.Den))
		}
		return out
	}
	out[RateCashROAS] = safeDiv(t.Get(MetricCashCollected), t.Spend())
	out[RateRevenueROAS] = safeDiv(t.Get(MetricRevenue), t.Spend())
	for _, cs := range CostStages {
		out[cs.RateName] = safeDiv(t.Spend(), t.Get(cs.Stage))
	}
	return out
}

// DeriveAdRates derives click-through and cost metrics for ad-performance
// totals. Ad rows always carry spend.
func DeriveAdRates(t Totals) Rates {
	out := DeriveRates(t, AdRateSpecs)
	for _, cs := range AdCostStages {
		out[cs.RateName] = safeDiv(t.Spend(), t.Get(cs.Stage))
	}
	return out
}
