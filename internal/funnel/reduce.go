package funnel

// Record is one already-fetched report row flattened to a metric map. The
// reducer is generic over this shape; each report variant converts itself to
// a Record before aggregation.
//
// AdSpend is kept outside the metric map on purpose: nil means the row is
// organic and has no cost dimension, which downstream code must be able to
// distinguish from a spend of zero.
type Record struct {
	Metrics map[string]float64
	AdSpend *float64
}

// Totals is the sum of a sequence of same-shaped Records. Metrics absent in
// every row read as 0. AdSpend is nil unless at least one row carried spend.
type Totals struct {
	Metrics map[string]float64
	AdSpend *float64
}

// Get returns the summed value for a metric, 0 when the metric never
// appeared. Absent and zero are equivalent for summation.
func (t Totals) Get(name string) float64 {
	return t.Metrics[name]
}

// Paid reports whether any reduced row carried ad spend.
func (t Totals) Paid() bool { return t.AdSpend != nil }

// Spend returns the summed ad spend, 0 for organic totals.
func (t Totals) Spend() float64 {
	if t.AdSpend == nil {
		return 0
	}
	return *t.AdSpend
}

// Reduce folds rows into a Totals. The fold is a plain commutative sum, so
// row order never changes the result. Empty input yields all-zero totals,
// never an error. Rows missing a metric contribute 0 for it.
func Reduce(rows []Record) Totals {
	t := Totals{Metrics: make(map[string]float64)}
	for _, r := range rows {
		for name, v := range r.Metrics {
			t.Metrics[name] += v
		}
		if r.AdSpend != nil {
			if t.AdSpend == nil {
				t.AdSpend = new(float64)
			}
			*t.AdSpend += *r.AdSpend
		}
	}
	return t
}

// Materialize fills in explicit zeroes for every named field so an empty
// date range still renders a complete metric set.
func (t Totals) Materialize(fields []string) Totals {
	for _, f := range fields {
		if _, ok := t.Metrics[f]; !ok {
			t.Metrics[f] = 0
		}
	}
	return t
}
