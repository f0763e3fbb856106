package funnel

import (
	"math/rand"
	"reflect"
	"testing"
)

func fp(v float64) *float64 { return &v }

func TestReduceEmptyInput(t *testing.T) {
	got := Reduce(nil).Materialize(FunnelFields)
	for _, f := range FunnelFields {
		if got.Get(f) != 0 {
			t.Fatalf("field %s = %v, want 0", f, got.Get(f))
		}
	}
	if got.Paid() {
		t.Fatal("empty input must not be paid")
	}
}

func TestReduceSums(t *testing.T) {
	rows := []Record{
		{Metrics: map[string]float64{MetricCloses: 2, MetricCashCollected: 1000}},
		{Metrics: map[string]float64{MetricCloses: 3, MetricCashCollected: 1500}},
	}
	got := Reduce(rows)
	if got.Get(MetricCloses) != 5 || got.Get(MetricCashCollected) != 2500 {
		t.Fatalf("got closes=%v cash=%v, want 5 and 2500", got.Get(MetricCloses), got.Get(MetricCashCollected))
	}
}

func TestReduceOrderIndependent(t *testing.T) {
	rows := []Record{
		{Metrics: map[string]float64{MetricPageViews: 1000, MetricBookings: 20}, AdSpend: fp(4000)},
		{Metrics: map[string]float64{MetricPageViews: 900, MetricBookings: 22}, AdSpend: fp(4200)},
		{Metrics: map[string]float64{MetricPageViews: 1100, MetricBookings: 18}},
		{Metrics: map[string]float64{MetricBookings: 5}},
	}
	want := Reduce(rows)

	r := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		shuffled := append([]Record(nil), rows...)
		r.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		got := Reduce(shuffled)
		if !reflect.DeepEqual(got.Metrics, want.Metrics) {
			t.Fatalf("permutation %d changed totals: %v vs %v", i, got.Metrics, want.Metrics)
		}
		if got.Spend() != want.Spend() || got.Paid() != want.Paid() {
			t.Fatalf("permutation %d changed spend: %v/%v vs %v/%v", i, got.Spend(), got.Paid(), want.Spend(), want.Paid())
		}
	}
}

func TestReduceAdSpendPresence(t *testing.T) {
	organic := Reduce([]Record{
		{Metrics: map[string]float64{MetricPageViews: 10}},
		{Metrics: map[string]float64{MetricPageViews: 20}},
	})
	if organic.Paid() {
		t.Fatal("all-absent adSpend must reduce to nil")
	}

	// one paid row makes the whole range paid, even at zero spend
	mixed := Reduce([]Record{
		{Metrics: map[string]float64{MetricPageViews: 10}},
		{Metrics: map[string]float64{MetricPageViews: 20}, AdSpend: fp(0)},
	})
	if !mixed.Paid() {
		t.Fatal("one present adSpend must reduce to non-nil")
	}
	if mixed.Spend() != 0 {
		t.Fatalf("spend = %v, want 0", mixed.Spend())
	}
}

func TestReduceMissingFieldsReadAsZero(t *testing.T) {
	got := Reduce([]Record{
		{Metrics: map[string]float64{MetricShows: 3}},
		{Metrics: map[string]float64{MetricBookings: 4}},
	})
	if got.Get(MetricShows) != 3 || got.Get(MetricBookings) != 4 || got.Get(MetricCloses) != 0 {
		t.Fatalf("unexpected totals: %v", got.Metrics)
	}
}
