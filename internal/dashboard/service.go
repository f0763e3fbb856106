// Package dashboard composes the store and the funnel engine into the
// per-role views the UI renders. All presentation rounding happens here; the
// engine itself stays exact.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/funnelops/salesdash/internal/funnel"
	"github.com/funnelops/salesdash/internal/models"
	"github.com/funnelops/salesdash/internal/obs"
	"github.com/funnelops/salesdash/internal/store"
)

type Service struct {
	st      store.Store
	benches map[string]funnel.Benchmark
	log     *slog.Logger
	now     func() time.Time
}

func NewService(st store.Store, benches map[string]funnel.Benchmark, log *slog.Logger) *Service {
	return &Service{st: st, benches: benches, log: log, now: time.Now}
}

// RateCard is one derived rate with its health classification.
type RateCard struct {
	Name   string        `json:"name"`
	Value  float64       `json:"value"`
	Health funnel.Health `json:"health"`
}

// View is a rendered dashboard section: totals, classified rates and the
// change versus the immediately preceding period of equal length.
type View struct {
	ClientID    string                    `json:"clientId"`
	From        string                    `json:"from"`
	To          string                    `json:"to"`
	Paid        bool                      `json:"paid"`
	Totals      map[string]float64        `json:"totals"`
	AdSpend     *float64                  `json:"adSpend,omitempty"`
	Rates       []RateCard                `json:"rates"`
	Comparisons []funnel.PeriodComparison `json:"comparisons"`
	DealsLost   float64                   `json:"dealsLost"`
}

// PaceView is goal progress plus the reverse-sized funnel volumes needed to
// close the remaining gap.
type PaceView struct {
	GoalType    string              `json:"goalType"`
	GoalAmount  float64             `json:"goalAmount"`
	Current     float64             `json:"current"`
	Pace        funnel.PaceResult   `json:"pace"`
	CloserNeeds *funnel.CloserNeeds `json:"closerNeeds,omitempty"`
	SetterNeeds *funnel.SetterNeeds `json:"setterNeeds,omitempty"`
}

// previousPeriod returns the window of equal length ending the day before
// from.
func previousPeriod(from, to time.Time) (time.Time, time.Time) {
	span := to.Sub(from)
	prevTo := from.AddDate(0, 0, -1)
	return prevTo.Add(-span), prevTo
}

// FunnelView aggregates a client's funnel reports for the range. funnelType
// may be "paid", "organic" or empty for both.
func (s *Service) FunnelView(ctx context.Context, f store.Filter, funnelType string) (View, error) {
	obs.DashboardRequests.WithLabelValues("funnel").Inc()
	defer trackAggregation()()

	cur, err := s.st.QueryFunnel(ctx, f, funnelType)
	if err != nil {
		return View{}, fmt.Errorf("funnel view: %w", err)
	}
	prevFrom, prevTo := previousPeriod(f.From, f.To)
	prev, err := s.st.QueryFunnel(ctx, store.Filter{ClientID: f.ClientID, From: prevFrom, To: prevTo}, funnelType)
	if err != nil {
		return View{}, fmt.Errorf("funnel view previous period: %w", err)
	}

	curT := funnel.Reduce(models.Records(cur)).Materialize(funnel.FunnelFields)
	prevT := funnel.Reduce(models.Records(prev))
	rates := funnel.DeriveFunnelRates(curT)
	s.log.Debug("funnel view aggregated", slog.String("client", f.ClientID), slog.Int("rows", len(cur)), slog.Bool("paid", curT.Paid()))

	v := s.render(f, curT, rates, funnel.FunnelFields, prevT)
	// executive roll-up clamps lost deals at zero
	v.DealsLost = funnel.DealsLostClamped(curT.Get(funnel.MetricShows), curT.Get(funnel.MetricCloses), curT.Get(funnel.MetricFollowUps))
	return v, nil
}

// SetterView aggregates setter activity, optionally for one member.
func (s *Service) SetterView(ctx context.Context, f store.Filter) (View, error) {
	obs.DashboardRequests.WithLabelValues("setter").Inc()
	defer trackAggregation()()

	cur, err := s.st.QuerySetter(ctx, f)
	if err != nil {
		return View{}, fmt.Errorf("setter view: %w", err)
	}
	prevFrom, prevTo := previousPeriod(f.From, f.To)
	prev, err := s.st.QuerySetter(ctx, store.Filter{ClientID: f.ClientID, From: prevFrom, To: prevTo, MemberID: f.MemberID})
	if err != nil {
		return View{}, fmt.Errorf("setter view previous period: %w", err)
	}

	curT := funnel.Reduce(models.Records(cur)).Materialize(funnel.SetterFields)
	prevT := funnel.Reduce(models.Records(prev))
	rates := funnel.DeriveRates(curT, funnel.SetterRateSpecs)

	v := s.render(f, curT, rates, funnel.SetterFields, prevT)
	v.DealsLost = funnel.DealsLostClamped(curT.Get(funnel.MetricShows), curT.Get(funnel.MetricDealsClosed), 0)
	return v, nil
}

// CloserView aggregates closer activity, optionally for one member. Lost
// deals are reported unclamped here, matching the closer dashboard as
// shipped.
func (s *Service) CloserView(ctx context.Context, f store.Filter) (View, error) {
	obs.DashboardRequests.WithLabelValues("closer").Inc()
	defer trackAggregation()()

	cur, err := s.st.QueryCloser(ctx, f)
	if err != nil {
		return View{}, fmt.Errorf("closer view: %w", err)
	}
	prevFrom, prevTo := previousPeriod(f.From, f.To)
	prev, err := s.st.QueryCloser(ctx, store.Filter{ClientID: f.ClientID, From: prevFrom, To: prevTo, MemberID: f.MemberID})
	if err != nil {
		return View{}, fmt.Errorf("closer view previous period: %w", err)
	}

	curT := funnel.Reduce(models.Records(cur)).Materialize(funnel.CloserFields)
	prevT := funnel.Reduce(models.Records(prev))
	rates := funnel.DeriveRates(curT, funnel.CloserRateSpecs)

	v := s.render(f, curT, rates, funnel.CloserFields, prevT)
	v.DealsLost = funnel.DealsLost(curT.Get(funnel.MetricShows), curT.Get(funnel.MetricDealsClosed), curT.Get(funnel.MetricFollowUps))
	return v, nil
}

// AdsView aggregates ad-performance rows across campaigns for the range.
func (s *Service) AdsView(ctx context.Context, f store.Filter) (View, error) {
	obs.DashboardRequests.WithLabelValues("ads").Inc()
	defer trackAggregation()()

	cur, err := s.st.QueryAds(ctx, f)
	if err != nil {
		return View{}, fmt.Errorf("ads view: %w", err)
	}
	prevFrom, prevTo := previousPeriod(f.From, f.To)
	prev, err := s.st.QueryAds(ctx, store.Filter{ClientID: f.ClientID, From: prevFrom, To: prevTo})
	if err != nil {
		return View{}, fmt.Errorf("ads view previous period: %w", err)
	}

	curT := funnel.Reduce(models.Records(cur)).Materialize(funnel.AdFields)
	prevT := funnel.Reduce(models.Records(prev))
	return s.render(f, curT, funnel.DeriveAdRates(curT), funnel.AdFields, prevT), nil
}

// ContentView aggregates organic content rows for the range.
func (s *Service) ContentView(ctx context.Context, f store.Filter) (View, error) {
	obs.DashboardRequests.WithLabelValues("content").Inc()
	defer trackAggregation()()

	cur, err := s.st.QueryContent(ctx, f)
	if err != nil {
		return View{}, fmt.Errorf("content view: %w", err)
	}
	prevFrom, prevTo := previousPeriod(f.From, f.To)
	prev, err := s.st.QueryContent(ctx, store.Filter{ClientID: f.ClientID, From: prevFrom, To: prevTo})
	if err != nil {
		return View{}, fmt.Errorf("content view previous period: %w", err)
	}

	curT := funnel.Reduce(models.Records(cur)).Materialize(funnel.ContentFields)
	prevT := funnel.Reduce(models.Records(prev))
	return s.render(f, curT, funnel.DeriveRates(curT, funnel.ContentRateSpecs), funnel.ContentFields, prevT), nil
}

// PaceView computes goal pacing for a member. Current cash collected is
// summed over the period from the member's role reports.
func (s *Service) PaceView(ctx context.Context, userID, goalType string, f store.Filter) (PaceView, error) {
	obs.DashboardRequests.WithLabelValues("pace").Inc()

	goal, err := s.st.GetGoal(ctx, userID, goalType)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return PaceView{}, err
		}
		return PaceView{}, fmt.Errorf("pace view: %w", err)
	}

	var current float64
	switch goalType {
	case models.GoalSetter:
		rows, err := s.st.QuerySetter(ctx, f)
		if err != nil {
			return PaceView{}, fmt.Errorf("pace view: %w", err)
		}
		current = funnel.Reduce(models.Records(rows)).Get(funnel.MetricCashCollected)
	default:
		rows, err := s.st.QueryCloser(ctx, f)
		if err != nil {
			return PaceView{}, fmt.Errorf("pace view: %w", err)
		}
		current = funnel.Reduce(models.Records(rows)).Get(funnel.MetricCashCollected)
	}

	daysInPeriod := int(f.To.Sub(f.From).Hours()/24) + 1
	daysElapsed := int(s.now().Sub(f.From).Hours()/24) + 1
	if daysElapsed > daysInPeriod {
		daysElapsed = daysInPeriod
	}
	if daysElapsed < 0 {
		daysElapsed = 0
	}

	a := goal.Assumptions
	pace := funnel.Pace(current, a.GoalAmount, daysInPeriod, daysElapsed)
	out := PaceView{GoalType: goalType, GoalAmount: a.GoalAmount, Current: current, Pace: pace}
	switch goalType {
	case models.GoalSetter:
		n, err := funnel.SetterFunnelSizing(pace.Remaining, a)
		if err != nil {
			return PaceView{}, err
		}
		out.SetterNeeds = &n
	default:
		n, err := funnel.CloserFunnelSizing(pace.Remaining, a)
		if err != nil {
			return PaceView{}, err
		}
		out.CloserNeeds = &n
	}
	return out, nil
}

// render builds the common View parts: rounded totals, classified rates and
// per-metric period comparisons.
func (s *Service) render(f store.Filter, t funnel.Totals, rates funnel.Rates, fields []string, prev funnel.Totals) View {
	v := View{
		ClientID: f.ClientID,
		From:     f.From.Format("2006-01-02"),
		To:       f.To.Format("2006-01-02"),
		Paid:     t.Paid(),
		Totals:   make(map[string]float64, len(t.Metrics)),
	}
	for name, val := range t.Metrics {
		v.Totals[name] = round2(val)
	}
	if t.Paid() {
		spend := round2(t.Spend())
		v.AdSpend = &spend
	}
	for _, name := range sortedNames(rates) {
		val := rates[name]
		card := RateCard{Name: name, Value: round3(val), Health: funnel.HealthNeutral}
		if b, ok := s.benches[name]; ok {
			card.Health = funnel.Classify(val, b)
		}
		v.Rates = append(v.Rates, card)
	}
	v.Comparisons = funnel.ComparePeriods(fields, t, prev)
	for i := range v.Comparisons {
		if pc := v.Comparisons[i].PercentChange; pc != nil {
			r := round2(*pc)
			v.Comparisons[i].PercentChange = &r
		}
	}
	return v
}

func sortedNames(rates funnel.Rates) []string {
	names := make([]string, 0, len(rates))
	for n := range rates {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func trackAggregation() func() {
	start := time.Now()
	return func() { obs.AggregationDuration.Observe(time.Since(start).Seconds()) }
}

func round2(f float64) float64 { return math.Round(f*100) / 100 }
func round3(f float64) float64 { return math.Round(f*1000) / 1000 }
