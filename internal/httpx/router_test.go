package httpx

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/funnelops/salesdash/internal/config"
	"github.com/funnelops/salesdash/internal/dashboard"
	"github.com/funnelops/salesdash/internal/notify"
	"github.com/funnelops/salesdash/internal/store"
)

func newTestRouter() http.Handler {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	st := store.NewMemory()
	svc := dashboard.NewService(st, config.DefaultBenchmarks(), log)
	nt := notify.New("", time.Second, log)
	return NewRouter(log, st, svc, nt)
}

func TestHealthz(t *testing.T) {
	r := newTestRouter()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz status = %d", rec.Code)
	}
}

func TestSubmitThenQueryFunnel(t *testing.T) {
	r := newTestRouter()

	body := `{
		"clientId": "c1",
		"reportDate": "2026-08-10T00:00:00Z",
		"pageViews": 1000,
		"applications": 40,
		"bookings": 20,
		"shows": 14,
		"closes": 5,
		"cashCollected": 20000,
		"adSpend": 4000
	}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/reports/funnel", strings.NewReader(body))
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit status = %d body=%s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/dashboard/funnel?client_id=c1&from=2026-08-10&to=2026-08-10", nil)
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard status = %d body=%s", rec.Code, rec.Body.String())
	}

	var v dashboard.View
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatal(err)
	}
	if v.Totals["pageViews"] != 1000 || v.Totals["closes"] != 5 {
		t.Fatalf("unexpected totals: %v", v.Totals)
	}
	if !v.Paid || v.AdSpend == nil || *v.AdSpend != 4000 {
		t.Fatalf("adSpend not carried: %+v", v.AdSpend)
	}
}

func TestSubmitCloserAndView(t *testing.T) {
	r := newTestRouter()

	body := `{
		"clientId": "c1",
		"memberId": "m1",
		"memberName": "Jordan",
		"reportDate": "2026-08-10T00:00:00Z",
		"callsOnCalendar": 10,
		"shows": 7,
		"noShows": 3,
		"dealsClosed": 2,
		"cashCollected": 10000
	}`
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/reports/closer", strings.NewReader(body)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit status = %d body=%s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard/closer?client_id=c1&from=2026-08-01&to=2026-08-31&member_id=m1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("view status = %d body=%s", rec.Code, rec.Body.String())
	}
	var v dashboard.View
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatal(err)
	}
	found := false
	for _, rc := range v.Rates {
		if rc.Name == "showRate" {
			found = true
			if rc.Value != 0.7 {
				t.Fatalf("showRate = %v, want 0.7", rc.Value)
			}
		}
	}
	if !found {
		t.Fatal("showRate missing from view")
	}
}

func TestGoalRoundTripAndPace(t *testing.T) {
	r := newTestRouter()

	goal := `{
		"userId": "m1",
		"goalType": "closer",
		"assumptions": {
			"goalAmount": 50000,
			"targetAOV": 5000,
			"targetShowRate": 0.7,
			"targetCloseRate": 0.25
		}
	}`
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/goals", strings.NewReader(goal)))
	if rec.Code != http.StatusOK {
		t.Fatalf("put goal status = %d body=%s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/goals?user_id=m1&goal_type=closer", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("get goal status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard/pace?client_id=c1&user_id=m1&goal_type=closer&from=2026-08-01&to=2026-08-30", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("pace status = %d body=%s", rec.Code, rec.Body.String())
	}
	var pv dashboard.PaceView
	if err := json.NewDecoder(rec.Body).Decode(&pv); err != nil {
		t.Fatal(err)
	}
	if pv.GoalAmount != 50000 || pv.CloserNeeds == nil {
		t.Fatalf("unexpected pace view: %+v", pv)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/goals?user_id=ghost&goal_type=closer", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing goal status = %d, want 404", rec.Code)
	}
}

func TestSubmitAdAndView(t *testing.T) {
	r := newTestRouter()

	body := `{
		"clientId": "c1",
		"reportDate": "2026-08-10T00:00:00Z",
		"campaignName": "launch",
		"adsetName": "lookalike",
		"adName": "video-1",
		"impressions": 10000,
		"clicks": 250,
		"leads": 25,
		"bookings": 5,
		"spend": 500
	}`
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/reports/ads", strings.NewReader(body)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit status = %d body=%s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard/ads?client_id=c1&from=2026-08-01&to=2026-08-31", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("view status = %d body=%s", rec.Code, rec.Body.String())
	}
	var v dashboard.View
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatal(err)
	}
	if v.AdSpend == nil || *v.AdSpend != 500 {
		t.Fatalf("adSpend = %v, want 500", v.AdSpend)
	}
	rates := map[string]float64{}
	for _, rc := range v.Rates {
		rates[rc.Name] = rc.Value
	}
	if rates["ctr"] != 0.025 {
		t.Fatalf("ctr = %v, want 0.025", rates["ctr"])
	}
	if rates["costPerBooking"] != 100 {
		t.Fatalf("costPerBooking = %v, want 100", rates["costPerBooking"])
	}
}

func TestMissingFilterParams(t *testing.T) {
	r := newTestRouter()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard/funnel?from=2026-08-01&to=2026-08-31", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 without client_id", rec.Code)
	}
}

func TestExportEOD(t *testing.T) {
	r := newTestRouter()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/export/eod.xlsx?client_id=c1&from=2026-08-01&to=2026-08-31", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("export status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Fatalf("content type = %q", ct)
	}
	if rec.Body.Len() == 0 {
		t.Fatal("empty workbook body")
	}
}
