package httpx

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/funnelops/salesdash/internal/dashboard"
	"github.com/funnelops/salesdash/internal/export"
	"github.com/funnelops/salesdash/internal/funnel"
	"github.com/funnelops/salesdash/internal/models"
	"github.com/funnelops/salesdash/internal/notify"
	"github.com/funnelops/salesdash/internal/obs"
	"github.com/funnelops/salesdash/internal/store"
	"github.com/funnelops/salesdash/internal/utils"
)

type server struct {
	st  store.Store
	svc *dashboard.Service
	nt  *notify.Notifier
	log *slog.Logger
}

func NewRouter(log *slog.Logger, st store.Store, svc *dashboard.Service, nt *notify.Notifier) http.Handler {
	s := &server{st: st, svc: svc, nt: nt, log: log}

	mux := chi.NewRouter()
	mux.Use(utils.RequestID)
	mux.Use(utils.Logger(log))

	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ok")) })
	mux.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ready")) })
	mux.Handle("/metrics", promhttp.Handler())

	mux.Route("/api", func(api chi.Router) {
		api.Post("/reports/funnel", s.submitFunnel)
		api.Post("/reports/setter", s.submitSetter)
		api.Post("/reports/closer", s.submitCloser)
		api.Post("/reports/ads", s.submitAd)
		api.Post("/reports/content", s.submitContent)

		api.Get("/dashboard/funnel", s.funnelView)
		api.Get("/dashboard/setter", s.setterView)
		api.Get("/dashboard/closer", s.closerView)
		api.Get("/dashboard/ads", s.adsView)
		api.Get("/dashboard/content", s.contentView)
		api.Get("/dashboard/pace", s.paceView)

		api.Get("/goals", s.getGoal)
		api.Put("/goals", s.putGoal)

		api.Get("/export/eod.xlsx", s.exportEOD)
	})

	return mux
}

func (s *server) submitFunnel(w http.ResponseWriter, r *http.Request) {
	var rep models.FunnelReport
	if err := json.NewDecoder(r.Body).Decode(&rep); err != nil {
		http.Error(w, "bad request body", http.StatusBadRequest)
		return
	}
	if rep.FunnelType == "" {
		rep.FunnelType = models.FunnelOrganic
		if rep.AdSpend != nil {
			rep.FunnelType = models.FunnelPaid
		}
	}
	if err := s.st.UpsertFunnel(r.Context(), rep); err != nil {
		s.fail(w, r, err)
		return
	}
	obs.ReportsIngested.WithLabelValues("funnel").Inc()
	writeJSON(w, http.StatusCreated, map[string]any{"status": "stored"})
}

func (s *server) submitSetter(w http.ResponseWriter, r *http.Request) {
	var rep models.SetterReport
	if err := json.NewDecoder(r.Body).Decode(&rep); err != nil {
		http.Error(w, "bad request body", http.StatusBadRequest)
		return
	}
	if rep.ID == "" {
		rep.ID = uuid.NewString()
	}
	if err := s.st.InsertSetter(r.Context(), rep); err != nil {
		s.fail(w, r, err)
		return
	}
	obs.ReportsIngested.WithLabelValues("setter").Inc()
	s.nt.Notify(notify.Submission{
		Role:           "setter",
		MemberName:     rep.MemberName,
		ReportDate:     rep.ReportDate,
		CashCollected:  rep.CashCollected,
		KeyMetricLabel: "bookings",
		KeyMetricValue: float64(rep.Bookings),
	})
	writeJSON(w, http.StatusCreated, map[string]any{"status": "stored", "id": rep.ID})
}

func (s *server) submitCloser(w http.ResponseWriter, r *http.Request) {
	var rep models.CloserReport
	if err := json.NewDecoder(r.Body).Decode(&rep); err != nil {
		http.Error(w, "bad request body", http.StatusBadRequest)
		return
	}
	if rep.ID == "" {
		rep.ID = uuid.NewString()
	}
	if err := s.st.InsertCloser(r.Context(), rep); err != nil {
		s.fail(w, r, err)
		return
	}
	obs.ReportsIngested.WithLabelValues("closer").Inc()
	s.nt.Notify(notify.Submission{
		Role:           "closer",
		MemberName:     rep.MemberName,
		ReportDate:     rep.ReportDate,
		CashCollected:  rep.CashCollected,
		KeyMetricLabel: "dealsClosed",
		KeyMetricValue: float64(rep.DealsClosed),
	})
	writeJSON(w, http.StatusCreated, map[string]any{"status": "stored", "id": rep.ID})
}

func (s *server) submitAd(w http.ResponseWriter, r *http.Request) {
	var rep models.AdReport
	if err := json.NewDecoder(r.Body).Decode(&rep); err != nil {
		http.Error(w, "bad request body", http.StatusBadRequest)
		return
	}
	if err := s.st.UpsertAd(r.Context(), rep); err != nil {
		s.fail(w, r, err)
		return
	}
	obs.ReportsIngested.WithLabelValues("ads").Inc()
	writeJSON(w, http.StatusCreated, map[string]any{"status": "stored"})
}

func (s *server) submitContent(w http.ResponseWriter, r *http.Request) {
	var rep models.ContentReport
	if err := json.NewDecoder(r.Body).Decode(&rep); err != nil {
		http.Error(w, "bad request body", http.StatusBadRequest)
		return
	}
	if err := s.st.UpsertContent(r.Context(), rep); err != nil {
		s.fail(w, r, err)
		return
	}
	obs.ReportsIngested.WithLabelValues("content").Inc()
	writeJSON(w, http.StatusCreated, map[string]any{"status": "stored"})
}

func (s *server) funnelView(w http.ResponseWriter, r *http.Request) {
	f, ok := parseFilter(w, r)
	if !ok {
		return
	}
	v, err := s.svc.FunnelView(r.Context(), f, r.URL.Query().Get("funnel_type"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *server) setterView(w http.ResponseWriter, r *http.Request) {
	f, ok := parseFilter(w, r)
	if !ok {
		return
	}
	v, err := s.svc.SetterView(r.Context(), f)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *server) closerView(w http.ResponseWriter, r *http.Request) {
	f, ok := parseFilter(w, r)
	if !ok {
		return
	}
	v, err := s.svc.CloserView(r.Context(), f)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *server) adsView(w http.ResponseWriter, r *http.Request) {
	f, ok := parseFilter(w, r)
	if !ok {
		return
	}
	v, err := s.svc.AdsView(r.Context(), f)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *server) contentView(w http.ResponseWriter, r *http.Request) {
	f, ok := parseFilter(w, r)
	if !ok {
		return
	}
	v, err := s.svc.ContentView(r.Context(), f)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *server) paceView(w http.ResponseWriter, r *http.Request) {
	f, ok := parseFilter(w, r)
	if !ok {
		return
	}
	userID := r.URL.Query().Get("user_id")
	goalType := r.URL.Query().Get("goal_type")
	if userID == "" || goalType == "" {
		http.Error(w, "user_id and goal_type required", http.StatusBadRequest)
		return
	}
	v, err := s.svc.PaceView(r.Context(), userID, goalType, f)
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, "no goal configured", http.StatusNotFound)
		return
	}
	if errors.Is(err, funnel.ErrInvalidAssumption) {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *server) getGoal(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	goalType := r.URL.Query().Get("goal_type")
	if userID == "" || goalType == "" {
		http.Error(w, "user_id and goal_type required", http.StatusBadRequest)
		return
	}
	g, err := s.st.GetGoal(r.Context(), userID, goalType)
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, "no goal configured", http.StatusNotFound)
		return
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (s *server) putGoal(w http.ResponseWriter, r *http.Request) {
	var g models.Goal
	if err := json.NewDecoder(r.Body).Decode(&g); err != nil {
		http.Error(w, "bad request body", http.StatusBadRequest)
		return
	}
	if g.UserID == "" || g.GoalType == "" {
		http.Error(w, "userId and goalType required", http.StatusBadRequest)
		return
	}
	if err := s.st.UpsertGoal(r.Context(), g); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "stored"})
}

func (s *server) exportEOD(w http.ResponseWriter, r *http.Request) {
	f, ok := parseFilter(w, r)
	if !ok {
		return
	}
	v, err := s.svc.FunnelView(r.Context(), f, r.URL.Query().Get("funnel_type"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="eod-summary.xlsx"`)
	if err := export.WriteWorkbook(w, v); err != nil {
		s.log.Error("export workbook", slog.String("err", err.Error()), slog.String("rid", utils.RID(r.Context())))
	}
}

func parseFilter(w http.ResponseWriter, r *http.Request) (store.Filter, bool) {
	q := r.URL.Query()
	clientID := q.Get("client_id")
	if clientID == "" {
		http.Error(w, "client_id required", http.StatusBadRequest)
		return store.Filter{}, false
	}
	from, err := time.Parse("2006-01-02", q.Get("from"))
	if err != nil {
		http.Error(w, "from required (YYYY-MM-DD)", http.StatusBadRequest)
		return store.Filter{}, false
	}
	to, err := time.Parse("2006-01-02", q.Get("to"))
	if err != nil {
		http.Error(w, "to required (YYYY-MM-DD)", http.StatusBadRequest)
		return store.Filter{}, false
	}
	if to.Before(from) {
		http.Error(w, "to precedes from", http.StatusBadRequest)
		return store.Filter{}, false
	}
	return store.Filter{ClientID: clientID, From: from, To: to, MemberID: q.Get("member_id")}, true
}

func (s *server) fail(w http.ResponseWriter, r *http.Request, err error) {
	s.log.Error("request failed", slog.String("err", err.Error()), slog.String("rid", utils.RID(r.Context())))
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", " ")
	enc.Encode(v)
}
