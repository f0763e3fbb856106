package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/funnelops/salesdash/internal/models"
)

// Memory is an in-process Store with the same upsert-on-conflict semantics as
// the Postgres implementation. It backs unit tests and dev mode (no
// DATABASE_URL configured).
type Memory struct {
	mu      sync.RWMutex
	funnel  map[funnelKey]models.FunnelReport
	ads     map[adKey]models.AdReport
	content map[contentKey]models.ContentReport
	setter  []models.SetterReport
	closer  []models.CloserReport
	goals   map[goalKey]models.Goal
}

type funnelKey struct {
	ClientID   string
	ReportDate string
	FunnelType string
}

type adKey struct {
	ClientID     string
	ReportDate   string
	CampaignName string
	AdsetName    string
	AdName       string
}

type contentKey struct {
	ClientID    string
	ReportDate  string
	Source      string
	Medium      string
	ContentName string
}

type goalKey struct {
	UserID   string
	GoalType string
}

func NewMemory() *Memory {
	return &Memory{
		funnel:  make(map[funnelKey]models.FunnelReport),
		ads:     make(map[adKey]models.AdReport),
		content: make(map[contentKey]models.ContentReport),
		goals:   make(map[goalKey]models.Goal),
	}
}

func day(t time.Time) string { return t.Format("2006-01-02") }

func inRange(t time.Time, f Filter) bool {
	d := day(t)
	return d >= day(f.From) && d <= day(f.To)
}

func (m *Memory) QueryFunnel(_ context.Context, f Filter, funnelType string) ([]models.FunnelReport, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.FunnelReport
	for _, r := range m.funnel {
		if r.ClientID != f.ClientID || !inRange(r.ReportDate, f) {
			continue
		}
		if funnelType != "" && r.FunnelType != funnelType {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReportDate.Before(out[j].ReportDate) })
	return out, nil
}

func (m *Memory) QuerySetter(_ context.Context, f Filter) ([]models.SetterReport, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.SetterReport
	for _, r := range m.setter {
		if r.ClientID != f.ClientID || !inRange(r.ReportDate, f) {
			continue
		}
		if f.MemberID != "" && r.MemberID != f.MemberID {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReportDate.Before(out[j].ReportDate) })
	return out, nil
}

func (m *Memory) QueryCloser(_ context.Context, f Filter) ([]models.CloserReport, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.CloserReport
	for _, r := range m.closer {
		if r.ClientID != f.ClientID || !inRange(r.ReportDate, f) {
			continue
		}
		if f.MemberID != "" && r.MemberID != f.MemberID {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReportDate.Before(out[j].ReportDate) })
	return out, nil
}

func (m *Memory) QueryAds(_ context.Context, f Filter) ([]models.AdReport, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.AdReport
	for _, r := range m.ads {
		if r.ClientID != f.ClientID || !inRange(r.ReportDate, f) {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ReportDate.Equal(out[j].ReportDate) {
			return out[i].ReportDate.Before(out[j].ReportDate)
		}
		return out[i].CampaignName < out[j].CampaignName
	})
	return out, nil
}

func (m *Memory) QueryContent(_ context.Context, f Filter) ([]models.ContentReport, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.ContentReport
	for _, r := range m.content {
		if r.ClientID != f.ClientID || !inRange(r.ReportDate, f) {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ReportDate.Equal(out[j].ReportDate) {
			return out[i].ReportDate.Before(out[j].ReportDate)
		}
		return out[i].ContentName < out[j].ContentName
	})
	return out, nil
}

func (m *Memory) UpsertFunnel(_ context.Context, r models.FunnelReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.funnel[funnelKey{r.ClientID, day(r.ReportDate), r.FunnelType}] = r
	return nil
}

func (m *Memory) UpsertAd(_ context.Context, r models.AdReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ads[adKey{r.ClientID, day(r.ReportDate), r.CampaignName, r.AdsetName, r.AdName}] = r
	return nil
}

func (m *Memory) UpsertContent(_ context.Context, r models.ContentReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.content[contentKey{r.ClientID, day(r.ReportDate), r.Source, r.Medium, r.ContentName}] = r
	return nil
}

func (m *Memory) InsertSetter(_ context.Context, r models.SetterReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setter = append(m.setter, r)
	return nil
}

func (m *Memory) InsertCloser(_ context.Context, r models.CloserReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closer = append(m.closer, r)
	return nil
}

func (m *Memory) GetGoal(_ context.Context, userID, goalType string) (models.Goal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.goals[goalKey{userID, goalType}]
	if !ok {
		return models.Goal{}, ErrNotFound
	}
	return g, nil
}

func (m *Memory) UpsertGoal(_ context.Context, g models.Goal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	g.UpdatedAt = time.Now()
	m.goals[goalKey{g.UserID, g.GoalType}] = g
	return nil
}
