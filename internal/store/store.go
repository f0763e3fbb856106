package store

import (
	"context"
	"errors"
	"time"

	"github.com/funnelops/salesdash/internal/models"
)

// ErrNotFound is returned by lookups with no matching record.
var ErrNotFound = errors.New("not found")

// Filter scopes a report query. Rows are filtered upstream of the
// aggregation engine; the engine itself never filters.
type Filter struct {
	ClientID string
	From     time.Time
	To       time.Time
	MemberID string // empty = all members
}

// Store is the persistence collaborator. The Postgres implementation backs
// production; the memory implementation backs dev mode and tests.
type Store interface {
	QueryFunnel(ctx context.Context, f Filter, funnelType string) ([]models.FunnelReport, error)
	QuerySetter(ctx context.Context, f Filter) ([]models.SetterReport, error)
	QueryCloser(ctx context.Context, f Filter) ([]models.CloserReport, error)
	QueryAds(ctx context.Context, f Filter) ([]models.AdReport, error)
	QueryContent(ctx context.Context, f Filter) ([]models.ContentReport, error)

	UpsertFunnel(ctx context.Context, r models.FunnelReport) error
	UpsertAd(ctx context.Context, r models.AdReport) error
	UpsertContent(ctx context.Context, r models.ContentReport) error
	InsertSetter(ctx context.Context, r models.SetterReport) error
	InsertCloser(ctx context.Context, r models.CloserReport) error

	GetGoal(ctx context.Context, userID, goalType string) (models.Goal, error)
	UpsertGoal(ctx context.Context, g models.Goal) error
}
