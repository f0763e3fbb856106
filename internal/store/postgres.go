package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/funnelops/salesdash/internal/models"
)

// Postgres is the production Store backed by the hosted relational database.
type Postgres struct {
	db *sqlx.DB
}

// OpenPostgres connects and verifies the connection.
func OpenPostgres(ctx context.Context, url string) (*Postgres, error) {
	db, err := sqlx.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &Postgres{db: db}, nil
}

func (p *Postgres) Close() error { return p.db.Close() }

const schema = `
CREATE TABLE IF NOT EXISTS funnel_reports (
	client_id      TEXT NOT NULL,
	report_date    DATE NOT NULL,
	funnel_type    TEXT NOT NULL,
	page_views     INT NOT NULL DEFAULT 0,
	applications   INT NOT NULL DEFAULT 0,
	qualified      INT NOT NULL DEFAULT 0,
	bookings       INT NOT NULL DEFAULT 0,
	shows          INT NOT NULL DEFAULT 0,
	no_shows       INT NOT NULL DEFAULT 0,
	closes         INT NOT NULL DEFAULT 0,
	deals_lost     INT NOT NULL DEFAULT 0,
	follow_ups     INT NOT NULL DEFAULT 0,
	cash_collected NUMERIC NOT NULL DEFAULT 0,
	revenue        NUMERIC NOT NULL DEFAULT 0,
	ad_spend       NUMERIC,
	PRIMARY KEY (client_id, report_date, funnel_type)
);
CREATE TABLE IF NOT EXISTS setter_reports (
	id             TEXT PRIMARY KEY,
	client_id      TEXT NOT NULL,
	member_id      TEXT NOT NULL,
	member_name    TEXT NOT NULL DEFAULT '',
	report_date    DATE NOT NULL,
	dials          INT NOT NULL DEFAULT 0,
	dms_sent       INT NOT NULL DEFAULT 0,
	responses      INT NOT NULL DEFAULT 0,
	conversations  INT NOT NULL DEFAULT 0,
	bookings       INT NOT NULL DEFAULT 0,
	shows          INT NOT NULL DEFAULT 0,
	no_shows       INT NOT NULL DEFAULT 0,
	deals_closed   INT NOT NULL DEFAULT 0,
	cash_collected NUMERIC NOT NULL DEFAULT 0,
	revenue        NUMERIC NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS closer_reports (
	id              TEXT PRIMARY KEY,
	client_id       TEXT NOT NULL,
	member_id       TEXT NOT NULL,
	member_name     TEXT NOT NULL DEFAULT '',
	report_date     DATE NOT NULL,
	calls_on_calendar INT NOT NULL DEFAULT 0,
	shows           INT NOT NULL DEFAULT 0,
	no_shows        INT NOT NULL DEFAULT 0,
	deals_closed    INT NOT NULL DEFAULT 0,
	follow_ups      INT NOT NULL DEFAULT 0,
	cash_collected  NUMERIC NOT NULL DEFAULT 0,
	revenue         NUMERIC NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS ad_reports (
	client_id     TEXT NOT NULL,
	report_date   DATE NOT NULL,
	campaign_name TEXT NOT NULL,
	adset_name    TEXT NOT NULL,
	ad_name       TEXT NOT NULL,
	impressions   INT NOT NULL DEFAULT 0,
	clicks        INT NOT NULL DEFAULT 0,
	leads         INT NOT NULL DEFAULT 0,
	bookings      INT NOT NULL DEFAULT 0,
	spend         NUMERIC NOT NULL DEFAULT 0,
	PRIMARY KEY (client_id, report_date, campaign_name, adset_name, ad_name)
);
CREATE TABLE IF NOT EXISTS content_reports (
	client_id    TEXT NOT NULL,
	report_date  DATE NOT NULL,
	source       TEXT NOT NULL,
	medium       TEXT NOT NULL,
	content_name TEXT NOT NULL,
	page_views   INT NOT NULL DEFAULT 0,
	clicks       INT NOT NULL DEFAULT 0,
	applications INT NOT NULL DEFAULT 0,
	bookings     INT NOT NULL DEFAULT 0,
	PRIMARY KEY (client_id, report_date, source, medium, content_name)
);
CREATE TABLE IF NOT EXISTS goals (
	user_id     TEXT NOT NULL,
	goal_type   TEXT NOT NULL,
	assumptions JSONB NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (user_id, goal_type)
);
`

// EnsureSchema creates missing tables. Idempotent.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (p *Postgres) QueryFunnel(ctx context.Context, f Filter, funnelType string) ([]models.FunnelReport, error) {
	q := `SELECT * FROM funnel_reports
		WHERE client_id = $1 AND report_date BETWEEN $2 AND $3`
	args := []any{f.ClientID, f.From, f.To}
	if funnelType != "" {
		q += ` AND funnel_type = $4`
		args = append(args, funnelType)
	}
	q += ` ORDER BY report_date`
	var rows []models.FunnelReport
	if err := p.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, fmt.Errorf("query funnel reports: %w", err)
	}
	return rows, nil
}

func (p *Postgres) QuerySetter(ctx context.Context, f Filter) ([]models.SetterReport, error) {
	q := `SELECT * FROM setter_reports
		WHERE client_id = $1 AND report_date BETWEEN $2 AND $3`
	args := []any{f.ClientID, f.From, f.To}
	if f.MemberID != "" {
		q += ` AND member_id = $4`
		args = append(args, f.MemberID)
	}
	q += ` ORDER BY report_date`
	var rows []models.SetterReport
	if err := p.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, fmt.Errorf("query setter reports: %w", err)
	}
	return rows, nil
}

func (p *Postgres) QueryCloser(ctx context.Context, f Filter) ([]models.CloserReport, error) {
	q := `SELECT * FROM closer_reports
		WHERE client_id = $1 AND report_date BETWEEN $2 AND $3`
	args := []any{f.ClientID, f.From, f.To}
	if f.MemberID != "" {
		q += ` AND member_id = $4`
		args = append(args, f.MemberID)
	}
	q += ` ORDER BY report_date`
	var rows []models.CloserReport
	if err := p.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, fmt.Errorf("query closer reports: %w", err)
	}
	return rows, nil
}

func (p *Postgres) QueryAds(ctx context.Context, f Filter) ([]models.AdReport, error) {
	var rows []models.AdReport
	err := p.db.SelectContext(ctx, &rows, `SELECT * FROM ad_reports
		WHERE client_id = $1 AND report_date BETWEEN $2 AND $3
		ORDER BY report_date, campaign_name`, f.ClientID, f.From, f.To)
	if err != nil {
		return nil, fmt.Errorf("query ad reports: %w", err)
	}
	return rows, nil
}

func (p *Postgres) QueryContent(ctx context.Context, f Filter) ([]models.ContentReport, error) {
	var rows []models.ContentReport
	err := p.db.SelectContext(ctx, &rows, `SELECT * FROM content_reports
		WHERE client_id = $1 AND report_date BETWEEN $2 AND $3
		ORDER BY report_date, content_name`, f.ClientID, f.From, f.To)
	if err != nil {
		return nil, fmt.Errorf("query content reports: %w", err)
	}
	return rows, nil
}

// UpsertFunnel replaces the day's report on conflict with
// (client_id, report_date, funnel_type). Resubmitting a day overwrites it.
func (p *Postgres) UpsertFunnel(ctx context.Context, r models.FunnelReport) error {
	_, err := p.db.NamedExecContext(ctx, `
		INSERT INTO funnel_reports (client_id, report_date, funnel_type,
			page_views, applications, qualified, bookings, shows, no_shows,
			closes, deals_lost, follow_ups, cash_collected, revenue, ad_spend)
		VALUES (:client_id, :report_date, :funnel_type,
			:page_views, :applications, :qualified, :bookings, :shows, :no_shows,
			:closes, :deals_lost, :follow_ups, :cash_collected, :revenue, :ad_spend)
		ON CONFLICT (client_id, report_date, funnel_type) DO UPDATE SET
			page_views = excluded.page_views,
			applications = excluded.applications,
			qualified = excluded.qualified,
			bookings = excluded.bookings,
			shows = excluded.shows,
			no_shows = excluded.no_shows,
			closes = excluded.closes,
			deals_lost = excluded.deals_lost,
			follow_ups = excluded.follow_ups,
			cash_collected = excluded.cash_collected,
			revenue = excluded.revenue,
			ad_spend = excluded.ad_spend`, r)
	if err != nil {
		return fmt.Errorf("upsert funnel report: %w", err)
	}
	return nil
}

func (p *Postgres) UpsertAd(ctx context.Context, r models.AdReport) error {
	_, err := p.db.NamedExecContext(ctx, `
		INSERT INTO ad_reports (client_id, report_date, campaign_name,
			adset_name, ad_name, impressions, clicks, leads, bookings, spend)
		VALUES (:client_id, :report_date, :campaign_name,
			:adset_name, :ad_name, :impressions, :clicks, :leads, :bookings, :spend)
		ON CONFLICT (client_id, report_date, campaign_name, adset_name, ad_name) DO UPDATE SET
			impressions = excluded.impressions,
			clicks = excluded.clicks,
			leads = excluded.leads,
			bookings = excluded.bookings,
			spend = excluded.spend`, r)
	if err != nil {
		return fmt.Errorf("upsert ad report: %w", err)
	}
	return nil
}

func (p *Postgres) UpsertContent(ctx context.Context, r models.ContentReport) error {
	_, err := p.db.NamedExecContext(ctx, `
		INSERT INTO content_reports (client_id, report_date, source, medium,
			content_name, page_views, clicks, applications, bookings)
		VALUES (:client_id, :report_date, :source, :medium,
			:content_name, :page_views, :clicks, :applications, :bookings)
		ON CONFLICT (client_id, report_date, source, medium, content_name) DO UPDATE SET
			page_views = excluded.page_views,
			clicks = excluded.clicks,
			applications = excluded.applications,
			bookings = excluded.bookings`, r)
	if err != nil {
		return fmt.Errorf("upsert content report: %w", err)
	}
	return nil
}

func (p *Postgres) InsertSetter(ctx context.Context, r models.SetterReport) error {
	_, err := p.db.NamedExecContext(ctx, `
		INSERT INTO setter_reports (id, client_id, member_id, member_name,
			report_date, dials, dms_sent, responses, conversations, bookings,
			shows, no_shows, deals_closed, cash_collected, revenue)
		VALUES (:id, :client_id, :member_id, :member_name,
			:report_date, :dials, :dms_sent, :responses, :conversations, :bookings,
			:shows, :no_shows, :deals_closed, :cash_collected, :revenue)`, r)
	if err != nil {
		return fmt.Errorf("insert setter report: %w", err)
	}
	return nil
}

func (p *Postgres) InsertCloser(ctx context.Context, r models.CloserReport) error {
	_, err := p.db.NamedExecContext(ctx, `
		INSERT INTO closer_reports (id, client_id, member_id, member_name,
			report_date, calls_on_calendar, shows, no_shows, deals_closed,
			follow_ups, cash_collected, revenue)
		VALUES (:id, :client_id, :member_id, :member_name,
			:report_date, :calls_on_calendar, :shows, :no_shows, :deals_closed,
			:follow_ups, :cash_collected, :revenue)`, r)
	if err != nil {
		return fmt.Errorf("insert closer report: %w", err)
	}
	return nil
}

func (p *Postgres) GetGoal(ctx context.Context, userID, goalType string) (models.Goal, error) {
	var row struct {
		UserID      string    `db:"user_id"`
		GoalType    string    `db:"goal_type"`
		Assumptions []byte    `db:"assumptions"`
		UpdatedAt   time.Time `db:"updated_at"`
	}
	err := p.db.GetContext(ctx, &row, `SELECT user_id, goal_type, assumptions, updated_at
		FROM goals WHERE user_id = $1 AND goal_type = $2`, userID, goalType)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Goal{}, ErrNotFound
	}
	if err != nil {
		return models.Goal{}, fmt.Errorf("get goal: %w", err)
	}
	g := models.Goal{UserID: row.UserID, GoalType: row.GoalType, UpdatedAt: row.UpdatedAt}
	if err := json.Unmarshal(row.Assumptions, &g.Assumptions); err != nil {
		return models.Goal{}, fmt.Errorf("decode goal assumptions: %w", err)
	}
	return g, nil
}

func (p *Postgres) UpsertGoal(ctx context.Context, g models.Goal) error {
	b, err := json.Marshal(g.Assumptions)
	if err != nil {
		return fmt.Errorf("encode goal assumptions: %w", err)
	}
	_, err = p.db.ExecContext(ctx, `
		INSERT INTO goals (user_id, goal_type, assumptions, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (user_id, goal_type) DO UPDATE SET
			assumptions = excluded.assumptions,
			updated_at = now()`, g.UserID, g.GoalType, b)
	if err != nil {
		return fmt.Errorf("upsert goal: %w", err)
	}
	return nil
}
