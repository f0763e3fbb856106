package models

import (
	"time"

	"github.com/funnelops/salesdash/internal/funnel"
)

// FunnelType distinguishes the traffic source of a daily funnel report.
const (
	FunnelPaid    = "paid"
	FunnelOrganic = "organic"
)

// FunnelReport is one client's funnel-stage counts for one day. AdSpend is
// nil for organic rows; a paid row with zero spend keeps a non-nil zero.
type FunnelReport struct {
	ClientID      string    `db:"client_id" json:"clientId"`
	ReportDate    time.Time `db:"report_date" json:"reportDate"`
	FunnelType    string    `db:"funnel_type" json:"funnelType"`
	PageViews     int       `db:"page_views" json:"pageViews"`
	Applications  int       `db:"applications" json:"applications"`
	Qualified     int       `db:"qualified" json:"qualified"`
	Bookings      int       `db:"bookings" json:"bookings"`
	Shows         int       `db:"shows" json:"shows"`
	NoShows       int       `db:"no_shows" json:"noShows"`
	Closes        int       `db:"closes" json:"closes"`
	DealsLost     int       `db:"deals_lost" json:"dealsLost"`
	FollowUps     int       `db:"follow_ups" json:"followUps"`
	CashCollected float64   `db:"cash_collected" json:"cashCollected"`
	Revenue       float64   `db:"revenue" json:"revenue"`
	AdSpend       *float64  `db:"ad_spend" json:"adSpend"`
}

// Record flattens the report for the generic reducer.
func (r FunnelReport) Record() funnel.Record {
	rec := funnel.Record{Metrics: map[string]float64{
		funnel.MetricPageViews:     float64(r.PageViews),
		funnel.MetricApplications:  float64(r.Applications),
		funnel.MetricQualified:     float64(r.Qualified),
		funnel.MetricBookings:      float64(r.Bookings),
		funnel.MetricShows:         float64(r.Shows),
		funnel.MetricNoShows:       float64(r.NoShows),
		funnel.MetricCloses:        float64(r.Closes),
		funnel.MetricDealsLost:     float64(r.DealsLost),
		funnel.MetricFollowUps:     float64(r.FollowUps),
		funnel.MetricCashCollected: r.CashCollected,
		funnel.MetricRevenue:       r.Revenue,
	}}
	if r.AdSpend != nil {
		spend := *r.AdSpend
		rec.AdSpend = &spend
	}
	return rec
}

// SetterReport is one setter's end-of-day activity report.
type SetterReport struct {
	ID            string    `db:"id" json:"id"`
	ClientID      string    `db:"client_id" json:"clientId"`
	MemberID      string    `db:"member_id" json:"memberId"`
	MemberName    string    `db:"member_name" json:"memberName"`
	ReportDate    time.Time `db:"report_date" json:"reportDate"`
	Dials         int       `db:"dials" json:"dials"`
	DMsSent       int       `db:"dms_sent" json:"dmsSent"`
	Responses     int       `db:"responses" json:"responses"`
	Conversations int       `db:"conversations" json:"conversations"`
	Bookings      int       `db:"bookings" json:"bookings"`
	Shows         int       `db:"shows" json:"shows"`
	NoShows       int       `db:"no_shows" json:"noShows"`
	DealsClosed   int       `db:"deals_closed" json:"dealsClosed"`
	CashCollected float64   `db:"cash_collected" json:"cashCollected"`
	Revenue       float64   `db:"revenue" json:"revenueGenerated"`
}

func (r SetterReport) Record() funnel.Record {
	return funnel.Record{Metrics: map[string]float64{
		funnel.MetricDials:         float64(r.Dials),
		funnel.MetricDMsSent:       float64(r.DMsSent),
		funnel.MetricResponses:     float64(r.Responses),
		funnel.MetricConversations: float64(r.Conversations),
		funnel.MetricBookings:      float64(r.Bookings),
		funnel.MetricShows:         float64(r.Shows),
		funnel.MetricNoShows:       float64(r.NoShows),
		funnel.MetricDealsClosed:   float64(r.DealsClosed),
		funnel.MetricCashCollected: r.CashCollected,
		funnel.MetricRevenue:       r.Revenue,
	}}
}

// CloserReport is one closer's end-of-day activity report.
type CloserReport struct {
	ID              string    `db:"id" json:"id"`
	ClientID        string    `db:"client_id" json:"clientId"`
	MemberID        string    `db:"member_id" json:"memberId"`
	MemberName      string    `db:"member_name" json:"memberName"`
	ReportDate      time.Time `db:"report_date" json:"reportDate"`
	CallsOnCalendar int       `db:"calls_on_calendar" json:"callsOnCalendar"`
	Shows           int       `db:"shows" json:"shows"`
	NoShows         int       `db:"no_shows" json:"noShows"`
	DealsClosed     int       `db:"deals_closed" json:"dealsClosed"`
	FollowUps       int       `db:"follow_ups" json:"followUps"`
	CashCollected   float64   `db:"cash_collected" json:"cashCollected"`
	Revenue         float64   `db:"revenue" json:"revenueGenerated"`
}

func (r CloserReport) Record() funnel.Record {
	return funnel.Record{Metrics: map[string]float64{
		funnel.MetricCallsOnCalendar: float64(r.CallsOnCalendar),
		funnel.MetricShows:           float64(r.Shows),
		funnel.MetricNoShows:         float64(r.NoShows),
		funnel.MetricDealsClosed:     float64(r.DealsClosed),
		funnel.MetricFollowUps:       float64(r.FollowUps),
		funnel.MetricCashCollected:   r.CashCollected,
		funnel.MetricRevenue:         r.Revenue,
	}}
}

// AdReport is daily performance of one ad placement.
type AdReport struct {
	ClientID     string    `db:"client_id" json:"clientId"`
	ReportDate   time.Time `db:"report_date" json:"reportDate"`
	CampaignName string    `db:"campaign_name" json:"campaignName"`
	AdsetName    string    `db:"adset_name" json:"adsetName"`
	AdName       string    `db:"ad_name" json:"adName"`
	Impressions  int       `db:"impressions" json:"impressions"`
	Clicks       int       `db:"clicks" json:"clicks"`
	Leads        int       `db:"leads" json:"leads"`
	Bookings     int       `db:"bookings" json:"bookings"`
	Spend        float64   `db:"spend" json:"spend"`
}

func (r AdReport) Record() funnel.Record {
	spend := r.Spend
	return funnel.Record{
		Metrics: map[string]float64{
			funnel.MetricImpressions: float64(r.Impressions),
			funnel.MetricClicks:      float64(r.Clicks),
			funnel.MetricLeads:       float64(r.Leads),
			funnel.MetricBookings:    float64(r.Bookings),
		},
		AdSpend: &spend,
	}
}

// ContentReport is daily performance of one organic content piece.
type ContentReport struct {
	ClientID     string    `db:"client_id" json:"clientId"`
	ReportDate   time.Time `db:"report_date" json:"reportDate"`
	Source       string    `db:"source" json:"source"`
	Medium       string    `db:"medium" json:"medium"`
	ContentName  string    `db:"content_name" json:"contentName"`
	PageViews    int       `db:"page_views" json:"pageViews"`
	Clicks       int       `db:"clicks" json:"clicks"`
	Applications int       `db:"applications" json:"applications"`
	Bookings     int       `db:"bookings" json:"bookings"`
}

func (r ContentReport) Record() funnel.Record {
	return funnel.Record{Metrics: map[string]float64{
		funnel.MetricPageViews:    float64(r.PageViews),
		funnel.MetricClicks:       float64(r.Clicks),
		funnel.MetricApplications: float64(r.Applications),
		funnel.MetricBookings:     float64(r.Bookings),
	}}
}

// Goal is a stored goal with its target assumptions, keyed on
// (UserID, GoalType).
type Goal struct {
	UserID      string                 `db:"user_id" json:"userId"`
	GoalType    string                 `db:"goal_type" json:"goalType"`
	Assumptions funnel.GoalAssumptions `json:"assumptions"`
	UpdatedAt   time.Time              `db:"updated_at" json:"updatedAt"`
}

// Goal types. Closer goals size the call funnel, setter goals the DM
// pipeline.
const (
	GoalCloser = "closer"
	GoalSetter = "setter"
)

// Records converts a slice of any report type for the reducer.
func Records[T interface{ Record() funnel.Record }](rows []T) []funnel.Record {
	out := make([]funnel.Record, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Record())
	}
	return out
}
