package funnel

// Metric names shared by every report variant. Totals and Rates are keyed by
// these strings so the same reducer and rate calculator serve the funnel,
// setter and closer shapes without per-role duplication.
const (
	MetricPageViews     = "pageViews"
	MetricApplications  = "applications"
	MetricQualified     = "qualified"
	MetricBookings      = "bookings"
	MetricShows         = "shows"
	MetricNoShows       = "noShows"
	MetricCloses        = "closes"
	MetricDealsLost     = "dealsLost"
	MetricFollowUps     = "followUps"
	MetricCashCollected = "cashCollected"
	MetricRevenue       = "revenue"

	MetricDials           = "dials"
	MetricDMsSent         = "dmsSent"
	MetricResponses       = "responses"
	MetricConversations   = "conversations"
	MetricCallsOnCalendar = "callsOnCalendar"
	MetricDealsClosed     = "dealsClosed"

	MetricImpressions = "impressions"
	MetricClicks      = "clicks"
	MetricLeads       = "leads"
)

// Rate names.
const (
	RateViewToApp          = "viewToApp"
	RateAppToQualified     = "appToQualified"
	RateQualifiedToBooking = "qualifiedToBooking"
	RateBookingToShow      = "bookingToShow"
	RateShowToClose        = "showToClose"
	RateOverallConversion  = "overallConversion"
	RateCashROAS           = "cashROAS"
	RateRevenueROAS        = "revenueROAS"
	RateAOV                = "aov"

	RateShowRate   = "showRate"
	RateCloseRate  = "closeRate"
	RateNoShowRate = "noShowRate"

	RateResponseRate = "responseRate"
	RateConvoRate    = "convoRate"
	RateBookingRate  = "bookingRate"
)

// RateSpec declares one derived rate as a (numerator, denominator) metric
// pair. Role-specific rate sets are plain lists of these.
type RateSpec struct {
	Name string
	Num  string
	Den  string
}

// FunnelFields is the full metric set of a daily funnel report, used to
// materialize all-zero totals for empty date ranges.
var FunnelFields = []string{
	MetricPageViews, MetricApplications, MetricQualified, MetricBookings,
	MetricShows, MetricNoShows, MetricCloses, MetricDealsLost,
	MetricFollowUps, MetricCashCollected, MetricRevenue,
}

var SetterFields = []string{
	MetricDials, MetricDMsSent, MetricResponses, MetricConversations,
	MetricBookings, MetricShows, MetricNoShows, MetricDealsClosed,
	MetricCashCollected, MetricRevenue,
}

var CloserFields = []string{
	MetricCallsOnCalendar, MetricShows, MetricNoShows, MetricDealsClosed,
	MetricFollowUps, MetricCashCollected, MetricRevenue,
}

var AdFields = []string{
	MetricImpressions, MetricClicks, MetricLeads, MetricBookings,
}

var ContentFields = []string{
	MetricPageViews, MetricClicks, MetricApplications, MetricBookings,
}

// FunnelRateSpecs covers the stage-to-stage conversions common to paid and
// organic funnels.
var FunnelRateSpecs = []RateSpec{
	{RateViewToApp, MetricApplications, MetricPageViews},
	{RateAppToQualified, MetricQualified, MetricApplications},
	{RateQualifiedToBooking, MetricBookings, MetricQualified},
	{RateBookingToShow, MetricShows, MetricBookings},
	{RateShowToClose, MetricCloses, MetricShows},
	{RateAOV, MetricCashCollected, MetricCloses},
}

// OrganicRateSpecs are appended only when no ad spend was reported.
var OrganicRateSpecs = []RateSpec{
	{RateOverallConversion, MetricCloses, MetricPageViews},
}

var SetterRateSpecs = []RateSpec{
	{RateResponseRate, MetricResponses, MetricDMsSent},
	{RateConvoRate, MetricConversations, MetricResponses},
	{RateBookingRate, MetricBookings, MetricConversations},
	{RateShowRate, MetricShows, MetricBookings},
	{RateAOV, MetricCashCollected, MetricDealsClosed},
}

var CloserRateSpecs = []RateSpec{
	{RateShowRate, MetricShows, MetricCallsOnCalendar},
	{RateNoShowRate, MetricNoShows, MetricCallsOnCalendar},
	{RateCloseRate, MetricDealsClosed, MetricShows},
	{RateAOV, MetricCashCollected, MetricDealsClosed},
}

var AdRateSpecs = []RateSpec{
	{"ctr", MetricClicks, MetricImpressions},
	{"clickToLead", MetricLeads, MetricClicks},
	{"leadToBooking", MetricBookings, MetricLeads},
}

// AdCostStages name the cost-per metrics of the paid media report.
var AdCostStages = []struct {
	RateName string
	Stage    string
}{
	{"costPerClick", MetricClicks},
	{"costPerLead", MetricLeads},
	{"costPerBooking", MetricBookings},
}

var ContentRateSpecs = []RateSpec{
	{"clickRate", MetricClicks, MetricPageViews},
	{"clickToApp", MetricApplications, MetricClicks},
	{"appToBooking", MetricBookings, MetricApplications},
}

// CostStages maps each funnel stage to the name of its cost-per metric.
// Cost rates are derived only for paid totals (ad spend present).
var CostStages = []struct {
	RateName string
	Stage    string
}{
	{"costPerView", MetricPageViews},
	{"costPerApplication", MetricApplications},
	{"costPerQualified", MetricQualified},
	{"costPerBooking", MetricBookings},
	{"costPerShow", MetricShows},
	{"costPerClose", MetricCloses},
}
