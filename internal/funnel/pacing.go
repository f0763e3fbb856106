package funnel

import (
	"fmt"
	"math"
)

// ErrInvalidAssumption marks a goal target (rate or AOV) that is zero or
// negative. Unlike a zero stage denominator, which is a normal "no data yet"
// state, a non-positive target is a configuration error and reverse funnel
// sizing refuses to run on it.
var ErrInvalidAssumption = fmt.Errorf("goal assumption must be greater than zero")

// GoalAssumptions are the user-edited targets seeding reverse funnel sizing.
// Role-dependent: the closer path reads AOV/close/show, the setter path
// reads cash-per-booking and the DM pipeline rates. The UI enforces a 1%
// minimum on rates; sizing still validates and fails hard on bad input.
type GoalAssumptions struct {
	GoalAmount           float64 `json:"goalAmount"`
	TargetAOV            float64 `json:"targetAOV"`
	TargetShowRate       float64 `json:"targetShowRate"`
	TargetCloseRate      float64 `json:"targetCloseRate"`
	TargetCashPerBooking float64 `json:"targetCashPerBooking"`
	TargetResponseRate   float64 `json:"targetResponseRate"`
	TargetConvoRate      float64 `json:"targetConvoRate"`
	TargetBookingRate    float64 `json:"targetBookingRate"`
}

// PaceResult describes progress against a goal at a point in the period.
type PaceResult struct {
	ProgressPercent     float64 `json:"progressPercent"`
	ExpectedAtThisPoint float64 `json:"expectedAtThisPoint"`
	PaceStatus          string  `json:"paceStatus"`
	PaceDiffPercent     float64 `json:"paceDiffPercent"`
	DailyAmountNeeded   float64 `json:"dailyAmountNeeded"`
	Remaining           float64 `json:"remaining"`
}

const (
	PaceAhead  = "ahead"
	PaceBehind = "behind"
)

// Pace computes goal progress. ProgressPercent is capped at 100 when the
// goal is overshot. daysElapsed is expected in [0, daysInPeriod].
func Pace(current, goal float64, daysInPeriod, daysElapsed int) PaceResult {
	var r PaceResult
	if goal > 0 {
		r.ProgressPercent = math.Min(current/goal*100, 100)
	}
	if daysInPeriod > 0 {
		r.ExpectedAtThisPoint = goal / float64(daysInPeriod) * float64(daysElapsed)
	}
	r.PaceStatus = PaceBehind
	if current >= r.ExpectedAtThisPoint {
		r.PaceStatus = PaceAhead
	}
	if r.ExpectedAtThisPoint > 0 {
		r.PaceDiffPercent = math.Abs(current-r.ExpectedAtThisPoint) / r.ExpectedAtThisPoint * 100
	}
	r.Remaining = math.Max(goal-current, 0)
	daysRemaining := daysInPeriod - daysElapsed
	if daysRemaining > 0 {
		r.DailyAmountNeeded = (goal - current) / float64(daysRemaining)
	}
	return r
}

// CloserNeeds are the funnel volumes a closer must produce to cover the
// remaining goal amount under target assumptions.
type CloserNeeds struct {
	DealsNeeded    int `json:"dealsNeeded"`
	ShowsNeeded    int `json:"showsNeeded"`
	BookingsNeeded int `json:"bookingsNeeded"`
}

// SetterNeeds are the DM-pipeline volumes a setter must produce to cover the
// remaining goal amount under target assumptions.
type SetterNeeds struct {
	BookingsNeeded      int `json:"bookingsNeeded"`
	ConversationsNeeded int `json:"conversationsNeeded"`
	ResponsesNeeded     int `json:"responsesNeeded"`
	DMsNeeded           int `json:"dmsNeeded"`
}

// CloserFunnelSizing walks the goal gap backwards through the closer funnel.
// Every stage rounds up: under-provisioning the funnel is never acceptable.
func CloserFunnelSizing(remaining float64, a GoalAssumptions) (CloserNeeds, error) {
	if err := requirePositive("targetAOV", a.TargetAOV); err != nil {
		return CloserNeeds{}, err
	}
	if err := requirePositive("targetCloseRate", a.TargetCloseRate); err != nil {
		return CloserNeeds{}, err
	}
	if err := requirePositive("targetShowRate", a.TargetShowRate); err != nil {
		return CloserNeeds{}, err
	}
	var n CloserNeeds
	n.DealsNeeded = ceilDiv(remaining, a.TargetAOV)
	n.ShowsNeeded = ceilDiv(float64(n.DealsNeeded), a.TargetCloseRate)
	n.BookingsNeeded = ceilDiv(float64(n.ShowsNeeded), a.TargetShowRate)
	return n, nil
}

// SetterFunnelSizing walks the goal gap backwards through the DM pipeline.
func SetterFunnelSizing(remaining float64, a GoalAssumptions) (SetterNeeds, error) {
	if err := requirePositive("targetCashPerBooking", a.TargetCashPerBooking); err != nil {
		return SetterNeeds{}, err
	}
	if err := requirePositive("targetBookingRate", a.TargetBookingRate); err != nil {
		return SetterNeeds{}, err
	}
	if err := requirePositive("targetConvoRate", a.TargetConvoRate); err != nil {
		return SetterNeeds{}, err
	}
	if err := requirePositive("targetResponseRate", a.TargetResponseRate); err != nil {
		return SetterNeeds{}, err
	}
	var n SetterNeeds
	n.BookingsNeeded = ceilDiv(remaining, a.TargetCashPerBooking)
	n.ConversationsNeeded = ceilDiv(float64(n.BookingsNeeded), a.TargetBookingRate)
	n.ResponsesNeeded = ceilDiv(float64(n.ConversationsNeeded), a.TargetConvoRate)
	n.DMsNeeded = ceilDiv(float64(n.ResponsesNeeded), a.TargetResponseRate)
	return n, nil
}

func requirePositive(name string, v float64) error {
	if v <= 0 {
		return fmt.Errorf("%s=%v: %w", name, v, ErrInvalidAssumption)
	}
	return nil
}

func ceilDiv(num, den float64) int {
	return int(math.Ceil(num / den))
}

// DealsLost derives lost deals from shows, closes and follow-ups. The raw
// variant can go negative when followUps + closes exceed shows; the clamped
// variant floors at zero. Both exist because the dashboards disagree today.
// TODO: confirm with product whether deals_lost may go negative; the closer
// view leaves it unclamped while the executive roll-up clamps at zero.
func DealsLost(shows, closes, followUps float64) float64 {
	return shows - closes - followUps
}

func DealsLostClamped(shows, closes, followUps float64) float64 {
	return math.Max(0, DealsLost(shows, closes, followUps))
}
