package funnel

import (
	"errors"
	"testing"
)

func TestPaceProgressCapped(t *testing.T) {
	r := Pace(150, 100, 30, 10)
	if r.ProgressPercent != 100 {
		t.Fatalf("progressPercent = %v, want 100 (capped)", r.ProgressPercent)
	}
	if r.Remaining != 0 {
		t.Fatalf("remaining = %v, want 0", r.Remaining)
	}
}

func TestPaceAheadBehind(t *testing.T) {
	// goal 3000 over 30 days, 10 elapsed: expected 1000
	r := Pace(1200, 3000, 30, 10)
	if r.ExpectedAtThisPoint != 1000 {
		t.Fatalf("expected = %v, want 1000", r.ExpectedAtThisPoint)
	}
	if r.PaceStatus != PaceAhead {
		t.Fatalf("status = %s, want ahead", r.PaceStatus)
	}
	if r.PaceDiffPercent != 20 {
		t.Fatalf("paceDiffPercent = %v, want 20", r.PaceDiffPercent)
	}
	if r.DailyAmountNeeded != 90 {
		t.Fatalf("dailyAmountNeeded = %v, want 90", r.DailyAmountNeeded)
	}

	r = Pace(800, 3000, 30, 10)
	if r.PaceStatus != PaceBehind {
		t.Fatalf("status = %s, want behind", r.PaceStatus)
	}
	if r.PaceDiffPercent != 20 {
		t.Fatalf("paceDiffPercent = %v, want 20", r.PaceDiffPercent)
	}
}

func TestPaceZeroGoal(t *testing.T) {
	r := Pace(500, 0, 30, 10)
	if r.ProgressPercent != 0 {
		t.Fatalf("progressPercent = %v, want 0 for zero goal", r.ProgressPercent)
	}
}

func TestPacePeriodEnd(t *testing.T) {
	r := Pace(900, 3000, 30, 30)
	if r.DailyAmountNeeded != 0 {
		t.Fatalf("dailyAmountNeeded = %v, want 0 with no days remaining", r.DailyAmountNeeded)
	}
	if r.ExpectedAtThisPoint != 3000 {
		t.Fatalf("expected = %v, want 3000", r.ExpectedAtThisPoint)
	}
}

func TestCloserFunnelSizingRoundsUp(t *testing.T) {
	a := GoalAssumptions{TargetAOV: 3000, TargetCloseRate: 0.25, TargetShowRate: 0.7}
	n, err := CloserFunnelSizing(10000, a)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.DealsNeeded != 4 {
		t.Fatalf("dealsNeeded = %d, want ceil(10000/3000) = 4", n.DealsNeeded)
	}
	if n.ShowsNeeded != 16 {
		t.Fatalf("showsNeeded = %d, want ceil(4/0.25) = 16", n.ShowsNeeded)
	}
	if n.BookingsNeeded != 23 {
		t.Fatalf("bookingsNeeded = %d, want ceil(16/0.7) = 23", n.BookingsNeeded)
	}
}

func TestCloserFunnelSizingZeroRemaining(t *testing.T) {
	a := GoalAssumptions{TargetAOV: 3000, TargetCloseRate: 0.25, TargetShowRate: 0.7}
	n, err := CloserFunnelSizing(0, a)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.DealsNeeded != 0 || n.ShowsNeeded != 0 || n.BookingsNeeded != 0 {
		t.Fatalf("zero remaining must need nothing, got %+v", n)
	}
}

func TestSetterFunnelSizing(t *testing.T) {
	a := GoalAssumptions{
		TargetCashPerBooking: 500,
		TargetBookingRate:    0.1,
		TargetConvoRate:      0.5,
		TargetResponseRate:   0.2,
	}
	n, err := SetterFunnelSizing(10000, a)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.BookingsNeeded != 20 {
		t.Fatalf("bookingsNeeded = %d, want 20", n.BookingsNeeded)
	}
	if n.ConversationsNeeded != 200 {
		t.Fatalf("conversationsNeeded = %d, want 200", n.ConversationsNeeded)
	}
	if n.ResponsesNeeded != 400 {
		t.Fatalf("responsesNeeded = %d, want 400", n.ResponsesNeeded)
	}
	if n.DMsNeeded != 2000 {
		t.Fatalf("dmsNeeded = %d, want 2000", n.DMsNeeded)
	}
}

func TestSizingRejectsInvalidAssumptions(t *testing.T) {
	_, err := CloserFunnelSizing(1000, GoalAssumptions{TargetAOV: 0, TargetCloseRate: 0.25, TargetShowRate: 0.7})
	if !errors.Is(err, ErrInvalidAssumption) {
		t.Fatalf("want ErrInvalidAssumption for zero AOV, got %v", err)
	}
	_, err = CloserFunnelSizing(1000, GoalAssumptions{TargetAOV: 3000, TargetCloseRate: -0.1, TargetShowRate: 0.7})
	if !errors.Is(err, ErrInvalidAssumption) {
		t.Fatalf("want ErrInvalidAssumption for negative close rate, got %v", err)
	}
	_, err = SetterFunnelSizing(1000, GoalAssumptions{TargetCashPerBooking: 500, TargetBookingRate: 0.1, TargetConvoRate: 0.5})
	if !errors.Is(err, ErrInvalidAssumption) {
		t.Fatalf("want ErrInvalidAssumption for missing response rate, got %v", err)
	}
}

func TestDealsLostVariants(t *testing.T) {
	if got := DealsLost(10, 3, 2); got != 5 {
		t.Fatalf("DealsLost = %v, want 5", got)
	}
	// followUps + closes exceeding shows goes negative in the raw variant
	if got := DealsLost(5, 3, 4); got != -2 {
		t.Fatalf("DealsLost = %v, want -2", got)
	}
	if got := DealsLostClamped(5, 3, 4); got != 0 {
		t.Fatalf("DealsLostClamped = %v, want 0", got)
	}
}
