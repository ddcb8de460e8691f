package context

import "testing"

func TestTrackerStatusBands(t *testing.T) {
	tr := NewTracker(1000)
	if tr.GetStatus() != StatusOptimal {
		t.Fatalf("expected optimal at zero usage, got %s", tr.GetStatus())
	}

	tr.EstimatedUsage = 650
	if tr.GetStatus() != StatusWarning {
		t.Fatalf("expected warning at 65%%, got %s", tr.GetStatus())
	}

	tr.EstimatedUsage = 900
	if tr.GetStatus() != StatusCritical {
		t.Fatalf("expected critical at 90%%, got %s", tr.GetStatus())
	}
}

func TestTrackerReportRemainingNeverNegative(t *testing.T) {
	tr := NewTracker(100)
	tr.EstimatedUsage = 500
	report := tr.GetReport()
	if report.TokensRemaining != 0 {
		t.Fatalf("expected clamped remaining of 0, got %d", report.TokensRemaining)
	}
	if report.Status != StatusCritical {
		t.Fatalf("expected critical status, got %s", report.Status)
	}
}

func TestTrackerAddTextAccumulates(t *testing.T) {
	tr := NewTracker(1000)
	tr.AddText("a sentence with several words in it")
	if tr.EstimatedUsage == 0 {
		t.Fatal("expected AddText to increase estimated usage")
	}
}

func TestNewTrackerZeroBudgetNeverDividesByZero(t *testing.T) {
	tr := NewTracker(0)
	if tr.UsagePercent() != 0 {
		t.Fatalf("expected 0 usage percent with zero budget, got %f", tr.UsagePercent())
	}
}
