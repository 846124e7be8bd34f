package prune

import "testing"

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.StaleAgeDays != 30 || cfg.MinScoreThreshold != 30 || cfg.MinContentLength != 10 {
		t.Errorf("defaults = %+v", cfg)
	}
	if !cfg.CheckFiles || !cfg.CheckBranches || !cfg.DetectDuplicates {
		t.Errorf("checks disabled by default: %+v", cfg)
	}
	if cfg.DuplicateSimilarity != 0.8 {
		t.Errorf("similarity = %v, want 0.8", cfg.DuplicateSimilarity)
	}
}

func TestConfigApply(t *testing.T) {
	if got := DefaultConfig().Apply(nil); got != DefaultConfig() {
		t.Errorf("nil overrides changed config: %+v", got)
	}

	days := 7
	off := false
	sim := 0.95
	got := DefaultConfig().Apply(&Overrides{
		StaleAgeDays:        &days,
		CheckBranches:       &off,
		DuplicateSimilarity: &sim,
	})

	if got.StaleAgeDays != 7 || got.CheckBranches || got.DuplicateSimilarity != 0.95 {
		t.Errorf("overrides not applied: %+v", got)
	}
	// Untouched fields keep defaults
	if got.MinScoreThreshold != 30 || !got.CheckFiles || got.MinContentLength != 10 {
		t.Errorf("defaults lost: %+v", got)
	}
}

func TestReasonRisk(t *testing.T) {
	// Every reason maps to a tier; spot-check the extremes.
	all := []Reason{
		ReasonStale, ReasonOrphanedPath, ReasonOrphanedBranch, ReasonOldSession,
		ReasonLowImportance, ReasonDuplicate, ReasonCompletedContext, ReasonLowContent,
	}
	for _, r := range all {
		switch r.Risk() {
		case RiskLow, RiskMedium, RiskHigh:
		default:
			t.Errorf("%s: unknown risk %q", r, r.Risk())
		}
	}
	if ReasonLowContent.Risk() != RiskLow {
		t.Errorf("low_content risk = %q, want low", ReasonLowContent.Risk())
	}
	if ReasonCompletedContext.Risk() != RiskHigh {
		t.Errorf("completed_context risk = %q, want high", ReasonCompletedContext.Risk())
	}
}
