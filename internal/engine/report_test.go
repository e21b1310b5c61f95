package engine

import (
	"context"
	"errors"
	"math"
	"testing"
)

func completedPipeline(t *testing.T, scores [TotalRounds]float64) *Pipeline {
	t.Helper()
	p := NewPipeline()
	if err := p.RecordOutcome(outcomeForRound(1, scores[0])); err != nil {
		t.Fatal(err)
	}
	if err := p.RecordOutcome(outcomeForRound(2, scores[1])); err != nil {
		t.Fatal(err)
	}
	if err := p.ResolveGate(GateVerdict{Verified: true, MatchScore: 80}); err != nil {
		t.Fatal(err)
	}
	for i := 2; i < TotalRounds; i++ {
		if err := p.RecordOutcome(outcomeForRound(i+1, scores[i])); err != nil {
			t.Fatal(err)
		}
	}
	return p
}

func TestReportComposer_SkillMatrix(t *testing.T) {
	p := completedPipeline(t, [TotalRounds]float64{80, 65, 90, 72, 88})
	c := &ReportComposer{Oracle: &stubOracle{response: `{"summary": "strong candidate", "selling_points": ["solid fundamentals"]}`}}

	r := c.Compose(context.Background(), p, "Backend Engineer")

	wantMatrix := map[string]float64{
		"aptitude":              8.0,
		"technical_knowledge":   6.5,
		"experience_depth":      9.0,
		"coding":                7.2,
		"written_communication": 8.8,
		"cultural_fit":          CulturalFitNeutral,
	}
	for slot, want := range wantMatrix {
		got, ok := r.SkillMatrix[slot]
		if !ok {
			t.Errorf("matrix slot %q missing", slot)
			continue
		}
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("matrix[%s] = %v, want %v", slot, got, want)
		}
	}
	if r.Summary != "strong candidate" {
		t.Errorf("summary = %q", r.Summary)
	}
	if len(r.SellingPoints) != 1 {
		t.Errorf("selling points = %v", r.SellingPoints)
	}
}

// Narrative failure never blocks the numeric verdict; the composer degrades
// to fixed fallback text.
func TestReportComposer_NarrativeFallback(t *testing.T) {
	p := completedPipeline(t, [TotalRounds]float64{90, 90, 90, 90, 90})
	c := &ReportComposer{Oracle: &stubOracle{err: errors.New("oracle down")}}

	r := c.Compose(context.Background(), p, "Backend Engineer")
	if r.Summary != FallbackSummary {
		t.Errorf("summary = %q, want fallback", r.Summary)
	}
	if r.HeadlineScore != 90 {
		t.Errorf("headline = %d, want 90", r.HeadlineScore)
	}
	if r.Verdict != VerdictStrongHire {
		t.Errorf("verdict = %s, want STRONG HIRE", r.Verdict)
	}
}

// Screened-out reports surface the gate reason with a forced headline of 0
// and never call the oracle.
func TestReportComposer_ScreenedOut(t *testing.T) {
	p := NewPipeline()
	runToGate(t, p)
	if err := p.ResolveGate(GateVerdict{Verified: false, MatchScore: 10, Reason: "claimed projects do not match the role"}); err != nil {
		t.Fatal(err)
	}

	oracle := &stubOracle{}
	c := &ReportComposer{Oracle: oracle}
	r := c.Compose(context.Background(), p, "Backend Engineer")

	if !r.ScreenedOut {
		t.Error("report should be marked screened out")
	}
	if r.HeadlineScore != 0 {
		t.Errorf("headline = %d, want 0", r.HeadlineScore)
	}
	if r.Reason != "claimed projects do not match the role" {
		t.Errorf("reason = %q", r.Reason)
	}
	if r.Verdict != VerdictNoHire {
		t.Errorf("verdict = %s, want NO HIRE", r.Verdict)
	}
	if oracle.calls != 0 {
		t.Errorf("oracle called %d times for a screened-out report", oracle.calls)
	}
}

// The 40/30/30 weighted analysis is a separate computation from the
// unweighted round mean.
func TestWeightedInterviewScore(t *testing.T) {
	got := WeightedInterviewScore(80, 60, 70)
	want := 80*0.4 + 60*0.3 + 70*0.3
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("weighted score = %v, want %v", got, want)
	}
}
