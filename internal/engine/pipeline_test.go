package engine

import (
	"errors"
	"testing"
)

func outcomeForRound(round int, score float64) *RoundOutcome {
	rt, _ := RoundTypeFor(round)
	return &RoundOutcome{Round: round, Type: rt, Score: score, Details: []ItemDetail{}}
}

func runToGate(t *testing.T, p *Pipeline) {
	t.Helper()
	if err := p.RecordOutcome(outcomeForRound(1, 80)); err != nil {
		t.Fatalf("round 1: %v", err)
	}
	if err := p.RecordOutcome(outcomeForRound(2, 70)); err != nil {
		t.Fatalf("round 2: %v", err)
	}
	if p.State != StateGateCheck {
		t.Fatalf("state = %s, want gate_check", p.State)
	}
}

func TestPipeline_HappyPath(t *testing.T) {
	p := NewPipeline()
	runToGate(t, p)

	if err := p.ResolveGate(GateVerdict{Verified: true, MatchScore: 80}); err != nil {
		t.Fatalf("gate: %v", err)
	}
	if p.State != StateRound3Active || p.CurrentRound != 3 {
		t.Fatalf("after gate: state=%s round=%d", p.State, p.CurrentRound)
	}

	scores := []float64{90, 60, 75}
	for i, score := range scores {
		if err := p.RecordOutcome(outcomeForRound(i+3, score)); err != nil {
			t.Fatalf("round %d: %v", i+3, err)
		}
	}

	if p.State != StateCompleted {
		t.Fatalf("state = %s, want completed", p.State)
	}
	// mean(80, 70, 90, 60, 75) = 75
	if p.Aggregate.HeadlineScore != 75 {
		t.Errorf("headline = %d, want 75", p.Aggregate.HeadlineScore)
	}
	if p.Aggregate.Verdict != VerdictHire {
		t.Errorf("verdict = %s, want HIRE", p.Aggregate.Verdict)
	}
}

func TestPipeline_OutOfSequence(t *testing.T) {
	p := NewPipeline()

	if err := p.RecordOutcome(outcomeForRound(2, 50)); !errors.Is(err, ErrOutOfSequence) {
		t.Errorf("skipping ahead: got %v, want ErrOutOfSequence", err)
	}
	if err := p.RecordOutcome(outcomeForRound(1, 50)); err != nil {
		t.Fatalf("round 1: %v", err)
	}
	if err := p.RecordOutcome(outcomeForRound(1, 50)); !errors.Is(err, ErrOutOfSequence) {
		t.Errorf("resubmitting a round: got %v, want ErrOutOfSequence", err)
	}
	if p.CurrentRound != 2 {
		t.Errorf("failed submit mutated current round to %d", p.CurrentRound)
	}
}

func TestPipeline_SubmitDuringGateCheck(t *testing.T) {
	p := NewPipeline()
	runToGate(t, p)

	if err := p.RecordOutcome(outcomeForRound(3, 50)); !errors.Is(err, ErrOutOfSequence) {
		t.Errorf("round 3 before gate resolution: got %v, want ErrOutOfSequence", err)
	}
}

// A failed gate screens the candidate out: rounds 3-5 stay unreached and the
// headline score is forced to 0.
func TestPipeline_ScreenedOut(t *testing.T) {
	p := NewPipeline()
	runToGate(t, p)

	if err := p.ResolveGate(GateVerdict{Verified: false, Reason: "evidence does not match role"}); err != nil {
		t.Fatalf("gate: %v", err)
	}
	if p.State != StateScreenedOut {
		t.Fatalf("state = %s, want screened_out", p.State)
	}
	if !p.State.Terminal() {
		t.Error("screened_out must be terminal")
	}
	if p.Headline() != 0 {
		t.Errorf("headline = %d, want forced 0", p.Headline())
	}
	for i := 2; i < TotalRounds; i++ {
		if p.Outcomes[i] != nil {
			t.Errorf("round %d was resulted on a screened-out session", i+1)
		}
	}
	if err := p.RecordOutcome(outcomeForRound(3, 90)); !errors.Is(err, ErrSessionTerminated) {
		t.Errorf("submitting after screen-out: got %v, want ErrSessionTerminated", err)
	}
}

func TestPipeline_GateResolvedOnce(t *testing.T) {
	p := NewPipeline()
	runToGate(t, p)

	if err := p.ResolveGate(GateVerdict{Verified: true}); err != nil {
		t.Fatalf("gate: %v", err)
	}
	if err := p.ResolveGate(GateVerdict{Verified: false}); !errors.Is(err, ErrOutOfSequence) {
		t.Errorf("second gate resolution: got %v, want ErrOutOfSequence", err)
	}
}

func TestPipeline_GateOnlyAtRound2Boundary(t *testing.T) {
	p := NewPipeline()
	if err := p.ResolveGate(GateVerdict{Verified: true}); !errors.Is(err, ErrOutOfSequence) {
		t.Errorf("gate before round 2: got %v, want ErrOutOfSequence", err)
	}
}

func TestVerdictThresholds(t *testing.T) {
	tests := []struct {
		headline int
		want     Verdict
	}{
		{100, VerdictStrongHire},
		{85, VerdictStrongHire},
		{84, VerdictHire},
		{70, VerdictHire},
		{69, VerdictBorderline},
		{55, VerdictBorderline},
		{54, VerdictNoHire},
		{0, VerdictNoHire},
	}
	for _, tt := range tests {
		if got := VerdictFor(tt.headline); got != tt.want {
			t.Errorf("VerdictFor(%d) = %s, want %s", tt.headline, got, tt.want)
		}
	}
}

// The headline is the rounded arithmetic mean of the five round scores.
func TestPipeline_HeadlineIsRoundedMean(t *testing.T) {
	tests := []struct {
		name   string
		scores [TotalRounds]float64
		want   int
	}{
		{name: "exact mean", scores: [TotalRounds]float64{80, 70, 90, 60, 75}, want: 75},
		{name: "rounds down", scores: [TotalRounds]float64{81, 70, 90, 60, 76}, want: 75},     // 75.4
		{name: "rounds half up", scores: [TotalRounds]float64{80, 70, 90, 60, 77.5}, want: 76}, // 75.5
		{name: "all zero", scores: [TotalRounds]float64{}, want: 0},
		{name: "all perfect", scores: [TotalRounds]float64{100, 100, 100, 100, 100}, want: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPipeline()
			if err := p.RecordOutcome(outcomeForRound(1, tt.scores[0])); err != nil {
				t.Fatal(err)
			}
			if err := p.RecordOutcome(outcomeForRound(2, tt.scores[1])); err != nil {
				t.Fatal(err)
			}
			if err := p.ResolveGate(GateVerdict{Verified: true}); err != nil {
				t.Fatal(err)
			}
			for i := 2; i < TotalRounds; i++ {
				if err := p.RecordOutcome(outcomeForRound(i+1, tt.scores[i])); err != nil {
					t.Fatal(err)
				}
			}
			if p.Aggregate.HeadlineScore != tt.want {
				t.Errorf("headline = %d, want %d", p.Aggregate.HeadlineScore, tt.want)
			}
		})
	}
}
