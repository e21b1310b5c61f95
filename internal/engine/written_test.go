package engine

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func writtenItems(n int) []QuestionItem {
	items := make([]QuestionItem, n)
	for i := range items {
		items[i] = QuestionItem{
			ID:     fmt.Sprintf("w%d", i+1),
			Type:   ItemWrittenTask,
			Prompt: fmt.Sprintf("task %d", i+1),
		}
	}
	return items
}

func TestWrittenEvaluator_HolisticGrade(t *testing.T) {
	oracle := &stubOracle{response: `{"score": 81, "feedback": ["clear structure", "minor tone issues"]}`}
	e := &WrittenEvaluator{Oracle: oracle}

	items := writtenItems(5)
	answers := []Answer{
		{ItemID: "w1", Text: "Dear stakeholder..."},
		{ItemID: "w2", Text: "Incident summary..."},
	}

	outcome, err := e.Evaluate(context.Background(), EvalContext{Round: 5}, items, answers)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Score != 81 || !outcome.Passed {
		t.Errorf("got %v/%t, want 81/pass", outcome.Score, outcome.Passed)
	}
	if len(outcome.Details) != 5 {
		t.Errorf("detail count = %d, want 5", len(outcome.Details))
	}
}

// The written round fails open with the specific default score of 70 and
// honest generic feedback, never fabricated critique.
func TestWrittenEvaluator_FailOpenDefault(t *testing.T) {
	e := &WrittenEvaluator{Oracle: &stubOracle{err: errors.New("oracle down")}}

	items := writtenItems(3)
	outcome, err := e.Evaluate(context.Background(), EvalContext{Round: 5}, items,
		[]Answer{{ItemID: "w1", Text: "something"}})
	if err != nil {
		t.Fatalf("fail-open round must not return an error, got %v", err)
	}
	if outcome.Score != WrittenDefaultScore {
		t.Errorf("score = %v, want exactly %v", outcome.Score, WrittenDefaultScore)
	}
	if !outcome.Passed {
		t.Error("default of 70 should pass the 60 threshold")
	}
	if len(outcome.Feedback) != 1 || outcome.Feedback[0] != WrittenDefaultFeedback {
		t.Errorf("feedback = %v, want the generic default string", outcome.Feedback)
	}
	if len(outcome.Details) != 3 {
		t.Errorf("detail count = %d, want 3", len(outcome.Details))
	}
}

// Malformed oracle output is an oracle failure and takes the same default.
func TestWrittenEvaluator_MalformedOutputFailsOpen(t *testing.T) {
	e := &WrittenEvaluator{Oracle: &stubOracle{response: "not json at all"}}

	outcome, err := e.Evaluate(context.Background(), EvalContext{Round: 5}, writtenItems(2), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Score != WrittenDefaultScore {
		t.Errorf("score = %v, want %v", outcome.Score, WrittenDefaultScore)
	}
}

func TestFailOpenPolicyTable(t *testing.T) {
	if !FailsOpen(RoundWritten) {
		t.Error("written round must fail open")
	}
	for _, rt := range []RoundType{RoundAptitude, RoundTechnical, RoundResume, RoundCoding} {
		if FailsOpen(rt) {
			t.Errorf("%s must not fail open", rt)
		}
	}
}
