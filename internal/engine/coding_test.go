package engine

import (
	"context"
	"errors"
	"testing"
)

func codingItems() []QuestionItem {
	return []QuestionItem{{
		ID:     "c1",
		Type:   ItemCoding,
		Prompt: "Implement an LRU cache.",
		Rubric: "correctness, complexity, edge cases, code quality",
	}}
}

func TestCodingEvaluator_HolisticGrade(t *testing.T) {
	oracle := &stubOracle{response: `{
		"score": 72,
		"complexity": "O(1) per operation",
		"feedback": ["correct eviction", "missing capacity validation", "clear naming"]
	}`}
	e := &CodingEvaluator{Oracle: oracle}

	outcome, err := e.Evaluate(context.Background(), EvalContext{Round: 4, TargetRole: "Backend Engineer"},
		codingItems(), []Answer{{ItemID: "c1", Text: "type LRU struct{ ... }"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Score != 72 {
		t.Errorf("score = %v, want 72", outcome.Score)
	}
	if !outcome.Passed {
		t.Error("should pass at 72 >= 60")
	}
	if outcome.Complexity != "O(1) per operation" {
		t.Errorf("complexity = %q", outcome.Complexity)
	}
	if len(outcome.Feedback) != 3 {
		t.Errorf("feedback count = %d, want 3", len(outcome.Feedback))
	}
	if len(outcome.Details) != 1 {
		t.Errorf("detail count = %d, want 1", len(outcome.Details))
	}
}

// A missing submission is the worst grade, not an error, and the oracle is
// never consulted for it.
func TestCodingEvaluator_EmptySubmission(t *testing.T) {
	oracle := &stubOracle{}
	e := &CodingEvaluator{Oracle: oracle}

	outcome, err := e.Evaluate(context.Background(), EvalContext{Round: 4}, codingItems(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Score != 0 || outcome.Passed {
		t.Errorf("empty submission should score 0 and fail, got %v/%t", outcome.Score, outcome.Passed)
	}
	if oracle.calls != 0 {
		t.Errorf("oracle was called %d times for an empty submission", oracle.calls)
	}
	if len(outcome.Details) != 1 {
		t.Errorf("detail count = %d, want 1", len(outcome.Details))
	}
}

// The coding round does not fail open: an ungraded submission propagates.
func TestCodingEvaluator_OracleFailurePropagates(t *testing.T) {
	e := &CodingEvaluator{Oracle: &stubOracle{err: errors.New("down")}}

	_, err := e.Evaluate(context.Background(), EvalContext{Round: 4}, codingItems(),
		[]Answer{{ItemID: "c1", Text: "func main() {}"}})
	if !errors.Is(err, ErrOracleUnavailable) {
		t.Fatalf("expected ErrOracleUnavailable, got %v", err)
	}
}

// A grade object without a score field must surface as malformed output,
// never be read through the zero value as a 0 for the round.
func TestCodingEvaluator_MissingScoreIsMalformed(t *testing.T) {
	e := &CodingEvaluator{Oracle: &stubOracle{response: `{"feedback": ["looks fine"]}`}}

	_, err := e.Evaluate(context.Background(), EvalContext{Round: 4}, codingItems(),
		[]Answer{{ItemID: "c1", Text: "func main() {}"}})
	if !errors.Is(err, ErrOracleMalformed) {
		t.Fatalf("expected ErrOracleMalformed, got %v", err)
	}
}

func TestCodingEvaluator_ScoreClamped(t *testing.T) {
	oracle := &stubOracle{response: `{"score": 140, "complexity": "O(n)", "feedback": []}`}
	e := &CodingEvaluator{Oracle: oracle}

	outcome, err := e.Evaluate(context.Background(), EvalContext{Round: 4}, codingItems(),
		[]Answer{{ItemID: "c1", Text: "code"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Score != 100 {
		t.Errorf("score = %v, want clamp to 100", outcome.Score)
	}
}
