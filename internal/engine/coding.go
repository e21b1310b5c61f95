package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// CodingEvaluator grades the single coding submission holistically through
// the oracle against four rubric axes. Oracle failure propagates; there is no
// safe default for an ungraded code submission.
type CodingEvaluator struct {
	Oracle Oracle
}

func (e *CodingEvaluator) Evaluate(ctx context.Context, ec EvalContext, items []QuestionItem, answers []Answer) (*RoundOutcome, error) {
	idx := answerIndex(answers)

	outcome := &RoundOutcome{
		Round:     ec.Round,
		Type:      RoundCoding,
		Threshold: CodingPassThreshold,
		Details:   make([]ItemDetail, len(items)),
	}

	var submission string
	for i, item := range items {
		a, ok := idx[item.ID]
		outcome.Details[i] = ItemDetail{ItemID: item.ID, Answer: rawInput(a, ok)}
		if ok && strings.TrimSpace(a.Text) != "" {
			submission = a.Text
		}
	}

	// An empty submission is the worst grade, not an error.
	if submission == "" || len(items) == 0 {
		outcome.Feedback = []string{"No code submission was provided."}
		return outcome, nil
	}

	text, err := completeJSON(ctx, e.Oracle, e.buildPrompt(ec, items[0], submission))
	if err != nil {
		return nil, err
	}

	// Fail-closed: a schema-incomplete grade must surface as a retryable
	// error, never be read through the zero value as a 0.
	score := gjson.Get(text, "score")
	if !score.Exists() {
		return nil, fmt.Errorf("%w: grade missing score field", ErrOracleMalformed)
	}

	outcome.Score = clampScore(score.Float())
	outcome.Passed = outcome.Score >= CodingPassThreshold
	outcome.Complexity = gjson.Get(text, "complexity").String()
	for _, fb := range gjson.Get(text, "feedback").Array() {
		outcome.Feedback = append(outcome.Feedback, fb.String())
	}
	for i := range outcome.Details {
		outcome.Details[i].Grade = outcome.Score
		outcome.Details[i].Correct = outcome.Passed
		if len(outcome.Feedback) > 0 {
			outcome.Details[i].Feedback = outcome.Feedback[0]
		}
	}
	return outcome, nil
}

func (e *CodingEvaluator) buildPrompt(ec EvalContext, item QuestionItem, submission string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("You are a senior engineer reviewing a coding challenge submission for a %s role.\n\n", ec.TargetRole))
	sb.WriteString(fmt.Sprintf("Problem statement:\n%s\n\n", item.Prompt))
	if item.Rubric != "" {
		sb.WriteString(fmt.Sprintf("Grading hints: %s\n\n", item.Rubric))
	}
	sb.WriteString(fmt.Sprintf("Submission:\n%s\n\n", submission))
	sb.WriteString(`Grade holistically on correctness, algorithmic complexity, edge-case handling, and code quality.
Return your answer STRICTLY in JSON format with this schema:
{
  "score": <number 0-100>,
  "complexity": "<big-O estimate of the submission>",
  "feedback": ["<point 1>", "<point 2>", "<point 3>"]
}`)
	return sb.String()
}

func clampScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}
