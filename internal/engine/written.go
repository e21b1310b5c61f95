package engine

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/tidwall/gjson"
)

// WrittenEvaluator grades up to five free-form task responses holistically.
// This round fails open: if the oracle is unavailable the candidate receives
// the neutral default score so the pipeline always has a fifth round score.
type WrittenEvaluator struct {
	Oracle Oracle
}

func (e *WrittenEvaluator) Evaluate(ctx context.Context, ec EvalContext, items []QuestionItem, answers []Answer) (*RoundOutcome, error) {
	idx := answerIndex(answers)

	outcome := &RoundOutcome{
		Round:     ec.Round,
		Type:      RoundWritten,
		Threshold: WrittenPassThreshold,
		Details:   make([]ItemDetail, len(items)),
	}
	for i, item := range items {
		a, ok := idx[item.ID]
		outcome.Details[i] = ItemDetail{ItemID: item.ID, Answer: rawInput(a, ok)}
	}

	text, err := completeJSON(ctx, e.Oracle, e.buildPrompt(ec, items, idx))
	if err != nil {
		log.Printf("written round: oracle failed, applying default score %.0f: %v", WrittenDefaultScore, err)
		outcome.Score = WrittenDefaultScore
		outcome.Passed = WrittenDefaultScore >= WrittenPassThreshold
		outcome.Feedback = []string{WrittenDefaultFeedback}
		for i := range outcome.Details {
			outcome.Details[i].Grade = WrittenDefaultScore
			outcome.Details[i].Feedback = WrittenDefaultFeedback
		}
		return outcome, nil
	}

	outcome.Score = clampScore(gjson.Get(text, "score").Float())
	outcome.Passed = outcome.Score >= WrittenPassThreshold
	for _, fb := range gjson.Get(text, "feedback").Array() {
		outcome.Feedback = append(outcome.Feedback, fb.String())
	}
	for i := range outcome.Details {
		outcome.Details[i].Grade = outcome.Score
		outcome.Details[i].Correct = outcome.Passed
	}
	return outcome, nil
}

func (e *WrittenEvaluator) buildPrompt(ec EvalContext, items []QuestionItem, idx map[string]Answer) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("You are assessing the written communication of a candidate for a %s role. Grade the responses below holistically for clarity, structure, and professionalism.\n\n", ec.TargetRole))
	for _, item := range items {
		a, ok := idx[item.ID]
		answer := "(no response)"
		if ok && strings.TrimSpace(a.Text) != "" {
			answer = a.Text
		}
		sb.WriteString(fmt.Sprintf("Task [%s]: %s\nResponse: %s\n\n", item.ID, item.Prompt, answer))
	}
	sb.WriteString(`Return your answer STRICTLY in JSON format with this schema:
{
  "score": <number 0-100>,
  "feedback": ["<strength or weakness>", "..."]
}`)
	return sb.String()
}
