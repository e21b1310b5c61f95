package engine

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/tidwall/gjson"
)

// TechnicalEvaluator grades the mixed round: MCQ items locally, short-answer
// items through the oracle as binary grades. If the oracle fails, the
// short-answer items are graded 0 with honest feedback rather than aborting
// the round.
type TechnicalEvaluator struct {
	Oracle Oracle
}

func (e *TechnicalEvaluator) Evaluate(ctx context.Context, ec EvalContext, items []QuestionItem, answers []Answer) (*RoundOutcome, error) {
	idx := answerIndex(answers)

	var shortItems []QuestionItem
	mcqCorrect := 0
	details := make([]ItemDetail, len(items))
	for i, item := range items {
		a, ok := idx[item.ID]
		details[i] = ItemDetail{ItemID: item.ID, Answer: rawInput(a, ok)}
		if item.Type == ItemShortAnswer {
			shortItems = append(shortItems, item)
			continue
		}
		hit := ok && a.Selected != nil && *a.Selected == item.CorrectIndex
		if hit {
			mcqCorrect++
			details[i].Correct = true
			details[i].Grade = 1.0
		}
	}

	shortSum := 0.0
	if len(shortItems) > 0 {
		grades, err := e.gradeShortAnswers(ctx, ec, shortItems, idx)
		if err != nil {
			log.Printf("technical round: short-answer grading failed, items graded 0: %v", err)
		}
		for i := range details {
			g, ok := grades[details[i].ItemID]
			if !ok {
				continue
			}
			details[i].Grade = g.grade
			details[i].Correct = g.grade >= 1
			details[i].Feedback = g.feedback
			shortSum += g.grade
		}
		// Binary grades, capped at the short-answer item count.
		if max := float64(len(shortItems)); shortSum > max {
			shortSum = max
		}
	}

	score := 0.0
	if len(items) > 0 {
		score = (float64(mcqCorrect) + shortSum) / float64(len(items)) * 100
	}

	return &RoundOutcome{
		Round:     ec.Round,
		Type:      RoundTechnical,
		Score:     score,
		Passed:    score >= TechnicalPassThreshold,
		Threshold: TechnicalPassThreshold,
		Details:   details,
	}, nil
}

type shortGrade struct {
	grade    float64
	feedback string
}

func (e *TechnicalEvaluator) gradeShortAnswers(ctx context.Context, ec EvalContext, items []QuestionItem, idx map[string]Answer) (map[string]shortGrade, error) {
	grades := make(map[string]shortGrade, len(items))
	for _, item := range items {
		// Ungraded until the oracle says otherwise.
		grades[item.ID] = shortGrade{feedback: "Answer could not be graded; counted as incorrect."}
	}

	text, err := completeJSON(ctx, e.Oracle, e.buildPrompt(ec, items, idx))
	if err != nil {
		return grades, err
	}

	for _, g := range gjson.Get(text, "grades").Array() {
		id := g.Get("id").String()
		if _, ok := grades[id]; !ok {
			continue
		}
		grade := g.Get("grade").Float()
		if grade >= 1 {
			grade = 1
		} else {
			grade = 0
		}
		grades[id] = shortGrade{grade: grade, feedback: g.Get("feedback").String()}
	}
	return grades, nil
}

func (e *TechnicalEvaluator) buildPrompt(ec EvalContext, items []QuestionItem, idx map[string]Answer) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("You are a strict technical interviewer for a %s role. Grade each short answer below as correct (1) or incorrect (0).\n\n", ec.TargetRole))
	for _, item := range items {
		a, ok := idx[item.ID]
		answer := "(no answer)"
		if ok && strings.TrimSpace(a.Text) != "" {
			answer = a.Text
		}
		sb.WriteString(fmt.Sprintf("Question [%s]: %s\n", item.ID, item.Prompt))
		if item.Rubric != "" {
			sb.WriteString(fmt.Sprintf("Expected topics: %s\n", item.Rubric))
		}
		sb.WriteString(fmt.Sprintf("Candidate answer: %s\n\n", answer))
	}
	sb.WriteString(`Return your answer STRICTLY in JSON format with this schema:
{
  "grades": [
    {"id": "<question id>", "grade": <0 or 1>, "feedback": "<one sentence>"}
  ]
}`)
	return sb.String()
}
