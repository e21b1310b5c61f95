package engine

import "context"

// MCQEvaluator grades pure multiple-choice rounds locally, with no oracle
// dependency. Both the aptitude round and the resume deep-dive round use it;
// only the pass threshold differs.
type MCQEvaluator struct {
	Type      RoundType
	Threshold float64
}

func (e *MCQEvaluator) Evaluate(_ context.Context, ec EvalContext, items []QuestionItem, answers []Answer) (*RoundOutcome, error) {
	idx := answerIndex(answers)

	details := make([]ItemDetail, 0, len(items))
	correct := 0
	for _, item := range items {
		a, ok := idx[item.ID]
		hit := ok && a.Selected != nil && *a.Selected == item.CorrectIndex
		if hit {
			correct++
		}
		grade := 0.0
		if hit {
			grade = 1.0
		}
		details = append(details, ItemDetail{
			ItemID:  item.ID,
			Answer:  rawInput(a, ok),
			Correct: hit,
			Grade:   grade,
		})
	}

	score := 0.0
	if len(items) > 0 {
		score = float64(correct) / float64(len(items)) * 100
	}

	return &RoundOutcome{
		Round:     ec.Round,
		Type:      e.Type,
		Score:     score,
		Passed:    score >= e.Threshold,
		Threshold: e.Threshold,
		Details:   details,
	}, nil
}
