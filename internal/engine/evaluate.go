package engine

import (
	"context"
	"fmt"
	"strconv"
)

// EvalContext carries per-session information an evaluator may fold into its
// grading prompt.
type EvalContext struct {
	Round      int
	TargetRole string
}

// RoundEvaluator turns raw answers into a normalized round outcome. Missing
// answers are graded as incorrect, never rejected, and the outcome always
// carries one detail entry per question item.
type RoundEvaluator interface {
	Evaluate(ctx context.Context, ec EvalContext, items []QuestionItem, answers []Answer) (*RoundOutcome, error)
}

// EvaluatorFor returns the evaluator for a round type. The set is closed;
// an unknown type is a programming error surfaced to the caller.
func EvaluatorFor(rt RoundType, oracle Oracle) (RoundEvaluator, error) {
	switch rt {
	case RoundAptitude:
		return &MCQEvaluator{Type: RoundAptitude, Threshold: AptitudePassThreshold}, nil
	case RoundResume:
		return &MCQEvaluator{Type: RoundResume, Threshold: ResumePassThreshold}, nil
	case RoundTechnical:
		return &TechnicalEvaluator{Oracle: oracle}, nil
	case RoundCoding:
		return &CodingEvaluator{Oracle: oracle}, nil
	case RoundWritten:
		return &WrittenEvaluator{Oracle: oracle}, nil
	}
	return nil, fmt.Errorf("unknown round type %q", rt)
}

// answerIndex maps answers by item id so lookups tolerate missing or
// reordered submissions.
func answerIndex(answers []Answer) map[string]Answer {
	idx := make(map[string]Answer, len(answers))
	for _, a := range answers {
		idx[a.ItemID] = a
	}
	return idx
}

// rawInput renders the candidate's submission for the audit trail.
func rawInput(a Answer, ok bool) string {
	if !ok {
		return ""
	}
	if a.Selected != nil {
		return strconv.Itoa(*a.Selected)
	}
	return a.Text
}
