package engine

import "strings"

// Weak-answer and adaptation cutoffs for the conversational round. Grades are
// on the oracle's 0-10 turn scale.
const (
	weakWordCount    = 25
	weakAverage      = 5.0
	advancedAverage  = 8.0
	advancedMinCount = 3
	basicAverage     = 4.0
	basicMinCount    = 2

	// MinQuestionsBeforeFinish is a hard floor: the round may never end
	// before this many questions, whatever the oracle thinks of coverage.
	MinQuestionsBeforeFinish = 6
)

// AdaptiveController selects the next chat question's difficulty tier from
// the session's stored turns. Counters are derived from the turns themselves,
// never taken from the client.
type AdaptiveController struct{}

// Next applies the adaptation rules in priority order, first match wins.
// coverageAdequate is the oracle's judgment of topical coverage; the
// controller only gates it behind the minimum question count.
func (AdaptiveController) Next(turns []ChatTurn, coverageAdequate bool) NextDirective {
	d := NextDirective{Tier: TierStandard}
	count := len(turns)
	if count >= MinQuestionsBeforeFinish && coverageAdequate {
		d.IsFinished = true
	}
	if count == 0 {
		return d
	}

	latest := turns[count-1]
	avg := runningAverage(turns)

	switch {
	case latest.WordCount < weakWordCount || avg < weakAverage:
		// A weak latest answer forces a same-topic probe, even when the
		// running average would otherwise ask for advanced material.
		d.WeakAnswer = true
		d.IsProbe = true
	case avg >= advancedAverage && count >= advancedMinCount:
		d.Tier = TierAdvanced
	case avg < basicAverage && count >= basicMinCount:
		d.Tier = TierFoundational
	}
	return d
}

// WordCount counts whitespace-separated tokens of an answer.
func WordCount(answer string) int {
	return len(strings.Fields(answer))
}

func runningAverage(turns []ChatTurn) float64 {
	if len(turns) == 0 {
		return 0
	}
	sum := 0.0
	for _, t := range turns {
		sum += t.Grade
	}
	return sum / float64(len(turns))
}
