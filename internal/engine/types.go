package engine

// RoundType identifies one of the five fixed assessment rounds.
type RoundType string

const (
	RoundAptitude  RoundType = "aptitude_mcq"
	RoundTechnical RoundType = "technical_mixed"
	RoundResume    RoundType = "resume_deep_dive"
	RoundCoding    RoundType = "coding_challenge"
	RoundWritten   RoundType = "written_communication"
)

// TotalRounds is the fixed length of the pipeline.
const TotalRounds = 5

// RoundTypeFor maps a round number (1-5) to its type.
func RoundTypeFor(round int) (RoundType, bool) {
	switch round {
	case 1:
		return RoundAptitude, true
	case 2:
		return RoundTechnical, true
	case 3:
		return RoundResume, true
	case 4:
		return RoundCoding, true
	case 5:
		return RoundWritten, true
	}
	return "", false
}

// ItemType identifies the shape of a single question item.
type ItemType string

const (
	ItemMCQ         ItemType = "mcq"
	ItemShortAnswer ItemType = "short_answer"
	ItemCoding      ItemType = "coding"
	ItemWrittenTask ItemType = "written_task"
)

// QuestionItem is one question inside a round's question set. Produced by the
// generation step before evaluation; consumed read-only here.
type QuestionItem struct {
	ID           string   `json:"id"`
	Type         ItemType `json:"type"`
	Prompt       string   `json:"prompt"`
	Options      []string `json:"options,omitempty"`
	CorrectIndex int      `json:"correct_index,omitempty"` // zero-based, mcq only
	Rubric       string   `json:"rubric,omitempty"`
}

// Answer is the candidate's submission for a single item. A missing answer is
// graded as incorrect, never rejected.
type Answer struct {
	ItemID   string `json:"item_id"`
	Selected *int   `json:"selected,omitempty"` // mcq option index
	Text     string `json:"text,omitempty"`
}

// ItemDetail is the per-item audit record carried on every round result.
type ItemDetail struct {
	ItemID   string  `json:"item_id"`
	Answer   string  `json:"answer"` // raw user input, kept for audit
	Correct  bool    `json:"correct"`
	Grade    float64 `json:"grade"`
	Feedback string  `json:"feedback,omitempty"`
}

// RoundOutcome is the immutable result of evaluating one round.
type RoundOutcome struct {
	Round     int          `json:"round"`
	Type      RoundType    `json:"type"`
	Score     float64      `json:"score"` // normalized 0-100
	Passed    bool         `json:"passed"`
	Threshold float64      `json:"threshold"`
	Details   []ItemDetail `json:"details"`
	Feedback  []string     `json:"feedback,omitempty"`
	// Complexity is only set by the coding round's holistic grade.
	Complexity string `json:"complexity,omitempty"`
}

// GateVerdict is the gatekeeper's one-time authenticity judgment.
type GateVerdict struct {
	Verified   bool    `json:"verified"`
	MatchScore float64 `json:"match_score"` // 0-100
	Reason     string  `json:"reason"`
}

// Verdict is the categorical hiring recommendation.
type Verdict string

const (
	VerdictStrongHire Verdict = "STRONG HIRE"
	VerdictHire       Verdict = "HIRE"
	VerdictBorderline Verdict = "BORDERLINE"
	VerdictNoHire     Verdict = "NO HIRE"
)

// FinalAggregate is computed once, after round 5's result exists.
type FinalAggregate struct {
	RoundScores   [TotalRounds]float64 `json:"round_scores"`
	HeadlineScore int                  `json:"headline_score"` // rounded unweighted mean
	Verdict       Verdict              `json:"verdict"`
}

// ChatTurn is one graded exchange of the conversational round. Counters for
// the adaptive controller are derived from stored turns, never supplied by
// the client.
type ChatTurn struct {
	Question  string  `json:"question"`
	Answer    string  `json:"answer"`
	Grade     float64 `json:"grade"` // 0-10 oracle grade
	WordCount int     `json:"word_count"`
	Topic     string  `json:"topic,omitempty"`
}

// DifficultyTier is the requested difficulty of the next chat question.
type DifficultyTier string

const (
	TierFoundational DifficultyTier = "foundational"
	TierStandard     DifficultyTier = "standard"
	TierAdvanced     DifficultyTier = "advanced"
)

// NextDirective tells the question generator how to shape the next chat turn.
type NextDirective struct {
	Tier       DifficultyTier `json:"tier"`
	IsProbe    bool           `json:"is_probe"`    // re-probe the same topic
	WeakAnswer bool           `json:"weak_answer"` // latest answer classified weak
	IsFinished bool           `json:"is_finished"` // round may end
}
