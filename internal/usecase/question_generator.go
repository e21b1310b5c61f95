package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/adityadeoche/interview-iq-ai-sub001/internal/engine"
	"github.com/adityadeoche/interview-iq-ai-sub001/internal/model"
	"github.com/tidwall/gjson"
)

// Question counts per round.
const (
	aptitudeQuestionCount = 10
	technicalMCQCount     = 8
	technicalShortCount   = 2
	resumeQuestionCount   = 10
	writtenTaskCount      = 5
)

// artifactDirective is attached to round-3 generation after a verified gate:
// the questions must anchor on concrete artifacts from the candidate's own
// evidence. A generation directive, not an evaluation rule.
const artifactDirective = "The questions MUST reference at least three concrete artifacts (named variables, libraries, functions, or components) drawn verbatim from the candidate's evidence below."

// generateQuestionSet builds the question set for a round through the
// oracle. Output is parsed defensively; items always get stable ids.
func (uc *InterviewUsecase) generateQuestionSet(ctx context.Context, session *model.InterviewSession, round int) ([]engine.QuestionItem, error) {
	roundType, ok := engine.RoundTypeFor(round)
	if !ok {
		return nil, fmt.Errorf("invalid round number %d", round)
	}

	prompt := uc.buildGenerationPrompt(session, round, roundType)
	raw, err := uc.oracle.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}
	text := engine.StripCodeFences(raw)
	if !gjson.Valid(text) {
		return nil, fmt.Errorf("%w: question generation", engine.ErrOracleMalformed)
	}

	var items []engine.QuestionItem
	for i, q := range gjson.Get(text, "questions").Array() {
		item := engine.QuestionItem{
			ID:     fmt.Sprintf("r%d-q%d", round, i+1),
			Type:   engine.ItemType(q.Get("type").String()),
			Prompt: q.Get("prompt").String(),
			Rubric: q.Get("rubric").String(),
		}
		if item.Type == "" {
			item.Type = defaultItemType(roundType)
		}
		for _, opt := range q.Get("options").Array() {
			item.Options = append(item.Options, opt.String())
		}
		item.CorrectIndex = int(q.Get("correct_index").Int())
		if item.Prompt != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: no questions generated", engine.ErrOracleMalformed)
	}
	return items, nil
}

func defaultItemType(rt engine.RoundType) engine.ItemType {
	switch rt {
	case engine.RoundCoding:
		return engine.ItemCoding
	case engine.RoundWritten:
		return engine.ItemWrittenTask
	default:
		return engine.ItemMCQ
	}
}

func (uc *InterviewUsecase) buildGenerationPrompt(session *model.InterviewSession, round int, roundType engine.RoundType) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("You are preparing round %d of a simulated interview for a %s role.\n\n", round, session.TargetRole))

	switch roundType {
	case engine.RoundAptitude:
		sb.WriteString(fmt.Sprintf("Generate %d general aptitude multiple-choice questions (logic, quantitative reasoning, verbal). Each has exactly 4 options.\n", aptitudeQuestionCount))
	case engine.RoundTechnical:
		sb.WriteString(fmt.Sprintf("Generate %d technical multiple-choice questions for this role (each with exactly 4 options), followed by %d short-answer questions with an expected-topics rubric.\n", technicalMCQCount, technicalShortCount))
	case engine.RoundResume:
		sb.WriteString(fmt.Sprintf("Generate %d multiple-choice questions probing the candidate's OWN claimed experience below. Each has exactly 4 options; wrong options must be plausible for someone who did not actually do the work.\n", resumeQuestionCount))
		if session.GateVerified {
			sb.WriteString(artifactDirective)
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("\nCandidate evidence:\n%s\n", evidenceText(session)))
	case engine.RoundCoding:
		sb.WriteString("Generate 1 self-contained coding challenge appropriate for this role, with a short grading rubric covering correctness, complexity, edge cases, and code quality.\n")
	case engine.RoundWritten:
		sb.WriteString(fmt.Sprintf("Generate %d short written-communication tasks (e.g. explain a technical decision to a stakeholder, write an incident summary).\n", writtenTaskCount))
	}

	sb.WriteString(`
Return your answer STRICTLY in JSON format with this schema:
{
  "questions": [
    {
      "type": "<mcq | short_answer | coding | written_task>",
      "prompt": "<question text>",
      "options": ["<a>", "<b>", "<c>", "<d>"],
      "correct_index": <zero-based index of the correct option, mcq only>,
      "rubric": "<expected topics or grading hint, non-mcq only>"
    }
  ]
}`)
	return sb.String()
}

func evidenceText(session *model.InterviewSession) string {
	var evidence []string
	if err := json.Unmarshal([]byte(session.Evidence), &evidence); err != nil {
		return session.Evidence
	}
	var sb strings.Builder
	for i, e := range evidence {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, e))
	}
	return sb.String()
}
