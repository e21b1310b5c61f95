package engine

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/tidwall/gjson"
)

// CulturalFitNeutral is the fixed matrix slot not derived from any round.
const CulturalFitNeutral = 7.0

// FallbackSummary is used when narrative generation fails; the numeric
// verdict is never blocked by narrative failure.
const FallbackSummary = "A narrative summary could not be generated for this interview. The numeric scores and verdict above are complete and authoritative."

// Weighted-analysis weights for the per-interview breakdown prompt. This is
// a different computation from the five-round final aggregate (a plain mean)
// and the two must never be unified.
const (
	weightTechnical      = 0.4
	weightCommunication  = 0.3
	weightProblemSolving = 0.3
)

// WeightedInterviewScore is the 40/30/30 per-interview analysis score fed to
// the narrative prompt. Not the headline score.
func WeightedInterviewScore(technical, communication, problemSolving float64) float64 {
	return technical*weightTechnical + communication*weightCommunication + problemSolving*weightProblemSolving
}

// Report is the human-facing verdict object consumed by presentation layers.
type Report struct {
	RoundScores   [TotalRounds]float64 `json:"round_scores"`
	HeadlineScore int                  `json:"headline_score"`
	Verdict       Verdict              `json:"verdict"`
	ScreenedOut   bool                 `json:"screened_out"`
	Reason        string               `json:"reason,omitempty"`
	SkillMatrix   map[string]float64   `json:"skill_matrix"`
	Summary       string               `json:"summary"`
	SellingPoints []string             `json:"selling_points,omitempty"`
	Feedback      []string             `json:"feedback,omitempty"`
}

// ReportComposer converts the final pipeline state into a Report. The skill
// matrix and scores are pure; only the narrative needs the oracle and
// degrades to fixed fallback text when it fails.
type ReportComposer struct {
	Oracle Oracle
}

// Compose builds the report for a terminal pipeline.
func (c *ReportComposer) Compose(ctx context.Context, p *Pipeline, targetRole string) *Report {
	r := &Report{
		HeadlineScore: p.Headline(),
		SkillMatrix:   map[string]float64{"cultural_fit": CulturalFitNeutral},
	}

	if p.State == StateScreenedOut {
		r.ScreenedOut = true
		r.Verdict = VerdictNoHire
		if p.Gate != nil {
			r.Reason = p.Gate.Reason
		}
		r.Summary = "Candidate was screened out at the project authenticity gate."
		return r
	}

	if p.Aggregate != nil {
		r.RoundScores = p.Aggregate.RoundScores
		r.Verdict = p.Aggregate.Verdict
	}

	slots := [TotalRounds]string{"aptitude", "technical_knowledge", "experience_depth", "coding", "written_communication"}
	for i, o := range p.Outcomes {
		if o == nil {
			continue
		}
		// Raw round score mapped onto the 0-10 matrix scale.
		r.SkillMatrix[slots[i]] = o.Score / 10
		r.Feedback = append(r.Feedback, o.Feedback...)
	}

	summary, points, err := c.narrative(ctx, p, targetRole)
	if err != nil {
		log.Printf("report: narrative generation failed, using fallback: %v", err)
		r.Summary = FallbackSummary
		return r
	}
	r.Summary = summary
	r.SellingPoints = points
	return r
}

func (c *ReportComposer) narrative(ctx context.Context, p *Pipeline, targetRole string) (string, []string, error) {
	text, err := completeJSON(ctx, c.Oracle, c.buildPrompt(p, targetRole))
	if err != nil {
		return "", nil, err
	}
	summary := gjson.Get(text, "summary").String()
	if strings.TrimSpace(summary) == "" {
		return "", nil, fmt.Errorf("%w: empty summary", ErrOracleMalformed)
	}
	var points []string
	for _, sp := range gjson.Get(text, "selling_points").Array() {
		points = append(points, sp.String())
	}
	return summary, points, nil
}

func (c *ReportComposer) buildPrompt(p *Pipeline, targetRole string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("You are writing the final screening report for a %s candidate who completed a five-round simulated interview.\n\n", targetRole))
	names := [TotalRounds]string{"Aptitude", "Technical", "Resume Deep-Dive", "Coding", "Written Communication"}
	for i, o := range p.Outcomes {
		if o == nil {
			continue
		}
		sb.WriteString(fmt.Sprintf("%s round: %.1f/100 (passed: %t)\n", names[i], o.Score, o.Passed))
	}
	if p.Aggregate != nil {
		tech := (p.Aggregate.RoundScores[1] + p.Aggregate.RoundScores[3]) / 2
		weighted := WeightedInterviewScore(tech, p.Aggregate.RoundScores[4], p.Aggregate.RoundScores[0])
		sb.WriteString(fmt.Sprintf("\nOverall: %d/100 (%s). Weighted analysis score (40%% technical, 30%% communication, 30%% problem solving): %.1f\n",
			p.Aggregate.HeadlineScore, p.Aggregate.Verdict, weighted))
	}
	sb.WriteString(`
Return your answer STRICTLY in JSON format with this schema:
{
  "summary": "<3-4 sentence narrative of strengths and weaknesses>",
  "selling_points": ["<strongest point first>", "..."]
}`)
	return sb.String()
}
