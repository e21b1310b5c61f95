package engine

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/tidwall/gjson"
)

// Gatekeeper is the one-time authenticity check between rounds 2 and 3. It
// judges whether the candidate's project/skill evidence demonstrates a
// baseline technical match to the target role. Empty evidence is a hard fail;
// oracle failure is fail-open so infrastructure issues never block a
// candidate. The orchestrator guarantees at most one audit per session.
type Gatekeeper struct {
	Oracle Oracle
}

// Audit never returns an error; every failure mode maps to a verdict.
func (g *Gatekeeper) Audit(ctx context.Context, evidence []string, targetRole, roleContext string) GateVerdict {
	var kept []string
	for _, e := range evidence {
		if strings.TrimSpace(e) != "" {
			kept = append(kept, e)
		}
	}
	if len(kept) == 0 {
		return GateVerdict{
			Verified:   false,
			MatchScore: 0,
			Reason:     ErrEmptyEvidence.Error(),
		}
	}

	text, err := completeJSON(ctx, g.Oracle, g.buildPrompt(kept, targetRole, roleContext))
	if err != nil {
		log.Printf("gatekeeper: audit bypassed (fail-open): %v", err)
		return GateVerdict{Verified: true, Reason: GateBypassReason}
	}

	// A JSON object without a boolean verified field would read as false
	// through the zero value and screen the candidate out. Schema-incomplete
	// output is malformed output and fails open like any other oracle failure.
	verified := gjson.Get(text, "verified")
	if !verified.Exists() || !verified.IsBool() {
		log.Printf("gatekeeper: audit bypassed (fail-open): %v: missing verified field", ErrOracleMalformed)
		return GateVerdict{Verified: true, Reason: GateBypassReason}
	}

	return GateVerdict{
		Verified:   verified.Bool(),
		MatchScore: clampScore(gjson.Get(text, "match_score").Float()),
		Reason:     gjson.Get(text, "reason").String(),
	}
}

func (g *Gatekeeper) buildPrompt(evidence []string, targetRole, roleContext string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("You are auditing a candidate's claimed project and skill experience for authenticity and relevance to a %s role.\n\n", targetRole))
	if roleContext != "" {
		sb.WriteString(fmt.Sprintf("Expected skill set for this role:\n%s\n\n", roleContext))
	}
	sb.WriteString("Candidate evidence:\n")
	for i, e := range evidence {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, e))
	}
	sb.WriteString(fmt.Sprintf(`
The candidate passes if the evidence demonstrates at least a %.0f%% technical match to the role's expected skill set and reads as genuine hands-on work rather than fabricated claims.
Return your answer STRICTLY in JSON format with this schema:
{
  "verified": <true or false>,
  "match_score": <number 0-100>,
  "reason": "<one line>"
}`, GateMinMatchPercent))
	return sb.String()
}
