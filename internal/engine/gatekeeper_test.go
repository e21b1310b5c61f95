package engine

import (
	"context"
	"errors"
	"testing"
)

// Empty evidence is a hard fail of the gate with no oracle call; there is
// nothing to bypass-evaluate.
func TestGatekeeper_EmptyEvidenceHardFail(t *testing.T) {
	tests := []struct {
		name     string
		evidence []string
	}{
		{name: "nil evidence", evidence: nil},
		{name: "empty list", evidence: []string{}},
		{name: "only blank entries", evidence: []string{"", "   ", "\n"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oracle := &stubOracle{response: `{"verified": true, "match_score": 90}`}
			g := &Gatekeeper{Oracle: oracle}

			v := g.Audit(context.Background(), tt.evidence, "Backend Engineer", "")
			if v.Verified {
				t.Error("empty evidence must not verify")
			}
			if v.MatchScore != 0 {
				t.Errorf("match score = %v, want 0", v.MatchScore)
			}
			if oracle.calls != 0 {
				t.Errorf("oracle was called %d times for empty evidence", oracle.calls)
			}
		})
	}
}

// Oracle failure fails open: infrastructure issues never block a candidate.
func TestGatekeeper_OracleFailureFailsOpen(t *testing.T) {
	g := &Gatekeeper{Oracle: &stubOracle{err: errors.New("oracle down")}}

	v := g.Audit(context.Background(), []string{"built a payment service in Go"}, "Backend Engineer", "")
	if !v.Verified {
		t.Error("audit must fail open on oracle failure")
	}
	if v.Reason != GateBypassReason {
		t.Errorf("reason = %q, want %q", v.Reason, GateBypassReason)
	}
}

// A valid JSON object that omits the verified field would read as a rejection
// through the zero value; schema-incomplete output fails open instead.
func TestGatekeeper_IncompleteVerdictFailsOpen(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{name: "missing verified field", response: `{"match_score": 55, "reason": "partial output"}`},
		{name: "non-boolean verified field", response: `{"verified": "yes", "match_score": 70}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := &Gatekeeper{Oracle: &stubOracle{response: tt.response}}

			v := g.Audit(context.Background(), []string{"built a payment service in Go"}, "Backend Engineer", "")
			if !v.Verified {
				t.Error("incomplete oracle output must fail open, not screen the candidate out")
			}
			if v.Reason != GateBypassReason {
				t.Errorf("reason = %q, want %q", v.Reason, GateBypassReason)
			}
		})
	}
}

func TestGatekeeper_MalformedOutputFailsOpen(t *testing.T) {
	g := &Gatekeeper{Oracle: &stubOracle{response: "verified, I guess?"}}

	v := g.Audit(context.Background(), []string{"some project"}, "Backend Engineer", "")
	if !v.Verified {
		t.Error("malformed oracle output must fail open")
	}
}

func TestGatekeeper_ParsesVerdict(t *testing.T) {
	tests := []struct {
		name         string
		response     string
		wantVerified bool
		wantScore    float64
	}{
		{
			name:         "verified match",
			response:     `{"verified": true, "match_score": 65, "reason": "evidence matches role"}`,
			wantVerified: true,
			wantScore:    65,
		},
		{
			name:         "rejected match",
			response:     `{"verified": false, "match_score": 12, "reason": "claims do not match role"}`,
			wantVerified: false,
			wantScore:    12,
		},
		{
			name:         "score clamped",
			response:     `{"verified": true, "match_score": 130, "reason": "x"}`,
			wantVerified: true,
			wantScore:    100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := &Gatekeeper{Oracle: &stubOracle{response: tt.response}}
			v := g.Audit(context.Background(), []string{"built things"}, "Backend Engineer", "Go, SQL, APIs")
			if v.Verified != tt.wantVerified {
				t.Errorf("verified = %t, want %t", v.Verified, tt.wantVerified)
			}
			if v.MatchScore != tt.wantScore {
				t.Errorf("match score = %v, want %v", v.MatchScore, tt.wantScore)
			}
		})
	}
}
