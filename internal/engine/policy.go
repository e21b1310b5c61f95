package engine

// Pass thresholds per round, on the normalized 0-100 scale. Resume is the
// strictest because it probes claimed personal experience.
const (
	AptitudePassThreshold  = 50.0
	TechnicalPassThreshold = 60.0
	ResumePassThreshold    = 70.0
	CodingPassThreshold    = 60.0
	WrittenPassThreshold   = 60.0
)

// Gatekeeper policy.
const (
	// GateMinMatchPercent is the baseline technical match the evidence must
	// demonstrate against the target role's skill set.
	GateMinMatchPercent = 30.0
	// GateBypassReason is surfaced when the oracle fails and the audit is
	// skipped rather than failing the candidate.
	GateBypassReason = "authenticity audit bypassed: grading service unavailable"
)

// Fail-open defaults. Infrastructure failures never block a candidate; the
// objective MCQ rounds grade locally and have no oracle dependency for their
// primary score, so they carry no default.
const (
	// WrittenDefaultScore is applied when the written round's oracle call
	// fails. Specifically 70, not an arbitrary "pass".
	WrittenDefaultScore = 70.0
	// WrittenDefaultFeedback is honest about the default; never fabricated
	// critique.
	WrittenDefaultFeedback = "Written responses could not be graded automatically; a neutral default score was applied."
)

// failOpen reports whether a component assumes a passing outcome when its
// oracle dependency fails. Kept as an explicit table so tests can pin the
// asymmetry instead of relying on ad hoc defaults.
var failOpen = map[RoundType]bool{
	RoundAptitude:  false, // no oracle dependency for scoring
	RoundTechnical: false, // short-answer grades default to 0 per item instead
	RoundResume:    false, // no oracle dependency for scoring
	RoundCoding:    false, // holistic grade is required; failure propagates
	RoundWritten:   true,
}

// FailsOpen reports the oracle-failure policy for a round type.
func FailsOpen(rt RoundType) bool {
	return failOpen[rt]
}

// Verdict thresholds for the headline score. Boundaries are inclusive on the
// lower edge; there are no gaps or overlaps.
const (
	StrongHireFloor = 85
	HireFloor       = 70
	BorderlineFloor = 55
)

// VerdictFor maps a rounded headline score to its categorical verdict.
func VerdictFor(headline int) Verdict {
	switch {
	case headline >= StrongHireFloor:
		return VerdictStrongHire
	case headline >= HireFloor:
		return VerdictHire
	case headline >= BorderlineFloor:
		return VerdictBorderline
	default:
		return VerdictNoHire
	}
}
