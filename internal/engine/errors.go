package engine

import "errors"

var (
	// ErrOutOfSequence means an operation addressed the wrong round for the
	// session's current state. Always rejected, never silently corrected.
	ErrOutOfSequence = errors.New("round out of sequence")

	// ErrOracleUnavailable wraps transport-level oracle failures.
	ErrOracleUnavailable = errors.New("grading oracle unavailable")

	// ErrOracleMalformed means the oracle answered but its output could not
	// be parsed as the expected JSON object.
	ErrOracleMalformed = errors.New("grading oracle returned malformed output")

	// ErrEmptyEvidence means there is no project/skill material for the
	// gatekeeper to judge. Hard fail of the gate, never fail-open.
	ErrEmptyEvidence = errors.New("no project evidence to audit")

	// ErrSessionTerminated means the session already reached a terminal state.
	ErrSessionTerminated = errors.New("session already terminated")
)
