package engine

import (
	"fmt"
	"math"
)

// SessionState is the pipeline position of an interview session.
type SessionState string

const (
	StateRound1Active SessionState = "round_1_active"
	StateRound2Active SessionState = "round_2_active"
	StateGateCheck    SessionState = "gate_check"
	StateRound3Active SessionState = "round_3_active"
	StateRound4Active SessionState = "round_4_active"
	StateRound5Active SessionState = "round_5_active"
	StateCompleted    SessionState = "completed"
	StateScreenedOut  SessionState = "screened_out"
)

// Terminal reports whether no further transitions are possible.
func (s SessionState) Terminal() bool {
	return s == StateCompleted || s == StateScreenedOut
}

func stateForRound(round int) SessionState {
	switch round {
	case 1:
		return StateRound1Active
	case 2:
		return StateRound2Active
	case 3:
		return StateRound3Active
	case 4:
		return StateRound4Active
	case 5:
		return StateRound5Active
	}
	return StateCompleted
}

// Pipeline is the pure state machine driving a session through rounds 1-5.
// The round index is monotonically non-decreasing, each round is resulted at
// most once, and SCREENED_OUT freezes all later rounds as unreached. The
// orchestrator is its sole writer.
type Pipeline struct {
	State        SessionState
	CurrentRound int
	Outcomes     [TotalRounds]*RoundOutcome
	Gate         *GateVerdict
	Aggregate    *FinalAggregate
}

// NewPipeline starts a session at round 1.
func NewPipeline() *Pipeline {
	return &Pipeline{State: StateRound1Active, CurrentRound: 1}
}

// CanSubmit validates that answers for the given round are acceptable now.
func (p *Pipeline) CanSubmit(round int) error {
	if p.State.Terminal() {
		return ErrSessionTerminated
	}
	if p.State == StateGateCheck {
		return fmt.Errorf("%w: gate check pending", ErrOutOfSequence)
	}
	if round != p.CurrentRound {
		return fmt.Errorf("%w: session is at round %d, got round %d", ErrOutOfSequence, p.CurrentRound, round)
	}
	if p.Outcomes[round-1] != nil {
		return fmt.Errorf("%w: round %d already resulted", ErrOutOfSequence, round)
	}
	return nil
}

// RecordOutcome stores a round result and advances the pipeline. After round
// 2 the pipeline holds at GATE_CHECK until ResolveGate; after round 5 the
// final aggregate is computed and the session completes.
func (p *Pipeline) RecordOutcome(outcome *RoundOutcome) error {
	if err := p.CanSubmit(outcome.Round); err != nil {
		return err
	}
	p.Outcomes[outcome.Round-1] = outcome

	switch outcome.Round {
	case 2:
		p.State = StateGateCheck
	case TotalRounds:
		p.Aggregate = p.computeAggregate()
		p.State = StateCompleted
	default:
		p.CurrentRound = outcome.Round + 1
		p.State = stateForRound(p.CurrentRound)
	}
	return nil
}

// ResolveGate records the one-time gatekeeper verdict. A failed audit
// terminates the pipeline; rounds 3-5 are never generated or scored.
func (p *Pipeline) ResolveGate(v GateVerdict) error {
	if p.State != StateGateCheck {
		return fmt.Errorf("%w: gate check not pending", ErrOutOfSequence)
	}
	if p.Gate != nil {
		return fmt.Errorf("%w: gate already resolved", ErrOutOfSequence)
	}
	p.Gate = &v

	if !v.Verified {
		p.State = StateScreenedOut
		return nil
	}
	p.CurrentRound = 3
	p.State = StateRound3Active
	return nil
}

// Headline is the session's headline score: the rounded unweighted mean for
// completed sessions, forced to 0 for screened-out ones.
func (p *Pipeline) Headline() int {
	if p.State == StateScreenedOut {
		return 0
	}
	if p.Aggregate == nil {
		return 0
	}
	return p.Aggregate.HeadlineScore
}

func (p *Pipeline) computeAggregate() *FinalAggregate {
	agg := &FinalAggregate{}
	sum := 0.0
	for i, o := range p.Outcomes {
		if o == nil {
			continue
		}
		agg.RoundScores[i] = o.Score
		sum += o.Score
	}
	agg.HeadlineScore = int(math.Round(sum / TotalRounds))
	agg.Verdict = VerdictFor(agg.HeadlineScore)
	return agg
}
