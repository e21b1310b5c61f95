package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/adityadeoche/interview-iq-ai-sub001/internal/engine"
	"github.com/adityadeoche/interview-iq-ai-sub001/internal/model"
	"github.com/adityadeoche/interview-iq-ai-sub001/internal/repository"
	"github.com/pgvector/pgvector-go"
	"github.com/tidwall/gjson"
)

// Session status values surfaced to clients. State (the pipeline position)
// is tracked separately.
const (
	StatusPreparing   = "preparing"
	StatusInProgress  = "in_progress"
	StatusScreenedOut = "screened_out"
	StatusCompleted   = "completed"
	StatusFailed      = "failed"
)

// EmbedderInterface is the embedding capability used for role-profile
// retrieval. Optional; without it the gatekeeper runs without role context.
type EmbedderInterface interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// InterviewUsecase drives sessions through the five-round pipeline. It is
// the sole writer of session state; round counters are always derived from
// stored round results, never taken from the client.
type InterviewUsecase struct {
	sessionRepo *repository.SessionRepository
	roleRepo    *repository.RoleProfileRepository
	oracle      engine.Oracle
	embedder    EmbedderInterface

	gatekeeper engine.Gatekeeper
	controller engine.AdaptiveController
	composer   engine.ReportComposer
}

func NewInterviewUsecase(sessionRepo *repository.SessionRepository, roleRepo *repository.RoleProfileRepository, oracle engine.Oracle, embedder EmbedderInterface) *InterviewUsecase {
	return &InterviewUsecase{
		sessionRepo: sessionRepo,
		roleRepo:    roleRepo,
		oracle:      oracle,
		embedder:    embedder,
		gatekeeper:  engine.Gatekeeper{Oracle: oracle},
		composer:    engine.ReportComposer{Oracle: oracle},
	}
}

// StartSession creates a session at round 1 and generates the first question
// set in the background, so the caller can poll status like any long-running
// task.
func (uc *InterviewUsecase) StartSession(candidateName, targetRole string, evidence []string) (*model.InterviewSession, error) {
	evidenceJSON, err := json.Marshal(evidence)
	if err != nil {
		return nil, err
	}

	session := &model.InterviewSession{
		CandidateName: candidateName,
		TargetRole:    targetRole,
		Evidence:      string(evidenceJSON),
		Status:        StatusPreparing,
		State:         string(engine.StateRound1Active),
		CurrentRound:  1,
		QuestionSets:  "{}",
		ChatTurns:     "[]",
	}
	if err := uc.sessionRepo.CreateSession(session); err != nil {
		return nil, err
	}

	go uc.prepareRound(session.ID.String(), 1)

	return session, nil
}

// GetSession returns the stored session with its round results.
func (uc *InterviewUsecase) GetSession(id string) (*model.InterviewSession, error) {
	return uc.sessionRepo.FindSessionByID(id)
}

// ActiveQuestionSet returns the question set for the session's current round.
func (uc *InterviewUsecase) ActiveQuestionSet(session *model.InterviewSession) ([]engine.QuestionItem, error) {
	if engine.SessionState(session.State).Terminal() {
		return nil, engine.ErrSessionTerminated
	}
	return uc.questionSet(session, session.CurrentRound)
}

// SubmitRoundAnswers evaluates one round, records its immutable result, and
// advances the pipeline. At the round-2 boundary the gatekeeper runs exactly
// once before round 3 can begin. Evaluator failures propagate without
// mutating the current round.
func (uc *InterviewUsecase) SubmitRoundAnswers(ctx context.Context, id string, round int, answers []engine.Answer) (*engine.RoundOutcome, error) {
	session, err := uc.sessionRepo.FindSessionByID(id)
	if err != nil {
		return nil, err
	}

	if err := acceptsCandidateInput(session); err != nil {
		return nil, err
	}

	pipeline, err := pipelineFromModel(session)
	if err != nil {
		return nil, err
	}
	if err := pipeline.CanSubmit(round); err != nil {
		return nil, err
	}

	roundType, ok := engine.RoundTypeFor(round)
	if !ok {
		return nil, fmt.Errorf("%w: invalid round number %d", engine.ErrOutOfSequence, round)
	}

	items, err := uc.questionSet(session, round)
	if err != nil {
		return nil, err
	}

	evaluator, err := engine.EvaluatorFor(roundType, uc.oracle)
	if err != nil {
		return nil, err
	}
	outcome, err := evaluator.Evaluate(ctx, engine.EvalContext{Round: round, TargetRole: session.TargetRole}, items, answers)
	if err != nil {
		// No state was mutated; the caller may retry the same round.
		return nil, err
	}

	if err := pipeline.RecordOutcome(outcome); err != nil {
		return nil, err
	}

	if pipeline.State == engine.StateGateCheck {
		verdict := uc.runGate(ctx, session)
		if err := pipeline.ResolveGate(verdict); err != nil {
			return nil, err
		}
		session.GateChecked = true
		session.GateVerified = verdict.Verified
		session.GateScore = verdict.MatchScore
		session.GateReason = verdict.Reason
	}

	if err := uc.persistOutcome(session, outcome); err != nil {
		return nil, err
	}

	session.State = string(pipeline.State)
	session.CurrentRound = pipeline.CurrentRound

	switch pipeline.State {
	case engine.StateScreenedOut:
		session.Status = StatusScreenedOut
		session.HeadlineScore = 0
		session.Verdict = string(engine.VerdictNoHire)
		uc.storeReport(ctx, session, pipeline)
	case engine.StateCompleted:
		session.Status = StatusCompleted
		session.HeadlineScore = pipeline.Aggregate.HeadlineScore
		session.Verdict = string(pipeline.Aggregate.Verdict)
		uc.storeReport(ctx, session, pipeline)
	default:
		session.Status = StatusPreparing
		defer uc.prepareRoundAsync(session.ID.String(), pipeline.CurrentRound)
	}

	if err := uc.sessionRepo.UpdateSession(session); err != nil {
		return nil, err
	}
	return outcome, nil
}

// ChatTurn handles one exchange of the conversational round-2 flow: grades
// the answer to the pending question, consults the adaptive difficulty
// controller, and generates the next question. Valid only while round 2 is
// active.
func (uc *InterviewUsecase) ChatTurn(ctx context.Context, id string, answer string) (*engine.NextDirective, string, error) {
	session, err := uc.sessionRepo.FindSessionByID(id)
	if err != nil {
		return nil, "", err
	}
	if err := acceptsCandidateInput(session); err != nil {
		return nil, "", err
	}
	if session.State != string(engine.StateRound2Active) {
		return nil, "", fmt.Errorf("%w: conversational turns are only valid during round 2", engine.ErrOutOfSequence)
	}

	var turns []engine.ChatTurn
	if err := json.Unmarshal([]byte(session.ChatTurns), &turns); err != nil {
		return nil, "", err
	}

	coverageAdequate := false
	if n := len(turns); n > 0 && turns[n-1].Answer == "" {
		grade, coverage, topic := uc.gradeChatAnswer(ctx, session.TargetRole, turns[n-1].Question, answer, turns)
		turns[n-1].Answer = answer
		turns[n-1].WordCount = engine.WordCount(answer)
		turns[n-1].Grade = grade
		if topic != "" {
			turns[n-1].Topic = topic
		}
		coverageAdequate = coverage
	}

	directive := uc.controller.Next(answeredTurns(turns), coverageAdequate)

	nextQuestion := ""
	if !directive.IsFinished {
		nextQuestion = uc.nextChatQuestion(ctx, session, turns, directive)
		turns = append(turns, engine.ChatTurn{Question: nextQuestion})
	}

	turnsJSON, err := json.Marshal(turns)
	if err != nil {
		return nil, "", err
	}
	session.ChatTurns = string(turnsJSON)
	if err := uc.sessionRepo.UpdateSession(session); err != nil {
		return nil, "", err
	}

	return &directive, nextQuestion, nil
}

// GetReport returns the composed report for a terminal session.
func (uc *InterviewUsecase) GetReport(ctx context.Context, id string) (*engine.Report, error) {
	session, err := uc.sessionRepo.FindSessionByID(id)
	if err != nil {
		return nil, err
	}
	if session.Status != StatusCompleted && session.Status != StatusScreenedOut {
		return nil, fmt.Errorf("session %s is not finished (status %s)", id, session.Status)
	}

	if session.Report != "" && session.Report != "{}" {
		var report engine.Report
		if err := json.Unmarshal([]byte(session.Report), &report); err == nil {
			return &report, nil
		}
	}

	pipeline, err := pipelineFromModel(session)
	if err != nil {
		return nil, err
	}
	return uc.composer.Compose(ctx, pipeline, session.TargetRole), nil
}

// SeedRoleProfiles embeds the built-in role profiles so the gatekeeper can
// retrieve role skill context by vector similarity.
func (uc *InterviewUsecase) SeedRoleProfiles(ctx context.Context) error {
	if uc.embedder == nil {
		return errors.New("no embedding service configured")
	}

	roles := []model.RoleProfile{
		{
			Title:  "Backend Engineer",
			Skills: "Server-side languages (Go, Java, Python, Node.js), relational and document databases, RESTful API design, caching, message queues, cloud deployment, automated testing, observability.",
		},
		{
			Title:  "Frontend Engineer",
			Skills: "JavaScript/TypeScript, React or comparable frameworks, state management, CSS, accessibility, bundlers, component testing, performance profiling.",
		},
		{
			Title:  "Data Engineer",
			Skills: "SQL and warehouse modeling, batch and streaming pipelines, Python, Spark or comparable engines, orchestration tools, data quality checks.",
		},
	}
	for i := range roles {
		result, err := uc.embedder.GenerateEmbedding(ctx, roles[i].Skills)
		if err != nil {
			return err
		}
		roles[i].Embedding = pgvector.NewVector(result)
		roles[i].CreatedAt = time.Now()
		roles[i].UpdatedAt = time.Now()
		if err := uc.roleRepo.CreateRole(&roles[i]); err != nil {
			return err
		}
	}
	return nil
}

// runGate performs the one-time authenticity audit, enriching the prompt
// with the nearest role profile when embeddings are available. Retrieval
// failures only drop the context, never the audit.
func (uc *InterviewUsecase) runGate(ctx context.Context, session *model.InterviewSession) engine.GateVerdict {
	var evidence []string
	if err := json.Unmarshal([]byte(session.Evidence), &evidence); err != nil {
		log.Printf("gate: could not decode evidence for session %s: %v", session.ID, err)
	}

	roleContext := ""
	if uc.embedder != nil && len(evidence) > 0 {
		joined := ""
		for _, e := range evidence {
			joined += e + "\n"
		}
		if emb, err := uc.embedder.GenerateEmbedding(ctx, joined); err == nil {
			if roles, err := uc.roleRepo.SearchRoles(pgvector.NewVector(emb), 1); err == nil && len(roles) > 0 {
				roleContext = roles[0].Skills
			}
		} else {
			log.Printf("gate: role retrieval skipped: %v", err)
		}
	}

	return uc.gatekeeper.Audit(ctx, evidence, session.TargetRole, roleContext)
}

func (uc *InterviewUsecase) persistOutcome(session *model.InterviewSession, outcome *engine.RoundOutcome) error {
	detailsJSON, err := json.Marshal(outcome.Details)
	if err != nil {
		return err
	}
	feedbackJSON, err := json.Marshal(outcome.Feedback)
	if err != nil {
		return err
	}
	return uc.sessionRepo.CreateRoundResult(&model.RoundResult{
		SessionID:   session.ID,
		RoundNumber: outcome.Round,
		RoundType:   string(outcome.Type),
		Score:       outcome.Score,
		Passed:      outcome.Passed,
		Threshold:   outcome.Threshold,
		Details:     string(detailsJSON),
		Feedback:    string(feedbackJSON),
		Complexity:  outcome.Complexity,
		CreatedAt:   time.Now(),
	})
}

func (uc *InterviewUsecase) storeReport(ctx context.Context, session *model.InterviewSession, pipeline *engine.Pipeline) {
	report := uc.composer.Compose(ctx, pipeline, session.TargetRole)
	if reportJSON, err := json.Marshal(report); err == nil {
		session.Report = string(reportJSON)
	}
}

func (uc *InterviewUsecase) questionSet(session *model.InterviewSession, round int) ([]engine.QuestionItem, error) {
	sets := map[string][]engine.QuestionItem{}
	if err := json.Unmarshal([]byte(session.QuestionSets), &sets); err != nil {
		return nil, err
	}
	items, ok := sets[strconv.Itoa(round)]
	if !ok || len(items) == 0 {
		return nil, fmt.Errorf("question set for round %d is not ready", round)
	}
	return items, nil
}

func (uc *InterviewUsecase) prepareRoundAsync(id string, round int) {
	go uc.prepareRound(id, round)
}

// prepareRound generates and stores the question set for a round, then marks
// the session in progress. Runs in the background; failures mark the session
// failed so clients polling status see it instead of waiting forever. Only
// the question_sets and status columns are written, so the slow oracle call
// can never clobber fields updated by request handlers in the meantime.
func (uc *InterviewUsecase) prepareRound(id string, round int) {
	ctx := context.Background()

	session, err := uc.sessionRepo.FindSessionByID(id)
	if err != nil {
		log.Printf("prepare round %d: session %s not found: %v", round, id, err)
		return
	}

	items, err := uc.generateQuestionSet(ctx, session, round)
	if err != nil {
		log.Printf("prepare round %d: generation failed for session %s: %v", round, id, err)
		_ = uc.sessionRepo.UpdateSessionColumns(id, map[string]interface{}{"status": StatusFailed})
		return
	}

	sets := map[string][]engine.QuestionItem{}
	if err := json.Unmarshal([]byte(session.QuestionSets), &sets); err != nil {
		sets = map[string][]engine.QuestionItem{}
	}
	sets[strconv.Itoa(round)] = items
	setsJSON, err := json.Marshal(sets)
	if err != nil {
		log.Printf("prepare round %d: %v", round, err)
		return
	}
	err = uc.sessionRepo.UpdateSessionColumns(id, map[string]interface{}{
		"question_sets": string(setsJSON),
		"status":        StatusInProgress,
	})
	if err != nil {
		log.Printf("prepare round %d: save failed for session %s: %v", round, id, err)
	}
}

// acceptsCandidateInput rejects submissions and chat turns while the next
// round's question set is still being generated. The preparing window is the
// only time a background goroutine writes the session, so holding client
// writes out of it keeps the orchestrator the sole writer.
func acceptsCandidateInput(session *model.InterviewSession) error {
	if session.Status == StatusPreparing {
		return fmt.Errorf("%w: the current round is still being prepared", engine.ErrOutOfSequence)
	}
	return nil
}

func answeredTurns(turns []engine.ChatTurn) []engine.ChatTurn {
	var answered []engine.ChatTurn
	for _, t := range turns {
		if t.Answer != "" {
			answered = append(answered, t)
		}
	}
	return answered
}

// pipelineFromModel rebuilds the pure state machine from durable state.
// Counters come from stored round results, not from anything client-sent.
func pipelineFromModel(session *model.InterviewSession) (*engine.Pipeline, error) {
	p := engine.NewPipeline()
	for _, r := range session.Rounds {
		outcome := &engine.RoundOutcome{
			Round:      r.RoundNumber,
			Type:       engine.RoundType(r.RoundType),
			Score:      r.Score,
			Passed:     r.Passed,
			Threshold:  r.Threshold,
			Complexity: r.Complexity,
		}
		if r.Details != "" {
			if err := json.Unmarshal([]byte(r.Details), &outcome.Details); err != nil {
				return nil, fmt.Errorf("round %d details corrupt: %w", r.RoundNumber, err)
			}
		}
		if r.Feedback != "" {
			_ = json.Unmarshal([]byte(r.Feedback), &outcome.Feedback)
		}
		if err := p.RecordOutcome(outcome); err != nil {
			return nil, fmt.Errorf("stored rounds inconsistent: %w", err)
		}
		if p.State == engine.StateGateCheck && session.GateChecked {
			if err := p.ResolveGate(engine.GateVerdict{
				Verified:   session.GateVerified,
				MatchScore: session.GateScore,
				Reason:     session.GateReason,
			}); err != nil {
				return nil, err
			}
		}
	}
	return p, nil
}

// gradeChatAnswer asks the oracle for a 0-10 grade plus a topical-coverage
// judgment. Oracle failure yields a neutral grade so the conversation can
// continue.
func (uc *InterviewUsecase) gradeChatAnswer(ctx context.Context, targetRole, question, answer string, turns []engine.ChatTurn) (float64, bool, string) {
	prompt := fmt.Sprintf(`You are conducting a technical interview for a %s role. Grade the candidate's latest answer.

Question: %s
Answer: %s

So far %d questions have been asked. Judge whether topical coverage of the role's core skills is adequate to end the conversation.
Return your answer STRICTLY in JSON format with this schema:
{
  "grade": <number 0-10>,
  "topic": "<short topic label for this exchange>",
  "coverage_adequate": <true or false>
}`, targetRole, question, answer, len(turns))

	raw, err := uc.oracle.Complete(ctx, prompt)
	if err != nil {
		log.Printf("chat grading failed, applying neutral grade: %v", err)
		return 5, false, ""
	}
	text := engine.StripCodeFences(raw)
	if !gjson.Valid(text) {
		log.Printf("chat grading returned malformed output, applying neutral grade")
		return 5, false, ""
	}
	grade := gjson.Get(text, "grade").Float()
	if grade < 0 {
		grade = 0
	}
	if grade > 10 {
		grade = 10
	}
	return grade, gjson.Get(text, "coverage_adequate").Bool(), gjson.Get(text, "topic").String()
}

// nextChatQuestion generates the next conversational question following the
// controller's directive. Generation failure falls back to a canned probe so
// the candidate is never stuck.
func (uc *InterviewUsecase) nextChatQuestion(ctx context.Context, session *model.InterviewSession, turns []engine.ChatTurn, d engine.NextDirective) string {
	lastTopic := ""
	if n := len(turns); n > 0 {
		lastTopic = turns[n-1].Topic
	}

	instruction := fmt.Sprintf("Ask one %s-level technical question.", d.Tier)
	if d.IsProbe {
		instruction = fmt.Sprintf("The last answer was weak. Probe the SAME topic (%s) again with a follow-up question; do not switch topics.", lastTopic)
	}

	var history string
	for _, t := range turns {
		if t.Answer == "" {
			continue
		}
		history += fmt.Sprintf("Q: %s\nA: %s\n", t.Question, t.Answer)
	}

	prompt := fmt.Sprintf(`You are interviewing a candidate for a %s role.

Conversation so far:
%s
%s
Return your answer STRICTLY in JSON format with this schema:
{"question": "<the next question>"}`, session.TargetRole, history, instruction)

	raw, err := uc.oracle.Complete(ctx, prompt)
	if err != nil {
		log.Printf("chat question generation failed, using fallback: %v", err)
	} else {
		text := engine.StripCodeFences(raw)
		if q := gjson.Get(text, "question").String(); q != "" {
			return q
		}
		log.Printf("chat question generation returned no question, using fallback")
	}
	if lastTopic != "" {
		return fmt.Sprintf("Could you go deeper on %s and walk me through a concrete example from your own work?", lastTopic)
	}
	return fmt.Sprintf("Walk me through a technical problem you solved recently that is relevant to a %s role.", session.TargetRole)
}
