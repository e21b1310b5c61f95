package handler

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adityadeoche/interview-iq-ai-sub001/internal/dto"
	"github.com/adityadeoche/interview-iq-ai-sub001/internal/engine"
	"github.com/adityadeoche/interview-iq-ai-sub001/internal/middleware"
	"github.com/adityadeoche/interview-iq-ai-sub001/internal/usecase"
	"github.com/adityadeoche/interview-iq-ai-sub001/internal/util"
	"github.com/gofiber/fiber/v2"
)

type InterviewHandler struct {
	uc *usecase.InterviewUsecase
}

func NewInterviewHandler(uc *usecase.InterviewUsecase) *InterviewHandler {
	return &InterviewHandler{uc: uc}
}

func (h *InterviewHandler) RegisterRoutes(app *fiber.App) {
	app.Post("/sessions", middleware.RateLimiter(1, 4*time.Second), h.StartSession)
	app.Get("/sessions/:id", h.GetSession)
	app.Get("/sessions/:id/questions", h.GetQuestions)
	app.Post("/sessions/:id/rounds/:round/answers", h.SubmitAnswers)
	app.Post("/sessions/:id/chat", h.ChatTurn)
	app.Get("/sessions/:id/report", h.GetReport)
	app.Post("/roles/embed", h.SeedRoleProfiles)
}

func (h *InterviewHandler) StartSession(c *fiber.Ctx) error {
	candidateName := c.FormValue("candidate_name")
	targetRole := c.FormValue("target_role")
	if targetRole == "" {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "target_role is required",
		})
	}

	var evidence []string
	if text := c.FormValue("evidence"); text != "" {
		for _, line := range strings.Split(text, "\n") {
			if strings.TrimSpace(line) != "" {
				evidence = append(evidence, strings.TrimSpace(line))
			}
		}
	}

	// Optional resume PDF; its text is folded into the evidence snapshot.
	if file, err := c.FormFile("resume"); err == nil {
		if file.Size > 5*1024*1024 {
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code:    fiber.StatusBadRequest,
				Message: "resume file size is too large (max 5MB)",
			})
		}
		if strings.ToLower(filepath.Ext(file.Filename)) != ".pdf" {
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code:    fiber.StatusBadRequest,
				Message: "unsupported resume file type",
			})
		}
		savePath := filepath.Join("./uploads/resume/", file.Filename)
		if err := c.SaveFile(file, savePath); err != nil {
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Message: "cannot save resume file",
			}, err)
		}
		content, err := util.ExtractPDFText(savePath)
		if err != nil {
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Message: "failed to extract resume text",
			}, err)
		}
		evidence = append(evidence, content)
	}

	session, err := h.uc.StartSession(candidateName, targetRole, evidence)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to start session",
		}, err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusCreated,
		Message: "Interview session started",
		Data:    fiber.Map{"id": session.ID, "status": session.Status},
	})
}

func (h *InterviewHandler) GetSession(c *fiber.Ctx) error {
	session, err := h.uc.GetSession(c.Params("id"))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusNotFound,
			Message: "session not found",
		})
	}

	data := dto.InterviewSessionDTO{
		ID:            session.ID,
		CandidateName: session.CandidateName,
		TargetRole:    session.TargetRole,
		Status:        session.Status,
		State:         session.State,
		CurrentRound:  session.CurrentRound,
		GateChecked:   session.GateChecked,
		GateVerified:  session.GateVerified,
		GateReason:    session.GateReason,
		HeadlineScore: session.HeadlineScore,
		Verdict:       session.Verdict,
		CreatedAt:     session.CreatedAt,
		UpdatedAt:     session.UpdatedAt,
	}
	for _, r := range session.Rounds {
		data.Rounds = append(data.Rounds, dto.RoundResultDTO{
			RoundNumber: r.RoundNumber,
			RoundType:   r.RoundType,
			Score:       r.Score,
			Passed:      r.Passed,
			Threshold:   r.Threshold,
			Details:     r.Details,
			Feedback:    r.Feedback,
			Complexity:  r.Complexity,
		})
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get session",
		Data:    data,
	})
}

// GetQuestions returns the active round's question set with answer keys and
// rubrics stripped.
func (h *InterviewHandler) GetQuestions(c *fiber.Ctx) error {
	session, err := h.uc.GetSession(c.Params("id"))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusNotFound,
			Message: "session not found",
		})
	}

	items, err := h.uc.ActiveQuestionSet(session)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusConflict,
			Message: err.Error(),
		})
	}

	type questionDTO struct {
		ID      string   `json:"id"`
		Type    string   `json:"type"`
		Prompt  string   `json:"prompt"`
		Options []string `json:"options,omitempty"`
	}
	questions := make([]questionDTO, 0, len(items))
	for _, item := range items {
		questions = append(questions, questionDTO{
			ID:      item.ID,
			Type:    string(item.Type),
			Prompt:  item.Prompt,
			Options: item.Options,
		})
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get questions",
		Data:    fiber.Map{"round": session.CurrentRound, "questions": questions},
	})
}

func (h *InterviewHandler) SubmitAnswers(c *fiber.Ctx) error {
	round, err := strconv.Atoi(c.Params("round"))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid round number",
		})
	}

	var body struct {
		Answers []engine.Answer `json:"answers"`
	}
	if err := c.BodyParser(&body); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid answer payload",
		}, err)
	}

	outcome, err := h.uc.SubmitRoundAnswers(c.UserContext(), c.Params("id"), round, body.Answers)
	if err != nil {
		return util.ErrorResponse(c, errorFormatFor(err), err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: fmt.Sprintf("Round %d evaluated", round),
		Data:    outcome,
	})
}

func (h *InterviewHandler) ChatTurn(c *fiber.Ctx) error {
	var body struct {
		Answer string `json:"answer"`
	}
	if err := c.BodyParser(&body); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid chat payload",
		}, err)
	}

	directive, question, err := h.uc.ChatTurn(c.UserContext(), c.Params("id"), body.Answer)
	if err != nil {
		return util.ErrorResponse(c, errorFormatFor(err), err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Chat turn recorded",
		Data:    fiber.Map{"directive": directive, "question": question},
	})
}

func (h *InterviewHandler) GetReport(c *fiber.Ctx) error {
	report, err := h.uc.GetReport(c.UserContext(), c.Params("id"))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusConflict,
			Message: "report not available",
		}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get report",
		Data:    report,
	})
}

func (h *InterviewHandler) SeedRoleProfiles(c *fiber.Ctx) error {
	if err := h.uc.SeedRoleProfiles(c.UserContext()); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to seed role profiles",
		}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success seed role profiles",
	})
}

func errorFormatFor(err error) util.ErrorResponseFormat {
	switch {
	case errors.Is(err, engine.ErrOutOfSequence):
		return util.ErrorResponseFormat{Code: fiber.StatusConflict, Message: err.Error()}
	case errors.Is(err, engine.ErrSessionTerminated):
		return util.ErrorResponseFormat{Code: fiber.StatusConflict, Message: err.Error()}
	case errors.Is(err, engine.ErrOracleUnavailable), errors.Is(err, engine.ErrOracleMalformed):
		return util.ErrorResponseFormat{Code: fiber.StatusBadGateway, Message: "grading service unavailable, please retry"}
	default:
		return util.ErrorResponseFormat{Message: "evaluation failed"}
	}
}
