package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/glossa-trainer/backend/internal/domain/quiz"
	"github.com/glossa-trainer/backend/internal/domain/word"
	"github.com/glossa-trainer/backend/internal/grader"
	"github.com/glossa-trainer/backend/internal/service"
)

// ── Request / Response types ────────────────────────────────────────────────

type StartQuizRequest struct {
	Mode               string      `json:"mode"` // "training" or "exam"
	Direction          string      `json:"direction"`
	Lessons            []string    `json:"lessons,omitempty"`
	Count              int         `json:"count,omitempty"`
	UseAllWords        bool        `json:"use_all_words,omitempty"`
	TimePerQuestionSec int         `json:"time_per_question_sec,omitempty"`
	ReuseWordPairs     []word.Pair `json:"reuse_word_pairs,omitempty"`
}

type QuizStateResponse struct {
	AttemptID        string      `json:"attempt_id"`
	SessionID        string      `json:"session_id"`
	Phase            string      `json:"phase"`
	Direction        string      `json:"direction"`
	QuestionIndex    int         `json:"question_index"`
	TotalQuestions   int         `json:"total_questions"`
	Prompt           string      `json:"prompt,omitempty"`
	PromptLabel      string      `json:"prompt_label,omitempty"`
	RemainingSeconds int         `json:"remaining_seconds"`
	TimePerQuestion  int         `json:"time_per_question_sec"`
	WordPairs        []word.Pair `json:"word_pairs,omitempty"`
}

type TrainingQuestionResponse struct {
	QuestionIndex int    `json:"question_index"`
	Prompt        string `json:"prompt"`
	PromptLabel   string `json:"prompt_label"`
	CorrectAnswer string `json:"correct_answer"`
}

type SubmitAnswerRequest struct {
	QuestionIndex int    `json:"question_index"`
	Answer        string `json:"answer"`
	TimedOut      bool   `json:"timed_out"`
}

type SubmitAnswerResponse struct {
	Verdict       string  `json:"verdict"` // "full", "partial", or "none"
	Correct       bool    `json:"correct"`
	PartialCredit bool    `json:"partial_credit"`
	TimedOut      bool    `json:"timed_out"`
	UserAnswer    string  `json:"user_answer"`
	CorrectAnswer string  `json:"correct_answer"`
	CurrentScore  float64 `json:"current_score"`
	TotalAnswered int     `json:"total_answered"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

func (h *Handler) stateResponse(v service.View, includePairs bool) QuizStateResponse {
	resp := QuizStateResponse{
		AttemptID:        v.AttemptID,
		SessionID:        v.SessionID,
		Phase:            string(v.Phase),
		Direction:        string(v.Direction),
		QuestionIndex:    v.Index,
		TotalQuestions:   v.Total,
		Prompt:           v.Prompt,
		RemainingSeconds: v.RemainingSeconds,
		TimePerQuestion:  v.TimePerQuestion,
	}
	if v.Prompt != "" {
		resp.PromptLabel = h.promptLabel(v.PromptSide)
	}
	if includePairs {
		resp.WordPairs = v.Pairs
	}
	return resp
}

// POST /api/quiz
func (h *Handler) startQuiz(w http.ResponseWriter, r *http.Request) {
	var req StartQuizRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	direction, err := quiz.ParseDirection(req.Direction)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	mode := service.ModeExam
	if req.Mode == string(service.ModeTraining) {
		mode = service.ModeTraining
	}

	view, err := h.driver.Start(r.Context(), service.StartOptions{
		Mode:            mode,
		Direction:       direction,
		Lessons:         req.Lessons,
		Count:           req.Count,
		UseAllWords:     req.UseAllWords,
		TimePerQuestion: time.Duration(req.TimePerQuestionSec) * time.Second,
		ReusePairs:      req.ReuseWordPairs,
	})
	if h.handleServiceError(w, err) {
		return
	}

	// Word pairs are returned so the caller can reuse them for a
	// follow-up exam over the same pool.
	respondJSON(w, http.StatusCreated, h.stateResponse(view, true))
}

// GET /api/quiz/{attemptID}
func (h *Handler) getQuizStatus(w http.ResponseWriter, r *http.Request) {
	view, err := h.driver.Status(r.PathValue("attemptID"))
	if h.handleServiceError(w, err) {
		return
	}
	respondJSON(w, http.StatusOK, h.stateResponse(view, false))
}

// GET /api/quiz/{attemptID}/question/{index}
//
// Training only: the response carries the literal correct answer, so the
// driver refuses it during the exam.
func (h *Handler) getTrainingQuestion(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		http.Error(w, "invalid question index", http.StatusBadRequest)
		return
	}

	card, err := h.driver.TrainingAnswer(r.PathValue("attemptID"), index)
	if h.handleServiceError(w, err) {
		return
	}

	respondJSON(w, http.StatusOK, TrainingQuestionResponse{
		QuestionIndex: card.Question.Index,
		Prompt:        card.Question.Prompt,
		PromptLabel:   h.promptLabel(card.Question.Side),
		CorrectAnswer: card.CorrectAnswer,
	})
}

// POST /api/quiz/{attemptID}/next
func (h *Handler) nextQuestion(w http.ResponseWriter, r *http.Request) {
	view, err := h.driver.Next(r.PathValue("attemptID"))
	if h.handleServiceError(w, err) {
		return
	}
	respondJSON(w, http.StatusOK, h.stateResponse(view, false))
}

// POST /api/quiz/{attemptID}/skip-training
func (h *Handler) skipTraining(w http.ResponseWriter, r *http.Request) {
	view, err := h.driver.BeginExam(r.PathValue("attemptID"))
	if h.handleServiceError(w, err) {
		return
	}
	respondJSON(w, http.StatusOK, h.stateResponse(view, false))
}

// POST /api/quiz/{attemptID}/answer
func (h *Handler) submitAnswer(w http.ResponseWriter, r *http.Request) {
	var req SubmitAnswerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.driver.Submit(r.PathValue("attemptID"), req.QuestionIndex, req.Answer, req.TimedOut)
	if h.handleServiceError(w, err) {
		return
	}

	respondJSON(w, http.StatusOK, SubmitAnswerResponse{
		Verdict:       res.Result.Verdict.String(),
		Correct:       res.Result.Verdict == grader.Full,
		PartialCredit: res.Result.Verdict == grader.Partial,
		TimedOut:      res.Result.TimedOut,
		UserAnswer:    res.Result.UserAnswer,
		CorrectAnswer: res.Result.CorrectAnswer,
		CurrentScore:  res.RunningScore,
		TotalAnswered: res.TotalAnswered,
	})
}

// GET /api/quiz/{attemptID}/summary
func (h *Handler) getSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := h.driver.Summary(r.Context(), r.PathValue("attemptID"))
	if h.handleServiceError(w, err) {
		return
	}
	respondJSON(w, http.StatusOK, sum)
}

// POST /api/quiz/{attemptID}/retake
func (h *Handler) retakeQuiz(w http.ResponseWriter, r *http.Request) {
	view, err := h.driver.Retake(r.PathValue("attemptID"))
	if h.handleServiceError(w, err) {
		return
	}
	respondJSON(w, http.StatusOK, h.stateResponse(view, false))
}

// POST /api/quiz/{attemptID}/restart
func (h *Handler) restartQuiz(w http.ResponseWriter, r *http.Request) {
	if h.handleServiceError(w, h.driver.Restart(r.PathValue("attemptID"))) {
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "restarted"})
}

// DELETE /api/quiz/{attemptID}
func (h *Handler) deleteQuiz(w http.ResponseWriter, r *http.Request) {
	if h.handleServiceError(w, h.driver.Delete(r.PathValue("attemptID"))) {
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "attempt deleted"})
}
