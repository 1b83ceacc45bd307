package api

import (
	"net/http"
	"strings"

	"github.com/glossa-trainer/backend/internal/domain/quiz"
	"github.com/glossa-trainer/backend/internal/mastery"
	"github.com/glossa-trainer/backend/internal/wordpool"
)

type ConfigResponse struct {
	Directions   []DirectionOption `json:"directions"`
	Lessons      []string          `json:"lessons"`
	DefaultCount int               `json:"default_count"`
	MinCount     int               `json:"min_count"`
	MaxCount     int               `json:"max_count"`
	TotalWords   int               `json:"total_words"`
}

type DirectionOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type MasteryStatsResponse struct {
	Direction string                `json:"direction"`
	Lessons   []mastery.LessonStats `json:"lessons"`
}

type ResetMasteryRequest struct {
	Direction string   `json:"direction,omitempty"` // empty means all
	Lessons   []string `json:"lessons,omitempty"`   // empty means all
}

// GET /api/config
func (h *Handler) getConfig(w http.ResponseWriter, r *http.Request) {
	maxCount := wordpool.MaxQuizWords
	if total := h.pool.Total(); total < maxCount {
		maxCount = total
	}

	respondJSON(w, http.StatusOK, ConfigResponse{
		Directions: []DirectionOption{
			{Value: string(quiz.Forward), Label: h.sourceLanguage + " → " + h.targetLanguage},
			{Value: string(quiz.Reverse), Label: h.targetLanguage + " → " + h.sourceLanguage},
		},
		Lessons:      h.pool.Lessons(),
		DefaultCount: wordpool.DefaultQuizWords,
		MinCount:     1,
		MaxCount:     maxCount,
		TotalWords:   h.pool.Total(),
	})
}

// GET /api/mastery/stats?direction=forward&lessons=7,7.1
func (h *Handler) getMasteryStats(w http.ResponseWriter, r *http.Request) {
	direction, err := quiz.ParseDirection(r.URL.Query().Get("direction"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	lessons := h.pool.Lessons()
	if raw := r.URL.Query().Get("lessons"); raw != "" {
		lessons = strings.Split(raw, ",")
	}

	stats, err := h.ledger.Stats(r.Context(), direction, lessons, h.pool.TotalsPerLesson())
	if h.handleServiceError(w, err) {
		return
	}

	respondJSON(w, http.StatusOK, MasteryStatsResponse{
		Direction: string(direction),
		Lessons:   stats,
	})
}

// POST /api/mastery/reset
func (h *Handler) resetMastery(w http.ResponseWriter, r *http.Request) {
	var req ResetMasteryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	direction := quiz.Direction("")
	if req.Direction != "" {
		parsed, err := quiz.ParseDirection(req.Direction)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		direction = parsed
	}

	if h.handleServiceError(w, h.ledger.Reset(r.Context(), direction, req.Lessons)) {
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}
