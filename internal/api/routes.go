package api

import "net/http"

// RegisterRoutes attaches every API endpoint to the mux.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	// Configuration
	mux.HandleFunc("GET /api/config", h.getConfig)

	// Quiz attempts
	mux.HandleFunc("POST /api/quiz", h.startQuiz)
	mux.HandleFunc("GET /api/quiz/{attemptID}", h.getQuizStatus)
	mux.HandleFunc("GET /api/quiz/{attemptID}/question/{index}", h.getTrainingQuestion)
	mux.HandleFunc("POST /api/quiz/{attemptID}/next", h.nextQuestion)
	mux.HandleFunc("POST /api/quiz/{attemptID}/skip-training", h.skipTraining)
	mux.HandleFunc("POST /api/quiz/{attemptID}/answer", h.submitAnswer)
	mux.HandleFunc("GET /api/quiz/{attemptID}/summary", h.getSummary)
	mux.HandleFunc("POST /api/quiz/{attemptID}/retake", h.retakeQuiz)
	mux.HandleFunc("POST /api/quiz/{attemptID}/restart", h.restartQuiz)
	mux.HandleFunc("DELETE /api/quiz/{attemptID}", h.deleteQuiz)

	// Mastery
	mux.HandleFunc("GET /api/mastery/stats", h.getMasteryStats)
	mux.HandleFunc("POST /api/mastery/reset", h.resetMastery)
}
