package api_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glossa-trainer/backend/internal/api"
	"github.com/glossa-trainer/backend/internal/grader"
	"github.com/glossa-trainer/backend/internal/mastery"
	"github.com/glossa-trainer/backend/internal/service"
	"github.com/glossa-trainer/backend/internal/store"
	"github.com/glossa-trainer/backend/internal/wordpool"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	dir := t.TempDir()
	words := `[
		{"source": "ἄνθρωπος", "target": "човек", "lesson": "1"},
		{"source": "θεός", "target": "бог", "lesson": "1"},
		{"source": "λέγω", "target": "казвам", "lesson": "2"}
	]`
	wordsPath := filepath.Join(dir, "words.json")
	require.NoError(t, os.WriteFile(wordsPath, []byte(words), 0o644))

	pool, err := wordpool.Load(wordsPath)
	require.NoError(t, err)

	ledger, err := mastery.Open(filepath.Join(dir, "mastery.db"))
	require.NoError(t, err)
	t.Cleanup(func() { ledger.Close() })

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	sessions := store.NewSessionStore(grader.NewMatcher())
	driver := service.NewDriver(sessions, ledger, pool, logger, 30*time.Second)
	handler := api.NewHandler(driver, ledger, pool, logger, "Ancient Greek", "Bulgarian")

	mux := http.NewServeMux()
	api.RegisterRoutes(mux, handler)

	srv := httptest.NewServer(api.Logging(logger)(api.CORS(mux)))
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestGetConfig(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/config")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	cfg := decode[api.ConfigResponse](t, resp)
	assert.Equal(t, 3, cfg.TotalWords)
	assert.Equal(t, []string{"1", "2"}, cfg.Lessons)
	assert.Equal(t, 3, cfg.MaxCount)
	require.Len(t, cfg.Directions, 2)
	assert.Equal(t, "Ancient Greek → Bulgarian", cfg.Directions[0].Label)
}

func TestQuizFlow_TrainingThenExam(t *testing.T) {
	srv := newTestServer(t)

	// Start a training attempt over lesson 1.
	resp := postJSON(t, srv.URL+"/api/quiz", api.StartQuizRequest{
		Mode:        "training",
		Direction:   "forward",
		Lessons:     []string{"1"},
		UseAllWords: true,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	state := decode[api.QuizStateResponse](t, resp)
	assert.Equal(t, "training", state.Phase)
	assert.Equal(t, 2, state.TotalQuestions)
	assert.NotEmpty(t, state.WordPairs)

	base := srv.URL + "/api/quiz/" + state.AttemptID

	// Training shows the literal answer.
	resp, err := http.Get(base + "/question/0")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	card := decode[api.TrainingQuestionResponse](t, resp)
	assert.NotEmpty(t, card.CorrectAnswer)
	assert.Equal(t, "Ancient Greek", card.PromptLabel)

	// Walk training to completion; the exam phase begins with a fresh
	// session over the same pool.
	for i := 0; i < state.TotalQuestions; i++ {
		resp = postJSON(t, base+"/next", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		state = decode[api.QuizStateResponse](t, resp)
	}
	assert.Equal(t, "exam", state.Phase)
	assert.Equal(t, 0, state.QuestionIndex)

	// The literal-answer endpoint is now rejected.
	resp, err = http.Get(base + "/question/0")
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// Answer both questions: one correct, one wrong.
	answers := map[string]string{"ἄνθρωπος": "човек", "θεός": "погрешно"}
	var last api.SubmitAnswerResponse
	for i := 0; i < state.TotalQuestions; i++ {
		status, err := http.Get(base)
		require.NoError(t, err)
		state = decode[api.QuizStateResponse](t, status)

		resp = postJSON(t, base+"/answer", api.SubmitAnswerRequest{
			QuestionIndex: i,
			Answer:        answers[state.Prompt],
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		last = decode[api.SubmitAnswerResponse](t, resp)
	}
	assert.Equal(t, 2, last.TotalAnswered)
	assert.Equal(t, 1.0, last.CurrentScore)

	// Summary: one of two correct.
	resp, err = http.Get(base + "/summary")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var sum struct {
		ScorePercentage int `json:"score_percentage"`
		CorrectCount    int `json:"correct_count"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&sum))
	resp.Body.Close()
	assert.Equal(t, 50, sum.ScorePercentage)
	assert.Equal(t, 1, sum.CorrectCount)

	// Mastery stats reflect the full-credit word.
	resp, err = http.Get(srv.URL + "/api/mastery/stats?direction=forward")
	require.NoError(t, err)
	stats := decode[api.MasteryStatsResponse](t, resp)
	require.Len(t, stats.Lessons, 2)
	assert.Equal(t, 1, stats.Lessons[0].Mastered)

	// The retake is allowed: training happened and the score is below 100.
	resp = postJSON(t, base+"/retake", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	state = decode[api.QuizStateResponse](t, resp)
	assert.Equal(t, "exam", state.Phase)
}

func TestQuizFlow_Errors(t *testing.T) {
	srv := newTestServer(t)

	// Unknown direction.
	resp := postJSON(t, srv.URL+"/api/quiz", api.StartQuizRequest{
		Mode:      "exam",
		Direction: "sideways",
		Lessons:   []string{"1"},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Empty selection is rejected before a session exists.
	resp = postJSON(t, srv.URL+"/api/quiz", api.StartQuizRequest{
		Mode:      "exam",
		Direction: "forward",
		Lessons:   []string{"42"},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Unknown attempt.
	resp, err := http.Get(srv.URL + "/api/quiz/missing")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// Out-of-sequence submission.
	resp = postJSON(t, srv.URL+"/api/quiz", api.StartQuizRequest{
		Mode:        "exam",
		Direction:   "forward",
		Lessons:     []string{"1"},
		UseAllWords: true,
	})
	state := decode[api.QuizStateResponse](t, resp)

	resp = postJSON(t, srv.URL+"/api/quiz/"+state.AttemptID+"/answer", api.SubmitAnswerRequest{
		QuestionIndex: 1,
		Answer:        "човек",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// Summary before completion.
	resp, err = http.Get(srv.URL + "/api/quiz/" + state.AttemptID + "/summary")
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()
}

func TestMasteryReset(t *testing.T) {
	srv := newTestServer(t)

	// Master lesson 2's only word.
	resp := postJSON(t, srv.URL+"/api/quiz", api.StartQuizRequest{
		Mode:        "exam",
		Direction:   "forward",
		Lessons:     []string{"2"},
		UseAllWords: true,
	})
	state := decode[api.QuizStateResponse](t, resp)
	base := srv.URL + "/api/quiz/" + state.AttemptID

	resp = postJSON(t, base+"/answer", api.SubmitAnswerRequest{QuestionIndex: 0, Answer: "казвам"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	resp, err := http.Get(base + "/summary")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// A fresh pool for lesson 2 is now empty.
	resp = postJSON(t, srv.URL+"/api/quiz", api.StartQuizRequest{
		Mode:        "exam",
		Direction:   "forward",
		Lessons:     []string{"2"},
		UseAllWords: true,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Reset restores it.
	resp = postJSON(t, srv.URL+"/api/mastery/reset", api.ResetMasteryRequest{Direction: "forward", Lessons: []string{"2"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, srv.URL+"/api/quiz", api.StartQuizRequest{
		Mode:        "exam",
		Direction:   "forward",
		Lessons:     []string{"2"},
		UseAllWords: true,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
}
