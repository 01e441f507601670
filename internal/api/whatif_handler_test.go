package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/policymitra/backend/internal/catalog"
	"github.com/policymitra/backend/internal/llm"
	"github.com/policymitra/backend/internal/whatif"
)

func newTestResponder(t *testing.T) *whatif.Responder {
	t.Helper()
	logger := testLogger()
	cat, err := catalog.Load("", logger)
	require.NoError(t, err)
	client := llm.NewClient("", "", "gpt-4o", "", logger)
	return whatif.NewResponder(client, cat, logger)
}

func TestAnswerQuestionAlwaysReturnsAnswer(t *testing.T) {
	handler := NewWhatIfHandler(newTestResponder(t), testLogger())

	e := echo.New()
	body := `{"question": "What if my income doubles?", "profile": {"age": 30, "monthly_income": 50000}}`
	req := httptest.NewRequest(http.MethodPost, "/api/whatif", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, handler.answerQuestion(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp WhatIfResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Sorry, the AI model is not available. Please try again later.", resp.Answer)
}

func TestAnswerQuestionEmpty(t *testing.T) {
	handler := NewWhatIfHandler(newTestResponder(t), testLogger())

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/whatif", strings.NewReader(`{"question": ""}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, handler.answerQuestion(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp WhatIfResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Please enter a question.", resp.Answer)
}

func TestRateLimitMiddleware(t *testing.T) {
	e := echo.New()
	e.Use(RateLimitMiddleware(1, 2))
	e.GET("/ping", func(c echo.Context) error { return c.String(http.StatusOK, "pong") })

	statuses := make([]int, 0, 4)
	for i := 0; i < 4; i++ {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		statuses = append(statuses, rec.Code)
	}

	assert.Equal(t, http.StatusOK, statuses[0])
	assert.Equal(t, http.StatusOK, statuses[1])
	assert.Contains(t, statuses[2:], http.StatusTooManyRequests)

	// A different client gets a fresh bucket.
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
