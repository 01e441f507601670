package api

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/policymitra/backend/internal/advisor"
	"github.com/policymitra/backend/internal/whatif"
)

// WhatIfRequest carries a free-text scenario question plus the profile the
// earlier recommendation was generated for.
type WhatIfRequest struct {
	Question string          `json:"question"`
	Profile  advisor.Profile `json:"profile"`
}

// WhatIfResponse is always a plain answer, even when the model is down.
type WhatIfResponse struct {
	Answer string `json:"answer"`
}

// WhatIfHandler serves scenario questions against the product fact base.
type WhatIfHandler struct {
	responder *whatif.Responder
	logger    *slog.Logger
}

// NewWhatIfHandler creates a new instance of the WhatIfHandler.
func NewWhatIfHandler(responder *whatif.Responder, logger *slog.Logger) *WhatIfHandler {
	return &WhatIfHandler{
		responder: responder,
		logger:    logger.With("component", "whatif_handler"),
	}
}

func (h *WhatIfHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/whatif", h.answerQuestion)
}

func (h *WhatIfHandler) answerQuestion(c echo.Context) error {
	ctx := c.Request().Context()

	var req WhatIfRequest
	if err := c.Bind(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to bind what-if request", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body").SetInternal(err)
	}

	answer := h.responder.Answer(ctx, req.Question, req.Profile.FlattenText())

	h.logger.InfoContext(ctx, "answered what-if question", "question_len", len(req.Question))
	return c.JSON(http.StatusOK, WhatIfResponse{Answer: answer})
}
