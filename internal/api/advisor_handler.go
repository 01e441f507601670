package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/policymitra/backend/internal/advisor"
)

// AdvisorHandler serves personalized insurance recommendations.
type AdvisorHandler struct {
	service  *advisor.Service
	validate *validator.Validate
	logger   *slog.Logger
}

// NewAdvisorHandler creates a new instance of the AdvisorHandler.
func NewAdvisorHandler(service *advisor.Service, logger *slog.Logger) *AdvisorHandler {
	return &AdvisorHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger.With("component", "advisor_handler"),
	}
}

func (h *AdvisorHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/recommendations", h.createRecommendation)
}

func (h *AdvisorHandler) createRecommendation(c echo.Context) error {
	ctx := c.Request().Context()

	var profile advisor.Profile
	if err := c.Bind(&profile); err != nil {
		h.logger.WarnContext(ctx, "failed to bind recommendation request", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body").SetInternal(err)
	}

	if err := h.validate.Struct(profile); err != nil {
		h.logger.WarnContext(ctx, "recommendation request failed validation", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, validationMessage(err))
	}

	result, err := h.service.Advise(ctx, profile.FlattenText())
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate recommendation", "error", err)
		sentry.CaptureException(err)

		var parseErr *advisor.ParseError
		if errors.As(err, &parseErr) {
			return c.JSON(http.StatusBadGateway, map[string]string{"error": "The model returned an unreadable recommendation. Please try again."})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to generate recommendation"})
	}

	h.logger.InfoContext(ctx, "successfully generated recommendation", "products", len(result.Products))
	return c.JSON(http.StatusOK, result)
}

// validationMessage flattens validator errors into one readable line.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid request body"
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return "missing required field: " + fe.Field()
	case "gte", "lte":
		return "field out of range: " + fe.Field()
	case "oneof":
		return "unsupported value for field: " + fe.Field()
	default:
		return "invalid value for field: " + fe.Field()
	}
}
