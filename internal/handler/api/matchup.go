package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"BaseballMVP/internal/domain/models"
	svcmetrics "BaseballMVP/internal/service/metrics"
	"BaseballMVP/internal/service/ratelimit"
	"BaseballMVP/internal/services/validation"
	"BaseballMVP/internal/usecase"
	xhttp "BaseballMVP/pkg/http"
	xlogger "BaseballMVP/pkg/logger"

	"github.com/labstack/echo/v4"
)

const serviceName = "baseball_mvp"

const maxBodyBytes = 64 << 10

// MatchupHandler serves the prediction API and the bundled UI.
type MatchupHandler struct {
	logger   *xlogger.Logger
	pipeline *usecase.MatchupPipeline
	limiter  *ratelimit.Limiter
}

func NewMatchupHandler(logger *xlogger.Logger, pipeline *usecase.MatchupPipeline, limiter *ratelimit.Limiter) *MatchupHandler {
	if logger == nil {
		logger = xlogger.Nop()
	}
	svcmetrics.Register()
	return &MatchupHandler{logger: logger, pipeline: pipeline, limiter: limiter}
}

func (h *MatchupHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.Health)

	predict := []echo.MiddlewareFunc{}
	if h.limiter != nil {
		predict = append(predict, RateLimit(h.limiter, "predict_matchup"))
	}
	e.POST("/predict/matchup", h.PredictMatchup, predict...)

	g := e.Group("/api")
	g.GET("/players/:id", h.Player)

	registerUI(e)
}

func (h *MatchupHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, models.HealthResponse{
		Status:  "ok",
		Service: serviceName,
		Variant: string(h.pipeline.Variant()),
	})
}

// PredictMatchup answers with the bare prediction body on success and the
// standard error envelope otherwise.
func (h *MatchupHandler) PredictMatchup(c echo.Context) error {
	start := time.Now()
	defer func() {
		svcmetrics.EndpointLatency.WithLabelValues("predict_matchup").Observe(time.Since(start).Seconds())
	}()

	var payload models.MatchupPayload
	dec := json.NewDecoder(io.LimitReader(c.Request().Body, maxBodyBytes))
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil {
		svcmetrics.EndpointErrors.WithLabelValues("predict_matchup", "decode").Inc()
		return xhttp.BadRequestResponse(c, []xhttp.ValidationError{{
			Code:    "ERR_INVALID_JSON",
			Message: "request body must be a JSON object",
		}})
	}

	resp, err := h.pipeline.Predict(c.Request().Context(), payload)
	if err != nil {
		if ve, ok := validation.AsError(err); ok {
			svcmetrics.EndpointErrors.WithLabelValues("predict_matchup", "validation").Inc()
			return xhttp.BadRequestResponse(c, ve.Violations)
		}
		if errors.Is(err, models.ErrDataUnavailable) {
			svcmetrics.EndpointErrors.WithLabelValues("predict_matchup", "data_unavailable").Inc()
			return xhttp.AppErrorResponse(c, xhttp.ServiceUnavailableError("reference data unavailable").WithError(err))
		}
		svcmetrics.EndpointErrors.WithLabelValues("predict_matchup", "internal").Inc()
		h.logger.Error("predict matchup failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *MatchupHandler) Player(c echo.Context) error {
	req := &models.PlayerRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.pipeline.Player(c.Request().Context(), req.ID, models.Role(req.Role))
	if err != nil {
		if errors.Is(err, usecase.ErrPlayerNotFound) {
			return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("no %s data for player %s", req.Role, req.ID))
		}
		h.logger.Error("player usecase error", xlogger.Error(err))
		svcmetrics.EndpointErrors.WithLabelValues("player", "internal").Inc()
		return xhttp.AppErrorResponse(c, err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=60")
	return xhttp.SuccessResponse(c, res)
}

var _ xhttp.Handler = (*MatchupHandler)(nil)
