package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/primind-crowd-signage/internal/domain"
	"github.com/KasumiMercury/primind-crowd-signage/internal/service/pipeline"
)

type SignageHandler struct {
	pipeline *pipeline.Service
}

func NewSignageHandler(pipelineService *pipeline.Service) *SignageHandler {
	return &SignageHandler{
		pipeline: pipelineService,
	}
}

// HandleObservations runs one tick with the posted batch. An empty body or
// an empty tag list is a valid tick with no observations.
func (h *SignageHandler) HandleObservations(c *gin.Context) {
	ctx := c.Request.Context()

	var req ObservationRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		slog.WarnContext(ctx, "request unmarshal failed",
			slog.String("error", err.Error()),
			slog.String("path", c.Request.URL.Path),
		)
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	result, err := h.pipeline.Tick(ctx, domain.NewObservationBatch(req.Tags))
	if err != nil {
		slog.ErrorContext(ctx, "tick failed",
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusServiceUnavailable, "tick_error", err.Error())
		return
	}

	c.JSON(http.StatusOK, toDecisionResponse(result))
}

func (h *SignageHandler) HandleStats(c *gin.Context) {
	c.JSON(http.StatusOK, toStatsResponse(h.pipeline.Stats()))
}

func (h *SignageHandler) HandleReset(c *gin.Context) {
	h.pipeline.Reset(c.Request.Context())
	c.JSON(http.StatusOK, toStatsResponse(h.pipeline.Stats()))
}

// HandleSelect runs a selection for caller-supplied inputs without touching
// the window. Omitted context tags mean no context.
func (h *SignageHandler) HandleSelect(c *gin.Context) {
	ctx := c.Request.Context()

	var req SelectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "request unmarshal failed",
			slog.String("error", err.Error()),
			slog.String("path", c.Request.URL.Path),
		)
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	dominant := domain.Observation(req.DominantGroup)
	if !dominant.Valid() {
		dominant = domain.NoObservation
	}

	sel := h.pipeline.Select(ctx, dominant, domain.ContextTagsFromStrings(req.ContextTags))

	c.JSON(http.StatusOK, toSelectionResponse(sel))
}

func (h *SignageHandler) HandleContext(c *gin.Context) {
	tags := h.pipeline.ContextTags(c.Request.Context())
	c.JSON(http.StatusOK, ContextResponse{ContextTags: contextStrings(tags)})
}

// HandleRefreshContext discards cached context such as the weather lookup
// and returns the freshly resolved tags.
func (h *SignageHandler) HandleRefreshContext(c *gin.Context) {
	tags := h.pipeline.RefreshContext(c.Request.Context())
	c.JSON(http.StatusOK, ContextResponse{ContextTags: contextStrings(tags)})
}
