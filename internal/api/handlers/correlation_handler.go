package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/verdant/canopy/internal/analysis/correlation"
	"github.com/verdant/canopy/internal/api"
	"github.com/verdant/canopy/internal/logging"
)

// CorrelationRequest is the body of POST /v1/correlation. Histories map
// metric names to aligned sample series; samples may be bare numbers,
// {"value": n} objects, or garbage (skipped).
type CorrelationRequest struct {
	Histories map[string][]correlation.Reading `json:"histories"`
}

// CorrelationHandler handles /v1/correlation requests. The engine is only
// consulted for its relationship table; the matrix itself needs no engine,
// so the endpoint stays available before the first table load.
type CorrelationHandler struct {
	engines api.EngineSource
	logger  *logging.Logger
	tracer  trace.Tracer
}

// NewCorrelationHandler creates a new handler
func NewCorrelationHandler(engines api.EngineSource, logger *logging.Logger, tracer trace.Tracer) *CorrelationHandler {
	return &CorrelationHandler{
		engines: engines,
		logger:  logger,
		tracer:  tracer,
	}
}

// Handle processes correlation matrix requests
func (h *CorrelationHandler) Handle(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()

	var span trace.Span
	if h.tracer != nil {
		_, span = h.tracer.Start(r.Context(), "correlation.Handle")
		defer span.End()
	}

	input, apiErr := decodeCorrelationRequest(r)
	if apiErr != nil {
		if span != nil {
			span.RecordError(apiErr)
		}
		api.WriteAPIError(w, apiErr)
		return
	}

	if span != nil {
		span.SetAttributes(attribute.Int("metric_count", len(input.Histories)))
	}

	var rels correlation.Relationships
	if engine := h.engines.Engine(); engine != nil {
		rels = engine.Relationships()
	}
	result := correlation.Analyze(input.Histories, rels)

	h.logger.Debug("Correlation completed: %d metrics, %d insights in %dms",
		len(input.Histories), len(result.Insights), time.Since(startTime).Milliseconds())

	_ = api.WriteSuccess(w, result)
}

func decodeCorrelationRequest(r *http.Request) (CorrelationRequest, *api.APIError) {
	var input CorrelationRequest
	body := http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&input); err != nil {
		if err == io.EOF {
			return CorrelationRequest{}, api.NewInvalidRequestError("request body is required")
		}
		return CorrelationRequest{}, api.NewInvalidRequestError("invalid request body: %v", err)
	}
	return input, nil
}
