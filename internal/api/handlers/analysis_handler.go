package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/verdant/canopy/internal/analysis"
	"github.com/verdant/canopy/internal/api"
	"github.com/verdant/canopy/internal/logging"
)

// maxBodyBytes caps request bodies. Anomaly batches and sensor histories
// from a single deployment stay far below this.
const maxBodyBytes = 10 << 20

// AnalysisRequest is the body of POST /v1/analysis.
type AnalysisRequest struct {
	Anomalies []analysis.AnomalyRecord `json:"anomalies"`
}

// AnalysisHandler handles /v1/analysis requests
type AnalysisHandler struct {
	engines api.EngineSource
	logger  *logging.Logger
	tracer  trace.Tracer
}

// NewAnalysisHandler creates a new handler
func NewAnalysisHandler(engines api.EngineSource, logger *logging.Logger, tracer trace.Tracer) *AnalysisHandler {
	return &AnalysisHandler{
		engines: engines,
		logger:  logger,
		tracer:  tracer,
	}
}

// Handle processes incident analysis requests
func (h *AnalysisHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()

	var span trace.Span
	if h.tracer != nil {
		ctx, span = h.tracer.Start(ctx, "analysis.Handle")
		defer span.End()
	}

	input, apiErr := decodeAnalysisRequest(r)
	if apiErr != nil {
		if span != nil {
			span.RecordError(apiErr)
		}
		api.WriteAPIError(w, apiErr)
		return
	}

	if span != nil {
		span.SetAttributes(attribute.Int("anomaly_count", len(input.Anomalies)))
	}

	engine := h.engines.Engine()
	if engine == nil {
		api.WriteAPIError(w, api.NewServiceUnavailableError("analysis engine not ready"))
		return
	}

	report := engine.Analyze(ctx, input.Anomalies)

	h.logger.Debug("Analysis completed: %d anomalies, %d clusters in %dms",
		len(input.Anomalies), len(report.Clusters), time.Since(startTime).Milliseconds())

	_ = api.WriteSuccess(w, report)
}

func decodeAnalysisRequest(r *http.Request) (AnalysisRequest, *api.APIError) {
	var input AnalysisRequest
	body := http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&input); err != nil {
		if err == io.EOF {
			return AnalysisRequest{}, api.NewInvalidRequestError("request body is required")
		}
		return AnalysisRequest{}, api.NewInvalidRequestError("invalid request body: %v", err)
	}
	return input, nil
}
