package handlers

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/verdant/canopy/internal/analysis"
	"github.com/verdant/canopy/internal/analysis/correlation"
	"github.com/verdant/canopy/internal/api"
	"github.com/verdant/canopy/internal/logging"
)

// ReportRequest is the body of POST /v1/report: one call producing both
// the incident report and the correlation analysis.
type ReportRequest struct {
	Anomalies []analysis.AnomalyRecord         `json:"anomalies"`
	Histories map[string][]correlation.Reading `json:"histories"`
}

// ReportResponse combines both analysis passes.
type ReportResponse struct {
	Incidents   analysis.Report    `json:"incidents"`
	Correlation correlation.Result `json:"correlation"`
}

// ReportHandler handles /v1/report requests. Responses are cached by body
// digest so dashboards polling with identical payloads do not recompute.
// The cache is dropped wholesale when the engine is swapped.
type ReportHandler struct {
	engines api.EngineSource
	logger  *logging.Logger
	tracer  trace.Tracer

	cache       *lru.Cache[string, ReportResponse]
	cacheEngine atomic.Pointer[analysis.Engine]
}

// NewReportHandler creates a new handler with a response cache of the
// given size.
func NewReportHandler(engines api.EngineSource, cacheSize int, logger *logging.Logger, tracer trace.Tracer) (*ReportHandler, error) {
	cache, err := lru.New[string, ReportResponse](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create report cache: %w", err)
	}
	return &ReportHandler{
		engines: engines,
		logger:  logger,
		tracer:  tracer,
		cache:   cache,
	}, nil
}

// Handle processes combined report requests
func (h *ReportHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()

	var span trace.Span
	if h.tracer != nil {
		ctx, span = h.tracer.Start(ctx, "report.Handle")
		defer span.End()
	}

	body, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err != nil {
		api.WriteAPIError(w, api.NewInvalidRequestError("failed to read request body"))
		return
	}
	if len(body) == 0 {
		api.WriteAPIError(w, api.NewInvalidRequestError("request body is required"))
		return
	}

	var input ReportRequest
	if err := json.Unmarshal(body, &input); err != nil {
		if span != nil {
			span.RecordError(err)
		}
		api.WriteAPIError(w, api.NewInvalidRequestError("invalid request body: %v", err))
		return
	}

	engine := h.engines.Engine()
	if engine == nil {
		api.WriteAPIError(w, api.NewServiceUnavailableError("analysis engine not ready"))
		return
	}

	// Reports computed against a previous engine must not be served after
	// a tables reload.
	if old := h.cacheEngine.Swap(engine); old != engine {
		h.cache.Purge()
	}

	digest := sha256.Sum256(body)
	key := hex.EncodeToString(digest[:])

	if cached, ok := h.cache.Get(key); ok {
		if span != nil {
			span.SetAttributes(attribute.Bool("cache_hit", true))
		}
		h.logger.Debug("Report served from cache in %dms", time.Since(startTime).Milliseconds())
		w.Header().Set("X-Cache", "HIT")
		_ = api.WriteSuccess(w, cached)
		return
	}

	if span != nil {
		span.SetAttributes(
			attribute.Bool("cache_hit", false),
			attribute.Int("anomaly_count", len(input.Anomalies)),
			attribute.Int("metric_count", len(input.Histories)),
		)
	}

	var response ReportResponse
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		response.Incidents = engine.Analyze(gctx, input.Anomalies)
		return nil
	})
	g.Go(func() error {
		response.Correlation = correlation.Analyze(input.Histories, engine.Relationships())
		return nil
	})
	if err := g.Wait(); err != nil {
		if span != nil {
			span.RecordError(err)
		}
		api.WriteAPIError(w, api.NewInternalServerError("%s", err))
		return
	}

	h.cache.Add(key, response)

	h.logger.Debug("Report completed: %d anomalies, %d metrics in %dms",
		len(input.Anomalies), len(input.Histories), time.Since(startTime).Milliseconds())

	w.Header().Set("X-Cache", "MISS")
	_ = api.WriteSuccess(w, response)
}
