package handlers

import (
	"net/http"

	"go.opentelemetry.io/otel/trace"

	"github.com/verdant/canopy/internal/api"
	"github.com/verdant/canopy/internal/logging"
)

// RegisterHandlers registers all HTTP handlers on the given router
func RegisterHandlers(
	router *http.ServeMux,
	engines api.EngineSource,
	reportCacheSize int,
	logger *logging.Logger,
	tracer trace.Tracer,
	withMethod func(string, http.HandlerFunc) http.HandlerFunc,
) error {
	analysisHandler := NewAnalysisHandler(engines, logger, tracer)
	correlationHandler := NewCorrelationHandler(engines, logger, tracer)
	reportHandler, err := NewReportHandler(engines, reportCacheSize, logger, tracer)
	if err != nil {
		return err
	}

	router.HandleFunc("/v1/analysis", withMethod(http.MethodPost, analysisHandler.Handle))
	router.HandleFunc("/v1/correlation", withMethod(http.MethodPost, correlationHandler.Handle))
	router.HandleFunc("/v1/report", withMethod(http.MethodPost, reportHandler.Handle))

	return nil
}
