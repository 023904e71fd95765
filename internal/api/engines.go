package api

import (
	"sync/atomic"

	"github.com/verdant/canopy/internal/analysis"
)

// EngineSource yields the engine handlers should use for a request. The
// source may swap engines between requests when tables are hot-reloaded;
// a handler must grab the engine once and use it for the whole request.
type EngineSource interface {
	Engine() *analysis.Engine
}

// EngineHolder is an EngineSource that supports atomic replacement. The
// tables watcher swaps in a fresh engine whenever the tables file changes.
type EngineHolder struct {
	current atomic.Pointer[analysis.Engine]
}

// NewEngineHolder creates a holder, optionally seeded with an engine.
func NewEngineHolder(engine *analysis.Engine) *EngineHolder {
	h := &EngineHolder{}
	if engine != nil {
		h.current.Store(engine)
	}
	return h
}

// Engine returns the current engine, or nil before the first Swap.
func (h *EngineHolder) Engine() *analysis.Engine {
	return h.current.Load()
}

// Swap replaces the current engine. In-flight requests keep the engine
// they already grabbed.
func (h *EngineHolder) Swap(engine *analysis.Engine) {
	h.current.Store(engine)
}

// IsReady reports whether an engine has been installed. Used by the
// readiness endpoint.
func (h *EngineHolder) IsReady() bool {
	return h.Engine() != nil
}
