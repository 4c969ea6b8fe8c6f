package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a logger at debug level. Failures are
// logged as warnings.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log through logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	if logger == nil {
		logger = log.Default()
	}
	return &LogHooks{logger: logger}
}

// Register installs h for every hook category.
func (h *LogHooks) Register() {
	SetPipelineHooks(h)
	SetCacheHooks(h)
	SetStoreHooks(h)
	SetHTTPHooks(h)
	SetTopologyHooks(h)
}

func (h *LogHooks) OnRenderStart(_ context.Context, docID string, formats []string) {
	h.logger.Debug("render start", "doc", docID, "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, docID, format string, size int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("render failed", "doc", docID, "format", format, "err", err)
		return
	}
	h.logger.Debug("rendered", "doc", docID, "format", format, "bytes", size, "duration", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnStoreOp(_ context.Context, backend, op string, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("store op failed", "backend", backend, "op", op, "err", err)
		return
	}
	h.logger.Debug("store op", "backend", backend, "op", op, "duration", d)
}

func (h *LogHooks) OnRequest(_ context.Context, method, route string) {
	h.logger.Debug("request", "method", method, "route", route)
}

func (h *LogHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.logger.Info("response", "method", method, "route", route, "status", status, "duration", d)
}

func (h *LogHooks) OnJoin(_ context.Context, docID string, graph uint64) {
	h.logger.Debug("graphs joined", "doc", docID, "graph", graph)
}

func (h *LogHooks) OnSeparate(_ context.Context, docID string, graph uint64, spawned int) {
	h.logger.Debug("graph separated", "doc", docID, "graph", graph, "spawned", spawned)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ StoreHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
	_ TopologyHooks = (*LogHooks)(nil)
)
