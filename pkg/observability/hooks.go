// Package observability carries events out of graphcanvas libraries.
//
// Packages report through the accessors [Pipeline], [Cache], [Store],
// [HTTP] and [Topology]. Nothing is recorded until a command installs an
// implementation, usually [LogHooks]:
//
//	observability.NewLogHooks(logger).Register()
//	defer observability.Reset()
//
// Canvases opt in with [CanvasObserver], which turns joins and separations
// into topology events tagged with the document they belong to.
package observability

import (
	"context"
	"sync"
	"time"

	"github.com/matzehuels/graphcanvas/pkg/canvas"
)

// PipelineHooks hears about renders, once per document and once per format.
type PipelineHooks interface {
	OnRenderStart(ctx context.Context, docID string, formats []string)
	OnRenderComplete(ctx context.Context, docID, format string, size int, duration time.Duration, err error)
}

// CacheHooks hears about artifact cache lookups. keyType names the kind of
// entry, currently always "artifact".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// StoreHooks hears about document store calls, e.g. op "get" on backend
// "redis".
type StoreHooks interface {
	OnStoreOp(ctx context.Context, backend, op string, duration time.Duration, err error)
}

// HTTPHooks hears about API requests. route is the chi pattern, not the
// raw path.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, route string)
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

// TopologyHooks hears about graphs merging and splitting on a canvas.
type TopologyHooks interface {
	// OnJoin reports the graph that survived a join.
	OnJoin(ctx context.Context, docID string, graph uint64)

	// OnSeparate reports a graph that lost parts to new root graphs.
	OnSeparate(ctx context.Context, docID string, graph uint64, spawned int)
}

type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnRenderStart(context.Context, string, []string) {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, string, string, int, time.Duration, error) {
}

type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

type NoopStoreHooks struct{}

func (NoopStoreHooks) OnStoreOp(context.Context, string, string, time.Duration, error) {}

type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

type NoopTopologyHooks struct{}

func (NoopTopologyHooks) OnJoin(context.Context, string, uint64)          {}
func (NoopTopologyHooks) OnSeparate(context.Context, string, uint64, int) {}

// registry holds the installed hooks. The zero value is not usable; see
// defaults.
type registry struct {
	pipeline PipelineHooks
	cache    CacheHooks
	store    StoreHooks
	http     HTTPHooks
	topology TopologyHooks
}

func defaults() registry {
	return registry{
		pipeline: NoopPipelineHooks{},
		cache:    NoopCacheHooks{},
		store:    NoopStoreHooks{},
		http:     NoopHTTPHooks{},
		topology: NoopTopologyHooks{},
	}
}

var (
	mu      sync.RWMutex
	current = defaults()
)

// install runs set under the write lock.
func install(set func(*registry)) {
	mu.Lock()
	set(&current)
	mu.Unlock()
}

func snapshot() registry {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// SetPipelineHooks installs h. Nil is ignored, as in every setter.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		install(func(r *registry) { r.pipeline = h })
	}
}

func SetCacheHooks(h CacheHooks) {
	if h != nil {
		install(func(r *registry) { r.cache = h })
	}
}

func SetStoreHooks(h StoreHooks) {
	if h != nil {
		install(func(r *registry) { r.store = h })
	}
}

func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		install(func(r *registry) { r.http = h })
	}
}

func SetTopologyHooks(h TopologyHooks) {
	if h != nil {
		install(func(r *registry) { r.topology = h })
	}
}

func Pipeline() PipelineHooks { return snapshot().pipeline }
func Cache() CacheHooks       { return snapshot().cache }
func Store() StoreHooks       { return snapshot().store }
func HTTP() HTTPHooks         { return snapshot().http }
func Topology() TopologyHooks { return snapshot().topology }

// Reset puts the no-op hooks back.
func Reset() {
	install(func(r *registry) { *r = defaults() })
}

// CanvasObserver forwards the joins and separations of docID's canvas to
// the topology hooks installed at the time of each event.
func CanvasObserver(ctx context.Context, docID string) canvas.Observer {
	return canvas.ObserverFuncs{
		GraphJoined: func(g canvas.ID) {
			Topology().OnJoin(ctx, docID, uint64(g))
		},
		GraphSeparated: func(from canvas.ID, spawned []canvas.ID) {
			Topology().OnSeparate(ctx, docID, uint64(from), len(spawned))
		},
	}
}
