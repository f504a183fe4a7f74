package eligibility

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/unionhall/sirius-backend/internal/components"
	"github.com/unionhall/sirius-backend/internal/events"
	"github.com/unionhall/sirius-backend/internal/logger"
)

// Registry is the chokepoint between domain events and plugin recomputes.
// It guarantees that a disabled plugin never runs, that a malformed payload
// or a failing plugin is contained to that one plugin, and that recomputes
// for the same (plugin, worker) pair never interleave.
type Registry struct {
	mu      sync.RWMutex
	log     *logger.Logger
	bus     *events.Bus
	flags   *components.Cache
	plugins map[string]Plugin
	subs    map[string][]uuid.UUID
	locks   sync.Map // "pluginID|workerID" -> *sync.Mutex
}

func NewRegistry(bus *events.Bus, flags *components.Cache, log *logger.Logger) *Registry {
	return &Registry{
		log:     log.With("component", "EligibilityRegistry"),
		bus:     bus,
		flags:   flags,
		plugins: make(map[string]Plugin),
		subs:    make(map[string][]uuid.UUID),
	}
}

// Register stores the plugin and subscribes its declared event handlers.
// Re-registering an id unsubscribes the previous plugin's handlers first, so
// a hot swap never leaves orphaned subscriptions.
func (r *Registry) Register(p Plugin) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.plugins[p.ID()]; exists {
		r.unsubscribeLocked(p.ID())
	}

	r.plugins[p.ID()] = p
	for _, eh := range p.EventHandlers() {
		handlerID := r.bus.On(eh.Event, r.wrap(p, eh))
		r.subs[p.ID()] = append(r.subs[p.ID()], handlerID)
	}
	r.log.Info("Eligibility plugin registered", "plugin", p.ID(), "handlers", len(p.EventHandlers()))
}

func (r *Registry) Unregister(pluginID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.plugins[pluginID]; !exists {
		return
	}
	r.unsubscribeLocked(pluginID)
	delete(r.plugins, pluginID)
	r.log.Info("Eligibility plugin unregistered", "plugin", pluginID)
}

func (r *Registry) unsubscribeLocked(pluginID string) {
	for _, handlerID := range r.subs[pluginID] {
		r.bus.Off(handlerID)
	}
	delete(r.subs, pluginID)
}

func (r *Registry) Get(pluginID string) (Plugin, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.plugins[pluginID]
	return p, ok
}

// EnabledPlugins returns the registered plugins whose component flag is on,
// sorted by id for deterministic iteration.
func (r *Registry) EnabledPlugins() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Plugin, 0, len(r.plugins))
	for _, p := range r.plugins {
		if r.flags.Initialized() && r.flags.IsEnabled(p.ComponentID()) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// RecomputeWorker runs one plugin's recompute under the per-(plugin, worker)
// lock. Overlapping triggers for the same pair serialize here; since each
// recompute is a full rebuild from source of truth, last writer wins and is
// consistent.
func (r *Registry) RecomputeWorker(ctx context.Context, p Plugin, workerID uuid.UUID) error {
	key := p.ID() + "|" + workerID.String()
	muIface, _ := r.locks.LoadOrStore(key, &sync.Mutex{})
	mu := muIface.(*sync.Mutex)
	mu.Lock()
	defer mu.Unlock()
	return p.RecomputeWorker(ctx, workerID)
}

// RecomputeWorkerForAllPlugins rebuilds every registered plugin's facts for
// one worker. It deliberately includes plugins whose component is off: their
// recompute clears the category, which is what keeps a disabled rule from
// blocking on stale facts. Failures are logged per plugin and never stop the
// loop.
func (r *Registry) RecomputeWorkerForAllPlugins(ctx context.Context, workerID uuid.UUID) {
	if !r.flags.Initialized() {
		r.log.Warn("Skipping bulk recompute, component cache not loaded", "worker_id", workerID)
		return
	}

	r.mu.RLock()
	plugins := make([]Plugin, 0, len(r.plugins))
	for _, p := range r.plugins {
		plugins = append(plugins, p)
	}
	r.mu.RUnlock()
	sort.Slice(plugins, func(i, j int) bool { return plugins[i].ID() < plugins[j].ID() })

	for _, p := range plugins {
		if err := r.RecomputeWorker(ctx, p, workerID); err != nil {
			r.log.Error("Plugin recompute failed during bulk recompute", "plugin", p.ID(), "worker_id", workerID, "error", err)
		}
	}
}

// PluginsMetadata is the listing the job-type configuration UI builds its
// plugin picker from.
func (r *Registry) PluginsMetadata() []PluginMetadata {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]PluginMetadata, 0, len(r.plugins))
	for _, p := range r.plugins {
		meta := p.Metadata()
		out = append(out, PluginMetadata{
			ID:               p.ID(),
			Name:             meta.Name,
			Description:      meta.Description,
			ComponentID:      p.ComponentID(),
			ComponentEnabled: r.flags.Initialized() && r.flags.IsEnabled(p.ComponentID()),
			Hidden:           meta.Hidden,
			ConfigFields:     meta.ConfigFields,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// wrap builds the bus handler for one plugin event subscription. Every guard
// here exists to keep a single bad plugin or payload from touching anything
// else on the bus.
func (r *Registry) wrap(p Plugin, eh EventHandler) events.Handler {
	return func(ctx context.Context, payload any) error {
		if !r.flags.Initialized() {
			r.log.Warn("Skipping plugin event, component cache not loaded", "plugin", p.ID(), "event", eh.Event)
			return nil
		}
		if !r.flags.IsEnabled(p.ComponentID()) {
			return nil
		}
		if _, ok := payload.(events.WorkerPayload); !ok {
			r.log.Error("Event payload does not carry a worker id", "plugin", p.ID(), "event", eh.Event)
			return nil
		}
		workerID, ok := eh.WorkerID(payload)
		if !ok || workerID == uuid.Nil {
			r.log.Error("Could not extract worker id from event payload", "plugin", p.ID(), "event", eh.Event)
			return nil
		}
		if err := r.RecomputeWorker(ctx, p, workerID); err != nil {
			r.log.Error("Plugin recompute failed", "plugin", p.ID(), "event", eh.Event, "worker_id", workerID, "error", err)
		}
		return nil
	}
}
