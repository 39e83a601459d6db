package watchlist

import "sync"

// Registry maps feed transport ids to symbol names. Snapshot messages
// carry both and register the pair; trade messages carry only the id and
// resolve through here. Entries are never pruned: the map is small, ids
// are rarely reused within a session, and stale entries are harmless
// since lookups only ever go id to name.
type Registry struct {
	mu    sync.RWMutex
	names map[string]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		names: make(map[string]string),
	}
}

// Register inserts or overwrites the id to name mapping. Last writer wins.
func (r *Registry) Register(id, name string) {
	if id == "" || name == "" {
		return
	}

	r.mu.Lock()
	r.names[id] = name
	r.mu.Unlock()
}

// Resolve returns the registered name for id, or the id itself when
// unknown. The fallback keeps trade updates for unseen ids visible under
// their raw id until a snapshot supplies the real name.
func (r *Registry) Resolve(id string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if name, ok := r.names[id]; ok {
		return name
	}
	return id
}

// Len returns the number of registered ids.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.names)
}

// Clear drops all mappings.
func (r *Registry) Clear() {
	r.mu.Lock()
	r.names = make(map[string]string)
	r.mu.Unlock()
}
