package orchestrator

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-connectorform/pkg/metadata"
)

// FormatAdapter turns a raw document into connector metadata. schemaName
// selects a component when the format holds several.
type FormatAdapter interface {
	Name() string
	Detect(raw []byte) bool
	Metadata(ctx context.Context, raw []byte, schemaName string) (metadata.ComponentMetadata, error)
}

// AdapterRegistry stores format adapters by name.
type AdapterRegistry struct {
	mu       sync.RWMutex
	adapters map[string]FormatAdapter
}

// NewAdapterRegistry creates an empty adapter registry.
func NewAdapterRegistry() *AdapterRegistry {
	return &AdapterRegistry{
		adapters: make(map[string]FormatAdapter),
	}
}

// Register adds an adapter by its Name(). Duplicate names return an error.
func (r *AdapterRegistry) Register(adapter FormatAdapter) error {
	if adapter == nil {
		return fmt.Errorf("orchestrator: adapter is required")
	}
	name := normalizeAdapterName(adapter.Name())
	if name == "" {
		return fmt.Errorf("orchestrator: adapter name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.adapters[name]; exists {
		return fmt.Errorf("orchestrator: adapter %q already registered", name)
	}
	r.adapters[name] = adapter
	return nil
}

// MustRegister panics on registration failure.
func (r *AdapterRegistry) MustRegister(adapter FormatAdapter) {
	if err := r.Register(adapter); err != nil {
		panic(err)
	}
}

// Get retrieves an adapter by name.
func (r *AdapterRegistry) Get(name string) (FormatAdapter, error) {
	key := normalizeAdapterName(name)
	if key == "" {
		return nil, fmt.Errorf("orchestrator: adapter name is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	adapter, ok := r.adapters[key]
	if !ok {
		return nil, fmt.Errorf("orchestrator: adapter %q not found", key)
	}
	return adapter, nil
}

// List returns the adapter names in sorted order.
func (r *AdapterRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.namesLocked()
}

// Detect returns the adapters that claim raw, in name order.
func (r *AdapterRegistry) Detect(raw []byte) []FormatAdapter {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matches []FormatAdapter
	for _, name := range r.namesLocked() {
		if adapter := r.adapters[name]; adapter != nil && adapter.Detect(raw) {
			matches = append(matches, adapter)
		}
	}
	return matches
}

func (r *AdapterRegistry) namesLocked() []string {
	names := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func normalizeAdapterName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func adapterNames(adapters []FormatAdapter) string {
	names := make([]string, 0, len(adapters))
	for _, adapter := range adapters {
		names = append(names, adapter.Name())
	}
	return strings.Join(names, ", ")
}

// MetadataAdapterName names the adapter for native metadata documents.
const MetadataAdapterName = "metadata"

// metadataAdapter decodes native JSON or YAML metadata documents. It never
// claims a document during detection and serves as the default.
type metadataAdapter struct{}

func (metadataAdapter) Name() string { return MetadataAdapterName }

func (metadataAdapter) Detect([]byte) bool { return false }

func (metadataAdapter) Metadata(_ context.Context, raw []byte, _ string) (metadata.ComponentMetadata, error) {
	return metadata.DecodeMetadata(raw)
}
