package registry

import (
	"sort"
	"sync"

	"github.com/tracewire/svcgraph/internal/types"
)

// MemoryRegistry is an in-process Registry — the default for tests and for
// a single pipeline run that never needs the registry to outlive the
// process.
type MemoryRegistry struct {
	mu        sync.RWMutex
	byService map[string][]types.RouteDefinition
}

// NewMemoryRegistry constructs an empty MemoryRegistry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{byService: make(map[string][]types.RouteDefinition)}
}

func (m *MemoryRegistry) AddRoutes(service string, routes []types.RouteDefinition) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(routes) == 0 {
		delete(m.byService, service)
		return nil
	}
	cp := make([]types.RouteDefinition, len(routes))
	copy(cp, routes)
	m.byService[service] = cp
	return nil
}

func (m *MemoryRegistry) GetRoutes(service string) ([]types.RouteDefinition, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	routes := m.byService[service]
	cp := make([]types.RouteDefinition, len(routes))
	copy(cp, routes)
	return cp, nil
}

func (m *MemoryRegistry) FindRouteByRequest(service, method, requestPath string) (types.RouteDefinition, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	route, ok := bestMatch(m.byService[service], method, requestPath)
	return route, ok, nil
}

func (m *MemoryRegistry) AllServices() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	services := make([]string, 0, len(m.byService))
	for s := range m.byService {
		services = append(services, s)
	}
	sort.Strings(services)
	return services, nil
}

func (m *MemoryRegistry) Clear(service string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if service == "" {
		m.byService = make(map[string][]types.RouteDefinition)
		return nil
	}
	delete(m.byService, service)
	return nil
}
