package logger

import "sync"

// Component loggers are derived from the global logger on first use and
// cached. Init and SetGlobalLogger drop the cache so later lookups follow
// the new configuration.
var registry = &componentRegistry{loggers: make(map[string]*Logger)}

type componentRegistry struct {
	mu      sync.RWMutex
	loggers map[string]*Logger
}

// Get returns the global logger tagged with the component name.
func Get(name string) *Logger {
	registry.mu.RLock()
	l, ok := registry.loggers[name]
	registry.mu.RUnlock()
	if ok {
		return l
	}

	l = GetGlobalLogger().WithComponent(name)
	registry.mu.Lock()
	defer registry.mu.Unlock()
	if existing, ok := registry.loggers[name]; ok {
		return existing
	}
	registry.loggers[name] = l
	return l
}

func resetDerived() {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.loggers = make(map[string]*Logger)
}
