package logger

import (
	"sync"
)

// registry is the global named-logger registry.
var registry = &loggerRegistry{
	loggers: make(map[string]*Logger),
}

type loggerRegistry struct {
	mu      sync.RWMutex
	loggers map[string]*Logger
}

// Register stores a named logger in the registry.
func Register(name string, l *Logger) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.loggers[name] = l
}

// Get retrieves a named logger. If the name is not registered it returns the
// global logger tagged with the requested component name.
func Get(name string) *Logger {
	registry.mu.RLock()
	l, ok := registry.loggers[name]
	registry.mu.RUnlock()
	if ok {
		return l
	}
	return GetGlobalLogger().WithComponent(name)
}

// RegisterComponents registers a component-tagged child of base for each
// name, or for DefaultComponents when none are given, so Get hands the
// pipeline packages loggers that share base's level and output.
func RegisterComponents(base *Logger, names ...string) {
	if len(names) == 0 {
		names = DefaultComponents
	}
	for _, name := range names {
		Register(name, base.WithComponent(name))
	}
}

// DefaultComponents are the component names used across the pipeline packages.
var DefaultComponents = []string{"stream", "transcode", "bytestream", "compress", "cli"}

// Reset drops every registered logger.
func Reset() {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.loggers = make(map[string]*Logger)
}
