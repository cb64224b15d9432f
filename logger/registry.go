package logger

import "sync"

// named holds loggers registered by component name.
var named sync.Map

// Register stores a named logger, replacing any previous entry.
func Register(name string, l *Logger) {
	named.Store(name, l)
}

// Get retrieves a named logger. Unregistered names resolve to the global
// logger tagged with the requested component name, so packages can call Get
// at construction time without any setup.
func Get(name string) *Logger {
	if l, ok := named.Load(name); ok {
		return l.(*Logger)
	}
	return GetGlobalLogger().WithComponent(name)
}
