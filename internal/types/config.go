package types

type RunMode string

const (
	// ModeLocal runs the dispatcher and the executor pool in one process
	ModeLocal RunMode = "local"
	// ModeDispatcher runs just the dispatcher tick loop
	ModeDispatcher RunMode = "dispatcher"
	// ModeWorker runs just the executor worker pool
	ModeWorker RunMode = "worker"
)

type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)
