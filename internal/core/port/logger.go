package port

type Fields map[string]interface{}

// LoggerPort - единый интерфейс логирования для всех слоев.
// Конкретные реализации (slog, fluent, композитная) живут в адаптерах.
type LoggerPort interface {
	Debug(msg string, fields Fields)
	Info(msg string, fields Fields)
	Warn(msg string, fields Fields)
	Error(msg string, err error, fields Fields)
	WithFields(fields Fields) LoggerPort
}
