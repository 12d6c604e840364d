package logger

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config selects the log level and encoder
type Config struct {
	Level string
	Env   string
}

// Logger writes structured entries tagged with service, hostname, action and request id
type Logger struct {
	service  string
	hostname string
	handler  *zap.Logger
}

// New creates a logger for service. Production uses JSON output, anything else the console encoder.
func New(service string, cfg Config) (*Logger, error) {
	var zapCfg zap.Config
	if cfg.Env == "prod" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}
	// stdout belongs to the console menu
	zapCfg.OutputPaths = []string{"stderr"}

	if cfg.Level != "" {
		level, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		zapCfg.Level = zap.NewAtomicLevelAt(level)
	}

	handler, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	return NewWithZap(service, handler), nil
}

// NewWithZap wraps an existing zap logger, e.g. zap.NewNop() in tests
func NewWithZap(service string, handler *zap.Logger) *Logger {
	hostname, _ := os.Hostname()
	return &Logger{
		service:  service,
		hostname: hostname,
		handler:  handler,
	}
}

// Nop returns a logger that discards everything
func Nop() *Logger {
	return NewWithZap("nop", zap.NewNop())
}

// GenerateRequestID returns a new random request id
func GenerateRequestID() string {
	return uuid.NewString()
}

func (l *Logger) Info(action, message, requestID string, fields map[string]interface{}) {
	l.handler.Info(message, l.fields(action, requestID, fields)...)
}

func (l *Logger) Debug(action, message, requestID string, fields map[string]interface{}) {
	l.handler.Debug(message, l.fields(action, requestID, fields)...)
}

func (l *Logger) Warn(action, message, requestID string, fields map[string]interface{}) {
	l.handler.Warn(message, l.fields(action, requestID, fields)...)
}

func (l *Logger) Error(action, message, requestID string, err error, fields map[string]interface{}) {
	zf := l.fields(action, requestID, fields)
	if err != nil {
		zf = append(zf, zap.Error(err))
	}
	l.handler.Error(message, zf...)
}

// Sync flushes buffered entries
func (l *Logger) Sync() error {
	return l.handler.Sync()
}

func (l *Logger) fields(action, requestID string, extra map[string]interface{}) []zap.Field {
	fields := make([]zap.Field, 0, 4+len(extra))
	fields = append(fields,
		zap.String("service", l.service),
		zap.String("hostname", l.hostname),
		zap.String("action", action),
	)
	if requestID != "" {
		fields = append(fields, zap.String("request_id", requestID))
	}
	for k, v := range extra {
		fields = append(fields, zap.Any(k, v))
	}
	return fields
}
