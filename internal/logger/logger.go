// Package logger wraps zap's SugaredLogger with key/value redaction of
// credentials (session cookies, CSRF tokens) so they never reach log output.
package logger

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ErrInvalidMode indicates an unknown logger mode.
var ErrInvalidMode = errors.New("invalid log mode")

// Modes accepted by New.
const (
	ModeDev  = "dev"
	ModeProd = "prod"
)

const redacted = "[REDACTED]"

type Logger struct {
	SugaredLogger *zap.SugaredLogger
}

type options struct {
	level  zapcore.Level
	output io.Writer
}

// Option configures New.
type Option func(*options)

// WithLevel sets the minimum enabled level. Default is info.
func WithLevel(level zapcore.Level) Option {
	return func(o *options) { o.level = level }
}

// WithOutput sets the destination. Default is stderr.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.output = w
		}
	}
}

// New creates a logger. "dev" writes human-readable console lines, "prod"
// writes JSON. An empty mode means dev.
func New(mode string, opts ...Option) (*Logger, error) {
	o := options{level: zapcore.InfoLevel, output: os.Stderr}
	for _, opt := range opts {
		opt(&o)
	}

	var enc zapcore.Encoder
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", ModeDev, "development":
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		enc = zapcore.NewConsoleEncoder(cfg)
	case ModeProd, "production":
		enc = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	default:
		return nil, fmt.Errorf("%w: %q (want %s or %s)", ErrInvalidMode, mode, ModeDev, ModeProd)
	}

	core := zapcore.NewCore(enc, zapcore.AddSync(o.output), o.level)
	return &Logger{SugaredLogger: zap.New(core).Sugar()}, nil
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar()}
}

func (l *Logger) Sync() {
	_ = l.SugaredLogger.Sync()
}

func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Debugw(msg, sanitizeKVs(keysAndValues)...)
}
func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Infow(msg, sanitizeKVs(keysAndValues)...)
}
func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Warnw(msg, sanitizeKVs(keysAndValues)...)
}
func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Errorw(msg, sanitizeKVs(keysAndValues)...)
}
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{SugaredLogger: l.SugaredLogger.With(sanitizeKVs(keysAndValues)...)}
}

func sanitizeKVs(kv []interface{}) []interface{} {
	if len(kv) == 0 {
		return kv
	}
	out := make([]interface{}, 0, len(kv))
	for i := 0; i < len(kv); i += 2 {
		if i == len(kv)-1 {
			out = append(out, kv[i])
			break
		}
		key := fmt.Sprint(kv[i])
		out = append(out, key, sanitizeValue(strings.ToLower(key), kv[i+1]))
	}
	return out
}

func sanitizeValue(key string, val interface{}) interface{} {
	if isRedactKey(key) {
		return redacted
	}
	if m, ok := val.(map[string]string); ok {
		out := make(map[string]string, len(m))
		for k, v := range m {
			if isRedactKey(strings.ToLower(k)) {
				v = redacted
			}
			out[k] = v
		}
		return out
	}
	return val
}

func isRedactKey(key string) bool {
	for _, s := range []string{"token", "session", "cookie", "secret", "password", "authorization", "csrf"} {
		if strings.Contains(key, s) {
			return true
		}
	}
	return false
}
