package instrument

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// AlwaysMasked are attribute keys whose values never reach a log sink,
// regardless of configuration.
var AlwaysMasked = []string{"secret", "password", "code", "token", "authorization", "otpauth_url"}

// LogOptions configures the process logger.
type LogOptions struct {
	ServiceName string
	Level       string
	MaskFields  []string
	// Provider, when set, mirrors every record to OpenTelemetry.
	Provider *sdklog.LoggerProvider
}

// NewLogger builds a JSON logger writing to w. Records carry the service name
// and the request correlation id, and configured keys are masked.
func NewLogger(w io.Writer, opts LogOptions) *slog.Logger {
	var handler slog.Handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       parseLevel(opts.Level),
		AddSource:   true,
		ReplaceAttr: replaceAttr,
	})

	if opts.Provider != nil {
		handler = &fanoutHandler{handlers: []slog.Handler{
			handler,
			otelslog.NewHandler(opts.ServiceName, otelslog.WithLoggerProvider(opts.Provider)),
		}}
	}

	return slog.New(&contextHandler{
		Handler:     &maskHandler{handler: handler, keys: maskKeys(slices.Concat(AlwaysMasked, opts.MaskFields))},
		serviceName: opts.ServiceName,
	})
}

func parseLevel(s string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

func replaceAttr(_ []string, a slog.Attr) slog.Attr {
	switch a.Key {
	case slog.TimeKey:
		a.Key = "ts"
	case slog.LevelKey:
		a.Key = "severity"
	case slog.SourceKey:
		src, ok := a.Value.Any().(*slog.Source)
		if !ok {
			return a
		}
		if _, rel, found := strings.Cut(src.File, "/internal/"); found {
			return slog.String("file", fmt.Sprintf("%s:%d", filepath.Join("internal", rel), src.Line))
		}
		return slog.Attr{}
	}
	return a
}

type contextHandler struct {
	slog.Handler
	serviceName string
}

func (h *contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if cID := GetCorrelationID(ctx); cID != "" {
		r.AddAttrs(slog.String("_cID", cID))
	}
	if h.serviceName != "" {
		r.AddAttrs(slog.String("service", h.serviceName))
	}

	return h.Handler.Handle(ctx, r)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithAttrs(attrs), serviceName: h.serviceName}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithGroup(name), serviceName: h.serviceName}
}

type fanoutHandler struct {
	handlers []slog.Handler
}

func (m *fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range m.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m *fanoutHandler) Handle(ctx context.Context, record slog.Record) error {
	var firstErr error
	for _, handler := range m.handlers {
		if !handler.Enabled(ctx, record.Level) {
			continue
		}
		if err := handler.Handle(ctx, record.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (m *fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, 0, len(m.handlers))
	for _, handler := range m.handlers {
		handlers = append(handlers, handler.WithAttrs(attrs))
	}
	return &fanoutHandler{handlers: handlers}
}

func (m *fanoutHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, 0, len(m.handlers))
	for _, handler := range m.handlers {
		handlers = append(handlers, handler.WithGroup(name))
	}
	return &fanoutHandler{handlers: handlers}
}

type maskHandler struct {
	handler slog.Handler
	keys    map[string]struct{}
}

func (h *maskHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h *maskHandler) Handle(ctx context.Context, record slog.Record) error {
	masked := slog.NewRecord(record.Time, record.Level, record.Message, record.PC)
	record.Attrs(func(attr slog.Attr) bool {
		masked.AddAttrs(h.mask(attr))
		return true
	})

	return h.handler.Handle(ctx, masked)
}

func (h *maskHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make([]slog.Attr, 0, len(attrs))
	for _, a := range attrs {
		out = append(out, h.mask(a))
	}
	return &maskHandler{handler: h.handler.WithAttrs(out), keys: h.keys}
}

func (h *maskHandler) WithGroup(name string) slog.Handler {
	return &maskHandler{handler: h.handler.WithGroup(name), keys: h.keys}
}

func (h *maskHandler) mask(attr slog.Attr) slog.Attr {
	if _, found := h.keys[strings.ToLower(attr.Key)]; found {
		return slog.String(attr.Key, "***")
	}

	switch attr.Value.Kind() {
	case slog.KindGroup:
		group := attr.Value.Group()
		masked := make([]slog.Attr, 0, len(group))
		for _, ga := range group {
			masked = append(masked, h.mask(ga))
		}
		attr.Value = slog.GroupValue(masked...)
	case slog.KindAny:
		switch v := attr.Value.Any().(type) {
		case map[string]any:
			attr.Value = slog.AnyValue(h.maskMap(v))
		case map[string]string:
			m := make(map[string]any, len(v))
			for k, s := range v {
				m[k] = s
			}
			attr.Value = slog.AnyValue(h.maskMap(m))
		}
	}

	return attr
}

func (h *maskHandler) maskMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if _, found := h.keys[strings.ToLower(k)]; found {
			out[k] = "***"
			continue
		}
		if nested, ok := v.(map[string]any); ok {
			out[k] = h.maskMap(nested)
			continue
		}
		out[k] = v
	}
	return out
}

func maskKeys(fields []string) map[string]struct{} {
	keys := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		field = strings.TrimSpace(strings.ToLower(field))
		if field == "" {
			continue
		}
		keys[field] = struct{}{}
	}
	return keys
}
