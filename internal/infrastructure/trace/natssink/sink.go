// Package natssink publishes pipeline trace events to NATS. Emission is
// strictly best-effort: tracing the pipeline must never fail it, so publish
// errors are logged and swallowed. A Noop sink stands in when no NATS URL is
// configured.
package natssink

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/kirillkom/handwriting-extraction/internal/core/ports"
)

type Sink struct {
	conn    *nats.Conn
	subject string
	logger  *slog.Logger
}

func New(url, subject string, logger *slog.Logger) (*Sink, error) {
	if logger == nil {
		logger = slog.Default()
	}
	conn, err := nats.Connect(
		url,
		nats.Name("handwriting-extraction"),
		nats.Timeout(2*time.Second),
		nats.ReconnectWait(2*time.Second),
		nats.MaxReconnects(60),
		nats.RetryOnFailedConnect(true),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn("nats_disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("nats_reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, err
	}
	return &Sink{conn: conn, subject: subject, logger: logger}, nil
}

func (s *Sink) Configured() bool {
	return true
}

func (s *Sink) EmitPipelineTrace(_ context.Context, event ports.TraceEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Warn("trace_marshal_failed", "name", event.Name, "error", err)
		return
	}
	if err := s.conn.Publish(s.subject, payload); err != nil {
		s.logger.Warn("trace_publish_failed", "name", event.Name, "error", err)
	}
}

func (s *Sink) Close() {
	if s.conn != nil {
		s.conn.Close()
	}
}

// Noop satisfies ports.TraceSink when tracing is not configured.
type Noop struct{}

func (Noop) Configured() bool { return false }

func (Noop) EmitPipelineTrace(context.Context, ports.TraceEvent) {}
