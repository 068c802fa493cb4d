package sse

import (
	"iter"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"javis/internal/domain/models/publish"
)

// Stream writes events to the client as they are produced. Each event is
// flushed before the next one is pulled, so the producer advances only as
// fast as the client is served. A write failure stops the range, which stops
// the producer.
func Stream(w http.ResponseWriter, r *http.Request, events iter.Seq[publish.Event], cfg *Config, logger *slog.Logger) {
	streamID := uuid.NewString()
	writer := NewWriter(w, streamID, cfg.EventIDs)
	logger = logger.With("stream_id", streamID, "path", r.URL.Path)
	logger.Debug("sse stream opened")

	if cfg.KeepAliveInterval > 0 {
		keepAlive := NewTickerKeepAlive(cfg.KeepAliveInterval)
		stopped := keepAlive.Start(writer, logger)
		defer func() {
			keepAlive.Stop()
			<-stopped
		}()
	}

	sent := 0
	for ev := range events {
		if err := writer.WriteEvent(ev.String()); err != nil {
			logger.Info("client disconnected during stream", "sent", sent, "error", err)
			return
		}
		sent++
	}

	logger.Debug("sse stream closed", "sent", sent)
}
