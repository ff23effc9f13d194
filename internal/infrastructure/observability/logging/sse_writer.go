package logging

import (
	"encoding/json"
	"log/slog"
	"time"
)

// SSEWriter is an io.Writer handed to every channel logger. Each structured
// log line written through it is decoded and handed to the LogBroadcaster so
// connected sysop dashboards see it live.
type SSEWriter struct {
	broadcaster *LogBroadcaster
}

// NewSSEWriter returns a writer bound to the singleton broadcaster.
func NewSSEWriter() *SSEWriter {
	return &SSEWriter{
		broadcaster: GetBroadcaster(),
	}
}

// Write decodes a JSON log line into a LogEntry and submits it for
// broadcast. Submission happens on a goroutine so a slow or full
// broadcaster never stalls the logging call site. The byte count is
// always reported as consumed; a stream subscriber dropping a line must
// not surface as a logging error.
func (w *SSEWriter) Write(p []byte) (n int, err error) {
	var record map[string]any
	if err := json.Unmarshal(p, &record); err != nil {
		// Non-JSON output on a channel handler. Forward a marker entry
		// rather than losing the event silently.
		go w.broadcaster.SubmitLog(LogEntry{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Level:     slog.LevelError.String(),
			Channel:   string(ChannelSystem),
			Message:   "sse_writer: failed to parse incoming log message",
		})
		return len(p), nil
	}

	entry := LogEntry{
		Timestamp: stringField(record, "time"),
		Level:     stringField(record, "level"),
		Channel:   stringField(record, "channel"),
		Message:   stringField(record, "msg"),
	}

	go w.broadcaster.SubmitLog(entry)

	return len(p), nil
}

func stringField(record map[string]any, key string) string {
	if val, ok := record[key].(string); ok {
		return val
	}
	return ""
}
