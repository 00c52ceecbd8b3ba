package notify

import (
	"context"

	"orderease/logger"
)

// LogSink writes each event as a log line.
type LogSink struct {
	Log *logger.Logger
}

func (s *LogSink) Notify(_ context.Context, ev Event) error {
	s.Log.Info("notify_"+string(ev.Kind), ev.Message(),
		"table_number", ev.TableNumber,
		"server_name", ev.ServerName,
	)
	return nil
}
