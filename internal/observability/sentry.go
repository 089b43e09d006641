package observability

import (
	"time"

	"github.com/getsentry/sentry-go"
)

func InitSentry(dsn, environment string) error {
	if dsn == "" {
		return nil
	}

	return sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      environment,
		AttachStacktrace: true,
	})
}

func FlushSentry() {
	sentry.Flush(2 * time.Second)
}

// ConsistencyAlert reports that local and remote state are known to
// have diverged and need out-of-band reconciliation. It is emitted as
// a distinguishable log event and a Sentry capture; it is never part
// of a response to the caller.
func (l *Logger) ConsistencyAlert(reason string, fields map[string]any) {
	merged := map[string]any{"alert": "consistency", "reason": reason}
	for k, v := range fields {
		merged[k] = v
	}
	l.Error("consistency_alert", merged)

	sentry.WithScope(func(scope *sentry.Scope) {
		for k, v := range merged {
			scope.SetExtra(k, v)
		}
		scope.SetTag("alert", "consistency")
		sentry.CaptureMessage("consistency alert: " + reason)
	})
}
