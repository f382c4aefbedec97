// filepath: internal/audit/logger_auditor.go
package audit

import (
	"context"
	"trialdb/internal/logging"
	"trialdb/internal/services"

	"github.com/sirupsen/logrus"
)

var _ services.Auditor = (*LoggerAuditor)(nil)

// LoggerAuditor writes store maintenance events to the application log.
type LoggerAuditor struct {
	enabled bool
	logger  *logrus.Logger
}

// NewLoggerAuditor creates an auditor writing to the global logger.
func NewLoggerAuditor(enabled bool) *LoggerAuditor {
	return &LoggerAuditor{enabled: enabled}
}

// WithLogger directs events to logger instead of the global one.
func (a *LoggerAuditor) WithLogger(logger *logrus.Logger) *LoggerAuditor {
	a.logger = logger
	return a
}

// Log records an event at info level when auditing is enabled.
// Details are flattened into "detail.<key>" fields.
func (a *LoggerAuditor) Log(ctx context.Context, action string, actor string, resource string, details map[string]interface{}) {
	if !a.enabled {
		return
	}

	fields := logrus.Fields{
		"audit_action":   action,
		"audit_actor":    actor,
		"audit_resource": resource,
	}
	for k, v := range details {
		fields["detail."+k] = v
	}

	logger := a.logger
	if logger == nil {
		logger = logging.Log
	}
	logger.WithContext(ctx).WithFields(fields).Info("AUDIT EVENT")
}
