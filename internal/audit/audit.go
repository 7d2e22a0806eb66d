// Package audit provides audit logging for ingest traffic on the dashboard server.
//
// It implements a publish-subscribe pattern for distributing audit events to
// multiple destinations including files and HTTP endpoints.
package audit

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Schera-ole/perfboard/internal/config"
	models "github.com/Schera-ole/perfboard/internal/model"
)

// AuditLogger is an interface for recording ingest audit events.
type AuditLogger interface {
	// Log sends an audit event naming the user aliases an ingest touched and
	// the client address it came from.
	Log(aliases []string, ipAddress string)
}

// auditLogger is a concrete implementation of AuditLogger that sends events to a channel.
type auditLogger struct {
	eventChan chan models.AuditEvent
	logger    *zap.SugaredLogger
}

// NewAuditLogger creates a new AuditLogger that sends events to the provided channel.
func NewAuditLogger(eventChan chan models.AuditEvent, logger *zap.SugaredLogger) AuditLogger {
	return &auditLogger{
		eventChan: eventChan,
		logger:    logger,
	}
}

// Log sends an audit event for the given aliases.
func (a *auditLogger) Log(aliases []string, ipAddress string) {
	event := models.AuditEvent{
		ID:          uuid.NewString(),
		TS:          time.Now().Format(time.RFC3339),
		UserAliases: aliases,
		IPAddress:   ipAddress,
	}

	select {
	case a.eventChan <- event:
		// Event sent successfully
	default:
		// Channel is full, drop the event to keep the ingest path from blocking
		a.logger.Warnw("audit event dropped, channel is full", "id", event.ID)
	}
}

// Broadcaster distributes audit events to multiple subscriber channels.
//
// It receives events from a source channel and sends them to all provided subscriber channels
// using select with default case to prevent blocking and goroutine leaks.
func Broadcaster(source <-chan models.AuditEvent, logger *zap.SugaredLogger, subs ...chan<- models.AuditEvent) {
	for evt := range source {
		for _, subChan := range subs {
			select {
			case subChan <- evt:
				// Event sent successfully
			default:
				// Channel is blocked, discard event to prevent goroutine leak
				logger.Warnw("audit event dropped for blocked subscriber", "id", evt.ID)
			}
		}
	}
}

// FileSubscriber appends audit events to the configured file, one JSON object per line.
func FileSubscriber(events <-chan models.AuditEvent, config config.ServerConfig, logger *zap.SugaredLogger) {
	for evt := range events {
		data, err := json.Marshal(evt)
		if err != nil {
			logger.Errorw("audit file subscriber: marshalling event", "error", err)
			continue
		}
		f, err := os.OpenFile(config.AuditFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			logger.Errorw("audit file subscriber: opening file", "path", config.AuditFile, "error", err)
			continue
		}
		_, err = f.WriteString(string(data) + "\n")
		if err != nil {
			logger.Errorw("audit file subscriber: writing event", "error", err)
		}
		f.Close()
	}
}

// URLSubscriber posts audit events to the configured HTTP endpoint.
func URLSubscriber(events <-chan models.AuditEvent, config config.ServerConfig, logger *zap.SugaredLogger) {
	for evt := range events {
		data, err := json.Marshal(evt)
		if err != nil {
			logger.Errorw("audit url subscriber: marshalling event", "error", err)
			continue
		}
		resp, err := http.Post(config.AuditURL, "application/json", bytes.NewBuffer(data))
		if err != nil {
			logger.Errorw("audit url subscriber: posting event", "url", config.AuditURL, "error", err)
			continue
		}
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}
}
