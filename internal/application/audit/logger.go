// Package audit records destructive user actions to the audit_logs table.
package audit

import (
	"context"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Actions recorded by the service.
const (
	ActionSessionDelete = "session.delete"
)

// Logger persists audit entries. Failures are logged, never surfaced: an
// audit write must not fail the request it describes.
type Logger struct {
	db     *gorm.DB
	logger zerolog.Logger
}

func NewLogger(db *gorm.DB, logger zerolog.Logger) *Logger {
	return &Logger{db: db, logger: logger}
}

type Entry struct {
	Subject    string
	Email      string
	Action     string
	Resource   string
	ResourceID string
	RequestID  string
	IPAddress  string
	UserAgent  string
	StatusCode int
	Error      error
}

// Log persists the entry; best-effort (logs warning on failure).
func (l *Logger) Log(ctx context.Context, entry Entry) {
	if l == nil || l.db == nil {
		return
	}

	sql := `
INSERT INTO chat_api.audit_logs
    (subject, email, action, resource_type, resource_id, request_id, ip_address, user_agent, status_code, error_message)
VALUES
    (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`
	if err := l.db.WithContext(ctx).Exec(sql,
		entry.Subject,
		entry.Email,
		entry.Action,
		entry.Resource,
		entry.ResourceID,
		entry.RequestID,
		entry.IPAddress,
		entry.UserAgent,
		entry.StatusCode,
		errorString(entry.Error),
	).Error; err != nil {
		l.logger.Warn().Err(err).Str("action", entry.Action).Msg("failed to write audit log")
	}
}

func errorString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
