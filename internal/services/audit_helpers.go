package services

import (
	"context"

	"github.com/charlesng35/orgdesk/internal/auditctx"
	"github.com/charlesng35/orgdesk/pkg/logger"
	"go.uber.org/zap"
)

// recordAudit logs the supplied entry while tolerating audit failures.
// Request metadata carried on ctx fills any fields the caller left empty.
func recordAudit(audit *AuditService, ctx context.Context, entry AuditEntry) {
	if audit == nil {
		return
	}

	if actor, ok := auditctx.FromContext(ctx); ok {
		if entry.UserID == nil && actor.UserID != "" {
			id := actor.UserID
			entry.UserID = &id
		}
		if entry.IPAddress == "" {
			entry.IPAddress = actor.IPAddress
		}
		if entry.UserAgent == "" {
			entry.UserAgent = actor.UserAgent
		}
	}

	if err := audit.Log(ctx, entry); err != nil {
		logger.WithModule("audit").Warn("audit write failed",
			zap.String("action", entry.Action),
			zap.Error(err),
		)
	}
}
