package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/pramuka-adm-api/internal/models"
)

type auditLogger interface {
	Create(ctx context.Context, log *models.AuditLog) error
}

// recordAudit stores an activity trail entry. Audit failures are logged and
// swallowed; they never fail the operation they describe.
func recordAudit(ctx context.Context, audit auditLogger, logger *zap.Logger, actor *models.JWTClaims, action, module, description string) {
	if audit == nil {
		return
	}
	var userID *string
	if actor != nil {
		userID = &actor.UserID
	}
	entry := &models.AuditLog{
		UserID:      userID,
		Action:      action,
		Module:      module,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}
	if err := audit.Create(ctx, entry); err != nil && logger != nil {
		logger.Warn("failed to record audit entry", zap.String("module", module), zap.Error(err))
	}
}
