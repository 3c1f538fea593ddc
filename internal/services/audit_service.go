package services

import (
	"encoding/json"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"propvest/internal/logger"
	"propvest/internal/models"
)

// Audit actions recorded against scenarios and baselines.
const (
	AuditScenarioSaved    = "scenario.saved"
	AuditBaselinePinned   = "baseline.pinned"
	AuditBaselineUnpinned = "baseline.unpinned"
)

// auditService writes the owner-visible trail of scenario changes.
type auditService struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

// NewAuditService creates a new AuditServicer.
func NewAuditService(db *gorm.DB) AuditServicer {
	return &auditService{db: db, log: logger.Named("audit")}
}

// Log records an audit event. A failed write is logged and swallowed; the
// scenario operation that triggered it has already committed.
func (s *auditService) Log(ownerID, action, resourceType, resourceID, ipAddress string, changes map[string]any) {
	entry := &models.AuditLog{
		OwnerID:      ownerID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    ipAddress,
	}
	if len(changes) > 0 {
		data, err := json.Marshal(changes)
		if err != nil {
			s.log.Warnw("audit changes not serializable", "error", err, "action", action)
			data = []byte("{}")
		}
		entry.Changes = string(data)
	}

	if err := s.db.Create(entry).Error; err != nil {
		s.log.Errorw("failed to write audit entry",
			"error", err,
			"owner_id", ownerID,
			"action", action,
			"resource", resourceType+"/"+resourceID,
		)
	}
}
