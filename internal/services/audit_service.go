package services

import (
	"encoding/json"
	"strings"

	"cashbook/internal/logger"
	"cashbook/internal/metrics"
	"cashbook/internal/models"

	"gorm.io/gorm"
)

// auditService handles audit log recording.
type auditService struct {
	db      *gorm.DB
	metrics metrics.Collector
}

// NewAuditService creates a new AuditServicer. Every logged mutation is also
// counted on collector; nil disables counting.
func NewAuditService(db *gorm.DB, collector metrics.Collector) AuditServicer {
	if collector == nil {
		collector = metrics.NoOpCollector{}
	}
	return &auditService{db: db, metrics: collector}
}

// Log records an audit event. Errors are logged and never returned to the caller.
func (s *auditService) Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{}) {
	s.metrics.RecordMutation(resourceType, verb(action))

	var changesJSON string
	if changes != nil {
		data, err := json.Marshal(changes)
		if err != nil {
			logger.Get().Errorw("failed to marshal audit log changes", "error", err, "action", action)
			changesJSON = "{}"
		} else {
			changesJSON = string(data)
		}
	}

	entry := &models.AuditLog{
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    ipAddress,
		Changes:      changesJSON,
	}

	if err := s.db.Create(entry).Error; err != nil {
		logger.Get().Errorw("failed to create audit log entry",
			"error", err,
			"user_id", userID,
			"action", action,
			"resource_type", resourceType,
			"resource_id", resourceID,
		)
	}
}

// verb extracts the lowercase verb from an action such as "CREATE_TRANSACTION".
func verb(action string) string {
	v, _, _ := strings.Cut(action, "_")
	return strings.ToLower(v)
}
