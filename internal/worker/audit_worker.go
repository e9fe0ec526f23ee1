package worker

import (
	"github.com/spec-kit/bus-complaint-service/internal/service"
)

// StartAuditWorker registers the event audit handlers.
func StartAuditWorker(auditService *service.AuditService) {
	if auditService == nil {
		return
	}
	auditService.RegisterHandlers()
}
