package handler

import (
	"net/http"

	"github.com/gobinddhanjal12/medcare-app-backend/internal/usecase"
	"github.com/gobinddhanjal12/medcare-app-backend/pkg/response"
)

type AuditLogHandler struct {
	auditLogUsecase usecase.AuditLogUsecase
}

func NewAuditLogHandler(auditLogUsecase usecase.AuditLogUsecase) *AuditLogHandler {
	return &AuditLogHandler{auditLogUsecase: auditLogUsecase}
}

// List returns the audit trail, newest first. Admin only.
func (h *AuditLogHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePagination(r)
	logs, total, err := h.auditLogUsecase.List(r.Context(), page, limit)
	if err != nil {
		response.InternalServerError(w, "Failed to list audit logs")
		return
	}

	response.SuccessWithPagination(w, http.StatusOK, "Audit logs retrieved successfully", logs,
		response.NewPagination(total, page, limit))
}
