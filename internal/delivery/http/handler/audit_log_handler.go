package handler

import (
	"net/http"
	"strconv"

	"go-care-scheduling/internal/delivery/dto"
	"go-care-scheduling/internal/usecase"
	"go-care-scheduling/pkg/response"
	"go-care-scheduling/pkg/validator"

	"github.com/gorilla/mux"
)

type AuditLogHandler struct {
	auditLogUsecase usecase.AuditLogUsecase
	validator       *validator.CustomValidator
}

func NewAuditLogHandler(auditLogUsecase usecase.AuditLogUsecase, validator *validator.CustomValidator) *AuditLogHandler {
	return &AuditLogHandler{
		auditLogUsecase: auditLogUsecase,
		validator:       validator,
	}
}

func (h *AuditLogHandler) GetAuditLog(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	auditLogID, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid audit log ID", nil)
		return
	}

	auditLog, err := h.auditLogUsecase.GetAuditLog(r.Context(), auditLogID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Audit log retrieved successfully", auditLog)
}

func (h *AuditLogHandler) ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := dto.AuditLogListRequest{
		UserRole:  q.Get("user_role"),
		Entity:    q.Get("entity"),
		Status:    q.Get("status"),
		StartDate: q.Get("start_date"),
		EndDate:   q.Get("end_date"),
		Page:      queryInt(r, "page"),
		Limit:     queryInt(r, "limit"),
	}
	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	result, err := h.auditLogUsecase.ListAuditLogs(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Audit logs retrieved successfully", result.Logs,
		response.NewMeta(result.Page, result.Limit, result.Total))
}
