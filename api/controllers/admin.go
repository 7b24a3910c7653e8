package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/secondchance/secondchance-backend/api/responses"
	"github.com/secondchance/secondchance-backend/api/validators"
	"github.com/secondchance/secondchance-backend/internal/adminlog"
	"github.com/secondchance/secondchance-backend/pkg/enums"
	pkgerrors "github.com/secondchance/secondchance-backend/pkg/errors"
	"github.com/secondchance/secondchance-backend/pkg/logger"
	"github.com/secondchance/secondchance-backend/pkg/pagination"
)

const defaultAdminLogsLimit = 20

type adminLogListResponse struct {
	Logs       []adminlog.LogDTO `json:"logs"`
	Pagination pagination.Meta   `json:"pagination"`
}

type createAdminLogRequest struct {
	Action     string    `json:"action" validate:"required"`
	TargetType string    `json:"target_type" validate:"required,max=50"`
	TargetID   uuid.UUID `json:"target_id" validate:"required"`
	Detail     *string   `json:"detail" validate:"omitempty,max=2000"`
}

// AdminStats returns platform-wide entity counts plus the role breakdown.
func AdminStats(svc adminlog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin service unavailable"))
			return
		}

		stats, err := svc.Stats(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, stats)
	}
}

// AdminLogs pages the append-only audit trail, newest first.
func AdminLogs(svc adminlog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin service unavailable"))
			return
		}

		params := pagination.FromRequest(r, defaultAdminLogsLimit)
		page, meta, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, adminLogListResponse{Logs: page, Pagination: meta})
	}
}

// CreateAdminLog appends a manual audit entry attributed to the caller.
func CreateAdminLog(svc adminlog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin service unavailable"))
			return
		}

		actorID, _, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createAdminLogRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		action, err := enums.ParseAdminAction(payload.Action)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid action"))
			return
		}

		if err := svc.Record(r.Context(), actorID, action, payload.TargetType, payload.TargetID, payload.Detail); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]string{"status": "recorded"})
	}
}
