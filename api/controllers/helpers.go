package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/secondchance/secondchance-backend/api/middleware"
	"github.com/secondchance/secondchance-backend/api/validators"
	"github.com/secondchance/secondchance-backend/pkg/enums"
	pkgerrors "github.com/secondchance/secondchance-backend/pkg/errors"
)

// actorFromRequest resolves the authenticated caller from the request
// context seeded by the auth middleware.
func actorFromRequest(r *http.Request) (uuid.UUID, enums.UserRole, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, "", pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}

	actorID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, "", pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id in context")
	}

	role, err := enums.ParseUserRole(middleware.RoleFromContext(r.Context()))
	if err != nil {
		return uuid.Nil, "", pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid role in context")
	}

	return actorID, role, nil
}

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	return validators.ParsePathUUID(chi.URLParam(r, name), name)
}
