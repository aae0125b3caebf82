package handler

import (
	"net/http"

	"go-life-planner/internal/middleware"
	"go-life-planner/internal/model"
)

// ownerFromRequest returns the authenticated owner id. Routes are mounted
// behind RequireAuth, so a missing claim means the router is miswired.
func ownerFromRequest(r *http.Request) (string, error) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok || claims.UserID == "" {
		return "", model.ErrUnauthorized
	}
	return claims.UserID, nil
}
