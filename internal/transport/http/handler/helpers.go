package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"docbase/internal/app"
	"docbase/internal/transport/http/middleware"
	"docbase/internal/transport/http/response"
)

func getUserIDFromContext(c *gin.Context) (uint, bool) {
	userIDAny, exists := c.Get(middleware.ContextUserIDKey)
	if !exists {
		return 0, false
	}
	userID, ok := userIDAny.(uint)
	return userID, ok
}

func parseUintParam(c *gin.Context, key string) (uint, error) {
	s := c.Param(key)
	u, err := strconv.ParseUint(s, 10, 64)
	return uint(u), err
}

// resolveEffective recomputes the effective context for this request. It is
// deliberately done per request: delegate records may have changed since the
// principal's previous call.
func resolveEffective(c *gin.Context, resolver *app.Resolver) (*app.EffectiveContext, bool) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return nil, false
	}

	ectx, err := resolver.Resolve(userID)
	if err != nil {
		if errors.Is(err, app.ErrDelegateInactive) {
			response.Error(c, http.StatusForbidden, response.CodeDelegateInactive, err.Error())
			return nil, false
		}
		response.Error(c, http.StatusServiceUnavailable, response.CodeUpstream, "resolve principal failed")
		return nil, false
	}
	return ectx, true
}

func respondServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, app.ErrInvalidInput):
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
	case errors.Is(err, app.ErrPermissionDenied):
		response.Error(c, http.StatusForbidden, response.CodePermissionDenied, err.Error())
	case errors.Is(err, app.ErrQuotaExceeded):
		response.Error(c, http.StatusForbidden, response.CodeQuotaExceeded, err.Error())
	case errors.Is(err, app.ErrAccountNotFound),
		errors.Is(err, app.ErrCredentialNotFound),
		errors.Is(err, app.ErrDelegateNotFound),
		errors.Is(err, app.ErrDocumentNotFound):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, err.Error())
	case errors.Is(err, app.ErrUpstream):
		response.Error(c, http.StatusServiceUnavailable, response.CodeUpstream, err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, fallback)
	}
}
