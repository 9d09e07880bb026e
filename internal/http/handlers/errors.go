package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/nurture-backend/internal/http/response"
	"github.com/yungbote/nurture-backend/internal/platform/apierr"
	"github.com/yungbote/nurture-backend/internal/platform/ctxutil"
	"github.com/yungbote/nurture-backend/internal/services"
)

var errNoUser = errors.New("missing authenticated user")

// serviceError maps service sentinels onto HTTP statuses. Invalid input is
// checked first: an unknown course on ingestion is a caller error.
func serviceError(err error) *apierr.Error {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return apierr.New(http.StatusBadRequest, apierr.CodeInvalidInput, err)
	case errors.Is(err, services.ErrCourseNotFound):
		return apierr.New(http.StatusNotFound, apierr.CodeCourseNotFound, err)
	case errors.Is(err, services.ErrUnauthorized):
		return apierr.New(http.StatusUnauthorized, apierr.CodeUnauthorized, err)
	case errors.Is(err, services.ErrDependency):
		return apierr.New(http.StatusBadGateway, apierr.CodeDependency, err)
	default:
		return apierr.New(http.StatusInternalServerError, apierr.CodeInternal, err)
	}
}

func writeError(c *gin.Context, err error) {
	response.Error(c, serviceError(err))
}

func badRequest(c *gin.Context, err error) {
	response.Error(c, apierr.New(http.StatusBadRequest, apierr.CodeInvalidInput, err))
}

func currentUser(c *gin.Context) (uuid.UUID, bool) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.Error(c, apierr.New(http.StatusUnauthorized, apierr.CodeUnauthorized, errNoUser))
		return uuid.Nil, false
	}
	return rd.UserID, true
}

func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil || id == uuid.Nil {
		badRequest(c, errors.New("invalid "+name))
		return uuid.Nil, false
	}
	return id, true
}
