// internal/pkg/response/errors.go
package response

import (
	"errors"
	"net/http"

	xerrors "projexa-service/internal/pkg/errors"

	"github.com/gin-gonic/gin"
)

// FromError maps well-known service errors to their HTTP status. Anything
// unrecognized becomes a 500 with the given fallback message.
func FromError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, xerrors.ErrNotFound):
		Error(c, http.StatusNotFound, "resource not found", err)
	case errors.Is(err, xerrors.ErrUnauthorized), errors.Is(err, xerrors.ErrSessionExpired):
		Error(c, http.StatusUnauthorized, "unauthorized", err)
	case errors.Is(err, xerrors.ErrForbidden), errors.Is(err, xerrors.ErrNotProjectMember):
		Error(c, http.StatusForbidden, "forbidden", err)
	case errors.Is(err, xerrors.ErrInvalidInput), errors.Is(err, xerrors.ErrBadRequest):
		Error(c, http.StatusBadRequest, "invalid request", err)
	case errors.Is(err, xerrors.ErrDuplicateEntry), errors.Is(err, xerrors.ErrConflict),
		errors.Is(err, xerrors.ErrAlreadySettled), errors.Is(err, xerrors.ErrPlanInactive):
		Error(c, http.StatusConflict, err.Error(), err)
	case errors.Is(err, xerrors.ErrInvalidTransition):
		Error(c, http.StatusUnprocessableEntity, "status transition not allowed", err)
	default:
		Error(c, http.StatusInternalServerError, fallback, err)
	}
}
