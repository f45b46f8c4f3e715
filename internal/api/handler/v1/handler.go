package v1

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/G1ebS/rosatom-nko-sub000/internal/api/handler/v1/response"
	"github.com/G1ebS/rosatom-nko-sub000/internal/portalapi"
	"github.com/G1ebS/rosatom-nko-sub000/internal/service"
)

var errInvalidID = errors.New("id must be a positive integer")

func paramID(ctx *gin.Context, name string) (int, error) {
	id, err := strconv.Atoi(ctx.Param(name))
	if err != nil || id < 1 {
		return 0, errInvalidID
	}

	return id, nil
}

// serviceErr maps an error of the service layer to its HTTP answer. Backend
// rejections keep their status and message; backend outages become 502.
func serviceErr(op string, err error) *response.Err {
	switch {
	case errors.Is(err, service.ErrWrongCredentials):
		return response.ErrWrongCredentials(err)
	case errors.Is(err, service.ErrUnauthenticated),
		errors.Is(err, service.ErrSessionExpired),
		errors.Is(err, service.ErrSessionNotFound):
		return response.ErrUnauthorized(err)
	case errors.Is(err, service.ErrNotFound):
		return &response.Err{Status: http.StatusNotFound, Message: service.ErrNotFound.Error()}
	case errors.Is(err, service.ErrSuperseded), errors.Is(err, service.ErrSubmitting):
		return response.ErrConflict(err)
	case errors.Is(err, service.ErrInvalidInput):
		return response.ErrBadRequest(err)
	case errors.Is(err, portalapi.ErrTransport):
		return response.ErrBadGateway(fmt.Errorf("%s -> %w", op, err))
	}

	var apiErr *portalapi.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Status >= http.StatusInternalServerError {
			return response.ErrBadGateway(fmt.Errorf("%s -> %w", op, err))
		}

		return response.ErrUpstream(apiErr.Status, apiErr.Message)
	}

	return response.ErrInternalServerError(fmt.Errorf("%s -> %w", op, err))
}

// HandleHealthcheck godoc
// @Summary      Health check
// @Tags         health
// @Produce      json
// @Success      200      {object}   response.Message
// @Router       / [get]
func HandleHealthcheck(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, response.Message{Message: "OK"})
}
