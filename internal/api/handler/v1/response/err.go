package response

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Err is the body of every error answer.
type Err struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func (e *Err) Error() string {
	return e.Message
}

func RenderErr(ctx *gin.Context, err *Err) {
	ctx.AbortWithStatusJSON(err.Status, err)
}

func ErrBadRequest(err error) *Err {
	return &Err{Status: http.StatusBadRequest, Message: err.Error()}
}

func ErrWrongCredentials(err error) *Err {
	return &Err{Status: http.StatusUnauthorized, Message: err.Error()}
}

func ErrUnauthorized(err error) *Err {
	return &Err{Status: http.StatusUnauthorized, Message: err.Error()}
}

func ErrPermissionDenied(err error) *Err {
	return &Err{Status: http.StatusForbidden, Message: err.Error()}
}

func ErrNotFound(resource, key string, value any) *Err {
	return &Err{
		Status:  http.StatusNotFound,
		Message: fmt.Sprintf("%s with %s %v not found", resource, key, value),
	}
}

func ErrConflict(err error) *Err {
	return &Err{Status: http.StatusConflict, Message: err.Error()}
}

// ErrUpstream relays a rejection of the portal backend with its own status
// and message.
func ErrUpstream(status int, message string) *Err {
	return &Err{Status: status, Message: message}
}

func ErrBadGateway(err error) *Err {
	zap.L().Warn("upstream failure", zap.Error(err))

	return &Err{Status: http.StatusBadGateway, Message: "the portal backend is unavailable"}
}

// ErrInternalServerError logs err and hides it from the client.
func ErrInternalServerError(err error) *Err {
	zap.L().Error("internal server error", zap.Error(err))

	return &Err{Status: http.StatusInternalServerError, Message: http.StatusText(http.StatusInternalServerError)}
}
