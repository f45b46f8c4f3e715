package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/G1ebS/rosatom-nko-sub000/internal/api/handler/v1/response"
	"github.com/G1ebS/rosatom-nko-sub000/internal/domain"
)

const principalKey = "principal"

var errMissingToken = errors.New("missing bearer token")

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (domain.Principal, error)
}

type SessionAuth struct {
	auth Authenticator
}

func NewSessionAuth(auth Authenticator) *SessionAuth {
	return &SessionAuth{
		auth: auth,
	}
}

// Optional resolves the session when a token is sent. Requests without a
// usable token continue as anonymous.
func (a *SessionAuth) Optional() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		p := domain.Anonymous()
		if token := tokenFrom(ctx); token != "" {
			if resolved, err := a.auth.Authenticate(ctx.Request.Context(), token); err == nil {
				p = resolved
			}
		}

		ctx.Set(principalKey, p)
		ctx.Next()
	}
}

// Required rejects requests without a live session.
func (a *SessionAuth) Required() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token := tokenFrom(ctx)
		if token == "" {
			response.RenderErr(ctx, response.ErrUnauthorized(errMissingToken))
			return
		}

		p, err := a.auth.Authenticate(ctx.Request.Context(), token)
		if err != nil {
			response.RenderErr(ctx, response.ErrUnauthorized(err))
			return
		}

		ctx.Set(principalKey, p)
		ctx.Next()
	}
}

// Principal is whoever the auth middleware resolved; anonymous when none ran.
func Principal(ctx *gin.Context) domain.Principal {
	if v, ok := ctx.Get(principalKey); ok {
		if p, ok := v.(domain.Principal); ok {
			return p
		}
	}

	return domain.Anonymous()
}

// tokenFrom reads the bearer token, falling back to the token query
// parameter browsers must use for websockets.
func tokenFrom(ctx *gin.Context) string {
	header := ctx.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}

	return ctx.Query("token")
}
