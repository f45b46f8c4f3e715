package v1

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/G1ebS/rosatom-nko-sub000/internal/api/handler/v1/request"
	"github.com/G1ebS/rosatom-nko-sub000/internal/api/handler/v1/response"
	"github.com/G1ebS/rosatom-nko-sub000/internal/api/middleware"
	"github.com/G1ebS/rosatom-nko-sub000/internal/config"
	"github.com/G1ebS/rosatom-nko-sub000/internal/domain"
	"github.com/G1ebS/rosatom-nko-sub000/internal/service"
)

type AuthService interface {
	Register(ctx context.Context, r domain.Registration, userAgent string) (service.Login, error)
	Login(ctx context.Context, username, password, userAgent string) (service.Login, error)
	Refresh(ctx context.Context, p domain.Principal, userAgent string) (service.Login, error)
	Me(ctx context.Context, p domain.Principal, sync bool) (domain.User, error)
	UpdateMe(ctx context.Context, p domain.Principal, u domain.ProfileUpdate) (domain.User, error)
	Logout(ctx context.Context, p domain.Principal) error
}

type AuthHandler struct {
	conf *config.APIConfig
	svc  AuthService
}

func NewAuthHandler(conf *config.APIConfig, svc AuthService) *AuthHandler {
	return &AuthHandler{
		conf: conf,
		svc:  svc,
	}
}

func loginResponse(l service.Login) response.LoginResponse {
	return response.LoginResponse{
		Token:     l.Token,
		ExpiresAt: l.Session.ExpiresAt,
		User:      l.Session.User,
	}
}

// HandleRegister godoc
// @Summary      Register a new portal account and open a session
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request   body      request.RegisterRequest true "request body"
// @Success      201      {object}   response.LoginResponse
// @Failure      400      {object}   response.Err
// @Failure      502      {object}   response.Err
// @Router       /auth/register [post]
func (h *AuthHandler) HandleRegister(ctx *gin.Context) {
	var req request.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	login, err := h.svc.Register(ctx.Request.Context(), req.ToDomain(), ctx.Request.UserAgent())
	if err != nil {
		response.RenderErr(ctx, serviceErr("v1.HandleRegister -> h.svc.Register", err))
		return
	}

	ctx.JSON(http.StatusCreated, loginResponse(login))
}

// HandleLogin godoc
// @Summary      Login with portal credentials
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request   body      request.LoginRequest true "request body"
// @Success      200      {object}   response.LoginResponse
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      502      {object}   response.Err
// @Router       /auth/login [post]
func (h *AuthHandler) HandleLogin(ctx *gin.Context) {
	req := request.LoginRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	login, err := h.svc.Login(ctx.Request.Context(), req.Username, req.Password, ctx.Request.UserAgent())
	if err != nil {
		response.RenderErr(ctx, serviceErr("v1.HandleLogin -> h.svc.Login", err))

		return
	}

	ctx.JSON(http.StatusOK, loginResponse(login))
}

// HandleRefresh godoc
// @Summary      Refresh the upstream access token and extend the session
// @Tags         auth
// @Produce      json
// @Success      200      {object}   response.LoginResponse
// @Failure      401      {object}   response.Err
// @Router       /auth/refresh [post]
// @Security     BearerAuth
func (h *AuthHandler) HandleRefresh(ctx *gin.Context) {
	login, err := h.svc.Refresh(ctx.Request.Context(), middleware.Principal(ctx), ctx.Request.UserAgent())
	if err != nil {
		response.RenderErr(ctx, serviceErr("v1.HandleRefresh -> h.svc.Refresh", err))
		return
	}

	ctx.JSON(http.StatusOK, loginResponse(login))
}

// HandleMe godoc
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Param        sync     query      bool  false  "re-read the user from the portal"
// @Success      200      {object}   domain.User
// @Failure      401      {object}   response.Err
// @Router       /auth/me [get]
// @Security     BearerAuth
func (h *AuthHandler) HandleMe(ctx *gin.Context) {
	sync, _ := strconv.ParseBool(ctx.Query("sync"))

	user, err := h.svc.Me(ctx.Request.Context(), middleware.Principal(ctx), sync)
	if err != nil {
		response.RenderErr(ctx, serviceErr("v1.HandleMe -> h.svc.Me", err))
		return
	}

	ctx.JSON(http.StatusOK, user)
}

// HandleUpdateMe godoc
// @Summary      Update the current user's profile
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request   body      request.UpdateMeRequest true "fields to change"
// @Success      200      {object}   domain.User
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Router       /auth/me [patch]
// @Security     BearerAuth
func (h *AuthHandler) HandleUpdateMe(ctx *gin.Context) {
	var req request.UpdateMeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	user, err := h.svc.UpdateMe(ctx.Request.Context(), middleware.Principal(ctx), req.ToDomain())
	if err != nil {
		response.RenderErr(ctx, serviceErr("v1.HandleUpdateMe -> h.svc.UpdateMe", err))
		return
	}

	ctx.JSON(http.StatusOK, user)
}

// HandleLogout godoc
// @Summary      Close the session
// @Tags         auth
// @Success      204
// @Failure      401      {object}   response.Err
// @Router       /auth/logout [post]
// @Security     BearerAuth
func (h *AuthHandler) HandleLogout(ctx *gin.Context) {
	if err := h.svc.Logout(ctx.Request.Context(), middleware.Principal(ctx)); err != nil {
		response.RenderErr(ctx, serviceErr("v1.HandleLogout -> h.svc.Logout", err))
		return
	}

	ctx.Status(http.StatusNoContent)
}
