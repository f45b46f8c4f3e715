package v1

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/G1ebS/rosatom-nko-sub000/internal/api/handler/v1/request"
	"github.com/G1ebS/rosatom-nko-sub000/internal/api/handler/v1/response"
	"github.com/G1ebS/rosatom-nko-sub000/internal/api/middleware"
	"github.com/G1ebS/rosatom-nko-sub000/internal/domain"
	"github.com/G1ebS/rosatom-nko-sub000/internal/service"
	"github.com/G1ebS/rosatom-nko-sub000/internal/viewmodel"
)

type MembershipService interface {
	SetFavorite(ctx context.Context, p domain.Principal, organizationID int, want bool) (service.Membership, error)
	SetRegistration(ctx context.Context, p domain.Principal, eventID int, want bool, details *domain.RegistrationDetails) (service.Membership, error)
	SetSaved(ctx context.Context, p domain.Principal, materialID int, want bool) (service.Membership, error)
	Library(ctx context.Context, p domain.Principal) ([]viewmodel.MaterialCard, error)
}

type MembershipHandler struct {
	svc MembershipService
}

func NewMembershipHandler(svc MembershipService) *MembershipHandler {
	return &MembershipHandler{
		svc: svc,
	}
}

func (h *MembershipHandler) render(ctx *gin.Context, op string, m service.Membership, err error) {
	if err != nil {
		response.RenderErr(ctx, serviceErr(op, err))
		return
	}

	ctx.JSON(http.StatusOK, m)
}

// HandleFavorite godoc
// @Summary      Add (POST) or remove (DELETE) an organisation from favourites
// @Tags         membership
// @Produce      json
// @Param        id   path      int  true  "organisation ID"
// @Success      200      {object}   service.Membership
// @Failure      401      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      502      {object}   response.Err
// @Router       /ngos/{id}/favorite [post]
// @Router       /ngos/{id}/favorite [delete]
// @Security     BearerAuth
func (h *MembershipHandler) HandleFavorite(ctx *gin.Context) {
	id, err := paramID(ctx, "id")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	want := ctx.Request.Method == http.MethodPost
	m, err := h.svc.SetFavorite(ctx.Request.Context(), middleware.Principal(ctx), id, want)
	h.render(ctx, "v1.HandleFavorite -> h.svc.SetFavorite", m, err)
}

// HandleRegistration godoc
// @Summary      Register for (POST) or unregister from (DELETE) an event
// @Tags         membership
// @Accept       json
// @Produce      json
// @Param        id        path      int  true  "event ID"
// @Param        request   body      request.RegisterForEventRequest false "contact details"
// @Success      200      {object}   service.Membership
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      502      {object}   response.Err
// @Router       /events/{id}/register [post]
// @Router       /events/{id}/register [delete]
// @Security     BearerAuth
func (h *MembershipHandler) HandleRegistration(ctx *gin.Context) {
	id, err := paramID(ctx, "id")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	want := ctx.Request.Method == http.MethodPost

	var details *domain.RegistrationDetails
	if want {
		var req request.RegisterForEventRequest
		if err = ctx.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		if err = req.Validate(); err != nil {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}
		details = req.ToDomain()
	}

	m, err := h.svc.SetRegistration(ctx.Request.Context(), middleware.Principal(ctx), id, want, details)
	h.render(ctx, "v1.HandleRegistration -> h.svc.SetRegistration", m, err)
}

// HandleSave godoc
// @Summary      Save (POST) or unsave (DELETE) a material in the library
// @Tags         membership
// @Produce      json
// @Param        id   path      int  true  "material ID"
// @Success      200      {object}   service.Membership
// @Failure      401      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      502      {object}   response.Err
// @Router       /materials/{id}/save [post]
// @Router       /materials/{id}/save [delete]
// @Security     BearerAuth
func (h *MembershipHandler) HandleSave(ctx *gin.Context) {
	id, err := paramID(ctx, "id")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	want := ctx.Request.Method == http.MethodPost
	m, err := h.svc.SetSaved(ctx.Request.Context(), middleware.Principal(ctx), id, want)
	h.render(ctx, "v1.HandleSave -> h.svc.SetSaved", m, err)
}

// HandleLibrary godoc
// @Summary      Materials saved by the current user
// @Tags         membership
// @Produce      json
// @Success      200      {array}    viewmodel.MaterialCard
// @Failure      401      {object}   response.Err
// @Failure      502      {object}   response.Err
// @Router       /library [get]
// @Security     BearerAuth
func (h *MembershipHandler) HandleLibrary(ctx *gin.Context) {
	cards, err := h.svc.Library(ctx.Request.Context(), middleware.Principal(ctx))
	if err != nil {
		response.RenderErr(ctx, serviceErr("v1.HandleLibrary -> h.svc.Library", err))
		return
	}

	ctx.JSON(http.StatusOK, cards)
}
