package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/G1ebS/rosatom-nko-sub000/internal/api/handler/v1/request"
	"github.com/G1ebS/rosatom-nko-sub000/internal/api/handler/v1/response"
	"github.com/G1ebS/rosatom-nko-sub000/internal/api/middleware"
	"github.com/G1ebS/rosatom-nko-sub000/internal/domain"
	"github.com/G1ebS/rosatom-nko-sub000/internal/recommend"
)

type RecommendationService interface {
	ForPrincipal(ctx context.Context, p domain.Principal) (recommend.Result, error)
	Rank(ctx context.Context, profile recommend.Profile, candidates []domain.Organization) (recommend.Result, error)
}

type RecommendationHandler struct {
	svc RecommendationService
}

func NewRecommendationHandler(svc RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{
		svc: svc,
	}
}

// HandleGetRecommendations godoc
// @Summary      Top organisations for the current user
// @Tags         recommendations
// @Produce      json
// @Success      200      {object}   recommend.Result
// @Failure      401      {object}   response.Err
// @Failure      502      {object}   response.Err
// @Router       /recommendations [get]
// @Security     BearerAuth
func (h *RecommendationHandler) HandleGetRecommendations(ctx *gin.Context) {
	res, err := h.svc.ForPrincipal(ctx.Request.Context(), middleware.Principal(ctx))
	if err != nil {
		response.RenderErr(ctx, serviceErr("v1.HandleGetRecommendations -> h.svc.ForPrincipal", err))
		return
	}

	ctx.JSON(http.StatusOK, res)
}

// HandleRankRecommendations godoc
// @Summary      Rank supplied organisations for a supplied profile
// @Tags         recommendations
// @Accept       json
// @Produce      json
// @Param        request   body      request.RecommendRequest true "profile and candidates"
// @Success      200      {object}   recommend.Result
// @Failure      400      {object}   response.Err
// @Router       /recommendations [post]
func (h *RecommendationHandler) HandleRankRecommendations(ctx *gin.Context) {
	var req request.RecommendRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	res, err := h.svc.Rank(ctx.Request.Context(), req.Profile, req.Candidates)
	if err != nil {
		response.RenderErr(ctx, serviceErr("v1.HandleRankRecommendations -> h.svc.Rank", err))
		return
	}

	ctx.JSON(http.StatusOK, res)
}
