package v1

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/G1ebS/rosatom-nko-sub000/internal/api/handler/v1/request"
	"github.com/G1ebS/rosatom-nko-sub000/internal/api/handler/v1/response"
	"github.com/G1ebS/rosatom-nko-sub000/internal/api/middleware"
	"github.com/G1ebS/rosatom-nko-sub000/internal/domain"
	"github.com/G1ebS/rosatom-nko-sub000/internal/listing"
	"github.com/G1ebS/rosatom-nko-sub000/internal/service"
	"github.com/G1ebS/rosatom-nko-sub000/internal/viewmodel"
)

// maxImageBytes caps uploaded news images.
const maxImageBytes = 5 << 20

type CatalogService interface {
	Categories(ctx context.Context, p domain.Principal) ([]domain.Category, error)
	Organizations(ctx context.Context, p domain.Principal, f listing.Facets, page int) (service.View[viewmodel.OrganizationCard], error)
	Events(ctx context.Context, p domain.Principal, f listing.Facets, page int) (service.View[viewmodel.EventCard], error)
	Calendar(ctx context.Context, p domain.Principal, f listing.Facets) (service.CalendarView, error)
	Materials(ctx context.Context, p domain.Principal, f listing.Facets, page int) (service.View[viewmodel.MaterialCard], error)
	News(ctx context.Context, p domain.Principal, f listing.Facets, page int) (service.View[viewmodel.NewsCard], error)
	PartnerNews(ctx context.Context, p domain.Principal, f listing.Facets, page int) (service.View[viewmodel.NewsCard], error)
	Organization(ctx context.Context, p domain.Principal, id int) (viewmodel.OrganizationCard, error)
	Event(ctx context.Context, p domain.Principal, id int) (viewmodel.EventCard, error)
	Material(ctx context.Context, p domain.Principal, id int) (viewmodel.MaterialCard, error)
	NewsItem(ctx context.Context, p domain.Principal, id int) (viewmodel.NewsCard, error)
	CreateNews(ctx context.Context, p domain.Principal, d domain.NewsDraft) (viewmodel.NewsCard, error)
	DeleteNews(ctx context.Context, p domain.Principal, id int) error
	CreateEvent(ctx context.Context, p domain.Principal, d domain.EventDraft) (viewmodel.EventCard, error)
}

type CatalogHandler struct {
	svc CatalogService
}

func NewCatalogHandler(svc CatalogService) *CatalogHandler {
	return &CatalogHandler{
		svc: svc,
	}
}

func bindListQuery(ctx *gin.Context) (request.ListQuery, bool) {
	var q request.ListQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return q, false
	}

	if err := q.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return q, false
	}

	return q, true
}

// serveList binds the list query, runs load and renders its view.
func serveList[C any](ctx *gin.Context, op string, load func(context.Context, domain.Principal, listing.Facets, int) (service.View[C], error)) {
	q, ok := bindListQuery(ctx)
	if !ok {
		return
	}

	view, err := load(ctx.Request.Context(), middleware.Principal(ctx), q.Facets(), q.Page)
	if err != nil {
		response.RenderErr(ctx, serviceErr(op, err))
		return
	}

	ctx.JSON(http.StatusOK, view)
}

// HandleGetCategories godoc
// @Summary      Categories for the filter dropdowns
// @Tags         catalog
// @Produce      json
// @Success      200      {array}    domain.Category
// @Failure      502      {object}   response.Err
// @Router       /categories [get]
func (h *CatalogHandler) HandleGetCategories(ctx *gin.Context) {
	cats, err := h.svc.Categories(ctx.Request.Context(), middleware.Principal(ctx))
	if err != nil {
		response.RenderErr(ctx, serviceErr("v1.HandleGetCategories -> h.svc.Categories", err))
		return
	}

	ctx.JSON(http.StatusOK, cats)
}

// HandleListOrganizations godoc
// @Summary      Organisation directory page
// @Tags         views
// @Produce      json
// @Param        city      query     string  false  "city or Все"
// @Param        category  query     string  false  "category name or slug"
// @Param        search    query     string  false  "text search"
// @Param        page      query     int     false  "page, kept when omitted"
// @Success      200      {object}   service.View[viewmodel.OrganizationCard]
// @Failure      400      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      502      {object}   response.Err
// @Router       /views/ngos [get]
func (h *CatalogHandler) HandleListOrganizations(ctx *gin.Context) {
	serveList(ctx, "v1.HandleListOrganizations -> h.svc.Organizations", h.svc.Organizations)
}

// HandleListEvents godoc
// @Summary      Event list page
// @Tags         views
// @Produce      json
// @Param        city      query     string  false  "city or Все"
// @Param        category  query     string  false  "category name or slug"
// @Param        format    query     string  false  "Онлайн, Офлайн or Все"
// @Param        search    query     string  false  "text search"
// @Param        date      query     string  false  "YYYY-MM-DD"
// @Param        page      query     int     false  "page, kept when omitted"
// @Success      200      {object}   service.View[viewmodel.EventCard]
// @Failure      400      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      502      {object}   response.Err
// @Router       /views/events [get]
func (h *CatalogHandler) HandleListEvents(ctx *gin.Context) {
	serveList(ctx, "v1.HandleListEvents -> h.svc.Events", h.svc.Events)
}

// HandleCalendar godoc
// @Summary      Event calendar with the selected day's events
// @Tags         views
// @Produce      json
// @Param        city      query     string  false  "city or Все"
// @Param        category  query     string  false  "category name or slug"
// @Param        format    query     string  false  "Онлайн, Офлайн or Все"
// @Param        date      query     string  false  "selected day, YYYY-MM-DD"
// @Success      200      {object}   service.CalendarView
// @Failure      400      {object}   response.Err
// @Failure      502      {object}   response.Err
// @Router       /views/events/calendar [get]
func (h *CatalogHandler) HandleCalendar(ctx *gin.Context) {
	q, ok := bindListQuery(ctx)
	if !ok {
		return
	}

	cal, err := h.svc.Calendar(ctx.Request.Context(), middleware.Principal(ctx), q.Facets())
	if err != nil {
		response.RenderErr(ctx, serviceErr("v1.HandleCalendar -> h.svc.Calendar", err))
		return
	}

	ctx.JSON(http.StatusOK, cal)
}

// HandleListMaterials godoc
// @Summary      Knowledge base page
// @Tags         views
// @Produce      json
// @Param        category  query     string  false  "tag"
// @Param        kind      query     string  false  "PDF, video, link, other or Все"
// @Param        search    query     string  false  "text search"
// @Param        page      query     int     false  "page, kept when omitted"
// @Success      200      {object}   service.View[viewmodel.MaterialCard]
// @Failure      400      {object}   response.Err
// @Failure      502      {object}   response.Err
// @Router       /views/materials [get]
func (h *CatalogHandler) HandleListMaterials(ctx *gin.Context) {
	serveList(ctx, "v1.HandleListMaterials -> h.svc.Materials", h.svc.Materials)
}

// HandleListNews godoc
// @Summary      News page
// @Tags         views
// @Produce      json
// @Param        city      query     string  false  "city or Все"
// @Param        category  query     string  false  "category"
// @Param        search    query     string  false  "text search"
// @Param        page      query     int     false  "page, kept when omitted"
// @Success      200      {object}   service.View[viewmodel.NewsCard]
// @Failure      400      {object}   response.Err
// @Failure      502      {object}   response.Err
// @Router       /views/news [get]
func (h *CatalogHandler) HandleListNews(ctx *gin.Context) {
	serveList(ctx, "v1.HandleListNews -> h.svc.News", h.svc.News)
}

// HandleListPartnerNews godoc
// @Summary      Partner feed news page
// @Tags         views
// @Produce      json
// @Param        city      query     string  false  "city or Все"
// @Param        search    query     string  false  "text search"
// @Param        page      query     int     false  "page, kept when omitted"
// @Success      200      {object}   service.View[viewmodel.NewsCard]
// @Failure      400      {object}   response.Err
// @Router       /views/partner-news [get]
func (h *CatalogHandler) HandleListPartnerNews(ctx *gin.Context) {
	serveList(ctx, "v1.HandleListPartnerNews -> h.svc.PartnerNews", h.svc.PartnerNews)
}

// serveItem reads the id parameter and renders what get returns for it.
func serveItem[C any](ctx *gin.Context, resource, op string, get func(context.Context, domain.Principal, int) (C, error)) {
	id, err := paramID(ctx, "id")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	item, err := get(ctx.Request.Context(), middleware.Principal(ctx), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(resource, "ID", id))
			return
		}

		response.RenderErr(ctx, serviceErr(op, err))
		return
	}

	ctx.JSON(http.StatusOK, item)
}

// HandleGetOrganization godoc
// @Summary      One organisation
// @Tags         catalog
// @Produce      json
// @Param        id   path      int  true  "organisation ID"
// @Success      200      {object}   viewmodel.OrganizationCard
// @Failure      404      {object}   response.Err
// @Router       /ngos/{id} [get]
func (h *CatalogHandler) HandleGetOrganization(ctx *gin.Context) {
	serveItem(ctx, "organization", "v1.HandleGetOrganization -> h.svc.Organization", h.svc.Organization)
}

// HandleGetEvent godoc
// @Summary      One event
// @Tags         catalog
// @Produce      json
// @Param        id   path      int  true  "event ID"
// @Success      200      {object}   viewmodel.EventCard
// @Failure      404      {object}   response.Err
// @Router       /events/{id} [get]
func (h *CatalogHandler) HandleGetEvent(ctx *gin.Context) {
	serveItem(ctx, "event", "v1.HandleGetEvent -> h.svc.Event", h.svc.Event)
}

// HandleGetMaterial godoc
// @Summary      One material; counts as a view
// @Tags         catalog
// @Produce      json
// @Param        id   path      int  true  "material ID"
// @Success      200      {object}   viewmodel.MaterialCard
// @Failure      404      {object}   response.Err
// @Router       /materials/{id} [get]
func (h *CatalogHandler) HandleGetMaterial(ctx *gin.Context) {
	serveItem(ctx, "material", "v1.HandleGetMaterial -> h.svc.Material", h.svc.Material)
}

// HandleGetNews godoc
// @Summary      One news item
// @Tags         catalog
// @Produce      json
// @Param        id   path      int  true  "news ID"
// @Success      200      {object}   viewmodel.NewsCard
// @Failure      404      {object}   response.Err
// @Router       /news/{id} [get]
func (h *CatalogHandler) HandleGetNews(ctx *gin.Context) {
	serveItem(ctx, "news", "v1.HandleGetNews -> h.svc.NewsItem", h.svc.NewsItem)
}

// HandleCreateNews godoc
// @Summary      Submit a news item for moderation
// @Tags         catalog
// @Accept       multipart/form-data
// @Produce      json
// @Param        title     formData  string  true   "title"
// @Param        content   formData  string  true   "content"
// @Param        snippet   formData  string  false  "snippet"
// @Param        city      formData  string  false  "city"
// @Param        category  formData  string  false  "category name or slug"
// @Param        image     formData  file    false  "image"
// @Success      201      {object}   viewmodel.NewsCard
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Router       /news [post]
// @Security     BearerAuth
func (h *CatalogHandler) HandleCreateNews(ctx *gin.Context) {
	var req request.CreateNewsRequest
	if err := ctx.ShouldBind(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	draft := req.ToDomain()
	if fh, err := ctx.FormFile("image"); err == nil {
		if fh.Size > maxImageBytes {
			response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("image is larger than %d bytes", maxImageBytes)))
			return
		}

		f, err := fh.Open()
		if err != nil {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}
		defer f.Close()

		if draft.Image, err = io.ReadAll(f); err != nil {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}
		draft.ImageName = fh.Filename
	}

	card, err := h.svc.CreateNews(ctx.Request.Context(), middleware.Principal(ctx), draft)
	if err != nil {
		response.RenderErr(ctx, serviceErr("v1.HandleCreateNews -> h.svc.CreateNews", err))
		return
	}

	ctx.JSON(http.StatusCreated, card)
}

// HandleDeleteNews godoc
// @Summary      Delete a news item
// @Tags         catalog
// @Param        id   path      int  true  "news ID"
// @Success      204
// @Failure      401      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Router       /news/{id} [delete]
// @Security     BearerAuth
func (h *CatalogHandler) HandleDeleteNews(ctx *gin.Context) {
	id, err := paramID(ctx, "id")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err = h.svc.DeleteNews(ctx.Request.Context(), middleware.Principal(ctx), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("news", "ID", id))
			return
		}

		response.RenderErr(ctx, serviceErr("v1.HandleDeleteNews -> h.svc.DeleteNews", err))
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleCreateEvent godoc
// @Summary      Create an event for an organisation
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Param        request   body      request.CreateEventRequest true "event"
// @Success      201      {object}   viewmodel.EventCard
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Router       /events [post]
// @Security     BearerAuth
func (h *CatalogHandler) HandleCreateEvent(ctx *gin.Context) {
	var req request.CreateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	card, err := h.svc.CreateEvent(ctx.Request.Context(), middleware.Principal(ctx), req.ToDomain())
	if err != nil {
		response.RenderErr(ctx, serviceErr("v1.HandleCreateEvent -> h.svc.CreateEvent", err))
		return
	}

	ctx.JSON(http.StatusCreated, card)
}
