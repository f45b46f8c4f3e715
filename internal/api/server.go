package api

import (
	"context"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/G1ebS/rosatom-nko-sub000/docs"
	v1 "github.com/G1ebS/rosatom-nko-sub000/internal/api/handler/v1"
	"github.com/G1ebS/rosatom-nko-sub000/internal/api/middleware"
	"github.com/G1ebS/rosatom-nko-sub000/internal/config"
	"github.com/G1ebS/rosatom-nko-sub000/internal/newsfeed"
	"github.com/G1ebS/rosatom-nko-sub000/internal/portalapi"
	"github.com/G1ebS/rosatom-nko-sub000/internal/recommend"
	"github.com/G1ebS/rosatom-nko-sub000/internal/repository"
	"github.com/G1ebS/rosatom-nko-sub000/internal/repository/dao"
	"github.com/G1ebS/rosatom-nko-sub000/internal/service"
	"github.com/G1ebS/rosatom-nko-sub000/internal/toggle"
	"github.com/G1ebS/rosatom-nko-sub000/internal/viewmodel"
)

const sessionPurgeInterval = 10 * time.Minute

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine

	client   *portalapi.Client
	sessions *repository.SessionRepository
	builder  *viewmodel.Builder
	toasts   *v1.ToastHandler
}

type handlers struct {
	auth           *v1.AuthHandler
	catalog        *v1.CatalogHandler
	membership     *v1.MembershipHandler
	recommendation *v1.RecommendationHandler
	toast          *v1.ToastHandler
	sessionAuth    *middleware.SessionAuth
}

func NewServer(conf *config.AppConfig, db *gorm.DB) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config:   conf,
		Router:   engine,
		client:   portalapi.New(conf.Upstream.BaseURL, portalapi.WithTimeout(conf.Upstream.Timeout)),
		sessions: repository.NewSessionRepository(dao.NewSessionDAO(db)),
		builder:  viewmodel.NewBuilder(viewmodel.DefaultPalette()),
		toasts:   v1.NewToastHandler(conf.API.AllowedCORSDomains),
	}

	s.MountMiddlewares()
	s.MountHandlers(s.initHandlers())

	return s
}

func (s *Server) initHandlers() handlers {
	authSvc := service.NewAuthService(s.Config.API, s.client, s.sessions, s.toasts)
	catalogSvc := s.initCatalogService()
	membershipSvc := service.NewMembershipService(s.client, s.sessions, toggle.NewTracker(), s.toasts, s.builder)

	authSvc.OnLogout(catalogSvc.Forget)
	authSvc.OnLogout(membershipSvc.Forget)
	authSvc.OnLogout(s.toasts.Disconnect)

	return handlers{
		auth:           v1.NewAuthHandler(s.Config.API, authSvc),
		catalog:        v1.NewCatalogHandler(catalogSvc),
		membership:     v1.NewMembershipHandler(membershipSvc),
		recommendation: s.initRecommendationHandler(),
		toast:          s.toasts,
		sessionAuth:    middleware.NewSessionAuth(authSvc),
	}
}

func (s *Server) initCatalogService() *service.CatalogService {
	sources := make([]newsfeed.Source, 0, len(s.Config.NewsFeed.Sources))
	for _, src := range s.Config.NewsFeed.Sources {
		sources = append(sources, newsfeed.Source{URL: src.URL, City: src.City})
	}
	feed := newsfeed.NewFetcher(sources, s.Config.NewsFeed.Refresh)

	return service.NewCatalogService(s.client, s.builder, feed, s.toasts, s.Config.Upstream.ViewIdleTTL)
}

func (s *Server) initRecommendationHandler() *v1.RecommendationHandler {
	conf := s.Config.Recommend
	strategy := recommend.New(
		conf.EmbeddingsURL,
		conf.EmbeddingsAPIKey,
		conf.ModelLoadingDelay,
		recommend.Heuristic{DefaultCity: conf.DefaultCity},
	)
	svc := service.NewRecommendationService(s.client, strategy)

	return v1.NewRecommendationHandler(svc)
}

func (s *Server) MountMiddlewares() {
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.Logger())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(h handlers) {
	const basePath = "/api/v1"

	auth := s.Router.Group(basePath)
	{
		auth.POST("/auth/register", h.auth.HandleRegister)
		auth.POST("/auth/login", h.auth.HandleLogin)
	}

	session := s.Router.Group(basePath, h.sessionAuth.Required())
	{
		session.POST("/auth/refresh", h.auth.HandleRefresh)
		session.GET("/auth/me", h.auth.HandleMe)
		session.PATCH("/auth/me", h.auth.HandleUpdateMe)
		session.POST("/auth/logout", h.auth.HandleLogout)

		session.POST("/ngos/:id/favorite", h.membership.HandleFavorite)
		session.DELETE("/ngos/:id/favorite", h.membership.HandleFavorite)
		session.POST("/events/:id/register", h.membership.HandleRegistration)
		session.DELETE("/events/:id/register", h.membership.HandleRegistration)
		session.POST("/materials/:id/save", h.membership.HandleSave)
		session.DELETE("/materials/:id/save", h.membership.HandleSave)
		session.GET("/library", h.membership.HandleLibrary)

		session.POST("/news", h.catalog.HandleCreateNews)
		session.DELETE("/news/:id", h.catalog.HandleDeleteNews)
		session.POST("/events", h.catalog.HandleCreateEvent)

		session.GET("/recommendations", h.recommendation.HandleGetRecommendations)
		session.GET("/toasts", h.toast.HandleWebSocket)
	}

	views := s.Router.Group(basePath, h.sessionAuth.Optional())
	{
		views.GET("/views/ngos", h.catalog.HandleListOrganizations)
		views.GET("/views/events", h.catalog.HandleListEvents)
		views.GET("/views/events/calendar", h.catalog.HandleCalendar)
		views.GET("/views/materials", h.catalog.HandleListMaterials)
		views.GET("/views/news", h.catalog.HandleListNews)
		views.GET("/views/partner-news", h.catalog.HandleListPartnerNews)

		views.GET("/categories", h.catalog.HandleGetCategories)
		views.GET("/ngos/:id", h.catalog.HandleGetOrganization)
		views.GET("/events/:id", h.catalog.HandleGetEvent)
		views.GET("/materials/:id", h.catalog.HandleGetMaterial)
		views.GET("/news/:id", h.catalog.HandleGetNews)

		views.POST("/recommendations", h.recommendation.HandleRankRecommendations)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.Host
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "NGO portal gateway API"
	docs.SwaggerInfo.Description = "Backend-for-frontend of the NGO portal: list views, memberships, recommendations."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}

// RunBackground starts the toast hub and the expired session purge; both
// stop with ctx.
func (s *Server) RunBackground(ctx context.Context) {
	go s.toasts.Run(ctx)
	go s.purgeSessions(ctx)
}

func (s *Server) purgeSessions(ctx context.Context) {
	ticker := time.NewTicker(sessionPurgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := s.sessions.PurgeExpired(ctx, now)
			if err != nil {
				zap.L().Warn("session purge failed", zap.Error(err))
				continue
			}
			if n > 0 {
				zap.L().Info("expired sessions purged", zap.Int64("count", n))
			}
		}
	}
}
