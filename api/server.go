package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/OldStager01/energy-advisor/api/handlers"
	"github.com/OldStager01/energy-advisor/api/middleware"
	"github.com/OldStager01/energy-advisor/api/templates"
	"github.com/OldStager01/energy-advisor/api/websocket"
	_ "github.com/OldStager01/energy-advisor/docs"
	"github.com/OldStager01/energy-advisor/internal/advisor"
	"github.com/OldStager01/energy-advisor/internal/events"
	"github.com/OldStager01/energy-advisor/internal/history"
	"github.com/OldStager01/energy-advisor/internal/metrics"
	"github.com/OldStager01/energy-advisor/pkg/config"
	"github.com/OldStager01/energy-advisor/pkg/database"
)

// uploadRatePerMinute caps form submits and bill uploads per client on top of
// the global limit.
const uploadRatePerMinute = 20

// Dependencies are the collaborators the server routes to. Advisor is nil
// when the artifacts failed to load; LoadError then says why.
type Dependencies struct {
	Advisor   *advisor.Service
	LoadError error
	DB        *database.DB
	History   history.Store
	Bus       *events.EventBus
	Metrics   *metrics.Metrics
}

type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	config     *config.Config
	deps       Dependencies
	publisher  *events.Publisher
	wsHub      *websocket.Hub
	wsBridge   *websocket.EventBridge
}

func NewServer(cfg *config.Config, deps Dependencies) (*Server, error) {
	if cfg.App.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	tmpl, err := templates.Load()
	if err != nil {
		return nil, err
	}

	if deps.Metrics == nil {
		deps.Metrics = metrics.Get()
	}

	router := gin.New()
	router.SetHTMLTemplate(tmpl)

	s := &Server{
		router: router,
		config: cfg,
		deps:   deps,
		wsHub:  websocket.NewHub(&cfg.WebSocket),
	}
	if deps.Bus != nil {
		s.publisher = events.NewPublisher(deps.Bus)
	}

	s.setupMiddleware()
	s.setupRoutes()

	go s.wsHub.Run()

	// Forward bus events to live WebSocket viewers
	if deps.Bus != nil {
		s.wsBridge = websocket.NewEventBridge(s.wsHub, deps.Bus.SubscribeAll())
		s.wsBridge.Start()
	}

	return s, nil
}

func (s *Server) setupMiddleware() {
	api := s.config.API

	s.router.Use(gin.Recovery())
	s.router.Use(middleware.CORS(api.CORS))
	s.router.Use(middleware.TraceID())
	s.router.Use(middleware.RequestLogger())
	s.router.Use(middleware.SecurityHeaders())
	s.router.Use(middleware.RateLimit(middleware.NewRateLimiter(api.RateLimit, api.RateBurst)))
	s.router.Use(middleware.RequestSizeLimit(api.MaxUploadBytes))

	endpointLimiter := middleware.NewEndpointRateLimiter(
		middleware.EndpointLimit{Method: http.MethodPost, Path: "/api/v1/bills/upload", PerMinute: uploadRatePerMinute, Burst: 5},
		middleware.EndpointLimit{Method: http.MethodPost, Path: "/", PerMinute: uploadRatePerMinute, Burst: 5},
	)
	s.router.Use(endpointLimiter.Middleware())
}

// advisorOrNil keeps a nil service from becoming a non-nil interface.
func (s *Server) advisorOrNil() handlers.Advisor {
	if s.deps.Advisor == nil {
		return nil
	}
	return s.deps.Advisor
}

func (s *Server) historyCheckerOrNil() handlers.HistoryChecker {
	if s.deps.DB == nil {
		return nil
	}
	return s.deps.DB
}

func (s *Server) setupRoutes() {
	svc := s.advisorOrNil()
	loadErr := s.deps.LoadError
	queryTimeout := s.config.Advisor.QueryTimeout

	healthHandler := handlers.NewHealthHandler(s.historyCheckerOrNil(), loadErr)
	webHandler := handlers.NewWebHandler(svc, loadErr, s.publisher, queryTimeout)
	applianceHandler := handlers.NewApplianceHandler(svc, loadErr)
	recommendationHandler := handlers.NewRecommendationHandler(svc, loadErr, s.deps.History, s.config.API, queryTimeout)
	billsHandler := handlers.NewBillsHandler(s.publisher)

	// Form
	s.router.GET("/", webHandler.Index)
	s.router.POST("/", webHandler.Submit)

	// Health
	s.router.GET("/health", healthHandler.Health)
	s.router.GET("/health/ready", healthHandler.Ready)
	s.router.GET("/health/live", healthHandler.Live)

	if s.config.Prometheus.Enabled {
		s.router.GET("/metrics", gin.WrapH(s.deps.Metrics.Handler()))
	}

	s.router.GET("/ws", websocket.ServeWebSocket(s.wsHub))
	s.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := s.router.Group("/api/v1")
	{
		v1.GET("/appliances", applianceHandler.List)
		v1.GET("/tips/:appliance", applianceHandler.Tips)

		v1.POST("/recommendations", recommendationHandler.Create)
		v1.GET("/recommendations/recent", recommendationHandler.Recent)
		v1.GET("/recommendations/:id", recommendationHandler.Get)

		v1.POST("/bills/upload", billsHandler.Upload)
	}
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.API.Port)

	idle := s.config.API.IdleTimeout
	if idle <= 0 {
		idle = 60 * time.Second
	}

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.API.ReadTimeout,
		WriteTimeout: s.config.API.WriteTimeout,
		IdleTimeout:  idle,
	}

	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.wsBridge != nil {
		s.wsBridge.Stop()
	}
	s.wsHub.Stop()

	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) Router() *gin.Engine {
	return s.router
}
