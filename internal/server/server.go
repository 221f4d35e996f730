package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/bookline/internal/booking"
	"github.com/smallbiznis/bookline/internal/catalog"
	"github.com/smallbiznis/bookline/internal/config"
	"github.com/smallbiznis/bookline/internal/intake"
	"github.com/smallbiznis/bookline/internal/notify"
	"github.com/smallbiznis/bookline/internal/observability"
	obsmiddleware "github.com/smallbiznis/bookline/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/bookline/internal/observability/metrics"
	obstracing "github.com/smallbiznis/bookline/internal/observability/tracing"
	"github.com/smallbiznis/bookline/internal/order"
	"github.com/smallbiznis/bookline/internal/origin"
	paymentprovider "github.com/smallbiznis/bookline/internal/providers/payment"
	"github.com/smallbiznis/bookline/internal/ratelimit"
	"github.com/smallbiznis/bookline/internal/schedule"
	"github.com/smallbiznis/bookline/internal/tenant"
	"go.uber.org/fx"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	tenant.Module,
	origin.Module,
	ratelimit.Module,
	schedule.Module,
	catalog.Module,
	booking.Module,
	order.Module,
	paymentprovider.Module,
	notify.Module,
	intake.Module,
	fx.Provide(NewServer),
	fx.Invoke(func(s *Server) {
		s.RegisterPublicRoutes()
	}),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine *gin.Engine
	cfg    config.Config
	intake *intake.Orchestrator
}

type ServerParams struct {
	fx.In

	Gin    *gin.Engine
	Cfg    config.Config
	Intake *intake.Orchestrator
}

func NewServer(p ServerParams) *Server {
	return &Server{
		engine: p.Gin,
		cfg:    p.Cfg,
		intake: p.Intake,
	}
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) RegisterPublicRoutes() {
	public := s.engine.Group("/v1/public", s.PublicCORS())

	public.POST("/bookings", s.CreateBooking)
	public.OPTIONS("/bookings", s.IntakePreflight)
	public.POST("/bookings/:id/cancel", s.CancelBooking)
	public.OPTIONS("/bookings/:id/cancel", s.IntakePreflight)
	public.POST("/orders", s.CreateOrder)
	public.OPTIONS("/orders", s.IntakePreflight)
}
