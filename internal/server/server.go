package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/mekadomus/aquaflow/internal/alert/sweep"
	"github.com/mekadomus/aquaflow/internal/config"

	accountdomain "github.com/mekadomus/aquaflow/internal/account/domain"
	fluidmeterdomain "github.com/mekadomus/aquaflow/internal/fluidmeter/domain"
	measurementdomain "github.com/mekadomus/aquaflow/internal/measurement/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(MetricsMiddleware())
	r.Use(ErrorHandlingMiddleware(log.Named("http")))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(log *zap.Logger) *gin.Engine {
	return NewEngine(log)
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
	engine         *gin.Engine
	cfg            config.Config
	log            *zap.Logger
	accountSvc     accountdomain.Service
	meterSvc       fluidmeterdomain.Service
	measurementSvc measurementdomain.Service
	sweeper        *sweep.Runner
}

type ServerParams struct {
	fx.In

	Gin            *gin.Engine
	Cfg            config.Config
	Log            *zap.Logger
	AccountSvc     accountdomain.Service
	MeterSvc       fluidmeterdomain.Service
	MeasurementSvc measurementdomain.Service
	Sweeper        *sweep.Runner
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:         p.Gin,
		cfg:            p.Cfg,
		log:            p.Log.Named("server"),
		accountSvc:     p.AccountSvc,
		meterSvc:       p.MeterSvc,
		measurementSvc: p.MeasurementSvc,
		sweeper:        p.Sweeper,
	}

	svc.registerRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerRoutes() {
	r := s.engine

	// -------- Accounts --------
	r.POST("/account", s.CreateAccount)
	r.GET("/account/:account_id", s.GetAccountByID)

	// -------- Fluid meters --------
	r.POST("/fluid-meter", s.CreateFluidMeter)
	r.GET("/fluid-meter", s.ListFluidMeters)
	r.GET("/fluid-meter/:meter_id", s.GetFluidMeterByID)
	r.POST("/fluid-meter/:meter_id/activate", s.ActivateFluidMeter)
	r.POST("/fluid-meter/:meter_id/deactivate", s.DeactivateFluidMeter)
	r.DELETE("/fluid-meter/:meter_id", s.DeleteFluidMeter)

	// -------- Measurements --------
	r.POST("/measurement", s.SaveMeasurement)
	r.GET("/fluid-meter/:meter_id/measurement", s.GetMeasurementSeries)

	// -------- Alerts --------
	r.POST("/alert", s.RunAlerts)
}
