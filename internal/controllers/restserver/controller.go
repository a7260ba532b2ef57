package restserver

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/chrissnell/fuelmoisture/internal/metrics"
	"github.com/chrissnell/fuelmoisture/pkg/config"
	"github.com/felixge/httpsnoop"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Controller represents the REST server controller
type Controller struct {
	ctx          context.Context
	wg           *sync.WaitGroup
	serverConfig config.ServerData
	Server       http.Server
	logger       *zap.SugaredLogger
	handlers     *Handlers
	registry     *prometheus.Registry
	metrics      *metrics.Recorder
}

// NewController creates a new REST server controller from the provider's
// server and model sections
func NewController(ctx context.Context, wg *sync.WaitGroup, configProvider config.ConfigProvider, logger *zap.SugaredLogger) (*Controller, error) {
	sc, err := configProvider.GetServerConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading server configuration: %w", err)
	}
	model, err := configProvider.GetModelConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading model configuration: %w", err)
	}

	ctrl := &Controller{
		ctx:          ctx,
		wg:           wg,
		serverConfig: *sc,
		logger:       logger,
	}

	// If a ListenAddr was not provided, listen on all interfaces
	if ctrl.serverConfig.ListenAddr == "" {
		logger.Info("server.listen_addr not provided; defaulting to 0.0.0.0 (all interfaces)")
		ctrl.serverConfig.ListenAddr = "0.0.0.0"
	}

	// Set default HTTP port if not specified
	if ctrl.serverConfig.Port == 0 {
		logger.Info("server.port not provided; defaulting to 8080")
		ctrl.serverConfig.Port = 8080
	}

	ctrl.registry = prometheus.NewRegistry()
	ctrl.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	ctrl.metrics, err = metrics.NewRecorder(ctrl.registry)
	if err != nil {
		return nil, fmt.Errorf("error registering metrics: %w", err)
	}

	ctrl.handlers, err = NewHandlers(*model, ctrl.serverConfig.EnableCORS, logger, ctrl.metrics)
	if err != nil {
		return nil, err
	}

	ctrl.Server.Addr = fmt.Sprintf("%v:%v", ctrl.serverConfig.ListenAddr, ctrl.serverConfig.Port)
	ctrl.Server.Handler = ctrl.Router()
	ctrl.Server.ReadHeaderTimeout = 10 * time.Second

	return ctrl, nil
}

// StartController starts the REST server and stops it when the context ends
func (c *Controller) StartController() error {
	c.logger.Infof("Starting REST server on %s...", c.Server.Addr)
	c.wg.Add(1)

	go func() {
		defer c.wg.Done()

		var err error
		if c.serverConfig.TLSCertPath != "" && c.serverConfig.TLSKeyPath != "" {
			err = c.Server.ListenAndServeTLS(c.serverConfig.TLSCertPath, c.serverConfig.TLSKeyPath)
		} else {
			err = c.Server.ListenAndServe()
		}
		if err != http.ErrServerClosed {
			c.logger.Errorf("REST server error: %v", err)
		}
	}()

	go func() {
		<-c.ctx.Done()
		c.logger.Info("Shutting down the REST server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		c.Server.Shutdown(shutdownCtx)
	}()

	return nil
}

// Router configures the HTTP router with all endpoints
func (c *Controller) Router() *mux.Router {
	router := mux.NewRouter()
	router.Use(c.requestMiddleware)

	router.HandleFunc("/healthz", c.handlers.Health).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/fuel-classes", c.handlers.FuelClasses).Methods(http.MethodGet)
	api.HandleFunc("/convert", c.handlers.Convert).Methods(http.MethodPost)
	api.HandleFunc("/emc", c.handlers.EMC).Methods(http.MethodPost)
	api.HandleFunc("/step", c.handlers.Step).Methods(http.MethodPost)
	api.HandleFunc("/forecast", c.handlers.Forecast).Methods(http.MethodPost)
	api.HandleFunc("/interpolate", c.handlers.Interpolate).Methods(http.MethodPost)
	api.HandleFunc("/trend", c.handlers.Trend).Methods(http.MethodPost)

	return router
}

// requestMiddleware tags each request with a run ID, then logs and counts it
func (c *Controller) requestMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		runID := uuid.NewString()
		w.Header().Set("X-Run-ID", runID)

		ctx := context.WithValue(r.Context(), runIDContextKey, runID)
		m := httpsnoop.CaptureMetrics(next, w, r.WithContext(ctx))

		route := r.URL.Path
		if cr := mux.CurrentRoute(r); cr != nil {
			if tmpl, err := cr.GetPathTemplate(); err == nil {
				route = tmpl
			}
		}
		c.metrics.ObserveRequest(route, r.Method, m.Code, m.Duration)

		c.logger.Infow("request",
			"run_id", runID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", m.Code,
			"duration_ms", m.Duration.Milliseconds(),
			"remote_addr", r.RemoteAddr,
		)
	})
}
