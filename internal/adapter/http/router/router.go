package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/saralopezbz/iris-predictor/internal/adapter/http/handler"
	"github.com/saralopezbz/iris-predictor/internal/adapter/http/middleware"
	"github.com/saralopezbz/iris-predictor/internal/domain/service"
	"github.com/saralopezbz/iris-predictor/internal/usecase"
)

// Setup creates and configures the Gin router.
// A nil gatherer leaves /metrics unregistered.
func Setup(model *service.ModelHandle, predictUC usecase.PredictUsecase, gatherer prometheus.Gatherer, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true

	// Middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.CORS())

	router.NoRoute(handler.NotFound)
	router.NoMethod(handler.MethodNotAllowed)

	// Health endpoints
	healthHandler := handler.NewHealthHandler(model)
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	// Prometheus metrics
	if gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	// Prediction API
	predictHandler := handler.NewPredictHandler(predictUC, logger)
	router.GET("/", predictHandler.Home)
	router.POST("/predict", predictHandler.Predict)

	return router
}
