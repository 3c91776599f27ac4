package main

import (
	"context"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.uber.org/fx"
	"regpay/cmd/fx/db_fx"
	"regpay/cmd/fx/mail_fx"
	"regpay/cmd/fx/payments_fx"
	"regpay/cmd/fx/provider_fx"
	"regpay/cmd/fx/tracking_fx"
	"regpay/internal/api/controllers"
	"regpay/internal/metrics"
	"regpay/pkg/middleware"
)

func main() {
	_ = godotenv.Load()

	log.SetFormatter(&log.JSONFormatter{})
	log.SetLevel(log.InfoLevel)

	app := fx.New(
		db_fx.Module,
		mail_fx.Module,
		provider_fx.Module,
		payments_fx.Module,
		tracking_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := os.Getenv("PORT")
				if port == "" {
					port = "8080"
				}
				log.WithField("port", port).Info("Starting HTTP server")
				if err := engine.Run(":" + port); err != nil {
					log.WithError(err).Fatal("Failed to start server")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Stopping HTTP server")
			return nil
		},
	})
}

func ProvideRouter(
	paymentController *controllers.PaymentController,
	trackingController *controllers.TrackingController) *gin.Engine {

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.TraceIDMiddleware())
	r.Use(metrics.PrometheusMiddleware())

	RegisterRoutes(r, paymentController, trackingController)

	return r
}

func RegisterRoutes(r *gin.Engine,
	paymentController *controllers.PaymentController,
	trackingController *controllers.TrackingController) {

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	paymentsGroup := r.Group("/payments")
	paymentsGroup.POST("/webhook/:provider", paymentController.HandleWebhook)
	paymentsGroup.POST("/verify", middleware.OptionalJWTMiddleware(), paymentController.VerifyPayment)

	r.POST("/tracking", trackingController.TrackRequests)
}
