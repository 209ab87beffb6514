// Package httpapi exposes the Pragati backend over HTTP using gin. The
// mapping from error kinds to status codes lives here and nowhere else;
// services below this layer return errors, not statuses.
package httpapi

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/joyal-jij0/pragati/internal/auth"
	"github.com/joyal-jij0/pragati/internal/inference"
	"github.com/joyal-jij0/pragati/internal/logging"
	"github.com/joyal-jij0/pragati/internal/schemes"
	"github.com/joyal-jij0/pragati/internal/weather"
)

// WeatherProvider yields reshaped weather data for a location.
type WeatherProvider interface {
	Fetch(ctx context.Context, location string) (*weather.Response, error)
}

// SchemesProvider yields the current government scheme listing.
type SchemesProvider interface {
	List(ctx context.Context) (*schemes.Listing, error)
}

// ImageStore persists uploaded crop images and hands out readable URLs.
type ImageStore interface {
	Put(ctx context.Context, kind string, body io.Reader, contentType string) (string, error)
	PresignGet(ctx context.Context, key string) (string, error)
}

// ModelClient runs detections and predictions on the model server.
type ModelClient interface {
	DetectDisease(ctx context.Context, imageURL string) (inference.Detection, error)
	DetectPest(ctx context.Context, imageURL string) (inference.Detection, error)
	PredictMarketPrice(ctx context.Context, req inference.MarketPriceRequest) (float64, error)
}

// Services bundles everything the routes need.
type Services struct {
	Auth    *auth.Service
	Weather WeatherProvider
	Schemes SchemesProvider
	Uploads ImageStore
	Models  ModelClient
}

// NewRouter builds the gin engine with all routes registered.
func NewRouter(logger logging.Logger, svcs Services) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length", "Content-Type"},
		MaxAge:        12 * time.Hour,
	}))

	api := r.Group("/api/v1")
	api.GET("/healthcheck", healthcheckHandler)

	ah := &AuthHandler{svc: svcs.Auth}
	api.POST("/users/register", ah.Register)
	api.POST("/users/login", ah.Login)
	api.POST("/users/refresh", ah.Refresh)

	adv := &AdvisoryHandler{weather: svcs.Weather, schemes: svcs.Schemes}
	api.GET("/weather/:location", adv.Weather)
	api.GET("/schemes", adv.Schemes)

	protected := api.Group("", RequireAuth(svcs.Auth))
	protected.GET("/users/me", ah.Me)

	dh := &DetectHandler{uploads: svcs.Uploads, models: svcs.Models, logger: logger.With("component", "httpapi")}
	protected.POST("/market-price/predict", dh.MarketPrice)
	protected.POST("/disease-detect", dh.Disease)
	protected.POST("/pest-detect", dh.Pest)

	return r
}

func healthcheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
