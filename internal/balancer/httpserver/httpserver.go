package httpserver

import (
	"os"

	"gobalance/internal/balancer/auth"
	"gobalance/internal/balancer/health"
	"gobalance/internal/balancer/monitoring"
	"gobalance/internal/balancer/server"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// NewRouter arma la API administrativa del balanceador: emisión de
// tokens, health check público y monitoreo protegido con JWT.
func NewRouter(balancer *server.Server, rdb *redis.Client) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "default-secret-key" // default
	}
	adminKey := os.Getenv("ADMIN_KEY")
	if adminKey == "" {
		adminKey = "admin"
	}

	tokenManager := auth.NewJWTTokenManager(secret)
	authHandler := auth.NewHandler(adminKey, tokenManager)

	api := r.Group("/api")
	authHandler.RegisterRoutes(api.Group("/auth"))

	healthHandler := health.NewHandler(health.NewService(rdb, balancer))
	healthHandler.RegisterRoutes(api)

	protected := api.Group("/")
	protected.Use(auth.AuthMiddleware(tokenManager))
	monHandler := monitoring.NewHandler(monitoring.NewService(balancer))
	monHandler.RegisterRoutes(protected)

	return r
}
