package health

import (
	"context"
	"net/http"
	"time"

	"gobalance/internal/balancer/server"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type Status struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Services  map[string]interface{} `json:"services"`
}

type Service interface {
	Check(ctx context.Context) Status
}

type healthService struct {
	rdb      *redis.Client
	balancer *server.Server
}

func NewService(rdb *redis.Client, balancer *server.Server) Service {
	return &healthService{
		rdb:      rdb,
		balancer: balancer,
	}
}

func (s *healthService) Check(ctx context.Context) Status {
	services := make(map[string]interface{})
	overallStatus := "ok"

	// 1. Redis check. The mirror is optional, so a missing Redis only
	// degrades the report, never the balancer itself.
	redisStatus := "ok"
	if s.rdb == nil {
		redisStatus = "disabled"
	} else if err := s.rdb.Ping(ctx).Err(); err != nil {
		redisStatus = "down"
		overallStatus = "degraded"
	}
	services["redis"] = map[string]string{
		"status": redisStatus,
	}

	// 2. Dispatcher check: worker membership and in-flight tasks.
	workerCount := s.balancer.Registry().Len()
	dispatcherStatus := "ok"
	if workerCount == 0 {
		// Tasks submitted now would be rejected with a failure result.
		dispatcherStatus = "no_workers"
		overallStatus = "degraded"
	}
	services["dispatcher"] = map[string]interface{}{
		"status":        dispatcherStatus,
		"worker_count":  workerCount,
		"pending_tasks": s.balancer.PendingTasks(),
	}

	return Status{
		Status:    overallStatus,
		Timestamp: time.Now(),
		Services:  services,
	}
}

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(g *gin.RouterGroup) {
	g.GET("/health", h.HealthCheck)
}

func (h *Handler) HealthCheck(c *gin.Context) {
	status := h.svc.Check(c.Request.Context())
	httpStatus := http.StatusOK
	if status.Status != "ok" {
		httpStatus = http.StatusServiceUnavailable
	}
	c.JSON(httpStatus, status)
}
