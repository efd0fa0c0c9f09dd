package monitoring

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"gobalance/internal/balancer/server"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

type WorkerStats struct {
	ID           string    `json:"id"`
	Addr         string    `json:"addr"`
	RegisteredAt time.Time `json:"registered_at"`
}

type SystemStats struct {
	// Process specific
	NumGoroutine int    `json:"num_goroutine"`
	Alloc        uint64 `json:"alloc_bytes"`
	Sys          uint64 `json:"sys_bytes"`
	NumGC        uint32 `json:"num_gc"`

	// System wide
	TotalRAM        uint64                 `json:"total_ram"`
	AvailableRAM    uint64                 `json:"available_ram"`
	UsedRAMPercent  float64                `json:"used_ram_percent"`
	TotalCPUCores   int                    `json:"total_cpu_cores"`
	CPUUsagePercent []float64              `json:"cpu_usage_percent"`
	CPUTemperatures []host.TemperatureStat `json:"cpu_temperatures"`
}

type MonitoringStatus struct {
	Timestamp    time.Time     `json:"timestamp"`
	Workers      []WorkerStats `json:"workers"`
	PendingTasks int           `json:"pending_tasks"`
	System       SystemStats   `json:"system"`
}

type Service interface {
	GetStatus(ctx context.Context) MonitoringStatus
}

type monitoringService struct {
	balancer *server.Server
}

func NewService(balancer *server.Server) Service {
	return &monitoringService{
		balancer: balancer,
	}
}

func (s *monitoringService) GetStatus(ctx context.Context) MonitoringStatus {
	// 1. Worker membership, in round-robin order.
	snapshot := s.balancer.Registry().Snapshot()
	workers := make([]WorkerStats, 0, len(snapshot))
	for _, w := range snapshot {
		workers = append(workers, WorkerStats{
			ID:           w.ID,
			Addr:         w.Addr,
			RegisteredAt: w.RegisteredAt,
		})
	}

	// 2. System stats (process)
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	// 3. System stats (host)
	vMem, _ := mem.VirtualMemory()
	cpuPercent, _ := cpu.Percent(0, true) // per cpu
	temps, _ := host.SensorsTemperatures()

	sysStats := SystemStats{
		NumGoroutine:    runtime.NumGoroutine(),
		Alloc:           memStats.Alloc,
		Sys:             memStats.Sys,
		NumGC:           memStats.NumGC,
		TotalCPUCores:   runtime.NumCPU(),
		CPUUsagePercent: cpuPercent,
		CPUTemperatures: temps,
	}
	if vMem != nil {
		sysStats.TotalRAM = vMem.Total
		sysStats.AvailableRAM = vMem.Available
		sysStats.UsedRAMPercent = vMem.UsedPercent
	}

	return MonitoringStatus{
		Timestamp:    time.Now(),
		Workers:      workers,
		PendingTasks: s.balancer.PendingTasks(),
		System:       sysStats,
	}
}

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(g *gin.RouterGroup) {
	g.GET("/monitoring", h.GetMonitoringStatus)
}

func (h *Handler) GetMonitoringStatus(c *gin.Context) {
	status := h.svc.GetStatus(c.Request.Context())
	c.JSON(http.StatusOK, status)
}
