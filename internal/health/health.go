package health

import (
	"context"
	"net/http"
	"time"

	"connectrpc.com/grpchealth"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/KasumiMercury/primind-crowd-signage/internal/service/selection"
)

// Status represents the health status of a service or dependency.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
)

// ServiceName is the service reported through the gRPC health protocol.
const ServiceName = "signage.v1.SignageService"

// CheckResult represents the health check result for a single dependency.
type CheckResult struct {
	Status    Status `json:"status"`
	LatencyMs int64  `json:"latency_ms,omitempty"`
	Detail    string `json:"detail,omitempty"`
	Error     string `json:"error,omitempty"`
}

// HealthStatus represents the overall health status of the service.
type HealthStatus struct {
	Status  Status                 `json:"status"`
	Version string                 `json:"version,omitempty"`
	Checks  map[string]CheckResult `json:"checks,omitempty"`
}

// Checker performs health checks on service dependencies.
type Checker struct {
	redisClient *redis.Client
	catalog     selection.CatalogSource
	version     string
}

var _ grpchealth.Checker = (*Checker)(nil)

// NewChecker creates a new health checker. redisClient may be nil when the
// catalog is not stored in redis.
func NewChecker(redisClient *redis.Client, catalog selection.CatalogSource, version string) *Checker {
	return &Checker{
		redisClient: redisClient,
		catalog:     catalog,
		version:     version,
	}
}

// Status performs health checks on all dependencies and returns the overall status.
func (c *Checker) Status(ctx context.Context) *HealthStatus {
	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	status := &HealthStatus{
		Status:  StatusHealthy,
		Version: c.version,
		Checks:  make(map[string]CheckResult),
	}

	if c.redisClient != nil {
		start := time.Now()
		if err := c.redisClient.Ping(checkCtx).Err(); err != nil {
			status.Status = StatusUnhealthy
			status.Checks["redis"] = CheckResult{
				Status: StatusUnhealthy,
				Error:  err.Error(),
			}
		} else {
			status.Checks["redis"] = CheckResult{
				Status:    StatusHealthy,
				LatencyMs: time.Since(start).Milliseconds(),
			}
		}
	}

	// An empty catalog still answers "No Ad Found", so it is reported but not fatal.
	if c.catalog != nil {
		current := c.catalog.Current()
		switch {
		case current == nil:
			status.Status = StatusUnhealthy
			status.Checks["catalog"] = CheckResult{
				Status: StatusUnhealthy,
				Error:  "catalog not published",
			}
		case current.Len() == 0:
			status.Checks["catalog"] = CheckResult{
				Status: StatusHealthy,
				Detail: "empty",
			}
		default:
			status.Checks["catalog"] = CheckResult{
				Status: StatusHealthy,
			}
		}
	}

	return status
}

// Check implements the gRPC health protocol for the whole server and ServiceName.
func (c *Checker) Check(ctx context.Context, req *grpchealth.CheckRequest) (*grpchealth.CheckResponse, error) {
	if req.Service != "" && req.Service != ServiceName {
		return &grpchealth.CheckResponse{Status: grpchealth.StatusUnknown}, nil
	}

	if c.Status(ctx).Status != StatusHealthy {
		return &grpchealth.CheckResponse{Status: grpchealth.StatusNotServing}, nil
	}

	return &grpchealth.CheckResponse{Status: grpchealth.StatusServing}, nil
}

// LiveHandler returns a Gin handler for liveness probes.
func (c *Checker) LiveHandler() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// ReadyHandler returns a Gin handler for readiness probes.
func (c *Checker) ReadyHandler() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		status := c.Status(ctx.Request.Context())

		httpStatus := http.StatusOK
		if status.Status != StatusHealthy {
			httpStatus = http.StatusServiceUnavailable
		}

		ctx.JSON(httpStatus, status)
	}
}

// GRPCHandler returns the route path and handler for the gRPC health service.
func (c *Checker) GRPCHandler() (string, gin.HandlerFunc) {
	path, handler := grpchealth.NewHandler(c)
	return path, gin.WrapH(handler)
}
