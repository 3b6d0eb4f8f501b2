package services

import (
	"context"
	"time"

	"github.com/NomadCrew/nomad-diary-backend/logger"
	"github.com/NomadCrew/nomad-diary-backend/types"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Pinger is satisfied by *pgxpool.Pool and pgxmock pools.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PoolStats reports acquired and maximum connections of the database pool.
type PoolStats func() (acquired, max int32)

type HealthService struct {
	db          Pinger
	redisClient *redis.Client
	poolStats   PoolStats
	version     string
	startTime   time.Time
	log         *zap.SugaredLogger
}

// NewHealthService checks db and, when it is non-nil, redisClient.
func NewHealthService(db Pinger, redisClient *redis.Client, version string) *HealthService {
	return &HealthService{
		db:          db,
		redisClient: redisClient,
		version:     version,
		startTime:   time.Now(),
		log:         logger.GetLogger(),
	}
}

// SetPoolStats enables the pool-saturation check.
func (h *HealthService) SetPoolStats(f PoolStats) {
	h.poolStats = f
}

func worse(a, b types.HealthStatus) types.HealthStatus {
	rank := map[types.HealthStatus]int{types.HealthStatusUp: 0, types.HealthStatusDegraded: 1, types.HealthStatusDown: 2}
	if rank[b] > rank[a] {
		return b
	}
	return a
}

func (h *HealthService) CheckHealth(ctx context.Context) types.HealthCheck {
	components := make(map[string]types.HealthComponent)
	overallStatus := types.HealthStatusUp

	dbStatus := h.checkDatabase(ctx)
	components["database"] = dbStatus
	overallStatus = worse(overallStatus, dbStatus.Status)

	if h.redisClient != nil {
		redisStatus := h.checkRedis(ctx)
		components["redis"] = redisStatus
		overallStatus = worse(overallStatus, redisStatus.Status)
	}

	return types.HealthCheck{
		Status:     overallStatus,
		Components: components,
		Version:    h.version,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Uptime:     time.Since(h.startTime).Round(time.Second).String(),
	}
}

// IsReady reports whether the database answers a ping.
func (h *HealthService) IsReady(ctx context.Context) bool {
	return h.checkDatabase(ctx).Status != types.HealthStatusDown
}

func (h *HealthService) checkDatabase(ctx context.Context) types.HealthComponent {
	if err := h.db.Ping(ctx); err != nil {
		h.log.Errorw("Database health check failed", "error", err)
		return types.HealthComponent{
			Status:  types.HealthStatusDown,
			Details: "Database connection failed",
		}
	}

	if h.poolStats != nil {
		acquired, max := h.poolStats()
		if max > 0 && float64(acquired)/float64(max) > 0.8 {
			return types.HealthComponent{
				Status:  types.HealthStatusDegraded,
				Details: "Connection pool near capacity",
			}
		}
	}

	return types.HealthComponent{
		Status: types.HealthStatusUp,
	}
}

func (h *HealthService) checkRedis(ctx context.Context) types.HealthComponent {
	if err := h.redisClient.Ping(ctx).Err(); err != nil {
		h.log.Errorw("Redis health check failed", "error", err)
		return types.HealthComponent{
			Status:  types.HealthStatusDown,
			Details: "Redis connection failed",
		}
	}

	return types.HealthComponent{
		Status: types.HealthStatusUp,
	}
}
