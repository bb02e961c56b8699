package deps

import (
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/sniplink/internal/auth"
	"github.com/MrSnakeDoc/sniplink/internal/domain"
	"github.com/MrSnakeDoc/sniplink/internal/logger"
	"github.com/MrSnakeDoc/sniplink/internal/metrics"
	"github.com/MrSnakeDoc/sniplink/internal/scheduler"
)

const (
	CacheModeRedis  = "redis"
	CacheModeMemory = "memory"
)

type Deps struct {
	Logger         logger.Logger
	StartTime      time.Time
	Version        string
	Commit         string
	BuildDate      string
	GoVersion      string
	TimeNow        func() time.Time // for testing, defaults to time.Now
	AllowedHosts   []string         // Host headers allowed on operational endpoints
	AllowedCIDRS   []string         // IPs allowed to access readyz/infra/metrics/reload
	AllowedOrigins []string         // CORS origins allowed to call the API with credentials
	TrustProxy     bool             // true if running behind a trusted reverse proxy (e.g., cloudflared)
	BaseURL        string           // public origin for short and QR URLs, no trailing slash

	Repo      domain.LinkRepository // persistent link store
	DBDriver  string                // database/sql driver in use
	Cache     domain.LinkCache      // redirect lookup cache
	CacheMode string                // CacheModeRedis | CacheModeMemory
	Shortener *domain.Shortener
	Resolver  *domain.Resolver

	Auth          *auth.Manager
	LoginAttempts int // login attempts allowed per client per LoginWindow
	LoginWindow   time.Duration

	Metrics     *metrics.Metrics
	RedisClient *redis.Client // nil when the cache is in-memory

	LinksFile     string                   // links file path (empty = disabled)
	LinksReloader *scheduler.LinksReloader // nil when no links file
	ReloadTrigger chan struct{}            // Channel to trigger manual links reload (nil if disabled)
}

// Now returns the current time through TimeNow when set.
func (d Deps) Now() time.Time {
	if d.TimeNow != nil {
		return d.TimeNow()
	}
	return time.Now()
}
