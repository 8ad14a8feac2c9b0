package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"

	"owners-health-api/internal/cache"
	"owners-health-api/internal/logging"
	"owners-health-api/internal/service"
	"owners-health-api/pkg/response"
)

// StatsSource reports row counts of the record store.
type StatsSource interface {
	Stats(ctx context.Context) (map[string]interface{}, error)
}

// CacheStats is implemented by caches that can report their size.
type CacheStats interface {
	Len() int
}

// AdminHandler handles admin-related HTTP requests.
type AdminHandler struct {
	store     StatsSource
	storeType string
	cacheType string
	cache     cache.Cache
	sweeper   *service.RetentionSweeper
	startTime time.Time
	log       *logrus.Entry
}

// NewAdminHandler creates a new admin handler. The cache entry count is
// reported only when c implements CacheStats.
func NewAdminHandler(store StatsSource, storeType, cacheType string, c cache.Cache, sweeper *service.RetentionSweeper, logger logrus.FieldLogger) *AdminHandler {
	return &AdminHandler{
		store:     store,
		storeType: storeType,
		cacheType: cacheType,
		cache:     c,
		sweeper:   sweeper,
		startTime: time.Now(),
		log:       logging.Component(logger, "AdminHandler"),
	}
}

// GetStats handles GET /api/v1/admin/stats
func (h *AdminHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	stats := make(map[string]interface{})

	// System info
	stats["uptime_seconds"] = int64(time.Since(h.startTime).Seconds())
	stats["uptime_human"] = time.Since(h.startTime).Round(time.Second).String()
	stats["server_time"] = time.Now().Format(time.RFC3339)

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	stats["memory"] = map[string]interface{}{
		"alloc_mb":      float64(memStats.Alloc) / 1024 / 1024,
		"sys_mb":        float64(memStats.Sys) / 1024 / 1024,
		"heap_inuse_mb": float64(memStats.HeapInuse) / 1024 / 1024,
		"num_gc":        memStats.NumGC,
		"goroutines":    runtime.NumGoroutine(),
	}

	storeStats := map[string]interface{}{"type": h.storeType}
	if h.store != nil {
		counts, err := h.store.Stats(ctx)
		if err == nil {
			for k, v := range counts {
				storeStats[k] = v
			}
			storeStats["status"] = "connected"
		} else {
			storeStats["status"] = "error"
			storeStats["error"] = err.Error()
		}
	} else {
		storeStats["status"] = "not_configured"
	}
	stats["store"] = storeStats

	cacheStats := map[string]interface{}{"type": h.cacheType}
	if c, ok := h.cache.(CacheStats); ok {
		cacheStats["entries"] = c.Len()
	}
	stats["cache"] = cacheStats

	stats["runtime"] = map[string]interface{}{
		"go_version": runtime.Version(),
		"os":         runtime.GOOS,
		"arch":       runtime.GOARCH,
		"cpus":       runtime.NumCPU(),
	}

	response.OK(w, stats)
}

// RunRetention handles POST /api/v1/admin/retention/run
func (h *AdminHandler) RunRetention(w http.ResponseWriter, r *http.Request) {
	if h.sweeper == nil {
		response.NoContent(w)
		return
	}

	res, err := h.sweeper.RunNow(r.Context())
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	h.log.WithFields(logrus.Fields{"history": res.History, "todo_events": res.TodoEvents}).Info("manual retention sweep")
	response.OK(w, res)
}

// PurgeCache handles DELETE /api/v1/admin/cache
func (h *AdminHandler) PurgeCache(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		response.NoContent(w)
		return
	}

	if err := h.cache.Clear(r.Context()); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	h.log.WithField("cache", h.cacheType).Info("cache purged")
	response.OK(w, map[string]interface{}{"cache": h.cacheType, "purged": true})
}
