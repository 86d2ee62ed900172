package health

import (
	"context"
	"encoding/json"
	"runtime"
	"strconv"
	"time"

	"pcns-backend/internal/dataaccess"
	"pcns-backend/internal/middleware"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// DBPinger reports whether the database answers.
type DBPinger interface {
	Ping() error
}

// Service gathers health data. Every dependency is optional.
type Service struct {
	Rdb  *redis.Client
	DB   DBPinger
	Data dataaccess.Executor
}

// Result is the /health/json payload.
type Result struct {
	Status       string               `json:"status"`
	Runtime      RuntimeInfo          `json:"runtime"`
	Traffic      TrafficInfo          `json:"traffic"`
	Dependencies map[string]DepStatus `json:"dependencies"`
	Records      map[string]int64     `json:"records,omitempty"`
}

type RuntimeInfo struct {
	UptimeSeconds int64      `json:"uptimeSeconds"`
	Memory        MemoryInfo `json:"memory"`
	Goroutines    int        `json:"goroutines"`
	Platform      string     `json:"platform"`
	GoVersion     string     `json:"goVersion"`
}

type MemoryInfo struct {
	AllocMB  int `json:"allocMb"`
	HeapInMB int `json:"heapInUseMb"`
}

type TrafficInfo struct {
	TotalRequests   int              `json:"totalRequests"`
	SuccessCount    int              `json:"successCount"`
	FailedCount     int              `json:"failedCount"`
	SuccessRate     string           `json:"successRate"`
	AvgResponseTime interface{}      `json:"avgResponseTime"`
	LastRequest     interface{}      `json:"lastRequest"`
	Routes          map[string]int64 `json:"routes,omitempty"`
}

type DepStatus struct {
	Status string      `json:"status"`
	PingMs interface{} `json:"pingMs"`
}

// Collect gathers dependency status, traffic counters, runtime stats and, when the
// database is up, the number of live records per entity.
func (s *Service) Collect(ctx context.Context) Result {
	result := Result{
		Dependencies: make(map[string]DepStatus, 2),
		Traffic:      TrafficInfo{AvgResponseTime: 0, SuccessRate: "100"},
	}

	db := DepStatus{Status: "disconnected"}
	if s.DB != nil {
		db = ping(s.DB.Ping)
	}
	result.Dependencies["database"] = db

	cache := DepStatus{Status: "disconnected"}
	started := time.Now()
	if s.Rdb != nil {
		cache = ping(func() error { return s.Rdb.Ping(ctx).Err() })
		if cache.Status == "connected" {
			started = s.traffic(ctx, &result.Traffic, started)
		}
	}
	result.Dependencies["redis"] = cache

	if s.Data != nil && db.Status == "connected" {
		result.Records = s.records(ctx)
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	result.Runtime = RuntimeInfo{
		UptimeSeconds: max(int64(time.Since(started).Seconds()), 0),
		Memory:        MemoryInfo{AllocMB: int(m.Alloc >> 20), HeapInMB: int(m.HeapInuse >> 20)},
		Goroutines:    runtime.NumGoroutine(),
		Platform:      runtime.GOOS + " (" + runtime.GOARCH + ")",
		GoVersion:     runtime.Version(),
	}

	result.Status = "issue"
	if db.Status == "connected" && cache.Status == "connected" {
		result.Status = "ok"
	}
	return result
}

func ping(fn func() error) DepStatus {
	start := time.Now()
	if err := fn(); err != nil {
		return DepStatus{Status: "error"}
	}
	return DepStatus{Status: "connected", PingMs: time.Since(start).Milliseconds()}
}

// traffic reads the counters written by middleware.HealthMarker in one round trip
// and returns the recorded start time, seeding it when absent.
func (s *Service) traffic(ctx context.Context, stats *TrafficInfo, started time.Time) time.Time {
	vals, err := s.Rdb.MGet(ctx,
		middleware.KeyReqTotal,
		middleware.KeyReqErrors,
		middleware.KeyResTime,
		middleware.KeyResCount,
		middleware.KeyStartTime,
		middleware.KeyLastReq,
	).Result()
	if err != nil {
		log.Warn().Err(err).Msg("reading traffic counters failed")
		return started
	}
	str := func(i int) string {
		v, _ := vals[i].(string)
		return v
	}

	if ms, err := strconv.ParseInt(str(4), 10, 64); err == nil {
		started = time.UnixMilli(ms)
	} else {
		s.Rdb.Set(ctx, middleware.KeyStartTime, started.UnixMilli(), 0)
	}

	stats.TotalRequests, _ = strconv.Atoi(str(0))
	stats.FailedCount, _ = strconv.Atoi(str(1))
	stats.SuccessCount = stats.TotalRequests - stats.FailedCount
	if stats.TotalRequests > 0 {
		stats.SuccessRate = strconv.FormatFloat(float64(stats.SuccessCount)/float64(stats.TotalRequests)*100, 'f', 1, 64)
	}
	elapsed, _ := strconv.ParseFloat(str(2), 64)
	if n, _ := strconv.Atoi(str(3)); n > 0 {
		stats.AvgResponseTime = strconv.FormatFloat(elapsed/float64(n), 'f', 2, 64)
	}
	if raw := str(5); raw != "" {
		var last map[string]any
		if json.Unmarshal([]byte(raw), &last) == nil {
			stats.LastRequest = last
		}
	}
	if hits, err := s.Rdb.HGetAll(ctx, middleware.KeyRouteHits).Result(); err == nil && len(hits) > 0 {
		stats.Routes = make(map[string]int64, len(hits))
		for route, n := range hits {
			stats.Routes[route], _ = strconv.ParseInt(n, 10, 64)
		}
	}
	return started
}

func (s *Service) records(ctx context.Context) map[string]int64 {
	out := make(map[string]int64)
	for _, e := range dataaccess.Entities() {
		res, err := s.Data.Execute(ctx, e, dataaccess.Find{Op: dataaccess.KindCount})
		if err != nil {
			log.Warn().Err(err).Str("entity", string(e)).Msg("health record count failed")
			continue
		}
		out[string(e)] = res.Count
	}
	return out
}
