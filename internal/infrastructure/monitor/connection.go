package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	redislib "github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/Poco-dev/todo-bot/internal/botstate"
)

// Monitor periodically probes the service's backing connections. Its snapshot
// feeds the /api/status and /health endpoints.
type Monitor struct {
	pg       *pgxpool.Pool
	redis    *redislib.Client
	botState *botstate.Store

	status   Status
	mu       sync.RWMutex
	interval time.Duration
	cron     *cron.Cron
	logger   *zap.Logger
}

func New(pg *pgxpool.Pool, redis *redislib.Client, botState *botstate.Store, interval time.Duration, logger *zap.Logger) *Monitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Monitor{
		pg:       pg,
		redis:    redis,
		botState: botState,
		interval: interval,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger,
	}

	// Duration.String keeps sub-second intervals parseable, "500ms" and so on.
	schedule := fmt.Sprintf("@every %s", interval)
	if _, err := m.cron.AddFunc(schedule, m.refresh); err != nil {
		m.logger.Error("failed to schedule connection checks",
			zap.String("schedule", schedule), zap.Error(err))
	}

	return m
}

// Start takes an immediate snapshot and schedules periodic refreshes.
func (m *Monitor) Start() {
	m.refresh()
	m.cron.Start()
}

// Stop halts the scheduler, waiting for an in-flight refresh to finish.
func (m *Monitor) Stop() {
	<-m.cron.Stop().Done()
}

// IsOnline reports whether the primary task store is reachable.
func (m *Monitor) IsOnline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status.Postgres
}

func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

func (m *Monitor) refresh() {
	status := Status{
		Postgres:  m.checkPostgres(),
		Redis:     m.checkRedis(),
		BotState:  m.checkBotState(),
		LastCheck: time.Now(),
	}

	if !status.Postgres {
		m.logger.Warn("task store unreachable")
	}

	m.mu.Lock()
	m.status = status
	m.mu.Unlock()
}

func (m *Monitor) checkPostgres() bool {
	if m.pg == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	return m.pg.Ping(ctx) == nil
}

func (m *Monitor) checkRedis() bool {
	if m.redis == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return m.redis.Ping(ctx).Err() == nil
}

func (m *Monitor) checkBotState() bool {
	if m.botState == nil {
		return false
	}
	return m.botState.Ping() == nil
}
