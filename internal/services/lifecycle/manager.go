package lifecycle

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"
)

// ShutdownFunc releases the resources held by one component.
type ShutdownFunc func(ctx context.Context) error

type closer struct {
	component string
	stop      ShutdownFunc
}

// Manager tears the process down in the opposite order to startup: the bot
// and HTTP server first, the stores they depend on last.
type Manager struct {
	timeout time.Duration
	logger  *zap.Logger

	mu      sync.Mutex
	closers []closer
}

func New(timeout time.Duration, logger *zap.Logger) *Manager {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{timeout: timeout, logger: logger}
}

// Register records a teardown step. Call it right after the component starts.
func (m *Manager) Register(name string, fn ShutdownFunc) {
	if fn == nil {
		return
	}
	m.mu.Lock()
	m.closers = append(m.closers, closer{component: name, stop: fn})
	m.mu.Unlock()
}

// Shutdown runs every registered step newest-first under a shared deadline.
// A failing step is logged and does not block the remaining ones.
func (m *Manager) Shutdown(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	m.mu.Lock()
	closers := make([]closer, len(m.closers))
	copy(closers, m.closers)
	m.mu.Unlock()

	var result *multierror.Error
	for i := len(closers) - 1; i >= 0; i-- {
		c := closers[i]
		if err := c.stop(ctx); err != nil {
			m.logger.Error("teardown step failed",
				zap.String("component", c.component), zap.Error(err))
			result = multierror.Append(result, err)
			continue
		}
		m.logger.Info("stopped", zap.String("component", c.component))
	}
	return result.ErrorOrNil()
}

// Listen arranges for cancel to fire on SIGTERM or SIGINT.
func (m *Manager) Listen(cancel context.CancelFunc) {
	if cancel == nil {
		return
	}
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		defer signal.Stop(sigCh)
		sig := <-sigCh
		m.logger.Info("termination signal", zap.String("signal", sig.String()))
		cancel()
	}()
}
