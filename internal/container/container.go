// Package container wires the expense approval components together and owns
// their lifecycle.
package container

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/garyjia/expense-approvals/internal/application/dispatcher"
	"github.com/garyjia/expense-approvals/internal/config"
	httpapi "github.com/garyjia/expense-approvals/internal/interfaces/http"
	mcpapi "github.com/garyjia/expense-approvals/internal/interfaces/mcp"
	"github.com/garyjia/expense-approvals/internal/infrastructure/persistence/sqlite"
	"github.com/garyjia/expense-approvals/internal/observability"
	"github.com/garyjia/expense-approvals/internal/voucher"
	"github.com/garyjia/expense-approvals/pkg/utils"
)

// Container holds every initialized component. Components are built in
// dependency order by Start and torn down in reverse by Close.
type Container struct {
	config *config.Config
	logger *zap.Logger

	// Infrastructure
	store *StoreBundle

	// Application
	dispatcher dispatcher.Dispatcher
	services   *ServiceBundle
	vouchers   *voucher.Generator
	metrics    *observability.Metrics

	// Interfaces
	httpServer *httpapi.Server

	mu     sync.Mutex
	ready  atomic.Bool
	closed atomic.Bool
}

// HealthStatus represents the health of all components
type HealthStatus struct {
	Overall    bool                       `json:"overall"`
	Components map[string]ComponentHealth `json:"components"`
}

// ComponentHealth represents health of a single component
type ComponentHealth struct {
	Healthy bool   `json:"healthy"`
	Message string `json:"message,omitempty"`
}

// NewContainer creates a container from configuration. Call Start to build the components.
func NewContainer(cfg *config.Config, logger *zap.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Container{
		config: cfg,
		logger: logger,
	}, nil
}

// Start initializes all components
func (c *Container) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container has been closed")
	}
	if c.ready.Load() {
		return fmt.Errorf("container already started")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	c.logger.Info("Starting container initialization")

	store, err := ProvideStore(c.config.Store, c.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	c.store = store

	c.dispatcher = ProvideDispatcher(c.logger)
	c.metrics = ProvideMetrics(c.dispatcher)
	c.services = ProvideServices(&ServiceDeps{
		Config:     c.config,
		Store:      store.Store,
		Dispatcher: c.dispatcher,
		Logger:     c.logger,
	})
	c.vouchers = ProvideVoucherGenerator(c.config.Voucher, store.Store, c.dispatcher, c.logger)

	c.httpServer = httpapi.NewServer(httpapi.ServerConfig{
		Host:         c.config.Server.Host,
		Port:         c.config.Server.Port,
		Mode:         c.config.Server.Mode,
		ReadTimeout:  c.config.Server.ReadTimeout,
		WriteTimeout: c.config.Server.WriteTimeout,
		Version:      c.config.Server.Version,
	}, httpapi.Services{
		Expenses: c.services.Expenses,
		Payments: c.services.Payments,
		Queries:  c.services.Queries,
		Vouchers: c.vouchers,
	}, c.metrics, utils.NewSugaredAdapter(c.logger.Named("http")))

	c.ready.Store(true)
	c.logger.Info("Container started successfully")
	return nil
}

// Close shuts down all components in reverse order
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container already closed")
	}
	c.logger.Info("Closing container")

	var errs []error

	if c.dispatcher != nil {
		if err := c.dispatcher.Close(); err != nil {
			c.logger.Error("Failed to close dispatcher", zap.Error(err))
			errs = append(errs, fmt.Errorf("close dispatcher: %w", err))
		}
	}

	if db := c.sqliteDB(); db != nil {
		if err := db.Close(); err != nil {
			c.logger.Error("Failed to close database", zap.Error(err))
			errs = append(errs, fmt.Errorf("close database: %w", err))
		} else {
			c.logger.Info("Database closed")
		}
	}

	c.closed.Store(true)
	c.ready.Store(false)

	if len(errs) > 0 {
		return fmt.Errorf("container closed with %d errors", len(errs))
	}
	c.logger.Info("Container closed successfully")
	return nil
}

// Ready returns true when all components are initialized
func (c *Container) Ready() bool {
	return c.ready.Load()
}

// Health returns health status of all components
func (c *Container) Health(ctx context.Context) *HealthStatus {
	status := &HealthStatus{
		Overall:    true,
		Components: make(map[string]ComponentHealth),
	}
	set := func(name string, healthy bool, msg string) {
		status.Components[name] = ComponentHealth{Healthy: healthy, Message: msg}
		if !healthy {
			status.Overall = false
		}
	}

	switch {
	case c.store == nil:
		set("store", false, "not initialized")
	case c.store.DB != nil:
		if err := c.store.DB.PingContext(ctx); err != nil {
			set("store", false, fmt.Sprintf("ping failed: %v", err))
		} else {
			set("store", true, config.DriverSQLite)
		}
	default:
		set("store", true, config.DriverMemory)
	}

	if c.dispatcher != nil {
		set("dispatcher", true, "")
	} else {
		set("dispatcher", false, "not initialized")
	}

	return status
}

// HTTPServer returns the HTTP server adapter
func (c *Container) HTTPServer() *httpapi.Server {
	return c.httpServer
}

// MCPServices returns the services exposed as MCP tools
func (c *Container) MCPServices() mcpapi.Services {
	return mcpapi.Services{
		Expenses: c.services.Expenses,
		Payments: c.services.Payments,
		Queries:  c.services.Queries,
	}
}

// Services returns the application services
func (c *Container) Services() *ServiceBundle {
	return c.services
}

// Vouchers returns the voucher exporter
func (c *Container) Vouchers() *voucher.Generator {
	return c.vouchers
}

// Metrics returns the metrics registry
func (c *Container) Metrics() *observability.Metrics {
	return c.metrics
}

func (c *Container) sqliteDB() *sqlite.DB {
	if c.store == nil {
		return nil
	}
	return c.store.DB
}
