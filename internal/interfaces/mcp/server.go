// Package mcp exposes the expense workflow operations as MCP tools so an
// assistant can drive submissions, approvals and payments.
package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/garyjia/expense-approvals/internal/application/service"
)

// Logger interface for logging operations
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// Config names the server in the MCP handshake
type Config struct {
	Name    string
	Version string
}

// Services groups the application services the tools call
type Services struct {
	Expenses service.ExpenseService
	Payments service.PaymentService
	Queries  service.QueryService
}

// NewServer builds an MCP server with every expense tool registered
func NewServer(cfg Config, services Services, logger Logger) (*mcp.Server, error) {
	server := mcp.NewServer(&mcp.Implementation{Name: cfg.Name, Version: cfg.Version}, nil)
	registerTools(server, newTools(services, logger))
	return server, nil
}

// Run serves the tools over stdio until ctx is cancelled or the client disconnects
func Run(ctx context.Context, cfg Config, services Services, logger Logger) error {
	server, err := NewServer(cfg, services, logger)
	if err != nil {
		return err
	}

	logger.Info("Starting MCP server", "name", cfg.Name, "version", cfg.Version, "transport", "stdio")
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	logger.Info("MCP server stopped")
	return nil
}
