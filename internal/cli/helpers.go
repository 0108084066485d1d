// Package cli holds shared plumbing for the canopy commands.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/arvel0/canopy/internal/config"
	"github.com/arvel0/canopy/internal/logging"
	"github.com/arvel0/canopy/pkg/domain"
)

// NewSignalContext returns a context cancelled on SIGINT or SIGTERM.
func NewSignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// CreateLogger configures the application logger.
// In debug mode it writes to stderr so command output stays clean.
func CreateLogger(cfg config.Config, debug bool) *slog.Logger {
	if debug {
		return logging.New(slog.LevelDebug)
	}
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		return logging.New(slog.LevelDebug)
	case "warn":
		return logging.New(slog.LevelWarn)
	case "error":
		return logging.New(slog.LevelError)
	case "info":
		return logging.New(slog.LevelInfo)
	default:
		return logging.NewNop()
	}
}

// PrintSystemMessage prints a standardized system message to stdout.
func PrintSystemMessage(format string, args ...any) {
	fmt.Printf(">>> %s\n", fmt.Sprintf(format, args...))
}

// CreateDebugHooks logs every node and model lifecycle event.
func CreateDebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnNodeInvoke: func(ctx context.Context, e *domain.NodeEvent) {
			logger.Debug("Node Invoke", "node", e.Node, "invocation_id", e.InvocationID)
		},
		OnNodeReturn: func(ctx context.Context, e *domain.NodeEvent) {
			if e.IsError {
				logger.Debug("Node Return (Error)", "node", e.Node, "invocation_id", e.InvocationID)
			} else {
				logger.Debug("Node Return (Success)", "node", e.Node, "invocation_id", e.InvocationID)
			}
		},
		OnModelCall: func(ctx context.Context, e *domain.ModelEvent) {
			logger.Debug("Model Call", "model", e.Model, "node", e.Node)
		},
		OnModelReturn: func(ctx context.Context, e *domain.ModelEvent) {
			logger.Debug("Model Return", "model", e.Model, "elapsed", e.Elapsed, "is_error", e.IsError)
		},
	}
}
