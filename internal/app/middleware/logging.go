package middleware

import (
	"context"
	"log/slog"
	"time"

	"ratedesk/internal/app/commands"
	"ratedesk/internal/app/queries"
)

// CommandLogging logs every dispatched command with its outcome and duration.
func CommandLogging(logger *slog.Logger) CommandMiddleware {
	return func(next commands.Bus) commands.Bus {
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			start := time.Now()
			res, err := next.Dispatch(ctx, cmd)
			if logger != nil {
				if err != nil {
					logger.Warn("command failed", "key", cmd.Key(), "duration", time.Since(start), "error", err)
				} else {
					logger.Info("command handled", "key", cmd.Key(), "duration", time.Since(start))
				}
			}
			return res, err
		})
	}
}

// QueryLogging logs slow or failing queries; successful fast reads stay quiet
// because calendar grids issue them per cell.
func QueryLogging(logger *slog.Logger, slow time.Duration) QueryMiddleware {
	return func(next queries.Bus) queries.Bus {
		return queryFunc(func(ctx context.Context, q queries.Query) (any, error) {
			start := time.Now()
			res, err := next.Ask(ctx, q)
			elapsed := time.Since(start)
			if logger == nil {
				return res, err
			}
			if err != nil {
				logger.Warn("query failed", "key", q.Key(), "duration", elapsed, "error", err)
			} else if slow > 0 && elapsed >= slow {
				logger.Info("slow query", "key", q.Key(), "duration", elapsed)
			}
			return res, err
		})
	}
}
