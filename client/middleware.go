package client

import (
	"context"
	"log/slog"
	"time"
)

// Operation names the kind of host call a QueryEvent describes.
type Operation string

const (
	OpLoad    Operation = "load"
	OpExecute Operation = "execute"
	OpBatch   Operation = "batch"
	OpCommit  Operation = "commit"
)

// QueryEvent describes one host round trip.
type QueryEvent struct {
	Operation    Operation
	SQL          string
	Binds        int
	Statements   int
	TraceID      string
	ConnectionID string
	Timestamp    time.Time
	// Duration is set once the call has returned.
	Duration time.Duration
	// RowsAffected is set for execute, batch and commit. For batches it is
	// the sum over every statement.
	RowsAffected int64
}

// Next is the function to call to continue the middleware chain.
type Next func(ctx context.Context, ev *QueryEvent) error

// Middleware is a function that can intercept a host call.
type Middleware func(ctx context.Context, ev *QueryEvent, next Next) error

// middlewareChain manages a chain of middleware.
type middlewareChain struct {
	middlewares []Middleware
}

// Use adds middleware to the chain.
func (mc *middlewareChain) Use(mw ...Middleware) {
	mc.middlewares = append(mc.middlewares, mw...)
}

// execute runs the middleware chain and the final handler.
func (mc *middlewareChain) execute(ctx context.Context, ev *QueryEvent, handler Next) error {
	ev.Timestamp = time.Now()

	index := 0
	var next Next
	next = func(ctx context.Context, ev *QueryEvent) error {
		if index < len(mc.middlewares) {
			mw := mc.middlewares[index]
			index++
			return mw(ctx, ev, next)
		}
		err := handler(ctx, ev)
		ev.Duration = time.Since(ev.Timestamp)
		return err
	}

	return next(ctx, ev)
}

// LoggingMiddleware creates a middleware that logs host calls.
func LoggingMiddleware(logger *slog.Logger) Middleware {
	return func(ctx context.Context, ev *QueryEvent, next Next) error {
		logger.DebugContext(ctx, "query started",
			"op", ev.Operation,
			"sql", ev.SQL,
			"binds", ev.Binds,
			"trace_id", ev.TraceID,
		)

		err := next(ctx, ev)

		if err != nil {
			logger.ErrorContext(ctx, "query failed",
				"op", ev.Operation,
				"duration", ev.Duration,
				"trace_id", ev.TraceID,
				"error", err,
			)
		} else {
			logger.InfoContext(ctx, "query completed",
				"op", ev.Operation,
				"duration", ev.Duration,
				"rows_affected", ev.RowsAffected,
				"trace_id", ev.TraceID,
			)
		}

		return err
	}
}

// TimingMiddleware reports every completed host call to record.
func TimingMiddleware(record func(ev QueryEvent, err error)) Middleware {
	return func(ctx context.Context, ev *QueryEvent, next Next) error {
		err := next(ctx, ev)
		record(*ev, err)
		return err
	}
}
