package commands

import (
	"context"
	"time"

	command "github.com/goliatone/go-command"

	"github.com/inkpress/inkpress/internal/logging"
	"github.com/inkpress/inkpress/pkg/interfaces"
)

// defaultTimeout bounds a single run. Site builds and checks finish well
// inside it; a stuck handler should not hang the CLI indefinitely.
const defaultTimeout = 30 * time.Second

// Handler adapts a run function to go-command's Commander contract, adding
// message validation, a bounded context, scoped logging, and error tagging.
type Handler[T command.Message] struct {
	run       command.CommandFunc[T]
	logger    interfaces.Logger
	timeout   time.Duration
	operation string
}

// HandlerOption configures a Handler.
type HandlerOption[T command.Message] func(*Handler[T])

// WithTimeout replaces the default run deadline. Zero or negative disables
// the bound entirely.
func WithTimeout[T command.Message](timeout time.Duration) HandlerOption[T] {
	return func(h *Handler[T]) {
		if timeout <= 0 {
			timeout = 0
		}
		h.timeout = timeout
	}
}

// WithLogger injects the logger scoped to each run. Nil restores the no-op
// default.
func WithLogger[T command.Message](logger interfaces.Logger) HandlerOption[T] {
	return func(h *Handler[T]) {
		if logger == nil {
			logger = logging.NoOp()
		}
		h.logger = logger
	}
}

// WithOperation names the operation in every log entry the handler emits.
func WithOperation[T command.Message](operation string) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.operation = operation
	}
}

// NewHandler wraps fn as a command.Commander implementation.
func NewHandler[T command.Message](fn command.CommandFunc[T], opts ...HandlerOption[T]) *Handler[T] {
	if fn == nil {
		panic("commands: handler function cannot be nil")
	}
	h := &Handler[T]{
		run:     fn,
		logger:  logging.NoOp(),
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Execute validates the message, applies the run deadline, and delegates to
// the wrapped function. Failures come back categorized through go-errors so
// callers can match on category and text code.
func (h *Handler[T]) Execute(ctx context.Context, msg T) error {
	if err := command.ValidateMessage(msg); err != nil {
		return wrapValidationError(err)
	}

	if ctx == nil {
		ctx = context.Background()
	}
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}
	if err := ctx.Err(); err != nil {
		return wrapContextError(err)
	}

	logger := h.runLogger(msg)
	logger.Debug("run start")

	if err := h.run(ctx, msg); err != nil {
		logger.Error("run failed", "error", err)
		return wrapExecuteError(err)
	}
	if err := ctx.Err(); err != nil {
		logger.Error("run interrupted", "error", err)
		return wrapContextError(err)
	}

	logger.Info("run complete")
	return nil
}

// runLogger scopes the handler logger with the message type and, when set,
// the operation name.
func (h *Handler[T]) runLogger(msg T) interfaces.Logger {
	fields := map[string]any{
		"message": command.GetMessageType(msg),
	}
	if h.operation != "" {
		fields["operation"] = h.operation
	}
	return logging.WithFields(h.logger, fields)
}
