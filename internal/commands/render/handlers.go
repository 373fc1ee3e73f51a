package rendercmd

import (
	"context"
	"errors"

	command "github.com/goliatone/go-command"
	"github.com/google/uuid"

	"github.com/goliatone/go-parsers/internal/commands"
	"github.com/goliatone/go-parsers/internal/dispatch"
	"github.com/goliatone/go-parsers/internal/logging"
	"github.com/goliatone/go-parsers/pkg/interfaces"
)

const renderOperation = "render"

var _ command.Commander[RenderCommand] = (*RenderHandler)(nil)

// RenderHandler runs RenderCommand messages against a RenderService.
type RenderHandler struct {
	inner *commands.Handler[RenderCommand]
}

// NewRenderHandler creates a handler bound to the supplied service.
func NewRenderHandler(service interfaces.RenderService, logger interfaces.Logger, opts ...commands.HandlerOption[RenderCommand]) *RenderHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg RenderCommand) error {
		if service == nil {
			return errors.New("render command: no render service configured")
		}

		requestID := msg.RequestID
		if requestID == "" {
			requestID = uuid.NewString()
		}
		ctx = logging.ContextWithFields(ctx, map[string]any{"request_id": requestID})

		runner, err := service.Adapter(msg.Backend)
		if err != nil {
			return dispatch.TagRequest(err, requestID)
		}

		options := interfaces.Options(msg.Options).Clone()
		var output any
		if msg.File {
			output, err = runner.CallFileAny(ctx, msg.Input, options)
		} else {
			output, err = runner.CallAny(ctx, msg.Input, options)
		}
		if err != nil {
			return dispatch.TagRequest(err, requestID)
		}

		logging.WithFields(baseLogger, map[string]any{
			"backend":    runner.Name(),
			"request_id": requestID,
		}).Debug("render.command.completed")

		if msg.OnResult != nil {
			msg.OnResult(output)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[RenderCommand]{
		commands.WithLogger[RenderCommand](baseLogger),
		commands.WithOperation[RenderCommand](renderOperation),
		commands.WithMessageFields[RenderCommand](func(msg RenderCommand) map[string]any {
			fields := map[string]any{
				"backend": msg.Backend,
			}
			if msg.File {
				fields["path"] = msg.Input
			}
			if msg.RequestID != "" {
				fields["request_id"] = msg.RequestID
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[RenderCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &RenderHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[RenderCommand].
func (h *RenderHandler) Execute(ctx context.Context, msg RenderCommand) error {
	return h.inner.Execute(ctx, msg)
}
