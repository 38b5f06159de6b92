package chart

import (
	"context"
	"fmt"

	"budget/internal/log"
)

// UnavailableMessage is shown in place of the chart when rendering fails.
const UnavailableMessage = "Chart unavailable"

// Sink is a rendering backend. It receives the series and one color per label.
type Sink interface {
	Render(s Series, colors []string) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(s Series, colors []string) error

func (f SinkFunc) Render(s Series, colors []string) error {
	return f(s, colors)
}

// Display is the outcome of a draw as seen by the caller.
type Display struct {
	OK      bool
	Message string
}

// Draw renders s through sink. Errors and panics from the sink are contained
// and reported as a degraded Display; they never reach the caller.
func Draw(ctx context.Context, sink Sink, s Series, palette []string, logger *log.Logger) (d Display) {
	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.WithComponent(log.ComponentChart)

	defer func() {
		if r := recover(); r != nil {
			logger.ErrorContext(ctx, "Chart renderer panicked",
				log.FieldOperation, log.OpRender,
				log.FieldError, fmt.Sprint(r))
			d = Display{Message: UnavailableMessage}
		}
	}()

	if sink == nil {
		return Display{Message: UnavailableMessage}
	}

	if err := sink.Render(s, Colors(len(s.Labels), palette)); err != nil {
		logger.ErrorContext(ctx, "Chart render failed",
			log.FieldOperation, log.OpRender,
			log.FieldError, err)
		return Display{Message: UnavailableMessage}
	}
	return Display{OK: true}
}
