package main

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/google/uuid"
	"github.com/lambdajanitor/janitor/internal/logging"
)

// HandleScheduledEvent is the Lambda handler for scheduled events. A
// returned error marks the invocation as failed; the queue keeps the
// unfinished functions for the next invocation.
func (a *App) HandleScheduledEvent(ctx context.Context, event events.CloudWatchEvent) error {
	id := invocationID(ctx)
	logger := a.logger.WithInvocationID(id).With(map[string]any{"eventId": event.ID})

	ctx = logging.WithInvocationIDCtx(ctx, id)
	ctx = logging.WithLoggerCtx(ctx, logger)

	logger.Debugf("received scheduled event", map[string]any{
		"source":     event.Source,
		"detailType": event.DetailType,
		"time":       event.Time,
	})

	return a.Run(ctx)
}

// invocationID returns the Lambda request ID, or a fresh UUID outside the
// Lambda runtime.
func invocationID(ctx context.Context) string {
	if lc, ok := lambdacontext.FromContext(ctx); ok && lc.AwsRequestID != "" {
		return lc.AwsRequestID
	}
	return uuid.NewString()
}
