package protocol

import "context"

type contextKey string

const executionIDKey contextKey = "execution_id"

// WithExecutionID returns a context carrying the host's execution ID.
func WithExecutionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, executionIDKey, id)
}

// ExecutionID returns the execution ID carried by ctx, if any.
func ExecutionID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(executionIDKey).(string)

	return id, ok && id != ""
}
