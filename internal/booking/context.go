package booking

import "context"

type contextKey string

const holdKey contextKey = "holdIdempotencyKey"

// WithIdempotencyKey attaches the client supplied key that makes a hold request safe to repeat.
func WithIdempotencyKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, holdKey, key)
}

func IdempotencyKeyFromContext(ctx context.Context) (string, bool) {
	key, ok := ctx.Value(holdKey).(string)

	return key, ok && key != ""
}
