package apiclient

import "context"

type attemptKey struct{}

// maxAttempts caps how many times one logical request is dispatched.
const maxAttempts = 2

func withAttempt(ctx context.Context, attempt int) context.Context {
	return context.WithValue(ctx, attemptKey{}, attempt)
}

// attemptFrom returns the zero based dispatch attempt carried by ctx.
func attemptFrom(ctx context.Context) int {
	if n, ok := ctx.Value(attemptKey{}).(int); ok {
		return n
	}
	return 0
}
