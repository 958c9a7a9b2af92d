// Package requestctx carries the authenticated account through request
// contexts.
package requestctx

import (
	"context"
	"strings"
)

type accountEmailKey struct{}

// WithAccountEmail stores the signed-in account email in ctx. The email is
// trimmed and lowercased so lookups are case-insensitive.
func WithAccountEmail(ctx context.Context, email string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, accountEmailKey{}, strings.ToLower(strings.TrimSpace(email)))
}

// AccountEmail returns the account email stored in ctx, or "".
func AccountEmail(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(accountEmailKey{}).(string)
	return value
}
